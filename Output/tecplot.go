package Output

import (
	"bufio"
	"fmt"
	"os"

	"github.com/notargets/ibpm/Grid2D"
)

/*
	Tecplot writes an ASCII point format file over the interior nodes with the variables
	x, y, u, v and vorticity. Velocities are edge fluxes averaged to the nodes and divided
	by the cell size. File name and title are formed by formatting the step into the patterns.
*/
type Tecplot struct {
	pattern, title string
}

func NewTecplot(pattern, title string) *Tecplot {
	return &Tecplot{pattern: pattern, title: title}
}

func (t *Tecplot) Name() string   { return "tecplot" }
func (t *Tecplot) Init() error    { return nil }
func (t *Tecplot) Cleanup() error { return nil }

func (t *Tecplot) FileName(step int) string { return fmt.Sprintf(t.pattern, step) }

func (t *Tecplot) Write(x *Grid2D.State) (err error) {
	var (
		file *os.File
	)
	if file, err = os.Create(t.FileName(x.Step)); err != nil {
		return
	}
	w := bufio.NewWriter(file)
	if err = WriteTecplot(w, fmt.Sprintf(t.title, x.Step), x); err != nil {
		file.Close()
		return
	}
	if err = w.Flush(); err != nil {
		file.Close()
		return
	}
	return file.Close()
}

func WriteTecplot(w *bufio.Writer, title string, x *Grid2D.State) (err error) {
	var (
		g       = x.Grid()
		inv2dx  = 0.5 / g.Dx
		invDxSq = 1. / (g.Dx * g.Dx)
	)
	fmt.Fprintf(w, "TITLE = \"%s\"\n", title)
	fmt.Fprintf(w, "VARIABLES = \"x\" \"y\" \"u\" \"v\" \"Vorticity\"\n")
	fmt.Fprintf(w, "ZONE T=\"Grid 1\", I=%d, J=%d, F=POINT, SOLUTIONTIME=%.8g\n", g.Nx-1, g.Ny-1, x.Time)
	for j := 1; j < g.Ny; j++ {
		for i := 1; i < g.Nx; i++ {
			var (
				u = inv2dx * (x.Q.X(i, j-1) + x.Q.X(i, j))
				v = inv2dx * (x.Q.Y(i-1, j) + x.Q.Y(i, j))
			)
			if _, err = fmt.Fprintf(w, "%.8e %.8e %.8e %.8e %.8e\n",
				g.X(i), g.Y(j), u, v, invDxSq*x.Gamma.At(i, j)); err != nil {
				return
			}
		}
	}
	return
}
