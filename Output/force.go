package Output

import (
	"bufio"
	"fmt"
	"os"

	"github.com/notargets/ibpm/Grid2D"
)

// Force appends one line per write to a history file: step, time, x force, y force
type Force struct {
	path string
	file *os.File
	w    *bufio.Writer
}

func NewForce(path string) *Force {
	return &Force{path: path}
}

func (f *Force) Name() string { return "force" }

func (f *Force) Init() (err error) {
	if f.file, err = os.Create(f.path); err != nil {
		return
	}
	f.w = bufio.NewWriter(f.file)
	return
}

// BodyForce is the force on the bodies, twice the sum of the marker forces
func BodyForce(x *Grid2D.State) (fx, fy float64) {
	fx, fy = x.NetForce()
	return 2 * fx, 2 * fy
}

func (f *Force) Write(x *Grid2D.State) (err error) {
	if f.w == nil {
		return fmt.Errorf("force history %s is not open", f.path)
	}
	fx, fy := BodyForce(x)
	if _, err = fmt.Fprintf(f.w, "%5d %.5e %.5e %.5e\n", x.Step, x.Time, fx, fy); err != nil {
		return
	}
	// Flushed every write so the history survives an aborted run
	return f.w.Flush()
}

func (f *Force) Cleanup() (err error) {
	if f.file == nil {
		return
	}
	if err = f.w.Flush(); err != nil {
		f.file.Close()
		return
	}
	err = f.file.Close()
	f.file, f.w = nil, nil
	return
}
