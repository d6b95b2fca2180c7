package Grid2D

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

type State struct {
	Gamma Scalar         // Circulation at interior nodes
	Q     Flux           // Edge fluxes, consistent with Gamma through ComputeFlux
	F     BoundaryVector // Body forces at each marker
	Time  float64
	Step  int
}

func NewState(g *Grid, nPoints int) *State {
	return &State{
		Gamma: NewScalar(g),
		Q:     NewFlux(g),
		F:     NewBoundaryVector(nPoints),
	}
}

func (x *State) Grid() *Grid    { return x.Gamma.Grid() }
func (x *State) NumPoints() int { return x.F.NumPoints() }

func (x *State) Copy() *State {
	return &State{
		Gamma: x.Gamma.Copy(),
		Q:     x.Q.Copy(),
		F:     x.F.Copy(),
		Time:  x.Time,
		Step:  x.Step,
	}
}

// CopyFrom requires matching grids and marker counts, changes receiver
func (x *State) CopyFrom(a *State) *State {
	x.Gamma.CopyFrom(a.Gamma)
	x.Q.CopyFrom(a.Q)
	x.F.CopyFrom(a.F)
	x.Time, x.Step = a.Time, a.Step
	return x
}

// NetForce is the sum of the marker forces
func (x *State) NetForce() (fx, fy float64) {
	return x.F.Sum()
}

/*
	Restart files are little endian binary:

		Header   magic "IBPM", format version, grid dimensions and extent,
		         marker count, step and time
		Gamma    (Nx-1)*(Ny-1) float64
		Q        NumEdges float64
		F        2*NPoints float64
*/
const stateFormatVersion = 1

type stateHeader struct {
	Magic            [4]byte
	Version          uint32
	Nx, Ny, Ngrid    int32
	Length           float64
	XOffset, YOffset float64
	NPoints          int32
	Step             int64
	Time             float64
}

type GridMismatchError struct {
	Path                 string
	HaveNx, HaveNy       int
	WantNx, WantNy       int
	HaveNgrid, WantNgrid int
}

func (e *GridMismatchError) Error() string {
	return fmt.Sprintf("%s: grid %d x %d (ngrid %d) does not match %d x %d (ngrid %d)",
		e.Path, e.HaveNx, e.HaveNy, e.HaveNgrid, e.WantNx, e.WantNy, e.WantNgrid)
}

func (x *State) Write(w io.Writer) (err error) {
	g := x.Grid()
	hdr := stateHeader{
		Magic:   [4]byte{'I', 'B', 'P', 'M'},
		Version: stateFormatVersion,
		Nx:      int32(g.Nx), Ny: int32(g.Ny), Ngrid: int32(g.Ngrid),
		Length:  g.Length, XOffset: g.XOffset, YOffset: g.YOffset,
		NPoints: int32(x.NumPoints()),
		Step:    int64(x.Step),
		Time:    x.Time,
	}
	for _, chunk := range []any{hdr, x.Gamma.Data(), x.Q.Data(), x.F.Data()} {
		if err = binary.Write(w, binary.LittleEndian, chunk); err != nil {
			return
		}
	}
	return
}

// Save writes the state to path and reports success
func (x *State) Save(path string) bool {
	return x.SaveFile(path) == nil
}

func (x *State) SaveFile(path string) (err error) {
	var (
		file *os.File
	)
	if file, err = os.Create(path); err != nil {
		return
	}
	w := bufio.NewWriter(file)
	if err = x.Write(w); err != nil {
		file.Close()
		return
	}
	if err = w.Flush(); err != nil {
		file.Close()
		return
	}
	return file.Close()
}

// ReadState reads a state stored on a grid matching g, the marker count is taken from the file
func ReadState(path string, g *Grid) (x *State, err error) {
	var (
		file *os.File
		hdr  stateHeader
	)
	if file, err = os.Open(path); err != nil {
		return
	}
	defer file.Close()
	r := bufio.NewReader(file)
	if err = binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		err = fmt.Errorf("%s: reading header: %w", path, err)
		return
	}
	if string(hdr.Magic[:]) != "IBPM" || hdr.Version != stateFormatVersion {
		err = fmt.Errorf("%s: not an IBPM state file", path)
		return
	}
	if int(hdr.Nx) != g.Nx || int(hdr.Ny) != g.Ny || int(hdr.Ngrid) != g.Ngrid {
		err = &GridMismatchError{
			Path:   path,
			HaveNx: int(hdr.Nx), HaveNy: int(hdr.Ny), HaveNgrid: int(hdr.Ngrid),
			WantNx: g.Nx, WantNy: g.Ny, WantNgrid: g.Ngrid,
		}
		return
	}
	if hdr.NPoints < 0 {
		err = fmt.Errorf("%s: invalid marker count %d", path, hdr.NPoints)
		return
	}
	x = NewState(g, int(hdr.NPoints))
	for _, chunk := range [][]float64{x.Gamma.Data(), x.Q.Data(), x.F.Data()} {
		if err = binary.Read(r, binary.LittleEndian, chunk); err != nil {
			x = nil
			err = fmt.Errorf("%s: reading fields: %w", path, err)
			return
		}
	}
	x.Step, x.Time = int(hdr.Step), hdr.Time
	return
}

// Load replaces the receiver with the state in path and reports success.
// Forces are zeroed when the file was written with a different number of markers.
func (x *State) Load(path string) bool {
	y, err := ReadState(path, x.Grid())
	if err != nil {
		return false
	}
	x.Gamma.CopyFrom(y.Gamma)
	x.Q.CopyFrom(y.Q)
	if y.NumPoints() == x.NumPoints() {
		x.F.CopyFrom(y.F)
	} else {
		x.F.Zero()
	}
	x.Time, x.Step = y.Time, y.Step
	return true
}
