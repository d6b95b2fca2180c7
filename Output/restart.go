package Output

import (
	"fmt"

	"github.com/notargets/ibpm/Grid2D"
)

// Persister is the part of a time stepper that keeps history between runs
type Persister interface {
	Save(basename string) bool
}

/*
	Restart writes the State to a file named by formatting the step into pattern, for
	example "out/cylinder%05d.bin". When a stepper is attached its history is saved under
	basename so that a later run can resume from the same files.
*/
type Restart struct {
	pattern  string
	basename string
	stepper  Persister
}

func NewRestart(pattern, basename string, stepper Persister) *Restart {
	return &Restart{pattern: pattern, basename: basename, stepper: stepper}
}

func (r *Restart) Name() string   { return "restart" }
func (r *Restart) Init() error    { return nil }
func (r *Restart) Cleanup() error { return nil }

func (r *Restart) FileName(step int) string { return fmt.Sprintf(r.pattern, step) }

func (r *Restart) Write(x *Grid2D.State) (err error) {
	if err = x.SaveFile(r.FileName(x.Step)); err != nil {
		return
	}
	if r.stepper != nil && !r.stepper.Save(r.basename) {
		err = fmt.Errorf("saving timestepper history to %s", r.basename)
	}
	return
}
