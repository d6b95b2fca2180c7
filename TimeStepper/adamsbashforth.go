package TimeStepper

import (
	"github.com/notargets/ibpm/Grid2D"
	"github.com/notargets/ibpm/model_problems/NavierStokes2D"
	"github.com/notargets/ibpm/types"
)

/*
	AdamsBashforth is second order Adams-Bashforth for the nonlinear term and
	Crank-Nicolson for the linear term:

		(1 - h/2 L) gamma^n+1 + h B f^n+1 = (1 + h/2 L) gamma^n + h (3/2 N(x^n) - 1/2 N(x^n-1))
		C gamma^n+1                       = b^n+1

	Without a previous state the step is taken with explicit Euler. The previous state is
	the history written by Save to <basename>.ab2.
*/
type AdamsBashforth struct {
	*timeStepper
	eig        Grid2D.Scalar
	solver     NavierStokes2D.ProjectionSolver
	xOld       *Grid2D.State
	nOld       Grid2D.Scalar
	hasHistory bool
}

func NewAdamsBashforth(model NavierStokes2D.Model, h float64, params NavierStokes2D.SolverParams) (ab *AdamsBashforth, err error) {
	ab = &AdamsBashforth{
		timeStepper: newTimeStepper(types.SCHEME_AB2, model, h),
		xOld:        Grid2D.NewState(model.Grid(), model.Geometry().NumPoints()),
	}
	ab.eig = ab.linearTermEigenvalues(h)
	if ab.solver, err = NavierStokes2D.NewProjectionSolver(model, h, params); err != nil {
		ab = nil
	}
	return
}

func historyFile(basename string) string { return basename + ".ab2" }

// Init discards the history, the next step is a cold start
func (ab *AdamsBashforth) Init() error {
	ab.hasHistory = false
	return nil
}

func (ab *AdamsBashforth) Load(basename string) bool {
	if !ab.xOld.Load(historyFile(basename)) {
		return false
	}
	ab.nOld = ab.model.Nonlinear(ab.xOld)
	ab.hasHistory = true
	return true
}

// Save succeeds without writing anything when there is no history yet
func (ab *AdamsBashforth) Save(basename string) bool {
	if !ab.hasHistory {
		return true
	}
	return ab.xOld.Save(historyFile(basename))
}

func (ab *AdamsBashforth) HasHistory() bool { return ab.hasHistory }

// HistoryStep is the step of the previous state, valid when ok
func (ab *AdamsBashforth) HistoryStep() (step int, ok bool) { return ab.xOld.Step, ab.hasHistory }

func (ab *AdamsBashforth) Advance(x *Grid2D.State) (err error) {
	var (
		n = ab.model.Nonlinear(x)
		a = ab.explicitLinearTerm(x.Gamma, ab.eig)
	)
	if ab.hasHistory {
		a.AddScaled(1.5*ab.h, n).AddScaled(-0.5*ab.h, ab.nOld)
	} else {
		a.AddScaled(ab.h, n)
	}
	// The projection only writes to the state on success, keep the pre-step state first
	xn := x.Copy()
	if err = ab.project(ab.solver, a, x.F, x.Time+ab.h, x); err != nil {
		return
	}
	ab.xOld.CopyFrom(xn)
	ab.nOld = n
	ab.hasHistory = true
	ab.finish(x)
	return
}
