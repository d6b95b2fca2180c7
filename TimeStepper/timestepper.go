package TimeStepper

import (
	"github.com/notargets/ibpm/Grid2D"
	"github.com/notargets/ibpm/model_problems/NavierStokes2D"
	"github.com/notargets/ibpm/types"
)

/*
	A TimeStepper advances a State by one fixed timestep. The viscous term is treated with
	Crank-Nicolson in the sine basis, the explicit term with the scheme of the stepper, and
	every stage ends with a projection onto the no slip constraint at the end of stage time.

	Schemes that keep history between steps persist it through Save and Load, and Init
	discards it for a cold start. Advance leaves the State unmodified when a projection
	fails to converge.
*/
type TimeStepper interface {
	Name() string
	Timestep() float64
	Init() error
	Load(basename string) bool
	Save(basename string) bool
	Advance(x *Grid2D.State) error
}

// HistoryKeeper is implemented by schemes whose next step depends on the previous state
type HistoryKeeper interface {
	HistoryStep() (step int, ok bool)
}

func NewTimeStepper(scheme types.SchemeType, model NavierStokes2D.Model, h float64,
	params NavierStokes2D.SolverParams) (ts TimeStepper, err error) {
	if h <= 0 {
		err = NavierStokes2D.NewConfigurationError("timestep must be positive, have %v", h)
		return
	}
	// Typed nil pointers must not escape as non-nil interfaces
	switch scheme {
	case types.SCHEME_Euler:
		var e *Euler
		if e, err = NewEuler(model, h, params); err == nil {
			ts = e
		}
	case types.SCHEME_AB2:
		var ab *AdamsBashforth
		if ab, err = NewAdamsBashforth(model, h, params); err == nil {
			ts = ab
		}
	case types.SCHEME_RK2:
		var rk *RungeKutta2
		if rk, err = NewRungeKutta2(model, h, params); err == nil {
			ts = rk
		}
	case types.SCHEME_RK3:
		var rk *RungeKutta3
		if rk, err = NewRungeKutta3(model, h, params); err == nil {
			ts = rk
		}
	default:
		err = NavierStokes2D.NewConfigurationError("unknown timestepper %q", scheme.String())
	}
	return
}

// timeStepper holds what every scheme shares, the single history schemes use its no-op persistence
type timeStepper struct {
	name     string
	model    NavierStokes2D.Model
	h        float64
	gammaTmp Grid2D.Scalar
	fTmp     Grid2D.BoundaryVector
}

func newTimeStepper(scheme types.SchemeType, model NavierStokes2D.Model, h float64) *timeStepper {
	return &timeStepper{
		name:     scheme.String(),
		model:    model,
		h:        h,
		gammaTmp: Grid2D.NewScalar(model.Grid()),
		fTmp:     Grid2D.NewBoundaryVector(model.Geometry().NumPoints()),
	}
}

func (ts *timeStepper) Name() string              { return ts.name }
func (ts *timeStepper) Timestep() float64         { return ts.h }
func (ts *timeStepper) Init() error               { return nil }
func (ts *timeStepper) Load(basename string) bool { return true }
func (ts *timeStepper) Save(basename string) bool { return true }

// linearTermEigenvalues returns 1 + h/2 Lambda for a (sub)step of size h
func (ts *timeStepper) linearTermEigenvalues(h float64) (eig Grid2D.Scalar) {
	eig = ts.model.Lambda().Scale(0.5 * h).AddScalar(1)
	eig.M.SetReadOnly("linearTermEigenvalues")
	return
}

// explicitLinearTerm returns (1 + h/2 L) gamma, eig holds the eigenvalues of the operator
func (ts *timeStepper) explicitLinearTerm(gamma, eig Grid2D.Scalar) Grid2D.Scalar {
	a := ts.model.S(gamma)
	a.ElMul(eig)
	return ts.model.Sinv(a)
}

/*
	project moves the bodies to time, solves the projection system with right hand side a
	and stores the circulation, force and flux in y. The force in fGuess starts the solve.
	y is unchanged on failure.
*/
func (ts *timeStepper) project(solver NavierStokes2D.ProjectionSolver, a Grid2D.Scalar,
	fGuess Grid2D.BoundaryVector, time float64, y *Grid2D.State) (err error) {
	geom := ts.model.Geometry()
	geom.MoveBodies(time)
	b := geom.Velocities()
	ts.gammaTmp.CopyFrom(a)
	ts.fTmp.CopyFrom(fGuess)
	if err = solver.Solve(a, b, ts.gammaTmp, ts.fTmp); err != nil {
		return
	}
	y.Gamma.CopyFrom(ts.gammaTmp)
	y.F.CopyFrom(ts.fTmp)
	ts.model.ComputeFlux(y.Gamma, y.Q)
	return
}

// finish advances the clock of x by one step
func (ts *timeStepper) finish(x *Grid2D.State) {
	x.Time += ts.h
	x.Step++
}
