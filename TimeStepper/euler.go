package TimeStepper

import (
	"github.com/notargets/ibpm/Grid2D"
	"github.com/notargets/ibpm/model_problems/NavierStokes2D"
	"github.com/notargets/ibpm/types"
)

/*
	Euler is explicit Euler for the nonlinear term and Crank-Nicolson for the linear term:

		(1 - h/2 L) gamma^n+1 + h B f^n+1 = (1 + h/2 L) gamma^n + h N(x^n)
		C gamma^n+1                       = b^n+1
*/
type Euler struct {
	*timeStepper
	eig    Grid2D.Scalar
	solver NavierStokes2D.ProjectionSolver
}

func NewEuler(model NavierStokes2D.Model, h float64, params NavierStokes2D.SolverParams) (e *Euler, err error) {
	e = &Euler{
		timeStepper: newTimeStepper(types.SCHEME_Euler, model, h),
	}
	e.eig = e.linearTermEigenvalues(h)
	if e.solver, err = NavierStokes2D.NewProjectionSolver(model, h, params); err != nil {
		e = nil
	}
	return
}

func (e *Euler) Advance(x *Grid2D.State) (err error) {
	a := e.explicitLinearTerm(x.Gamma, e.eig).AddScaled(e.h, e.model.Nonlinear(x))
	if err = e.project(e.solver, a, x.F, x.Time+e.h, x); err != nil {
		return
	}
	e.finish(x)
	return
}
