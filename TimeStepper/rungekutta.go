package TimeStepper

import (
	"github.com/notargets/ibpm/Grid2D"
	"github.com/notargets/ibpm/model_problems/NavierStokes2D"
	"github.com/notargets/ibpm/types"
)

/*
	RungeKutta2 uses the scheme of Peyret, p. 148, with alpha = 1 and beta = 1/2 for the
	nonlinear term and Crank-Nicolson for the linear term:

		(1 - h/2 L) gamma_1 + h B f_1         = (1 + h/2 L) gamma^n + h N(x^n)
		C gamma_1                             = b^n+1
		(1 - h/2 L) gamma^n+1 + h B f^n+1     = (1 + h/2 L) gamma^n + h/2 (N(x^n) + N(x_1))
		C gamma^n+1                           = b^n+1
*/
type RungeKutta2 struct {
	*timeStepper
	eig    Grid2D.Scalar
	solver NavierStokes2D.ProjectionSolver
	x1     *Grid2D.State
}

func NewRungeKutta2(model NavierStokes2D.Model, h float64, params NavierStokes2D.SolverParams) (rk *RungeKutta2, err error) {
	rk = &RungeKutta2{
		timeStepper: newTimeStepper(types.SCHEME_RK2, model, h),
		x1:          Grid2D.NewState(model.Grid(), model.Geometry().NumPoints()),
	}
	rk.eig = rk.linearTermEigenvalues(h)
	if rk.solver, err = NavierStokes2D.NewProjectionSolver(model, h, params); err != nil {
		rk = nil
	}
	return
}

func (rk *RungeKutta2) Advance(x *Grid2D.State) (err error) {
	var (
		tNew   = x.Time + rk.h
		linear = rk.explicitLinearTerm(x.Gamma, rk.eig)
		n0     = rk.model.Nonlinear(x)
	)
	// Stage 1
	a := linear.Copy().AddScaled(rk.h, n0)
	if err = rk.project(rk.solver, a, x.F, tNew, rk.x1); err != nil {
		return
	}
	rk.x1.Time, rk.x1.Step = tNew, x.Step+1

	// Stage 2
	a = linear.AddScaled(0.5*rk.h, n0.Add(rk.model.Nonlinear(rk.x1)))
	if err = rk.project(rk.solver, a, rk.x1.F, tNew, x); err != nil {
		return
	}
	rk.finish(x)
	return
}

/*
	RungeKutta3 is the low storage three stage scheme of Peyret, p. 150, for the nonlinear
	term with Crank-Nicolson over each stage for the linear term:

		(1 - h_k/2 L) gamma_k + h_k B f_k = (1 + h_k/2 L) gamma_k-1 + h (a_k N(x_k-1) + b_k N(x_k-2))
		C gamma_k                         = b(t_k)

	with h_k = (a_k + b_k) h and t_k the end time of stage k. Every stage has its own
	projection solver since the implicit operator depends on h_k.
*/
var (
	rk3A = [3]float64{8. / 15., 5. / 12., 3. / 4.}
	rk3B = [3]float64{0, -17. / 60., -5. / 12.}
)

type RungeKutta3 struct {
	*timeStepper
	eig     [3]Grid2D.Scalar
	solvers [3]NavierStokes2D.ProjectionSolver
	xk      *Grid2D.State
}

func NewRungeKutta3(model NavierStokes2D.Model, h float64, params NavierStokes2D.SolverParams) (rk *RungeKutta3, err error) {
	rk = &RungeKutta3{
		timeStepper: newTimeStepper(types.SCHEME_RK3, model, h),
		xk:          Grid2D.NewState(model.Grid(), model.Geometry().NumPoints()),
	}
	for k := 0; k < 3; k++ {
		hk := (rk3A[k] + rk3B[k]) * h
		rk.eig[k] = rk.linearTermEigenvalues(hk)
		if rk.solvers[k], err = NavierStokes2D.NewProjectionSolver(model, hk, params); err != nil {
			rk = nil
			return
		}
	}
	return
}

func (rk *RungeKutta3) Advance(x *Grid2D.State) (err error) {
	var (
		nPrev Grid2D.Scalar
		t     = x.Time
	)
	rk.xk.CopyFrom(x)
	for k := 0; k < 3; k++ {
		var (
			hk = (rk3A[k] + rk3B[k]) * rk.h
			n  = rk.model.Nonlinear(rk.xk)
			a  = rk.explicitLinearTerm(rk.xk.Gamma, rk.eig[k]).AddScaled(rk3A[k]*rk.h, n)
		)
		if k > 0 {
			a.AddScaled(rk3B[k]*rk.h, nPrev)
		}
		t += hk
		if k == 2 {
			t = x.Time + rk.h
		}
		if err = rk.project(rk.solvers[k], a, rk.xk.F, t, rk.xk); err != nil {
			return
		}
		rk.xk.Time = t
		nPrev = n
	}
	x.Gamma.CopyFrom(rk.xk.Gamma)
	x.Q.CopyFrom(rk.xk.Q)
	x.F.CopyFrom(rk.xk.F)
	rk.finish(x)
	return
}
