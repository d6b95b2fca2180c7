package NavierStokes2D

import (
	"fmt"

	"github.com/notargets/ibpm/Grid2D"
	"github.com/notargets/ibpm/types"
	"github.com/notargets/ibpm/utils"
)

/*
	A ProjectionSolver solves the coupled system for one implicit step of size h

		(I - h/2 L) gamma + h B f = a
		C(gamma)                  = b

	by eliminating gamma. With M = I - h/2 L, gamma* = M^-1 a and C_lin(x) = C(x) - C(0):

		(h C_lin M^-1 B) f = C(gamma*) - b
		gamma              = gamma* - h M^-1 B f

	The Schur complement h C_lin M^-1 B is symmetric positive definite. Solve leaves gamma
	and f untouched when it returns an error.
*/
type ProjectionSolver interface {
	Name() string
	Timestep() float64
	Solve(a Grid2D.Scalar, b Grid2D.BoundaryVector, gamma Grid2D.Scalar, f Grid2D.BoundaryVector) error
}

type SolverParams struct {
	Type          types.SolverType
	Tolerance     float64 // Relative residual of the iterative solver
	MaxIterations int     // Iteration budget of the iterative solver, zero selects a default
}

func DefaultSolverParams() SolverParams {
	return SolverParams{
		Type:      types.SOLVER_Auto,
		Tolerance: 1.e-7,
	}
}

// NewProjectionSolver uses Cholesky for stationary bodies and conjugate gradient when bodies move, unless one is requested
func NewProjectionSolver(model Model, h float64, params SolverParams) (ps ProjectionSolver, err error) {
	if h <= 0 {
		err = NewConfigurationError("timestep must be positive, have %v", h)
		return
	}
	st := params.Type
	if st == types.SOLVER_Auto {
		if model.Geometry().IsStationary() {
			st = types.SOLVER_Cholesky
		} else {
			st = types.SOLVER_ConjugateGradient
		}
	}
	switch st {
	case types.SOLVER_Cholesky:
		ps = NewCholeskySolver(model, h)
	case types.SOLVER_ConjugateGradient:
		if params.Tolerance <= 0 {
			err = NewConfigurationError("solver tolerance must be positive, have %v", params.Tolerance)
			return
		}
		ps = NewConjugateGradientSolver(model, h, params.Tolerance, params.MaxIterations)
	default:
		err = NewConfigurationError("unknown solver type %d", params.Type)
	}
	return
}

// projection holds the operations shared by every solver
type projection struct {
	model  Model
	h      float64
	eigInv Grid2D.Scalar // 1 / (1 - h/2 lambda)
}

func newProjection(model Model, h float64) (p *projection) {
	p = &projection{
		model:  model,
		h:      h,
		eigInv: model.Lambda().Scale(-0.5*h).AddScalar(1),
	}
	p.eigInv.Apply(func(x float64) float64 { return 1. / x })
	p.eigInv.M.SetReadOnly("eigInv")
	return
}

func (p *projection) Timestep() float64 { return p.h }

// Minv applies (I - h/2 L)^-1
func (p *projection) Minv(x Grid2D.Scalar) Grid2D.Scalar {
	y := p.model.S(x)
	y.ElMul(p.eigInv)
	return p.model.Sinv(y)
}

// schur applies h C_lin M^-1 B to f, c0 = C(0)
func (p *projection) schur(f, c0 Grid2D.BoundaryVector) Grid2D.BoundaryVector {
	return p.model.C(p.Minv(p.model.B(f))).Subtract(c0).Scale(p.h)
}

// zeroConstraint returns C(0), the affine part of the constraint operator
func (p *projection) zeroConstraint() Grid2D.BoundaryVector {
	return p.model.C(Grid2D.NewScalar(p.model.Grid()))
}

// correct returns gamma* - h M^-1 B f
func (p *projection) correct(gammaStar Grid2D.Scalar, f Grid2D.BoundaryVector) Grid2D.Scalar {
	return gammaStar.Copy().AddScaled(-p.h, p.Minv(p.model.B(f)))
}

// checkFinite fails the solve before anything is written back when a value is NaN or infinite
func (p *projection) checkFinite(solver string, vs ...[]float64) error {
	for _, v := range vs {
		if utils.IsNan(v) {
			return &ConvergenceError{Solver: solver, Err: fmt.Errorf("non finite value in the projection")}
		}
	}
	return nil
}
