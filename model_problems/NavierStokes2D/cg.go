package NavierStokes2D

import (
	"math"

	"github.com/notargets/ibpm/Grid2D"
	"github.com/notargets/ibpm/types"
)

// ConjugateGradientSolver solves the Schur complement system matrix free, starting from the incoming f
type ConjugateGradientSolver struct {
	*projection
	Tolerance     float64
	MaxIterations int
}

func NewConjugateGradientSolver(model Model, h, tol float64, maxIterations int) *ConjugateGradientSolver {
	return &ConjugateGradientSolver{
		projection:    newProjection(model, h),
		Tolerance:     tol,
		MaxIterations: maxIterations,
	}
}

func (cg *ConjugateGradientSolver) Name() string { return types.SOLVER_ConjugateGradient.String() }

func (cg *ConjugateGradientSolver) Solve(a Grid2D.Scalar, b Grid2D.BoundaryVector, gamma Grid2D.Scalar,
	f Grid2D.BoundaryVector) (err error) {
	gammaStar := cg.Minv(a)
	if err = cg.checkFinite(cg.Name(), gammaStar.Data()); err != nil {
		return
	}
	nPoints := f.NumPoints()
	if nPoints == 0 {
		gamma.CopyFrom(gammaStar)
		return
	}
	var (
		c0      = cg.zeroConstraint()
		rhs     = cg.model.C(gammaStar).Subtract(b)
		x       = f.Copy()
		maxIter = cg.MaxIterations
	)
	if maxIter <= 0 {
		maxIter = max(100, 4*nPoints)
	}
	var (
		r       = rhs.Copy().Subtract(cg.schur(x, c0))
		p       = r.Copy()
		rr      = r.Dot(r)
		rhsNorm = rhs.Norm()
		iter    int
	)
	if err = cg.checkFinite(cg.Name(), rhs.Data(), r.Data()); err != nil {
		return
	}
	if rhsNorm == 0 {
		x.Zero()
		rr = 0
	}
	for ; math.Sqrt(rr) > cg.Tolerance*rhsNorm; iter++ {
		if iter == maxIter {
			return &ConvergenceError{
				Solver:     cg.Name(),
				Iterations: iter,
				Residual:   math.Sqrt(rr) / rhsNorm,
				Tolerance:  cg.Tolerance,
			}
		}
		Ap := cg.schur(p, c0)
		alpha := rr / p.Dot(Ap)
		x.AddScaled(alpha, p)
		r.AddScaled(-alpha, Ap)
		rrNew := r.Dot(r)
		p.Scale(rrNew / rr).Add(r)
		rr = rrNew
	}
	// A NaN residual ends the loop early
	if err = cg.checkFinite(cg.Name(), x.Data(), []float64{rr}); err != nil {
		return
	}
	gamma.CopyFrom(cg.correct(gammaStar, x))
	f.CopyFrom(x)
	return
}
