package NavierStokes2D

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/ibpm/Grid2D"
	"github.com/notargets/ibpm/types"
	"github.com/notargets/ibpm/utils"
)

// CholeskySolver assembles the Schur complement densely and factors it, the factorization is reused until the bodies move
type CholeskySolver struct {
	*projection
	chol    mat.Cholesky
	schurM  utils.Matrix // Assembled Schur complement, read only once factored
	version int          // Geometry version of the current factorization, -1 when there is none
	n       int
}

func NewCholeskySolver(model Model, h float64) *CholeskySolver {
	return &CholeskySolver{
		projection: newProjection(model, h),
		version:    -1,
	}
}

func (cs *CholeskySolver) Name() string { return types.SOLVER_Cholesky.String() }

func (cs *CholeskySolver) factor(c0 Grid2D.BoundaryVector) (err error) {
	geom := cs.model.Geometry()
	if cs.version == geom.Version() {
		return
	}
	var (
		n   = 2 * geom.NumPoints()
		A   = utils.NewMatrix(n, n)
		e   = Grid2D.NewBoundaryVector(n / 2)
		sym = mat.NewSymDense(n, nil)
	)
	// Column by column
	for k := 0; k < n; k++ {
		e.Zero().Data()[k] = 1
		for i, val := range cs.schur(e, c0).Data() {
			A.Set(i, k, val)
		}
	}
	if utils.IsNan(A) {
		cs.version = -1
		return &ConvergenceError{
			Solver: cs.Name(),
			Err:    fmt.Errorf("schur complement of order %d is not finite", n),
		}
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, 0.5*(A.At(i, j)+A.At(j, i)))
		}
	}
	if ok := cs.chol.Factorize(sym); !ok {
		cs.version = -1
		return &ConvergenceError{
			Solver: cs.Name(),
			Err:    fmt.Errorf("schur complement of order %d is not positive definite", n),
		}
	}
	cs.schurM = A.SetReadOnly("schur complement")
	cs.version, cs.n = geom.Version(), n
	return
}

func (cs *CholeskySolver) Solve(a Grid2D.Scalar, b Grid2D.BoundaryVector, gamma Grid2D.Scalar,
	f Grid2D.BoundaryVector) (err error) {
	gammaStar := cs.Minv(a)
	if err = cs.checkFinite(cs.Name(), gammaStar.Data()); err != nil {
		return
	}
	if len(f.Data()) == 0 {
		gamma.CopyFrom(gammaStar)
		return
	}
	c0 := cs.zeroConstraint()
	if err = cs.factor(c0); err != nil {
		return
	}
	var (
		rhs = cs.model.C(gammaStar).Subtract(b)
		x   = mat.NewVecDense(cs.n, nil)
	)
	if err = cs.checkFinite(cs.Name(), rhs.Data()); err != nil {
		return
	}
	if err = cs.chol.SolveVecTo(x, mat.NewVecDense(cs.n, rhs.Data())); err != nil {
		return &ConvergenceError{Solver: cs.Name(), Err: err}
	}
	fNew := Grid2D.NewBoundaryVector(cs.n / 2)
	copy(fNew.Data(), x.RawVector().Data)
	if err = cs.checkFinite(cs.Name(), fNew.Data()); err != nil {
		return
	}
	gamma.CopyFrom(cs.correct(gammaStar, fNew))
	f.CopyFrom(fNew)
	return
}
