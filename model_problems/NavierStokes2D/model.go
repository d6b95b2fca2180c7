package NavierStokes2D

import (
	"github.com/notargets/ibpm/Grid2D"
	"github.com/notargets/ibpm/geometry2D"
)

/*
	A Model supplies the discrete operators of the vorticity equation

		d(gamma)/dt = L gamma + N(gamma) - B f,    C(gamma) = b

	L is the viscous term, diagonal in the sine basis with eigenvalues Lambda. N is the
	explicit term, which is the only part that differs between the model variants.
	B spreads the boundary force and C interpolates the velocity at the markers.
*/
type Model interface {
	Name() string
	Grid() *Grid2D.Grid
	Geometry() *geometry2D.Geometry
	Lambda() Grid2D.Scalar
	S(x Grid2D.Scalar) Grid2D.Scalar
	Sinv(x Grid2D.Scalar) Grid2D.Scalar
	Nonlinear(x *Grid2D.State) Grid2D.Scalar
	ComputeFlux(gamma Grid2D.Scalar, q Grid2D.Flux)
	B(f Grid2D.BoundaryVector) Grid2D.Scalar
	C(gamma Grid2D.Scalar) Grid2D.BoundaryVector
}

// navierStokes holds everything the model variants have in common
type navierStokes struct {
	grid     *Grid2D.Grid
	geom     *geometry2D.Geometry
	reg      *geometry2D.Regularizer
	Reynolds float64
	lambda   Grid2D.Scalar
	qOffset  Grid2D.Flux // Flux added to every computed flux field
}

func newNavierStokes(grid *Grid2D.Grid, geom *geometry2D.Geometry, Reynolds float64) (ns *navierStokes) {
	if geom == nil {
		geom = geometry2D.NewGeometry()
	}
	ns = &navierStokes{
		grid:     grid,
		geom:     geom,
		reg:      geometry2D.NewRegularizer(grid, geom),
		Reynolds: Reynolds,
		qOffset:  Grid2D.NewFlux(grid),
	}
	ns.lambda = grid.LaplacianEigenvalues().Scale(1. / (Reynolds * grid.Dx * grid.Dx))
	ns.lambda.M.SetReadOnly("lambda")
	return
}

func (ns *navierStokes) Grid() *Grid2D.Grid             { return ns.grid }
func (ns *navierStokes) Geometry() *geometry2D.Geometry { return ns.geom }

// Lambda returns a copy of the eigenvalues of the viscous term in the sine basis
func (ns *navierStokes) Lambda() Grid2D.Scalar { return ns.lambda.Copy() }

func (ns *navierStokes) S(x Grid2D.Scalar) (y Grid2D.Scalar) {
	y = Grid2D.NewScalar(ns.grid)
	ns.grid.Transform.Transform(y, x)
	return
}

// Sinv is the same operation as S, the orthonormal sine transform is its own inverse
func (ns *navierStokes) Sinv(x Grid2D.Scalar) Grid2D.Scalar {
	return ns.S(x)
}

func (ns *navierStokes) ComputeFlux(gamma Grid2D.Scalar, q Grid2D.Flux) {
	ns.grid.FluxOf(gamma, q)
	q.Add(ns.qOffset)
}

func (ns *navierStokes) B(f Grid2D.BoundaryVector) (b Grid2D.Scalar) {
	q := ns.reg.ToFlux(f, Grid2D.NewFlux(ns.grid))
	return ns.grid.CurlOf(q, Grid2D.NewScalar(ns.grid))
}

func (ns *navierStokes) C(gamma Grid2D.Scalar) (v Grid2D.BoundaryVector) {
	var (
		q = Grid2D.NewFlux(ns.grid)
	)
	ns.ComputeFlux(gamma, q)
	v = ns.reg.ToBoundary(q, Grid2D.NewBoundaryVector(ns.geom.NumPoints()))
	return v.Scale(1. / ns.grid.Dx)
}

// curlOfCross returns C((V q) .* (W gamma)) / dx^2, the explicit term in circulation units
func (ns *navierStokes) curlOfCross(q Grid2D.Flux, gamma Grid2D.Scalar) Grid2D.Scalar {
	var (
		g = ns.grid
		r = g.Cross(q, gamma, Grid2D.NewFlux(g))
	)
	return g.CurlOf(r, Grid2D.NewScalar(g)).Scale(1. / (g.Dx * g.Dx))
}
