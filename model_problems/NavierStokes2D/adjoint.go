package NavierStokes2D

import (
	"github.com/notargets/ibpm/Grid2D"
	"github.com/notargets/ibpm/geometry2D"
	"github.com/notargets/ibpm/types"
)

/*
	AdjointNavierStokes uses the transpose of the linearized explicit term. With q0, gamma0
	the base flow and y the adjoint circulation:

		A^T y = [ W^T ((V q0) .* C^T y) + P C V^T ((W gamma0) .* C^T y) ] / dx^2

	where P is the inverse of minus the Laplacian. This is the exact discrete transpose of
	LinearizedNavierStokes in the Euclidean inner product on the interior nodes.
*/
type AdjointNavierStokes struct {
	*navierStokes
	base *Grid2D.State
}

func NewAdjointNavierStokes(grid *Grid2D.Grid, geom *geometry2D.Geometry, Reynolds float64,
	base *Grid2D.State) (m *AdjointNavierStokes) {
	return &AdjointNavierStokes{
		navierStokes: newNavierStokes(grid, geom, Reynolds),
		base:         base,
	}
}

func (m *AdjointNavierStokes) Name() string           { return types.MODEL_Adjoint.String() }
func (m *AdjointNavierStokes) BaseFlow() *Grid2D.State { return m.base }

func (m *AdjointNavierStokes) Nonlinear(x *Grid2D.State) (n Grid2D.Scalar) {
	var (
		g   = m.grid
		cty = g.CurlTranspose(x.Gamma, Grid2D.NewFlux(g))
	)
	// First term, from the perturbation circulation
	v0 := g.CrossVelocityOf(m.base.Q, Grid2D.NewFlux(g)).ElMul(cty)
	n = g.AverageToNodes(v0, Grid2D.NewScalar(g))

	// Second term, from the perturbation flux
	w0 := g.AverageToEdges(m.base.Gamma, Grid2D.NewFlux(g)).ElMul(cty)
	vt := g.CrossVelocityTranspose(w0, Grid2D.NewFlux(g))
	psi := g.PoissonInverse(g.CurlOf(vt, Grid2D.NewScalar(g)), Grid2D.NewScalar(g))
	n.Add(psi)

	return n.Scale(1. / (g.Dx * g.Dx))
}
