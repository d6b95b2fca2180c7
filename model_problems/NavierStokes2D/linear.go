package NavierStokes2D

import (
	"github.com/notargets/ibpm/Grid2D"
	"github.com/notargets/ibpm/geometry2D"
	"github.com/notargets/ibpm/types"
)

// LinearizedNavierStokes evolves a perturbation about a steady base flow
type LinearizedNavierStokes struct {
	*navierStokes
	base *Grid2D.State
}

func NewLinearizedNavierStokes(grid *Grid2D.Grid, geom *geometry2D.Geometry, Reynolds float64,
	base *Grid2D.State) (m *LinearizedNavierStokes) {
	return &LinearizedNavierStokes{
		navierStokes: newNavierStokes(grid, geom, Reynolds),
		base:         base,
	}
}

func (m *LinearizedNavierStokes) Name() string           { return types.MODEL_Linear.String() }
func (m *LinearizedNavierStokes) BaseFlow() *Grid2D.State { return m.base }

func (m *LinearizedNavierStokes) Nonlinear(x *Grid2D.State) Grid2D.Scalar {
	return m.linearizedTerm(m.base, x)
}

// linearizedTerm is the explicit term linearized about base, applied to the perturbation x
func (ns *navierStokes) linearizedTerm(base, x *Grid2D.State) (n Grid2D.Scalar) {
	n = ns.curlOfCross(base.Q, x.Gamma)
	return n.Add(ns.curlOfCross(x.Q, base.Gamma))
}

/*
	LinearizedPeriodicNavierStokes evolves a perturbation about a time periodic base flow
	given as a sequence of snapshots, one per timestep. The snapshot used for a state at
	step n is (n + Offset) mod period.
*/
type LinearizedPeriodicNavierStokes struct {
	*navierStokes
	bases  []*Grid2D.State
	Offset int
}

func NewLinearizedPeriodicNavierStokes(grid *Grid2D.Grid, geom *geometry2D.Geometry, Reynolds float64,
	bases []*Grid2D.State, offset int) (m *LinearizedPeriodicNavierStokes) {
	return &LinearizedPeriodicNavierStokes{
		navierStokes: newNavierStokes(grid, geom, Reynolds),
		bases:        bases,
		Offset:       offset,
	}
}

func (m *LinearizedPeriodicNavierStokes) Name() string { return types.MODEL_LinearPeriodic.String() }
func (m *LinearizedPeriodicNavierStokes) Period() int  { return len(m.bases) }

func (m *LinearizedPeriodicNavierStokes) BaseFlowAt(step int) *Grid2D.State {
	period := len(m.bases)
	k := (step + m.Offset) % period
	if k < 0 {
		k += period
	}
	return m.bases[k]
}

func (m *LinearizedPeriodicNavierStokes) Nonlinear(x *Grid2D.State) Grid2D.Scalar {
	return m.linearizedTerm(m.BaseFlowAt(x.Step), x)
}
