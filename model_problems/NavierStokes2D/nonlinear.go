package NavierStokes2D

import (
	"github.com/notargets/ibpm/Grid2D"
	"github.com/notargets/ibpm/geometry2D"
	"github.com/notargets/ibpm/types"
)

// NonlinearNavierStokes is the full equation about a uniform free stream
type NonlinearNavierStokes struct {
	*navierStokes
	Magnitude, Alpha float64 // Free stream speed and angle of attack in radians
}

func NewNonlinearNavierStokes(grid *Grid2D.Grid, geom *geometry2D.Geometry, Reynolds,
	magnitude, alpha float64) (m *NonlinearNavierStokes) {
	m = &NonlinearNavierStokes{
		navierStokes: newNavierStokes(grid, geom, Reynolds),
		Magnitude:    magnitude,
		Alpha:        alpha,
	}
	m.qOffset = Grid2D.UniformFlow(grid, magnitude, alpha)
	return
}

func (m *NonlinearNavierStokes) Name() string { return types.MODEL_Nonlinear.String() }

// Nonlinear uses the total flux of the state, free stream included
func (m *NonlinearNavierStokes) Nonlinear(x *Grid2D.State) Grid2D.Scalar {
	return m.curlOfCross(x.Q, x.Gamma)
}
