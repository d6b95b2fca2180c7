package geometry2D

import (
	"math"

	"github.com/notargets/ibpm/Grid2D"
	"github.com/notargets/ibpm/utils"
)

// RomaDelta is the three point discrete delta function of Roma, Peskin and Berger, r in units of the grid spacing
func RomaDelta(r float64) float64 {
	r = math.Abs(r)
	switch {
	case r <= 0.5:
		return (1 + math.Sqrt(1-3*r*r)) / 3
	case r <= 1.5:
		return (5 - 3*r - math.Sqrt(1-3*(1-r)*(1-r))) / 6
	default:
		return 0
	}
}

/*
	Regularizer holds the interpolation operator E from edge fluxes to marker values,
	rows 0..N-1 use the X edges and rows N..2N-1 use the Y edges. The transpose spreads
	marker values onto the edges. E is rebuilt lazily whenever the geometry version
	changes.
*/
type Regularizer struct {
	grid    *Grid2D.Grid
	geom    *Geometry
	E       utils.CSR
	nPoints int
	version int
}

func NewRegularizer(grid *Grid2D.Grid, geom *Geometry) (r *Regularizer) {
	r = &Regularizer{
		grid:    grid,
		geom:    geom,
		version: -1,
	}
	r.Update()
	return
}

// Update rebuilds E if the markers moved since the last build
func (r *Regularizer) Update() {
	if r.version == r.geom.Version() {
		return
	}
	r.version = r.geom.Version()
	r.nPoints = r.geom.NumPoints()
	if r.nPoints == 0 {
		return
	}
	var (
		g      = r.grid
		dx     = g.Dx
		pts    = r.geom.Points()
		E      = utils.NewDOK(2*r.nPoints, g.NumEdges(), "Regularizer")
		window = func(xi float64) (lo, hi int) {
			return int(math.Ceil(xi - 1.5)), int(math.Floor(xi + 1.5))
		}
	)
	for k, p := range pts {
		var (
			xi = (p.X[0] - g.XOffset) / dx // Marker location in grid units
			yi = (p.X[1] - g.YOffset) / dx
		)
		// X edges at (i, j+1/2)
		iLo, iHi := window(xi)
		jLo, jHi := window(yi - 0.5)
		for i := max(iLo, 0); i <= min(iHi, g.Nx); i++ {
			for j := max(jLo, 0); j <= min(jHi, g.Ny-1); j++ {
				if w := RomaDelta(float64(i)-xi) * RomaDelta(float64(j)+0.5-yi); w != 0 {
					E.Set(k, g.XEdgeIndex(i, j), w)
				}
			}
		}
		// Y edges at (i+1/2, j)
		iLo, iHi = window(xi - 0.5)
		jLo, jHi = window(yi)
		for i := max(iLo, 0); i <= min(iHi, g.Nx-1); i++ {
			for j := max(jLo, 0); j <= min(jHi, g.Ny); j++ {
				if w := RomaDelta(float64(i)+0.5-xi) * RomaDelta(float64(j)-yi); w != 0 {
					E.Set(r.nPoints+k, g.YEdgeIndex(i, j), w)
				}
			}
		}
	}
	r.E = E.ToCSR()
}

func (r *Regularizer) NumPoints() int { return r.nPoints }

// ToBoundary sets v = E q
func (r *Regularizer) ToBoundary(q Grid2D.Flux, v Grid2D.BoundaryVector) Grid2D.BoundaryVector {
	r.Update()
	if r.nPoints == 0 {
		return v
	}
	r.E.MulVec(v.Data(), q.Data(), false)
	return v
}

// ToFlux sets q = E^T f
func (r *Regularizer) ToFlux(f Grid2D.BoundaryVector, q Grid2D.Flux) Grid2D.Flux {
	r.Update()
	if r.nPoints == 0 {
		q.Zero()
		return q
	}
	r.E.MulVec(q.Data(), f.Data(), true)
	return q
}
