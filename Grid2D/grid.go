package Grid2D

import (
	"fmt"
	"runtime"

	"github.com/notargets/ibpm/utils"
)

/*
	The grid is a uniform Cartesian mesh of Nx x Ny square cells of side Dx, with
	the lower left corner at (XOffset, YOffset):

		Nodes        (i, j), 0 <= i <= Nx, 0 <= j <= Ny, at (XOffset + i*Dx, YOffset + j*Dx)
		X edges      (i, j), 0 <= i <= Nx, 0 <= j <  Ny, vertical edges at (x_i, y_j+1/2)
		Y edges      (i, j), 0 <= i <  Nx, 0 <= j <= Ny, horizontal edges at (x_i+1/2, y_j)

	Circulation lives on the (Nx-1) x (Ny-1) interior nodes and is zero on the boundary.
	Fluxes live on all edges, X edges first, followed by Y edges.
*/
type Grid struct {
	Nx, Ny           int
	Ngrid            int
	Length           float64 // Length of the domain in the x direction
	XOffset, YOffset float64
	Dx               float64
	Transform        *SineTransform
	Curl             utils.CSR // Edges to interior nodes, the transpose maps streamfunction to flux
	Average          utils.CSR // Interior nodes to edges, two point average
	CrossVelocity    utils.CSR // Edges to edges, four point average of the opposite flux component, signed for u x omega
	laplacianEig     Scalar    // Eigenvalues of the unit spacing 5 point Laplacian in the sine basis
}

func NewGrid(nx, ny, ngrid int, length, xOffset, yOffset float64) (g *Grid, err error) {
	if nx < 3 || ny < 3 {
		err = fmt.Errorf("grid must have at least 3 cells in each direction, have nx = %d, ny = %d", nx, ny)
		return
	}
	if ngrid != 1 {
		err = fmt.Errorf("multi-domain grids are not supported, have ngrid = %d", ngrid)
		return
	}
	if length <= 0 {
		err = fmt.Errorf("domain length must be positive, have %v", length)
		return
	}
	g = &Grid{
		Nx:      nx,
		Ny:      ny,
		Ngrid:   ngrid,
		Length:  length,
		XOffset: xOffset,
		YOffset: yOffset,
		Dx:      length / float64(nx),
	}
	g.Transform = NewSineTransform(nx-1, ny-1, runtime.GOMAXPROCS(0))
	g.buildOperators()
	g.laplacianEig = g.computeLaplacianEigenvalues()
	g.laplacianEig.M.SetReadOnly("laplacianEig")
	return
}

func (g *Grid) NumNodes() int  { return (g.Nx - 1) * (g.Ny - 1) }
func (g *Grid) NumXEdges() int { return (g.Nx + 1) * g.Ny }
func (g *Grid) NumYEdges() int { return g.Nx * (g.Ny + 1) }
func (g *Grid) NumEdges() int  { return g.NumXEdges() + g.NumYEdges() }

// NodeIndex is only defined for interior nodes
func (g *Grid) NodeIndex(i, j int) int { return (i-1)*(g.Ny-1) + (j - 1) }
func (g *Grid) XEdgeIndex(i, j int) int { return i*g.Ny + j }
func (g *Grid) YEdgeIndex(i, j int) int { return g.NumXEdges() + i*(g.Ny+1) + j }

func (g *Grid) IsInteriorNode(i, j int) bool {
	return i > 0 && i < g.Nx && j > 0 && j < g.Ny
}

func (g *Grid) X(i int) float64 { return g.XOffset + float64(i)*g.Dx }
func (g *Grid) Y(j int) float64 { return g.YOffset + float64(j)*g.Dx }

func (g *Grid) XMax() float64 { return g.X(g.Nx) }
func (g *Grid) YMax() float64 { return g.Y(g.Ny) }

// Matches reports whether fields on o can be used interchangeably with fields on g
func (g *Grid) Matches(o *Grid) bool {
	return o != nil && g.Nx == o.Nx && g.Ny == o.Ny && g.Ngrid == o.Ngrid
}

func (g *Grid) String() string {
	return fmt.Sprintf("%d x %d cells, ngrid = %d, dx = %8.5f, [%8.5f, %8.5f] x [%8.5f, %8.5f]",
		g.Nx, g.Ny, g.Ngrid, g.Dx, g.XOffset, g.XMax(), g.YOffset, g.YMax())
}
