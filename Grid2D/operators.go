package Grid2D

import (
	"math"

	"github.com/notargets/ibpm/utils"
)

func (g *Grid) buildOperators() {
	var (
		nx, ny = g.Nx, g.Ny
		nn, ne = g.NumNodes(), g.NumEdges()
	)
	// Circulation around each interior node, counterclockwise
	C := utils.NewDOK(nn, ne, "Curl")
	for i := 1; i < nx; i++ {
		for j := 1; j < ny; j++ {
			n := g.NodeIndex(i, j)
			C.Set(n, g.XEdgeIndex(i, j-1), 1)
			C.Set(n, g.XEdgeIndex(i, j), -1)
			C.Set(n, g.YEdgeIndex(i, j), 1)
			C.Set(n, g.YEdgeIndex(i-1, j), -1)
		}
	}
	g.Curl = C.ToCSR()

	// Node values averaged to the edges, boundary nodes contribute zero
	W := utils.NewDOK(ne, nn, "Average")
	for i := 1; i < nx; i++ {
		for j := 0; j < ny; j++ {
			e := g.XEdgeIndex(i, j)
			for _, jj := range []int{j, j + 1} {
				if g.IsInteriorNode(i, jj) {
					W.Set(e, g.NodeIndex(i, jj), 0.5)
				}
			}
		}
	}
	for i := 0; i < nx; i++ {
		for j := 1; j < ny; j++ {
			e := g.YEdgeIndex(i, j)
			for _, ii := range []int{i, i + 1} {
				if g.IsInteriorNode(ii, j) {
					W.Set(e, g.NodeIndex(ii, j), 0.5)
				}
			}
		}
	}
	g.Average = W.ToCSR()

	/*
		Cross velocity: at X edges the y flux averaged from the four surrounding Y edges,
		at Y edges minus the x flux averaged from the four surrounding X edges. Multiplied
		pointwise by the averaged circulation this is the edge form of u x omega.
	*/
	V := utils.NewDOK(ne, ne, "CrossVelocity")
	for i := 1; i < nx; i++ {
		for j := 0; j < ny; j++ {
			e := g.XEdgeIndex(i, j)
			V.Set(e, g.YEdgeIndex(i-1, j), 0.25)
			V.Set(e, g.YEdgeIndex(i, j), 0.25)
			V.Set(e, g.YEdgeIndex(i-1, j+1), 0.25)
			V.Set(e, g.YEdgeIndex(i, j+1), 0.25)
		}
	}
	for i := 0; i < nx; i++ {
		for j := 1; j < ny; j++ {
			e := g.YEdgeIndex(i, j)
			V.Set(e, g.XEdgeIndex(i, j-1), -0.25)
			V.Set(e, g.XEdgeIndex(i+1, j-1), -0.25)
			V.Set(e, g.XEdgeIndex(i, j), -0.25)
			V.Set(e, g.XEdgeIndex(i+1, j), -0.25)
		}
	}
	g.CrossVelocity = V.ToCSR()
}

func (g *Grid) computeLaplacianEigenvalues() (eig Scalar) {
	eig = NewScalar(g)
	for i := 1; i < g.Nx; i++ {
		ci := 2 * math.Cos(math.Pi*float64(i)/float64(g.Nx))
		for j := 1; j < g.Ny; j++ {
			cj := 2 * math.Cos(math.Pi*float64(j)/float64(g.Ny))
			eig.Set(i, j, ci+cj-4)
		}
	}
	return
}

// LaplacianEigenvalues returns a copy of the eigenvalues of the unit spacing Laplacian, all negative
func (g *Grid) LaplacianEigenvalues() Scalar {
	return g.laplacianEig.Copy()
}

// CurlOf sets gamma = C q
func (g *Grid) CurlOf(q Flux, gamma Scalar) Scalar {
	g.Curl.MulVec(gamma.Data(), q.Data(), false)
	return gamma
}

// CurlTranspose sets q = C^T psi, the flux of the streamfunction psi
func (g *Grid) CurlTranspose(psi Scalar, q Flux) Flux {
	g.Curl.MulVec(q.Data(), psi.Data(), true)
	return q
}

// AverageToEdges sets e = W gamma
func (g *Grid) AverageToEdges(gamma Scalar, e Flux) Flux {
	g.Average.MulVec(e.Data(), gamma.Data(), false)
	return e
}

// AverageToNodes sets gamma = W^T e
func (g *Grid) AverageToNodes(e Flux, gamma Scalar) Scalar {
	g.Average.MulVec(gamma.Data(), e.Data(), true)
	return gamma
}

func (g *Grid) CrossVelocityOf(q Flux, v Flux) Flux {
	g.CrossVelocity.MulVec(v.Data(), q.Data(), false)
	return v
}

func (g *Grid) CrossVelocityTranspose(v Flux, q Flux) Flux {
	g.CrossVelocity.MulVec(q.Data(), v.Data(), true)
	return q
}

// Cross sets r = (V q) .* (W gamma), the edge flux of u x omega
func (g *Grid) Cross(q Flux, gamma Scalar, r Flux) Flux {
	w := g.AverageToEdges(gamma, NewFlux(g))
	g.CrossVelocityOf(q, r)
	return r.ElMul(w)
}

// PoissonInverse sets psi = (-Laplacian)^-1 gamma on the unit spacing grid, Dirichlet boundaries
func (g *Grid) PoissonInverse(gamma Scalar, psi Scalar) Scalar {
	g.Transform.Transform(psi, gamma)
	psi.ElDiv(g.laplacianEig).Scale(-1)
	g.Transform.Transform(psi, psi)
	return psi
}

// FluxOf sets q = C^T (-Laplacian)^-1 gamma, the divergence free flux carrying circulation gamma
func (g *Grid) FluxOf(gamma Scalar, q Flux) Flux {
	psi := g.PoissonInverse(gamma, NewScalar(g))
	return g.CurlTranspose(psi, q)
}
