package Grid2D

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/ibpm/utils"
)

// Scalar is a field on the interior nodes, row i-1 holds the nodes at x index i
type Scalar struct {
	grid *Grid
	M    utils.Matrix
}

func NewScalar(g *Grid) Scalar {
	return Scalar{
		grid: g,
		M:    utils.NewMatrix(g.Nx-1, g.Ny-1),
	}
}

func (s Scalar) Grid() *Grid     { return s.grid }
func (s Scalar) Data() []float64 { return s.M.Data() }
func (s Scalar) Len() int        { return len(s.M.Data()) }

// At accepts any node index, boundary nodes hold zero
func (s Scalar) At(i, j int) float64 {
	if !s.grid.IsInteriorNode(i, j) {
		return 0
	}
	return s.M.At(i-1, j-1)
}

func (s Scalar) Set(i, j int, val float64) Scalar {
	s.M.Set(i-1, j-1, val)
	return s
}

func (s Scalar) Copy() Scalar {
	return Scalar{grid: s.grid, M: s.M.Copy()}
}

// Chainable methods, all change the receiver
func (s Scalar) CopyFrom(a Scalar) Scalar   { s.M.CopyFrom(a.M); return s }
func (s Scalar) Zero() Scalar               { s.M.Fill(0); return s }
func (s Scalar) Fill(val float64) Scalar    { s.M.Fill(val); return s }
func (s Scalar) Add(a Scalar) Scalar        { s.M.Add(a.M); return s }
func (s Scalar) Subtract(a Scalar) Scalar   { s.M.Subtract(a.M); return s }
func (s Scalar) Scale(a float64) Scalar     { s.M.Scale(a); return s }
func (s Scalar) AddScalar(a float64) Scalar { s.M.AddScalar(a); return s }
func (s Scalar) ElMul(a Scalar) Scalar      { s.M.ElMul(a.M); return s }
func (s Scalar) ElDiv(a Scalar) Scalar      { s.M.ElDiv(a.M); return s }

func (s Scalar) AddScaled(alpha float64, a Scalar) Scalar {
	s.M.AddScaled(alpha, a.M)
	return s
}

func (s Scalar) Apply(f func(float64) float64) Scalar {
	s.M.Apply(f)
	return s
}

func (s Scalar) Dot(a Scalar) float64 { return s.M.Dot(a.M) }
func (s Scalar) Norm() float64        { return floats.Norm(s.Data(), 2) }
func (s Scalar) MaxAbs() float64      { return s.M.MaxAbs() }

// Flux holds the X edge fluxes followed by the Y edge fluxes in a single slice
type Flux struct {
	grid *Grid
	data []float64
}

func NewFlux(g *Grid) Flux {
	return Flux{
		grid: g,
		data: make([]float64, g.NumEdges()),
	}
}

// UniformFlow is the flux of a free stream of the given magnitude and angle of attack in radians
func UniformFlow(g *Grid, magnitude, alpha float64) (q Flux) {
	var (
		nqx    = g.NumXEdges()
		qx, qy = magnitude * math.Cos(alpha) * g.Dx, magnitude * math.Sin(alpha) * g.Dx
	)
	q = NewFlux(g)
	for i := range q.data {
		if i < nqx {
			q.data[i] = qx
		} else {
			q.data[i] = qy
		}
	}
	return
}

func (q Flux) Grid() *Grid      { return q.grid }
func (q Flux) Data() []float64  { return q.data }
func (q Flux) XData() []float64 { return q.data[:q.grid.NumXEdges()] }
func (q Flux) YData() []float64 { return q.data[q.grid.NumXEdges():] }

func (q Flux) X(i, j int) float64 { return q.data[q.grid.XEdgeIndex(i, j)] }
func (q Flux) Y(i, j int) float64 { return q.data[q.grid.YEdgeIndex(i, j)] }

func (q Flux) SetX(i, j int, val float64) Flux { q.data[q.grid.XEdgeIndex(i, j)] = val; return q }
func (q Flux) SetY(i, j int, val float64) Flux { q.data[q.grid.YEdgeIndex(i, j)] = val; return q }

func (q Flux) Copy() Flux {
	r := NewFlux(q.grid)
	copy(r.data, q.data)
	return r
}

func (q Flux) CopyFrom(a Flux) Flux { checkLen(q.data, a.data); copy(q.data, a.data); return q }
func (q Flux) Zero() Flux {
	for i := range q.data {
		q.data[i] = 0
	}
	return q
}
func (q Flux) Add(a Flux) Flux {
	checkLen(q.data, a.data)
	floats.Add(q.data, a.data)
	return q
}
func (q Flux) Subtract(a Flux) Flux {
	checkLen(q.data, a.data)
	floats.Sub(q.data, a.data)
	return q
}
func (q Flux) AddScaled(alpha float64, a Flux) Flux {
	checkLen(q.data, a.data)
	floats.AddScaled(q.data, alpha, a.data)
	return q
}
func (q Flux) Scale(a float64) Flux { floats.Scale(a, q.data); return q }
func (q Flux) ElMul(a Flux) Flux {
	checkLen(q.data, a.data)
	floats.Mul(q.data, a.data)
	return q
}

func (q Flux) Dot(a Flux) float64 {
	checkLen(q.data, a.data)
	return floats.Dot(q.data, a.data)
}
func (q Flux) MaxAbs() (max float64) {
	for _, val := range q.data {
		if math.Abs(val) > max {
			max = math.Abs(val)
		}
	}
	return
}

// BoundaryVector holds the x components of all markers followed by the y components
type BoundaryVector struct {
	data []float64
}

func NewBoundaryVector(nPoints int) BoundaryVector {
	return BoundaryVector{data: make([]float64, 2*nPoints)}
}

func (b BoundaryVector) NumPoints() int   { return len(b.data) / 2 }
func (b BoundaryVector) Data() []float64  { return b.data }
func (b BoundaryVector) X(k int) float64  { return b.data[k] }
func (b BoundaryVector) Y(k int) float64  { return b.data[b.NumPoints()+k] }
func (b BoundaryVector) XData() []float64 { return b.data[:b.NumPoints()] }
func (b BoundaryVector) YData() []float64 { return b.data[b.NumPoints():] }

func (b BoundaryVector) Set(k int, x, y float64) BoundaryVector {
	b.data[k] = x
	b.data[b.NumPoints()+k] = y
	return b
}

func (b BoundaryVector) Copy() BoundaryVector {
	r := BoundaryVector{data: make([]float64, len(b.data))}
	copy(r.data, b.data)
	return r
}

func (b BoundaryVector) CopyFrom(a BoundaryVector) BoundaryVector {
	checkLen(b.data, a.data)
	copy(b.data, a.data)
	return b
}
func (b BoundaryVector) Zero() BoundaryVector {
	for i := range b.data {
		b.data[i] = 0
	}
	return b
}
func (b BoundaryVector) Add(a BoundaryVector) BoundaryVector {
	checkLen(b.data, a.data)
	floats.Add(b.data, a.data)
	return b
}
func (b BoundaryVector) Subtract(a BoundaryVector) BoundaryVector {
	checkLen(b.data, a.data)
	floats.Sub(b.data, a.data)
	return b
}
func (b BoundaryVector) AddScaled(alpha float64, a BoundaryVector) BoundaryVector {
	checkLen(b.data, a.data)
	floats.AddScaled(b.data, alpha, a.data)
	return b
}
func (b BoundaryVector) Scale(a float64) BoundaryVector { floats.Scale(a, b.data); return b }

func (b BoundaryVector) Dot(a BoundaryVector) float64 {
	checkLen(b.data, a.data)
	if len(b.data) == 0 {
		return 0
	}
	return floats.Dot(b.data, a.data)
}

func (b BoundaryVector) Norm() float64 {
	if len(b.data) == 0 {
		return 0
	}
	return floats.Norm(b.data, 2)
}

// Sum returns the sum of the x and y components over all markers
func (b BoundaryVector) Sum() (x, y float64) {
	if len(b.data) == 0 {
		return
	}
	return floats.Sum(b.XData()), floats.Sum(b.YData())
}

func checkLen(a, b []float64) {
	if len(a) != len(b) {
		panic(fmt.Errorf("field length mismatch: %d and %d", len(a), len(b)))
	}
}
