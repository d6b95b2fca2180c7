package utils

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"github.com/james-bowman/sparse/blas"
	"gonum.org/v1/gonum/mat"
)

// DOK is the assembly format, converted to CSR once all entries are set
type DOK struct {
	M    *sparse.DOK
	name string
}

func NewDOK(nr, nc int, name ...string) (R DOK) {
	R = DOK{
		M:    sparse.NewDOK(nr, nc),
		name: "unnamed",
	}
	if len(name) != 0 {
		R.name = name[0]
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m DOK) Dims() (r, c int)              { return m.M.Dims() }
func (m DOK) At(i, j int) float64           { return m.M.At(i, j) }
func (m DOK) T() mat.Matrix                 { return m.M.T() }
func (m DOK) RawMatrix() *blas.SparseMatrix { return m.M.RawMatrix() }

func (m DOK) Set(i, j int, val float64) DOK { // Changes receiver
	var (
		nr, nc = m.Dims()
	)
	if i < 0 || i >= nr || j < 0 || j >= nc {
		err := fmt.Errorf("index (%d,%d) out of bounds for %d x %d sparse matrix \"%s\"", i, j, nr, nc, m.name)
		panic(err)
	}
	if val == 0 {
		return m
	}
	m.M.Set(i, j, val)
	return m
}

func (m DOK) ToCSR() CSR {
	return CSR{
		M:    m.M.ToCSR(),
		name: m.name,
	}
}

// CSR is immutable after assembly and is applied with the sparse BLAS kernels
type CSR struct {
	M    *sparse.CSR
	name string
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m CSR) Dims() (r, c int)              { return m.M.Dims() }
func (m CSR) At(i, j int) float64           { return m.M.At(i, j) }
func (m CSR) T() mat.Matrix                 { return m.M.T() }
func (m CSR) RawMatrix() *blas.SparseMatrix { return m.M.RawMatrix() }
func (m CSR) Name() string                  { return m.name }
func (m CSR) NNZ() int                      { return m.M.NNZ() }

// MulVec overwrites y with A*x, or with A^T*x when trans is set
func (m CSR) MulVec(y, x []float64, trans bool) {
	m.checkVecDims(y, x, trans)
	for i := range y {
		y[i] = 0
	}
	blas.Dusmv(trans, 1, m.RawMatrix(), x, 1, y, 1)
}

// MulVecAdd accumulates y += alpha*A*x, or y += alpha*A^T*x when trans is set
func (m CSR) MulVecAdd(y []float64, alpha float64, x []float64, trans bool) {
	m.checkVecDims(y, x, trans)
	blas.Dusmv(trans, alpha, m.RawMatrix(), x, 1, y, 1)
}

func (m CSR) checkVecDims(y, x []float64, trans bool) {
	var (
		nr, nc = m.Dims()
	)
	if trans {
		nr, nc = nc, nr
	}
	if len(x) != nc || len(y) != nr {
		err := fmt.Errorf("sparse operator \"%s\" (trans = %v) is %d x %d, have len(x) = %d, len(y) = %d",
			m.name, trans, nr, nc, len(x), len(y))
		panic(err)
	}
}
