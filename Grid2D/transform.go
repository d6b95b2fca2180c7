package Grid2D

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/notargets/ibpm/utils"
)

/*
	SineTransform is the two dimensional type I discrete sine transform over the interior
	nodes, scaled to be orthonormal. With that scaling the transform is symmetric and is
	its own inverse, so the same call moves fields in either direction between physical
	and spectral space.

	Rows are transformed first, then columns. Each pass is split over a PartitionMap with
	one transform workspace per partition.
*/
type SineTransform struct {
	N1, N2       int // Number of rows and columns
	scale        float64
	rowPM, colPM *utils.PartitionMap
	rowDST       []*fourier.DST // Length N2, one per row partition
	colDST       []*fourier.DST // Length N1, one per column partition
	colBuf       [][]float64
}

func NewSineTransform(n1, n2, parallelDegree int) (st *SineTransform) {
	st = &SineTransform{
		N1:    n1,
		N2:    n2,
		rowPM: utils.NewPartitionMap(parallelDegree, n1),
		colPM: utils.NewPartitionMap(parallelDegree, n2),
	}
	st.rowDST = make([]*fourier.DST, st.rowPM.ParallelDegree)
	for np := range st.rowDST {
		st.rowDST[np] = fourier.NewDST(n2)
	}
	st.colDST = make([]*fourier.DST, st.colPM.ParallelDegree)
	st.colBuf = make([][]float64, st.colPM.ParallelDegree)
	for np := range st.colDST {
		st.colDST[np] = fourier.NewDST(n1)
		st.colBuf[np] = make([]float64, n1)
	}
	st.scale = 1. / math.Sqrt(roundTripFactor(st.rowDST[0])*roundTripFactor(st.colDST[0]))
	return
}

// roundTripFactor measures the gain of applying the unnormalized transform twice
func roundTripFactor(t *fourier.DST) float64 {
	var (
		x = make([]float64, t.Len())
	)
	x[0] = 1
	y := t.Transform(nil, x)
	return t.Transform(nil, y)[0]
}

// Transform writes the transform of src into dst, dst and src may be the same field
func (st *SineTransform) Transform(dst, src Scalar) {
	var (
		out, in = dst.Data(), src.Data()
		n2      = st.N2
	)
	checkLen(out, in)
	if len(in) != st.N1*st.N2 {
		panic("field size does not match the transform size")
	}
	st.rowPM.Run(func(np, iMin, iMax int) {
		t := st.rowDST[np]
		for i := iMin; i < iMax; i++ {
			t.Transform(out[i*n2:(i+1)*n2], in[i*n2:(i+1)*n2])
		}
	})
	st.colPM.Run(func(np, jMin, jMax int) {
		var (
			t   = st.colDST[np]
			buf = st.colBuf[np]
		)
		for j := jMin; j < jMax; j++ {
			for i := 0; i < st.N1; i++ {
				buf[i] = out[i*n2+j]
			}
			t.Transform(buf, buf)
			for i := 0; i < st.N1; i++ {
				out[i*n2+j] = st.scale * buf[i]
			}
		}
	})
}
