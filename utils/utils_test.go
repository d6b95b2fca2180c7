package utils

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionMap(t *testing.T) {
	getHisto := func(K, Np int) (histo map[int]int) {
		pm := NewPartitionMap(Np, K)
		histo = make(map[int]int)
		for np := 0; np < pm.ParallelDegree; np++ {
			histo[pm.GetBucketDimension(np)]++
		}
		return
	}
	getTotal := func(histo map[int]int) (total int) {
		for key, count := range histo {
			total += key * count
		}
		return
	}
	assert.Equal(t, map[int]int{0: 30, 1: 2}, getHisto(2, 32))
	assert.Equal(t, map[int]int{8: 32}, getHisto(256, 32))
	assert.Equal(t, map[int]int{8: 1, 9: 31}, getHisto(287, 32))
	assert.Equal(t, 31, NewPartitionMap(0, 31).GetBucketDimension(-1))
	for n := 64; n < 2000; n++ {
		histo := getHisto(n, 7)
		assert.Equal(t, n, getTotal(histo))
		assert.LessOrEqual(t, len(histo), 2) // Maximum imbalance of one item
	}
	{ // Run visits every index exactly once, skipping empty partitions
		for _, np := range []int{1, 3, 8, 40} {
			var (
				pm     = NewPartitionMap(np, 31)
				visits = make([]int, 31)
				mu     sync.Mutex
				calls  int
			)
			pm.Run(func(bucket, kMin, kMax int) {
				mu.Lock()
				calls++
				mu.Unlock()
				bMin, bMax := pm.GetBucketRange(bucket)
				assert.Equal(t, bMin, kMin)
				assert.Equal(t, bMax, kMax)
				for k := kMin; k < kMax; k++ {
					visits[k]++
				}
			})
			for k := range visits {
				assert.Equal(t, 1, visits[k])
			}
			assert.Equal(t, int(math.Min(float64(np), 31)), calls)
		}
	}
}

func TestSparse(t *testing.T) {
	// [ 1 0 2 ]
	// [ 0 3 0 ]
	A := NewDOK(2, 3, "A").Set(0, 0, 1).Set(0, 2, 2).Set(1, 1, 3).Set(1, 0, 0).ToCSR()
	assert.Equal(t, "A", A.Name())
	assert.Equal(t, 3, A.NNZ())
	nr, nc := A.Dims()
	assert.Equal(t, [2]int{2, 3}, [2]int{nr, nc})
	{
		y := []float64{9, 9}
		A.MulVec(y, []float64{1, 2, 3}, false)
		assert.Equal(t, []float64{7, 6}, y)
		A.MulVecAdd(y, -1, []float64{1, 2, 3}, false)
		assert.Equal(t, []float64{0, 0}, y)
	}
	{
		y := make([]float64, 3)
		A.MulVec(y, []float64{1, -1}, true)
		assert.Equal(t, []float64{1, -3, 2}, y)
	}
	assert.Panics(t, func() { A.MulVec(make([]float64, 2), make([]float64, 2), false) })
	assert.Panics(t, func() { NewDOK(2, 2).Set(2, 0, 1) })
	assert.False(t, IsNan(A))
}

func TestMatrix(t *testing.T) {
	M := NewMatrix(2, 3, []float64{
		1, -2, 3,
		4, 5, -6,
	})
	A := M.Copy().Scale(2).AddScalar(1)
	assert.Equal(t, []float64{3, -3, 7, 9, 11, -11}, A.Data())
	assert.Equal(t, []float64{1, -2, 3, 4, 5, -6}, M.Data())
	assert.Equal(t, 6., M.MaxAbs())
	assert.Equal(t, -6., M.Min())
	assert.Equal(t, 91., M.Dot(M))
	B := NewMatrix(2, 3).Fill(2)
	assert.Equal(t, []float64{2, -4, 6, 8, 10, -12}, B.ElMul(M).Data())
	assert.Equal(t, []float64{2, 2, 2, 2, 2, 2}, B.ElDiv(M).Data())
	assert.Equal(t, []float64{0, 0, 0, 0, 0, 0}, B.Subtract(B.Copy()).Data())
	assert.Panics(t, func() { M.Add(NewMatrix(3, 2)) })
	assert.False(t, IsNan(M))
	assert.True(t, IsNan(M.Copy().Set(1, 1, math.Inf(1))))
	assert.True(t, IsNan(math.NaN()))
	{ // Read only matrices refuse writes, copies are writable
		R := M.Copy()
		R.SetReadOnly("R")
		assert.True(t, R.IsReadOnly())
		assert.PanicsWithError(t, "attempt to write to a read only matrix named: \"R\"", func() { R.Scale(2) })
		assert.Panics(t, func() { R.Set(0, 0, 1) })
		assert.False(t, R.Copy().IsReadOnly())
		assert.Equal(t, M.Data(), R.Data())
	}
}
