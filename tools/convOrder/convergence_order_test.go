package main

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvergenceOrder(t *testing.T) {
	input := `title, scheme, dt, error
decay, rk2, 0.1, 4.0e-3
decay, euler, 0.1, 2.0e-2
decay, rk2, 0.05, 1.0e-3
decay, euler, 0.05, 1.0e-2
decay, rk2, 0.025, 2.5e-4
decay, euler, 0.025, 5.0e-3
cylinder, rk3, 0.02, 1.e-5
`
	studies, err := readCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, studies, 3)
	assert.Equal(t, "cylinder", studies[0].title)
	assert.Equal(t, "euler", studies[1].scheme)
	assert.Equal(t, "rk2", studies[2].scheme)
	assert.InDelta(t, 1, studies[1].Order(), 1.e-12)
	assert.InDelta(t, 2, studies[2].Order(), 1.e-12)
	// A single timestep has no order
	assert.True(t, math.IsNaN(studies[0].Order()))

	_, err = readCSV(strings.NewReader("title, scheme, dt, error\ndecay, rk2, fast, 1\n"))
	assert.Error(t, err)
}
