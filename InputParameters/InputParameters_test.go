package InputParameters

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/ibpm/model_problems/NavierStokes2D"
	"github.com/notargets/ibpm/types"
)

var fileInput = []byte(`
Title: Cylinder at Re 100
Name: cyl
Grid:
  Nx: 100
  Ny: 80
  Ngrid: 1
  Length: 4.
  XOffset: -1
  YOffset: -1.6
Re: 100
Dt: 0.01
NumSteps: 500
Model: Nonlinear
Scheme: RK3
Solver: cg
Tolerance: 1.e-9
Tecplot: 0
Bodies:
  - Name: cylinder
    Shapes:
      - Type: circle
        Center: [0, 0]
        Radius: 0.5
        NPoints: 40
  - Name: flap
    Center: [1, 0]
    Shapes:
      - Type: line
        Start: [1, 0]
        End: [1.5, 0]
        NPoints: 6
      - Type: point
        Center: [2, 0]
    Motion:
      Type: pitchplunge
      PitchAmplitude: 10
      PitchFrequency: 0.2
      PlungeAmplitude: 0.1
      PlungeFrequency: 0.2
`)

func TestParse(t *testing.T) {
	ip := NewInputParametersIBPM()
	require.NoError(t, ip.Parse(fileInput))
	assert.Equal(t, "cyl", ip.Name)
	assert.Equal(t, GridParameters{Nx: 100, Ny: 80, Ngrid: 1, Length: 4, XOffset: -1, YOffset: -1.6}, ip.Grid)
	assert.Equal(t, 0.01, ip.Dt)
	assert.Equal(t, types.SCHEME_RK3, types.NewSchemeType(ip.Scheme))
	assert.Equal(t, types.MODEL_Nonlinear, types.NewModelType(ip.Model))
	// Unset values keep their defaults, explicit zeros override them
	assert.Equal(t, 100, ip.Restart)
	assert.Equal(t, 0, ip.Tecplot)
	assert.Equal(t, "%05d", ip.NumDigitFileName)
	sp := ip.SolverParams()
	assert.Equal(t, types.SOLVER_ConjugateGradient, sp.Type)
	assert.Equal(t, 1.e-9, sp.Tolerance)
	require.Len(t, ip.Bodies, 2)
	assert.Equal(t, [2]float64{1, 0}, ip.Bodies[1].Center)
	assert.Equal(t, "flap: shapes [line point], motion pitchplunge", ip.Bodies[1].String())
	ip.Print()

	warnings, err := ip.Validate()
	require.NoError(t, err)
	assert.Empty(t, warnings)

	geom, err := ip.NewGeometry()
	require.NoError(t, err)
	assert.Equal(t, 2, geom.NumBodies())
	assert.Equal(t, 47, geom.NumPoints())
	assert.False(t, geom.IsStationary())
	assert.True(t, geom.Bodies[0].IsStationary())
}

func TestValidate(t *testing.T) {
	var ce *NavierStokes2D.ConfigurationError
	check := func(modify func(ip *InputParametersIBPM)) (warnings []string, err error) {
		ip := NewInputParametersIBPM()
		modify(ip)
		return ip.Validate()
	}
	badBody := func(ip *InputParametersIBPM) {
		ip.Bodies = []BodyParameters{{Name: "b", Shapes: []ShapeParameters{{Type: "circle"}}}}
	}
	badMotion := func(ip *InputParametersIBPM) {
		ip.Bodies = []BodyParameters{{
			Name:   "b",
			Shapes: []ShapeParameters{{Type: "point"}},
			Motion: &MotionParameters{Type: "wobble"},
		}}
	}
	periodicWithBase := func(ip *InputParametersIBPM) {
		ip.Model, ip.PeriodicBaseFlowName, ip.Period = "linearperiodic", "flow%05d.bin", 2
		ip.BaseFlow = "base.bin"
	}
	linearWithPeriod := func(ip *InputParametersIBPM) {
		ip.Model, ip.BaseFlow = "linear", "base.bin"
		ip.PeriodicBaseFlowName, ip.Period = "flow%05d.bin", 2
	}
	adjointWithName := func(ip *InputParametersIBPM) {
		ip.Model, ip.BaseFlow, ip.PeriodicBaseFlowName = "adjoint", "base.bin", "b%d.bin"
	}
	for name, modify := range map[string]func(ip *InputParametersIBPM){
		"multiple grids":     func(ip *InputParametersIBPM) { ip.Grid.Ngrid = 2 },
		"unknown model":      func(ip *InputParametersIBPM) { ip.Model = "stokes" },
		"unknown scheme":     func(ip *InputParametersIBPM) { ip.Scheme = "rk4" },
		"unknown solver":     func(ip *InputParametersIBPM) { ip.Solver = "lu" },
		"zero timestep":      func(ip *InputParametersIBPM) { ip.Dt = 0 },
		"linear no base":     func(ip *InputParametersIBPM) { ip.Model = "linear" },
		"adjoint no base":    func(ip *InputParametersIBPM) { ip.Model = "adjoint" },
		"periodic no period": func(ip *InputParametersIBPM) { ip.Model = "linearperiodic"; ip.PeriodicBaseFlowName = "b%05d.bin" },
		"subtract nonlinear": func(ip *InputParametersIBPM) { ip.SubtractBaseFlow = true; ip.IC = "ic.bin" },
		"periodic with base": periodicWithBase,
		"linear with period": linearWithPeriod,
		"adjoint with name":  adjointWithName,
		"bad body":           badBody,
		"bad motion":         badMotion,
	} {
		_, err := check(modify)
		assert.True(t, errors.As(err, &ce), name)
	}
	{ // Base flows the nonlinear model ignores are only warnings
		warnings, err := check(func(ip *InputParametersIBPM) { ip.BaseFlow = "base.bin" })
		require.NoError(t, err)
		assert.Len(t, warnings, 1)
		warnings, err = check(func(ip *InputParametersIBPM) {
			ip.Model, ip.BaseFlow, ip.SubtractBaseFlow = "linear", "base.bin", true
		})
		require.NoError(t, err)
		assert.Len(t, warnings, 1)
	}
}

func TestPeriodicBaseFlowFiles(t *testing.T) {
	ip := NewInputParametersIBPM()
	ip.Model, ip.PeriodicBaseFlowName, ip.Period, ip.PeriodStart = "linearperiodic", "base/flow%05d.bin", 3, 10
	_, err := ip.Validate()
	require.NoError(t, err)
	assert.Equal(t, []string{"base/flow00010.bin", "base/flow00011.bin", "base/flow00012.bin"},
		ip.PeriodicBaseFlowFiles())
}

func TestGeometryFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plate.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
Bodies:
  - Name: plate
    Shapes:
      - Type: raw
        Points: [[0, 0], [0.5, 0], [1, 0]]
    Motion:
      Type: rotating
      Omega: 90
`), 0644))
	ip := NewInputParametersIBPM()
	ip.Geometry = path
	geom, err := ip.NewGeometry()
	require.NoError(t, err)
	assert.Equal(t, 3, geom.NumPoints())
	geom.MoveBodies(1)
	// A quarter turn about the origin takes the last marker to (0, 1)
	p := geom.Points()[2]
	assert.InDelta(t, 0, p.X[0], 1.e-14)
	assert.InDelta(t, 1, p.X[1], 1.e-14)
	v := geom.Velocities()
	assert.InDelta(t, -0.5*math.Pi, v.X(2), 1.e-14)

	_, err = ReadGeometry(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
	// With no bodies and no file the geometry is empty
	geom, err = NewInputParametersIBPM().NewGeometry()
	require.NoError(t, err)
	assert.Zero(t, geom.NumPoints())
}
