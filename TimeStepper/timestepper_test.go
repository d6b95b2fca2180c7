package TimeStepper

import (
	"errors"
	"math"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/ibpm/Grid2D"
	"github.com/notargets/ibpm/geometry2D"
	"github.com/notargets/ibpm/model_problems/NavierStokes2D"
	"github.com/notargets/ibpm/types"
)

var allSchemes = []types.SchemeType{types.SCHEME_Euler, types.SCHEME_AB2, types.SCHEME_RK2, types.SCHEME_RK3}

// decayModel is dgamma/dt = lambda gamma + kappa gamma with identity transforms and no bodies
type decayModel struct {
	grid          *Grid2D.Grid
	geom          *geometry2D.Geometry
	lambda, kappa float64
}

func newDecayModel(t *testing.T, lambda, kappa float64) *decayModel {
	g, err := Grid2D.NewGrid(3, 3, 1, 1, 0, 0)
	require.NoError(t, err)
	return &decayModel{grid: g, geom: geometry2D.NewGeometry(), lambda: lambda, kappa: kappa}
}

func (m *decayModel) Name() string                   { return "decay" }
func (m *decayModel) Grid() *Grid2D.Grid             { return m.grid }
func (m *decayModel) Geometry() *geometry2D.Geometry { return m.geom }

func (m *decayModel) Lambda() Grid2D.Scalar {
	return Grid2D.NewScalar(m.grid).Fill(m.lambda)
}

func (m *decayModel) S(x Grid2D.Scalar) Grid2D.Scalar    { return x.Copy() }
func (m *decayModel) Sinv(x Grid2D.Scalar) Grid2D.Scalar { return x.Copy() }

func (m *decayModel) ComputeFlux(gamma Grid2D.Scalar, q Grid2D.Flux) { q.Zero() }

func (m *decayModel) B(f Grid2D.BoundaryVector) Grid2D.Scalar {
	return Grid2D.NewScalar(m.grid)
}

func (m *decayModel) C(gamma Grid2D.Scalar) Grid2D.BoundaryVector {
	return Grid2D.NewBoundaryVector(0)
}

func (m *decayModel) Nonlinear(x *Grid2D.State) Grid2D.Scalar {
	return x.Gamma.Copy().Scale(m.kappa)
}

func newGrid(t *testing.T) *Grid2D.Grid {
	g, err := Grid2D.NewGrid(32, 32, 1, 4, -2, -2)
	require.NoError(t, err)
	return g
}

func newCylinder() *geometry2D.Geometry {
	center := geometry2D.NewPoint(0, 0)
	return geometry2D.NewGeometry(geometry2D.NewRigidBody("cylinder", center).AddCircle(center, 0.5, 24))
}

func randomState(g *Grid2D.Grid, nPoints int, seed int64) *Grid2D.State {
	rng := rand.New(rand.NewSource(seed))
	x := Grid2D.NewState(g, nPoints)
	for i := range x.Gamma.Data() {
		x.Gamma.Data()[i] = rng.NormFloat64()
	}
	return x
}

func newStepper(t *testing.T, scheme types.SchemeType, m NavierStokes2D.Model, h float64) TimeStepper {
	ts, err := NewTimeStepper(scheme, m, h, NavierStokes2D.DefaultSolverParams())
	require.NoError(t, err)
	require.NoError(t, ts.Init())
	return ts
}

func TestNewTimeStepper(t *testing.T) {
	m := newDecayModel(t, -1, 0)
	names := []string{"Explicit Euler", "Adams Bashforth", "Runge Kutta 2", "Runge Kutta 3"}
	for i, scheme := range allSchemes {
		ts := newStepper(t, scheme, m, 0.1)
		assert.Equal(t, names[i], ts.Name())
		assert.Equal(t, 0.1, ts.Timestep())
	}
	var ce *NavierStokes2D.ConfigurationError
	ts, err := NewTimeStepper(types.SCHEME_Invalid, m, 0.1, NavierStokes2D.DefaultSolverParams())
	assert.True(t, errors.As(err, &ce))
	assert.Nil(t, ts)
	ts, err = NewTimeStepper(types.SCHEME_RK2, m, -0.1, NavierStokes2D.DefaultSolverParams())
	assert.True(t, errors.As(err, &ce))
	assert.Nil(t, ts)
	ts, err = NewTimeStepper(types.SCHEME_RK3, m, 0.1, NavierStokes2D.SolverParams{Type: types.SOLVER_Invalid})
	assert.True(t, errors.As(err, &ce))
	assert.Nil(t, ts)
}

func TestOrderOfAccuracy(t *testing.T) {
	var (
		lambda, kappa = -1., -1.
		T             = 1.
		exact         = math.Exp((lambda + kappa) * T)
		hs            = []float64{0.1, 0.05, 0.025}
	)
	integrate := func(scheme types.SchemeType, h float64) float64 {
		m := newDecayModel(t, lambda, kappa)
		ts := newStepper(t, scheme, m, h)
		x := Grid2D.NewState(m.Grid(), 0)
		x.Gamma.Fill(1)
		nSteps := int(math.Round(T / h))
		for n := 0; n < nSteps; n++ {
			require.NoError(t, ts.Advance(x))
		}
		assert.InDelta(t, T, x.Time, 1.e-12)
		return x.Gamma.At(1, 1)
	}
	order := func(scheme types.SchemeType) (p float64) {
		var errs []float64
		for _, h := range hs {
			errs = append(errs, math.Abs(integrate(scheme, h)-exact))
		}
		return math.Log2(errs[1] / errs[2])
	}
	{ // Explicit Euler on the nonlinear term limits the scheme to first order
		p := order(types.SCHEME_Euler)
		assert.InDelta(t, 1, p, 0.15)
	}
	{
		p := order(types.SCHEME_RK2)
		assert.InDelta(t, 2, p, 0.15)
	}
	{ // Crank-Nicolson limits both to second order
		assert.Greater(t, order(types.SCHEME_AB2), 1.7)
		assert.Greater(t, order(types.SCHEME_RK3), 1.7)
	}
}

func TestPureDiffusion(t *testing.T) {
	var (
		g    = newGrid(t)
		zero = Grid2D.NewState(g, 0)
		h    = 0.05
		x0   = randomState(g, 0, 1)
	)
	m := NavierStokes2D.NewLinearizedNavierStokes(g, nil, 50, zero)
	m.ComputeFlux(x0.Gamma, x0.Q)
	cn := func(x Grid2D.Scalar, h float64) Grid2D.Scalar {
		amp := m.Lambda().Scale(0.5 * h).AddScalar(1).ElDiv(m.Lambda().Scale(-0.5 * h).AddScalar(1))
		return m.Sinv(m.S(x).ElMul(amp))
	}
	for _, scheme := range allSchemes {
		ts := newStepper(t, scheme, m, h)
		x := x0.Copy()
		require.NoError(t, ts.Advance(x))
		var expected Grid2D.Scalar
		if scheme == types.SCHEME_RK3 {
			expected = x0.Gamma.Copy()
			for k := 0; k < 3; k++ {
				expected = cn(expected, (rk3A[k]+rk3B[k])*h)
			}
		} else {
			expected = cn(x0.Gamma, h)
		}
		assert.InDeltaSlice(t, expected.Data(), x.Gamma.Data(), 1.e-12, scheme.String())
	}
}

func TestAdvance(t *testing.T) {
	var (
		g = newGrid(t)
		h = 0.02
	)
	for _, scheme := range allSchemes {
		geom := newCylinder()
		m := NavierStokes2D.NewNonlinearNavierStokes(g, geom, 100, 1, 0)
		ts := newStepper(t, scheme, m, h)
		x := Grid2D.NewState(g, geom.NumPoints())
		m.ComputeFlux(x.Gamma, x.Q)
		for n := 1; n <= 3; n++ {
			require.NoError(t, ts.Advance(x))
			// Time and step advance exactly once per call
			assert.InDelta(t, float64(n)*h, x.Time, 1.e-14)
			assert.Equal(t, n, x.Step)
		}
		{ // The flux is consistent with the circulation
			q := Grid2D.NewFlux(g)
			m.ComputeFlux(x.Gamma, q)
			assert.InDeltaSlice(t, q.Data(), x.Q.Data(), 1.e-12, scheme.String())
		}
		{ // No slip holds at the markers and the body feels a drag
			assert.InDeltaSlice(t, geom.Velocities().Data(), m.C(x.Gamma).Data(), 1.e-7, scheme.String())
			fx, _ := x.NetForce()
			assert.Greater(t, fx, 0., scheme.String())
		}
	}
}

func TestZeroBaseFlow(t *testing.T) {
	var (
		g = newGrid(t)
		h = 0.05
	)
	results := make(map[types.SchemeType]Grid2D.Scalar)
	for _, scheme := range allSchemes {
		geom := newCylinder()
		zero := Grid2D.NewState(g, 0)
		lin := NavierStokes2D.NewLinearizedNavierStokes(g, geom, 100, zero)
		adj := NavierStokes2D.NewAdjointNavierStokes(g, geom, 100, zero)
		x0 := randomState(g, geom.NumPoints(), 2)
		lin.ComputeFlux(x0.Gamma, x0.Q)
		xl, xa := x0.Copy(), x0.Copy()
		require.NoError(t, newStepper(t, scheme, lin, h).Advance(xl))
		require.NoError(t, newStepper(t, scheme, adj, h).Advance(xa))
		assert.InDeltaSlice(t, xl.Gamma.Data(), xa.Gamma.Data(), 1.e-12, scheme.String())
		results[scheme] = xl.Gamma
	}
	// Without an explicit term the single step schemes reduce to the same projected Crank-Nicolson step
	assert.InDeltaSlice(t, results[types.SCHEME_Euler].Data(), results[types.SCHEME_RK2].Data(), 1.e-10)
	assert.InDeltaSlice(t, results[types.SCHEME_Euler].Data(), results[types.SCHEME_AB2].Data(), 1.e-10)

	// A zero perturbation about a zero base flow stays at rest
	for _, scheme := range allSchemes {
		geom := newCylinder()
		zero := Grid2D.NewState(g, 0)
		for _, m := range []NavierStokes2D.Model{
			NavierStokes2D.NewLinearizedNavierStokes(g, geom, 100, zero),
			NavierStokes2D.NewAdjointNavierStokes(g, geom, 100, zero),
			NavierStokes2D.NewLinearizedPeriodicNavierStokes(g, geom, 100, []*Grid2D.State{zero, zero.Copy()}, 0),
		} {
			name := scheme.String() + " " + m.Name()
			ts := newStepper(t, scheme, m, h)
			x := Grid2D.NewState(g, geom.NumPoints())
			m.ComputeFlux(x.Gamma, x.Q)
			for n := 0; n < 3; n++ {
				require.NoError(t, ts.Advance(x), name)
			}
			assert.Equal(t, 3, x.Step, name)
			assert.InDelta(t, 3*h, x.Time, 1.e-12, name)
			assert.Zero(t, x.Gamma.MaxAbs(), name)
			assert.Zero(t, x.Q.MaxAbs(), name)
			assert.Zero(t, x.F.Norm(), name)
		}
	}
}

func TestAdamsBashforthRestart(t *testing.T) {
	var (
		g        = newGrid(t)
		h        = 0.02
		basename = filepath.Join(t.TempDir(), "run")
	)
	newRun := func() (m NavierStokes2D.Model, x *Grid2D.State) {
		geom := newCylinder()
		m = NavierStokes2D.NewNonlinearNavierStokes(g, geom, 100, 1, 0)
		x = Grid2D.NewState(g, geom.NumPoints())
		m.ComputeFlux(x.Gamma, x.Q)
		return
	}
	// Continuous run
	m, x := newRun()
	ab := newStepper(t, types.SCHEME_AB2, m, h)
	for n := 0; n < 4; n++ {
		require.NoError(t, ab.Advance(x))
	}

	// Interrupted run
	m1, y := newRun()
	ab1 := newStepper(t, types.SCHEME_AB2, m1, h)
	assert.False(t, ab1.Load(basename))
	assert.True(t, ab1.Save(basename)) // No history yet
	for n := 0; n < 2; n++ {
		require.NoError(t, ab1.Advance(y))
	}
	require.True(t, ab1.Save(basename))
	require.True(t, y.Save(basename+".bin"))

	m2, z := newRun()
	ab2 := newStepper(t, types.SCHEME_AB2, m2, h)
	require.True(t, ab2.Load(basename))
	assert.True(t, ab2.(*AdamsBashforth).HasHistory())
	require.True(t, z.Load(basename+".bin"))
	for n := 0; n < 2; n++ {
		require.NoError(t, ab2.Advance(z))
	}
	assert.Equal(t, x.Step, z.Step)
	assert.InDelta(t, x.Time, z.Time, 1.e-14)
	assert.InDeltaSlice(t, x.Gamma.Data(), z.Gamma.Data(), 1.e-12)
	assert.InDeltaSlice(t, x.F.Data(), z.F.Data(), 1.e-10)

	// A cold start differs from the resumed run
	require.NoError(t, ab2.Init())
	assert.False(t, ab2.(*AdamsBashforth).HasHistory())
}

func TestMovingBody(t *testing.T) {
	var (
		g    = newGrid(t)
		h    = 0.02
		geom = newCylinder()
	)
	geom.Bodies[0].SetMotion(&geometry2D.FixedVelocity{XDot: -1})
	m := NavierStokes2D.NewNonlinearNavierStokes(g, geom, 100, 0, 0)
	ts, err := NewTimeStepper(types.SCHEME_RK3, m, h, NavierStokes2D.SolverParams{
		Type:          types.SOLVER_Auto,
		Tolerance:     1.e-11,
		MaxIterations: 1000,
	})
	require.NoError(t, err)
	x := Grid2D.NewState(g, geom.NumPoints())
	m.ComputeFlux(x.Gamma, x.Q)
	for n := 0; n < 2; n++ {
		require.NoError(t, ts.Advance(x))
		// Bodies are at the end of step position and the constraint holds there
		assert.Equal(t, x.Time, geom.Time())
		assert.InDelta(t, -x.Time, geom.Points()[0].X[0]-0.5, 1.e-14)
		v := geom.Velocities()
		assert.Equal(t, -1., v.X(0))
		assert.InDeltaSlice(t, v.Data(), m.C(x.Gamma).Data(), 1.e-6)
	}
}

func TestConvergenceFailure(t *testing.T) {
	var (
		g    = newGrid(t)
		geom = newCylinder()
		m    = NavierStokes2D.NewNonlinearNavierStokes(g, geom, 100, 1, 0)
	)
	for _, scheme := range allSchemes {
		ts, err := NewTimeStepper(scheme, m, 0.02, NavierStokes2D.SolverParams{
			Type:          types.SOLVER_ConjugateGradient,
			Tolerance:     1.e-14,
			MaxIterations: 1,
		})
		require.NoError(t, err)
		x := randomState(g, geom.NumPoints(), 3)
		m.ComputeFlux(x.Gamma, x.Q)
		x0 := x.Copy()
		err = ts.Advance(x)
		var ce *NavierStokes2D.ConvergenceError
		require.True(t, errors.As(err, &ce), scheme.String())
		assert.Equal(t, x0.Gamma.Data(), x.Gamma.Data())
		assert.Equal(t, x0.Q.Data(), x.Q.Data())
		assert.Equal(t, x0.F.Data(), x.F.Data())
		assert.Equal(t, 0., x.Time)
		assert.Equal(t, 0, x.Step)
	}
}
