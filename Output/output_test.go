package Output

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/ibpm/Grid2D"
)

type countingOutput struct {
	name           string
	inits, cleanup int
	steps          []int
	fail           bool
}

func (c *countingOutput) Name() string { return c.name }
func (c *countingOutput) Init() error  { c.inits++; return nil }

func (c *countingOutput) Write(x *Grid2D.State) error {
	if c.fail {
		return errors.New("disk full")
	}
	c.steps = append(c.steps, x.Step)
	return nil
}

func (c *countingOutput) Cleanup() error { c.cleanup++; return nil }

type fakeStepper struct {
	saved []string
	ok    bool
}

func (f *fakeStepper) Save(basename string) bool {
	f.saved = append(f.saved, basename)
	return f.ok
}

func newState(t *testing.T, nPoints int) *Grid2D.State {
	g, err := Grid2D.NewGrid(4, 6, 1, 2, -1, -1.5)
	require.NoError(t, err)
	return Grid2D.NewState(g, nPoints)
}

func TestLogger(t *testing.T) {
	var (
		buf      bytes.Buffer
		every2   = &countingOutput{name: "every2"}
		every3   = &countingOutput{name: "every3"}
		disabled = &countingOutput{name: "disabled"}
		broken   = &countingOutput{name: "broken", fail: true}
		x        = newState(t, 0)
	)
	l := NewLogger(log.NewLogfmtLogger(&buf))
	l.AddOutput(every2, 2)
	l.AddOutput(every3, 3)
	l.AddOutput(disabled, 0)
	assert.Equal(t, 2, l.NumOutputs())
	require.NoError(t, l.Init())
	for x.Step = 0; x.Step <= 6; x.Step++ {
		require.NoError(t, l.DoOutput(x))
	}
	require.NoError(t, l.Cleanup())
	assert.Equal(t, []int{0, 2, 4, 6}, every2.steps)
	assert.Equal(t, []int{0, 3, 6}, every3.steps)
	assert.Equal(t, 1, every2.inits)
	assert.Equal(t, 1, every3.cleanup)
	assert.Zero(t, disabled.inits)
	assert.Contains(t, buf.String(), "output=every2")

	{ // A failing output is reported without blocking the others
		l.AddOutput(broken, 1)
		x.Step = 2
		err := l.DoOutput(x)
		assert.EqualError(t, err, "disk full")
		assert.Equal(t, []int{0, 2, 4, 6, 2}, every2.steps)
		assert.Contains(t, buf.String(), "err=\"disk full\"")
	}
}

func TestRestart(t *testing.T) {
	var (
		dir     = t.TempDir()
		stepper = &fakeStepper{ok: true}
		x       = newState(t, 3)
	)
	x.Gamma.Fill(1.5)
	x.F.Set(1, 0.25, -0.5)
	x.Step, x.Time = 20, 0.4
	r := NewRestart(filepath.Join(dir, "run%05d.bin"), filepath.Join(dir, "run"), stepper)
	assert.Equal(t, filepath.Join(dir, "run00020.bin"), r.FileName(20))
	require.NoError(t, r.Write(x))
	assert.Equal(t, []string{filepath.Join(dir, "run")}, stepper.saved)

	y := newState(t, 3)
	require.True(t, y.Load(r.FileName(20)))
	assert.Equal(t, x.Gamma.Data(), y.Gamma.Data())
	assert.Equal(t, x.F.Data(), y.F.Data())
	assert.Equal(t, 20, y.Step)
	assert.Equal(t, 0.4, y.Time)

	stepper.ok = false
	assert.Error(t, r.Write(x))
	// Without a stepper only the state is written
	assert.NoError(t, NewRestart(filepath.Join(dir, "bare%d.bin"), "", nil).Write(x))
}

func TestForce(t *testing.T) {
	var (
		path = filepath.Join(t.TempDir(), "run.force")
		x    = newState(t, 2)
	)
	f := NewForce(path)
	assert.Error(t, f.Write(x))
	require.NoError(t, f.Init())
	x.F.Set(0, 1, 0.5)
	x.F.Set(1, 2, -1.5)
	for n := 1; n <= 3; n++ {
		x.Step, x.Time = n, 0.1*float64(n)
		require.NoError(t, f.Write(x))
	}
	fx, fy := BodyForce(x)
	assert.Equal(t, 6., fx)
	assert.Equal(t, -2., fy)
	require.NoError(t, f.Cleanup())
	require.NoError(t, f.Cleanup())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "    3 3.00000e-01 6.00000e+00 -2.00000e+00", lines[2])
}

func TestTecplot(t *testing.T) {
	var (
		dir = t.TempDir()
		x   = newState(t, 0)
		g   = x.Grid()
	)
	// Uniform flow of unit speed along y with a single vortex
	x.Q = Grid2D.UniformFlow(g, 1, 0.5*3.141592653589793)
	x.Gamma.Set(2, 3, g.Dx*g.Dx)
	x.Step = 7

	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	require.NoError(t, WriteTecplot(w, "test", x))
	require.NoError(t, w.Flush())
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3+g.NumNodes())
	assert.Equal(t, "TITLE = \"test\"", lines[0])
	assert.Contains(t, lines[2], "I=3, J=5")

	var xx, yy, u, v, w0 float64
	// Node (2,3) is the 3rd point of the 3rd row
	_, err := fmt.Sscan(lines[3+2*(g.Nx-1)+1], &xx, &yy, &u, &v, &w0)
	require.NoError(t, err)
	assert.InDelta(t, g.X(2), xx, 1.e-12)
	assert.InDelta(t, g.Y(3), yy, 1.e-12)
	assert.InDelta(t, 0, u, 1.e-12)
	assert.InDelta(t, 1, v, 1.e-12)
	assert.InDelta(t, 1, w0, 1.e-12)

	tp := NewTecplot(filepath.Join(dir, "run%05d.plt"), "run step %05d")
	require.NoError(t, tp.Write(x))
	data, err := os.ReadFile(tp.FileName(7))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "TITLE = \"run step 00007\""))
}
