package Output

import (
	"fmt"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/notargets/ibpm/Grid2D"
)

// An Output writes some view of the State, Init is called once before the first Write
type Output interface {
	Name() string
	Init() error
	Write(x *Grid2D.State) error
	Cleanup() error
}

type scheduled struct {
	out   Output
	every int
}

/*
	Logger calls each of its outputs on the steps that are a multiple of that output's cadence.
	An output that fails to write is reported and skipped, the remaining outputs still run.
*/
type Logger struct {
	outputs []scheduled
	log     log.Logger
}

func NewLogger(logger log.Logger) *Logger {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Logger{log: log.With(logger, "subsys", "output")}
}

// AddOutput schedules o every n steps, n <= 0 disables the output
func (l *Logger) AddOutput(o Output, n int) {
	if n <= 0 {
		return
	}
	l.outputs = append(l.outputs, scheduled{out: o, every: n})
	level.Info(l.log).Log("msg", "scheduled output", "output", o.Name(), "every", n)
}

func (l *Logger) NumOutputs() int { return len(l.outputs) }

func (l *Logger) Init() (err error) {
	for _, s := range l.outputs {
		if err = s.out.Init(); err != nil {
			return fmt.Errorf("initializing %s: %w", s.out.Name(), err)
		}
	}
	return
}

// DoOutput writes every output due at x.Step and returns the first failure
func (l *Logger) DoOutput(x *Grid2D.State) (err error) {
	for _, s := range l.outputs {
		if x.Step%s.every != 0 {
			continue
		}
		if wErr := s.out.Write(x); wErr != nil {
			level.Error(l.log).Log("output", s.out.Name(), "step", x.Step, "err", wErr)
			if err == nil {
				err = wErr
			}
			continue
		}
		level.Debug(l.log).Log("output", s.out.Name(), "step", x.Step, "time", x.Time)
	}
	return
}

func (l *Logger) Cleanup() (err error) {
	for _, s := range l.outputs {
		if cErr := s.out.Cleanup(); cErr != nil && err == nil {
			err = cErr
		}
	}
	return
}
