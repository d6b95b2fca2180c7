package NavierStokes2D

import (
	"github.com/notargets/ibpm/Grid2D"
	"github.com/notargets/ibpm/geometry2D"
	"github.com/notargets/ibpm/types"
)

type ModelConfig struct {
	Type             types.ModelType
	Grid             *Grid2D.Grid
	Geometry         *geometry2D.Geometry
	Reynolds         float64
	Magnitude, Alpha float64         // Free stream of the nonlinear model
	BaseFlow         *Grid2D.State   // Linear and adjoint models
	PeriodicBaseFlow []*Grid2D.State // Linear periodic model, one snapshot per step
	PeriodOffset     int
}

// NewModel validates the configuration and builds the requested model variant
func NewModel(cfg ModelConfig) (m Model, err error) {
	if cfg.Grid == nil {
		err = NewConfigurationError("no grid")
		return
	}
	if cfg.Reynolds <= 0 {
		err = NewConfigurationError("Reynolds number must be positive, have %v", cfg.Reynolds)
		return
	}
	switch cfg.Type {
	case types.MODEL_Nonlinear:
		if cfg.BaseFlow != nil || len(cfg.PeriodicBaseFlow) != 0 {
			err = NewConfigurationError("the nonlinear model does not use a base flow")
			return
		}
		m = NewNonlinearNavierStokes(cfg.Grid, cfg.Geometry, cfg.Reynolds, cfg.Magnitude, cfg.Alpha)
	case types.MODEL_Linear, types.MODEL_Adjoint:
		if cfg.BaseFlow == nil {
			err = NewConfigurationError("the %s model requires a base flow", cfg.Type)
			return
		}
		if len(cfg.PeriodicBaseFlow) != 0 {
			err = NewConfigurationError("the %s model does not use a periodic base flow", cfg.Type)
			return
		}
		if err = checkBaseFlow(cfg.Grid, cfg.BaseFlow, 0); err != nil {
			return
		}
		if cfg.Type == types.MODEL_Linear {
			m = NewLinearizedNavierStokes(cfg.Grid, cfg.Geometry, cfg.Reynolds, cfg.BaseFlow)
		} else {
			m = NewAdjointNavierStokes(cfg.Grid, cfg.Geometry, cfg.Reynolds, cfg.BaseFlow)
		}
	case types.MODEL_LinearPeriodic:
		if len(cfg.PeriodicBaseFlow) == 0 {
			err = NewConfigurationError("the %s model requires a periodic base flow", cfg.Type)
			return
		}
		if cfg.BaseFlow != nil {
			err = NewConfigurationError("the %s model does not use a single base flow", cfg.Type)
			return
		}
		for i, base := range cfg.PeriodicBaseFlow {
			if err = checkBaseFlow(cfg.Grid, base, i); err != nil {
				return
			}
		}
		m = NewLinearizedPeriodicNavierStokes(cfg.Grid, cfg.Geometry, cfg.Reynolds,
			cfg.PeriodicBaseFlow, cfg.PeriodOffset)
	default:
		err = NewConfigurationError("unknown model type %d", cfg.Type)
	}
	return
}

func checkBaseFlow(grid *Grid2D.Grid, base *Grid2D.State, index int) error {
	if base == nil {
		return NewConfigurationError("base flow %d is missing", index)
	}
	g := base.Grid()
	if g == nil {
		return NewConfigurationError("base flow %d has no grid", index)
	}
	if !grid.Matches(g) {
		return NewConfigurationError("base flow %d grid %d x %d does not match the grid %d x %d",
			index, g.Nx, g.Ny, grid.Nx, grid.Ny)
	}
	return nil
}
