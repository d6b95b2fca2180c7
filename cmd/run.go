/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/ibpm/Grid2D"
	"github.com/notargets/ibpm/InputParameters"
	"github.com/notargets/ibpm/Output"
	"github.com/notargets/ibpm/TimeStepper"
	"github.com/notargets/ibpm/geometry2D"
	"github.com/notargets/ibpm/model_problems/NavierStokes2D"
	"github.com/notargets/ibpm/types"
	"github.com/notargets/ibpm/utils"
)

// RunCmd represents the run command
var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Advance the flow around the bodies for a number of timesteps",
	Long: `
Advances the flow for nsteps timesteps, writing restart, Tecplot and force files to outdir.
Parameters come from the defaults, then the YAML input file, the config file, IBPM_ environment
variables and finally the command line.

ibpm run -I cylinder.yaml --nsteps 1000 --scheme rk3`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			ip *InputParameters.InputParametersIBPM
			d  *Driver
		)
		if ip, err = readInput(viper.GetString("input")); err != nil {
			return
		}
		applyOverrides(ip)
		ip.Print()
		if err = os.MkdirAll(ip.OutDir, 0755); err != nil {
			return
		}
		switch strings.ToLower(viper.GetString("profile")) {
		case "cpu":
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(ip.OutDir)).Stop()
		case "mem":
			defer profile.Start(profile.MemProfile, profile.ProfilePath(ip.OutDir)).Stop()
		}
		if d, err = NewDriver(ip, newLogger(viper.GetString("loglevel"))); err != nil {
			return
		}
		return d.Run()
	},
}

func init() {
	rootCmd.AddCommand(RunCmd)
	var (
		d = InputParameters.NewInputParametersIBPM()
		f = RunCmd.Flags()
	)
	f.StringP("input", "I", "", "YAML file of run parameters, see InputParameters.InputParametersIBPM")
	f.String("name", d.Name, "run name")
	f.Int("nx", d.Grid.Nx, "number of gridpoints in x-direction")
	f.Int("ny", d.Grid.Ny, "number of gridpoints in y-direction")
	f.Int("ngrid", d.Grid.Ngrid, "number of grid levels, only 1 is supported")
	f.Float64("length", d.Grid.Length, "length of the domain in x-direction")
	f.Float64("xoffset", d.Grid.XOffset, "x-coordinate of the left edge of the domain")
	f.Float64("yoffset", d.Grid.YOffset, "y-coordinate of the bottom edge of the domain")
	f.String("geom", d.Geometry, "YAML file of the bodies")
	f.Float64("Re", d.Reynolds, "Reynolds number")
	f.Float64("dt", d.Dt, "timestep")
	f.Float64("magnitude", d.Magnitude, "free stream speed of the nonlinear model")
	f.Float64("alpha", d.Alpha, "free stream angle in degrees")
	f.String("model", d.Model, "type of model (linear, nonlinear, adjoint, linearperiodic)")
	f.String("baseflow", d.BaseFlow, "base flow for linear/adjoint model")
	f.String("scheme", d.Scheme, "timestepping scheme (euler, ab2, rk2, rk3)")
	f.String("solver", d.Solver, "projection solver (auto, cholesky, cg)")
	f.Float64("tol", d.Tolerance, "relative tolerance of the cg projection solver")
	f.Int("maxiter", d.MaxIterations, "iteration limit of the cg projection solver, 0 selects a default")
	f.String("ic", d.IC, "initial condition filename")
	f.String("outdir", d.OutDir, "directory for saving output")
	f.Int("tecplot", d.Tecplot, "if >0, write a Tecplot file every n timesteps")
	f.Int("restart", d.Restart, "if >0, write a restart file every n timesteps")
	f.Int("force", d.Force, "if >0, write forces every n timesteps")
	f.Int("nsteps", d.NumSteps, "number of timesteps to compute")
	f.Int("period", d.Period, "period of the periodic base flow")
	f.Int("periodstart", d.PeriodStart, "first index of the periodic base flow files")
	f.String("pbaseflowname", d.PeriodicBaseFlowName,
		"name of the periodic base flow, e.g. 'flow/ibpmperiodic%05d.bin', expanded with periodstart + i")
	f.Bool("subbaseflow", d.SubtractBaseFlow, "subtract the base flow from the initial condition")
	f.String("numdigfilename", d.NumDigitFileName, "format of the step number in output file names")
	f.String("profile", "", "write a cpu or mem profile to outdir")
	f.String("loglevel", "info", "log level (debug, info, warn, error)")
	if err := viper.BindPFlags(f); err != nil {
		panic(err)
	}
}

func readInput(path string) (ip *InputParameters.InputParametersIBPM, err error) {
	var data []byte
	ip = InputParameters.NewInputParametersIBPM()
	if path == "" {
		return
	}
	if data, err = os.ReadFile(path); err != nil {
		return nil, err
	}
	if err = ip.Parse(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return
}

// applyOverrides copies every parameter set by the config file, the environment or the command line
func applyOverrides(ip *InputParameters.InputParametersIBPM) {
	setString := func(key string, p *string) {
		if viper.IsSet(key) {
			*p = viper.GetString(key)
		}
	}
	setInt := func(key string, p *int) {
		if viper.IsSet(key) {
			*p = viper.GetInt(key)
		}
	}
	setFloat := func(key string, p *float64) {
		if viper.IsSet(key) {
			*p = viper.GetFloat64(key)
		}
	}
	setString("name", &ip.Name)
	setInt("nx", &ip.Grid.Nx)
	setInt("ny", &ip.Grid.Ny)
	setInt("ngrid", &ip.Grid.Ngrid)
	setFloat("length", &ip.Grid.Length)
	setFloat("xoffset", &ip.Grid.XOffset)
	setFloat("yoffset", &ip.Grid.YOffset)
	setString("geom", &ip.Geometry)
	setFloat("Re", &ip.Reynolds)
	setFloat("dt", &ip.Dt)
	setFloat("magnitude", &ip.Magnitude)
	setFloat("alpha", &ip.Alpha)
	setString("model", &ip.Model)
	setString("baseflow", &ip.BaseFlow)
	setString("scheme", &ip.Scheme)
	setString("solver", &ip.Solver)
	setFloat("tol", &ip.Tolerance)
	setInt("maxiter", &ip.MaxIterations)
	setString("ic", &ip.IC)
	setString("outdir", &ip.OutDir)
	setInt("tecplot", &ip.Tecplot)
	setInt("restart", &ip.Restart)
	setInt("force", &ip.Force)
	setInt("nsteps", &ip.NumSteps)
	setInt("period", &ip.Period)
	setInt("periodstart", &ip.PeriodStart)
	setString("pbaseflowname", &ip.PeriodicBaseFlowName)
	setString("numdigfilename", &ip.NumDigitFileName)
	if viper.IsSet("subbaseflow") {
		ip.SubtractBaseFlow = viper.GetBool("subbaseflow")
	}
}

func newLogger(lvl string) (logger log.Logger) {
	logger = log.NewLogfmtLogger(log.NewSyncWriter(os.Stdout))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)
	switch strings.ToLower(lvl) {
	case "debug":
		logger = level.NewFilter(logger, level.AllowDebug())
	case "warn":
		logger = level.NewFilter(logger, level.AllowWarn())
	case "error":
		logger = level.NewFilter(logger, level.AllowError())
	default:
		logger = level.NewFilter(logger, level.AllowInfo())
	}
	return
}

/*
	Driver owns everything a run needs: the grid, the bodies, the model, the time stepper,
	the state being advanced and the scheduled outputs.
*/
type Driver struct {
	ip       *InputParameters.InputParametersIBPM
	log      log.Logger
	basename string
	Grid     *Grid2D.Grid
	Geometry *geometry2D.Geometry
	Model    NavierStokes2D.Model
	Stepper  TimeStepper.TimeStepper
	State    *Grid2D.State
	Outputs  *Output.Logger
}

func NewDriver(ip *InputParameters.InputParametersIBPM, logger log.Logger) (d *Driver, err error) {
	var (
		warnings []string
		base     *Grid2D.State
	)
	if logger == nil {
		logger = log.NewNopLogger()
	}
	d = &Driver{
		ip:       ip,
		log:      log.With(logger, "run", ip.Name),
		basename: filepath.Join(ip.OutDir, ip.Name),
	}
	if warnings, err = ip.Validate(); err != nil {
		return nil, err
	}
	for _, w := range warnings {
		level.Warn(d.log).Log("msg", w)
	}
	if err = os.MkdirAll(ip.OutDir, 0755); err != nil {
		return nil, err
	}
	d.saveParameters()

	if d.Grid, err = Grid2D.NewGrid(ip.Grid.Nx, ip.Grid.Ny, ip.Grid.Ngrid,
		ip.Grid.Length, ip.Grid.XOffset, ip.Grid.YOffset); err != nil {
		return nil, &NavierStokes2D.ConfigurationError{Msg: "grid", Err: err}
	}
	level.Info(d.log).Log("msg", "grid", "grid", d.Grid.String())
	if d.Geometry, err = ip.NewGeometry(); err != nil {
		return nil, err
	}
	level.Info(d.log).Log("msg", "geometry", "bodies", d.Geometry.NumBodies(), "points", d.Geometry.NumPoints(),
		"stationary", d.Geometry.IsStationary())

	if d.Model, base, err = d.newModel(); err != nil {
		return nil, err
	}
	level.Info(d.log).Log("msg", "model", "model", d.Model.Name(), "Re", ip.Reynolds)

	if d.Stepper, err = TimeStepper.NewTimeStepper(types.NewSchemeType(ip.Scheme), d.Model, ip.Dt,
		ip.SolverParams()); err != nil {
		return nil, err
	}
	level.Info(d.log).Log("msg", "timestepper", "scheme", d.Stepper.Name(), "dt", ip.Dt)
	if !d.Stepper.Load(d.basename) {
		if err = d.Stepper.Init(); err != nil {
			return nil, err
		}
		d.Stepper.Save(d.basename)
	}

	d.State = d.initialCondition(base)
	level.Info(d.log).Log("msg", "initial condition", "step", d.State.Step, "time", d.State.Time)
	if hk, ok := d.Stepper.(TimeStepper.HistoryKeeper); ok {
		if step, has := hk.HistoryStep(); has && step+1 != d.State.Step {
			level.Warn(d.log).Log("msg", "stepper history does not precede the initial condition, starting cold",
				"file", d.basename, "history_step", step, "step", d.State.Step)
			if err = d.Stepper.Init(); err != nil {
				return nil, err
			}
		}
	}

	numFile := ip.NumDigitFileName
	d.Outputs = Output.NewLogger(d.log)
	d.Outputs.AddOutput(Output.NewTecplot(d.basename+numFile+".plt", "Test run, step"+numFile), ip.Tecplot)
	d.Outputs.AddOutput(Output.NewRestart(d.basename+numFile+".bin", d.basename, d.Stepper), ip.Restart)
	d.Outputs.AddOutput(Output.NewForce(d.basename+".force"), ip.Force)
	return
}

// newModel loads the base flows the model needs, base is the flow subtracted from the initial condition
func (d *Driver) newModel() (m NavierStokes2D.Model, base *Grid2D.State, err error) {
	var (
		ip  = d.ip
		cfg = NavierStokes2D.ModelConfig{
			Type:      types.NewModelType(ip.Model),
			Grid:      d.Grid,
			Geometry:  d.Geometry,
			Reynolds:  ip.Reynolds,
			Magnitude: ip.Magnitude,
			Alpha:     ip.Alpha * math.Pi / 180,
		}
		readBase = func(path string) (x *Grid2D.State, err error) {
			level.Info(d.log).Log("msg", "loading base flow", "file", path)
			if x, err = Grid2D.ReadState(path, d.Grid); err != nil {
				err = &NavierStokes2D.ConfigurationError{Msg: "base flow " + path, Err: err}
			}
			return
		}
	)
	switch cfg.Type {
	case types.MODEL_Linear, types.MODEL_Adjoint:
		if cfg.BaseFlow, err = readBase(ip.BaseFlow); err != nil {
			return
		}
		base = cfg.BaseFlow
	case types.MODEL_LinearPeriodic:
		for _, path := range ip.PeriodicBaseFlowFiles() {
			var x *Grid2D.State
			if x, err = readBase(path); err != nil {
				return
			}
			cfg.PeriodicBaseFlow = append(cfg.PeriodicBaseFlow, x)
		}
		base = cfg.PeriodicBaseFlow[0]
	}
	m, err = NavierStokes2D.NewModel(cfg)
	return
}

// initialCondition falls back to zero circulation when the file is missing or unreadable
func (d *Driver) initialCondition(base *Grid2D.State) (x *Grid2D.State) {
	x = Grid2D.NewState(d.Grid, d.Geometry.NumPoints())
	if d.ip.IC != "" && x.Load(d.ip.IC) {
		level.Info(d.log).Log("msg", "loaded initial condition", "file", d.ip.IC)
		if d.ip.SubtractBaseFlow && base != nil {
			level.Info(d.log).Log("msg", "subtracting the base flow from the initial condition")
			x.Gamma.Subtract(base.Gamma)
			x.Q.Subtract(base.Q)
			x.F.Zero()
		}
		return
	}
	if d.ip.IC != "" {
		level.Warn(d.log).Log("msg", "failed: using zero initial condition", "file", d.ip.IC)
	} else {
		level.Info(d.log).Log("msg", "using zero initial condition")
	}
	d.Model.ComputeFlux(x.Gamma, x.Q)
	return
}

func (d *Driver) saveParameters() {
	data, err := yaml.Marshal(d.ip)
	if err == nil {
		err = os.WriteFile(d.basename+".cmd.yaml", data, 0644)
	}
	if err != nil {
		level.Warn(d.log).Log("msg", "saving parameters", "err", err)
	}
}

// Run advances the state for the requested number of steps, output failures are logged and do not stop the run
func (d *Driver) Run() (err error) {
	if err = d.Outputs.Init(); err != nil {
		return
	}
	defer func() {
		if cErr := d.Outputs.Cleanup(); cErr != nil && err == nil {
			err = cErr
		}
	}()
	_ = d.Outputs.DoOutput(d.State)
	level.Info(d.log).Log("msg", "integrating", "steps", d.ip.NumSteps)
	for n := 0; n < d.ip.NumSteps; n++ {
		if err = d.Stepper.Advance(d.State); err != nil {
			level.Error(d.log).Log("step", d.State.Step+1, "err", err)
			return fmt.Errorf("step %d: %w", d.State.Step+1, err)
		}
		if utils.IsNan(d.State.Gamma.M) {
			err = fmt.Errorf("step %d: circulation is not finite", d.State.Step)
			level.Error(d.log).Log("step", d.State.Step, "err", err)
			return
		}
		fx, fy := Output.BodyForce(d.State)
		level.Info(d.log).Log("step", d.State.Step, "time", d.State.Time, "fx", fx, "fy", fy)
		_ = d.Outputs.DoOutput(d.State)
	}
	level.Debug(d.log).Log("msg", "done", "memory", utils.GetMemUsage())
	return
}
