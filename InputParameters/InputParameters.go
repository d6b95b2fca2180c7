package InputParameters

import (
	"fmt"
	"strings"

	"github.com/ghodss/yaml"

	"github.com/notargets/ibpm/model_problems/NavierStokes2D"
	"github.com/notargets/ibpm/types"
)

type GridParameters struct {
	Nx      int     `json:"Nx"`
	Ny      int     `json:"Ny"`
	Ngrid   int     `json:"Ngrid"`
	Length  float64 `json:"Length"`
	XOffset float64 `json:"XOffset"`
	YOffset float64 `json:"YOffset"`
}

// Parameters obtained from the YAML input file, the command line overrides any of them
type InputParametersIBPM struct {
	Title                string           `json:"Title"`
	Name                 string           `json:"Name"`
	Grid                 GridParameters   `json:"Grid"`
	Reynolds             float64          `json:"Re"`
	Dt                   float64          `json:"Dt"`
	NumSteps             int              `json:"NumSteps"`
	Model                string           `json:"Model"`
	Scheme               string           `json:"Scheme"`
	Solver               string           `json:"Solver"`
	Tolerance            float64          `json:"Tolerance"`
	MaxIterations        int              `json:"MaxIterations"`
	Magnitude            float64          `json:"Magnitude"`
	Alpha                float64          `json:"Alpha"` // Free stream angle in degrees
	BaseFlow             string           `json:"BaseFlow"`
	Period               int              `json:"Period"`
	PeriodStart          int              `json:"PeriodStart"`
	PeriodicBaseFlowName string           `json:"PeriodicBaseFlowName"` // Pattern with a %d style verb
	SubtractBaseFlow     bool             `json:"SubtractBaseFlow"`
	IC                   string           `json:"IC"`
	OutDir               string           `json:"OutDir"`
	Tecplot              int              `json:"Tecplot"` // Output cadences in steps, 0 disables
	Restart              int              `json:"Restart"`
	Force                int              `json:"Force"`
	NumDigitFileName     string           `json:"NumDigitFileName"`
	Geometry             string           `json:"Geometry"` // Geometry file, used when Bodies is empty
	Bodies               []BodyParameters `json:"Bodies"`
}

// NewInputParametersIBPM returns the defaults of the ibpm command
func NewInputParametersIBPM() *InputParametersIBPM {
	return &InputParametersIBPM{
		Title:            "IBPM run",
		Name:             "ibpm",
		Grid:             GridParameters{Nx: 200, Ny: 200, Ngrid: 1, Length: 4, XOffset: -2, YOffset: -2},
		Reynolds:         100,
		Dt:               0.02,
		NumSteps:         250,
		Model:            "nonlinear",
		Scheme:           "rk2",
		Solver:           "auto",
		Tolerance:        1.e-7,
		Magnitude:        1,
		OutDir:           ".",
		Tecplot:          100,
		Restart:          100,
		Force:            1,
		NumDigitFileName: "%05d",
	}
}

func (ip *InputParametersIBPM) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *InputParametersIBPM) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%s]\t\t\t= Run Name\n", ip.Name)
	fmt.Printf("[%d x %d], %d\t\t= Grid, Number of Grids\n", ip.Grid.Nx, ip.Grid.Ny, ip.Grid.Ngrid)
	fmt.Printf("%8.5f\t\t= Grid Length\n", ip.Grid.Length)
	fmt.Printf("(%g, %g)\t\t= Grid Offset\n", ip.Grid.XOffset, ip.Grid.YOffset)
	fmt.Printf("%8.5f\t\t= Reynolds Number\n", ip.Reynolds)
	fmt.Printf("%8.5f\t\t= Timestep\n", ip.Dt)
	fmt.Printf("[%d]\t\t\t= Number of Steps\n", ip.NumSteps)
	fmt.Printf("[%s]\t\t= Model\n", types.NewModelType(ip.Model))
	fmt.Printf("[%s]\t\t= Scheme\n", types.NewSchemeType(ip.Scheme))
	fmt.Printf("[%s]\t\t\t= Projection Solver\n", types.NewSolverType(ip.Solver))
	if ip.BaseFlow != "" {
		fmt.Printf("[%s]\t\t= Base Flow\n", ip.BaseFlow)
	}
	if ip.PeriodicBaseFlowName != "" {
		fmt.Printf("[%s] x %d from %d\t= Periodic Base Flow\n", ip.PeriodicBaseFlowName, ip.Period, ip.PeriodStart)
	}
	for i, b := range ip.Bodies {
		fmt.Printf("Bodies[%d] = %s\n", i, b.String())
	}
}

/*
	Validate checks the combination of model, base flow and output settings before any
	step is taken. Inconsistent but harmless settings come back as warnings.
*/
func (ip *InputParametersIBPM) Validate() (warnings []string, err error) {
	var (
		mt = types.NewModelType(ip.Model)
	)
	switch {
	case ip.Grid.Ngrid != 1:
		err = NavierStokes2D.NewConfigurationError("ngrid = %d, only a single grid is supported", ip.Grid.Ngrid)
	case mt == types.MODEL_Invalid:
		err = NavierStokes2D.NewConfigurationError("unknown model %q", ip.Model)
	case types.NewSchemeType(ip.Scheme) == types.SCHEME_Invalid:
		err = NavierStokes2D.NewConfigurationError("unknown scheme %q", ip.Scheme)
	case types.NewSolverType(ip.Solver) == types.SOLVER_Invalid:
		err = NavierStokes2D.NewConfigurationError("unknown projection solver %q", ip.Solver)
	case ip.Dt <= 0:
		err = NavierStokes2D.NewConfigurationError("timestep must be positive, have %v", ip.Dt)
	case ip.Reynolds <= 0:
		err = NavierStokes2D.NewConfigurationError("Reynolds number must be positive, have %v", ip.Reynolds)
	case ip.NumSteps < 0:
		err = NavierStokes2D.NewConfigurationError("number of steps must not be negative, have %d", ip.NumSteps)
	case (mt == types.MODEL_Linear || mt == types.MODEL_Adjoint) && ip.BaseFlow == "":
		err = NavierStokes2D.NewConfigurationError("the %s model requires a base flow", mt)
	case (mt == types.MODEL_Linear || mt == types.MODEL_Adjoint) && ip.PeriodicBaseFlowName != "":
		err = NavierStokes2D.NewConfigurationError("the %s model does not take a periodic base flow", mt)
	case mt == types.MODEL_LinearPeriodic && (ip.PeriodicBaseFlowName == "" || ip.Period < 1):
		err = NavierStokes2D.NewConfigurationError("the %s model requires a periodic base flow name and a period", mt)
	case mt == types.MODEL_LinearPeriodic && ip.BaseFlow != "":
		err = NavierStokes2D.NewConfigurationError("the %s model takes a periodic base flow, not a single base flow", mt)
	case ip.SubtractBaseFlow && !mt.NeedsBaseFlow():
		err = NavierStokes2D.NewConfigurationError("subtracting the base flow is only valid for linear models")
	case !strings.Contains(ip.NumDigitFileName, "%"):
		err = NavierStokes2D.NewConfigurationError("file number format %q has no verb", ip.NumDigitFileName)
	}
	if err != nil {
		return
	}
	for i, b := range ip.Bodies {
		if err = b.Validate(); err != nil {
			err = fmt.Errorf("body %d: %w", i, err)
			return
		}
	}
	if ip.SubtractBaseFlow && ip.IC == "" {
		warnings = append(warnings, "no initial condition to subtract the base flow from")
	}
	if mt == types.MODEL_Nonlinear && (ip.BaseFlow != "" || ip.PeriodicBaseFlowName != "") {
		warnings = append(warnings, fmt.Sprintf("the %s model ignores base flows", mt))
	}
	return
}

// PeriodicBaseFlowFiles expands the periodic base flow pattern for each phase of the period
func (ip *InputParametersIBPM) PeriodicBaseFlowFiles() (files []string) {
	for i := 0; i < ip.Period; i++ {
		files = append(files, fmt.Sprintf(ip.PeriodicBaseFlowName, i+ip.PeriodStart))
	}
	return
}

func (ip *InputParametersIBPM) SolverParams() NavierStokes2D.SolverParams {
	return NavierStokes2D.SolverParams{
		Type:          types.NewSolverType(ip.Solver),
		Tolerance:     ip.Tolerance,
		MaxIterations: ip.MaxIterations,
	}
}
