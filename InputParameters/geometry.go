package InputParameters

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/ghodss/yaml"

	"github.com/notargets/ibpm/geometry2D"
	"github.com/notargets/ibpm/model_problems/NavierStokes2D"
)

/*
	A body in the YAML input is a named set of shapes with an optional motion law:

		Bodies:
		  - Name: cylinder
		    Center: [0, 0]
		    Shapes:
		      - Type: circle
		        Center: [0, 0]
		        Radius: 0.5
		        NPoints: 100
		    Motion:
		      Type: pitchplunge
		      PitchAmplitude: 10  # degrees
		      PitchFrequency: 0.1

	Shape types are circle, line (Start, End, NPoints), point (Center) and raw (Points).
	Motion types are fixed (X, Y, Theta), velocity (XDot, YDot, ThetaDot), rotating (Omega)
	and pitchplunge. Angles are in degrees.
*/
type BodyParameters struct {
	Name   string            `json:"Name"`
	Center [2]float64        `json:"Center"`
	Shapes []ShapeParameters `json:"Shapes"`
	Motion *MotionParameters `json:"Motion,omitempty"`
}

type ShapeParameters struct {
	Type    string       `json:"Type"`
	Center  [2]float64   `json:"Center"`
	Radius  float64      `json:"Radius"`
	Start   [2]float64   `json:"Start"`
	End     [2]float64   `json:"End"`
	NPoints int          `json:"NPoints"`
	Points  [][2]float64 `json:"Points"`
}

type MotionParameters struct {
	Type            string  `json:"Type"`
	X               float64 `json:"X"`
	Y               float64 `json:"Y"`
	Theta           float64 `json:"Theta"`
	XDot            float64 `json:"XDot"`
	YDot            float64 `json:"YDot"`
	ThetaDot        float64 `json:"ThetaDot"`
	Omega           float64 `json:"Omega"`
	PitchAmplitude  float64 `json:"PitchAmplitude"`
	PitchFrequency  float64 `json:"PitchFrequency"`
	PitchPhase      float64 `json:"PitchPhase"`
	PlungeAmplitude float64 `json:"PlungeAmplitude"`
	PlungeFrequency float64 `json:"PlungeFrequency"`
	PlungePhase     float64 `json:"PlungePhase"`
}

type geometryFile struct {
	Bodies []BodyParameters `json:"Bodies"`
}

func deg2rad(a float64) float64 { return a * math.Pi / 180 }

func point(x [2]float64) geometry2D.Point { return geometry2D.NewPoint(x[0], x[1]) }

func (sp ShapeParameters) Validate() (err error) {
	switch strings.ToLower(sp.Type) {
	case "circle":
		if sp.Radius <= 0 || sp.NPoints < 1 {
			err = NavierStokes2D.NewConfigurationError("circle needs a positive radius and number of points")
		}
	case "line":
		if sp.NPoints < 2 {
			err = NavierStokes2D.NewConfigurationError("line needs at least two points")
		}
	case "point":
	case "raw":
		if len(sp.Points) == 0 {
			err = NavierStokes2D.NewConfigurationError("raw shape has no points")
		}
	default:
		err = NavierStokes2D.NewConfigurationError("unknown shape type %q", sp.Type)
	}
	return
}

func (sp ShapeParameters) addTo(rb *geometry2D.RigidBody) {
	switch strings.ToLower(sp.Type) {
	case "circle":
		rb.AddCircle(point(sp.Center), sp.Radius, sp.NPoints)
	case "line":
		rb.AddLine(point(sp.Start), point(sp.End), sp.NPoints)
	case "point":
		rb.AddPoint(point(sp.Center))
	case "raw":
		for _, p := range sp.Points {
			rb.AddPoint(point(p))
		}
	}
}

func (mp *MotionParameters) NewMotion() (m geometry2D.Motion, err error) {
	switch strings.ToLower(mp.Type) {
	case "fixed":
		m = &geometry2D.FixedPosition{X: mp.X, Y: mp.Y, Theta: deg2rad(mp.Theta)}
	case "velocity":
		m = &geometry2D.FixedVelocity{XDot: mp.XDot, YDot: mp.YDot, ThetaDot: deg2rad(mp.ThetaDot)}
	case "rotating":
		m = &geometry2D.Rotating{Omega: deg2rad(mp.Omega)}
	case "pitchplunge":
		m = &geometry2D.PitchPlunge{
			PitchAmplitude:  deg2rad(mp.PitchAmplitude),
			PitchFrequency:  mp.PitchFrequency,
			PitchPhase:      deg2rad(mp.PitchPhase),
			PlungeAmplitude: mp.PlungeAmplitude,
			PlungeFrequency: mp.PlungeFrequency,
			PlungePhase:     deg2rad(mp.PlungePhase),
		}
	default:
		err = NavierStokes2D.NewConfigurationError("unknown motion type %q", mp.Type)
	}
	return
}

func (bp BodyParameters) Validate() (err error) {
	if len(bp.Shapes) == 0 {
		return NavierStokes2D.NewConfigurationError("body %q has no shapes", bp.Name)
	}
	for _, sp := range bp.Shapes {
		if err = sp.Validate(); err != nil {
			return
		}
	}
	if bp.Motion != nil {
		_, err = bp.Motion.NewMotion()
	}
	return
}

func (bp BodyParameters) NewRigidBody() (rb *geometry2D.RigidBody, err error) {
	if err = bp.Validate(); err != nil {
		return
	}
	rb = geometry2D.NewRigidBody(bp.Name, point(bp.Center))
	for _, sp := range bp.Shapes {
		sp.addTo(rb)
	}
	if bp.Motion != nil {
		var m geometry2D.Motion
		if m, err = bp.Motion.NewMotion(); err != nil {
			return nil, err
		}
		rb.SetMotion(m)
	}
	return
}

func (bp BodyParameters) String() string {
	var shapes []string
	for _, sp := range bp.Shapes {
		shapes = append(shapes, strings.ToLower(sp.Type))
	}
	motion := "none"
	if bp.Motion != nil {
		motion = strings.ToLower(bp.Motion.Type)
	}
	return fmt.Sprintf("%s: shapes %v, motion %s", bp.Name, shapes, motion)
}

// NewGeometry builds the bodies in order, no bodies is an empty geometry
func NewGeometry(bodies []BodyParameters) (geom *geometry2D.Geometry, err error) {
	geom = geometry2D.NewGeometry()
	for i, bp := range bodies {
		var rb *geometry2D.RigidBody
		if rb, err = bp.NewRigidBody(); err != nil {
			return nil, fmt.Errorf("body %d: %w", i, err)
		}
		geom.AddBody(rb)
	}
	return
}

// ReadGeometry parses a YAML file holding a Bodies list
func ReadGeometry(path string) (geom *geometry2D.Geometry, err error) {
	var (
		data []byte
		gf   geometryFile
	)
	if data, err = os.ReadFile(path); err != nil {
		return
	}
	if err = yaml.Unmarshal(data, &gf); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return NewGeometry(gf.Bodies)
}

// NewGeometry builds the bodies of the run, read from the geometry file when none are given inline
func (ip *InputParametersIBPM) NewGeometry() (*geometry2D.Geometry, error) {
	if len(ip.Bodies) == 0 && ip.Geometry != "" {
		return ReadGeometry(ip.Geometry)
	}
	return NewGeometry(ip.Bodies)
}
