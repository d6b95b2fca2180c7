package geometry2D

import (
	"fmt"
	"math"
)

// TangentSE2 is a rigid planar displacement together with its rate of change
type TangentSE2 struct {
	X, Y, Theta          float64
	XDot, YDot, ThetaDot float64
}

// Map returns the position and velocity of the body frame point p
func (g TangentSE2) Map(p Point) (pos, vel Point) {
	var (
		c, s   = math.Cos(g.Theta), math.Sin(g.Theta)
		rx, ry = c*p.X[0] - s*p.X[1], s*p.X[0] + c*p.X[1]
	)
	pos = NewPoint(g.X+rx, g.Y+ry)
	vel = NewPoint(g.XDot-g.ThetaDot*ry, g.YDot+g.ThetaDot*rx)
	return
}

type Motion interface {
	Transformation(time float64) TangentSE2
	IsStationary() bool
	String() string
}

type FixedPosition struct {
	X, Y, Theta float64
}

func (m *FixedPosition) Transformation(float64) TangentSE2 {
	return TangentSE2{X: m.X, Y: m.Y, Theta: m.Theta}
}
func (m *FixedPosition) IsStationary() bool { return true }
func (m *FixedPosition) String() string {
	return fmt.Sprintf("fixed position (%g, %g, %g)", m.X, m.Y, m.Theta)
}

type FixedVelocity struct {
	XDot, YDot, ThetaDot float64
}

func (m *FixedVelocity) Transformation(t float64) TangentSE2 {
	return TangentSE2{
		X: m.XDot * t, Y: m.YDot * t, Theta: m.ThetaDot * t,
		XDot: m.XDot, YDot: m.YDot, ThetaDot: m.ThetaDot,
	}
}
func (m *FixedVelocity) IsStationary() bool { return false }
func (m *FixedVelocity) String() string {
	return fmt.Sprintf("fixed velocity (%g, %g, %g)", m.XDot, m.YDot, m.ThetaDot)
}

// Rotating spins the body about its reference center at a constant rate
type Rotating struct {
	Omega float64
}

func (m *Rotating) Transformation(t float64) TangentSE2 {
	return TangentSE2{Theta: m.Omega * t, ThetaDot: m.Omega}
}
func (m *Rotating) IsStationary() bool { return m.Omega == 0 }
func (m *Rotating) String() string     { return fmt.Sprintf("rotating, omega = %g", m.Omega) }

// PitchPlunge is a sinusoidal pitch about the reference center combined with a sinusoidal vertical plunge
type PitchPlunge struct {
	PitchAmplitude, PitchFrequency, PitchPhase    float64
	PlungeAmplitude, PlungeFrequency, PlungePhase float64
}

func (m *PitchPlunge) Transformation(t float64) TangentSE2 {
	var (
		wp = 2 * math.Pi * m.PitchFrequency
		wh = 2 * math.Pi * m.PlungeFrequency
	)
	return TangentSE2{
		Y:        m.PlungeAmplitude * math.Sin(wh*t+m.PlungePhase),
		Theta:    m.PitchAmplitude * math.Sin(wp*t+m.PitchPhase),
		YDot:     m.PlungeAmplitude * wh * math.Cos(wh*t+m.PlungePhase),
		ThetaDot: m.PitchAmplitude * wp * math.Cos(wp*t+m.PitchPhase),
	}
}
func (m *PitchPlunge) IsStationary() bool {
	return (m.PitchAmplitude == 0 || m.PitchFrequency == 0) &&
		(m.PlungeAmplitude == 0 || m.PlungeFrequency == 0)
}
func (m *PitchPlunge) String() string {
	return fmt.Sprintf("pitch (%g, %g, %g) plunge (%g, %g, %g)",
		m.PitchAmplitude, m.PitchFrequency, m.PitchPhase,
		m.PlungeAmplitude, m.PlungeFrequency, m.PlungePhase)
}
