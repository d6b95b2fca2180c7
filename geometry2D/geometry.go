package geometry2D

import (
	"fmt"

	"github.com/notargets/ibpm/Grid2D"
)

/*
	RigidBody is a set of marker points stored in the body frame, relative to the
	reference center. The current marker positions are the reference points mapped by
	the motion law at the current time, bodies without a motion law stay where they
	were placed.
*/
type RigidBody struct {
	Name       string
	Center     Point
	motion     Motion
	ref        []Point
	positions  []Point
	velocities []Point
}

func NewRigidBody(name string, center Point) *RigidBody {
	return &RigidBody{Name: name, Center: center}
}

// AddPoint adds a marker at the lab frame location p
func (rb *RigidBody) AddPoint(p Point) *RigidBody {
	rb.ref = append(rb.ref, p.Minus(rb.Center))
	rb.positions = append(rb.positions, p)
	rb.velocities = append(rb.velocities, Point{})
	return rb
}

func (rb *RigidBody) AddPoints(geom []Point) *RigidBody {
	for _, p := range geom {
		rb.AddPoint(p)
	}
	return rb
}

func (rb *RigidBody) AddCircle(center Point, radius float64, n int) *RigidBody {
	return rb.AddPoints(NewNgon(center, radius, n))
}

func (rb *RigidBody) AddLine(p0, p1 Point, n int) *RigidBody {
	return rb.AddPoints(NewLineSegment(p0, p1, n))
}

func (rb *RigidBody) SetMotion(m Motion) *RigidBody {
	rb.motion = m
	return rb
}

func (rb *RigidBody) Motion() Motion  { return rb.motion }
func (rb *RigidBody) NumPoints() int  { return len(rb.ref) }
func (rb *RigidBody) Points() []Point { return rb.positions }

func (rb *RigidBody) IsStationary() bool {
	return rb.motion == nil || rb.motion.IsStationary()
}

func (rb *RigidBody) BoundingBox() *BoundingBox {
	return NewBoundingBox(rb.positions)
}

func (rb *RigidBody) move(time float64) {
	if rb.motion == nil {
		return
	}
	tr := rb.motion.Transformation(time)
	for k, p := range rb.ref {
		pos, vel := tr.Map(p)
		rb.positions[k] = pos.Plus(rb.Center)
		rb.velocities[k] = vel
	}
}

func (rb *RigidBody) String() string {
	motion := "no motion"
	if rb.motion != nil {
		motion = rb.motion.String()
	}
	return fmt.Sprintf("%s: %d points, center (%g, %g), %s",
		rb.Name, rb.NumPoints(), rb.Center.X[0], rb.Center.X[1], motion)
}

/*
	Geometry is the collection of all bodies. Markers are numbered body by body in the
	order the bodies were added. Version changes every time a marker moves, which lets
	operators built from the marker positions detect that they are stale.
*/
type Geometry struct {
	Bodies  []*RigidBody
	time    float64
	moved   bool
	version int
}

func NewGeometry(bodies ...*RigidBody) (g *Geometry) {
	g = &Geometry{}
	for _, b := range bodies {
		g.AddBody(b)
	}
	return
}

func (g *Geometry) AddBody(b *RigidBody) {
	g.Bodies = append(g.Bodies, b)
	g.moved = false
	g.version++
}

func (g *Geometry) NumBodies() int { return len(g.Bodies) }
func (g *Geometry) Version() int   { return g.version }
func (g *Geometry) Time() float64  { return g.time }

func (g *Geometry) NumPoints() (n int) {
	for _, b := range g.Bodies {
		n += b.NumPoints()
	}
	return
}

func (g *Geometry) IsStationary() bool {
	for _, b := range g.Bodies {
		if !b.IsStationary() {
			return false
		}
	}
	return true
}

// MoveBodies places every body with a motion law at its position at time
func (g *Geometry) MoveBodies(time float64) {
	if g.moved && time == g.time {
		return
	}
	var changed bool
	for _, b := range g.Bodies {
		// Stationary laws only need to be applied once
		if b.motion != nil && (!g.moved || !b.IsStationary()) {
			b.move(time)
			changed = true
		}
	}
	g.time, g.moved = time, true
	if changed {
		g.version++
	}
}

func (g *Geometry) Points() (pts []Point) {
	pts = make([]Point, 0, g.NumPoints())
	for _, b := range g.Bodies {
		pts = append(pts, b.positions...)
	}
	return
}

// Velocities are the marker velocities at the current time, the right hand side of the no slip constraint
func (g *Geometry) Velocities() (v Grid2D.BoundaryVector) {
	v = Grid2D.NewBoundaryVector(g.NumPoints())
	var k int
	for _, b := range g.Bodies {
		for _, vel := range b.velocities {
			v.Set(k, vel.X[0], vel.X[1])
			k++
		}
	}
	return
}

func (g *Geometry) BoundingBox() (bb *BoundingBox) {
	for _, b := range g.Bodies {
		if b.NumPoints() == 0 {
			continue
		}
		if bb == nil {
			bb = b.BoundingBox()
		} else {
			bb.Grow(b.BoundingBox())
		}
	}
	return
}
