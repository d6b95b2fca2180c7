package geometry2D

import (
	"math"
)

type Point struct {
	X [2]float64
}

func NewPoint(x, y float64) Point {
	return Point{X: [2]float64{x, y}}
}

func (pt Point) Minus(rhs Point) Point {
	return Point{X: [2]float64{pt.X[0] - rhs.X[0], pt.X[1] - rhs.X[1]}}
}

func (pt Point) Plus(rhs Point) Point {
	return Point{X: [2]float64{pt.X[0] + rhs.X[0], pt.X[1] + rhs.X[1]}}
}

func (pt Point) Equal(rhs Point) bool {
	return pt.X == rhs.X
}

func (pt Point) Distance(rhs Point) float64 {
	d := pt.Minus(rhs)
	return math.Hypot(d.X[0], d.X[1])
}

type BoundingBox struct {
	XMin [2]float64
	XMax [2]float64
}

func NewBoundingBox(geom []Point) (Box *BoundingBox) {
	if len(geom) == 0 {
		return nil
	}
	Box = new(BoundingBox)
	Box.XMin, Box.XMax = geom[0].X, geom[0].X
	for _, point := range geom {
		for i := 0; i < 2; i++ {
			if point.X[i] < Box.XMin[i] {
				Box.XMin[i] = point.X[i]
			}
			if point.X[i] > Box.XMax[i] {
				Box.XMax[i] = point.X[i]
			}
		}
	}
	return Box
}

func (bb *BoundingBox) Centroid() Point {
	return Point{X: [2]float64{
		0.5 * (bb.XMax[0] + bb.XMin[0]),
		0.5 * (bb.XMax[1] + bb.XMin[1]),
	}}
}

// Grow expands the receiver to contain newBB
func (bb *BoundingBox) Grow(newBB *BoundingBox) {
	for i := 0; i < 2; i++ {
		bb.XMin[i] = math.Min(bb.XMin[i], newBB.XMin[i])
		bb.XMax[i] = math.Max(bb.XMax[i], newBB.XMax[i])
	}
}

func (bb *BoundingBox) PointInside(point Point) (within bool) {
	return point.X[0] >= bb.XMin[0] && point.X[0] <= bb.XMax[0] &&
		point.X[1] >= bb.XMin[1] && point.X[1] <= bb.XMax[1]
}

// NewNgon places n points counterclockwise on a circle, starting at angle zero
func NewNgon(centroid Point, radius float64, n int) (geom []Point) {
	angleInc := 2 * math.Pi / float64(n)
	for i := 0; i < n; i++ {
		angle := float64(i) * angleInc
		geom = append(geom, centroid.Plus(NewPoint(radius*math.Cos(angle), radius*math.Sin(angle))))
	}
	return
}

// NewLineSegment places n evenly spaced points on the segment from p0 to p1, both ends included
func NewLineSegment(p0, p1 Point, n int) (geom []Point) {
	if n == 1 {
		return []Point{p0}
	}
	d := p1.Minus(p0)
	for i := 0; i < n; i++ {
		s := float64(i) / float64(n-1)
		geom = append(geom, p0.Plus(NewPoint(s*d.X[0], s*d.X[1])))
	}
	return
}

// PolygonArea is positive for counterclockwise points, the polygon is closed implicitly
func PolygonArea(geom []Point) (area float64) {
	/*
		Algorithm: Green's theorem in the plane
	*/
	n := len(geom)
	for i := 0; i < n; i++ {
		pt0, pt1 := geom[i], geom[(i+1)%n]
		area += pt0.X[0]*pt1.X[1] - pt1.X[0]*pt0.X[1]
	}
	return 0.5 * area
}

// PolygonCentroid falls back to the point average for degenerate polygons
func PolygonCentroid(geom []Point) (centroid Point) {
	/*
		From: https://en.wikipedia.org/wiki/Centroid#Centroid_of_a_polygon
	*/
	var (
		n    = len(geom)
		area = PolygonArea(geom)
	)
	if n == 0 {
		return
	}
	if math.Abs(area) < 1.e-14 {
		for _, pt := range geom {
			centroid = centroid.Plus(pt)
		}
		centroid.X[0] /= float64(n)
		centroid.X[1] /= float64(n)
		return
	}
	for i := 0; i < n; i++ {
		pt0, pt1 := geom[i], geom[(i+1)%n]
		metric := pt0.X[0]*pt1.X[1] - pt0.X[1]*pt1.X[0]
		centroid.X[0] += (pt0.X[0] + pt1.X[0]) * metric
		centroid.X[1] += (pt0.X[1] + pt1.X[1]) * metric
	}
	centroid.X[0] /= 6 * area
	centroid.X[1] /= 6 * area
	return
}
