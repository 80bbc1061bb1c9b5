package main

import (
	"math"

	"github.com/fogleman/gg"
)

// CircleBounds is the circle inscribed in the drawable rectangle
type CircleBounds struct {
	Center gg.Point
	Radius float64
}

// BoundsFor derives the face circle from a surface size.
func BoundsFor(width, height int) CircleBounds {
	w := float64(width)
	h := float64(height)
	return CircleBounds{
		Center: gg.Point{X: w / 2, Y: h / 2},
		Radius: math.Min(w, h) / 2,
	}
}

// Wedge is everything drawn for one frame: the hour diameter and the
// minute quadrilateral hanging off it.
type Wedge struct {
	Diameter1 gg.Point
	Diameter2 gg.Point
	Quad      [4]gg.Point
}

// Degenerate reports whether the quadrilateral has collapsed onto the diameter
func (w Wedge) Degenerate() bool {
	return w.Quad[1] == w.Quad[0] && w.Quad[2] == w.Quad[3]
}

// Polygon returns the quadrilateral as a slice for the drawing surface.
func (w Wedge) Polygon() []gg.Point {
	return w.Quad[:]
}

// BuildWedge places the diameter at angle and offsets the far edge of the
// wedge perpendicular to it by heightRatio of the radius.
func BuildWedge(angle Angle, bounds CircleBounds, heightRatio float64) Wedge {
	rad := angle.Radians()
	sin, cos := math.Sincos(rad)
	c := bounds.Center
	r := bounds.Radius

	// Angle 0 points up; y grows downward on screen
	dx := r * sin
	dy := -r * cos
	d1 := gg.Point{X: c.X + dx, Y: c.Y + dy}
	d2 := gg.Point{X: c.X - dx, Y: c.Y - dy}

	length := r * heightRatio
	px := length * cos
	py := length * sin

	return Wedge{
		Diameter1: d1,
		Diameter2: d2,
		Quad: [4]gg.Point{
			d1,
			{X: d1.X + px, Y: d1.Y + py},
			{X: d2.X + px, Y: d2.Y + py},
			d2,
		},
	}
}

// ComputeWedge runs the whole geometry pipeline for a time of day.
func ComputeWedge(hour, minute int, bounds CircleBounds, opts SolverOptions) Wedge {
	angle := HourAngle(hour)
	height := SolveHeightRatio(AreaRatioForMinute(minute), opts)
	return BuildWedge(angle, bounds, height)
}
