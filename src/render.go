package main

import (
	"time"

	"github.com/fogleman/gg"
)

// Clock supplies wall-clock time to the renderer. Tests swap in a fixed clock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Surface is the drawing target for a frame
type Surface interface {
	Size() (width, height int)
	Clear(c Color)
	StrokeLine(p1, p2 gg.Point, c Color, width float64)
	FillPolygon(points []gg.Point, c Color)
}

// Palette is the pair of user-configurable colors
type Palette struct {
	Background Color `json:"background"`
	Line       Color `json:"line"`
}

// RenderContext is everything a frame needs besides the time. It is a value:
// configuration changes build a new one with WithPalette instead of editing
// it in place.
type RenderContext struct {
	Palette   Palette
	LineWidth float64
	Solver    SolverOptions
}

// WithPalette returns a copy of the context using palette p
func (rc RenderContext) WithPalette(p Palette) RenderContext {
	rc.Palette = p
	return rc
}

// solverFor fills in the sub-pixel step tolerance from the face radius when
// the context leaves it unset.
func (rc RenderContext) solverFor(bounds CircleBounds) SolverOptions {
	opts := rc.Solver
	if opts.StepTolerance <= 0 && bounds.Radius > 0 {
		opts.StepTolerance = 1 / bounds.Radius
	}
	if opts.AreaTolerance <= 0 {
		opts.AreaTolerance = AREA_TOLERANCE
	}
	return opts
}

// RenderFrame draws the face for the clock's current time.
func RenderFrame(s Surface, clock Clock, rc RenderContext) Wedge {
	hour, minute, _ := clock.Now().Clock()
	return DrawFace(s, hour, minute, rc)
}

// DrawFace draws the face for a fixed hour and minute and returns the geometry
// that was drawn.
func DrawFace(s Surface, hour, minute int, rc RenderContext) Wedge {
	bounds := BoundsFor(s.Size())
	wedge := ComputeWedge(hour, minute, bounds, rc.solverFor(bounds))

	s.Clear(rc.Palette.Background)
	s.StrokeLine(wedge.Diameter1, wedge.Diameter2, rc.Palette.Line, rc.LineWidth)
	if !wedge.Degenerate() {
		s.FillPolygon(wedge.Polygon(), rc.Palette.Line)
	}
	return wedge
}
