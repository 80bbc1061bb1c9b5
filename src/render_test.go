package main

import (
	"testing"
	"time"

	"github.com/fogleman/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time { return c.t }

func clockAt(hour, minute int) fixedClock {
	return fixedClock{t: time.Date(2026, 10, 19, hour, minute, 0, 0, time.Local)}
}

type surfaceCall struct {
	op     string
	points []gg.Point
	color  Color
	width  float64
}

// recordingSurface records draw calls instead of rasterizing
type recordingSurface struct {
	w, h  int
	calls []surfaceCall
}

func (s *recordingSurface) Size() (int, int) { return s.w, s.h }

func (s *recordingSurface) Clear(c Color) {
	s.calls = append(s.calls, surfaceCall{op: "clear", color: c})
}

func (s *recordingSurface) StrokeLine(p1, p2 gg.Point, c Color, width float64) {
	s.calls = append(s.calls, surfaceCall{op: "line", points: []gg.Point{p1, p2}, color: c, width: width})
}

func (s *recordingSurface) FillPolygon(points []gg.Point, c Color) {
	cp := append([]gg.Point(nil), points...)
	s.calls = append(s.calls, surfaceCall{op: "fill", points: cp, color: c})
}

func (s *recordingSurface) ops() []string {
	var ops []string
	for _, c := range s.calls {
		ops = append(ops, c.op)
	}
	return ops
}

var testPalette = Palette{Background: 0xFF0000, Line: 0x00FF00}

func testRenderContext() RenderContext {
	return RenderContext{
		Palette:   testPalette,
		LineWidth: 2,
		Solver:    SolverOptions{AreaTolerance: AREA_TOLERANCE, MaxIterations: MAX_SOLVER_ITERATIONS},
	}
}

func TestDrawFace_MidnightDrawsOnlyTheLine(t *testing.T) {
	s := &recordingSurface{w: 180, h: 180}
	w := DrawFace(s, 0, 0, testRenderContext())

	require.Equal(t, []string{"clear", "line"}, s.ops())
	assert.Equal(t, testPalette.Background, s.calls[0].color)

	line := s.calls[1]
	assert.Equal(t, testPalette.Line, line.color)
	assert.Equal(t, 2.0, line.width)
	assertPointNear(t, gg.Point{X: 90, Y: 0}, line.points[0])
	assertPointNear(t, gg.Point{X: 90, Y: 180}, line.points[1])
	assert.True(t, w.Degenerate())
}

func TestDrawFace_HalfPastThree(t *testing.T) {
	s := &recordingSurface{w: 180, h: 180}
	w := DrawFace(s, 3, 30, testRenderContext())

	require.Equal(t, []string{"clear", "line", "fill"}, s.ops())

	// Quarter turn: horizontal diameter
	assertPointNear(t, gg.Point{X: 180, Y: 90}, w.Diameter1)
	assertPointNear(t, gg.Point{X: 0, Y: 90}, w.Diameter2)

	height := dist(w.Quad[0], w.Quad[1]) / 90
	assert.InDelta(t, 0.40397, height, 0.01)

	fill := s.calls[2]
	assert.Equal(t, testPalette.Line, fill.color)
	assert.Equal(t, w.Polygon(), fill.points)
}

func TestDrawFace_SixFiftyNine(t *testing.T) {
	s := &recordingSurface{w: 180, h: 180}
	w := DrawFace(s, 6, 59, testRenderContext())

	assertPointNear(t, gg.Point{X: 90, Y: 180}, w.Diameter1)
	assertPointNear(t, gg.Point{X: 90, Y: 0}, w.Diameter2)

	height := dist(w.Quad[0], w.Quad[1]) / 90
	assert.Less(t, height, 1.0)
	assert.GreaterOrEqual(t, height, 0.93)
}

func TestRenderFrame_ReadsClock(t *testing.T) {
	rc := testRenderContext()

	a := &recordingSurface{w: 180, h: 180}
	got := RenderFrame(a, clockAt(15, 30), rc)

	b := &recordingSurface{w: 180, h: 180}
	want := DrawFace(b, 15, 30, rc)

	assert.Equal(t, want, got)
	assert.Equal(t, b.calls, a.calls)
}

func TestRenderFrame_Idempotent(t *testing.T) {
	rc := testRenderContext()
	clock := clockAt(10, 42)

	s1 := NewGGSurface(180, 180, true)
	s2 := NewGGSurface(180, 180, true)
	w1 := RenderFrame(s1, clock, rc)
	w2 := RenderFrame(s2, clock, rc)
	assert.Equal(t, w1, w2)
	assert.Equal(t, s1.FB.Pix, s2.FB.Pix)

	// Drawing again on the same surface changes nothing
	before := s1.Snapshot()
	w3 := RenderFrame(s1, clock, rc)
	assert.Equal(t, w1, w3)
	assert.Equal(t, before.Pix, s1.FB.Pix)
}

func TestRenderContext_WithPaletteCopies(t *testing.T) {
	rc := testRenderContext()
	next := rc.WithPalette(Palette{Background: 0x000000, Line: 0xFFFFFF})

	assert.Equal(t, testPalette, rc.Palette)
	assert.Equal(t, Color(0xFFFFFF), next.Palette.Line)
	assert.Equal(t, rc.LineWidth, next.LineWidth)
	assert.Equal(t, rc.Solver, next.Solver)
}

func TestRenderContext_SolverFor(t *testing.T) {
	opts := RenderContext{}.solverFor(BoundsFor(180, 180))
	assert.InDelta(t, 1.0/90, opts.StepTolerance, 1e-15)
	assert.Equal(t, AREA_TOLERANCE, opts.AreaTolerance)

	// Explicit values win
	rc := RenderContext{Solver: SolverOptions{AreaTolerance: 0.01, StepTolerance: 0.1}}
	opts = rc.solverFor(BoundsFor(180, 180))
	assert.Equal(t, 0.1, opts.StepTolerance)
	assert.Equal(t, 0.01, opts.AreaTolerance)
}
