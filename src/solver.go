package main

import "math"

// Solver defaults (at 180x180 native resolution the radius is 90px, so the
// sub-pixel step tolerance works out to 1/90)
const (
	AREA_TOLERANCE        = 0.0005
	MAX_SOLVER_ITERATIONS = 32
)

// SolverOptions bounds the bisection in SolveHeightRatio.
// AreaTolerance is the primary convergence test. StepTolerance stops early
// once successive midpoints move less than that, and MaxIterations is a hard
// cap regardless of either.
type SolverOptions struct {
	AreaTolerance float64
	StepTolerance float64
	MaxIterations int
}

// DefaultSolverOptions returns options tuned for a face of the given radius
// in pixels: refining below one pixel cannot change the rendered output.
func DefaultSolverOptions(radius float64) SolverOptions {
	opts := SolverOptions{
		AreaTolerance: AREA_TOLERANCE,
		MaxIterations: MAX_SOLVER_ITERATIONS,
	}
	if radius > 0 {
		opts.StepTolerance = 1 / radius
	}
	return opts
}

// segmentArea is the area of the unit disk between the diameter x=0 and the
// chord x=h. segmentArea(1) is π/2, the area of the half-disk.
func segmentArea(h float64) float64 {
	return math.Sqrt(1-h*h)*h + math.Asin(h)
}

// AreaRatioForMinute is the fraction of the half-disk the wedge covers.
func AreaRatioForMinute(minute int) float64 {
	ratio := float64(minute) / 60
	if ratio < 0 {
		return 0
	}
	if ratio > 1 {
		return 1
	}
	return ratio
}

// SolveHeightRatio finds the chord height h in [0,1] whose strip covers
// areaRatio of the unit half-disk.
func SolveHeightRatio(areaRatio float64, opts SolverOptions) float64 {
	h, _ := solveHeightRatio(areaRatio, opts)
	return h
}

// solveHeightRatio also reports how many bisection steps were taken.
func solveHeightRatio(areaRatio float64, opts SolverOptions) (float64, int) {
	// Exact at the ends, and NaN is treated as an empty wedge
	if math.IsNaN(areaRatio) || areaRatio <= 0 {
		return 0, 0
	}
	if areaRatio >= 1 {
		return 1, 0
	}

	maxIter := opts.MaxIterations
	if maxIter <= 0 {
		maxIter = MAX_SOLVER_ITERATIONS
	}

	target := math.Pi / 2 * areaRatio
	lo, hi := 0.0, 1.0
	mid, prev := 0.5, 0.0

	for i := 1; i <= maxIter; i++ {
		mid = (lo + hi) / 2
		area := segmentArea(mid)

		if math.Abs(area-target) < opts.AreaTolerance {
			return mid, i
		}
		if area > target {
			hi = mid
		} else {
			lo = mid
		}

		// Sub-pixel movement: further halving won't show on screen
		if i > 1 && math.Abs(mid-prev) < opts.StepTolerance {
			return mid, i
		}
		if lo > hi {
			return mid, i
		}
		prev = mid
	}
	return mid, maxIter
}
