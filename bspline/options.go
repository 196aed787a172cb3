package bspline

import "strings"

// KnotSpacing selects how interior knot positions are derived from the
// sample coordinates of a dimension.
type KnotSpacing int

const (
	// KnotSpacingSample places interior knots at moving averages of the
	// sorted distinct sample values, so knot density follows sample density.
	KnotSpacingSample KnotSpacing = iota
	// KnotSpacingEquidistant spreads interior knots uniformly between the
	// smallest and largest sample value.
	KnotSpacingEquidistant
	// KnotSpacingExperimental partitions the distinct sample values into
	// buckets of near-equal population and knots the bucket boundaries. The
	// basis-function count is derived from the bucket count; any requested
	// count is ignored.
	KnotSpacingExperimental
)

var knotSpacingNames = map[KnotSpacing]string{
	KnotSpacingSample:       "SAMPLE",
	KnotSpacingEquidistant:  "EQUIDISTANT",
	KnotSpacingExperimental: "EXPERIMENTAL",
}

// String returns the canonical name of the strategy.
func (ks KnotSpacing) String() string {
	if name, ok := knotSpacingNames[ks]; ok {
		return name
	}
	return "UNKNOWN"
}

// KnotSpacingFromString parses a strategy name, case-insensitively.
// Unknown names map to -1.
func KnotSpacingFromString(s string) KnotSpacing {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "SAMPLE":
		return KnotSpacingSample
	case "EQUIDISTANT":
		return KnotSpacingEquidistant
	case "EXPERIMENTAL":
		return KnotSpacingExperimental
	default:
		return KnotSpacing(-1)
	}
}

// Valid reports whether ks is one of the defined strategies.
func (ks KnotSpacing) Valid() bool {
	_, ok := knotSpacingNames[ks]
	return ok
}

// Smoothing selects the penalty term added to the least-squares objective
// when solving for the control-point coefficients.
type Smoothing int

const (
	// SmoothingNone solves the plain least-squares problem.
	SmoothingNone Smoothing = iota
	// SmoothingRegularization adds a Tikhonov penalty alpha times the squared
	// coefficient norm, shrinking coefficients toward zero.
	SmoothingRegularization
	// SmoothingPSpline penalizes the second differences of neighboring
	// control points along each grid dimension, favoring smooth coefficient
	// sequences over small ones.
	SmoothingPSpline
)

var smoothingNames = map[Smoothing]string{
	SmoothingNone:           "NONE",
	SmoothingRegularization: "REGULARIZATION",
	SmoothingPSpline:        "PSPLINE",
}

// String returns the canonical name of the smoothing mode.
func (s Smoothing) String() string {
	if name, ok := smoothingNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// SmoothingFromString parses a smoothing mode name, case-insensitively.
// Unknown names map to -1.
func SmoothingFromString(s string) Smoothing {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NONE":
		return SmoothingNone
	case "REGULARIZATION":
		return SmoothingRegularization
	case "PSPLINE":
		return SmoothingPSpline
	default:
		return Smoothing(-1)
	}
}

// Valid reports whether s is one of the defined modes.
func (s Smoothing) Valid() bool {
	_, ok := smoothingNames[s]
	return ok
}
