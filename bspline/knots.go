package bspline

import (
	"math"
	"sort"

	"github.com/ezoic/splinefit/pkg/errors"
)

// maxSegments caps the bucket count of the EXPERIMENTAL strategy.
const maxSegments = 10

// extractUniqueSorted returns the distinct values of a sample column in
// ascending order. All knot strategies operate on distinct positions, so
// duplicate coordinates collapse before placement.
func extractUniqueSorted(values []float64) []float64 {
	unique := make([]float64, len(values))
	copy(unique, values)
	sort.Float64s(unique)
	if len(unique) == 0 {
		return unique
	}
	j := 0
	for i := 1; i < len(unique); i++ {
		if unique[i] != unique[j] {
			j++
			unique[j] = unique[i]
		}
	}
	return unique[:j+1]
}

// computeKnotVector builds the clamped knot vector for one dimension from
// its sorted distinct sample values. numBasis is the requested
// basis-function count; the returned count is the effective one, since the
// EXPERIMENTAL strategy derives it from the data instead of honoring the
// request.
func computeKnotVector(op string, unique []float64, degree, numBasis, dim int, spacing KnotSpacing) ([]float64, int, error) {
	n := len(unique)
	if n < degree+1 {
		return nil, 0, errors.NewInsufficientDataError(op, dim, n, degree+1)
	}

	var (
		knots []float64
		err   error
	)
	effective := numBasis
	switch spacing {
	case KnotSpacingSample:
		knots, err = knotVectorMovingAverage(op, unique, degree, numBasis, dim)
	case KnotSpacingEquidistant:
		knots, err = knotVectorEquidistant(op, unique, degree, numBasis, dim)
	case KnotSpacingExperimental:
		knots = knotVectorBuckets(unique, degree)
		effective = len(knots) - degree - 1
	default:
		return nil, 0, errors.NewValidationError("knotSpacing", "unknown knot spacing strategy", spacing)
	}
	if err != nil {
		return nil, 0, err
	}
	if err := validateKnotVector(op, knots, degree, effective); err != nil {
		return nil, 0, err
	}
	return knots, effective, nil
}

// knotVectorMovingAverage places interior knots at moving averages of the
// sorted distinct values, so knots concentrate where samples do. Each knot
// averages a window of degree+2 consecutive values, which keeps every
// interior knot strictly inside the data range; window start positions are
// spread evenly across the admissible range so the interior knots stay
// strictly increasing. When the basis count equals the number of distinct
// values this reduces to the moving average over every consecutive window,
// the classic choice for an interpolating basis.
func knotVectorMovingAverage(op string, unique []float64, degree, numBasis, dim int) ([]float64, error) {
	n := len(unique)
	interior := numBasis - degree - 1
	window := degree + 2

	// Evenly spread window starts are strictly increasing only when the
	// distinct values can seat every basis function.
	if n < numBasis {
		return nil, errors.NewInsufficientDataError(op, dim, n, numBasis)
	}

	knots := make([]float64, 0, numBasis+degree+1)
	for i := 0; i <= degree; i++ {
		knots = append(knots, unique[0])
	}

	maxStart := n - window
	for i := 0; i < interior; i++ {
		start := maxStart / 2
		if interior > 1 {
			start = int(math.Round(float64(i) * float64(maxStart) / float64(interior-1)))
		}
		sum := 0.0
		for j := 0; j < window; j++ {
			sum += unique[start+j]
		}
		knots = append(knots, sum/float64(window))
	}

	for i := 0; i <= degree; i++ {
		knots = append(knots, unique[n-1])
	}
	return knots, nil
}

// knotVectorEquidistant places the interior knots at evenly spaced positions
// between the smallest and largest sample value.
func knotVectorEquidistant(op string, unique []float64, degree, numBasis, dim int) ([]float64, error) {
	n := len(unique)
	interior := numBasis - degree - 1

	if interior > 0 && n < 2 {
		return nil, errors.NewInsufficientDataError(op, dim, n, 2)
	}

	lo, hi := unique[0], unique[n-1]
	knots := make([]float64, 0, numBasis+degree+1)
	for i := 0; i <= degree; i++ {
		knots = append(knots, lo)
	}
	step := (hi - lo) / float64(interior+1)
	for i := 1; i <= interior; i++ {
		knots = append(knots, lo+float64(i)*step)
	}
	for i := 0; i <= degree; i++ {
		knots = append(knots, hi)
	}
	return knots, nil
}

// knotVectorBuckets partitions the distinct values into at most maxSegments
// buckets of near-equal population and places one interior knot at the
// midpoint between adjacent buckets. The caller derives the basis-function
// count from the returned length.
func knotVectorBuckets(unique []float64, degree int) []float64 {
	n := len(unique)

	// One segment per gap between distinct values, capped.
	ns := n - 1
	if ns < 1 {
		ns = 1
	}
	if ns > maxSegments {
		ns = maxSegments
	}
	ni := ns - 1

	// The first n%ns buckets take one extra value.
	base := n / ns
	surplus := n % ns

	knots := make([]float64, 0, ni+2*(degree+1))
	for i := 0; i <= degree; i++ {
		knots = append(knots, unique[0])
	}
	idx := 0
	for b := 0; b < ni; b++ {
		size := base
		if b < surplus {
			size++
		}
		idx += size
		knots = append(knots, (unique[idx-1]+unique[idx])/2)
	}
	for i := 0; i <= degree; i++ {
		knots = append(knots, unique[n-1])
	}
	return knots
}

// validateKnotVector enforces the postconditions every strategy must meet:
// exact length, non-decreasing order, and degree+1 clamp repeats at both
// ends. A violation is a defect in knot construction, not a data problem.
func validateKnotVector(op string, knots []float64, degree, numBasis int) error {
	want := numBasis + degree + 1
	if len(knots) != want {
		return errors.Newf("splinefit: %s: internal error: knot vector has %d entries, want %d", op, len(knots), want)
	}
	for i := 1; i < len(knots); i++ {
		if knots[i] < knots[i-1] {
			return errors.Newf("splinefit: %s: internal error: knot vector decreases at index %d", op, i)
		}
	}
	for i := 1; i <= degree; i++ {
		if knots[i] != knots[0] {
			return errors.Newf("splinefit: %s: internal error: start clamp broken at index %d", op, i)
		}
		last := len(knots) - 1
		if knots[last-i] != knots[last] {
			return errors.Newf("splinefit: %s: internal error: end clamp broken at index %d", op, last-i)
		}
	}
	return nil
}
