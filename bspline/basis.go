package bspline

import (
	"github.com/ezoic/splinefit/pkg/errors"
)

// basisEvaluator yields the nonzero tensor-product basis functions at a
// point together with their global design-matrix columns. The assembler
// depends on this capability rather than on the concrete basis so the
// numeric backend stays swappable.
type basisEvaluator interface {
	numControlPoints() int
	evalBasis(op string, x []float64) (indices []int, values []float64, err error)
}

// findSpan locates the knot span index i with knots[i] <= u < knots[i+1]
// by binary search. The final span is closed on the right so the domain
// maximum stays evaluable.
func findSpan(knots []float64, degree int, u float64) int {
	last := len(knots) - degree - 2
	if u >= knots[last+1] {
		return last
	}
	if u <= knots[degree] {
		return degree
	}
	low, high := degree, last+1
	mid := (low + high) / 2
	for u < knots[mid] || u >= knots[mid+1] {
		if u < knots[mid] {
			high = mid
		} else {
			low = mid
		}
		mid = (low + high) / 2
	}
	return mid
}

// basisValues computes the degree+1 nonzero basis functions at u on the
// given span (The NURBS Book, algorithm A2.2). Entry j holds the value of
// basis function span-degree+j.
func basisValues(knots []float64, degree, span int, u float64) []float64 {
	values := make([]float64, degree+1)
	left := make([]float64, degree+1)
	right := make([]float64, degree+1)
	values[0] = 1
	for j := 1; j <= degree; j++ {
		left[j] = u - knots[span+1-j]
		right[j] = knots[span+j] - u
		saved := 0.0
		for r := 0; r < j; r++ {
			temp := values[r] / (right[r+1] + left[j-r])
			values[r] = saved + right[r+1]*temp
			saved = left[j-r] * temp
		}
		values[j] = saved
	}
	return values
}

// basisValuesAndDerivs computes the nonzero basis functions and their first
// derivatives at u on the given span (The NURBS Book, algorithm A2.3
// restricted to order one).
func basisValuesAndDerivs(knots []float64, degree, span int, u float64) (values, derivs []float64) {
	ndu := make([][]float64, degree+1)
	for i := range ndu {
		ndu[i] = make([]float64, degree+1)
	}
	left := make([]float64, degree+1)
	right := make([]float64, degree+1)
	ndu[0][0] = 1
	for j := 1; j <= degree; j++ {
		left[j] = u - knots[span+1-j]
		right[j] = knots[span+j] - u
		saved := 0.0
		for r := 0; r < j; r++ {
			ndu[j][r] = right[r+1] + left[j-r]
			temp := ndu[r][j-1] / ndu[j][r]
			ndu[r][j] = saved + right[r+1]*temp
			saved = left[j-r] * temp
		}
		ndu[j][j] = saved
	}

	values = make([]float64, degree+1)
	for j := 0; j <= degree; j++ {
		values[j] = ndu[j][degree]
	}

	derivs = make([]float64, degree+1)
	if degree == 0 {
		return values, derivs
	}
	for r := 0; r <= degree; r++ {
		d := 0.0
		if r >= 1 {
			d += ndu[r-1][degree-1] / ndu[degree][r-1]
		}
		if r <= degree-1 {
			d -= ndu[r][degree-1] / ndu[degree][r]
		}
		derivs[r] = float64(degree) * d
	}
	return values, derivs
}

// tensorBasis is the tensor-product B-spline basis spanned by per-dimension
// degrees and clamped knot vectors.
type tensorBasis struct {
	degrees []int
	knots   [][]float64
	grid    lattice
}

// newTensorBasis validates degree and knot-vector compatibility. Knot
// vectors must be non-decreasing, clamped with degree+1 repeats at both
// ends, and long enough to seat at least degree+1 basis functions.
func newTensorBasis(degrees []int, knots [][]float64) (*tensorBasis, error) {
	const op = "bspline.newTensorBasis"
	if len(degrees) == 0 {
		return nil, errors.NewValueError(op, "at least one dimension is required")
	}
	if len(knots) != len(degrees) {
		return nil, errors.NewValidationError("knots",
			"must hold one knot vector per dimension", len(knots))
	}

	dims := make([]int, len(degrees))
	for d, p := range degrees {
		if err := validateDegree(p); err != nil {
			return nil, err
		}
		kv := knots[d]
		numBasis := len(kv) - p - 1
		if numBasis < p+1 {
			return nil, errors.NewValidationError("knots",
				"too short for the degree", len(kv))
		}
		for i := 1; i < len(kv); i++ {
			if kv[i] < kv[i-1] {
				return nil, errors.NewValidationError("knots",
					"must be non-decreasing", d)
			}
		}
		last := len(kv) - 1
		if kv[p] != kv[0] || kv[last-p] != kv[last] {
			return nil, errors.NewValidationError("knots",
				"ends must repeat degree+1 times", d)
		}
		// The spans adjacent to the clamps carry the boundary evaluations;
		// degree 0 never divides by a span width so a point domain is fine
		// there.
		if p >= 1 && (kv[p] >= kv[p+1] || kv[last-p-1] >= kv[last-p]) {
			return nil, errors.NewValidationError("knots",
				"boundary knot spans must not be empty", d)
		}
		dims[d] = numBasis
	}
	return &tensorBasis{degrees: degrees, knots: knots, grid: newLattice(dims)}, nil
}

func (tb *tensorBasis) numControlPoints() int { return tb.grid.size }

func (tb *tensorBasis) numVariables() int { return len(tb.degrees) }

// domain returns the evaluable range per dimension, inclusive on both ends.
func (tb *tensorBasis) domain() (min, max []float64) {
	min = make([]float64, len(tb.degrees))
	max = make([]float64, len(tb.degrees))
	for d, p := range tb.degrees {
		kv := tb.knots[d]
		min[d] = kv[p]
		max[d] = kv[len(kv)-p-1]
	}
	return min, max
}

// checkPoint validates the dimension and domain membership of x.
func (tb *tensorBasis) checkPoint(op string, x []float64) error {
	if len(x) != len(tb.degrees) {
		return errors.NewDimensionError(op, len(tb.degrees), len(x), 1)
	}
	for d, p := range tb.degrees {
		kv := tb.knots[d]
		lo, hi := kv[p], kv[len(kv)-p-1]
		if x[d] < lo || x[d] > hi {
			return errors.NewDomainError(op, d, x[d], lo, hi)
		}
	}
	return nil
}

// evalBasis returns the nonzero tensor-product basis values at x and their
// global control-point columns, in ascending column order.
func (tb *tensorBasis) evalBasis(op string, x []float64) ([]int, []float64, error) {
	if err := tb.checkPoint(op, x); err != nil {
		return nil, nil, err
	}

	nvars := len(tb.degrees)
	starts := make([]int, nvars)
	dimValues := make([][]float64, nvars)
	nnz := 1
	for d, p := range tb.degrees {
		span := findSpan(tb.knots[d], p, x[d])
		starts[d] = span - p
		dimValues[d] = basisValues(tb.knots[d], p, span, x[d])
		nnz *= p + 1
	}

	indices := make([]int, 0, nnz)
	values := make([]float64, 0, nnz)
	offsets := make([]int, nvars)
	for {
		col := 0
		val := 1.0
		for d := range offsets {
			col += (starts[d] + offsets[d]) * tb.grid.strides[d]
			val *= dimValues[d][offsets[d]]
		}
		indices = append(indices, col)
		values = append(values, val)

		d := nvars - 1
		for d >= 0 {
			offsets[d]++
			if offsets[d] <= tb.degrees[d] {
				break
			}
			offsets[d] = 0
			d--
		}
		if d < 0 {
			break
		}
	}
	return indices, values, nil
}

// evalBasisGradient returns the nonzero partial derivatives of the
// tensor-product basis at x. partials[d] holds the derivative along
// dimension d for each column in indices.
func (tb *tensorBasis) evalBasisGradient(op string, x []float64) (indices []int, partials [][]float64, err error) {
	if err := tb.checkPoint(op, x); err != nil {
		return nil, nil, err
	}

	nvars := len(tb.degrees)
	starts := make([]int, nvars)
	dimValues := make([][]float64, nvars)
	dimDerivs := make([][]float64, nvars)
	nnz := 1
	for d, p := range tb.degrees {
		span := findSpan(tb.knots[d], p, x[d])
		starts[d] = span - p
		dimValues[d], dimDerivs[d] = basisValuesAndDerivs(tb.knots[d], p, span, x[d])
		nnz *= p + 1
	}

	indices = make([]int, 0, nnz)
	partials = make([][]float64, nvars)
	for d := range partials {
		partials[d] = make([]float64, 0, nnz)
	}
	offsets := make([]int, nvars)
	for {
		col := 0
		for d := range offsets {
			col += (starts[d] + offsets[d]) * tb.grid.strides[d]
		}
		indices = append(indices, col)
		for g := range partials {
			val := 1.0
			for d := range offsets {
				if d == g {
					val *= dimDerivs[d][offsets[d]]
				} else {
					val *= dimValues[d][offsets[d]]
				}
			}
			partials[g] = append(partials[g], val)
		}

		d := nvars - 1
		for d >= 0 {
			offsets[d]++
			if offsets[d] <= tb.degrees[d] {
				break
			}
			offsets[d] = 0
			d--
		}
		if d < 0 {
			break
		}
	}
	return indices, partials, nil
}
