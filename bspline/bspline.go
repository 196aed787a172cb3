// Package bspline fits multivariate tensor-product B-splines to scattered
// samples. A Builder turns a dataset.Table and a validated configuration
// into an immutable BSpline that can be evaluated and differentiated at any
// point of the sampled domain.
//
// The fitting pipeline computes a clamped knot vector per input dimension,
// assembles the sparse basis design matrix over all samples, and solves the
// normal equations for the control-point coefficients, optionally penalized
// by a Tikhonov or P-spline smoothing term.
package bspline

import (
	"github.com/ezoic/splinefit/core/parallel"
	"github.com/ezoic/splinefit/pkg/errors"
)

// BSpline is an immutable multivariate tensor-product B-spline defined by
// per-dimension degrees, clamped knot vectors and a row-major coefficient
// vector (dimension 0 varying slowest). Instances are safe for concurrent
// use.
type BSpline struct {
	degrees []int
	knots   [][]float64
	coeffs  []float64
	basis   *tensorBasis
}

// New creates a spline from explicit degrees, clamped knot vectors and
// control-point coefficients. All inputs are copied. Knot vectors must be
// non-decreasing with degree+1 repeats at both ends, and the coefficient
// count must equal the product of the per-dimension basis-function counts.
func New(degrees []int, knots [][]float64, coefficients []float64) (*BSpline, error) {
	const op = "bspline.New"

	ds := make([]int, len(degrees))
	copy(ds, degrees)
	kvs := make([][]float64, len(knots))
	for d, kv := range knots {
		kvs[d] = make([]float64, len(kv))
		copy(kvs[d], kv)
	}

	basis, err := newTensorBasis(ds, kvs)
	if err != nil {
		return nil, err
	}
	if len(coefficients) != basis.numControlPoints() {
		return nil, errors.NewDimensionError(op, basis.numControlPoints(), len(coefficients), 0)
	}
	if err := errors.CheckNumericalStability(op, coefficients, 0); err != nil {
		return nil, err
	}
	cs := make([]float64, len(coefficients))
	copy(cs, coefficients)

	return &BSpline{degrees: ds, knots: kvs, coeffs: cs, basis: basis}, nil
}

// NumVariables returns the number of input dimensions.
func (s *BSpline) NumVariables() int {
	return len(s.degrees)
}

// Degrees returns a copy of the per-dimension basis degrees.
func (s *BSpline) Degrees() []int {
	out := make([]int, len(s.degrees))
	copy(out, s.degrees)
	return out
}

// KnotVector returns a copy of the knot vector of the given dimension.
// It panics if dim is out of range.
func (s *BSpline) KnotVector(dim int) []float64 {
	kv := s.knots[dim]
	out := make([]float64, len(kv))
	copy(out, kv)
	return out
}

// NumBasisFunctions returns the per-dimension basis-function counts.
func (s *BSpline) NumBasisFunctions() []int {
	out := make([]int, len(s.basis.grid.dims))
	copy(out, s.basis.grid.dims)
	return out
}

// NumControlPoints returns the total control-point count, the product of
// the per-dimension basis-function counts.
func (s *BSpline) NumControlPoints() int {
	return s.basis.numControlPoints()
}

// Coefficients returns a copy of the control-point coefficients in
// row-major grid order.
func (s *BSpline) Coefficients() []float64 {
	out := make([]float64, len(s.coeffs))
	copy(out, s.coeffs)
	return out
}

// Domain returns the evaluable range per dimension, inclusive on both ends.
func (s *BSpline) Domain() (min, max []float64) {
	return s.basis.domain()
}

// Eval evaluates the spline at x. Points outside the domain fail with a
// DomainError; both domain boundaries are evaluable.
func (s *BSpline) Eval(x []float64) (float64, error) {
	indices, values, err := s.basis.evalBasis("BSpline.Eval", x)
	if err != nil {
		return 0, err
	}
	out := 0.0
	for k, idx := range indices {
		out += values[k] * s.coeffs[idx]
	}
	return out, nil
}

// EvalAll evaluates the spline at every point of xs, in order. Large
// batches are evaluated in parallel. The first failing point aborts the
// batch.
func (s *BSpline) EvalAll(xs [][]float64) ([]float64, error) {
	out := make([]float64, len(xs))
	errs := make([]error, len(xs))
	parallel.ParallelizeWithThreshold(len(xs), parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			out[i], errs[i] = s.Eval(xs[i])
		}
	})
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Gradient returns the partial derivatives of the spline at x, one per
// input dimension.
func (s *BSpline) Gradient(x []float64) ([]float64, error) {
	indices, partials, err := s.basis.evalBasisGradient("BSpline.Gradient", x)
	if err != nil {
		return nil, err
	}
	grad := make([]float64, s.NumVariables())
	for d := range grad {
		sum := 0.0
		for k, idx := range indices {
			sum += partials[d][k] * s.coeffs[idx]
		}
		grad[d] = sum
	}
	return grad, nil
}
