package regression

import "github.com/ezoic/splinefit/bspline"

// Option is a function that configures a BSplineRegressor.
type Option func(*BSplineRegressor)

// WithDegree sets the spline degree used for every input variable.
func WithDegree(degree int) Option {
	return func(r *BSplineRegressor) {
		r.degree = degree
		r.degrees = nil
	}
}

// WithDegrees sets a per-variable spline degree. The slice must have one
// entry per column of the training matrix.
func WithDegrees(degrees []int) Option {
	return func(r *BSplineRegressor) {
		r.degrees = append([]int(nil), degrees...)
	}
}

// WithNumBasisFunctions sets the number of basis functions for every
// variable. Zero keeps the data-driven default.
func WithNumBasisFunctions(n int) Option {
	return func(r *BSplineRegressor) {
		r.numBasis = n
		r.numBasisVec = nil
	}
}

// WithNumBasisFunctionsVector sets a per-variable basis function count.
func WithNumBasisFunctionsVector(ns []int) Option {
	return func(r *BSplineRegressor) {
		r.numBasisVec = append([]int(nil), ns...)
	}
}

// WithKnotSpacing sets the knot placement strategy.
func WithKnotSpacing(spacing bspline.KnotSpacing) Option {
	return func(r *BSplineRegressor) {
		r.spacing = spacing
	}
}

// WithSmoothing sets the smoothing mode used when solving for coefficients.
func WithSmoothing(smoothing bspline.Smoothing) Option {
	return func(r *BSplineRegressor) {
		r.smoothing = smoothing
	}
}

// WithAlpha sets the smoothing strength for REGULARIZATION and PSPLINE.
func WithAlpha(alpha float64) Option {
	return func(r *BSplineRegressor) {
		r.alpha = alpha
	}
}
