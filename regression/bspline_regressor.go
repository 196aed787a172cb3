// Package regression provides scikit-learn style estimators that wrap the
// spline fitting pipeline.
//
// The package implements:
//
//   - BSplineRegressor: tensor-product B-spline regression with configurable
//     degree, knot placement and smoothing
//   - Standard estimator interface with Fit/Predict/Score methods
//   - Functional options for hyperparameter configuration
//   - GetParams/SetParams for scikit-learn style parameter handling
//
// Example usage:
//
//	reg := regression.NewBSplineRegressor(
//	    regression.WithDegree(3),
//	    regression.WithSmoothing(bspline.SmoothingPSpline),
//	    regression.WithAlpha(0.1),
//	)
//	err := reg.Fit(X, y) // X: samples, y: observed values
//	if err != nil {
//	    log.Fatal(err)
//	}
//	predictions, err := reg.Predict(XTest)
//
// The estimator integrates with the metrics package for model evaluation and
// follows the same state management conventions as the rest of the library.
package regression

import (
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/splinefit/bspline"
	"github.com/ezoic/splinefit/core/model"
	"github.com/ezoic/splinefit/dataset"
	"github.com/ezoic/splinefit/metrics"
	sfErrors "github.com/ezoic/splinefit/pkg/errors"
	"github.com/ezoic/splinefit/pkg/log"
)

// BSplineRegressor is a regression model backed by a multivariate
// tensor-product B-spline.
type BSplineRegressor struct {
	State *model.StateManager // State manager (composition instead of embedding) - Public for gob encoding

	// Hyperparameters
	degree      int
	degrees     []int // per-variable degrees, overrides degree when set
	numBasis    int   // 0 keeps the data-driven default
	numBasisVec []int
	spacing     bspline.KnotSpacing
	smoothing   bspline.Smoothing
	alpha       float64

	spline     *bspline.BSpline
	nVariables int
	logger     log.Logger
}

// NewBSplineRegressor creates a new B-spline regression model.
//
// Without options the model fits a cubic spline with SAMPLE knot spacing,
// no smoothing, and one basis function per distinct sample value in each
// variable. The returned model must be trained with Fit before Predict.
//
// Example:
//
//	reg := regression.NewBSplineRegressor(regression.WithDegree(2))
//	err := reg.Fit(X, y)
//	predictions, err := reg.Predict(XTest)
func NewBSplineRegressor(options ...Option) *BSplineRegressor {
	r := &BSplineRegressor{
		State:     model.NewStateManager(),
		degree:    bspline.DefaultDegree,
		spacing:   bspline.KnotSpacingSample,
		smoothing: bspline.SmoothingNone,
		alpha:     0,
	}

	for _, opt := range options {
		opt(r)
	}

	// Set up logger with model context
	r.logger = log.GetLoggerWithName("regression").With(
		log.ModelNameKey, "BSplineRegressor",
		log.ComponentKey, "regression",
	)

	return r
}

// Fit trains the regressor on the provided samples.
//
// X holds one sample per row, one input variable per column; y is the
// column vector of observed values. Fit assembles a dataset table, runs the
// builder pipeline and stores the fitted spline. After successful training
// the model's fitted state is set.
//
// Errors:
//   - ErrEmptyData: if X or y are empty
//   - DimensionError: if the number of rows in X and y don't match
//   - ValidationError: if a configured hyperparameter is invalid
//   - InsufficientDataError: if a variable has too few distinct values
//   - SingularSystemError: if the normal equations cannot be solved
func (r *BSplineRegressor) Fit(X, y mat.Matrix) (err error) {
	defer sfErrors.Recover(&err, "BSplineRegressor.Fit")

	startTime := time.Now()
	rows, cols := X.Dims()

	if r.logger != nil {
		r.logger.Info("Training started",
			log.OperationKey, log.OperationFit,
			log.PhaseKey, log.PhaseTraining,
			log.SamplesKey, rows,
			log.VariablesKey, cols,
		)
	}

	table, err := dataset.FromMatrix(X, y)
	if err != nil {
		if r.logger != nil {
			r.logger.Error("Training failed", err,
				log.OperationKey, log.OperationFit,
				log.PhaseKey, log.PhaseTraining,
			)
		}
		return sfErrors.Wrap(err, "BSplineRegressor.Fit")
	}

	builder := bspline.NewBuilder(table).
		KnotSpacing(r.spacing).
		Smoothing(r.smoothing).
		Alpha(r.alpha)
	if r.degrees != nil {
		builder = builder.Degrees(r.degrees)
	} else {
		builder = builder.Degree(r.degree)
	}
	if r.numBasisVec != nil {
		builder = builder.NumBasisFunctionsVector(r.numBasisVec)
	} else if r.numBasis > 0 {
		builder = builder.NumBasisFunctions(r.numBasis)
	}

	spline, err := builder.Build()
	if err != nil {
		if r.logger != nil {
			r.logger.Error("Training failed", err,
				log.OperationKey, log.OperationFit,
				log.PhaseKey, log.PhaseTraining,
				log.SamplesKey, rows,
				log.VariablesKey, cols,
			)
		}
		return err
	}

	r.spline = spline
	r.nVariables = cols
	r.State.SetFitted()
	r.State.SetDimensions(cols, rows)

	if r.logger != nil {
		r.logger.Info("Training completed",
			log.OperationKey, log.OperationFit,
			log.PhaseKey, log.PhaseTraining,
			log.DurationMsKey, time.Since(startTime).Milliseconds(),
			log.SamplesKey, rows,
			log.ControlPointsKey, spline.NumControlPoints(),
		)
	}

	return nil
}

// Predict evaluates the fitted spline at each row of X.
//
// Returns a column matrix of shape (n_samples, 1). The model must be fitted
// first, and every sample must lie inside the spline's domain.
//
// Errors:
//   - NotFittedError: if the model hasn't been trained yet
//   - DimensionError: if X has a different number of variables than the
//     training data
//   - DomainError: if a sample lies outside the fitted domain
func (r *BSplineRegressor) Predict(X mat.Matrix) (_ mat.Matrix, err error) {
	defer sfErrors.Recover(&err, "BSplineRegressor.Predict")
	if !r.State.IsFitted() {
		return nil, sfErrors.NewNotFittedError("BSplineRegressor", "Predict")
	}

	rows, cols := X.Dims()
	if cols != r.nVariables {
		return nil, sfErrors.NewDimensionError("BSplineRegressor.Predict", r.nVariables, cols, 1)
	}

	if r.logger != nil {
		r.logger.Debug("Prediction started",
			log.OperationKey, log.OperationPredict,
			log.PhaseKey, log.PhaseInference,
			log.SamplesKey, rows,
		)
	}

	points := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		point := make([]float64, cols)
		for j := 0; j < cols; j++ {
			point[j] = X.At(i, j)
		}
		points[i] = point
	}

	values, err := r.spline.EvalAll(points)
	if err != nil {
		return nil, err
	}

	if r.logger != nil {
		r.logger.Debug("Prediction completed",
			log.OperationKey, log.OperationPredict,
			log.PredsKey, rows,
		)
	}

	return mat.NewDense(rows, 1, values), nil
}

// Score calculates the coefficient of determination (R²) of the predictions
// on X against the observed values y.
//
// When y has zero variance the score is undefined; an
// UndefinedMetricWarning is emitted and 0 is returned.
func (r *BSplineRegressor) Score(X, y mat.Matrix) (_ float64, err error) {
	defer sfErrors.Recover(&err, "BSplineRegressor.Score")
	if !r.State.IsFitted() {
		return 0, sfErrors.NewNotFittedError("BSplineRegressor", "Score")
	}

	yRows, yCols := y.Dims()
	if yCols != 1 {
		return 0, sfErrors.NewValueError("BSplineRegressor.Score", "y must be a column vector")
	}

	yPred, err := r.Predict(X)
	if err != nil {
		return 0, err
	}

	yTrueVec := mat.NewVecDense(yRows, nil)
	yPredVec := mat.NewVecDense(yRows, nil)
	for i := 0; i < yRows; i++ {
		yTrueVec.SetVec(i, y.At(i, 0))
		yPredVec.SetVec(i, yPred.At(i, 0))
	}

	r2, err := metrics.R2Score(yTrueVec, yPredVec)
	if err != nil {
		return 0, err
	}

	if r.logger != nil {
		r.logger.Debug("Score computed",
			log.OperationKey, log.OperationScore,
			log.SamplesKey, yRows,
			log.R2ScoreKey, r2,
		)
	}

	return r2, nil
}

// Spline returns the fitted spline, or nil if the model has not been fitted.
func (r *BSplineRegressor) Spline() *bspline.BSpline {
	return r.spline
}

// IsFitted returns whether the model has been trained.
func (r *BSplineRegressor) IsFitted() bool {
	return r.State.IsFitted()
}

// NumVariables returns the number of input variables seen during Fit, or 0
// if the model has not been fitted.
func (r *BSplineRegressor) NumVariables() int {
	return r.nVariables
}

// GetParams returns the model hyperparameters (scikit-learn compatible).
func (r *BSplineRegressor) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"degree":              r.degree,
		"degrees":             append([]int(nil), r.degrees...),
		"num_basis_functions": r.numBasis,
		"knot_spacing":        r.spacing.String(),
		"smoothing":           r.smoothing.String(),
		"alpha":               r.alpha,
		"fitted":              r.State.IsFitted(),
	}
}

// SetParams sets the model hyperparameters (scikit-learn compatible).
// Unknown keys are ignored; knot_spacing and smoothing accept their string
// names.
func (r *BSplineRegressor) SetParams(params map[string]interface{}) error {
	if v, ok := params["degree"]; ok {
		switch d := v.(type) {
		case int:
			r.degree = d
			r.degrees = nil
		case float64:
			r.degree = int(d)
			r.degrees = nil
		}
	}
	if v, ok := params["num_basis_functions"]; ok {
		switch n := v.(type) {
		case int:
			r.numBasis = n
			r.numBasisVec = nil
		case float64:
			r.numBasis = int(n)
			r.numBasisVec = nil
		}
	}
	if v, ok := params["alpha"]; ok {
		switch a := v.(type) {
		case float64:
			r.alpha = a
		case int:
			r.alpha = float64(a)
		}
	}
	if v, ok := params["knot_spacing"].(string); ok {
		spacing := bspline.KnotSpacingFromString(v)
		if !spacing.Valid() {
			return sfErrors.NewValidationError("knot_spacing", "unknown knot spacing strategy", v)
		}
		r.spacing = spacing
	}
	if v, ok := params["smoothing"].(string); ok {
		smoothing := bspline.SmoothingFromString(v)
		if !smoothing.Valid() {
			return sfErrors.NewValidationError("smoothing", "unknown smoothing mode", v)
		}
		r.smoothing = smoothing
	}
	return nil
}
