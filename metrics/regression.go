// Package metrics provides evaluation metrics for fitted spline models.
//
// The package implements the standard regression metrics used to judge fit
// quality:
//
//   - MSE: Mean Squared Error for measuring prediction accuracy
//   - RMSE: Root Mean Squared Error (square root of MSE)
//   - MAE: Mean Absolute Error for robust error measurement
//   - R²: R-squared coefficient of determination
//   - MAPE: Mean Absolute Percentage Error
//   - Explained Variance Score: proportion of variance explained by the model
//
// All metrics operate on gonum/mat vectors so they compose directly with the
// fitting pipeline and the regression estimators.
//
// Example usage:
//
//	mse := metrics.MSE(yTrue, yPred)
//	rmse := metrics.RMSE(yTrue, yPred)
//	r2 := metrics.R2Score(yTrue, yPred)
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	sfErrors "github.com/ezoic/splinefit/pkg/errors"
)

// MSE calculates the Mean Squared Error between true and predicted values.
//
// MSE measures the average squared differences between predictions and actual
// values. Lower values indicate better model performance. MSE is sensitive to
// outliers due to the squared differences.
//
// Errors:
//   - ValueError: if input vectors are empty
//   - DimensionError: if yTrue and yPred have different lengths
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, sfErrors.NewValueError("MSE", "empty vector")
	}
	if yPred.Len() != n {
		return 0, sfErrors.NewDimensionError("MSE", n, yPred.Len(), 0)
	}

	// MSE = (1/n) * Σ(yTrue - yPred)²
	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += diff * diff
	}
	return sum / float64(n), nil
}

// MSEMatrix calculates MSE for column-matrix inputs (n×1 matrices). It
// converts the matrices to vectors and delegates to MSE.
//
// Errors:
//   - ValueError: if input matrices are empty or not column vectors
//   - DimensionError: if matrices have different dimensions
func MSEMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	rTrue, cTrue := yTrue.Dims()
	rPred, cPred := yPred.Dims()

	if rTrue == 0 || cTrue == 0 {
		return 0, sfErrors.NewValueError("MSEMatrix", "empty matrix")
	}
	if rTrue != rPred || cTrue != cPred {
		return 0, sfErrors.NewDimensionError("MSEMatrix", rTrue, rPred, 0)
	}
	if cTrue != 1 {
		return 0, sfErrors.NewValueError("MSEMatrix", "must be a column vector (n×1 matrix)")
	}

	yTrueVec := mat.NewVecDense(rTrue, nil)
	yPredVec := mat.NewVecDense(rPred, nil)
	for i := 0; i < rTrue; i++ {
		yTrueVec.SetVec(i, yTrue.At(i, 0))
		yPredVec.SetVec(i, yPred.At(i, 0))
	}
	return MSE(yTrueVec, yPredVec)
}

// RMSE calculates the Root Mean Squared Error between true and predicted
// values. RMSE is the square root of MSE, providing error measurement in the
// same units as the target variable.
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE calculates the Mean Absolute Error between true and predicted values.
//
// MAE measures the average absolute differences between predictions and
// actual values. It is more robust to outliers than MSE as it does not
// square the differences.
//
// Errors:
//   - ValueError: if input vectors are empty
//   - DimensionError: if yTrue and yPred have different lengths
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, sfErrors.NewValueError("MAE", "empty vector")
	}
	if yPred.Len() != n {
		return 0, sfErrors.NewDimensionError("MAE", n, yPred.Len(), 0)
	}

	// MAE = (1/n) * Σ|yTrue - yPred|
	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(yTrue.AtVec(i) - yPred.AtVec(i))
	}
	return sum / float64(n), nil
}

// R2Score calculates the coefficient of determination (R²).
//
// R² represents the proportion of variance in the target variable that is
// predictable from the inputs. The best possible score is 1.0; a model no
// better than the mean scores 0, and worse models score negative.
//
// When yTrue has no variance the score is undefined; an
// UndefinedMetricWarning is emitted and 0 is returned.
//
// Errors:
//   - ValueError: if input vectors are empty
//   - DimensionError: if yTrue and yPred have different lengths
func R2Score(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, sfErrors.NewValueError("R2Score", "empty vector")
	}
	if yPred.Len() != n {
		return 0, sfErrors.NewDimensionError("R2Score", n, yPred.Len(), 0)
	}

	var yMean float64
	for i := 0; i < n; i++ {
		yMean += yTrue.AtVec(i)
	}
	yMean /= float64(n)

	var tss, rss float64
	for i := 0; i < n; i++ {
		yTrueVal := yTrue.AtVec(i)
		yPredVal := yPred.AtVec(i)
		tss += (yTrueVal - yMean) * (yTrueVal - yMean)
		rss += (yTrueVal - yPredVal) * (yTrueVal - yPredVal)
	}

	if tss == 0 {
		w := sfErrors.NewUndefinedMetricWarning("R2Score", "yTrue has zero variance", 0)
		sfErrors.Warn(w)
		return w.Result, nil
	}

	// R² = 1 - RSS/TSS
	return 1 - rss/tss, nil
}

// MAPE calculates the Mean Absolute Percentage Error.
//
// MAPE measures prediction accuracy as a percentage, making it
// scale-independent. Zero entries of yTrue are skipped since their relative
// error is undefined.
//
// Errors:
//   - ValueError: if input vectors are empty, or if every yTrue entry is zero
//   - DimensionError: if yTrue and yPred have different lengths
func MAPE(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, sfErrors.NewValueError("MAPE", "empty vector")
	}
	if yPred.Len() != n {
		return 0, sfErrors.NewDimensionError("MAPE", n, yPred.Len(), 0)
	}

	// MAPE = (100/n) * Σ|yTrue - yPred|/|yTrue|
	var sum float64
	validCount := 0
	for i := 0; i < n; i++ {
		yTrueVal := yTrue.AtVec(i)
		if yTrueVal != 0 {
			sum += math.Abs(yTrueVal-yPred.AtVec(i)) / math.Abs(yTrueVal)
			validCount++
		}
	}

	if validCount == 0 {
		return 0, sfErrors.NewValueError("MAPE", "all yTrue values are zero")
	}
	return (sum / float64(validCount)) * 100, nil
}

// ExplainedVarianceScore calculates the explained variance regression score.
//
// The metric measures the proportion of the target variance explained by the
// model. Unlike R² it does not account for a systematic offset in the
// predictions. The best possible score is 1.0.
//
// When yTrue has no variance the score is undefined; an
// UndefinedMetricWarning is emitted and 0 is returned.
//
// Errors:
//   - ValueError: if input vectors are empty
//   - DimensionError: if yTrue and yPred have different lengths
func ExplainedVarianceScore(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, sfErrors.NewValueError("ExplainedVarianceScore", "empty vector")
	}
	if yPred.Len() != n {
		return 0, sfErrors.NewDimensionError("ExplainedVarianceScore", n, yPred.Len(), 0)
	}

	var yTrueMean, diffMean float64
	for i := 0; i < n; i++ {
		yTrueMean += yTrue.AtVec(i)
		diffMean += yTrue.AtVec(i) - yPred.AtVec(i)
	}
	yTrueMean /= float64(n)
	diffMean /= float64(n)

	var varYTrue, varDiff float64
	for i := 0; i < n; i++ {
		yTrueVal := yTrue.AtVec(i)
		diff := yTrueVal - yPred.AtVec(i)
		varYTrue += (yTrueVal - yTrueMean) * (yTrueVal - yTrueMean)
		varDiff += (diff - diffMean) * (diff - diffMean)
	}
	varYTrue /= float64(n)
	varDiff /= float64(n)

	if varYTrue == 0 {
		w := sfErrors.NewUndefinedMetricWarning("ExplainedVarianceScore", "yTrue has zero variance", 0)
		sfErrors.Warn(w)
		return w.Result, nil
	}

	// Explained variance score = 1 - Var(yTrue - yPred) / Var(yTrue)
	return 1 - varDiff/varYTrue, nil
}
