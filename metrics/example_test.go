package metrics_test

import (
	"fmt"
	"log"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/splinefit/metrics"
)

// ExampleMSE demonstrates Mean Squared Error calculation.
func ExampleMSE() {
	yTrue := mat.NewVecDense(4, []float64{1.0, 2.0, 3.0, 4.0})
	yPred := mat.NewVecDense(4, []float64{1.1, 1.9, 3.2, 3.8})

	mse, err := metrics.MSE(yTrue, yPred)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("MSE: %.3f\n", mse)

	// Output: MSE: 0.025
}

// ExampleRMSE demonstrates Root Mean Squared Error calculation.
func ExampleRMSE() {
	yTrue := mat.NewVecDense(3, []float64{10.0, 20.0, 30.0})
	yPred := mat.NewVecDense(3, []float64{12.0, 18.0, 32.0})

	rmse, err := metrics.RMSE(yTrue, yPred)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("RMSE: %.2f\n", rmse)

	// Output: RMSE: 2.00
}

// ExampleMAE demonstrates Mean Absolute Error calculation.
func ExampleMAE() {
	yTrue := mat.NewVecDense(4, []float64{1.0, 2.0, 3.0, 4.0})
	yPred := mat.NewVecDense(4, []float64{0.8, 2.2, 2.9, 4.3})

	mae, err := metrics.MAE(yTrue, yPred)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("MAE: %.2f\n", mae)

	// Output: MAE: 0.20
}

// ExampleR2Score demonstrates the coefficient of determination for perfect
// predictions.
func ExampleR2Score() {
	yTrue := mat.NewVecDense(5, []float64{1.0, 2.0, 3.0, 4.0, 5.0})
	yPred := mat.NewVecDense(5, []float64{1.0, 2.0, 3.0, 4.0, 5.0})

	r2, err := metrics.R2Score(yTrue, yPred)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("R² Score: %.1f\n", r2)

	// Output: R² Score: 1.0
}

// ExampleR2Score_imperfectPredictions demonstrates R² with prediction errors.
func ExampleR2Score_imperfectPredictions() {
	yTrue := mat.NewVecDense(4, []float64{1.0, 3.0, 2.0, 4.0})
	yPred := mat.NewVecDense(4, []float64{1.2, 2.8, 2.1, 3.9})

	r2, err := metrics.R2Score(yTrue, yPred)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("R² Score: %.3f\n", r2)

	// Output: R² Score: 0.980
}

// ExampleR2Score_constantTarget demonstrates the undefined-metric behavior:
// a constant target has no variance to explain, so the score is reported as
// zero and a warning is emitted through the warning handler.
func ExampleR2Score_constantTarget() {
	yTrue := mat.NewVecDense(3, []float64{7.0, 7.0, 7.0})
	yPred := mat.NewVecDense(3, []float64{6.9, 7.0, 7.1})

	r2, err := metrics.R2Score(yTrue, yPred)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("R² Score: %.1f\n", r2)

	// Output: R² Score: 0.0
}

// ExampleMAPE demonstrates Mean Absolute Percentage Error calculation.
func ExampleMAPE() {
	yTrue := mat.NewVecDense(4, []float64{10.0, 20.0, 30.0, 40.0})
	yPred := mat.NewVecDense(4, []float64{9.0, 22.0, 28.0, 42.0})

	mape, err := metrics.MAPE(yTrue, yPred)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("MAPE: %.1f%%\n", mape)

	// Output: MAPE: 7.9%
}

// ExampleExplainedVarianceScore demonstrates explained variance calculation.
func ExampleExplainedVarianceScore() {
	yTrue := mat.NewVecDense(4, []float64{1.0, 2.0, 3.0, 4.0})
	yPred := mat.NewVecDense(4, []float64{1.1, 1.9, 3.1, 3.9})

	evs, err := metrics.ExplainedVarianceScore(yTrue, yPred)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Explained Variance Score: %.3f\n", evs)

	// Output: Explained Variance Score: 0.992
}

// ExampleMSEMatrix demonstrates MSE calculation with matrix inputs.
func ExampleMSEMatrix() {
	yTrue := mat.NewDense(3, 1, []float64{1.0, 2.0, 3.0})
	yPred := mat.NewDense(3, 1, []float64{1.1, 2.1, 2.9})

	mse, err := metrics.MSEMatrix(yTrue, yPred)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("MSE (matrix input): %.3f\n", mse)

	// Output: MSE (matrix input): 0.010
}
