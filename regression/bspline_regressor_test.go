package regression

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/splinefit/bspline"
	sfErrors "github.com/ezoic/splinefit/pkg/errors"
)

// quadraticData returns samples of f(x) = x² on 0..9.
func quadraticData() (*mat.Dense, *mat.VecDense) {
	n := 10
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := 0; i < n; i++ {
		x := float64(i)
		xs[i] = x
		ys[i] = x * x
	}
	return mat.NewDense(n, 1, xs), mat.NewVecDense(n, ys)
}

func TestBSplineRegressor_Fit(t *testing.T) {
	gridX := mat.NewDense(12, 2, nil)
	gridY := mat.NewVecDense(12, nil)
	for i := 0; i < 4; i++ {
		for j := 0; j < 3; j++ {
			row := i*3 + j
			x0, x1 := float64(i), float64(10*j)
			gridX.Set(row, 0, x0)
			gridX.Set(row, 1, x1)
			gridY.SetVec(row, x0+x1)
		}
	}

	quadX, quadY := quadraticData()

	tests := []struct {
		name    string
		options []Option
		X       *mat.Dense
		y       mat.Matrix
		wantErr bool
	}{
		{
			name:    "default cubic fit",
			X:       quadX,
			y:       quadY,
			wantErr: false,
		},
		{
			name:    "two variables",
			options: []Option{WithDegree(1)},
			X:       gridX,
			y:       gridY,
			wantErr: false,
		},
		{
			name:    "empty data",
			X:       &mat.Dense{},
			y:       &mat.VecDense{},
			wantErr: true,
		},
		{
			name:    "mismatched dimensions",
			X:       mat.NewDense(3, 1, []float64{1, 2, 3}),
			y:       mat.NewVecDense(2, []float64{1, 2}),
			wantErr: true,
		},
		{
			name:    "y not a column vector",
			X:       mat.NewDense(3, 1, []float64{1, 2, 3}),
			y:       mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6}),
			wantErr: true,
		},
		{
			name:    "degree out of range",
			options: []Option{WithDegree(7)},
			X:       quadX,
			y:       quadY,
			wantErr: true,
		},
		{
			name:    "too few distinct values",
			options: []Option{WithDegree(1)},
			X:       mat.NewDense(4, 1, []float64{2, 2, 2, 2}),
			y:       mat.NewVecDense(4, []float64{1, 1, 1, 1}),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewBSplineRegressor(tt.options...)
			err := reg.Fit(tt.X, tt.y)

			if (err != nil) != tt.wantErr {
				t.Errorf("BSplineRegressor.Fit() error = %v, wantErr %v", err, tt.wantErr)
			}

			if !tt.wantErr && !reg.IsFitted() {
				t.Error("BSplineRegressor should be fitted after successful Fit()")
			}
			if tt.wantErr && reg.IsFitted() {
				t.Error("BSplineRegressor should not be fitted after failed Fit()")
			}
		})
	}
}

func TestBSplineRegressor_FitErrorTypes(t *testing.T) {
	quadX, quadY := quadraticData()

	t.Run("degree out of range", func(t *testing.T) {
		reg := NewBSplineRegressor(WithDegree(7))
		err := reg.Fit(quadX, quadY)
		var valErr *sfErrors.ValidationError
		if !sfErrors.As(err, &valErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if valErr.ParamName != "degree" {
			t.Errorf("ParamName = %q, want %q", valErr.ParamName, "degree")
		}
	})

	t.Run("too few distinct values", func(t *testing.T) {
		reg := NewBSplineRegressor(WithDegree(1))
		X := mat.NewDense(4, 1, []float64{2, 2, 2, 2})
		y := mat.NewVecDense(4, []float64{1, 1, 1, 1})
		err := reg.Fit(X, y)
		var dataErr *sfErrors.InsufficientDataError
		if !sfErrors.As(err, &dataErr) {
			t.Fatalf("expected InsufficientDataError, got %v", err)
		}
		if dataErr.Distinct != 1 || dataErr.Required != 2 {
			t.Errorf("Distinct = %d, Required = %d, want 1 and 2", dataErr.Distinct, dataErr.Required)
		}
	})
}

func TestBSplineRegressor_Predict(t *testing.T) {
	quadX, quadY := quadraticData()
	reg := NewBSplineRegressor(WithDegree(2))
	if err := reg.Fit(quadX, quadY); err != nil {
		t.Fatalf("Failed to fit model: %v", err)
	}

	tests := []struct {
		name      string
		X         *mat.Dense
		wantShape []int
		wantY     []float64
		tolerance float64
		wantErr   bool
	}{
		{
			name:      "predict on training data",
			X:         mat.NewDense(2, 1, []float64{0, 9}),
			wantShape: []int{2, 1},
			wantY:     []float64{0, 81},
			tolerance: 1e-6,
			wantErr:   false,
		},
		{
			name:      "predict between samples",
			X:         mat.NewDense(3, 1, []float64{2.5, 4.75, 7.25}),
			wantShape: []int{3, 1},
			wantY:     []float64{6.25, 22.5625, 52.5625},
			tolerance: 1e-6,
			wantErr:   false,
		},
		{
			name:    "wrong number of variables",
			X:       mat.NewDense(2, 2, []float64{1, 2, 3, 4}),
			wantErr: true,
		},
		{
			name:    "outside the fitted domain",
			X:       mat.NewDense(1, 1, []float64{10.5}),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred, err := reg.Predict(tt.X)

			if (err != nil) != tt.wantErr {
				t.Errorf("BSplineRegressor.Predict() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr {
				r, c := pred.Dims()
				if r != tt.wantShape[0] || c != tt.wantShape[1] {
					t.Errorf("Prediction shape = [%d, %d], want %v", r, c, tt.wantShape)
				}

				for i := 0; i < r; i++ {
					got := pred.At(i, 0)
					want := tt.wantY[i]
					if math.Abs(got-want) > tt.tolerance {
						t.Errorf("Prediction[%d] = %v, want %v (tolerance: %v)",
							i, got, want, tt.tolerance)
					}
				}
			}
		})
	}
}

func TestBSplineRegressor_PredictErrorTypes(t *testing.T) {
	quadX, quadY := quadraticData()
	reg := NewBSplineRegressor(WithDegree(2))
	if err := reg.Fit(quadX, quadY); err != nil {
		t.Fatalf("Failed to fit model: %v", err)
	}

	t.Run("variable count mismatch", func(t *testing.T) {
		_, err := reg.Predict(mat.NewDense(1, 2, []float64{1, 2}))
		var dimErr *sfErrors.DimensionError
		if !sfErrors.As(err, &dimErr) {
			t.Fatalf("expected DimensionError, got %v", err)
		}
	})

	t.Run("outside the fitted domain", func(t *testing.T) {
		_, err := reg.Predict(mat.NewDense(1, 1, []float64{-3}))
		var domErr *sfErrors.DomainError
		if !sfErrors.As(err, &domErr) {
			t.Fatalf("expected DomainError, got %v", err)
		}
	})
}

func TestBSplineRegressor_NotFitted(t *testing.T) {
	reg := NewBSplineRegressor()
	X := mat.NewDense(2, 1, []float64{1, 2})
	y := mat.NewVecDense(2, []float64{1, 2})

	if reg.IsFitted() {
		t.Error("new regressor must not report fitted")
	}
	if reg.Spline() != nil {
		t.Error("Spline() must be nil before Fit")
	}

	if _, err := reg.Predict(X); err == nil {
		t.Error("Predict on unfitted model must fail")
	} else {
		var nfErr *sfErrors.NotFittedError
		if !sfErrors.As(err, &nfErr) {
			t.Errorf("expected NotFittedError, got %v", err)
		}
	}

	if _, err := reg.Score(X, y); err == nil {
		t.Error("Score on unfitted model must fail")
	}
}

func TestBSplineRegressor_Score(t *testing.T) {
	quadX, quadY := quadraticData()
	reg := NewBSplineRegressor(WithDegree(2))
	if err := reg.Fit(quadX, quadY); err != nil {
		t.Fatalf("Failed to fit model: %v", err)
	}

	t.Run("training data scores one", func(t *testing.T) {
		score, err := reg.Score(quadX, quadY)
		if err != nil {
			t.Fatalf("Score failed: %v", err)
		}
		if math.Abs(score-1.0) > 1e-9 {
			t.Errorf("Score = %v, want 1.0", score)
		}
	})

	t.Run("constant target is undefined", func(t *testing.T) {
		constY := mat.NewVecDense(10, nil)
		for i := 0; i < 10; i++ {
			constY.SetVec(i, 3)
		}
		score, err := reg.Score(quadX, constY)
		if err != nil {
			t.Fatalf("Score failed: %v", err)
		}
		if score != 0 {
			t.Errorf("Score = %v, want 0 for zero-variance target", score)
		}
	})

	t.Run("y must be a column", func(t *testing.T) {
		wide := mat.NewDense(10, 2, nil)
		_, err := reg.Score(quadX, wide)
		var valueErr *sfErrors.ValueError
		if !sfErrors.As(err, &valueErr) {
			t.Fatalf("expected ValueError, got %v", err)
		}
	})
}

func TestBSplineRegressor_OptionsFlow(t *testing.T) {
	reg := NewBSplineRegressor(
		WithDegree(2),
		WithNumBasisFunctions(8),
		WithKnotSpacing(bspline.KnotSpacingEquidistant),
		WithSmoothing(bspline.SmoothingPSpline),
		WithAlpha(0.5),
	)

	params := reg.GetParams()
	if params["degree"] != 2 {
		t.Errorf("degree = %v, want 2", params["degree"])
	}
	if params["num_basis_functions"] != 8 {
		t.Errorf("num_basis_functions = %v, want 8", params["num_basis_functions"])
	}
	if params["knot_spacing"] != "EQUIDISTANT" {
		t.Errorf("knot_spacing = %v, want EQUIDISTANT", params["knot_spacing"])
	}
	if params["smoothing"] != "PSPLINE" {
		t.Errorf("smoothing = %v, want PSPLINE", params["smoothing"])
	}
	if params["alpha"] != 0.5 {
		t.Errorf("alpha = %v, want 0.5", params["alpha"])
	}
	if params["fitted"] != false {
		t.Errorf("fitted = %v, want false", params["fitted"])
	}

	xs := make([]float64, 30)
	ys := make([]float64, 30)
	for i := range xs {
		x := float64(i) / 29 * 10
		xs[i] = x
		ys[i] = math.Sin(x)
	}
	X := mat.NewDense(30, 1, xs)
	y := mat.NewVecDense(30, ys)
	if err := reg.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	spline := reg.Spline()
	if spline == nil {
		t.Fatal("Spline() must not be nil after Fit")
	}
	if got := spline.NumBasisFunctions()[0]; got != 8 {
		t.Errorf("NumBasisFunctions = %d, want 8", got)
	}
	if got := spline.Degrees()[0]; got != 2 {
		t.Errorf("Degrees = %d, want 2", got)
	}
	if reg.NumVariables() != 1 {
		t.Errorf("NumVariables = %d, want 1", reg.NumVariables())
	}
}

func TestBSplineRegressor_SetParams(t *testing.T) {
	reg := NewBSplineRegressor()

	err := reg.SetParams(map[string]interface{}{
		"degree":              float64(1), // JSON numbers decode as float64
		"num_basis_functions": 5,
		"alpha":               2,
		"knot_spacing":        "equidistant",
		"smoothing":           "regularization",
		"unknown_key":         "ignored",
	})
	if err != nil {
		t.Fatalf("SetParams failed: %v", err)
	}

	params := reg.GetParams()
	if params["degree"] != 1 {
		t.Errorf("degree = %v, want 1", params["degree"])
	}
	if params["num_basis_functions"] != 5 {
		t.Errorf("num_basis_functions = %v, want 5", params["num_basis_functions"])
	}
	if params["alpha"] != 2.0 {
		t.Errorf("alpha = %v, want 2.0", params["alpha"])
	}
	if params["knot_spacing"] != "EQUIDISTANT" {
		t.Errorf("knot_spacing = %v, want EQUIDISTANT", params["knot_spacing"])
	}
	if params["smoothing"] != "REGULARIZATION" {
		t.Errorf("smoothing = %v, want REGULARIZATION", params["smoothing"])
	}

	t.Run("unknown knot spacing rejected", func(t *testing.T) {
		err := reg.SetParams(map[string]interface{}{"knot_spacing": "fancy"})
		var valErr *sfErrors.ValidationError
		if !sfErrors.As(err, &valErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("unknown smoothing rejected", func(t *testing.T) {
		err := reg.SetParams(map[string]interface{}{"smoothing": "magic"})
		var valErr *sfErrors.ValidationError
		if !sfErrors.As(err, &valErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})
}

func TestBSplineRegressor_Refit(t *testing.T) {
	quadX, quadY := quadraticData()
	reg := NewBSplineRegressor(WithDegree(1))
	if err := reg.Fit(quadX, quadY); err != nil {
		t.Fatalf("first Fit failed: %v", err)
	}
	if reg.NumVariables() != 1 {
		t.Fatalf("NumVariables = %d, want 1", reg.NumVariables())
	}

	X2 := mat.NewDense(9, 2, nil)
	y2 := mat.NewVecDense(9, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			row := i*3 + j
			X2.Set(row, 0, float64(i))
			X2.Set(row, 1, float64(j))
			y2.SetVec(row, float64(i)-float64(j))
		}
	}
	if err := reg.Fit(X2, y2); err != nil {
		t.Fatalf("second Fit failed: %v", err)
	}
	if reg.NumVariables() != 2 {
		t.Errorf("NumVariables = %d, want 2 after refit", reg.NumVariables())
	}

	pred, err := reg.Predict(mat.NewDense(1, 2, []float64{1.5, 0.5}))
	if err != nil {
		t.Fatalf("Predict after refit failed: %v", err)
	}
	if math.Abs(pred.At(0, 0)-1.0) > 1e-9 {
		t.Errorf("Prediction = %v, want 1.0", pred.At(0, 0))
	}

	if _, err := reg.Predict(mat.NewDense(1, 1, []float64{1})); err == nil {
		t.Error("Predict with stale variable count must fail after refit")
	}
}
