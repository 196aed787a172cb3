package bspline

import (
	"fmt"
	"math"
	"testing"

	"github.com/ezoic/splinefit/pkg/errors"
)

const testTol = 1e-12

func floatsNear(a, b []float64, tol float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}

func seq(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}

func TestExtractUniqueSorted(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   []float64
	}{
		{"unsorted with duplicates", []float64{3, 1, 2, 1, 3, 2}, []float64{1, 2, 3}},
		{"already sorted", []float64{1, 2, 3}, []float64{1, 2, 3}},
		{"all equal", []float64{5, 5, 5}, []float64{5}},
		{"single", []float64{7}, []float64{7}},
		{"empty", nil, []float64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractUniqueSorted(tt.values)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			if !floatsNear(got, tt.want, 0) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKnotVectorPostconditions(t *testing.T) {
	unique := seq(10)
	strategies := []KnotSpacing{KnotSpacingSample, KnotSpacingEquidistant, KnotSpacingExperimental}
	for _, spacing := range strategies {
		for degree := 0; degree <= 3; degree++ {
			numBasis := degree + 4
			t.Run(fmt.Sprintf("%s degree %d", spacing, degree), func(t *testing.T) {
				knots, effective, err := computeKnotVector("test", unique, degree, numBasis, 0, spacing)
				if err != nil {
					t.Fatalf("degree %d: unexpected error: %v", degree, err)
				}
				if len(knots) != effective+degree+1 {
					t.Fatalf("degree %d: length %d, want %d", degree, len(knots), effective+degree+1)
				}
				for i := 1; i < len(knots); i++ {
					if knots[i] < knots[i-1] {
						t.Fatalf("degree %d: knots decrease at %d: %v", degree, i, knots)
					}
				}
				for i := 0; i <= degree; i++ {
					if knots[i] != unique[0] {
						t.Errorf("degree %d: start clamp missing at %d", degree, i)
					}
					if knots[len(knots)-1-i] != unique[len(unique)-1] {
						t.Errorf("degree %d: end clamp missing at %d", degree, len(knots)-1-i)
					}
				}
				for i := degree + 1; i < len(knots)-degree-1; i++ {
					if knots[i] <= unique[0] || knots[i] >= unique[len(unique)-1] {
						t.Errorf("degree %d: interior knot %g not strictly inside data range", degree, knots[i])
					}
				}
			})
		}
	}
}

func TestMovingAverageInterpolatingBasis(t *testing.T) {
	// With one basis function per distinct value the windows are the
	// consecutive moving averages.
	tests := []struct {
		name   string
		unique []float64
		degree int
		want   []float64
	}{
		{
			name:   "degree 1",
			unique: []float64{0, 1, 2, 3, 4},
			degree: 1,
			want:   []float64{0, 0, 1, 2, 3, 4, 4},
		},
		{
			name:   "degree 2",
			unique: []float64{0, 1, 2, 3, 4, 5},
			degree: 2,
			want:   []float64{0, 0, 0, 1.5, 2.5, 3.5, 5, 5, 5},
		},
		{
			name:   "degree 3 no interior",
			unique: []float64{0, 1, 2, 3},
			degree: 3,
			want:   []float64{0, 0, 0, 0, 3, 3, 3, 3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			knots, err := knotVectorMovingAverage("test", tt.unique, tt.degree, len(tt.unique), 0)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !floatsNear(knots, tt.want, testTol) {
				t.Errorf("got %v, want %v", knots, tt.want)
			}
		})
	}
}

func TestMovingAverageReducedBasis(t *testing.T) {
	// Ten distinct values, five basis functions of degree one: window
	// starts spread evenly over the admissible range.
	knots, err := knotVectorMovingAverage("test", seq(10), 1, 5, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{0, 0, 1, 5, 8, 9, 9}
	if !floatsNear(knots, want, testTol) {
		t.Errorf("got %v, want %v", knots, want)
	}
}

func TestEquidistantSpacing(t *testing.T) {
	// Interior positions depend only on the data range, not on where the
	// samples fall inside it.
	unique := []float64{0, 1, 2, 7, 10}
	knots, err := knotVectorEquidistant("test", unique, 2, 6, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{0, 0, 0, 2.5, 5, 7.5, 10, 10, 10}
	if !floatsNear(knots, want, testTol) {
		t.Fatalf("got %v, want %v", knots, want)
	}

	// Gaps between the clamps stay uniform for any interior count.
	knots, err = knotVectorEquidistant("test", seq(11), 1, 7, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	step := knots[2] - knots[1]
	for i := 2; i <= len(knots)-2; i++ {
		if math.Abs((knots[i]-knots[i-1])-step) > 1e-9 {
			t.Errorf("uneven gap at %d: %v", i, knots)
		}
	}
}

func TestBucketKnots(t *testing.T) {
	t.Run("five values", func(t *testing.T) {
		// Four segments, three interior knots at bucket midpoints.
		knots := knotVectorBuckets([]float64{0, 1, 2, 3, 4}, 1)
		want := []float64{0, 0, 1.5, 2.5, 3.5, 4, 4}
		if !floatsNear(knots, want, testTol) {
			t.Errorf("got %v, want %v", knots, want)
		}
	})
	t.Run("segment cap", func(t *testing.T) {
		knots := knotVectorBuckets(seq(100), 2)
		wantInterior := maxSegments - 1
		if got := len(knots) - 2*3; got != wantInterior {
			t.Errorf("interior knots = %d, want %d", got, wantInterior)
		}
	})
	t.Run("single value", func(t *testing.T) {
		knots := knotVectorBuckets([]float64{3}, 0)
		want := []float64{3, 3}
		if !floatsNear(knots, want, testTol) {
			t.Errorf("got %v, want %v", knots, want)
		}
	})
	t.Run("derived basis count", func(t *testing.T) {
		knots, effective, err := computeKnotVector("test", seq(25), 3, 99, 0, KnotSpacingExperimental)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// Ten segments give nine interior knots regardless of the request.
		if want := 9 + 3 + 1; effective != want {
			t.Errorf("effective basis count = %d, want %d", effective, want)
		}
		if len(knots) != effective+3+1 {
			t.Errorf("knot count = %d, want %d", len(knots), effective+3+1)
		}
	})
}

func TestComputeKnotVectorInsufficientData(t *testing.T) {
	tests := []struct {
		name         string
		unique       []float64
		degree       int
		numBasis     int
		spacing      KnotSpacing
		wantRequired int
	}{
		{"fewer than degree+1", []float64{0, 1}, 3, 4, KnotSpacingSample, 4},
		{"fewer than basis count", []float64{0, 1}, 1, 6, KnotSpacingSample, 6},
		{"degenerate range", []float64{5}, 0, 2, KnotSpacingEquidistant, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := computeKnotVector("test", tt.unique, tt.degree, tt.numBasis, 0, tt.spacing)
			var insufficientErr *errors.InsufficientDataError
			if !errors.As(err, &insufficientErr) {
				t.Fatalf("got %v, want InsufficientDataError", err)
			}
			if insufficientErr.Required != tt.wantRequired {
				t.Errorf("Required = %d, want %d", insufficientErr.Required, tt.wantRequired)
			}
			if insufficientErr.Distinct != len(tt.unique) {
				t.Errorf("Distinct = %d, want %d", insufficientErr.Distinct, len(tt.unique))
			}
		})
	}
}

func TestComputeKnotVectorUnknownStrategy(t *testing.T) {
	_, _, err := computeKnotVector("test", seq(10), 2, 5, 0, KnotSpacing(99))
	var validationErr *errors.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("got %v, want ValidationError", err)
	}
}

func TestValidateKnotVector(t *testing.T) {
	tests := []struct {
		name  string
		knots []float64
	}{
		{"wrong length", []float64{0, 0, 1, 1}},
		{"decreasing", []float64{0, 0, 2, 1, 3, 3}},
		{"broken clamp", []float64{0, 0.5, 1, 2, 3, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := validateKnotVector("test", tt.knots, 1, 4); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
	if err := validateKnotVector("test", []float64{0, 0, 1, 2, 3, 3}, 1, 4); err != nil {
		t.Errorf("valid vector rejected: %v", err)
	}
}
