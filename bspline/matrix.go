package bspline

import (
	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/splinefit/core/parallel"
	"github.com/ezoic/splinefit/dataset"
	"github.com/ezoic/splinefit/pkg/errors"
)

// parallelThreshold is the sample count below which assembly and batch
// evaluation stay sequential.
const parallelThreshold = 1000

// sparseRow holds the nonzero entries of one design-matrix row as parallel
// index and value slices, in ascending column order.
type sparseRow struct {
	indices []int
	values  []float64
}

// assembleDesignMatrix evaluates the basis at every sample point. Row i
// corresponds to sample i and carries at most prod(degree+1) nonzeros.
// Clamped knot vectors are built to contain every sample, so a domain
// failure here signals broken knot construction and aborts the build.
func assembleDesignMatrix(op string, data *dataset.Table, basis basisEvaluator) ([]sparseRow, error) {
	n := data.Len()
	rows := make([]sparseRow, n)
	errs := make([]error, n)

	parallel.ParallelizeWithThreshold(n, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			indices, values, err := basis.evalBasis(op, data.Sample(i))
			if err != nil {
				errs[i] = err
				continue
			}
			rows[i] = sparseRow{indices: indices, values: values}
		}
	})

	for _, err := range errs {
		if err != nil {
			return nil, errors.Wrap(err, "assembling design matrix")
		}
	}
	return rows, nil
}

// targetVector copies the observed outputs into a dense vector aligned with
// the design-matrix rows.
func targetVector(data *dataset.Table) *mat.VecDense {
	y := make([]float64, data.Len())
	for i := range y {
		y[i] = data.Y(i)
	}
	return mat.NewVecDense(len(y), y)
}
