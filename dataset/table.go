// Package dataset provides the sample table consumed by the spline builder.
//
// A Table collects scattered observations mapping a point in R^n to a single
// observed value. It performs shape and finiteness validation on insertion so
// downstream knot computation and matrix assembly can assume well-formed
// samples.
package dataset

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/splinefit/pkg/errors"
)

// Table is an in-memory collection of samples with a fixed number of input
// variables. Samples are kept in insertion order; the fitting pipeline never
// depends on them being sorted.
type Table struct {
	numVariables int
	x            []float64 // row-major, len(x) == numVariables * len(y)
	y            []float64
}

// NewTable creates an empty table for samples with the given number of input
// variables.
func NewTable(numVariables int) (*Table, error) {
	if numVariables < 1 {
		return nil, errors.NewValidationError("numVariables", "must be at least 1", numVariables)
	}
	return &Table{numVariables: numVariables}, nil
}

// AddSample appends one observation. The point x must have exactly
// NumVariables entries and both x and y must be finite.
func (t *Table) AddSample(x []float64, y float64) error {
	if len(x) != t.numVariables {
		return errors.NewDimensionError("Table.AddSample", t.numVariables, len(x), 1)
	}
	if err := errors.CheckNumericalStability("Table.AddSample", x, len(t.y)); err != nil {
		return err
	}
	if err := errors.CheckScalar("Table.AddSample", y, len(t.y)); err != nil {
		return err
	}

	t.x = append(t.x, x...)
	t.y = append(t.y, y)
	return nil
}

// Len returns the number of samples in the table.
func (t *Table) Len() int {
	return len(t.y)
}

// NumVariables returns the number of input variables per sample.
func (t *Table) NumVariables() int {
	return t.numVariables
}

// Sample returns a copy of the i-th sample point. It panics if i is out of
// range.
func (t *Table) Sample(i int) []float64 {
	row := make([]float64, t.numVariables)
	copy(row, t.x[i*t.numVariables:(i+1)*t.numVariables])
	return row
}

// Y returns the observed value of the i-th sample. It panics if i is out of
// range.
func (t *Table) Y(i int) float64 {
	return t.y[i]
}

// Column returns a copy of all sample values along one input dimension.
// It panics if dim is out of range.
func (t *Table) Column(dim int) []float64 {
	if dim < 0 || dim >= t.numVariables {
		panic(errors.Newf("dataset: column index %d out of range [0, %d)", dim, t.numVariables))
	}
	col := make([]float64, len(t.y))
	for i := range t.y {
		col[i] = t.x[i*t.numVariables+dim]
	}
	return col
}

// Range returns the minimum and maximum sample value along one input
// dimension.
func (t *Table) Range(dim int) (min, max float64, err error) {
	if len(t.y) == 0 {
		return 0, 0, errors.Wrap(errors.ErrEmptyData, "Table.Range")
	}
	if dim < 0 || dim >= t.numVariables {
		return 0, 0, errors.NewValueError("Table.Range", "dimension index out of range")
	}

	col := t.Column(dim)
	return floats.Min(col), floats.Max(col), nil
}

// FromMatrix builds a table from a gonum design matrix X (one sample per
// row) and a column vector y of observed values.
func FromMatrix(X, y mat.Matrix) (*Table, error) {
	xRows, xCols := X.Dims()
	yRows, yCols := y.Dims()

	if xRows == 0 || xCols == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "dataset.FromMatrix")
	}
	if yCols != 1 {
		return nil, errors.NewDimensionError("dataset.FromMatrix", 1, yCols, 1)
	}
	if yRows != xRows {
		return nil, errors.NewDimensionError("dataset.FromMatrix", xRows, yRows, 0)
	}

	table, err := NewTable(xCols)
	if err != nil {
		return nil, err
	}

	row := make([]float64, xCols)
	for i := 0; i < xRows; i++ {
		for j := 0; j < xCols; j++ {
			row[j] = X.At(i, j)
		}
		if err := table.AddSample(row, y.At(i, 0)); err != nil {
			return nil, err
		}
	}
	return table, nil
}
