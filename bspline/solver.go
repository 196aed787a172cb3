package bspline

import (
	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/splinefit/pkg/errors"
)

// condWarnThreshold is the condition-number estimate beyond which the solve
// still succeeds but emits an IllConditionedWarning.
const condWarnThreshold = 1e8

// symSolver solves the symmetric positive definite normal system a·x = b.
// A separate capability keeps the numeric backend swappable in tests.
type symSolver interface {
	solveSym(op string, a *mat.SymDense, b *mat.VecDense) ([]float64, error)
}

// choleskySolver backs the solve with gonum's Cholesky factorization, which
// rejects systems that are not positive definite and reports the condition
// number of those that are.
type choleskySolver struct{}

func (choleskySolver) solveSym(op string, a *mat.SymDense, b *mat.VecDense) ([]float64, error) {
	n, _ := a.Dims()
	var chol mat.Cholesky
	if ok := chol.Factorize(a); !ok {
		return nil, errors.NewSingularSystemError(op, n,
			errors.New("normal matrix is not positive definite"))
	}

	if cond := chol.Cond(); cond > condWarnThreshold {
		errors.Warn(errors.NewIllConditionedWarning(op, cond, condWarnThreshold))
	}

	var x mat.VecDense
	if err := chol.SolveVecTo(&x, b); err != nil {
		return nil, errors.NewSingularSystemError(op, n, err)
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = x.AtVec(i)
	}
	return out, nil
}

// solveCoefficients forms the normal equations from the sparse design rows
// and solves for the control points under the selected smoothing mode:
// (AᵀA)c = Aᵀy for NONE, (AᵀA + alpha·I)c = Aᵀy for REGULARIZATION and
// (AᵀA + alpha·DᵀD)c = Aᵀy for PSPLINE, where D stacks second differences
// over the control lattice.
func solveCoefficients(op string, rows []sparseRow, y *mat.VecDense, basisCounts []int, mode Smoothing, alpha float64, solver symSolver) ([]float64, error) {
	grid := newLattice(basisCounts)
	numCols := grid.size

	ata := mat.NewSymDense(numCols, nil)
	aty := mat.NewVecDense(numCols, nil)
	for r, row := range rows {
		obs := y.AtVec(r)
		for a, ia := range row.indices {
			va := row.values[a]
			aty.SetVec(ia, aty.AtVec(ia)+va*obs)
			for b := a; b < len(row.indices); b++ {
				ib := row.indices[b]
				ata.SetSym(ia, ib, ata.At(ia, ib)+va*row.values[b])
			}
		}
	}

	switch mode {
	case SmoothingRegularization:
		for i := 0; i < numCols; i++ {
			ata.SetSym(i, i, ata.At(i, i)+alpha)
		}
	case SmoothingPSpline:
		addDifferencePenalty(ata, grid, alpha)
	}

	if err := errors.CheckMatrix(op, ata, numCols, numCols, 0); err != nil {
		return nil, errors.NewSingularSystemError(op, numCols, err)
	}

	coeffs, err := solver.solveSym(op, ata, aty)
	if err != nil {
		return nil, err
	}
	if err := errors.CheckNumericalStability(op, coeffs, 0); err != nil {
		return nil, errors.NewSingularSystemError(op, numCols, err)
	}
	return coeffs, nil
}

// addDifferencePenalty accumulates alpha·DᵀD into ata, where D has one row
// per interior lattice position and dimension, encoding the second
// difference c[i-stride] - 2c[i] + c[i+stride] of neighboring control
// points. Positions too close to a boundary for a centered difference
// contribute no row, and dimensions with fewer than three control points
// are skipped entirely.
func addDifferencePenalty(ata *mat.SymDense, grid lattice, alpha float64) {
	stencil := [3]float64{1, -2, 1}
	for d := range grid.dims {
		if grid.dims[d] < 3 {
			continue
		}
		stride := grid.strides[d]
		for flat := 0; flat < grid.size; flat++ {
			i := grid.coord(flat, d)
			if i < 1 || i > grid.dims[d]-2 {
				continue
			}
			cols := [3]int{flat - stride, flat, flat + stride}
			for a := 0; a < 3; a++ {
				for b := a; b < 3; b++ {
					ata.SetSym(cols[a], cols[b],
						ata.At(cols[a], cols[b])+alpha*stencil[a]*stencil[b])
				}
			}
		}
	}
}
