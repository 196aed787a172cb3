package bspline

import (
	"fmt"
	"math"
	"time"

	"github.com/ezoic/splinefit/dataset"
	"github.com/ezoic/splinefit/pkg/errors"
	"github.com/ezoic/splinefit/pkg/log"
)

const (
	// DefaultDegree is the basis degree applied to every dimension until
	// overridden.
	DefaultDegree = 3
	// MaxDegree is the largest supported basis degree.
	MaxDegree = 5
)

func validateDegree(degree int) error {
	if degree < 0 || degree > MaxDegree {
		return errors.NewValidationError("degree",
			fmt.Sprintf("must be in range [0, %d]", MaxDegree), degree)
	}
	return nil
}

// Builder assembles a BSpline from the samples in a dataset.Table. Setters
// validate eagerly and record the first failure; later calls on a failed
// builder are no-ops so chains stay fluent, and Build reports the recorded
// error without touching the data.
//
// The zero configuration fits an interpolating spline: degree 3 in every
// dimension, one basis function per distinct sample value, SAMPLE knot
// spacing and no smoothing.
type Builder struct {
	data      *dataset.Table
	degrees   []int
	numBasis  []int
	spacing   KnotSpacing
	smoothing Smoothing
	alpha     float64
	solver    symSolver
	logger    log.Logger
	err       error
}

// NewBuilder creates a builder over data with the default configuration.
// The table is read, never modified; Build uses its contents at call time.
func NewBuilder(data *dataset.Table) *Builder {
	b := &Builder{
		spacing:   KnotSpacingSample,
		smoothing: SmoothingNone,
		solver:    choleskySolver{},
		logger:    log.GetLoggerWithName("bspline"),
	}
	if data == nil {
		b.err = errors.NewValueError("bspline.NewBuilder", "data table must not be nil")
		return b
	}
	b.data = data
	b.degrees = make([]int, data.NumVariables())
	for d := range b.degrees {
		b.degrees[d] = DefaultDegree
	}
	return b
}

// Alpha sets the smoothing strength used by the REGULARIZATION and PSPLINE
// modes. It must be finite and non-negative.
func (b *Builder) Alpha(alpha float64) *Builder {
	if b.err != nil {
		return b
	}
	if alpha < 0 || math.IsNaN(alpha) || math.IsInf(alpha, 0) {
		b.err = errors.NewValidationError("alpha", "must be non-negative", alpha)
		return b
	}
	b.alpha = alpha
	return b
}

// Degree sets one basis degree for every input dimension.
func (b *Builder) Degree(degree int) *Builder {
	if b.err != nil {
		return b
	}
	if err := validateDegree(degree); err != nil {
		b.err = err
		return b
	}
	for d := range b.degrees {
		b.degrees[d] = degree
	}
	return b
}

// Degrees sets a per-dimension basis degree. The slice length must match
// the table's variable count.
func (b *Builder) Degrees(degrees []int) *Builder {
	if b.err != nil {
		return b
	}
	if len(degrees) != len(b.degrees) {
		b.err = errors.NewValidationError("degrees",
			fmt.Sprintf("must have one entry per variable (%d)", len(b.degrees)), len(degrees))
		return b
	}
	for _, d := range degrees {
		if err := validateDegree(d); err != nil {
			b.err = err
			return b
		}
	}
	copy(b.degrees, degrees)
	return b
}

// NumBasisFunctions sets one basis-function count for every dimension. The
// count must cover the degree; that cross-check runs at Build so setter
// order does not matter. The EXPERIMENTAL strategy derives its own counts
// and ignores the request.
func (b *Builder) NumBasisFunctions(n int) *Builder {
	if b.err != nil {
		return b
	}
	if n < 1 {
		b.err = errors.NewValidationError("numBasisFunctions", "must be positive", n)
		return b
	}
	b.numBasis = make([]int, len(b.degrees))
	for d := range b.numBasis {
		b.numBasis[d] = n
	}
	return b
}

// NumBasisFunctionsVector sets a per-dimension basis-function count.
func (b *Builder) NumBasisFunctionsVector(ns []int) *Builder {
	if b.err != nil {
		return b
	}
	if len(ns) != len(b.degrees) {
		b.err = errors.NewValidationError("numBasisFunctions",
			fmt.Sprintf("must have one entry per variable (%d)", len(b.degrees)), len(ns))
		return b
	}
	for _, n := range ns {
		if n < 1 {
			b.err = errors.NewValidationError("numBasisFunctions", "must be positive", n)
			return b
		}
	}
	b.numBasis = make([]int, len(ns))
	copy(b.numBasis, ns)
	return b
}

// KnotSpacing selects the knot placement strategy.
func (b *Builder) KnotSpacing(spacing KnotSpacing) *Builder {
	if b.err != nil {
		return b
	}
	if !spacing.Valid() {
		b.err = errors.NewValidationError("knotSpacing", "unknown knot spacing strategy", spacing)
		return b
	}
	b.spacing = spacing
	return b
}

// Smoothing selects the coefficient smoothing mode.
func (b *Builder) Smoothing(smoothing Smoothing) *Builder {
	if b.err != nil {
		return b
	}
	if !smoothing.Valid() {
		b.err = errors.NewValidationError("smoothing", "unknown smoothing mode", smoothing)
		return b
	}
	b.smoothing = smoothing
	return b
}

// Err returns the first configuration error recorded by the chain, if any.
func (b *Builder) Err() error {
	return b.err
}

// Build runs the fitting pipeline: a clamped knot vector per dimension, the
// sparse design matrix over the tensor-product basis, and the
// normal-equation solve selected by the smoothing mode. The builder stays
// reusable afterwards; the returned spline owns independent copies of all
// fitted state.
func (b *Builder) Build() (spline *BSpline, err error) {
	defer errors.Recover(&err, "Builder.Build")
	const op = "Builder.Build"

	if b.err != nil {
		return nil, b.err
	}
	if b.data.Len() == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, op)
	}

	start := time.Now()
	numVars := b.data.NumVariables()
	b.logger.Info("Build started",
		log.OperationKey, log.OperationBuild,
		log.SamplesKey, b.data.Len(),
		log.VariablesKey, numVars,
		log.DegreesKey, b.degrees,
		log.KnotSpacingKey, b.spacing,
		log.SmoothingKey, b.smoothing,
		log.AlphaKey, b.alpha,
	)

	numBasis := make([]int, numVars)
	knots := make([][]float64, numVars)
	for d := 0; d < numVars; d++ {
		unique := extractUniqueSorted(b.data.Column(d))

		// The default request seats one basis function per distinct value,
		// which yields an interpolating basis under SAMPLE spacing.
		requested := len(unique)
		if b.numBasis != nil {
			requested = b.numBasis[d]
			if requested < b.degrees[d]+1 {
				return nil, errors.NewValidationError("numBasisFunctions",
					"must be at least degree+1", requested)
			}
		}

		kv, effective, err := computeKnotVector(op, unique, b.degrees[d], requested, d, b.spacing)
		if err != nil {
			b.logger.Error("Knot computation failed", err,
				log.PhaseKey, log.PhaseKnotComputation,
				log.VariablesKey, d,
				log.DistinctValuesKey, len(unique),
			)
			return nil, err
		}
		knots[d] = kv
		numBasis[d] = effective
		b.logger.Debug("Knot vector computed",
			log.PhaseKey, log.PhaseKnotComputation,
			log.VariablesKey, d,
			log.DistinctValuesKey, len(unique),
			log.BasisFunctionsKey, effective,
		)
	}

	basis, err := newTensorBasis(b.degrees, knots)
	if err != nil {
		return nil, err
	}

	rows, err := assembleDesignMatrix(op, b.data, basis)
	if err != nil {
		b.logger.Error("Design matrix assembly failed", err,
			log.PhaseKey, log.PhaseMatrixAssembly,
		)
		return nil, err
	}

	coeffs, err := solveCoefficients(op, rows, targetVector(b.data), numBasis, b.smoothing, b.alpha, b.solver)
	if err != nil {
		b.logger.Error("Coefficient solve failed", err,
			log.PhaseKey, log.PhaseSolve,
			log.ControlPointsKey, basis.numControlPoints(),
		)
		return nil, err
	}

	spline, err = New(b.degrees, knots, coeffs)
	if err != nil {
		return nil, err
	}
	b.logger.Info("Build completed",
		log.OperationKey, log.OperationBuild,
		log.BasisFunctionsKey, numBasis,
		log.ControlPointsKey, spline.NumControlPoints(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return spline, nil
}
