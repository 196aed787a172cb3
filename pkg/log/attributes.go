// This file contains predefined attribute keys that provide consistency
// across all logging operations in splinefit. Using these standard keys
// enables structured log analysis and filtering of fitting workflows.
//
// The attributes are organized into categories:
//   - Model and Operation Context
//   - Data Shape and Characteristics
//   - Spline Configuration
//   - Performance Metrics
//   - Error Context
//
// Keys follow a hierarchical naming convention (e.g., "model.name",
// "data.samples", "spline.degrees").

package log

// Model and Operation Context
// These attributes identify the model type, instance, and operation being performed.
const (
	// ModelNameKey identifies the type of model.
	// Examples: "BSpline", "BSplineRegressor"
	ModelNameKey = "model.name"

	// EstimatorIDKey provides a unique identifier for a specific model instance.
	// Examples: "bspline-001", UUID strings
	EstimatorIDKey = "estimator.id"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "score", "build", "eval"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	// Examples: "bspline", "regression", "dataset"
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of the fitting pipeline.
	// Examples: "training", "inference", "knot_computation", "matrix_assembly", "solve"
	PhaseKey = "ml.phase"
)

// Data Shape and Characteristics
// These attributes describe the structure of the data being processed.
const (
	// SamplesKey indicates the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// VariablesKey indicates the number of input variables (dimensions).
	VariablesKey = "data.variables"

	// DistinctValuesKey indicates the number of distinct values in one
	// dimension, which bounds the knot positions a strategy can produce.
	DistinctValuesKey = "data.distinct_values"
)

// Spline Configuration
// These attributes capture the configuration a spline is built with.
const (
	// DegreesKey records the per-dimension basis degrees.
	DegreesKey = "spline.degrees"

	// BasisFunctionsKey records the per-dimension basis function counts.
	BasisFunctionsKey = "spline.basis_functions"

	// ControlPointsKey records the total number of control points
	// (the product of the per-dimension basis function counts).
	ControlPointsKey = "spline.control_points"

	// KnotSpacingKey records the knot spacing strategy.
	// Values: "SAMPLE", "EQUIDISTANT", "EXPERIMENTAL"
	KnotSpacingKey = "spline.knot_spacing"

	// SmoothingKey records the smoothing mode.
	// Values: "NONE", "REGULARIZATION", "PSPLINE"
	SmoothingKey = "spline.smoothing"

	// AlphaKey records the smoothing strength.
	AlphaKey = "spline.alpha"
)

// Performance Metrics
// These attributes capture timing and solver diagnostics.
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// R2ScoreKey records the R² coefficient of determination for scoring.
	R2ScoreKey = "metrics.r2_score"

	// ConditionNumberKey records the condition number estimate of the
	// coefficient system, when the solver computes one.
	ConditionNumberKey = "solver.condition_number"
)

// Prediction and Output Context
const (
	// PredsKey indicates the number of predictions made.
	PredsKey = "preds.count"
)

// Error and Warning Context
// These attributes provide additional context for error and warning messages.
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	// Examples: "INVALID_CONFIG", "INSUFFICIENT_DATA", "SINGULAR_SYSTEM"
	ErrorCodeKey = "error.code"

	// ErrorTypeKey categorizes the type of error encountered.
	// Examples: "ValidationError", "DomainError"
	ErrorTypeKey = "error.type"

	// StacktraceKey contains stack trace information for debugging.
	// Automatically populated when an error value is logged.
	StacktraceKey = "error.stacktrace"
)

// Standard attribute value constants for common operations.
// Using these constants ensures consistency across the codebase.
const (
	// Standard operations
	OperationFit     = "fit"
	OperationPredict = "predict"
	OperationScore   = "score"
	OperationBuild   = "build"
	OperationEval    = "eval"

	// Standard phases
	PhaseTraining        = "training"
	PhaseValidation      = "validation"
	PhaseInference       = "inference"
	PhaseKnotComputation = "knot_computation"
	PhaseMatrixAssembly  = "matrix_assembly"
	PhaseSolve           = "solve"

	// Standard error codes
	ErrorNotFitted         = "NOT_FITTED"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorEmptyData         = "EMPTY_DATA"
	ErrorInvalidConfig     = "INVALID_CONFIG"
	ErrorInsufficientData  = "INSUFFICIENT_DATA"
	ErrorOutOfDomain       = "SAMPLE_OUT_OF_DOMAIN"
	ErrorSingularSystem    = "SINGULAR_SYSTEM"
)
