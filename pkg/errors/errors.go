// Package errors provides error handling and warning utilities shared across
// the splinefit library. It is inspired by scikit-learn's warning and
// exception system and produces structured errors that carry enough context
// to diagnose a failed fit without re-running it.
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	Global warning handling
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// Default handler logs to standard error.
		log.Printf("splinefit: warning: %v\n", w)
	}
	// zerolog hook, registered lazily to avoid a circular import with pkg/log.
	zerologWarnFunc func(warning error)
)

// SetWarningHandler sets the warning handler for the whole library.
// It controls how non-fatal diagnostics such as IllConditionedWarning are
// processed.
//
// Example:
//
//	errors.SetWarningHandler(func(w error) {
//	    // drop all warnings
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc registers a zerolog-backed warning sink. pkg/log calls
// this during initialization so warnings flow into the structured logger.
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn emits a warning. When a zerolog sink is registered it takes
// precedence; otherwise the plain handler is used.
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	Warning types
//
// ===========================================================================

// IllConditionedWarning is emitted when a linear system solves successfully
// but its condition number suggests the solution may be inaccurate.
type IllConditionedWarning struct {
	Op              string
	ConditionNumber float64
	Threshold       float64
}

func (w *IllConditionedWarning) Error() string {
	return fmt.Sprintf("%s: system is ill-conditioned (condition number %.4g exceeds %.4g). Results may be inaccurate; consider regularization.",
		w.Op, w.ConditionNumber, w.Threshold)
}

// MarshalZerologObject adds structured warning information to a zerolog event.
func (w *IllConditionedWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("operation", w.Op).
		Float64("condition_number", w.ConditionNumber).
		Float64("threshold", w.Threshold).
		Str("type", "IllConditionedWarning")
}

// NewIllConditionedWarning creates a new IllConditionedWarning.
func NewIllConditionedWarning(op string, cond, threshold float64) *IllConditionedWarning {
	return &IllConditionedWarning{Op: op, ConditionNumber: cond, Threshold: threshold}
}

// UndefinedMetricWarning is emitted when an evaluation metric is not defined
// for the given inputs, for example R² on a constant target.
type UndefinedMetricWarning struct {
	Metric    string
	Condition string
	Result    float64 // value returned under this condition
}

func (w *UndefinedMetricWarning) Error() string {
	return fmt.Sprintf("'%s' is ill-defined and being set to %f due to %s.", w.Metric, w.Result, w.Condition)
}

// NewUndefinedMetricWarning creates a new UndefinedMetricWarning.
func NewUndefinedMetricWarning(metric, condition string, result float64) *UndefinedMetricWarning {
	return &UndefinedMetricWarning{Metric: metric, Condition: condition, Result: result}
}

// ===========================================================================
//
//	Structured error types
//
// ===========================================================================

// NotFittedError is returned when Predict, Score or a similar method is
// called on an estimator before Fit.
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("splinefit: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a new NotFittedError with a stack trace attached.
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// DimensionError is returned when input data has an unexpected shape.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/variables
}

func (e *DimensionError) Error() string {
	axisName := "variables"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("splinefit: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "variables"
	if e.Axis == 0 {
		axisName = "rows"
	}
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName).
		Str("type", "DimensionError")
}

// NewDimensionError creates a new DimensionError with a stack trace attached.
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValidationError is returned when a configuration parameter fails
// validation, for example a negative smoothing strength or a spline degree
// outside the supported range.
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("splinefit: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError creates a new ValidationError with a stack trace attached.
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// InsufficientDataError is returned when a knot vector cannot be constructed
// because a dimension does not contain enough distinct sample values for the
// requested degree and basis size.
type InsufficientDataError struct {
	Op        string
	Dimension int
	Distinct  int
	Required  int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("splinefit: %s: dimension %d has %d distinct sample values, need at least %d", e.Op, e.Dimension, e.Distinct, e.Required)
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *InsufficientDataError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("dimension", e.Dimension).
		Int("distinct", e.Distinct).
		Int("required", e.Required).
		Str("type", "InsufficientDataError")
}

// NewInsufficientDataError creates a new InsufficientDataError with a stack
// trace attached.
func NewInsufficientDataError(op string, dimension, distinct, required int) error {
	err := &InsufficientDataError{Op: op, Dimension: dimension, Distinct: distinct, Required: required}
	return errors.WithStack(err)
}

// DomainError is returned when a point lies outside the domain spanned by a
// spline's knot vectors, either while assembling the design matrix or when
// evaluating a fitted spline.
type DomainError struct {
	Op        string
	Dimension int
	Value     float64
	Min       float64
	Max       float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("splinefit: %s: value %g in dimension %d is outside the domain [%g, %g]", e.Op, e.Value, e.Dimension, e.Min, e.Max)
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *DomainError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("dimension", e.Dimension).
		Float64("value", e.Value).
		Float64("min", e.Min).
		Float64("max", e.Max).
		Str("type", "DomainError")
}

// NewDomainError creates a new DomainError with a stack trace attached.
func NewDomainError(op string, dimension int, value, min, max float64) error {
	err := &DomainError{Op: op, Dimension: dimension, Value: value, Min: min, Max: max}
	return errors.WithStack(err)
}

// SingularSystemError is returned when the normal equation system of a fit is
// singular or too ill-conditioned to solve. It usually means the basis is too
// rich for the data; fewer basis functions or a smoothing penalty helps.
type SingularSystemError struct {
	Op   string
	Size int
	Err  error
}

func (e *SingularSystemError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("splinefit: %s: %dx%d coefficient system is singular or near-singular: %v", e.Op, e.Size, e.Size, e.Err)
	}
	return fmt.Sprintf("splinefit: %s: %dx%d coefficient system is singular or near-singular", e.Op, e.Size, e.Size)
}

func (e *SingularSystemError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *SingularSystemError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("size", e.Size).
		Str("type", "SingularSystemError")
	if e.Err != nil {
		event.AnErr("cause", e.Err)
	}
}

// NewSingularSystemError creates a new SingularSystemError with a stack trace
// attached.
func NewSingularSystemError(op string, size int, err error) error {
	sysErr := &SingularSystemError{Op: op, Size: size, Err: err}
	return errors.WithStack(sysErr)
}

// ValueError is returned when an argument value is invalid or out of range.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("splinefit: %s: %s", e.Op, e.Message)
}

// NewValueError creates a new ValueError with a stack trace attached.
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ModelError is a general error raised by an estimator or builder.
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("splinefit: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("splinefit: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError creates a new ModelError with a stack trace attached.
func NewModelError(op, kind string, err error) error {
	modelErr := &ModelError{Op: op, Kind: kind, Err: err}
	return errors.WithStack(modelErr)
}

// NumericalInstabilityError is returned when a computation produces NaN or
// Inf values, for example an overflow while accumulating normal equations.
type NumericalInstabilityError struct {
	Operation string                 // operation that produced the values
	Values    []float64              // offending values
	Context   map[string]interface{} // additional debugging context
	Iteration int                    // sample or iteration index, when meaningful
}

func (e *NumericalInstabilityError) Error() string {
	valStr := ""
	for i, v := range e.Values {
		if i > 0 {
			valStr += ", "
		}
		if i >= 5 {
			valStr += "..."
			break
		}
		valStr += fmt.Sprintf("%.6g", v)
	}
	return fmt.Sprintf("splinefit: numerical instability detected in %s at index %d. Values: [%s]",
		e.Operation, e.Iteration, valStr)
}

// NewNumericalInstabilityError creates a new NumericalInstabilityError.
func NewNumericalInstabilityError(operation string, values []float64, iteration int) error {
	err := &NumericalInstabilityError{
		Operation: operation,
		Values:    values,
		Iteration: iteration,
		Context:   make(map[string]interface{}),
	}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether err matches the target error.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in the chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an existing error with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf wraps an existing error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error with a stack trace.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error with a stack trace.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack annotates an error with a stack trace.
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Sentinel errors
//
// ===========================================================================

var (
	// ErrNotImplemented is returned for features that are not implemented.
	ErrNotImplemented = New("not implemented")

	// ErrEmptyData is returned when empty data is passed to an operation.
	ErrEmptyData = New("empty data")
)
