package core

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors
var (
	ErrContractViolation = errors.New("contract violation")
	ErrUnsupportedShape  = errors.New("unsupported shape")
	ErrArgumentViolation = errors.New("argument contract violation")
	ErrReturnViolation   = errors.New("return contract violation")
	ErrReceiverViolation = errors.New("receiver contract violation")
	ErrArityViolation    = errors.New("arity contract violation")
	ErrBinding           = errors.New("argument binding failed")
	ErrInvalidConfig     = errors.New("invalid configuration")
)

// ErrorType categorizes contract errors.
type ErrorType string

const (
	// ErrorTypeShape indicates a shape description that cannot be compiled
	ErrorTypeShape ErrorType = "shape"

	// ErrorTypeArgument indicates an argument that failed its validator
	ErrorTypeArgument ErrorType = "argument"

	// ErrorTypeReturn indicates a result that failed the return validator
	ErrorTypeReturn ErrorType = "return"

	// ErrorTypeReceiver indicates a method receiver of the wrong type
	ErrorTypeReceiver ErrorType = "receiver"

	// ErrorTypeArity indicates a validated callable invoked with the wrong argument count
	ErrorTypeArity ErrorType = "arity"

	// ErrorTypeBinding indicates call arguments that do not fit the declared parameters
	ErrorTypeBinding ErrorType = "binding"
)

var errorCodes = map[ErrorType]string{
	ErrorTypeShape:    "UNSUPPORTED_SHAPE",
	ErrorTypeArgument: "ARGUMENT_VIOLATION",
	ErrorTypeReturn:   "RETURN_VIOLATION",
	ErrorTypeReceiver: "RECEIVER_VIOLATION",
	ErrorTypeArity:    "ARITY_VIOLATION",
	ErrorTypeBinding:  "BINDING_FAILED",
}

// ContractError is the error returned (or panicked with, for typed
// wrappers without an error result) when a contract check fails.
type ContractError struct {
	// Type categorizes the error
	Type ErrorType

	// Code is a machine-readable error code
	Code string

	// Function names the wrapped function
	Function string

	// Param labels the checked value ("x", "items on *items", "return value", "2nd argument of cb")
	Param string

	// Expected describes the expected shape
	Expected string

	// Observed describes the runtime type that was found
	Observed string

	// Detail is a custom diagnostic supplied by the validator, if any.
	// A '?' is replaced by Param when the message is rendered; without one
	// Param is rendered as a prefix.
	Detail string

	// Cause is the underlying error, if any
	Cause error
}

// NewContractError creates a contract error of the given type.
func NewContractError(errType ErrorType, function, param string) *ContractError {
	return &ContractError{
		Type:     errType,
		Code:     errorCodes[errType],
		Function: function,
		Param:    param,
	}
}

// NewViolation builds the error for a value that failed a check in ctx.
func NewViolation(ctx ValidationContext, expected, observed, detail string) *ContractError {
	e := NewContractError(ctx.violationType(), ctx.Function, ctx.Param)
	e.Expected = expected
	e.Observed = observed
	e.Detail = detail
	return e
}

// Message renders the diagnostic without the function prefix.
func (e *ContractError) Message() string {
	if e.Detail != "" {
		label := e.Param
		if label == "" {
			label = "value"
		}
		return strings.ReplaceAll(e.Detail, "?", label)
	}
	if e.Expected != "" {
		msg := "expected " + e.Expected
		if e.Observed != "" {
			msg += ", got " + e.Observed
		}
		return msg
	}
	return string(e.Type) + " check failed"
}

// Error implements the error interface.
func (e *ContractError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Function != "" {
		parts = append(parts, fmt.Sprintf("function %q", e.Function))
	}

	if e.Param != "" && !strings.Contains(e.Detail, "?") {
		parts = append(parts, e.Param)
	}

	parts = append(parts, e.Message())

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("caused by: %v", e.Cause))
	}

	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying error.
func (e *ContractError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches a target error.
func (e *ContractError) Is(target error) bool {
	if target == nil {
		return false
	}

	switch target {
	case ErrContractViolation:
		return e.Type != ErrorTypeShape && e.Type != ErrorTypeBinding
	case ErrUnsupportedShape:
		return e.Type == ErrorTypeShape
	case ErrArgumentViolation:
		return e.Type == ErrorTypeArgument
	case ErrReturnViolation:
		return e.Type == ErrorTypeReturn
	case ErrReceiverViolation:
		return e.Type == ErrorTypeReceiver
	case ErrArityViolation:
		return e.Type == ErrorTypeArity
	case ErrBinding:
		return e.Type == ErrorTypeBinding
	}

	if targetErr, ok := target.(*ContractError); ok {
		return e.Type == targetErr.Type && e.Code == targetErr.Code
	}

	return false
}

// WithDetail sets the custom diagnostic.
func (e *ContractError) WithDetail(format string, args ...any) *ContractError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// WithCause adds an underlying cause to the error.
func (e *ContractError) WithCause(cause error) *ContractError {
	e.Cause = cause
	return e
}

// ShapeError reports a shape description that cannot be compiled.
func ShapeError(format string, args ...any) *ContractError {
	return NewContractError(ErrorTypeShape, "", "").WithDetail(format, args...)
}

// ConfigError represents configuration-related errors
type ConfigError struct {
	Field string
	Value any
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in field %s (value: %v): %v", e.Field, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrInvalidConfig.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}
