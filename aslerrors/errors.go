// Package aslerrors defines the structured error taxonomy every other
// package in this module returns. Nothing here is opaque: callers can
// always type-assert down to the concrete failure and recover the fields
// that produced it.
package aslerrors

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Violation is a single structural defect found by the state machine
// validator, pinned to the ASL path it was found at (e.g.
// "states.Foo.retriers[1].maxAttempts").
type Violation struct {
	Path    string
	Message string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// ValidationError aggregates every violation found during Build(); the
// validator never short-circuits on the first one.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	lines := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		lines[i] = v.String()
	}
	return fmt.Sprintf("%d validation violation(s):\n%s", len(e.Violations), strings.Join(lines, "\n"))
}

// NewValidationError wraps a non-empty violation list. Callers should
// never construct a *ValidationError with zero violations.
func NewValidationError(violations []Violation) *ValidationError {
	return &ValidationError{Violations: violations}
}

// SerializationError wraps a failure to marshal or unmarshal an ASL
// document, including an unrecognized Type discriminator.
type SerializationError struct {
	Message string
	Cause   error
}

func (e *SerializationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("serialization error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("serialization error: %s", e.Message)
}

func (e *SerializationError) Unwrap() error { return e.Cause }

// NewSerializationError wraps cause with a stack trace via pkg/errors so
// that a decode failure deep inside encoding/json or yaml.v3 keeps a
// diagnosable trail back to the call site that invoked the serializer.
func NewSerializationError(message string, cause error) *SerializationError {
	if cause != nil {
		cause = errors.Wrap(cause, message)
	}
	return &SerializationError{Message: message, Cause: cause}
}

// PathMatchFailure signals a JSONPath selecting zero tokens where the
// caller required at least one (OutputPath, InputPath, Fail error/cause
// paths).
type PathMatchFailure struct {
	Path  string
	Input interface{}
}

func (e *PathMatchFailure) Error() string {
	return fmt.Sprintf("path %q matched no values in input", e.Path)
}

// ParameterPathFailure signals that a ".$" substitution inside a payload
// template could not be resolved against input or context.
type ParameterPathFailure struct {
	Path string
	// Scope is either "input" or "context", naming which value the path
	// was resolved against.
	Scope string
}

func (e *ParameterPathFailure) Error() string {
	return fmt.Sprintf("parameter path %q could not be resolved against %s", e.Path, e.Scope)
}

// ResultPathMatchFailure signals that a result cannot be merged into the
// input at the given reference path, usually a top-level type mismatch
// between the input and the skeleton synthesized from the path.
type ResultPathMatchFailure struct {
	Path   string
	Input  interface{}
	Result interface{}
}

func (e *ResultPathMatchFailure) Error() string {
	return fmt.Sprintf("result cannot be merged at resultPath %q: input and result shapes are incompatible", e.Path)
}

// IntrinsicFunctionSyntaxError signals a malformed States.Xxx(...) call
// expression: unbalanced parens, an empty identifier, or trailing input.
type IntrinsicFunctionSyntaxError struct {
	Position int
	Message  string
}

func (e *IntrinsicFunctionSyntaxError) Error() string {
	return fmt.Sprintf("intrinsic function syntax error at position %d: %s", e.Position, e.Message)
}

// IntrinsicFunctionNotFound signals a call to an unregistered function
// name.
type IntrinsicFunctionNotFound struct {
	Name string
}

func (e *IntrinsicFunctionNotFound) Error() string {
	return fmt.Sprintf("intrinsic function not found: %s", e.Name)
}

// IntrinsicFunctionArgumentError signals an arity or type mismatch on a
// specific argument of an otherwise-resolved intrinsic function call.
type IntrinsicFunctionArgumentError struct {
	Name     string
	ArgIndex int
	Reason   string
}

func (e *IntrinsicFunctionArgumentError) Error() string {
	return fmt.Sprintf("intrinsic function %s: argument %d: %s", e.Name, e.ArgIndex, e.Reason)
}

// ConditionErrorKind enumerates the ways a Condition leaf can fail to
// evaluate, as opposed to simply evaluating false.
type ConditionErrorKind string

const (
	// ConditionErrorNonNumeric is raised when a numeric comparator's
	// operand resolved to a non-number.
	ConditionErrorNonNumeric ConditionErrorKind = "non_numeric_operand"
	// ConditionErrorMalformedTimestamp is raised when a timestamp
	// comparator's operand did not parse as ISO-8601.
	ConditionErrorMalformedTimestamp ConditionErrorKind = "malformed_timestamp"
	// ConditionErrorNoMatch is raised when an ordering operator's
	// variable path resolved to zero or more than one value.
	ConditionErrorNoMatch ConditionErrorKind = "variable_not_matched"
	// ConditionErrorTypeMismatch is raised when both operands resolved
	// but to incompatible JSON types for the requested comparator.
	ConditionErrorTypeMismatch ConditionErrorKind = "type_mismatch"
)

// ConditionError signals that a Condition leaf could not be evaluated to
// true/false at all (as distinct from evaluating to false).
type ConditionError struct {
	Kind    ConditionErrorKind
	Path    string
	Message string
}

func (e *ConditionError) Error() string {
	return fmt.Sprintf("condition error (%s) at %s: %s", e.Kind, e.Path, e.Message)
}

// NoChoiceMatched is the well-known ASL error name signaled when a Choice
// state finds no matching branch and carries no Default.
const NoChoiceMatched = "States.NoChoiceMatched"

// ChoiceNotMatchedError is returned by the condition evaluator's
// choice-dispatch helper when no choice matched and no default was set.
type ChoiceNotMatchedError struct {
	StateName string
}

func (e *ChoiceNotMatchedError) Error() string {
	return fmt.Sprintf("%s: no choice matched in state %q and no Default was set", NoChoiceMatched, e.StateName)
}
