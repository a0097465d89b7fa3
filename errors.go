package thimble

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorCode uint16

const (
	ErrCodeUnknown ErrorCode = iota
	ErrCodeDuplicateBinding
	ErrCodeIllegalAnnotation
	ErrCodeUnknownScope
	ErrCodeIllegalComponent
	ErrCodeDependencyNotFound
	ErrCodeCyclicDependency
	ErrCodeResolutionFailed
	ErrCodeNotBound
	ErrCodeInvalidSource
	ErrCodeModuleApplyFailed
)

var codeNames = map[ErrorCode]string{
	ErrCodeUnknown:            "UNKNOWN",
	ErrCodeDuplicateBinding:   "DUPLICATE_BINDING",
	ErrCodeIllegalAnnotation:  "ILLEGAL_ANNOTATION",
	ErrCodeUnknownScope:       "UNKNOWN_SCOPE",
	ErrCodeIllegalComponent:   "ILLEGAL_COMPONENT",
	ErrCodeDependencyNotFound: "DEPENDENCY_NOT_FOUND",
	ErrCodeCyclicDependency:   "CYCLIC_DEPENDENCY",
	ErrCodeResolutionFailed:   "RESOLUTION_FAILED",
	ErrCodeNotBound:           "NOT_BOUND",
	ErrCodeInvalidSource:      "INVALID_SOURCE",
	ErrCodeModuleApplyFailed:  "MODULE_APPLY_FAILED",
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", c)
}

// Causes carried by ErrCodeIllegalComponent errors.
var (
	ErrAbstractType         = errors.New("abstract type cannot be constructed")
	ErrMultipleConstructors = errors.New("more than one constructor declared")
	ErrNoConstructor        = errors.New("no usable constructor")
	ErrInvalidConstructor   = errors.New("invalid constructor")
	ErrImmutableField       = errors.New("injected field is not settable")
	ErrFieldNotFound        = errors.New("injected field not found")
	ErrUnsupportedMethod    = errors.New("injected method has no fixed parameter list")
	ErrMethodNotFound       = errors.New("injected method not found")
	ErrMultipleQualifiers   = errors.New("more than one qualifier on injection point")
	ErrNotAssignable        = errors.New("implementation is not assignable to bound type")
	ErrAlreadyDescribed     = errors.New("type already described")
)

type Error struct {
	Code       ErrorCode
	Message    string
	Component  Component
	Dependency Component
	Cycle      []Component
	Cause      error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s]", e.Code))

	if e.Component.Type != nil {
		b.WriteString(fmt.Sprintf(" component=%q:", e.Component))
	}

	b.WriteString(" ")
	b.WriteString(e.Message)

	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error with the same code, so errors.Is(err, &Error{Code: c})
// finds a coded error anywhere in the chain.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e.Code == t.Code
}

func (e *Error) WithComponent(c Component) *Error {
	e.Component = c
	return e
}

func newError(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func errDuplicateBinding(c Component) *Error {
	return newError(
		ErrCodeDuplicateBinding,
		fmt.Sprintf("component %s already bound", c),
		nil,
	).WithComponent(c)
}

func errIllegalAnnotation(c Component, markers []Marker, reason string) *Error {
	names := make([]string, len(markers))
	for i, m := range markers {
		names[i] = markerString(m)
	}
	return newError(
		ErrCodeIllegalAnnotation,
		fmt.Sprintf("%s: [%s]", reason, strings.Join(names, ", ")),
		nil,
	).WithComponent(c)
}

func errUnknownScope(c Component, scope Marker) *Error {
	return newError(
		ErrCodeUnknownScope,
		fmt.Sprintf("no scope registered for %s", markerString(scope)),
		nil,
	).WithComponent(c)
}

func errIllegalComponent(c Component, cause error) *Error {
	return newError(
		ErrCodeIllegalComponent,
		fmt.Sprintf("cannot inject %s", c),
		cause,
	).WithComponent(c)
}

func errDependencyNotFound(c, dependency Component) *Error {
	e := newError(
		ErrCodeDependencyNotFound,
		fmt.Sprintf("%s depends on unbound %s", c, dependency),
		nil,
	).WithComponent(c)
	e.Dependency = dependency
	return e
}

func errCyclicDependency(cycle []Component) *Error {
	chain := make([]string, 0, len(cycle)+1)
	for _, c := range cycle {
		chain = append(chain, c.String())
	}
	if len(cycle) > 0 {
		chain = append(chain, cycle[0].String())
	}

	e := newError(
		ErrCodeCyclicDependency,
		fmt.Sprintf("cyclic dependency: %s", strings.Join(chain, " -> ")),
		nil,
	)
	if len(cycle) > 0 {
		e.Component = cycle[0]
	}
	e.Cycle = cycle
	return e
}

func errResolutionFailed(c Component, cause error) *Error {
	return newError(
		ErrCodeResolutionFailed,
		fmt.Sprintf("failed to resolve %s", c),
		cause,
	).WithComponent(c)
}

func errNotBound(c Component) *Error {
	return newError(
		ErrCodeNotBound,
		fmt.Sprintf("no binding for %s", c),
		nil,
	).WithComponent(c)
}

func errInvalidSource(message string, cause error) *Error {
	return newError(ErrCodeInvalidSource, message, cause)
}

func errModuleApplyFailed(moduleName string, cause error) *Error {
	return newError(
		ErrCodeModuleApplyFailed,
		"failed to apply module "+moduleName,
		cause,
	)
}

func hasCode(err error, code ErrorCode) bool {
	return errors.Is(err, &Error{Code: code})
}

func IsDuplicateBinding(err error) bool {
	return hasCode(err, ErrCodeDuplicateBinding)
}

func IsIllegalAnnotation(err error) bool {
	return hasCode(err, ErrCodeIllegalAnnotation)
}

func IsUnknownScope(err error) bool {
	return hasCode(err, ErrCodeUnknownScope)
}

func IsIllegalComponent(err error) bool {
	return hasCode(err, ErrCodeIllegalComponent)
}

func IsDependencyNotFound(err error) bool {
	return hasCode(err, ErrCodeDependencyNotFound)
}

func IsCyclicDependency(err error) bool {
	return hasCode(err, ErrCodeCyclicDependency)
}

func IsResolutionFailed(err error) bool {
	return hasCode(err, ErrCodeResolutionFailed)
}

func IsNotBound(err error) bool {
	return hasCode(err, ErrCodeNotBound)
}

func IsInvalidSource(err error) bool {
	return hasCode(err, ErrCodeInvalidSource)
}

func IsModuleApplyFailed(err error) bool {
	return hasCode(err, ErrCodeModuleApplyFailed)
}
