package di

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/Stannieman/DI/internal/graph"
)

// ========================================
// Core Error Values (Sentinel Errors)
// ========================================
// Typed errors below match these through errors.Is, so callers can branch
// on the failure kind without type-asserting.

var (
	// Registration errors.
	ErrTypeAlreadyRegistered = errors.New("implementation type already registered")
	ErrRequestTypeNil        = errors.New("request type cannot be nil")
	ErrImplementationTypeNil = errors.New("implementation type cannot be nil")
	ErrHandlerNil            = errors.New("handler cannot be nil")
	ErrInvalidConstructor    = errors.New("invalid constructor")
	ErrContainerNil          = errors.New("container cannot be nil")
	ErrInvalidConfiguration  = errors.New("invalid configuration")
	ErrInvalidLifetime       = errors.New("invalid lifetime")

	// Resolution errors.
	ErrMultipleImplementationTypesRegistered = errors.New("multiple implementation types registered")
	ErrNoEligibleConstructor                 = errors.New("no eligible constructor")
	ErrTypeMismatch                          = errors.New("type mismatch")
	ErrCircularDependency                    = errors.New("circular dependency")
)

// ErrorCode classifies container errors.
type ErrorCode int

const (
	// CodeUnknown is used for errors that carry no container code.
	CodeUnknown ErrorCode = iota

	// CodeTypeAlreadyRegistered is reported when an implementation type is
	// registered twice under the same key.
	CodeTypeAlreadyRegistered

	// CodeMultipleImplementationTypesRegistered is reported when a single
	// instance is requested but several registrations match.
	CodeMultipleImplementationTypesRegistered

	// CodeNoEligibleConstructor is reported when none of an implementation's
	// constructors has all of its dependencies registered.
	CodeNoEligibleConstructor

	// CodeTypeMismatch is reported when a value cannot be assigned to the
	// type it was requested as.
	CodeTypeMismatch

	// CodeInvalidRegistration is reported for malformed registration input.
	CodeInvalidRegistration

	// CodeCircularDependency is reported when constructing an implementation
	// requires an instance of itself.
	CodeCircularDependency
)

// String returns the name of the code.
func (c ErrorCode) String() string {
	switch c {
	case CodeTypeAlreadyRegistered:
		return "TypeAlreadyRegistered"
	case CodeMultipleImplementationTypesRegistered:
		return "MultipleImplementationTypesRegistered"
	case CodeNoEligibleConstructor:
		return "NoEligibleConstructor"
	case CodeTypeMismatch:
		return "TypeMismatch"
	case CodeInvalidRegistration:
		return "InvalidRegistration"
	case CodeCircularDependency:
		return "CircularDependency"
	default:
		return "Unknown"
	}
}

// CodeOf returns the ErrorCode of the first container error in err's chain.
func CodeOf(err error) ErrorCode {
	var coded interface{ Code() ErrorCode }
	if errors.As(err, &coded) {
		return coded.Code()
	}
	return CodeUnknown
}

var (
	_ error = (*TypeAlreadyRegisteredError)(nil)
	_ error = (*MultipleImplementationTypesRegisteredError)(nil)
	_ error = (*NoEligibleConstructorError)(nil)
	_ error = (*TypeMismatchError)(nil)
	_ error = (*CircularDependencyError)(nil)
	_ error = (*RegistrationError)(nil)
	_ error = (*ValidationError)(nil)
	_ error = (*ModuleError)(nil)
)

// ========================================
// Typed Errors for Rich Context
// ========================================

// TypeAlreadyRegisteredError reports a second registration of an
// implementation type under a key it is already registered with.
type TypeAlreadyRegisteredError struct {
	ImplementationType reflect.Type
	Key                string
}

func (e *TypeAlreadyRegisteredError) Error() string {
	return fmt.Sprintf("implementation type %s is already registered for key %s",
		formatType(e.ImplementationType), formatKey(e.Key))
}

func (e *TypeAlreadyRegisteredError) Is(target error) bool {
	return target == ErrTypeAlreadyRegistered
}

func (e *TypeAlreadyRegisteredError) Code() ErrorCode {
	return CodeTypeAlreadyRegistered
}

// MultipleImplementationTypesRegisteredError reports that a single instance
// was requested for a request type with more than one matching registration.
type MultipleImplementationTypesRegisteredError struct {
	RequestType reflect.Type
	Key         string
	Count       int
}

func (e *MultipleImplementationTypesRegisteredError) Error() string {
	return fmt.Sprintf("cannot get a single instance of %s (key %s): %d registrations match",
		formatType(e.RequestType), formatKey(e.Key), e.Count)
}

func (e *MultipleImplementationTypesRegisteredError) Is(target error) bool {
	return target == ErrMultipleImplementationTypesRegistered
}

func (e *MultipleImplementationTypesRegisteredError) Code() ErrorCode {
	return CodeMultipleImplementationTypesRegistered
}

// NoEligibleConstructorError reports that none of the declared constructors
// of an implementation could have all of its dependencies resolved.
type NoEligibleConstructorError struct {
	ImplementationType reflect.Type
	Constructors       []reflect.Type
}

func (e *NoEligibleConstructorError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("no eligible constructor for %s", formatType(e.ImplementationType)))

	if len(e.Constructors) > 0 {
		b.WriteString("; tried:")
		for _, ctor := range e.Constructors {
			b.WriteString("\n  • ")
			b.WriteString(ctor.String())
		}
	}

	return b.String()
}

func (e *NoEligibleConstructorError) Is(target error) bool {
	return target == ErrNoEligibleConstructor
}

func (e *NoEligibleConstructorError) Code() ErrorCode {
	return CodeNoEligibleConstructor
}

// TypeMismatchError indicates a value could not be used as the type it was
// requested or registered as.
type TypeMismatchError struct {
	Expected reflect.Type
	Actual   reflect.Type
	Context  string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Context, formatType(e.Expected), formatType(e.Actual))
}

func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

func (e *TypeMismatchError) Code() ErrorCode {
	return CodeTypeMismatch
}

// CircularDependencyError reports an implementation type that depends on
// itself, directly or through other constructions. Path lists the types
// under construction from the first occurrence of the repeated type.
type CircularDependencyError struct {
	Path []reflect.Type
}

func (e *CircularDependencyError) Error() string {
	var b strings.Builder
	b.WriteString("circular dependency detected:\n\n")
	b.WriteString(graph.Format(e.Path))
	b.WriteString("\nTo resolve this:\n")
	b.WriteString("  • Use a handler to build one side lazily\n")
	b.WriteString("  • Restructure to remove the circular relationship\n")
	return b.String()
}

func (e *CircularDependencyError) Is(target error) bool {
	return target == ErrCircularDependency
}

func (e *CircularDependencyError) Code() ErrorCode {
	return CodeCircularDependency
}

// RegistrationError wraps errors during registration.
type RegistrationError struct {
	RequestType reflect.Type
	Operation   string // "register-per-request", "register-singleton", "register-handler"
	Cause       error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Operation, formatType(e.RequestType), e.Cause)
}

func (e *RegistrationError) Unwrap() error {
	return e.Cause
}

func (e *RegistrationError) Code() ErrorCode {
	if code := CodeOf(e.Cause); code != CodeUnknown {
		return code
	}
	return CodeInvalidRegistration
}

// ValidationError indicates invalid input to the container.
type ValidationError struct {
	Type  reflect.Type
	Cause error
}

func (e *ValidationError) Error() string {
	if e.Type != nil {
		return fmt.Sprintf("%s: %v", formatType(e.Type), e.Cause)
	}
	return e.Cause.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// ModuleError wraps errors from module installation.
type ModuleError struct {
	Module string
	Cause  error
}

func (e *ModuleError) Error() string {
	return fmt.Sprintf("module %q: %v", e.Module, e.Cause)
}

func (e *ModuleError) Unwrap() error {
	return e.Cause
}

func formatKey(key string) string {
	if key == "" {
		return "<none>"
	}
	return fmt.Sprintf("%q", key)
}

// formatType formats a reflect.Type for error messages.
func formatType(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind() {
	case reflect.Pointer:
		elem := t.Elem()
		if elem.PkgPath() != "" && elem.Name() != "" {
			return "*" + elem.Name()
		}
		return t.String()
	case reflect.Slice:
		elem := t.Elem()
		if elem.PkgPath() != "" && elem.Name() != "" {
			return "[]" + elem.Name()
		}
		return t.String()
	case reflect.Func:
		return t.String()
	default:
		if t.Name() != "" {
			return t.Name()
		}
		return t.String()
	}
}
