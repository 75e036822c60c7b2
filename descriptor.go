package di

import (
	"fmt"
	"reflect"

	"github.com/Stannieman/DI/internal/reflection"
)

// Implementation describes a concrete type and the constructors the
// container may use to build it. Constructors are functions returning the
// implementation type, optionally followed by an error:
//
//	di.Implement[*SQLStore](NewSQLStore, NewSQLStoreWithCache)
//
// Their order matters: when several constructors have the same number of
// resolvable dependencies, the first one wins. An Implementation without
// constructors is built from its zero value; for a pointer-to-struct type
// that is a freshly allocated struct.
type Implementation struct {
	Type         reflect.Type
	Constructors []any
}

// ImplementationOf describes implementation type t built by constructors.
func ImplementationOf(t reflect.Type, constructors ...any) Implementation {
	return Implementation{Type: t, Constructors: constructors}
}

// Implement describes implementation type T built by constructors.
func Implement[T any](constructors ...any) Implementation {
	return ImplementationOf(TypeOf[T](), constructors...)
}

// descriptor is an analyzed Implementation.
type descriptor struct {
	implementationType reflect.Type
	constructors       []*reflection.Constructor
}

// newDescriptor validates impl and analyzes its constructors.
func newDescriptor(impl Implementation, analyzer *reflection.Analyzer) (*descriptor, error) {
	if impl.Type == nil {
		return nil, &ValidationError{Cause: ErrImplementationTypeNil}
	}

	d := &descriptor{
		implementationType: impl.Type,
		constructors:       make([]*reflection.Constructor, 0, len(impl.Constructors)),
	}

	for i, fn := range impl.Constructors {
		ctor, err := analyzer.Analyze(fn)
		if err != nil {
			return nil, &ValidationError{
				Type:  impl.Type,
				Cause: fmt.Errorf("%w %d: %w", ErrInvalidConstructor, i, err),
			}
		}

		if !ctor.Returns.AssignableTo(impl.Type) {
			return nil, &TypeMismatchError{
				Expected: impl.Type,
				Actual:   ctor.Returns,
				Context:  fmt.Sprintf("constructor %d return type", i),
			}
		}

		d.constructors = append(d.constructors, ctor)
	}

	if len(d.constructors) == 0 {
		if _, ok := d.defaultInstance(); !ok {
			return nil, &ValidationError{
				Type:  impl.Type,
				Cause: fmt.Errorf("%w: a %s implementation needs a constructor", ErrInvalidConstructor, impl.Type.Kind()),
			}
		}
	}

	return d, nil
}

// constructorTypes lists the declared constructor signatures.
func (d *descriptor) constructorTypes() []reflect.Type {
	types := make([]reflect.Type, len(d.constructors))
	for i, ctor := range d.constructors {
		types[i] = ctor.Type
	}
	return types
}

// defaultInstance builds the implementation without a constructor. Pointer
// to struct types get a new zero struct, other value kinds their zero value.
// Kinds with no usable zero value (interfaces, funcs, channels, maps) report
// false.
func (d *descriptor) defaultInstance() (reflect.Value, bool) {
	t := d.implementationType

	switch t.Kind() {
	case reflect.Pointer:
		if t.Elem().Kind() == reflect.Struct {
			return reflect.New(t.Elem()), true
		}
		return reflect.Value{}, false
	case reflect.Interface, reflect.Func, reflect.Chan, reflect.Map, reflect.UnsafePointer:
		return reflect.Value{}, false
	default:
		return reflect.New(t).Elem(), true
	}
}
