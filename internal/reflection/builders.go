package reflection

import (
	"fmt"
	"reflect"
)

// DependencyResolver resolves a single dependency to a value assignable to
// the requested type. An invalid (zero) reflect.Value means "leave empty".
type DependencyResolver interface {
	ResolveValue(t reflect.Type, key string) (reflect.Value, error)
}

// Invoke calls a constructor with resolved dependencies. An error returned
// by the constructor itself is passed through unchanged.
func Invoke(ctor *Constructor, resolver DependencyResolver) (reflect.Value, error) {
	if ctor == nil {
		return reflect.Value{}, fmt.Errorf("constructor cannot be nil")
	}

	args, err := buildArguments(ctor, resolver)
	if err != nil {
		return reflect.Value{}, err
	}

	results := ctor.Value.Call(args)

	if ctor.HasErrorReturn {
		if errVal := results[1]; !errVal.IsNil() {
			return reflect.Value{}, errVal.Interface().(error)
		}
	}

	return results[0], nil
}

// buildArguments builds the argument list for a constructor.
func buildArguments(ctor *Constructor, resolver DependencyResolver) ([]reflect.Value, error) {
	if ctor.IsParamObject {
		param, err := buildParamObject(ctor.paramType, ctor.Dependencies, resolver)
		if err != nil {
			return nil, err
		}
		return []reflect.Value{param}, nil
	}

	args := make([]reflect.Value, len(ctor.Dependencies))
	for i, dep := range ctor.Dependencies {
		value, err := resolver.ResolveValue(dep.Type, dep.Key)
		if err != nil {
			return nil, err
		}

		if !value.IsValid() {
			value = reflect.Zero(dep.Type)
		}

		args[i] = value
	}

	return args, nil
}

// buildParamObject creates and populates an In struct with resolved dependencies.
func buildParamObject(paramType reflect.Type, deps []Dependency, resolver DependencyResolver) (reflect.Value, error) {
	structType := paramType
	if structType.Kind() == reflect.Pointer {
		structType = structType.Elem()
	}

	structPtr := reflect.New(structType)
	structValue := structPtr.Elem()

	for _, dep := range deps {
		value, err := resolver.ResolveValue(dep.Type, dep.Key)
		if err != nil {
			return reflect.Value{}, err
		}

		if value.IsValid() {
			structValue.Field(dep.Index).Set(value)
		}
	}

	if paramType.Kind() == reflect.Pointer {
		return structPtr, nil
	}
	return structValue, nil
}

// InjectProperties fills every listed property of target that is currently
// nil. target must be a non-nil pointer to a struct; anything else is left
// untouched.
func InjectProperties(target reflect.Value, props []Property, resolver DependencyResolver) error {
	if target.Kind() != reflect.Pointer || target.IsNil() || target.Elem().Kind() != reflect.Struct {
		return nil
	}

	elem := target.Elem()
	for _, prop := range props {
		field := elem.Field(prop.Index)
		if !field.CanSet() || !field.IsNil() {
			continue
		}

		value, err := resolver.ResolveValue(prop.Type, prop.Key)
		if err != nil {
			return err
		}

		if value.IsValid() {
			field.Set(value)
		}
	}

	return nil
}
