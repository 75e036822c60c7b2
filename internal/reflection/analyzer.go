package reflection

import (
	"fmt"
	"reflect"
	"sync"
)

// In marks a constructor parameter object. A constructor taking exactly one
// struct that embeds In gets every exported field of that struct resolved as
// an individual dependency.
type In struct{}

var (
	inType  = reflect.TypeOf((*In)(nil)).Elem()
	errType = reflect.TypeOf((*error)(nil)).Elem()
)

// Tag names understood on parameter object fields and injectable properties.
const (
	keyTag    = "name"
	injectTag = "inject"
)

// Analyzer performs reflection-based analysis of constructors and
// injectable properties. Results are cached per function type and per
// struct type, so analysis runs once no matter how many constructors share
// a signature.
type Analyzer struct {
	mu         sync.RWMutex
	signatures map[reflect.Type]*signature
	properties map[reflect.Type][]Property
}

// Constructor is an analyzed constructor function bound to its value.
type Constructor struct {
	Value          reflect.Value
	Type           reflect.Type
	Returns        reflect.Type
	Dependencies   []Dependency
	IsParamObject  bool
	HasErrorReturn bool

	paramType reflect.Type
}

// Dependency describes one resolvable input of a constructor: a plain
// parameter or a field of an In parameter object.
type Dependency struct {
	Type      reflect.Type
	Key       string
	Index     int
	FieldName string
}

// IsSlice reports whether the dependency asks for a sequence.
func (d Dependency) IsSlice() bool {
	return d.Type.Kind() == reflect.Slice
}

// Property is an exported struct field eligible for property injection.
type Property struct {
	Name  string
	Type  reflect.Type
	Key   string
	Index int
}

// signature is the value-independent part of a constructor analysis.
type signature struct {
	returns        reflect.Type
	dependencies   []Dependency
	isParamObject  bool
	hasErrorReturn bool
	paramType      reflect.Type
}

// New creates a new Analyzer.
func New() *Analyzer {
	return &Analyzer{
		signatures: make(map[reflect.Type]*signature),
		properties: make(map[reflect.Type][]Property),
	}
}

// Analyze validates a constructor function and extracts its dependencies.
// Accepted shapes are func(...) T and func(...) (T, error).
func (a *Analyzer) Analyze(constructor any) (*Constructor, error) {
	if constructor == nil {
		return nil, fmt.Errorf("constructor cannot be nil")
	}

	val := reflect.ValueOf(constructor)
	if val.Kind() != reflect.Func {
		return nil, fmt.Errorf("constructor must be a function, got %s", val.Type())
	}
	if val.IsNil() {
		return nil, fmt.Errorf("constructor cannot be nil")
	}

	typ := val.Type()

	a.mu.RLock()
	sig, ok := a.signatures[typ]
	a.mu.RUnlock()

	if !ok {
		var err error
		sig, err = analyzeSignature(typ)
		if err != nil {
			return nil, err
		}

		a.mu.Lock()
		a.signatures[typ] = sig
		a.mu.Unlock()
	}

	return &Constructor{
		Value:          val,
		Type:           typ,
		Returns:        sig.returns,
		Dependencies:   sig.dependencies,
		IsParamObject:  sig.isParamObject,
		HasErrorReturn: sig.hasErrorReturn,
		paramType:      sig.paramType,
	}, nil
}

func analyzeSignature(fnType reflect.Type) (*signature, error) {
	if fnType.IsVariadic() {
		return nil, fmt.Errorf("variadic constructor %s is not supported", fnType)
	}

	sig := &signature{}

	switch fnType.NumOut() {
	case 1:
	case 2:
		if fnType.Out(1) != errType {
			return nil, fmt.Errorf("second return value of %s must be error", fnType)
		}
		sig.hasErrorReturn = true
	default:
		return nil, fmt.Errorf("constructor %s must return T or (T, error)", fnType)
	}

	sig.returns = fnType.Out(0)
	if sig.returns == errType {
		return nil, fmt.Errorf("constructor %s must return a non-error value", fnType)
	}

	if fnType.NumIn() == 1 && hasEmbeddedIn(fnType.In(0)) {
		deps, err := analyzeParamObject(fnType.In(0))
		if err != nil {
			return nil, err
		}

		sig.isParamObject = true
		sig.paramType = fnType.In(0)
		sig.dependencies = deps
		return sig, nil
	}

	sig.dependencies = make([]Dependency, fnType.NumIn())
	for i := 0; i < fnType.NumIn(); i++ {
		sig.dependencies[i] = Dependency{Type: fnType.In(i), Index: i}
	}

	return sig, nil
}

// analyzeParamObject analyzes an In struct's fields.
func analyzeParamObject(paramType reflect.Type) ([]Dependency, error) {
	structType := paramType
	if structType.Kind() == reflect.Pointer {
		structType = structType.Elem()
	}

	if structType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("In parameter must be a struct, got %v", structType.Kind())
	}

	deps := make([]Dependency, 0, structType.NumField())
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)

		if !field.IsExported() {
			continue
		}

		if field.Anonymous && field.Type == inType {
			continue
		}

		if field.Tag.Get(injectTag) == "-" {
			continue
		}

		deps = append(deps, Dependency{
			Type:      field.Type,
			Key:       field.Tag.Get(keyTag),
			Index:     i,
			FieldName: field.Name,
		})
	}

	return deps, nil
}

// Properties returns the injectable properties of a struct or pointer to
// struct type. Only exported, non-embedded fields of a nillable kind that
// are not tagged inject:"-" qualify.
func (a *Analyzer) Properties(t reflect.Type) []Property {
	if t == nil {
		return nil
	}

	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t.Kind() != reflect.Struct {
		return nil
	}

	a.mu.RLock()
	props, ok := a.properties[t]
	a.mu.RUnlock()
	if ok {
		return props
	}

	props = make([]Property, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if !field.IsExported() || field.Anonymous {
			continue
		}

		if field.Tag.Get(injectTag) == "-" {
			continue
		}

		if !CanBeNil(field.Type) {
			continue
		}

		props = append(props, Property{
			Name:  field.Name,
			Type:  field.Type,
			Key:   field.Tag.Get(keyTag),
			Index: i,
		})
	}

	a.mu.Lock()
	a.properties[t] = props
	a.mu.Unlock()

	return props
}

// CacheSize returns the number of cached signature and property analyses.
func (a *Analyzer) CacheSize() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.signatures) + len(a.properties)
}

// CanBeNil reports whether values of t can hold nil.
func CanBeNil(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return true
	}
	return false
}

// hasEmbeddedIn checks if a struct (or pointer to struct) embeds In.
func hasEmbeddedIn(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t.Kind() != reflect.Struct {
		return false
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous && field.Type == inType {
			return true
		}
	}

	return false
}
