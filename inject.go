package di

import (
	"reflect"

	"github.com/Stannieman/DI/internal/reflection"
)

// injectProperties fills the injectable fields of instance that are still
// nil. Injectable fields are the exported, non-embedded fields of a nillable
// kind on the struct instance points to; a field opts out with the tag
// inject:"-" and picks a key with name:"key". Each field is resolved as a
// single instance with instance as the requester. A field whose type
// resolves to nothing stays nil; resolution errors are returned.
//
// Instances that are not pointers to structs are left untouched.
func (r *resolution) injectProperties(instance any) error {
	target := reflect.ValueOf(instance)
	if target.Kind() != reflect.Pointer || target.IsNil() || target.Elem().Kind() != reflect.Struct {
		return nil
	}

	props := r.c.analyzer.Properties(target.Type())
	if len(props) == 0 {
		return nil
	}

	return reflection.InjectProperties(target, props, dependencies{r: r, requester: instance})
}
