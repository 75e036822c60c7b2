package di

import (
	"github.com/Stannieman/DI/internal/reflection"
)

// selectConstructor picks the constructor used to build d. A constructor is
// eligible when every dependency can be resolved from the store: a slice
// dependency needs a registration for the slice or its element type, any
// other dependency exactly one registration under its key. The eligible
// constructor with the most dependencies wins; ties go to the one declared
// first.
//
// A descriptor without constructors yields nil and is built from its
// default instance.
func selectConstructor(d *descriptor, store *registrationStore) (*reflection.Constructor, error) {
	if len(d.constructors) == 0 {
		return nil, nil
	}

	var selected *reflection.Constructor
	for _, ctor := range d.constructors {
		if !isSatisfiable(ctor, store) {
			continue
		}

		if selected == nil || len(ctor.Dependencies) > len(selected.Dependencies) {
			selected = ctor
		}
	}

	if selected == nil {
		return nil, &NoEligibleConstructorError{
			ImplementationType: d.implementationType,
			Constructors:       d.constructorTypes(),
		}
	}

	return selected, nil
}

func isSatisfiable(ctor *reflection.Constructor, store *registrationStore) bool {
	for _, dep := range ctor.Dependencies {
		if dep.IsSlice() {
			if !store.isRegistered(dep.Type, dep.Key) {
				return false
			}
			continue
		}

		if !store.isSingleRegistered(dep.Type, dep.Key) {
			return false
		}
	}
	return true
}
