package di

import (
	"reflect"
)

// Handler builds an instance on demand. It runs on every resolution that
// selects it; its result is neither cached nor property-injected, and
// activation observers are not notified. The resolver is the in-flight
// resolution and may be used to resolve further dependencies. requester is
// the object that asked for the instance: nil for a top-level call, the
// in-flight Resolver for a constructor argument and the instance being
// injected for a property.
type Handler func(r Resolver, requester any) (any, error)

// RegistrationInfo describes a registration for introspection.
type RegistrationInfo struct {
	RequestType reflect.Type
	Key         string

	// ImplementationType is nil for handler registrations.
	ImplementationType reflect.Type
	Lifetime           Lifetime
	IsHandler          bool
}

// registration is an entry of the registration store.
type registration interface {
	requestType() reflect.Type
	key() string
	info() RegistrationInfo
}

// typeRegistration builds instances of an implementation type with one of
// its constructors.
type typeRegistration struct {
	request    reflect.Type
	qualifier  string
	descriptor *descriptor
	lifetime   Lifetime
}

func (r *typeRegistration) requestType() reflect.Type { return r.request }
func (r *typeRegistration) key() string               { return r.qualifier }

func (r *typeRegistration) info() RegistrationInfo {
	return RegistrationInfo{
		RequestType:        r.request,
		Key:                r.qualifier,
		ImplementationType: r.descriptor.implementationType,
		Lifetime:           r.lifetime,
	}
}

// handlerRegistration delegates construction to a Handler.
type handlerRegistration struct {
	request   reflect.Type
	qualifier string
	handler   Handler
}

func (r *handlerRegistration) requestType() reflect.Type { return r.request }
func (r *handlerRegistration) key() string               { return r.qualifier }

func (r *handlerRegistration) info() RegistrationInfo {
	return RegistrationInfo{
		RequestType: r.request,
		Key:         r.qualifier,
		IsHandler:   true,
	}
}

// registrationStore is the ordered sequence of registrations of a
// container. It is guarded by the owning container's lock.
type registrationStore struct {
	registrations []registration
}

// add appends reg. A type registration conflicts with any existing type
// registration of the same implementation type and key, regardless of
// request type or lifetime. Handlers never conflict.
func (s *registrationStore) add(reg registration) error {
	if tr, ok := reg.(*typeRegistration); ok {
		implementationType := tr.descriptor.implementationType
		for _, existing := range s.registrations {
			other, ok := existing.(*typeRegistration)
			if !ok {
				continue
			}
			if other.descriptor.implementationType == implementationType && other.qualifier == tr.qualifier {
				return &TypeAlreadyRegisteredError{
					ImplementationType: implementationType,
					Key:                tr.qualifier,
				}
			}
		}
	}

	s.registrations = append(s.registrations, reg)
	return nil
}

// matching returns the registrations for requestType and key in
// registration order.
func (s *registrationStore) matching(requestType reflect.Type, key string) []registration {
	var matches []registration
	for _, reg := range s.registrations {
		if reg.requestType() == requestType && reg.key() == key {
			matches = append(matches, reg)
		}
	}
	return matches
}

// count returns the number of registrations for requestType and key.
func (s *registrationStore) count(requestType reflect.Type, key string) int {
	n := 0
	for _, reg := range s.registrations {
		if reg.requestType() == requestType && reg.key() == key {
			n++
		}
	}
	return n
}

// isRegistered reports whether requestType can be resolved under key. A
// slice type also counts as registered when its element type is.
func (s *registrationStore) isRegistered(requestType reflect.Type, key string) bool {
	if requestType == nil {
		return false
	}

	if s.count(requestType, key) > 0 {
		return true
	}

	return requestType.Kind() == reflect.Slice && s.count(requestType.Elem(), key) > 0
}

// isSingleRegistered reports whether exactly one registration exists for
// the non-slice requestType under key.
func (s *registrationStore) isSingleRegistered(requestType reflect.Type, key string) bool {
	if requestType == nil || requestType.Kind() == reflect.Slice {
		return false
	}

	return s.count(requestType, key) == 1
}

// infos returns a description of every registration in order.
func (s *registrationStore) infos() []RegistrationInfo {
	infos := make([]RegistrationInfo, len(s.registrations))
	for i, reg := range s.registrations {
		infos[i] = reg.info()
	}
	return infos
}

func (s *registrationStore) len() int {
	return len(s.registrations)
}
