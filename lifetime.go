package di

import (
	"encoding/json"
	"fmt"
)

// Lifetime specifies how instances of a type registration are cached.
type Lifetime int

const (
	// PerRequest specifies that every resolution constructs a new instance.
	PerRequest Lifetime = iota

	// Singleton specifies that the first resolution constructs the instance
	// and every later resolution returns it. The cache is keyed by
	// implementation type, so all singleton registrations of the same
	// implementation share one instance per container.
	Singleton
)

// String returns the string representation of the Lifetime.
func (l Lifetime) String() string {
	switch l {
	case PerRequest:
		return "PerRequest"
	case Singleton:
		return "Singleton"
	default:
		return fmt.Sprintf("Unknown(%d)", int(l))
	}
}

// IsValid checks if the lifetime is valid.
func (l Lifetime) IsValid() bool {
	return l >= PerRequest && l <= Singleton
}

// MarshalText implements encoding.TextMarshaler.
func (l Lifetime) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Lifetime) UnmarshalText(text []byte) error {
	switch string(text) {
	case "PerRequest", "per-request", "perrequest":
		*l = PerRequest
	case "Singleton", "singleton":
		*l = Singleton
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLifetime, string(text))
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (l Lifetime) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *Lifetime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	return l.UnmarshalText([]byte(s))
}
