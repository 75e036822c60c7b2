package di

import (
	"errors"
	"reflect"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "di"

// Metrics exposes container activity as Prometheus collectors. A single
// Metrics value may be shared by a container and all of its children.
type Metrics struct {
	Registrations      *prometheus.CounterVec
	Constructions      *prometheus.CounterVec
	CacheHits          *prometheus.CounterVec
	HandlerInvocations *prometheus.CounterVec
	Failures           *prometheus.CounterVec
}

// NewMetrics creates the container collectors and registers them with reg.
// A nil registerer leaves the collectors unregistered, which is useful in
// tests that read them directly.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "registrations_total",
			Help:      "Registrations added to containers, by kind.",
		}, []string{"kind"}),
		Constructions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "constructions_total",
			Help:      "Instances constructed, by implementation type.",
		}, []string{"implementation"}),
		CacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "singleton_cache_hits_total",
			Help:      "Singleton resolutions served from the cache, by implementation type.",
		}, []string{"implementation"}),
		HandlerInvocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "handler_invocations_total",
			Help:      "Handler registrations invoked, by request type.",
		}, []string{"request"}),
		Failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "failures_total",
			Help:      "Failed registration and resolution calls, by error code.",
		}, []string{"code"}),
	}

	if reg == nil {
		return m, nil
	}

	for _, vec := range []**prometheus.CounterVec{
		&m.Registrations,
		&m.Constructions,
		&m.CacheHits,
		&m.HandlerInvocations,
		&m.Failures,
	} {
		registered, err := register(reg, *vec)
		if err != nil {
			return nil, err
		}
		*vec = registered
	}

	return m, nil
}

// register registers c, reusing the collector already registered under the
// same descriptor so several containers can report into one registry.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// typeLabel is the metric label of a type. It keeps the package qualifier
// so same-named types from different packages stay apart.
func typeLabel(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

func (m *Metrics) registered(kind string) {
	if m != nil {
		m.Registrations.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) constructed(implementation string) {
	if m != nil {
		m.Constructions.WithLabelValues(implementation).Inc()
	}
}

func (m *Metrics) cacheHit(implementation string) {
	if m != nil {
		m.CacheHits.WithLabelValues(implementation).Inc()
	}
}

func (m *Metrics) handlerInvoked(request string) {
	if m != nil {
		m.HandlerInvocations.WithLabelValues(request).Inc()
	}
}

func (m *Metrics) failed(err error) {
	if m != nil && err != nil {
		m.Failures.WithLabelValues(CodeOf(err).String()).Inc()
	}
}
