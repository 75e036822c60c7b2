package di_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	di "github.com/Stannieman/DI"
	"github.com/Stannieman/DI/internal/testutil"
)

func TestMetrics(t *testing.T) {
	metrics, err := di.NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	c := testutil.NewContainerBuilder(t).
		WithOptions(di.WithMetrics(metrics)).
		WithSingleton(serviceType, di.Implement[*testutil.Service](testutil.NewService)).
		WithPerRequest(loggerType, di.Implement[*testutil.MemoryLogger](testutil.NewMemoryLogger)).
		WithHandler(sinkType, func(di.Resolver, any) (any, error) { return testutil.NewQueueSink(), nil }).
		Build()

	assert.Equal(t, 1.0, promtestutil.ToFloat64(metrics.Registrations.WithLabelValues("Singleton")))
	assert.Equal(t, 1.0, promtestutil.ToFloat64(metrics.Registrations.WithLabelValues("PerRequest")))
	assert.Equal(t, 1.0, promtestutil.ToFloat64(metrics.Registrations.WithLabelValues("handler")))

	for i := 0; i < 3; i++ {
		testutil.AssertResolvable[*testutil.Service](t, c)
		testutil.AssertResolvable[testutil.Logger](t, c)
		testutil.AssertResolvable[testutil.Sink](t, c)
	}

	assert.Equal(t, 1.0, promtestutil.ToFloat64(metrics.Constructions.WithLabelValues("*testutil.Service")))
	assert.Equal(t, 2.0, promtestutil.ToFloat64(metrics.CacheHits.WithLabelValues("*testutil.Service")))
	assert.Equal(t, 3.0, promtestutil.ToFloat64(metrics.Constructions.WithLabelValues("*testutil.MemoryLogger")))
	assert.Equal(t, 3.0, promtestutil.ToFloat64(metrics.HandlerInvocations.WithLabelValues("testutil.Sink")))

	err = c.RegisterSingleton(serviceType, di.Implement[*testutil.Service](testutil.NewService))
	require.Error(t, err)
	assert.Equal(t, 1.0, promtestutil.ToFloat64(metrics.Failures.WithLabelValues("TypeAlreadyRegistered")))

	require.NoError(t, c.RegisterPerRequest(sinkType, di.Implement[*testutil.FileSink]()))
	_, err = c.GetSingleInstance(sinkType, "")
	require.Error(t, err)
	assert.Equal(t, 1.0, promtestutil.ToFloat64(metrics.Failures.WithLabelValues("MultipleImplementationTypesRegistered")))
}

// Service shares its name with testutil.Service.
type Service struct {
	Name string
}

func TestMetrics_LabelsKeepPackage(t *testing.T) {
	metrics, err := di.NewMetrics(nil)
	require.NoError(t, err)

	c := testutil.NewContainerBuilder(t).
		WithOptions(di.WithMetrics(metrics)).
		WithPerRequest(serviceType, di.Implement[*testutil.Service](testutil.NewService)).
		WithPerRequest(di.TypeOf[*Service](), di.Implement[*Service]()).
		Build()

	testutil.AssertResolvable[*testutil.Service](t, c)
	testutil.AssertResolvable[*Service](t, c)
	testutil.AssertResolvable[*Service](t, c)

	assert.Equal(t, 1.0, promtestutil.ToFloat64(metrics.Constructions.WithLabelValues("*testutil.Service")))
	assert.Equal(t, 2.0, promtestutil.ToFloat64(metrics.Constructions.WithLabelValues("*di_test.Service")))
}

func TestMetrics_PanicCountsAsFailure(t *testing.T) {
	metrics, err := di.NewMetrics(nil)
	require.NoError(t, err)

	c := testutil.NewContainerBuilder(t).
		WithOptions(di.WithMetrics(metrics)).
		WithPerRequest(serviceType, di.Implement[*testutil.Service](func() *testutil.Service { panic("kaboom") })).
		Build()

	assert.PanicsWithValue(t, "kaboom", func() {
		_, _ = c.GetSingleInstance(serviceType, "")
	})
	assert.Equal(t, 1.0, promtestutil.ToFloat64(metrics.Failures.WithLabelValues("Unknown")))

	assert.NotPanics(t, func() { c.Count() }, "the container lock is released after a panic")
}

func TestMetrics_SharedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()

	first, err := di.NewMetrics(reg)
	require.NoError(t, err)

	second, err := di.NewMetrics(reg)
	require.NoError(t, err)

	assert.Same(t, first.Registrations, second.Registrations)
	assert.Same(t, first.Failures, second.Failures)

	c1 := di.New(di.Configuration{}, di.WithMetrics(first))
	c2 := di.New(di.Configuration{}, di.WithMetrics(second))
	require.NoError(t, c1.RegisterPerRequest(serviceType, di.Implement[*testutil.Service](testutil.NewService)))
	require.NoError(t, c2.RegisterPerRequest(serviceType, di.Implement[*testutil.Service](testutil.NewService)))

	assert.Equal(t, 2.0, promtestutil.ToFloat64(first.Registrations.WithLabelValues("PerRequest")))
}

func TestMetrics_SharedWithChildren(t *testing.T) {
	metrics, err := di.NewMetrics(nil)
	require.NoError(t, err)

	parent := di.New(di.Configuration{}, di.WithMetrics(metrics))
	child := parent.GetChildContainer()

	require.NoError(t, child.RegisterPerRequest(serviceType, di.Implement[*testutil.Service](testutil.NewService)))
	testutil.AssertResolvable[*testutil.Service](t, child)

	assert.Equal(t, 1.0, promtestutil.ToFloat64(metrics.Constructions.WithLabelValues("*testutil.Service")))
}

func TestMetrics_Disabled(t *testing.T) {
	c := di.New(di.Configuration{})
	require.NoError(t, c.RegisterPerRequest(serviceType, di.Implement[*testutil.Service](testutil.NewService)))

	assert.NotPanics(t, func() {
		testutil.AssertResolvable[*testutil.Service](t, c)
	})
}
