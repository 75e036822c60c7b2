package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	di "github.com/Stannieman/DI"
)

// AssertResolvable checks that T resolves to a non-nil instance
func AssertResolvable[T any](t *testing.T, r di.Resolver) T {
	t.Helper()
	instance, err := di.Resolve[T](r)
	require.NoError(t, err, "failed to resolve %s", di.TypeOf[T]())
	require.NotNil(t, instance, "resolved instance is nil")
	return instance
}

// AssertKeyedResolvable checks that T resolves under key to a non-nil instance
func AssertKeyedResolvable[T any](t *testing.T, r di.Resolver, key string) T {
	t.Helper()
	instance, err := di.ResolveKeyed[T](r, key)
	require.NoError(t, err, "failed to resolve %s with key %q", di.TypeOf[T](), key)
	require.NotNil(t, instance, "resolved keyed instance is nil")
	return instance
}

// AssertAllResolvable checks that every instance of T resolves and that
// there are count of them
func AssertAllResolvable[T any](t *testing.T, r di.Resolver, key string, count int) []T {
	t.Helper()
	instances, err := di.ResolveAllKeyed[T](r, key)
	require.NoError(t, err, "failed to resolve all %s with key %q", di.TypeOf[T](), key)
	require.Len(t, instances, count)
	return instances
}

// AssertUnresolved checks that T is not registered and resolves to its
// zero value
func AssertUnresolved[T any](t *testing.T, r di.Resolver) {
	t.Helper()
	assert.False(t, di.Registered[T](r, ""))
	instance, err := di.Resolve[T](r)
	require.NoError(t, err)
	assert.Zero(t, instance)
}

// AssertErrorCode checks that err carries code
func AssertErrorCode(t *testing.T, err error, code di.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, di.CodeOf(err), "unexpected code for error: %v", err)
}
