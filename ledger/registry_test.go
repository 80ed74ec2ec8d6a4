package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/govm-net/counter/types"
)

func newTestRegistry() Registry {
	return &registry{backends: make(map[BackendType]Constructor)}
}

func fakeConstructor(params map[string]any) (types.Ledger, error) {
	return nil, nil
}

func TestRegisterAndGet(t *testing.T) {
	r := newTestRegistry()

	require.NoError(t, r.Register("fake", fakeConstructor))
	assert.Contains(t, r.ListRegistered(), BackendType("fake"))

	_, err := r.Get("fake", nil)
	assert.NoError(t, err)
}

func TestRegisterDuplicateFails(t *testing.T) {
	r := newTestRegistry()

	require.NoError(t, r.Register("fake", fakeConstructor))
	assert.Error(t, r.Register("fake", fakeConstructor))
}

func TestGetUnknownBackendFails(t *testing.T) {
	r := newTestRegistry()

	_, err := r.Get("missing", nil)
	assert.Error(t, err)
}

func TestDefaultBackend(t *testing.T) {
	r := newTestRegistry()

	// Memory is the fallback before any default is set.
	assert.Equal(t, MemoryBackendType, r.DefaultBackendType())

	assert.Error(t, r.SetDefault("fake"))

	require.NoError(t, r.Register("fake", fakeConstructor))
	require.NoError(t, r.SetDefault("fake"))
	assert.Equal(t, BackendType("fake"), r.DefaultBackendType())
}
