// Package ledger manages the available account-store backends. Backends
// register themselves in init() and are instantiated by name.
package ledger

import (
	"fmt"
	"sync"

	"github.com/govm-net/counter/types"
)

// BackendType names a ledger implementation.
type BackendType string

const (
	// MemoryBackendType is the in-memory store used by tests and the harness.
	MemoryBackendType BackendType = "memory"
	// DBBackendType is the sqlite-backed store.
	DBBackendType BackendType = "db"
)

// Constructor creates a new Ledger instance from backend parameters.
type Constructor func(params map[string]any) (types.Ledger, error)

// Registry manages Ledger constructors.
type Registry interface {
	// Register adds a new backend to the registry.
	Register(bt BackendType, constructor Constructor) error
	// SetDefault sets the default backend type.
	SetDefault(bt BackendType) error
	// Get returns a new instance of the specified backend.
	Get(bt BackendType, params map[string]any) (types.Ledger, error)
	// DefaultBackendType returns the current default backend type.
	DefaultBackendType() BackendType
	// ListRegistered returns all registered backend types.
	ListRegistered() []BackendType
}

type registry struct {
	mu        sync.RWMutex
	backends  map[BackendType]Constructor
	defaultBt BackendType
}

var defaultRegistry Registry

func init() {
	defaultRegistry = &registry{
		backends: make(map[BackendType]Constructor),
	}
}

// GetRegistry returns the global Registry instance.
func GetRegistry() Registry {
	return defaultRegistry
}

func (r *registry) Register(bt BackendType, constructor Constructor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.backends[bt]; exists {
		return fmt.Errorf("ledger backend %s already registered", bt)
	}

	r.backends[bt] = constructor
	return nil
}

func (r *registry) SetDefault(bt BackendType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.backends[bt]; !exists {
		return fmt.Errorf("ledger backend %s not registered", bt)
	}

	r.defaultBt = bt
	return nil
}

func (r *registry) Get(bt BackendType, params map[string]any) (types.Ledger, error) {
	r.mu.RLock()
	constructor, exists := r.backends[bt]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("ledger backend %s not found", bt)
	}

	return constructor(params)
}

func (r *registry) DefaultBackendType() BackendType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.defaultBt == "" {
		return MemoryBackendType
	}
	return r.defaultBt
}

func (r *registry) ListRegistered() []BackendType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]BackendType, 0, len(r.backends))
	for bt := range r.backends {
		out = append(out, bt)
	}
	return out
}

// Package level functions that delegate to the default registry.

// Register adds a new backend to the registry.
func Register(bt BackendType, constructor Constructor) error {
	return GetRegistry().Register(bt, constructor)
}

// SetDefault sets the default backend type.
func SetDefault(bt BackendType) error {
	return GetRegistry().SetDefault(bt)
}

// Get returns a new instance of the specified backend, falling back to the
// default type when bt is empty.
func Get(bt BackendType, params map[string]any) (types.Ledger, error) {
	if bt == "" {
		bt = GetRegistry().DefaultBackendType()
	}
	return GetRegistry().Get(bt, params)
}

// ListRegistered returns all registered backend types.
func ListRegistered() []BackendType {
	return GetRegistry().ListRegistered()
}
