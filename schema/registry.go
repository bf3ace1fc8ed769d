package schema

import (
	"sync"

	"github.com/brahmand-io/graphplan/perr"
)

// Registry is the process-wide, read-mostly mapping from schema name to
// GraphSchema (spec.md section 5). Readers take shared access; writers
// (schema registration) are expected to be quiescent during planning, per
// spec.md's concurrency model. Grounded on the teacher's sql.ViewRegistry /
// index-driver registry pattern (engine_pilosa_test.go registers a pilosa
// index driver once, then every query reads it concurrently).
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]*GraphSchema
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{schemas: map[string]*GraphSchema{}}
}

// Register adds or replaces a schema. Validates before publishing so a
// malformed schema can never be observed by a concurrent reader.
func (r *Registry) Register(s *GraphSchema) error {
	if err := s.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schemas[s.Name] = s
	return nil
}

// Unregister removes a schema by name; a no-op if absent.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.schemas, name)
}

// Get returns the schema registered under name, or an error if none is
// registered — the registry never falls back to scanning all registrations
// (spec.md section 9's design note) except through GetOrScan, which is
// opt-in and documented.
func (r *Registry) Get(name string) (*GraphSchema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[name]
	if !ok {
		return nil, perr.MissingTableInfoKind.New("no schema registered under " + name)
	}
	return s, nil
}

// GetOrScan behaves like Get, but falls back to scanning every registered
// schema for one containing a node or relationship by that name if an exact
// name match fails. This is the explicit documented fallback spec.md
// section 9 allows as long as it is opt-in and not the default lookup path;
// callers that want strict single-schema resolution should use Get.
func (r *Registry) GetOrScan(name string, contains func(*GraphSchema) bool) (*GraphSchema, error) {
	if s, err := r.Get(name); err == nil {
		return s, nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.schemas {
		if contains(s) {
			return s, nil
		}
	}
	return nil, perr.MissingTableInfoKind.New("no schema matches " + name)
}
