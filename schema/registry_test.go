package schema_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brahmand-io/graphplan/schema"
)

func testGraphSchema(name string) *schema.GraphSchema {
	return &schema.GraphSchema{
		Name: name,
		Nodes: map[string]*schema.NodeSchema{
			"User": {Label: "User", Table: "users", ID: schema.IDColumn{Columns: []string{"id"}}},
		},
	}
}

func TestRegistryRegisterAndGet(t *testing.T) {
	r := schema.NewRegistry()
	require.NoError(t, r.Register(testGraphSchema("social")))

	got, err := r.Get("social")
	require.NoError(t, err)
	assert.Equal(t, "social", got.Name)

	_, err = r.Get("missing")
	require.Error(t, err)
}

func TestRegistryRejectsInvalidSchemaBeforePublishing(t *testing.T) {
	r := schema.NewRegistry()
	invalid := &schema.GraphSchema{
		Name: "bad",
		Nodes: map[string]*schema.NodeSchema{
			"User": {Label: "User", ID: schema.IDColumn{}}, // no id columns
		},
	}
	require.Error(t, r.Register(invalid))

	_, err := r.Get("bad")
	require.Error(t, err, "a schema that failed Validate must never become visible to readers")
}

func TestRegistryUnregister(t *testing.T) {
	r := schema.NewRegistry()
	require.NoError(t, r.Register(testGraphSchema("social")))
	r.Unregister("social")

	_, err := r.Get("social")
	require.Error(t, err)

	// Unregistering an absent name is a no-op, not an error.
	r.Unregister("never-registered")
}

func TestRegistryGetOrScanFallsBackToContentMatch(t *testing.T) {
	r := schema.NewRegistry()
	require.NoError(t, r.Register(testGraphSchema("social")))

	byExactName, err := r.GetOrScan("social", func(s *schema.GraphSchema) bool { return false })
	require.NoError(t, err)
	assert.Equal(t, "social", byExactName.Name)

	byContent, err := r.GetOrScan("nonexistent-name", func(s *schema.GraphSchema) bool {
		_, ok := s.Nodes["User"]
		return ok
	})
	require.NoError(t, err)
	assert.Equal(t, "social", byContent.Name)

	_, err = r.GetOrScan("nonexistent-name", func(s *schema.GraphSchema) bool { return false })
	require.Error(t, err)
}

func TestRegistryConcurrentRegisterAndGet(t *testing.T) {
	r := schema.NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := "schema"
			_ = r.Register(testGraphSchema(name))
			_, _ = r.Get(name)
		}(i)
	}
	wg.Wait()

	got, err := r.Get("schema")
	require.NoError(t, err)
	assert.Equal(t, "schema", got.Name)
}
