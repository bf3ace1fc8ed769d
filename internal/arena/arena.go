// Package arena provides a per-query bump allocator for the short-lived
// strings the analyzer and lowering passes generate (aliases, CTE names,
// generated column names). Grounded on original_source's
// query_planner/ast_transform/string_arena.rs: an append-only buffer that
// hands back slices instead of allocating a new string per call, released
// wholesale when the query finishes planning.
package arena

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Arena is not safe for concurrent use; one is created per query (spec
// section 5: plan_ctx and the arena are both private per-query state).
type Arena struct {
	buf strings.Builder
}

// New returns a ready-to-use Arena.
func New() *Arena {
	return &Arena{}
}

// Intern copies s into the arena and returns the interned copy. Unlike the
// Rust original, Go strings are already immutable views, so Intern's value
// is accounting and call-site symmetry with generated-name helpers below,
// not avoiding a copy.
func (a *Arena) Intern(s string) string {
	a.buf.WriteString(s)
	return s
}

// Reset discards all interned strings. planner.Plan does not call it: it
// creates a new Arena for each query and drops it when the query is planned.
func (a *Arena) Reset() {
	a.buf.Reset()
}

// NewAlias generates an alias string of the form "<prefix>_<n>" and
// interns it. It does not check for collisions with user-written aliases.
func (a *Arena) NewAlias(prefix string, n int) string {
	return a.Intern(prefix + "_" + strconv.Itoa(n))
}

// NewUUID returns a fresh random UUID string, interned.
func (a *Arena) NewUUID() string {
	return a.Intern(uuid.NewString())
}
