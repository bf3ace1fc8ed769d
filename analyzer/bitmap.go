package analyzer

import (
	"github.com/pilosa/pilosa"

	"github.com/brahmand-io/graphplan/schema"
)

// BitmapTraversalShape models the to-id bitmap a bitmap-backed relationship's
// CTE conceptually unrolls via arrayJoin(bitmapToArray(to_id)) (spec.md
// section 4.2 pass 3). Planning never touches a live index at plan time —
// this type exists so the decision to use bitmap traversal can be described
// and unit-tested against true roaring-bitmap semantics, grounded on the
// teacher's pilosa-backed index driver (sql/index/pilosalib), which builds
// an in-memory pilosa.Holder/Index/Field and reads rows back with
// field.Row(rowID).
type BitmapTraversalShape struct {
	RelType   string
	Direction schema.Direction

	holder *pilosa.Holder
	field  *pilosa.Field
}

// NewBitmapTraversalShape builds an in-memory pilosa field named after
// relType and seeds row fromID with one bit per toIDs member, the same shape
// a bitmap-backed relationship's adjacency would take in a real index.
func NewBitmapTraversalShape(relType string, dir schema.Direction, fromID uint64, toIDs []uint64) (*BitmapTraversalShape, error) {
	h := pilosa.NewHolder()
	idx, err := h.CreateIndexIfNotExists(relType, pilosa.IndexOptions{})
	if err != nil {
		return nil, err
	}
	f, err := idx.CreateFieldIfNotExists("to_id", pilosa.OptFieldTypeDefault())
	if err != nil {
		return nil, err
	}
	for _, to := range toIDs {
		if _, err := f.SetBit(fromID, to, nil); err != nil {
			return nil, err
		}
	}
	return &BitmapTraversalShape{RelType: relType, Direction: dir, holder: h, field: f}, nil
}

// ToIDs returns the to-id bitmap for fromID — the set arrayJoin(bitmapToArray(to_id))
// would unroll to one row per member at lowering+execution time.
func (b *BitmapTraversalShape) ToIDs(fromID uint64) (*pilosa.Row, error) {
	return b.field.Row(fromID)
}

// validateBitmapShape is pass 3's consistency check for a schema-declared
// bitmap relationship (spec.md section 4.2 pass 3): it builds the same
// pilosa index/field a real bitmap-backed relationship's adjacency would
// take, failing fast with a planner error if relType isn't a legal pilosa
// index name rather than deferring that failure to whatever eventually
// reads the real index at execution time.
func validateBitmapShape(relType string, dir schema.Direction) error {
	_, err := NewBitmapTraversalShape(relType, dir, 0, nil)
	return err
}
