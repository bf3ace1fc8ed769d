// Package schema models the declarative graph schema the planner treats as
// an immutable, read-only input (spec.md section 3.1): node tables, edge
// tables, id columns, denormalization flags, polymorphic-edge unions, and
// parameterized tenant views. This package never parses YAML itself —
// schema is consumed as an already-unmarshaled value (spec.md section 1) —
// but its struct tags follow gopkg.in/yaml.v2 conventions so a caller's own
// yaml.Unmarshal works against these types without an adapter layer.
package schema

import (
	"github.com/brahmand-io/graphplan/perr"
)

// IDColumn describes one or more columns that together identify a row.
type IDColumn struct {
	Columns []string `yaml:"columns"`
}

// CouplingInfo describes an edge whose adjacent node shares its physical
// row (a denormalized edge, spec.md section 3.1/GLOSSARY).
type CouplingInfo struct {
	SharedTable      string `yaml:"shared_table"`
	DenormalizedNode string `yaml:"denormalized_node"` // label of the fused node
}

// NodeSchema is one node-label -> physical-source mapping.
type NodeSchema struct {
	Label          string            `yaml:"label"`
	Database       string            `yaml:"database"`
	Table          string            `yaml:"table"`
	ID             IDColumn          `yaml:"id"`
	Properties     map[string]string `yaml:"properties"` // property -> column
	SchemaFilter   string            `yaml:"schema_filter,omitempty"`
	IsDenormalized bool              `yaml:"denormalized,omitempty"`
}

// Validate enforces spec.md section 3.1's NodeSchema invariants.
func (n *NodeSchema) Validate() error {
	if len(n.ID.Columns) == 0 {
		return perr.NodeIdColumnNotConfiguredKind.New(n.Label)
	}
	seen := map[string]string{}
	for prop, col := range n.Properties {
		if other, ok := seen[col]; ok {
			return perr.InvalidRenderPlanKind.New("node " + n.Label + ": columns " + other + " and " + prop + " both map to " + col)
		}
		seen[col] = prop
	}
	return nil
}

// ParamViewParam is one declared parameter of a parameterized tenant view.
type ParamViewParam struct {
	Name    string `yaml:"name"`
	Default string `yaml:"default,omitempty"`
}

// RelationshipSchema is one relationship-type -> physical-source mapping.
type RelationshipSchema struct {
	Type     string `yaml:"type"`
	Database string `yaml:"database"`
	Table    string `yaml:"table"`

	FromLabel string `yaml:"from_label"`
	ToLabel   string `yaml:"to_label"`

	FromIDColumn string `yaml:"from_id_column"`
	ToIDColumn   string `yaml:"to_id_column"`

	Properties map[string]string `yaml:"properties"`

	ConstraintExpr string `yaml:"constraint,omitempty"`

	ParamViewParams []ParamViewParam `yaml:"view_params,omitempty"`

	// Bitmap selects the bitmap traversal strategy (analyzer pass 3); the
	// default is edge-list.
	Bitmap bool `yaml:"bitmap,omitempty"`

	// PolymorphicTypeColumn/PolymorphicTypeValues configure a polymorphic
	// edge: one physical table storing multiple relationship types,
	// distinguished by a type column (spec.md GLOSSARY).
	PolymorphicTypeColumn string   `yaml:"polymorphic_type_column,omitempty"`
	PolymorphicTypeValues []string `yaml:"polymorphic_type_values,omitempty"`

	Coupling *CouplingInfo `yaml:"coupling,omitempty"`
}

// ShouldUseEdgeList reports whether analyzer pass 3 should plan this
// relationship as an edge-list traversal (the default) rather than bitmap.
func (r *RelationshipSchema) ShouldUseEdgeList() bool { return !r.Bitmap }

// IsPolymorphic reports whether this relationship's table carries more than
// one relationship type.
func (r *RelationshipSchema) IsPolymorphic() bool { return r.PolymorphicTypeColumn != "" }

// Validate enforces spec.md section 3.1's RelationshipSchema invariants
// given the node set they must reference.
func (r *RelationshipSchema) Validate(nodes map[string]*NodeSchema) error {
	if r.FromIDColumn == "" || r.ToIDColumn == "" {
		return perr.NodeIdColumnNotConfiguredKind.New(r.Type)
	}
	if _, ok := nodes[r.FromLabel]; !ok {
		return perr.NoNodeSchemaFoundKind.New(r.FromLabel)
	}
	if _, ok := nodes[r.ToLabel]; !ok {
		return perr.NoNodeSchemaFoundKind.New(r.ToLabel)
	}
	seen := map[string]string{}
	for prop, col := range r.Properties {
		if other, ok := seen[col]; ok {
			return perr.InvalidRenderPlanKind.New("relationship " + r.Type + ": columns " + other + " and " + prop + " both map to " + col)
		}
		seen[col] = prop
	}
	return nil
}

// GraphSchema is the full immutable catalog consumed by every analyzer
// pass (spec.md section 3.1).
type GraphSchema struct {
	Name          string                         `yaml:"name"`
	Nodes         map[string]*NodeSchema         `yaml:"nodes"`
	Relationships map[string]*RelationshipSchema `yaml:"relationships"`
}

// Validate checks every invariant in spec.md section 3.1: every
// relationship's from/to nodes exist, id-column sets are non-empty, and
// property maps are injective per table.
func (g *GraphSchema) Validate() error {
	for _, n := range g.Nodes {
		if err := n.Validate(); err != nil {
			return err
		}
	}
	for _, r := range g.Relationships {
		if err := r.Validate(g.Nodes); err != nil {
			return err
		}
	}
	return nil
}

// Node looks up a node schema by label.
func (g *GraphSchema) Node(label string) (*NodeSchema, error) {
	n, ok := g.Nodes[label]
	if !ok {
		return nil, perr.NoNodeSchemaFoundKind.New(label)
	}
	return n, nil
}

// Relationship looks up a relationship schema by type, verifying the
// from/to labels match one direction of the schema (spec.md section 8.1:
// table_name(start=A, end=B, R) succeeds only for the schema's own
// from/to pair).
func (g *GraphSchema) Relationship(relType, fromLabel, toLabel string) (*RelationshipSchema, Direction, error) {
	r, ok := g.Relationships[relType]
	if !ok {
		return nil, "", perr.NoRelationSchemaFoundKind.New(relType, fromLabel, toLabel)
	}
	switch {
	case r.FromLabel == fromLabel && r.ToLabel == toLabel:
		return r, DirOutgoing, nil
	case r.FromLabel == toLabel && r.ToLabel == fromLabel:
		return r, DirIncoming, nil
	default:
		return nil, "", perr.NoRelationSchemaFoundKind.New(relType, fromLabel, toLabel)
	}
}

// Direction names which way a Relationship() lookup matched the schema's
// declared from/to, driving the <Rel>_outgoing / <Rel>_incoming table-name
// suffix convention (spec.md section 8.1).
type Direction string

const (
	DirOutgoing Direction = "outgoing"
	DirIncoming Direction = "incoming"
)

// TableName returns the suffixed bitmap-traversal table name for a
// direction, e.g. FOLLOWS_outgoing / FOLLOWS_incoming (spec.md section 8.1,
// section 6.3).
func (r *RelationshipSchema) TableName(dir Direction) string {
	return r.Type + "_" + string(dir)
}
