// Package perr defines the typed error taxonomy the planner surfaces to its
// caller. Every planning failure is a *errors.Kind from gopkg.in/src-d/go-errors.v1,
// never a bare fmt.Errorf, so callers can match on error identity instead of
// string-sniffing messages.
package perr

import "gopkg.in/src-d/go-errors.v1"

var (
	// NoRelationSchemaFoundKind fires when a relationship label in the
	// pattern has no matching RelationshipSchema entry, or when the
	// resolved from/to node labels do not match any direction of the
	// schema's declared from/to.
	NoRelationSchemaFoundKind = errors.NewKind("no relationship schema found for label %q between %q and %q")

	// NoNodeSchemaFoundKind fires when a node label has no NodeSchema entry.
	NoNodeSchemaFoundKind = errors.NewKind("no node schema found for label %q")

	// MissingLabelKind fires when a node or relationship pattern requires a
	// label to resolve its schema but none was bound.
	MissingLabelKind = errors.NewKind("missing label for alias %q")

	// NoLogicalTableDataForUidKind fires when a physical-plan lookup by uid
	// has no corresponding entry in physical_table_data_by_uid.
	NoLogicalTableDataForUidKind = errors.NewKind("no logical table data for uid %q")

	// MalformedCTENameKind fires when a CTE name does not match any of the
	// naming conventions in spec section 6.3.
	MalformedCTENameKind = errors.NewKind("malformed CTE name %q")

	// MissingFromTableKind fires when FROM selection cannot find any
	// candidate table and the query is not a pure standalone RETURN.
	MissingFromTableKind = errors.NewKind("missing FROM table for query")

	// MissingSelectItemsKind fires when a Projection has no items to render.
	MissingSelectItemsKind = errors.NewKind("missing select items")

	// UnsupportedFeatureKind fires for constructs the planner intentionally
	// rejects rather than silently mis-rewrites (see spec section 7).
	UnsupportedFeatureKind = errors.NewKind("unsupported feature: %s")

	// NoRelationshipTablesFoundKind fires when a multi-type or polymorphic
	// edge resolves to zero candidate relationship tables.
	NoRelationshipTablesFoundKind = errors.NewKind("no relationship tables found for %q")

	// ComplexQueryRequiresCTEsKind fires when a query shape (nested
	// optional/union/with) cannot be lowered without CTE extraction but CTE
	// extraction was disabled by the caller.
	ComplexQueryRequiresCTEsKind = errors.NewKind("query requires CTEs: %s")

	// TableNameNotFoundKind fires when an alias cannot be resolved to any
	// table name during lowering.
	TableNameNotFoundKind = errors.NewKind("table name not found for alias %q")

	// InvalidRenderPlanKind fires when a render plan fails a postcondition
	// check before being handed to the pretty-printer.
	InvalidRenderPlanKind = errors.NewKind("invalid render plan: %s")

	// CannotResolveNodeTypeKind fires when an alias's node label cannot be
	// determined from context (no ViewScan, no GraphNode, no CTE entity).
	CannotResolveNodeTypeKind = errors.NewKind("cannot resolve node type for alias %q")

	// NodeSchemaNotFoundKind is an alias-qualified variant of
	// NoNodeSchemaFoundKind used once a label has already been resolved to
	// an alias.
	NodeSchemaNotFoundKind = errors.NewKind("node schema not found for label %q")

	// NodeIdColumnNotConfiguredKind fires when a NodeSchema has an empty id
	// column descriptor.
	NodeIdColumnNotConfiguredKind = errors.NewKind("node id column not configured for label %q")

	// MissingTableInfoKind fires when a lowering step needs table context
	// (schema, alias, columns) that was never attached upstream.
	MissingTableInfoKind = errors.NewKind("missing table info: %s")

	// AmbiguousAliasKind fires when an alias is bound by more than one
	// pattern in the same scope. Present in the original Rust source
	// (render_plan/errors.rs) but dropped from the distilled taxonomy;
	// restored here (SPEC_FULL.md section 6.4).
	AmbiguousAliasKind = errors.NewKind("alias %q is bound more than once in this scope")

	// EmptyPatternKind fires when a MATCH clause contains no node patterns.
	// Also restored from the original Rust source.
	EmptyPatternKind = errors.NewKind("MATCH clause contains an empty pattern")
)
