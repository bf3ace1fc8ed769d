package logicalplan

import (
	"github.com/brahmand-io/graphplan/perr"
)

// ExtractTableName returns the physical table name backing a node, drilling
// through GraphNode -> ViewScan/Scan. Fails rather than guessing (spec.md
// section 4.1) if the alias has no resolvable table.
func ExtractTableName(n Node) (string, error) {
	switch v := n.(type) {
	case *GraphNode:
		return ExtractTableName(v.Child)
	case *ViewScan:
		return v.SourceTable, nil
	case *Scan:
		return v.Table, nil
	default:
		return "", perr.TableNameNotFoundKind.New("<unknown>")
	}
}

// ExtractEndNodeTableName drills down to GraphRel.Right recursively to find
// the table backing the rightmost bound node of a (possibly nested)
// GraphRel subtree. Exists because the naive "left_connection is the
// anchor" rule fails for nested patterns where the shared node sits on the
// right of the inner subtree (spec.md section 9's design note); callers
// needing the anchor on the right side must use this rather than assuming
// Center is always the relationship table.
func ExtractEndNodeTableName(n Node) (string, error) {
	switch v := n.(type) {
	case *GraphRel:
		if v.Right != nil {
			if _, ok := v.Right.(*GraphRel); ok {
				return ExtractEndNodeTableName(v.Right)
			}
			return ExtractTableName(v.Right)
		}
		return "", perr.TableNameNotFoundKind.New(v.RightConnection)
	case *GraphNode:
		return ExtractTableName(v)
	default:
		return "", perr.TableNameNotFoundKind.New("<unknown>")
	}
}

// ExtractIDColumn returns the id column(s) of the ViewScan backing a node.
func ExtractIDColumn(n Node) ([]string, error) {
	switch v := n.(type) {
	case *GraphNode:
		return ExtractIDColumn(v.Child)
	case *ViewScan:
		if len(v.IDColumn) == 0 {
			return nil, perr.NodeIdColumnNotConfiguredKind.New(v.SourceTable)
		}
		return v.IDColumn, nil
	default:
		return nil, perr.MissingTableInfoKind.New("no id column for node")
	}
}

// ExtractNodeLabelFromViewScan walks to the GraphNode owning this subtree
// and returns its label, or an error naming the alias if none is bound.
func ExtractNodeLabelFromViewScan(n Node, alias string) (string, error) {
	if gn, ok := n.(*GraphNode); ok {
		if gn.Label == "" {
			return "", perr.MissingLabelKind.New(alias)
		}
		return gn.Label, nil
	}
	return "", perr.CannotResolveNodeTypeKind.New(alias)
}

// FindTableNameForAlias walks the plan looking for the GraphNode or
// GraphRel bound to alias and returns its physical table name.
func FindTableNameForAlias(root Node, alias string) (string, error) {
	var found string
	var walk func(n Node) bool
	walk = func(n Node) bool {
		switch v := n.(type) {
		case *GraphNode:
			if v.Alias == alias {
				name, err := ExtractTableName(v)
				if err == nil {
					found = name
				}
				return true
			}
		case *GraphRel:
			if v.Alias == alias {
				return true
			}
		}
		for _, c := range n.Children() {
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(root)
	if found == "" {
		return "", perr.TableNameNotFoundKind.New(alias)
	}
	return found, nil
}

// GetNodeLabelForAlias walks the plan for the GraphNode bound to alias and
// returns its label.
func GetNodeLabelForAlias(root Node, alias string) (string, error) {
	var label string
	var foundAlias bool
	var walk func(n Node)
	walk = func(n Node) {
		if foundAlias {
			return
		}
		if gn, ok := n.(*GraphNode); ok && gn.Alias == alias {
			label = gn.Label
			foundAlias = true
			return
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(root)
	if !foundAlias {
		return "", perr.CannotResolveNodeTypeKind.New(alias)
	}
	return label, nil
}

// RelConnection is one (left, right) alias pair a GraphRel connects.
type RelConnection struct {
	RelAlias   string
	LeftAlias  string
	RightAlias string
}

// GetAllRelationshipConnections walks the plan collecting every GraphRel's
// connection pair, in encounter order.
func GetAllRelationshipConnections(root Node) []RelConnection {
	var out []RelConnection
	var walk func(n Node)
	walk = func(n Node) {
		if gr, ok := n.(*GraphRel); ok {
			out = append(out, RelConnection{RelAlias: gr.Alias, LeftAlias: gr.LeftConnection, RightAlias: gr.RightConnection})
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(root)
	return out
}

// HasVariableLengthRel reports whether any GraphRel under root is a
// variable-length pattern.
func HasVariableLengthRel(root Node) bool {
	found := false
	var walk func(n Node)
	walk = func(n Node) {
		if found {
			return
		}
		if gr, ok := n.(*GraphRel); ok && gr.HasVariableLength() {
			found = true
			return
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(root)
	return found
}

// GetPathVariable returns the path variable bound somewhere under root, if
// any.
func GetPathVariable(root Node) (string, bool) {
	var out string
	var ok bool
	var walk func(n Node)
	walk = func(n Node) {
		if ok {
			return
		}
		if gr, isRel := n.(*GraphRel); isRel && gr.PathVariable != "" {
			out = gr.PathVariable
			ok = true
			return
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(root)
	return out, ok
}

// IsNodeDenormalized reports whether the GraphNode bound to alias has no
// independent table (spec.md section 3.2: its properties live on an
// incident edge's table).
func IsNodeDenormalized(root Node, alias string) bool {
	found := false
	var walk func(n Node)
	walk = func(n Node) {
		if found {
			return
		}
		if gn, ok := n.(*GraphNode); ok && gn.Alias == alias {
			found = gn.IsDenormalized
			return
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(root)
	return found
}
