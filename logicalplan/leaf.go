package logicalplan

import "github.com/brahmand-io/graphplan/logicalexpr"

// Empty is the terminal sentinel node (spec.md section 3.2).
type Empty struct{ leaf0 }

func NewEmpty() *Empty { return &Empty{} }

func (e *Empty) WithChildren(children ...Node) (Node, error) {
	if err := withNoChildren("Empty", children); err != nil {
		return nil, err
	}
	return e, nil
}
func (e *Empty) String() string { return "Empty" }

// Scan is a plain non-graph table reference, replaced under GraphNode/edge
// positions by ViewScan once pass 1 resolves its schema.
type Scan struct {
	leaf0
	Table string
	Alias string
}

func NewScan(table, alias string) *Scan { return &Scan{Table: table, Alias: alias} }

func (s *Scan) WithChildren(children ...Node) (Node, error) {
	if err := withNoChildren("Scan", children); err != nil {
		return nil, err
	}
	return s, nil
}
func (s *Scan) String() string { return "Scan(" + s.Table + " AS " + s.Alias + ")" }

// ParamViewArg is one `key=value` argument to a parameterized view, e.g.
// `tenant_edges(tenant_id='42')`.
type ParamViewArg struct {
	Param string
	Value string
}

// ViewScan is the schema-resolved physical source behind a GraphNode or
// GraphRel, produced by analyzer pass 1 (spec.md section 4.2).
type ViewScan struct {
	leaf0
	SourceTable     string
	IDColumn        []string // one or more columns, spec.md section 3.1
	Properties      map[string]string // property name -> column name
	IsDenormalized  bool
	ViewFilter      logicalexpr.Expression // optional schema-declared filter
	SchemaFilter    logicalexpr.Expression // optional constraint expression
	ParamViewParams []ParamViewArg

	// Edge-only fields; zero value for node ViewScans.
	FromIDColumn string
	ToIDColumn   string
}

func (v *ViewScan) WithChildren(children ...Node) (Node, error) {
	if err := withNoChildren("ViewScan", children); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *ViewScan) IsEdge() bool { return v.FromIDColumn != "" || v.ToIDColumn != "" }

func (v *ViewScan) String() string { return "ViewScan(" + v.SourceTable + ")" }
