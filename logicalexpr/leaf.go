package logicalexpr

import "fmt"

// leaf embeds the zero-children boilerplate shared by every leaf expression.
type leaf struct{}

func (leaf) Children() []Expression { return nil }

func (leaf) withNoChildren(kind string, children []Expression) error {
	if len(children) != 0 {
		return childErr(kind, 0, len(children))
	}
	return nil
}

// Literal is a constant value (number, string, bool, null).
type Literal struct {
	leaf
	Value interface{}
}

func NewLiteral(v interface{}) *Literal { return &Literal{Value: v} }

func (l *Literal) WithChildren(children ...Expression) (Expression, error) {
	if err := l.withNoChildren("Literal", children); err != nil {
		return nil, err
	}
	return l, nil
}
func (l *Literal) Resolved() bool  { return true }
func (l *Literal) String() string { return fmt.Sprintf("%v", l.Value) }

// Star represents the `*` projection item / `alias.*` property wildcard.
type Star struct {
	leaf
	// Alias is empty for bare `*`, set for `alias.*`.
	Alias string
}

func NewStar(alias string) *Star { return &Star{Alias: alias} }

func (s *Star) WithChildren(children ...Expression) (Expression, error) {
	if err := s.withNoChildren("Star", children); err != nil {
		return nil, err
	}
	return s, nil
}
func (s *Star) Resolved() bool { return true }
func (s *Star) String() string {
	if s.Alias == "" {
		return "*"
	}
	return s.Alias + ".*"
}

// Parameter is a named query parameter, rendered as $name in SQL.
type Parameter struct {
	leaf
	Name string
}

func NewParameter(name string) *Parameter { return &Parameter{Name: name} }

func (p *Parameter) WithChildren(children ...Expression) (Expression, error) {
	if err := p.withNoChildren("Parameter", children); err != nil {
		return nil, err
	}
	return p, nil
}
func (p *Parameter) Resolved() bool  { return true }
func (p *Parameter) String() string  { return "$" + p.Name }

// Column references an already-resolved physical column: an alias and a
// column name, with no further property-map lookup needed. Produced by
// PropertyAccess once pass 6 maps it, and used directly by generated code
// that already knows the physical shape (e.g. vlp exterior columns).
type Column struct {
	leaf
	Table  string
	Name   string
	Source string // original alias.prop this column was mapped from, for diagnostics
}

func NewColumn(table, name string) *Column { return &Column{Table: table, Name: name} }

func (c *Column) WithChildren(children ...Expression) (Expression, error) {
	if err := c.withNoChildren("Column", children); err != nil {
		return nil, err
	}
	return c, nil
}
func (c *Column) Resolved() bool { return true }
func (c *Column) String() string {
	if c.Table == "" {
		return c.Name
	}
	return c.Table + "." + c.Name
}

// PropertyAccess is `alias.prop` before pass 6 maps it to a physical Column.
type PropertyAccess struct {
	leaf
	Alias    string
	Property string
}

func NewPropertyAccess(alias, property string) *PropertyAccess {
	return &PropertyAccess{Alias: alias, Property: property}
}

func (p *PropertyAccess) WithChildren(children ...Expression) (Expression, error) {
	if err := p.withNoChildren("PropertyAccess", children); err != nil {
		return nil, err
	}
	return p, nil
}

// Resolved is false until pass 6 replaces this node with a Column: property
// accesses are never themselves valid input to lowering.
func (p *PropertyAccess) Resolved() bool { return false }
func (p *PropertyAccess) String() string { return p.Alias + "." + p.Property }

// CteEntityRef references a whole node/edge alias exported by an earlier
// CTE (WITH pipelining, pass 5). Retained until SELECT-item expansion can
// inline the CTE's exported column list (spec.md section 4.5).
type CteEntityRef struct {
	leaf
	CteName    string
	Alias      string
	EntityType string // "node" or "relationship"
	Columns    []string
}

func (c *CteEntityRef) WithChildren(children ...Expression) (Expression, error) {
	if err := c.withNoChildren("CteEntityRef", children); err != nil {
		return nil, err
	}
	return c, nil
}
func (c *CteEntityRef) Resolved() bool { return true }
func (c *CteEntityRef) String() string { return c.CteName + "." + c.Alias }
