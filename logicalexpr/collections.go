package logicalexpr

import "strings"

// List is a literal list expression, [a, b, c].
type List struct {
	Items []Expression
}

func NewList(items ...Expression) *List { return &List{Items: items} }

func (l *List) Children() []Expression { return l.Items }

func (l *List) WithChildren(children ...Expression) (Expression, error) {
	return &List{Items: children}, nil
}

func (l *List) Resolved() bool {
	for _, i := range l.Items {
		if !i.Resolved() {
			return false
		}
	}
	return true
}

func (l *List) String() string {
	parts := make([]string, len(l.Items))
	for i, it := range l.Items {
		parts[i] = it.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// MapEntry is one key/value pair of a Map literal.
type MapEntry struct {
	Key   string
	Value Expression
}

// Map is a literal map expression, {k1: v1, k2: v2}.
type Map struct {
	Entries []MapEntry
}

func (m *Map) Children() []Expression {
	out := make([]Expression, len(m.Entries))
	for i, e := range m.Entries {
		out[i] = e.Value
	}
	return out
}

func (m *Map) WithChildren(children ...Expression) (Expression, error) {
	if len(children) != len(m.Entries) {
		return nil, childErr("Map", len(m.Entries), len(children))
	}
	entries := make([]MapEntry, len(m.Entries))
	for i, e := range m.Entries {
		entries[i] = MapEntry{Key: e.Key, Value: children[i]}
	}
	return &Map{Entries: entries}, nil
}

func (m *Map) Resolved() bool {
	for _, e := range m.Entries {
		if !e.Value.Resolved() {
			return false
		}
	}
	return true
}

func (m *Map) String() string {
	parts := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		parts[i] = e.Key + ": " + e.Value.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// CaseBranch is one WHEN cond THEN result arm of a Case expression.
type CaseBranch struct {
	Cond   Expression
	Result Expression
}

// Case is a CASE [expr] WHEN ... THEN ... ELSE ... END expression. Expr is
// nil for the searched form (CASE WHEN cond ...).
type Case struct {
	Expr    Expression // optional
	Whens   []CaseBranch
	Else    Expression // optional
}

func (c *Case) Children() []Expression {
	var out []Expression
	if c.Expr != nil {
		out = append(out, c.Expr)
	}
	for _, w := range c.Whens {
		out = append(out, w.Cond, w.Result)
	}
	if c.Else != nil {
		out = append(out, c.Else)
	}
	return out
}

func (c *Case) WithChildren(children ...Expression) (Expression, error) {
	i := 0
	out := &Case{}
	if c.Expr != nil {
		out.Expr = children[i]
		i++
	}
	out.Whens = make([]CaseBranch, len(c.Whens))
	for j := range c.Whens {
		out.Whens[j] = CaseBranch{Cond: children[i], Result: children[i+1]}
		i += 2
	}
	if c.Else != nil {
		out.Else = children[i]
		i++
	}
	if i != len(children) {
		return nil, childErr("Case", i, len(children))
	}
	return out, nil
}

func (c *Case) Resolved() bool {
	if c.Expr != nil && !c.Expr.Resolved() {
		return false
	}
	for _, w := range c.Whens {
		if !w.Cond.Resolved() || !w.Result.Resolved() {
			return false
		}
	}
	return c.Else == nil || c.Else.Resolved()
}

func (c *Case) String() string {
	var b strings.Builder
	b.WriteString("CASE ")
	if c.Expr != nil {
		b.WriteString(c.Expr.String() + " ")
	}
	for _, w := range c.Whens {
		b.WriteString("WHEN " + w.Cond.String() + " THEN " + w.Result.String() + " ")
	}
	if c.Else != nil {
		b.WriteString("ELSE " + c.Else.String() + " ")
	}
	b.WriteString("END")
	return b.String()
}

// Subscript is list[index] or map[key].
type Subscript struct {
	Target Expression
	Index  Expression
}

func (s *Subscript) Children() []Expression { return []Expression{s.Target, s.Index} }

func (s *Subscript) WithChildren(children ...Expression) (Expression, error) {
	if len(children) != 2 {
		return nil, childErr("Subscript", 2, len(children))
	}
	return &Subscript{Target: children[0], Index: children[1]}, nil
}

func (s *Subscript) Resolved() bool { return s.Target.Resolved() && s.Index.Resolved() }
func (s *Subscript) String() string { return s.Target.String() + "[" + s.Index.String() + "]" }

// Slice is list[from..to]; From/To may be nil for an open end.
type Slice struct {
	Target   Expression
	From, To Expression
}

func (s *Slice) Children() []Expression {
	out := []Expression{s.Target}
	if s.From != nil {
		out = append(out, s.From)
	}
	if s.To != nil {
		out = append(out, s.To)
	}
	return out
}

func (s *Slice) WithChildren(children ...Expression) (Expression, error) {
	i := 1
	out := &Slice{Target: children[0]}
	if s.From != nil {
		out.From = children[i]
		i++
	}
	if s.To != nil {
		out.To = children[i]
		i++
	}
	if i != len(children) {
		return nil, childErr("Slice", i, len(children))
	}
	return out, nil
}

func (s *Slice) Resolved() bool {
	if !s.Target.Resolved() {
		return false
	}
	if s.From != nil && !s.From.Resolved() {
		return false
	}
	return s.To == nil || s.To.Resolved()
}

func (s *Slice) String() string {
	from, to := "", ""
	if s.From != nil {
		from = s.From.String()
	}
	if s.To != nil {
		to = s.To.String()
	}
	return s.Target.String() + "[" + from + ".." + to + "]"
}
