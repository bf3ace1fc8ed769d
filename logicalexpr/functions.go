package logicalexpr

import "strings"

// FuncCall is a scalar function call: a name and an argument list. Covers
// both built-in scalar functions (length, coalesce, ...) and
// entity-producing calls like nodes(p)/relationships(p) before the
// expression converter rewrites them (spec.md section 4.5).
type FuncCall struct {
	Name string
	Args []Expression
}

func NewFuncCall(name string, args ...Expression) *FuncCall {
	return &FuncCall{Name: name, Args: args}
}

func (f *FuncCall) Children() []Expression { return f.Args }

func (f *FuncCall) WithChildren(children ...Expression) (Expression, error) {
	return &FuncCall{Name: f.Name, Args: children}, nil
}

func (f *FuncCall) Resolved() bool {
	for _, a := range f.Args {
		if !a.Resolved() {
			return false
		}
	}
	return true
}

func (f *FuncCall) String() string {
	args := make([]string, len(f.Args))
	for i, a := range f.Args {
		args[i] = a.String()
	}
	return f.Name + "(" + strings.Join(args, ", ") + ")"
}

// AggFunc is the supported aggregate kind.
type AggFunc int

const (
	AggCount AggFunc = iota
	AggCountDistinct
	AggSum
	AggAvg
	AggMin
	AggMax
	AggCollect
)

func (a AggFunc) String() string {
	switch a {
	case AggCount:
		return "count"
	case AggCountDistinct:
		return "count_distinct"
	case AggSum:
		return "sum"
	case AggAvg:
		return "avg"
	case AggMin:
		return "min"
	case AggMax:
		return "max"
	case AggCollect:
		return "collect"
	default:
		return "?"
	}
}

// AggregateCall is an aggregate function application, e.g. count(a),
// collect(b.name). IsEntityArg is true when Arg is a bare node/relationship
// alias (count(a), collect(b)) rather than a scalar expression, which
// drives the count(*) / groupArray(tuple(...)) lowering rules in spec.md
// section 4.4.5.
type AggregateCall struct {
	Func        AggFunc
	Arg         Expression
	IsEntityArg bool
}

func NewAggregateCall(fn AggFunc, arg Expression, isEntity bool) *AggregateCall {
	return &AggregateCall{Func: fn, Arg: arg, IsEntityArg: isEntity}
}

func (a *AggregateCall) Children() []Expression {
	if a.Arg == nil {
		return nil
	}
	return []Expression{a.Arg}
}

func (a *AggregateCall) WithChildren(children ...Expression) (Expression, error) {
	if a.Arg == nil {
		if len(children) != 0 {
			return nil, childErr("AggregateCall", 0, len(children))
		}
		return &AggregateCall{Func: a.Func, IsEntityArg: a.IsEntityArg}, nil
	}
	if len(children) != 1 {
		return nil, childErr("AggregateCall", 1, len(children))
	}
	return &AggregateCall{Func: a.Func, Arg: children[0], IsEntityArg: a.IsEntityArg}, nil
}

func (a *AggregateCall) Resolved() bool {
	return a.Arg == nil || a.Arg.Resolved()
}

func (a *AggregateCall) String() string {
	if a.Arg == nil {
		return a.Func.String() + "(*)"
	}
	return a.Func.String() + "(" + a.Arg.String() + ")"
}

// Reduce is Cypher's reduce(acc = init, x IN list | expr).
type Reduce struct {
	AccName  string
	Init     Expression
	VarName  string
	List     Expression
	Body     Expression
}

func (r *Reduce) Children() []Expression { return []Expression{r.Init, r.List, r.Body} }

func (r *Reduce) WithChildren(children ...Expression) (Expression, error) {
	if len(children) != 3 {
		return nil, childErr("Reduce", 3, len(children))
	}
	return &Reduce{AccName: r.AccName, Init: children[0], VarName: r.VarName, List: children[1], Body: children[2]}, nil
}

func (r *Reduce) Resolved() bool {
	return r.Init.Resolved() && r.List.Resolved() && r.Body.Resolved()
}

func (r *Reduce) String() string {
	return "reduce(" + r.AccName + " = " + r.Init.String() + ", " + r.VarName + " IN " + r.List.String() + " | " + r.Body.String() + ")"
}

// Lambda is an anonymous `var -> expr` used inside list comprehensions and
// reduce(); kept distinct from Reduce's inline body so other constructs
// (all/any/none predicates) can reuse it.
type Lambda struct {
	VarName string
	Body    Expression
}

func (l *Lambda) Children() []Expression { return []Expression{l.Body} }

func (l *Lambda) WithChildren(children ...Expression) (Expression, error) {
	if len(children) != 1 {
		return nil, childErr("Lambda", 1, len(children))
	}
	return &Lambda{VarName: l.VarName, Body: children[0]}, nil
}

func (l *Lambda) Resolved() bool  { return l.Body.Resolved() }
func (l *Lambda) String() string  { return l.VarName + " -> " + l.Body.String() }
