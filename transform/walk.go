package transform

import (
	"github.com/brahmand-io/graphplan/logicalexpr"
	"github.com/brahmand-io/graphplan/logicalplan"
)

// NodeFunc rewrites a single logical-plan node, reporting whether it
// changed. Grounded on the teacher's sql/transform.NodeFunc.
type NodeFunc func(n logicalplan.Node) (logicalplan.Node, TreeIdentity, error)

// TransformUp walks n bottom-up, applying f to every node after its
// children have already been transformed, and only reallocating a parent
// when a child (or the node itself) actually changed.
func TransformUp(n logicalplan.Node, f NodeFunc) (logicalplan.Node, TreeIdentity, error) {
	children := n.Children()
	if len(children) == 0 {
		return f(n)
	}

	newChildren := make([]logicalplan.Node, len(children))
	same := SameTree
	for i, c := range children {
		nc, cs, err := TransformUp(c, f)
		if err != nil {
			return nil, SameTree, err
		}
		newChildren[i] = nc
		if cs == NewTree {
			same = NewTree
		}
	}

	cur := n
	if same == NewTree {
		rebuilt, err := n.WithChildren(newChildren...)
		if err != nil {
			return nil, SameTree, err
		}
		cur = rebuilt
	}

	out, s, err := f(cur)
	if err != nil {
		return nil, SameTree, err
	}
	if s == NewTree {
		same = NewTree
	}
	return out, same, nil
}

// TransformDown walks n top-down: f is applied to a node before its
// children are visited, and the (possibly rewritten) node's children are
// then recursed into.
func TransformDown(n logicalplan.Node, f NodeFunc) (logicalplan.Node, TreeIdentity, error) {
	cur, same, err := f(n)
	if err != nil {
		return nil, SameTree, err
	}

	children := cur.Children()
	if len(children) == 0 {
		return cur, same, nil
	}

	newChildren := make([]logicalplan.Node, len(children))
	for i, c := range children {
		nc, cs, err := TransformDown(c, f)
		if err != nil {
			return nil, SameTree, err
		}
		newChildren[i] = nc
		if cs == NewTree {
			same = NewTree
		}
	}

	if same == NewTree {
		rebuilt, err := cur.WithChildren(newChildren...)
		if err != nil {
			return nil, SameTree, err
		}
		cur = rebuilt
	}
	return cur, same, nil
}

// ExpressionFunc rewrites a single logical expression node.
type ExpressionFunc func(e logicalexpr.Expression) (logicalexpr.Expression, TreeIdentity, error)

// TransformExprUp walks an expression tree bottom-up, the expression-tree
// analogue of TransformUp.
func TransformExprUp(e logicalexpr.Expression, f ExpressionFunc) (logicalexpr.Expression, TreeIdentity, error) {
	children := e.Children()
	if len(children) == 0 {
		return f(e)
	}

	newChildren := make([]logicalexpr.Expression, len(children))
	same := SameTree
	for i, c := range children {
		nc, cs, err := TransformExprUp(c, f)
		if err != nil {
			return nil, SameTree, err
		}
		newChildren[i] = nc
		if cs == NewTree {
			same = NewTree
		}
	}

	cur := e
	if same == NewTree {
		rebuilt, err := e.WithChildren(newChildren...)
		if err != nil {
			return nil, SameTree, err
		}
		cur = rebuilt
	}

	out, s, err := f(cur)
	if err != nil {
		return nil, SameTree, err
	}
	if s == NewTree {
		same = NewTree
	}
	return out, same, nil
}

// TransformExprsInNode rewrites every expression reachable from a plan
// node's own expression fields (not its child plan nodes) using f. Each
// plan node kind knows how to expose/replace its own expressions; this
// helper is implemented via the ExpressionContainer interface so the
// transform package does not need a type switch over every node kind in
// logicalplan (which would require logicalplan to avoid depending on
// transform, preserved here).
type ExpressionContainer interface {
	Expressions() []logicalexpr.Expression
	WithExpressions(exprs ...logicalexpr.Expression) (logicalplan.Node, error)
}

// TransformExpressionsUp rewrites every expression of n (if n implements
// ExpressionContainer) bottom-up with f, leaving n unchanged (SameTree) if
// n carries no expressions or none of them change.
func TransformExpressionsUp(n logicalplan.Node, f ExpressionFunc) (logicalplan.Node, TreeIdentity, error) {
	ec, ok := n.(ExpressionContainer)
	if !ok {
		return n, SameTree, nil
	}
	exprs := ec.Expressions()
	if len(exprs) == 0 {
		return n, SameTree, nil
	}
	newExprs := make([]logicalexpr.Expression, len(exprs))
	same := SameTree
	for i, e := range exprs {
		ne, es, err := TransformExprUp(e, f)
		if err != nil {
			return nil, SameTree, err
		}
		newExprs[i] = ne
		if es == NewTree {
			same = NewTree
		}
	}
	if same == SameTree {
		return n, SameTree, nil
	}
	out, err := ec.WithExpressions(newExprs...)
	if err != nil {
		return nil, SameTree, err
	}
	return out, NewTree, nil
}
