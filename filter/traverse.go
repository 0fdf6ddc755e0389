package filter

// Pass is one step of a tree traversal. Every hook receives the current node,
// which may be nil when an earlier hook pruned it, and the depth of the node
// in the original tree. A hook returns the node to continue with; nil means
// the predicate cannot be expressed and is pruned.
//
// Embed BasePass to get identity hooks and override only what is needed.
type Pass interface {
	// Enter runs before the left subtree is traversed.
	Enter(n Node, depth int) Node

	// Visit runs between the left and right subtrees.
	Visit(n Node, depth int) Node

	// Leave runs after both subtrees.
	Leave(n Node, depth int) Node
}

// BasePass implements Pass with identity hooks.
type BasePass struct{}

func (BasePass) Enter(n Node, _ int) Node { return n }
func (BasePass) Visit(n Node, _ int) Node { return n }
func (BasePass) Leave(n Node, _ int) Node { return n }

// Hooks adapts plain functions to Pass. Nil functions are identity.
type Hooks struct {
	OnEnter func(n Node, depth int) Node
	OnVisit func(n Node, depth int) Node
	OnLeave func(n Node, depth int) Node
}

func (h Hooks) Enter(n Node, depth int) Node {
	if h.OnEnter == nil {
		return n
	}
	return h.OnEnter(n, depth)
}

func (h Hooks) Visit(n Node, depth int) Node {
	if h.OnVisit == nil {
		return n
	}
	return h.OnVisit(n, depth)
}

func (h Hooks) Leave(n Node, depth int) Node {
	if h.OnLeave == nil {
		return n
	}
	return h.OnLeave(n, depth)
}

// Traverse walks root depth first and applies the passes to every node.
// For each node the hooks run in this order, each hook chained through all
// passes in the given order:
//
//  1. Enter.
//  2. The left subtree is traversed and attached as the left child.
//  3. Visit.
//  4. If Visit left the node identity unchanged, the right subtree is
//     traversed and attached. Otherwise the original right subtree is
//     dropped without running any hook on it.
//  5. Leave.
//
// Nodes are never modified in place: attaching a changed child produces a
// new operator. The result is nil when the whole tree was pruned.
func Traverse(root Node, passes ...Pass) (Node, error) {
	if len(passes) == 0 {
		return nil, ErrNoPasses
	}
	t := &traverser{passes: passes}
	return t.traverse(root, 0)
}

type hook int

const (
	hookEnter hook = iota
	hookVisit
	hookLeave
)

type traverser struct {
	passes []Pass
}

func (t *traverser) traverse(n Node, depth int) (Node, error) {
	if n == nil {
		return nil, nil
	}

	result := t.apply(hookEnter, n, depth)

	if left := n.Left(); left != nil {
		child, err := t.traverse(left, depth+1)
		if err != nil {
			return nil, err
		}
		if result != nil {
			if result, err = attach(result, child, true); err != nil {
				return nil, err
			}
		}
	}

	entering := result
	result = t.apply(hookVisit, result, depth)

	if right := n.Right(); right != nil && result == entering {
		child, err := t.traverse(right, depth+1)
		if err != nil {
			return nil, err
		}
		if result != nil {
			if result, err = attach(result, child, false); err != nil {
				return nil, err
			}
		}
	}

	return t.apply(hookLeave, result, depth), nil
}

func (t *traverser) apply(h hook, n Node, depth int) Node {
	for _, p := range t.passes {
		switch h {
		case hookEnter:
			n = p.Enter(n, depth)
		case hookVisit:
			n = p.Visit(n, depth)
		case hookLeave:
			n = p.Leave(n, depth)
		}
	}
	return n
}

// attach sets a child of an operator result, copying the operator when the
// child differs from the current one.
func attach(result, child Node, left bool) (Node, error) {
	op, ok := result.(*Operator)
	if !ok {
		return nil, &TreeShapeError{Msg: "cannot attach a child to an operand"}
	}
	if left {
		return op.withLeft(child), nil
	}
	return op.withRight(child), nil
}
