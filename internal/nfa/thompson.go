package nfa

import "github.com/coregx/scangen/internal/ast"

// Fragment is the output of compiling one AST subtree: a sub-automaton
// with exactly one start state and one accepting state, plus every node
// created while building it (§4.2).
type Fragment struct {
	Start  *Node
	Accept *Node
	Nodes  []*Node
}

// Compile performs the Thompson construction: a structural recursion over
// the AST that produces one Fragment per node, using factory to allocate
// every node so identities stay unique across an entire generator run
// (§4.2). The returned fragment is not locked; callers combine fragments
// (§4.7) before freezing the final graph with FromFragment.
func Compile(n *ast.Node, factory *Factory) *Fragment {
	switch n.Kind {
	case ast.Leaf:
		return compileLeaf(n, factory)
	case ast.Concat:
		return compileConcat(n, factory)
	case ast.Union:
		return compileUnion(n, factory)
	case ast.Kleene:
		return compileKleene(n, factory)
	case ast.Optional:
		return compileOptional(n, factory)
	default:
		panic("nfa: unknown ast.Kind")
	}
}

func compileLeaf(n *ast.Node, factory *Factory) *Fragment {
	start := factory.NewNode()
	accept := factory.NewNode()
	start.AddEdge(Edge{To: accept.ID(), Bytes: n.Bytes, Wildcard: n.Wildcard})
	return &Fragment{Start: start, Accept: accept, Nodes: []*Node{start, accept}}
}

func compileConcat(n *ast.Node, factory *Factory) *Fragment {
	left := Compile(n.Left, factory)
	right := Compile(n.Right, factory)
	left.Accept.AddEdge(Edge{To: right.Start.ID(), Epsilon: true})

	nodes := make([]*Node, 0, len(left.Nodes)+len(right.Nodes))
	nodes = append(nodes, left.Nodes...)
	nodes = append(nodes, right.Nodes...)
	return &Fragment{Start: left.Start, Accept: right.Accept, Nodes: nodes}
}

func compileUnion(n *ast.Node, factory *Factory) *Fragment {
	left := Compile(n.Left, factory)
	right := Compile(n.Right, factory)

	start := factory.NewNode()
	accept := factory.NewNode()
	start.AddEdge(Edge{To: left.Start.ID(), Epsilon: true})
	start.AddEdge(Edge{To: right.Start.ID(), Epsilon: true})
	left.Accept.AddEdge(Edge{To: accept.ID(), Epsilon: true})
	right.Accept.AddEdge(Edge{To: accept.ID(), Epsilon: true})

	nodes := make([]*Node, 0, len(left.Nodes)+len(right.Nodes)+2)
	nodes = append(nodes, start)
	nodes = append(nodes, left.Nodes...)
	nodes = append(nodes, right.Nodes...)
	nodes = append(nodes, accept)
	return &Fragment{Start: start, Accept: accept, Nodes: nodes}
}

func compileKleene(n *ast.Node, factory *Factory) *Fragment {
	child := Compile(n.Left, factory)

	start := factory.NewNode()
	accept := factory.NewNode()
	start.AddEdge(Edge{To: child.Start.ID(), Epsilon: true})
	start.AddEdge(Edge{To: accept.ID(), Epsilon: true})
	child.Accept.AddEdge(Edge{To: child.Start.ID(), Epsilon: true})
	child.Accept.AddEdge(Edge{To: accept.ID(), Epsilon: true})

	nodes := make([]*Node, 0, len(child.Nodes)+2)
	nodes = append(nodes, start)
	nodes = append(nodes, child.Nodes...)
	nodes = append(nodes, accept)
	return &Fragment{Start: start, Accept: accept, Nodes: nodes}
}

func compileOptional(n *ast.Node, factory *Factory) *Fragment {
	child := Compile(n.Left, factory)

	start := factory.NewNode()
	accept := factory.NewNode()
	start.AddEdge(Edge{To: child.Start.ID(), Epsilon: true})
	start.AddEdge(Edge{To: accept.ID(), Epsilon: true})
	child.Accept.AddEdge(Edge{To: accept.ID(), Epsilon: true})

	nodes := make([]*Node, 0, len(child.Nodes)+2)
	nodes = append(nodes, start)
	nodes = append(nodes, child.Nodes...)
	nodes = append(nodes, accept)
	return &Fragment{Start: start, Accept: accept, Nodes: nodes}
}

// FromFragment wraps a (possibly combined) fragment's node set into a
// locked NFA rooted at start.
func FromFragment(start *Node, nodes []*Node) *NFA {
	n := New(start.ID(), nodes)
	n.Lock()
	return n
}
