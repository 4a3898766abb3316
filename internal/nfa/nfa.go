// Package nfa implements the ε-NFA graph model (§3 "NFA") and the
// Thompson construction that builds one from a regex AST (§4.2).
package nfa

import "github.com/coregx/scangen/internal/ast"

// NodeID is a dense, monotonically assigned 32-bit node identifier.
type NodeID uint32

// Edge is a single outgoing transition. Epsilon edges consume no input.
// Wildcard edges match any byte: bytes in the final DFA alphabet through
// the ordinary transitions, every other byte through the per-state
// wildcard fallback (§4.4); Bytes is the explicit symbol set for ordinary
// edges.
type Edge struct {
	To       NodeID
	Bytes    ast.ByteSet
	Wildcard bool
	Epsilon  bool
}

// Node is a single NFA state: a unique ID plus its outgoing edges.
type Node struct {
	id    NodeID
	edges []Edge
}

// ID returns the node's unique identifier.
func (n *Node) ID() NodeID { return n.id }

// AddEdge appends an outgoing edge. Nodes are built up by a Factory and
// wired together before being handed to an NFA; the NFA-level lock
// invariant (below) governs the graph as a whole, not individual nodes.
func (n *Node) AddEdge(e Edge) {
	n.edges = append(n.edges, e)
}

// Edges returns the node's outgoing edges.
func (n *Node) Edges() []Edge { return n.edges }

// Factory allocates unique NodeIDs. A single Factory is shared across an
// entire generator run (every sub-pattern's Thompson construction and the
// façade's combining start state) so node identities never collide once
// fragments are merged into one graph (§4.2, §4.7).
type Factory struct {
	next NodeID
}

// NewFactory returns a Factory starting its ID sequence at 0.
func NewFactory() *Factory {
	return &Factory{}
}

// NewNode allocates and returns a fresh, edge-less node.
func (f *Factory) NewNode() *Node {
	id := f.next
	f.next++
	return &Node{id: id}
}

// NFA is a mutable-then-frozen graph: a start state and its node
// collection. Lock builds an ID→node lookup table, after which AddNode
// fails (§3 "Invariants"). Lock does not guard individual nodes:
// Node.AddEdge still succeeds on a node of a locked NFA.
type NFA struct {
	start  NodeID
	nodes  []*Node
	locked bool
	byID   map[NodeID]*Node
}

// New assembles an NFA from its start state and the full set of nodes
// reachable from it (and from any other fragment merged into the graph).
func New(start NodeID, nodes []*Node) *NFA {
	return &NFA{start: start, nodes: nodes}
}

// StartNodeID returns the NFA's start state.
func (n *NFA) StartNodeID() NodeID { return n.start }

// AddNode adds a node to the collection. It fails with an
// InvariantViolation once the NFA is locked.
func (n *NFA) AddNode(node *Node) error {
	if n.locked {
		return &InvariantError{Op: "AddNode", Err: ErrLocked}
	}
	n.nodes = append(n.nodes, node)
	return nil
}

// Lock freezes the graph and builds the ID→node lookup table that
// NodeByID requires. Locking twice is a no-op, not an error.
func (n *NFA) Lock() {
	if n.locked {
		return
	}
	n.byID = make(map[NodeID]*Node, len(n.nodes))
	for _, node := range n.nodes {
		n.byID[node.id] = node
	}
	n.locked = true
}

// NodeByID looks up a node by ID. It fails with an InvariantViolation if
// the NFA has not yet been locked, since the lookup table is only built
// at Lock time (§3 "Invariants").
func (n *NFA) NodeByID(id NodeID) (*Node, error) {
	if !n.locked {
		return nil, &InvariantError{Op: "NodeByID", Err: ErrNotLocked}
	}
	node, ok := n.byID[id]
	if !ok {
		return nil, &InvariantError{Op: "NodeByID", Err: ErrUnknownNode}
	}
	return node, nil
}

// Locked reports whether Lock has been called.
func (n *NFA) Locked() bool { return n.locked }

// NodeCount returns the number of nodes in the graph.
func (n *NFA) NodeCount() int { return len(n.nodes) }
