package dfa

import (
	"sort"

	"github.com/coregx/scangen/internal/nfa"
	"github.com/coregx/scangen/internal/stateset"
)

// Build runs the power-set (subset) construction over a locked NFA,
// producing a DFA whose alphabet is exactly the set of bytes named
// literally by some edge (§4.4). acceptingTokenIDs maps each NFA node
// that Thompson construction marked as an accepting state to the token
// ID of the pattern it belongs to (§4.7).
func Build(n *nfa.NFA, acceptingTokenIDs map[nfa.NodeID]uint32) (*DFA, error) {
	alphabet, err := deriveAlphabet(n)
	if err != nil {
		return nil, err
	}

	start, err := epsilonClosure(n, []nfa.NodeID{n.StartNodeID()})
	if err != nil {
		return nil, err
	}
	start.Lock()

	builder := &subsetBuilder{
		nfa:           n,
		alphabet:      alphabet,
		accepting:     acceptingTokenIDs,
		keyToID:       make(map[string]uint32),
		sets:          []*stateset.Set{nil}, // index 0 reserved for the dead state
		worklist:      nil,
	}

	startID := builder.allocate(start)
	builder.worklist = append(builder.worklist, startID)

	for len(builder.worklist) > 0 {
		t := builder.worklist[0]
		builder.worklist = builder.worklist[1:]
		if err := builder.expand(t); err != nil {
			return nil, err
		}
	}

	return builder.finish()
}

// deriveAlphabet collects the union of explicit symbol bytes mentioned on
// any non-ε edge, in ascending order. Wildcard-only edges never
// contribute a symbol (§4.4 "Alphabet derivation").
func deriveAlphabet(n *nfa.NFA) ([]byte, error) {
	var present [256]bool
	for id := nfa.NodeID(0); int(id) < n.NodeCount(); id++ {
		node, err := n.NodeByID(id)
		if err != nil {
			return nil, err
		}
		for _, e := range node.Edges() {
			if e.Epsilon || e.Wildcard {
				continue
			}
			for _, b := range e.Bytes.Values() {
				present[b] = true
			}
		}
	}
	out := make([]byte, 0, 16)
	for b := 0; b < 256; b++ {
		if present[b] {
			out = append(out, byte(b))
		}
	}
	return out, nil
}

// epsilonClosure computes ε(Q): the least set containing Q closed under
// ε-edges (§4.4).
func epsilonClosure(n *nfa.NFA, seed []nfa.NodeID) (*stateset.Set, error) {
	visited := make(map[nfa.NodeID]bool)
	stack := append([]nfa.NodeID(nil), seed...)
	for _, id := range seed {
		visited[id] = true
	}
	set := stateset.New(seed...)

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node, err := n.NodeByID(id)
		if err != nil {
			return nil, err
		}
		for _, e := range node.Edges() {
			if !e.Epsilon || visited[e.To] {
				continue
			}
			visited[e.To] = true
			_ = set.Add(e.To)
			stack = append(stack, e.To)
		}
	}
	return set, nil
}

// move computes { q' | ∃ q ∈ T, edge q→q' whose symbols contain c or is
// a wildcard } (§4.4). If wildcardOnly is true, only wildcard edges are
// followed (used to compute the per-state wildcard fallback).
func move(n *nfa.NFA, t *stateset.Set, c byte, wildcardOnly bool) ([]nfa.NodeID, error) {
	var out []nfa.NodeID
	for _, id := range t.IDs() {
		node, err := n.NodeByID(id)
		if err != nil {
			return nil, err
		}
		for _, e := range node.Edges() {
			if e.Epsilon {
				continue
			}
			if wildcardOnly {
				if e.Wildcard {
					out = append(out, e.To)
				}
				continue
			}
			if e.Wildcard || e.Bytes.Contains(c) {
				out = append(out, e.To)
			}
		}
	}
	return out, nil
}

type subsetBuilder struct {
	nfa             *nfa.NFA
	alphabet        []byte
	accepting       map[nfa.NodeID]uint32
	keyToID         map[string]uint32
	sets            []*stateset.Set // index == DFA state ID
	worklist        []uint32
	pending         []pendingEdge
	pendingWildcard []pendingEdge
}

// allocate looks up or creates a DFA state ID for a locked, canonical
// state set.
func (b *subsetBuilder) allocate(set *stateset.Set) uint32 {
	key := set.Key()
	if id, ok := b.keyToID[key]; ok {
		return id
	}
	id := uint32(len(b.sets))
	b.sets = append(b.sets, set)
	b.keyToID[key] = id
	return id
}

func (b *subsetBuilder) expand(stateID uint32) error {
	t := b.sets[stateID]

	for _, c := range b.alphabet {
		moved, err := move(b.nfa, t, c, false)
		if err != nil {
			return err
		}
		target, err := b.target(moved)
		if err != nil {
			return err
		}
		b.recordTransition(stateID, c, target)
	}

	wildcardMoved, err := move(b.nfa, t, 0, true)
	if err != nil {
		return err
	}
	fallback, err := b.target(wildcardMoved)
	if err != nil {
		return err
	}
	b.recordWildcard(stateID, fallback)

	return nil
}

// target resolves a moved node set to a DFA state, allocating and
// enqueueing a new one if this is the first time the (closed) set is
// seen. An empty set targets the dead state.
func (b *subsetBuilder) target(moved []nfa.NodeID) (uint32, error) {
	if len(moved) == 0 {
		return DeadState, nil
	}
	closed, err := epsilonClosure(b.nfa, moved)
	if err != nil {
		return 0, err
	}
	closed.Lock()
	if closed.IsEmpty() {
		return DeadState, nil
	}

	key := closed.Key()
	if id, ok := b.keyToID[key]; ok {
		return id, nil
	}
	id := b.allocate(closed)
	b.worklist = append(b.worklist, id)
	return id, nil
}

// recordTransition / recordWildcard stash pending edges until the final
// table is sized; see finish.
type pendingEdge struct {
	state  uint32
	symbol byte
	target uint32
}

func (b *subsetBuilder) recordTransition(state uint32, symbol byte, target uint32) {
	b.pending = append(b.pending, pendingEdge{state: state, symbol: symbol, target: target})
}

func (b *subsetBuilder) recordWildcard(state uint32, target uint32) {
	b.pendingWildcard = append(b.pendingWildcard, pendingEdge{state: state, target: target})
}

func (b *subsetBuilder) finish() (*DFA, error) {
	d := New(len(b.sets), b.alphabet)

	// Dead state loops to itself on every symbol and on the wildcard
	// fallback (§4.5).
	for i := range b.alphabet {
		d.SetNextState(DeadState, i, DeadState)
	}
	d.SetWildcardNextState(DeadState, DeadState)

	for _, e := range b.pending {
		idx, _ := d.SymbolIndex(e.symbol)
		d.SetNextState(e.state, idx, e.target)
	}
	for _, e := range b.pendingWildcard {
		d.SetWildcardNextState(e.state, e.target)
	}

	for stateID := uint32(1); int(stateID) < len(b.sets); stateID++ {
		ids := b.acceptingIDsFor(b.sets[stateID])
		d.SetAccepting(stateID, ids)
	}

	return d, nil
}

// acceptingIDsFor returns the ascending, deduplicated token IDs of every
// NFA accepting state contained in set (§4.4 "Accepting metadata").
func (b *subsetBuilder) acceptingIDsFor(set *stateset.Set) []uint32 {
	seen := make(map[uint32]bool)
	var ids []uint32
	for _, id := range set.IDs() {
		tokenID, ok := b.accepting[id]
		if !ok || seen[tokenID] {
			continue
		}
		seen[tokenID] = true
		ids = append(ids, tokenID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
