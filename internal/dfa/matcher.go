package dfa

import "golang.org/x/sys/cpu"

// hasAVX2 is a pure-Go dispatch hint, the same style the teacher's simd
// package uses to pick an implementation by CPU feature (§12 DOMAIN
// STACK). No assembly is involved: both loops below compute identical
// results, the flag only chooses the batch size of the step loop.
var hasAVX2 = cpu.X86.HasAVX2

// Matcher runs a DFA against whole-string input (§4.6). It borrows its
// DFA for the duration of each call and never mutates it.
type Matcher struct {
	dfa *DFA
}

// NewMatcher wraps d for matching.
func NewMatcher(d *DFA) *Matcher {
	return &Matcher{dfa: d}
}

// Match reports whether input is accepted in its entirety.
func (m *Matcher) Match(input []byte) bool {
	state, dead := m.run(input)
	if dead {
		return false
	}
	return m.dfa.IsAccepting(state)
}

// MatchingIDs returns the ascending token IDs accepted for input, or nil
// if input is not accepted by any pattern.
func (m *Matcher) MatchingIDs(input []byte) []uint32 {
	state, dead := m.run(input)
	if dead {
		return nil
	}
	return m.dfa.AcceptingIDs(state)
}

// run steps the DFA over every byte of input, short-circuiting to the
// dead state (§4.6). dead is true iff matching terminated early because
// the dead state was reached.
func (m *Matcher) run(input []byte) (state uint32, dead bool) {
	if hasAVX2 {
		return m.runUnrolled(input)
	}
	return m.runScalar(input)
}

func (m *Matcher) runScalar(input []byte) (uint32, bool) {
	state := uint32(1)
	for _, b := range input {
		state = m.step(state, b)
		if state == DeadState {
			return DeadState, true
		}
	}
	return state, false
}

// runUnrolled processes input in batches of 8 bytes. It is behaviorally
// identical to runScalar; the batching only amortizes loop overhead.
func (m *Matcher) runUnrolled(input []byte) (uint32, bool) {
	state := uint32(1)
	i := 0
	for ; i+8 <= len(input); i += 8 {
		for j := 0; j < 8; j++ {
			state = m.step(state, input[i+j])
			if state == DeadState {
				return DeadState, true
			}
		}
	}
	for ; i < len(input); i++ {
		state = m.step(state, input[i])
		if state == DeadState {
			return DeadState, true
		}
	}
	return state, false
}

func (m *Matcher) step(state uint32, b byte) uint32 {
	if idx, ok := m.dfa.SymbolIndex(b); ok {
		return m.dfa.NextState(state, idx)
	}
	return m.dfa.WildcardNextState(state)
}
