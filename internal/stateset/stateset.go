// Package stateset implements the canonical, hashable set of NFA state
// IDs that identifies a DFA state during power-set construction (§4.3).
package stateset

import (
	"encoding/binary"
	"hash/fnv"
	"sort"

	"github.com/coregx/scangen/internal/nfa"
)

// Set is an immutable-after-lock collection of nfa.NodeIDs. Equality is
// order-independent: two sets are equal iff they contain exactly the same
// IDs. It is the worklist key of the power-set construction.
type Set struct {
	ids    []nfa.NodeID
	locked bool
}

// New builds a Set from the given IDs. The set starts unlocked.
func New(ids ...nfa.NodeID) *Set {
	cp := make([]nfa.NodeID, len(ids))
	copy(cp, ids)
	return &Set{ids: cp}
}

// Add inserts id into the set. It fails with an InvariantViolation once
// the set is locked.
func (s *Set) Add(id nfa.NodeID) error {
	if s.locked {
		return &InvariantError{Op: "Add", Err: ErrLocked}
	}
	s.ids = append(s.ids, id)
	return nil
}

// Lock sorts and deduplicates the member IDs into canonical order and
// freezes the set. Locking an already-locked set is a no-op.
func (s *Set) Lock() {
	if s.locked {
		return
	}
	sort.Slice(s.ids, func(i, j int) bool { return s.ids[i] < s.ids[j] })
	deduped := s.ids[:0]
	for i, id := range s.ids {
		if i == 0 || id != deduped[len(deduped)-1] {
			deduped = append(deduped, id)
		}
	}
	s.ids = deduped
	s.locked = true
}

// Locked reports whether Lock has been called.
func (s *Set) Locked() bool { return s.locked }

// IsEmpty reports whether the set has no members.
func (s *Set) IsEmpty() bool { return len(s.ids) == 0 }

// IDs returns the set's members. In canonical (sorted, deduplicated)
// order once locked.
func (s *Set) IDs() []nfa.NodeID { return s.ids }

// Equal reports whether s and other contain exactly the same IDs. Both
// sets must be locked; otherwise Equal fails with an InvariantViolation.
func (s *Set) Equal(other *Set) (bool, error) {
	if !s.locked || !other.locked {
		return false, &InvariantError{Op: "Equal", Err: ErrNotLocked}
	}
	if len(s.ids) != len(other.ids) {
		return false, nil
	}
	for i := range s.ids {
		if s.ids[i] != other.ids[i] {
			return false, nil
		}
	}
	return true, nil
}

// Hash returns a hash consistent with Equal: equal sets always hash
// equal. The set must be locked.
func (s *Set) Hash() (uint64, error) {
	if !s.locked {
		return 0, &InvariantError{Op: "Hash", Err: ErrNotLocked}
	}
	h := fnv.New64a()
	var buf [4]byte
	for _, id := range s.ids {
		binary.LittleEndian.PutUint32(buf[:], uint32(id))
		_, _ = h.Write(buf[:])
	}
	return h.Sum64(), nil
}

// Key returns a canonical string encoding suitable for use as a Go map
// key. The set must be locked for the encoding to be canonical.
func (s *Set) Key() string {
	buf := make([]byte, 4*len(s.ids))
	for i, id := range s.ids {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(id))
	}
	return string(buf)
}
