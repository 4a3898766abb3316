package stateset

import (
	"testing"

	"github.com/coregx/scangen/internal/nfa"
)

func TestAddToLockedSetFails(t *testing.T) {
	s := New(1)
	s.Lock()

	if err := s.Add(2); err == nil {
		t.Fatalf("Add after Lock succeeded, want InvariantViolation")
	}
}

func TestLockedSetsEqual(t *testing.T) {
	a := New(1, 3)
	a.Lock()
	b := New(3, 1)
	b.Lock()

	eq, err := a.Equal(b)
	if err != nil {
		t.Fatalf("Equal returned error: %v", err)
	}
	if !eq {
		t.Fatalf("{1,3} and {3,1} should compare equal once locked")
	}
}

func TestLockedSetsNotEqual(t *testing.T) {
	a := New(1, 3)
	a.Lock()
	b := New(1, 3, 4)
	b.Lock()

	eq, err := a.Equal(b)
	if err != nil {
		t.Fatalf("Equal returned error: %v", err)
	}
	if eq {
		t.Fatalf("{1,3} and {1,3,4} must not compare equal")
	}
}

func TestCompareWithUnlockedSetFails(t *testing.T) {
	a := New(1, 3)
	a.Lock()
	b := New(1, 3, 4)

	if _, err := a.Equal(b); err == nil {
		t.Fatalf("Equal against an unlocked set succeeded, want InvariantViolation")
	}
}

func TestHashConsistentWithEquality(t *testing.T) {
	a := New(nfa.NodeID(5), nfa.NodeID(2), nfa.NodeID(2))
	a.Lock()
	b := New(nfa.NodeID(2), nfa.NodeID(5))
	b.Lock()

	eq, err := a.Equal(b)
	if err != nil || !eq {
		t.Fatalf("expected {5,2,2} and {2,5} to be equal after dedup/sort, err=%v", err)
	}

	ha, err := a.Hash()
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	hb, err := b.Hash()
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if ha != hb {
		t.Fatalf("equal sets must hash equal: %d != %d", ha, hb)
	}
}

func TestHashBeforeLockFails(t *testing.T) {
	a := New(1)
	if _, err := a.Hash(); err == nil {
		t.Fatalf("Hash before Lock succeeded, want InvariantViolation")
	}
}

func TestDedupAndCanonicalOrder(t *testing.T) {
	a := New(nfa.NodeID(3), nfa.NodeID(1), nfa.NodeID(3), nfa.NodeID(2))
	a.Lock()
	ids := a.IDs()
	want := []nfa.NodeID{1, 2, 3}
	if len(ids) != len(want) {
		t.Fatalf("IDs() = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("IDs() = %v, want %v", ids, want)
		}
	}
}
