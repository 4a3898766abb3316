package generator

import (
	"github.com/coregx/ahocorasick"
	"github.com/coregx/scangen/internal/ast"
)

// LiteralIndex is a diagnostic-only Aho-Corasick automaton over every
// pure-literal pattern in a generation run (§12 DOMAIN STACK). It is
// never consulted during matching: Aho-Corasick answers substring
// containment, not whole-string equality, so it would be unsound to use
// it to short-circuit Matcher.MatchingIDs for a pattern list that mixes
// literal and non-literal patterns. It exists to back --profile
// statistics.
type LiteralIndex struct {
	automaton *ahocorasick.Automaton
	count     int
}

// ContainsAnyLiteral reports whether line contains any recorded literal
// pattern as a substring. Exposed for tests, not for match
// short-circuiting; --profile reports only LiteralCount.
func (l *LiteralIndex) ContainsAnyLiteral(line []byte) bool {
	if l == nil || l.automaton == nil {
		return false
	}
	return l.automaton.IsMatch(line)
}

// LiteralCount returns how many patterns contributed to the index.
func (l *LiteralIndex) LiteralCount() int {
	if l == nil {
		return 0
	}
	return l.count
}

// literalBytes reports the exact byte string n matches if n is a pure
// literal: a Concatenation spine of single-member, non-wildcard Leafs,
// with no Union, Kleene, or Optional anywhere in it.
func literalBytes(n *ast.Node) ([]byte, bool) {
	switch n.Kind {
	case ast.Leaf:
		if n.Wildcard {
			return nil, false
		}
		members := n.Bytes.Values()
		if len(members) != 1 {
			return nil, false
		}
		return []byte{members[0]}, true
	case ast.Concat:
		left, ok := literalBytes(n.Left)
		if !ok {
			return nil, false
		}
		right, ok := literalBytes(n.Right)
		if !ok {
			return nil, false
		}
		return append(left, right...), true
	default:
		return nil, false
	}
}

// buildLiteralIndex builds a LiteralIndex over the patterns whose AST is
// a pure literal. It returns (nil, false) if none are.
func buildLiteralIndex(trees []*ast.Node) (*LiteralIndex, bool) {
	builder := ahocorasick.NewBuilder()
	count := 0
	for _, tree := range trees {
		if lit, ok := literalBytes(tree); ok {
			builder.AddPattern(lit)
			count++
		}
	}
	if count == 0 {
		return nil, false
	}
	automaton, err := builder.Build()
	if err != nil {
		return nil, false
	}
	return &LiteralIndex{automaton: automaton, count: count}, true
}
