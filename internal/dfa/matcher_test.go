package dfa

import (
	"testing"

	"github.com/coregx/scangen/internal/ast"
)

// The following mirror the worked scenarios from the scanner/lexer
// specification's testable-properties section: literal matching, Kleene
// over an alternation, plus-repetition, and wildcard-in-the-middle.

func TestMatchLiteralPattern(t *testing.T) {
	tree := ast.NewLeaf(ast.NewByteSet('a'))
	combined, accepting := buildCombined(t, []*ast.Node{tree})
	d, err := Build(combined, accepting)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	m := NewMatcher(d)

	cases := map[string]bool{"a": true, "": false, "aa": false, "b": false}
	for input, want := range cases {
		if got := m.Match([]byte(input)); got != want {
			t.Errorf("Match(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestMatchKleeneOverAlternation(t *testing.T) {
	abc := ast.NewConcat(ast.NewConcat(ast.NewLeaf(ast.NewByteSet('a')), ast.NewLeaf(ast.NewByteSet('b'))), ast.NewLeaf(ast.NewByteSet('c')))
	def := ast.NewConcat(ast.NewConcat(ast.NewLeaf(ast.NewByteSet('d')), ast.NewLeaf(ast.NewByteSet('e'))), ast.NewLeaf(ast.NewByteSet('f')))
	tree := ast.NewKleene(ast.NewUnion(abc, def))
	combined, accepting := buildCombined(t, []*ast.Node{tree})
	d, err := Build(combined, accepting)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	m := NewMatcher(d)

	cases := map[string]bool{
		"":          true,
		"abc":       true,
		"def":       true,
		"abcdef":    true,
		"defabcabc": true,
		"abcd":      false,
		"ab":        false,
		"abcdefg":   false,
	}
	for input, want := range cases {
		if got := m.Match([]byte(input)); got != want {
			t.Errorf("Match(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestMatchPlusRepetition(t *testing.T) {
	// a+ desugars to Concat(a, Kleene(copy of a)).
	tree := ast.NewConcat(ast.NewLeaf(ast.NewByteSet('a')), ast.NewKleene(ast.NewLeaf(ast.NewByteSet('a'))))
	combined, accepting := buildCombined(t, []*ast.Node{tree})
	d, err := Build(combined, accepting)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	m := NewMatcher(d)

	cases := map[string]bool{"": false, "a": true, "aa": true, "aaaaa": true, "b": false, "ab": false}
	for input, want := range cases {
		if got := m.Match([]byte(input)); got != want {
			t.Errorf("Match(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestMatchWildcardInMiddle(t *testing.T) {
	tree := ast.NewConcat(ast.NewConcat(ast.NewLeaf(ast.NewByteSet('a')), ast.NewWildcard()), ast.NewLeaf(ast.NewByteSet('a')))
	combined, accepting := buildCombined(t, []*ast.Node{tree})
	d, err := Build(combined, accepting)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	m := NewMatcher(d)

	cases := map[string]bool{"aXa": true, "aaa": true, "a a": true, "aa": false, "aXXa": false, "": false}
	for input, want := range cases {
		if got := m.Match([]byte(input)); got != want {
			t.Errorf("Match(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestMatchingIDsAttributesCorrectPattern(t *testing.T) {
	patternA := ast.NewLeaf(ast.NewByteSet('a'))
	patternB := ast.NewLeaf(ast.NewByteSet('b'))
	combined, accepting := buildCombined(t, []*ast.Node{patternA, patternB})
	d, err := Build(combined, accepting)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	m := NewMatcher(d)

	idsA := m.MatchingIDs([]byte("a"))
	if len(idsA) != 1 || idsA[0] != 0 {
		t.Fatalf("MatchingIDs(a) = %v, want [0]", idsA)
	}
	idsB := m.MatchingIDs([]byte("b"))
	if len(idsB) != 1 || idsB[0] != 1 {
		t.Fatalf("MatchingIDs(b) = %v, want [1]", idsB)
	}
	if got := m.MatchingIDs([]byte("c")); got != nil {
		t.Fatalf("MatchingIDs(c) = %v, want nil", got)
	}
}
