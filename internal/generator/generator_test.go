package generator

import (
	"errors"
	"strings"
	"testing"

	"github.com/coregx/scangen/internal/dfa"
)

func mustGenerate(t *testing.T, patterns []string, cfg Config) *Result {
	t.Helper()
	result, err := Generate(patterns, cfg)
	if err != nil {
		t.Fatalf("Generate(%v) returned error: %v", patterns, err)
	}
	return result
}

func TestLoadPatternsTrimsAndSkipsBlankLines(t *testing.T) {
	r := strings.NewReader("  a \n\n\t\nb\n  ")
	patterns, err := LoadPatterns(r)
	if err != nil {
		t.Fatalf("LoadPatterns: %v", err)
	}
	want := []string{"a", "b"}
	if len(patterns) != len(want) {
		t.Fatalf("LoadPatterns = %v, want %v", patterns, want)
	}
	for i := range want {
		if patterns[i] != want[i] {
			t.Fatalf("LoadPatterns[%d] = %q, want %q", i, patterns[i], want[i])
		}
	}
}

func TestLoadPatternsEmptyFails(t *testing.T) {
	_, err := LoadPatterns(strings.NewReader("\n\n  \n"))
	if !errors.Is(err, ErrNoPatterns) {
		t.Fatalf("LoadPatterns on all-blank input = %v, want ErrNoPatterns", err)
	}
}

// S1: a single literal pattern.
func TestGenerateSingleLiteral(t *testing.T) {
	result := mustGenerate(t, []string{"a"}, Config{})
	m := dfa.NewMatcher(result.DFA)
	if !m.Match([]byte("a")) {
		t.Fatalf(`"a" should match pattern "a"`)
	}
	if m.Match([]byte("b")) {
		t.Fatalf(`"b" should not match pattern "a"`)
	}
	if result.Stats.PatternCount != 1 {
		t.Fatalf("PatternCount = %d, want 1", result.Stats.PatternCount)
	}
}

// S2: Kleene over a union.
func TestGenerateKleeneUnion(t *testing.T) {
	result := mustGenerate(t, []string{"(abc|def)*"}, Config{})
	m := dfa.NewMatcher(result.DFA)
	for input, want := range map[string]bool{"": true, "abc": true, "abcdef": true, "abcd": false} {
		if got := m.Match([]byte(input)); got != want {
			t.Errorf("Match(%q) = %v, want %v", input, got, want)
		}
	}
}

// S3: plus repetition.
func TestGeneratePlusRepetition(t *testing.T) {
	result := mustGenerate(t, []string{"a+"}, Config{})
	m := dfa.NewMatcher(result.DFA)
	for input, want := range map[string]bool{"a": true, "aaa": true, "": false} {
		if got := m.Match([]byte(input)); got != want {
			t.Errorf("Match(%q) = %v, want %v", input, got, want)
		}
	}
}

// S4: wildcard in the middle.
func TestGenerateWildcardMiddle(t *testing.T) {
	result := mustGenerate(t, []string{"a.a"}, Config{})
	m := dfa.NewMatcher(result.DFA)
	for input, want := range map[string]bool{"aXa": true, "aa": false, "aXXa": false} {
		if got := m.Match([]byte(input)); got != want {
			t.Errorf("Match(%q) = %v, want %v", input, got, want)
		}
	}
}

// S5: two disjoint literal patterns, checking token ID attribution.
func TestGenerateMultiplePatternsDisjoint(t *testing.T) {
	result := mustGenerate(t, []string{"cat", "dog"}, Config{})
	m := dfa.NewMatcher(result.DFA)

	ids := m.MatchingIDs([]byte("cat"))
	if len(ids) != 1 || ids[0] != 0 {
		t.Fatalf("MatchingIDs(cat) = %v, want [0]", ids)
	}
	ids = m.MatchingIDs([]byte("dog"))
	if len(ids) != 1 || ids[0] != 1 {
		t.Fatalf("MatchingIDs(dog) = %v, want [1]", ids)
	}
	if got := m.MatchingIDs([]byte("fox")); got != nil {
		t.Fatalf("MatchingIDs(fox) = %v, want nil", got)
	}
}

// S6: two overlapping patterns and a round trip through the serializer
// must reproduce identical matching behavior.
func TestGenerateOverlappingPatternsSurviveRoundTrip(t *testing.T) {
	result := mustGenerate(t, []string{"a.*", ".*b"}, Config{})

	var buf strings.Builder
	if err := dfa.Serialize(result.DFA, &buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	reloaded, err := dfa.Deserialize(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}

	before := dfa.NewMatcher(result.DFA)
	after := dfa.NewMatcher(reloaded)

	for _, input := range []string{"ab", "aXXb", "b", "a", ""} {
		wantIDs := before.MatchingIDs([]byte(input))
		gotIDs := after.MatchingIDs([]byte(input))
		if len(wantIDs) != len(gotIDs) {
			t.Fatalf("MatchingIDs(%q) after round trip = %v, want %v", input, gotIDs, wantIDs)
		}
		for i := range wantIDs {
			if wantIDs[i] != gotIDs[i] {
				t.Fatalf("MatchingIDs(%q) after round trip = %v, want %v", input, gotIDs, wantIDs)
			}
		}
	}
}

func TestGenerateAttributesCompileErrorToIndex(t *testing.T) {
	_, err := Generate([]string{"a", "b", "(unbalanced"}, Config{})
	if err == nil {
		t.Fatalf("Generate with a malformed pattern succeeded")
	}
	var compileErr *CompileError
	if !errors.As(err, &compileErr) {
		t.Fatalf("error is not a *CompileError: %v", err)
	}
	if compileErr.Index != 2 {
		t.Fatalf("CompileError.Index = %d, want 2", compileErr.Index)
	}
}

func TestGenerateLiteralIndexDiagnostics(t *testing.T) {
	result := mustGenerate(t, []string{"cat", "a+"}, Config{EnableLiteralIndex: true})
	if result.LiteralIndex == nil {
		t.Fatalf("LiteralIndex is nil, want an index over the literal pattern \"cat\"")
	}
	if result.LiteralIndex.LiteralCount() != 1 {
		t.Fatalf("LiteralCount() = %d, want 1", result.LiteralIndex.LiteralCount())
	}
	if !result.LiteralIndex.ContainsAnyLiteral([]byte("concatenate")) {
		t.Fatalf("ContainsAnyLiteral should find \"cat\" as a substring of \"concatenate\"")
	}
	if result.LiteralIndex.ContainsAnyLiteral([]byte("dog")) {
		t.Fatalf("ContainsAnyLiteral should not find \"cat\" in \"dog\"")
	}
}

func TestGenerateNoLiteralIndexWhenDisabled(t *testing.T) {
	result := mustGenerate(t, []string{"cat"}, Config{EnableLiteralIndex: false})
	if result.LiteralIndex != nil {
		t.Fatalf("LiteralIndex should be nil when EnableLiteralIndex is false")
	}
}
