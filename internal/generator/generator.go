// Package generator implements the generator façade (§4.7): it parses a
// list of regular expressions, compiles each into an NFA fragment sharing
// one node factory, combines the fragments behind a fresh start state
// tagging each accepting state with its token ID, and runs the power-set
// construction to produce the final DFA.
package generator

import (
	"bufio"
	"io"
	"strings"

	"github.com/coregx/scangen/internal/ast"
	"github.com/coregx/scangen/internal/dfa"
	"github.com/coregx/scangen/internal/nfa"
	"github.com/coregx/scangen/internal/parser"
)

// Config holds generation-time tunables.
type Config struct {
	// EnableLiteralIndex requests a diagnostic Aho-Corasick index over
	// any pure-literal patterns (§12 DOMAIN STACK). Default off since it
	// costs an extra pass and is never needed for correctness.
	EnableLiteralIndex bool
}

// Stats reports compilation statistics, printed by cmd/scangen-generate
// under --profile.
type Stats struct {
	PatternCount       int
	NFAStateCount      int
	DFAStateCount      int
	AlphabetSize       int
	LiteralPatternCount int
}

// Result is the output of a successful generation run.
type Result struct {
	DFA          *dfa.DFA
	Stats        Stats
	LiteralIndex *LiteralIndex // nil unless Config.EnableLiteralIndex and at least one literal pattern exists
}

// LoadPatterns reads one regex per line from r, trimming ASCII whitespace
// and skipping blank lines, mirroring the original loader
// (original_source/dslc/dslc_main.cpp: loadRegexExpressions). Line k
// (zero-based, over non-skipped lines) becomes token ID k.
func LoadPatterns(r io.Reader) ([]string, error) {
	var patterns []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		patterns = append(patterns, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(patterns) == 0 {
		return nil, ErrNoPatterns
	}
	return patterns, nil
}

// Generate compiles patterns into a single DFA recognizing, for any
// input, the set of token IDs (pattern indices) whose language contains
// it (§4.7). It fails fast on the first parse error, attributing it to
// the pattern's index via *CompileError.
func Generate(patterns []string, cfg Config) (*Result, error) {
	trees := make([]*ast.Node, len(patterns))
	for i, pattern := range patterns {
		tree, err := parser.Parse(pattern)
		if err != nil {
			return nil, &CompileError{Index: i, Err: err}
		}
		trees[i] = tree
	}

	factory := nfa.NewFactory()
	accepting := make(map[nfa.NodeID]uint32, len(trees))
	start := factory.NewNode()
	allNodes := []*nfa.Node{start}

	for i, tree := range trees {
		fragment := nfa.Compile(tree, factory)
		start.AddEdge(nfa.Edge{To: fragment.Start.ID(), Epsilon: true})
		allNodes = append(allNodes, fragment.Nodes...)
		accepting[fragment.Accept.ID()] = uint32(i)
	}

	combined := nfa.FromFragment(start, allNodes)

	d, err := dfa.Build(combined, accepting)
	if err != nil {
		return nil, err
	}

	result := &Result{
		DFA: d,
		Stats: Stats{
			PatternCount:  len(patterns),
			NFAStateCount: combined.NodeCount(),
			DFAStateCount: d.StateCount(),
			AlphabetSize:  len(d.Alphabet()),
		},
	}

	if cfg.EnableLiteralIndex {
		if idx, ok := buildLiteralIndex(trees); ok {
			result.LiteralIndex = idx
			result.Stats.LiteralPatternCount = idx.LiteralCount()
		}
	}

	return result, nil
}
