// Command scangen-generate compiles a regex-per-line file into a
// serialized DFA (§6 "generate [--profile] <regex-file> <output-file>").
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/coregx/scangen/internal/dfa"
	"github.com/coregx/scangen/internal/generator"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("scangen-generate", flag.ContinueOnError)
	profile := fs.Bool("profile", false, "print compilation statistics to stdout")
	if err := fs.Parse(args); err != nil {
		return -1
	}

	rest := fs.Args()
	if len(rest) != 2 {
		fmt.Fprintln(os.Stderr, "usage: scangen-generate [--profile] <regex-file> <output-file>")
		return -1
	}
	regexPath, outputPath := rest[0], rest[1]

	regexFile, err := os.Open(regexPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open regex file: %v\n", err)
		return -1
	}
	patterns, err := generator.LoadPatterns(regexFile)
	regexFile.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load patterns from %s: %v\n", regexPath, err)
		return -1
	}

	result, err := generator.Generate(patterns, generator.Config{EnableLiteralIndex: *profile})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to generate scanner: %v\n", err)
		return -1
	}

	if err := dfa.SerializeToFile(result.DFA, outputPath); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write DFA to %s: %v\n", outputPath, err)
		return -1
	}

	if *profile {
		printStats(result.Stats)
	}

	return 0
}

func printStats(s generator.Stats) {
	fmt.Printf("patterns:          %d\n", s.PatternCount)
	fmt.Printf("nfa states:        %d\n", s.NFAStateCount)
	fmt.Printf("dfa states:        %d\n", s.DFAStateCount)
	fmt.Printf("alphabet size:     %d\n", s.AlphabetSize)
	fmt.Printf("literal patterns:  %d\n", s.LiteralPatternCount)
}
