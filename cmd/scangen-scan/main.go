// Command scangen-scan drives a serialized DFA over an input file,
// reporting the matching token IDs of every line (§6 "scan <dfa-file>
// <input-file> <results-file>").
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/coregx/scangen/internal/dfa"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) != 3 {
		fmt.Fprintln(os.Stderr, "usage: scangen-scan <dfa-file> <input-file> <results-file>")
		return -1
	}
	dfaPath, inputPath, resultsPath := args[0], args[1], args[2]

	d, err := dfa.DeserializeFromFile(dfaPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load DFA from %s: %v\n", dfaPath, err)
		return -1
	}

	inputFile, err := os.Open(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open input file: %v\n", err)
		return -1
	}
	defer inputFile.Close()

	resultsFile, err := os.Create(resultsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open results file: %v\n", err)
		return -1
	}
	defer resultsFile.Close()

	matcher := dfa.NewMatcher(d)
	writer := bufio.NewWriter(resultsFile)

	scanner := bufio.NewScanner(inputFile)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		ids := matcher.MatchingIDs(scanner.Bytes())
		if err := writeResultLine(writer, lineNumber, ids); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write to results file: %v\n", err)
			return -1
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "error reading input file: %v\n", err)
		return -1
	}
	if err := writer.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write to results file: %v\n", err)
		return -1
	}

	return 0
}

func writeResultLine(w *bufio.Writer, lineNumber int, ids []uint32) error {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	_, err := fmt.Fprintf(w, "%d;%s\n", lineNumber, strings.Join(parts, ","))
	return err
}
