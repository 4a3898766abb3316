package generator

import (
	"errors"
	"fmt"
)

// ErrNoPatterns is returned when a regex file contains no non-blank
// lines after trimming (§11, dslc/dslc_main.cpp's loadRegexExpressions).
var ErrNoPatterns = errors.New("no regular expressions found")

// CompileError attributes a parse or NFA-construction failure to the
// pattern index that caused it (§4.7, §7 "the façade stops on the first
// error and reports which pattern index... caused it").
type CompileError struct {
	Index int
	Err   error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("pattern %d: %v", e.Index, e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}
