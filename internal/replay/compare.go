package replay

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/zinc-sig/rere/internal/snapshot"
)

// Labels for the two sides of every diff.
const (
	ExpectedLabel = "expected"
	ActualLabel   = "actual"
)

const diffContext = 3

// Mismatch describes one field that differs between the recorded and the current run.
type Mismatch struct {
	Field    string `json:"field"`
	Expected string `json:"expected,omitempty"`
	Actual   string `json:"actual,omitempty"`
	Diff     string `json:"diff,omitempty"`
}

// Compare checks return code, stdout and stderr independently and returns
// every field that differs. The shell text is not compared here.
func Compare(expected, actual snapshot.Snapshot) []Mismatch {
	var mismatches []Mismatch

	if expected.ReturnCode != actual.ReturnCode {
		mismatches = append(mismatches, Mismatch{
			Field:    snapshot.FieldReturnCode,
			Expected: strconv.Itoa(expected.ReturnCode),
			Actual:   strconv.Itoa(actual.ReturnCode),
		})
	}
	if !bytes.Equal(expected.Stdout, actual.Stdout) {
		mismatches = append(mismatches, Mismatch{
			Field: snapshot.FieldStdout,
			Diff:  UnifiedDiff(expected.Stdout, actual.Stdout),
		})
	}
	if !bytes.Equal(expected.Stderr, actual.Stderr) {
		mismatches = append(mismatches, Mismatch{
			Field: snapshot.FieldStderr,
			Diff:  UnifiedDiff(expected.Stderr, actual.Stderr),
		})
	}

	return mismatches
}

// UnifiedDiff renders a line-oriented diff of two outputs decoded as text.
func UnifiedDiff(expected, actual []byte) string {
	diff := difflib.UnifiedDiff{
		A:        SplitLines(string(expected)),
		B:        SplitLines(string(actual)),
		FromFile: ExpectedLabel,
		ToFile:   ActualLabel,
		Context:  diffContext,
	}

	var buf bytes.Buffer
	// Writes to a bytes.Buffer do not fail.
	_ = difflib.WriteUnifiedDiff(&buf, diff)
	return buf.String()
}

// SplitLines splits s after each newline, keeping the terminators. Unlike
// difflib.SplitLines it does not invent a newline for the last line.
func SplitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
