package replay

import (
	"fmt"
	"io"
	"strings"

	"github.com/zinc-sig/rere/internal/snapshot"
	"github.com/zinc-sig/rere/internal/testlist"
)

// Reporter writes the human-readable record/replay transcript.
type Reporter struct {
	w        io.Writer
	program  string
	listPath string
}

func NewReporter(w io.Writer, program, listPath string) *Reporter {
	return &Reporter{w: w, program: program, listPath: listPath}
}

func (r *Reporter) Capturing(shell string) {
	fmt.Fprintf(r.w, "CAPTURING: %s\n", shell)
}

func (r *Reporter) Replaying(shell string) {
	fmt.Fprintf(r.w, "REPLAYING: %s\n", shell)
}

// Unexpected prints an expected/actual pair under a heading.
func (r *Reporter) Unexpected(what string, expected, actual any) {
	fmt.Fprintf(r.w, "UNEXPECTED: %s\n", what)
	fmt.Fprintf(r.w, "    EXPECTED: %v\n", expected)
	fmt.Fprintf(r.w, "    ACTUAL:   %v\n", actual)
}

// Diff prints a unified diff under a heading.
func (r *Reporter) Diff(what, diff string) {
	fmt.Fprintf(r.w, "UNEXPECTED: %s\n", what)
	fmt.Fprint(r.w, diff)
	if diff != "" && !strings.HasSuffix(diff, "\n") {
		fmt.Fprintln(r.w)
	}
}

// SuggestRecord points the user at re-recording the snapshot file.
func (r *Reporter) SuggestRecord() {
	fmt.Fprintf(r.w, "NOTE: You may want to do `%s record %s` to update %s\n",
		r.program, r.listPath, testlist.SnapshotPath(r.listPath))
}

func (r *Reporter) Mismatches(mismatches []Mismatch) {
	for _, m := range mismatches {
		switch m.Field {
		case snapshot.FieldReturnCode:
			r.Unexpected("return code", m.Expected, m.Actual)
		default:
			r.Diff(m.Field, m.Diff)
		}
	}
}

func (r *Reporter) OK() {
	fmt.Fprintln(r.w, "OK")
}
