package output

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/zinc-sig/rere/internal/replay"
)

type Mode string

const (
	ModeRecord Mode = "record"
	ModeReplay Mode = "replay"
)

const StatusRecorded = "recorded"

// Failure describes why a replay stopped.
type Failure struct {
	Kind     string `json:"kind"`
	Expected string `json:"expected,omitempty"`
	Actual   string `json:"actual,omitempty"`
}

// Report is the machine-readable summary of one record or replay run.
type Report struct {
	RunID           string            `json:"run_id"`
	Mode            Mode              `json:"mode"`
	TestList        string            `json:"test_list"`
	Snapshot        string            `json:"snapshot"`
	Status          string            `json:"status"`
	Count           int               `json:"count"`
	FailedIndex     *int              `json:"failed_index,omitempty"`
	Failure         *Failure          `json:"failure,omitempty"`
	Mismatches      []replay.Mismatch `json:"mismatches,omitempty"`
	ExecutionTime   int64             `json:"execution_time"`   // milliseconds spent running commands
	DurationSeconds decimal.Decimal   `json:"duration_seconds"` // wall clock of the whole run
	Timeout         *int64            `json:"timeout,omitempty"` // per command, in milliseconds
	Context         any               `json:"context,omitempty"`

	// Webhook status (only in local output, not sent to webhook)
	WebhookSent  bool   `json:"webhook_sent,omitempty"`
	WebhookError string `json:"webhook_error,omitempty"`
}

// NewReport starts a report with a fresh run ID.
func NewReport(mode Mode, testList, snapshotPath string) *Report {
	return &Report{
		RunID:    uuid.NewString(),
		Mode:     mode,
		TestList: testList,
		Snapshot: snapshotPath,
	}
}

// SetDuration records the wall-clock duration of the run, loading the list
// and snapshot files included.
func (r *Report) SetDuration(d time.Duration) {
	r.DurationSeconds = decimal.New(d.Milliseconds(), -3)
}

// SetTimeout records the per-command timeout, if any.
func (r *Report) SetTimeout(timeout time.Duration) {
	if timeout > 0 {
		ms := timeout.Milliseconds()
		r.Timeout = &ms
	}
}

// ApplyOutcome copies a replay outcome into the report.
func (r *Report) ApplyOutcome(outcome *replay.Outcome) {
	r.Status = string(outcome.Status)
	r.Count = outcome.Replayed
	r.ExecutionTime = outcome.ExecutionTime
	if outcome.Passed() {
		return
	}
	if outcome.Index >= 0 {
		index := outcome.Index
		r.FailedIndex = &index
	}
	r.Failure = &Failure{
		Kind:     string(outcome.Kind),
		Expected: outcome.Expected,
		Actual:   outcome.Actual,
	}
	r.Mismatches = outcome.Mismatches
}
