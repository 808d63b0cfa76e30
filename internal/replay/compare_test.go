package replay

import (
	"reflect"
	"strings"
	"testing"

	"github.com/zinc-sig/rere/internal/snapshot"
)

func TestCompare(t *testing.T) {
	base := snapshot.Snapshot{
		Shell:      "echo hello",
		ReturnCode: 0,
		Stdout:     []byte("hello\n"),
		Stderr:     []byte("warn\n"),
	}

	tests := []struct {
		name       string
		actual     func(s snapshot.Snapshot) snapshot.Snapshot
		wantFields []string
	}{
		{
			name:       "identical",
			actual:     func(s snapshot.Snapshot) snapshot.Snapshot { return s },
			wantFields: nil,
		},
		{
			name: "return code differs",
			actual: func(s snapshot.Snapshot) snapshot.Snapshot {
				s.ReturnCode = 7
				return s
			},
			wantFields: []string{"returncode"},
		},
		{
			name: "stdout differs",
			actual: func(s snapshot.Snapshot) snapshot.Snapshot {
				s.Stdout = []byte("goodbye\n")
				return s
			},
			wantFields: []string{"stdout"},
		},
		{
			name: "all three differ",
			actual: func(s snapshot.Snapshot) snapshot.Snapshot {
				s.ReturnCode = 1
				s.Stdout = nil
				s.Stderr = []byte("boom\n")
				return s
			},
			wantFields: []string{"returncode", "stdout", "stderr"},
		},
		{
			name: "nil and empty output are equal",
			actual: func(s snapshot.Snapshot) snapshot.Snapshot {
				s.Stdout = []byte("hello\n")
				s.Stderr = []byte("warn\n")
				return s
			},
			wantFields: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mismatches := Compare(base, tt.actual(base))

			var fields []string
			for _, m := range mismatches {
				fields = append(fields, m.Field)
			}
			if !reflect.DeepEqual(fields, tt.wantFields) {
				t.Errorf("mismatched fields = %v, want %v", fields, tt.wantFields)
			}
		})
	}
}

func TestCompareReturnCodeValues(t *testing.T) {
	mismatches := Compare(snapshot.Snapshot{ReturnCode: 0}, snapshot.Snapshot{ReturnCode: 7})
	if len(mismatches) != 1 {
		t.Fatalf("got %d mismatches, want 1", len(mismatches))
	}
	if mismatches[0].Expected != "0" || mismatches[0].Actual != "7" {
		t.Errorf("mismatch = %+v, want expected 0 actual 7", mismatches[0])
	}
}

func TestUnifiedDiff(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		actual   string
		want     string
	}{
		{
			name:     "single line replaced",
			expected: "hello\n",
			actual:   "goodbye\n",
			want: "--- expected\n" +
				"+++ actual\n" +
				"@@ -1 +1 @@\n" +
				"-hello\n" +
				"+goodbye\n",
		},
		{
			name:     "line added",
			expected: "a\nb\n",
			actual:   "a\nb\nc\n",
			want: "--- expected\n" +
				"+++ actual\n" +
				"@@ -1,2 +1,3 @@\n" +
				" a\n" +
				" b\n" +
				"+c\n",
		},
		{
			name:     "expected empty",
			expected: "",
			actual:   "x\n",
			want: "--- expected\n" +
				"+++ actual\n" +
				"@@ -0,0 +1 @@\n" +
				"+x\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UnifiedDiff([]byte(tt.expected), []byte(tt.actual))
			if got != tt.want {
				t.Errorf("UnifiedDiff() mismatch\ngot:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestUnifiedDiffMissingNewline(t *testing.T) {
	got := UnifiedDiff([]byte("x\ny\n"), []byte("x\ny"))
	if !strings.Contains(got, "-y\n+y") {
		t.Errorf("diff should show the dropped newline:\n%s", got)
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a\n", []string{"a\n"}},
		{"a\nb", []string{"a\n", "b"}},
		{"a\n\nb\n", []string{"a\n", "\n", "b\n"}},
	}

	for _, tt := range tests {
		if got := SplitLines(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitLines(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
