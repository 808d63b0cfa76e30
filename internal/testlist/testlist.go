package testlist

import (
	"fmt"
	"os"
	"strings"
)

// SnapshotExt is appended to a test list path to name its snapshot file.
const SnapshotExt = ".bi"

// Load reads a test list, one shell command per line. Each line is trimmed;
// blank lines stay in place as empty commands so indices keep lining up
// with the recorded snapshots.
func Load(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read test list %s: %w", path, err)
	}
	return Parse(string(data)), nil
}

// lineEndings maps CRLF and lone CR line endings to LF.
var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Parse splits test list content into commands. LF, CRLF and a lone CR all
// end a line.
func Parse(content string) []string {
	if content == "" {
		return nil
	}
	content = lineEndings.Replace(content)

	lines := strings.SplitAfter(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	shells := make([]string, 0, len(lines))
	for _, line := range lines {
		shells = append(shells, strings.TrimSpace(line))
	}
	return shells
}

// SnapshotPath returns the snapshot file path for a test list.
func SnapshotPath(listPath string) string {
	return listPath + SnapshotExt
}
