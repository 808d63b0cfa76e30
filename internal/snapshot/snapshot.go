package snapshot

import "bytes"

// Snapshot is the captured result of running one shell command.
type Snapshot struct {
	Shell      string
	ReturnCode int
	Stdout     []byte
	Stderr     []byte
}

// Equal reports whether two snapshots carry the same command, exit code and output.
func (s Snapshot) Equal(other Snapshot) bool {
	return s.Shell == other.Shell &&
		s.ReturnCode == other.ReturnCode &&
		bytes.Equal(s.Stdout, other.Stdout) &&
		bytes.Equal(s.Stderr, other.Stderr)
}
