package snapshot

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Field names, in the order each record is laid out on disk.
const (
	FieldCount      = "count"
	FieldShell      = "shell"
	FieldReturnCode = "returncode"
	FieldStdout     = "stdout"
	FieldStderr     = "stderr"
)

// Encode writes the snapshot sequence in the tagged-field format.
func Encode(w io.Writer, snapshots []Snapshot) error {
	bw := bufio.NewWriter(w)
	fw := NewFieldWriter(bw)

	fw.WriteInt(FieldCount, len(snapshots))
	for _, s := range snapshots {
		fw.WriteBlob(FieldShell, []byte(s.Shell))
		fw.WriteInt(FieldReturnCode, s.ReturnCode)
		fw.WriteBlob(FieldStdout, s.Stdout)
		fw.WriteBlob(FieldStderr, s.Stderr)
	}

	if err := fw.Err(); err != nil {
		return fmt.Errorf("failed to encode snapshots: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to encode snapshots: %w", err)
	}
	return nil
}

// Decode reads a snapshot sequence. Bytes after the last declared record are ignored.
func Decode(r io.Reader) ([]Snapshot, error) {
	fr := NewFieldReader(r)

	count, err := fr.ReadInt(FieldCount)
	if err != nil {
		return nil, err
	}

	var snapshots []Snapshot
	for i := 0; i < count; i++ {
		s, err := decodeOne(fr)
		if err != nil {
			return nil, fmt.Errorf("snapshot %d: %w", i, err)
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, nil
}

func decodeOne(fr *FieldReader) (Snapshot, error) {
	shell, err := fr.ReadBlob(FieldShell)
	if err != nil {
		return Snapshot{}, err
	}
	returnCode, err := fr.ReadInt(FieldReturnCode)
	if err != nil {
		return Snapshot{}, err
	}
	stdout, err := fr.ReadBlob(FieldStdout)
	if err != nil {
		return Snapshot{}, err
	}
	stderr, err := fr.ReadBlob(FieldStderr)
	if err != nil {
		return Snapshot{}, err
	}

	return Snapshot{
		Shell:      string(shell),
		ReturnCode: returnCode,
		Stdout:     stdout,
		Stderr:     stderr,
	}, nil
}

// Dump writes snapshots to path, replacing any existing file.
func Dump(path string, snapshots []Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot file %s: %w", path, err)
	}

	if err := Encode(f, snapshots); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write snapshot file %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot file %s: %w", path, err)
	}
	return nil
}

// Load reads the snapshot sequence stored at path.
func Load(path string) ([]Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	snapshots, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot file %s: %w", path, err)
	}
	return snapshots, nil
}
