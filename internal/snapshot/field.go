package snapshot

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
)

// FormatError reports a structural violation in a snapshot file.
type FormatError struct {
	Field  string
	Offset int64
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed snapshot field %q at byte %d: %s", e.Field, e.Offset, e.Reason)
}

// FieldWriter writes tagged integer and blob fields.
type FieldWriter struct {
	w   io.Writer
	err error
}

func NewFieldWriter(w io.Writer) *FieldWriter {
	return &FieldWriter{w: w}
}

// WriteInt writes ":i <name> <value>\n".
func (fw *FieldWriter) WriteInt(name string, value int) {
	fw.printf(":i %s %d\n", name, value)
}

// WriteBlob writes ":b <name> <size>\n" followed by the payload and a newline.
func (fw *FieldWriter) WriteBlob(name string, blob []byte) {
	fw.printf(":b %s %d\n", name, len(blob))
	fw.write(blob)
	fw.write([]byte{'\n'})
}

// Err returns the first write error, if any.
func (fw *FieldWriter) Err() error {
	return fw.err
}

func (fw *FieldWriter) printf(format string, args ...any) {
	if fw.err != nil {
		return
	}
	_, fw.err = fmt.Fprintf(fw.w, format, args...)
}

func (fw *FieldWriter) write(p []byte) {
	if fw.err != nil {
		return
	}
	_, fw.err = fw.w.Write(p)
}

// FieldReader reads fields in the order the caller asks for them.
type FieldReader struct {
	r      *bufio.Reader
	offset int64
}

func NewFieldReader(r io.Reader) *FieldReader {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &FieldReader{r: br}
}

// ReadInt reads an integer field named name.
func (fr *FieldReader) ReadInt(name string) (int, error) {
	return fr.readHeader("i", name)
}

// ReadBlob reads a blob field named name.
func (fr *FieldReader) ReadBlob(name string) ([]byte, error) {
	start := fr.offset
	size, err := fr.readHeader("b", name)
	if err != nil {
		return nil, err
	}
	if size < 0 {
		return nil, fr.formatError(name, start, fmt.Sprintf("negative blob size %d", size))
	}

	// CopyN instead of a pre-sized buffer so a corrupt size cannot force a huge allocation.
	var blob bytes.Buffer
	n, err := io.CopyN(&blob, fr.r, int64(size))
	fr.offset += n
	if err != nil {
		if err == io.EOF {
			return nil, fr.formatError(name, fr.offset, fmt.Sprintf("truncated blob: want %d bytes, got %d", size, n))
		}
		return nil, fmt.Errorf("failed to read blob %q: %w", name, err)
	}

	terminator, err := fr.r.ReadByte()
	if err != nil {
		if err == io.EOF {
			return nil, fr.formatError(name, fr.offset, "missing newline after blob")
		}
		return nil, fmt.Errorf("failed to read blob %q: %w", name, err)
	}
	if terminator != '\n' {
		return nil, fr.formatError(name, fr.offset, fmt.Sprintf("expected newline after blob, got %q", terminator))
	}
	fr.offset++

	return blob.Bytes(), nil
}

func (fr *FieldReader) readHeader(kind, name string) (int, error) {
	start := fr.offset
	line, err := fr.r.ReadBytes('\n')
	fr.offset += int64(len(line))
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("failed to read field %q: %w", name, err)
	}

	prefix := ":" + kind + " " + name + " "
	if !bytes.HasPrefix(line, []byte(prefix)) {
		return 0, fr.formatError(name, start, fmt.Sprintf("expected prefix %q", prefix))
	}
	if !bytes.HasSuffix(line, []byte{'\n'}) {
		return 0, fr.formatError(name, start, "header is not terminated by newline")
	}

	text := string(line[len(prefix) : len(line)-1])
	value, err := strconv.Atoi(text)
	if err != nil {
		return 0, fr.formatError(name, start, fmt.Sprintf("invalid integer %q", text))
	}
	return value, nil
}

func (fr *FieldReader) formatError(name string, offset int64, reason string) error {
	return &FormatError{Field: name, Offset: offset, Reason: reason}
}
