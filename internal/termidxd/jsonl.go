package termidxd

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// ReadOneLine pops the next frame off a JSONL stream: one non-blank line
// with its newline stripped. A final frame missing the trailing newline
// still counts; blank lines are treated as keep-alives and skipped.
func ReadOneLine(r *bufio.Reader) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("reader is nil")
	}

	for {
		raw, err := r.ReadBytes('\n')
		frame := bytes.TrimSpace(raw)
		switch {
		case err == nil && len(frame) == 0:
			continue
		case err == nil:
			return frame, nil
		case err == io.EOF && len(frame) > 0:
			return frame, nil
		default:
			return nil, err
		}
	}
}

// WriteOneLine marshals obj as one newline-terminated frame. The caller is
// responsible for flushing buffered writers.
func WriteOneLine(w io.Writer, obj any) error {
	if w == nil {
		return fmt.Errorf("writer is nil")
	}
	b, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	frame := make([]byte, 0, len(b)+1)
	frame = append(frame, b...)
	frame = append(frame, '\n')
	_, err = w.Write(frame)
	return err
}
