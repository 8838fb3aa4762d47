// Package hash provides the fixed-length content digests used for change
// detection (whole file) and line-level diff tracking.
//
// The digest is a single xxhash64 sum rendered as 16 hex characters. It is
// deliberately short: a colliding line or file is treated as unchanged, with
// no secondary byte comparison. Accepted risk.
package hash

import (
	"bytes"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

func Sum(b []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(b))
}

func SumString(s string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(s))
}

// LineSums digests every physical line of src, index 0 = line 1. Trailing
// \r is stripped so CRLF and LF content hash alike; the newline itself is
// not part of the line.
func LineSums(src []byte) []string {
	if len(src) == 0 {
		return nil
	}
	lines := bytes.Split(src, []byte("\n"))
	if len(lines) > 0 && len(lines[len(lines)-1]) == 0 {
		lines = lines[:len(lines)-1]
	}
	out := make([]string, len(lines))
	for i, ln := range lines {
		ln = bytes.TrimSuffix(ln, []byte("\r"))
		out[i] = Sum(ln)
	}
	return out
}
