package hash

import "testing"

func TestSumIsStableAndFixedWidth(t *testing.T) {
	a := Sum([]byte("hello"))
	b := Sum([]byte("hello"))
	if a != b {
		t.Fatalf("sum not stable: %q vs %q", a, b)
	}
	if len(a) != 16 {
		t.Fatalf("expected 16 hex chars, got %d (%q)", len(a), a)
	}
	if a == Sum([]byte("hello!")) {
		t.Fatalf("different content produced same sum")
	}
	if a != SumString("hello") {
		t.Fatalf("SumString disagrees with Sum")
	}
}

func TestLineSumsSplitsPhysicalLines(t *testing.T) {
	sums := LineSums([]byte("one\ntwo\nthree\n"))
	if len(sums) != 3 {
		t.Fatalf("expected 3 line sums, got %d", len(sums))
	}
	if sums[0] != Sum([]byte("one")) {
		t.Fatalf("line 1 sum mismatch")
	}

	// A file without a trailing newline keeps its last line.
	sums = LineSums([]byte("one\ntwo"))
	if len(sums) != 2 {
		t.Fatalf("expected 2 line sums, got %d", len(sums))
	}
}

func TestLineSumsNormalizesCRLF(t *testing.T) {
	unix := LineSums([]byte("a\nb\n"))
	dos := LineSums([]byte("a\r\nb\r\n"))
	if len(unix) != len(dos) {
		t.Fatalf("line counts differ: %d vs %d", len(unix), len(dos))
	}
	for i := range unix {
		if unix[i] != dos[i] {
			t.Fatalf("line %d sums differ across EOL styles", i+1)
		}
	}
}

func TestLineSumsEmpty(t *testing.T) {
	if got := LineSums(nil); got != nil {
		t.Fatalf("expected nil for empty input, got %v", got)
	}
}
