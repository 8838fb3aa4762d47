//go:build !windows

package sqlite

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func TestStaleLockIsTakenOver(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "index.db")

	// A pid far above pid_max on any sane system; the process is dead.
	if err := os.WriteFile(dbPath+".lock", []byte("999999999"), 0o644); err != nil {
		t.Fatalf("plant stale lock: %v", err)
	}

	s, err := Open(dbPath)
	if err != nil {
		t.Fatalf("open over stale lock: %v", err)
	}
	_ = s.Close()
}

func TestLiveLockIsRespected(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "index.db")

	// Our own pid is definitely alive.
	if err := os.WriteFile(dbPath+".lock", []byte(strconv.Itoa(os.Getpid())), 0o644); err != nil {
		t.Fatalf("plant lock: %v", err)
	}

	_, err := Open(dbPath)
	if !errors.Is(err, ErrWriterConflict) {
		t.Fatalf("open err = %v, want ErrWriterConflict", err)
	}
}
