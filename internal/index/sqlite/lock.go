package sqlite

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ErrWriterConflict reports a second writable handle on the same store.
// That is a caller bug, not a condition to wait out.
var ErrWriterConflict = errors.New("index store already has a writer")

type writerLock struct {
	path string
}

func acquireWriterLock(dbPath string) (*writerLock, error) {
	lockPath := dbPath + ".lock"

	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(lockPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			_, werr := f.WriteString(strconv.Itoa(os.Getpid()))
			cerr := f.Close()
			if werr != nil || cerr != nil {
				_ = os.Remove(lockPath)
				return nil, fmt.Errorf("writing lock file: %w", errors.Join(werr, cerr))
			}
			return &writerLock{path: lockPath}, nil
		}
		if !os.IsExist(err) {
			return nil, err
		}

		// A crashed writer leaves its lock behind; take over when the
		// recorded pid is no longer alive.
		b, rerr := os.ReadFile(lockPath)
		pid, _ := strconv.Atoi(strings.TrimSpace(string(b)))
		if rerr == nil && pid > 0 && !pidAlive(pid) {
			_ = os.Remove(lockPath)
			continue
		}
		return nil, fmt.Errorf("%w (pid %d holds %s)", ErrWriterConflict, pid, lockPath)
	}

	return nil, ErrWriterConflict
}

func (l *writerLock) release() {
	if l == nil || l.path == "" {
		return
	}
	_ = os.Remove(l.path)
	l.path = ""
}
