package sqlite

import (
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "index.db")
	s, err := Open(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenInitializesSchema(t *testing.T) {
	s := openTestStore(t)

	v, ok, err := s.GetMeta(MetaSchemaVersion)
	if err != nil {
		t.Fatalf("get meta: %v", err)
	}
	if !ok || v != schemaVersion {
		t.Fatalf("schema version meta = %q (present=%v), want %q", v, ok, schemaVersion)
	}
}

func TestOpenRejectsSecondWriter(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "index.db")
	s1, err := Open(dbPath)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	defer s1.Close()

	_, err = Open(dbPath)
	if !errors.Is(err, ErrWriterConflict) {
		t.Fatalf("second open err = %v, want ErrWriterConflict", err)
	}
}

func TestWriterLockReleasedOnClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "index.db")
	s1, err := Open(dbPath)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := s1.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s2, err := Open(dbPath)
	if err != nil {
		t.Fatalf("reopen after close: %v", err)
	}
	_ = s2.Close()
}

func TestOpenReadOnlyRequiresExistingStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "missing.db")
	if _, err := OpenReadOnly(dbPath); err == nil {
		t.Fatalf("expected error opening missing store read-only")
	}
}

func TestReadOnlyCoexistsWithWriter(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "index.db")
	w, err := Open(dbPath)
	if err != nil {
		t.Fatalf("open writer: %v", err)
	}
	defer w.Close()

	r, err := OpenReadOnly(dbPath)
	if err != nil {
		t.Fatalf("open read-only beside writer: %v", err)
	}
	defer r.Close()

	if _, _, err := r.GetMeta(MetaSchemaVersion); err != nil {
		t.Fatalf("read-only meta read: %v", err)
	}
}

func TestReadOnlyRejectsWrites(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "index.db")
	w, err := Open(dbPath)
	if err != nil {
		t.Fatalf("open writer: %v", err)
	}
	_ = w.Close()

	r, err := OpenReadOnly(dbPath)
	if err != nil {
		t.Fatalf("open read-only: %v", err)
	}
	defer r.Close()

	if err := r.SetMeta(MetaProjectName, "x"); err == nil {
		t.Fatalf("read-only SetMeta should fail")
	}
	if _, err := r.DeleteFile("a.ts"); err == nil {
		t.Fatalf("read-only DeleteFile should fail")
	}
	if _, err := r.SweepUnusedItems(); err == nil {
		t.Fatalf("read-only sweep should fail")
	}
	if err := r.ClearFileData(1); err == nil {
		t.Fatalf("read-only clear should fail")
	}
}

func TestSetMetaOverwrites(t *testing.T) {
	s := openTestStore(t)

	if err := s.SetMeta(MetaProjectName, "alpha"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.SetMeta(MetaProjectName, "beta"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, ok, err := s.GetMeta(MetaProjectName)
	if err != nil || !ok || v != "beta" {
		t.Fatalf("meta = %q (ok=%v, err=%v), want beta", v, ok, err)
	}

	_, ok, err = s.GetMeta("nope")
	if err != nil || ok {
		t.Fatalf("unknown key should report absent, got ok=%v err=%v", ok, err)
	}
}

func TestNilStoreGuards(t *testing.T) {
	var s *Store
	if err := s.Close(); err != nil {
		t.Fatalf("nil close: %v", err)
	}
	if s.Path() != "" {
		t.Fatalf("nil path should be empty")
	}
	if _, _, err := s.GetFile("x"); err == nil {
		t.Fatalf("nil store reads should error")
	}
}
