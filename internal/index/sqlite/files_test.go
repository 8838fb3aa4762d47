package sqlite

import (
	"context"
	"testing"

	"termidx/internal/index/store"
)

func sampleData(path string) store.FileData {
	return store.FileData{
		Path: path,
		Hash: "00000000000000aa",
		Lines: []store.LineInput{
			{LineNo: 1, Type: store.LineComment, Hash: "h1", Modified: 1000},
			{LineNo: 2, Type: store.LineMethod, Hash: "h2", Modified: 2000},
			{LineNo: 3, Type: store.LineCode, Hash: "h3", Modified: 3000},
		},
		Items: []store.ItemInput{
			{Name: "fetchUser", LineNo: 2},
			{Name: "retries", LineNo: 1},
			{Name: "FetchUser", LineNo: 3}, // same item, different case
		},
		Methods: []store.MethodInput{
			{Name: "fetchUser", Prototype: "async function fetchUser(id)", LineNo: 2, Visibility: "public", Async: true},
		},
		Types: []store.TypeInput{
			{Name: "User", Kind: "interface", LineNo: 1},
		},
		HeaderText: "User fetching helpers.",
	}
}

func TestReplaceFileDataRoundTrip(t *testing.T) {
	s := openTestStore(t)

	if err := s.ReplaceFileData(sampleData("src/user.ts")); err != nil {
		t.Fatalf("replace: %v", err)
	}

	rec, ok, err := s.GetFile("src/user.ts")
	if err != nil || !ok {
		t.Fatalf("get file: ok=%v err=%v", ok, err)
	}
	if rec.Hash != "00000000000000aa" {
		t.Fatalf("hash = %q", rec.Hash)
	}
	if rec.LastIndexed == 0 {
		t.Fatalf("last_indexed not stamped")
	}

	mods, err := s.LineModifiedByHash(rec.ID)
	if err != nil {
		t.Fatalf("line modified: %v", err)
	}
	if mods["h2"] != 2000 {
		t.Fatalf("h2 modified = %d", mods["h2"])
	}

	names, err := s.ItemNamesForFile(rec.ID)
	if err != nil {
		t.Fatalf("item names: %v", err)
	}
	// fetchUser and FetchUser collapse case-insensitively.
	if len(names) != 2 {
		t.Fatalf("item names = %v, want 2 distinct", names)
	}

	sig, ok, err := s.Signature("src/user.ts")
	if err != nil || !ok {
		t.Fatalf("signature: ok=%v err=%v", ok, err)
	}
	if sig.HeaderComments != "User fetching helpers." {
		t.Fatalf("header = %q", sig.HeaderComments)
	}
	if len(sig.Methods) != 1 || !sig.Methods[0].Async || sig.Methods[0].Static {
		t.Fatalf("methods = %+v", sig.Methods)
	}
	if len(sig.Types) != 1 || sig.Types[0].Kind != "interface" {
		t.Fatalf("types = %+v", sig.Types)
	}
}

func TestReplaceFileDataIsIdempotent(t *testing.T) {
	s := openTestStore(t)

	data := sampleData("a.ts")
	if err := s.ReplaceFileData(data); err != nil {
		t.Fatalf("first replace: %v", err)
	}
	if err := s.ReplaceFileData(data); err != nil {
		t.Fatalf("second replace: %v", err)
	}

	st, err := s.Statistics()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.Files != 1 || st.Lines != 3 || st.Items != 2 || st.Methods != 1 || st.Types != 1 || st.Signatures != 1 {
		t.Fatalf("stats after idempotent replace = %+v", st)
	}
}

func TestReplaceFileDataDropsStaleRows(t *testing.T) {
	s := openTestStore(t)

	if err := s.ReplaceFileData(sampleData("a.ts")); err != nil {
		t.Fatalf("replace: %v", err)
	}

	// Shrink the file to one code line and no declarations.
	next := store.FileData{
		Path:  "a.ts",
		Hash:  "00000000000000bb",
		Lines: []store.LineInput{{LineNo: 1, Type: store.LineCode, Hash: "h9", Modified: 9000}},
		Items: []store.ItemInput{{Name: "leftover", LineNo: 1}},
	}
	if err := s.ReplaceFileData(next); err != nil {
		t.Fatalf("second replace: %v", err)
	}
	if _, err := s.SweepUnusedItems(); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	st, err := s.Statistics()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.Lines != 1 || st.Methods != 0 || st.Types != 0 || st.Signatures != 0 {
		t.Fatalf("stale rows survived: %+v", st)
	}
	if st.Items != 1 {
		t.Fatalf("orphan items survived sweep: %+v", st)
	}
}

func TestDeleteFileCascades(t *testing.T) {
	s := openTestStore(t)

	if err := s.ReplaceFileData(sampleData("gone.ts")); err != nil {
		t.Fatalf("replace: %v", err)
	}

	deleted, err := s.DeleteFile("gone.ts")
	if err != nil || !deleted {
		t.Fatalf("delete: deleted=%v err=%v", deleted, err)
	}
	if _, err := s.SweepUnusedItems(); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	st, err := s.Statistics()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.Files != 0 || st.Lines != 0 || st.Occurrences != 0 || st.Items != 0 || st.Methods != 0 || st.Types != 0 || st.Signatures != 0 {
		t.Fatalf("cascade left rows: %+v", st)
	}

	deleted, err = s.DeleteFile("gone.ts")
	if err != nil || deleted {
		t.Fatalf("double delete: deleted=%v err=%v", deleted, err)
	}
}

func TestDeleteFileCascadesAcrossConnections(t *testing.T) {
	s := openTestStore(t)

	if err := s.ReplaceFileData(sampleData("gone.ts")); err != nil {
		t.Fatalf("replace: %v", err)
	}

	// Hold the pool's existing connection so the delete below is forced
	// onto a fresh one; the cascade must not depend on which connection
	// ran before.
	conn, err := s.db.Conn(context.Background())
	if err != nil {
		t.Fatalf("conn: %v", err)
	}
	defer conn.Close()

	deleted, err := s.DeleteFile("gone.ts")
	if err != nil || !deleted {
		t.Fatalf("delete: deleted=%v err=%v", deleted, err)
	}
	if _, err := s.SweepUnusedItems(); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	st, err := s.Statistics()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.Lines != 0 || st.Occurrences != 0 || st.Items != 0 ||
		st.Methods != 0 || st.Types != 0 || st.Signatures != 0 {
		t.Fatalf("cascade left rows on a fresh connection: %+v", st)
	}
}

func TestLineModifiedByHashEarliestWins(t *testing.T) {
	s := openTestStore(t)

	data := store.FileData{
		Path: "dup.ts",
		Hash: "00000000000000cc",
		Lines: []store.LineInput{
			{LineNo: 1, Type: store.LineCode, Hash: "same", Modified: 5000},
			{LineNo: 2, Type: store.LineCode, Hash: "same", Modified: 1000},
			{LineNo: 3, Type: store.LineCode, Hash: "same", Modified: 3000},
		},
	}
	if err := s.ReplaceFileData(data); err != nil {
		t.Fatalf("replace: %v", err)
	}

	rec, _, err := s.GetFile("dup.ts")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	mods, err := s.LineModifiedByHash(rec.ID)
	if err != nil {
		t.Fatalf("modified: %v", err)
	}
	if mods["same"] != 1000 {
		t.Fatalf("duplicate hash timestamp = %d, want earliest 1000", mods["same"])
	}
}

func TestReplaceFileDataValidates(t *testing.T) {
	s := openTestStore(t)

	if err := s.ReplaceFileData(store.FileData{Path: "", Hash: "x"}); err == nil {
		t.Fatalf("empty path should fail")
	}
	if err := s.ReplaceFileData(store.FileData{Path: "a.ts", Hash: " "}); err == nil {
		t.Fatalf("empty hash should fail")
	}
}

func TestListFilesSorted(t *testing.T) {
	s := openTestStore(t)

	for _, p := range []string{"z.ts", "a.ts", "m/x.ts"} {
		d := sampleData(p)
		if err := s.ReplaceFileData(d); err != nil {
			t.Fatalf("replace %s: %v", p, err)
		}
	}

	files, err := s.ListFiles()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(files) != 3 || files[0].Path != "a.ts" || files[2].Path != "z.ts" {
		t.Fatalf("list order = %+v", files)
	}
}
