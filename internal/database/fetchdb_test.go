package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hickst/qmtools/internal/model"
	"github.com/hickst/qmtools/internal/query"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *FetchDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func testRecords(prefix string, n int) []model.Record {
	recs := make([]model.Record, n)
	for i := range recs {
		recs[i] = model.Record{
			"provenance.md5sum":     prefix + string(rune('a'+i)),
			"snr":                   float64(i) + 0.5,
			"bids_meta.SliceTiming": []any{0.0, 1.0},
		}
	}
	return recs
}

// TestOpen tests database opening and creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, err := os.Stat(filepath.Join(dbDir, FileName)); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
		if db.Path() != filepath.Join(dbDir, FileName) {
			t.Errorf("unexpected path %s", db.Path())
		}
	})

	t.Run("CreateIfNotExists=false returns not found", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "nonexistent-db")
		_, err := Open(dbDir, Options{CreateIfNotExists: false, EnableWAL: true})
		if !errors.Is(err, model.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if !strings.Contains(err.Error(), "database not found") {
			t.Errorf("expected informative error, got %q", err.Error())
		}
		if _, statErr := os.Stat(dbDir); !os.IsNotExist(statErr) {
			t.Error("database directory should not have been created")
		}
	})

	t.Run("CreateIfNotExists=false opens existing database", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "existing-db")
		db1, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		ctx := context.Background()
		id, err := db1.SaveSession(ctx, &Session{Modality: model.ModalityBold}, testRecords("x", 2))
		if err != nil {
			t.Fatalf("failed to save session: %v", err)
		}
		db1.Close()

		db2, err := Open(dbDir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("failed to open existing database: %v", err)
		}
		defer db2.Close()

		s, err := db2.GetSession(ctx, id)
		if err != nil {
			t.Fatalf("failed to get session: %v", err)
		}
		if s == nil || s.RecordCount != 2 {
			t.Errorf("expected persisted session with 2 records, got %+v", s)
		}
	})
}

// TestDefaultOptions tests the default options values.
func TestDefaultOptions(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	if !opts.CreateIfNotExists || !opts.EnableWAL {
		t.Errorf("unexpected defaults %+v", opts)
	}
}

func TestSaveAndGetSession(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	started := time.Date(2024, 3, 1, 10, 0, 0, 123000000, time.UTC)
	crit := query.Criteria{{Keyword: "snr", Comparison: ">3"}}
	in := &Session{
		Modality:        model.ModalityT1w,
		StartedAt:       started,
		FinishedAt:      started.Add(2 * time.Second),
		Pages:           3,
		Duplicates:      4,
		MissingChecksum: 1,
		QueryURL:        "https://example.org/api/v1/T1w?max_results=25&page=1",
		Criteria:        crit,
		QueryDigest:     QueryDigest(model.ModalityT1w, crit.Where()),
	}
	recs := testRecords("t", 3)

	id, err := db.SaveSession(ctx, in, recs)
	if err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}
	if id == "" || in.ID != id {
		t.Fatalf("expected generated id to be stored on the session, got %q / %q", id, in.ID)
	}

	got, err := db.GetSession(ctx, id)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected session")
	}
	if got.Modality != model.ModalityT1w || got.RecordCount != 3 || got.Pages != 3 ||
		got.Duplicates != 4 || got.MissingChecksum != 1 {
		t.Errorf("unexpected session %+v", got)
	}
	if !got.StartedAt.Equal(started) || !got.FinishedAt.Equal(started.Add(2*time.Second)) {
		t.Errorf("unexpected times %v %v", got.StartedAt, got.FinishedAt)
	}
	if len(got.Criteria) != 1 || got.Criteria[0] != crit[0] {
		t.Errorf("unexpected criteria %v", got.Criteria)
	}
	if got.QueryDigest != in.QueryDigest {
		t.Errorf("expected digest %s, got %s", in.QueryDigest, got.QueryDigest)
	}

	stored, err := db.GetSessionRecords(ctx, id)
	if err != nil {
		t.Fatalf("GetSessionRecords failed: %v", err)
	}
	if len(stored) != 3 {
		t.Fatalf("expected 3 records, got %d", len(stored))
	}
	for i, rec := range stored {
		if rec["provenance.md5sum"] != recs[i]["provenance.md5sum"] {
			t.Errorf("record %d out of order: %v", i, rec["provenance.md5sum"])
		}
		if rec["snr"] != recs[i]["snr"] {
			t.Errorf("record %d: expected snr %v, got %v", i, recs[i]["snr"], rec["snr"])
		}
	}

	missing, err := db.GetSession(ctx, "no-such-session")
	if err != nil || missing != nil {
		t.Errorf("expected nil, nil for unknown session, got %v, %v", missing, err)
	}
}

func TestListSessions(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, mod := range []model.Modality{model.ModalityBold, model.ModalityT1w, model.ModalityBold} {
		s := &Session{Modality: mod, StartedAt: base.Add(time.Duration(i) * time.Hour)}
		if _, err := db.SaveSession(ctx, s, testRecords("s", i+1)); err != nil {
			t.Fatalf("SaveSession failed: %v", err)
		}
	}

	all, err := db.ListSessions(ctx, "", 0)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(all))
	}
	if !all[0].StartedAt.After(all[1].StartedAt) {
		t.Error("expected most recent session first")
	}

	bold, err := db.ListSessions(ctx, model.ModalityBold, 0)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(bold) != 2 {
		t.Errorf("expected 2 bold sessions, got %d", len(bold))
	}

	limited, err := db.ListSessions(ctx, "", 1)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(limited) != 1 || limited[0].RecordCount != 3 {
		t.Errorf("expected only the latest session, got %+v", limited)
	}
}

func TestCountChecksumAndDelete(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	id1, err := db.SaveSession(ctx, &Session{Modality: model.ModalityBold}, testRecords("c", 2))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.SaveSession(ctx, &Session{Modality: model.ModalityBold}, testRecords("c", 1)); err != nil {
		t.Fatal(err)
	}

	n, err := db.CountChecksum(ctx, model.ModalityBold, "ca")
	if err != nil {
		t.Fatalf("CountChecksum failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected checksum in 2 sessions, got %d", n)
	}
	if n, _ := db.CountChecksum(ctx, model.ModalityT1w, "ca"); n != 0 {
		t.Errorf("expected no T1w sessions, got %d", n)
	}

	if err := db.DeleteSession(ctx, id1); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if s, _ := db.GetSession(ctx, id1); s != nil {
		t.Error("expected session to be deleted")
	}
	recs, err := db.GetSessionRecords(ctx, id1)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 0 {
		t.Errorf("expected records to be deleted, got %d", len(recs))
	}
	if n, _ := db.CountChecksum(ctx, model.ModalityBold, "ca"); n != 1 {
		t.Errorf("expected checksum in 1 session after delete, got %d", n)
	}
}

func TestQueryDigest(t *testing.T) {
	t.Parallel()

	a := QueryDigest(model.ModalityBold, "snr>3")
	if len(a) != 64 {
		t.Errorf("expected 64 hex characters, got %d", len(a))
	}
	if a != QueryDigest(model.ModalityBold, "snr>3") {
		t.Error("digest should be deterministic")
	}
	if a == QueryDigest(model.ModalityT1w, "snr>3") {
		t.Error("digest should depend on modality")
	}
}

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		zero  bool
	}{
		{"2024-01-15 10:30:00", false},
		{"2024-01-15T10:30:00Z", false},
		{"2024-01-15T10:30:00.000000000Z", false},
		{"not a time", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := parseTimestamp(tt.input); got.IsZero() != tt.zero {
				t.Errorf("parseTimestamp(%q) = %v", tt.input, got)
			}
		})
	}
}
