package mirror

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestMirror(t *testing.T) *Mirror {
	t.Helper()
	m, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mirror.db")

	m, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer m.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mirror.db")

	for i := 0; i < 3; i++ {
		m, err := Open(path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		m.Close()
	}

	m, err := Open(path)
	if err != nil {
		t.Fatalf("final Open() failed: %v", err)
	}
	defer m.Close()

	for _, table := range []string{"prospects", "knocks"} {
		var name string
		err := m.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found after idempotent opens: %v", table, err)
		}
	}
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open("/nonexistent/dir/mirror.db")
	if err == nil {
		t.Error("expected error for invalid path, got nil")
	}
}

func TestInsertProspect_ReturnsRowID(t *testing.T) {
	m := openTestMirror(t)
	ctx := context.Background()

	id1, err := m.InsertProspect(ctx, "New Prospect", "123 Main St", "Prospects")
	if err != nil {
		t.Fatalf("InsertProspect() failed: %v", err)
	}
	id2, err := m.InsertProspect(ctx, "New Prospect", "9 Oak Ave", "Prospects")
	if err != nil {
		t.Fatalf("InsertProspect() failed: %v", err)
	}
	if id1 == id2 {
		t.Errorf("expected distinct row ids, got %d twice", id1)
	}
}

func TestInsertKnock_RequiresExistingProspect(t *testing.T) {
	m := openTestMirror(t)
	ctx := context.Background()

	err := m.InsertKnock(ctx, 9999, time.Now(), "Answered", 0, 0, "rep@example.com")
	if err == nil {
		t.Error("expected foreign key error for unknown prospect_id, got nil")
	}
}

func TestListProspects_Empty(t *testing.T) {
	m := openTestMirror(t)

	rows, err := m.ListProspects(context.Background())
	if err != nil {
		t.Fatalf("ListProspects() failed: %v", err)
	}
	if rows == nil {
		t.Error("expected empty slice, got nil")
	}
	if len(rows) != 0 {
		t.Errorf("expected 0 rows, got %d", len(rows))
	}
}

func TestListProspectsWithKnocks_JoinAndFilter(t *testing.T) {
	m := openTestMirror(t)
	ctx := context.Background()

	pid, err := m.InsertProspect(ctx, "Jane Doe", "123 Main St", "Prospects")
	if err != nil {
		t.Fatalf("InsertProspect() failed: %v", err)
	}
	other, err := m.InsertProspect(ctx, "John Roe", "9 Oak Ave", "Customers")
	if err != nil {
		t.Fatalf("InsertProspect() failed: %v", err)
	}

	now := time.Now().UTC()
	if err := m.InsertKnock(ctx, pid, now, "Answered", 40.0, -75.0, "alice@example.com"); err != nil {
		t.Fatalf("InsertKnock() failed: %v", err)
	}
	if err := m.InsertKnock(ctx, pid, now.Add(time.Minute), "Not Answered", 40.0, -75.0, "bob@example.com"); err != nil {
		t.Fatalf("InsertKnock() failed: %v", err)
	}

	// Unfiltered: both knocks on the first prospect, none on the second.
	all, err := m.ListProspectsWithKnocks(ctx, "")
	if err != nil {
		t.Fatalf("ListProspectsWithKnocks() failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 prospects, got %d", len(all))
	}
	if got := len(all[0].Knocks); got != 2 {
		t.Errorf("expected 2 knocks on prospect %d, got %d", pid, got)
	}
	if got := len(all[1].Knocks); got != 0 {
		t.Errorf("expected 0 knocks on prospect %d, got %d", other, got)
	}

	// Filtered by actor: only alice's knock remains, prospects still listed.
	filtered, err := m.ListProspectsWithKnocks(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("ListProspectsWithKnocks(filter) failed: %v", err)
	}
	if len(filtered) != 2 {
		t.Fatalf("expected 2 prospects, got %d", len(filtered))
	}
	if got := len(filtered[0].Knocks); got != 1 {
		t.Errorf("expected 1 filtered knock, got %d", got)
	}
	if filtered[0].Knocks[0].UserEmail != "alice@example.com" {
		t.Errorf("unexpected actor %q", filtered[0].Knocks[0].UserEmail)
	}
}

func TestInsertKnock_RoundTripsDate(t *testing.T) {
	m := openTestMirror(t)
	ctx := context.Background()

	pid, err := m.InsertProspect(ctx, "Jane Doe", "123 Main St", "Prospects")
	if err != nil {
		t.Fatalf("InsertProspect() failed: %v", err)
	}

	when := time.Date(2026, 3, 14, 9, 26, 53, 589793000, time.UTC)
	if err := m.InsertKnock(ctx, pid, when, "Answered", 1.5, -2.5, "rep@example.com"); err != nil {
		t.Fatalf("InsertKnock() failed: %v", err)
	}

	got, err := m.ListProspectsWithKnocks(ctx, "")
	if err != nil {
		t.Fatalf("ListProspectsWithKnocks() failed: %v", err)
	}
	k := got[0].Knocks[0]
	if !k.Date.Equal(when) {
		t.Errorf("date round trip: got %v, want %v", k.Date, when)
	}
	if k.Latitude != 1.5 || k.Longitude != -2.5 {
		t.Errorf("coordinate round trip: got (%v, %v)", k.Latitude, k.Longitude)
	}
}

func TestUpdateProspect_ByRowID(t *testing.T) {
	m := openTestMirror(t)
	ctx := context.Background()

	id1, err := m.InsertProspect(ctx, "New Prospect", "123 Main St", "Prospects")
	if err != nil {
		t.Fatalf("InsertProspect() failed: %v", err)
	}
	id2, err := m.InsertProspect(ctx, "New Prospect", "9 Oak Ave", "Prospects")
	if err != nil {
		t.Fatalf("InsertProspect() failed: %v", err)
	}

	if err := m.UpdateProspect(ctx, id2, "Jane Doe", "9 Oak Avenue", "Customers"); err != nil {
		t.Fatalf("UpdateProspect() failed: %v", err)
	}

	rows, err := m.ListProspects(ctx)
	if err != nil {
		t.Fatalf("ListProspects() failed: %v", err)
	}
	for _, row := range rows {
		switch row.ID {
		case id1:
			if row.FullName != "New Prospect" || row.List != "Prospects" {
				t.Errorf("row %d should be untouched, got %+v", id1, row)
			}
		case id2:
			if row.FullName != "Jane Doe" || row.List != "Customers" {
				t.Errorf("row %d not updated, got %+v", id2, row)
			}
		}
	}
}

func TestUpdateProspect_UnknownRow(t *testing.T) {
	m := openTestMirror(t)

	err := m.UpdateProspect(context.Background(), 42, "Jane Doe", "123 Main St", "Customers")
	if err == nil {
		t.Error("expected error for unknown row id, got nil")
	}
}

func TestClose_NilDB(t *testing.T) {
	m := &Mirror{db: nil}
	if err := m.Close(); err != nil {
		t.Errorf("Close() on nil db should not error: %v", err)
	}
}
