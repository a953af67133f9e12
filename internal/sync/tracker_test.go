package sync

import (
	"context"
	"errors"
	"testing"

	"github.com/ademchenko/nutrimirror/internal/model"
)

func newTestTracker(local *fakeLocal, remote *fakeRemote) *Tracker {
	return NewTracker(local, remote, &TrackerConfig{
		Ledger: &LedgerConfig{
			Now:        fixedNow,
			Background: func(fn func()) { fn() },
			Logger:     discardLogger(),
		},
		Progress: &ProgressConfig{
			Now:    fixedNow,
			Logger: discardLogger(),
		},
		Logger: discardLogger(),
	})
}

// Adding to the diary must land the entry in both stores and fold the
// scaled nutrients into the day's snapshot in the same call.
func TestAddToDiaryUpdatesProgress(t *testing.T) {
	local := newFakeLocal()
	remote := newFakeRemote()
	tr := newTestTracker(local, remote)
	ctx := context.Background()

	rec := product("p1", "Granola")
	rec.EnergyKcal = 250

	e, err := tr.AddToDiary(ctx, &rec, 150, "u1", "2024-06-14")
	if err != nil {
		t.Fatalf("AddToDiary: %v", err)
	}
	if e == nil || e.Weight != 150 {
		t.Fatalf("entry = %+v, want weight 150", e)
	}
	if len(local.entries) != 1 {
		t.Fatal("diary entry missing from the local store")
	}

	snap, err := tr.Progress.ForDate(ctx, "u1", "2024-06-14")
	if err != nil {
		t.Fatalf("ForDate: %v", err)
	}
	if snap.Calories != 375 { // round(250 * 150/100)
		t.Fatalf("calories = %d, want 375", snap.Calories)
	}
}

// Aggregates must not wait for the remote mirror: a failed remote
// diary write still updates the snapshot, and the entry plus the
// error both come back.
func TestAddToDiaryAppliesProgressDespiteRemoteFailure(t *testing.T) {
	local := newFakeLocal()
	remote := newFakeRemote()
	remote.failUpsertEntry = &model.TransportError{Op: "upsert entry", Err: errors.New("boom")}
	tr := newTestTracker(local, remote)
	ctx := context.Background()

	rec := product("p1", "Granola")
	rec.EnergyKcal = 100

	e, err := tr.AddToDiary(ctx, &rec, 100, "u1", "2024-06-14")
	if err == nil {
		t.Fatal("expected the remote error")
	}
	if e == nil {
		t.Fatal("entry must come back alongside the error")
	}

	snap, ferr := tr.Progress.ForDate(ctx, "u1", "2024-06-14")
	if ferr != nil {
		t.Fatalf("ForDate: %v", ferr)
	}
	if snap.Calories != 100 {
		t.Fatalf("calories = %d, want 100", snap.Calories)
	}
}

func TestAddToDiaryValidationFailureWritesNothing(t *testing.T) {
	local := newFakeLocal()
	remote := newFakeRemote()
	tr := newTestTracker(local, remote)

	rec := product("p1", "Granola")
	e, err := tr.AddToDiary(context.Background(), &rec, -5, "u1", "2024-06-14")
	if err == nil || e != nil {
		t.Fatalf("got (%v, %v), want validation failure", e, err)
	}
	if remote.upsertEntryCalls != 0 || remote.saveCalls != 0 {
		t.Fatal("no store writes may happen for an invalid entry")
	}
	if len(local.entries) != 0 || len(local.snapshots) != 0 {
		t.Fatal("local store must stay untouched for an invalid entry")
	}
}
