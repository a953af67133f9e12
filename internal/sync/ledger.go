package sync

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ademchenko/nutrimirror/internal/model"
)

// DefaultWriteWindowDays is the trailing period during which new
// consumption entries are mirrored locally; older entries live
// remote-only.
const DefaultWriteWindowDays = 3

// LedgerConfig holds configuration for the consumption ledger.
type LedgerConfig struct {
	// WriteWindowDays is the trailing local-mirror window.
	// Non-positive means DefaultWriteWindowDays.
	WriteWindowDays int

	// Now supplies the current time; nil means time.Now.
	Now func() time.Time

	// Background runs the fire-and-forget week backfill. The caller
	// receives data before the backfill necessarily completes and
	// must never await it. Nil means "go fn()".
	Background func(fn func())

	// Logger for suppressed errors. Nil means a stderr default.
	Logger *log.Logger
}

func (cfg *LedgerConfig) fillDefaults() {
	if cfg.WriteWindowDays <= 0 {
		cfg.WriteWindowDays = DefaultWriteWindowDays
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Background == nil {
		cfg.Background = func(fn func()) { go fn() }
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(os.Stderr, "[ledger] ", log.LstdFlags)
	}
}

// Ledger records and retrieves consumption entries, enforcing the
// write-window policy and merging per-date ranges across both stores.
type Ledger struct {
	local  LocalStore
	remote RemoteStore
	cfg    LedgerConfig
}

// NewLedger creates a ledger sync component.
// A nil cfg uses defaults for every field.
func NewLedger(local LocalStore, remote RemoteStore, cfg *LedgerConfig) *Ledger {
	var c LedgerConfig
	if cfg != nil {
		c = *cfg
	}
	c.fillDefaults()
	return &Ledger{local: local, remote: remote, cfg: c}
}

// WeekResult is a merged range read over the consumption ledger.
type WeekResult struct {
	Entries []model.ConsumptionEntry
	// Degraded is true when some remote day fetches failed and the
	// result is incomplete. Suppressed errors are logged.
	Degraded bool
}

// RecordConsumption constructs a diary entry for the routine "add to
// diary" flow and dual-writes it.
//
// The local write only happens when date falls inside the write
// window (today minus WriteWindowDays); older entries are remote-only.
// The remote write is attempted even when the local write is skipped
// or fails; a local failure is logged, never fatal. The returned
// error, if any, is the remote write's.
func (l *Ledger) RecordConsumption(ctx context.Context, product *model.ProductRecord, weight float64, userID string, date model.Date) (*model.ConsumptionEntry, error) {
	entry := &model.ConsumptionEntry{
		UserID:      userID,
		ProductID:   product.ID,
		ProductName: product.Name,
		Date:        date,
		Weight:      weight,
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	if l.withinWriteWindow(date) {
		if err := l.local.UpsertEntry(ctx, entry); err != nil {
			l.cfg.Logger.Printf("WARNING: local diary write failed for %s/%s: %v",
				entry.ProductID, entry.Date, err)
		}
	}

	if err := l.remote.UpsertEntry(ctx, entry); err != nil {
		return entry, fmt.Errorf("record consumption: %w", err)
	}
	return entry, nil
}

// UpdateWeight corrects an existing entry's weight. Unlike
// RecordConsumption this is ungated: a correction always reaches the
// local store regardless of the entry's age.
func (l *Ledger) UpdateWeight(ctx context.Context, entry *model.ConsumptionEntry, newWeight float64) error {
	updated := *entry
	updated.Weight = newWeight
	if err := updated.Validate(); err != nil {
		return err
	}

	if err := l.local.UpsertEntry(ctx, &updated); err != nil {
		l.cfg.Logger.Printf("WARNING: local weight update failed for %s/%s: %v",
			updated.ProductID, updated.Date, err)
	}

	if err := l.remote.UpsertEntry(ctx, &updated); err != nil {
		return fmt.Errorf("update weight: %w", err)
	}
	return nil
}

// DeleteConsumption removes the entry from both stores. There is no
// compensating rollback: if either delete fails the other's removal
// still holds, and the reported error joins whatever failed.
func (l *Ledger) DeleteConsumption(ctx context.Context, entry *model.ConsumptionEntry) error {
	localErr := l.local.DeleteEntry(ctx, entry)
	if localErr != nil {
		l.cfg.Logger.Printf("WARNING: local diary delete failed for %s/%s: %v",
			entry.ProductID, entry.Date, localErr)
	}

	remoteErr := l.remote.DeleteEntry(ctx, entry)
	if remoteErr != nil {
		remoteErr = fmt.Errorf("delete consumption: %w", remoteErr)
	}

	return errors.Join(localErr, remoteErr)
}

// ConsumptionForRange returns every entry in the inclusive date range
// [start, end], merging local rows with remote fetches for the dates
// the local store has nothing for.
//
// When the local result already covers every date, no remote call is
// made. When the local result was completely empty, the remote
// entries are additionally persisted locally on the background runner
// (fire-and-forget, decoupled from the returned result); a partially
// warm week is returned merged but never partially cached.
func (l *Ledger) ConsumptionForRange(ctx context.Context, userID string, start, end model.Date) (*WeekResult, error) {
	dates := model.DateRange(start, end)
	if len(dates) == 0 {
		return nil, fmt.Errorf("invalid date range [%s, %s]", start, end)
	}

	localEntries, err := l.local.EntriesByDateRange(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("local diary range: %w", err)
	}

	covered := make(map[model.Date]struct{}, len(localEntries))
	for i := range localEntries {
		covered[localEntries[i].Date] = struct{}{}
	}

	var missing []model.Date
	for _, d := range dates {
		if _, ok := covered[d]; !ok {
			missing = append(missing, d)
		}
	}

	if len(missing) == 0 {
		return &WeekResult{Entries: localEntries}, nil
	}

	result := &WeekResult{Entries: localEntries}
	var fetched []model.ConsumptionEntry
	for _, d := range missing {
		dayEntries, err := l.remote.EntriesByDate(ctx, userID, d)
		if err != nil {
			l.cfg.Logger.Printf("WARNING: remote diary fetch failed for %s: %v", d, err)
			result.Degraded = true
			continue
		}
		fetched = append(fetched, dayEntries...)
	}

	// Cache-fill policy: only an entirely cold week is backfilled,
	// so the local store never holds a partially-cached week.
	if len(localEntries) == 0 && len(fetched) > 0 {
		toCache := make([]model.ConsumptionEntry, len(fetched))
		copy(toCache, fetched)
		l.cfg.Background(func() {
			bgCtx := context.WithoutCancel(ctx)
			if err := l.local.UpsertEntries(bgCtx, toCache); err != nil {
				l.cfg.Logger.Printf("WARNING: week backfill failed: %v", err)
			}
		})
	}

	result.Entries = append(result.Entries, fetched...)
	return result, nil
}

// withinWriteWindow reports whether date is on or after today minus
// the configured window.
func (l *Ledger) withinWriteWindow(date model.Date) bool {
	cutoff := model.DateOf(l.cfg.Now()).AddDays(-l.cfg.WriteWindowDays)
	return !date.Before(cutoff)
}
