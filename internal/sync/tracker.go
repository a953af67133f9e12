package sync

import (
	"context"
	"log"

	"github.com/ademchenko/nutrimirror/internal/model"
)

// Tracker bundles the four sync components behind one constructor
// and wires the ledger-to-progress integration: every diary addition
// updates the day's snapshot and refreshes the weekly aggregates.
type Tracker struct {
	Catalog   *Catalog
	Ledger    *Ledger
	Progress  *Progress
	Favorites *Favorites
}

// TrackerConfig aggregates the per-component configs.
type TrackerConfig struct {
	Ledger   *LedgerConfig
	Progress *ProgressConfig
	// Logger is shared by the components that take a bare logger.
	Logger *log.Logger
}

// NewTracker wires the four components over one local and one remote
// store. A nil cfg uses defaults throughout.
func NewTracker(local LocalStore, remote RemoteStore, cfg *TrackerConfig) *Tracker {
	if cfg == nil {
		cfg = &TrackerConfig{}
	}

	catalog := NewCatalog(local, remote, cfg.Logger)
	return &Tracker{
		Catalog:   catalog,
		Ledger:    NewLedger(local, remote, cfg.Ledger),
		Progress:  NewProgress(local, remote, cfg.Progress),
		Favorites: NewFavorites(local, remote, catalog, cfg.Logger),
	}
}

// AddToDiary records a consumption and folds it into the day's
// progress snapshot. The snapshot update runs even when the remote
// diary write failed: the entry exists locally and the stores are
// eventually consistent, so aggregates must not wait for the mirror.
func (t *Tracker) AddToDiary(ctx context.Context, product *model.ProductRecord, weight float64, userID string, date model.Date) (*model.ConsumptionEntry, error) {
	entry, recordErr := t.Ledger.RecordConsumption(ctx, product, weight, userID, date)
	if entry == nil {
		// Validation failure; nothing was written anywhere.
		return nil, recordErr
	}

	if _, err := t.Progress.ApplyConsumption(ctx, product, weight, userID, date); err != nil {
		t.Progress.cfg.Logger.Printf("WARNING: progress update after diary add failed: %v", err)
	}

	return entry, recordErr
}
