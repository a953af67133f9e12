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

// ProgressConfig holds configuration for the progress component.
type ProgressConfig struct {
	// Now supplies the current time; nil means time.Now.
	Now func() time.Time

	// Restrictions are the user's dietary restriction tags. A
	// consumed product carrying one of these counts as a violation
	// on the day's snapshot.
	Restrictions []model.AllergenTag

	// Logger for suppressed errors. Nil means a stderr default.
	Logger *log.Logger
}

func (cfg *ProgressConfig) fillDefaults() {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(os.Stderr, "[progress] ", log.LstdFlags)
	}
}

// Progress resolves and persists daily nutrition rollups, with a
// weekly batch fetch that backfills the local cache.
type Progress struct {
	local  LocalStore
	remote RemoteStore
	cfg    ProgressConfig
}

// NewProgress creates a progress sync component.
// A nil cfg uses defaults for every field.
func NewProgress(local LocalStore, remote RemoteStore, cfg *ProgressConfig) *Progress {
	var c ProgressConfig
	if cfg != nil {
		c = *cfg
	}
	c.fillDefaults()
	return &Progress{local: local, remote: remote, cfg: c}
}

// WeekProgress is the trailing-week snapshot fetch result.
type WeekProgress struct {
	// Days holds the snapshots that exist, ordered by date. Days
	// with no data are absent.
	Days []model.ProgressSnapshot
	// Degraded is true when the remote fetch failed and Days came
	// from the local cache instead.
	Degraded bool
}

// ForDate resolves the snapshot for (user, date): local first, then
// remote with write-back. A day with no data anywhere yields a
// zero-valued snapshot that has NOT been persisted; remote failures
// degrade to the same zero default and are logged, keeping this read
// path available over broken connectivity.
func (p *Progress) ForDate(ctx context.Context, userID string, date model.Date) (*model.ProgressSnapshot, error) {
	snap, err := p.local.GetSnapshot(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("local progress lookup: %w", err)
	}
	if snap != nil {
		return snap, nil
	}

	snap, err = p.remote.GetSnapshot(ctx, userID, date)
	switch {
	case err == nil:
		if err := p.local.UpsertSnapshot(ctx, snap); err != nil {
			p.cfg.Logger.Printf("WARNING: failed to cache progress for %s: %v", date, err)
		}
		return snap, nil
	case errors.Is(err, model.ErrNotFound):
		return model.ZeroSnapshot(userID, date), nil
	default:
		p.cfg.Logger.Printf("WARNING: remote progress fetch failed for %s: %v", date, err)
		return model.ZeroSnapshot(userID, date), nil
	}
}

// Save writes the snapshot through to both stores: local upsert
// first, then remote. Neither write is rolled back on the other's
// failure; a local failure is logged and the remote error, if any,
// is returned.
func (p *Progress) Save(ctx context.Context, snap *model.ProgressSnapshot) error {
	if err := p.local.UpsertSnapshot(ctx, snap); err != nil {
		p.cfg.Logger.Printf("WARNING: local progress write failed for %s: %v", snap.Date, err)
	}

	if err := p.remote.SaveSnapshot(ctx, snap); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// FetchLastWeek fetches the trailing 7-day window [today-6, today]
// from the remote store in one range query, warms the local cache
// with every returned day, and returns the list. On remote failure
// it degrades to whatever the local cache holds for the window.
func (p *Progress) FetchLastWeek(ctx context.Context, userID string) (*WeekProgress, error) {
	today := model.DateOf(p.cfg.Now())
	from := today.AddDays(-6)

	snaps, err := p.remote.SnapshotRange(ctx, userID, from, today)
	if err != nil {
		p.cfg.Logger.Printf("WARNING: weekly progress fetch failed, using local cache: %v", err)
		cached, localErr := p.local.SnapshotsByDateRange(ctx, userID, from, today)
		if localErr != nil {
			return nil, fmt.Errorf("local progress range: %w", localErr)
		}
		return &WeekProgress{Days: cached, Degraded: true}, nil
	}

	if err := p.local.UpsertSnapshots(ctx, snaps); err != nil {
		p.cfg.Logger.Printf("WARNING: failed to cache weekly progress: %v", err)
	}

	return &WeekProgress{Days: snaps}, nil
}

// ApplyConsumption folds one consumed portion into the day's
// snapshot: nutrient deltas are per-100g values scaled by the weight
// and rounded to whole units, restriction violations are counted,
// and the updated snapshot is saved write-through. A weekly refetch
// follows immediately so downstream views see consistent aggregates;
// its failure is logged, not returned.
func (p *Progress) ApplyConsumption(ctx context.Context, product *model.ProductRecord, weight float64, userID string, date model.Date) (*model.ProgressSnapshot, error) {
	snap, err := p.ForDate(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	snap.Calories += model.ScalePer100(product.EnergyKcal, weight)
	snap.Protein += model.ScalePer100(product.Protein, weight)
	snap.Fat += model.ScalePer100(product.Fat, weight)
	snap.Carbs += model.ScalePer100(product.Carbs, weight)
	snap.Sugar += model.ScalePer100(product.Sugar, weight)
	snap.Salt += model.ScalePer100(product.Salt, weight)

	for _, tag := range p.cfg.Restrictions {
		if product.HasAllergen(tag) {
			snap.AddViolation(tag)
		}
	}

	if err := p.Save(ctx, snap); err != nil {
		return snap, err
	}

	if _, err := p.FetchLastWeek(ctx, userID); err != nil {
		p.cfg.Logger.Printf("WARNING: weekly refresh after consumption failed: %v", err)
	}

	return snap, nil
}
