// Package sync implements the hybrid local/remote synchronization
// core: for each data class (catalog, diary ledger, progress
// snapshots, favorites) it decides whether to read from the local
// cache, fall back to remote, merge paginated results from both, and
// selectively persist remote data locally.
//
// The components are designed to be resilient over degraded
// connectivity: aggregate reads swallow remote failures and return
// whatever the local store has, flagging the result as degraded.
// Direct single-entity lookups propagate remote failures instead.
// No component retries; retry policy belongs to callers and to the
// remote transport.
package sync

import (
	"context"

	"github.com/ademchenko/nutrimirror/internal/model"
)

// LocalStore is the persistent, synchronously-queryable on-device
// store. It exclusively owns persisted rows; sync components own no
// state beyond transient pagination cursors.
//
// Lookups that match nothing return (nil, nil): a local miss is a
// valid empty state, not an error. All writes are upserts keyed by
// the record's identity.
type LocalStore interface {
	// GetProduct returns the cached product or (nil, nil) on a miss.
	GetProduct(ctx context.Context, id string) (*model.ProductRecord, error)

	// SearchProducts returns all cached products whose name contains
	// pattern, case-insensitively, ordered by name.
	SearchProducts(ctx context.Context, pattern string) ([]model.ProductRecord, error)

	// ListProducts returns one offset-based catalog page ordered by name.
	ListProducts(ctx context.Context, offset, limit int) ([]model.ProductRecord, error)

	// UpsertProduct inserts or replaces a product keyed by id.
	UpsertProduct(ctx context.Context, rec *model.ProductRecord) error

	// UpsertProducts upserts a batch of products atomically.
	UpsertProducts(ctx context.Context, recs []model.ProductRecord) error

	// UpsertEntry inserts or replaces a diary row keyed by
	// (user, product, date).
	UpsertEntry(ctx context.Context, entry *model.ConsumptionEntry) error

	// UpsertEntries upserts a batch of diary rows atomically.
	UpsertEntries(ctx context.Context, entries []model.ConsumptionEntry) error

	// DeleteEntry removes a diary row. Idempotent.
	DeleteEntry(ctx context.Context, entry *model.ConsumptionEntry) error

	// EntriesByDateRange returns diary rows in [start, end] inclusive.
	EntriesByDateRange(ctx context.Context, userID string, start, end model.Date) ([]model.ConsumptionEntry, error)

	// GetSnapshot returns the cached snapshot or (nil, nil) on a miss.
	GetSnapshot(ctx context.Context, userID string, date model.Date) (*model.ProgressSnapshot, error)

	// SnapshotsByDateRange returns cached snapshots in [start, end].
	SnapshotsByDateRange(ctx context.Context, userID string, start, end model.Date) ([]model.ProgressSnapshot, error)

	// UpsertSnapshot inserts or replaces a snapshot keyed by (user, date).
	UpsertSnapshot(ctx context.Context, snap *model.ProgressSnapshot) error

	// UpsertSnapshots upserts a batch of snapshots atomically.
	UpsertSnapshots(ctx context.Context, snaps []model.ProgressSnapshot) error

	// AddFavorite, RemoveFavorite, IsFavorite, and ListFavorites
	// maintain the single on-device favorite-product id set.
	AddFavorite(ctx context.Context, productID string) error
	RemoveFavorite(ctx context.Context, productID string) error
	IsFavorite(ctx context.Context, productID string) (bool, error)
	ListFavorites(ctx context.Context) ([]string, error)
}

// RemoteStore is the network-backed, document-oriented store. Calls
// are fallible; errors follow the model taxonomy (ErrNotFound,
// ErrMalformedRecord, TransportError).
type RemoteStore interface {
	// GetProduct returns the product or model.ErrNotFound.
	GetProduct(ctx context.Context, id string) (*model.ProductRecord, error)

	// ListProducts returns one ordered page plus the continuation
	// cursor for the next call; an empty cursor or a short page means
	// the listing is exhausted.
	ListProducts(ctx context.Context, limit int, cursor string) ([]model.ProductRecord, string, error)

	// SearchProducts returns every product whose name matches the
	// prefix range. Unpaginated.
	SearchProducts(ctx context.Context, prefix string) ([]model.ProductRecord, error)

	// EntriesByDate returns the diary document for one day; a day
	// with no document yields an empty list.
	EntriesByDate(ctx context.Context, userID string, date model.Date) ([]model.ConsumptionEntry, error)

	// UpsertEntry replaces-or-appends one entry in its per-day
	// document, keyed by product id.
	UpsertEntry(ctx context.Context, entry *model.ConsumptionEntry) error

	// DeleteEntry removes one entry from its per-day document.
	DeleteEntry(ctx context.Context, entry *model.ConsumptionEntry) error

	// GetSnapshot returns the snapshot or model.ErrNotFound.
	GetSnapshot(ctx context.Context, userID string, date model.Date) (*model.ProgressSnapshot, error)

	// SnapshotRange returns every stored snapshot in [from, to].
	SnapshotRange(ctx context.Context, userID string, from, to model.Date) ([]model.ProgressSnapshot, error)

	// SaveSnapshot writes the snapshot for its own (user, date) key.
	SaveSnapshot(ctx context.Context, snap *model.ProgressSnapshot) error

	// FavoriteIDs returns the user's favorite-product id set.
	FavoriteIDs(ctx context.Context, userID string) ([]string, error)

	// ReplaceFavorites overwrites the whole favorites document.
	// Full set replace, never a merge.
	ReplaceFavorites(ctx context.Context, userID string, productIDs []string) error
}
