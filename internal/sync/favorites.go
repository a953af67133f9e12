package sync

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/ademchenko/nutrimirror/internal/model"
)

// Favorites maintains the user's favorite-product id set,
// synchronized bidirectionally with the remote store and expanded
// into full product records through the Catalog component.
type Favorites struct {
	local   LocalStore
	remote  RemoteStore
	catalog *Catalog
	logger  *log.Logger
}

// NewFavorites creates a favorites sync component.
// If logger is nil, a default logger writing to stderr is used.
func NewFavorites(local LocalStore, remote RemoteStore, catalog *Catalog, logger *log.Logger) *Favorites {
	if logger == nil {
		logger = log.New(os.Stderr, "[favorites] ", log.LstdFlags)
	}
	return &Favorites{local: local, remote: remote, catalog: catalog, logger: logger}
}

// Toggle flips the favorite state of productID locally, then pushes
// the ENTIRE post-toggle local set to the remote store as a full
// replace. The remote mirror is last-writer-wins, never merged.
//
// Returns the new membership. A failed push is not rolled back
// locally; the error is returned alongside the new state and the
// next successful toggle will reconcile the mirror.
func (f *Favorites) Toggle(ctx context.Context, productID, userID string) (bool, error) {
	isFav, err := f.local.IsFavorite(ctx, productID)
	if err != nil {
		return false, fmt.Errorf("favorite lookup: %w", err)
	}

	if isFav {
		err = f.local.RemoveFavorite(ctx, productID)
	} else {
		err = f.local.AddFavorite(ctx, productID)
	}
	if err != nil {
		return isFav, fmt.Errorf("favorite toggle: %w", err)
	}

	ids, err := f.local.ListFavorites(ctx)
	if err != nil {
		return !isFav, fmt.Errorf("favorite set read: %w", err)
	}

	if err := f.remote.ReplaceFavorites(ctx, userID, ids); err != nil {
		f.logger.Printf("WARNING: favorites push failed, local set kept: %v", err)
		return !isFav, fmt.Errorf("favorites push: %w", err)
	}

	return !isFav, nil
}

// AllIDs returns the local favorite set when non-empty, falling back
// to the remote document otherwise. The fetched set is not cached
// locally beyond what toggling would produce. A remote failure on
// the fallback degrades to an empty set and is logged.
func (f *Favorites) AllIDs(ctx context.Context, userID string) ([]string, error) {
	ids, err := f.local.ListFavorites(ctx)
	if err != nil {
		return nil, fmt.Errorf("favorite set read: %w", err)
	}
	if len(ids) > 0 {
		return ids, nil
	}

	ids, err = f.remote.FavoriteIDs(ctx, userID)
	if err != nil {
		f.logger.Printf("WARNING: remote favorites fetch failed, returning empty set: %v", err)
		return nil, nil
	}
	return ids, nil
}

// ByPage slices ids into [pageIndex*pageSize, pageIndex*pageSize+pageSize)
// and resolves each id through the catalog's local-then-remote-then-
// cache lookup. An out-of-range slice yields an empty page, not an
// error; ids that fail to resolve are logged and skipped so one bad
// record can't empty the page.
func (f *Favorites) ByPage(ctx context.Context, ids []string, pageSize, pageIndex int) ([]model.ProductRecord, error) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageIndex < 0 {
		return nil, nil
	}

	start := pageIndex * pageSize
	if start >= len(ids) {
		return nil, nil
	}
	end := start + pageSize
	if end > len(ids) {
		end = len(ids)
	}

	records := make([]model.ProductRecord, 0, end-start)
	for _, id := range ids[start:end] {
		rec, err := f.catalog.GetByID(ctx, id)
		if err != nil {
			f.logger.Printf("WARNING: favorite %s did not resolve: %v", id, err)
			continue
		}
		records = append(records, *rec)
	}
	return records, nil
}
