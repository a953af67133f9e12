package sync

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/ademchenko/nutrimirror/internal/model"
)

// defaultPageSize is used when a caller passes a non-positive size.
const defaultPageSize = 30

// Catalog resolves single-product lookups and merges paginated and
// search listings across the local cache and the remote catalog.
type Catalog struct {
	local  LocalStore
	remote RemoteStore
	logger *log.Logger
}

// NewCatalog creates a catalog sync component.
// If logger is nil, a default logger writing to stderr is used.
func NewCatalog(local LocalStore, remote RemoteStore, logger *log.Logger) *Catalog {
	if logger == nil {
		logger = log.New(os.Stderr, "[catalog] ", log.LstdFlags)
	}
	return &Catalog{local: local, remote: remote, logger: logger}
}

// PageRequest identifies one page of a catalog listing session. The
// caller threads RemoteCursor from the previous page's response, so
// concurrent paging sessions never share hidden state.
type PageRequest struct {
	// Size is the requested page length. Non-positive means 30.
	Size int
	// Offset is the numeric offset into the local catalog.
	Offset int
	// RemoteCursor is the opaque remote continuation token carried
	// across calls; empty on the first page.
	RemoteCursor string
}

// ProductPage is one merged page of catalog results.
type ProductPage struct {
	Items []model.ProductRecord
	// NextRemoteCursor must be passed back on the next page request.
	NextRemoteCursor string
	// HasMore is false once the remote listing is known exhausted.
	HasMore bool
	// Degraded is true when the remote leg failed and the page holds
	// local data only. The suppressed error is logged, not returned.
	Degraded bool
}

// GetByID resolves a product: local cache first, then remote with
// write-back. Remote failures (including not-found) surface to the
// caller; there is no silent default for a direct lookup.
//
// After a successful resolve the record is cached, so a repeat call
// answers from the local store without a remote round trip.
func (c *Catalog) GetByID(ctx context.Context, id string) (*model.ProductRecord, error) {
	rec, err := c.local.GetProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("local product lookup: %w", err)
	}
	if rec != nil {
		return rec, nil
	}

	rec, err = c.remote.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	// Write-back failure doesn't invalidate the fetched record.
	if err := c.local.UpsertProduct(ctx, rec); err != nil {
		c.logger.Printf("WARNING: failed to cache product %s: %v", rec.ID, err)
	}

	return rec, nil
}

// Search returns one page of catalog results.
//
// With an empty query this is the alphabetic listing: a numeric
// offset pages the local catalog, and any shortfall is topped up from
// the remote listing using the cursor carried in req. The remote
// top-up is upserted into the local cache before returning.
//
// With a non-empty query pagination is disabled: an unbounded local
// substring match is concatenated with an unbounded remote prefix
// match, de-duplicated by id with local entries taking precedence,
// and returned as a single page.
func (c *Catalog) Search(ctx context.Context, query string, req PageRequest) (*ProductPage, error) {
	if req.Size <= 0 {
		req.Size = defaultPageSize
	}
	if query == "" {
		return c.browsePage(ctx, req)
	}
	return c.searchAll(ctx, query)
}

func (c *Catalog) browsePage(ctx context.Context, req PageRequest) (*ProductPage, error) {
	localItems, err := c.local.ListProducts(ctx, req.Offset, req.Size)
	if err != nil {
		return nil, fmt.Errorf("local catalog page: %w", err)
	}

	page := &ProductPage{
		Items:            localItems,
		NextRemoteCursor: req.RemoteCursor,
		HasMore:          true,
	}

	shortfall := req.Size - len(localItems)
	if shortfall <= 0 {
		return page, nil
	}

	remoteItems, next, err := c.remote.ListProducts(ctx, shortfall, req.RemoteCursor)
	if err != nil {
		// Availability over completeness: return the local part and
		// let the caller retry the same page later.
		c.logger.Printf("WARNING: remote catalog page failed, returning local only: %v", err)
		page.Degraded = true
		return page, nil
	}

	merged := dedupMerge(localItems, remoteItems)
	topUp := merged[len(localItems):]

	if err := c.local.UpsertProducts(ctx, topUp); err != nil {
		c.logger.Printf("WARNING: failed to cache %d remote products: %v", len(topUp), err)
	}

	page.Items = merged
	page.NextRemoteCursor = next
	// A short remote page means the remote listing is exhausted.
	page.HasMore = len(remoteItems) >= shortfall && next != ""
	return page, nil
}

func (c *Catalog) searchAll(ctx context.Context, query string) (*ProductPage, error) {
	localItems, err := c.local.SearchProducts(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("local catalog search: %w", err)
	}

	page := &ProductPage{Items: localItems, HasMore: false}

	remoteItems, err := c.remote.SearchProducts(ctx, query)
	if err != nil {
		// Malformed payloads degrade like transport failures here;
		// only direct-id lookups propagate them.
		c.logger.Printf("WARNING: remote catalog search failed, returning local only: %v", err)
		page.Degraded = true
		return page, nil
	}

	merged := dedupMerge(localItems, remoteItems)
	newHits := merged[len(localItems):]

	if err := c.local.UpsertProducts(ctx, newHits); err != nil {
		c.logger.Printf("WARNING: failed to cache %d remote search hits: %v", len(newHits), err)
	}

	page.Items = merged
	return page, nil
}

// dedupMerge appends remote records to the local ones, dropping any
// remote record whose id is already present. Within a single merge
// pass local entries always win; across calls the upsert write-back
// lets the most recent remote fetch win.
func dedupMerge(local, remote []model.ProductRecord) []model.ProductRecord {
	seen := make(map[string]struct{}, len(local))
	for i := range local {
		seen[local[i].ID] = struct{}{}
	}

	merged := local
	for i := range remote {
		if _, dup := seen[remote[i].ID]; dup {
			continue
		}
		seen[remote[i].ID] = struct{}{}
		merged = append(merged, remote[i])
	}
	return merged
}
