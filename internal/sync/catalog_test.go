package sync

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ademchenko/nutrimirror/internal/model"
)

func product(id, name string) model.ProductRecord {
	return model.ProductRecord{
		ID:         id,
		Name:       name,
		Unit:       "g",
		EnergyKcal: 100,
		Protein:    10,
		Fat:        5,
		Carbs:      20,
		Sugar:      3,
		Salt:       1,
	}
}

func TestGetByIDCachesRemoteFetch(t *testing.T) {
	local := newFakeLocal()
	remote := newFakeRemote()
	remote.products["p1"] = product("p1", "Oatmeal")
	c := NewCatalog(local, remote, discardLogger())

	ctx := context.Background()
	rec, err := c.GetByID(ctx, "p1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if rec.Name != "Oatmeal" {
		t.Fatalf("got %q, want Oatmeal", rec.Name)
	}
	if remote.getProductCalls != 1 {
		t.Fatalf("remote calls = %d, want 1", remote.getProductCalls)
	}

	// Second lookup must answer from the local cache.
	if _, err := c.GetByID(ctx, "p1"); err != nil {
		t.Fatalf("second GetByID: %v", err)
	}
	if remote.getProductCalls != 1 {
		t.Fatalf("remote calls after cached lookup = %d, want 1", remote.getProductCalls)
	}
}

func TestGetByIDNotFoundPropagates(t *testing.T) {
	c := NewCatalog(newFakeLocal(), newFakeRemote(), discardLogger())

	_, err := c.GetByID(context.Background(), "ghost")
	if !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestGetByIDTransportFailurePropagates(t *testing.T) {
	remote := newFakeRemote()
	remote.failGetProduct = &model.TransportError{Op: "get product", Err: errors.New("connection refused")}
	c := NewCatalog(newFakeLocal(), remote, discardLogger())

	_, err := c.GetByID(context.Background(), "p1")
	if !model.IsTransport(err) {
		t.Fatalf("err = %v, want transport error", err)
	}
}

func TestBrowseFullLocalPageSkipsRemote(t *testing.T) {
	local := newFakeLocal()
	for i := 0; i < 5; i++ {
		p := product(fmt.Sprintf("p%d", i), fmt.Sprintf("Product %d", i))
		local.products[p.ID] = p
	}
	remote := newFakeRemote()
	c := NewCatalog(local, remote, discardLogger())

	page, err := c.Search(context.Background(), "", PageRequest{Size: 5})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(page.Items) != 5 {
		t.Fatalf("items = %d, want 5", len(page.Items))
	}
	if remote.listCalls != 0 {
		t.Fatalf("remote list calls = %d, want 0", remote.listCalls)
	}
	if !page.HasMore {
		t.Fatal("HasMore = false for a full local page")
	}
}

func TestBrowseTopUpFromRemoteIsCached(t *testing.T) {
	local := newFakeLocal()
	remote := newFakeRemote()
	for i := 0; i < 10; i++ {
		remote.listItems = append(remote.listItems,
			product(fmt.Sprintf("r%d", i), fmt.Sprintf("Remote %d", i)))
	}
	c := NewCatalog(local, remote, discardLogger())

	page, err := c.Search(context.Background(), "", PageRequest{Size: 30})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(page.Items) != 10 {
		t.Fatalf("items = %d, want 10", len(page.Items))
	}
	if len(local.products) != 10 {
		t.Fatalf("cached products = %d, want 10", len(local.products))
	}
	// A short remote page exhausts the listing.
	if page.HasMore {
		t.Fatal("HasMore = true after a short remote page")
	}
}

func TestBrowseCursorContinuesListing(t *testing.T) {
	local := newFakeLocal()
	remote := newFakeRemote()
	for i := 0; i < 8; i++ {
		remote.listItems = append(remote.listItems,
			product(fmt.Sprintf("r%d", i), fmt.Sprintf("Remote %d", i)))
	}
	c := NewCatalog(local, remote, discardLogger())
	ctx := context.Background()

	first, err := c.Search(ctx, "", PageRequest{Size: 3, Offset: 0})
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	if first.NextRemoteCursor == "" {
		t.Fatal("first page carried no continuation cursor")
	}

	second, err := c.Search(ctx, "", PageRequest{
		Size:         3,
		Offset:       3,
		RemoteCursor: first.NextRemoteCursor,
	})
	if err != nil {
		t.Fatalf("second page: %v", err)
	}

	seen := make(map[string]bool)
	for _, rec := range append(first.Items, second.Items...) {
		if seen[rec.ID] {
			t.Fatalf("duplicate id %s across pages", rec.ID)
		}
		seen[rec.ID] = true
	}
}

func TestBrowseRemoteFailureDegrades(t *testing.T) {
	local := newFakeLocal()
	local.products["p1"] = product("p1", "Oatmeal")
	remote := newFakeRemote()
	remote.failList = &model.TransportError{Op: "list products", Err: errors.New("timeout")}
	c := NewCatalog(local, remote, discardLogger())

	page, err := c.Search(context.Background(), "", PageRequest{Size: 30})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !page.Degraded {
		t.Fatal("Degraded = false after remote failure")
	}
	if len(page.Items) != 1 {
		t.Fatalf("items = %d, want the local part only", len(page.Items))
	}
	// The caller can retry the same page later.
	if !page.HasMore {
		t.Fatal("HasMore = false on a degraded page")
	}
}

func TestSearchMergeDeduplicatesByID(t *testing.T) {
	local := newFakeLocal()
	cached := product("p1", "Granola")
	cached.Brand = "cached-brand"
	local.products["p1"] = cached

	remote := newFakeRemote()
	stale := product("p1", "Granola")
	stale.Brand = "remote-brand"
	remote.products["p1"] = stale
	remote.products["p2"] = product("p2", "Granola Crunch")

	c := NewCatalog(local, remote, discardLogger())
	page, err := c.Search(context.Background(), "Granola", PageRequest{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(page.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(page.Items))
	}
	for _, rec := range page.Items {
		if rec.ID == "p1" && rec.Brand != "cached-brand" {
			t.Fatalf("local record lost precedence: brand = %q", rec.Brand)
		}
	}
	// The remote-only hit got cached for next time.
	if _, ok := local.products["p2"]; !ok {
		t.Fatal("remote search hit was not cached")
	}
}

func TestSearchRemoteFailureDegrades(t *testing.T) {
	local := newFakeLocal()
	local.products["p1"] = product("p1", "Granola")
	remote := newFakeRemote()
	remote.failSearch = &model.TransportError{Op: "search products", Err: errors.New("boom")}
	c := NewCatalog(local, remote, discardLogger())

	page, err := c.Search(context.Background(), "Gran", PageRequest{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !page.Degraded {
		t.Fatal("Degraded = false after remote search failure")
	}
	if len(page.Items) != 1 || page.Items[0].ID != "p1" {
		t.Fatalf("expected the local hit, got %+v", page.Items)
	}
}
