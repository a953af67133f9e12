package remote

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/ademchenko/nutrimirror/internal/model"
)

// productPageResponse is the catalog listing envelope. NextCursor is
// an opaque continuation token; empty means the listing is exhausted.
type productPageResponse struct {
	Items      []model.ProductRecord `json:"items"`
	NextCursor string                `json:"next_cursor"`
}

// GetProduct fetches a single product by id.
// Returns model.ErrNotFound when the catalog has no such id.
func (c *Client) GetProduct(ctx context.Context, id string) (*model.ProductRecord, error) {
	var rec model.ProductRecord
	path := "/v1/products/" + url.PathEscape(id)
	if err := c.getJSON(ctx, "get product", path, nil, &rec); err != nil {
		return nil, err
	}
	if rec.ID == "" {
		return nil, fmt.Errorf("get product %s: %w", id, model.ErrMalformedRecord)
	}
	return &rec, nil
}

// ListProducts fetches one ordered catalog page.
//
// cursor is the continuation token from the previous page, or empty
// for the first page. The returned cursor is empty once the remote
// listing is exhausted; a page shorter than limit means the same.
func (c *Client) ListProducts(ctx context.Context, limit int, cursor string) ([]model.ProductRecord, string, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	if cursor != "" {
		query.Set("cursor", cursor)
	}

	var resp productPageResponse
	if err := c.getJSON(ctx, "list products", "/v1/products", query, &resp); err != nil {
		return nil, "", err
	}
	return resp.Items, resp.NextCursor, nil
}

// SearchProducts fetches all products whose name starts with prefix.
// The server runs a key-range scan bounded by the prefix and its
// successor key; results are unbounded and unpaginated.
func (c *Client) SearchProducts(ctx context.Context, prefix string) ([]model.ProductRecord, error) {
	query := url.Values{}
	query.Set("prefix", prefix)

	var resp productPageResponse
	if err := c.getJSON(ctx, "search products", "/v1/products/search", query, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}
