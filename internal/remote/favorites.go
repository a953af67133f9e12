package remote

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/ademchenko/nutrimirror/internal/model"
)

type favoritesDocument struct {
	ProductIDs []string `json:"product_ids"`
}

// FavoriteIDs fetches the user's favorite-product id set.
// A user with no favorites document yields an empty set.
func (c *Client) FavoriteIDs(ctx context.Context, userID string) ([]string, error) {
	path := "/v1/users/" + url.PathEscape(userID) + "/favorites"

	var doc favoritesDocument
	if err := c.getJSON(ctx, "get favorites", path, nil, &doc); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return doc.ProductIDs, nil
}

// ReplaceFavorites overwrites the user's entire favorites document.
// This is a full set replace, never a merge: the local set is the
// source of truth and the remote mirror is last-writer-wins.
func (c *Client) ReplaceFavorites(ctx context.Context, userID string, productIDs []string) error {
	if productIDs == nil {
		productIDs = []string{}
	}
	path := "/v1/users/" + url.PathEscape(userID) + "/favorites"
	return c.sendJSON(ctx, "replace favorites", http.MethodPut, path,
		favoritesDocument{ProductIDs: productIDs})
}
