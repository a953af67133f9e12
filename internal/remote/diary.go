package remote

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/ademchenko/nutrimirror/internal/model"
)

// diaryDayResponse is the per-(user, date) diary document: the list
// of everything consumed that day.
type diaryDayResponse struct {
	Entries []model.ConsumptionEntry `json:"entries"`
}

// EntriesByDate fetches the diary document for one day.
// A day with no document is a valid empty state, not an error.
func (c *Client) EntriesByDate(ctx context.Context, userID string, date model.Date) ([]model.ConsumptionEntry, error) {
	path := "/v1/users/" + url.PathEscape(userID) + "/diary/" + url.PathEscape(string(date))

	var resp diaryDayResponse
	if err := c.getJSON(ctx, "get diary day", path, nil, &resp); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return resp.Entries, nil
}

// UpsertEntry writes one consumption entry into the per-day document.
// The server replaces an existing item with the same product id
// in-place, or appends a new one.
func (c *Client) UpsertEntry(ctx context.Context, entry *model.ConsumptionEntry) error {
	path := "/v1/users/" + url.PathEscape(entry.UserID) +
		"/diary/" + url.PathEscape(string(entry.Date)) +
		"/items/" + url.PathEscape(entry.ProductID)
	return c.sendJSON(ctx, "upsert diary entry", http.MethodPut, path, entry)
}

// DeleteEntry removes one item from the per-day document.
func (c *Client) DeleteEntry(ctx context.Context, entry *model.ConsumptionEntry) error {
	path := "/v1/users/" + url.PathEscape(entry.UserID) +
		"/diary/" + url.PathEscape(string(entry.Date)) +
		"/items/" + url.PathEscape(entry.ProductID)
	return c.sendJSON(ctx, "delete diary entry", http.MethodDelete, path, nil)
}
