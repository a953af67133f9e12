package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/ademchenko/nutrimirror/internal/model"
)

type progressRangeResponse struct {
	Days []model.ProgressSnapshot `json:"days"`
}

// GetSnapshot fetches the progress snapshot for one day.
// Returns model.ErrNotFound for a day with no snapshot.
func (c *Client) GetSnapshot(ctx context.Context, userID string, date model.Date) (*model.ProgressSnapshot, error) {
	path := "/v1/users/" + url.PathEscape(userID) + "/progress/" + url.PathEscape(string(date))

	var snap model.ProgressSnapshot
	if err := c.getJSON(ctx, "get progress", path, nil, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// SnapshotRange fetches every stored snapshot in [from, to] with one
// key-range query. Days with no snapshot are simply absent.
func (c *Client) SnapshotRange(ctx context.Context, userID string, from, to model.Date) ([]model.ProgressSnapshot, error) {
	path := "/v1/users/" + url.PathEscape(userID) + "/progress"
	query := url.Values{}
	query.Set("from", string(from))
	query.Set("to", string(to))

	var resp progressRangeResponse
	if err := c.getJSON(ctx, "progress range", path, query, &resp); err != nil {
		return nil, err
	}
	return resp.Days, nil
}

// SaveSnapshot writes the snapshot for its own (user, date) key.
func (c *Client) SaveSnapshot(ctx context.Context, snap *model.ProgressSnapshot) error {
	path := "/v1/users/" + url.PathEscape(snap.UserID) +
		"/progress/" + url.PathEscape(string(snap.Date))
	return c.sendJSON(ctx, "save progress", http.MethodPut, path, snap)
}
