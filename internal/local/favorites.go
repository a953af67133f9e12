package local

import (
	"context"
	"fmt"
)

// The favorites table is a single id set per installation; the device
// is implicitly single-user, so rows carry no user column.

// AddFavorite marks a product id as favorite. Idempotent.
func (db *DB) AddFavorite(ctx context.Context, productID string) error {
	query := `INSERT INTO favorites (product_id) VALUES (?) ON CONFLICT DO NOTHING`
	if _, err := db.conn.ExecContext(ctx, query, productID); err != nil {
		return fmt.Errorf("failed to add favorite %s: %w", productID, err)
	}
	return nil
}

// RemoveFavorite unmarks a product id. Idempotent.
func (db *DB) RemoveFavorite(ctx context.Context, productID string) error {
	query := `DELETE FROM favorites WHERE product_id = ?`
	if _, err := db.conn.ExecContext(ctx, query, productID); err != nil {
		return fmt.Errorf("failed to remove favorite %s: %w", productID, err)
	}
	return nil
}

// IsFavorite reports set membership for a product id.
func (db *DB) IsFavorite(ctx context.Context, productID string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM favorites WHERE product_id = ?`
	if err := db.conn.QueryRowContext(ctx, query, productID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check favorite %s: %w", productID, err)
	}
	return count > 0, nil
}

// ListFavorites returns every favorite product id, ordered for
// stable pagination.
func (db *DB) ListFavorites(ctx context.Context) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT product_id FROM favorites ORDER BY product_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating favorites: %w", err)
	}

	return ids, nil
}
