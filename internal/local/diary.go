package local

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ademchenko/nutrimirror/internal/model"
)

// UpsertEntry inserts or replaces a diary row keyed by
// (user, product, date). A repeated write replaces the weight.
func (db *DB) UpsertEntry(ctx context.Context, entry *model.ConsumptionEntry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("invalid consumption entry: %w", err)
	}

	query := `
	INSERT INTO diary (user_id, product_id, date, weight, product_name)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(user_id, product_id, date) DO UPDATE SET
		weight = excluded.weight,
		product_name = excluded.product_name
	`

	_, err := db.conn.ExecContext(ctx, query,
		entry.UserID,
		entry.ProductID,
		string(entry.Date),
		entry.Weight,
		entry.ProductName,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert diary entry %s/%s/%s: %w",
			entry.UserID, entry.ProductID, entry.Date, err)
	}

	return nil
}

// UpsertEntries upserts a batch of diary rows in one transaction.
// Used by the week backfill to persist remote-fetched entries.
func (db *DB) UpsertEntries(ctx context.Context, entries []model.ConsumptionEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
	INSERT INTO diary (user_id, product_id, date, weight, product_name)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(user_id, product_id, date) DO UPDATE SET
		weight = excluded.weight,
		product_name = excluded.product_name
	`

	for i := range entries {
		e := &entries[i]
		if err := e.Validate(); err != nil {
			return fmt.Errorf("invalid consumption entry: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query,
			e.UserID, e.ProductID, string(e.Date), e.Weight, e.ProductName,
		); err != nil {
			return fmt.Errorf("failed to upsert diary entry %s/%s/%s: %w",
				e.UserID, e.ProductID, e.Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit diary batch: %w", err)
	}
	return nil
}

// DeleteEntry removes a diary row. Idempotent: deleting a row that
// doesn't exist returns nil.
func (db *DB) DeleteEntry(ctx context.Context, entry *model.ConsumptionEntry) error {
	query := `DELETE FROM diary WHERE user_id = ? AND product_id = ? AND date = ?`
	_, err := db.conn.ExecContext(ctx, query,
		entry.UserID, entry.ProductID, string(entry.Date))
	if err != nil {
		return fmt.Errorf("failed to delete diary entry %s/%s/%s: %w",
			entry.UserID, entry.ProductID, entry.Date, err)
	}
	return nil
}

// EntriesByDate returns all diary rows for a user on one day.
func (db *DB) EntriesByDate(ctx context.Context, userID string, date model.Date) ([]model.ConsumptionEntry, error) {
	query := `
	SELECT user_id, product_id, date, weight, product_name
	FROM diary
	WHERE user_id = ? AND date = ?
	ORDER BY product_name ASC, product_id ASC
	`

	rows, err := db.conn.QueryContext(ctx, query, userID, string(date))
	if err != nil {
		return nil, fmt.Errorf("failed to query diary for %s: %w", date, err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// EntriesByDateRange returns all diary rows for a user in the
// inclusive range [start, end]. ISO dates order correctly as text.
func (db *DB) EntriesByDateRange(ctx context.Context, userID string, start, end model.Date) ([]model.ConsumptionEntry, error) {
	query := `
	SELECT user_id, product_id, date, weight, product_name
	FROM diary
	WHERE user_id = ? AND date >= ? AND date <= ?
	ORDER BY date ASC, product_name ASC, product_id ASC
	`

	rows, err := db.conn.QueryContext(ctx, query, userID, string(start), string(end))
	if err != nil {
		return nil, fmt.Errorf("failed to query diary range [%s, %s]: %w", start, end, err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]model.ConsumptionEntry, error) {
	var entries []model.ConsumptionEntry

	for rows.Next() {
		var e model.ConsumptionEntry
		var date string
		if err := rows.Scan(&e.UserID, &e.ProductID, &date, &e.Weight, &e.ProductName); err != nil {
			return nil, fmt.Errorf("failed to scan diary entry: %w", err)
		}
		e.Date = model.Date(date)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating diary entries: %w", err)
	}

	return entries, nil
}
