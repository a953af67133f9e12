package local

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ademchenko/nutrimirror/internal/model"
)

// GetSnapshot retrieves the progress snapshot for (user, date).
// A miss is a valid empty state and returns (nil, nil).
func (db *DB) GetSnapshot(ctx context.Context, userID string, date model.Date) (*model.ProgressSnapshot, error) {
	query := `
	SELECT user_id, date, calories, protein, fat, carbs, sugar, salt,
	       violations, violated_tags
	FROM progress
	WHERE user_id = ? AND date = ?
	`

	snap, err := scanSnapshot(db.conn.QueryRowContext(ctx, query, userID, string(date)))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get progress for %s: %w", date, err)
	}
	return snap, nil
}

// SnapshotsByDateRange returns snapshots in [start, end] inclusive,
// ordered by date. Days with no row are simply absent.
func (db *DB) SnapshotsByDateRange(ctx context.Context, userID string, start, end model.Date) ([]model.ProgressSnapshot, error) {
	query := `
	SELECT user_id, date, calories, protein, fat, carbs, sugar, salt,
	       violations, violated_tags
	FROM progress
	WHERE user_id = ? AND date >= ? AND date <= ?
	ORDER BY date ASC
	`

	rows, err := db.conn.QueryContext(ctx, query, userID, string(start), string(end))
	if err != nil {
		return nil, fmt.Errorf("failed to query progress range [%s, %s]: %w", start, end, err)
	}
	defer rows.Close()

	var snaps []model.ProgressSnapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan progress snapshot: %w", err)
		}
		snaps = append(snaps, *snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating progress snapshots: %w", err)
	}

	return snaps, nil
}

// UpsertSnapshot inserts or replaces the snapshot keyed by (user, date).
func (db *DB) UpsertSnapshot(ctx context.Context, snap *model.ProgressSnapshot) error {
	tagsJSON, err := json.Marshal(snap.ViolatedTags)
	if err != nil {
		return fmt.Errorf("failed to marshal violated tags: %w", err)
	}

	query := `
	INSERT INTO progress (
		user_id, date, calories, protein, fat, carbs, sugar, salt,
		violations, violated_tags
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(user_id, date) DO UPDATE SET
		calories = excluded.calories,
		protein = excluded.protein,
		fat = excluded.fat,
		carbs = excluded.carbs,
		sugar = excluded.sugar,
		salt = excluded.salt,
		violations = excluded.violations,
		violated_tags = excluded.violated_tags
	`

	_, err = db.conn.ExecContext(ctx, query,
		snap.UserID,
		string(snap.Date),
		snap.Calories,
		snap.Protein,
		snap.Fat,
		snap.Carbs,
		snap.Sugar,
		snap.Salt,
		snap.ViolationsCount,
		string(tagsJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert progress for %s: %w", snap.Date, err)
	}

	return nil
}

// UpsertSnapshots upserts a batch of snapshots in one transaction,
// used to warm the cache from the weekly remote fetch.
func (db *DB) UpsertSnapshots(ctx context.Context, snaps []model.ProgressSnapshot) error {
	if len(snaps) == 0 {
		return nil
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
	INSERT INTO progress (
		user_id, date, calories, protein, fat, carbs, sugar, salt,
		violations, violated_tags
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(user_id, date) DO UPDATE SET
		calories = excluded.calories,
		protein = excluded.protein,
		fat = excluded.fat,
		carbs = excluded.carbs,
		sugar = excluded.sugar,
		salt = excluded.salt,
		violations = excluded.violations,
		violated_tags = excluded.violated_tags
	`

	for i := range snaps {
		s := &snaps[i]
		tagsJSON, err := json.Marshal(s.ViolatedTags)
		if err != nil {
			return fmt.Errorf("failed to marshal violated tags: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query,
			s.UserID, string(s.Date), s.Calories, s.Protein, s.Fat,
			s.Carbs, s.Sugar, s.Salt, s.ViolationsCount, string(tagsJSON),
		); err != nil {
			return fmt.Errorf("failed to upsert progress for %s: %w", s.Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit progress batch: %w", err)
	}
	return nil
}

func scanSnapshot(row scanner) (*model.ProgressSnapshot, error) {
	var snap model.ProgressSnapshot
	var date, tagsJSON string

	err := row.Scan(
		&snap.UserID,
		&date,
		&snap.Calories,
		&snap.Protein,
		&snap.Fat,
		&snap.Carbs,
		&snap.Sugar,
		&snap.Salt,
		&snap.ViolationsCount,
		&tagsJSON,
	)
	if err != nil {
		return nil, err
	}

	snap.Date = model.Date(date)
	if tagsJSON != "" && tagsJSON != "null" {
		if err := json.Unmarshal([]byte(tagsJSON), &snap.ViolatedTags); err != nil {
			return nil, fmt.Errorf("failed to unmarshal violated tags: %w", err)
		}
	}

	return &snap, nil
}
