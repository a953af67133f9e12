package local

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ademchenko/nutrimirror/internal/model"
)

const productColumns = `id, name, brand, manufacturer, unit, weight,
	image_url, thumb_url, energy_kcal, protein, fat, carbs, sugar, salt,
	ingredients, allergens`

// GetProduct retrieves a single product by id.
// A miss is a valid empty state and returns (nil, nil).
func (db *DB) GetProduct(ctx context.Context, id string) (*model.ProductRecord, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ?`

	rec, err := scanProduct(db.conn.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", id, err)
	}
	return rec, nil
}

// SearchProducts returns all products whose name contains pattern,
// case-insensitively, ordered by name. Full-text search mode is
// unpaginated, so no limit is applied here.
func (db *DB) SearchProducts(ctx context.Context, pattern string) ([]model.ProductRecord, error) {
	query := `SELECT ` + productColumns + ` FROM products
		WHERE name LIKE '%' || ? || '%' COLLATE NOCASE
		ORDER BY name ASC, id ASC`

	rows, err := db.conn.QueryContext(ctx, query, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// ListProducts returns one offset-based page of the catalog ordered
// by name, for the alphabetic (empty query) listing mode.
func (db *DB) ListProducts(ctx context.Context, offset, limit int) ([]model.ProductRecord, error) {
	query := `SELECT ` + productColumns + ` FROM products
		ORDER BY name ASC, id ASC
		LIMIT ? OFFSET ?`

	rows, err := db.conn.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// UpsertProduct inserts or replaces a product keyed by id.
func (db *DB) UpsertProduct(ctx context.Context, rec *model.ProductRecord) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("invalid product: %w", err)
	}

	ingredientsJSON, err := json.Marshal(rec.Ingredients)
	if err != nil {
		return fmt.Errorf("failed to marshal ingredients: %w", err)
	}
	allergensJSON, err := json.Marshal(rec.Allergens)
	if err != nil {
		return fmt.Errorf("failed to marshal allergens: %w", err)
	}

	query := `
	INSERT INTO products (
		id, name, brand, manufacturer, unit, weight,
		image_url, thumb_url, energy_kcal, protein, fat, carbs, sugar, salt,
		ingredients, allergens, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		name = excluded.name,
		brand = excluded.brand,
		manufacturer = excluded.manufacturer,
		unit = excluded.unit,
		weight = excluded.weight,
		image_url = excluded.image_url,
		thumb_url = excluded.thumb_url,
		energy_kcal = excluded.energy_kcal,
		protein = excluded.protein,
		fat = excluded.fat,
		carbs = excluded.carbs,
		sugar = excluded.sugar,
		salt = excluded.salt,
		ingredients = excluded.ingredients,
		allergens = excluded.allergens,
		updated_at = excluded.updated_at
	`

	_, err = db.conn.ExecContext(ctx, query,
		rec.ID,
		rec.Name,
		rec.Brand,
		rec.Manufacturer,
		rec.Unit,
		rec.Weight,
		rec.ImageURL,
		rec.ThumbURL,
		rec.EnergyKcal,
		rec.Protein,
		rec.Fat,
		rec.Carbs,
		rec.Sugar,
		rec.Salt,
		string(ingredientsJSON),
		string(allergensJSON),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert product %s: %w", rec.ID, err)
	}

	return nil
}

// UpsertProducts upserts a batch of products in a single transaction,
// used to write back remote pages and search hits.
func (db *DB) UpsertProducts(ctx context.Context, recs []model.ProductRecord) error {
	if len(recs) == 0 {
		return nil
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i := range recs {
		if err := db.upsertProductTx(ctx, tx, &recs[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit product batch: %w", err)
	}
	return nil
}

func (db *DB) upsertProductTx(ctx context.Context, tx *sql.Tx, rec *model.ProductRecord) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("invalid product: %w", err)
	}

	ingredientsJSON, err := json.Marshal(rec.Ingredients)
	if err != nil {
		return fmt.Errorf("failed to marshal ingredients: %w", err)
	}
	allergensJSON, err := json.Marshal(rec.Allergens)
	if err != nil {
		return fmt.Errorf("failed to marshal allergens: %w", err)
	}

	query := `
	INSERT INTO products (
		id, name, brand, manufacturer, unit, weight,
		image_url, thumb_url, energy_kcal, protein, fat, carbs, sugar, salt,
		ingredients, allergens, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		name = excluded.name,
		brand = excluded.brand,
		manufacturer = excluded.manufacturer,
		unit = excluded.unit,
		weight = excluded.weight,
		image_url = excluded.image_url,
		thumb_url = excluded.thumb_url,
		energy_kcal = excluded.energy_kcal,
		protein = excluded.protein,
		fat = excluded.fat,
		carbs = excluded.carbs,
		sugar = excluded.sugar,
		salt = excluded.salt,
		ingredients = excluded.ingredients,
		allergens = excluded.allergens,
		updated_at = excluded.updated_at
	`

	_, err = tx.ExecContext(ctx, query,
		rec.ID,
		rec.Name,
		rec.Brand,
		rec.Manufacturer,
		rec.Unit,
		rec.Weight,
		rec.ImageURL,
		rec.ThumbURL,
		rec.EnergyKcal,
		rec.Protein,
		rec.Fat,
		rec.Carbs,
		rec.Sugar,
		rec.Salt,
		string(ingredientsJSON),
		string(allergensJSON),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert product %s: %w", rec.ID, err)
	}
	return nil
}

// CountProducts returns the number of cached catalog products.
func (db *DB) CountProducts(ctx context.Context) (int, error) {
	var count int
	err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// ClearProducts wipes the catalog cache. Maintenance only; diary rows
// keep their denormalized product names and are unaffected.
func (db *DB) ClearProducts(ctx context.Context) error {
	if _, err := db.conn.ExecContext(ctx, "DELETE FROM products"); err != nil {
		return fmt.Errorf("failed to clear products: %w", err)
	}
	return nil
}

// scanner abstracts sql.Row and sql.Rows for scanProduct.
type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner) (*model.ProductRecord, error) {
	var rec model.ProductRecord
	var ingredientsJSON, allergensJSON string

	err := row.Scan(
		&rec.ID,
		&rec.Name,
		&rec.Brand,
		&rec.Manufacturer,
		&rec.Unit,
		&rec.Weight,
		&rec.ImageURL,
		&rec.ThumbURL,
		&rec.EnergyKcal,
		&rec.Protein,
		&rec.Fat,
		&rec.Carbs,
		&rec.Sugar,
		&rec.Salt,
		&ingredientsJSON,
		&allergensJSON,
	)
	if err != nil {
		return nil, err
	}

	if ingredientsJSON != "" && ingredientsJSON != "null" {
		if err := json.Unmarshal([]byte(ingredientsJSON), &rec.Ingredients); err != nil {
			return nil, fmt.Errorf("failed to unmarshal ingredients: %w", err)
		}
	}
	if allergensJSON != "" && allergensJSON != "null" {
		if err := json.Unmarshal([]byte(allergensJSON), &rec.Allergens); err != nil {
			return nil, fmt.Errorf("failed to unmarshal allergens: %w", err)
		}
	}

	return &rec, nil
}

func scanProducts(rows *sql.Rows) ([]model.ProductRecord, error) {
	var recs []model.ProductRecord

	for rows.Next() {
		rec, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		recs = append(recs, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return recs, nil
}
