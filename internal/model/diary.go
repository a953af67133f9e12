package model

import "errors"

// ConsumptionEntry is one diary row: a user ate Weight grams of a
// product on a given day. Identity is (UserID, ProductID, Date); the
// local store keeps at most one row per key and repeated writes
// replace the weight. The remote store groups entries per (user, day).
//
// Entries whose date falls outside the trailing write window live
// remote-only; see sync.Ledger.
type ConsumptionEntry struct {
	UserID    string  `json:"user_id"`
	ProductID string  `json:"product_id"`
	Date      Date    `json:"date"`
	Weight    float64 `json:"weight"`
	// ProductName is denormalized for display so week views don't
	// need a catalog lookup per row.
	ProductName string `json:"product_name,omitempty"`
}

// Validate checks that the entry identifies a real consumption.
func (e *ConsumptionEntry) Validate() error {
	switch {
	case e.UserID == "":
		return errors.New("consumption entry: user id must not be empty")
	case e.ProductID == "":
		return errors.New("consumption entry: product id must not be empty")
	case e.Date == "":
		return errors.New("consumption entry: date must not be empty")
	case e.Weight <= 0:
		return errors.New("consumption entry: weight must be positive")
	}
	return nil
}
