// Package model defines the domain types shared by the local store,
// the remote store client, and the sync layer: catalog products,
// diary consumption entries, daily progress snapshots, and the
// common error taxonomy for store operations.
package model

import (
	"errors"
	"math"
)

// NutrientUnknown is the sentinel for a nutritional field the catalog
// source did not report. Unknown nutrients contribute nothing to
// progress aggregates.
const NutrientUnknown = -1

// AllergenTag identifies an allergen class a product may carry.
// The set on a record is unordered; duplicates are meaningless.
type AllergenTag string

const (
	AllergenGluten  AllergenTag = "gluten"
	AllergenLactose AllergenTag = "lactose"
	AllergenNuts    AllergenTag = "nuts"
	AllergenPeanut  AllergenTag = "peanut"
	AllergenEgg     AllergenTag = "egg"
	AllergenSoy     AllergenTag = "soy"
	AllergenFish    AllergenTag = "fish"
	AllergenSesame  AllergenTag = "sesame"
)

// ProductRecord is a catalog product. ID is the stable primary key in
// both stores; a record fetched remotely keeps its remote id as the
// local key, so there are no identity conflicts on write-back.
//
// Records are immutable except for whole-record replace-on-conflict
// (upsert) and are never deleted individually, only by catalog-clear
// maintenance.
type ProductRecord struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Brand        string  `json:"brand,omitempty"`
	Manufacturer string  `json:"manufacturer,omitempty"`
	Unit         string  `json:"unit,omitempty"`
	Weight       float64 `json:"weight,omitempty"`
	ImageURL     string  `json:"image_url,omitempty"`
	ThumbURL     string  `json:"thumb_url,omitempty"`

	// Nutritional values per 100 g; NutrientUnknown when unreported.
	EnergyKcal float64 `json:"energy_kcal"`
	Protein    float64 `json:"protein"`
	Fat        float64 `json:"fat"`
	Carbs      float64 `json:"carbs"`
	Sugar      float64 `json:"sugar"`
	Salt       float64 `json:"salt"`

	Ingredients []string      `json:"ingredients,omitempty"`
	Allergens   []AllergenTag `json:"allergens,omitempty"`
}

// Validate checks the persistence invariant: a record must have an id
// before it can be written to either store.
func (p *ProductRecord) Validate() error {
	if p.ID == "" {
		return errors.New("product id must not be empty")
	}
	return nil
}

// HasAllergen reports whether tag is present in the record's set.
func (p *ProductRecord) HasAllergen(tag AllergenTag) bool {
	for _, t := range p.Allergens {
		if t == tag {
			return true
		}
	}
	return false
}

// ScalePer100 converts a per-100g nutrient value to whole units for a
// consumed portion of the given weight in grams. Unknown nutrients
// scale to zero.
func ScalePer100(per100, grams float64) int {
	if per100 < 0 {
		return 0
	}
	return int(math.Round(per100 * grams / 100))
}
