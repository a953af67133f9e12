package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	"github.com/ademchenko/nutrimirror/internal/model"
)

var dateParser = func() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}()

// parseUserDate accepts ISO dates and natural language ("today",
// "yesterday", "2 days ago").
func parseUserDate(s string) (model.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.Today(), nil
	}

	if d, err := model.ParseDate(s); err == nil {
		return d, nil
	}

	r, err := dateParser.Parse(s, time.Now())
	if err == nil && r != nil {
		return model.DateOf(r.Time), nil
	}

	return "", fmt.Errorf("could not understand date %q", s)
}

// formatNutrient renders a per-100g value, or a dash when unknown.
func formatNutrient(v float64) string {
	if v < 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f", v)
}

// productLine renders one catalog row for list output.
func productLine(p *model.ProductRecord) string {
	name := p.Name
	if p.Brand != "" {
		name += " (" + p.Brand + ")"
	}
	return fmt.Sprintf("%-20s %-40s %6s kcal/100g", p.ID, name, formatNutrient(p.EnergyKcal))
}
