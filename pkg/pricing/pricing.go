// Package pricing estimates the price of a project from its intake answers.
//
// A Table holds a base price per project type (with a "custom" fallback), a
// price for every page beyond the first, per-feature prices and an add-on
// catalog. Tables are loaded from YAML.
package pricing

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/intake/pkg/domain"
)

// FallbackType is the base price key used when the project type has no entry.
const FallbackType = "custom"

// Addon is a purchasable extra.
type Addon struct {
	Name        string  `yaml:"name" json:"name"`
	Description string  `yaml:"description" json:"description"`
	Price       float64 `yaml:"price" json:"price"`
	Duration    string  `yaml:"duration" json:"duration"`
}

// Table is the pricing structure.
type Table struct {
	Currency      string             `yaml:"currency" json:"currency"`
	BasePrices    map[string]float64 `yaml:"base_prices" json:"base_prices"`
	PagePrice     float64            `yaml:"page_price" json:"page_price"`
	FeaturePrices map[string]float64 `yaml:"feature_prices" json:"feature_prices"`
	Addons        map[string]Addon   `yaml:"addons" json:"addons"`
}

// Estimate is an itemized price.
type Estimate struct {
	Currency string  `json:"currency"`
	Base     float64 `json:"base"`
	Pages    float64 `json:"pages"`
	Features float64 `json:"features"`
	Addons   float64 `json:"addons"`
	Total    float64 `json:"total"`
}

// Default returns the built-in table.
func Default() *Table {
	return &Table{
		Currency: "EGP",
		BasePrices: map[string]float64{
			"portfolio": 3000,
			"landing":   2000,
			"blog":      4000,
			"company":   6000,
			"corporate": 6000,
			"education": 12000,
			"ecommerce": 15000,
			"saas":      20000,
			"custom":    5000,
		},
		PagePrice: 500,
		FeaturePrices: map[string]float64{
			"contact_form":  0,
			"booking":       2500,
			"live_chat":     1000,
			"newsletter":    800,
			"search":        1200,
			"user_accounts": 3000,
			"payments":      3500,
			"multilingual":  2000,
			"analytics":     500,
		},
		Addons: map[string]Addon{
			"seo":             {Name: "SEO", Description: "On-page optimization and sitemap", Price: 1500, Duration: "one-time"},
			"maintenance":     {Name: "Maintenance", Description: "Updates and backups", Price: 800, Duration: "monthly"},
			"content_writing": {Name: "Content writing", Description: "Copy for up to five pages", Price: 2000, Duration: "one-time"},
			"logo_design":     {Name: "Logo design", Description: "Three logo concepts", Price: 1800, Duration: "one-time"},
			"social_media":    {Name: "Social media kit", Description: "Profile and cover designs", Price: 1000, Duration: "one-time"},
			"extra_revisions": {Name: "Extra revisions", Description: "Two more revision rounds", Price: 700, Duration: "one-time"},
		},
	}
}

// Load reads a YAML table from path.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pricing table: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML table.
func Parse(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse pricing table: %w", err)
	}
	if _, ok := t.BasePrices[FallbackType]; !ok {
		return nil, fmt.Errorf("pricing table must define a %q base price", FallbackType)
	}
	return &t, nil
}

// Estimate prices the answers. projectType is the layout's goal tag.
func (t *Table) Estimate(projectType string, a *domain.Answers) Estimate {
	est := Estimate{Currency: t.Currency}

	base, ok := t.BasePrices[projectType]
	if !ok || projectType == "" {
		base = t.BasePrices[FallbackType]
	}
	est.Base = base

	if pages := parsePages(a.Pages); pages > 1 {
		est.Pages = float64(pages-1) * t.PagePrice
	}

	for _, f := range a.Features {
		est.Features += t.FeaturePrices[f]
	}
	for _, key := range a.Addons {
		est.Addons += t.Addons[key].Price
	}

	est.Total = est.Base + est.Pages + est.Features + est.Addons
	return est
}

// MaxPages caps the page count an estimate charges for. Larger sites are
// quoted by hand.
const MaxPages = 100

// parsePages reads the page count the client typed. Unparseable input counts
// as one page; anything above MaxPages counts as MaxPages.
func parsePages(s string) int {
	// Atoi saturates on overflow, so out-of-range input still lands on a bound.
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 1
	}
	switch {
	case n < 1:
		return 1
	case n > MaxPages:
		return MaxPages
	}
	return n
}
