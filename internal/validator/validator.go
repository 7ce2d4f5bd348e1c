// Package validator checks that external configuration agrees with the step layouts.
package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/intake/pkg/pricing"
	"github.com/aretw0/intake/pkg/steps"
)

// ValidatePricing reports prices keyed by values no layout can produce:
// base prices for unknown project types, feature prices for undeclared
// features and add-ons no client can pick. Negative prices are errors too.
func ValidatePricing(table *pricing.Table, layouts ...*steps.Layout) error {
	types := map[string]bool{pricing.FallbackType: true}
	features := map[string]bool{}
	addons := map[string]bool{}
	for _, l := range layouts {
		collect(l, l.GoalPath, types)
		collect(l, "features", features)
		collect(l, "addons", addons)
	}

	var errors []string
	check := func(kind string, known map[string]bool, key string, price float64) {
		if !known[key] {
			errors = append(errors, fmt.Sprintf("%s '%s' is not an option of any layout", kind, key))
		}
		if price < 0 {
			errors = append(errors, fmt.Sprintf("%s '%s' has a negative price", kind, key))
		}
	}

	for _, key := range sortedKeys(table.BasePrices) {
		check("project type", types, key, table.BasePrices[key])
	}
	for _, key := range sortedKeys(table.FeaturePrices) {
		check("feature", features, key, table.FeaturePrices[key])
	}
	addonKeys := make([]string, 0, len(table.Addons))
	for key := range table.Addons {
		addonKeys = append(addonKeys, key)
	}
	sort.Strings(addonKeys)
	for _, key := range addonKeys {
		check("add-on", addons, key, table.Addons[key].Price)
	}
	if table.PagePrice < 0 {
		errors = append(errors, "page price is negative")
	}

	if len(errors) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(errors), strings.Join(errors, "\n- "))
	}
	return nil
}

func collect(l *steps.Layout, path string, into map[string]bool) {
	f, err := l.Field(path)
	if err != nil {
		return
	}
	for _, o := range f.Options {
		into[o] = true
	}
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
