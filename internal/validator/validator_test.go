package validator

import (
	"strings"
	"testing"

	"github.com/aretw0/intake/pkg/pricing"
	"github.com/aretw0/intake/pkg/steps"
)

func TestValidatePricing(t *testing.T) {
	layouts := []*steps.Layout{steps.Classic(), steps.Detailed()}

	// Scenario A: the built-in table prices only declared options
	if err := ValidatePricing(pricing.Default(), layouts...); err != nil {
		t.Errorf("Scenario A (Default) failed: %v", err)
	}

	// Scenario B: unknown keys and negative prices
	table := pricing.Default()
	table.BasePrices["spaceship"] = 1
	table.FeaturePrices["teleport"] = -5
	table.Addons["ghost"] = pricing.Addon{Name: "Ghost", Price: 10}
	table.PagePrice = -1

	err := ValidatePricing(table, layouts...)
	if err == nil {
		t.Fatal("Scenario B (Broken) expected error, got nil")
	}
	for _, want := range []string{
		"found 5 errors",
		"project type 'spaceship' is not an option of any layout",
		"feature 'teleport' is not an option of any layout",
		"feature 'teleport' has a negative price",
		"add-on 'ghost' is not an option of any layout",
		"page price is negative",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Scenario B error = %v, want substring %q", err, want)
		}
	}

	// Scenario C: "saas" is only a detailed project type
	table = pricing.Default()
	if err := ValidatePricing(table, steps.Classic()); err == nil || !strings.Contains(err.Error(), "'saas'") {
		t.Errorf("Scenario C expected saas to be unknown to classic, got %v", err)
	}
}
