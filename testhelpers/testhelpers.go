// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotetool/collections"
	"quotetool/config"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// DefaultParametersJSON is the quotation parameters object built from the
// built-in defaults, in the shape stored on quotation records.
func DefaultParametersJSON() map[string]any {
	d := config.DefaultValues()
	return map[string]any{
		"usdToIlsRate":  d.USDToILSRate,
		"eurToIlsRate":  d.EURToILSRate,
		"markupPercent": d.MarkupPercent,
		"dayWorkCost":   d.DayWorkCost,
		"riskPercent":   d.RiskPercent,
		"includeVAT":    d.IncludeVAT,
		"vatRate":       d.VATRate,
	}
}

// CreateTestQuotation creates a draft quotation with default parameters.
func CreateTestQuotation(t *testing.T, app *pocketbase.PocketBase, title string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("quotations")
	if err != nil {
		t.Fatalf("failed to find quotations collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("title", title)
	record.Set("customer_name", "Test Customer")
	record.Set("status", "draft")
	record.Set("parameters", DefaultParametersJSON())

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test quotation: %v", err)
	}

	return record
}

// CreateTestSystem creates a system inside a quotation.
func CreateTestSystem(t *testing.T, app *pocketbase.PocketBase, quotationID, name string, order, quantity int) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("quotation_systems")
	if err != nil {
		t.Fatalf("failed to find quotation_systems collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("quotation", quotationID)
	record.Set("name", name)
	record.Set("sort_order", order)
	record.Set("quantity", quantity)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test system: %v", err)
	}

	return record
}

// CreateTestItem creates a quotation line priced in currency at cost per unit.
func CreateTestItem(t *testing.T, app *pocketbase.PocketBase, quotationID, systemID string, itemOrder int, name, itemType string, qty float64, currency string, cost float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("quotation_items")
	if err != nil {
		t.Fatalf("failed to find quotation_items collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("quotation", quotationID)
	record.Set("system", systemID)
	record.Set("item_order", itemOrder)
	record.Set("component_name", name)
	record.Set("item_type", itemType)
	record.Set("quantity", qty)
	record.Set("original_currency", currency)
	record.Set("original_cost", cost)
	switch currency {
	case "USD":
		record.Set("unit_price_usd", cost)
	case "EUR":
		record.Set("unit_price_eur", cost)
	default:
		record.Set("unit_price_ils", cost)
	}

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test item: %v", err)
	}

	return record
}

// CreateTestComponent creates a catalog component priced in currency.
func CreateTestComponent(t *testing.T, app *pocketbase.PocketBase, name, currency string, cost float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("components")
	if err != nil {
		t.Fatalf("failed to find components collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("category", "Test")
	record.Set("item_type", "hardware")
	record.Set("currency", currency)
	record.Set("original_cost", cost)
	switch currency {
	case "USD":
		record.Set("unit_cost_usd", cost)
	case "EUR":
		record.Set("unit_cost_eur", cost)
	default:
		record.Set("unit_cost_nis", cost)
	}

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test component: %v", err)
	}

	return record
}

// CreateTestAssembly creates an empty assembly.
func CreateTestAssembly(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("assemblies")
	if err != nil {
		t.Fatalf("failed to find assemblies collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test assembly: %v", err)
	}

	return record
}

// AddTestAssemblyComponent links a component into an assembly.
func AddTestAssemblyComponent(t *testing.T, app *pocketbase.PocketBase, assemblyID, componentID string, qty float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("assembly_components")
	if err != nil {
		t.Fatalf("failed to find assembly_components collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("assembly", assemblyID)
	record.Set("component", componentID)
	record.Set("quantity", qty)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save assembly line: %v", err)
	}

	return record
}

// AssertHTMLContains checks that body contains all specified fragments.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected HTML to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
