package collections_test

import (
	"testing"

	"quotetool/collections"
	"quotetool/config"
	"quotetool/testhelpers"
)

func TestSeed_CreatesData(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app, config.DefaultValues()); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	counts := map[string]int{
		"components":          8,
		"assemblies":          1,
		"assembly_components": 4,
		"quotations":          1,
		"quotation_systems":   2,
		"quotation_items":     11,
	}
	for name, want := range counts {
		col, _ := app.FindCollectionByNameOrId(name)
		records, err := app.FindAllRecords(col)
		if err != nil {
			t.Fatalf("query %s error: %v", name, err)
		}
		if len(records) != want {
			t.Errorf("%s: expected %d records, got %d", name, want, len(records))
		}
	}

	quotationsCol, _ := app.FindCollectionByNameOrId("quotations")
	quotations, _ := app.FindAllRecords(quotationsCol)
	if quotations[0].GetString("status") != "draft" {
		t.Errorf("seed quotation status = %q, want draft", quotations[0].GetString("status"))
	}

	var params map[string]any
	if err := quotations[0].UnmarshalJSONField("parameters", &params); err != nil {
		t.Fatalf("parameters not stored as JSON: %v", err)
	}
	if params["markupPercent"] != 0.75 {
		t.Errorf("markupPercent = %v, want 0.75", params["markupPercent"])
	}
}

func TestSeed_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app, config.DefaultValues()); err != nil {
		t.Fatalf("first Seed() error: %v", err)
	}
	if err := collections.Seed(app, config.DefaultValues()); err != nil {
		t.Fatalf("second Seed() error: %v", err)
	}

	col, _ := app.FindCollectionByNameOrId("quotations")
	quotations, _ := app.FindAllRecords(col)
	if len(quotations) != 1 {
		t.Errorf("expected 1 quotation after seeding twice, got %d", len(quotations))
	}
}

func TestSeed_LaborUsesDayWorkCost(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	defaults := config.DefaultValues()
	defaults.DayWorkCost = 1500
	if err := collections.Seed(app, defaults); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	col, _ := app.FindCollectionByNameOrId("quotation_items")
	labor, err := app.FindRecordsByFilter(col, "item_type = 'labor'", "", 0, 0)
	if err != nil {
		t.Fatalf("query error: %v", err)
	}
	if len(labor) != 4 {
		t.Fatalf("expected 4 labor lines, got %d", len(labor))
	}
	for _, r := range labor {
		if r.GetFloat("original_cost") != 1500 || r.GetString("original_currency") != "NIS" {
			t.Errorf("labor line %q priced %v %s", r.GetString("component_name"), r.GetFloat("original_cost"), r.GetString("original_currency"))
		}
	}
}
