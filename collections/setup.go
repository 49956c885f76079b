package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase/core"
)

var (
	itemTypes     = []string{"hardware", "software", "labor"}
	laborSubtypes = []string{"engineering", "programming", "installation", "commissioning"}
	currencies    = []string{"NIS", "USD", "EUR"}
	quoteStatuses = []string{"draft", "sent", "won", "lost", "archived"}
)

// Setup programmatically creates/ensures the catalog, assembly and quotation
// collections exist.
func Setup(app core.App) {
	ensureCollection(app, "team_settings", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.NumberField{Name: "usd_to_ils_rate"})
		c.Fields.Add(&core.NumberField{Name: "eur_to_ils_rate"})
		c.Fields.Add(&core.NumberField{Name: "markup_percent"})
		c.Fields.Add(&core.NumberField{Name: "day_work_cost"})
		c.Fields.Add(&core.NumberField{Name: "risk_percent"})
		c.Fields.Add(&core.BoolField{Name: "include_vat"})
		c.Fields.Add(&core.NumberField{Name: "vat_rate"})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	components := ensureCollection(app, "components", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "category"})
		c.Fields.Add(&core.TextField{Name: "manufacturer"})
		c.Fields.Add(&core.SelectField{Name: "item_type", Values: itemTypes, MaxSelect: 1})
		c.Fields.Add(&core.NumberField{Name: "unit_cost_nis"})
		c.Fields.Add(&core.NumberField{Name: "unit_cost_usd"})
		c.Fields.Add(&core.NumberField{Name: "unit_cost_eur"})
		// empty currency marks a legacy record awaiting migration
		c.Fields.Add(&core.SelectField{Name: "currency", Values: currencies, MaxSelect: 1})
		c.Fields.Add(&core.NumberField{Name: "original_cost"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	assemblies := ensureCollection(app, "assemblies", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "description"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "assembly_components", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "assembly",
			Required:      true,
			CollectionId:  assemblies.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		// optional so a deleted component leaves a dangling line, counted as missing
		c.Fields.Add(&core.RelationField{
			Name:         "component",
			CollectionId: components.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.NumberField{Name: "quantity", Required: true})
		c.Fields.Add(&core.NumberField{Name: "sort_order"})
	})

	quotations := ensureCollection(app, "quotations", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "quotation_number"})
		c.Fields.Add(&core.TextField{Name: "title", Required: true})
		c.Fields.Add(&core.TextField{Name: "customer_name"})
		c.Fields.Add(&core.SelectField{Name: "status", Required: true, Values: quoteStatuses, MaxSelect: 1})
		c.Fields.Add(&core.JSONField{Name: "parameters"})
		c.Fields.Add(&core.JSONField{Name: "calculations"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	systems := ensureCollection(app, "quotation_systems", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "quotation",
			Required:      true,
			CollectionId:  quotations.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: true})
		c.Fields.Add(&core.NumberField{Name: "quantity", Required: true})
	})

	ensureCollection(app, "quotation_items", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "quotation",
			Required:      true,
			CollectionId:  quotations.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.RelationField{
			Name:          "system",
			Required:      true,
			CollectionId:  systems.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "component",
			CollectionId: components.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.NumberField{Name: "item_order", Required: true})
		c.Fields.Add(&core.TextField{Name: "display_number"})
		c.Fields.Add(&core.TextField{Name: "component_name", Required: true})
		c.Fields.Add(&core.TextField{Name: "component_category"})
		c.Fields.Add(&core.SelectField{Name: "item_type", Required: true, Values: itemTypes, MaxSelect: 1})
		c.Fields.Add(&core.SelectField{Name: "labor_subtype", Values: laborSubtypes, MaxSelect: 1})
		c.Fields.Add(&core.NumberField{Name: "quantity"})
		c.Fields.Add(&core.NumberField{Name: "unit_price_ils"})
		c.Fields.Add(&core.NumberField{Name: "unit_price_usd"})
		c.Fields.Add(&core.NumberField{Name: "unit_price_eur"})
		c.Fields.Add(&core.SelectField{Name: "original_currency", Values: currencies, MaxSelect: 1})
		c.Fields.Add(&core.NumberField{Name: "original_cost"})
		c.Fields.Add(&core.NumberField{Name: "item_markup_percent"})
		c.Fields.Add(&core.NumberField{Name: "total_price_ils"})
		c.Fields.Add(&core.NumberField{Name: "total_price_usd"})
		c.Fields.Add(&core.NumberField{Name: "customer_price_ils"})
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app core.App, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
