package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"

	"quotetool/collections"
	"quotetool/config"
)

// decodeJSONField unmarshals a JSON column into dst. It reports false for an
// empty or null column.
func decodeJSONField(r *core.Record, field string, dst any) (bool, error) {
	raw, _ := r.Get(field).(types.JSONRaw)
	if len(raw) == 0 || string(raw) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", field, err)
	}
	return true, nil
}

func findRecord(app core.App, collection, id string) (*core.Record, error) {
	r, err := app.FindRecordById(collection, id)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", collection, id, ErrNotFound)
	}
	return r, nil
}

func systemFromRecord(r *core.Record) QuotationSystem {
	return QuotationSystem{
		ID:       r.Id,
		Name:     r.GetString("name"),
		Order:    r.GetInt("sort_order"),
		Quantity: r.GetInt("quantity"),
	}
}

func applySystem(r *core.Record, s QuotationSystem) {
	r.Set("name", s.Name)
	r.Set("sort_order", s.Order)
	r.Set("quantity", s.Quantity)
}

func itemFromRecord(r *core.Record) QuotationItem {
	return QuotationItem{
		ID:                r.Id,
		SystemID:          r.GetString("system"),
		ItemOrder:         r.GetInt("item_order"),
		DisplayNumber:     r.GetString("display_number"),
		ComponentID:       r.GetString("component"),
		ComponentName:     r.GetString("component_name"),
		ComponentCategory: r.GetString("component_category"),
		ItemType:          ItemType(r.GetString("item_type")),
		LaborSubtype:      LaborSubtype(r.GetString("labor_subtype")),
		Quantity:          r.GetFloat("quantity"),
		UnitPriceUSD:      r.GetFloat("unit_price_usd"),
		UnitPriceILS:      r.GetFloat("unit_price_ils"),
		UnitPriceEUR:      r.GetFloat("unit_price_eur"),
		OriginalCurrency:  Currency(r.GetString("original_currency")),
		OriginalCost:      r.GetFloat("original_cost"),
		ItemMarkupPercent: r.GetFloat("item_markup_percent"),
		TotalPriceUSD:     r.GetFloat("total_price_usd"),
		TotalPriceILS:     r.GetFloat("total_price_ils"),
		CustomerPriceILS:  r.GetFloat("customer_price_ils"),
	}
}

// applyItem copies the editable and computed fields of it onto r.
func applyItem(r *core.Record, it QuotationItem) {
	r.Set("system", it.SystemID)
	if it.ComponentID != "" {
		r.Set("component", it.ComponentID)
	}
	r.Set("item_order", it.ItemOrder)
	r.Set("display_number", it.DisplayNumber)
	r.Set("component_name", it.ComponentName)
	r.Set("component_category", it.ComponentCategory)
	r.Set("item_type", string(it.ItemType))
	r.Set("labor_subtype", string(it.LaborSubtype))
	r.Set("quantity", it.Quantity)
	r.Set("unit_price_usd", it.UnitPriceUSD)
	r.Set("unit_price_ils", it.UnitPriceILS)
	r.Set("unit_price_eur", it.UnitPriceEUR)
	r.Set("original_currency", string(it.OriginalCurrency))
	r.Set("original_cost", it.OriginalCost)
	r.Set("item_markup_percent", it.ItemMarkupPercent)
	r.Set("total_price_usd", it.TotalPriceUSD)
	r.Set("total_price_ils", it.TotalPriceILS)
	r.Set("customer_price_ils", it.CustomerPriceILS)
}

func componentFromRecord(r *core.Record) Component {
	return Component{
		ID:           r.Id,
		Name:         r.GetString("name"),
		Category:     r.GetString("category"),
		Manufacturer: r.GetString("manufacturer"),
		ItemType:     ItemType(r.GetString("item_type")),
		UnitCostNIS:  r.GetFloat("unit_cost_nis"),
		UnitCostUSD:  r.GetFloat("unit_cost_usd"),
		UnitCostEUR:  r.GetFloat("unit_cost_eur"),
		Currency:     Currency(r.GetString("currency")),
		OriginalCost: r.GetFloat("original_cost"),
	}
}

// LoadQuotationProject reads a quotation with its systems and items. Items
// get their systemOrder from the owning system. A quotation with no stored
// parameters comes back with Parameters == nil.
func LoadQuotationProject(app core.App, id string) (QuotationProject, error) {
	q, err := findRecord(app, "quotations", id)
	if err != nil {
		return QuotationProject{}, err
	}

	project := QuotationProject{
		ID:              q.Id,
		QuotationNumber: q.GetString("quotation_number"),
		Title:           q.GetString("title"),
		CustomerName:    q.GetString("customer_name"),
		Status:          QuotationStatus(q.GetString("status")),
	}

	var params QuotationParameters
	ok, err := decodeJSONField(q, "parameters", &params)
	if err != nil {
		return QuotationProject{}, err
	}
	if ok && params != (QuotationParameters{}) {
		project.Parameters = &params
	}

	var calc QuotationCalculations
	ok, err = decodeJSONField(q, "calculations", &calc)
	if err != nil {
		return QuotationProject{}, err
	}
	if ok {
		project.Calculations = &calc
	}

	systemRecords, err := app.FindRecordsByFilter(
		"quotation_systems",
		"quotation = {:id}",
		"sort_order",
		0, 0,
		map[string]any{"id": id},
	)
	if err != nil {
		return QuotationProject{}, fmt.Errorf("load systems: %w", err)
	}
	systemOrder := make(map[string]int, len(systemRecords))
	for _, r := range systemRecords {
		s := systemFromRecord(r)
		project.Systems = append(project.Systems, s)
		systemOrder[s.ID] = s.Order
	}

	itemRecords, err := app.FindRecordsByFilter(
		"quotation_items",
		"quotation = {:id}",
		"item_order",
		0, 0,
		map[string]any{"id": id},
	)
	if err != nil {
		return QuotationProject{}, fmt.Errorf("load items: %w", err)
	}
	for _, r := range itemRecords {
		it := itemFromRecord(r)
		it.SystemOrder = systemOrder[it.SystemID]
		project.Items = append(project.Items, it)
	}

	return project, nil
}

// SaveQuotationResults writes the renumbered and repriced items and replaces
// the cached calculations in one transaction.
func SaveQuotationResults(app core.App, quotationID string, items []QuotationItem, calc QuotationCalculations) error {
	return app.RunInTransaction(func(txApp core.App) error {
		q, err := findRecord(txApp, "quotations", quotationID)
		if err != nil {
			return err
		}

		for _, it := range items {
			r, err := findRecord(txApp, "quotation_items", it.ID)
			if err != nil {
				return err
			}
			if r.GetString("quotation") != quotationID {
				return fmt.Errorf("item %s belongs to another quotation: %w", it.ID, ErrNotFound)
			}
			applyItem(r, it)
			if err := txApp.Save(r); err != nil {
				return fmt.Errorf("save item %s: %w", it.ID, err)
			}
		}

		q.Set("calculations", calc)
		if err := txApp.Save(q); err != nil {
			return fmt.Errorf("save calculations: %w", err)
		}
		return nil
	})
}

// SaveQuotationParameters stores p on the quotation and drops the cached
// calculations, which no longer match.
func SaveQuotationParameters(app core.App, quotationID string, p QuotationParameters) error {
	q, err := findRecord(app, "quotations", quotationID)
	if err != nil {
		return err
	}
	q.Set("parameters", p)
	q.Set("calculations", nil)
	if err := app.Save(q); err != nil {
		return fmt.Errorf("save parameters: %w", err)
	}
	return nil
}

// CreateQuotation inserts a draft quotation numbered for now, priced with p
// and holding one default system.
func CreateQuotation(app core.App, title, customer string, p QuotationParameters, now time.Time) (QuotationProject, error) {
	if strings.TrimSpace(title) == "" {
		return QuotationProject{}, newValidationError("title", "cannot be blank")
	}
	if err := ValidateParameters(p); err != nil {
		return QuotationProject{}, err
	}

	var id string
	err := app.RunInTransaction(func(txApp core.App) error {
		number, err := GenerateQuotationNumber(txApp, now)
		if err != nil {
			return err
		}

		qCol, err := txApp.FindCollectionByNameOrId("quotations")
		if err != nil {
			return fmt.Errorf("find quotations: %w", err)
		}
		q := core.NewRecord(qCol)
		q.Set("quotation_number", number)
		q.Set("title", strings.TrimSpace(title))
		q.Set("customer_name", strings.TrimSpace(customer))
		q.Set("status", string(StatusDraft))
		q.Set("parameters", p)
		if err := txApp.Save(q); err != nil {
			return fmt.Errorf("save quotation: %w", err)
		}

		sCol, err := txApp.FindCollectionByNameOrId("quotation_systems")
		if err != nil {
			return fmt.Errorf("find quotation_systems: %w", err)
		}
		sys := core.NewRecord(sCol)
		sys.Set("quotation", q.Id)
		applySystem(sys, QuotationSystem{Name: collections.DefaultSystemName, Order: 1, Quantity: 1})
		if err := txApp.Save(sys); err != nil {
			return fmt.Errorf("save default system: %w", err)
		}

		id = q.Id
		return nil
	})
	if err != nil {
		return QuotationProject{}, err
	}
	return LoadQuotationProject(app, id)
}

// CreateQuotationItem inserts it into the quotation and returns it with the
// new record id.
func CreateQuotationItem(app core.App, quotationID string, it QuotationItem) (QuotationItem, error) {
	col, err := app.FindCollectionByNameOrId("quotation_items")
	if err != nil {
		return it, fmt.Errorf("find quotation_items: %w", err)
	}
	if _, err := findRecord(app, "quotation_systems", it.SystemID); err != nil {
		return it, err
	}
	r := core.NewRecord(col)
	r.Set("quotation", quotationID)
	applyItem(r, it)
	if err := app.Save(r); err != nil {
		return it, fmt.Errorf("save item: %w", err)
	}
	it.ID = r.Id
	return it, nil
}

// DeleteQuotationItem removes one item of the quotation.
func DeleteQuotationItem(app core.App, quotationID, itemID string) error {
	r, err := findRecord(app, "quotation_items", itemID)
	if err != nil {
		return err
	}
	if r.GetString("quotation") != quotationID {
		return fmt.Errorf("item %s: %w", itemID, ErrNotFound)
	}
	return app.Delete(r)
}

// CreateQuotationSystem inserts s into the quotation and returns it with the
// new record id.
func CreateQuotationSystem(app core.App, quotationID string, s QuotationSystem) (QuotationSystem, error) {
	col, err := app.FindCollectionByNameOrId("quotation_systems")
	if err != nil {
		return s, fmt.Errorf("find quotation_systems: %w", err)
	}
	r := core.NewRecord(col)
	r.Set("quotation", quotationID)
	applySystem(r, s)
	if err := app.Save(r); err != nil {
		return s, fmt.Errorf("save system: %w", err)
	}
	s.ID = r.Id
	return s, nil
}

// SaveQuotationSystems writes name, order and quantity of each system.
func SaveQuotationSystems(app core.App, quotationID string, systems []QuotationSystem) error {
	for _, s := range systems {
		r, err := quotationSystemRecord(app, quotationID, s.ID)
		if err != nil {
			return err
		}
		applySystem(r, s)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("save system %s: %w", s.ID, err)
		}
	}
	return nil
}

// DeleteQuotationSystem removes one system of the quotation. Its items are
// removed by the cascading relation.
func DeleteQuotationSystem(app core.App, quotationID, systemID string) error {
	r, err := quotationSystemRecord(app, quotationID, systemID)
	if err != nil {
		return err
	}
	return app.Delete(r)
}

func quotationSystemRecord(app core.App, quotationID, systemID string) (*core.Record, error) {
	r, err := findRecord(app, "quotation_systems", systemID)
	if err != nil {
		return nil, err
	}
	if r.GetString("quotation") != quotationID {
		return nil, fmt.Errorf("system %s: %w", systemID, ErrNotFound)
	}
	return r, nil
}

// LoadComponent reads one catalog component.
func LoadComponent(app core.App, id string) (Component, error) {
	r, err := findRecord(app, "components", id)
	if err != nil {
		return Component{}, err
	}
	return componentFromRecord(r), nil
}

// SaveComponent inserts c into the catalog with prices already normalized.
func SaveComponent(app core.App, c Component, prices CurrencyPrices) (string, error) {
	col, err := app.FindCollectionByNameOrId("components")
	if err != nil {
		return "", fmt.Errorf("find components: %w", err)
	}
	r := core.NewRecord(col)
	r.Set("name", c.Name)
	r.Set("category", c.Category)
	r.Set("manufacturer", c.Manufacturer)
	r.Set("item_type", string(c.ItemType))
	r.Set("unit_cost_nis", prices.UnitCostNIS)
	r.Set("unit_cost_usd", prices.UnitCostUSD)
	r.Set("unit_cost_eur", prices.UnitCostEUR)
	r.Set("currency", string(prices.Currency))
	r.Set("original_cost", prices.OriginalCost)
	if err := app.Save(r); err != nil {
		return "", fmt.Errorf("save component %q: %w", c.Name, err)
	}
	return r.Id, nil
}

// LoadAssembly reads an assembly with its component lines. Lines whose
// component no longer exists keep a nil Component.
func LoadAssembly(app core.App, id string) (Assembly, error) {
	r, err := findRecord(app, "assemblies", id)
	if err != nil {
		return Assembly{}, err
	}
	a := Assembly{
		ID:          r.Id,
		Name:        r.GetString("name"),
		Description: r.GetString("description"),
	}

	lines, err := app.FindRecordsByFilter(
		"assembly_components",
		"assembly = {:id}",
		"sort_order",
		0, 0,
		map[string]any{"id": id},
	)
	if err != nil {
		return Assembly{}, fmt.Errorf("load assembly lines: %w", err)
	}

	for _, line := range lines {
		ac := AssemblyComponent{
			ID:          line.Id,
			ComponentID: line.GetString("component"),
			Quantity:    line.GetFloat("quantity"),
			SortOrder:   line.GetInt("sort_order"),
		}
		if ac.ComponentID != "" {
			if cr, err := app.FindRecordById("components", ac.ComponentID); err == nil {
				c := componentFromRecord(cr)
				ac.Component = &c
			}
		}
		a.Components = append(a.Components, ac)
	}
	return a, nil
}

// LoadTeamDefaults layers the team_settings record over base. Without a
// record base is returned unchanged; non-positive rates or markup in the
// record are ignored.
func LoadTeamDefaults(app core.App, base config.Defaults) config.Defaults {
	records, err := app.FindRecordsByFilter(
		"team_settings",
		"name = {:name}",
		"",
		1, 0,
		map[string]any{"name": collections.TeamSettingsName},
	)
	if err != nil || len(records) == 0 {
		return base
	}
	r := records[0]

	d := base
	if v := r.GetFloat("usd_to_ils_rate"); v > 0 {
		d.USDToILSRate = v
	}
	if v := r.GetFloat("eur_to_ils_rate"); v > 0 {
		d.EURToILSRate = v
	}
	if v := r.GetFloat("markup_percent"); v > 0 && v <= 1 {
		d.MarkupPercent = v
	}
	if v := r.GetFloat("day_work_cost"); v >= 0 {
		d.DayWorkCost = v
	}
	if v := r.GetFloat("risk_percent"); v >= 0 {
		d.RiskPercent = v
	}
	if v := r.GetFloat("vat_rate"); v >= 0 {
		d.VATRate = v
	}
	d.IncludeVAT = r.GetBool("include_vat")
	return d
}
