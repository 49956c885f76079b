package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase/core"

	"quotetool/config"
)

// ── Definition structs ───────────────────────────────────────────────────

type componentDef struct {
	key          string
	name         string
	category     string
	manufacturer string
	itemType     string
	currency     string
	cost         float64
}

type assemblyLineDef struct {
	componentKey string
	quantity     float64
}

type itemDef struct {
	componentKey string // empty for labor lines
	name         string
	category     string
	itemType     string
	laborSubtype string
	quantity     float64
	currency     string
	cost         float64
}

type systemDef struct {
	name     string
	quantity int
	items    []itemDef
}

var seedComponents = []componentDef{
	{key: "fanuc", name: "FANUC M-20iD/25 Robot Arm", category: "Robots", manufacturer: "FANUC", itemType: "hardware", currency: "USD", cost: 38500},
	{key: "ur10e", name: "Universal Robots UR10e", category: "Cobots", manufacturer: "Universal Robots", itemType: "hardware", currency: "EUR", cost: 31200},
	{key: "gripper", name: "Vacuum Gripper VG10", category: "End effectors", manufacturer: "OnRobot", itemType: "hardware", currency: "EUR", cost: 4200},
	{key: "plc", name: "Siemens S7-1500 CPU 1515", category: "Controls", manufacturer: "Siemens", itemType: "hardware", currency: "NIS", cost: 14800},
	{key: "hmi", name: "WinCC Unified Runtime Licence", category: "Software", manufacturer: "Siemens", itemType: "software", currency: "NIS", cost: 6900},
	{key: "fence", name: "Safety Fence Panel 2m", category: "Safety", manufacturer: "Axelent", itemType: "hardware", currency: "NIS", cost: 950},
	{key: "scanner", name: "SICK microScan3 Safety Scanner", category: "Safety", manufacturer: "SICK", itemType: "hardware", currency: "USD", cost: 3100},
	{key: "conveyor", name: "Belt Conveyor 3m", category: "Conveyors", manufacturer: "Local", itemType: "hardware", currency: "NIS", cost: 22500},
}

// Seed inserts demo catalog components, one assembly and one draft quotation.
// Safe to call on every startup -- returns early if any component exists.
func Seed(app core.App, defaults config.Defaults) error {
	// ── idempotency: skip if components already exist ────────────────
	componentsCol, err := app.FindCollectionByNameOrId("components")
	if err != nil {
		return fmt.Errorf("seed: could not find components collection: %w", err)
	}
	existing, err := app.FindAllRecords(componentsCol)
	if err != nil {
		return fmt.Errorf("seed: could not query components: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Println("seed: components collection is empty, inserting seed data")

	assembliesCol, err := app.FindCollectionByNameOrId("assemblies")
	if err != nil {
		return fmt.Errorf("seed: could not find assemblies collection: %w", err)
	}
	assemblyComponentsCol, err := app.FindCollectionByNameOrId("assembly_components")
	if err != nil {
		return fmt.Errorf("seed: could not find assembly_components collection: %w", err)
	}
	quotationsCol, err := app.FindCollectionByNameOrId("quotations")
	if err != nil {
		return fmt.Errorf("seed: could not find quotations collection: %w", err)
	}
	systemsCol, err := app.FindCollectionByNameOrId("quotation_systems")
	if err != nil {
		return fmt.Errorf("seed: could not find quotation_systems collection: %w", err)
	}
	itemsCol, err := app.FindCollectionByNameOrId("quotation_items")
	if err != nil {
		return fmt.Errorf("seed: could not find quotation_items collection: %w", err)
	}

	// ── catalog ──────────────────────────────────────────────────────
	componentIDs := make(map[string]string, len(seedComponents))
	for _, d := range seedComponents {
		r := core.NewRecord(componentsCol)
		r.Set("name", d.name)
		r.Set("category", d.category)
		r.Set("manufacturer", d.manufacturer)
		r.Set("item_type", d.itemType)
		r.Set("currency", d.currency)
		r.Set("original_cost", d.cost)
		r.Set(costField(d.currency), d.cost)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: save component %q: %w", d.name, err)
		}
		componentIDs[d.key] = r.Id
	}

	// ── assembly ─────────────────────────────────────────────────────
	cell := core.NewRecord(assembliesCol)
	cell.Set("name", "Palletizing Cell")
	cell.Set("description", "Robot, gripper, safety scanner and four fence panels")
	if err := app.Save(cell); err != nil {
		return fmt.Errorf("seed: save assembly: %w", err)
	}
	for i, line := range []assemblyLineDef{
		{componentKey: "fanuc", quantity: 1},
		{componentKey: "gripper", quantity: 1},
		{componentKey: "scanner", quantity: 1},
		{componentKey: "fence", quantity: 4},
	} {
		r := core.NewRecord(assemblyComponentsCol)
		r.Set("assembly", cell.Id)
		r.Set("component", componentIDs[line.componentKey])
		r.Set("quantity", line.quantity)
		r.Set("sort_order", i+1)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: save assembly line %q: %w", line.componentKey, err)
		}
	}

	// ── quotation ────────────────────────────────────────────────────
	q := core.NewRecord(quotationsCol)
	q.Set("quotation_number", "Q-DEMO-001")
	q.Set("title", "Palletizing Line, Demo Plant")
	q.Set("customer_name", "Demo Foods Ltd.")
	q.Set("status", "draft")
	q.Set("parameters", map[string]any{
		"usdToIlsRate":  defaults.USDToILSRate,
		"eurToIlsRate":  defaults.EURToILSRate,
		"markupPercent": defaults.MarkupPercent,
		"dayWorkCost":   defaults.DayWorkCost,
		"riskPercent":   defaults.RiskPercent,
		"includeVAT":    defaults.IncludeVAT,
		"vatRate":       defaults.VATRate,
	})
	if err := app.Save(q); err != nil {
		return fmt.Errorf("seed: save quotation: %w", err)
	}

	systems := []systemDef{
		{
			name: "Palletizing Cell", quantity: 2,
			items: []itemDef{
				{componentKey: "fanuc", quantity: 1},
				{componentKey: "gripper", quantity: 1},
				{componentKey: "scanner", quantity: 1},
				{componentKey: "fence", quantity: 6},
				{name: "Cell programming", category: "labor", itemType: "labor", laborSubtype: "programming", quantity: 4, currency: "NIS", cost: defaults.DayWorkCost},
			},
		},
		{
			name: "Line Control", quantity: 1,
			items: []itemDef{
				{componentKey: "plc", quantity: 1},
				{componentKey: "hmi", quantity: 1},
				{componentKey: "conveyor", quantity: 3},
				{name: "Electrical design", category: "labor", itemType: "labor", laborSubtype: "engineering", quantity: 5, currency: "NIS", cost: defaults.DayWorkCost},
				{name: "Site installation", category: "labor", itemType: "labor", laborSubtype: "installation", quantity: 3, currency: "NIS", cost: defaults.DayWorkCost},
				{name: "Commissioning", category: "labor", itemType: "labor", laborSubtype: "commissioning", quantity: 2, currency: "NIS", cost: defaults.DayWorkCost},
			},
		},
	}

	byKey := make(map[string]componentDef, len(seedComponents))
	for _, d := range seedComponents {
		byKey[d.key] = d
	}

	for si, sd := range systems {
		s := core.NewRecord(systemsCol)
		s.Set("quotation", q.Id)
		s.Set("name", sd.name)
		s.Set("sort_order", si+1)
		s.Set("quantity", sd.quantity)
		if err := app.Save(s); err != nil {
			return fmt.Errorf("seed: save system %q: %w", sd.name, err)
		}

		for ii, d := range sd.items {
			if d.componentKey != "" {
				c := byKey[d.componentKey]
				d.name, d.category, d.itemType = c.name, c.category, c.itemType
				d.currency, d.cost = c.currency, c.cost
			}
			r := core.NewRecord(itemsCol)
			r.Set("quotation", q.Id)
			r.Set("system", s.Id)
			if d.componentKey != "" {
				r.Set("component", componentIDs[d.componentKey])
			}
			r.Set("item_order", ii+1)
			r.Set("display_number", fmt.Sprintf("%d.%d", si+1, ii+1))
			r.Set("component_name", d.name)
			r.Set("component_category", d.category)
			r.Set("item_type", d.itemType)
			if d.laborSubtype != "" {
				r.Set("labor_subtype", d.laborSubtype)
			}
			r.Set("quantity", d.quantity)
			r.Set("original_currency", d.currency)
			r.Set("original_cost", d.cost)
			r.Set(unitPriceField(d.currency), d.cost)
			if err := app.Save(r); err != nil {
				return fmt.Errorf("seed: save item %q: %w", d.name, err)
			}
		}
	}

	log.Printf("seed: inserted %d components, 1 assembly, quotation %s\n", len(seedComponents), q.Id)
	return nil
}

func costField(currency string) string {
	switch currency {
	case "USD":
		return "unit_cost_usd"
	case "EUR":
		return "unit_cost_eur"
	default:
		return "unit_cost_nis"
	}
}

func unitPriceField(currency string) string {
	switch currency {
	case "USD":
		return "unit_price_usd"
	case "EUR":
		return "unit_price_eur"
	default:
		return "unit_price_ils"
	}
}
