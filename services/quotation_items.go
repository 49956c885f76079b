package services

import (
	"fmt"
	"sort"
)

// RepriceItem pins the line to its origin currency and recomputes the other
// two unit prices from the current rates. Lines without an origin tag fall
// back to detection over the stored unit prices. A tagged free line stays
// in its tagged currency.
func RepriceItem(item QuotationItem, rates ExchangeRates) (QuotationItem, error) {
	detected := DetectOriginalCurrency(item.UnitPriceILS, item.UnitPriceUSD, item.UnitPriceEUR, item.OriginalCurrency)
	currency, amount := pinnedOrigin(item.OriginalCurrency, item.OriginalCost, detected)

	prices, err := ConvertToAllCurrencies(amount, currency, rates)
	if err != nil {
		return item, err
	}
	item.UnitPriceILS = prices.UnitCostNIS
	item.UnitPriceUSD = prices.UnitCostUSD
	item.UnitPriceEUR = prices.UnitCostEUR
	item.OriginalCurrency = prices.Currency
	item.OriginalCost = prices.OriginalCost
	return item, nil
}

// RenumberSystems returns the systems sorted by order with the order
// rewritten to 1..N.
func RenumberSystems(systems []QuotationSystem) []QuotationSystem {
	out := make([]QuotationSystem, len(systems))
	copy(out, systems)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	for i := range out {
		out[i].Order = i + 1
	}
	return out
}

// RenumberItems returns the items ordered by system then item order, with
// systemOrder taken from the owning system, itemOrder contiguous from 1
// inside each system and displayNumber regenerated.
func RenumberItems(items []QuotationItem, systems []QuotationSystem) []QuotationItem {
	systemOrder := make(map[string]int, len(systems))
	for _, s := range systems {
		systemOrder[s.ID] = s.Order
	}

	out := make([]QuotationItem, len(items))
	copy(out, items)
	for i := range out {
		if order, ok := systemOrder[out[i].SystemID]; ok {
			out[i].SystemOrder = order
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SystemOrder != out[j].SystemOrder {
			return out[i].SystemOrder < out[j].SystemOrder
		}
		if out[i].SystemID != out[j].SystemID {
			return out[i].SystemID < out[j].SystemID
		}
		return out[i].ItemOrder < out[j].ItemOrder
	})

	next := make(map[string]int)
	for i := range out {
		next[out[i].SystemID]++
		out[i].ItemOrder = next[out[i].SystemID]
		out[i].DisplayNumber = DisplayNumber(out[i].SystemOrder, out[i].ItemOrder)
	}
	return out
}

// InsertItem appends item at the end of its system and renumbers.
func InsertItem(items []QuotationItem, systems []QuotationSystem, item QuotationItem) []QuotationItem {
	maxOrder := 0
	for _, it := range items {
		if it.SystemID == item.SystemID && it.ItemOrder > maxOrder {
			maxOrder = it.ItemOrder
		}
	}
	item.ItemOrder = maxOrder + 1

	out := make([]QuotationItem, 0, len(items)+1)
	out = append(out, items...)
	out = append(out, item)
	return RenumberItems(out, systems)
}

// DeleteItem removes the item with the given id and renumbers the rest.
// The bool is false when no item matched.
func DeleteItem(items []QuotationItem, systems []QuotationSystem, id string) ([]QuotationItem, bool) {
	out := make([]QuotationItem, 0, len(items))
	found := false
	for _, it := range items {
		if it.ID == id {
			found = true
			continue
		}
		out = append(out, it)
	}
	if !found {
		return RenumberItems(items, systems), false
	}
	return RenumberItems(out, systems), true
}

// MoveItem moves the item to the 1-based position inside its own system.
// Positions outside the system range are clamped.
func MoveItem(items []QuotationItem, systems []QuotationSystem, id string, position int) ([]QuotationItem, error) {
	ordered := RenumberItems(items, systems)

	var target *QuotationItem
	for i := range ordered {
		if ordered[i].ID == id {
			target = &ordered[i]
			break
		}
	}
	if target == nil {
		return nil, newValidationError("id", fmt.Sprintf("item %q not found", id))
	}

	var siblings []QuotationItem
	var others []QuotationItem
	for _, it := range ordered {
		switch {
		case it.ID == id:
		case it.SystemID == target.SystemID:
			siblings = append(siblings, it)
		default:
			others = append(others, it)
		}
	}

	if position < 1 {
		position = 1
	}
	if position > len(siblings)+1 {
		position = len(siblings) + 1
	}

	moved := *target
	reordered := make([]QuotationItem, 0, len(siblings)+1)
	reordered = append(reordered, siblings[:position-1]...)
	reordered = append(reordered, moved)
	reordered = append(reordered, siblings[position-1:]...)
	for i := range reordered {
		reordered[i].ItemOrder = i + 1
	}

	return RenumberItems(append(others, reordered...), systems), nil
}

// DeleteSystem removes a system together with its items and renumbers both.
func DeleteSystem(systems []QuotationSystem, items []QuotationItem, id string) ([]QuotationSystem, []QuotationItem) {
	keptSystems := make([]QuotationSystem, 0, len(systems))
	for _, s := range systems {
		if s.ID != id {
			keptSystems = append(keptSystems, s)
		}
	}
	keptItems := make([]QuotationItem, 0, len(items))
	for _, it := range items {
		if it.SystemID != id {
			keptItems = append(keptItems, it)
		}
	}
	keptSystems = RenumberSystems(keptSystems)
	return keptSystems, RenumberItems(keptItems, keptSystems)
}

// NewItemFromComponent builds a line for qty units of c, priced in all
// three currencies from the component's own currency.
func NewItemFromComponent(systemID string, c Component, qty float64, rates ExchangeRates) (QuotationItem, error) {
	prices, err := NormalizeComponentPrices(c, rates)
	if err != nil {
		return QuotationItem{}, err
	}
	itemType := c.ItemType
	if itemType == "" {
		itemType = ItemTypeHardware
	}
	return QuotationItem{
		SystemID:          systemID,
		ComponentID:       c.ID,
		ComponentName:     c.Name,
		ComponentCategory: c.Category,
		ItemType:          itemType,
		Quantity:          qty,
		UnitPriceILS:      prices.UnitCostNIS,
		UnitPriceUSD:      prices.UnitCostUSD,
		UnitPriceEUR:      prices.UnitCostEUR,
		OriginalCurrency:  prices.Currency,
		OriginalCost:      prices.OriginalCost,
	}, nil
}

// NewLaborItem builds a labor line of the given number of days priced at the
// quotation's day rate in NIS.
func NewLaborItem(systemID string, subtype LaborSubtype, days float64, params QuotationParameters) (QuotationItem, error) {
	prices, err := ConvertToAllCurrencies(params.DayWorkCost, CurrencyNIS, params.Rates())
	if err != nil {
		return QuotationItem{}, err
	}
	name := "Labor"
	if subtype != "" {
		name = fmt.Sprintf("Labor (%s)", subtype)
	}
	return QuotationItem{
		SystemID:          systemID,
		ComponentName:     name,
		ComponentCategory: "labor",
		ItemType:          ItemTypeLabor,
		LaborSubtype:      subtype,
		Quantity:          days,
		UnitPriceILS:      prices.UnitCostNIS,
		UnitPriceUSD:      prices.UnitCostUSD,
		UnitPriceEUR:      prices.UnitCostEUR,
		OriginalCurrency:  CurrencyNIS,
		OriginalCost:      prices.OriginalCost,
	}, nil
}
