package services

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase/core"
)

// MigrateLegacyCurrencies tags components and quotation items that were
// stored before prices carried an origin currency. The origin is detected
// from the stored price fields and the other two prices are recomputed.
// Records that already carry a currency are left alone, so the migration is
// safe to run on every startup. It returns the number of migrated records.
func MigrateLegacyCurrencies(app core.App, rates ExchangeRates) (int, error) {
	if err := rates.Validate(); err != nil {
		return 0, err
	}

	components, err := app.FindRecordsByFilter("components", "currency = ''", "", 0, 0)
	if err != nil {
		return 0, fmt.Errorf("migrate_currency: could not query components: %w", err)
	}
	items, err := app.FindRecordsByFilter("quotation_items", "original_currency = ''", "", 0, 0)
	if err != nil {
		return 0, fmt.Errorf("migrate_currency: could not query quotation items: %w", err)
	}
	if len(components) == 0 && len(items) == 0 {
		return 0, nil
	}

	migrated := 0
	for _, r := range components {
		prices, err := NormalizeComponentPrices(componentFromRecord(r), rates)
		if err != nil {
			log.Printf("migrate_currency: component %s: %v\n", r.Id, err)
			continue
		}
		r.Set("currency", string(prices.Currency))
		r.Set("original_cost", prices.OriginalCost)
		r.Set("unit_cost_nis", prices.UnitCostNIS)
		r.Set("unit_cost_usd", prices.UnitCostUSD)
		r.Set("unit_cost_eur", prices.UnitCostEUR)
		if err := app.Save(r); err != nil {
			log.Printf("migrate_currency: failed to save component %s: %v\n", r.Id, err)
			continue
		}
		migrated++
	}

	for _, r := range items {
		repriced, err := RepriceItem(itemFromRecord(r), rates)
		if err != nil {
			log.Printf("migrate_currency: item %s: %v\n", r.Id, err)
			continue
		}
		r.Set("original_currency", string(repriced.OriginalCurrency))
		r.Set("original_cost", repriced.OriginalCost)
		r.Set("unit_price_ils", repriced.UnitPriceILS)
		r.Set("unit_price_usd", repriced.UnitPriceUSD)
		r.Set("unit_price_eur", repriced.UnitPriceEUR)
		if err := app.Save(r); err != nil {
			log.Printf("migrate_currency: failed to save item %s: %v\n", r.Id, err)
			continue
		}
		migrated++
	}

	log.Printf("migrate_currency: tagged %d legacy record(s)\n", migrated)
	return migrated, nil
}
