package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase/core"
)

// DefaultSystemName names the system created for quotations that have none.
const DefaultSystemName = "Main System"

// MigrateQuotationsWithoutSystems finds all quotations that have no system
// and creates a single system with quantity 1 for each one, so items can be
// added to them. Safe to call on every startup -- returns early if nothing
// to migrate.
func MigrateQuotationsWithoutSystems(app core.App) error {
	quotationsCol, err := app.FindCollectionByNameOrId("quotations")
	if err != nil {
		return fmt.Errorf("migrate: could not find quotations collection: %w", err)
	}

	systemsCol, err := app.FindCollectionByNameOrId("quotation_systems")
	if err != nil {
		return fmt.Errorf("migrate: could not find quotation_systems collection: %w", err)
	}

	quotations, err := app.FindAllRecords(quotationsCol)
	if err != nil {
		return fmt.Errorf("migrate: could not query quotations: %w", err)
	}

	migrated := 0
	for _, q := range quotations {
		existing, _ := app.FindRecordsByFilter(
			systemsCol,
			"quotation = {:quotationId}",
			"",
			1, 0,
			map[string]any{"quotationId": q.Id},
		)
		if len(existing) > 0 {
			continue
		}

		system := core.NewRecord(systemsCol)
		system.Set("quotation", q.Id)
		system.Set("name", DefaultSystemName)
		system.Set("sort_order", 1)
		system.Set("quantity", 1)

		if err := app.Save(system); err != nil {
			log.Printf("migrate: failed to create system for quotation %q (%s): %v\n", q.GetString("title"), q.Id, err)
			continue
		}
		migrated++
	}

	if migrated > 0 {
		log.Printf("migrate: created a default system for %d quotation(s)\n", migrated)
	}
	return nil
}
