package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase/core"

	"quotetool/config"
)

// TeamSettingsName is the name of the single team_settings record the app
// reads its pricing defaults from.
const TeamSettingsName = "default"

// MigrateDefaultTeamSettings creates the team_settings record from defaults
// when it is missing. An existing record is never overwritten. Safe to call
// on every startup.
func MigrateDefaultTeamSettings(app core.App, defaults config.Defaults) error {
	settingsCol, err := app.FindCollectionByNameOrId("team_settings")
	if err != nil {
		return fmt.Errorf("migrate_settings: could not find team_settings collection: %w", err)
	}

	existing, _ := app.FindRecordsByFilter(
		settingsCol,
		"name = {:name}",
		"",
		1, 0,
		map[string]any{"name": TeamSettingsName},
	)
	if len(existing) > 0 {
		return nil
	}

	record := core.NewRecord(settingsCol)
	record.Set("name", TeamSettingsName)
	record.Set("usd_to_ils_rate", defaults.USDToILSRate)
	record.Set("eur_to_ils_rate", defaults.EURToILSRate)
	record.Set("markup_percent", defaults.MarkupPercent)
	record.Set("day_work_cost", defaults.DayWorkCost)
	record.Set("risk_percent", defaults.RiskPercent)
	record.Set("include_vat", defaults.IncludeVAT)
	record.Set("vat_rate", defaults.VATRate)

	if err := app.Save(record); err != nil {
		return fmt.Errorf("migrate_settings: save team settings: %w", err)
	}
	log.Printf("migrate_settings: created team settings %q\n", TeamSettingsName)
	return nil
}
