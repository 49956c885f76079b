package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotetool/collections"
	"quotetool/config"
	"quotetool/handlers"
	"quotetool/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("config: no .env file loaded: %v", err)
	}

	settings, errs := config.Load()
	for _, err := range errs {
		log.Printf("config: ignoring invalid value: %v", err)
	}

	app := pocketbase.New()

	// Create collections, seed data and migrate legacy records on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.MigrateDefaultTeamSettings(app, settings.Defaults); err != nil {
			log.Printf("Warning: team settings migration failed: %v", err)
		}
		if err := collections.Seed(app, settings.Defaults); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		if err := collections.MigrateQuotationsWithoutSystems(app); err != nil {
			log.Printf("Warning: quotation systems migration failed: %v", err)
		}

		team := services.LoadTeamDefaults(app, settings.Defaults)
		rates := services.ExchangeRates{USDToILS: team.USDToILSRate, EURToILS: team.EURToILSRate}
		if n, err := services.MigrateLegacyCurrencies(app, rates); err != nil {
			log.Printf("Warning: legacy currency migration failed: %v", err)
		} else if n > 0 {
			log.Printf("migrate_currency: tagged %d legacy records", n)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// Team settings are re-read per request
		se.Router.BindFunc(handlers.EngineMiddleware(app, settings))

		// ── Quotations ───────────────────────────────────────────
		se.Router.POST("/quotations", handlers.HandleQuotationCreate(app))
		se.Router.POST("/quotations/{id}/calculate", handlers.HandleQuotationCalculate(app))
		se.Router.GET("/quotations/{id}/statistics", handlers.HandleQuotationStatistics(app))
		se.Router.POST("/quotations/{id}/parameters", handlers.HandleQuotationParameters(app))

		// ── Quotation systems ────────────────────────────────────
		se.Router.POST("/quotations/{id}/systems", handlers.HandleSystemAdd(app))
		se.Router.POST("/quotations/{id}/systems/{systemId}", handlers.HandleSystemUpdate(app))
		se.Router.DELETE("/quotations/{id}/systems/{systemId}", handlers.HandleSystemDelete(app))

		// ── Quotation items ──────────────────────────────────────
		se.Router.POST("/quotations/{id}/items", handlers.HandleItemAdd(app))
		se.Router.DELETE("/quotations/{id}/items/{itemId}", handlers.HandleItemDelete(app))
		se.Router.POST("/quotations/{id}/items/{itemId}/move", handlers.HandleItemMove(app))

		// ── Exports ──────────────────────────────────────────────
		se.Router.GET("/quotations/{id}/export/excel", handlers.HandleQuotationExportExcel(app))
		se.Router.GET("/quotations/{id}/export/pdf", handlers.HandleQuotationExportPDF(app))

		// ── Catalog ──────────────────────────────────────────────
		se.Router.GET("/assemblies/{id}/pricing", handlers.HandleAssemblyPricing(app))
		se.Router.GET("/components/import/template", handlers.HandlePriceListTemplate())
		se.Router.POST("/components/import/errors", handlers.HandleComponentImportErrors(app))
		se.Router.POST("/components/import", handlers.HandleComponentImport(app))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
