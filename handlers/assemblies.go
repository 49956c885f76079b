package handlers

import (
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotetool/services"
	"quotetool/templates"
)

// HandleAssemblyPricing prices an assembly. The usd_to_ils_rate and
// eur_to_ils_rate query parameters override the team rates when both are
// given.
func HandleAssemblyPricing(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		a, err := services.LoadAssembly(app, e.Request.PathValue("id"))
		if err != nil {
			return respondError(e, "assembly_pricing", err)
		}

		var rates *services.ExchangeRates
		usd, hasUSD, err := formFloat(e, "usd_to_ils_rate")
		if err != nil {
			return respondError(e, "assembly_pricing", err)
		}
		eur, hasEUR, err := formFloat(e, "eur_to_ils_rate")
		if err != nil {
			return respondError(e, "assembly_pricing", err)
		}
		if hasUSD && hasEUR {
			rates = &services.ExchangeRates{USDToILS: usd, EURToILS: eur}
		}

		pricing, err := GetEngine(e.Request).CalcAssemblyPricing(a, rates)
		if err != nil {
			return respondError(e, "assembly_pricing", err)
		}
		return respond(e, pricing, templates.AssemblyPricingCard(assemblyView(a, pricing)))
	}
}
