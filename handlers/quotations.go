package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotetool/services"
	"quotetool/templates"
)

// HandleQuotationCreate creates a draft quotation priced with the team
// defaults and one default system.
func HandleQuotationCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		title := e.Request.FormValue("title")
		customer := e.Request.FormValue("customer_name")

		params := GetEngine(e.Request).DefaultParameters()
		project, err := services.CreateQuotation(app, title, customer, params, time.Now())
		if err != nil {
			return respondError(e, "quotation_create", err)
		}

		if isHTMX(e) {
			SetToast(e, "success", "Quotation "+project.QuotationNumber+" created")
			e.Response.Header().Set("Content-Type", "text/html; charset=utf-8")
			e.Response.WriteHeader(http.StatusCreated)
			return templates.QuotationSummary(summaryView(project)).Render(e.Request.Context(), e.Response)
		}
		return e.JSON(http.StatusCreated, project)
	}
}

// HandleQuotationCalculate recomputes a quotation, persists the repriced
// items and the calculations, and returns the calculations.
func HandleQuotationCalculate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if id == "" {
			return respondError(e, "quotation_calculate", fieldError("id", "is required"))
		}

		project, err := services.CalculateAndSave(app, id)
		if err != nil {
			return respondError(e, "quotation_calculate", err)
		}
		return respond(e, project.Calculations, templates.QuotationSummary(summaryView(project)))
	}
}

// HandleQuotationStatistics returns the statistics of a calculated quotation.
func HandleQuotationStatistics(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		project, err := services.LoadQuotationProject(app, id)
		if err != nil {
			return respondError(e, "quotation_statistics", err)
		}

		stats, err := GetEngine(e.Request).CalcQuotationStatistics(project)
		if err != nil {
			return respondError(e, "quotation_statistics", err)
		}
		return respond(e, stats, templates.StatisticsPanel(statisticsView(project.ID, stats)))
	}
}

// HandleQuotationParameters applies the submitted parameter fields over the
// stored ones (or the team defaults when none are stored) and recalculates.
// Absent fields keep their current value.
func HandleQuotationParameters(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		project, err := services.LoadQuotationProject(app, id)
		if err != nil {
			return respondError(e, "quotation_parameters", err)
		}

		p := GetEngine(e.Request).DefaultParameters()
		if project.Parameters != nil {
			p = *project.Parameters
		}

		numeric := []struct {
			field string
			dst   *float64
		}{
			{"usd_to_ils_rate", &p.USDToILSRate},
			{"eur_to_ils_rate", &p.EURToILSRate},
			{"markup_percent", &p.MarkupPercent},
			{"day_work_cost", &p.DayWorkCost},
			{"risk_percent", &p.RiskPercent},
			{"vat_rate", &p.VATRate},
		}
		for _, n := range numeric {
			v, ok, err := formFloat(e, n.field)
			if err != nil {
				return respondError(e, "quotation_parameters", err)
			}
			if ok {
				*n.dst = v
			}
		}
		if v, ok, err := formBool(e, "include_vat"); err != nil {
			return respondError(e, "quotation_parameters", err)
		} else if ok {
			p.IncludeVAT = v
		}

		updated, err := services.ChangeParameters(app, id, p)
		if err != nil {
			return respondError(e, "quotation_parameters", err)
		}
		if isHTMX(e) {
			SetToast(e, "success", "Parameters updated")
		}
		return respond(e, updated, templates.QuotationSummary(summaryView(updated)))
	}
}

// HandleItemAdd adds a line to a system: a catalog component when
// component_id is given, otherwise a labor line of quantity days.
func HandleItemAdd(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		systemID := strings.TrimSpace(e.Request.FormValue("system_id"))
		if systemID == "" {
			return respondError(e, "item_add", fieldError("system_id", "is required"))
		}

		qty, ok, err := formFloat(e, "quantity")
		if err != nil {
			return respondError(e, "item_add", err)
		}
		if !ok {
			qty = 1
		}

		var project services.QuotationProject
		componentID := strings.TrimSpace(e.Request.FormValue("component_id"))
		subtype := strings.TrimSpace(e.Request.FormValue("labor_subtype"))
		switch {
		case componentID != "":
			project, err = services.AddComponentItem(app, id, systemID, componentID, qty)
		case subtype != "":
			project, err = services.AddLaborItem(app, id, systemID, services.LaborSubtype(subtype), qty)
		default:
			err = fieldError("component_id", "choose a component or a labor subtype")
		}
		if err != nil {
			return respondError(e, "item_add", err)
		}

		if isHTMX(e) {
			SetToast(e, "success", "Item added")
		}
		return respond(e, project, templates.QuotationSummary(summaryView(project)))
	}
}

// HandleItemDelete deletes a line and recalculates the renumbered remainder.
func HandleItemDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		itemID := e.Request.PathValue("itemId")
		if id == "" || itemID == "" {
			return respondError(e, "item_delete", fieldError("itemId", "is required"))
		}

		project, err := services.RemoveItem(app, id, itemID)
		if err != nil {
			return respondError(e, "item_delete", err)
		}
		if isHTMX(e) {
			SetToast(e, "success", "Item deleted")
		}
		return respond(e, project, templates.QuotationSummary(summaryView(project)))
	}
}

// HandleItemMove moves a line to the 1-based position inside its system.
func HandleItemMove(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		itemID := e.Request.PathValue("itemId")

		pos, ok, err := formFloat(e, "position")
		if err != nil {
			return respondError(e, "item_move", err)
		}
		if !ok {
			return respondError(e, "item_move", fieldError("position", "is required"))
		}

		project, err := services.MoveQuotationItem(app, id, itemID, int(pos))
		if err != nil {
			return respondError(e, "item_move", err)
		}
		return respond(e, project, templates.QuotationSummary(summaryView(project)))
	}
}

// HandleSystemAdd appends a system to the quotation. quantity defaults to 1.
func HandleSystemAdd(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		qty, ok, err := formInt(e, "quantity")
		if err != nil {
			return respondError(e, "system_add", err)
		}
		if !ok {
			qty = 1
		}

		project, err := services.AddSystem(app, id, e.Request.FormValue("name"), qty)
		if err != nil {
			return respondError(e, "system_add", err)
		}
		if isHTMX(e) {
			SetToast(e, "success", "System added")
		}
		return respond(e, project, templates.QuotationSummary(summaryView(project)))
	}
}

// HandleSystemUpdate renames a system or changes its quantity. Absent
// fields keep their current value.
func HandleSystemUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		systemID := e.Request.PathValue("systemId")

		var change services.SystemChange
		qty, ok, err := formInt(e, "quantity")
		if err != nil {
			return respondError(e, "system_update", err)
		}
		if ok {
			change.Quantity = &qty
		}
		if _, present := e.Request.Form["name"]; present {
			name := e.Request.Form.Get("name")
			change.Name = &name
		}

		project, err := services.ChangeSystem(app, id, systemID, change)
		if err != nil {
			return respondError(e, "system_update", err)
		}
		if isHTMX(e) {
			SetToast(e, "success", "System updated")
		}
		return respond(e, project, templates.QuotationSummary(summaryView(project)))
	}
}

// HandleSystemDelete deletes a system with its items and recalculates.
func HandleSystemDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		systemID := e.Request.PathValue("systemId")
		if id == "" || systemID == "" {
			return respondError(e, "system_delete", fieldError("systemId", "is required"))
		}

		project, err := services.RemoveSystem(app, id, systemID)
		if err != nil {
			return respondError(e, "system_delete", err)
		}
		if isHTMX(e) {
			SetToast(e, "success", "System deleted")
		}
		return respond(e, project, templates.QuotationSummary(summaryView(project)))
	}
}
