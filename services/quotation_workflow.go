package services

import (
	"strings"

	"github.com/pocketbase/pocketbase/core"
)

// CalculateAndSave loads the quotation, recalculates it and persists the
// repriced items and calculations.
func CalculateAndSave(app core.App, quotationID string) (QuotationProject, error) {
	project, err := LoadQuotationProject(app, quotationID)
	if err != nil {
		return QuotationProject{}, err
	}
	return recalculateAndSave(app, project, nil)
}

// recalculateAndSave runs apply, recalculates and stores the results in one
// transaction. apply writes the records behind the change and may fill in
// ids on project. Any failure, including a recalculation error, rolls the
// whole change back.
func recalculateAndSave(app core.App, project QuotationProject, apply func(txApp core.App, project *QuotationProject) error) (QuotationProject, error) {
	var calculated QuotationProject
	err := app.RunInTransaction(func(txApp core.App) error {
		if apply != nil {
			if err := apply(txApp, &project); err != nil {
				return err
			}
		}
		var err error
		calculated, err = RecalculateQuotation(project)
		if err != nil {
			return err
		}
		return SaveQuotationResults(txApp, calculated.ID, calculated.Items, *calculated.Calculations)
	})
	if err != nil {
		return QuotationProject{}, err
	}
	return calculated, nil
}

// ChangeParameters validates and stores new parameters, then recalculates.
func ChangeParameters(app core.App, quotationID string, p QuotationParameters) (QuotationProject, error) {
	project, err := LoadQuotationProject(app, quotationID)
	if err != nil {
		return QuotationProject{}, err
	}
	project, err = UpdateParameters(project, p)
	if err != nil {
		return QuotationProject{}, err
	}
	return recalculateAndSave(app, project, func(txApp core.App, _ *QuotationProject) error {
		return SaveQuotationParameters(txApp, quotationID, p)
	})
}

// AddComponentItem appends qty units of a catalog component to a system,
// priced at the quotation's rates, then recalculates.
func AddComponentItem(app core.App, quotationID, systemID, componentID string, qty float64) (QuotationProject, error) {
	project, err := LoadQuotationProject(app, quotationID)
	if err != nil {
		return QuotationProject{}, err
	}
	if project.Parameters == nil {
		return QuotationProject{}, ErrMissingParameters
	}
	c, err := LoadComponent(app, componentID)
	if err != nil {
		return QuotationProject{}, err
	}
	item, err := NewItemFromComponent(systemID, c, qty, project.Parameters.Rates())
	if err != nil {
		return QuotationProject{}, err
	}
	return insertAndRecalculate(app, project, item)
}

// AddLaborItem appends a labor line of days at the quotation's day rate.
func AddLaborItem(app core.App, quotationID, systemID string, subtype LaborSubtype, days float64) (QuotationProject, error) {
	project, err := LoadQuotationProject(app, quotationID)
	if err != nil {
		return QuotationProject{}, err
	}
	if project.Parameters == nil {
		return QuotationProject{}, ErrMissingParameters
	}
	item, err := NewLaborItem(systemID, subtype, days, *project.Parameters)
	if err != nil {
		return QuotationProject{}, err
	}
	return insertAndRecalculate(app, project, item)
}

func insertAndRecalculate(app core.App, project QuotationProject, item QuotationItem) (QuotationProject, error) {
	if !hasSystem(project.Systems, item.SystemID) {
		return QuotationProject{}, newValidationError("systemId", "system does not belong to this quotation")
	}
	if err := ValidateItem(item); err != nil {
		return QuotationProject{}, err
	}

	project.Items = InsertItem(project.Items, project.Systems, item)
	return recalculateAndSave(app, project, func(txApp core.App, p *QuotationProject) error {
		for i := range p.Items {
			if p.Items[i].ID != "" {
				continue
			}
			saved, err := CreateQuotationItem(txApp, p.ID, p.Items[i])
			if err != nil {
				return err
			}
			p.Items[i] = saved
		}
		return nil
	})
}

// RemoveItem deletes an item and recalculates the renumbered remainder.
func RemoveItem(app core.App, quotationID, itemID string) (QuotationProject, error) {
	project, err := LoadQuotationProject(app, quotationID)
	if err != nil {
		return QuotationProject{}, err
	}
	items, found := DeleteItem(project.Items, project.Systems, itemID)
	if !found {
		return QuotationProject{}, ErrNotFound
	}
	project.Items = items
	return recalculateAndSave(app, project, func(txApp core.App, _ *QuotationProject) error {
		return DeleteQuotationItem(txApp, quotationID, itemID)
	})
}

// MoveQuotationItem moves an item to a 1-based position inside its system
// and recalculates.
func MoveQuotationItem(app core.App, quotationID, itemID string, position int) (QuotationProject, error) {
	project, err := LoadQuotationProject(app, quotationID)
	if err != nil {
		return QuotationProject{}, err
	}
	items, err := MoveItem(project.Items, project.Systems, itemID, position)
	if err != nil {
		return QuotationProject{}, err
	}
	project.Items = items
	return recalculateAndSave(app, project, nil)
}

// AddSystem appends a system of quantity identical copies to the quotation.
func AddSystem(app core.App, quotationID, name string, quantity int) (QuotationProject, error) {
	project, err := LoadQuotationProject(app, quotationID)
	if err != nil {
		return QuotationProject{}, err
	}
	sys := QuotationSystem{Name: strings.TrimSpace(name), Quantity: quantity, Order: len(project.Systems) + 1}
	if err := ValidateSystem(sys); err != nil {
		return QuotationProject{}, err
	}
	return recalculateAndSave(app, project, func(txApp core.App, p *QuotationProject) error {
		saved, err := CreateQuotationSystem(txApp, p.ID, sys)
		if err != nil {
			return err
		}
		p.Systems = append(p.Systems, saved)
		return nil
	})
}

// SystemChange lists the system fields to update; nil fields are kept.
type SystemChange struct {
	Name     *string
	Quantity *int
}

// ChangeSystem renames a system or changes how many copies are quoted,
// then recalculates.
func ChangeSystem(app core.App, quotationID, systemID string, change SystemChange) (QuotationProject, error) {
	project, err := LoadQuotationProject(app, quotationID)
	if err != nil {
		return QuotationProject{}, err
	}
	i := systemIndex(project.Systems, systemID)
	if i < 0 {
		return QuotationProject{}, ErrNotFound
	}
	sys := project.Systems[i]
	if change.Name != nil {
		sys.Name = strings.TrimSpace(*change.Name)
	}
	if change.Quantity != nil {
		sys.Quantity = *change.Quantity
	}
	if err := ValidateSystem(sys); err != nil {
		return QuotationProject{}, err
	}
	project.Systems[i] = sys
	return recalculateAndSave(app, project, func(txApp core.App, p *QuotationProject) error {
		return SaveQuotationSystems(txApp, p.ID, []QuotationSystem{sys})
	})
}

// RemoveSystem deletes a system with all of its items and renumbers the
// remaining systems. The last system of a quotation cannot be removed.
func RemoveSystem(app core.App, quotationID, systemID string) (QuotationProject, error) {
	project, err := LoadQuotationProject(app, quotationID)
	if err != nil {
		return QuotationProject{}, err
	}
	if systemIndex(project.Systems, systemID) < 0 {
		return QuotationProject{}, ErrNotFound
	}
	if len(project.Systems) == 1 {
		return QuotationProject{}, newValidationError("systemId", "a quotation needs at least one system")
	}
	project.Systems, project.Items = DeleteSystem(project.Systems, project.Items, systemID)
	return recalculateAndSave(app, project, func(txApp core.App, p *QuotationProject) error {
		if err := DeleteQuotationSystem(txApp, p.ID, systemID); err != nil {
			return err
		}
		return SaveQuotationSystems(txApp, p.ID, p.Systems)
	})
}

func hasSystem(systems []QuotationSystem, id string) bool {
	return systemIndex(systems, id) >= 0
}

func systemIndex(systems []QuotationSystem, id string) int {
	for i, s := range systems {
		if s.ID == id {
			return i
		}
	}
	return -1
}
