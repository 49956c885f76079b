package services

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	itemTypes     = []any{ItemTypeHardware, ItemTypeSoftware, ItemTypeLabor}
	laborSubtypes = []any{LaborEngineering, LaborProgramming, LaborInstallation, LaborCommissioning}
	currencies    = []any{CurrencyNIS, CurrencyUSD, CurrencyEUR}
)

// ValidateItem checks the editable fields of a quotation line.
func ValidateItem(it QuotationItem) error {
	err := validation.ValidateStruct(&it,
		validation.Field(&it.SystemID, validation.Required),
		validation.Field(&it.ComponentName, validation.Required),
		validation.Field(&it.ItemType, validation.Required, validation.In(itemTypes...)),
		validation.Field(&it.LaborSubtype,
			validation.In(laborSubtypes...),
			validation.When(it.ItemType != ItemTypeLabor, validation.Empty.Error("only allowed on labor items")),
		),
		validation.Field(&it.Quantity, validation.Min(0.0)),
		validation.Field(&it.UnitPriceILS, validation.Min(0.0)),
		validation.Field(&it.UnitPriceUSD, validation.Min(0.0)),
		validation.Field(&it.UnitPriceEUR, validation.Min(0.0)),
		validation.Field(&it.OriginalCost, validation.Min(0.0)),
		validation.Field(&it.OriginalCurrency, validation.In(currencies...)),
	)
	return fromOzzo(err)
}

// ValidateSystem checks a system definition.
func ValidateSystem(s QuotationSystem) error {
	err := validation.ValidateStruct(&s,
		validation.Field(&s.Name, validation.Required),
		validation.Field(&s.Quantity, validation.Required.Error("must be at least 1"), validation.Min(1)),
	)
	return fromOzzo(err)
}

// ValidateParameters checks a parameter set before it is stored. Rates and
// the markup coefficient report their dedicated error types; range checks
// on the rest are field-level validation errors.
func ValidateParameters(p QuotationParameters) error {
	if err := checkPricingParameters(p); err != nil {
		return err
	}
	err := validation.ValidateStruct(&p,
		validation.Field(&p.MarkupPercent, validation.Max(1.0)),
		validation.Field(&p.RiskPercent, validation.Max(100.0)),
		validation.Field(&p.VATRate, validation.Max(100.0)),
		validation.Field(&p.DayWorkCost, validation.Min(0.0)),
	)
	return fromOzzo(err)
}

// UpdateParameters validates p and applies it to the project, refusing
// changes once the quotation left the draft/sent states.
func UpdateParameters(project QuotationProject, p QuotationParameters) (QuotationProject, error) {
	if !project.Status.ParametersEditable() {
		return project, newValidationError("status", "parameters are locked once a quotation is "+string(project.Status))
	}
	if err := ValidateParameters(p); err != nil {
		return project, err
	}
	project.Parameters = &p
	return project, nil
}
