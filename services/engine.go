package services

import (
	"quotetool/config"
)

// Engine binds the pure pricing functions to a settings object, so callers
// decide whether defaults come from the environment, the team settings or
// the built-in table.
type Engine struct {
	defaults config.Defaults
	robots   *RobotMatcher
}

// NewEngine creates an engine over the given settings.
func NewEngine(s config.Settings) *Engine {
	return &Engine{
		defaults: s.Defaults,
		robots:   NewRobotMatcher(s.RobotKeywords),
	}
}

// Defaults returns the defaults the engine was built with.
func (en *Engine) Defaults() config.Defaults {
	return en.defaults
}

// DefaultParameters returns the parameter set for a new quotation.
func (en *Engine) DefaultParameters() QuotationParameters {
	return ParametersFromDefaults(en.defaults)
}

// DefaultRates returns the fallback exchange rates.
func (en *Engine) DefaultRates() ExchangeRates {
	return ExchangeRates{USDToILS: en.defaults.USDToILSRate, EURToILS: en.defaults.EURToILSRate}
}

func (en *Engine) ratesOrDefault(rates *ExchangeRates) ExchangeRates {
	if rates != nil {
		return *rates
	}
	return en.DefaultRates()
}

// NormalizeComponentPrices normalizes c with rates, or with the default
// rates when rates is nil.
func (en *Engine) NormalizeComponentPrices(c Component, rates *ExchangeRates) (CurrencyPrices, error) {
	return NormalizeComponentPrices(c, en.ratesOrDefault(rates))
}

// CalcAssemblyPricing prices an assembly with rates, or with the default
// rates when rates is nil.
func (en *Engine) CalcAssemblyPricing(a Assembly, rates *ExchangeRates) (AssemblyPricing, error) {
	return CalcAssemblyPricing(a, en.ratesOrDefault(rates))
}

// CalcQuotationStatistics derives statistics using the engine's robot
// keyword list.
func (en *Engine) CalcQuotationStatistics(project QuotationProject) (QuotationStatistics, error) {
	return CalcQuotationStatistics(project, en.robots)
}

// ParametersFromDefaults converts a defaults table into quotation parameters.
func ParametersFromDefaults(d config.Defaults) QuotationParameters {
	return QuotationParameters{
		USDToILSRate:  d.USDToILSRate,
		EURToILSRate:  d.EURToILSRate,
		MarkupPercent: d.MarkupPercent,
		DayWorkCost:   d.DayWorkCost,
		RiskPercent:   d.RiskPercent,
		IncludeVAT:    d.IncludeVAT,
		VATRate:       d.VATRate,
	}
}
