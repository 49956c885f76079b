// Package config holds the quotation defaults used when a team has not
// configured its own, and loads overrides from the environment.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cast"
)

// Defaults is the fallback parameter table for new quotations and for
// conversions that are not tied to a specific quotation.
//
//	usd_to_ils_rate  3.7
//	eur_to_ils_rate  4.0
//	markup_percent   0.75  (coefficient: customer price = cost / 0.75)
//	vat_rate         17
//	risk_percent     0
//	day_work_cost    1200
//	include_vat      true
type Defaults struct {
	USDToILSRate  float64 `json:"usdToIlsRate"`
	EURToILSRate  float64 `json:"eurToIlsRate"`
	MarkupPercent float64 `json:"markupPercent"`
	DayWorkCost   float64 `json:"dayWorkCost"`
	RiskPercent   float64 `json:"riskPercent"`
	IncludeVAT    bool    `json:"includeVAT"`
	VATRate       float64 `json:"vatRate"`
}

// DefaultValues returns the documented default table.
func DefaultValues() Defaults {
	return Defaults{
		USDToILSRate:  3.7,
		EURToILSRate:  4.0,
		MarkupPercent: 0.75,
		DayWorkCost:   1200,
		RiskPercent:   0,
		IncludeVAT:    true,
		VATRate:       17,
	}
}

// Settings is the application configuration handed to the pricing engine.
type Settings struct {
	Defaults      Defaults
	RobotKeywords []string
}

// DefaultSettings returns the default table and the built-in robot keyword list.
func DefaultSettings() Settings {
	keywords := make([]string, len(DefaultRobotKeywords))
	copy(keywords, DefaultRobotKeywords)
	return Settings{
		Defaults:      DefaultValues(),
		RobotKeywords: keywords,
	}
}

// Load reads overrides from the process environment. Values that cannot be
// parsed keep their default and are reported in the returned slice.
func Load() (Settings, []error) {
	return LoadFrom(os.LookupEnv)
}

// LoadFrom reads overrides through lookup, which has the os.LookupEnv shape.
func LoadFrom(lookup func(string) (string, bool)) (Settings, []error) {
	s := DefaultSettings()
	var errs []error

	floatVar := func(key string, dst *float64, positive bool) {
		raw, ok := lookup(key)
		if !ok || strings.TrimSpace(raw) == "" {
			return
		}
		v, err := cast.ToFloat64E(strings.TrimSpace(raw))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		if positive && v <= 0 {
			errs = append(errs, fmt.Errorf("%s: must be greater than zero, got %v", key, v))
			return
		}
		if v < 0 {
			errs = append(errs, fmt.Errorf("%s: must not be negative, got %v", key, v))
			return
		}
		*dst = v
	}

	floatVar("QUOTE_USD_TO_ILS", &s.Defaults.USDToILSRate, true)
	floatVar("QUOTE_EUR_TO_ILS", &s.Defaults.EURToILSRate, true)
	floatVar("QUOTE_MARKUP", &s.Defaults.MarkupPercent, true)
	floatVar("QUOTE_VAT_RATE", &s.Defaults.VATRate, false)
	floatVar("QUOTE_RISK_PERCENT", &s.Defaults.RiskPercent, false)
	floatVar("QUOTE_DAY_WORK_COST", &s.Defaults.DayWorkCost, false)

	if raw, ok := lookup("QUOTE_INCLUDE_VAT"); ok && strings.TrimSpace(raw) != "" {
		v, err := cast.ToBoolE(strings.TrimSpace(raw))
		if err != nil {
			errs = append(errs, fmt.Errorf("QUOTE_INCLUDE_VAT: %w", err))
		} else {
			s.Defaults.IncludeVAT = v
		}
	}

	if raw, ok := lookup("QUOTE_ROBOT_KEYWORDS"); ok && strings.TrimSpace(raw) != "" {
		var keywords []string
		for _, k := range strings.Split(raw, ",") {
			if k = strings.TrimSpace(k); k != "" {
				keywords = append(keywords, k)
			}
		}
		if len(keywords) > 0 {
			s.RobotKeywords = keywords
		}
	}

	return s, errs
}
