package services

import (
	"fmt"
	"strconv"
)

// ComponentCounts counts quotation lines by type. Hardware+Software+Labor
// always equals Total.
type ComponentCounts struct {
	Hardware int `json:"hardware"`
	Software int `json:"software"`
	Labor    int `json:"labor"`
	Total    int `json:"total"`
}

// RobotSummary describes the robot content of a quotation.
type RobotSummary struct {
	Count      int      `json:"count"`
	TotalCost  float64  `json:"totalCost"`
	Percent    float64  `json:"percent"`
	Components []string `json:"components"`
}

// TypeProfit is the cost, selling price and margin of one item type.
type TypeProfit struct {
	Cost          float64 `json:"cost"`
	CustomerPrice float64 `json:"customerPrice"`
	Profit        float64 `json:"profit"`
	Margin        float64 `json:"margin"`
}

// ProfitByType splits profit between hardware, software and labor.
type ProfitByType struct {
	Hardware TypeProfit `json:"hardware"`
	Software TypeProfit `json:"software"`
	Labor    TypeProfit `json:"labor"`
}

// QuotationStatistics is reporting output derived from the calculations and
// items. It never feeds back into pricing.
type QuotationStatistics struct {
	HardwarePercent      float64 `json:"hardwarePercent"`
	SoftwarePercent      float64 `json:"softwarePercent"`
	LaborPercent         float64 `json:"laborPercent"`
	EngineeringPercent   float64 `json:"engineeringPercent"`
	ProgrammingPercent   float64 `json:"programmingPercent"`
	CommissioningPercent float64 `json:"commissioningPercent"`
	InstallationPercent  float64 `json:"installationPercent"`

	HWEngineeringCommissioningRatio string  `json:"hwEngineeringCommissioningRatio"`
	HardwareToLaborRatio            float64 `json:"hardwareToLaborRatio"`

	// RobotComponents is nil when nothing matched: no robot content is not
	// the same as robot content that costs zero.
	RobotComponents *RobotSummary `json:"robotComponents,omitempty"`

	ComponentCounts ComponentCounts `json:"componentCounts"`
	ProfitByType    ProfitByType    `json:"profitByType"`
}

// Validate checks the component-count invariant.
func (s QuotationStatistics) Validate() error {
	c := s.ComponentCounts
	if c.Hardware+c.Software+c.Labor != c.Total {
		return newValidationError("componentCounts", fmt.Sprintf("%d+%d+%d != %d", c.Hardware, c.Software, c.Labor, c.Total))
	}
	return nil
}

// percentOf returns value as a share of total, rounded to 1 decimal. A zero
// total yields 0.
func percentOf(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	return Round1(value / total * 100)
}

// FormatRatio renders "{hw}:{eng}:{comm}" from three percentages.
func FormatRatio(hw, eng, comm float64) string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	return f(hw) + ":" + f(eng) + ":" + f(comm)
}

func typeProfit(cost, customerPrice float64) TypeProfit {
	tp := TypeProfit{Cost: cost, CustomerPrice: customerPrice, Profit: customerPrice - cost}
	if customerPrice != 0 {
		tp.Margin = (customerPrice - cost) / customerPrice * 100
	}
	return tp
}

// CalcQuotationStatistics derives percentages, ratios, robot content and
// per-type profit from a calculated quotation. robots may be nil, which
// disables robot detection.
func CalcQuotationStatistics(project QuotationProject, robots *RobotMatcher) (QuotationStatistics, error) {
	if project.Calculations == nil {
		return QuotationStatistics{}, ErrNotCalculated
	}
	calc := *project.Calculations

	markup := 1.0
	if project.Parameters != nil && project.Parameters.MarkupPercent > 0 {
		markup = project.Parameters.MarkupPercent
	}

	// software is folded into the hardware bucket by the aggregator
	hardwareOnly := calc.TotalHardwareILS - calc.TotalSoftwareILS
	subtotal := calc.SubtotalILS

	var stats QuotationStatistics
	stats.HardwarePercent = percentOf(hardwareOnly, subtotal)
	stats.SoftwarePercent = percentOf(calc.TotalSoftwareILS, subtotal)
	stats.LaborPercent = percentOf(calc.TotalLaborILS, subtotal)
	stats.EngineeringPercent = percentOf(calc.TotalEngineeringILS, subtotal)
	stats.ProgrammingPercent = percentOf(calc.TotalProgrammingILS, subtotal)
	stats.CommissioningPercent = percentOf(calc.TotalCommissioningILS, subtotal)
	stats.InstallationPercent = percentOf(calc.TotalInstallationILS, subtotal)
	stats.HWEngineeringCommissioningRatio = FormatRatio(stats.HardwarePercent, stats.EngineeringPercent, stats.CommissioningPercent)
	if calc.TotalLaborILS != 0 {
		stats.HardwareToLaborRatio = Round2(hardwareOnly / calc.TotalLaborILS)
	}

	systemQty := make(map[string]float64, len(project.Systems))
	for _, s := range project.Systems {
		systemQty[s.ID] = float64(s.Quantity)
	}

	var robot RobotSummary
	for _, it := range project.Items {
		switch it.ItemType {
		case ItemTypeSoftware:
			stats.ComponentCounts.Software++
		case ItemTypeLabor:
			stats.ComponentCounts.Labor++
		default:
			stats.ComponentCounts.Hardware++
		}

		if robots.Match(it.ComponentName, it.ComponentCategory) {
			robot.Count++
			robot.TotalCost += it.TotalPriceILS * systemQty[it.SystemID]
			robot.Components = append(robot.Components, it.ComponentName)
		}
	}
	stats.ComponentCounts.Total = stats.ComponentCounts.Hardware + stats.ComponentCounts.Software + stats.ComponentCounts.Labor

	if robot.Count > 0 {
		robot.Percent = percentOf(robot.TotalCost, subtotal)
		stats.RobotComponents = &robot
	}

	// labor is sold at cost
	stats.ProfitByType = ProfitByType{
		Hardware: typeProfit(hardwareOnly, hardwareOnly/markup),
		Software: typeProfit(calc.TotalSoftwareILS, calc.TotalSoftwareILS/markup),
		Labor:    typeProfit(calc.TotalLaborILS, calc.TotalLaborILS),
	}

	return stats, nil
}
