package services

import (
	"errors"
	"testing"

	"quotetool/config"
)

func calculatedProject(t *testing.T, items []QuotationItem, systems []QuotationSystem) QuotationProject {
	t.Helper()
	p := testParams()
	project, err := RecalculateQuotation(QuotationProject{Parameters: &p, Systems: systems, Items: items})
	if err != nil {
		t.Fatalf("RecalculateQuotation() error = %v", err)
	}
	return project
}

func TestCalcQuotationStatistics_NotCalculated(t *testing.T) {
	_, err := CalcQuotationStatistics(QuotationProject{}, nil)
	if !errors.Is(err, ErrNotCalculated) {
		t.Errorf("expected ErrNotCalculated, got %v", err)
	}
}

func TestCalcQuotationStatistics_Breakdown(t *testing.T) {
	systems := []QuotationSystem{{ID: "s1", Order: 1, Quantity: 1}}
	items := []QuotationItem{
		{ID: "hw", SystemID: "s1", ComponentName: "Conveyor", ItemType: ItemTypeHardware, Quantity: 1, OriginalCurrency: CurrencyNIS, OriginalCost: 6000},
		{ID: "sw", SystemID: "s1", ComponentName: "HMI licence", ItemType: ItemTypeSoftware, Quantity: 1, OriginalCurrency: CurrencyNIS, OriginalCost: 500},
		{ID: "eng", SystemID: "s1", ComponentName: "Design", ItemType: ItemTypeLabor, LaborSubtype: LaborEngineering, Quantity: 1, OriginalCurrency: CurrencyNIS, OriginalCost: 2000},
		{ID: "comm", SystemID: "s1", ComponentName: "Start-up", ItemType: ItemTypeLabor, LaborSubtype: LaborCommissioning, Quantity: 1, OriginalCurrency: CurrencyNIS, OriginalCost: 1000},
		{ID: "inst", SystemID: "s1", ComponentName: "Site work", ItemType: ItemTypeLabor, LaborSubtype: LaborInstallation, Quantity: 1, OriginalCurrency: CurrencyNIS, OriginalCost: 500},
	}
	project := calculatedProject(t, items, systems)

	stats, err := CalcQuotationStatistics(project, NewRobotMatcher(config.DefaultRobotKeywords))
	if err != nil {
		t.Fatalf("CalcQuotationStatistics() error = %v", err)
	}

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"HardwarePercent", stats.HardwarePercent, 60},
		{"SoftwarePercent", stats.SoftwarePercent, 5},
		{"LaborPercent", stats.LaborPercent, 35},
		{"EngineeringPercent", stats.EngineeringPercent, 20},
		{"CommissioningPercent", stats.CommissioningPercent, 10},
		{"InstallationPercent", stats.InstallationPercent, 5},
		{"ProgrammingPercent", stats.ProgrammingPercent, 0},
		{"HardwareToLaborRatio", stats.HardwareToLaborRatio, 1.71},
	}
	for _, c := range checks {
		if !almostEqual(c.got, c.want) {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
	if stats.HWEngineeringCommissioningRatio != "60:20:10" {
		t.Errorf("ratio = %q, want 60:20:10", stats.HWEngineeringCommissioningRatio)
	}
	if stats.RobotComponents != nil {
		t.Errorf("expected no robot summary, got %+v", stats.RobotComponents)
	}

	wantCounts := ComponentCounts{Hardware: 1, Software: 1, Labor: 3, Total: 5}
	if stats.ComponentCounts != wantCounts {
		t.Errorf("ComponentCounts = %+v, want %+v", stats.ComponentCounts, wantCounts)
	}
	if err := stats.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestCalcQuotationStatistics_ProfitByType(t *testing.T) {
	systems := []QuotationSystem{{ID: "s1", Order: 1, Quantity: 1}}
	items := []QuotationItem{
		{ID: "hw", SystemID: "s1", ComponentName: "Sensor", ItemType: ItemTypeHardware, Quantity: 1, OriginalCurrency: CurrencyNIS, OriginalCost: 750},
		{ID: "lab", SystemID: "s1", ComponentName: "Programming", ItemType: ItemTypeLabor, LaborSubtype: LaborProgramming, Quantity: 1, OriginalCurrency: CurrencyNIS, OriginalCost: 100},
	}
	stats, err := CalcQuotationStatistics(calculatedProject(t, items, systems), nil)
	if err != nil {
		t.Fatal(err)
	}

	hw := stats.ProfitByType.Hardware
	if !almostEqual(hw.CustomerPrice, 1000) || !almostEqual(hw.Profit, 250) || !almostEqual(hw.Margin, 25) {
		t.Errorf("hardware profit = %+v", hw)
	}
	labor := stats.ProfitByType.Labor
	if labor.Cost != 100 || labor.CustomerPrice != 100 || labor.Profit != 0 || labor.Margin != 0 {
		t.Errorf("labor must be sold at cost, got %+v", labor)
	}
	sw := stats.ProfitByType.Software
	if sw.Cost != 0 || sw.Margin != 0 {
		t.Errorf("empty software bucket should be zero, got %+v", sw)
	}
}

func TestCalcQuotationStatistics_RobotDetection(t *testing.T) {
	systems := []QuotationSystem{{ID: "s1", Order: 1, Quantity: 2}}
	items := []QuotationItem{
		{ID: "r1", SystemID: "s1", ComponentName: "FANUC M-20iD/25", ComponentCategory: "Arms", ItemType: ItemTypeHardware, Quantity: 1, OriginalCurrency: CurrencyNIS, OriginalCost: 2500},
		{ID: "r2", SystemID: "s1", ComponentName: "Base plate", ComponentCategory: "רובוטים", ItemType: ItemTypeHardware, Quantity: 1, OriginalCurrency: CurrencyNIS, OriginalCost: 500},
		{ID: "x", SystemID: "s1", ComponentName: "Fence", ComponentCategory: "Safety", ItemType: ItemTypeHardware, Quantity: 1, OriginalCurrency: CurrencyNIS, OriginalCost: 2000},
	}
	stats, err := CalcQuotationStatistics(calculatedProject(t, items, systems), NewRobotMatcher(config.DefaultRobotKeywords))
	if err != nil {
		t.Fatal(err)
	}
	r := stats.RobotComponents
	if r == nil {
		t.Fatal("expected robot summary")
	}
	if r.Count != 2 || !almostEqual(r.TotalCost, 6000) || !almostEqual(r.Percent, 60) {
		t.Errorf("robot summary = %+v", r)
	}
}

func TestCalcQuotationStatistics_EmptyQuotation(t *testing.T) {
	stats, err := CalcQuotationStatistics(calculatedProject(t, nil, nil), nil)
	if err != nil {
		t.Fatal(err)
	}
	if stats.HardwarePercent != 0 || stats.LaborPercent != 0 || stats.HardwareToLaborRatio != 0 {
		t.Errorf("expected zero percentages, got %+v", stats)
	}
	if stats.HWEngineeringCommissioningRatio != "0:0:0" {
		t.Errorf("ratio = %q", stats.HWEngineeringCommissioningRatio)
	}
	if stats.RobotComponents != nil {
		t.Error("robot summary must be absent")
	}
	if stats.ComponentCounts.Total != 0 {
		t.Errorf("counts = %+v", stats.ComponentCounts)
	}
}

func TestFormatRatio(t *testing.T) {
	tests := []struct {
		hw, eng, comm float64
		expect        string
	}{
		{65.0, 20.0, 10.0, "65:20:10"},
		{65.5, 20.1, 0, "65.5:20.1:0"},
		{100, 0, 0, "100:0:0"},
	}
	for _, tt := range tests {
		if got := FormatRatio(tt.hw, tt.eng, tt.comm); got != tt.expect {
			t.Errorf("FormatRatio(%v, %v, %v) = %q, want %q", tt.hw, tt.eng, tt.comm, got, tt.expect)
		}
	}
}

func TestRobotMatcher(t *testing.T) {
	m := NewRobotMatcher([]string{" KUKA ", "", "רובוט"})
	tests := []struct {
		name     string
		compName string
		category string
		expect   bool
	}{
		{"brand case-insensitive", "Kuka KR 10", "", true},
		{"hebrew category", "בסיס", "רובוטים", true},
		{"no match", "Light curtain", "Safety", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Match(tt.compName, tt.category); got != tt.expect {
				t.Errorf("Match(%q, %q) = %v, want %v", tt.compName, tt.category, got, tt.expect)
			}
		})
	}

	var nilMatcher *RobotMatcher
	if nilMatcher.Match("robot", "") {
		t.Error("nil matcher must never match")
	}
}

func TestRobotMatcher_DefaultKeywordsWordStart(t *testing.T) {
	m := NewRobotMatcher(config.DefaultRobotKeywords)
	tests := []struct {
		name     string
		compName string
		category string
		expect   bool
	}{
		{"model code", "UR30 arm", "", true},
		{"model code after punctuation", "Cell (UR20)", "", true},
		{"model code inside another word", "Fluor30 tubing", "Consumables", false},
		{"sensor from robot brand", "Denso proximity sensor", "Sensors", false},
		{"qualified brand", "Denso robot VS-087", "", true},
		{"motorcycle brand", "Kawasaki engine bracket", "", false},
		{"gripper vendor", "Vacuum Gripper VG10 (OnRobot)", "End effectors", false},
		{"plural", "Robots stand", "", true},
		{"hebrew with prefix", "הרובוט הראשי", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Match(tt.compName, tt.category); got != tt.expect {
				t.Errorf("Match(%q, %q) = %v, want %v", tt.compName, tt.category, got, tt.expect)
			}
		})
	}
}

func TestStatisticsValidate_DetectsBrokenCounts(t *testing.T) {
	s := QuotationStatistics{ComponentCounts: ComponentCounts{Hardware: 1, Software: 1, Labor: 1, Total: 4}}
	var valErr *ValidationError
	if err := s.Validate(); !errors.As(err, &valErr) {
		t.Errorf("expected *ValidationError, got %v", err)
	}
}
