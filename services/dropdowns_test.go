package services

import (
	"testing"
)

func TestCurrencyOptions_Parse(t *testing.T) {
	if len(CurrencyOptions) != 3 {
		t.Fatalf("expected 3 currency options, got %d", len(CurrencyOptions))
	}
	for _, opt := range CurrencyOptions {
		c, ok := ParseCurrency(opt)
		if !ok || string(c) != opt {
			t.Errorf("option %q does not round-trip through ParseCurrency", opt)
		}
	}
}

func TestItemTypeOptions(t *testing.T) {
	expected := []string{"hardware", "software", "labor"}
	if len(ItemTypeOptions) != len(expected) {
		t.Fatalf("expected %d item types, got %d", len(expected), len(ItemTypeOptions))
	}
	for i, v := range expected {
		if ItemTypeOptions[i] != v {
			t.Errorf("ItemTypeOptions[%d] = %q, want %q", i, ItemTypeOptions[i], v)
		}
	}
}

func TestLaborSubtypeOptions_NoEmpty(t *testing.T) {
	for _, opt := range LaborSubtypeOptions {
		if opt == "" {
			t.Error("LaborSubtypeOptions contains empty string")
		}
	}
	if len(LaborSubtypeOptions) != 4 {
		t.Errorf("expected 4 labor subtypes, got %d", len(LaborSubtypeOptions))
	}
}

func TestQuotationStatusOptions_Editable(t *testing.T) {
	editable := 0
	for _, opt := range QuotationStatusOptions {
		if QuotationStatus(opt).ParametersEditable() {
			editable++
		}
	}
	if editable != 2 {
		t.Errorf("expected draft and sent to be editable, got %d editable statuses", editable)
	}
}
