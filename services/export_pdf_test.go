package services

import (
	"testing"
	"time"
)

func TestGeneratePDF_Quotation(t *testing.T) {
	data, err := BuildExportData(calculatedExportProject(t), time.Now())
	if err != nil {
		t.Fatal(err)
	}

	result, err := GeneratePDF(data)
	if err != nil {
		t.Fatalf("GeneratePDF() error = %v", err)
	}
	if len(result) < 5 || string(result[:5]) != "%PDF-" {
		t.Errorf("result does not start with PDF header")
	}
}

func TestGeneratePDF_EmptyItems(t *testing.T) {
	result, err := GeneratePDF(ExportData{Title: "Empty", CreatedDate: "2026-01-15"})
	if err != nil {
		t.Fatalf("GeneratePDF() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("GeneratePDF() returned empty bytes")
	}
}

func TestFormatQty(t *testing.T) {
	tests := []struct {
		input  float64
		expect string
	}{
		{1, "1"},
		{2.5, "2.50"},
		{0, "0"},
	}
	for _, tt := range tests {
		if got := formatQty(tt.input); got != tt.expect {
			t.Errorf("formatQty(%v) = %q, want %q", tt.input, got, tt.expect)
		}
	}
}
