package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"quotetool/services"
	"quotetool/testhelpers"
)

func uploadRequest(t *testing.T, target, fileName, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatal(err)
	}
	part.Write([]byte(content))
	w.Close()

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

const priceListCSV = "Name,Category,Price,Currency\nUR10e,Robots,28500,EUR\nCable,Electrical,abc,NIS\nPLC,Controls,$1200,\n"

func TestHandleComponentImport_JSON(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	rec := serve(t, app, HandleComponentImport(app), uploadRequest(t, "/components/import", "prices.csv", priceListCSV))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var result services.ImportResult
	decodeJSON(t, rec, &result)
	if result.TotalRows != 3 || result.ImportedRows != 2 || result.ErrorRows != 1 {
		t.Errorf("result = %+v", result)
	}
	if len(result.Errors) != 1 || result.Errors[0].Row != 3 || result.Errors[0].Field != "Price" {
		t.Errorf("errors = %+v", result.Errors)
	}

	records, err := app.FindRecordsByFilter("components", "name = 'UR10e'", "", 0, 0)
	if err != nil || len(records) != 1 {
		t.Fatalf("imported component not found: %v", err)
	}
	if got := records[0].GetFloat("unit_cost_nis"); got != 114000 {
		t.Errorf("unit_cost_nis = %v, want 114000", got)
	}
}

func TestHandleComponentImport_HTMX(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	req := uploadRequest(t, "/components/import", "prices.csv", priceListCSV)
	req.Header.Set("HX-Request", "true")
	rec := serve(t, app, HandleComponentImport(app), req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "prices.csv: 2 of 3 rows imported", "1 rows were skipped")
	if !strings.Contains(rec.Header().Get("HX-Trigger"), "warning") {
		t.Error("expected a warning toast when rows were skipped")
	}
}

func TestHandleComponentImport_BadFile(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	tests := []struct {
		name     string
		fileName string
		content  string
	}{
		{"unsupported extension", "prices.pdf", "x"},
		{"header only", "prices.csv", "Name,Price,Currency\n"},
		{"missing price column", "prices.csv", "Name,Currency\nPLC,NIS\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, app, HandleComponentImport(app), uploadRequest(t, "/components/import", tt.fileName, tt.content))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestHandleComponentImport_NoFile(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	req := httptest.NewRequest(http.MethodPost, "/components/import", nil)
	rec := serve(t, app, HandleComponentImport(app), req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleComponentImportErrors(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	rec := serve(t, app, HandleComponentImportErrors(app), uploadRequest(t, "/components/import/errors", "prices.csv", priceListCSV))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("response is not valid Excel: %v", err)
	}
	defer f.Close()
	b2, _ := f.GetCellValue("Errors", "B2")
	if b2 != "Price" {
		t.Errorf("B2 = %q, want Price", b2)
	}

	records, _ := app.FindAllRecords("components")
	if len(records) != 0 {
		t.Errorf("error report must not import, found %d components", len(records))
	}
}

func TestHandlePriceListTemplate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	req := httptest.NewRequest(http.MethodGet, "/components/import/template", nil)
	rec := serve(t, app, HandlePriceListTemplate(), req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "price_list_template.xlsx") {
		t.Errorf("unexpected disposition %q", cd)
	}
}
