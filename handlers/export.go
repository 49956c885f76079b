package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotetool/services"
)

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	r := strings.NewReplacer(" ", "-", "/", "-", "\\", "-", ":", "-", `"`, "")
	return r.Replace(s)
}

// exportName is the download name: the quotation number when the
// quotation has one, the title otherwise.
func exportName(data services.ExportData, ext string) string {
	base := data.QuotationNumber
	if base == "" {
		base = data.Title
	}
	return fmt.Sprintf("Quotation_%s.%s", sanitizeFilename(base), ext)
}

func loadExportData(app *pocketbase.PocketBase, id string) (services.ExportData, error) {
	project, err := services.LoadQuotationProject(app, id)
	if err != nil {
		return services.ExportData{}, err
	}
	return services.BuildExportData(project, time.Now())
}

func sendAttachment(e *core.RequestEvent, contentType, filename string, body []byte) error {
	e.Response.Header().Set("Content-Type", contentType)
	e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	e.Response.WriteHeader(http.StatusOK)
	_, err := e.Response.Write(body)
	return err
}

// HandleQuotationExportExcel downloads the internal Excel workbook of a
// calculated quotation.
func HandleQuotationExportExcel(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := loadExportData(app, e.Request.PathValue("id"))
		if err != nil {
			return respondError(e, "export_excel", err)
		}

		xlsxBytes, err := services.GenerateExcel(data)
		if err != nil {
			log.Printf("export_excel: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate Excel file")
		}
		return sendAttachment(e, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", exportName(data, "xlsx"), xlsxBytes)
	}
}

// HandleQuotationExportPDF downloads the customer PDF of a calculated
// quotation.
func HandleQuotationExportPDF(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := loadExportData(app, e.Request.PathValue("id"))
		if err != nil {
			return respondError(e, "export_pdf", err)
		}

		pdfBytes, err := services.GeneratePDF(data)
		if err != nil {
			log.Printf("export_pdf: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate PDF file")
		}
		return sendAttachment(e, "application/pdf", exportName(data, "pdf"), pdfBytes)
	}
}
