package handlers

import (
	"log"
	"mime/multipart"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotetool/services"
	"quotetool/templates"
)

const maxUploadSize = 10 << 20

func uploadedFile(e *core.RequestEvent) (multipart.File, *multipart.FileHeader, error) {
	if err := e.Request.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, nil, fieldError("file", "file too large or invalid form data")
	}
	file, header, err := e.Request.FormFile("file")
	if err != nil {
		return nil, nil, fieldError("file", "please select a file to upload")
	}
	return file, header, nil
}

// HandleComponentImport imports a CSV or XLSX price list into the catalog,
// normalizing every row with the team exchange rates.
func HandleComponentImport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		file, header, err := uploadedFile(e)
		if err != nil {
			return respondError(e, "component_import", err)
		}
		defer file.Close()

		rates := GetEngine(e.Request).DefaultRates()
		result, err := services.ImportComponents(app, file, header.Filename, rates)
		if err != nil {
			log.Printf("component_import: %v", err)
			if statusFor(err) == http.StatusInternalServerError {
				err = fieldError("file", err.Error())
			}
			return respondError(e, "component_import", err)
		}

		if isHTMX(e) {
			toastType := "success"
			if result.ErrorRows > 0 {
				toastType = "warning"
			}
			SetToast(e, toastType, "Price list imported")
		}
		return respond(e, result, templates.ImportResultPanel(importView(header.Filename, result)))
	}
}

// HandleComponentImportErrors re-validates an uploaded price list and
// downloads its row errors as a workbook. Nothing is saved.
func HandleComponentImportErrors(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		file, header, err := uploadedFile(e)
		if err != nil {
			return respondError(e, "import_errors", err)
		}
		defer file.Close()

		_, rowErrors, _, err := services.ParsePriceList(file, header.Filename)
		if err != nil {
			return respondError(e, "import_errors", fieldError("file", err.Error()))
		}

		report, err := services.GenerateErrorReport(rowErrors)
		if err != nil {
			log.Printf("import_errors: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate error report")
		}
		return sendAttachment(e, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "price_list_errors.xlsx", report)
	}
}

// HandlePriceListTemplate downloads the empty price list workbook.
func HandlePriceListTemplate() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		tmpl, err := services.GeneratePriceListTemplate()
		if err != nil {
			log.Printf("price_list_template: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate template")
		}
		return sendAttachment(e, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "price_list_template.xlsx", tmpl)
	}
}
