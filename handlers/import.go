package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"picsystem/services"
)

// maxImportSize caps uploaded import files at 10 MB.
const maxImportSize = 10 << 20

// HandleImport parses an uploaded .csv or .xlsx file, appends the valid rows
// to the budget and returns the per-row validation report. An optional
// "mapping" form field carries a JSON object binding column headers to item
// fields.
func HandleImport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		e.Request.Body = http.MaxBytesReader(e.Response, e.Request.Body, maxImportSize)

		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "No import file provided")
		}
		defer file.Close()

		var mapping map[string]string
		if raw := e.Request.FormValue("mapping"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &mapping); err != nil {
				return ErrorToast(e, http.StatusBadRequest, "Invalid column mapping")
			}
		}

		result, err := services.ImportItems(file, header.Filename, mapping)
		if err != nil {
			log.Printf("import: %v", err)
			return ErrorToast(e, http.StatusBadRequest, err.Error())
		}

		existing, err := loadItems(app)
		if err != nil {
			log.Printf("import: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		itemsCol, err := app.FindCollectionByNameOrId("budget_items")
		if err != nil {
			log.Printf("import: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		nextIndex := len(existing) + 1
		for _, item := range result.Items {
			item.Index = nextIndex
			nextIndex++
			rec := core.NewRecord(itemsCol)
			applyItemToRecord(rec, item)
			if err := app.Save(rec); err != nil {
				log.Printf("import: failed to save item %q: %v", item.Name, err)
				return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
			}
			item.ID = rec.Id
			if err := upsertSnapshot(app, item); err != nil {
				log.Printf("import: failed to snapshot item %q: %v", item.Name, err)
				return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
			}
		}

		if result.ErrorRows > 0 {
			SetToast(e, "warning", fmt.Sprintf("Imported %d rows, %d had errors", result.ValidRows, result.ErrorRows))
		} else {
			SetToast(e, "success", fmt.Sprintf("Imported %d rows", result.ValidRows))
		}
		return e.JSON(http.StatusOK, result)
	}
}

// HandleImportTemplate streams a blank import template workbook.
func HandleImportTemplate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		template, err := services.GenerateImportTemplate()
		if err != nil {
			log.Printf("import_template: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Failed to generate the template")
		}
		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", `attachment; filename="plantilla_importacion.xlsx"`)
		e.Response.Write(template)
		return nil
	}
}

// HandleImportErrorReport generates a workbook listing the validation errors
// posted in the request body, for the user to fix offline.
func HandleImportErrorReport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var payload struct {
			Errors []services.ValidationError `json:"errors"`
		}
		if err := e.BindBody(&payload); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid error list")
		}
		if len(payload.Errors) == 0 {
			return ErrorToast(e, http.StatusBadRequest, "No errors to report")
		}

		report, err := services.GenerateErrorReport(payload.Errors)
		if err != nil {
			log.Printf("import_error_report: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Failed to generate the report")
		}

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", `attachment; filename="errores_importacion.xlsx"`)
		e.Response.Write(report)
		return nil
	}
}
