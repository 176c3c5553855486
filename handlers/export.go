package handlers

import (
	"fmt"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"picsystem/services"
)

// exportInFlight guards the export path: exactly one workbook or PDF may be
// generating at a time. A concurrent request is rejected, never queued.
var exportInFlight atomic.Bool

// HandleExportExcel generates the budget workbook and streams it as a
// download.
func HandleExportExcel(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if !exportInFlight.CompareAndSwap(false, true) {
			return ErrorToast(e, http.StatusConflict, "An export is already in progress")
		}
		defer exportInFlight.Store(false)

		items, err := loadItems(app)
		if err != nil {
			log.Printf("export_excel: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		settings := loadSettings(app)

		layout := services.BuildLayout(items, settings)
		xlsxBytes, err := services.GenerateWorkbook(layout)
		if err != nil {
			log.Printf("export_excel: failed to generate: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Failed to generate the workbook")
		}

		filename := services.WorkbookFilename(settings.Naming, time.Now())
		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// HandleExportPDF generates the budget summary PDF and streams it as a
// download.
func HandleExportPDF(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if !exportInFlight.CompareAndSwap(false, true) {
			return ErrorToast(e, http.StatusConflict, "An export is already in progress")
		}
		defer exportInFlight.Store(false)

		items, err := loadItems(app)
		if err != nil {
			log.Printf("export_pdf: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		settings := loadSettings(app)

		now := time.Now()
		report := services.PDFReport{
			Title:         "Presupuesto",
			GeneratedDate: now.Format("02 Jan 2006"),
			Items:         items,
			Summary:       services.Summarize(items),
		}
		if settings.Headers.ShowEntity && settings.Headers.EntityName != "" {
			report.Title = settings.Headers.EntityName
		}

		pdfBytes, err := services.GenerateBudgetPDF(report)
		if err != nil {
			log.Printf("export_pdf: failed to generate: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Failed to generate the PDF")
		}

		filename := fmt.Sprintf("%s_%s.pdf", settings.Naming.BaseName, now.Format("2006-01-02"))
		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(pdfBytes)
		return nil
	}
}

// HandleSettingsGet returns the stored export settings (or the defaults).
func HandleSettingsGet(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return e.JSON(http.StatusOK, loadSettings(app))
	}
}

// HandleSettingsSave validates and persists the export settings.
func HandleSettingsSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		settings := services.DefaultExportSettings()
		if err := e.BindBody(&settings); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid settings data")
		}
		if msg := validateSettings(settings); msg != "" {
			return ErrorToast(e, http.StatusBadRequest, msg)
		}

		if err := saveSettings(app, settings); err != nil {
			log.Printf("settings_save: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		SetToast(e, "success", "Export settings saved")
		return e.JSON(http.StatusOK, settings)
	}
}

// validateSettings enforces field ranges at the boundary. The layout engine
// itself assumes validated input.
func validateSettings(s services.ExportSettings) string {
	switch s.Page.Orientation {
	case "", "portrait", "landscape":
	default:
		return "Orientation must be portrait or landscape"
	}
	if s.Page.Scale != 0 && (s.Page.Scale < 10 || s.Page.Scale > 400) {
		return "Scale must be between 10 and 400"
	}
	switch s.Theme.BorderStyle {
	case "", "none", "thin", "medium":
	default:
		return "Border style must be none, thin or medium"
	}
	if s.Theme.MaxColWidth < 0 {
		return "Maximum column width cannot be negative"
	}
	if s.Page.MarginTop < 0 || s.Page.MarginBottom < 0 || s.Page.MarginLeft < 0 || s.Page.MarginRight < 0 {
		return "Page margins cannot be negative"
	}
	return ""
}
