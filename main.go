package main

import (
	"log"
	"os"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"picsystem/collections"
	"picsystem/handlers"
)

func main() {
	app := pocketbase.New()

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// Serve static files from ./static
		se.Router.GET("/static/{path...}", apis.Static(os.DirFS("./static"), false))

		// ── Dashboard ────────────────────────────────────────────
		se.Router.GET("/", handlers.HandleDashboard(app))

		// ── Item CRUD ────────────────────────────────────────────
		se.Router.GET("/items", handlers.HandleItemList(app))
		se.Router.POST("/items", handlers.HandleItemCreate(app))
		se.Router.PATCH("/items/{id}", handlers.HandleItemUpdate(app))
		se.Router.DELETE("/items/{id}", handlers.HandleItemDelete(app))

		// ── Bulk adjustments ─────────────────────────────────────
		se.Router.POST("/adjust", handlers.HandleAdjust(app))
		se.Router.POST("/adjust/restore", handlers.HandleRestoreOriginals(app))

		// ── Summary and statistics ───────────────────────────────
		se.Router.GET("/summary", handlers.HandleSummary(app))
		se.Router.GET("/statistics", handlers.HandleStatistics(app))

		// ── Export ───────────────────────────────────────────────
		se.Router.GET("/export/excel", handlers.HandleExportExcel(app))
		se.Router.GET("/export/pdf", handlers.HandleExportPDF(app))
		se.Router.GET("/export/settings", handlers.HandleSettingsGet(app))
		se.Router.POST("/export/settings", handlers.HandleSettingsSave(app))

		// ── Backup and restore ───────────────────────────────────
		se.Router.GET("/backup", handlers.HandleBackupDownload(app))
		se.Router.POST("/backup/restore", handlers.HandleBackupRestore(app))

		// ── Tabular import ───────────────────────────────────────
		se.Router.POST("/import", handlers.HandleImport(app))
		se.Router.GET("/import/template", handlers.HandleImportTemplate(app))
		se.Router.POST("/import/errors", handlers.HandleImportErrorReport(app))

		// Catalog options for the item form
		se.Router.GET("/catalog", handlers.HandleCatalog(app))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
