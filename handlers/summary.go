package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"picsystem/services"
	"picsystem/templates"
)

// HandleSummary returns the lightweight budget summary as JSON.
func HandleSummary(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		items, err := loadItems(app)
		if err != nil {
			log.Printf("summary: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		return e.JSON(http.StatusOK, services.Summarize(items))
	}
}

// HandleStatistics returns the full statistics block, including the
// per-category partition and the distribution figures.
func HandleStatistics(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		items, err := loadItems(app)
		if err != nil {
			log.Printf("statistics: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		return e.JSON(http.StatusOK, services.Statistics(items))
	}
}

// HandleDashboard renders the dashboard page with the current items and
// statistics.
func HandleDashboard(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		items, err := loadItems(app)
		if err != nil {
			log.Printf("dashboard: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		stats := services.Statistics(items)
		return templates.Dashboard(items, stats).Render(e.Request.Context(), e.Response)
	}
}
