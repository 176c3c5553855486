package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"picsystem/services"
)

// adjustResponse reports the outcome of a bulk adjustment.
type adjustResponse struct {
	Changed bool                   `json:"changed"`
	Summary services.BudgetSummary `json:"summary"`
}

// HandleAdjust applies one bulk adjustment to the whole collection. Missing
// parameters are a no-op reported as "nothing changed"; only a proportional
// adjustment over a zero budget is an error.
func HandleAdjust(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var adj services.Adjustment
		if err := e.BindBody(&adj); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid adjustment data")
		}

		items, err := loadItems(app)
		if err != nil {
			log.Printf("adjust: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		adjusted, changed, err := services.ApplyAdjustment(items, adj)
		if err != nil {
			log.Printf("adjust: %v", err)
			return ErrorToast(e, http.StatusBadRequest, err.Error())
		}

		if !changed {
			SetToast(e, "info", "Nothing changed")
			return e.JSON(http.StatusOK, adjustResponse{
				Changed: false,
				Summary: services.Summarize(items),
			})
		}

		// Only margin and total move; cost, quantity and the original
		// snapshots are untouched by adjustments.
		for _, item := range adjusted {
			rec, err := app.FindRecordById("budget_items", item.ID)
			if err != nil {
				log.Printf("adjust: item %s vanished: %v", item.ID, err)
				continue
			}
			rec.Set("margin", item.Margin)
			rec.Set("total", item.Total)
			if err := app.Save(rec); err != nil {
				log.Printf("adjust: save %s: %v", item.ID, err)
				return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
			}
		}

		SetToast(e, "success", "Budget adjusted")
		return e.JSON(http.StatusOK, adjustResponse{
			Changed: true,
			Summary: services.Summarize(adjusted),
		})
	}
}

// HandleRestoreOriginals copies every original snapshot back over its live
// item, recomputing totals on the way.
func HandleRestoreOriginals(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		snapshots, err := loadSnapshots(app)
		if err != nil {
			log.Printf("restore_originals: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		items, err := loadItems(app)
		if err != nil {
			log.Printf("restore_originals: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		restored := 0
		for _, item := range items {
			snapshot, ok := snapshots[item.ID]
			if !ok {
				continue
			}
			rec, err := app.FindRecordById("budget_items", item.ID)
			if err != nil {
				continue
			}
			snapshot.Index = item.Index
			snapshot.Normalize()
			snapshot.Recompute()
			applyItemToRecord(rec, snapshot)
			if err := app.Save(rec); err != nil {
				log.Printf("restore_originals: save %s: %v", item.ID, err)
				return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
			}
			restored++
		}

		SetToast(e, "success", "Original values restored")
		return e.JSON(http.StatusOK, map[string]int{"restored": restored})
	}
}
