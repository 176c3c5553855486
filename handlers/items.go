package handlers

import (
	"log"
	"net/http"
	"sort"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"picsystem/services"
)

// itemPayload is the request body for create/update. Total is deliberately
// absent: it is always recomputed server-side.
type itemPayload struct {
	Name         string                    `json:"name"`
	Presentation string                    `json:"presentation"`
	Category     string                    `json:"category"`
	Quantity     int                       `json:"quantity"`
	Cost         float64                   `json:"cost"`
	Margin       float64                   `json:"margin"`
	Taxes        []services.TaxRate        `json:"taxes"`
	Extras       []services.AdditionalCost `json:"extras"`
}

func (p itemPayload) toItem() services.LineItem {
	item := services.LineItem{
		Name:         p.Name,
		Presentation: p.Presentation,
		Category:     p.Category,
		Quantity:     p.Quantity,
		Cost:         p.Cost,
		Margin:       p.Margin,
		Taxes:        p.Taxes,
		Extras:       p.Extras,
	}
	item.Normalize()
	item.Recompute()
	return item
}

// HandleCatalog returns the presentation and category options for the item
// form and the import template.
func HandleCatalog(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return e.JSON(http.StatusOK, map[string][]string{
			"presentations": services.PresentationOptions,
			"categories":    services.CategoryOptions,
		})
	}
}

// HandleItemList returns the live line item collection as JSON.
func HandleItemList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		items, err := loadItems(app)
		if err != nil {
			log.Printf("item_list: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		return e.JSON(http.StatusOK, items)
	}
}

// HandleItemCreate adds a line item and appends its original snapshot.
func HandleItemCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var payload itemPayload
		if err := e.BindBody(&payload); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid item data")
		}
		if payload.Name == "" {
			return ErrorToast(e, http.StatusBadRequest, "Product name is required")
		}

		col, err := app.FindCollectionByNameOrId("budget_items")
		if err != nil {
			log.Printf("item_create: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		existing, err := loadItems(app)
		if err != nil {
			log.Printf("item_create: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		item := payload.toItem()
		item.Index = len(existing) + 1

		rec := core.NewRecord(col)
		applyItemToRecord(rec, item)
		if err := app.Save(rec); err != nil {
			log.Printf("item_create: save: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		item.ID = rec.Id

		if err := upsertSnapshot(app, item); err != nil {
			log.Printf("item_create: %v", err)
		}

		SetToast(e, "success", "Item added")
		return e.JSON(http.StatusOK, item)
	}
}

// HandleItemUpdate edits a line item in place, recomputes its total and
// refreshes its original snapshot.
func HandleItemUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		itemID := e.Request.PathValue("id")
		if itemID == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing item ID")
		}

		rec, err := app.FindRecordById("budget_items", itemID)
		if err != nil {
			log.Printf("item_update: not found %s: %v", itemID, err)
			return ErrorToast(e, http.StatusNotFound, "Item not found")
		}

		var payload itemPayload
		if err := e.BindBody(&payload); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid item data")
		}
		if payload.Name == "" {
			return ErrorToast(e, http.StatusBadRequest, "Product name is required")
		}

		item := payload.toItem()
		item.ID = rec.Id
		item.Index = int(rec.GetFloat("sort_order"))

		applyItemToRecord(rec, item)
		if err := app.Save(rec); err != nil {
			log.Printf("item_update: save %s: %v", itemID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		if err := upsertSnapshot(app, item); err != nil {
			log.Printf("item_update: %v", err)
		}

		SetToast(e, "success", "Item updated")
		return e.JSON(http.StatusOK, item)
	}
}

// HandleItemDelete removes a line item and reindexes the remaining items.
// The original snapshot is kept; snapshots are only ever appended.
func HandleItemDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		itemID := e.Request.PathValue("id")
		if itemID == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing item ID")
		}

		rec, err := app.FindRecordById("budget_items", itemID)
		if err != nil {
			log.Printf("item_delete: not found %s: %v", itemID, err)
			return ErrorToast(e, http.StatusNotFound, "Item not found")
		}
		if err := app.Delete(rec); err != nil {
			log.Printf("item_delete: delete %s: %v", itemID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		if err := reindexItems(app); err != nil {
			log.Printf("item_delete: %v", err)
		}

		SetToast(e, "success", "Item deleted")
		return e.NoContent(http.StatusNoContent)
	}
}

// reindexItems renumbers sort_order sequentially after a deletion.
func reindexItems(app *pocketbase.PocketBase) error {
	col, err := app.FindCollectionByNameOrId("budget_items")
	if err != nil {
		return err
	}
	records, err := app.FindAllRecords(col)
	if err != nil {
		return err
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].GetFloat("sort_order") < records[j].GetFloat("sort_order")
	})
	for i, rec := range records {
		if int(rec.GetFloat("sort_order")) != i+1 {
			rec.Set("sort_order", i+1)
			if err := app.Save(rec); err != nil {
				return err
			}
		}
	}
	return nil
}
