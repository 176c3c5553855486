// Package handlers wires the budgeting services to HTTP routes on a
// pocketbase application.
package handlers

import (
	"fmt"
	"sort"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"picsystem/services"
)

// itemFromRecord converts a stored budget_items (or original_items) record
// into a line item.
func itemFromRecord(rec *core.Record) services.LineItem {
	item := services.LineItem{
		ID:           rec.Id,
		Index:        int(rec.GetFloat("sort_order")),
		Name:         rec.GetString("name"),
		Presentation: rec.GetString("presentation"),
		Category:     rec.GetString("category"),
		Quantity:     int(rec.GetFloat("quantity")),
		Cost:         rec.GetFloat("cost"),
		Margin:       rec.GetFloat("margin"),
		Total:        rec.GetFloat("total"),
	}
	// Malformed stored JSON degrades to no taxes/extras rather than failing
	// the whole read.
	_ = rec.UnmarshalJSONField("taxes", &item.Taxes)
	_ = rec.UnmarshalJSONField("extras", &item.Extras)
	return item
}

// applyItemToRecord writes a line item's fields onto a record.
func applyItemToRecord(rec *core.Record, item services.LineItem) {
	rec.Set("sort_order", item.Index)
	rec.Set("name", item.Name)
	rec.Set("presentation", item.Presentation)
	rec.Set("category", item.Category)
	rec.Set("quantity", item.Quantity)
	rec.Set("cost", item.Cost)
	rec.Set("margin", item.Margin)
	rec.Set("total", item.Total)
	rec.Set("taxes", item.Taxes)
	rec.Set("extras", item.Extras)
}

// loadItems returns the live line item collection ordered by display index.
func loadItems(app *pocketbase.PocketBase) ([]services.LineItem, error) {
	col, err := app.FindCollectionByNameOrId("budget_items")
	if err != nil {
		return nil, fmt.Errorf("budget_items collection not found: %w", err)
	}
	records, err := app.FindAllRecords(col)
	if err != nil {
		return nil, fmt.Errorf("query budget_items: %w", err)
	}

	items := make([]services.LineItem, 0, len(records))
	for _, rec := range records {
		items = append(items, itemFromRecord(rec))
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Index < items[j].Index })
	return items, nil
}

// upsertSnapshot appends or refreshes the original-snapshot twin of an item.
// Snapshots are written only on create/update, never by adjustments.
func upsertSnapshot(app *pocketbase.PocketBase, item services.LineItem) error {
	col, err := app.FindCollectionByNameOrId("original_items")
	if err != nil {
		return fmt.Errorf("original_items collection not found: %w", err)
	}

	rec, err := app.FindFirstRecordByData(col, "item", item.ID)
	if err != nil {
		rec = core.NewRecord(col)
		rec.Set("item", item.ID)
	}
	applyItemToRecord(rec, item)
	if err := app.Save(rec); err != nil {
		return fmt.Errorf("save snapshot for %s: %w", item.ID, err)
	}
	return nil
}

// loadSnapshots returns the original snapshots keyed by live item id.
func loadSnapshots(app *pocketbase.PocketBase) (map[string]services.LineItem, error) {
	col, err := app.FindCollectionByNameOrId("original_items")
	if err != nil {
		return nil, fmt.Errorf("original_items collection not found: %w", err)
	}
	records, err := app.FindAllRecords(col)
	if err != nil {
		return nil, fmt.Errorf("query original_items: %w", err)
	}

	snapshots := make(map[string]services.LineItem, len(records))
	for _, rec := range records {
		item := itemFromRecord(rec)
		item.ID = rec.GetString("item")
		snapshots[item.ID] = item
	}
	return snapshots, nil
}

// loadSettings returns the stored export settings, falling back to defaults
// when nothing has been saved yet.
func loadSettings(app *pocketbase.PocketBase) services.ExportSettings {
	settings := services.DefaultExportSettings()

	col, err := app.FindCollectionByNameOrId("export_settings")
	if err != nil {
		return settings
	}
	records, err := app.FindAllRecords(col)
	if err != nil || len(records) == 0 {
		return settings
	}
	if err := records[0].UnmarshalJSONField("settings", &settings); err != nil {
		return services.DefaultExportSettings()
	}
	return settings
}

// saveSettings persists the export settings, creating the record on first use.
func saveSettings(app *pocketbase.PocketBase, settings services.ExportSettings) error {
	col, err := app.FindCollectionByNameOrId("export_settings")
	if err != nil {
		return fmt.Errorf("export_settings collection not found: %w", err)
	}

	records, err := app.FindAllRecords(col)
	if err != nil {
		return fmt.Errorf("query export_settings: %w", err)
	}

	var rec *core.Record
	if len(records) > 0 {
		rec = records[0]
	} else {
		rec = core.NewRecord(col)
	}
	rec.Set("settings", settings)
	if err := app.Save(rec); err != nil {
		return fmt.Errorf("save export settings: %w", err)
	}
	return nil
}
