package collections

import (
	"fmt"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"picsystem/services"
)

// Seed stores the default export settings the first time the app starts.
// User-saved settings are never overwritten.
func Seed(app *pocketbase.PocketBase) error {
	col, err := app.FindCollectionByNameOrId("export_settings")
	if err != nil {
		return fmt.Errorf("export_settings collection not found: %w", err)
	}

	records, err := app.FindAllRecords(col)
	if err != nil {
		return fmt.Errorf("query export_settings: %w", err)
	}
	if len(records) > 0 {
		return nil
	}

	record := core.NewRecord(col)
	record.Set("settings", services.DefaultExportSettings())
	if err := app.Save(record); err != nil {
		return fmt.Errorf("save default export settings: %w", err)
	}
	return nil
}
