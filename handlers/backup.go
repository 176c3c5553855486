package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"picsystem/services"
)

// maxBackupSize caps uploaded backup files at 10 MB.
const maxBackupSize = 10 << 20

// HandleBackupDownload serializes the complete app state into a single JSON
// file and streams it as a download.
func HandleBackupDownload(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		items, err := loadItems(app)
		if err != nil {
			log.Printf("backup_download: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		settings := loadSettings(app)

		backup, err := services.BuildBackup(items, settings, time.Now())
		if err != nil {
			log.Printf("backup_download: failed to build: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Failed to build the backup")
		}
		data, err := json.MarshalIndent(backup, "", "  ")
		if err != nil {
			log.Printf("backup_download: failed to marshal: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Failed to build the backup")
		}

		filename := fmt.Sprintf("pic_backup_%s.json", time.Now().Format("2006-01-02"))
		e.Response.Header().Set("Content-Type", "application/json")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(data)
		return nil
	}
}

// HandleBackupRestore replaces the current items and settings with the
// contents of an uploaded backup file. Persisted totals in the file are
// ignored; every restored item is recomputed.
func HandleBackupRestore(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		file, _, err := e.Request.FormFile("file")
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "No backup file provided")
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, maxBackupSize+1))
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Could not read the backup file")
		}
		if len(data) > maxBackupSize {
			return ErrorToast(e, http.StatusBadRequest, "Backup file is too large")
		}

		backup, err := services.ParseBackup(data)
		if err != nil {
			log.Printf("backup_restore: invalid file: %v", err)
			return ErrorToast(e, http.StatusBadRequest, "Invalid backup file")
		}

		items, err := services.RestoreItems(backup)
		if err != nil {
			log.Printf("backup_restore: %v", err)
			return ErrorToast(e, http.StatusBadRequest, "Invalid backup file")
		}

		if err := replaceAllItems(app, items); err != nil {
			log.Printf("backup_restore: failed to replace items: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		if err := saveSettings(app, services.RestoreSettings(backup)); err != nil {
			log.Printf("backup_restore: failed to save settings: %v", err)
		}

		SetToast(e, "success", fmt.Sprintf("Restored %d items from backup", len(items)))
		return e.JSON(http.StatusOK, map[string]any{"restored": len(items)})
	}
}

// replaceAllItems wipes budget_items and original_items, then persists the
// given items with fresh snapshots.
func replaceAllItems(app *pocketbase.PocketBase, items []services.LineItem) error {
	for _, name := range []string{"budget_items", "original_items"} {
		records, err := app.FindAllRecords(name)
		if err != nil {
			return err
		}
		for _, rec := range records {
			if err := app.Delete(rec); err != nil {
				return err
			}
		}
	}

	itemsCol, err := app.FindCollectionByNameOrId("budget_items")
	if err != nil {
		return err
	}
	for i := range items {
		rec := core.NewRecord(itemsCol)
		applyItemToRecord(rec, items[i])
		if err := app.Save(rec); err != nil {
			return err
		}
		items[i].ID = rec.Id
		if err := upsertSnapshot(app, items[i]); err != nil {
			return err
		}
	}
	return nil
}
