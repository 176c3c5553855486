// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"picsystem/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestItem creates a budget_items record and returns it. Quantity
// defaults to 1 and IVA is left empty; callers that need taxes set them on
// the returned record.
func CreateTestItem(t *testing.T, app *pocketbase.PocketBase, sortOrder int, name string, cost, margin, total float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("budget_items")
	if err != nil {
		t.Fatalf("failed to find budget_items collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("sort_order", sortOrder)
	record.Set("name", name)
	record.Set("presentation", "UNIDAD")
	record.Set("category", "otros")
	record.Set("quantity", 1)
	record.Set("cost", cost)
	record.Set("margin", margin)
	record.Set("total", total)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test item: %v", err)
	}

	return record
}

// CreateTestSnapshot creates an original_items record keyed to a live item id.
func CreateTestSnapshot(t *testing.T, app *pocketbase.PocketBase, itemID string, sortOrder int, name string, cost, margin, total float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("original_items")
	if err != nil {
		t.Fatalf("failed to find original_items collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("item", itemID)
	record.Set("sort_order", sortOrder)
	record.Set("name", name)
	record.Set("presentation", "UNIDAD")
	record.Set("category", "otros")
	record.Set("quantity", 1)
	record.Set("cost", cost)
	record.Set("margin", margin)
	record.Set("total", total)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test snapshot: %v", err)
	}

	return record
}

// AssertHTMLContains checks that body contains all specified fragments.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected HTML to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
