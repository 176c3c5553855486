package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Setup programmatically creates/ensures the budget_items, original_items and
// export_settings collections exist.
func Setup(app *pocketbase.PocketBase) {
	ensureCollection(app, "budget_items", addItemFields)

	// original_items holds the untouched snapshot twin of every line item so
	// bulk adjustments can be reverted. Keyed by the item id, not a relation:
	// deleting a live item must not delete its snapshot.
	ensureCollection(app, "original_items", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "item", Required: true})
		addItemFields(c)
	})

	ensureCollection(app, "export_settings", func(c *core.Collection) {
		c.Fields.Add(&core.JSONField{Name: "settings", Required: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})
}

func addItemFields(c *core.Collection) {
	c.Fields.Add(&core.NumberField{Name: "sort_order", Required: true})
	c.Fields.Add(&core.TextField{Name: "name", Required: true})
	c.Fields.Add(&core.TextField{Name: "presentation", Required: false})
	c.Fields.Add(&core.TextField{Name: "category", Required: false})
	c.Fields.Add(&core.NumberField{Name: "quantity", Required: true})
	c.Fields.Add(&core.NumberField{Name: "cost", Required: false})
	c.Fields.Add(&core.NumberField{Name: "margin", Required: false})
	c.Fields.Add(&core.NumberField{Name: "total", Required: false})
	c.Fields.Add(&core.JSONField{Name: "taxes", Required: false})
	c.Fields.Add(&core.JSONField{Name: "extras", Required: false})
	c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
	c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
