package collections_test

import (
	"testing"

	"picsystem/collections"
	"picsystem/services"
	"picsystem/testhelpers"
)

func TestSeed_CreatesDefaultSettings(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	col, _ := app.FindCollectionByNameOrId("export_settings")
	records, err := app.FindAllRecords(col)
	if err != nil {
		t.Fatalf("query export_settings error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 settings record, got %d", len(records))
	}

	var settings services.ExportSettings
	if err := records[0].UnmarshalJSONField("settings", &settings); err != nil {
		t.Fatalf("settings payload invalid: %v", err)
	}
	if settings.Naming.BaseName != "presupuesto" {
		t.Errorf("base name = %q, want presupuesto", settings.Naming.BaseName)
	}
}

func TestSeed_DoesNotOverwrite(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("first Seed() error: %v", err)
	}

	// Simulate a user customization, then seed again.
	col, _ := app.FindCollectionByNameOrId("export_settings")
	records, _ := app.FindAllRecords(col)
	custom := services.DefaultExportSettings()
	custom.Naming.BaseName = "cotizacion"
	records[0].Set("settings", custom)
	if err := app.Save(records[0]); err != nil {
		t.Fatalf("save custom settings: %v", err)
	}

	if err := collections.Seed(app); err != nil {
		t.Fatalf("second Seed() error: %v", err)
	}

	records, _ = app.FindAllRecords(col)
	if len(records) != 1 {
		t.Fatalf("expected 1 settings record, got %d", len(records))
	}
	var settings services.ExportSettings
	if err := records[0].UnmarshalJSONField("settings", &settings); err != nil {
		t.Fatalf("settings payload invalid: %v", err)
	}
	if settings.Naming.BaseName != "cotizacion" {
		t.Errorf("seed overwrote user settings: base name = %q", settings.Naming.BaseName)
	}
}
