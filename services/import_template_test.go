package services

import (
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestGenerateImportTemplate(t *testing.T) {
	data, err := GenerateImportTemplate()
	if err != nil {
		t.Fatalf("GenerateImportTemplate error: %v", err)
	}

	f, err := excelize.OpenReader(bytesReader(data))
	if err != nil {
		t.Fatalf("output is not a valid workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Importar")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected only a header row, got %d rows", len(rows))
	}

	// Every header must resolve through the alias table so a round trip
	// template-download -> fill -> import works without a custom mapping.
	for _, header := range rows[0] {
		normalized := strings.ToLower(strings.TrimSuffix(header, " *"))
		if _, ok := headerAliases[normalized]; !ok {
			t.Errorf("template header %q has no import alias", header)
		}
	}

	if rows[0][0] != "PRODUCTO *" {
		t.Errorf("first header = %q, want PRODUCTO *", rows[0][0])
	}
}

func TestGenerateImportTemplate_HasInstructions(t *testing.T) {
	data, err := GenerateImportTemplate()
	if err != nil {
		t.Fatalf("GenerateImportTemplate error: %v", err)
	}

	f, err := excelize.OpenReader(bytesReader(data))
	if err != nil {
		t.Fatalf("output is not a valid workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Instrucciones")
	if err != nil {
		t.Fatalf("GetRows(Instrucciones): %v", err)
	}
	// Title, blank, header, one row per column.
	if len(rows) < 3+len(templateColumns()) {
		t.Errorf("instructions sheet has %d rows, want at least %d", len(rows), 3+len(templateColumns()))
	}
}
