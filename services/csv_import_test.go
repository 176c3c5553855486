package services

import (
	"math"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestImportItems_CSV(t *testing.T) {
	csvData := `Producto,Cantidad,Presentación,Categoría,Costo,Margen
Cemento gris,10,BULTO,construccion,25000,20
Arena lavada,5,M3,construccion,80000,15
`
	result, err := ImportItems(strings.NewReader(csvData), "items.csv", nil)
	if err != nil {
		t.Fatalf("ImportItems error: %v", err)
	}
	if result.TotalRows != 2 || result.ValidRows != 2 || result.ErrorRows != 0 {
		t.Fatalf("counts = %d/%d/%d, want 2/2/0", result.TotalRows, result.ValidRows, result.ErrorRows)
	}

	first := result.Items[0]
	if first.Name != "Cemento gris" || first.Quantity != 10 || first.Presentation != "BULTO" {
		t.Errorf("first item = %+v", first)
	}
	if first.Cost != 25000 || first.Margin != 20 {
		t.Errorf("first item numerics = cost %v, margin %v", first.Cost, first.Margin)
	}
	if math.Abs(first.Total-30000) > tolerance {
		t.Errorf("first item total = %v, want 30000 (recomputed)", first.Total)
	}
	if first.Index != 1 || result.Items[1].Index != 2 {
		t.Error("items not sequentially indexed")
	}
}

func TestImportItems_DefaultsForMissingColumns(t *testing.T) {
	csvData := "Producto,Costo\nTornillos,1500\n"
	result, err := ImportItems(strings.NewReader(csvData), "minimal.csv", nil)
	if err != nil {
		t.Fatalf("ImportItems error: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(result.Items))
	}

	it := result.Items[0]
	if it.Quantity != DefaultQuantity {
		t.Errorf("quantity = %d, want default %d", it.Quantity, DefaultQuantity)
	}
	if it.Presentation != DefaultPresentation {
		t.Errorf("presentation = %q, want %q", it.Presentation, DefaultPresentation)
	}
	if it.Category != DefaultCategory {
		t.Errorf("category = %q, want %q", it.Category, DefaultCategory)
	}
	if it.Margin != 0 {
		t.Errorf("margin = %v, want 0", it.Margin)
	}
}

func TestImportItems_MappingOverride(t *testing.T) {
	csvData := "Descripción,Valor Base\nPintura blanca,42000\n"
	mapping := map[string]string{
		"Descripción": FieldName,
		"Valor Base":  FieldCost,
	}
	result, err := ImportItems(strings.NewReader(csvData), "custom.csv", mapping)
	if err != nil {
		t.Fatalf("ImportItems error: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(result.Items))
	}
	if result.Items[0].Name != "Pintura blanca" || result.Items[0].Cost != 42000 {
		t.Errorf("mapped item = %+v", result.Items[0])
	}
}

func TestImportItems_InvalidRows(t *testing.T) {
	csvData := `Producto,Cantidad,Costo
,5,1000
Martillo,abc,1000
Taladro,2,-50
Lima,1,2000
`
	result, err := ImportItems(strings.NewReader(csvData), "mixed.csv", nil)
	if err != nil {
		t.Fatalf("ImportItems error: %v", err)
	}
	if result.TotalRows != 4 {
		t.Errorf("total rows = %d, want 4", result.TotalRows)
	}
	if result.ErrorRows != 3 {
		t.Errorf("error rows = %d, want 3", result.ErrorRows)
	}
	if result.ValidRows != 1 {
		t.Errorf("valid rows = %d, want 1", result.ValidRows)
	}
	if len(result.Items) != 1 || result.Items[0].Name != "Lima" {
		t.Errorf("surviving items = %+v", result.Items)
	}
}

func TestImportItems_LatinNumberFormat(t *testing.T) {
	csvData := "Producto,Costo,Margen\nLadrillo,\"$1.250.000,50\",\"12,5\"\n"
	result, err := ImportItems(strings.NewReader(csvData), "latin.csv", nil)
	if err != nil {
		t.Fatalf("ImportItems error: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("items = %d, want 1 (errors: %+v)", len(result.Items), result.Errors)
	}
	if result.Items[0].Cost != 1250000.50 {
		t.Errorf("cost = %v, want 1250000.50", result.Items[0].Cost)
	}
	if result.Items[0].Margin != 12.5 {
		t.Errorf("margin = %v, want 12.5", result.Items[0].Margin)
	}
}

func TestImportItems_UnsupportedFormat(t *testing.T) {
	_, err := ImportItems(strings.NewReader("x"), "items.pdf", nil)
	if err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func TestImportItems_HeaderOnly(t *testing.T) {
	_, err := ImportItems(strings.NewReader("Producto,Costo\n"), "empty.csv", nil)
	if err == nil {
		t.Fatal("expected error for file without data rows")
	}
}

func TestImportItems_Workbook(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	f.SetCellValue(sheet, "A1", "Producto")
	f.SetCellValue(sheet, "B1", "Costo")
	f.SetCellValue(sheet, "A2", "Grava")
	f.SetCellValue(sheet, "B2", 60000)
	var buf strings.Builder
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	f.Close()

	result, err := ImportItems(strings.NewReader(buf.String()), "items.xlsx", nil)
	if err != nil {
		t.Fatalf("ImportItems error: %v", err)
	}
	if len(result.Items) != 1 || result.Items[0].Name != "Grava" {
		t.Errorf("items = %+v", result.Items)
	}
	if result.Items[0].Cost != 60000 {
		t.Errorf("cost = %v, want 60000", result.Items[0].Cost)
	}
}

func TestGenerateErrorReport(t *testing.T) {
	errs := []ValidationError{
		{Row: 2, Field: "Costo", Message: "Costo must be a non-negative number"},
		{Row: 4, Field: "Cantidad", Message: "Cantidad must be a whole number of at least 1"},
	}
	out, err := GenerateErrorReport(errs)
	if err != nil {
		t.Fatalf("GenerateErrorReport error: %v", err)
	}

	f, err := excelize.OpenReader(bytesReader(out))
	if err != nil {
		t.Fatalf("report is not a valid workbook: %v", err)
	}
	defer f.Close()

	sheet := f.GetSheetList()[0]
	if sheet != "Errores" {
		t.Errorf("sheet = %q, want Errores", sheet)
	}
	field, _ := f.GetCellValue(sheet, "B2")
	if field != "Costo" {
		t.Errorf("B2 = %q, want Costo", field)
	}
}
