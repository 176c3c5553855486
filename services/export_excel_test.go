package services

import (
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func TestGenerateWorkbook_Basic(t *testing.T) {
	items := layoutItems(3)
	items[0].Name = "Cemento gris 50kg"
	s := DefaultExportSettings()
	s.Headers.EntityName = "Alcaldía Municipal"
	l := BuildLayout(items, s)

	out, err := GenerateWorkbook(l)
	if err != nil {
		t.Fatalf("GenerateWorkbook() error = %v", err)
	}
	if len(out) == 0 {
		t.Fatal("GenerateWorkbook() returned empty bytes")
	}

	f, err := excelize.OpenReader(bytesReader(out))
	if err != nil {
		t.Fatalf("result is not a valid workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 || sheets[0] != "Presupuesto" {
		t.Errorf("expected sheet 'Presupuesto', got %v", sheets)
	}

	marker, _ := f.GetCellValue(sheets[0], cellRef(1, l.HeaderRow))
	if marker != TableHeaderMarker {
		t.Errorf("header marker = %q, want %q", marker, TableHeaderMarker)
	}

	name, _ := f.GetCellValue(sheets[0], cellRef(2, l.FirstDataRow))
	if name != "Cemento gris 50kg" {
		t.Errorf("first data row name = %q", name)
	}

	label, _ := f.GetCellValue(sheets[0], cellRef(2, l.TotalsRow))
	if label != TotalsLabel {
		t.Errorf("totals label = %q, want %q", label, TotalsLabel)
	}
}

func TestGenerateWorkbook_EmptyItems(t *testing.T) {
	l := BuildLayout(nil, DefaultExportSettings())
	out, err := GenerateWorkbook(l)
	if err != nil {
		t.Fatalf("GenerateWorkbook() error = %v", err)
	}
	if len(out) == 0 {
		t.Fatal("GenerateWorkbook() returned empty bytes")
	}
}

func TestGenerateWorkbook_SubtotalFormula(t *testing.T) {
	l := BuildLayout(layoutItems(2), DefaultExportSettings())
	out, err := GenerateWorkbook(l)
	if err != nil {
		t.Fatalf("GenerateWorkbook() error = %v", err)
	}

	f, err := excelize.OpenReader(bytesReader(out))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	sheet := f.GetSheetList()[0]
	formula, err := f.GetCellFormula(sheet, cellRef(8, l.FirstDataRow))
	if err != nil {
		t.Fatalf("get formula: %v", err)
	}
	if !strings.Contains(formula, "G") || !strings.Contains(formula, "*C") {
		t.Errorf("subtotal formula = %q", formula)
	}

	totalsFormula, err := f.GetCellFormula(sheet, cellRef(8, l.TotalsRow))
	if err != nil {
		t.Fatalf("get totals formula: %v", err)
	}
	if !strings.HasPrefix(totalsFormula, "SUM(") {
		t.Errorf("totals formula = %q, want SUM range", totalsFormula)
	}
}

func TestGenerateWorkbook_MergedHeaderBlocks(t *testing.T) {
	s := DefaultExportSettings()
	s.Headers = HeaderBlocks{ShowEntity: true, EntityName: "Gobernación"}
	l := BuildLayout(layoutItems(1), s)

	out, err := GenerateWorkbook(l)
	if err != nil {
		t.Fatalf("GenerateWorkbook() error = %v", err)
	}
	f, err := excelize.OpenReader(bytesReader(out))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	sheet := f.GetSheetList()[0]
	merges, err := f.GetMergeCells(sheet)
	if err != nil {
		t.Fatalf("get merges: %v", err)
	}
	if len(merges) != 1 {
		t.Fatalf("merges = %d, want 1", len(merges))
	}
	if merges[0].GetStartAxis() != "A1" || merges[0].GetEndAxis() != "H1" {
		t.Errorf("merge range = %s:%s, want A1:H1", merges[0].GetStartAxis(), merges[0].GetEndAxis())
	}
}

func TestGenerateWorkbook_FormulaInjectionGuard(t *testing.T) {
	items := layoutItems(1)
	items[0].Name = "=CMD()"
	l := BuildLayout(items, DefaultExportSettings())

	out, err := GenerateWorkbook(l)
	if err != nil {
		t.Fatalf("GenerateWorkbook() error = %v", err)
	}
	f, err := excelize.OpenReader(bytesReader(out))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	sheet := f.GetSheetList()[0]
	v, _ := f.GetCellValue(sheet, cellRef(2, l.FirstDataRow))
	if !strings.HasPrefix(v, "'") {
		t.Errorf("dangerous cell value not escaped: %q", v)
	}
}

func TestGenerateWorkbook_PageSetup(t *testing.T) {
	s := DefaultExportSettings()
	s.Page.Orientation = "landscape"
	s.Page.Scale = 85
	s.Page.MarginTop = 1.5
	s.Page.MarginLeft = 0.5
	l := BuildLayout(layoutItems(2), s)

	out, err := GenerateWorkbook(l)
	if err != nil {
		t.Fatalf("GenerateWorkbook() error = %v", err)
	}

	f, err := excelize.OpenReader(bytesReader(out))
	if err != nil {
		t.Fatalf("result is not a valid workbook: %v", err)
	}
	defer f.Close()

	layout, err := f.GetPageLayout("Presupuesto")
	if err != nil {
		t.Fatalf("GetPageLayout: %v", err)
	}
	if layout.Orientation == nil || *layout.Orientation != "landscape" {
		t.Errorf("orientation = %v, want landscape", layout.Orientation)
	}
	if layout.AdjustTo == nil || *layout.AdjustTo != 85 {
		t.Errorf("print scale = %v, want 85", layout.AdjustTo)
	}

	margins, err := f.GetPageMargins("Presupuesto")
	if err != nil {
		t.Fatalf("GetPageMargins: %v", err)
	}
	if margins.Top == nil || *margins.Top != 1.5 {
		t.Errorf("top margin = %v, want 1.5", margins.Top)
	}
	if margins.Left == nil || *margins.Left != 0.5 {
		t.Errorf("left margin = %v, want 0.5", margins.Left)
	}
}

func TestGenerateWorkbook_ScaleOutOfRangeIgnored(t *testing.T) {
	// Print scale below 10 is outside the format's range; the workbook is
	// still generated and the bad value is simply not applied.
	s := DefaultExportSettings()
	s.Page.Scale = 5
	l := BuildLayout(layoutItems(1), s)

	out, err := GenerateWorkbook(l)
	if err != nil {
		t.Fatalf("GenerateWorkbook() error = %v", err)
	}

	f, err := excelize.OpenReader(bytesReader(out))
	if err != nil {
		t.Fatalf("result is not a valid workbook: %v", err)
	}
	defer f.Close()

	layout, err := f.GetPageLayout("Presupuesto")
	if err != nil {
		t.Fatalf("GetPageLayout: %v", err)
	}
	if layout.AdjustTo != nil && *layout.AdjustTo == 5 {
		t.Error("out-of-range scale should not be applied")
	}
}

func TestWorkbookFilename(t *testing.T) {
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		naming FileNaming
		want   string
	}{
		{"with date", FileNaming{BaseName: "presupuesto", AppendDate: true}, "presupuesto_2026-08-30.xlsx"},
		{"without date", FileNaming{BaseName: "obra-vial", AppendDate: false}, "obra-vial.xlsx"},
		{"empty base falls back", FileNaming{AppendDate: false}, "presupuesto.xlsx"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WorkbookFilename(tt.naming, now); got != tt.want {
				t.Errorf("WorkbookFilename() = %q, want %q", got, tt.want)
			}
		})
	}
}
