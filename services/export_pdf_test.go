package services

import (
	"bytes"
	"testing"
)

func TestGenerateBudgetPDF(t *testing.T) {
	items := testItems()
	report := PDFReport{
		Title:         "Presupuesto de obra",
		GeneratedDate: "30 Ago 2026",
		Items:         items,
		Summary:       Summarize(items),
	}

	out, err := GenerateBudgetPDF(report)
	if err != nil {
		t.Fatalf("GenerateBudgetPDF error: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("GenerateBudgetPDF returned empty bytes")
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Errorf("output does not start with PDF magic: %q", out[:8])
	}
}

func TestGenerateBudgetPDF_Empty(t *testing.T) {
	report := PDFReport{
		Title:         "Presupuesto vacío",
		GeneratedDate: "30 Ago 2026",
		Summary:       Summarize(nil),
	}
	out, err := GenerateBudgetPDF(report)
	if err != nil {
		t.Fatalf("GenerateBudgetPDF error: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("GenerateBudgetPDF returned empty bytes")
	}
}
