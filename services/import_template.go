package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// templateColumn describes one column of the downloadable import template.
type templateColumn struct {
	Header      string
	Field       string
	Required    bool
	Description string
	Example     string
}

func templateColumns() []templateColumn {
	return []templateColumn{
		{"PRODUCTO", FieldName, true, "Nombre del producto o servicio", "Cemento gris 50kg"},
		{"CANTIDAD", FieldQuantity, false, "Cantidad (por defecto 1)", "10"},
		{"PRESENTACIÓN", FieldPresentation, false, "Unidad de venta (por defecto UNIDAD)", "BULTO"},
		{"CATEGORÍA", FieldCategory, false, "Categoría del presupuesto (por defecto otros)", "materiales"},
		{"COSTO", FieldCost, false, "Costo unitario sin margen", "25000"},
		{"MARGEN", FieldMargin, false, "Margen en porcentaje", "25"},
	}
}

// GenerateImportTemplate creates a downloadable .xlsx template whose headers
// match the import alias table, with dropdowns for presentation and category.
func GenerateImportTemplate() ([]byte, error) {
	columns := templateColumns()

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Importar"
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	requiredHeaderStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1D4ED8"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	optionalHeaderStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#6B7280"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})

	for i, col := range columns {
		letter := colLetters[i]
		cell := fmt.Sprintf("%s1", letter)

		header := col.Header
		if col.Required {
			header += " *"
		}
		f.SetCellValue(sheetName, cell, header)
		if col.Required {
			f.SetCellStyle(sheetName, cell, cell, requiredHeaderStyle)
		} else {
			f.SetCellStyle(sheetName, cell, cell, optionalHeaderStyle)
		}

		width := float64(len(col.Header)) * 1.3
		if width < 15 {
			width = 15
		}
		f.SetColWidth(sheetName, letter, letter, width)
	}

	// Dropdowns keep presentation and category within the catalog.
	for i, col := range columns {
		letter := colLetters[i]
		rangeRef := fmt.Sprintf("%s2:%s1048576", letter, letter)

		switch col.Field {
		case FieldPresentation:
			dv := excelize.NewDataValidation(true)
			dv.Sqref = rangeRef
			dv.SetDropList(PresentationOptions)
			f.AddDataValidation(sheetName, dv)
		case FieldCategory:
			dv := excelize.NewDataValidation(true)
			dv.Sqref = rangeRef
			dv.SetDropList(CategoryOptions)
			f.AddDataValidation(sheetName, dv)
		}
	}

	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	addTemplateInstructions(f, columns)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write import template: %w", err)
	}
	return buf.Bytes(), nil
}

// addTemplateInstructions creates a second sheet describing each column.
func addTemplateInstructions(f *excelize.File, columns []templateColumn) {
	instSheet := "Instrucciones"
	f.NewSheet(instSheet)

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E5E7EB"}, Pattern: 1},
	})

	f.SetCellValue(instSheet, "A1", "Importación de items - Instrucciones")
	f.SetCellStyle(instSheet, "A1", "A1", titleStyle)

	headers := []string{"Columna", "Obligatoria", "Descripción", "Ejemplo"}
	for i, h := range headers {
		cell := fmt.Sprintf("%s3", colLetters[i])
		f.SetCellValue(instSheet, cell, h)
		f.SetCellStyle(instSheet, cell, cell, headerStyle)
	}

	for i, col := range columns {
		row := i + 4
		required := "No"
		if col.Required {
			required = "Sí"
		}
		f.SetCellValue(instSheet, fmt.Sprintf("A%d", row), col.Header)
		f.SetCellValue(instSheet, fmt.Sprintf("B%d", row), required)
		f.SetCellValue(instSheet, fmt.Sprintf("C%d", row), col.Description)
		f.SetCellValue(instSheet, fmt.Sprintf("D%d", row), col.Example)
	}

	f.SetColWidth(instSheet, "A", "A", 18)
	f.SetColWidth(instSheet, "C", "C", 45)
	f.SetColWidth(instSheet, "D", "D", 22)
}
