package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Field keys a tabular import column can map to.
const (
	FieldName         = "name"
	FieldQuantity     = "quantity"
	FieldPresentation = "presentation"
	FieldCategory     = "category"
	FieldCost         = "cost"
	FieldMargin       = "margin"
)

// headerAliases maps normalized column headers to field keys. Spanish and
// English spellings are both recognized.
var headerAliases = map[string]string{
	"producto":       FieldName,
	"nombre":         FieldName,
	"product":        FieldName,
	"name":           FieldName,
	"cantidad":       FieldQuantity,
	"qty":            FieldQuantity,
	"quantity":       FieldQuantity,
	"presentacion":   FieldPresentation,
	"presentación":   FieldPresentation,
	"presentation":   FieldPresentation,
	"unidad":         FieldPresentation,
	"categoria":      FieldCategory,
	"categoría":      FieldCategory,
	"category":       FieldCategory,
	"costo":          FieldCost,
	"costo unitario": FieldCost,
	"cost":           FieldCost,
	"unit cost":      FieldCost,
	"margen":         FieldMargin,
	"margen %":       FieldMargin,
	"margin":         FieldMargin,
}

// ValidationError is a single field-level error on one import row.
type ValidationError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportResult is returned after parsing an uploaded tabular file.
type ImportResult struct {
	TotalRows int               `json:"total_rows"`
	ValidRows int               `json:"valid_rows"`
	ErrorRows int               `json:"error_rows"`
	Errors    []ValidationError `json:"errors"`
	Items     []LineItem        `json:"-"`
	FileName  string            `json:"-"`
}

// ImportItems parses an uploaded .csv or .xlsx file into line items. The
// optional mapping overrides the alias table, binding a literal column header
// to a field key. Missing fields fall back to the import defaults; rows with
// unparsable numbers are reported and skipped.
func ImportItems(file io.Reader, fileName string, mapping map[string]string) (*ImportResult, error) {
	var headers []string
	var dataRows [][]string
	var err error

	lowerName := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lowerName, ".csv"):
		headers, dataRows, err = parseCSV(file)
	case strings.HasSuffix(lowerName, ".xlsx"):
		headers, dataRows, err = parseWorkbookRows(file)
	default:
		return nil, fmt.Errorf("unsupported file format: must be .csv or .xlsx")
	}
	if err != nil {
		return nil, err
	}

	columnKeys := mapHeadersToFields(headers, mapping)
	return buildImportItems(columnKeys, dataRows, fileName), nil
}

// parseCSV reads a CSV file and returns headers plus data rows.
func parseCSV(file io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(allRows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}
	return allRows[0], allRows[1:], nil
}

// parseWorkbookRows reads the first sheet of an xlsx file.
func parseWorkbookRows(file io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}
	return rows[0], rows[1:], nil
}

// mapHeadersToFields resolves each column header to a field key, consulting
// the explicit mapping first and the alias table second. Unrecognized columns
// map to the empty string and are ignored.
func mapHeadersToFields(headers []string, mapping map[string]string) []string {
	normalizedMapping := make(map[string]string, len(mapping))
	for header, key := range mapping {
		normalizedMapping[strings.ToLower(strings.TrimSpace(header))] = key
	}

	keys := make([]string, len(headers))
	for i, h := range headers {
		norm := strings.ToLower(strings.TrimSpace(h))
		if key, ok := normalizedMapping[norm]; ok {
			keys[i] = key
		} else if key, ok := headerAliases[norm]; ok {
			keys[i] = key
		}
	}
	return keys
}

func buildImportItems(columnKeys []string, dataRows [][]string, fileName string) *ImportResult {
	result := &ImportResult{
		TotalRows: len(dataRows),
		FileName:  fileName,
	}

	for rowIdx, row := range dataRows {
		rowNum := rowIdx + 2 // 1-indexed plus the header row

		values := make(map[string]string)
		for colIdx, key := range columnKeys {
			if key == "" || colIdx >= len(row) {
				continue
			}
			values[key] = strings.TrimSpace(row[colIdx])
		}

		item, rowErrors := itemFromRow(rowNum, values)
		if len(rowErrors) > 0 {
			result.Errors = append(result.Errors, rowErrors...)
			continue
		}
		item.Index = len(result.Items) + 1
		result.Items = append(result.Items, item)
	}

	errorRowSet := make(map[int]bool)
	for _, e := range result.Errors {
		errorRowSet[e.Row] = true
	}
	result.ErrorRows = len(errorRowSet)
	result.ValidRows = result.TotalRows - result.ErrorRows
	return result
}

// itemFromRow builds one line item, coercing absent fields to the defaults
// and rejecting present-but-unparsable numerics.
func itemFromRow(rowNum int, values map[string]string) (LineItem, []ValidationError) {
	var errs []ValidationError

	item := LineItem{
		Name:         values[FieldName],
		Presentation: values[FieldPresentation],
		Category:     values[FieldCategory],
		Quantity:     DefaultQuantity,
	}
	if item.Name == "" {
		errs = append(errs, ValidationError{Row: rowNum, Field: "Producto", Message: "Producto is required"})
	}

	if v := values[FieldQuantity]; v != "" {
		qty, err := strconv.Atoi(v)
		if err != nil || qty < 1 {
			errs = append(errs, ValidationError{Row: rowNum, Field: "Cantidad", Message: "Cantidad must be a whole number of at least 1"})
		} else {
			item.Quantity = qty
		}
	}
	if v := values[FieldCost]; v != "" {
		cost, err := parseAmount(v)
		if err != nil || cost < 0 {
			errs = append(errs, ValidationError{Row: rowNum, Field: "Costo", Message: "Costo must be a non-negative number"})
		} else {
			item.Cost = cost
		}
	}
	if v := values[FieldMargin]; v != "" {
		margin, err := parseAmount(v)
		if err != nil || margin < 0 {
			errs = append(errs, ValidationError{Row: rowNum, Field: "Margen", Message: "Margen must be a non-negative number"})
		} else {
			item.Margin = margin
		}
	}

	item.Normalize()
	item.Recompute()
	return item, errs
}

// parseAmount accepts both "1234.56" and Latin-style "1.234,56" (optionally
// prefixed with "$" or "%"-suffixed) numeric notation.
func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, " ", "")
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	return strconv.ParseFloat(s, 64)
}

// GenerateErrorReport creates a downloadable .xlsx file listing validation
// errors from an import attempt.
func GenerateErrorReport(errors []ValidationError) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Errores"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DC2626"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    borders(1),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	f.SetCellValue(sheet, "A1", "Fila")
	f.SetCellValue(sheet, "B1", "Campo")
	f.SetCellValue(sheet, "C1", "Error")
	f.SetCellStyle(sheet, "A1", "C1", headerStyle)
	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 22)
	f.SetColWidth(sheet, "C", "C", 55)

	for i, e := range errors {
		row := strconv.Itoa(i + 2)
		f.SetCellValue(sheet, "A"+row, e.Row)
		f.SetCellValue(sheet, "B"+row, e.Field)
		f.SetCellValue(sheet, "C"+row, e.Message)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write error report: %w", err)
	}
	return buf.Bytes(), nil
}
