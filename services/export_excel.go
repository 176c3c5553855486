package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	currencyNumFmt = `"$"#,##0.00`
	percentNumFmt  = `0.00%`
)

// GenerateWorkbook materializes a Layout into an xlsx document and returns
// the file contents. It walks the placements in emission order; any failure
// aborts with a single wrapped error and no partial output.
func GenerateWorkbook(l Layout) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := l.SheetName
	if sheet == "" {
		sheet = "Presupuesto"
	}
	if len(sheet) > 31 {
		sheet = sheet[:31]
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	// Identical styles are registered once and reused.
	styleIDs := make(map[CellStyle]int)
	styleFor := func(cs CellStyle) (int, error) {
		if id, ok := styleIDs[cs]; ok {
			return id, nil
		}
		id, err := f.NewStyle(buildStyle(cs))
		if err != nil {
			return 0, fmt.Errorf("create style: %w", err)
		}
		styleIDs[cs] = id
		return id, nil
	}

	for _, c := range l.Cells {
		ref := cellRef(c.Col, c.Row)
		if c.Formula != "" {
			if err := f.SetCellFormula(sheet, ref, c.Formula); err != nil {
				return nil, fmt.Errorf("set formula %s: %w", ref, err)
			}
		} else {
			value := c.Value
			if s, ok := value.(string); ok {
				value = sanitizeCell(s)
			}
			if err := f.SetCellValue(sheet, ref, value); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", ref, err)
			}
		}
		id, err := styleFor(c.Style)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheet, ref, ref, id); err != nil {
			return nil, fmt.Errorf("style cell %s: %w", ref, err)
		}
	}

	for _, m := range l.Merges {
		if err := f.MergeCell(sheet, cellRef(m.FirstCol, m.FirstRow), cellRef(m.LastCol, m.LastRow)); err != nil {
			return nil, fmt.Errorf("merge cells: %w", err)
		}
	}

	for row, h := range l.RowHeights {
		if err := f.SetRowHeight(sheet, row, h); err != nil {
			return nil, fmt.Errorf("set row height %d: %w", row, err)
		}
	}
	for i, w := range l.ColWidths {
		col := colLetters[i]
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	if l.Filter != nil {
		rangeRef := fmt.Sprintf("A%d:H%d", l.Filter.FirstRow, l.Filter.LastRow)
		if err := f.AutoFilter(sheet, rangeRef, nil); err != nil {
			return nil, fmt.Errorf("set autofilter %s: %w", rangeRef, err)
		}
	}

	if err := applyPageSetup(f, sheet, l.Page); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// WorkbookFilename builds the download name from the configured base name,
// optionally suffixed with the ISO date.
func WorkbookFilename(naming FileNaming, now time.Time) string {
	base := naming.BaseName
	if base == "" {
		base = "presupuesto"
	}
	if naming.AppendDate {
		base += "_" + now.Format("2006-01-02")
	}
	return base + ".xlsx"
}

func buildStyle(cs CellStyle) *excelize.Style {
	style := &excelize.Style{
		Font: &excelize.Font{
			Bold:  cs.Bold,
			Size:  cs.Size,
			Color: cs.FontColor,
		},
	}
	if cs.Fill != "" {
		style.Fill = excelize.Fill{Type: "pattern", Color: []string{cs.Fill}, Pattern: 1}
	}
	if cs.Align != "" || cs.Wrap {
		style.Alignment = &excelize.Alignment{
			Horizontal: cs.Align,
			Vertical:   "center",
			WrapText:   cs.Wrap,
		}
	}
	switch cs.Border {
	case BorderThin:
		style.Border = borders(1)
	case BorderMedium:
		style.Border = borders(2)
	}
	switch cs.Format {
	case FmtCurrency:
		fmtStr := currencyNumFmt
		style.CustomNumFmt = &fmtStr
	case FmtPercent:
		fmtStr := percentNumFmt
		style.CustomNumFmt = &fmtStr
	}
	return style
}

func applyPageSetup(f *excelize.File, sheet string, p PageSetup) error {
	opts := excelize.PageLayoutOptions{}
	if p.Orientation != "" {
		opts.Orientation = &p.Orientation
	}
	// AdjustTo accepts 10-400 only.
	if p.Scale >= 10 && p.Scale <= 400 {
		scale := uint(p.Scale)
		opts.AdjustTo = &scale
	}
	if err := f.SetPageLayout(sheet, &opts); err != nil {
		return fmt.Errorf("set page layout: %w", err)
	}

	margins := excelize.PageLayoutMarginsOptions{
		Top:    &p.MarginTop,
		Bottom: &p.MarginBottom,
		Left:   &p.MarginLeft,
		Right:  &p.MarginRight,
	}
	if err := f.SetPageMargins(sheet, &margins); err != nil {
		return fmt.Errorf("set page margins: %w", err)
	}
	return nil
}

// sanitizeCell prevents formula injection by prefixing dangerous leading
// characters with a single quote.
func sanitizeCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// borders returns all four cell borders at the given excelize weight.
func borders(weight int) []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	out := make([]excelize.Border, len(sides))
	for i, side := range sides {
		out[i] = excelize.Border{Type: side, Color: "#000000", Style: weight}
	}
	return out
}
