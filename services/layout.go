package services

import (
	"fmt"
	"math"
	"strconv"
)

// The exported table always spans exactly these 8 columns, A through H.
const TableColumns = 8

// TableHeaderMarker is the literal written to the first cell of the table
// header row. The autofilter range is anchored by locating this marker.
const TableHeaderMarker = "ITEM"

// TotalsLabel is written in the product-name column of the totals row.
const TotalsLabel = "TOTALES"

var tableHeaders = [TableColumns]string{
	TableHeaderMarker, "PRODUCTO", "CANTIDAD", "PRESENTACIÓN",
	"COSTO UNITARIO", "MARGEN %", "VALOR UNITARIO", "VALOR TOTAL",
}

var baseColWidths = [TableColumns]float64{8, 40, 12, 16, 16, 12, 16, 18}

// FileNaming controls the downloaded workbook's file name.
type FileNaming struct {
	BaseName   string `json:"base_name"`
	AppendDate bool   `json:"append_date"`
}

// HeaderBlocks toggles the optional merged rows above the item table. A block
// is emitted only when its flag is set and its text is non-empty.
type HeaderBlocks struct {
	ShowContract    bool   `json:"show_contract"`
	ContractText    string `json:"contract_text"`
	ShowEntity      bool   `json:"show_entity"`
	EntityName      string `json:"entity_name"`
	ShowCategory    bool   `json:"show_category"`
	CategoryText    string `json:"category_text"`
	ShowDate        bool   `json:"show_date"`
	DateText        string `json:"date_text"`
	ShowResponsible bool   `json:"show_responsible"`
	ResponsibleName string `json:"responsible_name"`
}

// TableFeatures toggles table-level behavior.
type TableFeatures struct {
	Formulas       bool `json:"formulas"`
	TotalsRow      bool `json:"totals_row"`
	CurrencyFormat bool `json:"currency_format"`
	AutoFilter     bool `json:"auto_filter"`
	AutoColWidth   bool `json:"auto_col_width"`
	AutoRowHeight  bool `json:"auto_row_height"`
}

// StyleTheme carries the configurable colors and the border treatment.
type StyleTheme struct {
	HeaderFill      string  `json:"header_fill"`
	HeaderFontColor string  `json:"header_font_color"`
	StripeFill      string  `json:"stripe_fill"`
	HeaderBlockFill string  `json:"header_block_fill"`
	BorderStyle     string  `json:"border_style"` // "thin", "medium" or "none"
	MaxColWidth     float64 `json:"max_col_width"`
}

// PageSetup carries sheet-level print settings.
type PageSetup struct {
	Orientation  string  `json:"orientation"` // "portrait" or "landscape"
	Scale        int     `json:"scale"`
	MarginTop    float64 `json:"margin_top"`
	MarginBottom float64 `json:"margin_bottom"`
	MarginLeft   float64 `json:"margin_left"`
	MarginRight  float64 `json:"margin_right"`
}

// ExportSettings composes the four independent configuration groups consumed
// by BuildLayout.
type ExportSettings struct {
	Naming   FileNaming    `json:"naming"`
	Headers  HeaderBlocks  `json:"headers"`
	Features TableFeatures `json:"features"`
	Theme    StyleTheme    `json:"theme"`
	Page     PageSetup     `json:"page"`
}

// DefaultExportSettings returns the settings used until the user saves their
// own.
func DefaultExportSettings() ExportSettings {
	return ExportSettings{
		Naming: FileNaming{BaseName: "presupuesto", AppendDate: true},
		Headers: HeaderBlocks{
			ShowEntity: true,
			ShowDate:   true,
		},
		Features: TableFeatures{
			Formulas:       true,
			TotalsRow:      true,
			CurrencyFormat: true,
			AutoFilter:     true,
			AutoColWidth:   true,
			AutoRowHeight:  true,
		},
		Theme: StyleTheme{
			HeaderFill:      "#1F4E79",
			HeaderFontColor: "#FFFFFF",
			StripeFill:      "#F2F2F2",
			HeaderBlockFill: "#D9E2F3",
			BorderStyle:     "thin",
			MaxColWidth:     60,
		},
		Page: PageSetup{
			Orientation:  "portrait",
			Scale:        100,
			MarginTop:    0.75,
			MarginBottom: 0.75,
			MarginLeft:   0.7,
			MarginRight:  0.7,
		},
	}
}

// Number display formats a cell may request from the serializer.
type NumFmt int

const (
	FmtGeneral NumFmt = iota
	FmtCurrency
	FmtPercent
)

// BorderWeight selects the border applied around a cell.
type BorderWeight int

const (
	BorderNone BorderWeight = iota
	BorderThin
	BorderMedium
)

// CellStyle is the style a placement requests. The serializer deduplicates
// identical styles before registering them with the workbook.
type CellStyle struct {
	Bold      bool
	Size      float64
	FontColor string
	Fill      string
	Align     string // "left", "center" or "right"; empty means default
	Wrap      bool
	Border    BorderWeight
	Format    NumFmt
}

// CellPlacement is one cell-write instruction. When Formula is non-empty the
// serializer writes the formula instead of the value.
type CellPlacement struct {
	Row     int
	Col     int
	Value   any
	Formula string
	Style   CellStyle
}

// MergeRange merges a rectangular cell region.
type MergeRange struct {
	FirstRow, FirstCol, LastRow, LastCol int
}

// FilterRange is the autofilter anchor, always spanning columns 1 through 8.
type FilterRange struct {
	FirstRow, LastRow int
}

// Layout is the ordered cell-placement output of BuildLayout. Row counters
// let downstream code locate ranges by counting instead of parsing values.
type Layout struct {
	SheetName  string
	Cells      []CellPlacement
	Merges     []MergeRange
	RowHeights map[int]float64
	ColWidths  [TableColumns]float64
	Filter     *FilterRange
	Page       PageSetup

	HeaderRow    int
	FirstDataRow int
	LastDataRow  int
	TotalsRow    int // zero when the totals row is disabled
}

// BuildLayout converts the item collection and export settings into the full
// sequence of cell placements for one worksheet. The output is deterministic:
// the same inputs always yield the same placements in the same order.
func BuildLayout(items []LineItem, s ExportSettings) Layout {
	l := Layout{
		SheetName:  "Presupuesto",
		RowHeights: make(map[int]float64),
		Page:       s.Page,
	}

	borderWeight := BorderNone
	if s.Theme.BorderStyle == "thin" {
		borderWeight = BorderThin
	} else if s.Theme.BorderStyle == "medium" {
		borderWeight = BorderMedium
	}

	row := 1
	row = l.addHeaderBlocks(row, s.Headers, s.Theme)

	// Table header row.
	l.HeaderRow = row
	headerStyle := CellStyle{
		Bold:      true,
		Size:      11,
		FontColor: s.Theme.HeaderFontColor,
		Fill:      s.Theme.HeaderFill,
		Align:     "center",
		Border:    borderWeight,
	}
	for col, h := range tableHeaders {
		l.Cells = append(l.Cells, CellPlacement{Row: row, Col: col + 1, Value: h, Style: headerStyle})
	}
	l.RowHeights[row] = 24
	row++

	// Data rows, one per item, in collection order.
	l.FirstDataRow = row
	for i, it := range items {
		fill := ""
		if i%2 == 1 {
			fill = s.Theme.StripeFill
		}
		l.addItemRow(row, it, fill, borderWeight, s.Features)
		if s.Features.AutoRowHeight {
			l.RowHeights[row] = itemRowHeight(it.Name, it.Presentation)
		} else {
			l.RowHeights[row] = 20
		}
		row++
	}
	l.LastDataRow = row - 1

	if s.Features.TotalsRow {
		l.TotalsRow = row
		l.addTotalsRow(row, items, s.Features)
		row++
	}

	// Column widths: fixed bases, optionally widened for long product names,
	// always clamped to the configured maximum.
	l.ColWidths = baseColWidths
	if s.Features.AutoColWidth {
		longest := 0
		for _, it := range items {
			if len(it.Name) > longest {
				longest = len(it.Name)
			}
		}
		if w := float64(longest + 2); w > l.ColWidths[1] {
			l.ColWidths[1] = w
		}
	}
	if max := s.Theme.MaxColWidth; max > 0 {
		for i := range l.ColWidths {
			if l.ColWidths[i] > max {
				l.ColWidths[i] = max
			}
		}
	}

	if s.Features.AutoFilter {
		last := l.LastDataRow
		if l.TotalsRow != 0 {
			last = l.TotalsRow
		}
		if anchor, ok := FindHeaderMarkerRow(l.Cells); ok && last >= anchor {
			l.Filter = &FilterRange{FirstRow: anchor, LastRow: last}
		}
	}

	return l
}

// FindHeaderMarkerRow scans placements for the table-header marker in the
// first column and reports its row.
func FindHeaderMarkerRow(cells []CellPlacement) (int, bool) {
	for _, c := range cells {
		if c.Col == 1 && c.Value == TableHeaderMarker {
			return c.Row, true
		}
	}
	return 0, false
}

// addHeaderBlocks emits the optional merged header rows in their fixed order:
// contract text, entity name, category text (each followed by a spacer when
// shown), then date and responsible. Returns the next free row.
func (l *Layout) addHeaderBlocks(row int, h HeaderBlocks, theme StyleTheme) int {
	emitted := false

	if h.ShowContract && h.ContractText != "" {
		l.addMergedRow(row, h.ContractText, CellStyle{
			Bold: true, Size: 12, Align: "center", Fill: theme.HeaderBlockFill, Wrap: true,
		})
		l.RowHeights[row] = contractRowHeight(h.ContractText)
		row += 2 // block plus spacer
		emitted = true
	}
	if h.ShowEntity && h.EntityName != "" {
		l.addMergedRow(row, h.EntityName, CellStyle{Bold: true, Size: 14, Align: "center"})
		row += 2
		emitted = true
	}
	if h.ShowCategory && h.CategoryText != "" {
		l.addMergedRow(row, h.CategoryText, CellStyle{Bold: true, Size: 11, Align: "center"})
		row += 2
		emitted = true
	}
	if h.ShowDate && h.DateText != "" {
		l.addMergedRow(row, h.DateText, CellStyle{Size: 10})
		row++
		emitted = true
	}
	if h.ShowResponsible && h.ResponsibleName != "" {
		l.addMergedRow(row, h.ResponsibleName, CellStyle{Size: 10})
		row++
		emitted = true
	}

	// One blank row between the header area and the table.
	if emitted {
		row++
	}
	return row
}

func (l *Layout) addMergedRow(row int, text string, style CellStyle) {
	l.Cells = append(l.Cells, CellPlacement{Row: row, Col: 1, Value: text, Style: style})
	l.Merges = append(l.Merges, MergeRange{FirstRow: row, FirstCol: 1, LastRow: row, LastCol: TableColumns})
}

func (l *Layout) addItemRow(row int, it LineItem, fill string, border BorderWeight, feats TableFeatures) {
	text := CellStyle{Size: 10, Fill: fill, Border: border}
	center := text
	center.Align = "center"
	money := text
	if feats.CurrencyFormat {
		money.Format = FmtCurrency
	}

	// Margin is stored as a decimal fraction under currency formatting so the
	// percent display format renders it correctly.
	marginStyle := center
	marginValue := any(it.Margin)
	if feats.CurrencyFormat {
		marginStyle.Format = FmtPercent
		marginValue = it.Margin / 100
	}

	subtotal := CellPlacement{Row: row, Col: 8, Value: it.Subtotal(), Style: money}
	if feats.Formulas {
		subtotal.Formula = cellRef(7, row) + "*" + cellRef(3, row)
	}

	l.Cells = append(l.Cells,
		CellPlacement{Row: row, Col: 1, Value: it.Index, Style: center},
		CellPlacement{Row: row, Col: 2, Value: it.Name, Style: text},
		CellPlacement{Row: row, Col: 3, Value: it.Quantity, Style: center},
		CellPlacement{Row: row, Col: 4, Value: it.Presentation, Style: center},
		CellPlacement{Row: row, Col: 5, Value: it.Cost, Style: money},
		CellPlacement{Row: row, Col: 6, Value: marginValue, Style: marginStyle},
		CellPlacement{Row: row, Col: 7, Value: it.Total, Style: money},
		subtotal,
	)
}

// addTotalsRow emits the TOTALES row immediately after the last data row. It
// always carries a medium border regardless of the configured border style.
func (l *Layout) addTotalsRow(row int, items []LineItem, feats TableFeatures) {
	var costSum, subtotalSum float64
	for _, it := range items {
		costSum += it.Cost
		subtotalSum += it.Subtotal()
	}

	blank := CellStyle{Size: 10, Border: BorderMedium}
	label := blank
	label.Bold = true
	money := blank
	money.Bold = true
	if feats.CurrencyFormat {
		money.Format = FmtCurrency
	}

	costCell := CellPlacement{Row: row, Col: 5, Value: costSum, Style: money}
	subtotalCell := CellPlacement{Row: row, Col: 8, Value: subtotalSum, Style: money}
	if feats.Formulas && len(items) > 0 {
		costCell.Formula = sumFormula(5, l.FirstDataRow, l.LastDataRow)
		subtotalCell.Formula = sumFormula(8, l.FirstDataRow, l.LastDataRow)
	}

	l.Cells = append(l.Cells,
		CellPlacement{Row: row, Col: 1, Value: "", Style: blank},
		CellPlacement{Row: row, Col: 2, Value: TotalsLabel, Style: label},
		CellPlacement{Row: row, Col: 3, Value: "", Style: blank},
		CellPlacement{Row: row, Col: 4, Value: "", Style: blank},
		costCell,
		CellPlacement{Row: row, Col: 6, Value: "", Style: blank},
		CellPlacement{Row: row, Col: 7, Value: "", Style: blank},
		subtotalCell,
	)
}

var colLetters = [TableColumns]string{"A", "B", "C", "D", "E", "F", "G", "H"}

// cellRef builds an A1-style reference for the fixed 8-column table.
func cellRef(col, row int) string {
	return colLetters[col-1] + strconv.Itoa(row)
}

func sumFormula(col, firstRow, lastRow int) string {
	return fmt.Sprintf("SUM(%s:%s)", cellRef(col, firstRow), cellRef(col, lastRow))
}

// contractRowHeight scales the contract block's height with its text length.
func contractRowHeight(text string) float64 {
	return math.Max(40, math.Ceil(float64(len(text))/100)*20)
}

// itemRowHeight grows a data row to fit long product or presentation text.
func itemRowHeight(name, presentation string) float64 {
	h := 25.0
	h = math.Max(h, math.Ceil(float64(len(name))/45)*15)
	h = math.Max(h, math.Ceil(float64(len(presentation))/20)*15)
	return h
}
