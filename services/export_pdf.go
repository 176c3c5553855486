package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// PDFReport holds everything the budget PDF needs.
type PDFReport struct {
	Title         string
	GeneratedDate string
	Items         []LineItem
	Summary       BudgetSummary
}

// GenerateBudgetPDF renders the budget as a PDF document: a title block, the
// item table, and the summary figures. Returns the raw PDF bytes.
func GenerateBudgetPDF(report PDFReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Horizontal).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Página {current} de {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addPDFHeader(m, report)
	addPDFTableHeader(m)
	for i, it := range report.Items {
		addPDFItemRow(m, it, i%2 == 1)
	}
	addPDFSummary(m, report.Summary)
	addPDFFooter(m, report.GeneratedDate)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

func addPDFHeader(m core.Maroto, report PDFReport) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(report.Title, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)
	m.AddRows(
		row.New(8).Add(
			col.New(12).Add(
				text.New(fmt.Sprintf("Fecha: %s", report.GeneratedDate), props.Text{
					Size:  9,
					Align: align.Right,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
		),
	)
	m.AddRows(row.New(4))
}

func addPDFTableHeader(m core.Maroto) {
	headerBg := &props.Color{Red: 31, Green: 78, Blue: 121}
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerTextLeft := headerText
	headerTextLeft.Align = align.Left
	headerCell := props.Cell{BackgroundColor: headerBg}

	m.AddRows(
		row.New(8).Add(
			col.New(1).Add(text.New("ITEM", headerText)).WithStyle(&headerCell),
			col.New(3).Add(text.New("PRODUCTO", headerTextLeft)).WithStyle(&headerCell),
			col.New(1).Add(text.New("CANT.", headerText)).WithStyle(&headerCell),
			col.New(1).Add(text.New("PRES.", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("COSTO UNIT.", headerText)).WithStyle(&headerCell),
			col.New(1).Add(text.New("MARGEN", headerText)).WithStyle(&headerCell),
			col.New(1).Add(text.New("VALOR UNIT.", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("VALOR TOTAL", headerText)).WithStyle(&headerCell),
		),
	)
}

func addPDFItemRow(m core.Maroto, it LineItem, striped bool) {
	var cellStyle *props.Cell
	if striped {
		bg := &props.Color{Red: 242, Green: 242, Blue: 242}
		cellStyle = &props.Cell{BackgroundColor: bg}
	}

	baseText := props.Text{Size: 7, Align: align.Center}
	leftText := baseText
	leftText.Align = align.Left
	rightText := baseText
	rightText.Align = align.Right

	colIndex := col.New(1).Add(text.New(fmt.Sprintf("%d", it.Index), baseText))
	colName := col.New(3).Add(text.New(it.Name, leftText))
	colQty := col.New(1).Add(text.New(fmt.Sprintf("%d", it.Quantity), rightText))
	colPres := col.New(1).Add(text.New(it.Presentation, baseText))
	colCost := col.New(2).Add(text.New(FormatCOP(it.Cost), rightText))
	colMargin := col.New(1).Add(text.New(FormatPercent(it.Margin), rightText))
	colTotal := col.New(1).Add(text.New(FormatCOP(it.Total), rightText))
	colSubtotal := col.New(2).Add(text.New(FormatCOP(it.Subtotal()), rightText))

	if cellStyle != nil {
		colIndex = colIndex.WithStyle(cellStyle)
		colName = colName.WithStyle(cellStyle)
		colQty = colQty.WithStyle(cellStyle)
		colPres = colPres.WithStyle(cellStyle)
		colCost = colCost.WithStyle(cellStyle)
		colMargin = colMargin.WithStyle(cellStyle)
		colTotal = colTotal.WithStyle(cellStyle)
		colSubtotal = colSubtotal.WithStyle(cellStyle)
	}

	m.AddRows(
		row.New(7).Add(
			colIndex, colName, colQty, colPres,
			colCost, colMargin, colTotal, colSubtotal,
		),
	)
}

func addPDFSummary(m core.Maroto, s BudgetSummary) {
	m.AddRows(row.New(6))

	summaryBg := &props.Color{Red: 240, Green: 240, Blue: 240}
	summaryCell := &props.Cell{BackgroundColor: summaryBg}
	labelStyle := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}
	valueStyle := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}

	addSummaryLine := func(label, value string) {
		m.AddRows(
			row.New(8).Add(
				col.New(8).Add(text.New(label, labelStyle)).WithStyle(summaryCell),
				col.New(4).Add(text.New(value, valueStyle)).WithStyle(summaryCell),
			),
		)
	}

	addSummaryLine("Presupuesto total", FormatCOP(s.Budget))
	addSummaryLine("Costo total", FormatCOP(s.TotalCost))
	addSummaryLine(fmt.Sprintf("Margen promedio (%s)", FormatPercent(s.AvgMargin)), FormatCOP(s.Budget-s.TotalCost))
}

func addPDFFooter(m core.Maroto, generatedDate string) {
	m.AddRows(row.New(6))
	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(
				text.New(
					fmt.Sprintf("Generado el %s", generatedDate),
					props.Text{
						Size:  7,
						Align: align.Left,
						Color: &props.Color{Red: 140, Green: 140, Blue: 140},
					},
				),
			),
		),
	)
}
