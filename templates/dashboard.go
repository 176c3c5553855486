package templates

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/a-h/templ"

	"picsystem/services"
)

// Dashboard renders the main page: summary cards, the per-category breakdown
// and the item table.
func Dashboard(items []services.LineItem, stats services.BudgetStatistics) templ.Component {
	return page("Presupuesto", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := summaryCards(stats).Render(ctx, w); err != nil {
			return err
		}
		if err := categoryTable(stats).Render(ctx, w); err != nil {
			return err
		}
		return itemTable(items).Render(ctx, w)
	}))
}

func page(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1"/>
<title>%s</title>
<script src="https://unpkg.com/htmx.org@2.0.4"></script>
<link rel="stylesheet" href="/static/app.css"/>
</head>
<body>
<main class="container">`, templ.EscapeString(title)); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</main>
<div id="toast" class="toast" hidden></div>
</body>
</html>`)
		return err
	})
}

func summaryCards(stats services.BudgetStatistics) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<section class="cards">
<div class="card"><span class="card-label">Items</span><span class="card-value">%d</span></div>
<div class="card"><span class="card-label">Presupuesto</span><span class="card-value">%s</span></div>
<div class="card"><span class="card-label">Costo total</span><span class="card-value">%s</span></div>
<div class="card"><span class="card-label">Margen promedio</span><span class="card-value">%s</span></div>
</section>`,
			stats.TotalItems,
			templ.EscapeString(services.FormatCOP(stats.Budget)),
			templ.EscapeString(services.FormatCOP(stats.TotalCost)),
			templ.EscapeString(services.FormatPercent(stats.AvgMargin)))
		return err
	})
}

func categoryTable(stats services.BudgetStatistics) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(stats.Categories) == 0 {
			return nil
		}
		names := make([]string, 0, len(stats.Categories))
		for name := range stats.Categories {
			names = append(names, name)
		}
		sort.Strings(names)

		if _, err := io.WriteString(w, `<section>
<h2>Por categoría</h2>
<table class="table">
<thead><tr><th>Categoría</th><th>Items</th><th>Presupuesto</th><th>% del total</th><th>Margen</th></tr></thead>
<tbody>`); err != nil {
			return err
		}
		for _, name := range names {
			cat := stats.Categories[name]
			if _, err := fmt.Fprintf(w, `<tr><td>%s</td><td>%d</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
				templ.EscapeString(name),
				cat.Count,
				templ.EscapeString(services.FormatCOP(cat.BudgetTotal)),
				templ.EscapeString(services.FormatPercent(cat.PercentOfTotal)),
				templ.EscapeString(services.FormatPercent(cat.AvgMargin))); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</tbody></table></section>`)
		return err
	})
}

func itemTable(items []services.LineItem) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<section>
<h2>Items</h2>
<table class="table" id="item-table">
<thead><tr><th>#</th><th>Producto</th><th>Cant.</th><th>Presentación</th><th>Costo</th><th>Margen</th><th>Valor unitario</th><th>Valor total</th></tr></thead>
<tbody>`); err != nil {
			return err
		}
		for _, item := range items {
			if _, err := fmt.Fprintf(w, `<tr><td>%d</td><td>%s</td><td>%d</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
				item.Index,
				templ.EscapeString(item.Name),
				item.Quantity,
				templ.EscapeString(item.Presentation),
				templ.EscapeString(services.FormatCOP(item.Cost)),
				templ.EscapeString(services.FormatPercent(item.Margin)),
				templ.EscapeString(services.FormatCOP(item.Total)),
				templ.EscapeString(services.FormatCOP(item.Subtotal()))); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</tbody></table></section>`)
		return err
	})
}
