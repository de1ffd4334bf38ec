// Package pdf genera el kardex (historial de movimientos con saldo) de un producto.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: SKU + Nombre        │  KARDEX + Fecha de emisión    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Stock actual / Mínimo / Máximo / Estado            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Tipo | Referencia | Cant | P.Unit | Total | Saldo │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Entradas / Salidas / Saldo / Costo promedio        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/application/inventory"
	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ inventory.KardexGenerator = (*MarotoKardexGenerator)(nil)

// MarotoKardexGenerator implementa inventory.KardexGenerator usando Maroto v2.
type MarotoKardexGenerator struct {
	now func() time.Time
}

// NewMarotoKardexGenerator construye el generador.
func NewMarotoKardexGenerator() *MarotoKardexGenerator {
	return &MarotoKardexGenerator{now: time.Now}
}

// GenerateKardexPDF genera el PDF y devuelve sus bytes. lines llega en orden cronológico.
func (g *MarotoKardexGenerator) GenerateKardexPDF(product *entity.Product, lines []inventory.KardexLine) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Kardex "+product.SKU, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(product, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(product))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(lines)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(lines))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar kardex: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(product *entity.Product, now time.Time) core.Row {
	return row.New(18).Add(
		col.New(8).Add(
			text.New(product.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("SKU: "+product.SKU, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("KARDEX DE INVENTARIO", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Emitido: "+now.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func summaryRow(product *entity.Product) core.Row {
	stockColor := colorGray
	if product.StockQuantity < 0 || product.BelowMinimum() {
		stockColor = colorRed
	}
	return row.New(10).Add(
		col.New(3).Add(text.New(fmt.Sprintf("Stock actual: %d", product.StockQuantity), props.Text{
			Style: fontstyle.Bold, Size: 9, Top: 2, Color: stockColor,
		})),
		col.New(3).Add(text.New(fmt.Sprintf("Mínimo: %d", product.MinStock), props.Text{Size: 8, Top: 2, Color: colorGray})),
		col.New(3).Add(text.New(fmt.Sprintf("Máximo: %d", product.MaxStock), props.Text{Size: 8, Top: 2, Color: colorGray})),
		col.New(3).Add(text.New("Estado: "+product.Status, props.Text{Size: 8, Top: 2, Align: align.Right, Color: colorGray})),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 2, align.Left),
		h("Tipo", 1, align.Center),
		h("Referencia", 3, align.Left),
		h("Cant.", 1, align.Right),
		h("P. Unit.", 2, align.Right),
		h("Total", 2, align.Right),
		h("Saldo", 1, align.Right),
	)
}

func tableDetailRows(lines []inventory.KardexLine) []core.Row {
	rows := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		m := l.Movement
		tipo := "Entrada"
		if m.Type == entity.MovementTypeOut {
			tipo = "Salida"
		}
		cell := func(s string, size int, a align.Type) core.Col {
			return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
		}
		rows = append(rows, row.New(6).Add(
			cell(m.CreatedAt.Format("02/01/2006"), 2, align.Left),
			cell(tipo, 1, align.Center),
			cell(nonEmpty(m.Reference, "—"), 3, align.Left),
			cell(fmt.Sprintf("%d", m.SignedQuantity()), 1, align.Right),
			cell("$"+formatMoney(m.UnitPrice), 2, align.Right),
			cell("$"+formatMoney(m.TotalValue), 2, align.Right),
			cell(fmt.Sprintf("%d", l.Balance), 1, align.Right),
		))
	}
	return rows
}

func totalsRow(lines []inventory.KardexLine) core.Row {
	var in, out, balance int64
	avg := decimal.Zero
	for _, l := range lines {
		if l.Movement.Type == entity.MovementTypeOut {
			out += l.Movement.Quantity
		} else {
			in += l.Movement.Quantity
		}
		balance = l.Balance
		avg = l.AverageCost
	}
	valuation := decimal.Zero
	if balance > 0 {
		valuation = avg.Mul(decimal.NewFromInt(balance))
	}
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	return row.New(32).Add(
		col.New(6),
		col.New(3).Add(
			label("Entradas:", 1),
			label("Salidas:", 7),
			label("Saldo ledger:", 13),
			label("Costo promedio:", 19),
			label("Valorización:", 25),
		),
		col.New(3).Add(
			value(fmt.Sprintf("%d", in), 1),
			value(fmt.Sprintf("%d", out), 7),
			value(fmt.Sprintf("%d", balance), 13),
			value("$"+formatMoney(avg), 19),
			value("$"+formatMoney(valuation), 25),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney redondea a entero e inserta puntos de miles.
// Ej: 25000 → "25.000", -1000000 → "-1.000.000"
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(0)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	n := len(s)
	if n <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
