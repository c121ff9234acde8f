// Package pdf genera la representación impresa de una factura registrada y el
// reporte de una importación masiva.
//
// Layout de la factura (A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  TIPO (venta/compra)      │ [A] │   N° Comprobante + Fecha   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE / PROVEEDOR: Razón social + CUIT                    │
//	│  DETALLE: descripción                                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / IVA (alícuota) / TOTAL                  │
//	│  ADVERTENCIAS (si las hay)                                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: huella + QR                                         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/contable-api/internal/application/billing"
	"github.com/jhoicas/contable-api/internal/application/dto"
	"github.com/jhoicas/contable-api/internal/domain/entity"
	"github.com/jhoicas/contable-api/pkg/afip"
	"github.com/jhoicas/contable-api/pkg/money"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWarn    = &props.Color{Red: 176, Green: 96, Blue: 0}
	colorError   = &props.Color{Red: 170, Green: 20, Blue: 20}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ billing.PDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa billing.PDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

func newDocument(title string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		Build()
	return maroto.New(cfg)
}

// InvoicePDF genera la factura y devuelve sus bytes.
func (g *MarotoPDFGenerator) InvoicePDF(ctx context.Context, inv *entity.Invoice) ([]byte, error) {
	if inv == nil {
		return nil, fmt.Errorf("pdf: factura nula")
	}
	m := newDocument(fmt.Sprintf("Factura %s %s", inv.Class, inv.Number))

	m.AddRows(headerRow(inv))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(counterpartRow(inv))
	if inv.Description != "" {
		m.AddRows(descriptionRow(inv.Description))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(inv))
	if len(inv.Advisories) > 0 {
		m.AddRows(advisoryRows(inv)...)
	}
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(inv))

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ImportReportPDF genera el reporte de importación: resumen y una fila por fila de entrada.
func (g *MarotoPDFGenerator) ImportReportPDF(ctx context.Context, report *dto.ImportReport, generatedAt time.Time) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("pdf: reporte nulo")
	}
	m := newDocument("Reporte de importación")

	m.AddRows(reportHeaderRow(report, generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(reportSummaryRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(reportTableHeaderRow())
	for _, r := range report.Rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m.AddRows(reportRow(r))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar reporte: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones de la factura ───────────────────────────────────────────────────

// headerRow: sentido de la operación (izq), recuadro con la letra (centro), número y fecha (der).
func headerRow(inv *entity.Invoice) core.Row {
	return row.New(22).Add(
		col.New(5).Add(
			text.New(typeLabel(inv.Type), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 2,
			}),
			text.New("Comprobante registrado en el libro", props.Text{
				Size: 8, Top: 10, Color: colorGray,
			}),
		),
		col.New(2).Add(
			text.New(string(inv.Class), props.Text{
				Style: fontstyle.Bold, Size: 24, Align: align.Center, Top: 1,
			}),
			text.New(fmt.Sprintf("COD. %02d", inv.Class.VoucherCode()), props.Text{
				Size: 6.5, Align: align.Center, Top: 13, Color: colorGray,
			}),
		).WithStyle(&props.Cell{BorderType: border.Full, BorderColor: colorPrimary, BorderThickness: 0.4}),
		col.New(5).Add(
			text.New("FACTURA "+string(inv.Class), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 2,
			}),
			text.New("N° "+nonEmpty(inv.Number, "s/n"), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 8,
			}),
			text.New("Fecha: "+inv.Date.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 15, Color: colorGray,
			}),
		),
	)
}

func counterpartRow(inv *entity.Invoice) core.Row {
	title := "CLIENTE"
	if inv.Type == afip.TypeExpense {
		title = "PROVEEDOR"
	}
	return row.New(16).Add(
		col.New(12).Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(inv.ClientProviderName, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New("CUIT: "+nonEmpty(inv.ClientProviderCUIT, "-"), props.Text{
				Size: 8, Top: 12, Color: colorGray,
			}),
		),
	)
}

func descriptionRow(desc string) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("DETALLE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(desc, props.Text{Size: 8, Top: 6}),
		),
	)
}

// totalsRow: bloque de totales alineado a la derecha. La alícuota se muestra solo si hay IVA.
func totalsRow(inv *entity.Invoice) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	ivaLabel := "IVA:"
	if rate := ivaRate(inv.Subtotal, inv.IVAAmount); rate != "" {
		ivaLabel = "IVA " + rate + ":"
	}

	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Subtotal:"),
			text.New(ivaLabel, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 5}),
			text.New("TOTAL:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 11,
			}),
		),
		col.New(3).Add(
			value(money.FormatARS(inv.Subtotal), 0),
			value(money.FormatARS(inv.IVAAmount), 5),
			text.New(money.FormatARS(inv.TotalAmount), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 11,
			}),
		),
	)
}

func advisoryRows(inv *entity.Invoice) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("ADVERTENCIAS (requiere revisión)", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorWarn, Top: 1,
			}),
		)),
	}
	for _, a := range inv.Advisories {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New("- "+a.Message, props.Text{Size: 8, Color: colorWarn, Left: 2}),
		)))
	}
	return rows
}

// footerRow: huella del comprobante partida + QR con la huella.
func footerRow(inv *entity.Invoice) core.Row {
	texts := []core.Component{
		text.New("Huella del comprobante:", props.Text{Style: fontstyle.Bold, Size: 7, Top: 2, Left: 3}),
	}
	for i, chunk := range splitEvery(inv.Fingerprint, 32) {
		texts = append(texts, text.New(chunk, props.Text{
			Size: 6.5, Color: colorGray, Top: 6 + float64(i)*4, Left: 3,
		}))
	}
	texts = append(texts, text.New("Registrada el "+inv.CreatedAt.Format("02/01/2006 15:04"), props.Text{
		Size: 7, Color: colorGray, Top: 16, Left: 3,
	}))

	return row.New(30).Add(
		col.New(3).Add(code.NewQr(inv.Fingerprint, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(texts...),
	)
}

// ── Secciones del reporte ─────────────────────────────────────────────────────

func reportHeaderRow(report *dto.ImportReport, generatedAt time.Time) core.Row {
	title := "REPORTE DE IMPORTACIÓN"
	if report.DryRun {
		title += " (SIMULACIÓN)"
	}
	return row.New(14).Add(
		col.New(8).Add(text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 2,
		})),
		col.New(4).Add(text.New("Generado: "+generatedAt.Format("02/01/2006 15:04"), props.Text{
			Size: 8, Align: align.Right, Top: 4, Color: colorGray,
		})),
	)
}

func reportSummaryRow(report *dto.ImportReport) core.Row {
	ok := fmt.Sprintf("Importadas: %d", report.Imported)
	if report.DryRun {
		ok = fmt.Sprintf("Válidas: %d", report.Valid)
	}
	items := []string{
		fmt.Sprintf("Filas: %d", report.Total),
		ok,
		fmt.Sprintf("Rechazadas: %d", report.Rejected),
		fmt.Sprintf("Duplicadas: %d", report.Duplicates),
		fmt.Sprintf("Con error: %d", report.Failed),
		fmt.Sprintf("A revisar: %d", report.NeedReview),
	}
	cols := make([]core.Col, 0, len(items))
	for _, s := range items {
		cols = append(cols, col.New(2).Add(text.New(s, props.Text{Style: fontstyle.Bold, Size: 8, Top: 2})))
	}
	return row.New(8).Add(cols...)
}

func reportTableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fila", 1, align.Center),
		h("Estado", 2, align.Left),
		h("Comprobante", 2, align.Left),
		h("Cliente / Proveedor", 3, align.Left),
		h("Detalle", 4, align.Left),
	)
}

func reportRow(r dto.ImportRowResult) core.Row {
	detail := rowDetail(r)
	c := colorGray
	switch r.Status {
	case dto.ImportStatusRejected, dto.ImportStatusError:
		c = colorError
	case dto.ImportStatusDuplicate:
		c = colorWarn
	}
	return row.New(rowHeight(detail)).Add(
		col.New(1).Add(text.New(fmt.Sprint(r.Row), props.Text{Size: 8, Align: align.Center, Top: 1})),
		col.New(2).Add(text.New(statusLabel(r.Status), props.Text{Style: fontstyle.Bold, Size: 8, Color: c, Top: 1, Left: 1})),
		col.New(2).Add(text.New(nonEmpty(r.InvoiceNumber, "-"), props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(3).Add(text.New(nonEmpty(r.ClientProviderName, "-"), props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(4).Add(text.New(detail, props.Text{Size: 7, Color: c, Top: 1, Left: 1})),
	)
}

// rowDetail motivos de rechazo (en el orden de los campos), mensaje o advertencias.
func rowDetail(r dto.ImportRowResult) string {
	var parts []string
	for _, f := range r.Fields {
		parts = append(parts, r.Errors[f]...)
	}
	if r.Message != "" {
		parts = append(parts, r.Message)
	}
	for _, a := range r.Advisories {
		parts = append(parts, a.Message)
	}
	return strings.Join(parts, "; ")
}

func rowHeight(detail string) float64 {
	lines := len(detail)/60 + 1
	return float64(4 + lines*3)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func typeLabel(t afip.InvoiceType) string {
	switch t {
	case afip.TypeIncome:
		return "VENTA"
	case afip.TypeExpense:
		return "COMPRA"
	}
	return "COMPROBANTE"
}

func statusLabel(s string) string {
	switch s {
	case dto.ImportStatusImported:
		return "Importada"
	case dto.ImportStatusValid:
		return "Válida"
	case dto.ImportStatusRejected:
		return "Rechazada"
	case dto.ImportStatusDuplicate:
		return "Duplicada"
	case dto.ImportStatusError:
		return "Error"
	}
	return s
}

// ivaRate alícuota efectiva "21%" / "10,5%"; vacío si no hay IVA o subtotal.
func ivaRate(subtotal, iva decimal.Decimal) string {
	if subtotal.IsZero() || iva.IsZero() {
		return ""
	}
	rate := iva.Div(subtotal).Mul(decimal.NewFromInt(100)).Round(1)
	return strings.Replace(rate.String(), ".", ",", 1) + "%"
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// splitEvery divide s en trozos de max n caracteres.
func splitEvery(s string, n int) []string {
	var parts []string
	for len(s) > n {
		parts = append(parts, s[:n])
		s = s[n:]
	}
	if s != "" {
		parts = append(parts, s)
	}
	return parts
}
