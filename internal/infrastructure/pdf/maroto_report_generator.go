// Package pdf genera el informe de variaciones de un cruce de factura de proveedor.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Hotel + NIT          │  Estado del cruce + Fecha    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DOCUMENTOS: Proveedor / Factura / Orden de compra           │
//	│  RESUMEN: Variación total / % / Nivel de aprobación          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Artículo | Campo | Orden | Recepción | Factura | %   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RECOMENDACIONES                                             │
//	│  AUDITORÍA + QR con el id del resultado                      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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

	"github.com/jhoicas/hotel-procurement-api/internal/application/procurement"
	"github.com/jhoicas/hotel-procurement-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary  = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray     = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite    = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorCritical = &props.Color{Red: 176, Green: 0, Blue: 32}
	colorWarning  = &props.Color{Red: 191, Green: 120, Blue: 0}
	colorOK       = &props.Color{Red: 0, Green: 120, Blue: 60}
)

var headerBackground = &props.Cell{BackgroundColor: colorPrimary}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implementa procurement.ReportGenerator usando Maroto v2.
type MarotoReportGenerator struct{}

var _ procurement.ReportGenerator = (*MarotoReportGenerator)(nil)

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateMatchingReport genera el PDF del cruce y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateMatchingReport(ctx context.Context, report *procurement.MatchingReport) ([]byte, error) {
	if report == nil || report.Result == nil || report.Invoice == nil || report.Company == nil {
		return nil, fmt.Errorf("pdf: informe incompleto")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res := report.Result

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Cruce de factura "+report.Invoice.Number, true).
		WithAuthor(report.Company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(documentsRow(report))
	m.AddRows(summaryRow(res))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	variances := allVariances(res)
	if len(variances) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Sin variaciones: factura, orden y recepción coinciden.", props.Text{
				Size: 9, Top: 2, Align: align.Center, Color: colorOK,
			}),
		)))
	} else {
		m.AddRows(tableHeaderRow())
		m.AddRows(varianceRows(variances)...)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(recommendationRows(res.Recommendations)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(auditRows(res)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: hotel + NIT (izq) y estado del cruce + fecha (der).
func headerRow(r *procurement.MatchingReport) core.Row {
	res := r.Result
	return row.New(18).Add(
		col.New(7).Add(
			text.New(r.Company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("NIT: "+nonEmpty(r.Company.NIT, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("INFORME DE CRUCE "+modeLabel(res.Mode), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(statusLabel(res.MatchStatus), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
				Color: statusColor(res.MatchStatus),
			}),
			text.New("Fecha: "+res.MatchedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// documentsRow: proveedor, factura y orden de compra cruzados.
func documentsRow(r *procurement.MatchingReport) core.Row {
	supplier := "—"
	if r.Supplier != nil {
		supplier = fmt.Sprintf("%s (NIT %s)", r.Supplier.Name, r.Supplier.TaxID)
	}
	po := "Sin orden de compra"
	if r.PurchaseOrder != nil {
		po = fmt.Sprintf("%s   |   Total: $%s   |   Estado: %s",
			r.PurchaseOrder.Number, formatAmount(r.PurchaseOrder.Total), r.PurchaseOrder.Status)
	}
	return row.New(20).Add(
		col.New(12).Add(
			text.New("DOCUMENTOS", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New("Proveedor: "+supplier, props.Text{Size: 8, Top: 6}),
			text.New(fmt.Sprintf("Factura: %s   |   Fecha: %s   |   Total: $%s",
				r.Invoice.Number,
				r.Invoice.InvoiceDate.Format("02/01/2006"),
				formatAmount(r.Invoice.Total),
			), props.Text{Size: 8, Top: 10}),
			text.New("Orden de compra: "+po, props.Text{Size: 8, Top: 14, Color: colorGray}),
		),
	)
}

// summaryRow: variación total, porcentaje, conteos y nivel de aprobación.
func summaryRow(res *entity.InvoiceMatchingResult) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 8, Top: 1, Color: colorGray})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 10, Top: top})
	}
	approval := string(res.ApprovalLevel)
	if !res.RequiresApproval {
		approval = "no requiere"
	}
	return row.New(16).Add(
		col.New(3).Add(label("Variación total"), value("$"+formatAmount(res.OverallVariance), 6)),
		col.New(3).Add(label("Variación %"), value(formatPercent(res.VariancePercentage), 6)),
		col.New(3).Add(
			label("Líneas"),
			text.New(fmt.Sprintf("%d ok · %d con variación\n%d faltantes · %d adicionales",
				res.ItemsMatched, res.ItemsMismatched, res.ItemsMissing, res.ItemsAdditional,
			), props.Text{Size: 7, Top: 6}),
		),
		col.New(3).Add(label("Aprobación"), value(approval, 6)),
	)
}

// tableHeaderRow: cabecera de la tabla de variaciones.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Artículo", 3, align.Left),
		h("Campo", 1, align.Center),
		h("Orden", 2, align.Right),
		h("Recepción", 2, align.Right),
		h("Factura", 2, align.Right),
		h("Var. %", 1, align.Right),
		h("Sev.", 1, align.Center),
	).WithStyle(headerBackground)
}

// varianceRows: una fila por variación, en orden cantidad, precio, total.
func varianceRows(vs []entity.MatchingVariance) []core.Row {
	out := make([]core.Row, 0, len(vs))
	for _, v := range vs {
		name := v.ItemName
		if name == "" {
			name = v.ItemID
		}
		out = append(out, row.New(7).Add(
			col.New(3).Add(text.New(name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(fieldLabel(v.Field), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(optionalAmount(v.POValue), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(optionalAmount(v.GRNValue), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(formatAmount(v.InvoiceValue), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(formatPercent(v.VariancePercentage), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(string(v.Severity), props.Text{
				Size: 6.5, Align: align.Center, Top: 1.5, Color: severityColor(v.Severity),
			})),
		))
	}
	return out
}

func recommendationRows(recs []entity.Recommendation) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("RECOMENDACIONES", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
	}
	if len(recs) == 0 {
		return append(rows, row.New(5).Add(col.New(12).Add(
			text.New("—", props.Text{Size: 8, Color: colorGray}),
		)))
	}
	for _, rec := range recs {
		rows = append(rows, row.New(6).Add(
			col.New(3).Add(text.New(rec.ActionLabel, props.Text{
				Style: fontstyle.Bold, Size: 8, Top: 1, Color: priorityColor(rec.Priority),
			})),
			col.New(9).Add(text.New(rec.Message, props.Text{Size: 8, Top: 1})),
		))
	}
	return rows
}

// auditRows: pista de auditoría + QR con el id del resultado para trazabilidad.
func auditRows(res *entity.InvoiceMatchingResult) []core.Row {
	entries := make([]string, 0, len(res.AuditTrail))
	for _, a := range res.AuditTrail {
		s := fmt.Sprintf("%s  %s  por %s", a.Timestamp.Format("02/01/2006 15:04"), a.Action, a.PerformedBy)
		if a.Details != "" {
			s += ": " + a.Details
		}
		entries = append(entries, s)
	}
	return []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("AUDITORÍA", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
		row.New(30).Add(
			col.New(9).Add(text.New(nonEmpty(strings.Join(entries, "\n"), "—"), props.Text{
				Size: 7, Top: 1, Color: colorGray,
			})),
			col.New(3).Add(code.NewQr(res.ID, props.Rect{Percent: 90, Center: true})),
		),
		row.New(6).Add(col.New(12).Add(
			text.New("Resultado "+res.ID, props.Text{Size: 6.5, Align: align.Right, Color: colorGray, Top: 1}),
		)),
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func allVariances(res *entity.InvoiceMatchingResult) []entity.MatchingVariance {
	out := make([]entity.MatchingVariance, 0,
		len(res.QuantityVariances)+len(res.PriceVariances)+len(res.TotalVariances))
	out = append(out, res.QuantityVariances...)
	out = append(out, res.PriceVariances...)
	return append(out, res.TotalVariances...)
}

func modeLabel(mode string) string {
	if mode == "two-document" {
		return "FACTURA / ORDEN"
	}
	return "FACTURA / ORDEN / RECEPCIÓN"
}

func statusLabel(s entity.MatchStatus) string {
	switch s {
	case entity.MatchStatusFullyMatched:
		return "Cruce exacto"
	case entity.MatchStatusVarianceWithinTolerance:
		return "Variación tolerada"
	case entity.MatchStatusPartiallyMatched:
		return "Cruce parcial"
	case entity.MatchStatusNeedsReview:
		return "Requiere revisión"
	case entity.MatchStatusNotMatched:
		return "Sin cruce"
	case entity.MatchStatusApprovedWithVariance:
		return "Aprobado con variación"
	case entity.MatchStatusRejected:
		return "Rechazado"
	}
	return string(s)
}

func statusColor(s entity.MatchStatus) *props.Color {
	switch s {
	case entity.MatchStatusFullyMatched, entity.MatchStatusVarianceWithinTolerance, entity.MatchStatusApprovedWithVariance:
		return colorOK
	case entity.MatchStatusNotMatched, entity.MatchStatusRejected:
		return colorCritical
	}
	return colorWarning
}

func severityColor(s entity.Severity) *props.Color {
	switch s {
	case entity.SeverityCritical:
		return colorCritical
	case entity.SeverityActionable:
		return colorWarning
	}
	return colorOK
}

func priorityColor(p entity.RecommendationPriority) *props.Color {
	switch p {
	case entity.PriorityCritical:
		return colorCritical
	case entity.PriorityActionRequired, entity.PriorityWarning:
		return colorWarning
	}
	return colorPrimary
}

func fieldLabel(f entity.VarianceField) string {
	switch f {
	case entity.FieldQuantity:
		return "Cant."
	case entity.FieldPrice:
		return "Precio"
	case entity.FieldTotal:
		return "Total"
	}
	return string(f)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func optionalAmount(d *decimal.Decimal) string {
	if d == nil {
		return "—"
	}
	return formatAmount(*d)
}

// formatAmount imprime con dos decimales, punto de miles y coma decimal.
// Ej: 1234567.5 → "1.234.567,50"
func formatAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")
	out := groupThousands(intPart) + "," + frac
	if neg {
		return "-" + out
	}
	return out
}

func formatPercent(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1) + "%"
}

// groupThousands inserta puntos de miles en un string numérico sin signo.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
