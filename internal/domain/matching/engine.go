package matching

import (
	"fmt"
	"time"

	"github.com/jhoicas/hotel-procurement-api/internal/domain"
	"github.com/jhoicas/hotel-procurement-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// SystemActor ejecutor registrado en la entrada de auditoría del cruce automático.
const SystemActor = "system"

// Engine ejecuta cruces con una configuración ya validada. Es seguro para uso
// concurrente: no guarda estado entre llamadas.
type Engine struct {
	cfg ToleranceConfig
	now func() time.Time
}

// Option ajusta el Engine en la construcción.
type Option func(*Engine)

// WithClock fija el reloj usado para MatchedAt y la auditoría.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine valida la configuración y crea el motor.
func NewEngine(cfg ToleranceConfig, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{cfg: cfg, now: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config devuelve la configuración del motor.
func (e *Engine) Config() ToleranceConfig {
	return e.cfg
}

// Match cruza una factura contra las órdenes y recepciones disponibles. No devuelve
// error: la ausencia de documentos de referencia es un resultado not-matched.
func Match(invoice *entity.Invoice, purchaseOrders []*entity.PurchaseOrder, grns []*entity.GoodsReceivedNote, cfg ToleranceConfig) (*entity.InvoiceMatchingResult, error) {
	if invoice == nil {
		return nil, fmt.Errorf("%w: factura nula", domain.ErrInvalidInput)
	}
	e, err := NewEngine(cfg)
	if err != nil {
		return nil, err
	}
	return e.Match(invoice, purchaseOrders, grns), nil
}

// Match ejecuta el cruce. Los documentos de entrada no se modifican.
func (e *Engine) Match(invoice *entity.Invoice, purchaseOrders []*entity.PurchaseOrder, grns []*entity.GoodsReceivedNote) *entity.InvoiceMatchingResult {
	if invoice == nil {
		invoice = &entity.Invoice{}
	}
	at := e.now()

	po := resolvePurchaseOrder(invoice, purchaseOrders, grns)
	var selected []*entity.GoodsReceivedNote
	if e.cfg.Mode == ModeThreeWay {
		selected = selectGRNs(invoice, po, grns)
	}

	result := &entity.InvoiceMatchingResult{
		CompanyID:         invoice.CompanyID,
		InvoiceID:         invoice.ID,
		Mode:              string(e.cfg.Mode),
		QuantityVariances: []entity.MatchingVariance{},
		PriceVariances:    []entity.MatchingVariance{},
		TotalVariances:    []entity.MatchingVariance{},
		GRNIDs:            []string{},
		MatchedAt:         at,
	}
	if po != nil {
		result.PurchaseOrderID = po.ID
	}
	for _, g := range selected {
		result.GRNIDs = append(result.GRNIDs, g.ID)
	}

	if po == nil && len(selected) == 0 {
		e.notMatched(result, invoice)
	} else {
		e.aggregate(result, invoice, po, selected)
	}

	result.Recommendations = Recommend(result, e.cfg)
	result.AuditTrail = []entity.MatchingAuditEntry{{
		Timestamp:   at,
		Action:      entity.AuditActionMatched,
		PerformedBy: SystemActor,
		Details: fmt.Sprintf("estado %s, variación %s%%, aprobación %s",
			result.MatchStatus, result.VariancePercentage.StringFixed(2), result.ApprovalLevel),
	}}
	return result
}

// notMatched sin orden ni recepción: todos los artículos quedan como adicionales, la
// variación es el total de la factura y la aprobación sube al nivel máximo.
func (e *Engine) notMatched(result *entity.InvoiceMatchingResult, invoice *entity.Invoice) {
	n := len(mergeInvoiceLines(invoice.Items))
	result.MatchStatus = entity.MatchStatusNotMatched
	result.ItemsMismatched = n
	result.ItemsAdditional = n
	result.OverallVariance = invoiceBase(invoice)
	result.VariancePercentage = hundred
	result.ApprovalLevel = e.cfg.CeilingLevel
	result.RequiresApproval = true
}

func (e *Engine) aggregate(result *entity.InvoiceMatchingResult, invoice *entity.Invoice, po *entity.PurchaseOrder, grns []*entity.GoodsReceivedNote) {
	refs, order := buildReferences(po, grns)
	invoiced := make(map[string]bool, len(invoice.Items))

	for _, line := range mergeInvoiceLines(invoice.Items) {
		invoiced[line.ItemID] = true
		ref, ok := refs[line.ItemID]
		if !ok {
			result.ItemsAdditional++
			result.ItemsMismatched++
			result.TotalVariances = append(result.TotalVariances, additionalVariance(line))
			continue
		}
		matched := true
		for _, v := range lineVariances(line, ref, e.cfg) {
			if !v.IsWithinTolerance {
				matched = false
			}
			appendVariance(result, v)
		}
		if matched {
			result.ItemsMatched++
		} else {
			result.ItemsMismatched++
		}
	}

	for _, id := range order {
		ref := refs[id]
		if invoiced[id] || !ref.quantity().IsPositive() {
			continue
		}
		result.ItemsMissing++
		result.TotalVariances = append(result.TotalVariances, missingVariance(ref))
	}

	overall := decimal.Zero
	for _, v := range result.TotalVariances {
		overall = overall.Add(v.Variance.Abs())
	}
	result.OverallVariance = overall
	result.VariancePercentage = percentOf(overall, e.base(invoice, po))
	result.MatchStatus = e.status(result)
	result.ApprovalLevel = e.cfg.approvalLevelFor(result.VariancePercentage)
	result.RequiresApproval = result.ApprovalLevel != entity.ApprovalAuto
}

func (e *Engine) status(r *entity.InvoiceMatchingResult) entity.MatchStatus {
	pct := r.VariancePercentage.Abs()
	switch {
	case pct.LessThanOrEqual(e.cfg.TotalTolerance) && r.ItemsMismatched == 0 && r.ItemsMissing == 0:
		return entity.MatchStatusFullyMatched
	case pct.LessThanOrEqual(e.cfg.TotalTolerance):
		return entity.MatchStatusVarianceWithinTolerance
	case pct.LessThanOrEqual(e.cfg.ReviewBand):
		return entity.MatchStatusPartiallyMatched
	default:
		return entity.MatchStatusNeedsReview
	}
}

// base denominador del porcentaje global según VarianceBase.
func (e *Engine) base(invoice *entity.Invoice, po *entity.PurchaseOrder) decimal.Decimal {
	if e.cfg.VarianceBase == BasePurchaseOrderTotal && po != nil {
		b := po.Total
		if b.IsZero() {
			b = entity.SumLineTotals(po.Items)
		}
		if !b.IsZero() {
			return b
		}
	}
	return invoiceBase(invoice)
}

// invoiceBase total de la factura; la suma de líneas si el total viene vacío.
func invoiceBase(invoice *entity.Invoice) decimal.Decimal {
	if !invoice.Total.IsZero() {
		return invoice.Total
	}
	return entity.SumLineTotals(invoice.Items)
}

func appendVariance(r *entity.InvoiceMatchingResult, v entity.MatchingVariance) {
	switch v.Field {
	case entity.FieldQuantity:
		r.QuantityVariances = append(r.QuantityVariances, v)
	case entity.FieldPrice:
		r.PriceVariances = append(r.PriceVariances, v)
	case entity.FieldTotal:
		r.TotalVariances = append(r.TotalVariances, v)
	}
}

// resolvePurchaseOrder busca la orden referenciada por la factura; si no existe, la
// orden de la recepción referenciada.
func resolvePurchaseOrder(invoice *entity.Invoice, purchaseOrders []*entity.PurchaseOrder, grns []*entity.GoodsReceivedNote) *entity.PurchaseOrder {
	if invoice.PurchaseOrderID != "" {
		if po := findPurchaseOrder(purchaseOrders, invoice.PurchaseOrderID); po != nil {
			return po
		}
	}
	if invoice.GRNID != "" {
		if grn := findGRN(grns, invoice.GRNID); grn != nil && grn.PurchaseOrderID != "" {
			return findPurchaseOrder(purchaseOrders, grn.PurchaseOrderID)
		}
	}
	return nil
}

// selectGRNs la recepción referenciada por la factura o, si no hay, todas las de la orden.
func selectGRNs(invoice *entity.Invoice, po *entity.PurchaseOrder, grns []*entity.GoodsReceivedNote) []*entity.GoodsReceivedNote {
	if invoice.GRNID != "" {
		if grn := findGRN(grns, invoice.GRNID); grn != nil {
			return []*entity.GoodsReceivedNote{grn}
		}
		return nil
	}
	if po == nil {
		return nil
	}
	var out []*entity.GoodsReceivedNote
	for _, g := range grns {
		if g != nil && g.PurchaseOrderID == po.ID {
			out = append(out, g)
		}
	}
	return out
}

func findPurchaseOrder(pos []*entity.PurchaseOrder, id string) *entity.PurchaseOrder {
	for _, po := range pos {
		if po != nil && po.ID == id {
			return po
		}
	}
	return nil
}

func findGRN(grns []*entity.GoodsReceivedNote, id string) *entity.GoodsReceivedNote {
	for _, g := range grns {
		if g != nil && g.ID == id {
			return g
		}
	}
	return nil
}
