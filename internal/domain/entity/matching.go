package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// VarianceField campo de la línea sobre el que se mide la variación.
type VarianceField string

const (
	FieldQuantity VarianceField = "quantity"
	FieldPrice    VarianceField = "price"
	FieldTotal    VarianceField = "total"
)

// IsValid informa si el campo es uno de quantity|price|total.
func (f VarianceField) IsValid() bool {
	switch f {
	case FieldQuantity, FieldPrice, FieldTotal:
		return true
	}
	return false
}

// Severity clasificación de una variación frente a las tolerancias.
type Severity string

const (
	SeverityAcceptable Severity = "acceptable"
	SeverityActionable Severity = "actionable"
	SeverityCritical   Severity = "critical"
)

// MatchStatus estado del cruce de una factura.
type MatchStatus string

const (
	MatchStatusNotMatched              MatchStatus = "not-matched"
	MatchStatusFullyMatched            MatchStatus = "fully-matched"
	MatchStatusVarianceWithinTolerance MatchStatus = "variance-within-tolerance"
	MatchStatusPartiallyMatched        MatchStatus = "partially-matched"
	MatchStatusNeedsReview             MatchStatus = "needs-review"
	MatchStatusApprovedWithVariance    MatchStatus = "approved-with-variance"
	MatchStatusRejected                MatchStatus = "rejected"
)

// IsDecided indica si el estado es una decisión del operador (terminal).
func (s MatchStatus) IsDecided() bool {
	return s == MatchStatusApprovedWithVariance || s == MatchStatusRejected
}

// ApprovalLevel autoridad mínima requerida para aceptar el cruce.
type ApprovalLevel string

const (
	ApprovalAuto          ApprovalLevel = "auto-approve"
	ApprovalManager       ApprovalLevel = "manager"
	ApprovalSeniorManager ApprovalLevel = "senior-manager"
	ApprovalDirector      ApprovalLevel = "director"
	ApprovalCFO           ApprovalLevel = "cfo"
)

// Rank devuelve el orden del nivel (0 = auto); -1 si el nivel es desconocido.
func (l ApprovalLevel) Rank() int {
	switch l {
	case ApprovalAuto:
		return 0
	case ApprovalManager:
		return 1
	case ApprovalSeniorManager:
		return 2
	case ApprovalDirector:
		return 3
	case ApprovalCFO:
		return 4
	}
	return -1
}

// RecommendationType acción sugerida al operador.
type RecommendationType string

const (
	RecommendApprove              RecommendationType = "approve"
	RecommendRequestClarification RecommendationType = "request-clarification"
	RecommendCreateDispute        RecommendationType = "create-dispute"
	RecommendContactSupplier      RecommendationType = "contact-supplier"
	RecommendCreateDebitNote      RecommendationType = "create-debit-note"
	RecommendReject               RecommendationType = "reject"
)

// RecommendationPriority prioridad de una recomendación.
type RecommendationPriority string

const (
	PriorityInfo           RecommendationPriority = "info"
	PriorityWarning        RecommendationPriority = "warning"
	PriorityActionRequired RecommendationPriority = "action-required"
	PriorityCritical       RecommendationPriority = "critical"
)

// Acciones registradas en la pista de auditoría.
const (
	AuditActionMatched  = "matched"
	AuditActionApproved = "approved"
	AuditActionRejected = "rejected"
	AuditActionDisputed = "dispute-created"
)

// MatchingVariance variación de un campo de una línea. Es derivada: se recalcula en
// cada cruce y nunca es fuente de verdad.
type MatchingVariance struct {
	ItemID             string           `json:"item_id"`
	ItemName           string           `json:"item_name"`
	Field              VarianceField    `json:"field"`
	POValue            *decimal.Decimal `json:"po_value,omitempty"`
	GRNValue           *decimal.Decimal `json:"grn_value,omitempty"`
	InvoiceValue       decimal.Decimal  `json:"invoice_value"`
	Variance           decimal.Decimal  `json:"variance"`
	VariancePercentage decimal.Decimal  `json:"variance_percentage"`
	IsWithinTolerance  bool             `json:"is_within_tolerance"`
	RequiresAction     bool             `json:"requires_action"`
	Severity           Severity         `json:"severity"`
	SuggestedAction    string           `json:"suggested_action,omitempty"`
}

// Recommendation siguiente paso sugerido; ejecutarlo es responsabilidad del llamador.
type Recommendation struct {
	Type        RecommendationType     `json:"type"`
	Priority    RecommendationPriority `json:"priority"`
	Message     string                 `json:"message"`
	ActionLabel string                 `json:"action_label"`
}

// MatchingAuditEntry registro inmutable de la pista de auditoría del cruce.
type MatchingAuditEntry struct {
	Timestamp   time.Time `json:"timestamp"`
	Action      string    `json:"action"`
	PerformedBy string    `json:"performed_by"`
	Details     string    `json:"details,omitempty"`
}

// InvoiceMatchingResult resultado agregado del cruce factura / orden / recepción.
// Se crea nuevo en cada ejecución; las decisiones del operador se añaden a AuditTrail
// sobre una copia.
type InvoiceMatchingResult struct {
	ID                 string               `json:"id"`
	CompanyID          string               `json:"company_id"`
	InvoiceID          string               `json:"invoice_id"`
	PurchaseOrderID    string               `json:"purchase_order_id,omitempty"`
	GRNIDs             []string             `json:"grn_ids,omitempty"`
	Mode               string               `json:"mode"`
	MatchStatus        MatchStatus          `json:"match_status"`
	OverallVariance    decimal.Decimal      `json:"overall_variance"`
	VariancePercentage decimal.Decimal      `json:"variance_percentage"`
	ItemsMatched       int                  `json:"items_matched"`
	ItemsMismatched    int                  `json:"items_mismatched"`
	ItemsMissing       int                  `json:"items_missing"`
	ItemsAdditional    int                  `json:"items_additional"`
	QuantityVariances  []MatchingVariance   `json:"quantity_variances"`
	PriceVariances     []MatchingVariance   `json:"price_variances"`
	TotalVariances     []MatchingVariance   `json:"total_variances"`
	Recommendations    []Recommendation     `json:"recommendations"`
	RequiresApproval   bool                 `json:"requires_approval"`
	ApprovalLevel      ApprovalLevel        `json:"approval_level"`
	AuditTrail         []MatchingAuditEntry `json:"audit_trail"`
	MatchedAt          time.Time            `json:"matched_at"`
}

// HasRecommendation informa si el resultado contiene una recomendación del tipo dado.
func (r *InvoiceMatchingResult) HasRecommendation(t RecommendationType) bool {
	for _, rec := range r.Recommendations {
		if rec.Type == t {
			return true
		}
	}
	return false
}
