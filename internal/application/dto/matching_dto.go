package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/hotel-procurement-api/internal/domain/entity"
)

// MatchingResultResponse resultado de cruce para GET /api/matching-results/:id.
// Variaciones, recomendaciones y auditoría se exponen con el formato del dominio.
type MatchingResultResponse struct {
	ID                 string                      `json:"id"`
	InvoiceID          string                      `json:"invoice_id"`
	PurchaseOrderID    string                      `json:"purchase_order_id,omitempty"`
	GRNIDs             []string                    `json:"grn_ids"`
	Mode               string                      `json:"mode"`
	MatchStatus        string                      `json:"match_status"`
	OverallVariance    decimal.Decimal             `json:"overall_variance"`
	VariancePercentage decimal.Decimal             `json:"variance_percentage"`
	ItemsMatched       int                         `json:"items_matched"`
	ItemsMismatched    int                         `json:"items_mismatched"`
	ItemsMissing       int                         `json:"items_missing"`
	ItemsAdditional    int                         `json:"items_additional"`
	QuantityVariances  []entity.MatchingVariance   `json:"quantity_variances"`
	PriceVariances     []entity.MatchingVariance   `json:"price_variances"`
	TotalVariances     []entity.MatchingVariance   `json:"total_variances"`
	Recommendations    []entity.Recommendation     `json:"recommendations"`
	RequiresApproval   bool                        `json:"requires_approval"`
	ApprovalLevel      string                      `json:"approval_level"`
	AuditTrail         []entity.MatchingAuditEntry `json:"audit_trail"`
	MatchedAt          time.Time                   `json:"matched_at"`
	InvoiceStatus      string                      `json:"invoice_status,omitempty"`
}

// RejectMatchRequest body para POST /api/matching-results/:id/reject.
type RejectMatchRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

// RaiseDisputeRequest body para POST /api/matching-results/:id/disputes.
// Todos los campos son opcionales: por defecto el tipo se deduce de las variaciones y
// el monto reclamado es la variación global.
type RaiseDisputeRequest struct {
	DisputeType string           `json:"dispute_type" validate:"omitempty,oneof=quantity price missing-items additional-items unmatched-invoice other"`
	Description string           `json:"description" validate:"omitempty,max=1000"`
	ClaimAmount *decimal.Decimal `json:"claim_amount,omitempty"`
}

// DisputeResponse disputa en respuestas.
type DisputeResponse struct {
	ID               string          `json:"id"`
	SupplierID       string          `json:"supplier_id"`
	PurchaseOrderID  string          `json:"purchase_order_id,omitempty"`
	GRNID            string          `json:"grn_id,omitempty"`
	InvoiceID        string          `json:"invoice_id,omitempty"`
	MatchingResultID string          `json:"matching_result_id,omitempty"`
	DisputeType      string          `json:"dispute_type"`
	DisputedAmount   decimal.Decimal `json:"disputed_amount"`
	ClaimAmount      decimal.Decimal `json:"claim_amount"`
	Description      string          `json:"description"`
	Status           string          `json:"status"`
	CreatedBy        string          `json:"created_by"`
	CreatedAt        time.Time       `json:"created_at"`
}

// DisputeListResponse lista paginada de disputas.
type DisputeListResponse struct {
	Items []DisputeResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
