package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de disputa con proveedor.
const (
	DisputeTypeQuantity         = "quantity"
	DisputeTypePrice            = "price"
	DisputeTypeMissingItems     = "missing-items"
	DisputeTypeAdditionalItems  = "additional-items"
	DisputeTypeUnmatchedInvoice = "unmatched-invoice"
	DisputeTypeOther            = "other"
)

// IsValidDisputeType informa si t es un tipo de disputa soportado.
func IsValidDisputeType(t string) bool {
	switch t {
	case DisputeTypeQuantity, DisputeTypePrice, DisputeTypeMissingItems,
		DisputeTypeAdditionalItems, DisputeTypeUnmatchedInvoice, DisputeTypeOther:
		return true
	}
	return false
}

// Estados de la disputa.
const (
	DisputeStatusOpen     = "open"
	DisputeStatusResolved = "resolved"
)

// Dispute reclamación abierta contra un proveedor a partir de un cruce de factura.
type Dispute struct {
	ID               string
	CompanyID        string
	SupplierID       string
	PurchaseOrderID  string
	GRNID            string
	InvoiceID        string
	MatchingResultID string
	DisputeType      string
	DisputedAmount   decimal.Decimal
	ClaimAmount      decimal.Decimal
	Description      string
	Status           string
	CreatedBy        string
	CreatedAt        time.Time
}
