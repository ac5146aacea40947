package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de la factura de proveedor dentro del flujo de cuentas por pagar.
const (
	InvoiceStatusPending          = "pending"           // Registrada, sin cruce
	InvoiceStatusMatched          = "matched"           // Cruce sin necesidad de aprobación
	InvoiceStatusAwaitingApproval = "awaiting-approval" // Cruce con variaciones que requieren aprobación
	InvoiceStatusApproved         = "approved"
	InvoiceStatusRejected         = "rejected"
	InvoiceStatusDisputed         = "disputed"
)

// Invoice representa la factura de un proveedor. PurchaseOrderID y GRNID son
// referencias opcionales (vacías = ausentes).
type Invoice struct {
	ID              string
	CompanyID       string
	SupplierID      string
	Number          string
	PurchaseOrderID string
	GRNID           string
	Items           []LineItem
	Total           decimal.Decimal
	InvoiceDate     time.Time
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
