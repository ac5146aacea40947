package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSupplierRequest body para POST /api/suppliers.
type CreateSupplierRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=200"`
	TaxID string `json:"tax_id" validate:"required,min=1,max=20"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone" validate:"omitempty,max=30"`
}

// SupplierResponse proveedor en respuestas.
type SupplierResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// SupplierListResponse lista paginada de proveedores.
type SupplierListResponse struct {
	Items []SupplierResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// LineItemRequest línea de orden o factura. LineTotal opcional: si falta se usa
// quantity × unit_price.
type LineItemRequest struct {
	ItemID    string           `json:"item_id" validate:"required,max=64"`
	Name      string           `json:"name" validate:"omitempty,max=200"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitPrice decimal.Decimal  `json:"unit_price"`
	LineTotal *decimal.Decimal `json:"line_total,omitempty"`
}

// LineItemResponse línea en respuestas.
type LineItemResponse struct {
	ItemID    string          `json:"item_id"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// CreatePurchaseOrderRequest body para POST /api/purchase-orders. El total lo calcula el servidor.
type CreatePurchaseOrderRequest struct {
	SupplierID string            `json:"supplier_id" validate:"required,uuid"`
	Number     string            `json:"number" validate:"required,min=1,max=50"`
	Items      []LineItemRequest `json:"items" validate:"required,min=1,dive"`
}

// PurchaseOrderResponse orden de compra con líneas.
type PurchaseOrderResponse struct {
	ID         string             `json:"id"`
	CompanyID  string             `json:"company_id"`
	SupplierID string             `json:"supplier_id"`
	Number     string             `json:"number"`
	Status     string             `json:"status"`
	Items      []LineItemResponse `json:"items"`
	Total      decimal.Decimal    `json:"total"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// PurchaseOrderListResponse lista paginada de órdenes.
type PurchaseOrderListResponse struct {
	Items []PurchaseOrderResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// ReceivedItemRequest línea recibida. Nombre y precio se toman de la orden.
type ReceivedItemRequest struct {
	ItemID           string          `json:"item_id" validate:"required,max=64"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	DamagedQuantity  decimal.Decimal `json:"damaged_quantity"`
	BatchNumber      string          `json:"batch_number" validate:"omitempty,max=50"`
	ExpiryDate       *time.Time      `json:"expiry_date,omitempty"`
	QualityStatus    string          `json:"quality_status" validate:"omitempty,oneof=accepted partial rejected"`
}

// RegisterGRNRequest body para POST /api/goods-received-notes.
type RegisterGRNRequest struct {
	PurchaseOrderID string                `json:"purchase_order_id" validate:"required,uuid"`
	Number          string                `json:"number" validate:"required,min=1,max=50"`
	ReceivedAt      *time.Time            `json:"received_at,omitempty"`
	Items           []ReceivedItemRequest `json:"items" validate:"required,min=1,dive"`
}

// ReceivedItemResponse línea recibida en respuestas.
type ReceivedItemResponse struct {
	LineItemResponse
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	DamagedQuantity  decimal.Decimal `json:"damaged_quantity"`
	BatchNumber      string          `json:"batch_number,omitempty"`
	ExpiryDate       *time.Time      `json:"expiry_date,omitempty"`
	QualityStatus    string          `json:"quality_status,omitempty"`
}

// GRNResponse recepción con líneas y el estado resultante de la orden.
type GRNResponse struct {
	ID                  string                 `json:"id"`
	CompanyID           string                 `json:"company_id"`
	PurchaseOrderID     string                 `json:"purchase_order_id"`
	PurchaseOrderStatus string                 `json:"purchase_order_status,omitempty"`
	Number              string                 `json:"number"`
	Items               []ReceivedItemResponse `json:"items"`
	ReceivedAt          time.Time              `json:"received_at"`
	ReceivedBy          string                 `json:"received_by"`
}

// CreateSupplierInvoiceRequest body para POST /api/supplier-invoices.
// Total opcional: si falta se usa la suma de líneas.
type CreateSupplierInvoiceRequest struct {
	SupplierID      string            `json:"supplier_id" validate:"required,uuid"`
	Number          string            `json:"number" validate:"required,min=1,max=50"`
	PurchaseOrderID string            `json:"purchase_order_id" validate:"omitempty,uuid"`
	GRNID           string            `json:"grn_id" validate:"omitempty,uuid"`
	InvoiceDate     time.Time         `json:"invoice_date" validate:"required"`
	Items           []LineItemRequest `json:"items" validate:"required,min=1,dive"`
	Total           *decimal.Decimal  `json:"total,omitempty"`
}

// SupplierInvoiceResponse factura de proveedor en respuestas.
type SupplierInvoiceResponse struct {
	ID              string             `json:"id"`
	CompanyID       string             `json:"company_id"`
	SupplierID      string             `json:"supplier_id"`
	Number          string             `json:"number"`
	PurchaseOrderID string             `json:"purchase_order_id,omitempty"`
	GRNID           string             `json:"grn_id,omitempty"`
	Items           []LineItemResponse `json:"items"`
	Total           decimal.Decimal    `json:"total"`
	InvoiceDate     time.Time          `json:"invoice_date"`
	Status          string             `json:"status"`
	CreatedAt       time.Time          `json:"created_at"`
}

// SupplierInvoiceListResponse lista paginada de facturas de proveedor.
type SupplierInvoiceListResponse struct {
	Items []SupplierInvoiceResponse `json:"items"`
	Page  PageResponse              `json:"page"`
}
