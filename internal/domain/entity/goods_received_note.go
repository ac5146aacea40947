package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Resultado de la inspección de calidad de una línea recibida.
const (
	QualityAccepted = "accepted"
	QualityPartial  = "partial"
	QualityRejected = "rejected"
)

// ReceivedLineItem línea de recepción: extiende LineItem con lo físicamente recibido.
type ReceivedLineItem struct {
	LineItem
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	DamagedQuantity  decimal.Decimal `json:"damaged_quantity"`
	BatchNumber      string          `json:"batch_number,omitempty"`
	ExpiryDate       *time.Time      `json:"expiry_date,omitempty"`
	QualityStatus    string          `json:"quality_status,omitempty"`
}

// GoodsReceivedNote nota de recepción de mercancía (GRN) contra una orden de compra.
// Se crea una sola vez; las cantidades pueden diferir de la orden (entregas parciales,
// sobre-entregas, daños).
type GoodsReceivedNote struct {
	ID              string
	CompanyID       string
	PurchaseOrderID string
	Number          string
	Items           []ReceivedLineItem
	ReceivedAt      time.Time
	ReceivedBy      string
	CreatedAt       time.Time
}
