package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de la orden de compra. Las transiciones las dispara el registro de recepciones.
const (
	POStatusOrdered           = "ordered"
	POStatusPartiallyReceived = "partially-received"
	POStatusReceived          = "received"
	POStatusCancelled         = "cancelled"
)

// PurchaseOrder orden de compra emitida a un proveedor. Inmutable una vez emitida,
// salvo las transiciones de estado.
type PurchaseOrder struct {
	ID         string
	CompanyID  string
	SupplierID string
	Number     string
	Status     string
	Items      []LineItem
	Total      decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CanTransitionTo indica si la orden puede pasar del estado actual a target.
func (po *PurchaseOrder) CanTransitionTo(target string) bool {
	switch po.Status {
	case POStatusOrdered:
		return target == POStatusPartiallyReceived || target == POStatusReceived || target == POStatusCancelled
	case POStatusPartiallyReceived:
		return target == POStatusPartiallyReceived || target == POStatusReceived
	case POStatusReceived, POStatusCancelled:
		return false
	}
	return false
}

// CanReceive informa si se pueden registrar recepciones contra la orden.
func (po *PurchaseOrder) CanReceive() bool {
	return po.Status == POStatusOrdered || po.Status == POStatusPartiallyReceived
}

// Item busca la primera línea con el ItemID dado.
func (po *PurchaseOrder) Item(itemID string) (LineItem, bool) {
	for _, it := range po.Items {
		if it.ItemID == itemID {
			return it, true
		}
	}
	return LineItem{}, false
}
