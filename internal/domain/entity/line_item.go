package entity

import "github.com/shopspring/decimal"

// LineItem línea común a orden de compra, recepción y factura de proveedor.
// Se identifica por ItemID (código del artículo de inventario).
// LineTotal ≈ Quantity × UnitPrice; se toleran diferencias de redondeo.
type LineItem struct {
	ItemID    string          `json:"item_id"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// ExpectedTotal devuelve Quantity × UnitPrice sin redondeo.
func (l LineItem) ExpectedTotal() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// SumLineTotals suma LineTotal de todas las líneas.
func SumLineTotals(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal)
	}
	return total
}
