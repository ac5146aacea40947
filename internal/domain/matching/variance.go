package matching

import (
	"github.com/jhoicas/hotel-procurement-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Acciones sugeridas por tipo de variación.
const (
	actionQuantityOver  = "Solicitar nota crédito por unidades facturadas no recibidas"
	actionQuantityUnder = "Verificar entregas pendientes con el proveedor"
	actionPriceOver     = "Solicitar al proveedor la corrección del precio unitario"
	actionPriceUnder    = "Confirmar el precio con el proveedor y actualizar la orden"
	actionTotal         = "Revisar el total de la línea contra lo recibido"
	actionAdditional    = "Confirmar con el proveedor el artículo no solicitado"
	actionMissing       = "Registrar nota débito por artículo recibido y no facturado"
)

// reference vista consolidada de un artículo en la orden y en las recepciones.
// Las líneas duplicadas se acumulan; el precio es el promedio ponderado por cantidad.
type reference struct {
	itemID string
	name   string

	hasPO   bool
	poLines int
	poQty   decimal.Decimal
	poPrice decimal.Decimal
	poValue decimal.Decimal // Σ qty × precio de las líneas de la orden

	hasGRN   bool
	grnLines int
	grnQty   decimal.Decimal // Σ cantidades recibidas
	grnPrice decimal.Decimal
	grnValue decimal.Decimal
}

// quantity cantidad de referencia: lo recibido si hay línea de recepción, si no lo pedido.
func (r *reference) quantity() decimal.Decimal {
	if r.hasGRN {
		return r.grnQty
	}
	return r.poQty
}

// unitPrice precio de referencia: el de la orden; el de la recepción si no hay orden.
func (r *reference) unitPrice() decimal.Decimal {
	if r.hasPO {
		return r.poPrice
	}
	return r.grnPrice
}

func (r *reference) expectedTotal() decimal.Decimal {
	return r.quantity().Mul(r.unitPrice())
}

// buildReferences consolida las líneas de la orden y de las recepciones por ItemID.
// Devuelve el mapa y el orden de aparición (orden primero, luego solo-recepción).
func buildReferences(po *entity.PurchaseOrder, grns []*entity.GoodsReceivedNote) (map[string]*reference, []string) {
	refs := make(map[string]*reference)
	var order []string
	get := func(itemID, name string) *reference {
		r, ok := refs[itemID]
		if !ok {
			r = &reference{itemID: itemID, name: name}
			refs[itemID] = r
			order = append(order, itemID)
		}
		return r
	}

	if po != nil {
		for _, it := range po.Items {
			r := get(it.ItemID, it.Name)
			r.hasPO = true
			r.poLines++
			r.poQty = r.poQty.Add(it.Quantity)
			r.poValue = r.poValue.Add(it.ExpectedTotal())
			r.poPrice = weightedPrice(r.poLines, r.poValue, r.poQty, it.UnitPrice)
		}
	}
	for _, grn := range grns {
		for _, it := range grn.Items {
			r := get(it.ItemID, it.Name)
			r.hasGRN = true
			r.grnLines++
			r.grnQty = r.grnQty.Add(it.ReceivedQuantity)
			r.grnValue = r.grnValue.Add(it.ReceivedQuantity.Mul(it.UnitPrice))
			r.grnPrice = weightedPrice(r.grnLines, r.grnValue, r.grnQty, it.UnitPrice)
		}
	}
	return refs, order
}

// mergeInvoiceLines consolida las líneas de factura por ItemID igual que buildReferences:
// cantidades y totales se suman y el precio es el promedio ponderado por cantidad.
// Conserva el orden de primera aparición.
func mergeInvoiceLines(items []entity.LineItem) []entity.LineItem {
	out := make([]entity.LineItem, 0, len(items))
	index := make(map[string]int, len(items))
	lines := make(map[string]int, len(items))
	values := make(map[string]decimal.Decimal, len(items))
	for _, it := range items {
		lines[it.ItemID]++
		values[it.ItemID] = values[it.ItemID].Add(it.ExpectedTotal())
		i, ok := index[it.ItemID]
		if !ok {
			index[it.ItemID] = len(out)
			out = append(out, it)
			continue
		}
		m := &out[i]
		if m.Name == "" {
			m.Name = it.Name
		}
		m.Quantity = m.Quantity.Add(it.Quantity)
		m.LineTotal = m.LineTotal.Add(it.LineTotal)
		m.UnitPrice = weightedPrice(lines[it.ItemID], values[it.ItemID], m.Quantity, it.UnitPrice)
	}
	return out
}

// weightedPrice con una sola línea devuelve su precio tal cual; con varias, el promedio
// ponderado por cantidad.
func weightedPrice(lines int, value, qty, price decimal.Decimal) decimal.Decimal {
	if lines == 1 || qty.IsZero() {
		return price
	}
	return value.Div(qty)
}

// lineVariances calcula las variaciones de cantidad, precio y total de una línea de
// factura frente a su referencia. Solo emite campos con |%| > VarianceEpsilon.
func lineVariances(line entity.LineItem, ref *reference, cfg ToleranceConfig) []entity.MatchingVariance {
	refQty := ref.quantity()
	refPrice := ref.unitPrice()
	expected := ref.expectedTotal()

	var out []entity.MatchingVariance
	for _, field := range []entity.VarianceField{entity.FieldQuantity, entity.FieldPrice, entity.FieldTotal} {
		v := entity.MatchingVariance{
			ItemID:   line.ItemID,
			ItemName: itemName(line, ref),
			Field:    field,
		}
		var base decimal.Decimal
		switch field {
		case entity.FieldQuantity:
			v.InvoiceValue = line.Quantity
			base = refQty
			if ref.hasPO {
				v.POValue = decimalPtr(ref.poQty)
			}
			if ref.hasGRN {
				v.GRNValue = decimalPtr(ref.grnQty)
			}
		case entity.FieldPrice:
			v.InvoiceValue = line.UnitPrice
			base = refPrice
			if ref.hasPO {
				v.POValue = decimalPtr(ref.poPrice)
			}
			if ref.hasGRN {
				v.GRNValue = decimalPtr(ref.grnPrice)
			}
		case entity.FieldTotal:
			v.InvoiceValue = line.LineTotal
			base = expected
			if ref.hasPO {
				v.POValue = decimalPtr(ref.poQty.Mul(refPrice))
			}
			if ref.hasGRN {
				v.GRNValue = decimalPtr(ref.grnQty.Mul(refPrice))
			}
		}
		v.Variance = v.InvoiceValue.Sub(base)
		v.VariancePercentage = percentOf(v.Variance, base)
		if !significant(v.VariancePercentage) {
			continue
		}
		c := Classify(field, v.VariancePercentage, cfg)
		v.IsWithinTolerance = c.WithinTolerance
		v.RequiresAction = c.RequiresAction
		v.Severity = c.Severity
		if c.RequiresAction {
			v.SuggestedAction = suggestedAction(field, v.Variance)
		}
		out = append(out, v)
	}
	return out
}

// additionalVariance registro de un artículo facturado que no está en orden ni recepción.
func additionalVariance(line entity.LineItem) entity.MatchingVariance {
	return entity.MatchingVariance{
		ItemID:             line.ItemID,
		ItemName:           line.Name,
		Field:              entity.FieldTotal,
		InvoiceValue:       line.LineTotal,
		Variance:           line.LineTotal,
		VariancePercentage: hundred,
		IsWithinTolerance:  false,
		RequiresAction:     true,
		Severity:           entity.SeverityCritical,
		SuggestedAction:    actionAdditional,
	}
}

// missingVariance registro de un artículo pedido/recibido que nunca se facturó.
func missingVariance(ref *reference) entity.MatchingVariance {
	expected := ref.expectedTotal()
	v := entity.MatchingVariance{
		ItemID:             ref.itemID,
		ItemName:           ref.name,
		Field:              entity.FieldTotal,
		InvoiceValue:       decimal.Zero,
		Variance:           expected.Neg(),
		VariancePercentage: hundred.Neg(),
		IsWithinTolerance:  false,
		RequiresAction:     true,
		Severity:           entity.SeverityCritical,
		SuggestedAction:    actionMissing,
	}
	if ref.hasPO {
		v.POValue = decimalPtr(ref.poQty.Mul(ref.unitPrice()))
	}
	if ref.hasGRN {
		v.GRNValue = decimalPtr(ref.grnQty.Mul(ref.unitPrice()))
	}
	return v
}

func suggestedAction(field entity.VarianceField, variance decimal.Decimal) string {
	switch field {
	case entity.FieldQuantity:
		if variance.IsPositive() {
			return actionQuantityOver
		}
		return actionQuantityUnder
	case entity.FieldPrice:
		if variance.IsPositive() {
			return actionPriceOver
		}
		return actionPriceUnder
	case entity.FieldTotal:
		return actionTotal
	}
	return ""
}

func itemName(line entity.LineItem, ref *reference) string {
	if line.Name != "" {
		return line.Name
	}
	return ref.name
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}
