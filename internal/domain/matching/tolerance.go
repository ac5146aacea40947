// Package matching implementa el cruce de tres vías (orden de compra, recepción y
// factura de proveedor) como servicio de dominio puro: sin I/O, sin estado compartido y
// determinista para una misma entrada y configuración.
//
// Flujo de un cruce:
//
//	Factura ──┐
//	Orden   ──┼─> Cálculo de variaciones ─> Clasificación ─> Agregado ─> Recomendaciones
//	GRN(s)  ──┘
package matching

import (
	"fmt"

	"github.com/jhoicas/hotel-procurement-api/internal/domain"
	"github.com/jhoicas/hotel-procurement-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Mode variante de cruce.
type Mode string

const (
	// ModeThreeWay cruza factura contra orden de compra y recepciones.
	ModeThreeWay Mode = "three-way"
	// ModeTwoDocument cruza factura contra orden de compra; ignora las recepciones.
	ModeTwoDocument Mode = "two-document"
)

// VarianceBase denominador del porcentaje de variación global.
type VarianceBase string

const (
	BaseInvoiceTotal       VarianceBase = "invoice-total"
	BasePurchaseOrderTotal VarianceBase = "purchase-order-total"
)

// VarianceEpsilon umbral (en puntos porcentuales) por debajo del cual una diferencia
// no genera registro de variación. Único para todas las comparaciones.
const VarianceEpsilon = 0.1

var (
	hundred         = decimal.NewFromInt(100)
	varianceEpsilon = decimal.NewFromFloat(VarianceEpsilon)
)

// ApprovalBand tramo de aprobación: variación global ≤ UpTo requiere Level.
type ApprovalBand struct {
	UpTo  decimal.Decimal
	Level entity.ApprovalLevel
}

// ToleranceConfig umbrales del cruce, en porcentaje (5 = 5%).
type ToleranceConfig struct {
	Mode              Mode
	QuantityTolerance decimal.Decimal
	PriceTolerance    decimal.Decimal
	TotalTolerance    decimal.Decimal

	// ClarificationBand: hasta este porcentaje global se pide aclaración; por encima, disputa.
	ClarificationBand decimal.Decimal
	// ReviewBand: límite superior de partially-matched; por encima, needs-review.
	ReviewBand decimal.Decimal
	// CriticalBand: una variación de línea por encima de este valor es crítica.
	CriticalBand decimal.Decimal

	VarianceBase VarianceBase

	// ApprovalBands en orden ascendente. Hasta TotalTolerance la aprobación es automática;
	// por encima del último tramo se requiere CeilingLevel.
	ApprovalBands []ApprovalBand
	CeilingLevel  entity.ApprovalLevel
}

// ThreeWayConfig configuración del cruce de tres vías: 5% cantidad y total, 2% precio,
// porcentaje global sobre el total de la factura.
func ThreeWayConfig() ToleranceConfig {
	return ToleranceConfig{
		Mode:              ModeThreeWay,
		QuantityTolerance: decimal.NewFromInt(5),
		PriceTolerance:    decimal.NewFromInt(2),
		TotalTolerance:    decimal.NewFromInt(5),
		ClarificationBand: decimal.NewFromInt(10),
		ReviewBand:        decimal.NewFromInt(20),
		CriticalBand:      decimal.NewFromInt(20),
		VarianceBase:      BaseInvoiceTotal,
		ApprovalBands: []ApprovalBand{
			{UpTo: decimal.NewFromInt(5), Level: entity.ApprovalManager},
			{UpTo: decimal.NewFromInt(15), Level: entity.ApprovalSeniorManager},
			{UpTo: decimal.NewFromInt(25), Level: entity.ApprovalDirector},
		},
		CeilingLevel: entity.ApprovalCFO,
	}
}

// TwoDocumentConfig configuración simple factura contra orden: 5% uniforme,
// porcentaje global sobre el total de la orden, dos tramos de aprobación.
func TwoDocumentConfig() ToleranceConfig {
	return ToleranceConfig{
		Mode:              ModeTwoDocument,
		QuantityTolerance: decimal.NewFromInt(5),
		PriceTolerance:    decimal.NewFromInt(5),
		TotalTolerance:    decimal.NewFromInt(5),
		ClarificationBand: decimal.NewFromInt(10),
		ReviewBand:        decimal.NewFromInt(20),
		CriticalBand:      decimal.NewFromInt(20),
		VarianceBase:      BasePurchaseOrderTotal,
		ApprovalBands: []ApprovalBand{
			{UpTo: decimal.NewFromInt(10), Level: entity.ApprovalManager},
		},
		CeilingLevel: entity.ApprovalSeniorManager,
	}
}

// ConfigForMode devuelve la configuración por defecto del modo.
func ConfigForMode(mode Mode) (ToleranceConfig, error) {
	switch mode {
	case ModeThreeWay, "":
		return ThreeWayConfig(), nil
	case ModeTwoDocument:
		return TwoDocumentConfig(), nil
	}
	return ToleranceConfig{}, fmt.Errorf("%w: modo desconocido %q", domain.ErrInvalidTolerance, mode)
}

// Threshold devuelve la tolerancia del campo.
func (c ToleranceConfig) Threshold(field entity.VarianceField) decimal.Decimal {
	switch field {
	case entity.FieldQuantity:
		return c.QuantityTolerance
	case entity.FieldPrice:
		return c.PriceTolerance
	case entity.FieldTotal:
		return c.TotalTolerance
	}
	return decimal.Zero
}

// Validate comprueba la configuración. Todo error envuelve domain.ErrInvalidTolerance.
func (c ToleranceConfig) Validate() error {
	if c.Mode != ModeThreeWay && c.Mode != ModeTwoDocument {
		return fmt.Errorf("%w: modo desconocido %q", domain.ErrInvalidTolerance, c.Mode)
	}
	if c.VarianceBase != BaseInvoiceTotal && c.VarianceBase != BasePurchaseOrderTotal {
		return fmt.Errorf("%w: base de variación desconocida %q", domain.ErrInvalidTolerance, c.VarianceBase)
	}
	named := []struct {
		name  string
		value decimal.Decimal
	}{
		{"cantidad", c.QuantityTolerance},
		{"precio", c.PriceTolerance},
		{"total", c.TotalTolerance},
		{"aclaración", c.ClarificationBand},
		{"revisión", c.ReviewBand},
		{"crítico", c.CriticalBand},
	}
	for _, n := range named {
		if n.value.IsNegative() || n.value.GreaterThan(hundred) {
			return fmt.Errorf("%w: umbral de %s fuera de [0, 100]: %s", domain.ErrInvalidTolerance, n.name, n.value)
		}
	}
	if c.ReviewBand.LessThan(c.TotalTolerance) {
		return fmt.Errorf("%w: el umbral de revisión no puede ser menor que la tolerancia total", domain.ErrInvalidTolerance)
	}
	if c.ClarificationBand.LessThan(c.TotalTolerance) {
		return fmt.Errorf("%w: el umbral de aclaración no puede ser menor que la tolerancia total", domain.ErrInvalidTolerance)
	}
	prev := decimal.Zero
	for i, b := range c.ApprovalBands {
		if b.Level.Rank() < 1 {
			return fmt.Errorf("%w: tramo %d con nivel inválido %q", domain.ErrInvalidTolerance, i, b.Level)
		}
		if b.UpTo.IsNegative() || b.UpTo.LessThan(prev) {
			return fmt.Errorf("%w: los tramos de aprobación deben ser ascendentes", domain.ErrInvalidTolerance)
		}
		prev = b.UpTo
	}
	if c.CeilingLevel.Rank() < 1 {
		return fmt.Errorf("%w: nivel máximo de aprobación inválido %q", domain.ErrInvalidTolerance, c.CeilingLevel)
	}
	return nil
}

// approvalLevelFor asigna el nivel de aprobación a un porcentaje global.
func (c ToleranceConfig) approvalLevelFor(pct decimal.Decimal) entity.ApprovalLevel {
	abs := pct.Abs()
	if abs.LessThanOrEqual(c.TotalTolerance) {
		return entity.ApprovalAuto
	}
	for _, b := range c.ApprovalBands {
		if abs.LessThanOrEqual(b.UpTo) {
			return b.Level
		}
	}
	return c.CeilingLevel
}
