package matching

import (
	"github.com/jhoicas/hotel-procurement-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Classification resultado de aplicar las tolerancias a un porcentaje de variación.
type Classification struct {
	WithinTolerance bool
	RequiresAction  bool
	Severity        entity.Severity
}

// Classify aplica la tolerancia del campo al porcentaje. El límite es inclusivo:
// |pct| == umbral se considera dentro de tolerancia.
func Classify(field entity.VarianceField, pct decimal.Decimal, cfg ToleranceConfig) Classification {
	abs := pct.Abs()
	within := abs.LessThanOrEqual(cfg.Threshold(field))
	c := Classification{
		WithinTolerance: within,
		RequiresAction:  !within,
		Severity:        entity.SeverityAcceptable,
	}
	switch {
	case within:
	case abs.GreaterThan(cfg.CriticalBand):
		c.Severity = entity.SeverityCritical
	default:
		c.Severity = entity.SeverityActionable
	}
	return c
}

// percentOf devuelve variance / reference × 100 redondeado a 4 decimales.
// Con referencia cero: ±100 si hay variación (signo de la variación), 0 si no la hay.
func percentOf(variance, reference decimal.Decimal) decimal.Decimal {
	if reference.IsZero() {
		switch variance.Sign() {
		case 1:
			return hundred
		case -1:
			return hundred.Neg()
		}
		return decimal.Zero
	}
	return variance.Div(reference.Abs()).Mul(hundred).Round(4)
}

// significant informa si el porcentaje supera VarianceEpsilon.
func significant(pct decimal.Decimal) bool {
	return pct.Abs().GreaterThan(varianceEpsilon)
}
