package main

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/hotel-procurement-api/internal/domain"
	"github.com/jhoicas/hotel-procurement-api/internal/domain/matching"
	"github.com/jhoicas/hotel-procurement-api/pkg/config"
)

// toleranceFromConfig parte del preset del modo y aplica los overrides de entorno.
func toleranceFromConfig(mc config.MatchingConfig) (matching.ToleranceConfig, error) {
	cfg, err := matching.ConfigForMode(matching.Mode(mc.Mode))
	if err != nil {
		return matching.ToleranceConfig{}, err
	}
	overrides := []struct {
		env   string
		raw   string
		field *decimal.Decimal
	}{
		{"MATCH_QUANTITY_TOLERANCE", mc.QuantityTolerance, &cfg.QuantityTolerance},
		{"MATCH_PRICE_TOLERANCE", mc.PriceTolerance, &cfg.PriceTolerance},
		{"MATCH_TOTAL_TOLERANCE", mc.TotalTolerance, &cfg.TotalTolerance},
	}
	for _, o := range overrides {
		if o.raw == "" {
			continue
		}
		v, err := decimal.NewFromString(o.raw)
		if err != nil {
			return matching.ToleranceConfig{}, fmt.Errorf("%w: %s=%q no es decimal", domain.ErrInvalidTolerance, o.env, o.raw)
		}
		*o.field = v
	}
	if mc.VarianceBase != "" {
		cfg.VarianceBase = matching.VarianceBase(mc.VarianceBase)
	}
	if err := cfg.Validate(); err != nil {
		return matching.ToleranceConfig{}, err
	}
	return cfg, nil
}
