package matching_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/hotel-procurement-api/internal/domain"
	"github.com/jhoicas/hotel-procurement-api/internal/domain/entity"
	"github.com/jhoicas/hotel-procurement-api/internal/domain/matching"
)

func TestToleranceConfig_PresetsSonValidos(t *testing.T) {
	require.NoError(t, matching.ThreeWayConfig().Validate())
	require.NoError(t, matching.TwoDocumentConfig().Validate())
}

func TestConfigForMode(t *testing.T) {
	cfg, err := matching.ConfigForMode("")
	require.NoError(t, err)
	assert.Equal(t, matching.ModeThreeWay, cfg.Mode, "modo vacío usa tres vías")
	assert.True(t, decimal.NewFromInt(2).Equal(cfg.PriceTolerance))

	cfg, err = matching.ConfigForMode(matching.ModeTwoDocument)
	require.NoError(t, err)
	assert.Equal(t, matching.BasePurchaseOrderTotal, cfg.VarianceBase)
	assert.Equal(t, entity.ApprovalSeniorManager, cfg.CeilingLevel)

	_, err = matching.ConfigForMode("four-way")
	assert.ErrorIs(t, err, domain.ErrInvalidTolerance)
}

func TestToleranceConfig_Validate_Invalidos(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(c *matching.ToleranceConfig)
	}{
		{"tolerancia negativa", func(c *matching.ToleranceConfig) { c.QuantityTolerance = decimal.NewFromInt(-1) }},
		{"tolerancia mayor a 100", func(c *matching.ToleranceConfig) { c.PriceTolerance = decimal.NewFromInt(101) }},
		{"modo desconocido", func(c *matching.ToleranceConfig) { c.Mode = "x" }},
		{"base desconocida", func(c *matching.ToleranceConfig) { c.VarianceBase = "x" }},
		{"revisión menor que total", func(c *matching.ToleranceConfig) { c.ReviewBand = decimal.NewFromInt(1) }},
		{"tramos no ascendentes", func(c *matching.ToleranceConfig) {
			c.ApprovalBands = []matching.ApprovalBand{
				{UpTo: decimal.NewFromInt(15), Level: entity.ApprovalManager},
				{UpTo: decimal.NewFromInt(5), Level: entity.ApprovalDirector},
			}
		}},
		{"tramo con auto-approve", func(c *matching.ToleranceConfig) {
			c.ApprovalBands = []matching.ApprovalBand{{UpTo: decimal.NewFromInt(5), Level: entity.ApprovalAuto}}
		}},
		{"sin nivel máximo", func(c *matching.ToleranceConfig) { c.CeilingLevel = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := matching.ThreeWayConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			assert.ErrorIs(t, err, domain.ErrInvalidTolerance)

			_, err = matching.NewEngine(cfg)
			assert.ErrorIs(t, err, domain.ErrInvalidTolerance, "NewEngine debe fallar en la construcción")
		})
	}
}

func TestToleranceConfig_Threshold(t *testing.T) {
	cfg := matching.ThreeWayConfig()
	assert.True(t, decimal.NewFromInt(5).Equal(cfg.Threshold(entity.FieldQuantity)))
	assert.True(t, decimal.NewFromInt(2).Equal(cfg.Threshold(entity.FieldPrice)))
	assert.True(t, decimal.NewFromInt(5).Equal(cfg.Threshold(entity.FieldTotal)))
}
