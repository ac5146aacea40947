package matching_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/hotel-procurement-api/internal/domain"
	"github.com/jhoicas/hotel-procurement-api/internal/domain/entity"
	"github.com/jhoicas/hotel-procurement-api/internal/domain/matching"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var fixedNow = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func line(itemID, qty, price string) entity.LineItem {
	q, p := dec(qty), dec(price)
	return entity.LineItem{ItemID: itemID, Name: "Artículo " + itemID, Quantity: q, UnitPrice: p, LineTotal: q.Mul(p)}
}

func purchaseOrder(id string, items ...entity.LineItem) *entity.PurchaseOrder {
	return &entity.PurchaseOrder{
		ID: id, CompanyID: "hotel-1", SupplierID: "sup-1", Number: "OC-" + id,
		Status: entity.POStatusReceived, Items: items, Total: entity.SumLineTotals(items),
	}
}

// grnFor crea una recepción contra la orden con las cantidades recibidas por artículo.
func grnFor(id string, po *entity.PurchaseOrder, received map[string]string) *entity.GoodsReceivedNote {
	g := &entity.GoodsReceivedNote{ID: id, CompanyID: po.CompanyID, PurchaseOrderID: po.ID, ReceivedBy: "almacen"}
	for _, it := range po.Items {
		qty, ok := received[it.ItemID]
		if !ok {
			continue
		}
		g.Items = append(g.Items, entity.ReceivedLineItem{
			LineItem:         it,
			ReceivedQuantity: dec(qty),
			QualityStatus:    entity.QualityAccepted,
		})
	}
	return g
}

func invoiceFor(po *entity.PurchaseOrder, items ...entity.LineItem) *entity.Invoice {
	inv := &entity.Invoice{
		ID: "inv-1", CompanyID: "hotel-1", SupplierID: "sup-1", Number: "FV-1",
		Items: items, Total: entity.SumLineTotals(items), Status: entity.InvoiceStatusPending,
	}
	if po != nil {
		inv.PurchaseOrderID = po.ID
	}
	return inv
}

func newEngine(t *testing.T, cfg matching.ToleranceConfig) *matching.Engine {
	t.Helper()
	e, err := matching.NewEngine(cfg, matching.WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	return e
}

func hasRecommendation(r *entity.InvoiceMatchingResult, typ entity.RecommendationType, prio entity.RecommendationPriority) bool {
	for _, rec := range r.Recommendations {
		if rec.Type == typ && rec.Priority == prio {
			return true
		}
	}
	return false
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenarios
// ──────────────────────────────────────────────────────────────────────────────

// Escenario A: orden, recepción y factura idénticas.
func TestMatch_EscenarioA_CruceCompleto(t *testing.T) {
	po := purchaseOrder("po-1", line("A", "10", "5"))
	grn := grnFor("grn-1", po, map[string]string{"A": "10"})
	inv := invoiceFor(po, line("A", "10", "5"))

	r := newEngine(t, matching.ThreeWayConfig()).Match(inv, []*entity.PurchaseOrder{po}, []*entity.GoodsReceivedNote{grn})

	assert.Equal(t, entity.MatchStatusFullyMatched, r.MatchStatus)
	assert.True(t, r.OverallVariance.IsZero())
	assert.Equal(t, 1, r.ItemsMatched)
	assert.Equal(t, 0, r.ItemsMismatched)
	assert.False(t, r.RequiresApproval)
	assert.Equal(t, entity.ApprovalAuto, r.ApprovalLevel)
	assert.Empty(t, r.QuantityVariances)
	assert.Empty(t, r.PriceVariances)
	assert.Empty(t, r.TotalVariances)
	assert.Equal(t, []string{"grn-1"}, r.GRNIDs)
	require.Len(t, r.Recommendations, 1)
	assert.Equal(t, entity.RecommendApprove, r.Recommendations[0].Type)
	assert.Equal(t, entity.PriorityInfo, r.Recommendations[0].Priority)
}

// Escenario B: se facturan 12 unidades y se recibieron 10.
func TestMatch_EscenarioB_VariacionDeCantidad(t *testing.T) {
	po := purchaseOrder("po-1", line("A", "10", "5"))
	grn := grnFor("grn-1", po, map[string]string{"A": "10"})
	inv := invoiceFor(po, line("A", "12", "5"))

	r := newEngine(t, matching.ThreeWayConfig()).Match(inv, []*entity.PurchaseOrder{po}, []*entity.GoodsReceivedNote{grn})

	require.Len(t, r.QuantityVariances, 1)
	qv := r.QuantityVariances[0]
	assert.True(t, dec("20").Equal(qv.VariancePercentage), "got %s", qv.VariancePercentage)
	assert.True(t, dec("2").Equal(qv.Variance))
	assert.False(t, qv.IsWithinTolerance)
	assert.True(t, qv.RequiresAction)
	assert.NotEmpty(t, qv.SuggestedAction)
	require.NotNil(t, qv.GRNValue)
	assert.True(t, dec("10").Equal(*qv.GRNValue))

	assert.Empty(t, r.PriceVariances)
	require.Len(t, r.TotalVariances, 1)
	assert.True(t, dec("10").Equal(r.OverallVariance))
	// 10 / 60 × 100
	assert.True(t, dec("16.6667").Equal(r.VariancePercentage), "got %s", r.VariancePercentage)
	assert.Equal(t, entity.MatchStatusPartiallyMatched, r.MatchStatus)
	assert.Equal(t, 0, r.ItemsMatched)
	assert.Equal(t, 1, r.ItemsMismatched)
	assert.Equal(t, entity.ApprovalDirector, r.ApprovalLevel)
	assert.True(t, r.RequiresApproval)
	assert.True(t, hasRecommendation(r, entity.RecommendCreateDispute, entity.PriorityActionRequired))
}

// Escenario C: la factura trae un artículo que no está en orden ni recepción.
func TestMatch_EscenarioC_ArticuloAdicional(t *testing.T) {
	po := purchaseOrder("po-1", line("A", "10", "5"))
	grn := grnFor("grn-1", po, map[string]string{"A": "10"})
	inv := invoiceFor(po, line("A", "10", "5"), line("X", "1", "20"))

	r := newEngine(t, matching.ThreeWayConfig()).Match(inv, []*entity.PurchaseOrder{po}, []*entity.GoodsReceivedNote{grn})

	assert.Equal(t, 1, r.ItemsAdditional)
	assert.Equal(t, 1, r.ItemsMatched)
	assert.Equal(t, 1, r.ItemsMismatched)
	require.Len(t, r.TotalVariances, 1)
	tv := r.TotalVariances[0]
	assert.Equal(t, "X", tv.ItemID)
	assert.True(t, dec("100").Equal(tv.VariancePercentage))
	assert.True(t, tv.RequiresAction)
	assert.Nil(t, tv.POValue)
	assert.Nil(t, tv.GRNValue)
	assert.True(t, hasRecommendation(r, entity.RecommendContactSupplier, entity.PriorityWarning))
	assert.Equal(t, entity.MatchStatusNeedsReview, r.MatchStatus)
}

// Escenario D: la orden tiene un artículo que nunca se facturó.
func TestMatch_EscenarioD_ArticuloFaltante(t *testing.T) {
	po := purchaseOrder("po-1", line("A", "10", "5"), line("B", "5", "4"))
	grn := grnFor("grn-1", po, map[string]string{"A": "10", "B": "5"})
	inv := invoiceFor(po, line("A", "10", "5"))

	r := newEngine(t, matching.ThreeWayConfig()).Match(inv, []*entity.PurchaseOrder{po}, []*entity.GoodsReceivedNote{grn})

	assert.Equal(t, 1, r.ItemsMissing)
	assert.Equal(t, 1, r.ItemsMatched)
	require.Len(t, r.TotalVariances, 1)
	mv := r.TotalVariances[0]
	assert.Equal(t, "B", mv.ItemID)
	assert.True(t, dec("-20").Equal(mv.Variance))
	assert.True(t, mv.InvoiceValue.IsZero())
	assert.True(t, hasRecommendation(r, entity.RecommendCreateDebitNote, entity.PriorityActionRequired))
	assert.True(t, dec("20").Equal(r.OverallVariance))
}

// ──────────────────────────────────────────────────────────────────────────────
// Propiedades
// ──────────────────────────────────────────────────────────────────────────────

func TestMatch_LimiteDeToleranciaInclusivo(t *testing.T) {
	po := purchaseOrder("po-1", line("A", "1", "100"))
	grn := grnFor("grn-1", po, map[string]string{"A": "1"})

	t.Run("precio exactamente en 2%", func(t *testing.T) {
		inv := invoiceFor(po, line("A", "1", "102"))
		r := newEngine(t, matching.ThreeWayConfig()).Match(inv, []*entity.PurchaseOrder{po}, []*entity.GoodsReceivedNote{grn})
		require.Len(t, r.PriceVariances, 1)
		assert.True(t, r.PriceVariances[0].IsWithinTolerance)
		assert.Equal(t, 1, r.ItemsMatched)
		assert.Equal(t, entity.MatchStatusFullyMatched, r.MatchStatus)
	})
	t.Run("precio en 2.01%", func(t *testing.T) {
		inv := invoiceFor(po, line("A", "1", "102.01"))
		r := newEngine(t, matching.ThreeWayConfig()).Match(inv, []*entity.PurchaseOrder{po}, []*entity.GoodsReceivedNote{grn})
		require.Len(t, r.PriceVariances, 1)
		assert.False(t, r.PriceVariances[0].IsWithinTolerance)
		assert.Equal(t, 1, r.ItemsMismatched)
		assert.Equal(t, entity.MatchStatusVarianceWithinTolerance, r.MatchStatus)
		assert.True(t, hasRecommendation(r, entity.RecommendApprove, entity.PriorityWarning))
	})
}

func TestMatch_VariacionMenorAEpsilonNoSeRegistra(t *testing.T) {
	po := purchaseOrder("po-1", line("A", "1000", "10"))
	grn := grnFor("grn-1", po, map[string]string{"A": "1000"})
	// 10.005 / 10 → 0.05%
	inv := invoiceFor(po, line("A", "1000", "10.005"))

	r := newEngine(t, matching.ThreeWayConfig()).Match(inv, []*entity.PurchaseOrder{po}, []*entity.GoodsReceivedNote{grn})
	assert.Empty(t, r.PriceVariances)
	assert.Empty(t, r.TotalVariances)
	assert.Equal(t, entity.MatchStatusFullyMatched, r.MatchStatus)
}

func TestMatch_AditividadDeArticulos(t *testing.T) {
	po := purchaseOrder("po-1", line("A", "10", "5"), line("B", "3", "7"), line("C", "1", "50"))
	grn := grnFor("grn-1", po, map[string]string{"A": "8", "B": "3"})
	invoices := []*entity.Invoice{
		invoiceFor(po),
		invoiceFor(po, line("A", "10", "5")),
		invoiceFor(po, line("A", "8", "5"), line("B", "3", "7.5"), line("Z", "2", "1")),
		invoiceFor(po, line("A", "8", "5"), line("A", "2", "5"), line("C", "1", "50")),
	}
	e := newEngine(t, matching.ThreeWayConfig())
	for _, inv := range invoices {
		r := e.Match(inv, []*entity.PurchaseOrder{po}, []*entity.GoodsReceivedNote{grn})
		assert.Equal(t, len(inv.Items), r.ItemsMatched+r.ItemsMismatched)
	}
}

func TestMatch_Idempotente(t *testing.T) {
	po := purchaseOrder("po-1", line("A", "10", "5"), line("B", "5", "4"))
	grn := grnFor("grn-1", po, map[string]string{"A": "9", "B": "5"})
	inv := invoiceFor(po, line("A", "10", "5.2"), line("Q", "1", "3"))

	e := newEngine(t, matching.ThreeWayConfig())
	r1 := e.Match(inv, []*entity.PurchaseOrder{po}, []*entity.GoodsReceivedNote{grn})
	r2 := e.Match(inv, []*entity.PurchaseOrder{po}, []*entity.GoodsReceivedNote{grn})
	assert.Equal(t, r1, r2)
}

func TestMatch_NoModificaDocumentos(t *testing.T) {
	po := purchaseOrder("po-1", line("A", "10", "5"))
	grn := grnFor("grn-1", po, map[string]string{"A": "10"})
	inv := invoiceFor(po, line("A", "12", "5"))
	poItems := append([]entity.LineItem(nil), po.Items...)
	invItems := append([]entity.LineItem(nil), inv.Items...)

	newEngine(t, matching.ThreeWayConfig()).Match(inv, []*entity.PurchaseOrder{po}, []*entity.GoodsReceivedNote{grn})

	assert.Equal(t, poItems, po.Items)
	assert.Equal(t, invItems, inv.Items)
	assert.Equal(t, entity.InvoiceStatusPending, inv.Status)
}

func TestMatch_SinOrdenNiRecepcion(t *testing.T) {
	inv := invoiceFor(nil, line("A", "10", "5"), line("B", "1", "10"))
	inv.PurchaseOrderID = "po-inexistente"

	r, err := matching.Match(inv, nil, nil, matching.ThreeWayConfig())
	require.NoError(t, err)

	assert.Equal(t, entity.MatchStatusNotMatched, r.MatchStatus)
	assert.True(t, r.RequiresApproval)
	assert.Equal(t, entity.ApprovalCFO, r.ApprovalLevel)
	assert.Equal(t, 2, r.ItemsMismatched)
	assert.Equal(t, 2, r.ItemsAdditional)
	assert.Equal(t, 0, r.ItemsMatched)
	assert.True(t, dec("60").Equal(r.OverallVariance))
	assert.True(t, dec("100").Equal(r.VariancePercentage))
	require.Len(t, r.Recommendations, 1)
	assert.Equal(t, entity.RecommendCreateDispute, r.Recommendations[0].Type)
	assert.Equal(t, entity.PriorityCritical, r.Recommendations[0].Priority)
	assert.Empty(t, r.PurchaseOrderID)
}

func TestMatch_LineasDeFacturaRepetidasSeConsolidan(t *testing.T) {
	po := purchaseOrder("po-1", line("A", "10", "5"))
	grn := grnFor("grn-1", po, map[string]string{"A": "10"})

	t.Run("mismo precio en dos líneas", func(t *testing.T) {
		inv := invoiceFor(po, line("A", "5", "5"), line("A", "5", "5"))
		r := newEngine(t, matching.ThreeWayConfig()).Match(inv, []*entity.PurchaseOrder{po}, []*entity.GoodsReceivedNote{grn})

		assert.Equal(t, entity.MatchStatusFullyMatched, r.MatchStatus)
		assert.Equal(t, 1, r.ItemsMatched)
		assert.Equal(t, 0, r.ItemsMismatched)
		assert.True(t, r.OverallVariance.IsZero())
		assert.True(t, r.VariancePercentage.IsZero())
		assert.Equal(t, entity.ApprovalAuto, r.ApprovalLevel)
		assert.Equal(t, invoiceFor(po, line("A", "5", "5"), line("A", "5", "5")).Items, inv.Items)
	})

	t.Run("precios distintos usan promedio ponderado", func(t *testing.T) {
		// 4 × 5 + 6 × 5.5 = 53 → precio medio 5.3 frente a 5.
		inv := invoiceFor(po, line("A", "4", "5"), line("A", "6", "5.5"))
		r := newEngine(t, matching.ThreeWayConfig()).Match(inv, []*entity.PurchaseOrder{po}, []*entity.GoodsReceivedNote{grn})

		assert.Equal(t, 0, r.ItemsMatched)
		assert.Equal(t, 1, r.ItemsMismatched)
		assert.Empty(t, r.QuantityVariances)
		require.Len(t, r.PriceVariances, 1)
		assert.False(t, r.PriceVariances[0].IsWithinTolerance)
		assert.True(t, dec("3").Equal(r.OverallVariance))
		assert.Equal(t, entity.MatchStatusPartiallyMatched, r.MatchStatus)
	})

	t.Run("artículo adicional repartido cuenta una vez", func(t *testing.T) {
		inv := invoiceFor(po, line("A", "10", "5"), line("X", "1", "2"), line("X", "2", "2"))
		r := newEngine(t, matching.ThreeWayConfig()).Match(inv, []*entity.PurchaseOrder{po}, []*entity.GoodsReceivedNote{grn})

		assert.Equal(t, 1, r.ItemsAdditional)
		assert.Equal(t, 1, r.ItemsMismatched)
		assert.True(t, dec("6").Equal(r.OverallVariance))
	})
}

// La variación global sale de un artículo pedido y recibido que no se facturó:
// con A = 100 facturado y B = pct pendiente, el porcentaje sobre la factura es pct.
func TestMatch_TramosDeAprobacionTresVias(t *testing.T) {
	tests := []struct {
		pct  string
		want entity.ApprovalLevel
	}{
		{"3", entity.ApprovalAuto},
		{"5", entity.ApprovalAuto},
		{"5.01", entity.ApprovalSeniorManager},
		{"15", entity.ApprovalSeniorManager},
		{"15.01", entity.ApprovalDirector},
		{"25", entity.ApprovalDirector},
		{"25.01", entity.ApprovalCFO},
		{"60", entity.ApprovalCFO},
	}
	for _, tt := range tests {
		t.Run(tt.pct, func(t *testing.T) {
			po := purchaseOrder("po-1", line("A", "100", "1"), line("B", "1", tt.pct))
			grn := grnFor("grn-1", po, map[string]string{"A": "100", "B": "1"})
			inv := invoiceFor(po, line("A", "100", "1"))

			r := newEngine(t, matching.ThreeWayConfig()).Match(inv, []*entity.PurchaseOrder{po}, []*entity.GoodsReceivedNote{grn})
			require.True(t, dec(tt.pct).Equal(r.VariancePercentage), "porcentaje %s", r.VariancePercentage)
			assert.Equal(t, tt.want, r.ApprovalLevel)
			assert.Equal(t, tt.want != entity.ApprovalAuto, r.RequiresApproval)
		})
	}
}

func TestMatch_TramoGerenteConToleranciaMenor(t *testing.T) {
	cfg := matching.ThreeWayConfig()
	cfg.TotalTolerance = dec("2")

	tests := []struct {
		pct  string
		want entity.ApprovalLevel
	}{
		{"2", entity.ApprovalAuto},
		{"2.01", entity.ApprovalManager},
		{"5", entity.ApprovalManager},
		{"5.01", entity.ApprovalSeniorManager},
	}
	for _, tt := range tests {
		t.Run(tt.pct, func(t *testing.T) {
			po := purchaseOrder("po-1", line("A", "100", "1"), line("B", "1", tt.pct))
			grn := grnFor("grn-1", po, map[string]string{"A": "100", "B": "1"})
			inv := invoiceFor(po, line("A", "100", "1"))

			r := newEngine(t, cfg).Match(inv, []*entity.PurchaseOrder{po}, []*entity.GoodsReceivedNote{grn})
			assert.Equal(t, tt.want, r.ApprovalLevel)
		})
	}
}

func TestMatch_FacturaNula(t *testing.T) {
	_, err := matching.Match(nil, nil, nil, matching.ThreeWayConfig())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMatch_RecepcionParcialUsaCantidadRecibida(t *testing.T) {
	po := purchaseOrder("po-1", line("A", "10", "5"))
	grn := grnFor("grn-1", po, map[string]string{"A": "8"})
	inv := invoiceFor(po, line("A", "8", "5"))

	r := newEngine(t, matching.ThreeWayConfig()).Match(inv, []*entity.PurchaseOrder{po}, []*entity.GoodsReceivedNote{grn})
	assert.Equal(t, entity.MatchStatusFullyMatched, r.MatchStatus)
	assert.Equal(t, 0, r.ItemsMissing)
}

func TestMatch_VariasRecepcionesSeSuman(t *testing.T) {
	po := purchaseOrder("po-1", line("A", "10", "5"))
	g1 := grnFor("grn-1", po, map[string]string{"A": "6"})
	g2 := grnFor("grn-2", po, map[string]string{"A": "4"})
	otra := grnFor("grn-x", purchaseOrder("po-2", line("A", "99", "5")), map[string]string{"A": "99"})
	inv := invoiceFor(po, line("A", "10", "5"))

	r := newEngine(t, matching.ThreeWayConfig()).Match(inv, []*entity.PurchaseOrder{po}, []*entity.GoodsReceivedNote{g1, g2, otra})
	assert.Equal(t, entity.MatchStatusFullyMatched, r.MatchStatus)
	assert.ElementsMatch(t, []string{"grn-1", "grn-2"}, r.GRNIDs)
}

func TestMatch_OrdenResueltaDesdeLaRecepcion(t *testing.T) {
	po := purchaseOrder("po-1", line("A", "10", "5"))
	grn := grnFor("grn-1", po, map[string]string{"A": "10"})
	inv := invoiceFor(nil, line("A", "10", "5"))
	inv.GRNID = "grn-1"

	r := newEngine(t, matching.ThreeWayConfig()).Match(inv, []*entity.PurchaseOrder{po}, []*entity.GoodsReceivedNote{grn})
	assert.Equal(t, "po-1", r.PurchaseOrderID)
	assert.Equal(t, entity.MatchStatusFullyMatched, r.MatchStatus)
}

func TestMatch_PrecioDeReferenciaCero(t *testing.T) {
	po := purchaseOrder("po-1", line("A", "1", "0"))
	grn := grnFor("grn-1", po, map[string]string{"A": "1"})
	inv := invoiceFor(po, line("A", "1", "3"))

	r := newEngine(t, matching.ThreeWayConfig()).Match(inv, []*entity.PurchaseOrder{po}, []*entity.GoodsReceivedNote{grn})
	require.Len(t, r.PriceVariances, 1)
	assert.True(t, dec("100").Equal(r.PriceVariances[0].VariancePercentage))
}

func TestMatch_ModoDosDocumentosIgnoraRecepciones(t *testing.T) {
	po := purchaseOrder("po-1", line("A", "10", "5"))
	grn := grnFor("grn-1", po, map[string]string{"A": "8"})
	inv := invoiceFor(po, line("A", "10", "5"))

	three := newEngine(t, matching.ThreeWayConfig()).Match(inv, []*entity.PurchaseOrder{po}, []*entity.GoodsReceivedNote{grn})
	assert.NotEmpty(t, three.QuantityVariances, "tres vías compara contra lo recibido")

	two := newEngine(t, matching.TwoDocumentConfig()).Match(inv, []*entity.PurchaseOrder{po}, []*entity.GoodsReceivedNote{grn})
	assert.Empty(t, two.QuantityVariances)
	assert.Empty(t, two.GRNIDs)
	assert.Equal(t, entity.MatchStatusFullyMatched, two.MatchStatus)
	assert.Equal(t, string(matching.ModeTwoDocument), two.Mode)
}

func TestMatch_ModoDosDocumentosBaseOrden(t *testing.T) {
	// Orden 100, factura 108: 8% sobre la orden → gerente (≤10%).
	po := purchaseOrder("po-1", line("A", "10", "10"))
	inv := invoiceFor(po, line("A", "10", "10.8"))

	r := newEngine(t, matching.TwoDocumentConfig()).Match(inv, []*entity.PurchaseOrder{po}, nil)
	assert.True(t, dec("8").Equal(r.VariancePercentage), "got %s", r.VariancePercentage)
	assert.Equal(t, entity.ApprovalManager, r.ApprovalLevel)
	assert.Equal(t, entity.MatchStatusPartiallyMatched, r.MatchStatus)
	assert.True(t, hasRecommendation(r, entity.RecommendRequestClarification, entity.PriorityWarning))
}

func TestMatch_AuditoriaInicial(t *testing.T) {
	po := purchaseOrder("po-1", line("A", "10", "5"))
	inv := invoiceFor(po, line("A", "10", "5"))

	r := newEngine(t, matching.ThreeWayConfig()).Match(inv, []*entity.PurchaseOrder{po}, nil)
	require.Len(t, r.AuditTrail, 1)
	assert.Equal(t, entity.AuditActionMatched, r.AuditTrail[0].Action)
	assert.Equal(t, matching.SystemActor, r.AuditTrail[0].PerformedBy)
	assert.Equal(t, fixedNow, r.AuditTrail[0].Timestamp)
	assert.Equal(t, fixedNow, r.MatchedAt)
}
