package matching

import (
	"fmt"

	"github.com/jhoicas/hotel-procurement-api/internal/domain/entity"
)

// Recommend genera la lista ordenada de recomendaciones para un resultado agregado.
// Las reglas son acumulativas; un resultado not-matched solo recibe la de disputa.
func Recommend(r *entity.InvoiceMatchingResult, cfg ToleranceConfig) []entity.Recommendation {
	if r.MatchStatus == entity.MatchStatusNotMatched {
		return []entity.Recommendation{{
			Type:        entity.RecommendCreateDispute,
			Priority:    entity.PriorityCritical,
			Message:     "No se encontró orden de compra ni recepción para la factura",
			ActionLabel: "Crear disputa",
		}}
	}

	pct := r.VariancePercentage.Abs()
	out := make([]entity.Recommendation, 0, 3)
	switch {
	case pct.LessThanOrEqual(cfg.TotalTolerance) && r.ItemsMismatched == 0 && r.ItemsMissing == 0:
		out = append(out, entity.Recommendation{
			Type:        entity.RecommendApprove,
			Priority:    entity.PriorityInfo,
			Message:     "Todos los artículos cuadran dentro de tolerancia",
			ActionLabel: "Aprobar",
		})
	case pct.LessThanOrEqual(cfg.TotalTolerance):
		out = append(out, entity.Recommendation{
			Type:     entity.RecommendApprove,
			Priority: entity.PriorityWarning,
			Message: fmt.Sprintf("Variación global de %s%% dentro de tolerancia, con %d artículo(s) fuera de tolerancia",
				pct.StringFixed(2), r.ItemsMismatched+r.ItemsMissing),
			ActionLabel: "Aprobar con variación",
		})
	case pct.LessThanOrEqual(cfg.ClarificationBand):
		out = append(out, entity.Recommendation{
			Type:        entity.RecommendRequestClarification,
			Priority:    entity.PriorityWarning,
			Message:     fmt.Sprintf("Variación global de %s%%: solicitar aclaración al proveedor", pct.StringFixed(2)),
			ActionLabel: "Solicitar aclaración",
		})
	default:
		out = append(out, entity.Recommendation{
			Type:        entity.RecommendCreateDispute,
			Priority:    entity.PriorityActionRequired,
			Message:     fmt.Sprintf("Variación global de %s%% supera el %s%%", pct.StringFixed(2), cfg.ClarificationBand.String()),
			ActionLabel: "Crear disputa",
		})
	}

	if r.ItemsAdditional > 0 {
		out = append(out, entity.Recommendation{
			Type:        entity.RecommendContactSupplier,
			Priority:    entity.PriorityWarning,
			Message:     fmt.Sprintf("%d artículo(s) facturado(s) sin orden ni recepción", r.ItemsAdditional),
			ActionLabel: "Contactar proveedor",
		})
	}
	if r.ItemsMissing > 0 {
		out = append(out, entity.Recommendation{
			Type:        entity.RecommendCreateDebitNote,
			Priority:    entity.PriorityActionRequired,
			Message:     fmt.Sprintf("%d artículo(s) recibido(s) o pedido(s) sin facturar", r.ItemsMissing),
			ActionLabel: "Crear nota débito",
		})
	}
	return out
}
