package matching

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/hotel-procurement-api/internal/domain"
	"github.com/jhoicas/hotel-procurement-api/internal/domain/entity"
)

// Approve acepta el cruce con su variación. Devuelve una copia con estado
// approved-with-variance y la entrada de auditoría; result no se modifica.
func Approve(result *entity.InvoiceMatchingResult, actorID string, at time.Time) (*entity.InvoiceMatchingResult, error) {
	if err := checkDecidable(result, actorID); err != nil {
		return nil, err
	}
	out := Clone(result)
	out.MatchStatus = entity.MatchStatusApprovedWithVariance
	out.AuditTrail = append(out.AuditTrail, entity.MatchingAuditEntry{
		Timestamp:   at,
		Action:      entity.AuditActionApproved,
		PerformedBy: actorID,
		Details:     fmt.Sprintf("aprobado con variación de %s%%", result.VariancePercentage.StringFixed(2)),
	})
	return out, nil
}

// Reject rechaza el cruce. El motivo es obligatorio y queda en la auditoría.
func Reject(result *entity.InvoiceMatchingResult, actorID, reason string, at time.Time) (*entity.InvoiceMatchingResult, error) {
	if err := checkDecidable(result, actorID); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: el motivo del rechazo es obligatorio", domain.ErrInvalidInput)
	}
	out := Clone(result)
	out.MatchStatus = entity.MatchStatusRejected
	out.AuditTrail = append(out.AuditTrail, entity.MatchingAuditEntry{
		Timestamp:   at,
		Action:      entity.AuditActionRejected,
		PerformedBy: actorID,
		Details:     reason,
	})
	return out, nil
}

func checkDecidable(result *entity.InvoiceMatchingResult, actorID string) error {
	if result == nil {
		return fmt.Errorf("%w: resultado nulo", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(actorID) == "" {
		return fmt.Errorf("%w: el ejecutor es obligatorio", domain.ErrInvalidInput)
	}
	if result.MatchStatus.IsDecided() {
		return fmt.Errorf("%w: el cruce ya fue %s", domain.ErrInvalidState, result.MatchStatus)
	}
	return nil
}

// roleAuthority nivel máximo que cada rol puede aprobar.
var roleAuthority = map[string]entity.ApprovalLevel{
	entity.RoleAdmin:         entity.ApprovalCFO,
	entity.RoleCFO:           entity.ApprovalCFO,
	entity.RoleDirector:      entity.ApprovalDirector,
	entity.RoleSeniorManager: entity.ApprovalSeniorManager,
	entity.RoleManager:       entity.ApprovalManager,
}

// CanApprove informa si el rol tiene autoridad para aprobar un cruce del nivel dado.
// Cualquier rol puede aprobar lo que es auto-approve.
func CanApprove(role string, level entity.ApprovalLevel) bool {
	if level.Rank() < 0 {
		return false
	}
	authority, ok := roleAuthority[role]
	if !ok {
		return level == entity.ApprovalAuto
	}
	return authority.Rank() >= level.Rank()
}

// Clone copia profunda del resultado.
func Clone(r *entity.InvoiceMatchingResult) *entity.InvoiceMatchingResult {
	if r == nil {
		return nil
	}
	out := *r
	out.GRNIDs = append([]string(nil), r.GRNIDs...)
	out.QuantityVariances = cloneVariances(r.QuantityVariances)
	out.PriceVariances = cloneVariances(r.PriceVariances)
	out.TotalVariances = cloneVariances(r.TotalVariances)
	out.Recommendations = append([]entity.Recommendation(nil), r.Recommendations...)
	out.AuditTrail = append([]entity.MatchingAuditEntry(nil), r.AuditTrail...)
	return &out
}

func cloneVariances(in []entity.MatchingVariance) []entity.MatchingVariance {
	if in == nil {
		return nil
	}
	out := make([]entity.MatchingVariance, len(in))
	for i, v := range in {
		if v.POValue != nil {
			v.POValue = decimalPtr(*v.POValue)
		}
		if v.GRNValue != nil {
			v.GRNValue = decimalPtr(*v.GRNValue)
		}
		out[i] = v
	}
	return out
}
