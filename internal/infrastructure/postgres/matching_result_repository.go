package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/hotel-procurement-api/internal/domain"
	"github.com/jhoicas/hotel-procurement-api/internal/domain/entity"
	"github.com/jhoicas/hotel-procurement-api/internal/domain/repository"
)

var _ repository.MatchingResultRepository = (*MatchingResultRepo)(nil)

// MatchingResultRepo guarda cada cruce como registro de auditoría. El resultado completo
// (variaciones, recomendaciones, pista) va en payload JSONB; las columnas escalares
// duplican lo necesario para filtrar e informar desde SQL.
type MatchingResultRepo struct {
	q Querier
}

// NewMatchingResultRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMatchingResultRepository(q Querier) *MatchingResultRepo {
	return &MatchingResultRepo{q: q}
}

func scanMatchingResult(row rowScanner) (*entity.InvoiceMatchingResult, error) {
	var payload []byte
	if err := row.Scan(&payload); err != nil {
		return nil, err
	}
	var res entity.InvoiceMatchingResult
	if err := fromJSONB(payload, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Create inserta un resultado nuevo. seq (BIGSERIAL) fija el orden de ejecución.
func (r *MatchingResultRepo) Create(ctx context.Context, res *entity.InvoiceMatchingResult) error {
	payload, err := toJSONB(res)
	if err != nil {
		return err
	}
	const query = `
		INSERT INTO matching_results (id, company_id, invoice_id, purchase_order_id, mode, match_status,
		                              overall_variance, variance_percentage, requires_approval, approval_level,
		                              payload, matched_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)`
	_, err = r.q.Exec(ctx, query,
		res.ID, res.CompanyID, res.InvoiceID, nullIfEmpty(res.PurchaseOrderID), res.Mode, string(res.MatchStatus),
		res.OverallVariance, res.VariancePercentage, res.RequiresApproval, string(res.ApprovalLevel),
		payload, res.MatchedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert matching result: %w", err)
	}
	return nil
}

// GetByID obtiene un resultado por ID.
func (r *MatchingResultRepo) GetByID(ctx context.Context, id string) (*entity.InvoiceMatchingResult, error) {
	res, err := scanMatchingResult(r.q.QueryRow(ctx, `SELECT payload FROM matching_results WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get matching result: %w", err)
	}
	return res, nil
}

// GetLatestByInvoice devuelve el último cruce ejecutado sobre la factura.
func (r *MatchingResultRepo) GetLatestByInvoice(ctx context.Context, invoiceID string) (*entity.InvoiceMatchingResult, error) {
	const query = `SELECT payload FROM matching_results WHERE invoice_id = $1 ORDER BY seq DESC LIMIT 1`
	res, err := scanMatchingResult(r.q.QueryRow(ctx, query, invoiceID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get latest matching result: %w", err)
	}
	return res, nil
}

// ListByInvoice devuelve el historial de cruces de la factura, el más reciente primero.
func (r *MatchingResultRepo) ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.InvoiceMatchingResult, error) {
	rows, err := r.q.Query(ctx, `SELECT payload FROM matching_results WHERE invoice_id = $1 ORDER BY seq DESC`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list matching results: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceMatchingResult
	for rows.Next() {
		res, err := scanMatchingResult(rows)
		if err != nil {
			return nil, fmt.Errorf("scan matching result: %w", err)
		}
		list = append(list, res)
	}
	return list, rows.Err()
}

// UpdateDecision reescribe estado y payload tras una decisión o disputa. Solo actualiza
// resultados sin decidir: si otra petición ya aprobó o rechazó devuelve domain.ErrInvalidState.
func (r *MatchingResultRepo) UpdateDecision(ctx context.Context, res *entity.InvoiceMatchingResult) error {
	payload, err := toJSONB(res)
	if err != nil {
		return err
	}
	const query = `
		UPDATE matching_results SET match_status = $2, payload = $3, updated_at = now()
		WHERE id = $1 AND match_status NOT IN ($4, $5)`
	cmd, err := r.q.Exec(ctx, query, res.ID, string(res.MatchStatus), payload,
		string(entity.MatchStatusApprovedWithVariance), string(entity.MatchStatusRejected))
	if err != nil {
		return fmt.Errorf("update matching result: %w", err)
	}
	if cmd.RowsAffected() > 0 {
		return nil
	}
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM matching_results WHERE id = $1)`, res.ID).Scan(&exists); err != nil {
		return fmt.Errorf("check matching result: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	return fmt.Errorf("%w: el cruce ya tiene una decisión", domain.ErrInvalidState)
}
