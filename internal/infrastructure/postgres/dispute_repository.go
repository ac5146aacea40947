package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/hotel-procurement-api/internal/domain"
	"github.com/jhoicas/hotel-procurement-api/internal/domain/entity"
	"github.com/jhoicas/hotel-procurement-api/internal/domain/repository"
)

var _ repository.DisputeRepository = (*DisputeRepo)(nil)

// DisputeRepo disputas con proveedores.
type DisputeRepo struct {
	q Querier
}

// NewDisputeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDisputeRepository(q Querier) *DisputeRepo {
	return &DisputeRepo{q: q}
}

const disputeColumns = `id, company_id, supplier_id, purchase_order_id, grn_id, invoice_id, matching_result_id,
	dispute_type, disputed_amount, claim_amount, description, status, created_by, created_at`

func scanDispute(row rowScanner) (*entity.Dispute, error) {
	var d entity.Dispute
	var poID, grnID, invoiceID, resultID *string
	err := row.Scan(
		&d.ID, &d.CompanyID, &d.SupplierID, &poID, &grnID, &invoiceID, &resultID,
		&d.DisputeType, &d.DisputedAmount, &d.ClaimAmount, &d.Description, &d.Status, &d.CreatedBy, &d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	d.PurchaseOrderID = derefStr(poID)
	d.GRNID = derefStr(grnID)
	d.InvoiceID = derefStr(invoiceID)
	d.MatchingResultID = derefStr(resultID)
	return &d, nil
}

// Create persiste la disputa. El índice parcial uq_disputes_open_result impide dos
// disputas abiertas sobre el mismo cruce.
func (r *DisputeRepo) Create(ctx context.Context, d *entity.Dispute) error {
	query := `INSERT INTO disputes (` + disputeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		d.ID, d.CompanyID, d.SupplierID,
		nullIfEmpty(d.PurchaseOrderID), nullIfEmpty(d.GRNID), nullIfEmpty(d.InvoiceID), nullIfEmpty(d.MatchingResultID),
		d.DisputeType, d.DisputedAmount, d.ClaimAmount, d.Description, d.Status, d.CreatedBy, d.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert dispute: %w", err)
	}
	return nil
}

// GetByID obtiene una disputa por ID.
func (r *DisputeRepo) GetByID(ctx context.Context, id string) (*entity.Dispute, error) {
	d, err := scanDispute(r.q.QueryRow(ctx, `SELECT `+disputeColumns+` FROM disputes WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get dispute: %w", err)
	}
	return d, nil
}

// GetOpenByMatchingResult devuelve la disputa abierta del cruce, o nil.
func (r *DisputeRepo) GetOpenByMatchingResult(ctx context.Context, matchingResultID string) (*entity.Dispute, error) {
	query := `SELECT ` + disputeColumns + ` FROM disputes WHERE matching_result_id = $1 AND status = $2 LIMIT 1`
	d, err := scanDispute(r.q.QueryRow(ctx, query, matchingResultID, entity.DisputeStatusOpen))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get open dispute: %w", err)
	}
	return d, nil
}

// ListByCompany lista disputas, opcionalmente por estado, las más recientes primero.
func (r *DisputeRepo) ListByCompany(ctx context.Context, companyID, status string, limit, offset int) ([]*entity.Dispute, error) {
	query := `SELECT ` + disputeColumns + ` FROM disputes
		WHERE company_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, companyID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list disputes: %w", err)
	}
	defer rows.Close()
	var list []*entity.Dispute
	for rows.Next() {
		d, err := scanDispute(rows)
		if err != nil {
			return nil, fmt.Errorf("scan dispute: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}
