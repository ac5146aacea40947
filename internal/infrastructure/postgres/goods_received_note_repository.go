package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/hotel-procurement-api/internal/domain"
	"github.com/jhoicas/hotel-procurement-api/internal/domain/entity"
	"github.com/jhoicas/hotel-procurement-api/internal/domain/repository"
)

var _ repository.GoodsReceivedNoteRepository = (*GoodsReceivedNoteRepo)(nil)

// GoodsReceivedNoteRepo recepciones de mercancía. Solo inserción y lectura.
type GoodsReceivedNoteRepo struct {
	q Querier
}

// NewGoodsReceivedNoteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewGoodsReceivedNoteRepository(q Querier) *GoodsReceivedNoteRepo {
	return &GoodsReceivedNoteRepo{q: q}
}

const grnColumns = `id, company_id, purchase_order_id, number, items, received_at, received_by, created_at`

func scanGRN(row rowScanner) (*entity.GoodsReceivedNote, error) {
	var g entity.GoodsReceivedNote
	var items []byte
	if err := row.Scan(&g.ID, &g.CompanyID, &g.PurchaseOrderID, &g.Number, &items, &g.ReceivedAt, &g.ReceivedBy, &g.CreatedAt); err != nil {
		return nil, err
	}
	if err := fromJSONB(items, &g.Items); err != nil {
		return nil, err
	}
	return &g, nil
}

// Create persiste la recepción con sus líneas.
func (r *GoodsReceivedNoteRepo) Create(ctx context.Context, g *entity.GoodsReceivedNote) error {
	items, err := toJSONB(g.Items)
	if err != nil {
		return err
	}
	query := `INSERT INTO goods_received_notes (` + grnColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = r.q.Exec(ctx, query,
		g.ID, g.CompanyID, g.PurchaseOrderID, g.Number, items, g.ReceivedAt, g.ReceivedBy, g.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert goods received note: %w", err)
	}
	return nil
}

// GetByID obtiene una recepción por ID.
func (r *GoodsReceivedNoteRepo) GetByID(ctx context.Context, id string) (*entity.GoodsReceivedNote, error) {
	g, err := scanGRN(r.q.QueryRow(ctx, `SELECT `+grnColumns+` FROM goods_received_notes WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get goods received note: %w", err)
	}
	return g, nil
}

// ListByPurchaseOrder devuelve las recepciones de la orden en orden de llegada.
func (r *GoodsReceivedNoteRepo) ListByPurchaseOrder(ctx context.Context, purchaseOrderID string) ([]*entity.GoodsReceivedNote, error) {
	query := `SELECT ` + grnColumns + ` FROM goods_received_notes WHERE purchase_order_id = $1 ORDER BY received_at, created_at`
	rows, err := r.q.Query(ctx, query, purchaseOrderID)
	if err != nil {
		return nil, fmt.Errorf("list goods received notes: %w", err)
	}
	defer rows.Close()
	var list []*entity.GoodsReceivedNote
	for rows.Next() {
		g, err := scanGRN(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goods received note: %w", err)
		}
		list = append(list, g)
	}
	return list, rows.Err()
}
