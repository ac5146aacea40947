package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/hotel-procurement-api/internal/application/procurement"
	"github.com/jhoicas/hotel-procurement-api/internal/domain/entity"
	"github.com/jhoicas/hotel-procurement-api/internal/domain/repository"
)

// Ensure TxRunner implements procurement.TxRunner.
var _ procurement.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunReceiving registra una recepción y el cambio de estado de su orden en una sola tx.
// La fila de la orden queda bloqueada (FOR UPDATE) para serializar recepciones concurrentes.
func (r *TxRunner) RunReceiving(ctx context.Context, fn func(
	poRepo repository.PurchaseOrderRepository,
	grnRepo repository.GoodsReceivedNoteRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(&lockingPurchaseOrderRepo{NewPurchaseOrderRepository(tx), tx}, NewGoodsReceivedNoteRepository(tx))
	})
}

// RunMatching persiste resultado de cruce, estado de factura y disputa de forma atómica.
func (r *TxRunner) RunMatching(ctx context.Context, fn func(
	resultRepo repository.MatchingResultRepository,
	invoiceRepo repository.InvoiceRepository,
	disputeRepo repository.DisputeRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewMatchingResultRepository(tx), NewSupplierInvoiceRepository(tx), NewDisputeRepository(tx))
	})
}

// run inicia una transacción, ejecuta fn y hace Commit o Rollback.
func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// lockingPurchaseOrderRepo lee la orden con FOR UPDATE dentro de la tx de recepción.
type lockingPurchaseOrderRepo struct {
	*PurchaseOrderRepo
	tx pgx.Tx
}

func (r *lockingPurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	po, err := scanPurchaseOrder(r.tx.QueryRow(ctx, `SELECT `+purchaseOrderColumns+` FROM purchase_orders WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock purchase order: %w", err)
	}
	return po, nil
}
