package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/hotel-procurement-api/internal/domain"
	"github.com/jhoicas/hotel-procurement-api/internal/domain/entity"
	"github.com/jhoicas/hotel-procurement-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*SupplierInvoiceRepo)(nil)

// SupplierInvoiceRepo facturas de proveedor (cuentas por pagar). Orden y recepción son
// columnas UUID nulas cuando la factura no las referencia.
type SupplierInvoiceRepo struct {
	q Querier
}

// NewSupplierInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplierInvoiceRepository(q Querier) *SupplierInvoiceRepo {
	return &SupplierInvoiceRepo{q: q}
}

const invoiceColumns = `id, company_id, supplier_id, number, purchase_order_id, grn_id, items, total, invoice_date, status, created_at, updated_at`

func scanInvoice(row rowScanner) (*entity.Invoice, error) {
	var inv entity.Invoice
	var poID, grnID *string
	var items []byte
	err := row.Scan(
		&inv.ID, &inv.CompanyID, &inv.SupplierID, &inv.Number, &poID, &grnID,
		&items, &inv.Total, &inv.InvoiceDate, &inv.Status, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.PurchaseOrderID = derefStr(poID)
	inv.GRNID = derefStr(grnID)
	if err := fromJSONB(items, &inv.Items); err != nil {
		return nil, err
	}
	return &inv, nil
}

// Create persiste la factura. El número es único por proveedor dentro de la empresa.
func (r *SupplierInvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	items, err := toJSONB(inv.Items)
	if err != nil {
		return err
	}
	query := `INSERT INTO supplier_invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err = r.q.Exec(ctx, query,
		inv.ID, inv.CompanyID, inv.SupplierID, inv.Number,
		nullIfEmpty(inv.PurchaseOrderID), nullIfEmpty(inv.GRNID),
		items, inv.Total, inv.InvoiceDate, inv.Status, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert supplier invoice: %w", err)
	}
	return nil
}

// GetByID obtiene una factura por ID.
func (r *SupplierInvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM supplier_invoices WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier invoice: %w", err)
	}
	return inv, nil
}

// GetBySupplierAndNumber busca una factura por proveedor y número.
func (r *SupplierInvoiceRepo) GetBySupplierAndNumber(ctx context.Context, companyID, supplierID, number string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM supplier_invoices WHERE company_id = $1 AND supplier_id = $2 AND number = $3`
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, companyID, supplierID, number))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier invoice by number: %w", err)
	}
	return inv, nil
}

// ListByCompany lista facturas con filtros opcionales de estado y proveedor.
func (r *SupplierInvoiceRepo) ListByCompany(ctx context.Context, companyID string, f repository.InvoiceFilter) ([]*entity.Invoice, error) {
	conds := []string{"company_id = $1"}
	args := []any{companyID}
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.SupplierID != "" {
		args = append(args, f.SupplierID)
		conds = append(conds, fmt.Sprintf("supplier_id = $%d", len(args)))
	}
	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM supplier_invoices WHERE %s ORDER BY invoice_date DESC, created_at DESC LIMIT $%d OFFSET $%d`,
		invoiceColumns, strings.Join(conds, " AND "), len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list supplier invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan supplier invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// UpdateStatus mueve la factura dentro del flujo de cuentas por pagar.
func (r *SupplierInvoiceRepo) UpdateStatus(ctx context.Context, id, status string, updatedAt time.Time) error {
	cmd, err := r.q.Exec(ctx, `UPDATE supplier_invoices SET status = $2, updated_at = $3 WHERE id = $1`, id, status, updatedAt)
	if err != nil {
		return fmt.Errorf("update supplier invoice status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
