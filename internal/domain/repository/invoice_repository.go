package repository

import (
	"context"
	"time"

	"github.com/jhoicas/hotel-procurement-api/internal/domain/entity"
)

// InvoiceFilter filtros del listado de facturas de proveedor.
type InvoiceFilter struct {
	Status     string
	SupplierID string
	Limit      int
	Offset     int
}

// InvoiceRepository define el puerto de persistencia para facturas de proveedor.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// GetBySupplierAndNumber detecta facturas duplicadas del mismo proveedor.
	GetBySupplierAndNumber(ctx context.Context, companyID, supplierID, number string) (*entity.Invoice, error)
	ListByCompany(ctx context.Context, companyID string, filter InvoiceFilter) ([]*entity.Invoice, error)
	UpdateStatus(ctx context.Context, id, status string, updatedAt time.Time) error
}
