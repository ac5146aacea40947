package repository

import (
	"context"
	"time"

	"github.com/jhoicas/hotel-procurement-api/internal/domain/entity"
)

// PurchaseOrderRepository define el puerto de persistencia para órdenes de compra.
// Las líneas se guardan junto con la cabecera.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, po *entity.PurchaseOrder) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.PurchaseOrder, error)
	// UpdateStatus cambia solo el estado; las líneas de una orden emitida no se modifican.
	UpdateStatus(ctx context.Context, id, status string, updatedAt time.Time) error
}
