package repository

import (
	"context"

	"github.com/jhoicas/hotel-procurement-api/internal/domain/entity"
)

// GoodsReceivedNoteRepository define el puerto de persistencia para recepciones (GRN).
// Una recepción se crea una sola vez y no se actualiza.
type GoodsReceivedNoteRepository interface {
	Create(ctx context.Context, grn *entity.GoodsReceivedNote) error
	GetByID(ctx context.Context, id string) (*entity.GoodsReceivedNote, error)
	ListByPurchaseOrder(ctx context.Context, purchaseOrderID string) ([]*entity.GoodsReceivedNote, error)
}
