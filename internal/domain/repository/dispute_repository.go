package repository

import (
	"context"

	"github.com/jhoicas/hotel-procurement-api/internal/domain/entity"
)

// DisputeRepository puerto de persistencia de disputas con proveedores.
type DisputeRepository interface {
	Create(ctx context.Context, dispute *entity.Dispute) error
	GetByID(ctx context.Context, id string) (*entity.Dispute, error)
	// GetOpenByMatchingResult devuelve la disputa abierta del cruce, o nil.
	GetOpenByMatchingResult(ctx context.Context, matchingResultID string) (*entity.Dispute, error)
	ListByCompany(ctx context.Context, companyID, status string, limit, offset int) ([]*entity.Dispute, error)
}
