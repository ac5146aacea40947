package repository

import (
	"context"

	"github.com/jhoicas/hotel-procurement-api/internal/domain/entity"
)

// MatchingResultRepository guarda los resultados de cruce como registros de auditoría.
// Cada ejecución crea un registro nuevo; solo las decisiones del operador lo actualizan.
type MatchingResultRepository interface {
	Create(ctx context.Context, result *entity.InvoiceMatchingResult) error
	GetByID(ctx context.Context, id string) (*entity.InvoiceMatchingResult, error)
	GetLatestByInvoice(ctx context.Context, invoiceID string) (*entity.InvoiceMatchingResult, error)
	ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.InvoiceMatchingResult, error)
	// UpdateDecision persiste estado y pista de auditoría tras aprobar o rechazar.
	UpdateDecision(ctx context.Context, result *entity.InvoiceMatchingResult) error
}
