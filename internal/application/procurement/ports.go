package procurement

import (
	"context"

	"github.com/jhoicas/hotel-procurement-api/internal/domain/entity"
	"github.com/jhoicas/hotel-procurement-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx.
type TxRunner interface {
	// RunReceiving registra una recepción y actualiza el estado de la orden en la misma tx.
	RunReceiving(ctx context.Context, fn func(
		poRepo repository.PurchaseOrderRepository,
		grnRepo repository.GoodsReceivedNoteRepository,
	) error) error

	// RunMatching persiste resultado de cruce, estado de factura y disputa en la misma tx.
	RunMatching(ctx context.Context, fn func(
		resultRepo repository.MatchingResultRepository,
		invoiceRepo repository.InvoiceRepository,
		disputeRepo repository.DisputeRepository,
	) error) error
}

// DecisionLocker serializa las decisiones sobre una misma factura entre réplicas.
// Acquire devuelve domain.ErrConflict si otra réplica tiene el lock.
type DecisionLocker interface {
	Acquire(ctx context.Context, key string) (release func(context.Context), err error)
}

// MatchingReport datos necesarios para el informe PDF de un cruce.
type MatchingReport struct {
	Company       *entity.Company
	Supplier      *entity.Supplier
	Invoice       *entity.Invoice
	PurchaseOrder *entity.PurchaseOrder // nil si la factura no tiene orden
	Result        *entity.InvoiceMatchingResult
}

// ReportGenerator puerto para generar el informe de variaciones en PDF.
type ReportGenerator interface {
	GenerateMatchingReport(ctx context.Context, report *MatchingReport) ([]byte, error)
}
