package procurement

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/hotel-procurement-api/internal/application/dto"
	"github.com/jhoicas/hotel-procurement-api/internal/domain"
	"github.com/jhoicas/hotel-procurement-api/internal/domain/entity"
	"github.com/jhoicas/hotel-procurement-api/internal/domain/matching"
	"github.com/jhoicas/hotel-procurement-api/internal/domain/repository"
	"github.com/jhoicas/hotel-procurement-api/pkg/logger"
)

// MatchUseCase ejecuta el cruce de tres vías sobre los documentos persistidos y
// registra las decisiones del operador.
type MatchUseCase struct {
	engine      *matching.Engine
	invoiceRepo repository.InvoiceRepository
	poRepo      repository.PurchaseOrderRepository
	grnRepo     repository.GoodsReceivedNoteRepository
	resultRepo  repository.MatchingResultRepository
	disputeRepo repository.DisputeRepository
	txRunner    TxRunner
	locker      DecisionLocker
	log         *logger.Logger
	now         func() time.Time
}

// NewMatchUseCase construye el caso de uso. Con locker nil se usa un LocalLocker, que
// serializa por factura dentro del proceso pero no entre réplicas.
func NewMatchUseCase(
	engine *matching.Engine,
	invoiceRepo repository.InvoiceRepository,
	poRepo repository.PurchaseOrderRepository,
	grnRepo repository.GoodsReceivedNoteRepository,
	resultRepo repository.MatchingResultRepository,
	disputeRepo repository.DisputeRepository,
	txRunner TxRunner,
	locker DecisionLocker,
	log *logger.Logger,
) *MatchUseCase {
	if locker == nil {
		locker = NewLocalLocker()
	}
	return &MatchUseCase{
		engine:      engine,
		invoiceRepo: invoiceRepo,
		poRepo:      poRepo,
		grnRepo:     grnRepo,
		resultRepo:  resultRepo,
		disputeRepo: disputeRepo,
		txRunner:    txRunner,
		locker:      locker,
		log:         log,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// RunMatch carga factura, orden y recepciones, ejecuta el motor y guarda el resultado.
// La factura pasa a matched si no requiere aprobación, si no a awaiting-approval.
// Una factura ya decidida (approved, rejected, disputed) no se vuelve a cruzar.
func (uc *MatchUseCase) RunMatch(ctx context.Context, companyID, userID, invoiceID string) (*dto.MatchingResultResponse, error) {
	release, err := uc.lock(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	defer release(ctx)

	inv, err := loadInvoice(ctx, uc.invoiceRepo, companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	switch inv.Status {
	case entity.InvoiceStatusApproved, entity.InvoiceStatusRejected, entity.InvoiceStatusDisputed:
		return nil, fmt.Errorf("%w: la factura está en estado %s", domain.ErrInvalidState, inv.Status)
	}

	pos, grns, err := uc.references(ctx, companyID, inv)
	if err != nil {
		return nil, err
	}

	result := uc.engine.Match(inv, pos, grns)
	result.ID = uuid.New().String()
	result.AuditTrail[0].Details += "; solicitado por " + userID

	status := entity.InvoiceStatusMatched
	if result.RequiresApproval {
		status = entity.InvoiceStatusAwaitingApproval
	}
	err = uc.txRunner.RunMatching(ctx, func(resultRepo repository.MatchingResultRepository, invoiceRepo repository.InvoiceRepository, _ repository.DisputeRepository) error {
		if err := resultRepo.Create(ctx, result); err != nil {
			return err
		}
		return invoiceRepo.UpdateStatus(ctx, inv.ID, status, result.MatchedAt)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("invoice_id", inv.ID).
		Str("result_id", result.ID).
		Str("status", string(result.MatchStatus)).
		Str("variance_pct", result.VariancePercentage.StringFixed(2)).
		Str("approval_level", string(result.ApprovalLevel)).
		Msg("cruce de factura ejecutado")
	return toMatchingResultResponse(result, status), nil
}

// references resuelve la orden (de la factura o de su recepción) y todas las
// recepciones relevantes. Documentos de otra empresa se ignoran.
func (uc *MatchUseCase) references(ctx context.Context, companyID string, inv *entity.Invoice) ([]*entity.PurchaseOrder, []*entity.GoodsReceivedNote, error) {
	var pos []*entity.PurchaseOrder
	var grns []*entity.GoodsReceivedNote
	seen := make(map[string]bool)

	poID := inv.PurchaseOrderID
	if inv.GRNID != "" {
		grn, err := uc.grnRepo.GetByID(ctx, inv.GRNID)
		if err != nil {
			return nil, nil, fmt.Errorf("cargar recepción: %w", err)
		}
		if grn != nil && grn.CompanyID == companyID {
			grns = append(grns, grn)
			seen[grn.ID] = true
			if poID == "" {
				poID = grn.PurchaseOrderID
			}
		}
	}
	if poID == "" {
		return pos, grns, nil
	}
	po, err := uc.poRepo.GetByID(ctx, poID)
	if err != nil {
		return nil, nil, fmt.Errorf("cargar orden: %w", err)
	}
	if po == nil || po.CompanyID != companyID {
		return pos, grns, nil
	}
	pos = append(pos, po)
	list, err := uc.grnRepo.ListByPurchaseOrder(ctx, po.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("listar recepciones: %w", err)
	}
	for _, g := range list {
		if !seen[g.ID] {
			grns = append(grns, g)
			seen[g.ID] = true
		}
	}
	return pos, grns, nil
}

// GetLatest devuelve el último cruce de la factura.
func (uc *MatchUseCase) GetLatest(ctx context.Context, companyID, invoiceID string) (*dto.MatchingResultResponse, error) {
	inv, err := loadInvoice(ctx, uc.invoiceRepo, companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	r, err := uc.resultRepo.GetLatestByInvoice(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	return toMatchingResultResponse(r, inv.Status), nil
}

// GetResult devuelve un resultado de cruce por ID.
func (uc *MatchUseCase) GetResult(ctx context.Context, companyID, resultID string) (*dto.MatchingResultResponse, error) {
	r, err := loadResult(ctx, uc.resultRepo, companyID, resultID)
	if err != nil {
		return nil, err
	}
	return toMatchingResultResponse(r, ""), nil
}

// Approve aprueba el cruce. El rol debe tener autoridad para el nivel requerido y el
// resultado debe ser el último de la factura.
func (uc *MatchUseCase) Approve(ctx context.Context, companyID, userID, role, resultID string) (*dto.MatchingResultResponse, error) {
	return uc.decide(ctx, companyID, role, resultID, entity.InvoiceStatusApproved,
		func(r *entity.InvoiceMatchingResult, at time.Time) (*entity.InvoiceMatchingResult, error) {
			return matching.Approve(r, userID, at)
		})
}

// Reject rechaza el cruce con un motivo. Exige la misma autoridad que la aprobación.
func (uc *MatchUseCase) Reject(ctx context.Context, companyID, userID, role, resultID, reason string) (*dto.MatchingResultResponse, error) {
	return uc.decide(ctx, companyID, role, resultID, entity.InvoiceStatusRejected,
		func(r *entity.InvoiceMatchingResult, at time.Time) (*entity.InvoiceMatchingResult, error) {
			return matching.Reject(r, userID, reason, at)
		})
}

type decision func(r *entity.InvoiceMatchingResult, at time.Time) (*entity.InvoiceMatchingResult, error)

func (uc *MatchUseCase) decide(ctx context.Context, companyID, role, resultID, invoiceStatus string, apply decision) (*dto.MatchingResultResponse, error) {
	current, err := loadResult(ctx, uc.resultRepo, companyID, resultID)
	if err != nil {
		return nil, err
	}
	release, err := uc.lock(ctx, current.InvoiceID)
	if err != nil {
		return nil, err
	}
	defer release(ctx)

	latest, err := uc.latestUnderLock(ctx, current)
	if err != nil {
		return nil, err
	}
	if !matching.CanApprove(role, latest.ApprovalLevel) {
		return nil, domain.ErrInsufficientRole
	}
	decided, err := apply(latest, uc.now())
	if err != nil {
		return nil, err
	}
	err = uc.txRunner.RunMatching(ctx, func(resultRepo repository.MatchingResultRepository, invoiceRepo repository.InvoiceRepository, _ repository.DisputeRepository) error {
		if err := resultRepo.UpdateDecision(ctx, decided); err != nil {
			return err
		}
		return invoiceRepo.UpdateStatus(ctx, decided.InvoiceID, invoiceStatus, uc.now())
	})
	if err != nil {
		return nil, err
	}
	last := decided.AuditTrail[len(decided.AuditTrail)-1]
	uc.log.Info().
		Str("invoice_id", decided.InvoiceID).
		Str("result_id", decided.ID).
		Str("status", string(decided.MatchStatus)).
		Str("approval_level", string(decided.ApprovalLevel)).
		Str("performed_by", last.PerformedBy).
		Msg("decisión de cruce registrada")
	return toMatchingResultResponse(decided, invoiceStatus), nil
}

// RaiseDispute abre una disputa con el proveedor a partir de un cruce que la recomienda.
// Sin indicaciones del operador, el tipo se deduce de las variaciones, el monto en
// disputa es el total de la factura y el reclamado es la variación global.
func (uc *MatchUseCase) RaiseDispute(ctx context.Context, companyID, userID, resultID string, in dto.RaiseDisputeRequest) (*dto.DisputeResponse, error) {
	current, err := loadResult(ctx, uc.resultRepo, companyID, resultID)
	if err != nil {
		return nil, err
	}
	if !current.HasRecommendation(entity.RecommendCreateDispute) {
		return nil, fmt.Errorf("%w: el cruce no recomienda abrir disputa", domain.ErrInvalidState)
	}
	if in.ClaimAmount != nil && in.ClaimAmount.IsNegative() {
		return nil, fmt.Errorf("%w: monto reclamado negativo", domain.ErrInvalidInput)
	}
	release, err := uc.lock(ctx, current.InvoiceID)
	if err != nil {
		return nil, err
	}
	defer release(ctx)

	current, err = uc.latestUnderLock(ctx, current)
	if err != nil {
		return nil, err
	}
	if current.MatchStatus.IsDecided() {
		return nil, fmt.Errorf("%w: el cruce ya fue %s", domain.ErrInvalidState, current.MatchStatus)
	}

	open, err := uc.disputeRepo.GetOpenByMatchingResult(ctx, current.ID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, domain.ErrDuplicate
	}
	inv, err := loadInvoice(ctx, uc.invoiceRepo, companyID, current.InvoiceID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	d := &entity.Dispute{
		ID:               uuid.New().String(),
		CompanyID:        companyID,
		SupplierID:       inv.SupplierID,
		PurchaseOrderID:  current.PurchaseOrderID,
		GRNID:            inv.GRNID,
		InvoiceID:        inv.ID,
		MatchingResultID: current.ID,
		DisputeType:      in.DisputeType,
		DisputedAmount:   inv.Total,
		ClaimAmount:      current.OverallVariance,
		Description:      strings.TrimSpace(in.Description),
		Status:           entity.DisputeStatusOpen,
		CreatedBy:        userID,
		CreatedAt:        now,
	}
	if d.GRNID == "" && len(current.GRNIDs) > 0 {
		d.GRNID = current.GRNIDs[0]
	}
	if d.DisputeType == "" {
		d.DisputeType = DisputeTypeFor(current)
	}
	if in.ClaimAmount != nil {
		d.ClaimAmount = *in.ClaimAmount
	}
	if d.Description == "" {
		d.Description = disputeDescription(inv, current)
	}

	audited := matching.Clone(current)
	audited.AuditTrail = append(audited.AuditTrail, entity.MatchingAuditEntry{
		Timestamp:   now,
		Action:      entity.AuditActionDisputed,
		PerformedBy: userID,
		Details:     fmt.Sprintf("disputa %s (%s) por %s", d.ID, d.DisputeType, d.ClaimAmount.StringFixed(2)),
	})
	err = uc.txRunner.RunMatching(ctx, func(resultRepo repository.MatchingResultRepository, invoiceRepo repository.InvoiceRepository, disputeRepo repository.DisputeRepository) error {
		if err := disputeRepo.Create(ctx, d); err != nil {
			return err
		}
		if err := resultRepo.UpdateDecision(ctx, audited); err != nil {
			return err
		}
		return invoiceRepo.UpdateStatus(ctx, inv.ID, entity.InvoiceStatusDisputed, now)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("dispute_id", d.ID).
		Str("invoice_id", inv.ID).
		Str("dispute_type", d.DisputeType).
		Str("claim_amount", d.ClaimAmount.StringFixed(2)).
		Msg("disputa creada")
	return toDisputeResponse(d), nil
}

// ListDisputes lista disputas de la empresa, opcionalmente por estado.
func (uc *MatchUseCase) ListDisputes(ctx context.Context, companyID, status string, page dto.PageRequest) (*dto.DisputeListResponse, error) {
	page.DefaultPage()
	list, err := uc.disputeRepo.ListByCompany(ctx, companyID, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.DisputeResponse, 0, len(list))
	for _, d := range list {
		items = append(items, *toDisputeResponse(d))
	}
	return &dto.DisputeListResponse{Items: items, Page: page.Response(len(items))}, nil
}

// DisputeTypeFor deduce el tipo de disputa a partir de las variaciones del cruce.
func DisputeTypeFor(r *entity.InvoiceMatchingResult) string {
	switch {
	case r.MatchStatus == entity.MatchStatusNotMatched:
		return entity.DisputeTypeUnmatchedInvoice
	case anyOutOfTolerance(r.PriceVariances):
		return entity.DisputeTypePrice
	case anyOutOfTolerance(r.QuantityVariances):
		return entity.DisputeTypeQuantity
	case r.ItemsMissing > 0:
		return entity.DisputeTypeMissingItems
	case r.ItemsAdditional > 0:
		return entity.DisputeTypeAdditionalItems
	}
	return entity.DisputeTypeOther
}

func anyOutOfTolerance(vs []entity.MatchingVariance) bool {
	for _, v := range vs {
		if !v.IsWithinTolerance {
			return true
		}
	}
	return false
}

func disputeDescription(inv *entity.Invoice, r *entity.InvoiceMatchingResult) string {
	for _, rec := range r.Recommendations {
		if rec.Type == entity.RecommendCreateDispute {
			return fmt.Sprintf("Factura %s: %s", inv.Number, rec.Message)
		}
	}
	return fmt.Sprintf("Factura %s: variación de %s", inv.Number, r.OverallVariance.StringFixed(2))
}

func (uc *MatchUseCase) lock(ctx context.Context, invoiceID string) (func(context.Context), error) {
	return uc.locker.Acquire(ctx, "matching:invoice:"+invoiceID)
}

// latestUnderLock relee el último cruce de la factura con el lock tomado: otra petición
// pudo decidir o re-cruzar mientras tanto. Solo el último resultado admite cambios.
func (uc *MatchUseCase) latestUnderLock(ctx context.Context, current *entity.InvoiceMatchingResult) (*entity.InvoiceMatchingResult, error) {
	latest, err := uc.resultRepo.GetLatestByInvoice(ctx, current.InvoiceID)
	if err != nil {
		return nil, err
	}
	if latest == nil || latest.ID != current.ID {
		return nil, fmt.Errorf("%w: existe un cruce más reciente para la factura", domain.ErrConflict)
	}
	return latest, nil
}

func loadResult(ctx context.Context, repo repository.MatchingResultRepository, companyID, id string) (*entity.InvoiceMatchingResult, error) {
	r, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	if r.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return r, nil
}
