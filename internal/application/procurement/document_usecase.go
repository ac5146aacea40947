// Package procurement orquesta el flujo de compras del hotel: proveedores, órdenes,
// recepciones, facturas de proveedor, cruce de tres vías, decisiones y disputas.
package procurement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/hotel-procurement-api/internal/application/dto"
	"github.com/jhoicas/hotel-procurement-api/internal/domain"
	"github.com/jhoicas/hotel-procurement-api/internal/domain/entity"
	"github.com/jhoicas/hotel-procurement-api/internal/domain/repository"
	"github.com/jhoicas/hotel-procurement-api/pkg/logger"
	"github.com/jhoicas/hotel-procurement-api/pkg/taxid"
)

// DocumentUseCase casos de uso del almacén de documentos de compra.
type DocumentUseCase struct {
	supplierRepo repository.SupplierRepository
	poRepo       repository.PurchaseOrderRepository
	grnRepo      repository.GoodsReceivedNoteRepository
	invoiceRepo  repository.InvoiceRepository
	txRunner     TxRunner
	log          *logger.Logger
	now          func() time.Time
}

// NewDocumentUseCase construye el caso de uso.
func NewDocumentUseCase(
	supplierRepo repository.SupplierRepository,
	poRepo repository.PurchaseOrderRepository,
	grnRepo repository.GoodsReceivedNoteRepository,
	invoiceRepo repository.InvoiceRepository,
	txRunner TxRunner,
	log *logger.Logger,
) *DocumentUseCase {
	return &DocumentUseCase{
		supplierRepo: supplierRepo,
		poRepo:       poRepo,
		grnRepo:      grnRepo,
		invoiceRepo:  invoiceRepo,
		txRunner:     txRunner,
		log:          log,
		now:          time.Now,
	}
}

// ── Proveedores ───────────────────────────────────────────────────────────────

// CreateSupplier registra un proveedor. Devuelve domain.ErrDuplicate si el NIT ya existe en la empresa.
func (uc *DocumentUseCase) CreateSupplier(ctx context.Context, companyID string, in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	taxID, err := taxid.Normalize(in.TaxID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	existing, err := uc.supplierRepo.GetByCompanyAndTaxID(ctx, companyID, taxID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := uc.now()
	s := &entity.Supplier{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      in.Name,
		TaxID:     taxID,
		Email:     in.Email,
		Phone:     in.Phone,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.supplierRepo.Create(ctx, s); err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

// GetSupplier obtiene un proveedor de la empresa.
func (uc *DocumentUseCase) GetSupplier(ctx context.Context, companyID, id string) (*dto.SupplierResponse, error) {
	s, err := uc.supplier(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

// ListSuppliers lista proveedores con paginación.
func (uc *DocumentUseCase) ListSuppliers(ctx context.Context, companyID string, page dto.PageRequest) (*dto.SupplierListResponse, error) {
	page.DefaultPage()
	list, err := uc.supplierRepo.ListByCompany(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSupplierResponse(s))
	}
	return &dto.SupplierListResponse{Items: items, Page: page.Response(len(items))}, nil
}

func (uc *DocumentUseCase) supplier(ctx context.Context, companyID, id string) (*entity.Supplier, error) {
	s, err := uc.supplierRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	if s.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return s, nil
}

// ── Órdenes de compra ─────────────────────────────────────────────────────────

// CreatePurchaseOrder emite una orden de compra. Los totales se calculan en el servidor.
func (uc *DocumentUseCase) CreatePurchaseOrder(ctx context.Context, companyID string, in dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	if _, err := uc.supplier(ctx, companyID, in.SupplierID); err != nil {
		return nil, err
	}
	items, err := toLineItems(in.Items)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	po := &entity.PurchaseOrder{
		ID:         uuid.New().String(),
		CompanyID:  companyID,
		SupplierID: in.SupplierID,
		Number:     in.Number,
		Status:     entity.POStatusOrdered,
		Items:      items,
		Total:      entity.SumLineTotals(items),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.poRepo.Create(ctx, po); err != nil {
		return nil, err
	}
	uc.log.Info().Str("purchase_order_id", po.ID).Str("total", po.Total.StringFixed(2)).Msg("orden de compra emitida")
	return toPurchaseOrderResponse(po), nil
}

// GetPurchaseOrder obtiene una orden de la empresa.
func (uc *DocumentUseCase) GetPurchaseOrder(ctx context.Context, companyID, id string) (*dto.PurchaseOrderResponse, error) {
	po, err := uc.purchaseOrder(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return toPurchaseOrderResponse(po), nil
}

// ListPurchaseOrders lista órdenes con paginación.
func (uc *DocumentUseCase) ListPurchaseOrders(ctx context.Context, companyID string, page dto.PageRequest) (*dto.PurchaseOrderListResponse, error) {
	page.DefaultPage()
	list, err := uc.poRepo.ListByCompany(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseOrderResponse, 0, len(list))
	for _, po := range list {
		items = append(items, *toPurchaseOrderResponse(po))
	}
	return &dto.PurchaseOrderListResponse{Items: items, Page: page.Response(len(items))}, nil
}

func (uc *DocumentUseCase) purchaseOrder(ctx context.Context, companyID, id string) (*entity.PurchaseOrder, error) {
	po, err := uc.poRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.ErrNotFound
	}
	if po.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return po, nil
}

// ── Recepciones (GRN) ─────────────────────────────────────────────────────────

// RegisterGRN registra una recepción contra una orden abierta. Cada línea debe existir
// en la orden; nombre y precio se toman de ella. En la misma transacción la orden pasa
// a partially-received o received según lo acumulado en todas sus recepciones.
func (uc *DocumentUseCase) RegisterGRN(ctx context.Context, companyID, userID string, in dto.RegisterGRNRequest) (*dto.GRNResponse, error) {
	po, err := uc.purchaseOrder(ctx, companyID, in.PurchaseOrderID)
	if err != nil {
		return nil, err
	}
	if !po.CanReceive() {
		return nil, fmt.Errorf("%w: la orden está en estado %s", domain.ErrInvalidState, po.Status)
	}

	now := uc.now()
	receivedAt := now
	if in.ReceivedAt != nil {
		receivedAt = *in.ReceivedAt
	}
	grn := &entity.GoodsReceivedNote{
		ID:              uuid.New().String(),
		CompanyID:       companyID,
		PurchaseOrderID: po.ID,
		Number:          in.Number,
		ReceivedAt:      receivedAt,
		ReceivedBy:      userID,
		CreatedAt:       now,
	}
	for _, it := range in.Items {
		poLine, ok := po.Item(it.ItemID)
		if !ok {
			return nil, fmt.Errorf("%w: el artículo %s no está en la orden", domain.ErrInvalidInput, it.ItemID)
		}
		if it.ReceivedQuantity.IsNegative() || it.DamagedQuantity.IsNegative() || it.DamagedQuantity.GreaterThan(it.ReceivedQuantity) {
			return nil, fmt.Errorf("%w: cantidades inválidas para %s", domain.ErrInvalidInput, it.ItemID)
		}
		quality := it.QualityStatus
		if quality == "" {
			quality = entity.QualityAccepted
		}
		grn.Items = append(grn.Items, entity.ReceivedLineItem{
			LineItem: entity.LineItem{
				ItemID:    poLine.ItemID,
				Name:      poLine.Name,
				Quantity:  poLine.Quantity,
				UnitPrice: poLine.UnitPrice,
				LineTotal: it.ReceivedQuantity.Mul(poLine.UnitPrice),
			},
			ReceivedQuantity: it.ReceivedQuantity,
			DamagedQuantity:  it.DamagedQuantity,
			BatchNumber:      it.BatchNumber,
			ExpiryDate:       it.ExpiryDate,
			QualityStatus:    quality,
		})
	}

	var newStatus string
	err = uc.txRunner.RunReceiving(ctx, func(poRepo repository.PurchaseOrderRepository, grnRepo repository.GoodsReceivedNoteRepository) error {
		// Releer dentro de la tx: otra recepción pudo cerrar la orden.
		current, err := poRepo.GetByID(ctx, po.ID)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		previous, err := grnRepo.ListByPurchaseOrder(ctx, po.ID)
		if err != nil {
			return err
		}
		newStatus = receivingStatus(current, append(previous, grn))
		if !current.CanTransitionTo(newStatus) {
			return fmt.Errorf("%w: la orden no admite pasar de %s a %s", domain.ErrInvalidState, current.Status, newStatus)
		}
		if err := grnRepo.Create(ctx, grn); err != nil {
			return err
		}
		return poRepo.UpdateStatus(ctx, po.ID, newStatus, now)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("grn_id", grn.ID).
		Str("purchase_order_id", po.ID).
		Str("purchase_order_status", newStatus).
		Msg("recepción registrada")

	resp := toGRNResponse(grn)
	resp.PurchaseOrderStatus = newStatus
	return resp, nil
}

// receivingStatus received si cada línea de la orden está cubierta por lo recibido.
func receivingStatus(po *entity.PurchaseOrder, grns []*entity.GoodsReceivedNote) string {
	ordered := make(map[string]decimal.Decimal)
	for _, it := range po.Items {
		ordered[it.ItemID] = ordered[it.ItemID].Add(it.Quantity)
	}
	received := make(map[string]decimal.Decimal)
	for _, g := range grns {
		for _, it := range g.Items {
			received[it.ItemID] = received[it.ItemID].Add(it.ReceivedQuantity)
		}
	}
	for id, qty := range ordered {
		if received[id].LessThan(qty) {
			return entity.POStatusPartiallyReceived
		}
	}
	return entity.POStatusReceived
}

// GetGRN obtiene una recepción de la empresa.
func (uc *DocumentUseCase) GetGRN(ctx context.Context, companyID, id string) (*dto.GRNResponse, error) {
	grn, err := uc.grnRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if grn == nil {
		return nil, domain.ErrNotFound
	}
	if grn.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return toGRNResponse(grn), nil
}

// ── Facturas de proveedor ─────────────────────────────────────────────────────

// CreateInvoice registra una factura de proveedor en estado pending. Las referencias a
// orden y recepción son opcionales pero, si vienen, deben ser coherentes entre sí.
func (uc *DocumentUseCase) CreateInvoice(ctx context.Context, companyID string, in dto.CreateSupplierInvoiceRequest) (*dto.SupplierInvoiceResponse, error) {
	if _, err := uc.supplier(ctx, companyID, in.SupplierID); err != nil {
		return nil, err
	}
	dup, err := uc.invoiceRepo.GetBySupplierAndNumber(ctx, companyID, in.SupplierID, in.Number)
	if err != nil {
		return nil, err
	}
	if dup != nil {
		return nil, domain.ErrDuplicate
	}
	if in.PurchaseOrderID != "" {
		po, err := uc.purchaseOrder(ctx, companyID, in.PurchaseOrderID)
		if err != nil {
			return nil, err
		}
		if po.SupplierID != in.SupplierID {
			return nil, fmt.Errorf("%w: la orden pertenece a otro proveedor", domain.ErrInvalidInput)
		}
	}
	if in.GRNID != "" {
		grn, err := uc.grnRepo.GetByID(ctx, in.GRNID)
		if err != nil {
			return nil, err
		}
		if grn == nil {
			return nil, domain.ErrNotFound
		}
		if grn.CompanyID != companyID {
			return nil, domain.ErrForbidden
		}
		if in.PurchaseOrderID != "" && grn.PurchaseOrderID != in.PurchaseOrderID {
			return nil, fmt.Errorf("%w: la recepción no corresponde a la orden", domain.ErrInvalidInput)
		}
	}

	items, err := toLineItems(in.Items)
	if err != nil {
		return nil, err
	}
	total := entity.SumLineTotals(items)
	if in.Total != nil {
		if in.Total.IsNegative() {
			return nil, fmt.Errorf("%w: total negativo", domain.ErrInvalidInput)
		}
		total = *in.Total
	}
	now := uc.now()
	inv := &entity.Invoice{
		ID:              uuid.New().String(),
		CompanyID:       companyID,
		SupplierID:      in.SupplierID,
		Number:          in.Number,
		PurchaseOrderID: in.PurchaseOrderID,
		GRNID:           in.GRNID,
		Items:           items,
		Total:           total,
		InvoiceDate:     in.InvoiceDate,
		Status:          entity.InvoiceStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.invoiceRepo.Create(ctx, inv); err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// GetInvoice obtiene una factura de proveedor de la empresa.
func (uc *DocumentUseCase) GetInvoice(ctx context.Context, companyID, id string) (*dto.SupplierInvoiceResponse, error) {
	inv, err := loadInvoice(ctx, uc.invoiceRepo, companyID, id)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// ListInvoices lista facturas de proveedor, opcionalmente filtradas por estado.
func (uc *DocumentUseCase) ListInvoices(ctx context.Context, companyID, status string, page dto.PageRequest) (*dto.SupplierInvoiceListResponse, error) {
	page.DefaultPage()
	list, err := uc.invoiceRepo.ListByCompany(ctx, companyID, repository.InvoiceFilter{
		Status: status,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.SupplierInvoiceResponse, 0, len(list))
	for _, inv := range list {
		items = append(items, *toInvoiceResponse(inv))
	}
	return &dto.SupplierInvoiceListResponse{Items: items, Page: page.Response(len(items))}, nil
}

func loadInvoice(ctx context.Context, repo repository.InvoiceRepository, companyID, id string) (*entity.Invoice, error) {
	inv, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return inv, nil
}

// toLineItems valida y convierte las líneas de entrada. Cantidad > 0, precio ≥ 0.
func toLineItems(in []dto.LineItemRequest) ([]entity.LineItem, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: se requiere al menos una línea", domain.ErrInvalidInput)
	}
	out := make([]entity.LineItem, 0, len(in))
	for _, it := range in {
		if it.ItemID == "" || !it.Quantity.IsPositive() || it.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: línea %q inválida", domain.ErrInvalidInput, it.ItemID)
		}
		li := entity.LineItem{ItemID: it.ItemID, Name: it.Name, Quantity: it.Quantity, UnitPrice: it.UnitPrice}
		li.LineTotal = li.ExpectedTotal()
		if it.LineTotal != nil {
			li.LineTotal = *it.LineTotal
		}
		out = append(out, li)
	}
	return out, nil
}
