package procurement

import (
	"context"
	"fmt"

	"github.com/jhoicas/hotel-procurement-api/internal/domain"
	"github.com/jhoicas/hotel-procurement-api/internal/domain/repository"
)

// ReportUseCase genera el informe PDF de variaciones de un cruce.
type ReportUseCase struct {
	resultRepo   repository.MatchingResultRepository
	invoiceRepo  repository.InvoiceRepository
	poRepo       repository.PurchaseOrderRepository
	supplierRepo repository.SupplierRepository
	companyRepo  repository.CompanyRepository
	generator    ReportGenerator
}

// NewReportUseCase construye el caso de uso inyectando todas sus dependencias.
func NewReportUseCase(
	resultRepo repository.MatchingResultRepository,
	invoiceRepo repository.InvoiceRepository,
	poRepo repository.PurchaseOrderRepository,
	supplierRepo repository.SupplierRepository,
	companyRepo repository.CompanyRepository,
	generator ReportGenerator,
) *ReportUseCase {
	return &ReportUseCase{
		resultRepo:   resultRepo,
		invoiceRepo:  invoiceRepo,
		poRepo:       poRepo,
		supplierRepo: supplierRepo,
		companyRepo:  companyRepo,
		generator:    generator,
	}
}

// MatchingReportPDF reúne resultado, factura, orden, proveedor y empresa y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si el resultado o la factura no existen.
//   - domain.ErrForbidden        si el resultado no pertenece a la empresa del token.
func (uc *ReportUseCase) MatchingReportPDF(ctx context.Context, companyID, resultID string) (pdfBytes []byte, filename string, err error) {
	// ── 1. Resultado y factura ────────────────────────────────────────────────
	result, err := loadResult(ctx, uc.resultRepo, companyID, resultID)
	if err != nil {
		return nil, "", err
	}
	inv, err := loadInvoice(ctx, uc.invoiceRepo, companyID, result.InvoiceID)
	if err != nil {
		return nil, "", err
	}

	// ── 2. Empresa y proveedor ────────────────────────────────────────────────
	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, "", fmt.Errorf("informe: obtener empresa: %w", err)
	}
	if company == nil {
		return nil, "", domain.ErrNotFound
	}
	supplier, err := uc.supplierRepo.GetByID(ctx, inv.SupplierID)
	if err != nil {
		return nil, "", fmt.Errorf("informe: obtener proveedor: %w", err)
	}

	// ── 3. Orden (opcional) ───────────────────────────────────────────────────
	report := &MatchingReport{Company: company, Supplier: supplier, Invoice: inv, Result: result}
	if result.PurchaseOrderID != "" {
		po, err := uc.poRepo.GetByID(ctx, result.PurchaseOrderID)
		if err != nil {
			return nil, "", fmt.Errorf("informe: obtener orden: %w", err)
		}
		report.PurchaseOrder = po
	}

	// ── 4. Generar PDF ────────────────────────────────────────────────────────
	pdfBytes, err = uc.generator.GenerateMatchingReport(ctx, report)
	if err != nil {
		return nil, "", fmt.Errorf("informe: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("cruce_%s.pdf", inv.Number), nil
}
