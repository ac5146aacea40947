package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/hotel-procurement-api/internal/application/dto"
	"github.com/jhoicas/hotel-procurement-api/internal/application/procurement"
)

// SupplierInvoiceHandler maneja las facturas de proveedor (cuentas por pagar, protegido).
type SupplierInvoiceHandler struct {
	uc *procurement.DocumentUseCase
}

// NewSupplierInvoiceHandler construye el handler.
func NewSupplierInvoiceHandler(uc *procurement.DocumentUseCase) *SupplierInvoiceHandler {
	return &SupplierInvoiceHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar factura de proveedor
// @Tags         supplier-invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSupplierInvoiceRequest  true  "supplier_id, number, purchase_order_id, grn_id, items"
// @Success      201   {object}  dto.SupplierInvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/supplier-invoices [post]
func (h *SupplierInvoiceHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.CreateSupplierInvoiceRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.CreateInvoice(c.UserContext(), companyID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID GET /api/supplier-invoices/:id
func (h *SupplierInvoiceHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	out, err := h.uc.GetInvoice(c.UserContext(), companyID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar facturas de proveedor
// @Tags         supplier-invoices
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "pending, matched, awaiting-approval, approved, rejected, disputed"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.SupplierInvoiceListResponse
// @Router       /api/supplier-invoices [get]
func (h *SupplierInvoiceHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	page, ok, err := bindPage(c)
	if !ok {
		return err
	}
	out, err := h.uc.ListInvoices(c.UserContext(), companyID, c.Query("status"), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
