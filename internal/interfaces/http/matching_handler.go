package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/hotel-procurement-api/internal/application/dto"
	"github.com/jhoicas/hotel-procurement-api/internal/application/procurement"
)

// MatchingHandler expone el cruce de tres vías: ejecución, consulta, decisiones,
// disputas e informe PDF.
type MatchingHandler struct {
	uc     *procurement.MatchUseCase
	report *procurement.ReportUseCase
}

// NewMatchingHandler construye el handler.
func NewMatchingHandler(uc *procurement.MatchUseCase, report *procurement.ReportUseCase) *MatchingHandler {
	return &MatchingHandler{uc: uc, report: report}
}

// RunMatch godoc
// @Summary      Ejecutar el cruce de una factura
// @Description  Carga factura, orden y recepciones, ejecuta el motor y guarda el resultado.
// @Tags         matching
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la factura de proveedor"
// @Success      201  {object}  dto.MatchingResultResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/supplier-invoices/{id}/match [post]
func (h *MatchingHandler) RunMatch(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	out, err := h.uc.RunMatch(c.UserContext(), companyID, userID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetLatest godoc
// @Summary      Último cruce de una factura
// @Tags         matching
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la factura de proveedor"
// @Success      200  {object}  dto.MatchingResultResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/supplier-invoices/{id}/match [get]
func (h *MatchingHandler) GetLatest(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	out, err := h.uc.GetLatest(c.UserContext(), companyID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetResult GET /api/matching-results/:id
func (h *MatchingHandler) GetResult(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	out, err := h.uc.GetResult(c.UserContext(), companyID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar cruce con variaciones
// @Description  El rol del token debe tener autoridad para el nivel de aprobación del resultado.
// @Tags         matching
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del resultado"
// @Success      200  {object}  dto.MatchingResultResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/matching-results/{id}/approve [post]
func (h *MatchingHandler) Approve(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	out, err := h.uc.Approve(c.UserContext(), companyID, userID, GetRole(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Reject godoc
// @Summary      Rechazar cruce
// @Tags         matching
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del resultado"
// @Param        body  body  dto.RejectMatchRequest  true  "reason"
// @Success      200   {object}  dto.MatchingResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/matching-results/{id}/reject [post]
func (h *MatchingHandler) Reject(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	var in dto.RejectMatchRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Reject(c.UserContext(), companyID, userID, GetRole(c), id, in.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RaiseDispute godoc
// @Summary      Abrir disputa con el proveedor
// @Description  Solo si el cruce recomienda crear disputa. Cuerpo opcional.
// @Tags         matching
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true   "ID del resultado"
// @Param        body  body  dto.RaiseDisputeRequest  false  "dispute_type, description, claim_amount"
// @Success      201   {object}  dto.DisputeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/matching-results/{id}/disputes [post]
func (h *MatchingHandler) RaiseDispute(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	var in dto.RaiseDisputeRequest
	if len(c.Body()) > 0 {
		if ok, err := bindBody(c, &in); !ok {
			return err
		}
	}
	out, err := h.uc.RaiseDispute(c.UserContext(), companyID, userID, id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListDisputes GET /api/disputes?status=open&limit=20&offset=0
func (h *MatchingHandler) ListDisputes(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	page, ok, err := bindPage(c)
	if !ok {
		return err
	}
	out, err := h.uc.ListDisputes(c.UserContext(), companyID, c.Query("status"), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DownloadReport godoc
// @Summary      Informe PDF de variaciones
// @Tags         matching
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del resultado"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/matching-results/{id}/pdf [get]
func (h *MatchingHandler) DownloadReport(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	pdf, filename, err := h.report.MatchingReportPDF(c.UserContext(), companyID, id)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+strings.ReplaceAll(filename, `"`, "")+`"`)
	return c.Send(pdf)
}
