package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/hotel-procurement-api/internal/application/dto"
	"github.com/jhoicas/hotel-procurement-api/internal/application/procurement"
)

// GoodsReceivedHandler registra y consulta recepciones de mercancía (GRN).
type GoodsReceivedHandler struct {
	uc *procurement.DocumentUseCase
}

// NewGoodsReceivedHandler construye el handler.
func NewGoodsReceivedHandler(uc *procurement.DocumentUseCase) *GoodsReceivedHandler {
	return &GoodsReceivedHandler{uc: uc}
}

// Register godoc
// @Summary      Registrar recepción de mercancía
// @Description  Valida que las líneas pertenezcan a la orden y actualiza su estado
//
//	(partially-received / received) en la misma transacción.
//
// @Tags         goods-received-notes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterGRNRequest  true  "purchase_order_id, number, items"
// @Success      201   {object}  dto.GRNResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/goods-received-notes [post]
func (h *GoodsReceivedHandler) Register(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.RegisterGRNRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.RegisterGRN(c.UserContext(), companyID, userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID GET /api/goods-received-notes/:id
func (h *GoodsReceivedHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	out, err := h.uc.GetGRN(c.UserContext(), companyID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
