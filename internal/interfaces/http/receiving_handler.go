package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/application/receiving"
)

// ReceivingHandler maneja la conciliación de recibos de compra.
type ReceivingHandler struct {
	uc *receiving.UseCase
}

// NewReceivingHandler construye el handler.
func NewReceivingHandler(uc *receiving.UseCase) *ReceivingHandler {
	return &ReceivingHandler{uc: uc}
}

// RegisterLine godoc
// @Summary      Registrar línea de recibo pendiente
// @Tags         receipts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterReceiptLineRequest  true  "receipt_number, item_id, cantidades"
// @Success      201   {object}  dto.ReceiptLineResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/receipts/lines [post]
func (h *ReceivingHandler) RegisterLine(c *fiber.Ctx) error {
	var in dto.RegisterReceiptLineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	line, err := h.uc.RegisterReceiptLine(c.Context(), receiving.ReceiptLineInput{
		ReceiptNumber:    in.ReceiptNumber,
		POItemID:         in.POItemID,
		ItemID:           in.ItemID,
		ReceivedQuantity: in.ReceivedQuantity,
		AcceptedQuantity: in.AcceptedQuantity,
		RejectedQuantity: in.RejectedQuantity,
		RejectionReason:  in.RejectionReason,
		UnitPrice:        in.UnitPrice,
		BatchNumber:      in.BatchNumber,
		ExpiryDate:       in.ExpiryDate,
		ActorID:          GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToReceiptLineResponse(line))
}

// AcceptLine godoc
// @Summary      Conciliar línea de recibo (entrada de stock por lo aceptado)
// @Description  Valida accepted + rejected ≤ received y exige razón de rechazo
//
//	cuando hay rechazos. Una línea se concilia a lo sumo una vez.
//
// @Tags         receipts
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la línea"
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  dto.ErrorResponse  "línea ya conciliada"
// @Failure      422  {object}  dto.ErrorResponse  "cantidades no cuadran"
// @Router       /api/receipts/lines/{id}/accept [post]
func (h *ReceivingHandler) AcceptLine(c *fiber.Ctx) error {
	movementID, err := h.uc.AcceptReceiptLine(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	resp := fiber.Map{"line_id": c.Params("id")}
	if movementID != "" {
		resp["movement_id"] = movementID
	}
	return c.JSON(resp)
}

// ListPending godoc
// @Summary      Líneas de recibo pendientes de conciliar
// @Tags         receipts
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ReceiptLineResponse
// @Router       /api/receipts/lines/pending [get]
func (h *ReceivingHandler) ListPending(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	lines, err := h.uc.ListPending(c.Context(), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.ReceiptLineResponse, 0, len(lines))
	for _, line := range lines {
		out = append(out, dto.ToReceiptLineResponse(line))
	}
	return c.JSON(out)
}
