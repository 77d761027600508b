package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/application/ledger"
	"github.com/jhoicas/Manufactura-api/internal/application/reporting"
)

// InventoryHandler maneja el libro de movimientos y los reportes de stock.
type InventoryHandler struct {
	ledgerUC    *ledger.UseCase
	reportingUC *reporting.UseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledgerUC *ledger.UseCase, reportingUC *reporting.UseCase) *InventoryHandler {
	return &InventoryHandler{ledgerUC: ledgerUC, reportingUC: reportingUC}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento manual (compra, venta o ajuste)
// @Description  Los movimientos de producción no entran por aquí: los escriben
//
//	las transiciones de lote. adjustment lleva cantidad con signo.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "item_id, kind, quantity"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	movementID, err := h.ledgerUC.RecordMovement(c.Context(), ledger.MovementInput{
		ItemID:        in.ItemID,
		Kind:          in.Kind,
		Quantity:      in.Quantity,
		UnitPrice:     in.UnitPrice,
		ReferenceType: in.ReferenceType,
		ReferenceID:   in.ReferenceID,
		Notes:         in.Notes,
		ActorID:       GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"movement_id": movementID})
}

// ListMovements godoc
// @Summary      Historial de movimientos de un artículo
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        itemId  path   string  true   "ID del artículo"
// @Param        from    query  string  false  "RFC3339"
// @Param        to      query  string  false  "RFC3339"
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/inventory/items/{itemId}/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (RFC3339)"})
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (RFC3339)"})
	}
	movements, err := h.ledgerUC.ListMovements(c.Context(), c.Params("itemId"), from, to, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.ToMovementResponse(m))
	}
	return c.JSON(out)
}

// GetStockStatus godoc
// @Summary      Stock actual de un artículo frente a sus umbrales
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        itemId  path  string  true  "ID del artículo"
// @Success      200  {object}  dto.StockStatusResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{itemId}/status [get]
func (h *InventoryHandler) GetStockStatus(c *fiber.Ctx) error {
	status, err := h.reportingUC.Status(c.Context(), c.Params("itemId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToStockStatusResponse(status))
}

// LowStock godoc
// @Summary      Artículos bajo su punto de reorden
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  repository.LowStockItem
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	items, err := h.reportingUC.LowStock(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(items), "items": items})
}

// RebuildStock godoc
// @Summary      Recalcular el agregado de stock desde el libro de movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        itemId  path  string  true  "ID del artículo"
// @Success      200  {object}  map[string]string
// @Router       /api/inventory/items/{itemId}/rebuild [post]
func (h *InventoryHandler) RebuildStock(c *fiber.Ctx) error {
	quantity, err := h.ledgerUC.RebuildStock(c.Context(), c.Params("itemId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"item_id": c.Params("itemId"), "quantity": quantity})
}

func parseTimeQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
