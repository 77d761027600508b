package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/application/production"
)

// ProductionHandler maneja el ciclo de vida de los lotes de producción.
type ProductionHandler struct {
	uc *production.UseCase
}

// NewProductionHandler construye el handler.
func NewProductionHandler(uc *production.UseCase) *ProductionHandler {
	return &ProductionHandler{uc: uc}
}

// Create godoc
// @Summary      Planear un lote de producción
// @Tags         production
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBatchRequest  true  "product_item_id, planned_quantity, packaged_items"
// @Success      201   {object}  dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse  "producto sin receta activa"
// @Router       /api/production/batches [post]
func (h *ProductionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	productionDate := time.Now()
	if in.ProductionDate != nil {
		productionDate = *in.ProductionDate
	}
	batch, err := h.uc.CreateBatch(c.Context(), production.CreateBatchInput{
		ProductItemID:   in.ProductItemID,
		PlannedQuantity: in.PlannedQuantity,
		ProductionDate:  productionDate,
		Notes:           in.Notes,
		Plan:            toAllocationInputs(in.PackagedItems),
		ActorID:         GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToBatchResponse(batch))
}

// Start godoc
// @Summary      Iniciar un lote (consume materias primas, todo o nada)
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del lote"
// @Success      200  {object}  dto.BatchResponse
// @Failure      409  {object}  dto.ErrorResponse  "stock insuficiente o transición inválida"
// @Router       /api/production/batches/{id}/start [post]
func (h *ProductionHandler) Start(c *fiber.Ctx) error {
	batch, err := h.uc.Start(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToBatchResponse(batch))
}

// Complete godoc
// @Summary      Completar un lote (emite producto terminado empacado)
// @Description  La suma de packaged_items debe igualar produced_quantity.
// @Tags         production
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del lote"
// @Param        body  body  dto.CompleteBatchRequest  true  "produced_quantity, packaged_items"
// @Success      200   {object}  dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/production/batches/{id}/complete [post]
func (h *ProductionHandler) Complete(c *fiber.Ctx) error {
	var in dto.CompleteBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	batch, err := h.uc.Complete(c.Context(), c.Params("id"), in.ProducedQuantity, toAllocationInputs(in.PackagedItems), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToBatchResponse(batch))
}

// Cancel godoc
// @Summary      Cancelar un lote (solo desde planned)
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del lote"
// @Success      200  {object}  dto.BatchResponse
// @Failure      409  {object}  dto.ErrorResponse  "el lote ya inició"
// @Router       /api/production/batches/{id}/cancel [post]
func (h *ProductionHandler) Cancel(c *fiber.Ctx) error {
	batch, err := h.uc.Cancel(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToBatchResponse(batch))
}

// GetByID godoc
// @Summary      Consultar lote
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del lote"
// @Success      200  {object}  dto.BatchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/production/batches/{id} [get]
func (h *ProductionHandler) GetByID(c *fiber.Ctx) error {
	batch, err := h.uc.GetBatch(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToBatchResponse(batch))
}

// List godoc
// @Summary      Listar lotes
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "planned | in_progress | completed | cancelled"
// @Success      200  {array}  dto.BatchResponse
// @Router       /api/production/batches [get]
func (h *ProductionHandler) List(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	batches, err := h.uc.ListBatches(c.Context(), c.Query("status"), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.BatchResponse, 0, len(batches))
	for _, b := range batches {
		out = append(out, dto.ToBatchResponse(b))
	}
	return c.JSON(out)
}

func toAllocationInputs(in []dto.AllocationRequest) []production.AllocationInput {
	out := make([]production.AllocationInput, 0, len(in))
	for _, a := range in {
		out = append(out, production.AllocationInput{
			PackagedProductID: a.PackagedProductID,
			Quantity:          a.Quantity,
			Notes:             a.Notes,
		})
	}
	return out
}
