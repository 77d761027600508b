package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/application/bom"
	"github.com/jhoicas/Manufactura-api/internal/application/dto"
)

// BOMHandler maneja recetas y explosión de materiales.
type BOMHandler struct {
	uc *bom.UseCase
}

// NewBOMHandler construye el handler.
func NewBOMHandler(uc *bom.UseCase) *BOMHandler {
	return &BOMHandler{uc: uc}
}

// Create godoc
// @Summary      Crear y activar una receta (desactiva la versión anterior)
// @Tags         bom
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBOMRequest  true  "product_item_id, components"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse  "ciclo en el grafo de recetas"
// @Router       /api/bom [post]
func (h *BOMHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBOMRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	components := make([]bom.ComponentInput, 0, len(in.Components))
	for _, comp := range in.Components {
		components = append(components, bom.ComponentInput{
			ItemID:        comp.ItemID,
			Quantity:      comp.Quantity,
			UnitOfMeasure: comp.UnitOfMeasure,
			Notes:         comp.Notes,
		})
	}
	id, err := h.uc.CreateBOM(c.Context(), bom.CreateBOMInput{
		ProductItemID: in.ProductItemID,
		Name:          in.Name,
		Description:   in.Description,
		Version:       in.Version,
		Components:    components,
		ActorID:       GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"bom_id": id})
}

// GetByID godoc
// @Summary      Consultar receta
// @Tags         bom
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la receta"
// @Success      200  {object}  dto.BOMResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/bom/{id} [get]
func (h *BOMHandler) GetByID(c *fiber.Ctx) error {
	b, err := h.uc.GetBOM(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToBOMResponse(b))
}

// ListByProduct godoc
// @Summary      Historial de versiones de receta de un producto
// @Tags         bom
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {array}  dto.BOMResponse
// @Router       /api/bom/by-product/{productId} [get]
func (h *BOMHandler) ListByProduct(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	boms, err := h.uc.ListByProduct(c.Context(), c.Params("productId"), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.BOMResponse, 0, len(boms))
	for _, b := range boms {
		out = append(out, dto.ToBOMResponse(b))
	}
	return c.JSON(out)
}

// Requirements godoc
// @Summary      Explosión de materiales para una cantidad de producción
// @Description  Recurre recetas de intermedios hasta materias primas y suma
//
//	requerimientos del mismo insumo a través de distintas rutas.
//
// @Tags         bom
// @Security     Bearer
// @Produce      json
// @Param        productId  path   string  true  "ID del producto"
// @Param        quantity   query  string  true  "cantidad a producir"
// @Success      200  {array}   dto.RequirementResponse
// @Failure      404  {object}  dto.ErrorResponse  "sin receta activa"
// @Router       /api/bom/by-product/{productId}/requirements [get]
func (h *BOMHandler) Requirements(c *fiber.Ctx) error {
	quantity, err := decimal.NewFromString(c.Query("quantity"))
	if err != nil || !quantity.IsPositive() {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "quantity debe ser un decimal positivo"})
	}
	reqs, err := h.uc.ComputeMaterialRequirements(c.Context(), c.Params("productId"), quantity)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.RequirementResponse, 0, len(reqs))
	for itemID, required := range reqs {
		out = append(out, dto.RequirementResponse{ItemID: itemID, RequiredQuantity: required})
	}
	return c.JSON(out)
}
