package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Manufactura-api/internal/application/catalog"
	"github.com/jhoicas/Manufactura-api/internal/application/dto"
)

// CatalogHandler maneja artículos de catálogo y presentaciones empacadas.
type CatalogHandler struct {
	uc *catalog.UseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *catalog.UseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// CreateItem godoc
// @Summary      Crear artículo de catálogo
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "code, name, unit_of_measure, umbrales"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *CatalogHandler) CreateItem(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, err := h.uc.CreateItem(c.Context(), catalog.CreateItemInput{
		Code:          in.Code,
		Name:          in.Name,
		Description:   in.Description,
		CategoryID:    in.CategoryID,
		UnitOfMeasure: in.UnitOfMeasure,
		MinStockLevel: in.MinStockLevel,
		ReorderLevel:  in.ReorderLevel,
		MaxStockLevel: in.MaxStockLevel,
		CostPrice:     in.CostPrice,
		HSNCode:       in.HSNCode,
		IsRawMaterial: in.IsRawMaterial,
		ActorID:       GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToItemResponse(item))
}

// GetItem godoc
// @Summary      Consultar artículo
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del artículo"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *CatalogHandler) GetItem(c *fiber.Ctx) error {
	item, err := h.uc.GetItem(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToItemResponse(item))
}

// ListItems godoc
// @Summary      Listar artículos
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        active  query  bool  false  "solo activos"
// @Success      200  {array}  dto.ItemResponse
// @Router       /api/items [get]
func (h *CatalogHandler) ListItems(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	items, err := h.uc.ListItems(c.Context(), c.QueryBool("active", false), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.ItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, dto.ToItemResponse(item))
	}
	return c.JSON(out)
}

// UpdateThresholds godoc
// @Summary      Actualizar umbrales de stock del artículo
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del artículo"
// @Param        body  body  dto.UpdateThresholdsRequest  true  "min_stock_level, reorder_level, max_stock_level"
// @Success      200   {object}  dto.ItemResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/{id}/thresholds [put]
func (h *CatalogHandler) UpdateThresholds(c *fiber.Ctx) error {
	var in dto.UpdateThresholdsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, err := h.uc.UpdateThresholds(c.Context(), catalog.UpdateThresholdsInput{
		ItemID:        c.Params("id"),
		MinStockLevel: in.MinStockLevel,
		ReorderLevel:  in.ReorderLevel,
		MaxStockLevel: in.MaxStockLevel,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToItemResponse(item))
}

// DeactivateItem godoc
// @Summary      Desactivar artículo (soft delete)
// @Tags         items
// @Security     Bearer
// @Param        id  path  string  true  "ID del artículo"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [delete]
func (h *CatalogHandler) DeactivateItem(c *fiber.Ctx) error {
	if err := h.uc.DeactivateItem(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreatePackaged godoc
// @Summary      Crear presentación empacada
// @Tags         packaged-products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePackagedRequest  true  "product_item_id, stock_item_id, packaging_size"
// @Success      201   {object}  dto.PackagedResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/packaged-products [post]
func (h *CatalogHandler) CreatePackaged(c *fiber.Ctx) error {
	var in dto.CreatePackagedRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	pp, err := h.uc.CreatePackagedProduct(c.Context(), catalog.CreatePackagedInput{
		ProductItemID:   in.ProductItemID,
		StockItemID:     in.StockItemID,
		PackagingSize:   in.PackagingSize,
		CustomSize:      in.CustomSize,
		WeightValue:     in.WeightValue,
		WeightUnit:      in.WeightUnit,
		ItemsPerPackage: in.ItemsPerPackage,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToPackagedResponse(pp))
}

// ListPackagedByProduct godoc
// @Summary      Presentaciones de un producto
// @Tags         packaged-products
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto a granel"
// @Success      200  {array}  dto.PackagedResponse
// @Router       /api/packaged-products/by-product/{productId} [get]
func (h *CatalogHandler) ListPackagedByProduct(c *fiber.Ctx) error {
	pps, err := h.uc.ListPackagedByProduct(c.Context(), c.Params("productId"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.PackagedResponse, 0, len(pps))
	for _, pp := range pps {
		out = append(out, dto.ToPackagedResponse(pp))
	}
	return c.JSON(out)
}
