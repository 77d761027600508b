package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Manufactura-api/internal/application/auth"
	"github.com/jhoicas/Manufactura-api/internal/application/bom"
	"github.com/jhoicas/Manufactura-api/internal/application/catalog"
	"github.com/jhoicas/Manufactura-api/internal/application/ledger"
	"github.com/jhoicas/Manufactura-api/internal/application/production"
	"github.com/jhoicas/Manufactura-api/internal/application/receiving"
	"github.com/jhoicas/Manufactura-api/internal/application/reporting"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.UseCase
	CatalogUC    *catalog.UseCase
	LedgerUC     *ledger.UseCase
	BOMUC        *bom.UseCase
	ProductionUC *production.UseCase
	ReceivingUC  *receiving.UseCase
	ReportingUC  *reporting.UseCase
	JWTSecret    string
}

// Router registra las rutas de la API. Las mutaciones exigen rol según el
// área: catálogo y recetas son de admin; producción de admin/produccion;
// inventario y recibos de admin/bodega.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	adminOnly := RequireRole(entity.RoleAdmin)
	adminOrProduccion := RequireRole(entity.RoleAdmin, entity.RoleProduccion)
	adminOrBodega := RequireRole(entity.RoleAdmin, entity.RoleBodega)

	// Catálogo de artículos
	items := protected.Group("/items")
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	items.Post("/", adminOnly, catalogHandler.CreateItem)
	items.Get("/", catalogHandler.ListItems)
	items.Get("/:id", catalogHandler.GetItem)
	items.Put("/:id/thresholds", adminOnly, catalogHandler.UpdateThresholds)
	items.Delete("/:id", adminOnly, catalogHandler.DeactivateItem)

	// Presentaciones empacadas
	packaged := protected.Group("/packaged-products")
	packaged.Post("/", adminOnly, catalogHandler.CreatePackaged)
	packaged.Get("/by-product/:productId", catalogHandler.ListPackagedByProduct)

	// Libro de movimientos y reportes de stock
	inventory := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.LedgerUC, deps.ReportingUC)
	inventory.Post("/movements", adminOrBodega, inventoryHandler.RegisterMovement)
	inventory.Get("/items/:itemId/movements", inventoryHandler.ListMovements)
	inventory.Get("/items/:itemId/status", inventoryHandler.GetStockStatus)
	inventory.Post("/items/:itemId/rebuild", adminOnly, inventoryHandler.RebuildStock)
	inventory.Get("/low-stock", inventoryHandler.LowStock)

	// Recetas (BOM)
	bomGroup := protected.Group("/bom")
	bomHandler := NewBOMHandler(deps.BOMUC)
	bomGroup.Post("/", adminOnly, bomHandler.Create)
	bomGroup.Get("/:id", bomHandler.GetByID)
	bomGroup.Get("/by-product/:productId", bomHandler.ListByProduct)
	bomGroup.Get("/by-product/:productId/requirements", bomHandler.Requirements)

	// Lotes de producción
	prod := protected.Group("/production")
	productionHandler := NewProductionHandler(deps.ProductionUC)
	prod.Post("/batches", adminOrProduccion, productionHandler.Create)
	prod.Get("/batches", productionHandler.List)
	prod.Get("/batches/:id", productionHandler.GetByID)
	prod.Post("/batches/:id/start", adminOrProduccion, productionHandler.Start)
	prod.Post("/batches/:id/complete", adminOrProduccion, productionHandler.Complete)
	prod.Post("/batches/:id/cancel", adminOrProduccion, productionHandler.Cancel)

	// Recibos de compra
	receipts := protected.Group("/receipts")
	receivingHandler := NewReceivingHandler(deps.ReceivingUC)
	receipts.Post("/lines", adminOrBodega, receivingHandler.RegisterLine)
	receipts.Get("/lines/pending", receivingHandler.ListPending)
	receipts.Post("/lines/:id/accept", adminOrBodega, receivingHandler.AcceptLine)
}
