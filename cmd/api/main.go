package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Manufactura-api/internal/application/auth"
	"github.com/jhoicas/Manufactura-api/internal/application/bom"
	"github.com/jhoicas/Manufactura-api/internal/application/catalog"
	"github.com/jhoicas/Manufactura-api/internal/application/ledger"
	"github.com/jhoicas/Manufactura-api/internal/application/production"
	"github.com/jhoicas/Manufactura-api/internal/application/receiving"
	"github.com/jhoicas/Manufactura-api/internal/application/reporting"
	"github.com/jhoicas/Manufactura-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Manufactura-api/internal/interfaces/http"
	"github.com/jhoicas/Manufactura-api/pkg/config"
	"github.com/jhoicas/Manufactura-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	itemRepo := postgres.NewInventoryItemRepository(pool)
	stockRepo := postgres.NewItemStockRepository(pool)
	movRepo := postgres.NewStockMovementRepository(pool)
	bomRepo := postgres.NewBOMRepository(pool)
	batchRepo := postgres.NewProductionBatchRepository(pool)
	packagedRepo := postgres.NewPackagedProductRepository(pool)
	receiptRepo := postgres.NewReceiptLineRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	ledgerUC := ledger.New(txRunner, itemRepo, stockRepo, movRepo)
	bomUC := bom.New(txRunner, bomRepo, itemRepo)
	productionUC := production.New(txRunner, ledgerUC, batchRepo, bomRepo, itemRepo, packagedRepo)
	receivingUC := receiving.New(txRunner, ledgerUC, receiptRepo, itemRepo)
	reportingUC := reporting.New(ledgerUC, stockRepo)
	catalogUC := catalog.New(itemRepo, packagedRepo)
	authUC := auth.NewUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Manufactura API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		CatalogUC:    catalogUC,
		LedgerUC:     ledgerUC,
		BOMUC:        bomUC,
		ProductionUC: productionUC,
		ReceivingUC:  receivingUC,
		ReportingUC:  reportingUC,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
