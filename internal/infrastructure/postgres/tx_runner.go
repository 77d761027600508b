package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Manufactura-api/internal/application/bom"
	"github.com/jhoicas/Manufactura-api/internal/application/ledger"
	"github.com/jhoicas/Manufactura-api/internal/application/production"
	"github.com/jhoicas/Manufactura-api/internal/application/receiving"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// El mismo runner sirve a todos los casos de uso transaccionales.
var _ ledger.TxRunner = (*TxRunner)(nil)
var _ bom.TxRunner = (*TxRunner)(nil)
var _ production.TxRunner = (*TxRunner)(nil)
var _ receiving.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción con los repos del libro de stock y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	stockRepo repository.ItemStockRepository,
	itemRepo repository.InventoryItemRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewStockMovementRepository(tx), NewItemStockRepository(tx), NewInventoryItemRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunBOM inicia una transacción para el intercambio de versión activa de receta.
func (r *TxRunner) RunBOM(ctx context.Context, fn func(
	bomRepo repository.BOMRepository,
	itemRepo repository.InventoryItemRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewBOMRepository(tx), NewInventoryItemRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunProduction inicia una transacción con todos los repos que toca una transición de lote.
func (r *TxRunner) RunProduction(ctx context.Context, fn func(
	batchRepo repository.ProductionBatchRepository,
	bomRepo repository.BOMRepository,
	movRepo repository.StockMovementRepository,
	stockRepo repository.ItemStockRepository,
	itemRepo repository.InventoryItemRepository,
	packagedRepo repository.PackagedProductRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = fn(
		NewProductionBatchRepository(tx),
		NewBOMRepository(tx),
		NewStockMovementRepository(tx),
		NewItemStockRepository(tx),
		NewInventoryItemRepository(tx),
		NewPackagedProductRepository(tx),
	)
	if err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunReceiving inicia una transacción para conciliar una línea de recibo.
func (r *TxRunner) RunReceiving(ctx context.Context, fn func(
	receiptRepo repository.ReceiptLineRepository,
	movRepo repository.StockMovementRepository,
	stockRepo repository.ItemStockRepository,
	itemRepo repository.InventoryItemRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = fn(
		NewReceiptLineRepository(tx),
		NewStockMovementRepository(tx),
		NewItemStockRepository(tx),
		NewInventoryItemRepository(tx),
	)
	if err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
