package memory

import (
	"context"

	"github.com/jhoicas/Manufactura-api/internal/application/bom"
	"github.com/jhoicas/Manufactura-api/internal/application/ledger"
	"github.com/jhoicas/Manufactura-api/internal/application/production"
	"github.com/jhoicas/Manufactura-api/internal/application/receiving"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

var _ ledger.TxRunner = (*TxRunner)(nil)
var _ bom.TxRunner = (*TxRunner)(nil)
var _ production.TxRunner = (*TxRunner)(nil)
var _ receiving.TxRunner = (*TxRunner)(nil)

// TxRunner emula la semántica transaccional: toma un snapshot del Store antes
// de ejecutar fn y lo restaura si fn falla, de modo que los tests observen el
// mismo todo-o-nada que la implementación PostgreSQL.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre el Store compartido.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

func (r *TxRunner) run(fn func() error) error {
	snap := r.store.snapshot()
	if err := fn(); err != nil {
		r.store.restore(snap)
		return err
	}
	return nil
}

// Run ejecuta fn con los repos del libro de stock.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	stockRepo repository.ItemStockRepository,
	itemRepo repository.InventoryItemRepository,
) error) error {
	return r.run(func() error {
		return fn(NewStockMovementRepository(r.store), NewItemStockRepository(r.store), NewInventoryItemRepository(r.store))
	})
}

// RunBOM ejecuta fn con los repos del motor de recetas.
func (r *TxRunner) RunBOM(ctx context.Context, fn func(
	bomRepo repository.BOMRepository,
	itemRepo repository.InventoryItemRepository,
) error) error {
	return r.run(func() error {
		return fn(NewBOMRepository(r.store), NewInventoryItemRepository(r.store))
	})
}

// RunProduction ejecuta fn con los repos de una transición de lote.
func (r *TxRunner) RunProduction(ctx context.Context, fn func(
	batchRepo repository.ProductionBatchRepository,
	bomRepo repository.BOMRepository,
	movRepo repository.StockMovementRepository,
	stockRepo repository.ItemStockRepository,
	itemRepo repository.InventoryItemRepository,
	packagedRepo repository.PackagedProductRepository,
) error) error {
	return r.run(func() error {
		return fn(
			NewProductionBatchRepository(r.store),
			NewBOMRepository(r.store),
			NewStockMovementRepository(r.store),
			NewItemStockRepository(r.store),
			NewInventoryItemRepository(r.store),
			NewPackagedProductRepository(r.store),
		)
	})
}

// RunReceiving ejecuta fn con los repos de la conciliación de recibos.
func (r *TxRunner) RunReceiving(ctx context.Context, fn func(
	receiptRepo repository.ReceiptLineRepository,
	movRepo repository.StockMovementRepository,
	stockRepo repository.ItemStockRepository,
	itemRepo repository.InventoryItemRepository,
) error) error {
	return r.run(func() error {
		return fn(
			NewReceiptLineRepository(r.store),
			NewStockMovementRepository(r.store),
			NewItemStockRepository(r.store),
			NewInventoryItemRepository(r.store),
		)
	})
}
