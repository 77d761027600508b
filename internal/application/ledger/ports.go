package ledger

import (
	"context"

	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza la atomicidad del libro de stock:
// el insert del movimiento y el update del agregado comparten Commit/Rollback.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		stockRepo repository.ItemStockRepository,
		itemRepo repository.InventoryItemRepository,
	) error) error
}
