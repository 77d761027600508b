package production

import (
	"context"

	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// TxRunner ejecuta una transición de lote dentro de una transacción: la
// verificación de stock, los movimientos y el cambio de estado comparten
// Commit/Rollback (todo o nada).
type TxRunner interface {
	RunProduction(ctx context.Context, fn func(
		batchRepo repository.ProductionBatchRepository,
		bomRepo repository.BOMRepository,
		movRepo repository.StockMovementRepository,
		stockRepo repository.ItemStockRepository,
		itemRepo repository.InventoryItemRepository,
		packagedRepo repository.PackagedProductRepository,
	) error) error
}
