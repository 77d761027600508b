package receiving

import (
	"context"

	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// TxRunner ejecuta la conciliación de una línea de recibo en una transacción:
// el movimiento purchase y la marca de procesado comparten Commit/Rollback.
type TxRunner interface {
	RunReceiving(ctx context.Context, fn func(
		receiptRepo repository.ReceiptLineRepository,
		movRepo repository.StockMovementRepository,
		stockRepo repository.ItemStockRepository,
		itemRepo repository.InventoryItemRepository,
	) error) error
}
