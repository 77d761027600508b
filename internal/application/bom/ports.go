package bom

import (
	"context"

	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// TxRunner ejecuta el intercambio de versión activa dentro de una transacción:
// desactivar la receta anterior y crear la nueva comparten Commit/Rollback.
type TxRunner interface {
	RunBOM(ctx context.Context, fn func(
		bomRepo repository.BOMRepository,
		itemRepo repository.InventoryItemRepository,
	) error) error
}
