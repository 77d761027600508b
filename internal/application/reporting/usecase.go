package reporting

import (
	"context"

	"github.com/jhoicas/Manufactura-api/internal/application/ledger"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// UseCase es el reporte de estado de stock: vista de solo lectura calculada
// sobre el libro + umbrales del catálogo. Sin mutaciones.
type UseCase struct {
	ledgerUC  *ledger.UseCase
	stockRepo repository.ItemStockRepository
}

// New construye el reporte de stock.
func New(ledgerUC *ledger.UseCase, stockRepo repository.ItemStockRepository) *UseCase {
	return &UseCase{ledgerUC: ledgerUC, stockRepo: stockRepo}
}

// Status devuelve el estado de stock de un artículo frente a sus umbrales.
func (uc *UseCase) Status(ctx context.Context, itemID string) (*entity.StockStatus, error) {
	return uc.ledgerUC.GetStockStatus(ctx, itemID)
}

// LowStock devuelve los artículos activos por debajo de su punto de reorden,
// mayor déficit primero.
func (uc *UseCase) LowStock(ctx context.Context) ([]repository.LowStockItem, error) {
	return uc.stockRepo.ListBelowReorder(ctx)
}
