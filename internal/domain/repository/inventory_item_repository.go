package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// InventoryItemRepository define el puerto de persistencia para InventoryItem (DIP).
// El core nunca muta un artículo salvo su costo promedio y el flag de activo.
type InventoryItemRepository interface {
	Create(item *entity.InventoryItem) error
	GetByID(id string) (*entity.InventoryItem, error)
	GetByCode(code string) (*entity.InventoryItem, error)
	Update(item *entity.InventoryItem) error
	UpdateCost(itemID string, cost decimal.Decimal) error
	Deactivate(id string) error
	List(onlyActive bool, limit, offset int) ([]*entity.InventoryItem, error)
}
