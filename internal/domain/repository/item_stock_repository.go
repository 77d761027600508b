package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// LowStockItem resultado crudo del repositorio para un artículo bajo umbral.
type LowStockItem struct {
	ItemID        string
	Code          string
	Name          string
	UnitOfMeasure string
	Current       decimal.Decimal
	MinStockLevel decimal.Decimal
	ReorderLevel  decimal.Decimal
}

// ItemStockRepository define el puerto para el agregado de stock por artículo.
// Upsert solo debe invocarse dentro de la transacción que inserta el movimiento
// correspondiente; actualizarlo por fuera reintroduce el bug de lost update.
type ItemStockRepository interface {
	Get(itemID string) (*entity.ItemStock, error)
	// GetForUpdate obtiene el stock y bloquea la fila (SELECT FOR UPDATE).
	GetForUpdate(itemID string) (*entity.ItemStock, error)
	Upsert(stock *entity.ItemStock) error

	// ListBelowReorder devuelve los artículos activos cuyo stock actual está por
	// debajo de su punto de reorden, mayor déficit primero.
	ListBelowReorder(ctx context.Context) ([]LowStockItem, error)
}
