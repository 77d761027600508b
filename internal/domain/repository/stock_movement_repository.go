package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia para el libro de
// movimientos. Solo hay Create: los movimientos son inmutables, las
// correcciones se expresan como nuevos movimientos de ajuste.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	ListByItem(itemID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	ListByReference(refType, refID string) ([]*entity.StockMovement, error)

	// SumByItem devuelve la suma con signo de todos los movimientos del artículo
	// (la proyección pura del stock actual, usada para verificar el agregado).
	SumByItem(itemID string) (decimal.Decimal, error)
}
