package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Unidades de medida soportadas para insumos y producto terminado.
const (
	UnitGram       = "gram"
	UnitKilogram   = "kilogram"
	UnitLiter      = "liter"
	UnitMilliliter = "milliliter"
	UnitPiece      = "piece"
	UnitBox        = "box"
	UnitPacket     = "packet"
	UnitCarton     = "carton"
)

// InventoryItem representa un artículo del catálogo: materia prima o producto
// terminado. El stock actual NO vive aquí: se deriva del libro de movimientos
// (ver ItemStock, agregado acoplado transaccionalmente al ledger).
type InventoryItem struct {
	ID            string
	Code          string // código único
	Name          string
	Description   string
	CategoryID    string
	UnitOfMeasure string
	MinStockLevel decimal.Decimal
	ReorderLevel  decimal.Decimal
	MaxStockLevel *decimal.Decimal // nil = sin tope
	CostPrice     decimal.Decimal  // costo promedio ponderado, actualizado por compras
	HSNCode       string
	IsRawMaterial bool // true = materia prima, false = producto terminado
	IsActive      bool
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// StockStatus es la vista de solo lectura del stock frente a los umbrales del artículo.
type StockStatus struct {
	ItemID       string
	Code         string
	Current      decimal.Decimal
	MinStock     decimal.Decimal
	ReorderLevel decimal.Decimal
	BelowReorder bool
	BelowMin     bool
}

// StatusFor compara un stock actual contra los umbrales del artículo.
func (i *InventoryItem) StatusFor(current decimal.Decimal) StockStatus {
	return StockStatus{
		ItemID:       i.ID,
		Code:         i.Code,
		Current:      current,
		MinStock:     i.MinStockLevel,
		ReorderLevel: i.ReorderLevel,
		BelowReorder: current.LessThan(i.ReorderLevel),
		BelowMin:     current.LessThan(i.MinStockLevel),
	}
}
