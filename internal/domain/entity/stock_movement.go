package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del libro de stock.
const (
	MovementPurchase    = "purchase"               // entrada por compra
	MovementConsumption = "production_consumption" // salida por producción
	MovementOutput      = "production_output"      // entrada de producto terminado
	MovementSales       = "sales"                  // salida por venta
	MovementAdjustment  = "adjustment"             // ajuste con signo libre
)

// Tipos de documento de referencia de un movimiento.
const (
	RefProductionBatch = "production_batch"
	RefPurchaseReceipt = "purchase_receipt"
	RefSalesOrder      = "sales_order"
	RefManual          = "manual"
)

// IsValidMovementKind valida el tipo de movimiento.
func IsValidMovementKind(kind string) bool {
	switch kind {
	case MovementPurchase, MovementConsumption, MovementOutput, MovementSales, MovementAdjustment:
		return true
	}
	return false
}

// IsOutboundKind indica si el tipo resta stock (la cantidad se persiste negativa).
func IsOutboundKind(kind string) bool {
	return kind == MovementConsumption || kind == MovementSales
}

// StockMovement es una entrada inmutable del libro: una vez escrita nunca se
// actualiza ni se borra; las correcciones son nuevos movimientos de ajuste.
// El stock actual de un artículo es la suma con signo de sus movimientos.
type StockMovement struct {
	ID            string
	ItemID        string
	Kind          string
	Quantity      decimal.Decimal  // con signo: negativo para consumo/venta
	UnitPrice     *decimal.Decimal // costo unitario en compras (opcional)
	ReferenceType string           // production_batch, purchase_receipt, ...
	ReferenceID   string
	Notes         string
	PerformedBy   string // UserID del actor autenticado
	PerformedAt   time.Time
}

// ItemStock es el agregado materializado del stock de un artículo.
// Solo se actualiza dentro de la misma transacción que inserta el movimiento
// que lo produjo; el libro de movimientos sigue siendo la fuente de verdad.
type ItemStock struct {
	ItemID    string
	Quantity  decimal.Decimal
	UpdatedAt time.Time
}
