package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseReceiptLine es una línea de recibo de compra producida por el
// módulo externo de compras. La conciliación convierte la porción aceptada en
// un movimiento purchase; lo rechazado nunca toca el libro. Invariante:
// accepted + rejected ≤ received. El flag Processed evita conciliar dos veces
// la misma línea (la lógica de negocio asume a lo sumo una invocación).
type PurchaseReceiptLine struct {
	ID               string
	ReceiptNumber    string
	POItemID         string // línea de orden de compra origen (referencia externa)
	ItemID           string
	ReceivedQuantity decimal.Decimal
	AcceptedQuantity decimal.Decimal
	RejectedQuantity decimal.Decimal
	RejectionReason  string // obligatorio cuando RejectedQuantity > 0
	UnitPrice        *decimal.Decimal
	BatchNumber      string
	ExpiryDate       *time.Time
	Processed        bool
	ProcessedAt      *time.Time
	ReceivedBy       string
	CreatedAt        time.Time
}
