package repository

import (
	"time"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// ReceiptLineRepository define el puerto de persistencia para líneas de recibo
// de compra. MarkProcessed debe ser condicional (processed = false) para que
// una segunda conciliación de la misma línea falle con conflicto.
type ReceiptLineRepository interface {
	Create(line *entity.PurchaseReceiptLine) error
	GetByID(id string) (*entity.PurchaseReceiptLine, error)
	// GetForUpdate obtiene la línea y bloquea la fila (SELECT FOR UPDATE).
	GetForUpdate(id string) (*entity.PurchaseReceiptLine, error)
	// MarkProcessed marca la línea como procesada solo si aún no lo estaba;
	// devuelve domain.ErrConflict si ya fue conciliada.
	MarkProcessed(id string, at time.Time) error
	ListPending(limit, offset int) ([]*entity.PurchaseReceiptLine, error)
}
