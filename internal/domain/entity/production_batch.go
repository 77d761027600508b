package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/domain"
)

// Estados del ciclo de vida de un lote de producción.
// planned → in_progress → completed, o planned → cancelled.
// completed y cancelled son terminales.
const (
	BatchPlanned    = "planned"
	BatchInProgress = "in_progress"
	BatchCompleted  = "completed"
	BatchCancelled  = "cancelled"
)

// batchTransitions define la máquina de estados del lote. Cualquier cambio de
// estado pasa por Transition; no hay checks sueltos en los call sites.
var batchTransitions = map[string][]string{
	BatchPlanned:    {BatchInProgress, BatchCancelled},
	BatchInProgress: {BatchCompleted},
}

// ProductionBatch es un lote de producción: consume materias primas al
// iniciar y emite producto terminado empacado al completar. Nunca se borra;
// termina en completed o cancelled.
type ProductionBatch struct {
	ID               string
	BatchNumber      string
	ProductItemID    string
	BOMID            string // versión de receta usada, congelada al iniciar
	PlannedQuantity  decimal.Decimal
	ProducedQuantity decimal.Decimal // se fija al completar; la varianza vs. lo planeado se conserva
	ProductionDate   time.Time
	Status           string
	Notes            string
	Allocations      []BatchAllocation
	CreatedBy        string
	CreatedAt        time.Time
	StartedAt        *time.Time
	CompletedAt      *time.Time
	CancelledAt      *time.Time
	UpdatedAt        time.Time
}

// BatchAllocation reparte la salida del lote entre presentaciones empacadas.
// Al crear el lote guarda el plan; al completar se reemplaza por lo real.
type BatchAllocation struct {
	ID                string
	BatchID           string
	PackagedProductID string
	Quantity          decimal.Decimal
	Notes             string
}

// Transition valida y aplica un cambio de estado, sellando el timestamp de la
// transición. Devuelve InvalidStateTransitionError si el estado actual no lo permite.
func (b *ProductionBatch) Transition(to string, now time.Time) error {
	for _, allowed := range batchTransitions[b.Status] {
		if allowed != to {
			continue
		}
		b.Status = to
		b.UpdatedAt = now
		switch to {
		case BatchInProgress:
			t := now
			b.StartedAt = &t
		case BatchCompleted:
			t := now
			b.CompletedAt = &t
		case BatchCancelled:
			t := now
			b.CancelledAt = &t
		}
		return nil
	}
	return &domain.InvalidStateTransitionError{BatchID: b.ID, From: b.Status, To: to}
}
