package repository

import "github.com/jhoicas/Manufactura-api/internal/domain/entity"

// ProductionBatchRepository define el puerto de persistencia para lotes.
// Los lotes nunca se borran; Update solo lo invoca la máquina de estados.
type ProductionBatchRepository interface {
	Create(batch *entity.ProductionBatch) error
	GetByID(id string) (*entity.ProductionBatch, error)
	// GetForUpdate obtiene el lote y bloquea la fila para serializar transiciones.
	GetForUpdate(id string) (*entity.ProductionBatch, error)
	Update(batch *entity.ProductionBatch) error
	// ReplaceAllocations sustituye el plan de empaque por las cantidades reales.
	ReplaceAllocations(batchID string, allocations []entity.BatchAllocation) error
	List(status string, limit, offset int) ([]*entity.ProductionBatch, error)
	Count() (int64, error)
}
