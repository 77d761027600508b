package production

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/application/bom"
	"github.com/jhoicas/Manufactura-api/internal/application/ledger"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// UseCase orquesta el ciclo de vida de los lotes de producción:
// planned → in_progress → completed, o planned → cancelled. Toda transición
// que toca stock corre en una sola unidad de trabajo, con las filas de stock
// bloqueadas en orden de ID de artículo para evitar deadlocks.
type UseCase struct {
	txRunner     TxRunner
	ledgerUC     *ledger.UseCase
	batchRepo    repository.ProductionBatchRepository
	bomRepo      repository.BOMRepository
	itemRepo     repository.InventoryItemRepository
	packagedRepo repository.PackagedProductRepository
}

// New construye el caso de uso de producción.
func New(
	txRunner TxRunner,
	ledgerUC *ledger.UseCase,
	batchRepo repository.ProductionBatchRepository,
	bomRepo repository.BOMRepository,
	itemRepo repository.InventoryItemRepository,
	packagedRepo repository.PackagedProductRepository,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		ledgerUC:     ledgerUC,
		batchRepo:    batchRepo,
		bomRepo:      bomRepo,
		itemRepo:     itemRepo,
		packagedRepo: packagedRepo,
	}
}

// AllocationInput presentación empacada y cantidad (plan al crear, real al completar).
type AllocationInput struct {
	PackagedProductID string
	Quantity          decimal.Decimal
	Notes             string
}

// CreateBatchInput entrada para planear un lote.
type CreateBatchInput struct {
	ProductItemID   string
	PlannedQuantity decimal.Decimal
	ProductionDate  time.Time
	Notes           string
	Plan            []AllocationInput
	ActorID         string
}

// CreateBatch crea un lote en estado planned. Exige cantidad positiva y que
// el producto tenga receta activa; el plan de empaque debe pertenecer al producto.
func (uc *UseCase) CreateBatch(ctx context.Context, input CreateBatchInput) (*entity.ProductionBatch, error) {
	if input.ProductItemID == "" || input.ActorID == "" || !input.PlannedQuantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.itemRepo.GetByID(input.ProductItemID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, domain.ErrNotFound
	}
	activeBOM, err := uc.bomRepo.GetActiveByProduct(input.ProductItemID)
	if err != nil {
		return nil, err
	}
	if activeBOM == nil {
		return nil, domain.ErrNotFound
	}

	allocations, err := uc.validatePlan(input.ProductItemID, input.Plan, false, decimal.Zero)
	if err != nil {
		return nil, err
	}

	count, err := uc.batchRepo.Count()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	prodDate := input.ProductionDate
	if prodDate.IsZero() {
		prodDate = now
	}
	batch := &entity.ProductionBatch{
		BatchNumber:     fmt.Sprintf("BATCH%06d", count+1),
		ProductItemID:   input.ProductItemID,
		BOMID:           activeBOM.ID, // referencia inicial; se congela la versión vigente al iniciar
		PlannedQuantity: input.PlannedQuantity,
		ProductionDate:  prodDate,
		Status:          entity.BatchPlanned,
		Notes:           input.Notes,
		Allocations:     allocations,
		CreatedBy:       input.ActorID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.batchRepo.Create(batch); err != nil {
		return nil, err
	}
	return batch, nil
}

// Start consume las materias primas del lote. En una sola unidad de trabajo:
// bloquea el lote, explota la receta activa (y congela esa versión), bloquea
// el stock de TODOS los insumos en orden de ID, y solo si ninguno queda corto
// escribe un movimiento production_consumption por insumo y pasa a
// in_progress. Si alguno falta, la transacción se revierte completa y no
// queda ningún movimiento escrito.
func (uc *UseCase) Start(ctx context.Context, batchID, actorID string) (*entity.ProductionBatch, error) {
	if batchID == "" || actorID == "" {
		return nil, domain.ErrInvalidInput
	}
	var result *entity.ProductionBatch
	err := uc.txRunner.RunProduction(ctx, func(
		batchRepo repository.ProductionBatchRepository,
		bomRepo repository.BOMRepository,
		movRepo repository.StockMovementRepository,
		stockRepo repository.ItemStockRepository,
		itemRepo repository.InventoryItemRepository,
		packagedRepo repository.PackagedProductRepository,
	) error {
		batch, err := batchRepo.GetForUpdate(batchID)
		if err != nil {
			return err
		}
		if batch == nil {
			return domain.ErrNotFound
		}
		if batch.Status != entity.BatchPlanned {
			return &domain.InvalidStateTransitionError{BatchID: batch.ID, From: batch.Status, To: entity.BatchInProgress}
		}

		activeBOM, err := bomRepo.GetActiveByProduct(batch.ProductItemID)
		if err != nil {
			return err
		}
		if activeBOM == nil {
			return domain.ErrNotFound
		}

		requirements := make(map[string]decimal.Decimal)
		if err := bom.Explode(bomRepo, activeBOM, batch.PlannedQuantity, requirements); err != nil {
			return err
		}

		// Bloquear en orden de ID de artículo para evitar deadlocks entre lotes
		itemIDs := make([]string, 0, len(requirements))
		for id := range requirements {
			itemIDs = append(itemIDs, id)
		}
		sort.Strings(itemIDs)

		// Primera pasada: verificar TODO el requerimiento con las filas bloqueadas
		var shortages []domain.StockShortage
		for _, id := range itemIDs {
			item, err := itemRepo.GetByID(id)
			if err != nil {
				return err
			}
			if item == nil || !item.IsActive {
				return domain.ErrNotFound
			}
			stock, err := stockRepo.GetForUpdate(id)
			if err != nil {
				return err
			}
			required := requirements[id]
			if stock.Quantity.LessThan(required) {
				shortages = append(shortages, domain.StockShortage{
					ItemID:    item.ID,
					Code:      item.Code,
					Required:  required,
					Available: stock.Quantity,
					Shortfall: required.Sub(stock.Quantity),
				})
			}
		}
		if len(shortages) > 0 {
			return &domain.InsufficientStockError{Shortages: shortages}
		}

		// Segunda pasada: un movimiento de consumo por insumo (cantidad negativa)
		now := time.Now()
		for _, id := range itemIDs {
			_, err := uc.ledgerUC.RecordInTx(movRepo, stockRepo, itemRepo, ledger.MovementInput{
				ItemID:        id,
				Kind:          entity.MovementConsumption,
				Quantity:      requirements[id],
				ReferenceType: entity.RefProductionBatch,
				ReferenceID:   batch.ID,
				Notes:         "consumo lote " + batch.BatchNumber,
				ActorID:       actorID,
			}, now)
			if err != nil {
				return err
			}
		}

		batch.BOMID = activeBOM.ID // congela la versión de receta usada
		if err := batch.Transition(entity.BatchInProgress, now); err != nil {
			return err
		}
		if err := batchRepo.Update(batch); err != nil {
			return err
		}
		result = batch
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Complete registra la salida del lote: exige que la suma de las cantidades
// empacadas sea EXACTAMENTE la cantidad producida, escribe un movimiento
// production_output por presentación y pasa a completed. Producir distinto de
// lo planeado es válido; la varianza queda observable en los campos del lote.
func (uc *UseCase) Complete(ctx context.Context, batchID string, producedQuantity decimal.Decimal, items []AllocationInput, actorID string) (*entity.ProductionBatch, error) {
	if batchID == "" || actorID == "" || !producedQuantity.IsPositive() || len(items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	var result *entity.ProductionBatch
	err := uc.txRunner.RunProduction(ctx, func(
		batchRepo repository.ProductionBatchRepository,
		bomRepo repository.BOMRepository,
		movRepo repository.StockMovementRepository,
		stockRepo repository.ItemStockRepository,
		itemRepo repository.InventoryItemRepository,
		packagedRepo repository.PackagedProductRepository,
	) error {
		batch, err := batchRepo.GetForUpdate(batchID)
		if err != nil {
			return err
		}
		if batch == nil {
			return domain.ErrNotFound
		}
		if batch.Status != entity.BatchInProgress {
			return &domain.InvalidStateTransitionError{BatchID: batch.ID, From: batch.Status, To: entity.BatchCompleted}
		}

		allocations, outputs, err := uc.resolveOutputs(packagedRepo, batch, items, producedQuantity)
		if err != nil {
			return err
		}

		// Un movimiento production_output por artículo de stock, en orden de ID
		outputIDs := make([]string, 0, len(outputs))
		for id := range outputs {
			outputIDs = append(outputIDs, id)
		}
		sort.Strings(outputIDs)

		now := time.Now()
		for _, id := range outputIDs {
			_, err := uc.ledgerUC.RecordInTx(movRepo, stockRepo, itemRepo, ledger.MovementInput{
				ItemID:        id,
				Kind:          entity.MovementOutput,
				Quantity:      outputs[id],
				ReferenceType: entity.RefProductionBatch,
				ReferenceID:   batch.ID,
				Notes:         "salida lote " + batch.BatchNumber,
				ActorID:       actorID,
			}, now)
			if err != nil {
				return err
			}
		}

		batch.ProducedQuantity = producedQuantity
		if err := batch.Transition(entity.BatchCompleted, now); err != nil {
			return err
		}
		if err := batchRepo.ReplaceAllocations(batch.ID, allocations); err != nil {
			return err
		}
		batch.Allocations = allocations
		if err := batchRepo.Update(batch); err != nil {
			return err
		}
		result = batch
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Cancel solo aplica a lotes planned: un lote que ya consumió materia prima
// no se cancela en silencio; la reversión queda como ajuste compensatorio a
// cargo del caller.
func (uc *UseCase) Cancel(ctx context.Context, batchID, actorID string) (*entity.ProductionBatch, error) {
	if batchID == "" || actorID == "" {
		return nil, domain.ErrInvalidInput
	}
	var result *entity.ProductionBatch
	err := uc.txRunner.RunProduction(ctx, func(
		batchRepo repository.ProductionBatchRepository,
		bomRepo repository.BOMRepository,
		movRepo repository.StockMovementRepository,
		stockRepo repository.ItemStockRepository,
		itemRepo repository.InventoryItemRepository,
		packagedRepo repository.PackagedProductRepository,
	) error {
		batch, err := batchRepo.GetForUpdate(batchID)
		if err != nil {
			return err
		}
		if batch == nil {
			return domain.ErrNotFound
		}
		if err := batch.Transition(entity.BatchCancelled, time.Now()); err != nil {
			return err
		}
		if err := batchRepo.Update(batch); err != nil {
			return err
		}
		result = batch
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetBatch devuelve un lote por ID.
func (uc *UseCase) GetBatch(ctx context.Context, id string) (*entity.ProductionBatch, error) {
	batch, err := uc.batchRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, domain.ErrNotFound
	}
	return batch, nil
}

// ListBatches lista lotes, opcionalmente filtrados por estado.
func (uc *UseCase) ListBatches(ctx context.Context, status string, limit, offset int) ([]*entity.ProductionBatch, error) {
	return uc.batchRepo.List(status, limit, offset)
}

// validatePlan valida las presentaciones del plan contra el catálogo. Cuando
// enforceSum es true (al completar), la suma de cantidades debe igualar total.
func (uc *UseCase) validatePlan(productItemID string, plan []AllocationInput, enforceSum bool, total decimal.Decimal) ([]entity.BatchAllocation, error) {
	allocations := make([]entity.BatchAllocation, 0, len(plan))
	sum := decimal.Zero
	seen := make(map[string]bool, len(plan))
	for _, a := range plan {
		if a.PackagedProductID == "" || !a.Quantity.IsPositive() || seen[a.PackagedProductID] {
			return nil, domain.ErrInvalidInput
		}
		seen[a.PackagedProductID] = true
		pp, err := uc.packagedRepo.GetByID(a.PackagedProductID)
		if err != nil {
			return nil, err
		}
		if pp == nil || !pp.IsActive {
			return nil, domain.ErrNotFound
		}
		if pp.ProductItemID != productItemID {
			return nil, domain.ErrInvalidInput
		}
		sum = sum.Add(a.Quantity)
		allocations = append(allocations, entity.BatchAllocation{
			PackagedProductID: a.PackagedProductID,
			Quantity:          a.Quantity,
			Notes:             a.Notes,
		})
	}
	if enforceSum && !sum.Equal(total) {
		return nil, domain.ErrInvalidInput
	}
	return allocations, nil
}

// resolveOutputs valida las cantidades empacadas reales y las agrega por
// artículo de stock (dos presentaciones pueden compartir artículo).
func (uc *UseCase) resolveOutputs(
	packagedRepo repository.PackagedProductRepository,
	batch *entity.ProductionBatch,
	items []AllocationInput,
	producedQuantity decimal.Decimal,
) ([]entity.BatchAllocation, map[string]decimal.Decimal, error) {
	allocations := make([]entity.BatchAllocation, 0, len(items))
	outputs := make(map[string]decimal.Decimal, len(items))
	sum := decimal.Zero
	seen := make(map[string]bool, len(items))
	for _, a := range items {
		if a.PackagedProductID == "" || !a.Quantity.IsPositive() || seen[a.PackagedProductID] {
			return nil, nil, domain.ErrInvalidInput
		}
		seen[a.PackagedProductID] = true
		pp, err := packagedRepo.GetByID(a.PackagedProductID)
		if err != nil {
			return nil, nil, err
		}
		if pp == nil || !pp.IsActive {
			return nil, nil, domain.ErrNotFound
		}
		if pp.ProductItemID != batch.ProductItemID {
			return nil, nil, domain.ErrInvalidInput
		}
		sum = sum.Add(a.Quantity)
		outputs[pp.StockItemID] = outputs[pp.StockItemID].Add(a.Quantity)
		allocations = append(allocations, entity.BatchAllocation{
			BatchID:           batch.ID,
			PackagedProductID: a.PackagedProductID,
			Quantity:          a.Quantity,
			Notes:             a.Notes,
		})
	}
	// La suma empacada debe coincidir exactamente con lo producido
	if !sum.Equal(producedQuantity) {
		return nil, nil, domain.ErrInvalidInput
	}
	return allocations, outputs, nil
}
