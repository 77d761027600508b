package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/inventory"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// UseCase es el libro de stock: registra movimientos inmutables de forma
// transaccional con bloqueo de fila (SELECT FOR UPDATE) y deriva el stock
// actual. Es el único componente que crea StockMovement.
type UseCase struct {
	txRunner  TxRunner
	itemRepo  repository.InventoryItemRepository
	stockRepo repository.ItemStockRepository
	movRepo   repository.StockMovementRepository
}

// New construye el caso de uso del libro de stock.
func New(
	txRunner TxRunner,
	itemRepo repository.InventoryItemRepository,
	stockRepo repository.ItemStockRepository,
	movRepo repository.StockMovementRepository,
) *UseCase {
	return &UseCase{txRunner: txRunner, itemRepo: itemRepo, stockRepo: stockRepo, movRepo: movRepo}
}

// MovementInput entrada para registrar un movimiento.
// Quantity es la magnitud (positiva) para purchase/sales/consumo/salida de
// producción; para adjustment lleva el signo deseado y puede dejar el stock
// negativo (merma conocida). UnitPrice solo aplica a compras.
type MovementInput struct {
	ItemID        string
	Kind          string
	Quantity      decimal.Decimal
	UnitPrice     *decimal.Decimal
	ReferenceType string
	ReferenceID   string
	Notes         string
	ActorID       string
}

// RecordMovement inicia una transacción, bloquea la fila del agregado de
// stock, valida que el resultado no quede negativo (salvo ajustes) y persiste
// el movimiento. Devuelve el ID del movimiento creado.
func (uc *UseCase) RecordMovement(ctx context.Context, input MovementInput) (string, error) {
	if err := validateInput(input); err != nil {
		return "", err
	}
	var movementID string
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		stockRepo repository.ItemStockRepository,
		itemRepo repository.InventoryItemRepository,
	) error {
		id, err := uc.RecordInTx(movRepo, stockRepo, itemRepo, input, time.Now())
		if err != nil {
			return err
		}
		movementID = id
		return nil
	})
	if err != nil {
		return "", err
	}
	return movementID, nil
}

// RecordInTx ejecuta el registro usando repositorios ya atados a la
// transacción del caller (producción y conciliación lo invocan dentro de su
// propia unidad atómica, al estilo RegisterOUTInTx).
func (uc *UseCase) RecordInTx(
	movRepo repository.StockMovementRepository,
	stockRepo repository.ItemStockRepository,
	itemRepo repository.InventoryItemRepository,
	input MovementInput,
	now time.Time,
) (string, error) {
	item, err := itemRepo.GetByID(input.ItemID)
	if err != nil {
		return "", err
	}
	if item == nil || !item.IsActive {
		return "", domain.ErrNotFound
	}

	// Bloquea la fila del agregado para evitar condiciones de carrera
	stock, err := stockRepo.GetForUpdate(input.ItemID)
	if err != nil {
		return "", err
	}

	signed := input.Quantity
	if entity.IsOutboundKind(input.Kind) {
		signed = input.Quantity.Neg()
	}
	newQty := stock.Quantity.Add(signed)

	// Solo los ajustes explícitos pueden dejar el stock negativo
	if newQty.IsNegative() && input.Kind != entity.MovementAdjustment {
		return "", &domain.InsufficientStockError{Shortages: []domain.StockShortage{{
			ItemID:    item.ID,
			Code:      item.Code,
			Required:  signed.Abs(),
			Available: stock.Quantity,
			Shortfall: newQty.Abs(),
		}}}
	}

	// Compras con costo: recalcular el promedio ponderado del artículo
	if input.Kind == entity.MovementPurchase && input.UnitPrice != nil {
		newCost := inventory.CostCalculator(stock.Quantity, item.CostPrice, input.Quantity, *input.UnitPrice)
		if err := itemRepo.UpdateCost(item.ID, newCost); err != nil {
			return "", err
		}
	}

	stock.Quantity = newQty
	stock.UpdatedAt = now
	if err := stockRepo.Upsert(stock); err != nil {
		return "", err
	}

	mov := &entity.StockMovement{
		ItemID:        input.ItemID,
		Kind:          input.Kind,
		Quantity:      signed,
		UnitPrice:     input.UnitPrice,
		ReferenceType: input.ReferenceType,
		ReferenceID:   input.ReferenceID,
		Notes:         input.Notes,
		PerformedBy:   input.ActorID,
		PerformedAt:   now,
	}
	if err := movRepo.Create(mov); err != nil {
		return "", err
	}
	return mov.ID, nil
}

// GetCurrentStock devuelve el stock actual del artículo (agregado mantenido,
// consistente con el libro bajo escritores concurrentes).
func (uc *UseCase) GetCurrentStock(ctx context.Context, itemID string) (decimal.Decimal, error) {
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil {
		return decimal.Zero, err
	}
	if item == nil {
		return decimal.Zero, domain.ErrNotFound
	}
	stock, err := uc.stockRepo.Get(itemID)
	if err != nil {
		return decimal.Zero, err
	}
	return stock.Quantity, nil
}

// GetStockStatus compara el stock actual contra los umbrales del artículo.
// Lectura pura, sin efectos.
func (uc *UseCase) GetStockStatus(ctx context.Context, itemID string) (*entity.StockStatus, error) {
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	stock, err := uc.stockRepo.Get(itemID)
	if err != nil {
		return nil, err
	}
	status := item.StatusFor(stock.Quantity)
	return &status, nil
}

// ListMovements devuelve el historial de movimientos de un artículo.
func (uc *UseCase) ListMovements(ctx context.Context, itemID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return uc.movRepo.ListByItem(itemID, from, to, limit, offset)
}

// RebuildStock recalcula el agregado desde la proyección pura (suma con signo
// del libro) y lo persiste en una transacción. Útil para verificar deriva.
func (uc *UseCase) RebuildStock(ctx context.Context, itemID string) (decimal.Decimal, error) {
	var rebuilt decimal.Decimal
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		stockRepo repository.ItemStockRepository,
		itemRepo repository.InventoryItemRepository,
	) error {
		item, err := itemRepo.GetByID(itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if _, err := stockRepo.GetForUpdate(itemID); err != nil {
			return err
		}
		sum, err := movRepo.SumByItem(itemID)
		if err != nil {
			return err
		}
		rebuilt = sum
		return stockRepo.Upsert(&entity.ItemStock{ItemID: itemID, Quantity: sum, UpdatedAt: time.Now()})
	})
	if err != nil {
		return decimal.Zero, err
	}
	return rebuilt, nil
}

func validateInput(input MovementInput) error {
	if input.ItemID == "" || input.ActorID == "" {
		return domain.ErrInvalidInput
	}
	if !entity.IsValidMovementKind(input.Kind) {
		return domain.ErrInvalidInput
	}
	if input.Quantity.IsZero() {
		return domain.ErrInvalidInput
	}
	// Para todo salvo ajustes, la magnitud llega positiva; el signo lo pone el tipo
	if input.Kind != entity.MovementAdjustment && input.Quantity.IsNegative() {
		return domain.ErrInvalidInput
	}
	if input.Kind == entity.MovementPurchase && input.UnitPrice != nil && input.UnitPrice.IsNegative() {
		return domain.ErrInvalidInput
	}
	return nil
}
