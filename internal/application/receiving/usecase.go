package receiving

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/application/ledger"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// UseCase concilia recibos de compra: convierte la porción ACEPTADA de cada
// línea en un movimiento purchase del libro. Lo rechazado nunca toca el stock.
type UseCase struct {
	txRunner    TxRunner
	ledgerUC    *ledger.UseCase
	receiptRepo repository.ReceiptLineRepository
	itemRepo    repository.InventoryItemRepository
}

// New construye el caso de uso de conciliación de recibos.
func New(
	txRunner TxRunner,
	ledgerUC *ledger.UseCase,
	receiptRepo repository.ReceiptLineRepository,
	itemRepo repository.InventoryItemRepository,
) *UseCase {
	return &UseCase{txRunner: txRunner, ledgerUC: ledgerUC, receiptRepo: receiptRepo, itemRepo: itemRepo}
}

// ReceiptLineInput entrada para registrar una línea de recibo pendiente.
type ReceiptLineInput struct {
	ReceiptNumber    string
	POItemID         string
	ItemID           string
	ReceivedQuantity decimal.Decimal
	AcceptedQuantity decimal.Decimal
	RejectedQuantity decimal.Decimal
	RejectionReason  string
	UnitPrice        *decimal.Decimal
	BatchNumber      string
	ExpiryDate       *time.Time
	ActorID          string
}

// RegisterReceiptLine persiste una línea de recibo pendiente de conciliar.
// La validación fuerte de cantidades ocurre al conciliar; aquí solo se exige
// coherencia básica.
func (uc *UseCase) RegisterReceiptLine(ctx context.Context, input ReceiptLineInput) (*entity.PurchaseReceiptLine, error) {
	if input.ItemID == "" || input.ActorID == "" || !input.ReceivedQuantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	if input.AcceptedQuantity.IsNegative() || input.RejectedQuantity.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	item, err := uc.itemRepo.GetByID(input.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil || !item.IsActive {
		return nil, domain.ErrNotFound
	}
	line := &entity.PurchaseReceiptLine{
		ReceiptNumber:    input.ReceiptNumber,
		POItemID:         input.POItemID,
		ItemID:           input.ItemID,
		ReceivedQuantity: input.ReceivedQuantity,
		AcceptedQuantity: input.AcceptedQuantity,
		RejectedQuantity: input.RejectedQuantity,
		RejectionReason:  input.RejectionReason,
		UnitPrice:        input.UnitPrice,
		BatchNumber:      input.BatchNumber,
		ExpiryDate:       input.ExpiryDate,
		ReceivedBy:       input.ActorID,
		CreatedAt:        time.Now(),
	}
	if err := uc.receiptRepo.Create(line); err != nil {
		return nil, err
	}
	return line, nil
}

// AcceptReceiptLine concilia una línea: valida accepted + rejected ≤ received
// (si no, ReconciliationError) y que haya motivo cuando hay rechazo; escribe
// EXACTAMENTE un movimiento purchase por la cantidad aceptada y marca la línea
// como procesada, todo en una transacción. Una línea ya procesada devuelve
// conflicto sin escribir nada.
func (uc *UseCase) AcceptReceiptLine(ctx context.Context, lineID, actorID string) (string, error) {
	if lineID == "" || actorID == "" {
		return "", domain.ErrInvalidInput
	}
	var movementID string
	err := uc.txRunner.RunReceiving(ctx, func(
		receiptRepo repository.ReceiptLineRepository,
		movRepo repository.StockMovementRepository,
		stockRepo repository.ItemStockRepository,
		itemRepo repository.InventoryItemRepository,
	) error {
		line, err := receiptRepo.GetForUpdate(lineID)
		if err != nil {
			return err
		}
		if line == nil {
			return domain.ErrNotFound
		}
		if line.Processed {
			return domain.ErrConflict
		}
		if line.AcceptedQuantity.Add(line.RejectedQuantity).GreaterThan(line.ReceivedQuantity) {
			return fmt.Errorf("línea %s: aceptado %s + rechazado %s excede lo recibido %s: %w",
				line.ID, line.AcceptedQuantity, line.RejectedQuantity, line.ReceivedQuantity, domain.ErrReconciliation)
		}
		if line.RejectedQuantity.IsPositive() && line.RejectionReason == "" {
			return domain.ErrInvalidInput
		}

		now := time.Now()
		if line.AcceptedQuantity.IsPositive() {
			id, err := uc.ledgerUC.RecordInTx(movRepo, stockRepo, itemRepo, ledger.MovementInput{
				ItemID:        line.ItemID,
				Kind:          entity.MovementPurchase,
				Quantity:      line.AcceptedQuantity,
				UnitPrice:     line.UnitPrice,
				ReferenceType: entity.RefPurchaseReceipt,
				ReferenceID:   line.ID,
				Notes:         "recibo " + line.ReceiptNumber,
				ActorID:       actorID,
			}, now)
			if err != nil {
				return err
			}
			movementID = id
		}
		return receiptRepo.MarkProcessed(line.ID, now)
	})
	if err != nil {
		return "", err
	}
	return movementID, nil
}

// ListPending lista líneas de recibo aún no conciliadas.
func (uc *UseCase) ListPending(ctx context.Context, limit, offset int) ([]*entity.PurchaseReceiptLine, error) {
	return uc.receiptRepo.ListPending(limit, offset)
}
