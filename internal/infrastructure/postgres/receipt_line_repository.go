package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

var _ repository.ReceiptLineRepository = (*ReceiptLineRepo)(nil)

const receiptLineColumns = `id, receipt_number, po_item_id, item_id, received_quantity,
	accepted_quantity, rejected_quantity, rejection_reason, unit_price, batch_number,
	expiry_date, processed, processed_at, received_by, created_at`

// ReceiptLineRepo implementación de ReceiptLineRepository (usable con pool o tx).
type ReceiptLineRepo struct {
	q Querier
}

// NewReceiptLineRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReceiptLineRepository(q Querier) *ReceiptLineRepo {
	return &ReceiptLineRepo{q: q}
}

// Create persiste una línea de recibo pendiente de conciliar.
func (r *ReceiptLineRepo) Create(line *entity.PurchaseReceiptLine) error {
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	query := `
		INSERT INTO purchase_receipt_lines (` + receiptLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.ReceiptNumber, nullIfEmpty(line.POItemID), line.ItemID,
		line.ReceivedQuantity, line.AcceptedQuantity, line.RejectedQuantity,
		nullIfEmpty(line.RejectionReason), line.UnitPrice, nullIfEmpty(line.BatchNumber),
		line.ExpiryDate, line.Processed, line.ProcessedAt, nullIfEmpty(line.ReceivedBy),
		line.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert receipt line: %w", err)
	}
	return nil
}

// GetByID obtiene una línea por ID.
func (r *ReceiptLineRepo) GetByID(id string) (*entity.PurchaseReceiptLine, error) {
	query := `SELECT ` + receiptLineColumns + ` FROM purchase_receipt_lines WHERE id = $1`
	return r.getOne(query, id)
}

// GetForUpdate obtiene la línea y bloquea la fila (SELECT FOR UPDATE).
func (r *ReceiptLineRepo) GetForUpdate(id string) (*entity.PurchaseReceiptLine, error) {
	query := `SELECT ` + receiptLineColumns + ` FROM purchase_receipt_lines WHERE id = $1 FOR UPDATE`
	return r.getOne(query, id)
}

// MarkProcessed marca la línea como procesada solo si no lo estaba.
// El WHERE condicional convierte la doble conciliación en ErrConflict.
func (r *ReceiptLineRepo) MarkProcessed(id string, at time.Time) error {
	query := `UPDATE purchase_receipt_lines
		SET processed = true, processed_at = $2
		WHERE id = $1 AND processed = false`
	tag, err := r.q.Exec(context.Background(), query, id, at)
	if err != nil {
		return fmt.Errorf("mark receipt line processed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

// ListPending devuelve las líneas aún no conciliadas, más antigua primero.
func (r *ReceiptLineRepo) ListPending(limit, offset int) ([]*entity.PurchaseReceiptLine, error) {
	query := `SELECT ` + receiptLineColumns + ` FROM purchase_receipt_lines
		WHERE processed = false
		ORDER BY created_at LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list pending receipt lines: %w", err)
	}
	defer rows.Close()

	var out []*entity.PurchaseReceiptLine
	for rows.Next() {
		line, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan receipt line: %w", err)
		}
		out = append(out, line)
	}
	return out, rows.Err()
}

func (r *ReceiptLineRepo) getOne(query, id string) (*entity.PurchaseReceiptLine, error) {
	line, err := r.scanRow(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get receipt line: %w", err)
	}
	return line, nil
}

func (r *ReceiptLineRepo) scanRow(row pgx.Row) (*entity.PurchaseReceiptLine, error) {
	var l entity.PurchaseReceiptLine
	var poItemID, reason, batchNumber, receivedBy *string
	err := row.Scan(
		&l.ID, &l.ReceiptNumber, &poItemID, &l.ItemID, &l.ReceivedQuantity,
		&l.AcceptedQuantity, &l.RejectedQuantity, &reason, &l.UnitPrice, &batchNumber,
		&l.ExpiryDate, &l.Processed, &l.ProcessedAt, &receivedBy, &l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if poItemID != nil {
		l.POItemID = *poItemID
	}
	if reason != nil {
		l.RejectionReason = *reason
	}
	if batchNumber != nil {
		l.BatchNumber = *batchNumber
	}
	if receivedBy != nil {
		l.ReceivedBy = *receivedBy
	}
	return &l, nil
}
