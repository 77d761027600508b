package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, item_id, kind, quantity, unit_price,
	reference_type, reference_id, notes, performed_by, performed_at`

// StockMovementRepo implementación de StockMovementRepository (usable con pool o tx).
// El libro es append-only: no hay UPDATE ni DELETE sobre stock_movements.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento del libro.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.ItemID, movement.Kind, movement.Quantity, movement.UnitPrice,
		nullIfEmpty(movement.ReferenceType), nullIfEmpty(movement.ReferenceID),
		nullIfEmpty(movement.Notes), movement.PerformedBy, movement.PerformedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	m, err := r.scanRow(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get stock movement: %w", err)
	}
	return m, nil
}

// ListByItem devuelve el historial del artículo, más reciente primero,
// con filtro opcional de rango de fechas.
func (r *StockMovementRepo) ListByItem(itemID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE item_id = $1`
	args := []any{itemID}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND performed_at >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND performed_at <= $%d", len(args))
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY performed_at DESC, id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements by item: %w", err)
	}
	defer rows.Close()
	return r.scanRows(rows)
}

// ListByReference devuelve los movimientos asociados a un documento.
func (r *StockMovementRepo) ListByReference(refType, refID string) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements
		WHERE reference_type = $1 AND reference_id = $2
		ORDER BY performed_at, id`
	rows, err := r.q.Query(context.Background(), query, refType, refID)
	if err != nil {
		return nil, fmt.Errorf("list movements by reference: %w", err)
	}
	defer rows.Close()
	return r.scanRows(rows)
}

// SumByItem devuelve la suma con signo de los movimientos del artículo.
func (r *StockMovementRepo) SumByItem(itemID string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(quantity), 0) FROM stock_movements WHERE item_id = $1`
	var sum decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, itemID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum movements by item: %w", err)
	}
	return sum, nil
}

func (r *StockMovementRepo) scanRows(rows pgx.Rows) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for rows.Next() {
		m, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *StockMovementRepo) scanRow(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var refType, refID, notes *string
	err := row.Scan(
		&m.ID, &m.ItemID, &m.Kind, &m.Quantity, &m.UnitPrice,
		&refType, &refID, &notes, &m.PerformedBy, &m.PerformedAt,
	)
	if err != nil {
		return nil, err
	}
	if refType != nil {
		m.ReferenceType = *refType
	}
	if refID != nil {
		m.ReferenceID = *refID
	}
	if notes != nil {
		m.Notes = *notes
	}
	return &m, nil
}
