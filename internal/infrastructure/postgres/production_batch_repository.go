package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

var _ repository.ProductionBatchRepository = (*ProductionBatchRepo)(nil)

const batchColumns = `id, batch_number, product_item_id, bom_id, planned_quantity,
	produced_quantity, production_date, status, notes, created_by, created_at,
	started_at, completed_at, cancelled_at, updated_at`

// ProductionBatchRepo implementación de ProductionBatchRepository (usable con pool o tx).
type ProductionBatchRepo struct {
	q Querier
}

// NewProductionBatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductionBatchRepository(q Querier) *ProductionBatchRepo {
	return &ProductionBatchRepo{q: q}
}

// Create persiste el lote con su plan de empaque.
func (r *ProductionBatchRepo) Create(batch *entity.ProductionBatch) error {
	if batch.ID == "" {
		batch.ID = uuid.New().String()
	}
	query := `
		INSERT INTO production_batches (` + batchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		batch.ID, batch.BatchNumber, batch.ProductItemID, nullIfEmpty(batch.BOMID),
		batch.PlannedQuantity, batch.ProducedQuantity, batch.ProductionDate, batch.Status,
		nullIfEmpty(batch.Notes), batch.CreatedBy, batch.CreatedAt,
		batch.StartedAt, batch.CompletedAt, batch.CancelledAt, batch.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert production batch: %w", err)
	}
	return r.insertAllocations(batch.ID, batch.Allocations)
}

// GetByID obtiene un lote con sus asignaciones de empaque.
func (r *ProductionBatchRepo) GetByID(id string) (*entity.ProductionBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM production_batches WHERE id = $1`
	return r.getOne(query, id)
}

// GetForUpdate obtiene el lote y bloquea la fila para serializar transiciones.
func (r *ProductionBatchRepo) GetForUpdate(id string) (*entity.ProductionBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM production_batches WHERE id = $1 FOR UPDATE`
	return r.getOne(query, id)
}

// Update persiste el estado, cantidades y timestamps del lote.
func (r *ProductionBatchRepo) Update(batch *entity.ProductionBatch) error {
	query := `
		UPDATE production_batches
		SET bom_id = $2, produced_quantity = $3, status = $4, notes = $5,
		    started_at = $6, completed_at = $7, cancelled_at = $8, updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		batch.ID, nullIfEmpty(batch.BOMID), batch.ProducedQuantity, batch.Status,
		nullIfEmpty(batch.Notes), batch.StartedAt, batch.CompletedAt, batch.CancelledAt,
		batch.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update production batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ReplaceAllocations sustituye el plan de empaque por las cantidades reales.
func (r *ProductionBatchRepo) ReplaceAllocations(batchID string, allocations []entity.BatchAllocation) error {
	if _, err := r.q.Exec(context.Background(),
		`DELETE FROM production_batch_packaging WHERE batch_id = $1`, batchID); err != nil {
		return fmt.Errorf("delete batch allocations: %w", err)
	}
	return r.insertAllocations(batchID, allocations)
}

// List devuelve lotes paginados, opcionalmente filtrados por estado.
func (r *ProductionBatchRepo) List(status string, limit, offset int) ([]*entity.ProductionBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM production_batches`
	args := []any{}
	if status != "" {
		args = append(args, status)
		query += ` WHERE status = $1`
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list production batches: %w", err)
	}
	var out []*entity.ProductionBatch
	for rows.Next() {
		b, err := r.scanRow(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan production batch: %w", err)
		}
		out = append(out, b)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, b := range out {
		if err := r.loadAllocations(b); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Count devuelve el total de lotes (para numeración consecutiva).
func (r *ProductionBatchRepo) Count() (int64, error) {
	var n int64
	if err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM production_batches`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count production batches: %w", err)
	}
	return n, nil
}

func (r *ProductionBatchRepo) getOne(query, id string) (*entity.ProductionBatch, error) {
	b, err := r.scanRow(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get production batch: %w", err)
	}
	if err := r.loadAllocations(b); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *ProductionBatchRepo) insertAllocations(batchID string, allocations []entity.BatchAllocation) error {
	for i := range allocations {
		a := &allocations[i]
		if a.ID == "" {
			a.ID = uuid.New().String()
		}
		a.BatchID = batchID
		query := `
			INSERT INTO production_batch_packaging (id, batch_id, packaged_product_id, quantity, notes)
			VALUES ($1, $2, $3, $4, $5)`
		_, err := r.q.Exec(context.Background(), query,
			a.ID, a.BatchID, a.PackagedProductID, a.Quantity, nullIfEmpty(a.Notes))
		if err != nil {
			return fmt.Errorf("insert batch allocation: %w", err)
		}
	}
	return nil
}

func (r *ProductionBatchRepo) loadAllocations(b *entity.ProductionBatch) error {
	query := `SELECT id, batch_id, packaged_product_id, quantity, notes
		FROM production_batch_packaging WHERE batch_id = $1 ORDER BY packaged_product_id`
	rows, err := r.q.Query(context.Background(), query, b.ID)
	if err != nil {
		return fmt.Errorf("load batch allocations: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var a entity.BatchAllocation
		var notes *string
		if err := rows.Scan(&a.ID, &a.BatchID, &a.PackagedProductID, &a.Quantity, &notes); err != nil {
			return fmt.Errorf("scan batch allocation: %w", err)
		}
		if notes != nil {
			a.Notes = *notes
		}
		b.Allocations = append(b.Allocations, a)
	}
	return rows.Err()
}

func (r *ProductionBatchRepo) scanRow(row pgx.Row) (*entity.ProductionBatch, error) {
	var b entity.ProductionBatch
	var bomID, notes *string
	err := row.Scan(
		&b.ID, &b.BatchNumber, &b.ProductItemID, &bomID, &b.PlannedQuantity,
		&b.ProducedQuantity, &b.ProductionDate, &b.Status, &notes, &b.CreatedBy,
		&b.CreatedAt, &b.StartedAt, &b.CompletedAt, &b.CancelledAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if bomID != nil {
		b.BOMID = *bomID
	}
	if notes != nil {
		b.Notes = *notes
	}
	return &b, nil
}
