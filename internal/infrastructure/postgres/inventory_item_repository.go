package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

var _ repository.InventoryItemRepository = (*InventoryItemRepo)(nil)

const itemColumns = `id, code, name, description, category_id, unit_of_measure,
	min_stock_level, reorder_level, max_stock_level, cost_price, hsn_code,
	is_raw_material, is_active, created_by, created_at, updated_at`

// InventoryItemRepo implementación de InventoryItemRepository (usable con pool o tx).
type InventoryItemRepo struct {
	q Querier
}

// NewInventoryItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryItemRepository(q Querier) *InventoryItemRepo {
	return &InventoryItemRepo{q: q}
}

// Create persiste un artículo de catálogo.
func (r *InventoryItemRepo) Create(item *entity.InventoryItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.Code, item.Name, nullIfEmpty(item.Description), nullIfEmpty(item.CategoryID),
		item.UnitOfMeasure, item.MinStockLevel, item.ReorderLevel, item.MaxStockLevel,
		item.CostPrice, nullIfEmpty(item.HSNCode), item.IsRawMaterial, item.IsActive,
		nullIfEmpty(item.CreatedBy), item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert inventory item: %w", err)
	}
	return nil
}

// GetByID obtiene un artículo por ID.
func (r *InventoryItemRepo) GetByID(id string) (*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetByCode obtiene un artículo por su código único.
func (r *InventoryItemRepo) GetByCode(code string) (*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE code = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, code))
}

// Update actualiza los campos editables del artículo.
func (r *InventoryItemRepo) Update(item *entity.InventoryItem) error {
	query := `
		UPDATE inventory_items
		SET name = $2, description = $3, category_id = $4, unit_of_measure = $5,
		    min_stock_level = $6, reorder_level = $7, max_stock_level = $8,
		    is_active = $9, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		item.ID, item.Name, nullIfEmpty(item.Description), nullIfEmpty(item.CategoryID),
		item.UnitOfMeasure, item.MinStockLevel, item.ReorderLevel, item.MaxStockLevel,
		item.IsActive,
	)
	if err != nil {
		return fmt.Errorf("update inventory item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateCost actualiza solo el costo promedio ponderado.
func (r *InventoryItemRepo) UpdateCost(itemID string, cost decimal.Decimal) error {
	query := `UPDATE inventory_items SET cost_price = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, itemID, cost)
	if err != nil {
		return fmt.Errorf("update item cost: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Deactivate marca el artículo como inactivo (soft delete).
func (r *InventoryItemRepo) Deactivate(id string) error {
	query := `UPDATE inventory_items SET is_active = false, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id)
	if err != nil {
		return fmt.Errorf("deactivate inventory item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve artículos paginados, opcionalmente solo activos.
func (r *InventoryItemRepo) List(onlyActive bool, limit, offset int) ([]*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items`
	if onlyActive {
		query += ` WHERE is_active = true`
	}
	query += ` ORDER BY code LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list inventory items: %w", err)
	}
	defer rows.Close()

	var items []*entity.InventoryItem
	for rows.Next() {
		item, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *InventoryItemRepo) scanOne(row pgx.Row) (*entity.InventoryItem, error) {
	item, err := r.scanRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

func (r *InventoryItemRepo) scanRow(row pgx.Row) (*entity.InventoryItem, error) {
	var i entity.InventoryItem
	var description, categoryID, hsnCode, createdBy *string
	err := row.Scan(
		&i.ID, &i.Code, &i.Name, &description, &categoryID, &i.UnitOfMeasure,
		&i.MinStockLevel, &i.ReorderLevel, &i.MaxStockLevel, &i.CostPrice, &hsnCode,
		&i.IsRawMaterial, &i.IsActive, &createdBy, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if description != nil {
		i.Description = *description
	}
	if categoryID != nil {
		i.CategoryID = *categoryID
	}
	if hsnCode != nil {
		i.HSNCode = *hsnCode
	}
	if createdBy != nil {
		i.CreatedBy = *createdBy
	}
	return &i, nil
}
