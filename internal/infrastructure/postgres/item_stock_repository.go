package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

var _ repository.ItemStockRepository = (*ItemStockRepo)(nil)

// ItemStockRepo implementación de ItemStockRepository (usable con pool o tx).
type ItemStockRepo struct {
	q Querier
}

// NewItemStockRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemStockRepository(q Querier) *ItemStockRepo {
	return &ItemStockRepo{q: q}
}

// Get obtiene el stock actual de un artículo. Si no hay fila devuelve cero,
// nunca nil: un artículo sin movimientos tiene stock cero.
func (r *ItemStockRepo) Get(itemID string) (*entity.ItemStock, error) {
	query := `SELECT item_id, quantity, updated_at FROM item_stock WHERE item_id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, itemID), itemID, "get item stock")
}

// GetForUpdate obtiene el stock y bloquea la fila (SELECT FOR UPDATE).
func (r *ItemStockRepo) GetForUpdate(itemID string) (*entity.ItemStock, error) {
	query := `SELECT item_id, quantity, updated_at FROM item_stock WHERE item_id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, itemID), itemID, "get item stock for update")
}

// Upsert inserta o actualiza la cantidad en stock del artículo.
func (r *ItemStockRepo) Upsert(stock *entity.ItemStock) error {
	query := `
		INSERT INTO item_stock (item_id, quantity, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (item_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, stock.ItemID, stock.Quantity)
	if err != nil {
		return fmt.Errorf("upsert item stock: %w", err)
	}
	return nil
}

// ListBelowReorder devuelve los artículos activos con stock bajo su punto de
// reorden, mayor déficit primero. Artículos sin fila de stock cuentan como cero.
func (r *ItemStockRepo) ListBelowReorder(ctx context.Context) ([]repository.LowStockItem, error) {
	query := `
		SELECT i.id, i.code, i.name, i.unit_of_measure,
		       COALESCE(s.quantity, 0) AS current,
		       i.min_stock_level, i.reorder_level
		FROM inventory_items i
		LEFT JOIN item_stock s ON s.item_id = i.id
		WHERE i.is_active = true
		  AND COALESCE(s.quantity, 0) < i.reorder_level
		ORDER BY (i.reorder_level - COALESCE(s.quantity, 0)) DESC, i.code`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list below reorder: %w", err)
	}
	defer rows.Close()

	var out []repository.LowStockItem
	for rows.Next() {
		var it repository.LowStockItem
		if err := rows.Scan(&it.ItemID, &it.Code, &it.Name, &it.UnitOfMeasure,
			&it.Current, &it.MinStockLevel, &it.ReorderLevel); err != nil {
			return nil, fmt.Errorf("scan low stock item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *ItemStockRepo) scanOne(row pgx.Row, itemID, op string) (*entity.ItemStock, error) {
	var s entity.ItemStock
	err := row.Scan(&s.ItemID, &s.Quantity, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.ItemStock{ItemID: itemID, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &s, nil
}
