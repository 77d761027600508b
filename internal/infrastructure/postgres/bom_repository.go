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

var _ repository.BOMRepository = (*BOMRepo)(nil)

const bomColumns = `id, product_item_id, name, description, version, is_active,
	created_by, created_at, updated_at`

// BOMRepo implementación de BOMRepository (usable con pool o tx).
type BOMRepo struct {
	q Querier
}

// NewBOMRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBOMRepository(q Querier) *BOMRepo {
	return &BOMRepo{q: q}
}

// Create persiste la receta con sus líneas. Debe invocarse dentro de la misma
// transacción que DeactivateActiveForProduct para el intercambio de versión.
func (r *BOMRepo) Create(bom *entity.BillOfMaterial) error {
	if bom.ID == "" {
		bom.ID = uuid.New().String()
	}
	ctx := context.Background()
	query := `
		INSERT INTO bill_of_materials (` + bomColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		bom.ID, bom.ProductItemID, bom.Name, nullIfEmpty(bom.Description), bom.Version,
		bom.IsActive, nullIfEmpty(bom.CreatedBy), bom.CreatedAt, bom.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert bom: %w", err)
	}
	for i := range bom.Items {
		line := &bom.Items[i]
		if line.ID == "" {
			line.ID = uuid.New().String()
		}
		line.BOMID = bom.ID
		lineQuery := `
			INSERT INTO bill_of_material_items (id, bom_id, item_id, quantity, unit_of_measure, notes)
			VALUES ($1, $2, $3, $4, $5, $6)`
		_, err := r.q.Exec(ctx, lineQuery,
			line.ID, line.BOMID, line.ItemID, line.Quantity, line.UnitOfMeasure, nullIfEmpty(line.Notes),
		)
		if err != nil {
			return fmt.Errorf("insert bom item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una receta con sus líneas.
func (r *BOMRepo) GetByID(id string) (*entity.BillOfMaterial, error) {
	query := `SELECT ` + bomColumns + ` FROM bill_of_materials WHERE id = $1`
	b, err := r.scanRow(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get bom: %w", err)
	}
	if err := r.loadItems(b); err != nil {
		return nil, err
	}
	return b, nil
}

// GetActiveByProduct devuelve la receta activa del producto o nil si no hay.
func (r *BOMRepo) GetActiveByProduct(productItemID string) (*entity.BillOfMaterial, error) {
	query := `SELECT ` + bomColumns + ` FROM bill_of_materials
		WHERE product_item_id = $1 AND is_active = true`
	b, err := r.scanRow(r.q.QueryRow(context.Background(), query, productItemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active bom: %w", err)
	}
	if err := r.loadItems(b); err != nil {
		return nil, err
	}
	return b, nil
}

// DeactivateActiveForProduct desactiva la versión activa del producto, si existe.
func (r *BOMRepo) DeactivateActiveForProduct(productItemID string) error {
	query := `UPDATE bill_of_materials SET is_active = false, updated_at = now()
		WHERE product_item_id = $1 AND is_active = true`
	if _, err := r.q.Exec(context.Background(), query, productItemID); err != nil {
		return fmt.Errorf("deactivate bom: %w", err)
	}
	return nil
}

// ListByProduct devuelve el historial de versiones del producto, más reciente primero.
func (r *BOMRepo) ListByProduct(productItemID string, limit, offset int) ([]*entity.BillOfMaterial, error) {
	query := `SELECT ` + bomColumns + ` FROM bill_of_materials
		WHERE product_item_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, productItemID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list boms by product: %w", err)
	}
	return r.collect(rows)
}

// ListActive devuelve todas las recetas activas con sus líneas.
func (r *BOMRepo) ListActive() ([]*entity.BillOfMaterial, error) {
	query := `SELECT ` + bomColumns + ` FROM bill_of_materials WHERE is_active = true`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list active boms: %w", err)
	}
	return r.collect(rows)
}

func (r *BOMRepo) collect(rows pgx.Rows) ([]*entity.BillOfMaterial, error) {
	var out []*entity.BillOfMaterial
	for rows.Next() {
		b, err := r.scanRow(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan bom: %w", err)
		}
		out = append(out, b)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, b := range out {
		if err := r.loadItems(b); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *BOMRepo) loadItems(b *entity.BillOfMaterial) error {
	query := `SELECT id, bom_id, item_id, quantity, unit_of_measure, notes
		FROM bill_of_material_items WHERE bom_id = $1 ORDER BY item_id`
	rows, err := r.q.Query(context.Background(), query, b.ID)
	if err != nil {
		return fmt.Errorf("load bom items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var line entity.BOMItem
		var notes *string
		if err := rows.Scan(&line.ID, &line.BOMID, &line.ItemID, &line.Quantity,
			&line.UnitOfMeasure, &notes); err != nil {
			return fmt.Errorf("scan bom item: %w", err)
		}
		if notes != nil {
			line.Notes = *notes
		}
		b.Items = append(b.Items, line)
	}
	return rows.Err()
}

func (r *BOMRepo) scanRow(row pgx.Row) (*entity.BillOfMaterial, error) {
	var b entity.BillOfMaterial
	var description, createdBy *string
	err := row.Scan(
		&b.ID, &b.ProductItemID, &b.Name, &description, &b.Version, &b.IsActive,
		&createdBy, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if description != nil {
		b.Description = *description
	}
	if createdBy != nil {
		b.CreatedBy = *createdBy
	}
	return &b, nil
}
