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

var _ repository.PackagedProductRepository = (*PackagedProductRepo)(nil)

const packagedColumns = `id, product_item_id, stock_item_id, packaging_size, custom_size,
	weight_value, weight_unit, items_per_package, barcode, is_active, created_at, updated_at`

// PackagedProductRepo implementación de PackagedProductRepository (usable con pool o tx).
type PackagedProductRepo struct {
	q Querier
}

// NewPackagedProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPackagedProductRepository(q Querier) *PackagedProductRepo {
	return &PackagedProductRepo{q: q}
}

// Create persiste una presentación empacada.
func (r *PackagedProductRepo) Create(pp *entity.PackagedProduct) error {
	if pp.ID == "" {
		pp.ID = uuid.New().String()
	}
	query := `
		INSERT INTO packaged_products (` + packagedColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		pp.ID, pp.ProductItemID, pp.StockItemID, pp.PackagingSize, nullIfEmpty(pp.CustomSize),
		pp.WeightValue, pp.WeightUnit, pp.ItemsPerPackage, nullIfEmpty(pp.Barcode),
		pp.IsActive, pp.CreatedAt, pp.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert packaged product: %w", err)
	}
	return nil
}

// GetByID obtiene una presentación por ID.
func (r *PackagedProductRepo) GetByID(id string) (*entity.PackagedProduct, error) {
	query := `SELECT ` + packagedColumns + ` FROM packaged_products WHERE id = $1`
	pp, err := r.scanRow(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get packaged product: %w", err)
	}
	return pp, nil
}

// ListByProduct devuelve las presentaciones de un producto.
func (r *PackagedProductRepo) ListByProduct(productItemID string) ([]*entity.PackagedProduct, error) {
	query := `SELECT ` + packagedColumns + ` FROM packaged_products
		WHERE product_item_id = $1 ORDER BY packaging_size`
	rows, err := r.q.Query(context.Background(), query, productItemID)
	if err != nil {
		return nil, fmt.Errorf("list packaged by product: %w", err)
	}
	defer rows.Close()
	return r.scanRows(rows)
}

// List devuelve presentaciones paginadas.
func (r *PackagedProductRepo) List(limit, offset int) ([]*entity.PackagedProduct, error) {
	query := `SELECT ` + packagedColumns + ` FROM packaged_products
		ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list packaged products: %w", err)
	}
	defer rows.Close()
	return r.scanRows(rows)
}

func (r *PackagedProductRepo) scanRows(rows pgx.Rows) ([]*entity.PackagedProduct, error) {
	var out []*entity.PackagedProduct
	for rows.Next() {
		pp, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan packaged product: %w", err)
		}
		out = append(out, pp)
	}
	return out, rows.Err()
}

func (r *PackagedProductRepo) scanRow(row pgx.Row) (*entity.PackagedProduct, error) {
	var pp entity.PackagedProduct
	var customSize, barcode *string
	err := row.Scan(
		&pp.ID, &pp.ProductItemID, &pp.StockItemID, &pp.PackagingSize, &customSize,
		&pp.WeightValue, &pp.WeightUnit, &pp.ItemsPerPackage, &barcode,
		&pp.IsActive, &pp.CreatedAt, &pp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if customSize != nil {
		pp.CustomSize = *customSize
	}
	if barcode != nil {
		pp.Barcode = *barcode
	}
	return &pp, nil
}
