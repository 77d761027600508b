package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// UseCase administra el catálogo de artículos y presentaciones empacadas.
// El core de inventario referencia artículos pero nunca los crea; eso vive aquí.
type UseCase struct {
	itemRepo     repository.InventoryItemRepository
	packagedRepo repository.PackagedProductRepository
}

// New construye el caso de uso de catálogo.
func New(itemRepo repository.InventoryItemRepository, packagedRepo repository.PackagedProductRepository) *UseCase {
	return &UseCase{itemRepo: itemRepo, packagedRepo: packagedRepo}
}

// CreateItemInput entrada para dar de alta un artículo.
type CreateItemInput struct {
	Code          string
	Name          string
	Description   string
	CategoryID    string
	UnitOfMeasure string
	MinStockLevel decimal.Decimal
	ReorderLevel  decimal.Decimal
	MaxStockLevel *decimal.Decimal
	CostPrice     decimal.Decimal
	HSNCode       string
	IsRawMaterial bool
	ActorID       string
}

// CreateItem da de alta un artículo con código único.
func (uc *UseCase) CreateItem(ctx context.Context, input CreateItemInput) (*entity.InventoryItem, error) {
	if input.Code == "" || input.Name == "" || input.ActorID == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.MinStockLevel.IsNegative() || input.ReorderLevel.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.itemRepo.GetByCode(input.Code)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	item := &entity.InventoryItem{
		Code:          input.Code,
		Name:          input.Name,
		Description:   input.Description,
		CategoryID:    input.CategoryID,
		UnitOfMeasure: input.UnitOfMeasure,
		MinStockLevel: input.MinStockLevel,
		ReorderLevel:  input.ReorderLevel,
		MaxStockLevel: input.MaxStockLevel,
		CostPrice:     input.CostPrice,
		HSNCode:       input.HSNCode,
		IsRawMaterial: input.IsRawMaterial,
		IsActive:      true,
		CreatedBy:     input.ActorID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.itemRepo.Create(item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateThresholdsInput umbrales editables de un artículo.
type UpdateThresholdsInput struct {
	ItemID        string
	MinStockLevel decimal.Decimal
	ReorderLevel  decimal.Decimal
	MaxStockLevel *decimal.Decimal
}

// UpdateThresholds actualiza los niveles mínimo/reorden/máximo del artículo.
func (uc *UseCase) UpdateThresholds(ctx context.Context, input UpdateThresholdsInput) (*entity.InventoryItem, error) {
	if input.MinStockLevel.IsNegative() || input.ReorderLevel.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	item, err := uc.itemRepo.GetByID(input.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	item.MinStockLevel = input.MinStockLevel
	item.ReorderLevel = input.ReorderLevel
	item.MaxStockLevel = input.MaxStockLevel
	item.UpdatedAt = time.Now()
	if err := uc.itemRepo.Update(item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeactivateItem baja lógica: el artículo deja de aceptar movimientos pero su
// historial permanece.
func (uc *UseCase) DeactivateItem(ctx context.Context, itemID string) error {
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	return uc.itemRepo.Deactivate(itemID)
}

// GetItem devuelve un artículo por ID.
func (uc *UseCase) GetItem(ctx context.Context, itemID string) (*entity.InventoryItem, error) {
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

// ListItems lista el catálogo.
func (uc *UseCase) ListItems(ctx context.Context, onlyActive bool, limit, offset int) ([]*entity.InventoryItem, error) {
	return uc.itemRepo.List(onlyActive, limit, offset)
}

// CreatePackagedInput entrada para crear una presentación empacada.
type CreatePackagedInput struct {
	ProductItemID   string
	StockItemID     string
	PackagingSize   string
	CustomSize      string
	WeightValue     decimal.Decimal
	WeightUnit      string
	ItemsPerPackage int
}

// CreatePackagedProduct crea una presentación. El artículo de stock debe ser
// un producto terminado activo distinto del producto a granel.
func (uc *UseCase) CreatePackagedProduct(ctx context.Context, input CreatePackagedInput) (*entity.PackagedProduct, error) {
	if input.ProductItemID == "" || input.StockItemID == "" || input.PackagingSize == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.PackagingSize == entity.PackagingCustom && input.CustomSize == "" {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.itemRepo.GetByID(input.ProductItemID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, domain.ErrNotFound
	}
	stockItem, err := uc.itemRepo.GetByID(input.StockItemID)
	if err != nil {
		return nil, err
	}
	if stockItem == nil || !stockItem.IsActive {
		return nil, domain.ErrNotFound
	}
	if stockItem.IsRawMaterial {
		return nil, domain.ErrInvalidInput
	}
	itemsPer := input.ItemsPerPackage
	if itemsPer <= 0 {
		itemsPer = 1
	}
	now := time.Now()
	pp := &entity.PackagedProduct{
		ProductItemID:   input.ProductItemID,
		StockItemID:     input.StockItemID,
		PackagingSize:   input.PackagingSize,
		CustomSize:      input.CustomSize,
		WeightValue:     input.WeightValue,
		WeightUnit:      input.WeightUnit,
		ItemsPerPackage: itemsPer,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.packagedRepo.Create(pp); err != nil {
		return nil, err
	}
	return pp, nil
}

// ListPackagedByProduct lista las presentaciones de un producto.
func (uc *UseCase) ListPackagedByProduct(ctx context.Context, productItemID string) ([]*entity.PackagedProduct, error) {
	return uc.packagedRepo.ListByProduct(productItemID)
}
