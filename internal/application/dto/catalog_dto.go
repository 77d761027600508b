package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// CreateItemRequest alta de artículo de catálogo.
type CreateItemRequest struct {
	Code          string           `json:"code"`
	Name          string           `json:"name"`
	Description   string           `json:"description,omitempty"`
	CategoryID    string           `json:"category_id,omitempty"`
	UnitOfMeasure string           `json:"unit_of_measure"`
	MinStockLevel decimal.Decimal  `json:"min_stock_level"`
	ReorderLevel  decimal.Decimal  `json:"reorder_level"`
	MaxStockLevel *decimal.Decimal `json:"max_stock_level,omitempty"`
	CostPrice     decimal.Decimal  `json:"cost_price"`
	HSNCode       string           `json:"hsn_code,omitempty"`
	IsRawMaterial bool             `json:"is_raw_material"`
}

// UpdateThresholdsRequest umbrales editables.
type UpdateThresholdsRequest struct {
	MinStockLevel decimal.Decimal  `json:"min_stock_level"`
	ReorderLevel  decimal.Decimal  `json:"reorder_level"`
	MaxStockLevel *decimal.Decimal `json:"max_stock_level,omitempty"`
}

// ItemResponse artículo de catálogo.
type ItemResponse struct {
	ID            string           `json:"id"`
	Code          string           `json:"code"`
	Name          string           `json:"name"`
	Description   string           `json:"description,omitempty"`
	CategoryID    string           `json:"category_id,omitempty"`
	UnitOfMeasure string           `json:"unit_of_measure"`
	MinStockLevel decimal.Decimal  `json:"min_stock_level"`
	ReorderLevel  decimal.Decimal  `json:"reorder_level"`
	MaxStockLevel *decimal.Decimal `json:"max_stock_level,omitempty"`
	CostPrice     decimal.Decimal  `json:"cost_price"`
	IsRawMaterial bool             `json:"is_raw_material"`
	IsActive      bool             `json:"is_active"`
	CreatedAt     time.Time        `json:"created_at"`
}

// ToItemResponse mapea la entidad al DTO.
func ToItemResponse(i *entity.InventoryItem) ItemResponse {
	return ItemResponse{
		ID:            i.ID,
		Code:          i.Code,
		Name:          i.Name,
		Description:   i.Description,
		CategoryID:    i.CategoryID,
		UnitOfMeasure: i.UnitOfMeasure,
		MinStockLevel: i.MinStockLevel,
		ReorderLevel:  i.ReorderLevel,
		MaxStockLevel: i.MaxStockLevel,
		CostPrice:     i.CostPrice,
		IsRawMaterial: i.IsRawMaterial,
		IsActive:      i.IsActive,
		CreatedAt:     i.CreatedAt,
	}
}

// CreatePackagedRequest alta de presentación empacada.
type CreatePackagedRequest struct {
	ProductItemID   string          `json:"product_item_id"`
	StockItemID     string          `json:"stock_item_id"`
	PackagingSize   string          `json:"packaging_size"`
	CustomSize      string          `json:"custom_size,omitempty"`
	WeightValue     decimal.Decimal `json:"weight_value"`
	WeightUnit      string          `json:"weight_unit"`
	ItemsPerPackage int             `json:"items_per_package"`
}

// PackagedResponse presentación empacada.
type PackagedResponse struct {
	ID              string          `json:"id"`
	ProductItemID   string          `json:"product_item_id"`
	StockItemID     string          `json:"stock_item_id"`
	PackagingSize   string          `json:"packaging_size"`
	CustomSize      string          `json:"custom_size,omitempty"`
	WeightValue     decimal.Decimal `json:"weight_value"`
	WeightUnit      string          `json:"weight_unit"`
	ItemsPerPackage int             `json:"items_per_package"`
	IsActive        bool            `json:"is_active"`
}

// ToPackagedResponse mapea la entidad al DTO.
func ToPackagedResponse(p *entity.PackagedProduct) PackagedResponse {
	return PackagedResponse{
		ID:              p.ID,
		ProductItemID:   p.ProductItemID,
		StockItemID:     p.StockItemID,
		PackagingSize:   p.PackagingSize,
		CustomSize:      p.CustomSize,
		WeightValue:     p.WeightValue,
		WeightUnit:      p.WeightUnit,
		ItemsPerPackage: p.ItemsPerPackage,
		IsActive:        p.IsActive,
	}
}
