package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// BOMComponentRequest línea de receta.
type BOMComponentRequest struct {
	ItemID        string          `json:"item_id"`
	Quantity      decimal.Decimal `json:"quantity"` // por unidad producida
	UnitOfMeasure string          `json:"unit_of_measure"`
	Notes         string          `json:"notes,omitempty"`
}

// CreateBOMRequest entrada HTTP para crear/activar una receta.
type CreateBOMRequest struct {
	ProductItemID string                `json:"product_item_id"`
	Name          string                `json:"name"`
	Description   string                `json:"description,omitempty"`
	Version       string                `json:"version,omitempty"`
	Components    []BOMComponentRequest `json:"components"`
}

// BOMResponse receta con sus líneas.
type BOMResponse struct {
	ID            string                 `json:"id"`
	ProductItemID string                 `json:"product_item_id"`
	Name          string                 `json:"name"`
	Description   string                 `json:"description,omitempty"`
	Version       string                 `json:"version"`
	IsActive      bool                   `json:"is_active"`
	Components    []BOMComponentResponse `json:"components"`
	CreatedBy     string                 `json:"created_by"`
	CreatedAt     time.Time              `json:"created_at"`
}

// BOMComponentResponse línea de receta persistida.
type BOMComponentResponse struct {
	ItemID        string          `json:"item_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitOfMeasure string          `json:"unit_of_measure"`
	Notes         string          `json:"notes,omitempty"`
}

// ToBOMResponse mapea la entidad al DTO.
func ToBOMResponse(b *entity.BillOfMaterial) BOMResponse {
	resp := BOMResponse{
		ID:            b.ID,
		ProductItemID: b.ProductItemID,
		Name:          b.Name,
		Description:   b.Description,
		Version:       b.Version,
		IsActive:      b.IsActive,
		CreatedBy:     b.CreatedBy,
		CreatedAt:     b.CreatedAt,
	}
	for _, line := range b.Items {
		resp.Components = append(resp.Components, BOMComponentResponse{
			ItemID:        line.ItemID,
			Quantity:      line.Quantity,
			UnitOfMeasure: line.UnitOfMeasure,
			Notes:         line.Notes,
		})
	}
	return resp
}

// RequirementResponse requerimiento de materia prima de una explosión.
type RequirementResponse struct {
	ItemID           string          `json:"item_id"`
	RequiredQuantity decimal.Decimal `json:"required_quantity"`
}
