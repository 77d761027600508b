package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// RegisterMovementRequest entrada HTTP para registrar un movimiento manual.
// quantity es la magnitud para purchase/sales; para adjustment lleva signo.
type RegisterMovementRequest struct {
	ItemID        string           `json:"item_id"`
	Kind          string           `json:"kind"` // purchase, sales, adjustment
	Quantity      decimal.Decimal  `json:"quantity"`
	UnitPrice     *decimal.Decimal `json:"unit_price,omitempty"`
	ReferenceType string           `json:"reference_type,omitempty"`
	ReferenceID   string           `json:"reference_id,omitempty"`
	Notes         string           `json:"notes,omitempty"`
}

// MovementResponse movimiento del libro.
type MovementResponse struct {
	ID            string           `json:"id"`
	ItemID        string           `json:"item_id"`
	Kind          string           `json:"kind"`
	Quantity      decimal.Decimal  `json:"quantity"`
	UnitPrice     *decimal.Decimal `json:"unit_price,omitempty"`
	ReferenceType string           `json:"reference_type,omitempty"`
	ReferenceID   string           `json:"reference_id,omitempty"`
	Notes         string           `json:"notes,omitempty"`
	PerformedBy   string           `json:"performed_by"`
	PerformedAt   time.Time        `json:"performed_at"`
}

// ToMovementResponse mapea la entidad al DTO.
func ToMovementResponse(m *entity.StockMovement) MovementResponse {
	return MovementResponse{
		ID:            m.ID,
		ItemID:        m.ItemID,
		Kind:          m.Kind,
		Quantity:      m.Quantity,
		UnitPrice:     m.UnitPrice,
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
		Notes:         m.Notes,
		PerformedBy:   m.PerformedBy,
		PerformedAt:   m.PerformedAt,
	}
}

// StockStatusResponse estado de stock frente a umbrales.
type StockStatusResponse struct {
	ItemID       string          `json:"item_id"`
	Code         string          `json:"code"`
	Current      decimal.Decimal `json:"current"`
	MinStock     decimal.Decimal `json:"min_stock_level"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	BelowReorder bool            `json:"below_reorder"`
	BelowMin     bool            `json:"below_min"`
}

// ToStockStatusResponse mapea la entidad al DTO.
func ToStockStatusResponse(s *entity.StockStatus) StockStatusResponse {
	return StockStatusResponse{
		ItemID:       s.ItemID,
		Code:         s.Code,
		Current:      s.Current,
		MinStock:     s.MinStock,
		ReorderLevel: s.ReorderLevel,
		BelowReorder: s.BelowReorder,
		BelowMin:     s.BelowMin,
	}
}
