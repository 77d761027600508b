package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// AllocationRequest presentación empacada + cantidad.
type AllocationRequest struct {
	PackagedProductID string          `json:"packaged_product_id"`
	Quantity          decimal.Decimal `json:"quantity"`
	Notes             string          `json:"notes,omitempty"`
}

// CreateBatchRequest entrada HTTP para planear un lote.
type CreateBatchRequest struct {
	ProductItemID   string              `json:"product_item_id"`
	PlannedQuantity decimal.Decimal     `json:"planned_quantity"`
	ProductionDate  *time.Time          `json:"production_date,omitempty"`
	Notes           string              `json:"notes,omitempty"`
	PackagedItems   []AllocationRequest `json:"packaged_items"`
}

// CompleteBatchRequest entrada HTTP para completar un lote.
type CompleteBatchRequest struct {
	ProducedQuantity decimal.Decimal     `json:"produced_quantity"`
	PackagedItems    []AllocationRequest `json:"packaged_items"`
}

// BatchResponse lote de producción.
type BatchResponse struct {
	ID               string               `json:"id"`
	BatchNumber      string               `json:"batch_number"`
	ProductItemID    string               `json:"product_item_id"`
	BOMID            string               `json:"bom_id"`
	PlannedQuantity  decimal.Decimal      `json:"planned_quantity"`
	ProducedQuantity decimal.Decimal      `json:"produced_quantity"`
	ProductionDate   time.Time            `json:"production_date"`
	Status           string               `json:"status"`
	Notes            string               `json:"notes,omitempty"`
	Allocations      []AllocationResponse `json:"allocations"`
	CreatedBy        string               `json:"created_by"`
	CreatedAt        time.Time            `json:"created_at"`
	StartedAt        *time.Time           `json:"started_at,omitempty"`
	CompletedAt      *time.Time           `json:"completed_at,omitempty"`
	CancelledAt      *time.Time           `json:"cancelled_at,omitempty"`
}

// AllocationResponse asignación de empaque de un lote.
type AllocationResponse struct {
	PackagedProductID string          `json:"packaged_product_id"`
	Quantity          decimal.Decimal `json:"quantity"`
	Notes             string          `json:"notes,omitempty"`
}

// ToBatchResponse mapea la entidad al DTO.
func ToBatchResponse(b *entity.ProductionBatch) BatchResponse {
	resp := BatchResponse{
		ID:               b.ID,
		BatchNumber:      b.BatchNumber,
		ProductItemID:    b.ProductItemID,
		BOMID:            b.BOMID,
		PlannedQuantity:  b.PlannedQuantity,
		ProducedQuantity: b.ProducedQuantity,
		ProductionDate:   b.ProductionDate,
		Status:           b.Status,
		Notes:            b.Notes,
		CreatedBy:        b.CreatedBy,
		CreatedAt:        b.CreatedAt,
		StartedAt:        b.StartedAt,
		CompletedAt:      b.CompletedAt,
		CancelledAt:      b.CancelledAt,
	}
	for _, a := range b.Allocations {
		resp.Allocations = append(resp.Allocations, AllocationResponse{
			PackagedProductID: a.PackagedProductID,
			Quantity:          a.Quantity,
			Notes:             a.Notes,
		})
	}
	return resp
}
