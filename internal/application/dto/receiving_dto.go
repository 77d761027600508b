package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// RegisterReceiptLineRequest alta de línea de recibo pendiente.
type RegisterReceiptLineRequest struct {
	ReceiptNumber    string           `json:"receipt_number"`
	POItemID         string           `json:"po_item_id,omitempty"`
	ItemID           string           `json:"item_id"`
	ReceivedQuantity decimal.Decimal  `json:"received_quantity"`
	AcceptedQuantity decimal.Decimal  `json:"accepted_quantity"`
	RejectedQuantity decimal.Decimal  `json:"rejected_quantity"`
	RejectionReason  string           `json:"rejection_reason,omitempty"`
	UnitPrice        *decimal.Decimal `json:"unit_price,omitempty"`
	BatchNumber      string           `json:"batch_number,omitempty"`
	ExpiryDate       *time.Time       `json:"expiry_date,omitempty"`
}

// ReceiptLineResponse línea de recibo.
type ReceiptLineResponse struct {
	ID               string           `json:"id"`
	ReceiptNumber    string           `json:"receipt_number"`
	ItemID           string           `json:"item_id"`
	ReceivedQuantity decimal.Decimal  `json:"received_quantity"`
	AcceptedQuantity decimal.Decimal  `json:"accepted_quantity"`
	RejectedQuantity decimal.Decimal  `json:"rejected_quantity"`
	RejectionReason  string           `json:"rejection_reason,omitempty"`
	UnitPrice        *decimal.Decimal `json:"unit_price,omitempty"`
	Processed        bool             `json:"processed"`
	ProcessedAt      *time.Time       `json:"processed_at,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
}

// ToReceiptLineResponse mapea la entidad al DTO.
func ToReceiptLineResponse(l *entity.PurchaseReceiptLine) ReceiptLineResponse {
	return ReceiptLineResponse{
		ID:               l.ID,
		ReceiptNumber:    l.ReceiptNumber,
		ItemID:           l.ItemID,
		ReceivedQuantity: l.ReceivedQuantity,
		AcceptedQuantity: l.AcceptedQuantity,
		RejectedQuantity: l.RejectedQuantity,
		RejectionReason:  l.RejectionReason,
		UnitPrice:        l.UnitPrice,
		Processed:        l.Processed,
		ProcessedAt:      l.ProcessedAt,
		CreatedAt:        l.CreatedAt,
	}
}
