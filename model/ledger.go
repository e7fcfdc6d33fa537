package model

import (
	"time"

	"github.com/shopcore/inventory-core/constant"
)

type StockInflowItemRequest struct {
	SKU               string            `json:"sku" validate:"required"`
	ProductID         string            `json:"product_id" validate:"required"`
	Quantity          int64             `json:"quantity" validate:"required,gt=0"`
	VariantAttributes map[string]string `json:"variant_attributes"`
}

type StockInflowRequest struct {
	IdempotencyKey string                   `json:"idempotency_key" validate:"required"`
	Items          []StockInflowItemRequest `json:"items" validate:"required,min=1,dive"`
	Note           string                   `json:"note"`
	DryRun         bool                     `json:"dry_run"`
}

type StockAdjustmentItemRequest struct {
	SKU               string            `json:"sku" validate:"required"`
	ProductID         string            `json:"product_id" validate:"required"`
	Delta             int64             `json:"delta" validate:"required"`
	Reason            string            `json:"reason" validate:"required,oneof=recount damaged lost returned other"`
	VariantAttributes map[string]string `json:"variant_attributes"`
}

type StockAdjustmentRequest struct {
	IdempotencyKey string                       `json:"idempotency_key" validate:"required"`
	Items          []StockAdjustmentItemRequest `json:"items" validate:"required,min=1,dive"`
	Note           string                       `json:"note"`
	DryRun         bool                         `json:"dry_run"`
}

type StockLedgerReportItem struct {
	SKU              string `json:"sku"`
	ProductID        string `json:"product_id"`
	VariantKey       string `json:"variant_key"`
	Delta            int64  `json:"delta"`
	PreviousQuantity int64  `json:"previous_quantity"`
	NextQuantity     int64  `json:"next_quantity"`
	Reason           string `json:"reason,omitempty"`
}

type StockLedgerReport struct {
	EventID    string                   `json:"event_id"`
	Kind       constant.LedgerEventKind `json:"kind"`
	OccurredAt time.Time                `json:"occurred_at"`
	Note       string                   `json:"note,omitempty"`
	Items      []StockLedgerReportItem  `json:"items"`
	// Duplicate marks an idempotent replay: the stored report of the
	// original apply, with no new side effects.
	Duplicate bool `json:"duplicate,omitempty"`
	DryRun    bool `json:"dry_run,omitempty"`
}

type StockLedgerEvent struct {
	ID             string                   `db:"id"`
	ShopID         string                   `db:"shop_id"`
	Kind           constant.LedgerEventKind `db:"kind"`
	IdempotencyKey string                   `db:"idempotency_key"`
	Note           string                   `db:"note"`
	OccurredAt     time.Time                `db:"occurred_at"`
}

type StockLedgerEventItem struct {
	ID                uint64            `db:"id"`
	EventID           string            `db:"event_id"`
	SKU               string            `db:"sku"`
	ProductID         string            `db:"product_id"`
	VariantKey        string            `db:"variant_key"`
	VariantAttributes VariantAttributes `db:"variant_attributes"`
	Delta             int64             `db:"delta"`
	PreviousQuantity  int64             `db:"previous_quantity"`
	NextQuantity      int64             `db:"next_quantity"`
	Reason            string            `db:"reason"`
}

type ListLedgerEventsRequest struct {
	VariantKey string
	Kind       constant.LedgerEventKind
	Page       int
	PerPage    int
}

type ListLedgerEventsResponse struct {
	Events     []StockLedgerReport `json:"events"`
	TotalCount int64               `json:"total_count"`
	Page       int                 `json:"page"`
	PerPage    int                 `json:"per_page"`
}
