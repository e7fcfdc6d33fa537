package model

import (
	"database/sql"
	"time"

	"github.com/shopcore/inventory-core/constant"
)

type HoldLineRequest struct {
	SKU               string            `json:"sku" validate:"required"`
	Quantity          int64             `json:"quantity" validate:"required,gt=0"`
	VariantAttributes map[string]string `json:"variant_attributes"`
}

type CreateHoldRequest struct {
	Items          []HoldLineRequest `json:"items" validate:"required,min=1,dive"`
	IdempotencyKey string            `json:"idempotency_key"`
	TTLSeconds     int64             `json:"ttl_seconds" validate:"gte=0"`
}

type CreateHoldResponse struct {
	HoldID    string    `json:"hold_id"`
	ExpiresAt time.Time `json:"expires_at"`
	// Reused is set when an idempotent retry converged on an existing hold.
	Reused bool `json:"reused,omitempty"`
}

type ReleaseHoldResponse struct {
	HoldID string `json:"hold_id"`
	// AlreadyReleased means the hold was released or expired before this
	// call; nothing new happened and the caller must not treat it as a
	// failure.
	AlreadyReleased bool `json:"already_released,omitempty"`
}

type InventoryHold struct {
	ID             string              `db:"id"`
	ShopID         string              `db:"shop_id"`
	IdempotencyKey sql.NullString      `db:"idempotency_key"`
	Status         constant.HoldStatus `db:"status"`
	CreatedAt      time.Time           `db:"created_at"`
	ExpiresAt      time.Time           `db:"expires_at"`
	CommittedAt    sql.NullTime        `db:"committed_at"`
	ReleasedAt     sql.NullTime        `db:"released_at"`
	ExpiredAt      sql.NullTime        `db:"expired_at"`
}

type InventoryHoldItem struct {
	ID                uint64            `db:"id"`
	HoldID            string            `db:"hold_id"`
	ShopID            string            `db:"shop_id"`
	SKU               string            `db:"sku"`
	VariantKey        string            `db:"variant_key"`
	VariantAttributes VariantAttributes `db:"variant_attributes"`
	Quantity          int64             `db:"quantity"`
}

type InsertHoldTxItem struct {
	ID             string
	ShopID         string
	IdempotencyKey string
	ExpiresAt      time.Time
	Items          []InventoryHoldItem
}
