package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// VariantAttributes is stored as a JSON column. The map is semantically
// unordered; identity comes from the derived variant key, never from
// attribute order.
type VariantAttributes map[string]string

func (a VariantAttributes) Value() (driver.Value, error) {
	if a == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(a)
}

func (a *VariantAttributes) Scan(src interface{}) error {
	if src == nil {
		*a = VariantAttributes{}
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported variant attributes type %T", src)
	}
	if len(data) == 0 {
		*a = VariantAttributes{}
		return nil
	}
	return json.Unmarshal(data, a)
}

type InventoryItem struct {
	ID                uint64            `db:"id" json:"id"`
	ShopID            string            `db:"shop_id" json:"shop_id"`
	SKU               string            `db:"sku" json:"sku"`
	ProductID         string            `db:"product_id" json:"product_id"`
	VariantKey        string            `db:"variant_key" json:"variant_key"`
	VariantAttributes VariantAttributes `db:"variant_attributes" json:"variant_attributes"`
	Quantity          int64             `db:"quantity" json:"quantity"`
	LowStockThreshold *int64            `db:"low_stock_threshold" json:"low_stock_threshold,omitempty"`
	CreatedAt         time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time         `db:"updated_at" json:"updated_at"`
}

type ListInventoryRequest struct {
	ProductID string
	Page      int
	PerPage   int
}

type ListInventoryResponse struct {
	Items      []InventoryItem `json:"items"`
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	PerPage    int             `json:"per_page"`
}
