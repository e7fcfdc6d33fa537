package inventory

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopcore/inventory-core/constant"
	"github.com/shopcore/inventory-core/model"
	"github.com/shopcore/inventory-core/utils/errors"
)

type InventoryRepository interface {
	// GetItemForUpdateTx reads one inventory row under FOR UPDATE so the
	// caller holds the row lock until its transaction ends. Returns nil
	// when the variant has never been seen.
	GetItemForUpdateTx(ctx context.Context, tx *sqlx.Tx, shopID, sku, variantKey string) (*model.InventoryItem, error)
	InsertItemTx(ctx context.Context, tx *sqlx.Tx, item *model.InventoryItem) error
	// AddQuantityTx applies a delta to an existing row. The SQL guard
	// rejects any delta that would drive quantity below zero even if the
	// caller's own check raced.
	AddQuantityTx(ctx context.Context, tx *sqlx.Tx, shopID, sku, variantKey string, delta int64) error
	GetQuantity(ctx context.Context, shopID, sku, variantKey string) (int64, error)
	ListItems(ctx context.Context, shopID string, req *model.ListInventoryRequest) ([]model.InventoryItem, int64, error)
}

type SQL struct {
	conn *sqlx.DB
}

func NewInventoryRepository(conn *sqlx.DB) InventoryRepository {
	return &SQL{conn: conn}
}

const (
	getItemForUpdate = `SELECT id, shop_id, sku, product_id, variant_key, variant_attributes, quantity, low_stock_threshold, created_at, updated_at
FROM inventory_item WHERE shop_id = ? AND sku = ? AND variant_key = ? FOR UPDATE`

	insertItem = `INSERT INTO inventory_item (shop_id, sku, product_id, variant_key, variant_attributes, quantity, low_stock_threshold, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	// Rows are addressed by the full (shop_id, sku, variant_key) identity:
	// derived keys are not unique across skus, so matching on the key alone
	// could touch a sibling row.
	addQuantity = `UPDATE inventory_item SET quantity = quantity + ?, updated_at = ?
WHERE shop_id = ? AND sku = ? AND variant_key = ? AND quantity + ? >= 0`

	getQuantity = `SELECT quantity FROM inventory_item WHERE shop_id = ? AND sku = ? AND variant_key = ?`

	listItemsBase = `SELECT id, shop_id, sku, product_id, variant_key, variant_attributes, quantity, low_stock_threshold, created_at, updated_at
FROM inventory_item WHERE shop_id = ?`

	countItemsBase = `SELECT COUNT(*) FROM inventory_item WHERE shop_id = ?`
)

func (s *SQL) GetItemForUpdateTx(ctx context.Context, tx *sqlx.Tx, shopID, sku, variantKey string) (*model.InventoryItem, error) {
	var item model.InventoryItem
	if err := tx.QueryRowxContext(ctx, getItemForUpdate, shopID, sku, variantKey).StructScan(&item); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (s *SQL) InsertItemTx(ctx context.Context, tx *sqlx.Tx, item *model.InventoryItem) error {
	now := time.Now()
	res, err := tx.ExecContext(ctx, insertItem,
		item.ShopID, item.SKU, item.ProductID, item.VariantKey, item.VariantAttributes,
		item.Quantity, item.LowStockThreshold, now, now)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	item.ID = uint64(id)
	item.CreatedAt = now
	item.UpdatedAt = now
	return nil
}

func (s *SQL) AddQuantityTx(ctx context.Context, tx *sqlx.Tx, shopID, sku, variantKey string, delta int64) error {
	res, err := tx.ExecContext(ctx, addQuantity, delta, time.Now(), shopID, sku, variantKey, delta)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Either the row is missing or the guard blocked an underflow.
		return errors.SetCustomError(constant.ErrInsufficientAdjustment)
	}
	return nil
}

func (s *SQL) GetQuantity(ctx context.Context, shopID, sku, variantKey string) (int64, error) {
	var quantity int64
	if err := s.conn.GetContext(ctx, &quantity, getQuantity, shopID, sku, variantKey); err != nil {
		if err == sql.ErrNoRows {
			return 0, errors.SetCustomError(constant.ErrNotFound)
		}
		return 0, err
	}
	return quantity, nil
}

func (s *SQL) ListItems(ctx context.Context, shopID string, req *model.ListInventoryRequest) ([]model.InventoryItem, int64, error) {
	query := listItemsBase
	countQuery := countItemsBase
	args := []interface{}{shopID}
	countArgs := []interface{}{shopID}
	if req.ProductID != "" {
		query += " AND product_id = ?"
		countQuery += " AND product_id = ?"
		args = append(args, req.ProductID)
		countArgs = append(countArgs, req.ProductID)
	}

	offset := (req.Page - 1) * req.PerPage
	query += " ORDER BY sku, variant_key LIMIT ? OFFSET ?"
	args = append(args, req.PerPage, offset)

	rows, err := s.conn.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]model.InventoryItem, 0)
	for rows.Next() {
		var it model.InventoryItem
		if err := rows.StructScan(&it); err != nil {
			return nil, 0, err
		}
		items = append(items, it)
	}

	var total int64
	if err := s.conn.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, err
	}

	return items, total, nil
}
