package hold

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/shopcore/inventory-core/constant"
	"github.com/shopcore/inventory-core/model"
)

// ErrDuplicateKey signals that another writer won the race on
// (shop_id, idempotency_key). The caller re-reads the winner instead of
// failing.
var ErrDuplicateKey = stderrors.New("duplicate hold idempotency key")

type HoldRepository interface {
	GetByIDTx(ctx context.Context, tx *sqlx.Tx, shopID, holdID string) (*model.InventoryHold, error)
	GetByIdempotencyKeyTx(ctx context.Context, tx *sqlx.Tx, shopID, key string) (*model.InventoryHold, error)
	GetItemsTx(ctx context.Context, tx *sqlx.Tx, holdID string) ([]model.InventoryHoldItem, error)
	InsertHoldTx(ctx context.Context, tx *sqlx.Tx, hold *model.InsertHoldTxItem) error
	MarkCommittedTx(ctx context.Context, tx *sqlx.Tx, holdID string, at time.Time) error
	MarkReleasedTx(ctx context.Context, tx *sqlx.Tx, holdID string, at time.Time) error
	MarkExpiredTx(ctx context.Context, tx *sqlx.Tx, holdID string, at time.Time) error
	// ListExpiredActiveTx locks up to limit active holds whose TTL has
	// lapsed so the caller can reap them in the same transaction.
	ListExpiredActiveTx(ctx context.Context, tx *sqlx.Tx, shopID string, now time.Time, limit int) ([]model.InventoryHold, error)
}

type SQL struct {
	conn *sqlx.DB
}

func NewHoldRepository(conn *sqlx.DB) HoldRepository {
	return &SQL{conn: conn}
}

const (
	getHoldByID = `SELECT id, shop_id, idempotency_key, status, created_at, expires_at, committed_at, released_at, expired_at
FROM inventory_hold WHERE shop_id = ? AND id = ? FOR UPDATE`

	getHoldByKey = `SELECT id, shop_id, idempotency_key, status, created_at, expires_at, committed_at, released_at, expired_at
FROM inventory_hold WHERE shop_id = ? AND idempotency_key = ? FOR UPDATE`

	getHoldItems = `SELECT id, hold_id, shop_id, sku, variant_key, variant_attributes, quantity
FROM inventory_hold_item WHERE hold_id = ?`

	insertHold = `INSERT INTO inventory_hold (id, shop_id, idempotency_key, status, created_at, expires_at)
VALUES (?, ?, ?, ?, ?, ?)`

	insertHoldItem = `INSERT INTO inventory_hold_item (hold_id, shop_id, sku, variant_key, variant_attributes, quantity)
VALUES (?, ?, ?, ?, ?, ?)`

	listExpiredActive = `SELECT id, shop_id, idempotency_key, status, created_at, expires_at, committed_at, released_at, expired_at
FROM inventory_hold WHERE shop_id = ? AND status = ? AND expires_at < ? ORDER BY expires_at LIMIT ? FOR UPDATE`
)

func (s *SQL) GetByIDTx(ctx context.Context, tx *sqlx.Tx, shopID, holdID string) (*model.InventoryHold, error) {
	var h model.InventoryHold
	if err := tx.QueryRowxContext(ctx, getHoldByID, shopID, holdID).StructScan(&h); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &h, nil
}

func (s *SQL) GetByIdempotencyKeyTx(ctx context.Context, tx *sqlx.Tx, shopID, key string) (*model.InventoryHold, error) {
	var h model.InventoryHold
	if err := tx.QueryRowxContext(ctx, getHoldByKey, shopID, key).StructScan(&h); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &h, nil
}

func (s *SQL) GetItemsTx(ctx context.Context, tx *sqlx.Tx, holdID string) ([]model.InventoryHoldItem, error) {
	rows, err := tx.QueryxContext(ctx, getHoldItems, holdID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.InventoryHoldItem, 0)
	for rows.Next() {
		var it model.InventoryHoldItem
		if err := rows.StructScan(&it); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

func (s *SQL) InsertHoldTx(ctx context.Context, tx *sqlx.Tx, hold *model.InsertHoldTxItem) error {
	var key interface{}
	if hold.IdempotencyKey != "" {
		key = hold.IdempotencyKey
	}
	now := time.Now()
	if _, err := tx.ExecContext(ctx, insertHold, hold.ID, hold.ShopID, key, constant.HoldStatusActive, now, hold.ExpiresAt); err != nil {
		if isDuplicateEntry(err) {
			return ErrDuplicateKey
		}
		return err
	}
	for _, it := range hold.Items {
		if _, err := tx.ExecContext(ctx, insertHoldItem, hold.ID, it.ShopID, it.SKU, it.VariantKey, it.VariantAttributes, it.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQL) MarkCommittedTx(ctx context.Context, tx *sqlx.Tx, holdID string, at time.Time) error {
	_, err := tx.ExecContext(ctx, "UPDATE inventory_hold SET status = ?, committed_at = ? WHERE id = ?",
		constant.HoldStatusCommitted, at, holdID)
	return err
}

// MarkReleasedTx and MarkExpiredTx also free the idempotency key so a
// retried checkout under the same key can create a fresh hold. Committed
// holds keep theirs: a retry with that key converges on the finished sale.
func (s *SQL) MarkReleasedTx(ctx context.Context, tx *sqlx.Tx, holdID string, at time.Time) error {
	_, err := tx.ExecContext(ctx, "UPDATE inventory_hold SET status = ?, released_at = ?, idempotency_key = NULL WHERE id = ?",
		constant.HoldStatusReleased, at, holdID)
	return err
}

func (s *SQL) MarkExpiredTx(ctx context.Context, tx *sqlx.Tx, holdID string, at time.Time) error {
	_, err := tx.ExecContext(ctx, "UPDATE inventory_hold SET status = ?, expired_at = ?, idempotency_key = NULL WHERE id = ?",
		constant.HoldStatusExpired, at, holdID)
	return err
}

func (s *SQL) ListExpiredActiveTx(ctx context.Context, tx *sqlx.Tx, shopID string, now time.Time, limit int) ([]model.InventoryHold, error) {
	rows, err := tx.QueryxContext(ctx, listExpiredActive, shopID, constant.HoldStatusActive, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	holds := make([]model.InventoryHold, 0)
	for rows.Next() {
		var h model.InventoryHold
		if err := rows.StructScan(&h); err != nil {
			return nil, err
		}
		holds = append(holds, h)
	}
	return holds, nil
}

// isDuplicateEntry checks for MySQL error 1062 (duplicate entry for a
// unique index).
func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	if stderrors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return false
}
