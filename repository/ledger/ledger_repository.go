package ledger

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/shopcore/inventory-core/constant"
	"github.com/shopcore/inventory-core/model"
)

// ErrDuplicateKey signals that an event with the same
// (shop_id, kind, idempotency_key) was appended by a concurrent writer.
var ErrDuplicateKey = stderrors.New("duplicate ledger idempotency key")

type LedgerRepository interface {
	// GetEventByKeyTx looks up a prior apply of the same idempotency key.
	// Returns nil when the key has never been used for this kind.
	GetEventByKeyTx(ctx context.Context, tx *sqlx.Tx, shopID string, kind constant.LedgerEventKind, key string) (*model.StockLedgerEvent, error)
	GetEventItems(ctx context.Context, eventID string) ([]model.StockLedgerEventItem, error)
	InsertEventTx(ctx context.Context, tx *sqlx.Tx, event *model.StockLedgerEvent, items []model.StockLedgerEventItem) error
	GetEventByKey(ctx context.Context, shopID string, kind constant.LedgerEventKind, key string) (*model.StockLedgerEvent, error)
	ListEvents(ctx context.Context, shopID string, req *model.ListLedgerEventsRequest) ([]model.StockLedgerEvent, int64, error)
}

type SQL struct {
	conn *sqlx.DB
}

func NewLedgerRepository(conn *sqlx.DB) LedgerRepository {
	return &SQL{conn: conn}
}

const (
	getEventByKey = `SELECT id, shop_id, kind, idempotency_key, note, occurred_at
FROM stock_ledger_event WHERE shop_id = ? AND kind = ? AND idempotency_key = ?`

	getEventItems = `SELECT id, event_id, sku, product_id, variant_key, variant_attributes, delta, previous_quantity, next_quantity, reason
FROM stock_ledger_event_item WHERE event_id = ? ORDER BY id`

	insertEvent = `INSERT INTO stock_ledger_event (id, shop_id, kind, idempotency_key, note, occurred_at)
VALUES (?, ?, ?, ?, ?, ?)`

	insertEventItem = `INSERT INTO stock_ledger_event_item (event_id, sku, product_id, variant_key, variant_attributes, delta, previous_quantity, next_quantity, reason)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	listEventsBase = `SELECT DISTINCT e.id, e.shop_id, e.kind, e.idempotency_key, e.note, e.occurred_at
FROM stock_ledger_event e`

	countEventsBase = `SELECT COUNT(DISTINCT e.id) FROM stock_ledger_event e`
)

func (s *SQL) GetEventByKeyTx(ctx context.Context, tx *sqlx.Tx, shopID string, kind constant.LedgerEventKind, key string) (*model.StockLedgerEvent, error) {
	var ev model.StockLedgerEvent
	if err := tx.QueryRowxContext(ctx, getEventByKey, shopID, kind, key).StructScan(&ev); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &ev, nil
}

func (s *SQL) GetEventByKey(ctx context.Context, shopID string, kind constant.LedgerEventKind, key string) (*model.StockLedgerEvent, error) {
	var ev model.StockLedgerEvent
	if err := s.conn.QueryRowxContext(ctx, getEventByKey, shopID, kind, key).StructScan(&ev); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &ev, nil
}

func (s *SQL) GetEventItems(ctx context.Context, eventID string) ([]model.StockLedgerEventItem, error) {
	rows, err := s.conn.QueryxContext(ctx, getEventItems, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.StockLedgerEventItem, 0)
	for rows.Next() {
		var it model.StockLedgerEventItem
		if err := rows.StructScan(&it); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

func (s *SQL) InsertEventTx(ctx context.Context, tx *sqlx.Tx, event *model.StockLedgerEvent, items []model.StockLedgerEventItem) error {
	if _, err := tx.ExecContext(ctx, insertEvent, event.ID, event.ShopID, event.Kind, event.IdempotencyKey, event.Note, event.OccurredAt); err != nil {
		if isDuplicateEntry(err) {
			return ErrDuplicateKey
		}
		return err
	}
	for _, it := range items {
		if _, err := tx.ExecContext(ctx, insertEventItem, event.ID, it.SKU, it.ProductID, it.VariantKey, it.VariantAttributes, it.Delta, it.PreviousQuantity, it.NextQuantity, it.Reason); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQL) ListEvents(ctx context.Context, shopID string, req *model.ListLedgerEventsRequest) ([]model.StockLedgerEvent, int64, error) {
	query := listEventsBase
	countQuery := countEventsBase
	where := " WHERE e.shop_id = ?"
	args := []interface{}{shopID}

	if req.VariantKey != "" {
		query += " JOIN stock_ledger_event_item i ON i.event_id = e.id"
		countQuery += " JOIN stock_ledger_event_item i ON i.event_id = e.id"
		where += " AND i.variant_key = ?"
		args = append(args, req.VariantKey)
	}
	if req.Kind != "" {
		where += " AND e.kind = ?"
		args = append(args, req.Kind)
	}

	countArgs := make([]interface{}, len(args))
	copy(countArgs, args)

	offset := (req.Page - 1) * req.PerPage
	query += where + " ORDER BY e.occurred_at DESC, e.id DESC LIMIT ? OFFSET ?"
	args = append(args, req.PerPage, offset)

	rows, err := s.conn.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	events := make([]model.StockLedgerEvent, 0)
	for rows.Next() {
		var ev model.StockLedgerEvent
		if err := rows.StructScan(&ev); err != nil {
			return nil, 0, err
		}
		events = append(events, ev)
	}

	var total int64
	if err := s.conn.GetContext(ctx, &total, countQuery+where, countArgs...); err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	if stderrors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return false
}
