package hold

import (
	"context"
	stderrors "errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopcore/inventory-core/cmd/config"
	"github.com/shopcore/inventory-core/constant"
	"github.com/shopcore/inventory-core/model"
	holdrepo "github.com/shopcore/inventory-core/repository/hold"
	inventoryrepo "github.com/shopcore/inventory-core/repository/inventory"
	txrepo "github.com/shopcore/inventory-core/repository/tx"
	"github.com/shopcore/inventory-core/thirdparty/rabbitmq"
	"github.com/shopcore/inventory-core/utils/errors"
	"github.com/shopcore/inventory-core/utils/logger"
	"github.com/shopcore/inventory-core/utils/variantkey"
	"go.uber.org/zap"
)

type HoldApp interface {
	CreateHold(ctx context.Context, shopID string, req *model.CreateHoldRequest) (*model.CreateHoldResponse, error)
	CommitHold(ctx context.Context, shopID, holdID string) error
	ReleaseHold(ctx context.Context, shopID, holdID string) (*model.ReleaseHoldResponse, error)
	ReapExpiredHolds(ctx context.Context, shopID string, now time.Time, limit int) (int, error)
}

type holdAppImpl struct {
	config        *config.Config
	txRepo        txrepo.TxRepository
	holdRepo      holdrepo.HoldRepository
	inventoryRepo inventoryrepo.InventoryRepository
	publisher     *rabbitmq.Publisher
}

func NewHoldApp(config *config.Config, txRepo txrepo.TxRepository, holdRepo holdrepo.HoldRepository, inventoryRepo inventoryrepo.InventoryRepository, publisher *rabbitmq.Publisher) HoldApp {
	return &holdAppImpl{
		config:        config,
		txRepo:        txRepo,
		holdRepo:      holdRepo,
		inventoryRepo: inventoryRepo,
		publisher:     publisher,
	}
}

// holdLine is one merged reservation requirement. Requests may repeat a
// variant; they are merged up front so the availability check and the
// decrement agree on the total.
type holdLine struct {
	sku        string
	variantKey string
	attributes model.VariantAttributes
	quantity   int64
}

func (s *holdAppImpl) CreateHold(ctx context.Context, shopID string, req *model.CreateHoldRequest) (*model.CreateHoldResponse, error) {
	if len(req.Items) == 0 {
		return nil, errors.SetCustomError(constant.ErrInvalidRequest)
	}
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			return nil, errors.SetCustomError(constant.ErrInvalidRequest)
		}
	}

	ttl := time.Duration(req.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = s.config.Hold.DefaultTTL
	}

	// Lazy reap before reserving: correctness of expiry must not depend
	// on a background process being alive. A reap failure is logged and
	// not fatal to this create.
	if _, err := s.ReapExpiredHolds(ctx, shopID, time.Now(), s.config.Hold.ReapLimit); err != nil {
		logger.Warn("[CreateHold] reap expired holds", zap.String("shop_id", shopID), zap.String("error", err.Error()))
	}

	lines := mergeLines(req.Items)

	res, err := s.reserve(ctx, shopID, req.IdempotencyKey, lines, ttl)
	if stderrors.Is(err, holdrepo.ErrDuplicateKey) {
		// A concurrent creator won the unique index race; converge on its
		// hold instead of erroring.
		return s.readExistingHold(ctx, shopID, req.IdempotencyKey)
	}
	if err != nil {
		return nil, err
	}

	if s.publisher != nil && !res.Reused {
		msg := rabbitmq.HoldExpirationMessage{
			ShopID:    shopID,
			HoldID:    res.HoldID,
			ExpiresAt: res.ExpiresAt,
		}
		if err := s.publisher.PublishHoldExpiration(msg); err != nil {
			logger.Error("[CreateHold] publish hold expiration", zap.String("hold_id", res.HoldID), zap.String("error", err.Error()))
		}
	}

	return res, nil
}

func (s *holdAppImpl) reserve(ctx context.Context, shopID, idempotencyKey string, lines []holdLine, ttl time.Duration) (*model.CreateHoldResponse, error) {
	tx, err := s.txRepo.BeginTx(ctx)
	if err != nil {
		logger.Error("[CreateHold] begin tx", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrStorageUnavailable)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.txRepo.RollbackTx(tx)
		}
	}()

	now := time.Now()

	if idempotencyKey != "" {
		existing, err := s.holdRepo.GetByIdempotencyKeyTx(ctx, tx, shopID, idempotencyKey)
		if err != nil {
			logger.Error("[CreateHold] get hold by key", zap.String("error", err.Error()))
			return nil, errors.SetCustomError(constant.ErrInternal)
		}
		if existing != nil {
			if existing.Status == constant.HoldStatusActive && existing.ExpiresAt.After(now) {
				// Live hold under the same key: no new reservation, no
				// double decrement.
				if err := s.txRepo.CommitTx(tx); err != nil {
					logger.Error("[CreateHold] commit tx", zap.String("error", err.Error()))
					return nil, errors.SetCustomError(constant.ErrStorageUnavailable)
				}
				committed = true
				return &model.CreateHoldResponse{HoldID: existing.ID, ExpiresAt: existing.ExpiresAt, Reused: true}, nil
			}
			if existing.Status == constant.HoldStatusActive {
				// Expired but not yet reaped: restore its lines and retire
				// it, then fall through to a fresh reservation.
				if err := s.restoreHoldItemsTx(ctx, tx, existing.ID); err != nil {
					return nil, err
				}
				if err := s.holdRepo.MarkExpiredTx(ctx, tx, existing.ID, now); err != nil {
					logger.Error("[CreateHold] mark expired", zap.String("hold_id", existing.ID), zap.String("error", err.Error()))
					return nil, errors.SetCustomError(constant.ErrInternal)
				}
			} else if existing.Status == constant.HoldStatusCommitted {
				// The sale already completed under this key.
				if err := s.txRepo.CommitTx(tx); err != nil {
					logger.Error("[CreateHold] commit tx", zap.String("error", err.Error()))
					return nil, errors.SetCustomError(constant.ErrStorageUnavailable)
				}
				committed = true
				return &model.CreateHoldResponse{HoldID: existing.ID, ExpiresAt: existing.ExpiresAt, Reused: true}, nil
			}
		}
	}

	// All-or-nothing availability check across every line before any
	// decrement, all under row locks.
	insufficient := make([]errors.InsufficientLine, 0)
	for _, line := range lines {
		item, err := s.inventoryRepo.GetItemForUpdateTx(ctx, tx, shopID, line.sku, line.variantKey)
		if err != nil {
			logger.Error("[CreateHold] get item", zap.String("sku", line.sku), zap.String("error", err.Error()))
			return nil, errors.SetCustomError(constant.ErrInternal)
		}
		var available int64
		if item != nil {
			available = item.Quantity
		}
		if available < line.quantity {
			insufficient = append(insufficient, errors.InsufficientLine{
				SKU:       line.sku,
				Requested: line.quantity,
				Available: available,
			})
		}
	}
	if len(insufficient) > 0 {
		logger.Info("[CreateHold] insufficient inventory", zap.String("shop_id", shopID), zap.Int("short_lines", len(insufficient)))
		return nil, errors.SetInsufficientError(constant.ErrInsufficientInventory, insufficient)
	}

	for _, line := range lines {
		if err := s.inventoryRepo.AddQuantityTx(ctx, tx, shopID, line.sku, line.variantKey, -line.quantity); err != nil {
			logger.Error("[CreateHold] decrement quantity", zap.String("variant_key", line.variantKey), zap.String("error", err.Error()))
			return nil, errors.SetCustomError(constant.ErrInternal)
		}
	}

	holdID := uuid.NewString()
	expiresAt := now.Add(ttl)
	insert := &model.InsertHoldTxItem{
		ID:             holdID,
		ShopID:         shopID,
		IdempotencyKey: idempotencyKey,
		ExpiresAt:      expiresAt,
	}
	for _, line := range lines {
		insert.Items = append(insert.Items, model.InventoryHoldItem{
			HoldID:            holdID,
			ShopID:            shopID,
			SKU:               line.sku,
			VariantKey:        line.variantKey,
			VariantAttributes: line.attributes,
			Quantity:          line.quantity,
		})
	}
	if err := s.holdRepo.InsertHoldTx(ctx, tx, insert); err != nil {
		if stderrors.Is(err, holdrepo.ErrDuplicateKey) {
			return nil, err
		}
		logger.Error("[CreateHold] insert hold", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	if err := s.txRepo.CommitTx(tx); err != nil {
		logger.Error("[CreateHold] commit tx", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrStorageUnavailable)
	}
	committed = true

	return &model.CreateHoldResponse{HoldID: holdID, ExpiresAt: expiresAt}, nil
}

// readExistingHold resolves the winner of an idempotency-key race.
func (s *holdAppImpl) readExistingHold(ctx context.Context, shopID, idempotencyKey string) (*model.CreateHoldResponse, error) {
	tx, err := s.txRepo.BeginTx(ctx)
	if err != nil {
		logger.Error("[CreateHold] begin tx", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrStorageUnavailable)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.txRepo.RollbackTx(tx)
		}
	}()

	existing, err := s.holdRepo.GetByIdempotencyKeyTx(ctx, tx, shopID, idempotencyKey)
	if err != nil {
		logger.Error("[CreateHold] reread winner", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	if existing == nil {
		// The winner vanished between the conflict and the reread; the
		// caller retries with the same key.
		return nil, errors.SetCustomError(constant.ErrStorageUnavailable)
	}
	if err := s.txRepo.CommitTx(tx); err != nil {
		logger.Error("[CreateHold] commit tx", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrStorageUnavailable)
	}
	committed = true
	return &model.CreateHoldResponse{HoldID: existing.ID, ExpiresAt: existing.ExpiresAt, Reused: true}, nil
}

func (s *holdAppImpl) CommitHold(ctx context.Context, shopID, holdID string) error {
	tx, err := s.txRepo.BeginTx(ctx)
	if err != nil {
		logger.Error("[CommitHold] begin tx", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrStorageUnavailable)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.txRepo.RollbackTx(tx)
		}
	}()

	h, err := s.holdRepo.GetByIDTx(ctx, tx, shopID, holdID)
	if err != nil {
		logger.Error("[CommitHold] get hold", zap.String("hold_id", holdID), zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}
	if h == nil {
		return errors.SetCustomError(constant.ErrNotFound)
	}

	switch h.Status {
	case constant.HoldStatusCommitted:
		// Idempotent commit: same effect, silent success.
		if err := s.txRepo.CommitTx(tx); err != nil {
			logger.Error("[CommitHold] commit tx", zap.String("error", err.Error()))
			return errors.SetCustomError(constant.ErrStorageUnavailable)
		}
		committed = true
		return nil
	case constant.HoldStatusActive:
		// Inventory stays decremented; the sale completed.
		if err := s.holdRepo.MarkCommittedTx(ctx, tx, holdID, time.Now()); err != nil {
			logger.Error("[CommitHold] mark committed", zap.String("hold_id", holdID), zap.String("error", err.Error()))
			return errors.SetCustomError(constant.ErrInternal)
		}
		if err := s.txRepo.CommitTx(tx); err != nil {
			logger.Error("[CommitHold] commit tx", zap.String("error", err.Error()))
			return errors.SetCustomError(constant.ErrStorageUnavailable)
		}
		committed = true
		return nil
	default:
		return errors.SetCustomError(constant.ErrHoldNotActive)
	}
}

func (s *holdAppImpl) ReleaseHold(ctx context.Context, shopID, holdID string) (*model.ReleaseHoldResponse, error) {
	tx, err := s.txRepo.BeginTx(ctx)
	if err != nil {
		logger.Error("[ReleaseHold] begin tx", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrStorageUnavailable)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.txRepo.RollbackTx(tx)
		}
	}()

	h, err := s.holdRepo.GetByIDTx(ctx, tx, shopID, holdID)
	if err != nil {
		logger.Error("[ReleaseHold] get hold", zap.String("hold_id", holdID), zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	if h == nil {
		return nil, errors.SetCustomError(constant.ErrNotFound)
	}

	switch h.Status {
	case constant.HoldStatusCommitted:
		// Committed is irreversible; restoring sold inventory would
		// oversell.
		return nil, errors.SetCustomError(constant.ErrHoldCommitted)
	case constant.HoldStatusReleased, constant.HoldStatusExpired:
		// Redundant release from a retried webhook: harmless.
		if err := s.txRepo.CommitTx(tx); err != nil {
			logger.Error("[ReleaseHold] commit tx", zap.String("error", err.Error()))
			return nil, errors.SetCustomError(constant.ErrStorageUnavailable)
		}
		committed = true
		return &model.ReleaseHoldResponse{HoldID: holdID, AlreadyReleased: true}, nil
	}

	if err := s.restoreHoldItemsTx(ctx, tx, holdID); err != nil {
		return nil, err
	}
	if err := s.holdRepo.MarkReleasedTx(ctx, tx, holdID, time.Now()); err != nil {
		logger.Error("[ReleaseHold] mark released", zap.String("hold_id", holdID), zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	if err := s.txRepo.CommitTx(tx); err != nil {
		logger.Error("[ReleaseHold] commit tx", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrStorageUnavailable)
	}
	committed = true
	return &model.ReleaseHoldResponse{HoldID: holdID}, nil
}

// ReapExpiredHolds retires up to limit expired active holds for the shop,
// restoring their reserved quantity. Called lazily from CreateHold and by
// the sweeper worker.
func (s *holdAppImpl) ReapExpiredHolds(ctx context.Context, shopID string, now time.Time, limit int) (int, error) {
	if limit <= 0 {
		return 0, nil
	}

	tx, err := s.txRepo.BeginTx(ctx)
	if err != nil {
		logger.Error("[ReapExpiredHolds] begin tx", zap.String("error", err.Error()))
		return 0, errors.SetCustomError(constant.ErrStorageUnavailable)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.txRepo.RollbackTx(tx)
		}
	}()

	holds, err := s.holdRepo.ListExpiredActiveTx(ctx, tx, shopID, now, limit)
	if err != nil {
		logger.Error("[ReapExpiredHolds] list expired", zap.String("shop_id", shopID), zap.String("error", err.Error()))
		return 0, errors.SetCustomError(constant.ErrInternal)
	}
	if len(holds) == 0 {
		if err := s.txRepo.CommitTx(tx); err != nil {
			logger.Error("[ReapExpiredHolds] commit tx", zap.String("error", err.Error()))
			return 0, errors.SetCustomError(constant.ErrStorageUnavailable)
		}
		committed = true
		return 0, nil
	}

	for _, h := range holds {
		if err := s.restoreHoldItemsTx(ctx, tx, h.ID); err != nil {
			return 0, err
		}
		if err := s.holdRepo.MarkExpiredTx(ctx, tx, h.ID, now); err != nil {
			logger.Error("[ReapExpiredHolds] mark expired", zap.String("hold_id", h.ID), zap.String("error", err.Error()))
			return 0, errors.SetCustomError(constant.ErrInternal)
		}
	}

	if err := s.txRepo.CommitTx(tx); err != nil {
		logger.Error("[ReapExpiredHolds] commit tx", zap.String("error", err.Error()))
		return 0, errors.SetCustomError(constant.ErrStorageUnavailable)
	}
	committed = true

	logger.Info("[ReapExpiredHolds] reaped", zap.String("shop_id", shopID), zap.Int("count", len(holds)))
	return len(holds), nil
}

func (s *holdAppImpl) restoreHoldItemsTx(ctx context.Context, tx *sqlx.Tx, holdID string) error {
	items, err := s.holdRepo.GetItemsTx(ctx, tx, holdID)
	if err != nil {
		logger.Error("[restoreHoldItems] get items", zap.String("hold_id", holdID), zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}
	for _, it := range items {
		if err := s.inventoryRepo.AddQuantityTx(ctx, tx, it.ShopID, it.SKU, it.VariantKey, it.Quantity); err != nil {
			logger.Error("[restoreHoldItems] restore quantity", zap.String("variant_key", it.VariantKey), zap.String("error", err.Error()))
			return errors.SetCustomError(constant.ErrInternal)
		}
	}
	return nil
}

func mergeLines(items []model.HoldLineRequest) []holdLine {
	merged := make([]holdLine, 0, len(items))
	// Lines merge on the full (sku, variant key) identity: derived keys
	// are not unique across skus.
	type lineKey struct {
		sku string
		key string
	}
	index := make(map[lineKey]int, len(items))
	for _, it := range items {
		key := variantkey.Build(it.SKU, it.VariantAttributes)
		lk := lineKey{sku: it.SKU, key: key}
		if i, ok := index[lk]; ok {
			merged[i].quantity += it.Quantity
			continue
		}
		index[lk] = len(merged)
		merged = append(merged, holdLine{
			sku:        it.SKU,
			variantKey: key,
			attributes: model.VariantAttributes(it.VariantAttributes),
			quantity:   it.Quantity,
		})
	}
	// Lock rows in one global order so two concurrent holds over the same
	// variants cannot deadlock each other.
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].variantKey != merged[j].variantKey {
			return merged[i].variantKey < merged[j].variantKey
		}
		return merged[i].sku < merged[j].sku
	})
	return merged
}
