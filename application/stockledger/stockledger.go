package stockledger

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopcore/inventory-core/cmd/config"
	"github.com/shopcore/inventory-core/constant"
	"github.com/shopcore/inventory-core/model"
	inventoryrepo "github.com/shopcore/inventory-core/repository/inventory"
	ledgerrepo "github.com/shopcore/inventory-core/repository/ledger"
	redisrepo "github.com/shopcore/inventory-core/repository/redis"
	txrepo "github.com/shopcore/inventory-core/repository/tx"
	"github.com/shopcore/inventory-core/thirdparty/rabbitmq"
	"github.com/shopcore/inventory-core/utils/errors"
	"github.com/shopcore/inventory-core/utils/logger"
	"github.com/shopcore/inventory-core/utils/variantkey"
	"go.uber.org/zap"
)

type StockLedgerApp interface {
	ReceiveStockInflow(ctx context.Context, shopID string, req *model.StockInflowRequest) (*model.StockLedgerReport, error)
	ApplyStockAdjustment(ctx context.Context, shopID string, req *model.StockAdjustmentRequest) (*model.StockLedgerReport, error)
	ListEvents(ctx context.Context, shopID string, req *model.ListLedgerEventsRequest) (*model.ListLedgerEventsResponse, error)
	ListInventory(ctx context.Context, shopID string, req *model.ListInventoryRequest) (*model.ListInventoryResponse, error)
	GetQuantity(ctx context.Context, shopID, sku string, variantAttributes map[string]string) (int64, error)
}

type stockLedgerAppImpl struct {
	config        *config.Config
	txRepo        txrepo.TxRepository
	ledgerRepo    ledgerrepo.LedgerRepository
	inventoryRepo inventoryrepo.InventoryRepository
	redisRepo     redisrepo.Repository
	publisher     *rabbitmq.Publisher
}

func NewStockLedgerApp(config *config.Config, txRepo txrepo.TxRepository, ledgerRepo ledgerrepo.LedgerRepository, inventoryRepo inventoryrepo.InventoryRepository, redisRepo redisrepo.Repository, publisher *rabbitmq.Publisher) StockLedgerApp {
	return &stockLedgerAppImpl{
		config:        config,
		txRepo:        txRepo,
		ledgerRepo:    ledgerRepo,
		inventoryRepo: inventoryRepo,
		redisRepo:     redisRepo,
		publisher:     publisher,
	}
}

// ledgerLine is a normalized inflow or adjustment line.
type ledgerLine struct {
	sku        string
	productID  string
	variantKey string
	attributes model.VariantAttributes
	delta      int64
	reason     string
}

func (s *stockLedgerAppImpl) ReceiveStockInflow(ctx context.Context, shopID string, req *model.StockInflowRequest) (*model.StockLedgerReport, error) {
	if req.IdempotencyKey == "" || len(req.Items) == 0 {
		return nil, errors.SetCustomError(constant.ErrInvalidRequest)
	}
	lines := make([]ledgerLine, 0, len(req.Items))
	for _, it := range req.Items {
		if it.SKU == "" || it.ProductID == "" || it.Quantity <= 0 {
			return nil, errors.SetCustomError(constant.ErrInvalidRequest)
		}
		lines = append(lines, ledgerLine{
			sku:        it.SKU,
			productID:  it.ProductID,
			variantKey: variantkey.Build(it.SKU, it.VariantAttributes),
			attributes: model.VariantAttributes(it.VariantAttributes),
			delta:      it.Quantity,
		})
	}
	return s.apply(ctx, shopID, constant.LedgerEventInflow, req.IdempotencyKey, req.Note, req.DryRun, lines)
}

func (s *stockLedgerAppImpl) ApplyStockAdjustment(ctx context.Context, shopID string, req *model.StockAdjustmentRequest) (*model.StockLedgerReport, error) {
	if req.IdempotencyKey == "" || len(req.Items) == 0 {
		return nil, errors.SetCustomError(constant.ErrInvalidRequest)
	}
	lines := make([]ledgerLine, 0, len(req.Items))
	for _, it := range req.Items {
		if it.SKU == "" || it.ProductID == "" || it.Delta == 0 || it.Reason == "" {
			return nil, errors.SetCustomError(constant.ErrInvalidRequest)
		}
		lines = append(lines, ledgerLine{
			sku:        it.SKU,
			productID:  it.ProductID,
			variantKey: variantkey.Build(it.SKU, it.VariantAttributes),
			attributes: model.VariantAttributes(it.VariantAttributes),
			delta:      it.Delta,
			reason:     it.Reason,
		})
	}
	return s.apply(ctx, shopID, constant.LedgerEventAdjustment, req.IdempotencyKey, req.Note, req.DryRun, lines)
}

// apply runs one ledger write: idempotency-key check, per-line
// read-modify-write under row locks, event append. Dry runs compute the
// full report inside the transaction and then roll it back so the report
// matches exactly what a real apply would have done.
func (s *stockLedgerAppImpl) apply(ctx context.Context, shopID string, kind constant.LedgerEventKind, idempotencyKey, note string, dryRun bool, lines []ledgerLine) (*model.StockLedgerReport, error) {
	tx, err := s.txRepo.BeginTx(ctx)
	if err != nil {
		logger.Error("[StockLedger] begin tx", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrStorageUnavailable)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.txRepo.RollbackTx(tx)
		}
	}()

	existing, err := s.ledgerRepo.GetEventByKeyTx(ctx, tx, shopID, kind, idempotencyKey)
	if err != nil {
		logger.Error("[StockLedger] get event by key", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	if existing != nil {
		if err := s.txRepo.CommitTx(tx); err != nil {
			logger.Error("[StockLedger] commit tx", zap.String("error", err.Error()))
			return nil, errors.SetCustomError(constant.ErrStorageUnavailable)
		}
		committed = true
		return s.storedReport(ctx, existing)
	}

	now := time.Now()
	report := &model.StockLedgerReport{
		EventID:    uuid.NewString(),
		Kind:       kind,
		OccurredAt: now,
		Note:       note,
		DryRun:     dryRun,
	}
	eventItems := make([]model.StockLedgerEventItem, 0, len(lines))
	mismatches := make([]errors.ProductMismatch, 0)
	insufficient := make([]errors.InsufficientLine, 0)
	lowStock := make([]*model.InventoryItem, 0)

	// Per-variant running state, keyed by the full (sku, variant key)
	// identity. A request repeating a variant must see the quantity its
	// own earlier line produced, in dry runs exactly as in real applies.
	type lineState struct {
		item     *model.InventoryItem
		quantity int64
	}
	states := make(map[string]*lineState, len(lines))

	for _, line := range lines {
		stateKey := line.sku + "\x00" + line.variantKey
		st, seen := states[stateKey]
		if !seen {
			item, err := s.inventoryRepo.GetItemForUpdateTx(ctx, tx, shopID, line.sku, line.variantKey)
			if err != nil {
				logger.Error("[StockLedger] get item", zap.String("sku", line.sku), zap.String("error", err.Error()))
				return nil, errors.SetCustomError(constant.ErrInternal)
			}
			st = &lineState{item: item}
			if item != nil {
				st.quantity = item.Quantity
			}
			states[stateKey] = st
		}

		// A sku string maps to exactly one product within a shop.
		if st.item != nil && st.item.ProductID != line.productID {
			mismatches = append(mismatches, errors.ProductMismatch{
				SKU:               line.sku,
				ProductID:         line.productID,
				ExistingProductID: st.item.ProductID,
			})
			continue
		}
		previous := st.quantity
		next := previous + line.delta
		if next < 0 {
			insufficient = append(insufficient, errors.InsufficientLine{
				SKU:       line.sku,
				Requested: -line.delta,
				Available: previous,
			})
			continue
		}

		if !dryRun {
			if st.item == nil {
				newItem := &model.InventoryItem{
					ShopID:            shopID,
					SKU:               line.sku,
					ProductID:         line.productID,
					VariantKey:        line.variantKey,
					VariantAttributes: line.attributes,
					Quantity:          next,
				}
				if err := s.inventoryRepo.InsertItemTx(ctx, tx, newItem); err != nil {
					logger.Error("[StockLedger] insert item", zap.String("sku", line.sku), zap.String("error", err.Error()))
					return nil, errors.SetCustomError(constant.ErrInternal)
				}
				st.item = newItem
			} else {
				if err := s.inventoryRepo.AddQuantityTx(ctx, tx, shopID, line.sku, line.variantKey, line.delta); err != nil {
					if errors.Is(err, constant.ErrInsufficientAdjustment) {
						insufficient = append(insufficient, errors.InsufficientLine{
							SKU:       line.sku,
							Requested: -line.delta,
							Available: previous,
						})
						continue
					}
					logger.Error("[StockLedger] apply delta", zap.String("sku", line.sku), zap.String("error", err.Error()))
					return nil, errors.SetCustomError(constant.ErrInternal)
				}
				st.item.Quantity = next
			}
			if st.item.LowStockThreshold != nil && next <= *st.item.LowStockThreshold {
				lowStock = append(lowStock, st.item)
			}
		}
		st.quantity = next

		report.Items = append(report.Items, model.StockLedgerReportItem{
			SKU:              line.sku,
			ProductID:        line.productID,
			VariantKey:       line.variantKey,
			Delta:            line.delta,
			PreviousQuantity: previous,
			NextQuantity:     next,
			Reason:           line.reason,
		})
		eventItems = append(eventItems, model.StockLedgerEventItem{
			EventID:           report.EventID,
			SKU:               line.sku,
			ProductID:         line.productID,
			VariantKey:        line.variantKey,
			VariantAttributes: line.attributes,
			Delta:             line.delta,
			PreviousQuantity:  previous,
			NextQuantity:      next,
			Reason:            line.reason,
		})
	}

	// Conflicts are rejected before any write sticks: the transaction
	// rolls back whole, never item by item.
	if len(mismatches) > 0 {
		return nil, errors.SetProductMismatchError(mismatches)
	}
	if len(insufficient) > 0 {
		return nil, errors.SetInsufficientError(constant.ErrInsufficientAdjustment, insufficient)
	}

	if dryRun {
		// Rollback via the deferred handler; nothing persists.
		return report, nil
	}

	event := &model.StockLedgerEvent{
		ID:             report.EventID,
		ShopID:         shopID,
		Kind:           kind,
		IdempotencyKey: idempotencyKey,
		Note:           note,
		OccurredAt:     now,
	}
	if err := s.ledgerRepo.InsertEventTx(ctx, tx, event, eventItems); err != nil {
		if stderrors.Is(err, ledgerrepo.ErrDuplicateKey) {
			// Lost the append race to a concurrent retry; roll back and
			// surface the winner's stored report.
			return s.duplicateReport(ctx, shopID, kind, idempotencyKey)
		}
		logger.Error("[StockLedger] insert event", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	if err := s.txRepo.CommitTx(tx); err != nil {
		logger.Error("[StockLedger] commit tx", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrStorageUnavailable)
	}
	committed = true

	// Fire-and-notify: alert failures never roll back the inventory
	// write.
	s.notifyLowStock(ctx, shopID, lowStock)

	return report, nil
}

func (s *stockLedgerAppImpl) duplicateReport(ctx context.Context, shopID string, kind constant.LedgerEventKind, idempotencyKey string) (*model.StockLedgerReport, error) {
	event, err := s.ledgerRepo.GetEventByKey(ctx, shopID, kind, idempotencyKey)
	if err != nil {
		logger.Error("[StockLedger] reread duplicate event", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	if event == nil {
		return nil, errors.SetCustomError(constant.ErrStorageUnavailable)
	}
	return s.storedReport(ctx, event)
}

// storedReport rebuilds the original report of a previously applied event.
func (s *stockLedgerAppImpl) storedReport(ctx context.Context, event *model.StockLedgerEvent) (*model.StockLedgerReport, error) {
	items, err := s.ledgerRepo.GetEventItems(ctx, event.ID)
	if err != nil {
		logger.Error("[StockLedger] get event items", zap.String("event_id", event.ID), zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	report := &model.StockLedgerReport{
		EventID:    event.ID,
		Kind:       event.Kind,
		OccurredAt: event.OccurredAt,
		Note:       event.Note,
		Duplicate:  true,
	}
	for _, it := range items {
		report.Items = append(report.Items, model.StockLedgerReportItem{
			SKU:              it.SKU,
			ProductID:        it.ProductID,
			VariantKey:       it.VariantKey,
			Delta:            it.Delta,
			PreviousQuantity: it.PreviousQuantity,
			NextQuantity:     it.NextQuantity,
			Reason:           it.Reason,
		})
	}
	return report, nil
}

func (s *stockLedgerAppImpl) ListEvents(ctx context.Context, shopID string, req *model.ListLedgerEventsRequest) (*model.ListLedgerEventsResponse, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PerPage <= 0 {
		req.PerPage = 50
	}

	events, total, err := s.ledgerRepo.ListEvents(ctx, shopID, req)
	if err != nil {
		logger.Error("[StockLedger] list events", zap.String("shop_id", shopID), zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	res := &model.ListLedgerEventsResponse{
		Events:     make([]model.StockLedgerReport, 0, len(events)),
		TotalCount: total,
		Page:       req.Page,
		PerPage:    req.PerPage,
	}
	for i := range events {
		report, err := s.storedReport(ctx, &events[i])
		if err != nil {
			return nil, err
		}
		report.Duplicate = false
		res.Events = append(res.Events, *report)
	}
	return res, nil
}

func (s *stockLedgerAppImpl) ListInventory(ctx context.Context, shopID string, req *model.ListInventoryRequest) (*model.ListInventoryResponse, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PerPage <= 0 {
		req.PerPage = 50
	}

	items, total, err := s.inventoryRepo.ListItems(ctx, shopID, req)
	if err != nil {
		logger.Error("[StockLedger] list inventory", zap.String("shop_id", shopID), zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	return &model.ListInventoryResponse{
		Items:      items,
		TotalCount: total,
		Page:       req.Page,
		PerPage:    req.PerPage,
	}, nil
}

func (s *stockLedgerAppImpl) GetQuantity(ctx context.Context, shopID, sku string, variantAttributes map[string]string) (int64, error) {
	key := variantkey.Build(sku, variantAttributes)
	quantity, err := s.inventoryRepo.GetQuantity(ctx, shopID, sku, key)
	if err != nil {
		if errors.Is(err, constant.ErrNotFound) {
			return 0, err
		}
		logger.Error("[StockLedger] get quantity", zap.String("variant_key", key), zap.String("error", err.Error()))
		return 0, errors.SetCustomError(constant.ErrInternal)
	}
	return quantity, nil
}

func (s *stockLedgerAppImpl) notifyLowStock(ctx context.Context, shopID string, items []*model.InventoryItem) {
	for _, item := range items {
		dedupeKey := "lowstock:" + shopID + ":" + item.VariantKey
		won, err := s.redisRepo.AcquireOnce(ctx, dedupeKey, s.config.Inventory.LowStockAlertWindow)
		if err != nil {
			logger.Warn("[StockLedger] low stock dedupe", zap.String("variant_key", item.VariantKey), zap.String("error", err.Error()))
		}
		if err == nil && !won {
			continue
		}
		if s.publisher == nil {
			continue
		}
		msg := rabbitmq.LowStockMessage{
			ShopID:     shopID,
			SKU:        item.SKU,
			VariantKey: item.VariantKey,
			Quantity:   item.Quantity,
		}
		if item.LowStockThreshold != nil {
			msg.Threshold = *item.LowStockThreshold
		}
		if err := s.publisher.PublishLowStock(msg); err != nil {
			logger.Error("[StockLedger] publish low stock", zap.String("variant_key", item.VariantKey), zap.String("error", err.Error()))
		}
	}
}
