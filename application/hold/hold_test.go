package hold_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	apphold "github.com/shopcore/inventory-core/application/hold"
	"github.com/shopcore/inventory-core/cmd/config"
	"github.com/shopcore/inventory-core/constant"
	holdmocks "github.com/shopcore/inventory-core/mocks/repository/hold"
	inventorymocks "github.com/shopcore/inventory-core/mocks/repository/inventory"
	txmocks "github.com/shopcore/inventory-core/mocks/repository/tx"
	"github.com/shopcore/inventory-core/model"
	holdrepo "github.com/shopcore/inventory-core/repository/hold"
	cerr "github.com/shopcore/inventory-core/utils/errors"
	"github.com/stretchr/testify/mock"
)

// Tests run with a nil publisher: expiration messages are a supplement to
// the lazy reap, so CreateHold must work without a broker.

func holdTestConfig(reapLimit int) *config.Config {
	return &config.Config{
		Hold: config.HoldConfig{
			DefaultTTL: 10 * time.Minute,
			ReapLimit:  reapLimit,
		},
	}
}

func TestHoldApp_CreateHold(t *testing.T) {
	type fields struct {
		config        *config.Config
		txRepo        *txmocks.TxRepository
		holdRepo      *holdmocks.HoldRepository
		inventoryRepo *inventorymocks.InventoryRepository
	}
	type args struct {
		ctx    context.Context
		shopID string
		req    *model.CreateHoldRequest
	}
	tests := []struct {
		name       string
		fields     fields
		args       args
		mockCall   func(f fields)
		wantReused bool
		wantHoldID string
		wantErr    bool
		errCode    constant.ErrorType
		checkErr   func(t *testing.T, ce cerr.CustomError)
	}{
		{
			name: "success: new hold with single line",
			fields: fields{
				config:        holdTestConfig(0),
				txRepo:        txmocks.NewTxRepository(t),
				holdRepo:      holdmocks.NewHoldRepository(t),
				inventoryRepo: inventorymocks.NewInventoryRepository(t),
			},
			args: args{
				ctx:    context.Background(),
				shopID: "shop-1",
				req: &model.CreateHoldRequest{
					Items: []model.HoldLineRequest{
						{SKU: "TS-1", Quantity: 2, VariantAttributes: map[string]string{"size": "m"}},
					},
				},
			},
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.txRepo.On("CommitTx", tx).Return(nil).Once()

				f.inventoryRepo.On("GetItemForUpdateTx", mock.Anything, tx, "shop-1", "TS-1", "TS-1:size=m").
					Return(&model.InventoryItem{ShopID: "shop-1", SKU: "TS-1", VariantKey: "TS-1:size=m", Quantity: 5}, nil).Once()
				f.inventoryRepo.On("AddQuantityTx", mock.Anything, tx, "shop-1", "TS-1", "TS-1:size=m", int64(-2)).Return(nil).Once()

				f.holdRepo.On("InsertHoldTx", mock.Anything, tx, mock.MatchedBy(func(h *model.InsertHoldTxItem) bool {
					return h.ShopID == "shop-1" && len(h.Items) == 1 &&
						h.Items[0].VariantKey == "TS-1:size=m" && h.Items[0].Quantity == 2
				})).Return(nil).Once()
			},
		},
		{
			name: "success: duplicate lines merged before the availability check",
			fields: fields{
				config:        holdTestConfig(0),
				txRepo:        txmocks.NewTxRepository(t),
				holdRepo:      holdmocks.NewHoldRepository(t),
				inventoryRepo: inventorymocks.NewInventoryRepository(t),
			},
			args: args{
				ctx:    context.Background(),
				shopID: "shop-1",
				req: &model.CreateHoldRequest{
					Items: []model.HoldLineRequest{
						{SKU: "TS-1", Quantity: 2},
						{SKU: "TS-1", Quantity: 3},
					},
				},
			},
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.txRepo.On("CommitTx", tx).Return(nil).Once()

				f.inventoryRepo.On("GetItemForUpdateTx", mock.Anything, tx, "shop-1", "TS-1", "TS-1").
					Return(&model.InventoryItem{ShopID: "shop-1", SKU: "TS-1", VariantKey: "TS-1", Quantity: 5}, nil).Once()
				f.inventoryRepo.On("AddQuantityTx", mock.Anything, tx, "shop-1", "TS-1", "TS-1", int64(-5)).Return(nil).Once()

				f.holdRepo.On("InsertHoldTx", mock.Anything, tx, mock.MatchedBy(func(h *model.InsertHoldTxItem) bool {
					return len(h.Items) == 1 && h.Items[0].Quantity == 5
				})).Return(nil).Once()
			},
		},
		{
			name: "success: colliding variant keys across skus stay separate lines",
			fields: fields{
				config:        holdTestConfig(0),
				txRepo:        txmocks.NewTxRepository(t),
				holdRepo:      holdmocks.NewHoldRepository(t),
				inventoryRepo: inventorymocks.NewInventoryRepository(t),
			},
			args: args{
				ctx:    context.Background(),
				shopID: "shop-1",
				req: &model.CreateHoldRequest{
					// Both lines derive the key "TS-1:size=m"; only the sku
					// tells them apart.
					Items: []model.HoldLineRequest{
						{SKU: "TS-1:size=m", Quantity: 1},
						{SKU: "TS-1", Quantity: 1, VariantAttributes: map[string]string{"size": "m"}},
					},
				},
			},
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.txRepo.On("CommitTx", tx).Return(nil).Once()

				f.inventoryRepo.On("GetItemForUpdateTx", mock.Anything, tx, "shop-1", "TS-1", "TS-1:size=m").
					Return(&model.InventoryItem{ShopID: "shop-1", SKU: "TS-1", VariantKey: "TS-1:size=m", Quantity: 5}, nil).Once()
				f.inventoryRepo.On("GetItemForUpdateTx", mock.Anything, tx, "shop-1", "TS-1:size=m", "TS-1:size=m").
					Return(&model.InventoryItem{ShopID: "shop-1", SKU: "TS-1:size=m", VariantKey: "TS-1:size=m", Quantity: 5}, nil).Once()
				f.inventoryRepo.On("AddQuantityTx", mock.Anything, tx, "shop-1", "TS-1", "TS-1:size=m", int64(-1)).Return(nil).Once()
				f.inventoryRepo.On("AddQuantityTx", mock.Anything, tx, "shop-1", "TS-1:size=m", "TS-1:size=m", int64(-1)).Return(nil).Once()

				f.holdRepo.On("InsertHoldTx", mock.Anything, tx, mock.MatchedBy(func(h *model.InsertHoldTxItem) bool {
					return len(h.Items) == 2 &&
						h.Items[0].SKU != h.Items[1].SKU &&
						h.Items[0].VariantKey == "TS-1:size=m" &&
						h.Items[1].VariantKey == "TS-1:size=m"
				})).Return(nil).Once()
			},
		},
		{
			name: "success: idempotent retry converges on live hold",
			fields: fields{
				config:        holdTestConfig(0),
				txRepo:        txmocks.NewTxRepository(t),
				holdRepo:      holdmocks.NewHoldRepository(t),
				inventoryRepo: inventorymocks.NewInventoryRepository(t),
			},
			args: args{
				ctx:    context.Background(),
				shopID: "shop-1",
				req: &model.CreateHoldRequest{
					Items:          []model.HoldLineRequest{{SKU: "TS-1", Quantity: 2}},
					IdempotencyKey: "checkout-42",
				},
			},
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.txRepo.On("CommitTx", tx).Return(nil).Once()

				f.holdRepo.On("GetByIdempotencyKeyTx", mock.Anything, tx, "shop-1", "checkout-42").
					Return(&model.InventoryHold{
						ID:        "hold-live",
						ShopID:    "shop-1",
						Status:    constant.HoldStatusActive,
						ExpiresAt: time.Now().Add(time.Hour),
					}, nil).Once()
			},
			wantReused: true,
			wantHoldID: "hold-live",
		},
		{
			name: "success: retry with key of a committed hold returns the finished sale",
			fields: fields{
				config:        holdTestConfig(0),
				txRepo:        txmocks.NewTxRepository(t),
				holdRepo:      holdmocks.NewHoldRepository(t),
				inventoryRepo: inventorymocks.NewInventoryRepository(t),
			},
			args: args{
				ctx:    context.Background(),
				shopID: "shop-1",
				req: &model.CreateHoldRequest{
					Items:          []model.HoldLineRequest{{SKU: "TS-1", Quantity: 2}},
					IdempotencyKey: "checkout-42",
				},
			},
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.txRepo.On("CommitTx", tx).Return(nil).Once()

				f.holdRepo.On("GetByIdempotencyKeyTx", mock.Anything, tx, "shop-1", "checkout-42").
					Return(&model.InventoryHold{
						ID:        "hold-sold",
						ShopID:    "shop-1",
						Status:    constant.HoldStatusCommitted,
						ExpiresAt: time.Now().Add(-time.Minute),
					}, nil).Once()
			},
			wantReused: true,
			wantHoldID: "hold-sold",
		},
		{
			name: "success: expired unreaped hold under the key is retired and replaced",
			fields: fields{
				config:        holdTestConfig(0),
				txRepo:        txmocks.NewTxRepository(t),
				holdRepo:      holdmocks.NewHoldRepository(t),
				inventoryRepo: inventorymocks.NewInventoryRepository(t),
			},
			args: args{
				ctx:    context.Background(),
				shopID: "shop-1",
				req: &model.CreateHoldRequest{
					Items:          []model.HoldLineRequest{{SKU: "TS-1", Quantity: 2}},
					IdempotencyKey: "checkout-42",
				},
			},
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.txRepo.On("CommitTx", tx).Return(nil).Once()

				f.holdRepo.On("GetByIdempotencyKeyTx", mock.Anything, tx, "shop-1", "checkout-42").
					Return(&model.InventoryHold{
						ID:        "hold-stale",
						ShopID:    "shop-1",
						Status:    constant.HoldStatusActive,
						ExpiresAt: time.Now().Add(-time.Minute),
					}, nil).Once()
				f.holdRepo.On("GetItemsTx", mock.Anything, tx, "hold-stale").
					Return([]model.InventoryHoldItem{
						{HoldID: "hold-stale", ShopID: "shop-1", SKU: "TS-1", VariantKey: "TS-1", Quantity: 2},
					}, nil).Once()
				f.inventoryRepo.On("AddQuantityTx", mock.Anything, tx, "shop-1", "TS-1", "TS-1", int64(2)).Return(nil).Once()
				f.holdRepo.On("MarkExpiredTx", mock.Anything, tx, "hold-stale", mock.Anything).Return(nil).Once()

				f.inventoryRepo.On("GetItemForUpdateTx", mock.Anything, tx, "shop-1", "TS-1", "TS-1").
					Return(&model.InventoryItem{ShopID: "shop-1", SKU: "TS-1", VariantKey: "TS-1", Quantity: 4}, nil).Once()
				f.inventoryRepo.On("AddQuantityTx", mock.Anything, tx, "shop-1", "TS-1", "TS-1", int64(-2)).Return(nil).Once()
				f.holdRepo.On("InsertHoldTx", mock.Anything, tx, mock.MatchedBy(func(h *model.InsertHoldTxItem) bool {
					return h.IdempotencyKey == "checkout-42" && h.ID != "hold-stale"
				})).Return(nil).Once()
			},
		},
		{
			name: "success: lost the idempotency-key race, converges on the winner",
			fields: fields{
				config:        holdTestConfig(0),
				txRepo:        txmocks.NewTxRepository(t),
				holdRepo:      holdmocks.NewHoldRepository(t),
				inventoryRepo: inventorymocks.NewInventoryRepository(t),
			},
			args: args{
				ctx:    context.Background(),
				shopID: "shop-1",
				req: &model.CreateHoldRequest{
					Items:          []model.HoldLineRequest{{SKU: "TS-1", Quantity: 1}},
					IdempotencyKey: "checkout-42",
				},
			},
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Times(2)
				f.txRepo.On("RollbackTx", tx).Return(nil).Once()
				f.txRepo.On("CommitTx", tx).Return(nil).Once()

				// First attempt: key not taken yet, then the insert loses the
				// unique-index race.
				f.holdRepo.On("GetByIdempotencyKeyTx", mock.Anything, tx, "shop-1", "checkout-42").
					Return(nil, nil).Once()
				f.inventoryRepo.On("GetItemForUpdateTx", mock.Anything, tx, "shop-1", "TS-1", "TS-1").
					Return(&model.InventoryItem{ShopID: "shop-1", SKU: "TS-1", VariantKey: "TS-1", Quantity: 3}, nil).Once()
				f.inventoryRepo.On("AddQuantityTx", mock.Anything, tx, "shop-1", "TS-1", "TS-1", int64(-1)).Return(nil).Once()
				f.holdRepo.On("InsertHoldTx", mock.Anything, tx, mock.Anything).Return(holdrepo.ErrDuplicateKey).Once()

				// Reread resolves the winner.
				f.holdRepo.On("GetByIdempotencyKeyTx", mock.Anything, tx, "shop-1", "checkout-42").
					Return(&model.InventoryHold{
						ID:        "hold-winner",
						ShopID:    "shop-1",
						Status:    constant.HoldStatusActive,
						ExpiresAt: time.Now().Add(time.Hour),
					}, nil).Once()
			},
			wantReused: true,
			wantHoldID: "hold-winner",
		},
		{
			name: "error: insufficient inventory reports every short line",
			fields: fields{
				config:        holdTestConfig(0),
				txRepo:        txmocks.NewTxRepository(t),
				holdRepo:      holdmocks.NewHoldRepository(t),
				inventoryRepo: inventorymocks.NewInventoryRepository(t),
			},
			args: args{
				ctx:    context.Background(),
				shopID: "shop-1",
				req: &model.CreateHoldRequest{
					Items: []model.HoldLineRequest{
						{SKU: "TS-1", Quantity: 5},
						{SKU: "TS-2", Quantity: 3},
					},
				},
			},
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.txRepo.On("RollbackTx", tx).Return(nil).Once()

				f.inventoryRepo.On("GetItemForUpdateTx", mock.Anything, tx, "shop-1", "TS-1", "TS-1").
					Return(&model.InventoryItem{ShopID: "shop-1", SKU: "TS-1", VariantKey: "TS-1", Quantity: 2}, nil).Once()
				// Never stocked: available is zero, not an error.
				f.inventoryRepo.On("GetItemForUpdateTx", mock.Anything, tx, "shop-1", "TS-2", "TS-2").
					Return(nil, nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrInsufficientInventory,
			checkErr: func(t *testing.T, ce cerr.CustomError) {
				if len(ce.Insufficient) != 2 {
					t.Fatalf("insufficient lines = %d, want 2", len(ce.Insufficient))
				}
				first := ce.Insufficient[0]
				if first.SKU != "TS-1" || first.Requested != 5 || first.Available != 2 {
					t.Fatalf("unexpected first line: %+v", first)
				}
				second := ce.Insufficient[1]
				if second.SKU != "TS-2" || second.Requested != 3 || second.Available != 0 {
					t.Fatalf("unexpected second line: %+v", second)
				}
			},
		},
		{
			name: "error: empty items",
			fields: fields{
				config:        holdTestConfig(0),
				txRepo:        txmocks.NewTxRepository(t),
				holdRepo:      holdmocks.NewHoldRepository(t),
				inventoryRepo: inventorymocks.NewInventoryRepository(t),
			},
			args: args{
				ctx:    context.Background(),
				shopID: "shop-1",
				req:    &model.CreateHoldRequest{},
			},
			wantErr: true,
			errCode: constant.ErrInvalidRequest,
		},
		{
			name: "error: non-positive quantity",
			fields: fields{
				config:        holdTestConfig(0),
				txRepo:        txmocks.NewTxRepository(t),
				holdRepo:      holdmocks.NewHoldRepository(t),
				inventoryRepo: inventorymocks.NewInventoryRepository(t),
			},
			args: args{
				ctx:    context.Background(),
				shopID: "shop-1",
				req: &model.CreateHoldRequest{
					Items: []model.HoldLineRequest{{SKU: "TS-1", Quantity: 0}},
				},
			},
			wantErr: true,
			errCode: constant.ErrInvalidRequest,
		},
		{
			name: "error: BeginTx fails",
			fields: fields{
				config:        holdTestConfig(0),
				txRepo:        txmocks.NewTxRepository(t),
				holdRepo:      holdmocks.NewHoldRepository(t),
				inventoryRepo: inventorymocks.NewInventoryRepository(t),
			},
			args: args{
				ctx:    context.Background(),
				shopID: "shop-1",
				req: &model.CreateHoldRequest{
					Items: []model.HoldLineRequest{{SKU: "TS-1", Quantity: 1}},
				},
			},
			mockCall: func(f fields) {
				f.txRepo.On("BeginTx", mock.Anything).Return(nil, errors.New("connection refused")).Once()
			},
			wantErr: true,
			errCode: constant.ErrStorageUnavailable,
		},
		{
			name: "success: expired holds are reaped before reserving",
			fields: fields{
				config:        holdTestConfig(50),
				txRepo:        txmocks.NewTxRepository(t),
				holdRepo:      holdmocks.NewHoldRepository(t),
				inventoryRepo: inventorymocks.NewInventoryRepository(t),
			},
			args: args{
				ctx:    context.Background(),
				shopID: "shop-1",
				req: &model.CreateHoldRequest{
					Items: []model.HoldLineRequest{{SKU: "TS-1", Quantity: 2}},
				},
			},
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Times(2)
				f.txRepo.On("CommitTx", tx).Return(nil).Times(2)

				// Reap transaction restores the stale hold's quantity first.
				f.holdRepo.On("ListExpiredActiveTx", mock.Anything, tx, "shop-1", mock.Anything, 50).
					Return([]model.InventoryHold{
						{ID: "hold-stale", ShopID: "shop-1", Status: constant.HoldStatusActive},
					}, nil).Once()
				f.holdRepo.On("GetItemsTx", mock.Anything, tx, "hold-stale").
					Return([]model.InventoryHoldItem{
						{HoldID: "hold-stale", ShopID: "shop-1", SKU: "TS-1", VariantKey: "TS-1", Quantity: 2},
					}, nil).Once()
				f.inventoryRepo.On("AddQuantityTx", mock.Anything, tx, "shop-1", "TS-1", "TS-1", int64(2)).Return(nil).Once()
				f.holdRepo.On("MarkExpiredTx", mock.Anything, tx, "hold-stale", mock.Anything).Return(nil).Once()

				// Reservation sees the restored quantity.
				f.inventoryRepo.On("GetItemForUpdateTx", mock.Anything, tx, "shop-1", "TS-1", "TS-1").
					Return(&model.InventoryItem{ShopID: "shop-1", SKU: "TS-1", VariantKey: "TS-1", Quantity: 2}, nil).Once()
				f.inventoryRepo.On("AddQuantityTx", mock.Anything, tx, "shop-1", "TS-1", "TS-1", int64(-2)).Return(nil).Once()
				f.holdRepo.On("InsertHoldTx", mock.Anything, tx, mock.Anything).Return(nil).Once()
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if tt.mockCall != nil {
				tt.mockCall(tt.fields)
			}
			app := apphold.NewHoldApp(tt.fields.config, tt.fields.txRepo, tt.fields.holdRepo, tt.fields.inventoryRepo, nil)

			got, err := app.CreateHold(tt.args.ctx, tt.args.shopID, tt.args.req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CreateHold() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.wantErr {
				var ce cerr.CustomError
				if !errors.As(err, &ce) {
					t.Fatalf("error type = %T, want CustomError", err)
				}
				if ce.ErrorCode() != constant.ErrorTypeCode[tt.errCode] {
					t.Fatalf("error code = %s, want %s", ce.ErrorCode(), constant.ErrorTypeCode[tt.errCode])
				}
				if tt.checkErr != nil {
					tt.checkErr(t, ce)
				}
				return
			}

			if got.Reused != tt.wantReused {
				t.Fatalf("CreateHold() Reused = %v, want %v", got.Reused, tt.wantReused)
			}
			if tt.wantHoldID != "" && got.HoldID != tt.wantHoldID {
				t.Fatalf("CreateHold() HoldID = %s, want %s", got.HoldID, tt.wantHoldID)
			}
			if got.HoldID == "" {
				t.Fatal("CreateHold() HoldID should not be empty")
			}
			if !tt.wantReused && got.ExpiresAt.IsZero() {
				t.Fatal("CreateHold() ExpiresAt should not be zero")
			}
		})
	}
}

func TestHoldApp_CreateHold_LocksInVariantKeyOrder(t *testing.T) {
	txRepo := txmocks.NewTxRepository(t)
	holdRepo := holdmocks.NewHoldRepository(t)
	inventoryRepo := inventorymocks.NewInventoryRepository(t)

	tx := &sqlx.Tx{}
	txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
	txRepo.On("CommitTx", tx).Return(nil).Once()

	var locked []string
	inventoryRepo.On("GetItemForUpdateTx", mock.Anything, tx, "shop-1", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			locked = append(locked, args.String(4))
		}).
		Return(&model.InventoryItem{ShopID: "shop-1", Quantity: 10}, nil).Times(3)
	inventoryRepo.On("AddQuantityTx", mock.Anything, tx, "shop-1", mock.Anything, mock.Anything, int64(-1)).
		Return(nil).Times(3)
	holdRepo.On("InsertHoldTx", mock.Anything, tx, mock.Anything).Return(nil).Once()

	app := apphold.NewHoldApp(holdTestConfig(0), txRepo, holdRepo, inventoryRepo, nil)

	// Lines arrive in reverse key order; rows must still lock sorted so two
	// concurrent holds over the same variants cannot deadlock each other.
	_, err := app.CreateHold(context.Background(), "shop-1", &model.CreateHoldRequest{
		Items: []model.HoldLineRequest{
			{SKU: "TS-3", Quantity: 1},
			{SKU: "TS-1", Quantity: 1, VariantAttributes: map[string]string{"size": "m"}},
			{SKU: "TS-2", Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("CreateHold() error = %v", err)
	}

	want := []string{"TS-1:size=m", "TS-2", "TS-3"}
	if len(locked) != len(want) {
		t.Fatalf("locked %d rows, want %d", len(locked), len(want))
	}
	for i := range want {
		if locked[i] != want[i] {
			t.Fatalf("lock order = %v, want %v", locked, want)
		}
	}
}

func TestHoldApp_CommitHold(t *testing.T) {
	type fields struct {
		config        *config.Config
		txRepo        *txmocks.TxRepository
		holdRepo      *holdmocks.HoldRepository
		inventoryRepo *inventorymocks.InventoryRepository
	}
	type args struct {
		ctx    context.Context
		shopID string
		holdID string
	}
	tests := []struct {
		name     string
		fields   fields
		args     args
		mockCall func(f fields)
		wantErr  bool
		errCode  constant.ErrorType
	}{
		{
			name: "success: commit an active hold",
			fields: fields{
				config:        holdTestConfig(0),
				txRepo:        txmocks.NewTxRepository(t),
				holdRepo:      holdmocks.NewHoldRepository(t),
				inventoryRepo: inventorymocks.NewInventoryRepository(t),
			},
			args: args{ctx: context.Background(), shopID: "shop-1", holdID: "hold-1"},
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.txRepo.On("CommitTx", tx).Return(nil).Once()

				f.holdRepo.On("GetByIDTx", mock.Anything, tx, "shop-1", "hold-1").
					Return(&model.InventoryHold{ID: "hold-1", ShopID: "shop-1", Status: constant.HoldStatusActive}, nil).Once()
				f.holdRepo.On("MarkCommittedTx", mock.Anything, tx, "hold-1", mock.Anything).Return(nil).Once()
			},
		},
		{
			name: "success: commit retry on an already committed hold is a no-op",
			fields: fields{
				config:        holdTestConfig(0),
				txRepo:        txmocks.NewTxRepository(t),
				holdRepo:      holdmocks.NewHoldRepository(t),
				inventoryRepo: inventorymocks.NewInventoryRepository(t),
			},
			args: args{ctx: context.Background(), shopID: "shop-1", holdID: "hold-1"},
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.txRepo.On("CommitTx", tx).Return(nil).Once()

				f.holdRepo.On("GetByIDTx", mock.Anything, tx, "shop-1", "hold-1").
					Return(&model.InventoryHold{ID: "hold-1", ShopID: "shop-1", Status: constant.HoldStatusCommitted}, nil).Once()
			},
		},
		{
			name: "error: committing a released hold",
			fields: fields{
				config:        holdTestConfig(0),
				txRepo:        txmocks.NewTxRepository(t),
				holdRepo:      holdmocks.NewHoldRepository(t),
				inventoryRepo: inventorymocks.NewInventoryRepository(t),
			},
			args: args{ctx: context.Background(), shopID: "shop-1", holdID: "hold-1"},
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.txRepo.On("RollbackTx", tx).Return(nil).Once()

				f.holdRepo.On("GetByIDTx", mock.Anything, tx, "shop-1", "hold-1").
					Return(&model.InventoryHold{ID: "hold-1", ShopID: "shop-1", Status: constant.HoldStatusReleased}, nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrHoldNotActive,
		},
		{
			name: "error: committing an expired hold",
			fields: fields{
				config:        holdTestConfig(0),
				txRepo:        txmocks.NewTxRepository(t),
				holdRepo:      holdmocks.NewHoldRepository(t),
				inventoryRepo: inventorymocks.NewInventoryRepository(t),
			},
			args: args{ctx: context.Background(), shopID: "shop-1", holdID: "hold-1"},
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.txRepo.On("RollbackTx", tx).Return(nil).Once()

				f.holdRepo.On("GetByIDTx", mock.Anything, tx, "shop-1", "hold-1").
					Return(&model.InventoryHold{ID: "hold-1", ShopID: "shop-1", Status: constant.HoldStatusExpired}, nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrHoldNotActive,
		},
		{
			name: "error: unknown hold",
			fields: fields{
				config:        holdTestConfig(0),
				txRepo:        txmocks.NewTxRepository(t),
				holdRepo:      holdmocks.NewHoldRepository(t),
				inventoryRepo: inventorymocks.NewInventoryRepository(t),
			},
			args: args{ctx: context.Background(), shopID: "shop-1", holdID: "missing"},
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.txRepo.On("RollbackTx", tx).Return(nil).Once()

				f.holdRepo.On("GetByIDTx", mock.Anything, tx, "shop-1", "missing").Return(nil, nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrNotFound,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if tt.mockCall != nil {
				tt.mockCall(tt.fields)
			}
			app := apphold.NewHoldApp(tt.fields.config, tt.fields.txRepo, tt.fields.holdRepo, tt.fields.inventoryRepo, nil)

			err := app.CommitHold(tt.args.ctx, tt.args.shopID, tt.args.holdID)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CommitHold() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				var ce cerr.CustomError
				if !errors.As(err, &ce) {
					t.Fatalf("error type = %T, want CustomError", err)
				}
				if ce.ErrorCode() != constant.ErrorTypeCode[tt.errCode] {
					t.Fatalf("error code = %s, want %s", ce.ErrorCode(), constant.ErrorTypeCode[tt.errCode])
				}
			}
		})
	}
}

func TestHoldApp_ReleaseHold(t *testing.T) {
	type fields struct {
		config        *config.Config
		txRepo        *txmocks.TxRepository
		holdRepo      *holdmocks.HoldRepository
		inventoryRepo *inventorymocks.InventoryRepository
	}
	type args struct {
		ctx    context.Context
		shopID string
		holdID string
	}
	tests := []struct {
		name        string
		fields      fields
		args        args
		mockCall    func(f fields)
		wantAlready bool
		wantErr     bool
		errCode     constant.ErrorType
	}{
		{
			name: "success: release restores every reserved line",
			fields: fields{
				config:        holdTestConfig(0),
				txRepo:        txmocks.NewTxRepository(t),
				holdRepo:      holdmocks.NewHoldRepository(t),
				inventoryRepo: inventorymocks.NewInventoryRepository(t),
			},
			args: args{ctx: context.Background(), shopID: "shop-1", holdID: "hold-1"},
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.txRepo.On("CommitTx", tx).Return(nil).Once()

				f.holdRepo.On("GetByIDTx", mock.Anything, tx, "shop-1", "hold-1").
					Return(&model.InventoryHold{ID: "hold-1", ShopID: "shop-1", Status: constant.HoldStatusActive}, nil).Once()
				f.holdRepo.On("GetItemsTx", mock.Anything, tx, "hold-1").
					Return([]model.InventoryHoldItem{
						{HoldID: "hold-1", ShopID: "shop-1", SKU: "TS-1", VariantKey: "TS-1:size=m", Quantity: 2},
						{HoldID: "hold-1", ShopID: "shop-1", SKU: "TS-2", VariantKey: "TS-2", Quantity: 1},
					}, nil).Once()
				f.inventoryRepo.On("AddQuantityTx", mock.Anything, tx, "shop-1", "TS-1", "TS-1:size=m", int64(2)).Return(nil).Once()
				f.inventoryRepo.On("AddQuantityTx", mock.Anything, tx, "shop-1", "TS-2", "TS-2", int64(1)).Return(nil).Once()
				f.holdRepo.On("MarkReleasedTx", mock.Anything, tx, "hold-1", mock.Anything).Return(nil).Once()
			},
		},
		{
			name: "success: releasing an already released hold is harmless",
			fields: fields{
				config:        holdTestConfig(0),
				txRepo:        txmocks.NewTxRepository(t),
				holdRepo:      holdmocks.NewHoldRepository(t),
				inventoryRepo: inventorymocks.NewInventoryRepository(t),
			},
			args: args{ctx: context.Background(), shopID: "shop-1", holdID: "hold-1"},
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.txRepo.On("CommitTx", tx).Return(nil).Once()

				f.holdRepo.On("GetByIDTx", mock.Anything, tx, "shop-1", "hold-1").
					Return(&model.InventoryHold{ID: "hold-1", ShopID: "shop-1", Status: constant.HoldStatusReleased}, nil).Once()
			},
			wantAlready: true,
		},
		{
			name: "success: releasing an expired hold is harmless",
			fields: fields{
				config:        holdTestConfig(0),
				txRepo:        txmocks.NewTxRepository(t),
				holdRepo:      holdmocks.NewHoldRepository(t),
				inventoryRepo: inventorymocks.NewInventoryRepository(t),
			},
			args: args{ctx: context.Background(), shopID: "shop-1", holdID: "hold-1"},
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.txRepo.On("CommitTx", tx).Return(nil).Once()

				f.holdRepo.On("GetByIDTx", mock.Anything, tx, "shop-1", "hold-1").
					Return(&model.InventoryHold{ID: "hold-1", ShopID: "shop-1", Status: constant.HoldStatusExpired}, nil).Once()
			},
			wantAlready: true,
		},
		{
			name: "error: releasing a committed hold",
			fields: fields{
				config:        holdTestConfig(0),
				txRepo:        txmocks.NewTxRepository(t),
				holdRepo:      holdmocks.NewHoldRepository(t),
				inventoryRepo: inventorymocks.NewInventoryRepository(t),
			},
			args: args{ctx: context.Background(), shopID: "shop-1", holdID: "hold-1"},
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.txRepo.On("RollbackTx", tx).Return(nil).Once()

				f.holdRepo.On("GetByIDTx", mock.Anything, tx, "shop-1", "hold-1").
					Return(&model.InventoryHold{ID: "hold-1", ShopID: "shop-1", Status: constant.HoldStatusCommitted}, nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrHoldCommitted,
		},
		{
			name: "error: unknown hold",
			fields: fields{
				config:        holdTestConfig(0),
				txRepo:        txmocks.NewTxRepository(t),
				holdRepo:      holdmocks.NewHoldRepository(t),
				inventoryRepo: inventorymocks.NewInventoryRepository(t),
			},
			args: args{ctx: context.Background(), shopID: "shop-1", holdID: "missing"},
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.txRepo.On("RollbackTx", tx).Return(nil).Once()

				f.holdRepo.On("GetByIDTx", mock.Anything, tx, "shop-1", "missing").Return(nil, nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrNotFound,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if tt.mockCall != nil {
				tt.mockCall(tt.fields)
			}
			app := apphold.NewHoldApp(tt.fields.config, tt.fields.txRepo, tt.fields.holdRepo, tt.fields.inventoryRepo, nil)

			got, err := app.ReleaseHold(tt.args.ctx, tt.args.shopID, tt.args.holdID)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReleaseHold() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				var ce cerr.CustomError
				if !errors.As(err, &ce) {
					t.Fatalf("error type = %T, want CustomError", err)
				}
				if ce.ErrorCode() != constant.ErrorTypeCode[tt.errCode] {
					t.Fatalf("error code = %s, want %s", ce.ErrorCode(), constant.ErrorTypeCode[tt.errCode])
				}
				return
			}
			if got.AlreadyReleased != tt.wantAlready {
				t.Fatalf("ReleaseHold() AlreadyReleased = %v, want %v", got.AlreadyReleased, tt.wantAlready)
			}
		})
	}
}

func TestHoldApp_ReapExpiredHolds(t *testing.T) {
	type fields struct {
		config        *config.Config
		txRepo        *txmocks.TxRepository
		holdRepo      *holdmocks.HoldRepository
		inventoryRepo *inventorymocks.InventoryRepository
	}
	now := time.Now()
	tests := []struct {
		name     string
		fields   fields
		limit    int
		mockCall func(f fields)
		want     int
		wantErr  bool
	}{
		{
			name: "success: reaps every lapsed hold in the batch",
			fields: fields{
				config:        holdTestConfig(50),
				txRepo:        txmocks.NewTxRepository(t),
				holdRepo:      holdmocks.NewHoldRepository(t),
				inventoryRepo: inventorymocks.NewInventoryRepository(t),
			},
			limit: 50,
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.txRepo.On("CommitTx", tx).Return(nil).Once()

				f.holdRepo.On("ListExpiredActiveTx", mock.Anything, tx, "shop-1", now, 50).
					Return([]model.InventoryHold{
						{ID: "hold-a", ShopID: "shop-1", Status: constant.HoldStatusActive},
						{ID: "hold-b", ShopID: "shop-1", Status: constant.HoldStatusActive},
					}, nil).Once()
				f.holdRepo.On("GetItemsTx", mock.Anything, tx, "hold-a").
					Return([]model.InventoryHoldItem{
						{HoldID: "hold-a", ShopID: "shop-1", SKU: "TS-1", VariantKey: "TS-1", Quantity: 2},
					}, nil).Once()
				f.inventoryRepo.On("AddQuantityTx", mock.Anything, tx, "shop-1", "TS-1", "TS-1", int64(2)).Return(nil).Once()
				f.holdRepo.On("MarkExpiredTx", mock.Anything, tx, "hold-a", now).Return(nil).Once()
				f.holdRepo.On("GetItemsTx", mock.Anything, tx, "hold-b").
					Return([]model.InventoryHoldItem{
						{HoldID: "hold-b", ShopID: "shop-1", SKU: "TS-2", VariantKey: "TS-2", Quantity: 1},
					}, nil).Once()
				f.inventoryRepo.On("AddQuantityTx", mock.Anything, tx, "shop-1", "TS-2", "TS-2", int64(1)).Return(nil).Once()
				f.holdRepo.On("MarkExpiredTx", mock.Anything, tx, "hold-b", now).Return(nil).Once()
			},
			want: 2,
		},
		{
			name: "success: nothing to reap",
			fields: fields{
				config:        holdTestConfig(50),
				txRepo:        txmocks.NewTxRepository(t),
				holdRepo:      holdmocks.NewHoldRepository(t),
				inventoryRepo: inventorymocks.NewInventoryRepository(t),
			},
			limit: 50,
			mockCall: func(f fields) {
				tx := &sqlx.Tx{}
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.txRepo.On("CommitTx", tx).Return(nil).Once()

				f.holdRepo.On("ListExpiredActiveTx", mock.Anything, tx, "shop-1", now, 50).
					Return([]model.InventoryHold{}, nil).Once()
			},
			want: 0,
		},
		{
			name: "success: zero limit skips the transaction entirely",
			fields: fields{
				config:        holdTestConfig(0),
				txRepo:        txmocks.NewTxRepository(t),
				holdRepo:      holdmocks.NewHoldRepository(t),
				inventoryRepo: inventorymocks.NewInventoryRepository(t),
			},
			limit: 0,
			want:  0,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if tt.mockCall != nil {
				tt.mockCall(tt.fields)
			}
			app := apphold.NewHoldApp(tt.fields.config, tt.fields.txRepo, tt.fields.holdRepo, tt.fields.inventoryRepo, nil)

			got, err := app.ReapExpiredHolds(context.Background(), "shop-1", now, tt.limit)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReapExpiredHolds() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("ReapExpiredHolds() = %d, want %d", got, tt.want)
			}
		})
	}
}
