package main

import (
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	holdapp "github.com/shopcore/inventory-core/application/hold"
	ledgerapp "github.com/shopcore/inventory-core/application/stockledger"
	"github.com/shopcore/inventory-core/cmd/config"
	redisclient "github.com/shopcore/inventory-core/cmd/redis"
	holdRepo "github.com/shopcore/inventory-core/repository/hold"
	inventoryRepo "github.com/shopcore/inventory-core/repository/inventory"
	ledgerRepo "github.com/shopcore/inventory-core/repository/ledger"
	redisRepo "github.com/shopcore/inventory-core/repository/redis"
	txRepo "github.com/shopcore/inventory-core/repository/tx"
	"github.com/shopcore/inventory-core/thirdparty/rabbitmq"
	"github.com/shopcore/inventory-core/transport"
	"github.com/shopcore/inventory-core/utils/logger"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from environment variables
	cfg := config.Load()

	// Initialize global logger
	if err := logger.Init(cfg.Environment); err != nil {
		panic(err)
	}
	defer logger.Close()

	logger.Info("Starting inventory core", zap.String("env", cfg.Environment))

	// Connect to database
	db, err := sqlx.Connect("mysql", cfg.GetDSN())
	if err != nil {
		logger.Fatal("err connect db", zap.Error(err))
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	// Redis is optional: alert dedupe degrades to no-op without it.
	if err := redisclient.New(cfg); err != nil {
		logger.Warn("redis unavailable, alert dedupe disabled", zap.Error(err))
	}
	defer func() {
		_ = redisclient.Close()
	}()

	// RabbitMQ is optional as well: the lazy reap on the create path
	// covers expiry without the sweeper pipeline.
	var publisher *rabbitmq.Publisher
	publisher, err = rabbitmq.NewPublisher(cfg.RabbitMQ.Host, cfg.RabbitMQ.Port, cfg.RabbitMQ.User, cfg.RabbitMQ.Password)
	if err != nil {
		logger.Warn("rabbitmq unavailable, expiration messages disabled", zap.Error(err))
		publisher = nil
	} else {
		defer func() {
			_ = publisher.Close()
		}()
	}

	// Initialize repositories
	TxRepo := txRepo.NewTxRepository(db)
	InventoryRepo := inventoryRepo.NewInventoryRepository(db)
	HoldRepo := holdRepo.NewHoldRepository(db)
	LedgerRepo := ledgerRepo.NewLedgerRepository(db)
	RedisRepo := redisRepo.NewRepository()

	// Initialize application layers
	HoldApp := holdapp.NewHoldApp(cfg, TxRepo, HoldRepo, InventoryRepo, publisher)
	LedgerApp := ledgerapp.NewStockLedgerApp(cfg, TxRepo, LedgerRepo, InventoryRepo, RedisRepo, publisher)

	httpTransport := transport.NewTransport(HoldApp, LedgerApp, cfg.Server.InternalAPIKey)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      httpTransport,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	logger.Info("HTTP server running", zap.String("port", cfg.Server.Port))
	err = server.ListenAndServe()
	if err != nil {
		logger.Fatal("failed server", zap.Error(err))
	}
}
