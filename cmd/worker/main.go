package main

import (
	"context"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	holdapp "github.com/shopcore/inventory-core/application/hold"
	"github.com/shopcore/inventory-core/cmd/config"
	holdRepo "github.com/shopcore/inventory-core/repository/hold"
	inventoryRepo "github.com/shopcore/inventory-core/repository/inventory"
	txRepo "github.com/shopcore/inventory-core/repository/tx"
	"github.com/shopcore/inventory-core/thirdparty/rabbitmq"
	"github.com/shopcore/inventory-core/utils/logger"
	"go.uber.org/zap"
)

// The sweeper worker consumes delayed hold-expiration messages and reaps
// the corresponding shop's expired holds. It is an optimization on top of
// the lazy reap in the create path, not a correctness requirement: the
// core stays consistent if this process is down.
func main() {
	cfg := config.Load()

	if err := logger.Init(cfg.Environment); err != nil {
		panic(err)
	}
	defer logger.Close()

	logger.Info("Starting hold sweeper worker", zap.String("env", cfg.Environment))

	db, err := sqlx.Connect("mysql", cfg.GetDSN())
	if err != nil {
		logger.Fatal("err connect db", zap.Error(err))
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	TxRepo := txRepo.NewTxRepository(db)
	InventoryRepo := inventoryRepo.NewInventoryRepository(db)
	HoldRepo := holdRepo.NewHoldRepository(db)

	// The worker never creates holds, so it needs no publisher.
	HoldApp := holdapp.NewHoldApp(cfg, TxRepo, HoldRepo, InventoryRepo, nil)

	consumer, err := rabbitmq.NewConsumer(cfg.RabbitMQ.Host, cfg.RabbitMQ.Port, cfg.RabbitMQ.User, cfg.RabbitMQ.Password, HoldApp, cfg.Hold.ReapLimit)
	if err != nil {
		logger.Fatal("err connect rabbitmq", zap.Error(err))
	}
	defer func() {
		_ = consumer.Close()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
		logger.Fatal("consumer stopped", zap.Error(err))
	}
	logger.Info("hold sweeper worker stopped")
}
