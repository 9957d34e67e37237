package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/quantfold/matching-engine/internal/app/engine"
	"github.com/quantfold/matching-engine/internal/usecase/marketdata"
	orderreader "github.com/quantfold/matching-engine/internal/usecase/order-reader"
	"github.com/quantfold/matching-engine/internal/usecase/orderbook"
	"github.com/quantfold/matching-engine/internal/usecase/snapshot"
	"github.com/quantfold/matching-engine/pkg/config"
	"github.com/quantfold/matching-engine/pkg/logger"
	"github.com/quantfold/matching-engine/pkg/redis"
	"github.com/quantfold/matching-engine/pkg/ticks"
)

func main() {
	log, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg := &config.Config{}
	if err := config.Load(cfg); err != nil {
		log.Error(err)
		os.Exit(1)
	}

	rule, err := ticks.Load(cfg.TickRuleFile)
	if err != nil {
		log.Error(err, logger.Field{Key: "file", Value: cfg.TickRuleFile})
		os.Exit(1)
	}

	ctx := context.Background()

	redisCfg := redis.DefaultConfig()
	redisCfg.Addrs = strings.Split(cfg.RedisConfig.Addrs, ",")
	redisCfg.Username = cfg.RedisConfig.Username
	redisCfg.Password = cfg.RedisConfig.Password
	redisCfg.DB = cfg.RedisConfig.DB

	redisClient := redis.NewClient(log, redisCfg)
	if err := redisClient.Connect(ctx); err != nil {
		log.Error(err)
		os.Exit(1)
	}
	defer redisClient.Disconnect(context.Background())

	publisher := marketdata.NewPublisher(cfg.MarketDataConfig, log)
	defer publisher.Close()

	collector := marketdata.NewCollector(publisher)
	book := orderbook.NewOrderBook(orderbook.Config{
		Symbol:      cfg.Symbol,
		MaxOrders:   cfg.MaxOrders,
		MaxPrice:    cfg.MaxPrice,
		PriceWindow: cfg.PriceWindow,
	}, collector)

	reader := orderreader.NewReader(cfg.KafkaConfig, log)
	store := snapshot.NewStore(redisClient, cfg.Symbol, log)

	eng := engine.NewEngine(book, reader, store, collector, log, cfg, rule)
	if err := eng.Start(ctx); err != nil {
		log.Error(err)
		os.Exit(1)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down matching engine", logger.Field{Key: "symbol", Value: cfg.Symbol})

	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := eng.Stop(stopCtx); err != nil {
		log.Error(err)
		os.Exit(1)
	}

	log.Info("matching engine stopped",
		logger.Field{Key: "processedOffset", Value: eng.GetOrderOffset()},
		logger.Field{Key: "totalMatches", Value: eng.GetTotalMatches()},
	)
}
