package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/adiwicaksono/go-shop-backend/internal/config"
	"github.com/adiwicaksono/go-shop-backend/internal/invalidator"
	kafkax "github.com/adiwicaksono/go-shop-backend/internal/kafka"
	"github.com/adiwicaksono/go-shop-backend/internal/orders"
	"github.com/adiwicaksono/go-shop-backend/internal/redisx"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.With().Str("service", cfg.ServiceName+"-worker").Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &invalidator.Service{
		Redis:       rdb,
		ServiceName: cfg.ServiceName,
	}

	consumer := kafkax.NewConsumer(
		cfg.KafkaBrokers,
		"cache-invalidator",
		[]string{orders.TopicStockReserved, orders.TopicStockAdjusted, orders.TopicStockReleased},
		4,
	)

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop
		log.Info().Msg("shutting down")
		cancel()
	}()

	log.Info().Strs("brokers", cfg.KafkaBrokers).Msg("stock event worker started")
	if err := consumer.Start(ctx, svc.HandleStockEvent); err != nil {
		log.Fatal().Err(err).Msg("consumer stopped")
	}
	log.Info().Msg("bye")
}
