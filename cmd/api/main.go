package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/adiwicaksono/go-shop-backend/internal/cart"
	"github.com/adiwicaksono/go-shop-backend/internal/catalog"
	"github.com/adiwicaksono/go-shop-backend/internal/clients"
	"github.com/adiwicaksono/go-shop-backend/internal/config"
	"github.com/adiwicaksono/go-shop-backend/internal/httpx"
	kafkax "github.com/adiwicaksono/go-shop-backend/internal/kafka"
	"github.com/adiwicaksono/go-shop-backend/internal/orders"
	"github.com/adiwicaksono/go-shop-backend/internal/postgres"
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
	log.Logger = log.With().Str("service", cfg.ServiceName).Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connect")
	}
	defer db.Close()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	prodReserved := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicStockReserved, 256)
	prodAdjusted := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicStockAdjusted, 256)
	prodReleased := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicStockReleased, 256)
	prodReserved.Start(ctx)
	prodAdjusted.Start(ctx)
	prodReleased.Start(ctx)

	r := httpx.NewRouter()

	(&httpx.ProductsHandler{
		Repo:  &catalog.ProductRepo{DB: db},
		Redis: rdb,
	}).Register(r)
	(&httpx.CategoriesHandler{
		Repo: &catalog.CategoryRepo{DB: db},
	}).Register(r)
	(&httpx.ClientsHandler{
		Repo: &clients.Repo{DB: db},
	}).Register(r)
	(&httpx.OrdersHandler{
		Repo: &orders.Repo{DB: db},
	}).Register(r)
	(&httpx.DetailsHandler{
		Manager:          orders.NewPgxManager(db),
		Reads:            &orders.DetailRepo{DB: db},
		ProducerReserved: prodReserved,
		ProducerAdjusted: prodAdjusted,
		ProducerReleased: prodReleased,
		Service:          cfg.ServiceName,
	}).Register(r)
	(&httpx.CartHandler{
		Cart:     &cart.Service{Redis: rdb},
		Products: &catalog.ProductRepo{DB: db},
	}).Register(r)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 20 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	// drain producer dulu, baru cancel context worker-nya
	prodReserved.Close()
	prodAdjusted.Close()
	prodReleased.Close()
	prodReserved.WaitClosed()
	prodAdjusted.WaitClosed()
	prodReleased.WaitClosed()
	cancel()

	log.Info().Msg("bye")
}
