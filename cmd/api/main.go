package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/ariefcatur/go-shop-orders.git/internal/config"
	"github.com/ariefcatur/go-shop-orders.git/internal/httpx"
	"github.com/ariefcatur/go-shop-orders.git/internal/identity"
	"github.com/ariefcatur/go-shop-orders.git/internal/inventory"
	kafkax "github.com/ariefcatur/go-shop-orders.git/internal/kafka"
	"github.com/ariefcatur/go-shop-orders.git/internal/orders"
	"github.com/ariefcatur/go-shop-orders.git/internal/postgres"
	"github.com/ariefcatur/go-shop-orders.git/internal/purchasing"
	"github.com/ariefcatur/go-shop-orders.git/internal/redisx"
)

func main() {
	_ = godotenv.Load()
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	cfg := config.Load()
	log := zlog.With().Str("service", cfg.ServiceName).Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	if err := postgres.Migrate(cfg.PostgresDSN); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers (satu per topic)
	pPlaced := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderPlaced, 1024, log)
	pPlaced.Start(ctx)
	pCancelled := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCancelled, 1024, log)
	pCancelled.Start(ctx)
	pPurchase := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicPurchaseCreated, 1024, log)
	pPurchase.Start(ctx)

	// Stores & services
	orderStore := &orders.PGStore{DB: db}
	orderSvc := orders.NewService(orderStore, &identity.PGResolver{DB: db}, log)
	purchaseStore := &purchasing.PGStore{DB: db}
	purchaseSvc := purchasing.NewService(purchaseStore, log)

	router := httpx.NewRouter()
	oh := &httpx.OrdersHandler{
		Orders:            orderSvc,
		Store:             orderStore,
		Ledger:            &inventory.Repo{DB: db},
		Redis:             rdb,
		ProducerPlaced:    pPlaced,
		ProducerCancelled: pCancelled,
		Service:           cfg.ServiceName,
	}
	oh.Register(router)
	ph := &httpx.PurchasingHandler{
		Purchasing: purchaseSvc,
		Store:      purchaseStore,
		Producer:   pPurchase,
		Service:    cfg.ServiceName,
	}
	ph.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	// graceful shutdown
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("HTTP listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info().Msg("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	pPlaced.Close() // tutup inbox -> flush & close writer
	pCancelled.Close()
	pPurchase.Close()
	cancel() // stop producer loops
	pPlaced.WaitClosed()
	pCancelled.WaitClosed()
	pPurchase.WaitClosed()
}
