package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/ariefcatur/go-shop-orders.git/internal/config"
	kafkax "github.com/ariefcatur/go-shop-orders.git/internal/kafka"
	"github.com/ariefcatur/go-shop-orders.git/internal/orders"
	"github.com/ariefcatur/go-shop-orders.git/internal/projector"
	"github.com/ariefcatur/go-shop-orders.git/internal/redisx"
)

func main() {
	_ = godotenv.Load()
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	cfg := config.Load()
	name := cfg.ServiceName + "-projector"
	log := zlog.With().Str("service", name).Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &projector.Service{Redis: rdb, ServiceName: name, Log: log}

	group := getenv("PROJECTOR_GROUP", "status-projector")
	workers := mustAtoi(os.Getenv("PROJECTOR_WORKERS"), "4")

	placed := kafkax.NewConsumer(cfg.KafkaBrokers, group, orders.TopicOrderPlaced, workers, log)
	cancelled := kafkax.NewConsumer(cfg.KafkaBrokers, group, orders.TopicOrderCancelled, workers, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return placed.Start(gctx, svc.HandleOrderPlaced) })
	g.Go(func() error { return cancelled.Start(gctx, svc.HandleOrderCancelled) })

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Info().Msg("shutting down consumers...")
		cancel()
	}()

	log.Info().Str("group", group).Int("workers", workers).Msg("projector started")
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("consumer exit")
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}
