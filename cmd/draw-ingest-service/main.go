package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/lottery-platform-poc/internal/draw-ingest/publisher"
	"github.com/radieske/lottery-platform-poc/internal/draw-ingest/service"
	"github.com/radieske/lottery-platform-poc/internal/shared/config"
	"github.com/radieske/lottery-platform-poc/internal/shared/logger"
	"github.com/radieske/lottery-platform-poc/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	log.Info("Kafka brokers", zap.String("brokers", cfg.KafkaBrokers))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Kafka Publisher
	pub := publisher.NewKafkaPublisher(
		strings.Split(cfg.KafkaBrokers, ","),
		cfg.TopicDrawResults,
		log,
	)
	defer pub.Close()

	// WS Client
	wsClient := &service.WSClient{
		URL:       cfg.DrawSourceWSURL,
		Log:       log,
		Publisher: pub,
	}
	go wsClient.Start(ctx)

	// Metrics e health
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error { return nil })
	log.Info("metrics/health listening", zap.String("addr", fmt.Sprintf(":%s", cfg.MetricsPort)))

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutdown signal received")
	cancel()
	time.Sleep(2 * time.Second)
}
