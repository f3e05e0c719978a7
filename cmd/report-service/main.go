package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	rcache "github.com/radieske/lottery-platform-poc/internal/report-service/cache"
	httpapi "github.com/radieske/lottery-platform-poc/internal/report-service/http"
	"github.com/radieske/lottery-platform-poc/internal/report-service/repo"
	"github.com/radieske/lottery-platform-poc/internal/report-service/ws"
	"github.com/radieske/lottery-platform-poc/internal/shared/cache"
	"github.com/radieske/lottery-platform-poc/internal/shared/config"
	"github.com/radieske/lottery-platform-poc/internal/shared/db"
	"github.com/radieske/lottery-platform-poc/internal/shared/logger"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	log.Info("starting service", zap.String("service", cfg.ServiceName), zap.String("env", cfg.Env))

	// conecta com db Postgres
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()
	log.Info("postgres connected")

	// conecta com cache Redis
	redisClient, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("failed to connect redis", zap.Error(err))
	}
	defer redisClient.Close()
	log.Info("redis connected")

	// API REST de relatórios (leituras via motor de liquidação)
	api := &httpapi.API{
		ReadRepo: &repo.ReadRepo{DB: pg},
		Cache:    rcache.New(redisClient),
	}

	// Hub WebSocket alimentado pelo Redis Pub/Sub do settlement-worker
	hub := ws.NewHub(func(r *http.Request) bool { return true })
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ws.StartRedisSubscriber(ctx, redisClient, hub)

	// ==== MUX PÚBLICO: REST + /ws
	appMux := http.NewServeMux()
	appMux.HandleFunc("/ws", hub.HandleWS)
	appMux.Handle("/", api.Router())

	// ==== MUX DE MÉTRICAS (/healthz, /metrics)
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsMux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := pg.PingContext(r.Context()); err != nil {
			http.Error(w, "pg", http.StatusServiceUnavailable)
			return
		}
		if err := redisClient.Ping(r.Context()).Err(); err != nil {
			http.Error(w, "redis", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	go func() {
		addr := fmt.Sprintf(":%s", cfg.MetricsPort)
		log.Info("metrics/health listening", zap.String("addr", addr))
		_ = http.ListenAndServe(addr, metricsMux)
	}()

	addr := fmt.Sprintf(":%s", cfg.HTTPPort)
	log.Info("report-service listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, appMux); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
