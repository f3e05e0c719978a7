package main

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	chttp "github.com/radieske/lottery-platform-poc/internal/claims-service/http"
	"github.com/radieske/lottery-platform-poc/internal/claims-service/ledger"
	kpub "github.com/radieske/lottery-platform-poc/internal/claims-service/producer"
	"github.com/radieske/lottery-platform-poc/internal/claims-service/repo"
	"github.com/radieske/lottery-platform-poc/internal/claims-service/service"
	"github.com/radieske/lottery-platform-poc/internal/shared/config"
	"github.com/radieske/lottery-platform-poc/internal/shared/db"
	"github.com/radieske/lottery-platform-poc/internal/shared/kafka"
	"github.com/radieske/lottery-platform-poc/internal/shared/logger"
)

func main() {
	cfg := config.Load()
	log, _ := logger.New(cfg.ServiceName, cfg.Env)
	defer log.Sync()

	// Postgres
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg", zap.Error(err))
	}
	defer pg.Close()

	// Kafka writer (topic ticket_claimed)
	writer := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicTicketClaimed)
	defer writer.Close()

	// deps
	repository := repo.NewPostgres(pg)
	lcli := ledger.New(cfg.LedgerURL) // Balance Ledger externo
	publ := kpub.NewKafkaPublisher(writer, cfg.TopicTicketClaimed)

	svc := service.New(log, repository, lcli, publ, cfg.ClaimManualApproval)

	// HTTP público
	api := chttp.NewServer(log, svc)
	apiSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: api.Router(),
	}

	// metrics/health
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsMux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := pg.PingContext(r.Context()); err != nil {
			http.Error(w, "pg", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	go func() {
		addr := fmt.Sprintf(":%s", cfg.MetricsPort)
		log.Info("metrics/health", zap.String("addr", addr))
		_ = http.ListenAndServe(addr, metricsMux)
	}()

	log.Info("claims-service listening", zap.String("addr", fmt.Sprintf(":%s", cfg.HTTPPort)),
		zap.Bool("manual_approval", cfg.ClaimManualApproval))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
