package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/lottery-platform-poc/internal/settlement-worker/cache"
	"github.com/radieske/lottery-platform-poc/internal/settlement-worker/consumer"
	"github.com/radieske/lottery-platform-poc/internal/settlement-worker/pubsub"
	"github.com/radieske/lottery-platform-poc/internal/settlement-worker/repo"
	sharedcache "github.com/radieske/lottery-platform-poc/internal/shared/cache"
	"github.com/radieske/lottery-platform-poc/internal/shared/config"
	"github.com/radieske/lottery-platform-poc/internal/shared/db"
	"github.com/radieske/lottery-platform-poc/internal/shared/kafka"
	"github.com/radieske/lottery-platform-poc/internal/shared/logger"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Inicializa dependências: Postgres e Redis
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	redisClient, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer redisClient.Close()

	// Instancia cache Redis e repositório Postgres para liquidação
	ttl := 10 * time.Minute
	rcache := cache.NewRedisCache(redisClient, ttl)
	repository := repo.NewPostgresRepo(pg)

	// Configura o consumer Kafka (consumer group settlement-worker)
	brokers := strings.Split(cfg.KafkaBrokers, ",")
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  brokers,
		GroupID:  "settlement-worker",
		Topic:    cfg.TopicDrawResults,
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	defer reader.Close()

	// Writers: evento de liquidação e DLQ de mensagens envenenadas
	settledWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicTicketSettled)
	defer settledWriter.Close()
	dlqWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicDrawResultsDLQ)
	defer dlqWriter.Close()

	// Métricas Prometheus para monitoramento do processamento
	consumed := prometheus.NewCounter(prometheus.CounterOpts{Name: "settlement_messages_consumed_total", Help: "mensagens consumidas"})
	settled := prometheus.NewCounter(prometheus.CounterOpts{Name: "settlement_tickets_settled_total", Help: "bilhetes liquidados"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "settlement_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(consumed, settled, errorsBy)

	// Broadcaster para publicar liquidações no Redis Pub/Sub (usado pelo report-service/ws)
	broadcaster := pubsub.NewRedisBroadcaster(redisClient)

	// Instancia o processor, conectando callbacks de métricas e broadcast
	proc := &consumer.Processor{
		Log:           log,
		Reader:        reader,
		Repo:          repository,
		Cache:         rcache,
		Broadcaster:   broadcaster,
		Channel:       cfg.RedisPubSubChannel,
		SettledWriter: settledWriter,
		DLQWriter:     dlqWriter,
		OnConsumed:    func() { consumed.Inc() },
		OnSettled:     func() { settled.Inc() },
		OnError:       func(stage string) { errorsBy.WithLabelValues(stage).Inc() },
	}

	// Servidor HTTP para métricas e health check
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
			defer cancel()
			if err := pg.PingContext(ctx); err != nil {
				http.Error(w, "pg", http.StatusServiceUnavailable)
				return
			}
			if err := redisClient.Ping(ctx).Err(); err != nil {
				http.Error(w, "redis", http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
		addr := fmt.Sprintf(":%s", cfg.MetricsPort)
		log.Info("metrics/health listening", zap.String("addr", addr))
		_ = http.ListenAndServe(addr, mux)
	}()

	// Sinalização para shutdown gracioso (SIGINT/SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("settlement-worker started")
	if err := proc.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal("processor stopped with error", zap.Error(err))
	}
	log.Info("settlement-worker stopped")
}
