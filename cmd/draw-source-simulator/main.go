package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/radieske/lottery-platform-poc/internal/settlement"
	"github.com/radieske/lottery-platform-poc/internal/shared/config"
	"github.com/radieske/lottery-platform-poc/internal/shared/logger"
	"github.com/radieske/lottery-platform-poc/pkg/contracts/events"

	sdto "github.com/radieske/lottery-platform-poc/internal/draw-simulator/dto"
)

var (
	upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}

	// Ciclo fixo de horários de sorteio simulados
	drawSlots = []settlement.DrawTime{
		settlement.DrawTimeTwoPM,
		settlement.DrawTimeFivePM,
		settlement.DrawTimeNinePM,
	}

	// Métricas Prometheus para monitoramento de conexões e mensagens
	wsConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "draw_source_ws_connections",
		Help: "Clientes WebSocket conectados",
	})
	wsMessagesSent = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "draw_source_ws_messages_sent_total",
		Help: "Total de mensagens WS enviadas",
	})
	ledgerCredits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_credit_requests_total",
		Help: "Instruções de crédito recebidas pelo ledger mock",
	}, []string{"status"})
)

// Representa uma conexão de cliente WebSocket
// id: identificador único da conexão
// conn: ponteiro para a conexão WebSocket
type clientConn struct {
	id   string
	conn *websocket.Conn
}

// Estrutura responsável por gerenciar os clientes conectados via WebSocket
// e realizar broadcast de mensagens para todos eles.
type hub struct {
	mu      sync.RWMutex
	clients map[string]*clientConn
	log     *zap.Logger
}

// Cria uma nova instância de hub para gerenciar conexões
func newHub(log *zap.Logger) *hub {
	return &hub{
		clients: make(map[string]*clientConn),
		log:     log,
	}
}

// Adiciona um novo cliente ao hub e incrementa a métrica de conexões
func (h *hub) add(c *clientConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.id] = c
	wsConnections.Inc()
	h.log.Info("ws client connected", zap.String("client_id", c.id))
}

// Remove um cliente do hub e decrementa a métrica de conexões
func (h *hub) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[id]; ok {
		delete(h.clients, id)
		wsConnections.Dec()
		h.log.Info("ws client disconnected", zap.String("client_id", id))
	}
}

// Envia uma mensagem para todos os clientes conectados
func (h *hub) broadcast(v any) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	msg, _ := json.Marshal(v)
	for id, c := range h.clients {
		c.conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.log.Warn("ws write failed", zap.String("client_id", id), zap.Error(err))
			_ = c.conn.Close()
		} else {
			wsMessagesSent.Inc()
		}
	}
}

// ledgerMock simula o Balance Ledger externo. Créditos são idempotentes
// por external_ref: repetir a mesma instrução não duplica o crédito.
type ledgerMock struct {
	mu      sync.Mutex
	credits map[string]string // external_ref -> ledgerRef
	log     *zap.Logger
}

func newLedgerMock(log *zap.Logger) *ledgerMock {
	return &ledgerMock{credits: make(map[string]string), log: log}
}

// Handler para instrução de crédito de prêmio (mock)
func (l *ledgerMock) creditHandler(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req sdto.CreditReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ExternalRef == "" {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	l.mu.Lock()
	ref, dup := l.credits[req.ExternalRef]
	if !dup {
		ref = "LED-" + fmt.Sprintf("%d", time.Now().UnixNano())
		l.credits[req.ExternalRef] = ref
	}
	l.mu.Unlock()

	resp := sdto.CreditResp{Status: sdto.StatusCredited, LedgerRef: ref}
	if dup {
		resp.Status = sdto.StatusDuplicate
	} else {
		l.log.Info("ledger credit",
			zap.String("ticket_id", req.TicketID),
			zap.Int64("amount_cents", req.AmountCents),
			zap.String("external_ref", req.ExternalRef),
		)
	}
	ledgerCredits.WithLabelValues(resp.Status).Inc()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// gera um número sorteado de 3 dígitos ("000".."999")
func randomWinningNumber() string {
	return fmt.Sprintf("%03d", rand.Intn(1000))
}

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	rand.Seed(time.Now().UnixNano())

	prometheus.MustRegister(wsConnections, wsMessagesSent, ledgerCredits)

	h := newHub(log)
	lm := newLedgerMock(log)

	// Gera e envia resultados simulados para todos os clientes conectados,
	// ciclando pelos três horários do dia a cada 15 segundos
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		slot := 0
		for range ticker.C {
			date := time.Now().UTC().Format("2006-01-02")
			dt := drawSlots[slot%len(drawSlots)]
			slot++

			result := events.DrawResultEntered{
				DrawID:        fmt.Sprintf("DRAW_%s_%s", date, dt),
				DrawDate:      date,
				DrawTime:      string(dt),
				WinningNumber: randomWinningNumber(),
				EnteredAt:     time.Now().UTC(),
				Source:        cfg.ServiceName,
			}
			h.broadcast(result)
		}
	}()

	// ==== MUX PÚBLICO (HTTP principal): /ws e /ledger/credit
	appMux := http.NewServeMux()

	appMux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn("ws upgrade failed", zap.Error(err))
			return
		}
		id := fmt.Sprintf("%d", time.Now().UnixNano())
		c := &clientConn{id: id, conn: conn}
		h.add(c)

		// Goroutine para manter a conexão viva e remover cliente ao desconectar
		go func() {
			defer func() {
				h.remove(id)
				_ = conn.Close()
			}()
			_ = conn.SetReadDeadline(time.Time{})
			for {
				// Lê e descarta mensagens do cliente para manter o socket limpo
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	})

	appMux.HandleFunc("/ledger/credit", lm.creditHandler)

	// ==== MUX DE MÉTRICAS (/healthz, /metrics)
	metricsMux := http.NewServeMux()
	metricsMux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	metricsMux.Handle("/metrics", promhttp.Handler())

	// Servidor de métricas em goroutine
	go func() {
		metricsAddr := fmt.Sprintf(":%s", cfg.MetricsPort)
		log.Info("draw source simulator (metrics) running",
			zap.String("addr", metricsAddr),
			zap.String("paths", "/healthz,/metrics"),
		)
		if err := http.ListenAndServe(metricsAddr, metricsMux); err != nil {
			log.Fatal("metrics server error", zap.Error(err))
		}
	}()

	// Servidor público (WS + ledger credit)
	publicAddr := fmt.Sprintf(":%s", cfg.HTTPPort)
	log.Info("draw source simulator (public) running",
		zap.String("addr", publicAddr),
		zap.String("paths", "/ws,/ledger/credit"),
	)
	if err := http.ListenAndServe(publicAddr, appMux); err != nil {
		log.Fatal("public server error", zap.Error(err))
	}
}
