package main

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"

	"go.uber.org/zap"

	"github.com/radieske/lottery-platform-poc/internal/shared/config"
	"github.com/radieske/lottery-platform-poc/internal/shared/logger"
)

func rp(to string) *httputil.ReverseProxy {
	u, _ := url.Parse(to)
	return httputil.NewSingleHostReverseProxy(u)
}

func main() {
	cfg := config.Load()
	log, _ := logger.New(cfg.ServiceName, cfg.Env)
	defer log.Sync()

	// targets
	reportURL := os.Getenv("REPORT_URL")
	if reportURL == "" {
		reportURL = "http://localhost:8080"
	}
	claimsURL := os.Getenv("CLAIMS_URL")
	if claimsURL == "" {
		claimsURL = "http://localhost:8083"
	}
	reports := rp(reportURL)
	claims := rp(claimsURL)

	mux := http.NewServeMux()

	// reports (ex.: /api/v1/reports/* -> report-service)
	mux.Handle("/api/v1/reports/", http.StripPrefix("/api", reports))

	// claims + tickets (ex.: /api/claims/* -> claims-service)
	mux.Handle("/api/claims", http.StripPrefix("/api", claims))
	mux.Handle("/api/claims/", http.StripPrefix("/api", claims))
	mux.Handle("/api/tickets/", http.StripPrefix("/api", claims))

	addr := ":" + cfg.HTTPPort
	log.Info("api-gateway listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, withCORS(mux)); err != nil && err != http.ErrServerClosed {
		log.Fatal("gateway failed", zap.Error(err))
	}
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.ServeHTTP(w, r)
	})
}
