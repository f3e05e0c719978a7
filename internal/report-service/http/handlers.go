package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/radieske/lottery-platform-poc/internal/report-service/cache"
	"github.com/radieske/lottery-platform-poc/internal/report-service/dto"
	"github.com/radieske/lottery-platform-poc/internal/report-service/repo"
	"github.com/radieske/lottery-platform-poc/internal/settlement"
)

// API expõe os endpoints REST de relatórios de liquidação
// Utiliza um repositório de leitura (Postgres) e cache (Redis)
type API struct {
	ReadRepo *repo.ReadRepo // acesso ao banco de dados
	Cache    *cache.Cache   // cache de relatórios
}

// Router retorna o roteador HTTP com os endpoints REST
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/v1/reports/summary", a.dailySummary)    // Resumo do dia
	r.Get("/v1/reports/draws", a.listDrawSummaries) // Resumo por sorteio do dia
	r.Get("/v1/reports/draws/{id}", a.drawSummary)  // Resumo de um sorteio
	r.Get("/v1/reports/agents", a.agentBreakdown)   // Quebra por agente
	return r
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// dailySummary retorna o agregado do dia, preferencialmente do cache
func (a *API) dailySummary(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date is required"})
		return
	}

	scope := settlement.Scope{Date: date}
	if dt := r.URL.Query().Get("drawTime"); dt != "" {
		parsed, err := settlement.ParseDrawTime(dt)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		scope.DrawTime = parsed
	}

	cacheKey := "summary:" + date + ":" + string(scope.DrawTime)
	var fromCache dto.DailySummary
	if ok, _ := a.Cache.GetReport(r.Context(), cacheKey, &fromCache); ok {
		writeJSON(w, http.StatusOK, fromCache)
		return
	}

	rep, err := a.aggregate(r, date, scope.DrawTime, "")
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	out := dto.DailySummary{Date: date, Report: rep}
	_ = a.Cache.SetReport(r.Context(), cacheKey, out, 30*time.Second) // salva no cache por 30s
	writeJSON(w, http.StatusOK, out)
}

// listDrawSummaries retorna um resumo por sorteio da data informada
func (a *API) listDrawSummaries(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date is required"})
		return
	}

	draws, err := a.ReadRepo.ListDraws(r.Context(), date)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	out := make([]dto.DrawSummary, 0, len(draws))
	for _, d := range draws {
		rep, err := a.aggregate(r, "", "", d.ID)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		out = append(out, drawSummaryOf(d, rep))
	}
	writeJSON(w, http.StatusOK, out)
}

// drawSummary retorna o resumo de liquidação de um único sorteio
func (a *API) drawSummary(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	pairs, err := a.ReadRepo.ListTicketDraws(r.Context(), "", "", id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if len(pairs) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}

	table, err := a.ReadRepo.PrizeTable(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	rep, err := settlement.Aggregate(pairs, table, settlement.Scope{})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, drawSummaryOf(pairs[0].Draw, rep))
}

// agentBreakdown retorna só a quebra de prêmios por agente da data
func (a *API) agentBreakdown(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date is required"})
		return
	}

	rep, err := a.aggregate(r, date, "", "")
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, dto.AgentBreakdown{Date: date, Agents: rep.ByAgent})
}

// aggregate carrega os pares (bilhete, sorteio) do escopo e roda o
// fan-in do motor de liquidação
func (a *API) aggregate(r *http.Request, date string, drawTime settlement.DrawTime, drawID string) (settlement.Report, error) {
	pairs, err := a.ReadRepo.ListTicketDraws(r.Context(), date, drawTime, drawID)
	if err != nil {
		return settlement.Report{}, err
	}
	table, err := a.ReadRepo.PrizeTable(r.Context())
	if err != nil {
		return settlement.Report{}, err
	}
	return settlement.Aggregate(pairs, table, settlement.Scope{Date: date, DrawTime: drawTime})
}

func drawSummaryOf(d settlement.Draw, rep settlement.Report) dto.DrawSummary {
	return dto.DrawSummary{
		DrawID:        d.ID,
		DrawDate:      d.DrawDate,
		DrawTime:      string(d.DrawTime),
		DrawTimeLabel: d.DrawTime.Label(),
		WinningNumber: d.WinningNumber,
		Status:        string(d.Status),
		Report:        rep,
	}
}
