package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/radieske/lottery-platform-poc/internal/claims-service/dto"
	"github.com/radieske/lottery-platform-poc/internal/claims-service/repo"
	"github.com/radieske/lottery-platform-poc/internal/claims-service/service"
	"github.com/radieske/lottery-platform-poc/internal/settlement"
)

type Server struct {
	log *zap.Logger
	svc *service.Service
}

func NewServer(log *zap.Logger, svc *service.Service) *Server {
	return &Server{log: log, svc: svc}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/claims", s.requestClaim)        // POST
	mux.HandleFunc("/claims/approve", s.approve)     // POST
	mux.HandleFunc("/tickets/verify", s.verify)      // GET ?ticketNumber=...
	mux.HandleFunc("/tickets/cancel", s.cancel)      // POST
	return mux
}

func (s *Server) requestClaim(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.ClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "bad json")
		return
	}
	if req.TicketNumber == "" {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "ticket_number required")
		return
	}

	out, err := s.svc.RequestClaim(r.Context(), req.TicketNumber)
	if err != nil {
		s.writeClaimError(w, req.TicketNumber, err)
		return
	}
	writeJSON(w, claimResponse(out))
}

func (s *Server) approve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.ApproveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "bad json")
		return
	}
	if req.TicketNumber == "" || req.ApprovedBy == "" {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "ticket_number and approved_by required")
		return
	}

	out, err := s.svc.ApproveClaim(r.Context(), req.TicketNumber, req.ApprovedBy)
	if err != nil {
		s.writeClaimError(w, req.TicketNumber, err)
		return
	}
	writeJSON(w, claimResponse(out))
}

func (s *Server) verify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ticketNumber := r.URL.Query().Get("ticketNumber")
	if ticketNumber == "" {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "ticketNumber required")
		return
	}

	_, sum, err := s.svc.Verify(r.Context(), ticketNumber)
	if err != nil {
		s.writeClaimError(w, ticketNumber, err)
		return
	}

	resp := dto.VerifyResponse{
		TicketNumber:     sum.TicketNumber,
		DrawID:           sum.DrawID,
		WinningNumber:    sum.WinningNumber,
		DerivedStatus:    string(sum.DerivedStatus()),
		WinningBetCount:  sum.WinningBetCount,
		TotalPayoutCents: sum.TotalPayoutCents,
		Bets:             make([]dto.BetResult, 0, len(sum.Results)),
	}
	for _, res := range sum.Results {
		resp.Bets = append(resp.Bets, dto.BetResult{
			Combination: res.Bet.Combination,
			BetType:     string(res.Bet.Type),
			AmountCents: res.Bet.AmountCents,
			IsWinner:    res.IsWinner,
			PayoutCents: res.PayoutCents,
		})
	}
	writeJSON(w, resp)
}

func (s *Server) cancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.CancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "bad json")
		return
	}
	if req.TicketNumber == "" {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "ticket_number required")
		return
	}

	if err := s.svc.CancelTicket(r.Context(), req.TicketNumber, req.Reason); err != nil {
		s.writeClaimError(w, req.TicketNumber, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"CANCELLED"}`))
}

// writeClaimError mapeia a taxonomia de erros pra códigos HTTP estáveis:
// 404 TICKET_NOT_FOUND, 409 ALREADY_CLAIMED/CLAIM_PENDING,
// 422 NOT_A_WINNING_TICKET/DRAW_NOT_SETTLED. Erros de dado corrompido
// (modalidade ou combinação inválida) viram warning pra investigação.
func (s *Server) writeClaimError(w http.ResponseWriter, ticketNumber string, err error) {
	switch {
	case errors.Is(err, repo.ErrTicketNotFound):
		writeError(w, http.StatusNotFound, "TICKET_NOT_FOUND", "")
	case errors.Is(err, repo.ErrAlreadyClaimed):
		writeError(w, http.StatusConflict, "ALREADY_CLAIMED", "this ticket has already been claimed")
	case errors.Is(err, repo.ErrClaimPending):
		writeError(w, http.StatusConflict, "CLAIM_PENDING", "claim is awaiting approval")
	case errors.Is(err, service.ErrNotAWinningTicket):
		writeError(w, http.StatusUnprocessableEntity, "NOT_A_WINNING_TICKET", "")
	case errors.Is(err, settlement.ErrDrawNotSettled), errors.Is(err, settlement.ErrNoWinningNumber):
		writeError(w, http.StatusUnprocessableEntity, "DRAW_NOT_SETTLED", "draw has no official result yet")
	case errors.Is(err, service.ErrNotPendingApproval), errors.Is(err, repo.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "INVALID_STATE", err.Error())
	case errors.Is(err, settlement.ErrUnknownBetType), errors.Is(err, settlement.ErrBadCombination):
		s.log.Warn("data integrity problem on ticket",
			zap.String("ticketNumber", ticketNumber), zap.Error(err))
		writeError(w, http.StatusUnprocessableEntity, "INVALID_TICKET_DATA", err.Error())
	default:
		s.log.Error("claim request failed", zap.String("ticketNumber", ticketNumber), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL", "")
	}
}

func claimResponse(out *service.ClaimOutcome) dto.ClaimResponse {
	resp := dto.ClaimResponse{
		TicketNumber: out.TicketNumber,
		Status:       string(out.Status),
		PayoutCents:  out.PayoutCents,
		ApprovedBy:   out.ApprovedBy,
	}
	if !out.ClaimedAt.IsZero() {
		t := out.ClaimedAt
		resp.ClaimedAt = &t
	}
	return resp
}

// writeJSON serializa e envia resposta JSON
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, kind, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(dto.ErrorResponse{Error: kind, Message: msg})
}
