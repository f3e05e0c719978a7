package dto

import "time"

type ClaimResponse struct {
	TicketNumber string     `json:"ticket_number"`
	Status       string     `json:"status"` // PENDING_APPROVAL | CLAIMED
	PayoutCents  int64      `json:"payout_cents"`
	ClaimedAt    *time.Time `json:"claimed_at,omitempty"`
	ApprovedBy   string     `json:"approved_by,omitempty"`
}

type BetResult struct {
	Combination string `json:"combination"`
	BetType     string `json:"bet_type"`
	AmountCents int64  `json:"amount_cents"`
	IsWinner    bool   `json:"is_winner"`
	PayoutCents int64  `json:"payout_cents"`
}

type VerifyResponse struct {
	TicketNumber     string      `json:"ticket_number"`
	DrawID           string      `json:"draw_id"`
	WinningNumber    string      `json:"winning_number"`
	DerivedStatus    string      `json:"derived_status"` // SETTLED_WIN | SETTLED_LOSE
	WinningBetCount  int         `json:"winning_bet_count"`
	TotalPayoutCents int64       `json:"total_payout_cents"`
	Bets             []BetResult `json:"bets"`
}

// ErrorResponse carrega o tipo estável de erro pra UI do agente
// distinguir "já resgatado" de "não premiado" de "sorteio não encerrado"
type ErrorResponse struct {
	Error   string `json:"error"` // TICKET_NOT_FOUND | ALREADY_CLAIMED | ...
	Message string `json:"message,omitempty"`
}
