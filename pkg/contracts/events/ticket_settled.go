package events

import "time"

// Evento emitido pelo settlement-worker após liquidar um bilhete.
type TicketSettled struct {
	TicketNumber    string    `json:"ticket_number"`
	DrawID          string    `json:"draw_id"`
	AgentID         string    `json:"agent_id"`
	Status          string    `json:"status"` // "SETTLED_WIN" | "SETTLED_LOSE"
	WinningBetCount int       `json:"winning_bet_count"`
	PayoutCents     int64     `json:"payout_cents"`
	SettledAt       time.Time `json:"settled_at"`
}
