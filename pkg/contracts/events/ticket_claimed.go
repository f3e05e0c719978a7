package events

import "time"

// Evento emitido pelo claims-service após um resgate efetivado.
type TicketClaimed struct {
	TicketNumber string    `json:"ticket_number"`
	DrawID       string    `json:"draw_id"`
	PayoutCents  int64     `json:"payout_cents"`
	ClaimedAt    time.Time `json:"claimed_at"`
	ApprovedBy   string    `json:"approved_by,omitempty"`
}
