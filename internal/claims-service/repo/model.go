package repo

import "time"

// ClaimRecord é a prova de pagamento de um bilhete. No máximo um
// registro por ticket_id, pra sempre (constraint UNIQUE no banco).
type ClaimRecord struct {
	ID           string
	TicketID     string
	TicketNumber string
	PayoutCents  int64
	ClaimedAt    time.Time
	ApprovedBy   string
}
