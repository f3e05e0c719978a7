package dto

type CreditReq struct {
	TicketID    string `json:"ticket_id"`
	AmountCents int64  `json:"amount_cents"`
	ExternalRef string `json:"external_ref"`
}

type CreditResp struct {
	Status    string `json:"status"` // CREDITED | DUPLICATE
	LedgerRef string `json:"ledgerRef"`
}

const (
	StatusCredited  = "CREDITED"
	StatusDuplicate = "DUPLICATE"
)
