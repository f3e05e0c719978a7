package dto

type ClaimRequest struct {
	TicketNumber string `json:"ticket_number"`
}

type ApproveRequest struct {
	TicketNumber string `json:"ticket_number"`
	ApprovedBy   string `json:"approved_by"`
}

type CancelRequest struct {
	TicketNumber string `json:"ticket_number"`
	Reason       string `json:"reason,omitempty"`
}
