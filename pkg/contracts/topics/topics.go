package topics

const (
	// Resultados de sorteio
	DrawResults = "draw_results"

	// Ciclo de vida dos bilhetes
	TicketSettled = "ticket_settled"
	TicketClaimed = "ticket_claimed"

	// DLQs
	DrawResultsDLQ = "draw_results_dlq"
)
