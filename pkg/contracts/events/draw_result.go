package events

import "time"

// Evento publicado no tópico "draw_results" quando o resultado
// oficial de um sorteio é divulgado pela fonte externa.
type DrawResultEntered struct {
	DrawID        string    `json:"draw_id"`
	DrawDate      string    `json:"draw_date"` // "2026-08-28"
	DrawTime      string    `json:"draw_time"` // "twoPM" | "fivePM" | "ninePM"
	WinningNumber string    `json:"winning_number"`
	EnteredAt     time.Time `json:"entered_at"`
	Source        string    `json:"source"` // "draw-source-simulator" | "pcso-feed"
}
