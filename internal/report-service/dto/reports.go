package dto

import "github.com/radieske/lottery-platform-poc/internal/settlement"

// DrawSummary é o resumo de liquidação de um sorteio específico
type DrawSummary struct {
	DrawID        string            `json:"draw_id"`
	DrawDate      string            `json:"draw_date"`
	DrawTime      string            `json:"draw_time"`
	DrawTimeLabel string            `json:"draw_time_label"`
	WinningNumber string            `json:"winning_number,omitempty"`
	Status        string            `json:"status"`
	Report        settlement.Report `json:"report"`
}

// DailySummary é o agregado do dia pra telas de dashboard
type DailySummary struct {
	Date   string            `json:"date"`
	Report settlement.Report `json:"report"`
}

// AgentBreakdown expõe só a quebra por agente
type AgentBreakdown struct {
	Date   string                  `json:"date"`
	Agents []settlement.AgentTotal `json:"agents"`
}
