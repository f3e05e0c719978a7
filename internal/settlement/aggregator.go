package settlement

import "sort"

// TicketDraw é o par de entrada do agregador de relatórios.
type TicketDraw struct {
	Ticket Ticket
	Draw   Draw
}

// Scope limita o agregado por data e/ou horário de sorteio.
// Campo vazio = sem filtro.
type Scope struct {
	Date     string
	DrawTime DrawTime
}

// AgentTotal é a quebra de prêmios por agente.
type AgentTotal struct {
	AgentID          string `json:"agent_id"`
	WinningTickets   int    `json:"winning_tickets"`
	TotalPayoutCents int64  `json:"total_payout_cents"`
}

// Report é o agregado de liquidações pra telas de resumo.
type Report struct {
	TicketCount        int                `json:"ticket_count"`
	WinningTicketCount int                `json:"winning_ticket_count"`
	TotalPayoutCents   int64              `json:"total_payout_cents"`
	BySlot             map[DrawTime]int64 `json:"by_slot"`
	ByAgent            []AgentTotal       `json:"by_agent"`
}

// Aggregate faz o fan-in puro sobre Settle: cada bilhete passa pelo
// mesmo motor de liquidação das telas de resgate e verificação, então
// o total do dashboard é sempre a soma das liquidações autoritativas
// (sem caminho de cálculo paralelo). Sorteios ainda sem resultado não
// contribuem pro agregado.
func Aggregate(pairs []TicketDraw, table PrizeTable, scope Scope) (Report, error) {
	rep := Report{BySlot: make(map[DrawTime]int64)}
	agents := make(map[string]*AgentTotal)

	for _, p := range pairs {
		if scope.Date != "" && p.Draw.DrawDate != scope.Date {
			continue
		}
		if scope.DrawTime != "" && p.Draw.DrawTime != scope.DrawTime {
			continue
		}
		if !p.Draw.Completed() {
			continue
		}

		sum, err := Settle(p.Ticket, p.Draw, table)
		if err != nil {
			return Report{}, err
		}

		rep.TicketCount++
		if sum.WinningBetCount == 0 {
			continue
		}

		rep.WinningTicketCount++
		rep.TotalPayoutCents += sum.TotalPayoutCents
		rep.BySlot[p.Draw.DrawTime] += sum.TotalPayoutCents

		at, ok := agents[p.Ticket.AgentID]
		if !ok {
			at = &AgentTotal{AgentID: p.Ticket.AgentID}
			agents[p.Ticket.AgentID] = at
		}
		at.WinningTickets++
		at.TotalPayoutCents += sum.TotalPayoutCents
	}

	rep.ByAgent = make([]AgentTotal, 0, len(agents))
	for _, at := range agents {
		rep.ByAgent = append(rep.ByAgent, *at)
	}
	// ordenação estável pra resposta determinística
	sort.Slice(rep.ByAgent, func(i, j int) bool { return rep.ByAgent[i].AgentID < rep.ByAgent[j].AgentID })

	return rep, nil
}
