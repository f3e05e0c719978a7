package settlement

import "fmt"

// BetResult é o resultado individual de uma aposta na liquidação.
// Apostas perdedoras contribuem exatamente 0 pro total.
type BetResult struct {
	Bet         Bet
	IsWinner    bool
	PayoutCents int64
}

// Summary é a projeção pura da liquidação de um bilhete: recalculada
// sob demanda a partir de Draw + Ticket + PrizeTable, nunca persistida
// como fonte de verdade.
type Summary struct {
	TicketNumber     string
	DrawID           string
	WinningNumber    string
	Results          []BetResult
	WinningBetCount  int
	TotalPayoutCents int64
}

// DerivedStatus deriva o rótulo informativo do bilhete após liquidação.
// A elegibilidade de resgate é governada pela máquina de estados de
// claims, não por este rótulo.
func (s Summary) DerivedStatus() TicketStatus {
	if s.WinningBetCount > 0 {
		return TicketSettledWin
	}
	return TicketSettledLose
}

// Settle confere todas as apostas do bilhete contra o resultado do
// sorteio e acumula o prêmio total. Determinística e sem efeito
// colateral: duas chamadas com as mesmas entradas produzem o mesmo
// Summary, base da regra "recalcula, não confia em winAmount gravado".
func Settle(ticket Ticket, draw Draw, table PrizeTable) (Summary, error) {
	if ticket.DrawID != draw.ID {
		return Summary{}, fmt.Errorf("%w: ticket %s draw %s", ErrDrawMismatch, ticket.TicketNumber, draw.ID)
	}
	if !draw.Completed() {
		return Summary{}, fmt.Errorf("%w: draw %s status %s", ErrDrawNotSettled, draw.ID, draw.Status)
	}

	out := Summary{
		TicketNumber:  ticket.TicketNumber,
		DrawID:        draw.ID,
		WinningNumber: draw.WinningNumber,
		Results:       make([]BetResult, 0, len(ticket.Bets)),
	}

	// ordem estável: resultados na mesma ordem das apostas do bilhete
	for _, bet := range ticket.Bets {
		win, err := IsWinning(bet, draw.WinningNumber)
		if err != nil {
			return Summary{}, fmt.Errorf("bet %s: %w", bet.ID, err)
		}

		res := BetResult{Bet: bet, IsWinner: win}
		if win {
			payout, err := ComputePayout(bet, table)
			if err != nil {
				return Summary{}, fmt.Errorf("bet %s: %w", bet.ID, err)
			}
			res.PayoutCents = payout
			out.WinningBetCount++
			out.TotalPayoutCents += payout
		}
		out.Results = append(out.Results, res)
	}

	return out, nil
}
