package settlement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completedDraw(winning string) Draw {
	return Draw{
		ID:            "draw-1",
		DrawDate:      "2026-08-28",
		DrawTime:      DrawTimeTwoPM,
		WinningNumber: winning,
		Status:        DrawCompleted,
	}
}

func TestSettleStandardWin(t *testing.T) {
	ticket := Ticket{
		TicketNumber: "17000000000000001",
		AgentID:      "agent-1",
		DrawID:       "draw-1",
		Bets: []Bet{
			{ID: "b1", Type: BetTypeStandard, Combination: "215", AmountCents: 10000},
		},
	}

	sum, err := Settle(ticket, completedDraw("215"), DefaultPrizeTable())
	require.NoError(t, err)

	assert.Equal(t, 1, sum.WinningBetCount)
	assert.Equal(t, int64(4500000), sum.TotalPayoutCents) // 100.00 * 450
	assert.Equal(t, TicketSettledWin, sum.DerivedStatus())
}

func TestSettleMixedTicket(t *testing.T) {
	// A: standard "215" (exato) ganha 50.00*450; B: rambolito "512"
	// (permutação, dígitos distintos) ganha 50.00*75
	ticket := Ticket{
		TicketNumber: "17000000000000002",
		DrawID:       "draw-1",
		Bets: []Bet{
			{ID: "a", Type: BetTypeStandard, Combination: "215", AmountCents: 5000},
			{ID: "b", Type: BetTypeRambolito, Combination: "512", AmountCents: 5000},
		},
	}

	sum, err := Settle(ticket, completedDraw("215"), DefaultPrizeTable())
	require.NoError(t, err)

	assert.Equal(t, 2, sum.WinningBetCount)
	assert.Equal(t, int64(2250000), sum.Results[0].PayoutCents)
	assert.Equal(t, int64(375000), sum.Results[1].PayoutCents)
	assert.Equal(t, int64(2625000), sum.TotalPayoutCents)
}

func TestSettleLosersContributeZero(t *testing.T) {
	ticket := Ticket{
		TicketNumber: "17000000000000003",
		DrawID:       "draw-1",
		Bets: []Bet{
			{ID: "a", Type: BetTypeStandard, Combination: "512", AmountCents: 5000},
			{ID: "b", Type: BetTypeRambolito, Combination: "115", AmountCents: 5000},
			{ID: "c", Type: BetTypeStandard, Combination: "215", AmountCents: 2000},
		},
	}

	sum, err := Settle(ticket, completedDraw("215"), DefaultPrizeTable())
	require.NoError(t, err)

	assert.Equal(t, 1, sum.WinningBetCount)
	assert.False(t, sum.Results[0].IsWinner)
	assert.Zero(t, sum.Results[0].PayoutCents)
	assert.False(t, sum.Results[1].IsWinner)
	assert.Zero(t, sum.Results[1].PayoutCents)
	assert.Equal(t, int64(900000), sum.TotalPayoutCents) // só a aposta vencedora
}

func TestSettlePreservesBetOrder(t *testing.T) {
	ticket := Ticket{
		TicketNumber: "17000000000000004",
		DrawID:       "draw-1",
		Bets: []Bet{
			{ID: "b3", Type: BetTypeStandard, Combination: "999", AmountCents: 1000},
			{ID: "b1", Type: BetTypeStandard, Combination: "215", AmountCents: 1000},
			{ID: "b2", Type: BetTypeRambolito, Combination: "125", AmountCents: 1000},
		},
	}

	sum, err := Settle(ticket, completedDraw("215"), DefaultPrizeTable())
	require.NoError(t, err)

	require.Len(t, sum.Results, 3)
	assert.Equal(t, "b3", sum.Results[0].Bet.ID)
	assert.Equal(t, "b1", sum.Results[1].Bet.ID)
	assert.Equal(t, "b2", sum.Results[2].Bet.ID)
}

func TestSettleIsDeterministic(t *testing.T) {
	ticket := Ticket{
		TicketNumber: "17000000000000005",
		DrawID:       "draw-1",
		Bets: []Bet{
			{ID: "a", Type: BetTypeStandard, Combination: "215", AmountCents: 5000},
			{ID: "b", Type: BetTypeRambolito, Combination: "223", AmountCents: 2500},
		},
	}
	draw := completedDraw("215")
	table := DefaultPrizeTable()

	first, err := Settle(ticket, draw, table)
	require.NoError(t, err)
	second, err := Settle(ticket, draw, table)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSettleRequiresCompletedDraw(t *testing.T) {
	ticket := Ticket{TicketNumber: "t", DrawID: "draw-1", Bets: []Bet{{Type: BetTypeStandard, Combination: "215", AmountCents: 1000}}}

	// ACTIVE sem resultado
	draw := Draw{ID: "draw-1", Status: DrawActive}
	_, err := Settle(ticket, draw, DefaultPrizeTable())
	assert.ErrorIs(t, err, ErrDrawNotSettled)

	// COMPLETED mas sem número gravado também é inválido
	draw = Draw{ID: "draw-1", Status: DrawCompleted}
	_, err = Settle(ticket, draw, DefaultPrizeTable())
	assert.ErrorIs(t, err, ErrDrawNotSettled)
}

func TestSettleRejectsDrawMismatch(t *testing.T) {
	ticket := Ticket{TicketNumber: "t", DrawID: "draw-2"}
	_, err := Settle(ticket, completedDraw("215"), DefaultPrizeTable())
	assert.ErrorIs(t, err, ErrDrawMismatch)
}

func TestSettleUsesSnapshotMultipliers(t *testing.T) {
	// tabela diferente, resultado diferente: o snapshot passado vale,
	// não há estado global de configuração
	ticket := Ticket{
		TicketNumber: "t",
		DrawID:       "draw-1",
		Bets:         []Bet{{Type: BetTypeStandard, Combination: "215", AmountCents: 1000}},
	}
	sum, err := Settle(ticket, completedDraw("215"), PrizeTable{Standard: 500, RamboliteUnique: 80, RamboliteDouble: 160})
	require.NoError(t, err)
	assert.Equal(t, int64(500000), sum.TotalPayoutCents)
}
