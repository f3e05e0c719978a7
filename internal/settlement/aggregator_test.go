package settlement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pair(ticketNumber, agentID, drawID string, draw Draw, bets ...Bet) TicketDraw {
	return TicketDraw{
		Ticket: Ticket{TicketNumber: ticketNumber, AgentID: agentID, DrawID: drawID, Bets: bets},
		Draw:   draw,
	}
}

func TestAggregateMatchesPerTicketSettlement(t *testing.T) {
	table := DefaultPrizeTable()
	draw2pm := Draw{ID: "d1", DrawDate: "2026-08-28", DrawTime: DrawTimeTwoPM, WinningNumber: "215", Status: DrawCompleted}
	draw9pm := Draw{ID: "d2", DrawDate: "2026-08-28", DrawTime: DrawTimeNinePM, WinningNumber: "407", Status: DrawCompleted}

	pairs := []TicketDraw{
		pair("t1", "agent-a", "d1", draw2pm, Bet{ID: "b1", Type: BetTypeStandard, Combination: "215", AmountCents: 1000}),
		pair("t2", "agent-a", "d1", draw2pm, Bet{ID: "b2", Type: BetTypeStandard, Combination: "999", AmountCents: 1000}),
		pair("t3", "agent-b", "d2", draw9pm, Bet{ID: "b3", Type: BetTypeRambolito, Combination: "740", AmountCents: 2000}),
	}

	rep, err := Aggregate(pairs, table, Scope{})
	require.NoError(t, err)

	// t1: 10.00*450 = 4500.00; t3: 20.00*75 = 1500.00 (dígitos distintos)
	assert.Equal(t, 3, rep.TicketCount)
	assert.Equal(t, 2, rep.WinningTicketCount)
	assert.Equal(t, int64(450000+150000), rep.TotalPayoutCents)
	assert.Equal(t, int64(450000), rep.BySlot[DrawTimeTwoPM])
	assert.Equal(t, int64(150000), rep.BySlot[DrawTimeNinePM])

	require.Len(t, rep.ByAgent, 2)
	assert.Equal(t, AgentTotal{AgentID: "agent-a", WinningTickets: 1, TotalPayoutCents: 450000}, rep.ByAgent[0])
	assert.Equal(t, AgentTotal{AgentID: "agent-b", WinningTickets: 1, TotalPayoutCents: 150000}, rep.ByAgent[1])
}

func TestAggregateScopeFilters(t *testing.T) {
	draw2pm := Draw{ID: "d1", DrawDate: "2026-08-28", DrawTime: DrawTimeTwoPM, WinningNumber: "215", Status: DrawCompleted}
	draw5pm := Draw{ID: "d2", DrawDate: "2026-08-27", DrawTime: DrawTimeFivePM, WinningNumber: "215", Status: DrawCompleted}

	pairs := []TicketDraw{
		pair("t1", "a", "d1", draw2pm, Bet{ID: "b1", Type: BetTypeStandard, Combination: "215", AmountCents: 1000}),
		pair("t2", "a", "d2", draw5pm, Bet{ID: "b2", Type: BetTypeStandard, Combination: "215", AmountCents: 1000}),
	}

	rep, err := Aggregate(pairs, DefaultPrizeTable(), Scope{Date: "2026-08-28"})
	require.NoError(t, err)
	assert.Equal(t, 1, rep.TicketCount)
	assert.Equal(t, int64(450000), rep.TotalPayoutCents)

	rep, err = Aggregate(pairs, DefaultPrizeTable(), Scope{DrawTime: DrawTimeFivePM})
	require.NoError(t, err)
	assert.Equal(t, 1, rep.TicketCount)
}

func TestAggregateSkipsUnsettledDraws(t *testing.T) {
	open := Draw{ID: "d1", DrawDate: "2026-08-28", DrawTime: DrawTimeTwoPM, Status: DrawActive}
	pairs := []TicketDraw{
		pair("t1", "a", "d1", open, Bet{ID: "b1", Type: BetTypeStandard, Combination: "215", AmountCents: 1000}),
	}

	rep, err := Aggregate(pairs, DefaultPrizeTable(), Scope{})
	require.NoError(t, err)
	assert.Zero(t, rep.TicketCount)
	assert.Zero(t, rep.TotalPayoutCents)
}
