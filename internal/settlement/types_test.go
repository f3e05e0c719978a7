package settlement

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTicketStatusTransitions(t *testing.T) {
	assert.True(t, TicketActive.CanTransition(TicketSettledWin))
	assert.True(t, TicketActive.CanTransition(TicketSettledLose))
	assert.True(t, TicketSettledWin.CanTransition(TicketPendingApproval))
	assert.True(t, TicketSettledWin.CanTransition(TicketClaimed))
	assert.True(t, TicketPendingApproval.CanTransition(TicketClaimed))

	// qualquer estado pode ser cancelado, exceto os terminais
	assert.True(t, TicketActive.CanTransition(TicketCancelled))
	assert.True(t, TicketSettledLose.CanTransition(TicketCancelled))
	assert.True(t, TicketPendingApproval.CanTransition(TicketCancelled))

	// CLAIMED é terminal: nenhum segundo resgate, nenhum cancelamento
	assert.True(t, TicketClaimed.Terminal())
	assert.False(t, TicketClaimed.CanTransition(TicketCancelled))
	assert.False(t, TicketClaimed.CanTransition(TicketPendingApproval))

	// perdedor não vira resgatado
	assert.False(t, TicketSettledLose.CanTransition(TicketClaimed))
	assert.False(t, TicketActive.CanTransition(TicketClaimed))
}

func TestParseBetType(t *testing.T) {
	bt, err := ParseBetType("standard")
	assert.NoError(t, err)
	assert.Equal(t, BetTypeStandard, bt)

	bt, err = ParseBetType("rambolito")
	assert.NoError(t, err)
	assert.Equal(t, BetTypeRambolito, bt)

	_, err = ParseBetType("Rambolito")
	assert.ErrorIs(t, err, ErrUnknownBetType)
}

func TestParseDrawTime(t *testing.T) {
	for _, s := range []string{"twoPM", "fivePM", "ninePM"} {
		dt, err := ParseDrawTime(s)
		assert.NoError(t, err)
		assert.NotEmpty(t, dt.Label())
	}
	_, err := ParseDrawTime("midnight")
	assert.Error(t, err)
}
