package settlement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsWinningStandard(t *testing.T) {
	cases := []struct {
		name        string
		combination string
		winning     string
		want        bool
	}{
		{"exact match", "215", "215", true},
		{"permutation is not enough", "512", "215", false},
		{"different digits", "999", "215", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bet := Bet{Type: BetTypeStandard, Combination: tc.combination, AmountCents: 1000}
			got, err := IsWinning(bet, tc.winning)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestIsWinningRambolito(t *testing.T) {
	cases := []struct {
		name        string
		combination string
		winning     string
		want        bool
	}{
		{"exact order", "215", "215", true},
		{"permutation 512", "512", "215", true},
		{"permutation 125", "125", "215", true},
		{"different multiset", "115", "215", false},
		{"double digits permutation", "232", "223", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bet := Bet{Type: BetTypeRambolito, Combination: tc.combination, AmountCents: 1000}
			got, err := IsWinning(bet, tc.winning)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestIsWinningWithoutWinningNumber(t *testing.T) {
	// sorteio sem resultado: erro de estado, nunca "false" silencioso
	bet := Bet{Type: BetTypeStandard, Combination: "215", AmountCents: 1000}
	_, err := IsWinning(bet, "")
	assert.ErrorIs(t, err, ErrNoWinningNumber)
}

func TestIsWinningRejectsMalformedInput(t *testing.T) {
	bet := Bet{Type: BetTypeStandard, Combination: "21", AmountCents: 1000}
	_, err := IsWinning(bet, "215")
	assert.ErrorIs(t, err, ErrBadCombination)

	bet = Bet{Type: BetTypeStandard, Combination: "21a", AmountCents: 1000}
	_, err = IsWinning(bet, "215")
	assert.ErrorIs(t, err, ErrBadCombination)

	bet = Bet{Type: BetTypeStandard, Combination: "215", AmountCents: 1000}
	_, err = IsWinning(bet, "2155")
	assert.ErrorIs(t, err, ErrBadCombination)
}

func TestIsWinningUnknownBetType(t *testing.T) {
	bet := Bet{Type: "parlay", Combination: "215", AmountCents: 1000}
	_, err := IsWinning(bet, "215")
	assert.ErrorIs(t, err, ErrUnknownBetType)
}
