package settlement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDoublePattern(t *testing.T) {
	assert.True(t, IsDoublePattern("223"))
	assert.True(t, IsDoublePattern("232"))
	assert.True(t, IsDoublePattern("322"))
	assert.True(t, IsDoublePattern("555"))
	assert.False(t, IsDoublePattern("123"))
	assert.False(t, IsDoublePattern("907"))
}

func TestComputePayoutStandard(t *testing.T) {
	table := PrizeTable{Standard: 450, RamboliteUnique: 75, RamboliteDouble: 150}
	bet := Bet{Type: BetTypeStandard, Combination: "215", AmountCents: 10000}

	payout, err := ComputePayout(bet, table)
	require.NoError(t, err)
	assert.Equal(t, int64(4500000), payout) // 100.00 * 450
}

func TestComputePayoutRambolitoMultiplierSelection(t *testing.T) {
	table := PrizeTable{Standard: 450, RamboliteUnique: 75, RamboliteDouble: 150}

	// "223" tem dígito repetido -> multiplicador double
	double := Bet{Type: BetTypeRambolito, Combination: "223", AmountCents: 5000}
	payout, err := ComputePayout(double, table)
	require.NoError(t, err)
	assert.Equal(t, int64(750000), payout) // 50.00 * 150

	// "123" todos distintos -> multiplicador unique
	unique := Bet{Type: BetTypeRambolito, Combination: "123", AmountCents: 5000}
	payout, err = ComputePayout(unique, table)
	require.NoError(t, err)
	assert.Equal(t, int64(375000), payout) // 50.00 * 75
}

func TestComputePayoutUnknownBetType(t *testing.T) {
	bet := Bet{Type: "straight6", Combination: "215", AmountCents: 1000}
	_, err := ComputePayout(bet, DefaultPrizeTable())
	assert.ErrorIs(t, err, ErrUnknownBetType)
}
