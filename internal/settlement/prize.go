package settlement

import "fmt"

// IsDoublePattern classifica a combinação rambolito: "double" quando há
// pelo menos um dígito repetido (menos permutações, multiplicador maior).
func IsDoublePattern(combination string) bool {
	return combination[0] == combination[1] ||
		combination[0] == combination[2] ||
		combination[1] == combination[2]
}

// ComputePayout calcula o prêmio em centavos de uma aposta já sabidamente
// vencedora, usando o snapshot de multiplicadores vigente.
func ComputePayout(bet Bet, table PrizeTable) (int64, error) {
	if err := ValidateCombination(bet.Combination); err != nil {
		return 0, err
	}

	switch bet.Type {
	case BetTypeStandard:
		return bet.AmountCents * table.Standard, nil
	case BetTypeRambolito:
		if IsDoublePattern(bet.Combination) {
			return bet.AmountCents * table.RamboliteDouble, nil
		}
		return bet.AmountCents * table.RamboliteUnique, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBetType, bet.Type)
}
