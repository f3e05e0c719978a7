package settlement

import (
	"fmt"
	"sort"
	"strings"
)

// IsWinning decide se uma aposta é vencedora contra o número sorteado.
//
// standard: igualdade exata de string, sensível à ordem.
// rambolito: igualdade do multiset de dígitos (compara os dígitos ordenados).
//
// winningNumber vazio é erro de estado, não derrota: quem chama não pode
// tratar "ainda não sorteado" como "não ganhou".
func IsWinning(bet Bet, winningNumber string) (bool, error) {
	if winningNumber == "" {
		return false, ErrNoWinningNumber
	}
	if err := ValidateCombination(winningNumber); err != nil {
		return false, err
	}
	if err := ValidateCombination(bet.Combination); err != nil {
		return false, err
	}

	switch bet.Type {
	case BetTypeStandard:
		return bet.Combination == winningNumber, nil
	case BetTypeRambolito:
		return sortDigits(bet.Combination) == sortDigits(winningNumber), nil
	}
	return false, fmt.Errorf("%w: %q", ErrUnknownBetType, bet.Type)
}

// ValidateCombination garante a largura fixa e que só há dígitos
func ValidateCombination(s string) error {
	if len(s) != CombinationDigits {
		return fmt.Errorf("%w: %q", ErrBadCombination, s)
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: %q", ErrBadCombination, s)
		}
	}
	return nil
}

// sortDigits ordena os dígitos da combinação ("512" -> "125")
func sortDigits(s string) string {
	d := strings.Split(s, "")
	sort.Strings(d)
	return strings.Join(d, "")
}
