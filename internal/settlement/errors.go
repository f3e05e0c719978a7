package settlement

import "errors"

var (
	// ErrNoWinningNumber: tentativa de conferir aposta contra sorteio
	// ainda sem resultado. Nunca deve ser tratado como "não ganhou".
	ErrNoWinningNumber = errors.New("draw has no winning number yet")

	// ErrUnknownBetType: modalidade fora da enumeração fechada.
	// Indica dado corrompido a montante; nunca assume multiplicador default.
	ErrUnknownBetType = errors.New("unknown bet type")

	// ErrBadCombination: combinação fora da largura fixa de 3 dígitos.
	ErrBadCombination = errors.New("combination must be a fixed-width digit string")

	// ErrDrawNotSettled: liquidação ou resgate pedido antes do resultado.
	ErrDrawNotSettled = errors.New("draw not settled")

	// ErrDrawMismatch: bilhete não pertence ao sorteio informado.
	ErrDrawMismatch = errors.New("ticket does not reference this draw")
)
