package settlement

import (
	"fmt"
	"time"
)

// Largura fixa das combinações do jogo (swertres: 3 dígitos)
const CombinationDigits = 3

// BetType é a enumeração fechada de modalidades de aposta.
type BetType string

const (
	BetTypeStandard  BetType = "standard"  // acerto exato, na ordem
	BetTypeRambolito BetType = "rambolito" // qualquer permutação
)

// ParseBetType valida a modalidade vinda do banco ou da API
func ParseBetType(s string) (BetType, error) {
	switch BetType(s) {
	case BetTypeStandard, BetTypeRambolito:
		return BetType(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBetType, s)
}

// DrawTime é o horário do sorteio dentro do dia.
type DrawTime string

const (
	DrawTimeTwoPM  DrawTime = "twoPM"
	DrawTimeFivePM DrawTime = "fivePM"
	DrawTimeNinePM DrawTime = "ninePM"
)

// Label retorna o rótulo de exibição do horário
func (d DrawTime) Label() string {
	switch d {
	case DrawTimeTwoPM:
		return "2:00 PM"
	case DrawTimeFivePM:
		return "5:00 PM"
	case DrawTimeNinePM:
		return "9:00 PM"
	}
	return string(d)
}

func ParseDrawTime(s string) (DrawTime, error) {
	switch DrawTime(s) {
	case DrawTimeTwoPM, DrawTimeFivePM, DrawTimeNinePM:
		return DrawTime(s), nil
	}
	return "", fmt.Errorf("invalid draw time %q", s)
}

// DrawStatus segue o ciclo PENDING -> ACTIVE -> COMPLETED.
// Um sorteio COMPLETED é imutável.
type DrawStatus string

const (
	DrawPending   DrawStatus = "PENDING"
	DrawActive    DrawStatus = "ACTIVE"
	DrawCompleted DrawStatus = "COMPLETED"
)

// TicketStatus é a enumeração fechada de estados do bilhete.
type TicketStatus string

const (
	TicketActive          TicketStatus = "ACTIVE"
	TicketSettledWin      TicketStatus = "SETTLED_WIN"
	TicketSettledLose     TicketStatus = "SETTLED_LOSE"
	TicketPendingApproval TicketStatus = "PENDING_APPROVAL"
	TicketClaimed         TicketStatus = "CLAIMED"
	TicketCancelled       TicketStatus = "CANCELLED"
)

// transitions é a tabela fechada de transições permitidas.
// CLAIMED é terminal; qualquer outro estado pode ser cancelado.
var transitions = map[TicketStatus][]TicketStatus{
	TicketActive:          {TicketSettledWin, TicketSettledLose, TicketCancelled},
	TicketSettledWin:      {TicketPendingApproval, TicketClaimed, TicketCancelled},
	TicketSettledLose:     {TicketCancelled},
	TicketPendingApproval: {TicketClaimed, TicketCancelled},
	TicketClaimed:         {},
	TicketCancelled:       {},
}

// CanTransition informa se a transição s -> to é válida
func (s TicketStatus) CanTransition(to TicketStatus) bool {
	for _, t := range transitions[s] {
		if t == to {
			return true
		}
	}
	return false
}

// Terminal informa se o estado não admite mais transições
func (s TicketStatus) Terminal() bool { return len(transitions[s]) == 0 }

// Draw identifica um sorteio. WinningNumber fica vazio até o resultado
// oficial ser gravado pelo settlement-worker (único caminho de escrita).
type Draw struct {
	ID            string
	DrawDate      string // "2026-08-28"
	DrawTime      DrawTime
	WinningNumber string
	Status        DrawStatus
}

// Completed informa se o sorteio já tem resultado oficial
func (d Draw) Completed() bool {
	return d.Status == DrawCompleted && d.WinningNumber != ""
}

// Bet pertence a exatamente um bilhete. Imutável após a venda.
type Bet struct {
	ID          string
	Type        BetType
	Combination string // string de 3 dígitos, ex: "215"
	AmountCents int64  // centavos, sempre positivo
}

// Ticket referencia exatamente um sorteio e carrega apostas em ordem estável.
type Ticket struct {
	ID               string
	TicketNumber     string // identificador público, imutável
	AgentID          string
	DrawID           string
	TotalAmountCents int64
	Status           TicketStatus
	Bets             []Bet
	CreatedAt        time.Time
}

// PrizeTable é o snapshot dos multiplicadores vigentes no momento da
// liquidação. Nunca é cacheado globalmente: cada chamada de Settle recebe
// o snapshot lido na hora, pra evitar multiplicador defasado.
type PrizeTable struct {
	Standard        int64 // standard: acerto exato
	RamboliteUnique int64 // rambolito com 3 dígitos distintos
	RamboliteDouble int64 // rambolito com dígito repetido
}

// DefaultPrizeTable retorna os multiplicadores padrão da operação
// (standard x450, rambolito x75, rambolito double x150).
func DefaultPrizeTable() PrizeTable {
	return PrizeTable{Standard: 450, RamboliteUnique: 75, RamboliteDouble: 150}
}
