package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/lottery-platform-poc/internal/claims-service/repo"
	"github.com/radieske/lottery-platform-poc/internal/settlement"
	"github.com/radieske/lottery-platform-poc/pkg/contracts/events"
)

var (
	// ErrNotAWinningTicket: resgate pedido pra bilhete sem aposta
	// vencedora. Desfecho terminal visível ao agente, nunca re-tentado.
	ErrNotAWinningTicket = errors.New("not a winning ticket")

	// ErrNotPendingApproval: aprovação pedida fora do estado esperado.
	ErrNotPendingApproval = errors.New("claim is not pending approval")
)

// Repo é a interface de persistência usada pela máquina de estados.
// As transições são atômicas no banco (lock de linha + UNIQUE em
// claim_records.ticket_id), então N pedidos concorrentes pro mesmo
// bilhete produzem exatamente um CLAIMED.
type Repo interface {
	GetTicket(ctx context.Context, ticketNumber string) (settlement.Ticket, settlement.Draw, error)
	PrizeTable(ctx context.Context) (settlement.PrizeTable, error)
	TransitionToPending(ctx context.Context, ticketNumber string) error
	TransitionToClaimed(ctx context.Context, ticketNumber string, payoutCents int64, approvedBy string) (*repo.ClaimRecord, error)
	Cancel(ctx context.Context, ticketNumber, reason string) error
}

// Ledger emite a instrução de crédito pro colaborador externo de saldos
type Ledger interface {
	Credit(ctx context.Context, ticketID string, amountCents int64, externalRef string) error
}

// Publisher publica eventos de resgate efetivado
type Publisher interface {
	PublishTicketClaimed(ctx context.Context, e events.TicketClaimed) error
}

// Service é a máquina de estados de resgate (ClaimStateMachine):
// ACTIVE -> SETTLED_WIN|SETTLED_LOSE -> PENDING_APPROVAL -> CLAIMED,
// com cancelamento permitido em qualquer estado não terminal.
type Service struct {
	log            *zap.Logger
	repo           Repo
	ledger         Ledger
	publ           Publisher
	manualApproval bool
}

func New(log *zap.Logger, r Repo, l Ledger, p Publisher, manualApproval bool) *Service {
	return &Service{log: log, repo: r, ledger: l, publ: p, manualApproval: manualApproval}
}

// ClaimOutcome é o desfecho de um pedido de resgate/aprovação
type ClaimOutcome struct {
	TicketNumber string
	Status       settlement.TicketStatus
	PayoutCents  int64
	ClaimedAt    time.Time
	ApprovedBy   string
}

// RequestClaim executa o fluxo de resgate:
// 1. carrega bilhete + sorteio (ErrTicketNotFound se não existir)
// 2. exige sorteio com resultado (ErrDrawNotSettled)
// 3. recalcula a liquidação pelo motor — nunca confia em valor gravado
// 4. bilhete sem aposta vencedora -> ErrNotAWinningTicket
// 5. transição atômica: PENDING_APPROVAL ou direto CLAIMED conforme política
func (s *Service) RequestClaim(ctx context.Context, ticketNumber string) (*ClaimOutcome, error) {
	ticket, draw, err := s.repo.GetTicket(ctx, ticketNumber)
	if err != nil {
		return nil, err
	}
	if !draw.Completed() {
		return nil, settlement.ErrDrawNotSettled
	}

	sum, err := s.settle(ctx, ticket, draw)
	if err != nil {
		return nil, err
	}
	if sum.WinningBetCount == 0 {
		return nil, ErrNotAWinningTicket
	}

	if s.manualApproval {
		if err := s.repo.TransitionToPending(ctx, ticketNumber); err != nil {
			return nil, err
		}
		s.log.Info("claim pending approval",
			zap.String("ticketNumber", ticketNumber),
			zap.Int64("payoutCents", sum.TotalPayoutCents),
		)
		return &ClaimOutcome{
			TicketNumber: ticketNumber,
			Status:       settlement.TicketPendingApproval,
			PayoutCents:  sum.TotalPayoutCents,
		}, nil
	}

	return s.finalize(ctx, ticket, sum, "")
}

// ApproveClaim efetiva um resgate que aguardava aprovação manual.
// O prêmio é recalculado de novo na aprovação: o valor pago é sempre
// o da liquidação, não um número carregado da tela.
func (s *Service) ApproveClaim(ctx context.Context, ticketNumber, approvedBy string) (*ClaimOutcome, error) {
	ticket, draw, err := s.repo.GetTicket(ctx, ticketNumber)
	if err != nil {
		return nil, err
	}
	if ticket.Status != settlement.TicketPendingApproval {
		if ticket.Status == settlement.TicketClaimed {
			return nil, repo.ErrAlreadyClaimed
		}
		return nil, ErrNotPendingApproval
	}

	sum, err := s.settle(ctx, ticket, draw)
	if err != nil {
		return nil, err
	}
	if sum.WinningBetCount == 0 {
		return nil, ErrNotAWinningTicket
	}

	return s.finalize(ctx, ticket, sum, approvedBy)
}

// Verify é a consulta read-only "esse bilhete é premiado?" dos agentes.
// Nenhuma mutação de estado: só a liquidação recalculada.
func (s *Service) Verify(ctx context.Context, ticketNumber string) (settlement.Ticket, settlement.Summary, error) {
	ticket, draw, err := s.repo.GetTicket(ctx, ticketNumber)
	if err != nil {
		return settlement.Ticket{}, settlement.Summary{}, err
	}
	sum, err := s.settle(ctx, ticket, draw)
	if err != nil {
		return settlement.Ticket{}, settlement.Summary{}, err
	}
	return ticket, sum, nil
}

// CancelTicket anula um bilhete (voided) em qualquer estado não terminal
func (s *Service) CancelTicket(ctx context.Context, ticketNumber, reason string) error {
	return s.repo.Cancel(ctx, ticketNumber, reason)
}

func (s *Service) settle(ctx context.Context, ticket settlement.Ticket, draw settlement.Draw) (settlement.Summary, error) {
	table, err := s.repo.PrizeTable(ctx)
	if err != nil {
		return settlement.Summary{}, err
	}
	return settlement.Settle(ticket, draw, table)
}

// finalize faz a transição pra CLAIMED e emite exatamente um crédito
// no ledger. Se o crédito falhar depois do commit, NÃO desfaz o estado:
// inconsistência fatal pra reconciliação manual (um pagamento parcial é
// menos danoso que um resgate perdido silenciosamente).
func (s *Service) finalize(ctx context.Context, ticket settlement.Ticket, sum settlement.Summary, approvedBy string) (*ClaimOutcome, error) {
	rec, err := s.repo.TransitionToClaimed(ctx, ticket.TicketNumber, sum.TotalPayoutCents, approvedBy)
	if err != nil {
		return nil, err
	}

	if err := s.ledger.Credit(ctx, ticket.ID, rec.PayoutCents, "claim:"+ticket.TicketNumber); err != nil {
		s.log.Error("ledger credit failed after claim commit, manual reconciliation required",
			zap.String("ticketNumber", ticket.TicketNumber),
			zap.String("claimRecordId", rec.ID),
			zap.Int64("payoutCents", rec.PayoutCents),
			zap.Error(err),
		)
	}

	if s.publ != nil {
		_ = s.publ.PublishTicketClaimed(ctx, events.TicketClaimed{
			TicketNumber: ticket.TicketNumber,
			DrawID:       ticket.DrawID,
			PayoutCents:  rec.PayoutCents,
			ClaimedAt:    rec.ClaimedAt,
			ApprovedBy:   approvedBy,
		})
	}

	s.log.Info("ticket claimed",
		zap.String("ticketNumber", ticket.TicketNumber),
		zap.Int64("payoutCents", rec.PayoutCents),
	)

	return &ClaimOutcome{
		TicketNumber: ticket.TicketNumber,
		Status:       settlement.TicketClaimed,
		PayoutCents:  rec.PayoutCents,
		ClaimedAt:    rec.ClaimedAt,
		ApprovedBy:   approvedBy,
	}, nil
}
