package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/lottery-platform-poc/internal/claims-service/repo"
	"github.com/radieske/lottery-platform-poc/internal/settlement"
	"github.com/radieske/lottery-platform-poc/pkg/contracts/events"
)

// memRepo reproduz em memória a semântica do repositório Postgres:
// transições sob lock (escritor único) e no máximo um ClaimRecord.
type memRepo struct {
	mu     sync.Mutex
	ticket settlement.Ticket
	draw   settlement.Draw
	table  settlement.PrizeTable
	claim  *repo.ClaimRecord
}

func (m *memRepo) GetTicket(_ context.Context, ticketNumber string) (settlement.Ticket, settlement.Draw, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ticketNumber != m.ticket.TicketNumber {
		return settlement.Ticket{}, settlement.Draw{}, repo.ErrTicketNotFound
	}
	return m.ticket, m.draw, nil
}

func (m *memRepo) PrizeTable(context.Context) (settlement.PrizeTable, error) {
	return m.table, nil
}

func (m *memRepo) TransitionToPending(_ context.Context, ticketNumber string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ticketNumber != m.ticket.TicketNumber {
		return repo.ErrTicketNotFound
	}
	if m.claim != nil {
		return repo.ErrAlreadyClaimed
	}
	if m.ticket.Status == settlement.TicketPendingApproval {
		return repo.ErrClaimPending
	}
	if !m.ticket.Status.CanTransition(settlement.TicketPendingApproval) {
		return repo.ErrInvalidTransition
	}
	m.ticket.Status = settlement.TicketPendingApproval
	return nil
}

func (m *memRepo) TransitionToClaimed(_ context.Context, ticketNumber string, payoutCents int64, approvedBy string) (*repo.ClaimRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ticketNumber != m.ticket.TicketNumber {
		return nil, repo.ErrTicketNotFound
	}
	if m.claim != nil {
		return nil, repo.ErrAlreadyClaimed
	}
	if !m.ticket.Status.CanTransition(settlement.TicketClaimed) {
		if m.ticket.Status == settlement.TicketClaimed {
			return nil, repo.ErrAlreadyClaimed
		}
		return nil, repo.ErrInvalidTransition
	}
	m.ticket.Status = settlement.TicketClaimed
	m.claim = &repo.ClaimRecord{
		ID:           "rec-1",
		TicketID:     m.ticket.ID,
		TicketNumber: ticketNumber,
		PayoutCents:  payoutCents,
		ClaimedAt:    time.Now().UTC(),
		ApprovedBy:   approvedBy,
	}
	out := *m.claim
	return &out, nil
}

func (m *memRepo) Cancel(_ context.Context, ticketNumber, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ticketNumber != m.ticket.TicketNumber {
		return repo.ErrTicketNotFound
	}
	if !m.ticket.Status.CanTransition(settlement.TicketCancelled) {
		if m.ticket.Status == settlement.TicketClaimed {
			return repo.ErrAlreadyClaimed
		}
		return repo.ErrInvalidTransition
	}
	m.ticket.Status = settlement.TicketCancelled
	return nil
}

// countingLedger conta instruções de crédito emitidas
type countingLedger struct {
	mu      sync.Mutex
	credits int
	fail    bool
}

func (l *countingLedger) Credit(context.Context, string, int64, string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.credits++
	if l.fail {
		return errors.New("ledger unavailable")
	}
	return nil
}

type nopPublisher struct{}

func (nopPublisher) PublishTicketClaimed(context.Context, events.TicketClaimed) error { return nil }

func winningRepo() *memRepo {
	return &memRepo{
		ticket: settlement.Ticket{
			ID:           "t-id-1",
			TicketNumber: "17000000000000001",
			AgentID:      "agent-1",
			DrawID:       "d1",
			Status:       settlement.TicketSettledWin,
			Bets: []settlement.Bet{
				{ID: "b1", Type: settlement.BetTypeStandard, Combination: "215", AmountCents: 10000},
			},
		},
		draw: settlement.Draw{
			ID: "d1", DrawDate: "2026-08-28", DrawTime: settlement.DrawTimeTwoPM,
			WinningNumber: "215", Status: settlement.DrawCompleted,
		},
		table: settlement.DefaultPrizeTable(),
	}
}

func newService(r Repo, l Ledger, manual bool) *Service {
	return New(zap.NewNop(), r, l, nopPublisher{}, manual)
}

func TestRequestClaimDirect(t *testing.T) {
	r := winningRepo()
	l := &countingLedger{}
	svc := newService(r, l, false)

	out, err := svc.RequestClaim(context.Background(), "17000000000000001")
	require.NoError(t, err)

	assert.Equal(t, settlement.TicketClaimed, out.Status)
	assert.Equal(t, int64(4500000), out.PayoutCents) // 100.00 * 450
	assert.Equal(t, 1, l.credits)
	require.NotNil(t, r.claim)
	assert.Equal(t, int64(4500000), r.claim.PayoutCents)
}

func TestRequestClaimManualApprovalFlow(t *testing.T) {
	r := winningRepo()
	l := &countingLedger{}
	svc := newService(r, l, true)

	out, err := svc.RequestClaim(context.Background(), "17000000000000001")
	require.NoError(t, err)
	assert.Equal(t, settlement.TicketPendingApproval, out.Status)
	assert.Zero(t, l.credits) // crédito só na aprovação
	assert.Nil(t, r.claim)

	// segundo pedido enquanto pende aprovação
	_, err = svc.RequestClaim(context.Background(), "17000000000000001")
	assert.ErrorIs(t, err, repo.ErrClaimPending)

	out, err = svc.ApproveClaim(context.Background(), "17000000000000001", "admin-7")
	require.NoError(t, err)
	assert.Equal(t, settlement.TicketClaimed, out.Status)
	assert.Equal(t, "admin-7", out.ApprovedBy)
	assert.Equal(t, 1, l.credits)
}

func TestRequestClaimTicketNotFound(t *testing.T) {
	svc := newService(winningRepo(), &countingLedger{}, false)
	_, err := svc.RequestClaim(context.Background(), "00000000000000000")
	assert.ErrorIs(t, err, repo.ErrTicketNotFound)
}

func TestRequestClaimBeforeSettlement(t *testing.T) {
	r := winningRepo()
	r.draw.Status = settlement.DrawActive
	r.draw.WinningNumber = ""
	r.ticket.Status = settlement.TicketActive
	l := &countingLedger{}
	svc := newService(r, l, false)

	_, err := svc.RequestClaim(context.Background(), "17000000000000001")
	assert.ErrorIs(t, err, settlement.ErrDrawNotSettled)

	// nenhuma mudança de estado, nenhum crédito
	assert.Equal(t, settlement.TicketActive, r.ticket.Status)
	assert.Zero(t, l.credits)
}

func TestRequestClaimNotAWinningTicket(t *testing.T) {
	r := winningRepo()
	r.ticket.Bets = []settlement.Bet{{ID: "b1", Type: settlement.BetTypeStandard, Combination: "999", AmountCents: 10000}}
	r.ticket.Status = settlement.TicketSettledLose
	svc := newService(r, &countingLedger{}, false)

	_, err := svc.RequestClaim(context.Background(), "17000000000000001")
	assert.ErrorIs(t, err, ErrNotAWinningTicket)
}

func TestSecondClaimGetsAlreadyClaimed(t *testing.T) {
	r := winningRepo()
	svc := newService(r, &countingLedger{}, false)

	_, err := svc.RequestClaim(context.Background(), "17000000000000001")
	require.NoError(t, err)

	_, err = svc.RequestClaim(context.Background(), "17000000000000001")
	assert.ErrorIs(t, err, repo.ErrAlreadyClaimed)
}

func TestConcurrentClaimsSingleWinner(t *testing.T) {
	r := winningRepo()
	l := &countingLedger{}
	svc := newService(r, l, false)

	const n = 32
	var wg sync.WaitGroup
	results := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RequestClaim(context.Background(), "17000000000000001")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var ok, alreadyClaimed int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, repo.ErrAlreadyClaimed):
			alreadyClaimed++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	// exatamente um CLAIMED, exatamente um crédito, todos os demais 409
	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, alreadyClaimed)
	assert.Equal(t, 1, l.credits)
	require.NotNil(t, r.claim)
}

func TestLedgerFailureDoesNotRollbackClaim(t *testing.T) {
	r := winningRepo()
	l := &countingLedger{fail: true}
	svc := newService(r, l, false)

	out, err := svc.RequestClaim(context.Background(), "17000000000000001")
	require.NoError(t, err) // resgate mantido; reconciliação manual

	assert.Equal(t, settlement.TicketClaimed, out.Status)
	assert.Equal(t, settlement.TicketClaimed, r.ticket.Status)
	require.NotNil(t, r.claim)
}

func TestApproveRequiresPendingState(t *testing.T) {
	r := winningRepo()
	svc := newService(r, &countingLedger{}, true)

	_, err := svc.ApproveClaim(context.Background(), "17000000000000001", "admin-7")
	assert.ErrorIs(t, err, ErrNotPendingApproval)
}

func TestVerifyIsReadOnly(t *testing.T) {
	r := winningRepo()
	svc := newService(r, &countingLedger{}, false)

	before := r.ticket.Status
	ticket, sum, err := svc.Verify(context.Background(), "17000000000000001")
	require.NoError(t, err)

	assert.Equal(t, 1, sum.WinningBetCount)
	assert.Equal(t, int64(4500000), sum.TotalPayoutCents)
	assert.Equal(t, "agent-1", ticket.AgentID)
	assert.Equal(t, before, r.ticket.Status)
	assert.Nil(t, r.claim)
}

func TestCancelClaimedTicketFails(t *testing.T) {
	r := winningRepo()
	svc := newService(r, &countingLedger{}, false)

	_, err := svc.RequestClaim(context.Background(), "17000000000000001")
	require.NoError(t, err)

	err = svc.CancelTicket(context.Background(), "17000000000000001", "void request")
	assert.ErrorIs(t, err, repo.ErrAlreadyClaimed)
}
