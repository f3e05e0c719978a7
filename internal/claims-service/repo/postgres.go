package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/radieske/lottery-platform-poc/internal/settlement"
)

// Postgres implementa a persistência de bilhetes e resgates
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

var (
	ErrTicketNotFound    = errors.New("ticket not found")
	ErrAlreadyClaimed    = errors.New("ticket already claimed")
	ErrClaimPending      = errors.New("claim already pending approval")
	ErrInvalidTransition = errors.New("invalid ticket status transition")
)

// GetTicket carrega bilhete + sorteio + apostas (ordem estável de inserção)
func (p *Postgres) GetTicket(ctx context.Context, ticketNumber string) (settlement.Ticket, settlement.Draw, error) {
	var t settlement.Ticket
	var d settlement.Draw
	var winning sql.NullString

	err := p.db.QueryRowContext(ctx, `
		SELECT t.id, t.ticket_number, t.agent_id, t.draw_id, t.total_amount_cents, t.status, t.created_at,
		       d.id, d.draw_date, d.draw_time, d.winning_number, d.status
		FROM tickets t
		JOIN draws d ON d.id = t.draw_id
		WHERE t.ticket_number = $1`, ticketNumber).
		Scan(&t.ID, &t.TicketNumber, &t.AgentID, &t.DrawID, &t.TotalAmountCents, &t.Status, &t.CreatedAt,
			&d.ID, &d.DrawDate, &d.DrawTime, &winning, &d.Status)
	if err == sql.ErrNoRows {
		return t, d, ErrTicketNotFound
	}
	if err != nil {
		return t, d, err
	}
	d.WinningNumber = winning.String

	rows, err := p.db.QueryContext(ctx, `
		SELECT id, bet_type, bet_combination, amount_cents
		FROM bets
		WHERE ticket_id = $1
		ORDER BY created_at, id`, t.ID)
	if err != nil {
		return t, d, err
	}
	defer rows.Close()
	for rows.Next() {
		var b settlement.Bet
		if err := rows.Scan(&b.ID, &b.Type, &b.Combination, &b.AmountCents); err != nil {
			return t, d, err
		}
		t.Bets = append(t.Bets, b)
	}
	return t, d, rows.Err()
}

// PrizeTable lê o snapshot vigente de multiplicadores. Sempre consultado
// na hora da liquidação, nunca cacheado em variável global.
func (p *Postgres) PrizeTable(ctx context.Context) (settlement.PrizeTable, error) {
	table := settlement.DefaultPrizeTable()

	rows, err := p.db.QueryContext(ctx, `SELECT config_key, multiplier FROM prize_configurations`)
	if err != nil {
		return table, err
	}
	defer rows.Close()
	for rows.Next() {
		var key string
		var mult int64
		if err := rows.Scan(&key, &mult); err != nil {
			return table, err
		}
		switch key {
		case "standard":
			table.Standard = mult
		case "rambolito_unique":
			table.RamboliteUnique = mult
		case "rambolito_double":
			table.RamboliteDouble = mult
		}
	}
	return table, rows.Err()
}

// lockTicket trava a linha do bilhete (escritor único por ticket)
func lockTicket(ctx context.Context, tx *sql.Tx, ticketNumber string) (id string, status settlement.TicketStatus, err error) {
	err = tx.QueryRowContext(ctx,
		`SELECT id, status FROM tickets WHERE ticket_number=$1 FOR UPDATE`, ticketNumber).
		Scan(&id, &status)
	if err == sql.ErrNoRows {
		return "", "", ErrTicketNotFound
	}
	return id, status, err
}

// claimExists verifica, já dentro da transação, se o bilhete tem resgate
func claimExists(ctx context.Context, tx *sql.Tx, ticketID string) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM claim_records WHERE ticket_id=$1`, ticketID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// auditTransition registra a trilha de mudança de status do bilhete
func auditTransition(ctx context.Context, tx *sql.Tx, ticketID string, from, to settlement.TicketStatus, reason string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO ticket_status_transitions (ticket_id, old_status, new_status, reason, created_at)
		VALUES ($1,$2,$3,$4,NOW())`, ticketID, from, to, reason)
	return err
}

// TransitionToPending move o bilhete pra PENDING_APPROVAL sob lock da linha
func (p *Postgres) TransitionToPending(ctx context.Context, ticketNumber string) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	id, status, err := lockTicket(ctx, tx, ticketNumber)
	if err != nil {
		return err
	}

	if exists, err := claimExists(ctx, tx, id); err != nil {
		return err
	} else if exists {
		return ErrAlreadyClaimed
	}
	if status == settlement.TicketPendingApproval {
		return ErrClaimPending
	}
	if !status.CanTransition(settlement.TicketPendingApproval) {
		if status == settlement.TicketClaimed {
			return ErrAlreadyClaimed
		}
		return ErrInvalidTransition
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE tickets SET status=$1, updated_at=NOW() WHERE id=$2`,
		settlement.TicketPendingApproval, id); err != nil {
		return err
	}
	if err = auditTransition(ctx, tx, id, status, settlement.TicketPendingApproval, "claim requested"); err != nil {
		return err
	}

	return tx.Commit()
}

// TransitionToClaimed efetiva o resgate: insere o ClaimRecord e move o
// bilhete pra CLAIMED na mesma transação, sob lock da linha. A corrida
// perdida resolve deterministicamente em ErrAlreadyClaimed, seja pela
// checagem de existência, seja pela constraint UNIQUE(ticket_id).
func (p *Postgres) TransitionToClaimed(ctx context.Context, ticketNumber string, payoutCents int64, approvedBy string) (*ClaimRecord, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	id, status, err := lockTicket(ctx, tx, ticketNumber)
	if err != nil {
		return nil, err
	}

	if exists, err := claimExists(ctx, tx, id); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrAlreadyClaimed
	}
	if !status.CanTransition(settlement.TicketClaimed) {
		if status == settlement.TicketClaimed {
			return nil, ErrAlreadyClaimed
		}
		return nil, ErrInvalidTransition
	}

	rec := &ClaimRecord{
		ID:           uuid.NewString(),
		TicketID:     id,
		TicketNumber: ticketNumber,
		PayoutCents:  payoutCents,
		ClaimedAt:    time.Now().UTC(),
		ApprovedBy:   approvedBy,
	}

	var approved sql.NullString
	if approvedBy != "" {
		approved = sql.NullString{String: approvedBy, Valid: true}
	}
	if _, err = tx.ExecContext(ctx, `
		INSERT INTO claim_records (id, ticket_id, payout_cents, claimed_at, approved_by)
		VALUES ($1,$2,$3,$4,$5)`,
		rec.ID, id, payoutCents, rec.ClaimedAt, approved); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
			return nil, ErrAlreadyClaimed
		}
		return nil, err
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE tickets SET status=$1, updated_at=NOW() WHERE id=$2`,
		settlement.TicketClaimed, id); err != nil {
		return nil, err
	}
	if err = auditTransition(ctx, tx, id, status, settlement.TicketClaimed, "claim paid"); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return rec, nil
}

// Cancel anula um bilhete (voided). CLAIMED é terminal e não cancela.
func (p *Postgres) Cancel(ctx context.Context, ticketNumber, reason string) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	id, status, err := lockTicket(ctx, tx, ticketNumber)
	if err != nil {
		return err
	}
	if !status.CanTransition(settlement.TicketCancelled) {
		if status == settlement.TicketClaimed {
			return ErrAlreadyClaimed
		}
		return ErrInvalidTransition
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE tickets SET status=$1, updated_at=NOW() WHERE id=$2`,
		settlement.TicketCancelled, id); err != nil {
		return err
	}
	if err = auditTransition(ctx, tx, id, status, settlement.TicketCancelled, reason); err != nil {
		return err
	}

	return tx.Commit()
}
