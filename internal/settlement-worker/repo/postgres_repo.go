package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/radieske/lottery-platform-poc/internal/settlement"
	"github.com/radieske/lottery-platform-poc/pkg/contracts/events"
)

// PostgresRepo persiste o resultado do sorteio e o status dos bilhetes
type PostgresRepo struct{ DB *sql.DB }

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{DB: db} }

var (
	ErrDrawNotFound = errors.New("draw not found")

	// ErrDrawImmutable: tentativa de regravar resultado divergente em
	// sorteio já encerrado. Sorteio COMPLETED nunca muda.
	ErrDrawImmutable = errors.New("draw already completed with a different winning number")
)

// CompleteDraw grava o número sorteado e encerra o sorteio. Este é o
// único caminho de escrita de winning_number no sistema. Idempotente
// pra reentrega do Kafka: mesmo resultado de novo é no-op.
func (p *PostgresRepo) CompleteDraw(ctx context.Context, ev events.DrawResultEntered) error {
	tx, err := p.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var status settlement.DrawStatus
	var winning sql.NullString
	err = tx.QueryRowContext(ctx,
		`SELECT status, winning_number FROM draws WHERE id=$1 FOR UPDATE`, ev.DrawID).
		Scan(&status, &winning)
	if err == sql.ErrNoRows {
		return ErrDrawNotFound
	}
	if err != nil {
		return err
	}

	if status == settlement.DrawCompleted {
		if winning.String != ev.WinningNumber {
			return fmt.Errorf("%w: draw %s has %q, got %q",
				ErrDrawImmutable, ev.DrawID, winning.String, ev.WinningNumber)
		}
		return tx.Commit() // reentrega do mesmo resultado
	}

	if _, err = tx.ExecContext(ctx, `
		UPDATE draws SET winning_number=$1, status=$2, updated_at=NOW()
		WHERE id=$3`,
		ev.WinningNumber, settlement.DrawCompleted, ev.DrawID); err != nil {
		return err
	}

	return tx.Commit()
}

// GetDraw retorna o sorteio atual
func (p *PostgresRepo) GetDraw(ctx context.Context, drawID string) (settlement.Draw, error) {
	var d settlement.Draw
	var winning sql.NullString
	err := p.DB.QueryRowContext(ctx, `
		SELECT id, draw_date, draw_time, winning_number, status
		FROM draws WHERE id=$1`, drawID).
		Scan(&d.ID, &d.DrawDate, &d.DrawTime, &winning, &d.Status)
	if err == sql.ErrNoRows {
		return d, ErrDrawNotFound
	}
	d.WinningNumber = winning.String
	return d, err
}

// ListActiveTickets carrega os bilhetes ACTIVE do sorteio, com apostas
// em ordem estável
func (p *PostgresRepo) ListActiveTickets(ctx context.Context, drawID string) ([]settlement.Ticket, error) {
	rows, err := p.DB.QueryContext(ctx, `
		SELECT id, ticket_number, agent_id, draw_id, total_amount_cents, status, created_at
		FROM tickets
		WHERE draw_id=$1 AND status=$2
		ORDER BY created_at, id`, drawID, settlement.TicketActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []settlement.Ticket
	for rows.Next() {
		var t settlement.Ticket
		if err := rows.Scan(&t.ID, &t.TicketNumber, &t.AgentID, &t.DrawID,
			&t.TotalAmountCents, &t.Status, &t.CreatedAt); err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range tickets {
		if err := p.loadBets(ctx, &tickets[i]); err != nil {
			return nil, err
		}
	}
	return tickets, nil
}

func (p *PostgresRepo) loadBets(ctx context.Context, t *settlement.Ticket) error {
	rows, err := p.DB.QueryContext(ctx, `
		SELECT id, bet_type, bet_combination, amount_cents
		FROM bets
		WHERE ticket_id=$1
		ORDER BY created_at, id`, t.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var b settlement.Bet
		if err := rows.Scan(&b.ID, &b.Type, &b.Combination, &b.AmountCents); err != nil {
			return err
		}
		t.Bets = append(t.Bets, b)
	}
	return rows.Err()
}

// PrizeTable lê o snapshot de multiplicadores vigente
func (p *PostgresRepo) PrizeTable(ctx context.Context) (settlement.PrizeTable, error) {
	table := settlement.DefaultPrizeTable()

	rows, err := p.DB.QueryContext(ctx, `SELECT config_key, multiplier FROM prize_configurations`)
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

// MarkSettled move o bilhete de ACTIVE pro status derivado da
// liquidação, com trilha de auditoria
func (p *PostgresRepo) MarkSettled(ctx context.Context, ticketID string, to settlement.TicketStatus) error {
	tx, err := p.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE tickets SET status=$1, updated_at=NOW()
		WHERE id=$2 AND status=$3`,
		to, ticketID, settlement.TicketActive)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return tx.Commit() // já liquidado por reentrega anterior
	}

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO ticket_status_transitions (ticket_id, old_status, new_status, reason, created_at)
		VALUES ($1,$2,$3,$4,NOW())`,
		ticketID, settlement.TicketActive, to, "draw settled"); err != nil {
		return err
	}

	return tx.Commit()
}
