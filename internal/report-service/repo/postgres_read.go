package repo

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/radieske/lottery-platform-poc/internal/settlement"
)

// ReadRepo faz as leituras de relatório. Só carrega pares
// (bilhete, sorteio): todo número de prêmio sai do motor de liquidação,
// nunca de uma agregação SQL paralela.
type ReadRepo struct {
	DB *sql.DB
}

// ListDraws retorna os sorteios de uma data
func (r *ReadRepo) ListDraws(ctx context.Context, date string) ([]settlement.Draw, error) {
	const q = `
		SELECT id, draw_date, draw_time, winning_number, status
		FROM draws
		WHERE draw_date = $1
		ORDER BY draw_time;
	`
	rows, err := r.DB.QueryContext(ctx, q, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []settlement.Draw
	for rows.Next() {
		var d settlement.Draw
		var winning sql.NullString
		if err := rows.Scan(&d.ID, &d.DrawDate, &d.DrawTime, &winning, &d.Status); err != nil {
			return nil, err
		}
		d.WinningNumber = winning.String
		out = append(out, d)
	}
	return out, rows.Err()
}

// ListTicketDraws carrega os pares (bilhete, sorteio) do escopo pedido.
// Bilhetes cancelados ficam fora de qualquer agregado.
func (r *ReadRepo) ListTicketDraws(ctx context.Context, date string, drawTime settlement.DrawTime, drawID string) ([]settlement.TicketDraw, error) {
	q := `
		SELECT t.id, t.ticket_number, t.agent_id, t.draw_id, t.total_amount_cents, t.status, t.created_at,
		       d.id, d.draw_date, d.draw_time, d.winning_number, d.status
		FROM tickets t
		JOIN draws d ON d.id = t.draw_id
		WHERE t.status <> $1`
	args := []any{settlement.TicketCancelled}

	if date != "" {
		args = append(args, date)
		q += ` AND d.draw_date = $2`
	}
	if drawTime != "" {
		args = append(args, drawTime)
		q += ` AND d.draw_time = $` + strconv.Itoa(len(args))
	}
	if drawID != "" {
		args = append(args, drawID)
		q += ` AND d.id = $` + strconv.Itoa(len(args))
	}
	q += ` ORDER BY t.created_at, t.id`

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []settlement.TicketDraw
	for rows.Next() {
		var p settlement.TicketDraw
		var winning sql.NullString
		if err := rows.Scan(
			&p.Ticket.ID, &p.Ticket.TicketNumber, &p.Ticket.AgentID, &p.Ticket.DrawID,
			&p.Ticket.TotalAmountCents, &p.Ticket.Status, &p.Ticket.CreatedAt,
			&p.Draw.ID, &p.Draw.DrawDate, &p.Draw.DrawTime, &winning, &p.Draw.Status,
		); err != nil {
			return nil, err
		}
		p.Draw.WinningNumber = winning.String
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		if err := r.loadBets(ctx, &out[i].Ticket); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *ReadRepo) loadBets(ctx context.Context, t *settlement.Ticket) error {
	rows, err := r.DB.QueryContext(ctx, `
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
func (r *ReadRepo) PrizeTable(ctx context.Context) (settlement.PrizeTable, error) {
	table := settlement.DefaultPrizeTable()

	rows, err := r.DB.QueryContext(ctx, `SELECT config_key, multiplier FROM prize_configurations`)
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
