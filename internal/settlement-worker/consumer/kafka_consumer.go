package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/lottery-platform-poc/internal/settlement"
	wcache "github.com/radieske/lottery-platform-poc/internal/settlement-worker/cache"
	"github.com/radieske/lottery-platform-poc/internal/settlement-worker/pubsub"
	"github.com/radieske/lottery-platform-poc/internal/settlement-worker/repo"
	"github.com/radieske/lottery-platform-poc/internal/shared/kafka"
	"github.com/radieske/lottery-platform-poc/pkg/contracts/events"
)

// Processor consome resultados de sorteio do Kafka, liquida os bilhetes
// afetados e propaga o desfecho (banco, cache, evento, broadcast WS).
// Callbacks de métricas podem ser usadas para monitoramento de cada etapa
type Processor struct {
	Log         *zap.Logger
	Reader      *kafkago.Reader
	Repo        *repo.PostgresRepo
	Cache       *wcache.RedisCache
	Broadcaster *pubsub.RedisBroadcaster
	Channel     string // canal Redis Pub/Sub de broadcast

	SettledWriter *kafkago.Writer // tópico ticket_settled
	DLQWriter     *kafkago.Writer // mensagens envenenadas

	OnConsumed func()       // métricas (counter++)
	OnSettled  func()       // métricas: bilhete liquidado
	OnError    func(string) // métricas por fase
}

// Run inicia o loop principal de consumo e liquidação
func (p *Processor) Run(ctx context.Context) error {
	for {
		m, err := p.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err() // encerra se o contexto for cancelado
			}
			p.Log.Warn("kafka read failed", zap.Error(err))
			p.errored("read")
			time.Sleep(500 * time.Millisecond)
			continue
		}

		if p.OnConsumed != nil {
			p.OnConsumed()
		}

		var ev events.DrawResultEntered
		if err := json.Unmarshal(m.Value, &ev); err != nil {
			p.Log.Warn("invalid message", zap.Error(err))
			p.errored("decode")
			p.toDLQ(ctx, m.Key, m.Value)
			continue
		}

		if err := p.processDraw(ctx, ev); err != nil {
			p.Log.Error("process draw result", zap.String("drawId", ev.DrawID), zap.Error(err))
			// Backoff simples para evitar flood em caso de erro
			time.Sleep(500 * time.Millisecond)
		}
	}
}

// processDraw executa o fluxo de liquidação de um sorteio:
// 1. Valida o número sorteado (largura fixa, só dígitos)
// 2. Grava o resultado e encerra o sorteio (único caminho de escrita)
// 3. Liquida cada bilhete ACTIVE pelo motor com o snapshot vigente
// 4. Atualiza status, cacheia o resumo e publica ticket_settled
func (p *Processor) processDraw(ctx context.Context, ev events.DrawResultEntered) error {
	if err := settlement.ValidateCombination(ev.WinningNumber); err != nil {
		p.errored("validate")
		p.toDLQ(ctx, []byte(ev.DrawID), mustJSON(ev))
		return err
	}

	if err := p.Repo.CompleteDraw(ctx, ev); err != nil {
		if errors.Is(err, repo.ErrDrawNotFound) || errors.Is(err, repo.ErrDrawImmutable) {
			p.errored("complete")
			p.toDLQ(ctx, []byte(ev.DrawID), mustJSON(ev))
			return err
		}
		p.errored("complete")
		return err
	}

	draw, err := p.Repo.GetDraw(ctx, ev.DrawID)
	if err != nil {
		p.errored("load")
		return err
	}

	// snapshot dos multiplicadores lido uma vez por sorteio
	table, err := p.Repo.PrizeTable(ctx)
	if err != nil {
		p.errored("load")
		return err
	}

	tickets, err := p.Repo.ListActiveTickets(ctx, ev.DrawID)
	if err != nil {
		p.errored("load")
		return err
	}

	p.Log.Info("settling draw",
		zap.String("drawId", ev.DrawID),
		zap.String("winningNumber", ev.WinningNumber),
		zap.Int("tickets", len(tickets)),
	)

	for _, t := range tickets {
		if err := p.settleTicket(ctx, t, draw, table); err != nil {
			// bilhete malformado não derruba o lote; fica pra investigação
			p.Log.Warn("settle ticket failed",
				zap.String("ticketNumber", t.TicketNumber), zap.Error(err))
			p.errored("settle")
		}
	}
	return nil
}

func (p *Processor) settleTicket(ctx context.Context, t settlement.Ticket, d settlement.Draw, table settlement.PrizeTable) error {
	sum, err := settlement.Settle(t, d, table)
	if err != nil {
		return err
	}

	newStatus := sum.DerivedStatus()
	if err := p.Repo.MarkSettled(ctx, t.ID, newStatus); err != nil {
		return err
	}

	// cache do resumo (best effort; não bloqueia a liquidação)
	if p.Cache != nil {
		if err := p.Cache.SetSummary(ctx, sum); err != nil {
			p.Log.Warn("redis set failed", zap.Error(err))
			p.errored("cache")
		}
	}

	ev := events.TicketSettled{
		TicketNumber:    t.TicketNumber,
		DrawID:          d.ID,
		AgentID:         t.AgentID,
		Status:          string(newStatus),
		WinningBetCount: sum.WinningBetCount,
		PayoutCents:     sum.TotalPayoutCents,
		SettledAt:       time.Now().UTC(),
	}
	if p.SettledWriter != nil {
		if err := kafka.WriteJSON(ctx, p.SettledWriter, t.TicketNumber, mustJSON(ev)); err != nil {
			p.errored("publish")
			return err
		}
	}

	if p.Broadcaster != nil {
		upd := pubsub.WSUpdate{DrawID: d.ID, Payload: ev}
		if err := p.Broadcaster.Publish(ctx, p.Channel, mustJSON(upd)); err != nil {
			p.Log.Warn("pubsub publish failed", zap.Error(err))
			p.errored("broadcast")
		}
	}

	if p.OnSettled != nil {
		p.OnSettled()
	}
	return nil
}

func (p *Processor) toDLQ(ctx context.Context, key, value []byte) {
	if p.DLQWriter == nil {
		return
	}
	if err := kafka.WriteJSON(ctx, p.DLQWriter, string(key), value); err != nil {
		p.Log.Error("dlq write failed", zap.Error(err))
	}
}

func (p *Processor) errored(stage string) {
	if p.OnError != nil {
		p.OnError(stage)
	}
}

func mustJSON(v any) []byte {
	b, _ := json.Marshal(v)
	return b
}
