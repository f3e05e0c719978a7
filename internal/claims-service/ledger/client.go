package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client fala com o Balance Ledger externo. Este core não implementa
// armazenamento de saldo: só emite exatamente uma instrução de crédito
// por resgate efetivado.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(base string) *Client {
	return &Client{
		BaseURL: base,
		HTTP:    &http.Client{Timeout: 2 * time.Second},
	}
}

type creditRequest struct {
	TicketID    string `json:"ticket_id"`
	AmountCents int64  `json:"amount_cents"`
	ExternalRef string `json:"external_ref"` // ex: claim:{ticketNumber}
}

// Credit emite a instrução de crédito do prêmio pro agente
func (c *Client) Credit(ctx context.Context, ticketID string, amountCents int64, externalRef string) error {
	body, _ := json.Marshal(creditRequest{TicketID: ticketID, AmountCents: amountCents, ExternalRef: externalRef})
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/ledger/credit", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return fmt.Errorf("ledger credit http %d", res.StatusCode)
	}
	return nil
}
