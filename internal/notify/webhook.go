package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"storefront/internal/models"
)

// Webhook posts each placed order to the external order log (a
// spreadsheet endpoint). The contract is best-effort: no retry, no
// timeout, the response is discarded. Nothing user-visible depends on a
// delivery succeeding.
type Webhook struct {
	url    string
	client *http.Client
}

func NewWebhook(url string) *Webhook {
	return &Webhook{url: url, client: &http.Client{}}
}

type orderEnvelope struct {
	Data *models.Order `json:"data"`
}

// Dispatch sends the order on a background goroutine and returns
// immediately. A nil receiver or empty URL turns it into a no-op.
func (w *Webhook) Dispatch(order *models.Order) {
	if w == nil || w.url == "" {
		return
	}
	go func() {
		if err := w.Deliver(order); err != nil {
			log.Printf("order webhook: %v", err)
		}
	}()
}

// Deliver performs one synchronous POST. Split out from Dispatch so the
// payload shape is testable.
func (w *Webhook) Deliver(order *models.Order) error {
	body, err := json.Marshal(orderEnvelope{Data: order})
	if err != nil {
		return fmt.Errorf("failed to encode order %s: %w", order.OrderID, err)
	}

	resp, err := w.client.Post(w.url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to post order %s: %w", order.OrderID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("order %s webhook returned %s", order.OrderID, resp.Status)
	}
	return nil
}
