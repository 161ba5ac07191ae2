package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// WebhookPath is the route Telegram posts updates to.
const WebhookPath = "/telegram"

// WebhookHandler returns the HTTP handler for inbound Bot API updates.
// Each admitted update is processed in its own goroutine so the webhook
// acknowledges immediately; there is no per-user serialization.
func (b *Bot) WebhookHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		var update Update
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			if errors.Is(err, io.EOF) {
				writeOK(w)
				return
			}
			b.logger.WithErr(err).Error("failed to decode webhook update")
			http.Error(w, "error", http.StatusInternalServerError)
			return
		}

		go b.HandleUpdate(context.Background(), update)
		writeOK(w)
	}
}

// RegisterWebhook clears any previous webhook (dropping pending updates)
// and registers url as the new one.
func (b *Bot) RegisterWebhook(url string) error {
	if err := b.client.DeleteWebhook(true); err != nil {
		return err
	}
	return b.client.SetWebhook(url)
}

func writeOK(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
