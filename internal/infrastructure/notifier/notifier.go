package notifier

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
)

// SendCallback notifies the merchant's callback URL about a terminal state.
// Fire-and-forget: the state transition is already committed, a lost callback
// is recoverable through the query API.
func SendCallback(callbackURL string, payload CallbackPayload) {
	go func() {
		body, err := json.Marshal(payload)
		if err != nil {
			slog.Error("failed to marshal merchant callback", "error", err.Error())
			return
		}

		req, err := http.NewRequest(http.MethodPost, callbackURL, bytes.NewBuffer(body))
		if err != nil {
			slog.Error("failed to create merchant callback request", "error", err.Error())
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			slog.Error("merchant callback failed", "url", callbackURL, "error", err.Error())
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			slog.Info("merchant callback sent", "url", callbackURL)
		} else {
			slog.Warn("merchant callback returned non-2xx", "url", callbackURL, "status", resp.StatusCode)
		}
	}()
}
