package httpapi

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/negdipay/negdi-payment-service/internal/domain"
	"github.com/negdipay/negdi-payment-service/internal/infrastructure/negdi"
)

const maxWebhookBody = 1 << 20

type CallbackHandler struct {
	uc            domain.PaymentUsecase
	statusPageURL string
}

func NewCallbackHandler(uc domain.PaymentUsecase, statusPageURL string) *CallbackHandler {
	return &CallbackHandler{
		uc:            uc,
		statusPageURL: statusPageURL,
	}
}

// Return handles the browser coming back from the hosted payment page. The
// query only carries the correlation pair (tranid, checkid); the shopper ends
// up on the status page either way, with an error category when processing
// did not complete.
func (h *CallbackHandler) Return(w http.ResponseWriter, r *http.Request) {
	// FormValue covers both the GET query string and a POSTed form.
	tranID := r.FormValue("tranid")
	checkID := r.FormValue("checkid")

	if tranID == "" || checkID == "" {
		slog.Warn("return callback with incomplete data", "tranid", tranID)
		h.redirectStatus(w, r, "missing_data")
		return
	}

	_, err := h.uc.HandleReturn(r.Context(), tranID, checkID)
	switch {
	case err == nil:
		h.redirectStatus(w, r, "")
	case errors.Is(err, domain.ErrMissingStatus), errors.Is(err, domain.ErrStatusConflict):
		// Reconciliation recorded what it could; the status page shows the
		// transaction's actual state.
		slog.Warn("return reconciliation anomaly", "tranid", tranID, "error", err.Error())
		h.redirectStatus(w, r, "")
	case errors.Is(err, domain.ErrCorrelationNotFound), errors.Is(err, domain.ErrAmbiguousCorrelation):
		slog.Warn("return callback for unknown transaction", "tranid", tranID, "error", err.Error())
		h.redirectStatus(w, r, "tx_not_found")
	default:
		slog.Error("failed to process return callback", "tranid", tranID, "error", err.Error())
		h.redirectStatus(w, r, "processing_error")
	}
}

func (h *CallbackHandler) redirectStatus(w http.ResponseWriter, r *http.Request, errCategory string) {
	target := h.statusPageURL
	if errCategory != "" {
		target += "?error=" + url.QueryEscape(errCategory)
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// Webhook handles the server-to-server notification. Once the payload has
// been read it is always acknowledged with 200 - failing the response would
// only trigger the gateway's retry storm; processing failures are handled
// internally (audit log, metrics, manual reconciliation).
func (h *CallbackHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		slog.Error("failed to read webhook body", "error", err.Error())
		w.WriteHeader(http.StatusOK)
		return
	}

	notification, err := negdi.ParseNotification(body)
	if err != nil {
		slog.Warn("undecodable webhook payload", "error", err.Error())
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := h.uc.HandleWebhook(r.Context(), body, notification); err != nil {
		slog.Warn("webhook processing failed", "external_id", notification.ExternalID, "error", err.Error())
	}

	w.WriteHeader(http.StatusOK)
}
