package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/negdipay/negdi-payment-service/internal/delivery/httpapi/dto"
	"github.com/negdipay/negdi-payment-service/internal/domain"
)

type PaymentHandler struct {
	uc       domain.PaymentUsecase
	validate *validator.Validate
}

func NewPaymentHandler(uc domain.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{
		uc:       uc,
		validate: validator.New(),
	}
}

func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	out, err := h.uc.CreatePayment(r.Context(), domain.CreatePaymentInput{
		Reference:     req.Reference,
		Amount:        req.Amount,
		Currency:      req.Currency,
		Description:   req.Description,
		CustomerEmail: req.CustomerEmail,
		CallbackURL:   req.CallbackURL,
	})
	if err != nil {
		h.writeCreateError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.CreatePaymentResponse{
		TransactionID: out.TransactionID,
		Reference:     out.Reference,
		RedirectURL:   out.RedirectURL,
		Status:        string(out.Status),
	})
}

// writeCreateError keeps gateway internals out of shopper-facing responses:
// full detail goes to the log, the client gets a category.
func (h *PaymentHandler) writeCreateError(w http.ResponseWriter, err error) {
	var unavailable *domain.GatewayUnavailableError
	var rejected *domain.GatewayRejectedError
	var protocol *domain.GatewayProtocolError

	switch {
	case errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrInvalidReference):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrConfiguration):
		slog.Error("payment provider misconfigured", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "payment provider is not configured")
	case errors.As(err, &unavailable), errors.As(err, &rejected), errors.As(err, &protocol):
		slog.Error("gateway error during payment creation", "error", err.Error())
		writeError(w, http.StatusBadGateway, "payment provider is temporarily unavailable, please try again")
	default:
		slog.Error("payment creation failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "failed to create payment")
	}
}

func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	tx, err := h.uc.GetTransactionByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrCorrelationNotFound) {
			writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load transaction")
		return
	}
	writeJSON(w, http.StatusOK, toPaymentResponse(tx))
}

func (h *PaymentHandler) GetPaymentByReference(w http.ResponseWriter, r *http.Request) {
	reference := r.URL.Query().Get("reference")
	if reference == "" {
		writeError(w, http.StatusBadRequest, "reference query parameter is required")
		return
	}
	tx, err := h.uc.GetTransactionByReference(r.Context(), reference)
	if err != nil {
		if errors.Is(err, domain.ErrCorrelationNotFound) {
			writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load transaction")
		return
	}
	writeJSON(w, http.StatusOK, toPaymentResponse(tx))
}

func toPaymentResponse(tx *domain.Transaction) dto.PaymentResponse {
	return dto.PaymentResponse{
		TransactionID: tx.ID,
		Reference:     tx.Reference,
		ExternalID:    tx.ExternalID,
		Status:        string(tx.Status),
		Amount:        tx.Amount,
		Currency:      tx.Currency,
		Description:   tx.Description,
		ApprovalCode:  tx.ApprovalCode,
		PaymentMethod: tx.PaymentMethod,
		LastError:     tx.LastError,
		CreatedAt:     tx.CreatedAt,
		UpdatedAt:     tx.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, dto.ErrorResponse{Error: message})
}
