package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Gateway-facing routes match the paths registered with NEGDi.
const (
	ReturnPath  = "/payments/negdi/return"
	WebhookPath = "/payments/negdi/webhook"
)

func NewRouter(payments *PaymentHandler, callbacks *CallbackHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Route("/api/v1/payments", func(r chi.Router) {
		r.Post("/", payments.CreatePayment)
		r.Get("/", payments.GetPaymentByReference)
		r.Get("/{id}", payments.GetPayment)
	})

	// Some gateway environments return the shopper with a POST.
	r.Get(ReturnPath, callbacks.Return)
	r.Post(ReturnPath, callbacks.Return)
	r.Post(WebhookPath, callbacks.Webhook)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return r
}
