package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PaymentMetrics aggregates the prometheus collectors for the payment flow.
type PaymentMetrics struct {
	PaymentsCreatedTotal   *prometheus.CounterVec
	PaymentsCompletedTotal *prometheus.CounterVec
	PaymentsCanceledTotal  *prometheus.CounterVec
	PaymentsErrorTotal     *prometheus.CounterVec

	PaymentsCreatedAmountTotal   *prometheus.CounterVec
	PaymentsCompletedAmountTotal *prometheus.CounterVec

	GatewayRequestDuration *prometheus.HistogramVec

	NotificationAnomaliesTotal *prometheus.CounterVec
	NotificationsReceivedTotal *prometheus.CounterVec
}

func NewPaymentMetrics() *PaymentMetrics {
	return &PaymentMetrics{
		PaymentsCreatedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "payments_created_total",
			Help: "Total payment transactions created",
		}, []string{"environment", "currency"}),
		PaymentsCompletedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "payments_completed_total",
			Help: "Total payment transactions reconciled to DONE",
		}, []string{"environment", "currency"}),
		PaymentsCanceledTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "payments_canceled_total",
			Help: "Total payment transactions reconciled to CANCELED",
		}, []string{"environment", "currency"}),
		PaymentsErrorTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "payments_error_total",
			Help: "Total payment transactions forced to ERROR",
		}, []string{"environment", "currency"}),
		PaymentsCreatedAmountTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "payments_created_amount_total",
			Help: "Sum of created payment amounts",
		}, []string{"environment", "currency"}),
		PaymentsCompletedAmountTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "payments_completed_amount_total",
			Help: "Sum of completed payment amounts",
		}, []string{"environment", "currency"}),
		GatewayRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gateway_request_duration_seconds",
			Help:    "NEGDi API call duration",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint", "outcome"}),
		NotificationAnomaliesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_notification_anomalies_total",
			Help: "Security-relevant notification anomalies by kind",
		}, []string{"kind"}),
		NotificationsReceivedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_notifications_received_total",
			Help: "Inbound notifications by source",
		}, []string{"source"}),
	}
}

func (m *PaymentMetrics) RecordCreated(environment, currency string, amount float64) {
	m.PaymentsCreatedTotal.WithLabelValues(environment, currency).Inc()
	m.PaymentsCreatedAmountTotal.WithLabelValues(environment, currency).Add(amount)
}

func (m *PaymentMetrics) RecordCompleted(environment, currency string, amount float64) {
	m.PaymentsCompletedTotal.WithLabelValues(environment, currency).Inc()
	m.PaymentsCompletedAmountTotal.WithLabelValues(environment, currency).Add(amount)
}

func (m *PaymentMetrics) RecordCanceled(environment, currency string) {
	m.PaymentsCanceledTotal.WithLabelValues(environment, currency).Inc()
}

func (m *PaymentMetrics) RecordError(environment, currency string) {
	m.PaymentsErrorTotal.WithLabelValues(environment, currency).Inc()
}

func (m *PaymentMetrics) RecordAnomaly(kind string) {
	m.NotificationAnomaliesTotal.WithLabelValues(kind).Inc()
}

func (m *PaymentMetrics) RecordNotification(source string) {
	m.NotificationsReceivedTotal.WithLabelValues(source).Inc()
}

func (m *PaymentMetrics) ObserveGatewayRequest(endpoint, outcome string, started time.Time) {
	m.GatewayRequestDuration.WithLabelValues(endpoint, outcome).Observe(time.Since(started).Seconds())
}
