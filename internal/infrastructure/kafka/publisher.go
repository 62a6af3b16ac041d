package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/negdipay/negdi-payment-service/internal/domain"
	"github.com/segmentio/kafka-go"
)

type DefaultKafkaPublisher struct {
	writer *kafka.Writer
}

func NewDefaultKafkaPublisher(brokers []string, topic string) *DefaultKafkaPublisher {
	return &DefaultKafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// PublishPaymentEvent emits one message per applied state transition, keyed by
// transaction id so consumers see a transaction's transitions in order.
func (k *DefaultKafkaPublisher) PublishPaymentEvent(event domain.PaymentEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return k.writer.WriteMessages(context.Background(), kafka.Message{
		Key:   []byte(event.TransactionID),
		Value: value,
		Time:  time.Now(),
	})
}

func (k *DefaultKafkaPublisher) Close() error {
	return k.writer.Close()
}
