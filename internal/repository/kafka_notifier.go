package repository

import (
	"context"

	"StockScan/internal/domain/repository"
	pkgkafka "StockScan/pkg/kafka"
)

// KafkaNotifier implements Notifier over a Kafka producer. Kafka has no
// notion of subscriber counts, so Publish reports -1 on success.
type KafkaNotifier struct {
	producer *pkgkafka.Producer
}

// NewKafkaNotifier creates a Kafka-backed notifier.
func NewKafkaNotifier(producer *pkgkafka.Producer) repository.Notifier {
	return &KafkaNotifier{producer: producer}
}

func (n *KafkaNotifier) Publish(ctx context.Context, channel string, payload interface{}) (int64, error) {
	if err := n.producer.Publish(ctx, channel, nil, payload); err != nil {
		return 0, err
	}
	return -1, nil
}

func (n *KafkaNotifier) Close() error {
	return n.producer.Close()
}
