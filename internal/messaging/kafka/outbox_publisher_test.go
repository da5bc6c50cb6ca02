package kafka

import (
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/soms/internal/domain"
)

func TestOutboxPublisher_Publish(t *testing.T) {
	t.Parallel()

	mockProducer := mocks.NewSyncProducer(t, nil)
	mockProducer.ExpectSendMessageAndSucceed()

	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-outbox-publisher-test"),
	}
	publisher := NewOutboxPublisher(producer, "")

	err := publisher.Publish(domain.OutboxMessage{
		ID:            "outbox-1",
		AggregateType: AggregateTypeServiceOrder,
		AggregateID:   "12",
		EventType:     string(EventTypeOrderFinished),
		Payload:       []byte(`{"status":"FINISHED"}`),
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestOutboxPublisher_PublishProducerError(t *testing.T) {
	t.Parallel()

	mockProducer := mocks.NewSyncProducer(t, nil)
	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-outbox-publisher-test"),
	}
	publisher := NewOutboxPublisher(producer, "")

	err := publisher.Publish(domain.OutboxMessage{
		ID:            "outbox-2",
		AggregateType: AggregateTypeCustomer,
		AggregateID:   "7",
		EventType:     string(EventTypeCustomerUpdated),
		Payload:       []byte(`{"email":"joana@example.com"}`),
	})
	if err == nil {
		t.Fatal("expected publish error, got nil")
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestOutboxPublisher_PublishNilProducer(t *testing.T) {
	t.Parallel()

	publisher := NewOutboxPublisher(nil, TopicDeadLetterQueue)
	if err := publisher.Publish(domain.OutboxMessage{ID: "outbox-3"}); err == nil {
		t.Fatal("expected error for nil producer")
	}
}

func TestOutboxPublisher_TopicRouting(t *testing.T) {
	t.Parallel()

	publisher := &OutboxTopicPublisher{}

	if got := publisher.topicFor(domain.OutboxMessage{AggregateType: AggregateTypeCustomer}); got != TopicCustomerEvents {
		t.Fatalf("expected customer topic, got %s", got)
	}
	if got := publisher.topicFor(domain.OutboxMessage{AggregateType: AggregateTypeServiceOrder}); got != TopicOrderEvents {
		t.Fatalf("expected order topic, got %s", got)
	}

	fixed := &OutboxTopicPublisher{topic: TopicDeadLetterQueue}
	if got := fixed.topicFor(domain.OutboxMessage{AggregateType: AggregateTypeCustomer}); got != TopicDeadLetterQueue {
		t.Fatalf("fixed topic must win, got %s", got)
	}
}
