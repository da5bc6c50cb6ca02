package kafka

import (
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	log "github.com/sirupsen/logrus"
)

func TestProducer_PublishEvent(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)

	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-producer-test"),
	}

	mockProducer.ExpectSendMessageAndSucceed()

	event := NewOrderEvent(EventTypeOrderCreated, 12, 7, "OPEN")

	err := producer.PublishEvent(TopicOrderEvents, "12", event)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestProducer_PublishEvent_Error(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)

	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-producer-test"),
	}

	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	event := NewOrderEvent(EventTypeOrderCreated, 12, 7, "OPEN")

	err := producer.PublishEvent(TopicOrderEvents, "12", event)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestNewCustomerEvent(t *testing.T) {
	event := NewCustomerEvent(EventTypeCustomerCreated, 5, "joana@example.com")

	if event.EventType != EventTypeCustomerCreated {
		t.Errorf("expected event type %s, got %s", EventTypeCustomerCreated, event.EventType)
	}
	if event.CustomerID != 5 {
		t.Errorf("expected customer id 5, got %d", event.CustomerID)
	}
	if event.Email != "joana@example.com" {
		t.Error("email not set correctly")
	}
	if event.Timestamp.IsZero() {
		t.Error("timestamp should not be zero")
	}
	if time.Since(event.Timestamp) > time.Second {
		t.Error("timestamp should be close to current time")
	}
}

func TestNewOrderEvent(t *testing.T) {
	event := NewOrderEvent(EventTypeOrderFinished, 12, 7, "FINISHED")

	if event.EventType != EventTypeOrderFinished {
		t.Errorf("expected event type %s, got %s", EventTypeOrderFinished, event.EventType)
	}
	if event.OrderID != 12 {
		t.Errorf("expected order id 12, got %d", event.OrderID)
	}
	if event.CustomerID != 7 {
		t.Errorf("expected customer id 7, got %d", event.CustomerID)
	}
	if event.Status != "FINISHED" {
		t.Errorf("expected status FINISHED, got %s", event.Status)
	}
	if event.Timestamp.IsZero() {
		t.Error("timestamp should not be zero")
	}
}
