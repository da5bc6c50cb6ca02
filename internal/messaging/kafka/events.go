package kafka

import "time"

// EventType определяет тип события
type EventType string

const (
	// Customer события
	EventTypeCustomerCreated EventType = "customer.created"
	EventTypeCustomerUpdated EventType = "customer.updated"
	EventTypeCustomerDeleted EventType = "customer.deleted"

	// Order события
	EventTypeOrderCreated  EventType = "order.created"
	EventTypeOrderFinished EventType = "order.finished"
	EventTypeOrderCanceled EventType = "order.canceled"
	EventTypeCommentAdded  EventType = "order.comment_added"
)

// Topics для Kafka
const (
	TopicCustomerEvents  = "soms.customer.events"
	TopicOrderEvents     = "soms.order.events"
	TopicDeadLetterQueue = "soms.dlq" // Dead Letter Queue для failed messages
)

// Типы агрегатов в outbox-сообщениях.
const (
	AggregateTypeCustomer     = "customer"
	AggregateTypeServiceOrder = "service_order"
)

// Kafka headers для retry логики
const (
	HeaderRetryCount    = "x-retry-count"
	HeaderOriginalTopic = "x-original-topic"
	HeaderErrorMessage  = "x-error-message"
	HeaderFailedAt      = "x-failed-at"
)

// CustomerEvent представляет событие клиента
type CustomerEvent struct {
	EventType  EventType `json:"event_type"`
	CustomerID int64     `json:"customer_id"`
	Email      string    `json:"email,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// OrderEvent представляет событие заказа
type OrderEvent struct {
	EventType  EventType `json:"event_type"`
	OrderID    int64     `json:"order_id"`
	CustomerID int64     `json:"customer_id"`
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewCustomerEvent создает новое событие клиента
func NewCustomerEvent(eventType EventType, customerID int64, email string) *CustomerEvent {
	return &CustomerEvent{
		EventType:  eventType,
		CustomerID: customerID,
		Email:      email,
		Timestamp:  time.Now().UTC(),
	}
}

// NewOrderEvent создает новое событие заказа
func NewOrderEvent(eventType EventType, orderID, customerID int64, status string) *OrderEvent {
	return &OrderEvent{
		EventType:  eventType,
		OrderID:    orderID,
		CustomerID: customerID,
		Status:     status,
		Timestamp:  time.Now().UTC(),
	}
}
