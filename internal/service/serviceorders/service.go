// Package serviceorders реализует жизненный цикл заказа на обслуживание:
// создание с проверкой клиента, завершение и отмена как единственные
// переходы из OPEN, комментарии и timeline заказа.
package serviceorders

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/soms/internal/domain"
	"github.com/vladislavdragonenkov/soms/internal/dto"
	"github.com/vladislavdragonenkov/soms/internal/metrics"
)

const aggregateTypeServiceOrder = "service_order"

// Типы событий заказа для outbox.
const (
	eventOrderCreated  = "order.created"
	eventOrderFinished = "order.finished"
	eventOrderCanceled = "order.canceled"
)

// Service реализует операции над заказами на обслуживание.
type Service struct {
	orders    domain.ServiceOrderRepository
	customers domain.CustomerRepository
	timeline  domain.TimelineRepository
	outbox    domain.OutboxRepository
	metrics   *metrics.ServiceMetrics
	logger    *log.Entry
	now       func() time.Time
}

// NewService создаёт сервис заказов. timeline, outbox и metrics опциональны.
func NewService(
	orders domain.ServiceOrderRepository,
	customers domain.CustomerRepository,
	timeline domain.TimelineRepository,
	outbox domain.OutboxRepository,
	m *metrics.ServiceMetrics,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.WithField("component", "serviceorders-service")
	}
	return &Service{
		orders:    orders,
		customers: customers,
		timeline:  timeline,
		outbox:    outbox,
		metrics:   m,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create открывает новый заказ для существующего клиента. Ссылка на
// неизвестного клиента — ошибка запроса, а не внутренний сбой.
func (s *Service) Create(in dto.CreateServiceOrder) (dto.CreatedServiceOrder, error) {
	started := s.now()

	if _, err := s.customers.GetByID(in.CustomerID); err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			return dto.CreatedServiceOrder{}, domain.ErrUnknownCustomer
		}
		return dto.CreatedServiceOrder{}, fmt.Errorf("check order customer: %w", err)
	}

	order := dto.NewServiceOrder(in, started)
	if errs := order.ValidateInvariants(); len(errs) > 0 {
		return dto.CreatedServiceOrder{}, errors.Join(errs...)
	}

	created, err := s.orders.Create(order)
	if err != nil {
		return dto.CreatedServiceOrder{}, err
	}

	s.appendTimeline(created.ID, domain.TimelineEventOrderOpened, "")
	s.enqueueEvent(created, eventOrderCreated)
	if s.metrics != nil {
		s.metrics.RecordOrderCreated()
		s.metrics.RecordOperationDuration("order_create", time.Since(started))
	}
	s.logger.WithFields(log.Fields{
		"order_id":    created.ID,
		"customer_id": created.CustomerID,
	}).Info("service order created")

	return dto.ServiceOrderToCreatedDTO(created), nil
}

// Get возвращает заказ вместе с комментариями.
func (s *Service) Get(id int64) (dto.ServiceOrder, error) {
	order, err := s.orders.GetByID(id)
	if err != nil {
		return dto.ServiceOrder{}, err
	}
	return dto.ServiceOrderToDTO(order), nil
}

// GetAll возвращает все заказы в порядке хранилища.
func (s *Service) GetAll() ([]dto.ServiceOrder, error) {
	orders, err := s.orders.GetAll()
	if err != nil {
		return nil, err
	}
	return dto.ServiceOrdersToDTO(orders), nil
}

// Finish завершает открытый заказ. Повторное завершение и завершение
// отменённого заказа возвращают конфликт.
func (s *Service) Finish(id int64) (dto.ServiceOrder, error) {
	started := s.now()

	order, err := s.orders.GetByID(id)
	if err != nil {
		return dto.ServiceOrder{}, err
	}

	if err := order.Finish(started); err != nil {
		return dto.ServiceOrder{}, err
	}
	if err := s.orders.Finish(order); err != nil {
		return dto.ServiceOrder{}, err
	}

	s.appendTimeline(order.ID, domain.TimelineEventOrderFinished, "")
	s.enqueueEvent(order, eventOrderFinished)
	if s.metrics != nil {
		s.metrics.RecordOrderFinished()
		s.metrics.RecordOperationDuration("order_finish", time.Since(started))
	}
	s.logger.WithField("order_id", order.ID).Info("service order finished")

	return dto.ServiceOrderToDTO(order), nil
}

// Cancel отменяет открытый заказ. Момент завершения не заполняется.
func (s *Service) Cancel(id int64) (dto.ServiceOrder, error) {
	started := s.now()

	order, err := s.orders.GetByID(id)
	if err != nil {
		return dto.ServiceOrder{}, err
	}

	if err := order.Cancel(started); err != nil {
		return dto.ServiceOrder{}, err
	}
	if err := s.orders.Cancel(order); err != nil {
		return dto.ServiceOrder{}, err
	}

	s.appendTimeline(order.ID, domain.TimelineEventOrderCanceled, "")
	s.enqueueEvent(order, eventOrderCanceled)
	if s.metrics != nil {
		s.metrics.RecordOrderCanceled()
		s.metrics.RecordOperationDuration("order_cancel", time.Since(started))
	}
	s.logger.WithField("order_id", order.ID).Info("service order canceled")

	return dto.ServiceOrderToDTO(order), nil
}

// AddComment добавляет комментарий к существующему заказу.
func (s *Service) AddComment(orderID int64, in dto.CreateComment) (dto.Comment, error) {
	started := s.now()

	comment := dto.NewComment(in, orderID, started)
	if errs := comment.ValidateInvariants(); len(errs) > 0 {
		return dto.Comment{}, errors.Join(errs...)
	}

	created, err := s.orders.AddComment(comment)
	if err != nil {
		return dto.Comment{}, err
	}

	s.appendTimeline(orderID, domain.TimelineEventCommentAdded, "")
	if s.metrics != nil {
		s.metrics.RecordCommentAdded()
		s.metrics.RecordOperationDuration("order_comment", time.Since(started))
	}

	return dto.CommentToDTO(created), nil
}

// Timeline возвращает записи жизненного цикла заказа в хронологическом
// порядке. Для несуществующего заказа возвращается not-found.
func (s *Service) Timeline(orderID int64) ([]dto.TimelineEvent, error) {
	if _, err := s.orders.GetByID(orderID); err != nil {
		return nil, err
	}

	if s.timeline == nil {
		return []dto.TimelineEvent{}, nil
	}

	events, err := s.timeline.List(orderID)
	if err != nil {
		return nil, err
	}
	return dto.TimelineEventsToDTO(events), nil
}

// appendTimeline фиксирует переход заказа. Ошибка не прерывает
// основную операцию: запись уже зафиксирована в хранилище.
func (s *Service) appendTimeline(orderID int64, eventType, reason string) {
	if s.timeline == nil {
		return
	}

	if err := s.timeline.Append(domain.TimelineEvent{
		OrderID:   orderID,
		Type:      eventType,
		Reason:    reason,
		CreatedAt: s.now(),
	}); err != nil {
		s.logger.WithError(err).WithField("order_id", orderID).Warn("failed to append timeline event")
		return
	}

	if s.metrics != nil {
		s.metrics.RecordTimelineEvent()
	}
}

// enqueueEvent кладёт событие заказа в outbox.
func (s *Service) enqueueEvent(order domain.ServiceOrder, eventType string) {
	if s.outbox == nil {
		return
	}

	payload, err := json.Marshal(map[string]any{
		"id":          order.ID,
		"customer_id": order.CustomerID,
		"status":      string(order.Status),
	})
	if err != nil {
		s.logger.WithError(err).Warn("failed to marshal order event payload")
		return
	}

	if _, err := s.outbox.Enqueue(domain.OutboxMessage{
		AggregateType: aggregateTypeServiceOrder,
		AggregateID:   strconv.FormatInt(order.ID, 10),
		EventType:     eventType,
		Payload:       payload,
	}); err != nil {
		s.logger.WithError(err).WithField("event_type", eventType).Warn("failed to enqueue order event")
		return
	}

	if s.metrics != nil {
		s.metrics.RecordOutboxEvent()
	}
}
