// Package customers реализует сценарии управления клиентами поверх
// CustomerRepository: создание с контролем уникальности email, чтение,
// обновление и удаление с публикацией событий через transactional outbox.
package customers

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/soms/internal/domain"
	"github.com/vladislavdragonenkov/soms/internal/dto"
	"github.com/vladislavdragonenkov/soms/internal/metrics"
)

const aggregateTypeCustomer = "customer"

// Типы событий клиента для outbox.
const (
	eventCustomerCreated = "customer.created"
	eventCustomerUpdated = "customer.updated"
	eventCustomerDeleted = "customer.deleted"
)

// Service реализует операции над клиентами.
type Service struct {
	repo    domain.CustomerRepository
	outbox  domain.OutboxRepository
	metrics *metrics.ServiceMetrics
	logger  *log.Entry
	now     func() time.Time
}

// NewService создаёт сервис клиентов. outbox и metrics опциональны.
func NewService(repo domain.CustomerRepository, outbox domain.OutboxRepository, m *metrics.ServiceMetrics, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.WithField("component", "customers-service")
	}
	return &Service{
		repo:    repo,
		outbox:  outbox,
		metrics: m,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Create регистрирует нового клиента. Email уникален: при совпадении
// с существующим клиентом возвращается конфликт, запись не создаётся.
func (s *Service) Create(in dto.CreateCustomer) (dto.Customer, error) {
	started := s.now()

	if _, err := s.repo.GetByEmail(in.Email); err == nil {
		return dto.Customer{}, domain.ErrCustomerAlreadyExists
	} else if !errors.Is(err, domain.ErrCustomerNotFound) {
		return dto.Customer{}, fmt.Errorf("check customer email: %w", err)
	}

	customer := dto.NewCustomer(in, started)
	if errs := customer.ValidateInvariants(); len(errs) > 0 {
		return dto.Customer{}, errors.Join(errs...)
	}

	created, err := s.repo.Create(customer)
	if err != nil {
		return dto.Customer{}, err
	}

	s.enqueueEvent(created, eventCustomerCreated)
	if s.metrics != nil {
		s.metrics.RecordCustomerCreated()
		s.metrics.RecordOperationDuration("customer_create", time.Since(started))
	}
	s.logger.WithFields(log.Fields{
		"customer_id": created.ID,
		"email":       created.Email,
	}).Info("customer created")

	return dto.CustomerToDTO(created), nil
}

// Get возвращает клиента по идентификатору.
func (s *Service) Get(id int64) (dto.Customer, error) {
	customer, err := s.repo.GetByID(id)
	if err != nil {
		return dto.Customer{}, err
	}
	return dto.CustomerToDTO(customer), nil
}

// List возвращает всех клиентов в порядке хранилища.
func (s *Service) List() ([]dto.Customer, error) {
	customers, err := s.repo.List()
	if err != nil {
		return nil, err
	}
	return dto.CustomersToDTO(customers), nil
}

// Update перезаписывает имя, email и телефон клиента. Идентификатор
// неизменяем. При смене email уникальность проверяется заново.
func (s *Service) Update(id int64, in dto.UpdateCustomer) (dto.Customer, error) {
	started := s.now()

	existing, err := s.repo.GetByID(id)
	if err != nil {
		return dto.Customer{}, err
	}

	if !strings.EqualFold(existing.Email, in.Email) {
		other, err := s.repo.GetByEmail(in.Email)
		if err == nil && other.ID != id {
			return dto.Customer{}, domain.ErrCustomerAlreadyExists
		}
		if err != nil && !errors.Is(err, domain.ErrCustomerNotFound) {
			return dto.Customer{}, fmt.Errorf("check customer email: %w", err)
		}
	}

	existing.Name = in.Name
	existing.Email = in.Email
	existing.Phone = in.Phone
	existing.UpdatedAt = started

	if errs := existing.ValidateInvariants(); len(errs) > 0 {
		return dto.Customer{}, errors.Join(errs...)
	}

	if err := s.repo.Update(existing); err != nil {
		return dto.Customer{}, err
	}

	s.enqueueEvent(existing, eventCustomerUpdated)
	if s.metrics != nil {
		s.metrics.RecordCustomerUpdated()
		s.metrics.RecordOperationDuration("customer_update", time.Since(started))
	}
	s.logger.WithField("customer_id", existing.ID).Info("customer updated")

	return dto.CustomerToDTO(existing), nil
}

// Delete удаляет клиента. Сущность сначала загружается: удаление
// несуществующего клиента возвращает not-found.
func (s *Service) Delete(id int64) error {
	started := s.now()

	existing, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(existing); err != nil {
		return err
	}

	s.enqueueEvent(existing, eventCustomerDeleted)
	if s.metrics != nil {
		s.metrics.RecordCustomerDeleted()
		s.metrics.RecordOperationDuration("customer_delete", time.Since(started))
	}
	s.logger.WithField("customer_id", existing.ID).Info("customer deleted")

	return nil
}

// enqueueEvent кладёт событие клиента в outbox. Ошибка не прерывает
// основную операцию: запись уже зафиксирована в хранилище.
func (s *Service) enqueueEvent(customer domain.Customer, eventType string) {
	if s.outbox == nil {
		return
	}

	payload, err := json.Marshal(map[string]any{
		"id":    customer.ID,
		"name":  customer.Name,
		"email": customer.Email,
	})
	if err != nil {
		s.logger.WithError(err).Warn("failed to marshal customer event payload")
		return
	}

	if _, err := s.outbox.Enqueue(domain.OutboxMessage{
		AggregateType: aggregateTypeCustomer,
		AggregateID:   strconv.FormatInt(customer.ID, 10),
		EventType:     eventType,
		Payload:       payload,
	}); err != nil {
		s.logger.WithError(err).WithField("event_type", eventType).Warn("failed to enqueue customer event")
		return
	}

	if s.metrics != nil {
		s.metrics.RecordOutboxEvent()
	}
}
