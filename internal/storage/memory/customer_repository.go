package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/soms/internal/domain"
)

// customerRepositoryInMemory — простая in-memory реализация CustomerRepository.
// Уникальность email и optimistic locking проверяются под общим мьютексом,
// повторяя гарантии PostgreSQL-реализации.
type customerRepositoryInMemory struct {
	mu     sync.RWMutex
	items  map[int64]domain.Customer
	nextID int64
}

// NewCustomerRepository возвращает in-memory репозиторий для локальной разработки и тестов.
func NewCustomerRepository() domain.CustomerRepository {
	return &customerRepositoryInMemory{items: make(map[int64]domain.Customer)}
}

// Create присваивает клиенту идентификатор и сохраняет копию.
func (r *customerRepositoryInMemory) Create(customer domain.Customer) (domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if strings.EqualFold(existing.Email, customer.Email) {
			return domain.Customer{}, domain.ErrCustomerAlreadyExists
		}
	}

	r.nextID++
	customer.ID = r.nextID
	customer.Version = 0
	r.items[customer.ID] = customer
	return customer, nil
}

// GetByID возвращает клиента или ErrCustomerNotFound, если его нет.
func (r *customerRepositoryInMemory) GetByID(id int64) (domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	customer, ok := r.items[id]
	if !ok {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}
	return customer, nil
}

// GetByEmail возвращает клиента по email или ErrCustomerNotFound.
func (r *customerRepositoryInMemory) GetByEmail(email string) (domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, customer := range r.items {
		if strings.EqualFold(customer.Email, email) {
			return customer, nil
		}
	}
	return domain.Customer{}, domain.ErrCustomerNotFound
}

// List возвращает всех клиентов в порядке возрастания идентификаторов.
func (r *customerRepositoryInMemory) List() ([]domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Customer, 0, len(r.items))
	for _, customer := range r.items {
		result = append(result, customer)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Update перезаписывает клиента, проверяя версию (optimistic locking).
func (r *customerRepositoryInMemory) Update(customer domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[customer.ID]
	if !ok {
		return domain.ErrCustomerNotFound
	}
	if current.Version != customer.Version {
		return domain.ErrCustomerVersionConflict
	}

	for id, existing := range r.items {
		if id != customer.ID && strings.EqualFold(existing.Email, customer.Email) {
			return domain.ErrCustomerAlreadyExists
		}
	}

	customer.Version++
	customer.UpdatedAt = time.Now().UTC()
	r.items[customer.ID] = customer
	return nil
}

// Delete удаляет ранее загруженного клиента.
func (r *customerRepositoryInMemory) Delete(customer domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[customer.ID]; !ok {
		return domain.ErrCustomerNotFound
	}
	delete(r.items, customer.ID)
	return nil
}

var _ domain.CustomerRepository = (*customerRepositoryInMemory)(nil)
