package memory

import (
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/soms/internal/domain"
)

// serviceOrderRepositoryInMemory — in-memory реализация ServiceOrderRepository.
type serviceOrderRepositoryInMemory struct {
	mu            sync.RWMutex
	orders        map[int64]domain.ServiceOrder
	comments      map[int64][]domain.Comment
	nextOrderID   int64
	nextCommentID int64
}

// NewServiceOrderRepository возвращает in-memory репозиторий для локальной разработки и тестов.
func NewServiceOrderRepository() domain.ServiceOrderRepository {
	return &serviceOrderRepositoryInMemory{
		orders:   make(map[int64]domain.ServiceOrder),
		comments: make(map[int64][]domain.Comment),
	}
}

// Create присваивает заказу идентификатор и сохраняет копию.
func (r *serviceOrderRepositoryInMemory) Create(order domain.ServiceOrder) (domain.ServiceOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextOrderID++
	order.ID = r.nextOrderID
	order.Version = 0
	// Комментарии хранятся отдельно и подгружаются при чтении.
	order.Comments = nil
	r.orders[order.ID] = order

	stored := order
	stored.Comments = []domain.Comment{}
	return stored, nil
}

// GetByID возвращает заказ вместе с комментариями или ErrOrderNotFound.
func (r *serviceOrderRepositoryInMemory) GetByID(id int64) (domain.ServiceOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return domain.ServiceOrder{}, domain.ErrOrderNotFound
	}
	order.Comments = r.loadComments(id)
	return order, nil
}

// GetAll возвращает заказы, отсортированные по моменту открытия (новые первыми).
func (r *serviceOrderRepositoryInMemory) GetAll() ([]domain.ServiceOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.ServiceOrder, 0, len(r.orders))
	for id, order := range r.orders {
		order.Comments = r.loadComments(id)
		result = append(result, order)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].OpenedAt.Equal(result[j].OpenedAt) {
			return result[i].OpenedAt.After(result[j].OpenedAt)
		}
		return result[i].ID > result[j].ID
	})

	return result, nil
}

// Finish фиксирует переход заказа в FINISHED, проверяя версию.
func (r *serviceOrderRepositoryInMemory) Finish(order domain.ServiceOrder) error {
	return r.saveTransition(order)
}

// Cancel фиксирует переход заказа в CANCELED, проверяя версию.
func (r *serviceOrderRepositoryInMemory) Cancel(order domain.ServiceOrder) error {
	return r.saveTransition(order)
}

// AddComment сохраняет комментарий, если заказ существует.
func (r *serviceOrderRepositoryInMemory) AddComment(comment domain.Comment) (domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[comment.OrderID]; !ok {
		return domain.Comment{}, domain.ErrOrderNotFound
	}

	r.nextCommentID++
	comment.ID = r.nextCommentID
	r.comments[comment.OrderID] = append(r.comments[comment.OrderID], comment)
	return comment, nil
}

func (r *serviceOrderRepositoryInMemory) saveTransition(order domain.ServiceOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.orders[order.ID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if current.Version != order.Version {
		return domain.ErrOrderVersionConflict
	}

	order.Version++
	order.Comments = nil
	r.orders[order.ID] = order
	return nil
}

func (r *serviceOrderRepositoryInMemory) loadComments(orderID int64) []domain.Comment {
	comments := r.comments[orderID]
	result := make([]domain.Comment, len(comments))
	copy(result, comments)
	return result
}

var _ domain.ServiceOrderRepository = (*serviceOrderRepositoryInMemory)(nil)
