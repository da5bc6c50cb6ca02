package dto

import (
	"time"

	"github.com/vladislavdragonenkov/soms/internal/domain"
)

// Все функции ниже — тотальные и свободные от побочных эффектов:
// преобразование никогда не меняет аргумент и не обращается к хранилищу.

// NewCustomer строит доменного клиента из входных данных создания.
func NewCustomer(in CreateCustomer, now time.Time) domain.Customer {
	now = now.UTC()
	return domain.Customer{
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CustomerToDTO преобразует доменного клиента во внешнее представление.
func CustomerToDTO(c domain.Customer) Customer {
	return Customer{
		ID:    c.ID,
		Name:  c.Name,
		Email: c.Email,
		Phone: c.Phone,
	}
}

// CustomersToDTO преобразует срез клиентов, сохраняя порядок хранилища.
func CustomersToDTO(customers []domain.Customer) []Customer {
	result := make([]Customer, 0, len(customers))
	for _, c := range customers {
		result = append(result, CustomerToDTO(c))
	}
	return result
}

// NewServiceOrder строит доменный заказ из входных данных создания.
// Новый заказ всегда открыт, момент открытия равен now.
func NewServiceOrder(in CreateServiceOrder, now time.Time) domain.ServiceOrder {
	now = now.UTC()
	return domain.ServiceOrder{
		CustomerID:  in.CustomerID,
		Description: in.Description,
		PriceMinor:  in.PriceMinor,
		Status:      domain.ServiceOrderStatusOpen,
		OpenedAt:    now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ServiceOrderToDTO преобразует заказ во внешнее представление чтения.
func ServiceOrderToDTO(o domain.ServiceOrder) ServiceOrder {
	return ServiceOrder{
		ID:          o.ID,
		CustomerID:  o.CustomerID,
		Description: o.Description,
		PriceMinor:  o.PriceMinor,
		Status:      string(o.Status),
		OpenedAt:    o.OpenedAt,
		FinishedAt:  o.FinishedAt,
		Comments:    CommentsToDTO(o.Comments),
	}
}

// ServiceOrdersToDTO преобразует срез заказов, сохраняя порядок хранилища.
func ServiceOrdersToDTO(orders []domain.ServiceOrder) []ServiceOrder {
	result := make([]ServiceOrder, 0, len(orders))
	for _, o := range orders {
		result = append(result, ServiceOrderToDTO(o))
	}
	return result
}

// ServiceOrderToCreatedDTO преобразует заказ в представление ответа создания.
func ServiceOrderToCreatedDTO(o domain.ServiceOrder) CreatedServiceOrder {
	return CreatedServiceOrder{
		ID:          o.ID,
		CustomerID:  o.CustomerID,
		Description: o.Description,
		PriceMinor:  o.PriceMinor,
		Status:      string(o.Status),
		OpenedAt:    o.OpenedAt,
		FinishedAt:  o.FinishedAt,
	}
}

// NewComment строит доменный комментарий для заказа orderID.
func NewComment(in CreateComment, orderID int64, now time.Time) domain.Comment {
	return domain.Comment{
		OrderID:   orderID,
		Author:    in.Author,
		Text:      in.Text,
		CreatedAt: now.UTC(),
	}
}

// CommentToDTO преобразует комментарий во внешнее представление.
func CommentToDTO(c domain.Comment) Comment {
	return Comment{
		ID:        c.ID,
		Author:    c.Author,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
	}
}

// CommentsToDTO преобразует срез комментариев, сохраняя порядок.
func CommentsToDTO(comments []domain.Comment) []Comment {
	result := make([]Comment, 0, len(comments))
	for _, c := range comments {
		result = append(result, CommentToDTO(c))
	}
	return result
}

// TimelineEventToDTO преобразует запись timeline во внешнее представление.
func TimelineEventToDTO(e domain.TimelineEvent) TimelineEvent {
	return TimelineEvent{
		ID:        e.ID,
		OrderID:   e.OrderID,
		Type:      e.Type,
		Reason:    e.Reason,
		CreatedAt: e.CreatedAt,
	}
}

// TimelineEventsToDTO преобразует срез записей timeline.
func TimelineEventsToDTO(events []domain.TimelineEvent) []TimelineEvent {
	result := make([]TimelineEvent, 0, len(events))
	for _, e := range events {
		result = append(result, TimelineEventToDTO(e))
	}
	return result
}
