// Package dto содержит транспортные представления сущностей и чистые
// функции преобразования между ними и доменной моделью.
package dto

import "time"

// Customer — внешнее представление клиента.
type Customer struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// CreateCustomer — входные данные создания клиента.
type CreateCustomer struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone"`
}

// UpdateCustomer — входные данные обновления клиента.
// Идентификатор неизменяем и передаётся только в пути запроса.
type UpdateCustomer struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone"`
}

// Comment — внешнее представление комментария к заказу.
type Comment struct {
	ID        int64     `json:"id"`
	Author    string    `json:"author,omitempty"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateComment — входные данные добавления комментария.
type CreateComment struct {
	Author string `json:"author"`
	Text   string `json:"text" binding:"required"`
}

// ServiceOrder — представление заказа для операций чтения.
type ServiceOrder struct {
	ID          int64      `json:"id"`
	CustomerID  int64      `json:"customer_id"`
	Description string     `json:"description"`
	PriceMinor  int64      `json:"price_minor"`
	Status      string     `json:"status"`
	OpenedAt    time.Time  `json:"opened_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
	Comments    []Comment  `json:"comments"`
}

// CreateServiceOrder — входные данные создания заказа.
type CreateServiceOrder struct {
	Description string `json:"description" binding:"required"`
	PriceMinor  int64  `json:"price_minor" binding:"min=0"`
	CustomerID  int64  `json:"customer_id" binding:"required"`
}

// CreatedServiceOrder — представление только что созданного заказа.
// Комментариев у нового заказа быть не может, поэтому поле отсутствует.
type CreatedServiceOrder struct {
	ID          int64      `json:"id"`
	CustomerID  int64      `json:"customer_id"`
	Description string     `json:"description"`
	PriceMinor  int64      `json:"price_minor"`
	Status      string     `json:"status"`
	OpenedAt    time.Time  `json:"opened_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
}

// TimelineEvent — внешнее представление записи timeline заказа.
type TimelineEvent struct {
	ID        string    `json:"id"`
	OrderID   int64     `json:"order_id"`
	Type      string    `json:"type"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
