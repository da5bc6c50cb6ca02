package domain

import "time"

// ServiceOrderStatus описывает жизненный цикл заказа на обслуживание.
type ServiceOrderStatus string

const (
	// ServiceOrderStatusOpen — заказ создан и находится в работе.
	ServiceOrderStatusOpen ServiceOrderStatus = "OPEN"
	// ServiceOrderStatusFinished — работы выполнены; терминальное состояние.
	ServiceOrderStatusFinished ServiceOrderStatus = "FINISHED"
	// ServiceOrderStatusCanceled — заказ отменён до выполнения; терминальное состояние.
	ServiceOrderStatusCanceled ServiceOrderStatus = "CANCELED"
)

// Terminal сообщает, разрешены ли дальнейшие переходы из статуса.
func (s ServiceOrderStatus) Terminal() bool {
	return s == ServiceOrderStatusFinished || s == ServiceOrderStatusCanceled
}

// Valid проверяет, что статус относится к поддерживаемым значениям.
func (s ServiceOrderStatus) Valid() bool {
	switch s {
	case ServiceOrderStatusOpen, ServiceOrderStatusFinished, ServiceOrderStatusCanceled:
		return true
	default:
		return false
	}
}

// Comment — комментарий, привязанный ровно к одному заказу.
type Comment struct {
	ID        int64
	OrderID   int64
	Author    string
	Text      string
	CreatedAt time.Time
}

// ValidateInvariants проверяет обязательные поля комментария.
func (c *Comment) ValidateInvariants() []error {
	var errs []error

	if c.Text == "" {
		errs = append(errs, ErrCommentTextRequired)
	}

	return errs
}

// ServiceOrder агрегирует состояние заказа на обслуживание и его комментарии.
type ServiceOrder struct {
	ID          int64
	CustomerID  int64
	Description string
	// PriceMinor — стоимость работ в минимальных денежных единицах.
	PriceMinor int64
	Status     ServiceOrderStatus
	OpenedAt   time.Time
	// FinishedAt заполняется только при переходе в FINISHED.
	FinishedAt *time.Time
	Comments   []Comment
	Version    int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *ServiceOrder) ValidateInvariants() []error {
	var errs []error

	if o.CustomerID <= 0 {
		errs = append(errs, ErrOrderCustomerRequired)
	}
	if o.Description == "" {
		errs = append(errs, ErrOrderDescriptionRequired)
	}
	if o.PriceMinor < 0 {
		errs = append(errs, ErrOrderPriceNegative)
	}
	if !o.Status.Valid() {
		errs = append(errs, ErrOrderStatusInvalid)
	}
	if o.Status != ServiceOrderStatusFinished && o.FinishedAt != nil {
		errs = append(errs, ErrOrderFinishedAtForbidden)
	}

	return errs
}

// Finish переводит заказ в FINISHED и фиксирует момент завершения.
// Повторный переход из терминального состояния запрещён.
func (o *ServiceOrder) Finish(at time.Time) error {
	if o.Status.Terminal() {
		return ErrOrderAlreadyClosed
	}

	o.Status = ServiceOrderStatusFinished
	finishedAt := at.UTC()
	o.FinishedAt = &finishedAt
	o.UpdatedAt = finishedAt
	return nil
}

// Cancel переводит заказ в CANCELED. Момент завершения не заполняется.
func (o *ServiceOrder) Cancel(at time.Time) error {
	if o.Status.Terminal() {
		return ErrOrderAlreadyClosed
	}

	o.Status = ServiceOrderStatusCanceled
	o.UpdatedAt = at.UTC()
	return nil
}
