package domain

import "errors"

var (
	// Ошибка отсутствующего имени клиента.
	ErrCustomerNameRequired = errors.New("customer name is required")
	// Ошибка отсутствующего email клиента.
	ErrCustomerEmailRequired = errors.New("customer email is required")
	// Ошибка отсутствующего описания работ.
	ErrOrderDescriptionRequired = errors.New("service order description is required")
	// Ошибка отрицательной стоимости работ.
	ErrOrderPriceNegative = errors.New("price_minor must be non-negative")
	// Ошибка отсутствующего идентификатора клиента в заказе.
	ErrOrderCustomerRequired = errors.New("customer_id is required")
	// Ошибка неизвестного значения статуса заказа.
	ErrOrderStatusInvalid = errors.New("service order status is invalid")
	// Ошибка: finished_at заполнен вне статуса FINISHED.
	ErrOrderFinishedAtForbidden = errors.New("finished_at is only allowed for finished orders")
	// Ошибка отсутствующего текста комментария.
	ErrCommentTextRequired = errors.New("comment text is required")

	// ErrCustomerNotFound возвращается, если клиент не найден в репозитории.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrCustomerAlreadyExists сигнализирует о нарушении уникальности email.
	// Текст сообщения является частью контракта API и не меняется.
	ErrCustomerAlreadyExists = errors.New("Customer already exists")
	// ErrCustomerVersionConflict сигнализирует о конфликте версий при обновлении клиента.
	ErrCustomerVersionConflict = errors.New("customer version conflict")
	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("service order not found")
	// ErrOrderVersionConflict сигнализирует о конфликте версий при сохранении заказа.
	ErrOrderVersionConflict = errors.New("service order version conflict")
	// ErrOrderAlreadyClosed возвращается при попытке завершить или отменить
	// заказ, уже находящийся в терминальном состоянии.
	ErrOrderAlreadyClosed = errors.New("service order is already finished or canceled")
	// ErrUnknownCustomer возвращается при создании заказа для несуществующего
	// клиента: это ошибка входных данных, а не промах поиска.
	ErrUnknownCustomer = errors.New("service order references unknown customer")

	// ErrOutboxPublish — ошибка при публикации сообщения из outbox.
	ErrOutboxPublish = errors.New("outbox publish failed")

	// Ошибки контракта идемпотентности.
	ErrIdempotencyKeyRequired         = errors.New("idempotency key is required")
	ErrIdempotencyRequestHashRequired = errors.New("idempotency request hash is required")
	ErrIdempotencyKeyNotFound         = errors.New("idempotency key not found")
	ErrIdempotencyKeyAlreadyExists    = errors.New("idempotency key already exists")
	ErrIdempotencyHashMismatch        = errors.New("idempotency key is used with a different request")
)

// IsNotFound проверяет, является ли ошибка промахом поиска сущности.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCustomerNotFound) || errors.Is(err, ErrOrderNotFound)
}

// IsConflict проверяет, относится ли ошибка к конфликтам состояния:
// нарушение уникальности, конфликт версий, повторное закрытие заказа.
func IsConflict(err error) bool {
	switch {
	case errors.Is(err, ErrCustomerAlreadyExists),
		errors.Is(err, ErrCustomerVersionConflict),
		errors.Is(err, ErrOrderVersionConflict),
		errors.Is(err, ErrOrderAlreadyClosed),
		errors.Is(err, ErrIdempotencyHashMismatch):
		return true
	default:
		return false
	}
}

// IsBadRequest проверяет, является ли ошибка следствием некорректных входных данных.
func IsBadRequest(err error) bool {
	switch {
	case errors.Is(err, ErrUnknownCustomer),
		errors.Is(err, ErrCustomerNameRequired),
		errors.Is(err, ErrCustomerEmailRequired),
		errors.Is(err, ErrOrderDescriptionRequired),
		errors.Is(err, ErrOrderPriceNegative),
		errors.Is(err, ErrOrderCustomerRequired),
		errors.Is(err, ErrOrderStatusInvalid),
		errors.Is(err, ErrOrderFinishedAtForbidden),
		errors.Is(err, ErrCommentTextRequired):
		return true
	default:
		return false
	}
}
