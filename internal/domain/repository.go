package domain

// CustomerRepository описывает требования к хранилищу клиентов.
// Отсутствие сущности выражается ошибкой ErrCustomerNotFound, никогда
// нулевым значением.
type CustomerRepository interface {
	// Create сохраняет нового клиента и возвращает его с присвоенным ID.
	// Нарушение уникальности email транслируется в ErrCustomerAlreadyExists.
	Create(customer Customer) (Customer, error)
	// GetByID возвращает клиента по идентификатору или ErrCustomerNotFound.
	GetByID(id int64) (Customer, error)
	// GetByEmail возвращает клиента по email или ErrCustomerNotFound.
	GetByEmail(email string) (Customer, error)
	// List возвращает всех клиентов.
	List() ([]Customer, error)
	// Update перезаписывает клиента с учётом optimistic locking.
	Update(customer Customer) error
	// Delete удаляет ранее загруженного клиента.
	Delete(customer Customer) error
}

// ServiceOrderRepository описывает требования к хранилищу заказов на обслуживание.
type ServiceOrderRepository interface {
	// Create сохраняет новый заказ и возвращает его с присвоенным ID.
	Create(order ServiceOrder) (ServiceOrder, error)
	// GetByID возвращает заказ вместе с комментариями или ErrOrderNotFound.
	GetByID(id int64) (ServiceOrder, error)
	// GetAll возвращает все заказы в порядке, определяемом хранилищем.
	GetAll() ([]ServiceOrder, error)
	// Finish фиксирует переход заказа в FINISHED отдельной операцией хранилища.
	Finish(order ServiceOrder) error
	// Cancel фиксирует переход заказа в CANCELED отдельной операцией хранилища.
	Cancel(order ServiceOrder) error
	// AddComment сохраняет комментарий к заказу и возвращает его с присвоенным ID.
	AddComment(comment Comment) (Comment, error)
}
