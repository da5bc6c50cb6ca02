package domain

import "time"

// Customer описывает клиента, владеющего заказами на обслуживание.
// Идентификатор присваивается хранилищем; до сохранения ID равен нулю.
type Customer struct {
	ID        int64
	Name      string
	Email     string
	Phone     string
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateInvariants проверяет базовые инварианты клиента и возвращает список замечаний.
func (c *Customer) ValidateInvariants() []error {
	var errs []error

	if c.Name == "" {
		errs = append(errs, ErrCustomerNameRequired)
	}
	if c.Email == "" {
		errs = append(errs, ErrCustomerEmailRequired)
	}

	return errs
}
