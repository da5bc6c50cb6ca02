package domain

import "testing"

func TestCustomerValidateInvariants(t *testing.T) {
	c := Customer{Name: "Joana", Email: "joana@example.com", Phone: "551199"}
	if errs := c.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestCustomerValidateInvariantsMissingFields(t *testing.T) {
	c := Customer{}
	errs := c.ValidateInvariants()
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(errs), errs)
	}

	found := map[error]bool{}
	for _, err := range errs {
		found[err] = true
	}
	if !found[ErrCustomerNameRequired] || !found[ErrCustomerEmailRequired] {
		t.Fatalf("unexpected error set: %v", errs)
	}
}
