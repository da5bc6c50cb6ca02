package memory_test

import (
	"errors"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/soms/internal/domain"
	"github.com/vladislavdragonenkov/soms/internal/storage/memory"
)

func newCustomer(email string) domain.Customer {
	now := time.Now().UTC()
	return domain.Customer{
		Name:      "Joana Lima",
		Email:     email,
		Phone:     "5511999",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCustomerRepository_CreateAssignsID(t *testing.T) {
	repo := memory.NewCustomerRepository()

	created, err := repo.Create(newCustomer("joana@example.com"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected assigned id")
	}

	stored, err := repo.GetByID(created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.Email != "joana@example.com" {
		t.Fatalf("unexpected email %q", stored.Email)
	}
}

func TestCustomerRepository_CreateDuplicateEmail(t *testing.T) {
	repo := memory.NewCustomerRepository()
	if _, err := repo.Create(newCustomer("joana@example.com")); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := repo.Create(newCustomer("JOANA@example.com")); !errors.Is(err, domain.ErrCustomerAlreadyExists) {
		t.Fatalf("expected ErrCustomerAlreadyExists, got %v", err)
	}
}

func TestCustomerRepository_GetByEmail(t *testing.T) {
	repo := memory.NewCustomerRepository()
	created, err := repo.Create(newCustomer("joana@example.com"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	stored, err := repo.GetByEmail("joana@example.com")
	if err != nil {
		t.Fatalf("get by email failed: %v", err)
	}
	if stored.ID != created.ID {
		t.Fatalf("expected id %d, got %d", created.ID, stored.ID)
	}

	if _, err := repo.GetByEmail("missing@example.com"); !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
}

func TestCustomerRepository_Update(t *testing.T) {
	repo := memory.NewCustomerRepository()
	created, err := repo.Create(newCustomer("joana@example.com"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	created.Name = "Joana Souza"
	if err := repo.Update(created); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	updated, err := repo.GetByID(created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if updated.Name != "Joana Souza" {
		t.Fatalf("expected updated name, got %q", updated.Name)
	}
	if updated.Version != created.Version+1 {
		t.Fatalf("expected version increment, got %d", updated.Version)
	}
}

func TestCustomerRepository_UpdateVersionConflict(t *testing.T) {
	repo := memory.NewCustomerRepository()
	created, err := repo.Create(newCustomer("joana@example.com"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	created.Version = 42
	if err := repo.Update(created); !errors.Is(err, domain.ErrCustomerVersionConflict) {
		t.Fatalf("expected version conflict, got %v", err)
	}
}

func TestCustomerRepository_UpdateDuplicateEmail(t *testing.T) {
	repo := memory.NewCustomerRepository()
	if _, err := repo.Create(newCustomer("first@example.com")); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	second, err := repo.Create(newCustomer("second@example.com"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	second.Email = "first@example.com"
	if err := repo.Update(second); !errors.Is(err, domain.ErrCustomerAlreadyExists) {
		t.Fatalf("expected ErrCustomerAlreadyExists, got %v", err)
	}
}

func TestCustomerRepository_Delete(t *testing.T) {
	repo := memory.NewCustomerRepository()
	created, err := repo.Create(newCustomer("joana@example.com"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := repo.Delete(created); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := repo.GetByID(created.ID); !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound after delete, got %v", err)
	}
	if err := repo.Delete(created); !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound on double delete, got %v", err)
	}
}

func TestCustomerRepository_List(t *testing.T) {
	repo := memory.NewCustomerRepository()
	if _, err := repo.Create(newCustomer("a@example.com")); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := repo.Create(newCustomer("b@example.com")); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	customers, err := repo.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(customers) != 2 {
		t.Fatalf("expected 2 customers, got %d", len(customers))
	}
	if customers[0].ID > customers[1].ID {
		t.Fatal("expected ascending id order")
	}
}
