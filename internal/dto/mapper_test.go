package dto_test

import (
	"testing"
	"time"

	"github.com/vladislavdragonenkov/soms/internal/domain"
	"github.com/vladislavdragonenkov/soms/internal/dto"
)

func TestNewCustomer(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c := dto.NewCustomer(dto.CreateCustomer{Name: "Joana", Email: "joana@example.com", Phone: "551199"}, now)

	if c.ID != 0 {
		t.Fatalf("new customer must not carry an id, got %d", c.ID)
	}
	if c.Name != "Joana" || c.Email != "joana@example.com" || c.Phone != "551199" {
		t.Fatalf("unexpected mapping: %+v", c)
	}
	if !c.CreatedAt.Equal(now) || !c.UpdatedAt.Equal(now) {
		t.Fatalf("timestamps must equal now: %+v", c)
	}
}

func TestCustomerRoundTrip(t *testing.T) {
	c := domain.Customer{ID: 3, Name: "Joana", Email: "joana@example.com", Phone: "551199"}
	got := dto.CustomerToDTO(c)
	if got.ID != 3 || got.Name != c.Name || got.Email != c.Email || got.Phone != c.Phone {
		t.Fatalf("unexpected dto: %+v", got)
	}
}

func TestNewServiceOrder(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	o := dto.NewServiceOrder(dto.CreateServiceOrder{Description: "revisão", PriceMinor: 9900, CustomerID: 5}, now)

	if o.Status != domain.ServiceOrderStatusOpen {
		t.Fatalf("new order must be OPEN, got %s", o.Status)
	}
	if !o.OpenedAt.Equal(now) {
		t.Fatalf("opened_at must equal now, got %v", o.OpenedAt)
	}
	if o.FinishedAt != nil {
		t.Fatal("new order must not carry finished_at")
	}
	if o.CustomerID != 5 || o.PriceMinor != 9900 {
		t.Fatalf("unexpected mapping: %+v", o)
	}
}

func TestServiceOrderToDTOCarriesComments(t *testing.T) {
	now := time.Now().UTC()
	o := domain.ServiceOrder{
		ID:          2,
		CustomerID:  5,
		Description: "revisão",
		Status:      domain.ServiceOrderStatusOpen,
		OpenedAt:    now,
		Comments: []domain.Comment{
			{ID: 1, OrderID: 2, Text: "peça encomendada", CreatedAt: now},
		},
	}

	got := dto.ServiceOrderToDTO(o)
	if len(got.Comments) != 1 || got.Comments[0].Text != "peça encomendada" {
		t.Fatalf("comments not mapped: %+v", got)
	}
	if got.Status != "OPEN" {
		t.Fatalf("unexpected status %q", got.Status)
	}
}

func TestServiceOrderToCreatedDTO(t *testing.T) {
	now := time.Now().UTC()
	o := domain.ServiceOrder{ID: 9, CustomerID: 4, Description: "troca de tela", PriceMinor: 15000, Status: domain.ServiceOrderStatusOpen, OpenedAt: now}

	got := dto.ServiceOrderToCreatedDTO(o)
	if got.ID != 9 || got.CustomerID != 4 {
		t.Fatalf("created dto must carry order and customer ids: %+v", got)
	}
	if got.FinishedAt != nil {
		t.Fatal("created dto must not carry finished_at")
	}
}

func TestSliceMappersPreserveCountAndOrder(t *testing.T) {
	orders := []domain.ServiceOrder{{ID: 1}, {ID: 2}, {ID: 3}}
	got := dto.ServiceOrdersToDTO(orders)
	if len(got) != 3 {
		t.Fatalf("expected 3 orders, got %d", len(got))
	}
	for i, o := range got {
		if o.ID != orders[i].ID {
			t.Fatalf("order mismatch at %d: %+v", i, got)
		}
	}

	if got := dto.CustomersToDTO(nil); len(got) != 0 {
		t.Fatalf("nil input must map to empty slice, got %v", got)
	}
}
