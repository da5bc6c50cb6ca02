package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/soms/internal/domain"
	"github.com/vladislavdragonenkov/soms/internal/dto"
	"github.com/vladislavdragonenkov/soms/internal/service/customers"
	"github.com/vladislavdragonenkov/soms/internal/service/outbox"
	"github.com/vladislavdragonenkov/soms/internal/service/serviceorders"
	"github.com/vladislavdragonenkov/soms/internal/storage/memory"
	"github.com/vladislavdragonenkov/soms/internal/transport/httpapi"
)

// collectingPublisher накапливает опубликованные outbox-сообщения.
type collectingPublisher struct {
	mu     sync.Mutex
	events []domain.OutboxMessage
}

func (p *collectingPublisher) Publish(event domain.OutboxMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *collectingPublisher) published() []domain.OutboxMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.OutboxMessage(nil), p.events...)
}

type testEnv struct {
	server     *httptest.Server
	outboxRepo domain.OutboxRepository
	worker     *outbox.Worker
	publisher  *collectingPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	customerRepo := memory.NewCustomerRepository()
	orderRepo := memory.NewServiceOrderRepository()
	timelineRepo := memory.NewTimelineRepository()
	outboxRepo := memory.NewOutboxRepository()
	idempotencyRepo := memory.NewIdempotencyRepository()

	customerService := customers.NewService(customerRepo, outboxRepo, nil, nil)
	orderService := serviceorders.NewService(orderRepo, customerRepo, timelineRepo, outboxRepo, nil, nil)

	api := httpapi.NewServer(customerService, orderService, idempotencyRepo, nil)
	server := httptest.NewServer(api.Handler())
	t.Cleanup(server.Close)

	publisher := &collectingPublisher{}
	worker := outbox.NewWorker(outboxRepo, publisher, outbox.WithRetryBaseDelay(0))

	return &testEnv{
		server:     server,
		outboxRepo: outboxRepo,
		worker:     worker,
		publisher:  publisher,
	}
}

func (env *testEnv) do(t *testing.T, method, path string, payload any, out any) *http.Response {
	t.Helper()

	var body bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = *bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, env.server.URL+path, &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := env.server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestServiceOrderLifecycle_EndToEnd(t *testing.T) {
	env := newTestEnv(t)

	var customer dto.Customer
	resp := env.do(t, http.MethodPost, "/api/v1/customers", dto.CreateCustomer{
		Name:  "Joana Ribeiro",
		Email: "joana@example.com",
		Phone: "+55 85 98888-0000",
	}, &customer)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created dto.CreatedServiceOrder
	resp = env.do(t, http.MethodPost, "/api/v1/service-orders", dto.CreateServiceOrder{
		Description: "troca de tela",
		PriceMinor:  35000,
		CustomerID:  customer.ID,
	}, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, string(domain.ServiceOrderStatusOpen), created.Status)

	var comment dto.Comment
	resp = env.do(t, http.MethodPost, "/api/v1/service-orders/1/comments", dto.CreateComment{
		Author: "tecnico",
		Text:   "peça encomendada",
	}, &comment)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var finished dto.ServiceOrder
	resp = env.do(t, http.MethodPost, "/api/v1/service-orders/1/finish", nil, &finished)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, string(domain.ServiceOrderStatusFinished), finished.Status)
	require.NotNil(t, finished.FinishedAt)

	var timeline []dto.TimelineEvent
	resp = env.do(t, http.MethodGet, "/api/v1/service-orders/1/timeline", nil, &timeline)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, timeline, 3)

	// Воркер публикует накопленные события, backlog опустевает.
	env.worker.ProcessOnce(context.Background())

	events := env.publisher.published()
	require.Len(t, events, 3)

	eventTypes := make([]string, 0, len(events))
	for _, event := range events {
		eventTypes = append(eventTypes, event.EventType)
	}
	require.Contains(t, eventTypes, "customer.created")
	require.Contains(t, eventTypes, "order.created")
	require.Contains(t, eventTypes, "order.finished")

	stats, err := env.outboxRepo.Stats()
	require.NoError(t, err)
	require.Zero(t, stats.PendingCount)
}

func TestServiceOrderLifecycle_CancelKeepsFinishedAtEmpty(t *testing.T) {
	env := newTestEnv(t)

	var customer dto.Customer
	resp := env.do(t, http.MethodPost, "/api/v1/customers", dto.CreateCustomer{
		Name:  "Pedro Souza",
		Email: "pedro@example.com",
	}, &customer)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created dto.CreatedServiceOrder
	resp = env.do(t, http.MethodPost, "/api/v1/service-orders", dto.CreateServiceOrder{
		Description: "revisão",
		PriceMinor:  9900,
		CustomerID:  customer.ID,
	}, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var canceled dto.ServiceOrder
	resp = env.do(t, http.MethodPost, "/api/v1/service-orders/1/cancel", nil, &canceled)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, string(domain.ServiceOrderStatusCanceled), canceled.Status)
	require.Nil(t, canceled.FinishedAt)

	resp = env.do(t, http.MethodPost, "/api/v1/service-orders/1/finish", nil, nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}
