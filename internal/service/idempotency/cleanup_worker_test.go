package idempotency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/soms/internal/domain"
)

func TestCleanupWorker_DeletesUntilBatchNotFull(t *testing.T) {
	t.Parallel()

	repo := &stubCleanupRepo{deleteResults: []int{3, 3, 1}}
	worker := NewCleanupWorker(repo, WithBatchSize(3))

	worker.cleanup(context.Background())

	if got := len(repo.deleteCalls); got != 3 {
		t.Fatalf("expected 3 delete calls, got %d", got)
	}
	for i, call := range repo.deleteCalls {
		if call.limit != 3 {
			t.Fatalf("call %d: expected limit 3, got %d", i, call.limit)
		}
	}
}

func TestCleanupWorker_StopsOnError(t *testing.T) {
	t.Parallel()

	repo := &stubCleanupRepo{
		deleteResults: []int{5, 0},
		deleteErrors:  []error{nil, errors.New("storage unavailable")},
	}
	worker := NewCleanupWorker(repo, WithBatchSize(5))

	worker.cleanup(context.Background())

	if got := len(repo.deleteCalls); got != 2 {
		t.Fatalf("expected 2 delete calls, got %d", got)
	}
}

func TestCleanupWorker_UsesSameCutoffAcrossBatches(t *testing.T) {
	t.Parallel()

	repo := &stubCleanupRepo{deleteResults: []int{2, 0}}
	worker := NewCleanupWorker(repo, WithBatchSize(2))

	fixed := time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)
	worker.now = func() time.Time { return fixed }

	worker.cleanup(context.Background())

	if got := len(repo.deleteCalls); got != 2 {
		t.Fatalf("expected 2 delete calls, got %d", got)
	}
	for i, call := range repo.deleteCalls {
		if !call.before.Equal(fixed) {
			t.Fatalf("call %d: expected cutoff %v, got %v", i, fixed, call.before)
		}
	}
}

func TestCleanupWorker_Run_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	repo := &stubCleanupRepo{}
	worker := NewCleanupWorker(repo, WithInterval(5*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		worker.Run(ctx)
	}()

	time.Sleep(15 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("cleanup worker did not stop on context cancel")
	}
}

type deleteCall struct {
	before time.Time
	limit  int
}

type stubCleanupRepo struct {
	deleteCalls   []deleteCall
	deleteResults []int
	deleteErrors  []error
}

func (s *stubCleanupRepo) CreateProcessing(key, requestHash string, ttlAt time.Time) (domain.IdempotencyRecord, error) {
	return domain.IdempotencyRecord{Key: key, RequestHash: requestHash, TTLAt: ttlAt}, nil
}

func (s *stubCleanupRepo) Get(key string) (domain.IdempotencyRecord, error) {
	return domain.IdempotencyRecord{}, domain.ErrIdempotencyKeyNotFound
}

func (s *stubCleanupRepo) MarkDone(string, []byte, int) error { return nil }

func (s *stubCleanupRepo) MarkFailed(string, []byte, int) error { return nil }

func (s *stubCleanupRepo) DeleteExpired(before time.Time, limit int) (int, error) {
	idx := len(s.deleteCalls)
	s.deleteCalls = append(s.deleteCalls, deleteCall{before: before, limit: limit})

	var err error
	if idx < len(s.deleteErrors) {
		err = s.deleteErrors[idx]
	}
	if err != nil {
		return 0, err
	}

	if idx < len(s.deleteResults) {
		return s.deleteResults[idx], nil
	}
	return 0, nil
}

var _ domain.IdempotencyRepository = (*stubCleanupRepo)(nil)
