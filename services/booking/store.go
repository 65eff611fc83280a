package booking

import (
	"context"
	"sync"

	"appointly/models"
)

// ConfirmationStore owns the pending-confirmation table.
// Lock gives one caller exclusive resolution rights over an id until the returned func is called.
type ConfirmationStore interface {
	Save(ctx context.Context, pending models.PendingConfirmation) error
	Get(ctx context.Context, id string) (models.PendingConfirmation, error)
	Update(ctx context.Context, pending models.PendingConfirmation) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) (map[string]models.PendingConfirmation, error)
	Lock(ctx context.Context, id string) (func(), error)
}

var (
	_ ConfirmationStore = (*MemoryConfirmationStore)(nil)
	_ ConfirmationStore = (*RedisConfirmationStore)(nil)
)

// MemoryConfirmationStore keeps pending confirmations in process memory.
// Entries are lost on restart and never expire.
type MemoryConfirmationStore struct {
	mu      sync.Mutex
	pending map[string]models.PendingConfirmation
	held    map[string]struct{}
}

func NewMemoryConfirmationStore() *MemoryConfirmationStore {
	return &MemoryConfirmationStore{
		pending: make(map[string]models.PendingConfirmation),
		held:    make(map[string]struct{}),
	}
}

func (s *MemoryConfirmationStore) Save(_ context.Context, pending models.PendingConfirmation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.pending[pending.ID]; exists {
		return ErrDuplicateID
	}
	s.pending[pending.ID] = pending
	return nil
}

func (s *MemoryConfirmationStore) Get(_ context.Context, id string) (models.PendingConfirmation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending, ok := s.pending[id]
	if !ok {
		return models.PendingConfirmation{}, ErrConfirmationNotFound
	}
	return pending, nil
}

func (s *MemoryConfirmationStore) Update(_ context.Context, pending models.PendingConfirmation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pending[pending.ID]; !ok {
		return ErrConfirmationNotFound
	}
	s.pending[pending.ID] = pending
	return nil
}

func (s *MemoryConfirmationStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pending[id]; !ok {
		return ErrConfirmationNotFound
	}
	delete(s.pending, id)
	return nil
}

func (s *MemoryConfirmationStore) List(_ context.Context) (map[string]models.PendingConfirmation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]models.PendingConfirmation, len(s.pending))
	for id, p := range s.pending {
		out[id] = p
	}
	return out, nil
}

func (s *MemoryConfirmationStore) Lock(_ context.Context, id string) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.held[id]; busy {
		return nil, ErrConfirmationBusy
	}
	s.held[id] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.held, id)
			s.mu.Unlock()
		})
	}, nil
}
