package connect

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotConnected indicates no connection record exists for the user.
var ErrNotConnected = errors.New("connection not found")

// ConnectionRecord ties a user to the organization their connection resolved
// to.
type ConnectionRecord struct {
	UserID         string
	OrganizationID string
	ConnectedAt    time.Time
}

// ConnectionStore persists connection records so status checks are
// answerable across sessions.
type ConnectionStore interface {
	Get(ctx context.Context, userID string) (ConnectionRecord, error)
	Put(ctx context.Context, rec ConnectionRecord) error
	Delete(ctx context.Context, userID string) error
}

var _ ConnectionStore = (*MemoryConnectionStore)(nil)

// MemoryConnectionStore keeps connection records in process memory.
type MemoryConnectionStore struct {
	mu      sync.Mutex
	records map[string]ConnectionRecord
}

func NewMemoryConnectionStore() *MemoryConnectionStore {
	return &MemoryConnectionStore{records: make(map[string]ConnectionRecord)}
}

func (s *MemoryConnectionStore) Get(_ context.Context, userID string) (ConnectionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[userID]
	if !ok {
		return ConnectionRecord{}, ErrNotConnected
	}
	return rec, nil
}

func (s *MemoryConnectionStore) Put(_ context.Context, rec ConnectionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.UserID] = rec
	return nil
}

func (s *MemoryConnectionStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, userID)
	return nil
}

var _ StatusService = (*StoreStatusService)(nil)

// StoreStatusService answers status checks from a ConnectionStore.
type StoreStatusService struct {
	store ConnectionStore
}

func NewStoreStatusService(store ConnectionStore) *StoreStatusService {
	return &StoreStatusService{store: store}
}

func (s *StoreStatusService) GetStatus(ctx context.Context, userID string) (StatusResult, error) {
	rec, err := s.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotConnected) {
			return StatusResult{Connected: false}, nil
		}
		return StatusResult{}, err
	}
	return StatusResult{Connected: true, OrganizationID: rec.OrganizationID}, nil
}
