package memory

import (
	"context"
	"sort"
	"sync"

	"solana-ido-service/internal/domain"
	"solana-ido-service/internal/storage"
)

// LedgerEventStore is an in-memory implementation of storage.LedgerEventStore.
type LedgerEventStore struct {
	mu   sync.RWMutex
	data []*domain.LedgerEvent
}

// NewLedgerEventStore creates a new in-memory ledger event store.
func NewLedgerEventStore() *LedgerEventStore {
	return &LedgerEventStore{}
}

// Insert appends an event.
func (s *LedgerEventStore) Insert(_ context.Context, e *domain.LedgerEvent) error {
	if e == nil || e.Campaign == "" || e.Kind == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	eventCopy := *e
	s.data = append(s.data, &eventCopy)
	return nil
}

// GetByCampaign retrieves all events of a campaign, ordered by occurrence time ASC.
func (s *LedgerEventStore) GetByCampaign(_ context.Context, campaign string) ([]*domain.LedgerEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.LedgerEvent
	for _, e := range s.data {
		if e.Campaign == campaign {
			eventCopy := *e
			result = append(result, &eventCopy)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].OccurredAt < result[j].OccurredAt
	})

	return result, nil
}

// Verify interface compliance at compile time.
var _ storage.LedgerEventStore = (*LedgerEventStore)(nil)
