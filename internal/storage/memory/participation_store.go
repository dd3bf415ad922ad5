package memory

import (
	"context"
	"sort"
	"sync"

	"solana-ido-service/internal/domain"
	"solana-ido-service/internal/storage"
)

// ParticipationStore is an in-memory implementation of storage.ParticipationStore.
type ParticipationStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Participation // keyed by participation_id
}

// NewParticipationStore creates a new in-memory participation store.
func NewParticipationStore() *ParticipationStore {
	return &ParticipationStore{
		data: make(map[string]*domain.Participation),
	}
}

// Insert adds a new participation. Returns ErrDuplicateKey if the pair exists.
func (s *ParticipationStore) Insert(_ context.Context, p *domain.Participation) error {
	if p == nil || p.ParticipationID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[p.ParticipationID]; exists {
		return storage.ErrDuplicateKey
	}

	participationCopy := *p
	s.data[p.ParticipationID] = &participationCopy
	return nil
}

// GetByID retrieves a participation by key. Returns ErrNotFound if not exists.
func (s *ParticipationStore) GetByID(_ context.Context, participationID string) (*domain.Participation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.data[participationID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	participationCopy := *p
	return &participationCopy, nil
}

// GetByCampaign retrieves all participations of a campaign, ordered by join time ASC.
func (s *ParticipationStore) GetByCampaign(_ context.Context, campaign string) ([]*domain.Participation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Participation
	for _, p := range s.data {
		if p.Campaign == campaign {
			participationCopy := *p
			result = append(result, &participationCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].JoinedAt != result[j].JoinedAt {
			return result[i].JoinedAt < result[j].JoinedAt
		}
		return result[i].ParticipationID < result[j].ParticipationID
	})

	return result, nil
}

// Update persists the participation's mutable fields. Returns ErrNotFound if missing.
func (s *ParticipationStore) Update(_ context.Context, p *domain.Participation) error {
	if p == nil || p.ParticipationID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[p.ParticipationID]; !exists {
		return storage.ErrNotFound
	}

	participationCopy := *p
	s.data[p.ParticipationID] = &participationCopy
	return nil
}

// Verify interface compliance at compile time.
var _ storage.ParticipationStore = (*ParticipationStore)(nil)
