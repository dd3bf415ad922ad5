package memory

import (
	"context"
	"sort"
	"sync"

	"solana-ido-service/internal/domain"
	"solana-ido-service/internal/storage"
)

// CampaignStore is an in-memory implementation of storage.CampaignStore.
type CampaignStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Campaign // keyed by owner
}

// NewCampaignStore creates a new in-memory campaign store.
func NewCampaignStore() *CampaignStore {
	return &CampaignStore{
		data: make(map[string]*domain.Campaign),
	}
}

// Insert adds a new campaign. Returns ErrDuplicateKey if the owner already has one.
func (s *CampaignStore) Insert(_ context.Context, c *domain.Campaign) error {
	if c == nil || c.Owner == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[c.Owner]; exists {
		return storage.ErrDuplicateKey
	}

	// Store a copy to prevent external mutation
	campaignCopy := *c
	s.data[c.Owner] = &campaignCopy
	return nil
}

// GetByOwner retrieves a campaign by owner. Returns ErrNotFound if not exists.
func (s *CampaignStore) GetByOwner(_ context.Context, owner string) (*domain.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, exists := s.data[owner]
	if !exists {
		return nil, storage.ErrNotFound
	}

	campaignCopy := *c
	return &campaignCopy, nil
}

// Update persists the campaign's mutable fields. Returns ErrNotFound if missing.
func (s *CampaignStore) Update(_ context.Context, c *domain.Campaign) error {
	if c == nil || c.Owner == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[c.Owner]; !exists {
		return storage.ErrNotFound
	}

	campaignCopy := *c
	s.data[c.Owner] = &campaignCopy
	return nil
}

// List retrieves all campaigns ordered by creation time ASC.
func (s *CampaignStore) List(_ context.Context) ([]*domain.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Campaign, 0, len(s.data))
	for _, c := range s.data {
		campaignCopy := *c
		result = append(result, &campaignCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt != result[j].CreatedAt {
			return result[i].CreatedAt < result[j].CreatedAt
		}
		return result[i].Owner < result[j].Owner
	})

	return result, nil
}

// Verify interface compliance at compile time.
var _ storage.CampaignStore = (*CampaignStore)(nil)
