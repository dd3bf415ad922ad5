package storage

import (
	"context"

	"solana-ido-service/internal/domain"
)

// CampaignStore provides access to campaigns storage.
type CampaignStore interface {
	// Insert adds a new campaign. Returns ErrDuplicateKey if the owner
	// already has one; campaign creation is insert-if-absent.
	Insert(ctx context.Context, c *domain.Campaign) error

	// GetByOwner retrieves a campaign by its owner address.
	// Returns ErrNotFound if not exists.
	GetByOwner(ctx context.Context, owner string) (*domain.Campaign, error)

	// Update persists the campaign's mutable fields (counters and flags).
	// Returns ErrNotFound if the campaign does not exist.
	Update(ctx context.Context, c *domain.Campaign) error

	// List retrieves all campaigns ordered by creation time ASC.
	List(ctx context.Context) ([]*domain.Campaign, error)
}

// ParticipationStore provides access to participations storage.
type ParticipationStore interface {
	// Insert adds a new participation. Returns ErrDuplicateKey if the
	// (campaign, participant) pair already has a record.
	Insert(ctx context.Context, p *domain.Participation) error

	// GetByID retrieves a participation by its deterministic key.
	// Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, participationID string) (*domain.Participation, error)

	// GetByCampaign retrieves all participations of a campaign,
	// ordered by join time ASC.
	GetByCampaign(ctx context.Context, campaign string) ([]*domain.Participation, error)

	// Update persists the participation's mutable fields (claimed,
	// refund zeroing). Returns ErrNotFound if the record does not exist.
	Update(ctx context.Context, p *domain.Participation) error
}

// LedgerEventStore provides access to the append-only ledger_events trail.
type LedgerEventStore interface {
	// Insert appends an event. Events are never updated or deleted.
	Insert(ctx context.Context, e *domain.LedgerEvent) error

	// GetByCampaign retrieves all events of a campaign, ordered by
	// occurrence time ASC.
	GetByCampaign(ctx context.Context, campaign string) ([]*domain.LedgerEvent, error)
}
