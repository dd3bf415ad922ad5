// Package ido implements the token-sale campaign state machine: campaign
// configuration, participant allocation, escrowed custody bookkeeping,
// cliff-and-linear vesting, and the two exclusive settlement paths.
package ido

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/jonboulle/clockwork"

	"solana-ido-service/internal/bank"
	"solana-ido-service/internal/domain"
	"solana-ido-service/internal/idhash"
	"solana-ido-service/internal/storage"
)

// PlatformFeePct is the fixed platform share of a successful sale's
// collected funds, applied as balance / 100 * PlatformFeePct.
const PlatformFeePct = 5

// Options configures a Service.
type Options struct {
	Campaigns      storage.CampaignStore
	Participations storage.ParticipationStore
	Events         storage.LedgerEventStore // optional; nil disables the audit trail

	Tokens bank.Ledger // sale token balances
	Funds  bank.Ledger // native currency balances

	Clock           clockwork.Clock
	PlatformAccount string // recipient of the platform fee split

	Logger *log.Logger

	// Sink, when set, receives every committed ledger event. Used to feed
	// live subscribers; must not block.
	Sink func(*domain.LedgerEvent)
}

// Service executes campaign operations. Every operation runs as a single
// critical section per campaign: all validation happens against freshly
// loaded committed state, and either every write lands or none do.
type Service struct {
	campaigns      storage.CampaignStore
	participations storage.ParticipationStore
	events         storage.LedgerEventStore

	tokens bank.Ledger
	funds  bank.Ledger

	clock           clockwork.Clock
	platformAccount string
	logger          *log.Logger
	sink            func(*domain.LedgerEvent)

	mu    sync.Mutex
	locks map[string]*sync.Mutex // per campaign owner
}

// NewService creates a campaign service.
func NewService(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &Service{
		campaigns:       opts.Campaigns,
		participations:  opts.Participations,
		events:          opts.Events,
		tokens:          opts.Tokens,
		funds:           opts.Funds,
		clock:           clock,
		platformAccount: opts.PlatformAccount,
		logger:          logger,
		sink:            opts.Sink,
		locks:           make(map[string]*sync.Mutex),
	}
}

// campaignLock returns the mutex serializing all transactions against one
// campaign record. Concurrent operations on different campaigns do not
// contend.
func (s *Service) campaignLock(owner string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[owner]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[owner] = lock
	}
	return lock
}

// loadCampaign fetches the campaign addressed by the owner identity.
func (s *Service) loadCampaign(ctx context.Context, owner string) (*domain.Campaign, error) {
	c, err := s.campaigns.GetByOwner(ctx, owner)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, fmt.Errorf("load campaign: %w", err)
	}
	return c, nil
}

// loadParticipation fetches the unique record for a (campaign, participant)
// pair, mapping absence to ErrNotJoined.
func (s *Service) loadParticipation(ctx context.Context, campaign, participant string) (*domain.Participation, error) {
	id := idhash.ComputeParticipationID(campaign, participant)
	p, err := s.participations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotJoined
		}
		return nil, fmt.Errorf("load participation: %w", err)
	}
	if p.JoinedAt <= 0 {
		return nil, ErrNotJoined
	}
	return p, nil
}

// appendEvent records a committed mutation in the audit trail. The trail is
// advisory: a storage failure here is logged, not surfaced, because the
// state change has already committed.
func (s *Service) appendEvent(ctx context.Context, e *domain.LedgerEvent) {
	if s.events != nil {
		if err := s.events.Insert(ctx, e); err != nil {
			s.logger.Printf("append ledger event %s for %s: %v", e.Kind, e.Campaign, err)
		}
	}
	if s.sink != nil {
		s.sink(e)
	}
}

// Campaign returns the committed state of a campaign.
func (s *Service) Campaign(ctx context.Context, owner string) (*domain.Campaign, error) {
	return s.loadCampaign(ctx, owner)
}

// Participation returns the committed ledger row of one participant.
func (s *Service) Participation(ctx context.Context, owner, participant string) (*domain.Participation, error) {
	return s.loadParticipation(ctx, owner, participant)
}

// Events returns the campaign's audit trail, oldest first.
func (s *Service) Events(ctx context.Context, owner string) ([]*domain.LedgerEvent, error) {
	if s.events == nil {
		return nil, nil
	}
	return s.events.GetByCampaign(ctx, owner)
}

func (s *Service) now() int64 {
	return s.clock.Now().Unix()
}
