package ido

import (
	"context"
	"errors"
	"fmt"

	"solana-ido-service/internal/domain"
	"solana-ido-service/internal/idhash"
	"solana-ido-service/internal/solkey"
	"solana-ido-service/internal/storage"
)

// CampaignParams carries the full configuration of a new campaign.
type CampaignParams struct {
	Owner     string
	TokenMint string

	StartSaleTime  int64
	EndSaleTime    int64
	CliffTime      int64
	VestingEndTime int64

	UnitPrice                    uint64
	AllocationUnit               uint64
	SoftCap                      uint64
	HardCap                      uint64
	CliffUnlockPct               int32
	MaxAllocationsPerParticipant uint64
}

// InitializeCampaign validates the configuration and creates the campaign
// record with all counters at zero. Validation is all-or-nothing: the first
// violated constraint aborts with no state change. An owner can hold at
// most one campaign.
func (s *Service) InitializeCampaign(ctx context.Context, params CampaignParams) (*domain.Campaign, error) {
	if err := solkey.Validate(params.Owner); err != nil {
		return nil, err
	}
	if err := solkey.Validate(params.TokenMint); err != nil {
		return nil, err
	}
	if err := checkTiming(params, s.now()); err != nil {
		return nil, err
	}
	if err := checkEconomics(params); err != nil {
		return nil, err
	}

	c := &domain.Campaign{
		Owner:         params.Owner,
		TokenMint:     params.TokenMint,
		TokenTreasury: idhash.ComputeTreasuryID(idhash.TreasuryKindTokens, params.Owner),
		FundsTreasury: idhash.ComputeTreasuryID(idhash.TreasuryKindFunds, params.Owner),

		StartSaleTime:  params.StartSaleTime,
		EndSaleTime:    params.EndSaleTime,
		CliffTime:      params.CliffTime,
		VestingEndTime: params.VestingEndTime,

		UnitPrice:                    params.UnitPrice,
		AllocationUnit:               params.AllocationUnit,
		SoftCap:                      params.SoftCap,
		HardCap:                      params.HardCap,
		CliffUnlockPct:               params.CliffUnlockPct,
		MaxAllocationsPerParticipant: params.MaxAllocationsPerParticipant,

		Settlement: domain.SettlementOpen,
		CreatedAt:  s.now(),
	}

	if err := s.campaigns.Insert(ctx, c); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			return nil, ErrCampaignExists
		}
		return nil, fmt.Errorf("insert campaign: %w", err)
	}

	s.appendEvent(ctx, &domain.LedgerEvent{
		Campaign:   c.Owner,
		Kind:       domain.EventCampaignInitialized,
		OccurredAt: c.CreatedAt,
	})

	return c, nil
}

// checkTiming enforces the timestamp ordering: the sale starts strictly in
// the future, the cliff falls strictly after the sale window closes, and
// vesting ends strictly after the cliff.
func checkTiming(params CampaignParams, now int64) error {
	if params.StartSaleTime <= now {
		return ErrInvalidStartSaleTime
	}
	if params.EndSaleTime <= params.StartSaleTime {
		return ErrInvalidEndSaleTime
	}
	if params.CliffTime <= params.EndSaleTime {
		return ErrInvalidCliff
	}
	if params.VestingEndTime <= params.CliffTime {
		return ErrInvalidVestingEndTime
	}
	return nil
}

// checkEconomics enforces positivity and ordering of the pricing and caps.
func checkEconomics(params CampaignParams) error {
	if params.UnitPrice == 0 {
		return ErrInvalidPrice
	}
	if params.AllocationUnit == 0 {
		return ErrInvalidAllocation
	}
	if params.MaxAllocationsPerParticipant == 0 {
		return ErrInvalidAllocationsPerParticipant
	}
	if params.CliffUnlockPct < 1 || params.CliffUnlockPct > 100 {
		return ErrInvalidCliffPct
	}
	if params.SoftCap == 0 {
		return ErrInvalidSoftCap
	}
	if params.HardCap <= params.SoftCap {
		return ErrInvalidHardCap
	}
	return nil
}
