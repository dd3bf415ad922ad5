package ido

import (
	"context"
	"fmt"

	"solana-ido-service/internal/domain"
)

// Claim releases the participant's newly unlocked tokens from the token
// treasury. The unlocked total is a pure function of the clock, so repeat
// calls pay out only the delta and a call with no delta fails with
// "nothing to claim". Claiming is gated on the campaign not having been
// closed by either settlement path.
func (s *Service) Claim(ctx context.Context, owner, participant string) (uint64, error) {
	lock := s.campaignLock(owner)
	lock.Lock()
	defer lock.Unlock()

	c, err := s.loadCampaign(ctx, owner)
	if err != nil {
		return 0, err
	}

	if c.SaleClosed {
		return 0, ErrSaleClosed
	}
	if !c.TokenSupplyDeposited {
		return 0, ErrSupplyNotDeposited
	}

	p, err := s.loadParticipation(ctx, owner, participant)
	if err != nil {
		return 0, err
	}
	if p.FullyClaimed() {
		return 0, ErrNothingToClaim
	}

	now := s.now()
	unlocked := UnlockedAmount(p.Amount, c.CliffTime, c.VestingEndTime, c.CliffUnlockPct, now)
	if unlocked <= p.Claimed {
		return 0, ErrNothingToClaim
	}
	delta := unlocked - p.Claimed

	treasuryBalance, err := s.tokens.Balance(ctx, c.TokenTreasury)
	if err != nil {
		return 0, fmt.Errorf("treasury balance: %w", err)
	}
	if treasuryBalance < delta {
		return 0, ErrInsufficientTreasury
	}

	if err := s.tokens.Transfer(ctx, c.TokenTreasury, participant, delta); err != nil {
		return 0, fmt.Errorf("release tokens: %w", err)
	}

	// The participant row commits before the campaign aggregate; a failure
	// between the two leaves total_claimed an undercount of the summed
	// participations, never an overcount.
	p.Claimed += delta
	if err := s.participations.Update(ctx, p); err != nil {
		return 0, fmt.Errorf("update participation: %w", err)
	}

	c.TotalClaimed, err = checkedAdd(c.TotalClaimed, delta)
	if err != nil {
		return 0, err
	}
	if err := s.campaigns.Update(ctx, c); err != nil {
		return 0, fmt.Errorf("update campaign: %w", err)
	}

	s.appendEvent(ctx, &domain.LedgerEvent{
		Campaign:    c.Owner,
		Participant: participant,
		Kind:        domain.EventClaimed,
		TokenAmount: delta,
		OccurredAt:  now,
	})

	return delta, nil
}
