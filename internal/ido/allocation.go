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

// Join admits a participant: escrows the payment, creates the participation
// record, and bumps the campaign counters. Preconditions are checked in a
// fixed order and the first violated one is reported. The capacity check and
// the counter increment share one critical section, so total_sold can never
// exceed the hard cap even under concurrent joins.
func (s *Service) Join(ctx context.Context, owner, participant string, allocations uint64) (*domain.Participation, error) {
	if err := solkey.Validate(participant); err != nil {
		return nil, err
	}

	lock := s.campaignLock(owner)
	lock.Lock()
	defer lock.Unlock()

	c, err := s.loadCampaign(ctx, owner)
	if err != nil {
		return nil, err
	}

	if !c.TokenSupplyDeposited {
		return nil, ErrSupplyNotDeposited
	}
	if c.SaleClosed {
		return nil, ErrSaleClosed
	}

	if allocations == 0 || allocations > c.MaxAllocationsPerParticipant {
		return nil, ErrInvalidNumberOfAllocations
	}

	now := s.now()
	if now < c.StartSaleTime || now >= c.EndSaleTime {
		return nil, ErrSaleNotOpen
	}

	amount, err := checkedMul(allocations, c.AllocationUnit)
	if err != nil {
		return nil, err
	}
	newTotalSold, err := checkedAdd(c.TotalSold, amount)
	if err != nil {
		return nil, err
	}
	if newTotalSold > c.HardCap {
		return nil, ErrAllocationNotAvailable
	}

	cost, ok := c.SaleCost(amount)
	if !ok {
		return nil, ErrMathOverflow
	}
	balance, err := s.funds.Balance(ctx, participant)
	if err != nil {
		return nil, fmt.Errorf("participant balance: %w", err)
	}
	if balance < cost {
		return nil, ErrInsufficientFunds
	}

	id := idhash.ComputeParticipationID(owner, participant)
	if _, err := s.participations.GetByID(ctx, id); err == nil {
		return nil, ErrAlreadyJoined
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("check participation: %w", err)
	}

	if err := s.funds.Transfer(ctx, participant, c.FundsTreasury, cost); err != nil {
		return nil, fmt.Errorf("escrow payment: %w", err)
	}

	p := &domain.Participation{
		ParticipationID: id,
		Campaign:        owner,
		Participant:     participant,
		Amount:          amount,
		Paid:            cost,
		JoinedAt:        now,
		CreatedAt:       now,
	}
	if err := s.participations.Insert(ctx, p); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			return nil, ErrAlreadyJoined
		}
		return nil, fmt.Errorf("insert participation: %w", err)
	}

	c.TotalSold = newTotalSold
	c.TotalParticipants++
	if err := s.campaigns.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update campaign: %w", err)
	}

	s.appendEvent(ctx, &domain.LedgerEvent{
		Campaign:     c.Owner,
		Participant:  participant,
		Kind:         domain.EventParticipantJoined,
		TokenAmount:  amount,
		NativeAmount: cost,
		OccurredAt:   now,
	})

	return p, nil
}
