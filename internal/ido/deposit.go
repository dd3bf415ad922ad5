package ido

import (
	"context"
	"errors"
	"fmt"

	"solana-ido-service/internal/bank"
	"solana-ido-service/internal/domain"
)

// DepositSupply moves exactly the hard cap worth of sale tokens from the
// owner's holding into the token treasury. The deposit happens once;
// everything that releases tokens is gated on it.
func (s *Service) DepositSupply(ctx context.Context, owner string) error {
	lock := s.campaignLock(owner)
	lock.Lock()
	defer lock.Unlock()

	c, err := s.loadCampaign(ctx, owner)
	if err != nil {
		return err
	}

	if c.SaleClosed {
		return ErrSaleClosed
	}
	if c.TokenSupplyDeposited {
		return ErrSupplyAlreadyDeposited
	}

	balance, err := s.tokens.Balance(ctx, owner)
	if err != nil {
		return fmt.Errorf("owner token balance: %w", err)
	}
	if balance < c.HardCap {
		return ErrInvalidDepositBalance
	}

	if err := s.tokens.Transfer(ctx, owner, c.TokenTreasury, c.HardCap); err != nil {
		if errors.Is(err, bank.ErrInsufficientBalance) {
			return ErrInvalidDepositBalance
		}
		return fmt.Errorf("deposit supply: %w", err)
	}

	c.TokenSupplyDeposited = true
	if err := s.campaigns.Update(ctx, c); err != nil {
		return fmt.Errorf("update campaign: %w", err)
	}

	s.appendEvent(ctx, &domain.LedgerEvent{
		Campaign:    c.Owner,
		Kind:        domain.EventSupplyDeposited,
		TokenAmount: c.HardCap,
		OccurredAt:  s.now(),
	})

	return nil
}
