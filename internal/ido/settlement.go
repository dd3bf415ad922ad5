package ido

import (
	"context"
	"fmt"

	"solana-ido-service/internal/domain"
)

// WithdrawResult reports the disposition of a successful sale's custodies.
type WithdrawResult struct {
	OwnerProceeds uint64 // native currency paid to the campaign owner
	PlatformFee   uint64 // native currency paid to the platform recipient
	UnsoldTokens  uint64 // tokens returned to the owner
}

// CloseCampaign is the owner's early-cancellation path. It is allowed only
// while the sale window is still open (and before anything has been
// claimed), returns the entire token treasury to the owner, and terminates
// the campaign: no further join, claim, or deposit is permitted.
func (s *Service) CloseCampaign(ctx context.Context, owner string) error {
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
	if s.now() > c.EndSaleTime {
		return ErrSaleEnded
	}
	if c.FundsWithdrawn {
		return ErrFundsAlreadyWithdrawn
	}
	if c.TotalClaimed != 0 {
		return ErrTotalClaimedNotZero
	}
	if !c.TokenSupplyDeposited {
		return ErrSupplyNotDeposited
	}

	balance, err := s.tokens.Balance(ctx, c.TokenTreasury)
	if err != nil {
		return fmt.Errorf("treasury balance: %w", err)
	}
	if balance > 0 {
		if err := s.tokens.Transfer(ctx, c.TokenTreasury, owner, balance); err != nil {
			return fmt.Errorf("return supply: %w", err)
		}
	}

	c.SaleClosed = true
	c.FundsWithdrawn = true
	c.Settlement = settledBranch(c)
	if err := s.campaigns.Update(ctx, c); err != nil {
		return fmt.Errorf("update campaign: %w", err)
	}

	s.appendEvent(ctx, &domain.LedgerEvent{
		Campaign:    c.Owner,
		Kind:        domain.EventCampaignClosed,
		TokenAmount: balance,
		OccurredAt:  s.now(),
	})

	return nil
}

// CloseIfSoftCapNotReached is the permissionless failure close: once the
// sale window has passed with the soft cap unmet, any caller can flip the
// campaign into its refund branch.
func (s *Service) CloseIfSoftCapNotReached(ctx context.Context, owner string) error {
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
	now := s.now()
	if now <= c.EndSaleTime {
		return ErrInvalidEndSaleTime
	}
	if c.SoftCapReached() {
		return ErrSoftCapReached
	}

	c.SaleClosed = true
	c.Settlement = domain.SettlementClosedFailure
	if err := s.campaigns.Update(ctx, c); err != nil {
		return fmt.Errorf("update campaign: %w", err)
	}

	s.appendEvent(ctx, &domain.LedgerEvent{
		Campaign:   c.Owner,
		Kind:       domain.EventCampaignClosed,
		OccurredAt: now,
	})

	return nil
}

// Refund returns a participant's escrowed payment after a close. It pays out
// exactly what was paid in, then zeroes the ledger row so a second refund
// finds nothing.
func (s *Service) Refund(ctx context.Context, owner, participant string) (uint64, error) {
	lock := s.campaignLock(owner)
	lock.Lock()
	defer lock.Unlock()

	c, err := s.loadCampaign(ctx, owner)
	if err != nil {
		return 0, err
	}

	if !c.SaleClosed {
		return 0, ErrSaleNotClosed
	}

	p, err := s.loadParticipation(ctx, owner, participant)
	if err != nil {
		return 0, err
	}
	if p.Paid == 0 {
		return 0, ErrNothingToRefund
	}

	treasuryBalance, err := s.funds.Balance(ctx, c.FundsTreasury)
	if err != nil {
		return 0, fmt.Errorf("funds treasury balance: %w", err)
	}
	if treasuryBalance < p.Paid {
		return 0, ErrInsufficientTreasury
	}

	refunded := p.Paid
	if err := s.funds.Transfer(ctx, c.FundsTreasury, participant, refunded); err != nil {
		return 0, fmt.Errorf("refund payment: %w", err)
	}

	p.Amount = 0
	p.Paid = 0
	if err := s.participations.Update(ctx, p); err != nil {
		return 0, fmt.Errorf("update participation: %w", err)
	}

	s.appendEvent(ctx, &domain.LedgerEvent{
		Campaign:     c.Owner,
		Participant:  participant,
		Kind:         domain.EventRefunded,
		NativeAmount: refunded,
		OccurredAt:   s.now(),
	})

	return refunded, nil
}

// ReclaimTokensIfSoftCapNotReached returns the full deposited supply to the
// owner after a failure close. One shot: it also marks the fund disposition
// done so re-invocation fails.
func (s *Service) ReclaimTokensIfSoftCapNotReached(ctx context.Context, owner string) (uint64, error) {
	lock := s.campaignLock(owner)
	lock.Lock()
	defer lock.Unlock()

	c, err := s.loadCampaign(ctx, owner)
	if err != nil {
		return 0, err
	}

	if !c.SaleClosed {
		return 0, ErrSaleNotClosed
	}
	if c.SoftCapReached() {
		return 0, ErrSoftCapReached
	}
	if c.FundsWithdrawn {
		return 0, ErrFundsAlreadyWithdrawn
	}

	balance, err := s.tokens.Balance(ctx, c.TokenTreasury)
	if err != nil {
		return 0, fmt.Errorf("treasury balance: %w", err)
	}
	if balance > 0 {
		if err := s.tokens.Transfer(ctx, c.TokenTreasury, owner, balance); err != nil {
			return 0, fmt.Errorf("reclaim supply: %w", err)
		}
	}

	c.FundsWithdrawn = true
	if err := s.campaigns.Update(ctx, c); err != nil {
		return 0, fmt.Errorf("update campaign: %w", err)
	}

	s.appendEvent(ctx, &domain.LedgerEvent{
		Campaign:    c.Owner,
		Kind:        domain.EventTokensReclaimed,
		TokenAmount: balance,
		OccurredAt:  s.now(),
	})

	return balance, nil
}

// WithdrawFunds is the success settlement: after the sale window closes with
// the soft cap reached, the owner collects the funds treasury minus the
// platform's fixed fee, plus the unsold part of the deposited supply. Sold
// tokens stay in the treasury for vesting claims, and the campaign stays
// claimable; only the fund disposition is marked done.
func (s *Service) WithdrawFunds(ctx context.Context, owner string) (*WithdrawResult, error) {
	lock := s.campaignLock(owner)
	lock.Lock()
	defer lock.Unlock()

	c, err := s.loadCampaign(ctx, owner)
	if err != nil {
		return nil, err
	}

	if c.FundsWithdrawn {
		return nil, ErrFundsAlreadyWithdrawn
	}
	if s.now() <= c.EndSaleTime {
		return nil, ErrInvalidEndSaleTime
	}
	if !c.TokenSupplyDeposited {
		return nil, ErrSupplyNotDeposited
	}
	if !c.SoftCapReached() {
		return nil, ErrSoftCapNotReached
	}

	balance, err := s.funds.Balance(ctx, c.FundsTreasury)
	if err != nil {
		return nil, fmt.Errorf("funds treasury balance: %w", err)
	}

	result := &WithdrawResult{}
	if balance > 0 {
		result.PlatformFee = balance / 100 * PlatformFeePct
		result.OwnerProceeds = balance - result.PlatformFee

		if err := s.funds.Transfer(ctx, c.FundsTreasury, owner, result.OwnerProceeds); err != nil {
			return nil, fmt.Errorf("withdraw proceeds: %w", err)
		}
		if err := s.funds.Transfer(ctx, c.FundsTreasury, s.platformAccount, result.PlatformFee); err != nil {
			return nil, fmt.Errorf("withdraw platform fee: %w", err)
		}
	}

	result.UnsoldTokens = c.UnsoldTokens()
	if result.UnsoldTokens > 0 {
		treasuryBalance, err := s.tokens.Balance(ctx, c.TokenTreasury)
		if err != nil {
			return nil, fmt.Errorf("token treasury balance: %w", err)
		}
		if treasuryBalance < result.UnsoldTokens {
			return nil, ErrInsufficientTreasury
		}
		if err := s.tokens.Transfer(ctx, c.TokenTreasury, owner, result.UnsoldTokens); err != nil {
			return nil, fmt.Errorf("withdraw unsold tokens: %w", err)
		}
	}

	c.FundsWithdrawn = true
	if c.Settlement == domain.SettlementOpen {
		c.Settlement = domain.SettlementClosedSuccess
	}
	if err := s.campaigns.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update campaign: %w", err)
	}

	s.appendEvent(ctx, &domain.LedgerEvent{
		Campaign:     c.Owner,
		Kind:         domain.EventFundsWithdrawn,
		TokenAmount:  result.UnsoldTokens,
		NativeAmount: result.OwnerProceeds + result.PlatformFee,
		OccurredAt:   s.now(),
	})

	return result, nil
}

// settledBranch derives the terminal tag at the moment of closing.
func settledBranch(c *domain.Campaign) domain.SettlementBranch {
	if c.SoftCapReached() {
		return domain.SettlementClosedSuccess
	}
	return domain.SettlementClosedFailure
}
