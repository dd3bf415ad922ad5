package ido

import "errors"

// Campaign errors. Messages follow the on-chain program's error catalogue
// so API clients see the same failure names on both surfaces.
var (
	// Configuration validation
	ErrInvalidStartSaleTime             = errors.New("invalid start sale time")
	ErrInvalidEndSaleTime               = errors.New("invalid end sale time")
	ErrInvalidCliff                     = errors.New("invalid cliff")
	ErrInvalidVestingEndTime            = errors.New("invalid vesting end time")
	ErrInvalidPrice                     = errors.New("invalid price")
	ErrInvalidAllocation                = errors.New("invalid allocation")
	ErrInvalidSoftCap                   = errors.New("invalid soft cap")
	ErrInvalidHardCap                   = errors.New("invalid hard cap")
	ErrInvalidCliffPct                  = errors.New("invalid available tokens after cliff pct")
	ErrInvalidAllocationsPerParticipant = errors.New("invalid available allocations per participant")
	ErrCampaignExists                   = errors.New("campaign already exists")
	ErrCampaignNotFound                 = errors.New("campaign not found")

	// Deposit
	ErrSupplyNotDeposited     = errors.New("token supply not deposited")
	ErrSupplyAlreadyDeposited = errors.New("token supply already deposited")
	ErrInvalidDepositBalance  = errors.New("invalid balance of tokens to deposit")

	// Join
	ErrInvalidNumberOfAllocations = errors.New("invalid number of allocations")
	ErrSaleNotOpen                = errors.New("now is not in sale period")
	ErrAllocationNotAvailable     = errors.New("this allocation is not available")
	ErrInsufficientFunds          = errors.New("insufficient funds")
	ErrAlreadyJoined              = errors.New("user already joined")

	// Claim
	ErrNothingToClaim       = errors.New("nothing to claim")
	ErrNotJoined            = errors.New("user not joined")
	ErrInsufficientTreasury = errors.New("insufficient funds in treasury")

	// Settlement
	ErrSaleClosed            = errors.New("sale already closed")
	ErrSaleEnded             = errors.New("sale is ended")
	ErrSaleNotClosed         = errors.New("sale not closed")
	ErrSoftCapReached        = errors.New("soft cap reached")
	ErrSoftCapNotReached     = errors.New("soft cap not reached")
	ErrNothingToRefund       = errors.New("nothing to refund")
	ErrFundsAlreadyWithdrawn = errors.New("funds already withdrawn")
	ErrTotalClaimedNotZero   = errors.New("total claimed not zero")

	ErrMathOverflow = errors.New("math overflow")
)
