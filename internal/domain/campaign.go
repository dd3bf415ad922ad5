package domain

// SettlementBranch tags which terminal path a campaign took.
// Derived once at close time from sale_closed plus the soft cap comparison,
// so later call sites agree on the branch instead of re-deriving it.
type SettlementBranch string

// Settlement branch constants.
const (
	SettlementOpen          SettlementBranch = "OPEN"
	SettlementClosedSuccess SettlementBranch = "CLOSED_SUCCESS"
	SettlementClosedFailure SettlementBranch = "CLOSED_FAILURE"
)

// Campaign is the aggregate root of one token sale.
// Corresponds to the campaigns table in PostgreSQL. One campaign per owner
// address; the owner is the record key and is immutable.
type Campaign struct {
	Owner         string // base58 owner address, PRIMARY KEY
	TokenMint     string // sale token mint address
	TokenTreasury string // escrow account holding the deposited token supply
	FundsTreasury string // escrow account holding participant payments

	// Timing, Unix seconds. start < end < cliff < vesting_end.
	StartSaleTime  int64
	EndSaleTime    int64
	CliffTime      int64
	VestingEndTime int64

	UnitPrice                    uint64 // lamports per token, smallest denomination
	AllocationUnit               uint64 // tokens granted per allocation purchased
	SoftCap                      uint64 // minimum aggregate tokens sold for success
	HardCap                      uint64 // maximum aggregate tokens sold
	CliffUnlockPct               int32  // percent of entitlement unlocked at the cliff (1-100)
	MaxAllocationsPerParticipant uint64

	TotalSold         uint64 // sum of all participants' entitlements, <= HardCap
	TotalParticipants uint64
	TotalClaimed      uint64 // sum of all participants' claimed tokens

	TokenSupplyDeposited bool
	SaleClosed           bool
	FundsWithdrawn       bool

	Settlement SettlementBranch

	CreatedAt int64 // record creation timestamp, Unix seconds
}

// SaleCost returns the payment due for the given token amount.
// The second return is false on uint64 overflow.
func (c *Campaign) SaleCost(tokenAmount uint64) (uint64, bool) {
	if tokenAmount == 0 || c.UnitPrice == 0 {
		return 0, true
	}
	cost := tokenAmount * c.UnitPrice
	if cost/c.UnitPrice != tokenAmount {
		return 0, false
	}
	return cost, true
}

// UnsoldTokens returns the part of the hard cap that was never sold.
func (c *Campaign) UnsoldTokens() uint64 {
	if c.TotalSold >= c.HardCap {
		return 0
	}
	return c.HardCap - c.TotalSold
}

// SoftCapReached reports whether the sale accumulated enough entitlements
// to count as a success.
func (c *Campaign) SoftCapReached() bool {
	return c.TotalSold >= c.SoftCap
}
