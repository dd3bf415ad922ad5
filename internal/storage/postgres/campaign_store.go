package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"solana-ido-service/internal/domain"
	"solana-ido-service/internal/storage"
)

// CampaignStore implements storage.CampaignStore using PostgreSQL.
type CampaignStore struct {
	pool *Pool
}

// NewCampaignStore creates a new CampaignStore.
func NewCampaignStore(pool *Pool) *CampaignStore {
	return &CampaignStore{pool: pool}
}

// Compile-time interface check.
var _ storage.CampaignStore = (*CampaignStore)(nil)

const campaignColumns = `
	owner, token_mint, token_treasury, funds_treasury,
	start_sale_time, end_sale_time, cliff_time, vesting_end_time,
	unit_price, allocation_unit, soft_cap, hard_cap,
	cliff_unlock_pct, max_allocations_per_participant,
	total_sold, total_participants, total_claimed,
	token_supply_deposited, sale_closed, funds_withdrawn,
	settlement, created_at
`

// Insert adds a new campaign. Returns ErrDuplicateKey if the owner has one.
func (s *CampaignStore) Insert(ctx context.Context, c *domain.Campaign) error {
	query := `
		INSERT INTO campaigns (` + campaignColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
	`

	_, err := s.pool.Exec(ctx, query,
		c.Owner, c.TokenMint, c.TokenTreasury, c.FundsTreasury,
		c.StartSaleTime, c.EndSaleTime, c.CliffTime, c.VestingEndTime,
		int64(c.UnitPrice), int64(c.AllocationUnit), int64(c.SoftCap), int64(c.HardCap),
		c.CliffUnlockPct, int64(c.MaxAllocationsPerParticipant),
		int64(c.TotalSold), int64(c.TotalParticipants), int64(c.TotalClaimed),
		c.TokenSupplyDeposited, c.SaleClosed, c.FundsWithdrawn,
		string(c.Settlement), c.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert campaign: %w", err)
	}
	return nil
}

// GetByOwner retrieves a campaign by owner. Returns ErrNotFound if not exists.
func (s *CampaignStore) GetByOwner(ctx context.Context, owner string) (*domain.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE owner = $1`

	row := s.pool.QueryRow(ctx, query, owner)
	c, err := scanCampaign(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get campaign by owner: %w", err)
	}
	return c, nil
}

// Update persists the campaign's mutable fields.
func (s *CampaignStore) Update(ctx context.Context, c *domain.Campaign) error {
	query := `
		UPDATE campaigns SET
			total_sold = $2,
			total_participants = $3,
			total_claimed = $4,
			token_supply_deposited = $5,
			sale_closed = $6,
			funds_withdrawn = $7,
			settlement = $8
		WHERE owner = $1
	`

	tag, err := s.pool.Exec(ctx, query,
		c.Owner,
		int64(c.TotalSold), int64(c.TotalParticipants), int64(c.TotalClaimed),
		c.TokenSupplyDeposited, c.SaleClosed, c.FundsWithdrawn,
		string(c.Settlement),
	)
	if err != nil {
		return fmt.Errorf("update campaign: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// List retrieves all campaigns ordered by creation time ASC.
func (s *CampaignStore) List(ctx context.Context) ([]*domain.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns ORDER BY created_at ASC, owner ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []*domain.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("scan campaign row: %w", err)
		}
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate campaign rows: %w", err)
	}

	return campaigns, nil
}

// scanCampaign scans a single row into a Campaign.
func scanCampaign(row pgx.Row) (*domain.Campaign, error) {
	var c domain.Campaign
	var unitPrice, allocationUnit, softCap, hardCap int64
	var maxAllocations, totalSold, totalParticipants, totalClaimed int64
	var settlementStr string

	err := row.Scan(
		&c.Owner, &c.TokenMint, &c.TokenTreasury, &c.FundsTreasury,
		&c.StartSaleTime, &c.EndSaleTime, &c.CliffTime, &c.VestingEndTime,
		&unitPrice, &allocationUnit, &softCap, &hardCap,
		&c.CliffUnlockPct, &maxAllocations,
		&totalSold, &totalParticipants, &totalClaimed,
		&c.TokenSupplyDeposited, &c.SaleClosed, &c.FundsWithdrawn,
		&settlementStr, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.UnitPrice = uint64(unitPrice)
	c.AllocationUnit = uint64(allocationUnit)
	c.SoftCap = uint64(softCap)
	c.HardCap = uint64(hardCap)
	c.MaxAllocationsPerParticipant = uint64(maxAllocations)
	c.TotalSold = uint64(totalSold)
	c.TotalParticipants = uint64(totalParticipants)
	c.TotalClaimed = uint64(totalClaimed)
	c.Settlement = domain.SettlementBranch(settlementStr)
	return &c, nil
}
