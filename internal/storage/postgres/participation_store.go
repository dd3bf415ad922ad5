package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"solana-ido-service/internal/domain"
	"solana-ido-service/internal/storage"
)

// ParticipationStore implements storage.ParticipationStore using PostgreSQL.
type ParticipationStore struct {
	pool *Pool
}

// NewParticipationStore creates a new ParticipationStore.
func NewParticipationStore(pool *Pool) *ParticipationStore {
	return &ParticipationStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ParticipationStore = (*ParticipationStore)(nil)

const participationColumns = `
	participation_id, campaign, participant,
	amount, paid, claimed, joined_at, created_at
`

// Insert adds a new participation. Returns ErrDuplicateKey if the pair exists.
func (s *ParticipationStore) Insert(ctx context.Context, p *domain.Participation) error {
	query := `
		INSERT INTO participations (` + participationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.pool.Exec(ctx, query,
		p.ParticipationID, p.Campaign, p.Participant,
		int64(p.Amount), int64(p.Paid), int64(p.Claimed),
		p.JoinedAt, p.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert participation: %w", err)
	}
	return nil
}

// GetByID retrieves a participation by key. Returns ErrNotFound if not exists.
func (s *ParticipationStore) GetByID(ctx context.Context, participationID string) (*domain.Participation, error) {
	query := `SELECT ` + participationColumns + ` FROM participations WHERE participation_id = $1`

	row := s.pool.QueryRow(ctx, query, participationID)
	p, err := scanParticipation(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get participation by id: %w", err)
	}
	return p, nil
}

// GetByCampaign retrieves all participations of a campaign, ordered by join time ASC.
func (s *ParticipationStore) GetByCampaign(ctx context.Context, campaign string) ([]*domain.Participation, error) {
	query := `
		SELECT ` + participationColumns + `
		FROM participations
		WHERE campaign = $1
		ORDER BY joined_at ASC, participation_id ASC
	`

	rows, err := s.pool.Query(ctx, query, campaign)
	if err != nil {
		return nil, fmt.Errorf("get participations by campaign: %w", err)
	}
	defer rows.Close()

	var participations []*domain.Participation
	for rows.Next() {
		p, err := scanParticipation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan participation row: %w", err)
		}
		participations = append(participations, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate participation rows: %w", err)
	}

	return participations, nil
}

// Update persists the participation's mutable fields.
func (s *ParticipationStore) Update(ctx context.Context, p *domain.Participation) error {
	query := `
		UPDATE participations SET
			amount = $2,
			paid = $3,
			claimed = $4
		WHERE participation_id = $1
	`

	tag, err := s.pool.Exec(ctx, query,
		p.ParticipationID,
		int64(p.Amount), int64(p.Paid), int64(p.Claimed),
	)
	if err != nil {
		return fmt.Errorf("update participation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// scanParticipation scans a single row into a Participation.
func scanParticipation(row pgx.Row) (*domain.Participation, error) {
	var p domain.Participation
	var amount, paid, claimed int64

	err := row.Scan(
		&p.ParticipationID, &p.Campaign, &p.Participant,
		&amount, &paid, &claimed, &p.JoinedAt, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Amount = uint64(amount)
	p.Paid = uint64(paid)
	p.Claimed = uint64(claimed)
	return &p, nil
}
