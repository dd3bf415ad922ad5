package clickhouse

import (
	"context"
	"fmt"

	"solana-ido-service/internal/domain"
	"solana-ido-service/internal/storage"
)

// LedgerEventStore implements storage.LedgerEventStore using ClickHouse.
// The table is append-only; events are never updated or deleted.
type LedgerEventStore struct {
	conn *Conn
}

// NewLedgerEventStore creates a new LedgerEventStore.
func NewLedgerEventStore(conn *Conn) *LedgerEventStore {
	return &LedgerEventStore{conn: conn}
}

// Compile-time interface check.
var _ storage.LedgerEventStore = (*LedgerEventStore)(nil)

// Insert appends a single event.
func (s *LedgerEventStore) Insert(ctx context.Context, e *domain.LedgerEvent) error {
	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO ledger_events (
			campaign, participant, kind, token_amount, native_amount, occurred_at
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	err = batch.Append(
		e.Campaign, e.Participant, string(e.Kind),
		e.TokenAmount, e.NativeAmount, e.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("append to batch: %w", err)
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByCampaign retrieves all events of a campaign, ordered by occurrence time ASC.
func (s *LedgerEventStore) GetByCampaign(ctx context.Context, campaign string) ([]*domain.LedgerEvent, error) {
	query := `
		SELECT campaign, participant, kind, token_amount, native_amount, occurred_at
		FROM ledger_events
		WHERE campaign = ?
		ORDER BY occurred_at ASC
	`

	rows, err := s.conn.Query(ctx, query, campaign)
	if err != nil {
		return nil, fmt.Errorf("query by campaign: %w", err)
	}
	defer rows.Close()

	return scanLedgerEvents(rows)
}

// Rows interface for scanning
type chRows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// scanLedgerEvents scans multiple rows into a slice.
func scanLedgerEvents(rows chRows) ([]*domain.LedgerEvent, error) {
	var events []*domain.LedgerEvent

	for rows.Next() {
		var e domain.LedgerEvent
		var kind string

		err := rows.Scan(
			&e.Campaign, &e.Participant, &kind,
			&e.TokenAmount, &e.NativeAmount, &e.OccurredAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan ledger event row: %w", err)
		}

		e.Kind = domain.EventKind(kind)
		events = append(events, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger event rows: %w", err)
	}

	return events, nil
}
