package domain

// EventKind identifies a campaign ledger event.
type EventKind string

// Event kind constants, one per committed mutation.
const (
	EventCampaignInitialized EventKind = "CAMPAIGN_INITIALIZED"
	EventSupplyDeposited     EventKind = "SUPPLY_DEPOSITED"
	EventParticipantJoined   EventKind = "PARTICIPANT_JOINED"
	EventClaimed             EventKind = "CLAIMED"
	EventCampaignClosed      EventKind = "CAMPAIGN_CLOSED"
	EventRefunded            EventKind = "REFUNDED"
	EventTokensReclaimed     EventKind = "TOKENS_RECLAIMED"
	EventFundsWithdrawn      EventKind = "FUNDS_WITHDRAWN"
)

// LedgerEvent is one append-only audit record of a committed campaign
// mutation. Corresponds to the ledger_events table in ClickHouse.
type LedgerEvent struct {
	Campaign     string    // owner address of the campaign
	Participant  string    // empty for campaign-level events
	Kind         EventKind
	TokenAmount  uint64 // tokens moved, 0 if none
	NativeAmount uint64 // lamports moved, 0 if none
	OccurredAt   int64  // Unix seconds
}
