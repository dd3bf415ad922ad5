package domain

// Participation is one participant's ledger row in a campaign.
// Corresponds to the participations table in PostgreSQL. The ID is the
// deterministic hash of (campaign owner, participant), so a pair can have
// at most one record and double joins surface as duplicate key inserts.
type Participation struct {
	ParticipationID string // PRIMARY KEY, deterministic hash
	Campaign        string // owner address of the campaign (weak back-reference)
	Participant     string // base58 buyer address

	Amount  uint64 // token entitlement, fixed at join; zeroed on refund
	Paid    uint64 // lamports escrowed at join; zeroed on refund
	Claimed uint64 // cumulative tokens released via vesting, <= Amount

	JoinedAt  int64 // admission timestamp, Unix seconds; > 0 after creation
	CreatedAt int64 // record creation timestamp, Unix seconds
}

// FullyClaimed reports whether the whole entitlement has been released.
func (p *Participation) FullyClaimed() bool {
	return p.Claimed >= p.Amount
}
