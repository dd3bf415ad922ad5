package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Treasury kinds used when deriving escrow account identifiers.
const (
	TreasuryKindTokens = "tokens_treasury"
	TreasuryKindFunds  = "funds_treasury"
)

// ComputeParticipationID computes a deterministic participation key using SHA256.
// Formula: SHA256(campaign|participant)
// Returns hex-encoded hash (64 characters). One (campaign, participant) pair
// maps to exactly one key, so repeat joins collide on insert.
func ComputeParticipationID(campaign, participant string) string {
	data := fmt.Sprintf("%s|%s", campaign, participant)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

// ComputeTreasuryID derives the identifier of a campaign escrow account.
// Formula: SHA256(kind|campaign)
// Returns hex-encoded hash (64 characters). Mirrors the seed scheme the
// on-chain program uses for its treasury accounts.
func ComputeTreasuryID(kind, campaign string) string {
	data := fmt.Sprintf("%s|%s", kind, campaign)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
