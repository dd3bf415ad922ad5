// Package bank abstracts the transfer primitives the campaign engine runs
// against. On chain these are the system and token programs; here they are
// a balance ledger with bounds-checked transfers.
package bank

import (
	"context"
	"errors"
)

// Ledger errors.
var (
	// ErrInsufficientBalance is returned when a debit exceeds the source
	// account's balance. The transfer has no effect.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInvalidAccount is returned for empty account identifiers.
	ErrInvalidAccount = errors.New("invalid account")
)

// Ledger tracks balances of one asset across accounts. A separate Ledger
// instance holds the sale token and the native payment currency.
type Ledger interface {
	// Balance returns the account's balance. Unknown accounts hold zero.
	Balance(ctx context.Context, account string) (uint64, error)

	// Transfer moves amount from one account to another atomically.
	// Returns ErrInsufficientBalance if the source cannot cover it.
	Transfer(ctx context.Context, from, to string, amount uint64) error

	// Mint credits amount to an account out of thin air. Funding primitive
	// for owners and participants; never called by the campaign engine.
	Mint(ctx context.Context, account string, amount uint64) error
}
