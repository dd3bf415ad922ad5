package bank

import (
	"context"
	"sync"
)

// MemoryLedger is an in-memory implementation of Ledger.
type MemoryLedger struct {
	mu       sync.RWMutex
	balances map[string]uint64
}

// NewMemoryLedger creates an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		balances: make(map[string]uint64),
	}
}

// Balance returns the account's balance. Unknown accounts hold zero.
func (l *MemoryLedger) Balance(_ context.Context, account string) (uint64, error) {
	if account == "" {
		return 0, ErrInvalidAccount
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.balances[account], nil
}

// Transfer moves amount from one account to another atomically.
func (l *MemoryLedger) Transfer(_ context.Context, from, to string, amount uint64) error {
	if from == "" || to == "" {
		return ErrInvalidAccount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.balances[from] < amount {
		return ErrInsufficientBalance
	}

	l.balances[from] -= amount
	l.balances[to] += amount
	return nil
}

// Mint credits amount to an account.
func (l *MemoryLedger) Mint(_ context.Context, account string, amount uint64) error {
	if account == "" {
		return ErrInvalidAccount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.balances[account] += amount
	return nil
}

// Verify interface compliance at compile time.
var _ Ledger = (*MemoryLedger)(nil)
