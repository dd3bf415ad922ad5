package bank

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryLedger_MintAndBalance(t *testing.T) {
	ledger := NewMemoryLedger()
	ctx := context.Background()

	if err := ledger.Mint(ctx, "alice", 500); err != nil {
		t.Fatalf("Mint failed: %v", err)
	}

	got, err := ledger.Balance(ctx, "alice")
	if err != nil {
		t.Fatalf("Balance failed: %v", err)
	}
	if got != 500 {
		t.Errorf("Balance = %d, want 500", got)
	}

	// Unknown accounts hold zero
	got, err = ledger.Balance(ctx, "bob")
	if err != nil {
		t.Fatalf("Balance failed: %v", err)
	}
	if got != 0 {
		t.Errorf("Balance of unknown account = %d, want 0", got)
	}
}

func TestMemoryLedger_Transfer(t *testing.T) {
	ledger := NewMemoryLedger()
	ctx := context.Background()

	if err := ledger.Mint(ctx, "alice", 300); err != nil {
		t.Fatalf("Mint failed: %v", err)
	}

	if err := ledger.Transfer(ctx, "alice", "bob", 120); err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}

	aliceBal, _ := ledger.Balance(ctx, "alice")
	bobBal, _ := ledger.Balance(ctx, "bob")
	if aliceBal != 180 {
		t.Errorf("alice balance = %d, want 180", aliceBal)
	}
	if bobBal != 120 {
		t.Errorf("bob balance = %d, want 120", bobBal)
	}
}

func TestMemoryLedger_TransferInsufficient(t *testing.T) {
	ledger := NewMemoryLedger()
	ctx := context.Background()

	if err := ledger.Mint(ctx, "alice", 50); err != nil {
		t.Fatalf("Mint failed: %v", err)
	}

	err := ledger.Transfer(ctx, "alice", "bob", 51)
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Errorf("Expected ErrInsufficientBalance, got %v", err)
	}

	// No partial effect
	aliceBal, _ := ledger.Balance(ctx, "alice")
	bobBal, _ := ledger.Balance(ctx, "bob")
	if aliceBal != 50 || bobBal != 0 {
		t.Errorf("balances after failed transfer = %d/%d, want 50/0", aliceBal, bobBal)
	}
}

func TestMemoryLedger_InvalidAccount(t *testing.T) {
	ledger := NewMemoryLedger()
	ctx := context.Background()

	if _, err := ledger.Balance(ctx, ""); !errors.Is(err, ErrInvalidAccount) {
		t.Errorf("Balance(\"\") expected ErrInvalidAccount, got %v", err)
	}
	if err := ledger.Mint(ctx, "", 1); !errors.Is(err, ErrInvalidAccount) {
		t.Errorf("Mint(\"\") expected ErrInvalidAccount, got %v", err)
	}
	if err := ledger.Transfer(ctx, "", "bob", 1); !errors.Is(err, ErrInvalidAccount) {
		t.Errorf("Transfer from \"\" expected ErrInvalidAccount, got %v", err)
	}
}
