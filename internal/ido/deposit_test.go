package ido

import (
	"context"
	"errors"
	"testing"

	"solana-ido-service/internal/domain"
)

func TestDepositSupply(t *testing.T) {
	e := newTestEnv(t)
	c := e.initCampaign(t, e.defaultParams(t))
	ctx := context.Background()

	// Mint more than the hard cap; only the hard cap moves.
	if err := e.tokens.Mint(ctx, c.Owner, c.HardCap+500); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := e.svc.DepositSupply(ctx, c.Owner); err != nil {
		t.Fatalf("DepositSupply: %v", err)
	}

	if got := e.tokenBalance(t, c.TokenTreasury); got != c.HardCap {
		t.Errorf("treasury = %d, want %d", got, c.HardCap)
	}
	if got := e.tokenBalance(t, c.Owner); got != 500 {
		t.Errorf("owner remainder = %d, want 500", got)
	}
	if !e.campaign(t, c.Owner).TokenSupplyDeposited {
		t.Error("deposited flag not set")
	}
}

func TestDepositSupply_InsufficientBalance(t *testing.T) {
	e := newTestEnv(t)
	c := e.initCampaign(t, e.defaultParams(t))
	ctx := context.Background()

	if err := e.tokens.Mint(ctx, c.Owner, c.HardCap-1); err != nil {
		t.Fatalf("mint: %v", err)
	}

	err := e.svc.DepositSupply(ctx, c.Owner)
	if !errors.Is(err, ErrInvalidDepositBalance) {
		t.Errorf("err = %v, want %v", err, ErrInvalidDepositBalance)
	}

	// Nothing moved, flag still down.
	if got := e.tokenBalance(t, c.TokenTreasury); got != 0 {
		t.Errorf("treasury = %d, want 0", got)
	}
	if e.campaign(t, c.Owner).TokenSupplyDeposited {
		t.Error("deposited flag set after rejection")
	}
}

func TestDepositSupply_Once(t *testing.T) {
	e := newTestEnv(t)
	c := e.initCampaign(t, e.defaultParams(t))
	ctx := context.Background()

	e.depositSupply(t, c)

	// Even with a freshly funded owner, the second deposit is rejected.
	if err := e.tokens.Mint(ctx, c.Owner, c.HardCap); err != nil {
		t.Fatalf("mint: %v", err)
	}
	err := e.svc.DepositSupply(ctx, c.Owner)
	if !errors.Is(err, ErrSupplyAlreadyDeposited) {
		t.Errorf("err = %v, want %v", err, ErrSupplyAlreadyDeposited)
	}
	if got := e.tokenBalance(t, c.TokenTreasury); got != c.HardCap {
		t.Errorf("treasury = %d, want %d", got, c.HardCap)
	}
}

func TestDepositSupply_ClosedCampaign(t *testing.T) {
	e := newTestEnv(t)
	c := e.initCampaign(t, e.defaultParams(t))
	ctx := context.Background()

	e.depositSupply(t, c)
	if err := e.svc.CloseCampaign(ctx, c.Owner); err != nil {
		t.Fatalf("CloseCampaign: %v", err)
	}

	err := e.svc.DepositSupply(ctx, c.Owner)
	if !errors.Is(err, ErrSaleClosed) {
		t.Errorf("err = %v, want %v", err, ErrSaleClosed)
	}
}

func TestDepositSupply_UnknownCampaign(t *testing.T) {
	e := newTestEnv(t)

	err := e.svc.DepositSupply(context.Background(), e.newAddress(t))
	if !errors.Is(err, ErrCampaignNotFound) {
		t.Errorf("err = %v, want %v", err, ErrCampaignNotFound)
	}
}

func TestDepositSupply_Event(t *testing.T) {
	e := newTestEnv(t)
	c := e.initCampaign(t, e.defaultParams(t))
	e.depositSupply(t, c)

	kinds := e.eventKinds(t, c.Owner)
	want := []domain.EventKind{domain.EventCampaignInitialized, domain.EventSupplyDeposited}
	if len(kinds) != len(want) {
		t.Fatalf("events = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("event[%d] = %v, want %v", i, kinds[i], want[i])
		}
	}
}
