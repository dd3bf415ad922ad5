package ido

import (
	"context"
	"errors"
	"testing"
)

func TestClaim_VestingSchedule(t *testing.T) {
	e := newTestEnv(t)
	c := e.initCampaign(t, e.defaultParams(t))
	e.depositSupply(t, c)
	e.advanceTo(t, saleStart)

	// 2 allocations: 200 tokens, 20% at the cliff.
	participant, _ := e.join(t, c, 2)
	ctx := context.Background()

	// Before the cliff nothing is claimable.
	e.advanceTo(t, cliffTime-1)
	if _, err := e.svc.Claim(ctx, c.Owner, participant); !errors.Is(err, ErrNothingToClaim) {
		t.Errorf("pre-cliff: err = %v, want %v", err, ErrNothingToClaim)
	}

	// At the cliff: 20% of 200 = 40.
	e.advanceTo(t, cliffTime)
	got, err := e.svc.Claim(ctx, c.Owner, participant)
	if err != nil {
		t.Fatalf("Claim at cliff: %v", err)
	}
	if got != 40 {
		t.Errorf("cliff claim = %d, want 40", got)
	}

	// Immediately again: no new unlock.
	if _, err := e.svc.Claim(ctx, c.Owner, participant); !errors.Is(err, ErrNothingToClaim) {
		t.Errorf("repeat claim: err = %v, want %v", err, ErrNothingToClaim)
	}

	// Halfway through vesting: 40 + floor(160*50/100) = 120 unlocked,
	// 40 already taken.
	e.advanceTo(t, cliffTime+(vestingEnd-cliffTime)/2)
	got, err = e.svc.Claim(ctx, c.Owner, participant)
	if err != nil {
		t.Fatalf("Claim halfway: %v", err)
	}
	if got != 80 {
		t.Errorf("halfway delta = %d, want 80", got)
	}

	// Past vesting end: the rest.
	e.advanceTo(t, afterFinish)
	got, err = e.svc.Claim(ctx, c.Owner, participant)
	if err != nil {
		t.Fatalf("Claim at end: %v", err)
	}
	if got != 80 {
		t.Errorf("final delta = %d, want 80", got)
	}

	if balance := e.tokenBalance(t, participant); balance != 200 {
		t.Errorf("participant tokens = %d, want 200", balance)
	}
	if total := e.campaign(t, c.Owner).TotalClaimed; total != 200 {
		t.Errorf("total claimed = %d, want 200", total)
	}

	// Fully claimed entitlement has nothing left.
	if _, err := e.svc.Claim(ctx, c.Owner, participant); !errors.Is(err, ErrNothingToClaim) {
		t.Errorf("after full claim: err = %v, want %v", err, ErrNothingToClaim)
	}
}

func TestClaim_SingleShotAfterVesting(t *testing.T) {
	e := newTestEnv(t)
	c := e.initCampaign(t, e.defaultParams(t))
	e.depositSupply(t, c)
	e.advanceTo(t, saleStart)
	participant, p := e.join(t, c, 3)

	// A participant who waits out the whole schedule collects everything
	// in one call.
	e.advanceTo(t, afterFinish)
	got, err := e.svc.Claim(context.Background(), c.Owner, participant)
	if err != nil {
		t.Fatalf("Claim: %v", err)
	}
	if got != p.Amount {
		t.Errorf("claimed = %d, want %d", got, p.Amount)
	}
}

func TestClaim_NotJoined(t *testing.T) {
	e := newTestEnv(t)
	c := e.initCampaign(t, e.defaultParams(t))
	e.depositSupply(t, c)
	e.advanceTo(t, afterFinish)

	_, err := e.svc.Claim(context.Background(), c.Owner, e.newAddress(t))
	if !errors.Is(err, ErrNotJoined) {
		t.Errorf("err = %v, want %v", err, ErrNotJoined)
	}
}

func TestClaim_ClosedCampaign(t *testing.T) {
	e := newTestEnv(t)
	params := e.defaultParams(t)
	params.SoftCap = 700
	c := e.initCampaign(t, params)
	e.depositSupply(t, c)
	e.advanceTo(t, saleStart)
	participant, _ := e.join(t, c, 2)

	// Sale fails its soft cap and is closed; the entitlement is no longer
	// claimable, only refundable.
	e.advanceTo(t, saleEnd+1)
	if err := e.svc.CloseIfSoftCapNotReached(context.Background(), c.Owner); err != nil {
		t.Fatalf("CloseIfSoftCapNotReached: %v", err)
	}

	e.advanceTo(t, afterFinish)
	_, err := e.svc.Claim(context.Background(), c.Owner, participant)
	if !errors.Is(err, ErrSaleClosed) {
		t.Errorf("err = %v, want %v", err, ErrSaleClosed)
	}
}

func TestClaim_UnknownCampaign(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.svc.Claim(context.Background(), e.newAddress(t), e.newAddress(t))
	if !errors.Is(err, ErrCampaignNotFound) {
		t.Errorf("err = %v, want %v", err, ErrCampaignNotFound)
	}
}
