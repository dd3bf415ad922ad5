package ido

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"solana-ido-service/internal/bank"
	"solana-ido-service/internal/domain"
	"solana-ido-service/internal/solkey"
	"solana-ido-service/internal/storage/memory"
)

// Baseline timeline, Unix seconds. The fake clock starts at baseNow and
// tests advance it across the sale window, cliff, and vesting end.
const (
	baseNow     = int64(1_700_000_000)
	saleStart   = baseNow + 100
	saleEnd     = baseNow + 200
	cliffTime   = baseNow + 300
	vestingEnd  = baseNow + 400
	afterFinish = vestingEnd + 100
)

type testEnv struct {
	svc    *Service
	clock  *clockwork.FakeClock
	tokens *bank.MemoryLedger
	funds  *bank.MemoryLedger

	events *memory.LedgerEventStore

	platform string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	platform, err := solkey.NewAddress()
	if err != nil {
		t.Fatalf("generate platform address: %v", err)
	}

	e := &testEnv{
		clock:    clockwork.NewFakeClockAt(time.Unix(baseNow, 0)),
		tokens:   bank.NewMemoryLedger(),
		funds:    bank.NewMemoryLedger(),
		events:   memory.NewLedgerEventStore(),
		platform: platform,
	}
	e.svc = NewService(Options{
		Campaigns:       memory.NewCampaignStore(),
		Participations:  memory.NewParticipationStore(),
		Events:          e.events,
		Tokens:          e.tokens,
		Funds:           e.funds,
		Clock:           e.clock,
		PlatformAccount: platform,
	})
	return e
}

// advanceTo moves the fake clock forward to the given Unix second.
func (e *testEnv) advanceTo(t *testing.T, unix int64) {
	t.Helper()
	delta := unix - e.clock.Now().Unix()
	if delta < 0 {
		t.Fatalf("cannot move clock backwards to %d", unix)
	}
	e.clock.Advance(time.Duration(delta) * time.Second)
}

func (e *testEnv) newAddress(t *testing.T) string {
	t.Helper()
	addr, err := solkey.NewAddress()
	if err != nil {
		t.Fatalf("generate address: %v", err)
	}
	return addr
}

// defaultParams returns a valid configuration for a fresh owner and mint.
func (e *testEnv) defaultParams(t *testing.T) CampaignParams {
	t.Helper()
	return CampaignParams{
		Owner:     e.newAddress(t),
		TokenMint: e.newAddress(t),

		StartSaleTime:  saleStart,
		EndSaleTime:    saleEnd,
		CliffTime:      cliffTime,
		VestingEndTime: vestingEnd,

		UnitPrice:                    5,
		AllocationUnit:               100,
		SoftCap:                      300,
		HardCap:                      1000,
		CliffUnlockPct:               20,
		MaxAllocationsPerParticipant: 3,
	}
}

// initCampaign creates a campaign and fails the test on error.
func (e *testEnv) initCampaign(t *testing.T, params CampaignParams) *domain.Campaign {
	t.Helper()
	c, err := e.svc.InitializeCampaign(context.Background(), params)
	if err != nil {
		t.Fatalf("InitializeCampaign: %v", err)
	}
	return c
}

// depositSupply funds the owner with the hard cap and deposits it.
func (e *testEnv) depositSupply(t *testing.T, c *domain.Campaign) {
	t.Helper()
	ctx := context.Background()
	if err := e.tokens.Mint(ctx, c.Owner, c.HardCap); err != nil {
		t.Fatalf("mint supply: %v", err)
	}
	if err := e.svc.DepositSupply(ctx, c.Owner); err != nil {
		t.Fatalf("DepositSupply: %v", err)
	}
}

// join funds a fresh participant and admits them with the given allocation
// count. The clock must already be inside the sale window.
func (e *testEnv) join(t *testing.T, c *domain.Campaign, allocations uint64) (string, *domain.Participation) {
	t.Helper()
	ctx := context.Background()

	participant := e.newAddress(t)
	cost := allocations * c.AllocationUnit * c.UnitPrice
	if err := e.funds.Mint(ctx, participant, cost); err != nil {
		t.Fatalf("mint funds: %v", err)
	}
	p, err := e.svc.Join(ctx, c.Owner, participant, allocations)
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	return participant, p
}

func (e *testEnv) tokenBalance(t *testing.T, account string) uint64 {
	t.Helper()
	balance, err := e.tokens.Balance(context.Background(), account)
	if err != nil {
		t.Fatalf("token balance: %v", err)
	}
	return balance
}

func (e *testEnv) fundsBalance(t *testing.T, account string) uint64 {
	t.Helper()
	balance, err := e.funds.Balance(context.Background(), account)
	if err != nil {
		t.Fatalf("funds balance: %v", err)
	}
	return balance
}

func (e *testEnv) campaign(t *testing.T, owner string) *domain.Campaign {
	t.Helper()
	c, err := e.svc.Campaign(context.Background(), owner)
	if err != nil {
		t.Fatalf("Campaign: %v", err)
	}
	return c
}

func (e *testEnv) eventKinds(t *testing.T, owner string) []domain.EventKind {
	t.Helper()
	events, err := e.svc.Events(context.Background(), owner)
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	kinds := make([]domain.EventKind, len(events))
	for i, ev := range events {
		kinds[i] = ev.Kind
	}
	return kinds
}
