package ido

import (
	"errors"
	"testing"
)

func TestUnlockedAmount(t *testing.T) {
	// 100 tokens, 20% at the cliff, linear over 100 seconds.
	const (
		amount = uint64(100)
		cliff  = int64(1000)
		end    = int64(1100)
		pct    = int32(20)
	)

	tests := []struct {
		name string
		now  int64
		want uint64
	}{
		{"long before cliff", 0, 0},
		{"one second before cliff", cliff - 1, 0},
		{"at cliff", cliff, 20},
		{"one second in", cliff + 1, 20}, // floor(80*1/100) = 0 extra
		{"quarter through", cliff + 25, 40},
		{"half through", cliff + 50, 60},
		{"one second before end", end - 1, 99}, // 20 + floor(80*99/100)
		{"at vesting end", end, amount},
		{"after vesting end", end + 1000, amount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UnlockedAmount(amount, cliff, end, pct, tt.now)
			if got != tt.want {
				t.Errorf("UnlockedAmount(now=%d) = %d, want %d", tt.now, got, tt.want)
			}
		})
	}
}

func TestUnlockedAmount_Monotonic(t *testing.T) {
	const (
		amount = uint64(997) // prime, exercises floor rounding
		cliff  = int64(5000)
		end    = int64(5777)
		pct    = int32(13)
	)

	prev := uint64(0)
	for now := cliff - 10; now <= end+10; now++ {
		got := UnlockedAmount(amount, cliff, end, pct, now)
		if got < prev {
			t.Fatalf("unlock regressed at now=%d: %d < %d", now, got, prev)
		}
		if got > amount {
			t.Fatalf("unlock exceeded entitlement at now=%d: %d", now, got)
		}
		prev = got
	}
	if prev != amount {
		t.Errorf("final unlock = %d, want %d", prev, amount)
	}
}

func TestUnlockedAmount_FullCliff(t *testing.T) {
	// 100% at the cliff leaves nothing to vest linearly.
	got := UnlockedAmount(500, 1000, 2000, 100, 1000)
	if got != 500 {
		t.Errorf("at cliff = %d, want 500", got)
	}
	got = UnlockedAmount(500, 1000, 2000, 100, 1500)
	if got != 500 {
		t.Errorf("mid vesting = %d, want 500", got)
	}
}

func TestUnlockedAmount_LargeEntitlement(t *testing.T) {
	// Near the uint64 ceiling the intermediate products exceed 64 bits;
	// the widened math must not wrap.
	const amount = uint64(1) << 62
	const cliff, end = int64(0), int64(1 << 40)

	atCliff := UnlockedAmount(amount, cliff, end, 25, cliff)
	if want := amount / 4; atCliff != want {
		t.Errorf("at cliff = %d, want %d", atCliff, want)
	}

	half := UnlockedAmount(amount, cliff, end, 25, end/2)
	// 25% plus half the remaining 75%.
	if want := amount/4 + (amount-amount/4)/2; half != want {
		t.Errorf("half through = %d, want %d", half, want)
	}

	atEnd := UnlockedAmount(amount, cliff, end, 25, end)
	if atEnd != amount {
		t.Errorf("at end = %d, want %d", atEnd, amount)
	}
}

func TestCheckedMath(t *testing.T) {
	if _, err := checkedMul(1<<33, 1<<33); !errors.Is(err, ErrMathOverflow) {
		t.Errorf("checkedMul overflow: err = %v, want %v", err, ErrMathOverflow)
	}
	if got, err := checkedMul(1<<32, 1<<31); err != nil || got != 1<<63 {
		t.Errorf("checkedMul(2^32, 2^31) = %d, %v", got, err)
	}

	if _, err := checkedAdd(^uint64(0), 1); !errors.Is(err, ErrMathOverflow) {
		t.Errorf("checkedAdd overflow: err = %v, want %v", err, ErrMathOverflow)
	}
	if got, err := checkedAdd(^uint64(0)-1, 1); err != nil || got != ^uint64(0) {
		t.Errorf("checkedAdd at ceiling = %d, %v", got, err)
	}
}
