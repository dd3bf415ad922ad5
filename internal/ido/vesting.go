package ido

import "math/bits"

// UnlockedAmount computes how much of an entitlement is unlocked at a given
// instant. Pure integer math with floor division throughout so the result is
// reproducible byte for byte across platforms:
//
//	now < cliff:        0
//	now >= vestingEnd:  amount
//	now == cliff:       floor(amount * pct / 100)
//	otherwise:          cliff part + floor(remaining * elapsed / duration),
//	                    clamped to amount
//
// Intermediate products are widened to 128 bits the way the on-chain program
// widens to u128, so entitlements near the uint64 ceiling do not overflow.
func UnlockedAmount(amount uint64, cliff, vestingEnd int64, pct int32, now int64) uint64 {
	if now < cliff {
		return 0
	}
	if now >= vestingEnd {
		return amount
	}

	cliffUnlocked := mulDiv(amount, uint64(pct), 100)
	if now == cliff {
		return cliffUnlocked
	}

	remaining := amount - cliffUnlocked
	elapsed := uint64(now - cliff)
	duration := uint64(vestingEnd - cliff)

	unlocked := cliffUnlocked + mulDiv(remaining, elapsed, duration)
	if unlocked > amount {
		unlocked = amount
	}
	return unlocked
}

// mulDiv returns floor(a * b / div) with a 128-bit intermediate product.
// Callers guarantee the quotient fits in uint64 (b < div, or b is a
// percentage <= 100 with div == 100).
func mulDiv(a, b, div uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	quot, _ := bits.Div64(hi, lo, div)
	return quot
}

// checkedMul returns a*b, or ErrMathOverflow if the product does not fit.
func checkedMul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, ErrMathOverflow
	}
	return lo, nil
}

// checkedAdd returns a+b, or ErrMathOverflow on wraparound.
func checkedAdd(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrMathOverflow
	}
	return sum, nil
}
