package dao

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// Decimals is shared by every unit token and by the settlement asset.
const Decimals = 18

var errNegativeAmount = errors.New("amount must not be negative")

// Zero returns a fresh zero amount.
func Zero() *uint256.Int {
	return new(uint256.Int)
}

// Units returns n whole tokens expressed in base units (n * 10^18).
// Example: Units(10) is the goal of a 10 DAI sale.
func Units(n uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(n), oneUnit())
}

func oneUnit() *uint256.Int {
	return new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(Decimals))
}

// ParseAmount reads a base-unit integer such as "1000000000000000000".
func ParseAmount(s string) (*uint256.Int, error) {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return v, nil
}

// ParseUnits reads a human amount such as "0.0001" and scales it by 10^decimals.
// Fractions finer than the token precision are rejected instead of rounded.
func ParseUnits(s string, decimals int32) (*uint256.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return nil, errNegativeAmount
	}
	scaled := d.Shift(decimals)
	if !scaled.Equal(scaled.Truncate(0)) {
		return nil, fmt.Errorf("amount %q has more than %d decimals", s, decimals)
	}
	v, overflow := uint256.FromBig(scaled.BigInt())
	if overflow {
		return nil, fmt.Errorf("amount %q overflows 256 bits", s)
	}
	return v, nil
}

// FormatUnits renders base units as a human amount, e.g. 10^14 -> "0.0001".
func FormatUnits(v *uint256.Int, decimals int32) string {
	if v == nil {
		return "0"
	}
	return decimal.NewFromBigInt(v.ToBig(), -decimals).String()
}

// Tokens returns amount * rate, failing instead of wrapping on overflow.
func Tokens(amount, rate *uint256.Int) (*uint256.Int, error) {
	out, overflow := new(uint256.Int).MulOverflow(amount, rate)
	if overflow {
		return nil, fmt.Errorf("token amount overflows: %s * %s", amount.Dec(), rate.Dec())
	}
	return out, nil
}

// OrZero returns a fresh zero amount if v is nil, else v.
func OrZero(v *uint256.Int) *uint256.Int {
	if v == nil {
		return Zero()
	}
	return v
}
