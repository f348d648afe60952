package contract

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"

	"wareblock/sdk"
)

// SwapRequest describes one native -> settlement conversion. MinOut and
// Deadline are supplied by the buyer; Now is the block time of the call.
type SwapRequest struct {
	Payer     sdk.Address
	Recipient sdk.Address
	Value     *uint256.Int
	MinOut    *uint256.Int
	Deadline  int64
	Now       int64
}

// Exchange converts native value into the settlement asset. An implementation
// either credits the full output to the recipient or returns an error.
type Exchange interface {
	SwapNativeForSettlement(ctx context.Context, ledger Ledger, req SwapRequest) (*uint256.Int, error)
}

// fees are in basis points: 10^4 per whole
const (
	feeDenominator = 10_000
	feeDecimals    = 4
)

// FixedRateExchange swaps at a fixed price from a reserve account, charging
// FeeBps basis points on the output.
type FixedRateExchange struct {
	Reserve    sdk.Address
	Price      decimal.Decimal
	FeeBps     uint32
	Native     sdk.Asset
	Settlement sdk.Asset
}

// Quote returns the settlement output for value native units, rounded down.
func (x *FixedRateExchange) Quote(value *uint256.Int) (*uint256.Int, error) {
	if x.FeeBps >= feeDenominator {
		return nil, fmt.Errorf("%w: fee of %d bps", ErrConversionFailed, x.FeeBps)
	}
	if !x.Price.IsPositive() {
		return nil, fmt.Errorf("%w: exchange price %s", ErrConversionFailed, x.Price)
	}
	out := decimal.NewFromBigInt(value.ToBig(), 0).
		Mul(x.Price).
		Mul(decimal.NewFromInt(int64(feeDenominator - x.FeeBps))).
		Shift(-feeDecimals).
		Floor()
	res, overflow := uint256.FromBig(out.BigInt())
	if overflow {
		return nil, fmt.Errorf("%w: output overflows", ErrConversionFailed)
	}
	return res, nil
}

func (x *FixedRateExchange) SwapNativeForSettlement(ctx context.Context, ledger Ledger, req SwapRequest) (*uint256.Int, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConversionFailed, err)
	}
	if req.Now > req.Deadline {
		return nil, fmt.Errorf("%w: deadline %d passed at %d", ErrConversionFailed, req.Deadline, req.Now)
	}
	out, err := x.Quote(req.Value)
	if err != nil {
		return nil, err
	}
	if out.IsZero() {
		return nil, fmt.Errorf("%w: zero output for %s", ErrConversionFailed, req.Value.Dec())
	}
	if req.MinOut != nil && out.Lt(req.MinOut) {
		return nil, fmt.Errorf("%w: output %s below minimum %s", ErrConversionFailed, out.Dec(), req.MinOut.Dec())
	}
	reserve, err := ledger.BalanceOf(x.Settlement, x.Reserve)
	if err != nil {
		return nil, err
	}
	if reserve.Lt(out) {
		return nil, fmt.Errorf("%w: reserve holds %s, needs %s", ErrConversionFailed, reserve.Dec(), out.Dec())
	}
	if err := ledger.Move(x.Native, req.Payer, x.Reserve, req.Value); err != nil {
		return nil, err
	}
	if err := ledger.Move(x.Settlement, x.Reserve, req.Recipient, out); err != nil {
		return nil, err
	}
	return out, nil
}
