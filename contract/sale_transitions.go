package contract

import (
	"fmt"

	"github.com/holiman/uint256"

	"wareblock/contract/dao"
)

// The functions below take explicit snapshots and return plans; the callers in
// sale.go write the plans back. None of them touch state.

// evaluateState derives the sale state at time now. A reached goal wins over
// everything, a reached sibling blocks, and only then does the deadline count.
// The sale is still open at exactly ClosingTime.
func evaluateState(s *dao.SaleRecord, siblingReached bool, now int64) dao.SaleState {
	switch {
	case s.GoalReached():
		return dao.SaleGoalReached
	case siblingReached:
		return dao.SaleBlocked
	case now > s.ClosingTime:
		return dao.SaleClosedUnreached
	default:
		return dao.SaleOpen
	}
}

func checkOpen(state dao.SaleState) error {
	switch state {
	case dao.SaleOpen:
		return nil
	case dao.SaleBlocked:
		return fmt.Errorf("%w: a different land use for this warehouse has reached its goal", ErrNotOpen)
	case dao.SaleGoalReached:
		return fmt.Errorf("%w: goal already reached", ErrNotOpen)
	default:
		return fmt.Errorf("%w: sale is %s", ErrNotOpen, state)
	}
}

type purchasePlan struct {
	raised  *uint256.Int
	deposit *uint256.Int
	tokens  *uint256.Int
}

// planPurchase accepts received in full or not at all.
func planPurchase(s *dao.SaleRecord, state dao.SaleState, deposit, received *uint256.Int) (*purchasePlan, error) {
	if err := checkOpen(state); err != nil {
		return nil, err
	}
	if received == nil || received.IsZero() {
		return nil, fmt.Errorf("%w: nothing received", ErrInvalidAmount)
	}
	raised, overflow := new(uint256.Int).AddOverflow(s.Raised, received)
	if overflow || raised.Gt(s.Goal) {
		remaining := new(uint256.Int).Sub(s.Goal, s.Raised)
		return nil, fmt.Errorf("%w: %s received, %s left until goal", ErrGoalExceeded, received.Dec(), remaining.Dec())
	}
	tokens, err := dao.Tokens(received, s.Rate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGoalExceeded, err)
	}
	// raised <= goal, so the deposit cannot overflow either
	return &purchasePlan{
		raised:  raised,
		deposit: new(uint256.Int).Add(deposit, received),
		tokens:  tokens,
	}, nil
}

type refundPlan struct {
	pay  *uint256.Int
	burn *uint256.Int
}

// planRefund pays back the whole deposit. A zero deposit yields a zero plan.
func planRefund(s *dao.SaleRecord, state dao.SaleState, deposit *uint256.Int) (*refundPlan, error) {
	if !state.Refundable() {
		return nil, fmt.Errorf("%w: sale is %s", ErrRefundNotAllowed, state)
	}
	burn, err := dao.Tokens(deposit, s.Rate)
	if err != nil {
		return nil, err
	}
	return &refundPlan{pay: new(uint256.Int).Set(deposit), burn: burn}, nil
}

// planWithdraw returns the amount owed to the wallet.
func planWithdraw(s *dao.SaleRecord, state dao.SaleState) (*uint256.Int, error) {
	if state != dao.SaleGoalReached {
		return nil, fmt.Errorf("%w: sale is %s", ErrGoalNotReached, state)
	}
	if s.Withdrawn {
		return nil, ErrAlreadyWithdrawn
	}
	return new(uint256.Int).Set(s.Raised), nil
}
