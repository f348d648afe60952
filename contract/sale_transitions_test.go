package contract

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wareblock/contract/dao"
)

func saleSnapshot(raised, goal uint64) *dao.SaleRecord {
	return &dao.SaleRecord{
		Goal:        dao.Units(goal),
		Rate:        uint256.NewInt(1000),
		Raised:      dao.Units(raised),
		ClosingTime: 1000,
	}
}

// TestEvaluateState walks the precedence: goal, sibling, deadline, open.
func TestEvaluateState(t *testing.T) {
	cases := []struct {
		name    string
		raised  uint64
		sibling bool
		now     int64
		want    dao.SaleState
	}{
		{"open", 1, false, 10, dao.SaleOpen},
		{"open at closing time", 1, false, 1000, dao.SaleOpen},
		{"closed after closing time", 1, false, 1001, dao.SaleClosedUnreached},
		{"blocked by sibling", 1, true, 10, dao.SaleBlocked},
		{"blocked beats closed", 1, true, 5000, dao.SaleBlocked},
		{"goal beats sibling", 10, true, 10, dao.SaleGoalReached},
		{"goal beats closed", 10, false, 5000, dao.SaleGoalReached},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, evaluateState(saleSnapshot(tc.raised, 10), tc.sibling, tc.now))
		})
	}
}

func TestPlanPurchase(t *testing.T) {
	s := saleSnapshot(4, 10)
	plan, err := planPurchase(s, dao.SaleOpen, dao.Units(1), dao.Units(6))
	require.NoError(t, err)
	assert.Equal(t, dao.Units(10), plan.raised)
	assert.Equal(t, dao.Units(7), plan.deposit)
	assert.Equal(t, dao.Units(6000), plan.tokens)
	assert.Equal(t, dao.Units(4), s.Raised, "snapshot untouched")

	_, err = planPurchase(s, dao.SaleOpen, dao.Zero(), new(uint256.Int).AddUint64(dao.Units(6), 1))
	assert.ErrorIs(t, err, ErrGoalExceeded)

	_, err = planPurchase(s, dao.SaleOpen, dao.Zero(), dao.Zero())
	assert.ErrorIs(t, err, ErrInvalidAmount)

	for _, state := range []dao.SaleState{dao.SaleBlocked, dao.SaleGoalReached, dao.SaleClosedUnreached} {
		_, err = planPurchase(s, state, dao.Zero(), dao.Units(1))
		assert.ErrorIs(t, err, ErrNotOpen, state.String())
	}
}

func TestPlanPurchaseOverflow(t *testing.T) {
	s := saleSnapshot(0, 10)
	s.Goal = new(uint256.Int).SetAllOne()
	s.Raised = new(uint256.Int).SetAllOne()
	_, err := planPurchase(s, dao.SaleOpen, dao.Zero(), uint256.NewInt(1))
	assert.ErrorIs(t, err, ErrGoalExceeded)
}

func TestPlanRefund(t *testing.T) {
	s := saleSnapshot(3, 10)
	for _, state := range []dao.SaleState{dao.SaleBlocked, dao.SaleClosedUnreached} {
		plan, err := planRefund(s, state, dao.Units(3))
		require.NoError(t, err)
		assert.Equal(t, dao.Units(3), plan.pay)
		assert.Equal(t, dao.Units(3000), plan.burn)
	}
	plan, err := planRefund(s, dao.SaleBlocked, dao.Zero())
	require.NoError(t, err)
	assert.True(t, plan.pay.IsZero())
	assert.True(t, plan.burn.IsZero())

	for _, state := range []dao.SaleState{dao.SaleOpen, dao.SaleGoalReached} {
		_, err = planRefund(s, state, dao.Units(3))
		assert.ErrorIs(t, err, ErrRefundNotAllowed)
	}
}

func TestPlanWithdraw(t *testing.T) {
	s := saleSnapshot(10, 10)
	amount, err := planWithdraw(s, dao.SaleGoalReached)
	require.NoError(t, err)
	assert.Equal(t, dao.Units(10), amount)

	s.Withdrawn = true
	_, err = planWithdraw(s, dao.SaleGoalReached)
	assert.ErrorIs(t, err, ErrAlreadyWithdrawn)

	_, err = planWithdraw(saleSnapshot(1, 10), dao.SaleClosedUnreached)
	assert.ErrorIs(t, err, ErrGoalNotReached)
}
