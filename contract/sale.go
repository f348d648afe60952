package contract

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"

	"wareblock/contract/dao"
	"wareblock/sdk"
)

// =============================================================================
// Sale
// =============================================================================

// Purchase summarizes an accepted buy.
type Purchase struct {
	Sale        sdk.Address
	Purchaser   sdk.Address
	Beneficiary sdk.Address
	Paid        *uint256.Int // native value or settlement amount handed over
	Received    *uint256.Int // settlement asset credited to the sale
	Tokens      *uint256.Int
}

// Refund summarizes a refund claim. Both amounts are zero on a repeated claim.
type Refund struct {
	Sale     sdk.Address
	Investor sdk.Address
	Paid     *uint256.Int
	Burned   *uint256.Int
}

func loadSale(tx *Txn, addr sdk.Address) (*dao.SaleRecord, error) {
	ptr, err := tx.Get(saleKey(addr))
	if err != nil {
		return nil, err
	}
	if ptr == nil || *ptr == "" {
		return nil, fmt.Errorf("%w: sale %s", ErrNotFound, addr)
	}
	return dao.DecodeSale([]byte(*ptr))
}

func saveSale(tx *Txn, s *dao.SaleRecord) error {
	return tx.Set(saleKey(s.Address), string(dao.EncodeSale(s)))
}

func getDeposit(tx *Txn, sale, investor sdk.Address) (*uint256.Int, error) {
	return readAmount(tx, depositKey(sale, investor))
}

func setDeposit(tx *Txn, sale, investor sdk.Address, v *uint256.Int) error {
	return writeAmount(tx, depositKey(sale, investor), v)
}

// currentState evaluates the sale against its siblings at time now.
func currentState(tx *Txn, s *dao.SaleRecord, now int64) (dao.SaleState, error) {
	if s.GoalReached() {
		return dao.SaleGoalReached, nil
	}
	reached, err := anySiblingReached(tx, s.ListingID, s.Address)
	if err != nil {
		return dao.SaleStateUnspecified, err
	}
	return evaluateState(s, reached, now), nil
}

func validatePurchase(beneficiary sdk.Address, amount *uint256.Int) error {
	if !beneficiary.IsValid() {
		return fmt.Errorf("%w: beneficiary %q", ErrInvalidAmount, beneficiary)
	}
	// sale escrow, registry and reserve accounts can never claim a refund
	if beneficiary.Domain() != sdk.AddressDomainUser {
		return fmt.Errorf("%w: beneficiary %s is not a user account", ErrInvalidAmount, beneficiary)
	}
	if amount == nil || amount.IsZero() {
		return fmt.Errorf("%w: purchase amount must be positive", ErrInvalidAmount)
	}
	return nil
}

// Buy pays native value, converts it into settlement asset under the caller's
// minOut and deadline bounds and issues received * rate tokens to beneficiary.
func (c *Contract) Buy(ctx context.Context, env sdk.Env, sale, beneficiary sdk.Address, value, minOut *uint256.Int, deadline int64) (*Purchase, error) {
	caller, err := requireSender(env)
	if err != nil {
		return nil, err
	}
	if err := validatePurchase(beneficiary, value); err != nil {
		return nil, err
	}
	now := nowUnix(env)
	var out *Purchase
	err = c.exec(func(tx *Txn) error {
		s, err := loadSale(tx, sale)
		if err != nil {
			return err
		}
		state, err := currentState(tx, s, now)
		if err != nil {
			return err
		}
		if err := checkOpen(state); err != nil {
			return err
		}
		received, err := c.convertNative(ctx, tx, SwapRequest{
			Payer:     caller,
			Recipient: s.Address,
			Value:     value,
			MinOut:    minOut,
			Deadline:  deadline,
			Now:       now,
		})
		if err != nil {
			return err
		}
		out, err = c.applyPurchase(tx, s, state, caller, beneficiary, value, received)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// BuyWithSettlementAsset pulls amount of settlement asset from the caller. The
// caller must have approved the sale for at least amount.
func (c *Contract) BuyWithSettlementAsset(env sdk.Env, sale, beneficiary sdk.Address, amount *uint256.Int) (*Purchase, error) {
	caller, err := requireSender(env)
	if err != nil {
		return nil, err
	}
	if err := validatePurchase(beneficiary, amount); err != nil {
		return nil, err
	}
	now := nowUnix(env)
	var out *Purchase
	err = c.exec(func(tx *Txn) error {
		s, err := loadSale(tx, sale)
		if err != nil {
			return err
		}
		state, err := currentState(tx, s, now)
		if err != nil {
			return err
		}
		if err := checkOpen(state); err != nil {
			return err
		}
		if err := c.pullSettlement(tx, s.Address, caller, amount); err != nil {
			return err
		}
		out, err = c.applyPurchase(tx, s, state, caller, beneficiary, amount, amount)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// applyPurchase writes back a purchase once the settlement asset is in the sale.
func (c *Contract) applyPurchase(tx *Txn, s *dao.SaleRecord, state dao.SaleState, purchaser, beneficiary sdk.Address, paid, received *uint256.Int) (*Purchase, error) {
	deposit, err := getDeposit(tx, s.Address, beneficiary)
	if err != nil {
		return nil, err
	}
	plan, err := planPurchase(s, state, deposit, received)
	if err != nil {
		return nil, err
	}
	s.Raised = plan.raised
	if err := saveSale(tx, s); err != nil {
		return nil, err
	}
	if err := setDeposit(tx, s.Address, beneficiary, plan.deposit); err != nil {
		return nil, err
	}
	if err := addToIndex(tx, investorsKey(s.Address), beneficiary); err != nil {
		return nil, err
	}
	if err := transferToken(tx, s.Token, s.Address, beneficiary, plan.tokens); err != nil {
		return nil, err
	}
	emitSaleBoughtEvent(tx, s.Address, purchaser, beneficiary, received, plan.tokens)
	return &Purchase{
		Sale:        s.Address,
		Purchaser:   purchaser,
		Beneficiary: beneficiary,
		Paid:        paid,
		Received:    received,
		Tokens:      plan.tokens,
	}, nil
}

// ClaimRefund pays the caller's deposit back and burns the tokens it bought.
// Allowed only while the sale is blocked or closed without reaching its goal.
func (c *Contract) ClaimRefund(env sdk.Env, sale sdk.Address) (*Refund, error) {
	caller, err := requireSender(env)
	if err != nil {
		return nil, err
	}
	now := nowUnix(env)
	var out *Refund
	err = c.exec(func(tx *Txn) error {
		s, err := loadSale(tx, sale)
		if err != nil {
			return err
		}
		state, err := currentState(tx, s, now)
		if err != nil {
			return err
		}
		deposit, err := getDeposit(tx, s.Address, caller)
		if err != nil {
			return err
		}
		plan, err := planRefund(s, state, deposit)
		if err != nil {
			return err
		}
		// zero the deposit before paying out
		if err := setDeposit(tx, s.Address, caller, dao.Zero()); err != nil {
			return err
		}
		if err := c.payoutSettlement(tx, s.Address, caller, plan.pay); err != nil {
			return err
		}
		if err := destroyFrom(tx, s.Address, s.Token, caller, plan.burn); err != nil {
			return err
		}
		emitSaleRefundEvent(tx, s.Address, caller, plan.pay, plan.burn)
		out = &Refund{Sale: s.Address, Investor: caller, Paid: plan.pay, Burned: plan.burn}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// BeneficiaryWithdraw sends everything raised to the sale wallet, once. Anyone
// may trigger it; the funds only ever go to the wallet.
func (c *Contract) BeneficiaryWithdraw(env sdk.Env, sale sdk.Address) (*uint256.Int, error) {
	if _, err := requireSender(env); err != nil {
		return nil, err
	}
	now := nowUnix(env)
	var out *uint256.Int
	err := c.exec(func(tx *Txn) error {
		s, err := loadSale(tx, sale)
		if err != nil {
			return err
		}
		state, err := currentState(tx, s, now)
		if err != nil {
			return err
		}
		amount, err := planWithdraw(s, state)
		if err != nil {
			return err
		}
		s.Withdrawn = true
		if err := saveSale(tx, s); err != nil {
			return err
		}
		if err := c.payoutSettlement(tx, s.Address, s.Wallet, amount); err != nil {
			return err
		}
		emitSaleWithdrawEvent(tx, s.Address, s.Wallet, amount)
		out = amount
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Contract) GoalReached(sale sdk.Address) (bool, error) {
	s, err := c.GetSale(sale)
	if err != nil {
		return false, err
	}
	return s.GoalReached(), nil
}

// DepositsOf returns the settlement amount investor has in the sale.
func (c *Contract) DepositsOf(sale, investor sdk.Address) (*uint256.Int, error) {
	var out *uint256.Int
	err := c.view(func(tx *Txn) error {
		if _, err := loadSale(tx, sale); err != nil {
			return err
		}
		var err error
		out, err = getDeposit(tx, sale, investor)
		return err
	})
	return out, err
}

// SaleState evaluates the sale at the env's block time.
func (c *Contract) SaleState(env sdk.Env, sale sdk.Address) (dao.SaleState, error) {
	now := nowUnix(env)
	var out dao.SaleState
	err := c.view(func(tx *Txn) error {
		s, err := loadSale(tx, sale)
		if err != nil {
			return err
		}
		out, err = currentState(tx, s, now)
		return err
	})
	return out, err
}

func (c *Contract) GetSale(sale sdk.Address) (*dao.SaleRecord, error) {
	var out *dao.SaleRecord
	err := c.view(func(tx *Txn) error {
		var err error
		out, err = loadSale(tx, sale)
		return err
	})
	return out, err
}

// Investors lists the beneficiaries that ever bought into the sale.
func (c *Contract) Investors(sale sdk.Address) ([]sdk.Address, error) {
	var out []sdk.Address
	err := c.view(func(tx *Txn) error {
		if _, err := loadSale(tx, sale); err != nil {
			return err
		}
		var err error
		out, err = loadIndex(tx, investorsKey(sale))
		return err
	})
	return out, err
}
