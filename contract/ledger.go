package contract

import (
	"fmt"

	"github.com/holiman/uint256"

	"wareblock/contract/dao"
	"wareblock/sdk"
)

// -----------------------------------------------------------------------------
// Asset Ledger: balances and allowances for native value, the settlement asset
// and every unit token (keyed by sdk.AssetOf(token)).
// -----------------------------------------------------------------------------

func readAmount(tx *Txn, key string) (*uint256.Int, error) {
	ptr, err := tx.Get(key)
	if err != nil {
		return nil, err
	}
	if ptr == nil || *ptr == "" {
		return dao.Zero(), nil
	}
	v, err := uint256.FromDecimal(*ptr)
	if err != nil {
		return nil, fmt.Errorf("corrupt amount under %s: %w", key, err)
	}
	return v, nil
}

// writeAmount stores the amount in decimal, deleting the key when it drops to zero.
func writeAmount(tx *Txn, key string, v *uint256.Int) error {
	if v.IsZero() {
		return tx.Delete(key)
	}
	return tx.Set(key, v.Dec())
}

// getBalance retrieves the balance of holder in asset.
func getBalance(tx *Txn, asset sdk.Asset, holder sdk.Address) (*uint256.Int, error) {
	return readAmount(tx, balanceKey(asset, holder))
}

// addFunds credits holder, failing instead of wrapping on overflow.
func addFunds(tx *Txn, asset sdk.Asset, holder sdk.Address, amount *uint256.Int) error {
	current, err := getBalance(tx, asset, holder)
	if err != nil {
		return err
	}
	next, overflow := new(uint256.Int).AddOverflow(current, amount)
	if overflow {
		return fmt.Errorf("%w: %s balance of %s overflows", ErrInvalidAmount, asset, holder)
	}
	return writeAmount(tx, balanceKey(asset, holder), next)
}

// removeFunds debits holder. Returns ErrInsufficientBalance if the balance is short.
func removeFunds(tx *Txn, asset sdk.Asset, holder sdk.Address, amount *uint256.Int) error {
	current, err := getBalance(tx, asset, holder)
	if err != nil {
		return err
	}
	if current.Lt(amount) {
		return fmt.Errorf("%w: %s has %s %s, needs %s", ErrInsufficientBalance, holder, current.Dec(), asset, amount.Dec())
	}
	return writeAmount(tx, balanceKey(asset, holder), new(uint256.Int).Sub(current, amount))
}

// moveFunds transfers amount of asset from one account to another. A zero
// amount is a successful no-op.
func moveFunds(tx *Txn, asset sdk.Asset, from, to sdk.Address, amount *uint256.Int) error {
	if !to.IsValid() {
		return fmt.Errorf("%w: recipient %q", ErrInvalidAddress, to)
	}
	if amount == nil {
		return fmt.Errorf("%w: missing amount", ErrInvalidAmount)
	}
	if amount.IsZero() {
		return nil
	}
	if err := removeFunds(tx, asset, from, amount); err != nil {
		return err
	}
	return addFunds(tx, asset, to, amount)
}

func getAllowance(tx *Txn, asset sdk.Asset, owner, spender sdk.Address) (*uint256.Int, error) {
	return readAmount(tx, allowanceKey(asset, owner, spender))
}

func setAllowance(tx *Txn, asset sdk.Asset, owner, spender sdk.Address, amount *uint256.Int) error {
	if !spender.IsValid() {
		return fmt.Errorf("%w: spender %q", ErrInvalidAddress, spender)
	}
	if amount == nil {
		return fmt.Errorf("%w: missing amount", ErrInvalidAmount)
	}
	return writeAmount(tx, allowanceKey(asset, owner, spender), amount)
}

// spendAllowance moves funds on behalf of owner, consuming spender's approval.
func spendAllowance(tx *Txn, asset sdk.Asset, spender, owner, to sdk.Address, amount *uint256.Int) error {
	if amount == nil {
		return fmt.Errorf("%w: missing amount", ErrInvalidAmount)
	}
	allowed, err := getAllowance(tx, asset, owner, spender)
	if err != nil {
		return err
	}
	if allowed.Lt(amount) {
		return fmt.Errorf("%w: %s may spend %s %s of %s, needs %s",
			ErrInsufficientAllowance, spender, allowed.Dec(), asset, owner, amount.Dec())
	}
	if err := writeAmount(tx, allowanceKey(asset, owner, spender), new(uint256.Int).Sub(allowed, amount)); err != nil {
		return err
	}
	return moveFunds(tx, asset, owner, to, amount)
}

// Ledger is the view of the asset ledger handed to exchange adapters. It
// operates inside the calling transaction, so a failed call leaves no trace.
type Ledger interface {
	BalanceOf(asset sdk.Asset, holder sdk.Address) (*uint256.Int, error)
	Move(asset sdk.Asset, from, to sdk.Address, amount *uint256.Int) error
}

type txnLedger struct{ tx *Txn }

func (l txnLedger) BalanceOf(asset sdk.Asset, holder sdk.Address) (*uint256.Int, error) {
	return getBalance(l.tx, asset, holder)
}

func (l txnLedger) Move(asset sdk.Asset, from, to sdk.Address, amount *uint256.Int) error {
	return moveFunds(l.tx, asset, from, to, amount)
}
