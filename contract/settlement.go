package contract

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"

	"wareblock/sdk"
)

// =============================================================================
// Settlement Asset Adapter
// =============================================================================

// BalanceOf returns holder's balance of any ledger asset: native, settlement
// or a unit token (sdk.AssetOf(token)).
func (c *Contract) BalanceOf(asset sdk.Asset, holder sdk.Address) (*uint256.Int, error) {
	var out *uint256.Int
	err := c.view(func(tx *Txn) error {
		var err error
		out, err = getBalance(tx, asset, holder)
		return err
	})
	return out, err
}

func (c *Contract) SettlementBalanceOf(holder sdk.Address) (*uint256.Int, error) {
	return c.BalanceOf(c.cfg.SettlementAsset, holder)
}

// TransferSettlement moves the sender's settlement asset to another account.
func (c *Contract) TransferSettlement(env sdk.Env, to sdk.Address, amount *uint256.Int) error {
	caller, err := requireSender(env)
	if err != nil {
		return err
	}
	return c.exec(func(tx *Txn) error {
		return moveFunds(tx, c.cfg.SettlementAsset, caller, to, amount)
	})
}

// ApproveSettlement lets spender (usually a sale) pull up to amount from the sender.
func (c *Contract) ApproveSettlement(env sdk.Env, spender sdk.Address, amount *uint256.Int) error {
	caller, err := requireSender(env)
	if err != nil {
		return err
	}
	return c.exec(func(tx *Txn) error {
		return setAllowance(tx, c.cfg.SettlementAsset, caller, spender, amount)
	})
}

func (c *Contract) SettlementAllowance(owner, spender sdk.Address) (*uint256.Int, error) {
	var out *uint256.Int
	err := c.view(func(tx *Txn) error {
		var err error
		out, err = getAllowance(tx, c.cfg.SettlementAsset, owner, spender)
		return err
	})
	return out, err
}

// TransferSettlementFrom spends the sender's approval over owner's settlement asset.
func (c *Contract) TransferSettlementFrom(env sdk.Env, owner, to sdk.Address, amount *uint256.Int) error {
	caller, err := requireSender(env)
	if err != nil {
		return err
	}
	return c.exec(func(tx *Txn) error {
		return spendAllowance(tx, c.cfg.SettlementAsset, caller, owner, to, amount)
	})
}

// Deposit credits native or settlement asset out of thin air. It is the
// genesis hook used by node bootstrap and tests; unit tokens can only be minted
// by the registry.
func (c *Contract) Deposit(asset sdk.Asset, to sdk.Address, amount *uint256.Int) error {
	if asset != c.cfg.SettlementAsset && asset != c.cfg.NativeAsset {
		return fmt.Errorf("%w: asset %q cannot be deposited", ErrInvalidConfiguration, asset)
	}
	if amount == nil || amount.IsZero() {
		return fmt.Errorf("%w: deposit must be positive", ErrInvalidAmount)
	}
	if !to.IsValid() {
		return fmt.Errorf("%w: recipient %q", ErrInvalidAddress, to)
	}
	return c.exec(func(tx *Txn) error {
		if err := addFunds(tx, asset, to, amount); err != nil {
			return err
		}
		emitDepositEvent(tx, asset, to, amount)
		return nil
	})
}

// pullSettlement moves amount from payer into the sale using the sale's allowance.
func (c *Contract) pullSettlement(tx *Txn, sale, payer sdk.Address, amount *uint256.Int) error {
	return spendAllowance(tx, c.cfg.SettlementAsset, sale, payer, sale, amount)
}

// payoutSettlement sends settlement asset held by the sale.
func (c *Contract) payoutSettlement(tx *Txn, sale, to sdk.Address, amount *uint256.Int) error {
	return moveFunds(tx, c.cfg.SettlementAsset, sale, to, amount)
}

// convertNative swaps the payer's native value into settlement asset credited to
// the sale and returns the amount received.
func (c *Contract) convertNative(ctx context.Context, tx *Txn, req SwapRequest) (*uint256.Int, error) {
	if c.exchange == nil {
		return nil, fmt.Errorf("%w: no exchange configured", ErrConversionFailed)
	}
	out, err := c.exchange.SwapNativeForSettlement(ctx, txnLedger{tx: tx}, req)
	if err != nil {
		return nil, err
	}
	emitSwapEvent(tx, req.Payer, req.Value, out)
	return out, nil
}
