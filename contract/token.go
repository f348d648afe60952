package contract

import (
	"fmt"

	"github.com/holiman/uint256"

	"wareblock/contract/dao"
	"wareblock/sdk"
)

// =============================================================================
// Unit Token
// =============================================================================

// loadToken fetches the token record. Returns ErrNotFound if no token lives at addr.
func loadToken(tx *Txn, addr sdk.Address) (*dao.TokenRecord, error) {
	ptr, err := tx.Get(tokenKey(addr))
	if err != nil {
		return nil, err
	}
	if ptr == nil || *ptr == "" {
		return nil, fmt.Errorf("%w: token %s", ErrNotFound, addr)
	}
	return dao.DecodeToken([]byte(*ptr))
}

func saveToken(tx *Txn, t *dao.TokenRecord) error {
	return tx.Set(tokenKey(t.Address), string(dao.EncodeToken(t)))
}

// mintToken stores a fresh token and credits its whole fixed supply to the owner.
func mintToken(tx *Txn, t *dao.TokenRecord) error {
	if err := saveToken(tx, t); err != nil {
		return err
	}
	if err := addFunds(tx, sdk.AssetOf(t.Address), t.Owner, t.TotalSupply); err != nil {
		return err
	}
	if err := addToIndex(tx, holdersKey(t.Address), t.Owner); err != nil {
		return err
	}
	emitTokenTransferEvent(tx, t.Address, sdk.ZeroAddress, t.Owner, t.TotalSupply)
	return nil
}

// transferToken moves unit tokens and remembers the recipient as a holder.
func transferToken(tx *Txn, token, from, to sdk.Address, amount *uint256.Int) error {
	if err := moveFunds(tx, sdk.AssetOf(token), from, to, amount); err != nil {
		return err
	}
	if err := addToIndex(tx, holdersKey(token), to); err != nil {
		return err
	}
	emitTokenTransferEvent(tx, token, from, to, amount)
	return nil
}

// setAuthorizedSale binds the one sale allowed to burn the token. Only the owner may call it.
func setAuthorizedSale(tx *Txn, caller, token, sale sdk.Address) error {
	t, err := loadToken(tx, token)
	if err != nil {
		return err
	}
	if caller != t.Owner {
		return fmt.Errorf("%w: only the token owner may set the authorized sale", ErrUnauthorized)
	}
	if !sale.IsValid() {
		return fmt.Errorf("%w: sale %q", ErrInvalidAddress, sale)
	}
	t.AuthorizedSale = sale
	if err := saveToken(tx, t); err != nil {
		return err
	}
	emitAuthorizedSaleEvent(tx, token, sale)
	return nil
}

// destroyFrom burns holder's tokens and shrinks the total supply. Only the
// authorized sale may call it.
func destroyFrom(tx *Txn, caller, token, holder sdk.Address, amount *uint256.Int) error {
	t, err := loadToken(tx, token)
	if err != nil {
		return err
	}
	if t.AuthorizedSale.IsZero() || caller != t.AuthorizedSale {
		return fmt.Errorf("%w: only the authorized sale may destroy tokens", ErrUnauthorized)
	}
	if amount == nil {
		return fmt.Errorf("%w: missing amount", ErrInvalidAmount)
	}
	if amount.IsZero() {
		return nil
	}
	if err := removeFunds(tx, sdk.AssetOf(token), holder, amount); err != nil {
		return err
	}
	if t.TotalSupply.Lt(amount) {
		return fmt.Errorf("burn of %s exceeds supply %s of %s", amount.Dec(), t.TotalSupply.Dec(), token)
	}
	t.TotalSupply = new(uint256.Int).Sub(t.TotalSupply, amount)
	if err := saveToken(tx, t); err != nil {
		return err
	}
	emitTokenBurnEvent(tx, token, holder, amount)
	return nil
}

// Transfer moves the sender's unit tokens.
func (c *Contract) Transfer(env sdk.Env, token, to sdk.Address, amount *uint256.Int) error {
	caller, err := requireSender(env)
	if err != nil {
		return err
	}
	return c.exec(func(tx *Txn) error {
		if _, err := loadToken(tx, token); err != nil {
			return err
		}
		return transferToken(tx, token, caller, to, amount)
	})
}

// Approve sets spender's allowance over the sender's unit tokens.
func (c *Contract) Approve(env sdk.Env, token, spender sdk.Address, amount *uint256.Int) error {
	caller, err := requireSender(env)
	if err != nil {
		return err
	}
	return c.exec(func(tx *Txn) error {
		if _, err := loadToken(tx, token); err != nil {
			return err
		}
		if err := setAllowance(tx, sdk.AssetOf(token), caller, spender, amount); err != nil {
			return err
		}
		emitTokenApprovalEvent(tx, token, caller, spender, amount)
		return nil
	})
}

func (c *Contract) Allowance(token, owner, spender sdk.Address) (*uint256.Int, error) {
	var out *uint256.Int
	err := c.view(func(tx *Txn) error {
		var err error
		out, err = getAllowance(tx, sdk.AssetOf(token), owner, spender)
		return err
	})
	return out, err
}

// TransferFrom spends the sender's allowance over from's unit tokens.
func (c *Contract) TransferFrom(env sdk.Env, token, from, to sdk.Address, amount *uint256.Int) error {
	caller, err := requireSender(env)
	if err != nil {
		return err
	}
	return c.exec(func(tx *Txn) error {
		if _, err := loadToken(tx, token); err != nil {
			return err
		}
		if err := spendAllowance(tx, sdk.AssetOf(token), caller, from, to, amount); err != nil {
			return err
		}
		if err := addToIndex(tx, holdersKey(token), to); err != nil {
			return err
		}
		emitTokenTransferEvent(tx, token, from, to, amount)
		return nil
	})
}

func (c *Contract) TokenBalanceOf(token, holder sdk.Address) (*uint256.Int, error) {
	return c.BalanceOf(sdk.AssetOf(token), holder)
}

// SetAuthorizedSale rebinds the burning sale. The caller must own the token.
func (c *Contract) SetAuthorizedSale(env sdk.Env, token, sale sdk.Address) error {
	caller, err := requireSender(env)
	if err != nil {
		return err
	}
	return c.exec(func(tx *Txn) error {
		return setAuthorizedSale(tx, caller, token, sale)
	})
}

// DestroyFrom burns holder's tokens. The caller must be the token's authorized sale.
func (c *Contract) DestroyFrom(env sdk.Env, token, holder sdk.Address, amount *uint256.Int) error {
	caller, err := requireSender(env)
	if err != nil {
		return err
	}
	return c.exec(func(tx *Txn) error {
		return destroyFrom(tx, caller, token, holder, amount)
	})
}

// GetToken returns the token metadata (name, symbol, decimals, tokenURI, supply, owner, authorized sale).
func (c *Contract) GetToken(token sdk.Address) (*dao.TokenRecord, error) {
	var out *dao.TokenRecord
	err := c.view(func(tx *Txn) error {
		var err error
		out, err = loadToken(tx, token)
		return err
	})
	return out, err
}

func (c *Contract) TokenURI(token sdk.Address) (string, error) {
	t, err := c.GetToken(token)
	if err != nil {
		return "", err
	}
	return t.MetadataURI, nil
}

func (c *Contract) Decimals(token sdk.Address) (uint8, error) {
	t, err := c.GetToken(token)
	if err != nil {
		return 0, err
	}
	return t.Decimals, nil
}

// TokenHolders lists every account that ever received the token, including
// ones whose balance has since dropped to zero.
func (c *Contract) TokenHolders(token sdk.Address) ([]sdk.Address, error) {
	var out []sdk.Address
	err := c.view(func(tx *Txn) error {
		if _, err := loadToken(tx, token); err != nil {
			return err
		}
		var err error
		out, err = loadIndex(tx, holdersKey(token))
		return err
	})
	return out, err
}
