package contract

// maintaining address index keys so sales and tokens can enumerate their accounts

import (
	"encoding/json"
	"fmt"

	"wareblock/sdk"
)

// loadIndex returns the addresses stored under key in insertion order.
func loadIndex(tx *Txn, key string) ([]sdk.Address, error) {
	ptr, err := tx.Get(key)
	if err != nil {
		return nil, err
	}
	if ptr == nil || *ptr == "" {
		return []sdk.Address{}, nil
	}
	var out []sdk.Address
	if err := json.Unmarshal([]byte(*ptr), &out); err != nil {
		return nil, fmt.Errorf("unmarshal index %s: %w", key, err)
	}
	return out, nil
}

// addToIndex appends addr under key unless it is already present.
func addToIndex(tx *Txn, key string, addr sdk.Address) error {
	addrs, err := loadIndex(tx, key)
	if err != nil {
		return err
	}
	for _, a := range addrs {
		if a == addr {
			return nil
		}
	}
	addrs = append(addrs, addr)
	b, err := json.Marshal(addrs)
	if err != nil {
		return fmt.Errorf("marshal index %s: %w", key, err)
	}
	return tx.Set(key, string(b))
}
