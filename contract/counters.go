package contract

import (
	"fmt"
	"strconv"
)

// getCount reads the string counter under the key and defaults to zero.
func getCount(tx *Txn, key string) (uint64, error) {
	ptr, err := tx.Get(key)
	if err != nil {
		return 0, err
	}
	if ptr == nil || *ptr == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(*ptr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("counter %s: %w", key, err)
	}
	return n, nil
}

// setCount stores uint64 counters back as decimal strings.
func setCount(tx *Txn, key string, n uint64) error {
	return tx.Set(key, strconv.FormatUint(n, 10))
}
