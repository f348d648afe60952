package contract

import (
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v2"
)

// BadgerState stores the ledger in a badger database. Each committed
// transaction is applied inside one badger update.
type BadgerState struct {
	db *badger.DB
}

// OpenBadgerState opens (or creates) the database in dir. An empty dir keeps
// everything in memory.
func OpenBadgerState(dir string) (*BadgerState, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger state: %w", err)
	}
	return &BadgerState{db: db}, nil
}

func (b *BadgerState) Close() error {
	return b.db.Close()
}

func (b *BadgerState) Get(key string) (*string, error) {
	var out *string
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		val, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		s := string(val)
		out = &s
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("badger get %q: %w", key, err)
	}
	return out, nil
}

func (b *BadgerState) Set(key, value string) error {
	return b.Apply(map[string]*string{key: &value})
}

func (b *BadgerState) Delete(key string) error {
	return b.Apply(map[string]*string{key: nil})
}

func (b *BadgerState) Apply(writes map[string]*string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		for k, v := range writes {
			if v == nil {
				if err := txn.Delete([]byte(k)); err != nil {
					return err
				}
				continue
			}
			if err := txn.Set([]byte(k), []byte(*v)); err != nil {
				return err
			}
		}
		return nil
	})
}
