package contract

import (
	"fmt"
	"sync"
	"time"

	"wareblock/sdk"
)

// Contract is the Wareblock ledger: registry, unit tokens, sales and the
// settlement asset adapter over one State. Calls are serialized, and every
// call either commits all of its writes and events or none of them.
type Contract struct {
	mu       sync.Mutex
	state    State
	sink     sdk.EventSink
	exchange Exchange
	cfg      Config
	created  bool
}

type Option func(*Contract)

// WithEventSink publishes committed event lines to sink.
func WithEventSink(sink sdk.EventSink) Option {
	return func(c *Contract) { c.sink = sink }
}

// WithExchange sets the adapter used for native value purchases.
func WithExchange(x Exchange) Option {
	return func(c *Contract) { c.exchange = x }
}

// New opens the contract over state. A fresh state is initialized with cfg;
// an initialized one keeps its stored config and cfg only needs to be zero or equal.
func New(state State, cfg Config, opts ...Option) (*Contract, error) {
	c := &Contract{state: state, sink: sdk.NewZapSink(nil)}
	for _, opt := range opts {
		opt(c)
	}
	tx := newTxn(state)
	stored, err := loadConfig(tx)
	if err != nil {
		return nil, err
	}
	if stored != nil {
		if cfg != (Config{}) && cfg != *stored {
			return nil, fmt.Errorf("%w: state belongs to owner %s (%s/%s)",
				ErrInvalidConfiguration, stored.Owner, stored.SettlementAsset, stored.NativeAsset)
		}
		c.cfg = *stored
		return c, nil
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := saveConfig(tx, &cfg); err != nil {
		return nil, err
	}
	if err := tx.commit(); err != nil {
		return nil, err
	}
	c.cfg = cfg
	c.created = true
	return c, nil
}

func (c *Contract) Config() Config {
	return c.cfg
}

// Created reports whether New initialized an empty state.
func (c *Contract) Created() bool {
	return c.created
}

// exec runs fn in a fresh transaction and commits it only if fn succeeds.
func (c *Contract) exec(fn func(tx *Txn) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	tx := newTxn(c.state)
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	for _, line := range tx.events {
		c.sink.Log(line)
	}
	return nil
}

// view runs fn against a throwaway transaction.
func (c *Contract) view(fn func(tx *Txn) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fn(newTxn(c.state))
}

// nowUnix grabs the block timestamp from env; hosts that omit it get wall-clock time.
func nowUnix(env sdk.Env) int64 {
	if ts, ok := env.Unix(); ok {
		return ts
	}
	return time.Now().Unix()
}

// requireSender returns the calling user. Contract and system accounts only
// move funds from inside a call, never as the sender of one.
func requireSender(env sdk.Env) (sdk.Address, error) {
	caller := env.Sender.Address
	if !caller.IsValid() {
		return "", fmt.Errorf("%w: missing sender", ErrUnauthorized)
	}
	if caller.Domain() != sdk.AddressDomainUser {
		return "", fmt.Errorf("%w: %s cannot send calls", ErrUnauthorized, caller)
	}
	return caller, nil
}
