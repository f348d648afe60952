package contract

// State is the durable key/value ledger the contract reads and writes.
// Get returns nil for a missing key.
type State interface {
	Get(key string) (*string, error)
	Set(key, value string) error
	Delete(key string) error
}

// BatchState applies a whole transaction's writes atomically. A nil value deletes the key.
// Backends that do not implement it get the writes one by one.
type BatchState interface {
	State
	Apply(writes map[string]*string) error
}
