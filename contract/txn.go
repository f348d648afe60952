package contract

import "fmt"

// Txn buffers the writes and events of a single contract call on top of the
// durable state. Reads see the buffered writes first. Nothing reaches the
// state or the event sink unless the call returns without error.
type Txn struct {
	base   State
	writes map[string]*string
	events []string
}

func newTxn(base State) *Txn {
	return &Txn{base: base, writes: make(map[string]*string)}
}

func (t *Txn) Get(key string) (*string, error) {
	if v, ok := t.writes[key]; ok {
		if v == nil {
			return nil, nil
		}
		cp := *v
		return &cp, nil
	}
	return t.base.Get(key)
}

func (t *Txn) Set(key, value string) error {
	t.writes[key] = &value
	return nil
}

func (t *Txn) Delete(key string) error {
	t.writes[key] = nil
	return nil
}

// emit queues an event line for publication after commit.
func (t *Txn) emit(line string) {
	t.events = append(t.events, line)
}

func (t *Txn) commit() error {
	if len(t.writes) == 0 {
		return nil
	}
	if b, ok := t.base.(BatchState); ok {
		return b.Apply(t.writes)
	}
	for k, v := range t.writes {
		var err error
		if v == nil {
			err = t.base.Delete(k)
		} else {
			err = t.base.Set(k, *v)
		}
		if err != nil {
			return fmt.Errorf("write %q: %w", k, err)
		}
	}
	return nil
}
