package contract

import (
	"encoding/json"
	"errors"
	"os"
	"sync"
)

// MockState keeps the ledger in memory. When filename is set, every committed
// batch is written to disk as JSON and can be reloaded with LoadFromFile.
type MockState struct {
	mu       sync.RWMutex
	db       map[string]string
	filename string
}

func NewMockState() *MockState {
	return &MockState{db: make(map[string]string)}
}

// NewFileState returns a MockState persisted to filename, loading existing content.
func NewFileState(filename string) (*MockState, error) {
	m := &MockState{db: make(map[string]string), filename: filename}
	if err := m.LoadFromFile(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *MockState) Get(key string) (*string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.db[key]
	if !ok {
		return nil, nil
	}
	return &val, nil
}

func (m *MockState) Set(key, value string) error {
	return m.Apply(map[string]*string{key: &value})
}

func (m *MockState) Delete(key string) error {
	return m.Apply(map[string]*string{key: nil})
}

func (m *MockState) Apply(writes map[string]*string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := make(map[string]string, len(m.db)+len(writes))
	for k, v := range m.db {
		next[k] = v
	}
	for k, v := range writes {
		if v == nil {
			delete(next, k)
			continue
		}
		next[k] = *v
	}
	// the batch only becomes visible once it is on disk
	if err := m.saveToFile(next); err != nil {
		return err
	}
	m.db = next
	return nil
}

// Len returns the number of stored keys.
func (m *MockState) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.db)
}

// saveToFile writes the full map to the JSON file, if one is configured.
// Values are stored as []byte (base64 in JSON) since records are binary.
func (m *MockState) saveToFile(db map[string]string) error {
	if m.filename == "" {
		return nil
	}
	raw := make(map[string][]byte, len(db))
	for k, v := range db {
		raw[k] = []byte(v)
	}
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(m.filename, data, 0644)
}

// LoadFromFile loads the map from the JSON file. A missing file is not an error.
func (m *MockState) LoadFromFile() error {
	if m.filename == "" {
		return nil
	}
	data, err := os.ReadFile(m.filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	raw := make(map[string][]byte)
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range raw {
		m.db[k] = string(v)
	}
	return nil
}
