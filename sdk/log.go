package sdk

import (
	"sync"

	"go.uber.org/zap"
)

// EventSink receives the terse event lines contracts emit on commit.
type EventSink interface {
	Log(msg string)
}

// ZapSink forwards event lines to a structured logger.
type ZapSink struct {
	logger *zap.Logger
}

func NewZapSink(logger *zap.Logger) *ZapSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapSink{logger: logger.Named("events")}
}

func (z *ZapSink) Log(msg string) {
	z.logger.Info("contract event", zap.String("event", msg))
}

// MemorySink keeps every line in memory so tests can assert on them.
type MemorySink struct {
	mu    sync.Mutex
	lines []string
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (m *MemorySink) Log(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = append(m.lines, msg)
}

// Lines returns a copy of the recorded events in emission order.
func (m *MemorySink) Lines() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.lines))
	copy(out, m.lines)
	return out
}

// Reset drops recorded events.
func (m *MemorySink) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = nil
}
