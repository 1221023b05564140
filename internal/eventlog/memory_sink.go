package eventlog

import (
	"context"
	"sync"
)

// MemorySink keeps the most recent events in order, dropping the oldest once
// max is reached.
type MemorySink struct {
	mu     sync.Mutex
	max    int
	events []Event
}

func NewMemorySink(max int) *MemorySink {
	if max <= 0 {
		max = 5000
	}
	return &MemorySink{max: max}
}

func (m *MemorySink) Write(_ context.Context, ev Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
	if len(m.events) > m.max {
		m.events = m.events[len(m.events)-m.max:]
	}
	return nil
}

func (m *MemorySink) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

// OfType returns the retained events with the given type, in order.
func (m *MemorySink) OfType(kind string) []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Event
	for _, ev := range m.events {
		if ev.Type == kind {
			out = append(out, ev)
		}
	}
	return out
}
