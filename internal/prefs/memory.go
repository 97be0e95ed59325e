package prefs

import (
	"context"
	"sync"

	"github.com/JonMunkholm/datagrid/internal/grid"
)

// Memory keeps preferences in process memory. Values are stored encoded, so
// a loaded value never aliases a saved one.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Load(_ context.Context, key string) (grid.Preferences, bool, error) {
	m.mu.RLock()
	raw, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return grid.Preferences{}, false, nil
	}
	p, err := decode(raw)
	if err != nil {
		return grid.Preferences{}, false, err
	}
	return p, true, nil
}

func (m *Memory) Save(_ context.Context, key string, p grid.Preferences) error {
	raw, err := encode(p)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data[key] = raw
	m.mu.Unlock()
	return nil
}
