// Package recent keeps the most-recently-used client ids.
package recent

import (
	"encoding/json"
	"fmt"
	"sync"
)

const (
	// Capacity is the number of ids kept
	Capacity = 5
	// Key is the setting name the list is persisted under
	Key = "recent_clients"
)

// Store is the MRU list as seen by the rest of the console
type Store interface {
	List() []string
	Add(clientID string) error
}

// Backend is a persistent string mapping
type Backend interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// MRU is a capped, de-duplicated, most-recent-first list written through to a Backend
type MRU struct {
	mu      sync.Mutex
	backend Backend
	ids     []string
}

// Load reads the persisted list once. A corrupt value starts an empty list.
func Load(backend Backend) (*MRU, error) {
	m := &MRU{backend: backend}

	raw, ok, err := backend.Get(Key)
	if err != nil {
		return nil, fmt.Errorf("failed to read recent clients: %w", err)
	}
	if ok {
		var ids []string
		if json.Unmarshal([]byte(raw), &ids) == nil {
			m.ids = normalize(ids)
		}
	}
	return m, nil
}

// List returns a copy of the ids, most recent first
func (m *MRU) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.ids...)
}

// Add moves clientID to the front and persists the list
func (m *MRU) Add(clientID string) error {
	if clientID == "" {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.ids = normalize(append([]string{clientID}, m.ids...))

	data, err := json.Marshal(m.ids)
	if err != nil {
		return err
	}
	if err := m.backend.Set(Key, string(data)); err != nil {
		return fmt.Errorf("failed to persist recent clients: %w", err)
	}
	return nil
}

// normalize drops duplicates and empties, keeping first occurrences, and caps the list
func normalize(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, Capacity)
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
		if len(out) == Capacity {
			break
		}
	}
	return out
}
