package store

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps documents in process memory. Used for tests and local development.
type MemoryStore struct {
	mu    sync.RWMutex
	data  map[string]map[string]map[string]any
	order map[string][]string
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:  make(map[string]map[string]map[string]any),
		order: make(map[string][]string),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (m *MemoryStore) List(_ context.Context, collection string, filters ...Filter) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var docs []Document
	for _, id := range m.order[collection] {
		fields := m.data[collection][id]
		if !matches(fields, filters) {
			continue
		}
		docs = append(docs, Document{ID: id, Fields: copyFields(fields)})
	}
	return docs, nil
}

func (m *MemoryStore) Get(_ context.Context, collection, id string) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	fields, ok := m.data[collection][id]
	if !ok {
		return nil, nil
	}
	return &Document{ID: id, Fields: copyFields(fields)}, nil
}

func (m *MemoryStore) Add(_ context.Context, collection string, fields map[string]any) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.NewString()
	stored := copyFields(fields)
	stored[CreatedAtField] = m.now()
	m.put(collection, id, stored)
	return id, nil
}

func (m *MemoryStore) Set(_ context.Context, collection, id string, fields map[string]any) error {
	if id == "" {
		return fmt.Errorf("setting %s: empty document id", collection)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.put(collection, id, copyFields(fields))
	return nil
}

func (m *MemoryStore) Update(_ context.Context, collection, id string, patch map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	fields, ok := m.data[collection][id]
	if !ok {
		return fmt.Errorf("updating %s/%s: %w", collection, id, ErrNotFound)
	}
	for k, v := range patch {
		fields[k] = v
	}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.data[collection][id]; !ok {
		return nil
	}
	delete(m.data[collection], id)
	ids := m.order[collection]
	for i, existing := range ids {
		if existing == id {
			m.order[collection] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MemoryStore) Close() error { return nil }

// Count returns the number of documents in a collection
func (m *MemoryStore) Count(collection string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data[collection])
}

// Collections returns the names of all non-empty collections, sorted
func (m *MemoryStore) Collections() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var names []string
	for name, docs := range m.data {
		if len(docs) > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (m *MemoryStore) put(collection, id string, fields map[string]any) {
	if m.data[collection] == nil {
		m.data[collection] = make(map[string]map[string]any)
	}
	if _, exists := m.data[collection][id]; !exists {
		m.order[collection] = append(m.order[collection], id)
	}
	m.data[collection][id] = fields
}

func matches(fields map[string]any, filters []Filter) bool {
	for _, f := range filters {
		v, ok := fields[f.Field]
		if !ok || !reflect.DeepEqual(v, f.Value) {
			return false
		}
	}
	return true
}

func copyFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
