// Package memory keeps table blobs in process memory only. Used by
// tests and as the fallback when no durable storage is configured.
package memory

import (
	"sync"

	"github.com/aquilax/guestbook/storage"
)

type Memory struct {
	mu     sync.Mutex
	tables map[string]storage.Blob
}

func New() *Memory {
	return &Memory{tables: make(map[string]storage.Blob)}
}

func (m *Memory) Open(driver, dsn string) error {
	return nil
}

func (m *Memory) Load(table string) (storage.Blob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.tables[table]
	if !ok {
		return nil, nil
	}
	copied := make(storage.Blob, len(data))
	for k, v := range data {
		copied[k] = v
	}
	return copied, nil
}

func (m *Memory) Flush(table string, data storage.Blob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make(storage.Blob, len(data))
	for k, v := range data {
		copied[k] = v
	}
	m.tables[table] = copied
	return nil
}

func (m *Memory) Close() error {
	return nil
}
