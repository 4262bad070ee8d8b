package storage

import (
	"encoding/json"
	"log"
	"sync"
)

// Blob is one table worth of persisted state, serialized as a single
// JSON object.
type Blob = map[string]json.RawMessage

// Backend reads and writes whole table blobs from durable storage.
type Backend interface {
	Open(driver, dsn string) error
	Load(table string) (Blob, error)
	Flush(table string, data Blob) error
	Close() error
}

// Store hands out named tables backed by one Backend. Tables are
// cached so every component sharing a name shares the same state.
type Store struct {
	backend Backend
	mu      sync.Mutex
	tables  map[string]*Table
}

func NewStore(backend Backend) *Store {
	return &Store{
		backend: backend,
		tables:  make(map[string]*Table),
	}
}

func (s *Store) Open(driver, dsn string) error {
	return s.backend.Open(driver, dsn)
}

// Table returns the table with the given name, initializing it to an
// empty object when it does not exist in storage yet.
func (s *Store) Table(name string) *Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tables[name]; ok {
		return t
	}
	data, err := s.backend.Load(name)
	if err != nil {
		log.Printf("storage: loading table %q: %v", name, err)
		data = nil
	}
	t := &Table{name: name, backend: s.backend, data: data}
	if t.data == nil {
		t.data = make(Blob)
		t.flush()
	}
	s.tables[name] = t
	return t
}

func (s *Store) Close() error {
	return s.backend.Close()
}

// Table is a keyed mapping persisted as one blob on every write.
// Writes are best effort: a failing flush is logged, never returned,
// and the in-memory copy keeps serving reads.
type Table struct {
	name    string
	backend Backend
	mu      sync.Mutex
	data    Blob
}

// Get decodes the value stored under key into out. It reports false
// when the key is absent or the stored value does not decode.
func (t *Table) Get(key string, out interface{}) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	raw, ok := t.data[key]
	if !ok {
		return false
	}
	if out == nil {
		return true
	}
	if err := json.Unmarshal(raw, out); err != nil {
		log.Printf("storage: decoding %s.%s: %v", t.name, key, err)
		return false
	}
	return true
}

// All returns a copy of the whole table.
func (t *Table) All() Blob {
	t.mu.Lock()
	defer t.mu.Unlock()
	data := make(Blob, len(t.data))
	for k, v := range t.data {
		data[k] = v
	}
	return data
}

func (t *Table) Set(key string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		log.Printf("storage: encoding %s.%s: %v", t.name, key, err)
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data[key] = raw
	t.flush()
}

func (t *Table) Has(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.data[key]
	return ok
}

func (t *Table) Unset(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.data[key]; !ok {
		return
	}
	delete(t.data, key)
	t.flush()
}

func (t *Table) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data = make(Blob)
	t.flush()
}

func (t *Table) flush() {
	if err := t.backend.Flush(t.name, t.data); err != nil {
		log.Printf("storage: flushing table %q: %v", t.name, err)
	}
}
