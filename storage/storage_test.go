package storage

import (
	"encoding/json"
	"fmt"
	"reflect"
	"testing"
)

// stub backend recording flushes, optionally failing them.
type stub struct {
	tables  map[string]Blob
	flushes int
	failing bool
}

func newStub() *stub {
	return &stub{tables: make(map[string]Blob)}
}

func (s *stub) Open(driver, dsn string) error { return nil }

func (s *stub) Load(table string) (Blob, error) {
	return s.tables[table], nil
}

func (s *stub) Flush(table string, data Blob) error {
	s.flushes++
	if s.failing {
		return fmt.Errorf("disk full")
	}
	copied := make(Blob, len(data))
	for k, v := range data {
		copied[k] = v
	}
	s.tables[table] = copied
	return nil
}

func (s *stub) Close() error { return nil }

func TestTable(t *testing.T) {
	t.Run("missing table initializes empty", func(t *testing.T) {
		b := newStub()
		tab := NewStore(b).Table("owns")
		if got := tab.All(); len(got) != 0 {
			t.Errorf("All() = %v, want empty", got)
		}
		if b.flushes == 0 {
			t.Error("empty table was not persisted")
		}
	})

	t.Run("set get has unset round trip", func(t *testing.T) {
		tab := NewStore(newStub()).Table("owns")
		tab.Set("uuid-1", "own-token")

		var own string
		if !tab.Get("uuid-1", &own) || own != "own-token" {
			t.Errorf("Get() = %q", own)
		}
		if !tab.Has("uuid-1") {
			t.Error("Has() = false after Set")
		}

		tab.Unset("uuid-1")
		if tab.Has("uuid-1") {
			t.Error("Has() = true after Unset")
		}
		if tab.Get("uuid-1", &own) {
			t.Error("Get() = true after Unset")
		}
	})

	t.Run("every write flushes the whole blob", func(t *testing.T) {
		b := newStub()
		tab := NewStore(b).Table("comment")
		before := b.flushes
		tab.Set("hidden", []string{"a"})
		tab.Set("show", []string{"b"})
		tab.Unset("show")
		if got := b.flushes - before; got != 3 {
			t.Errorf("flushes = %d, want 3", got)
		}
		var hidden []string
		if !tab.Get("hidden", &hidden) || !reflect.DeepEqual(hidden, []string{"a"}) {
			t.Errorf("hidden = %v", hidden)
		}
	})

	t.Run("failing flush is swallowed and memory keeps serving", func(t *testing.T) {
		b := newStub()
		store := NewStore(b)
		tab := store.Table("information")
		b.failing = true

		tab.Set("name", "Alice")

		var name string
		if !tab.Get("name", &name) || name != "Alice" {
			t.Errorf("in-memory value lost on flush failure: %q", name)
		}
	})

	t.Run("unencodable value is dropped, not fatal", func(t *testing.T) {
		tab := NewStore(newStub()).Table("information")
		tab.Set("bad", func() {})
		if tab.Has("bad") {
			t.Error("unencodable value was stored")
		}
	})

	t.Run("clear empties the table", func(t *testing.T) {
		tab := NewStore(newStub()).Table("owns")
		tab.Set("a", 1)
		tab.Set("b", 2)
		tab.Clear()
		if len(tab.All()) != 0 {
			t.Error("table not empty after Clear")
		}
	})

	t.Run("tables are shared by name", func(t *testing.T) {
		store := NewStore(newStub())
		store.Table("owns").Set("k", "v")
		var v string
		if !store.Table("owns").Get("k", &v) || v != "v" {
			t.Error("second Table() handle does not share state")
		}
	})

	t.Run("existing blob is loaded at construction", func(t *testing.T) {
		b := newStub()
		b.tables["owns"] = Blob{"k": json.RawMessage(`"v"`)}
		var v string
		if !NewStore(b).Table("owns").Get("k", &v) || v != "v" {
			t.Error("persisted value not loaded")
		}
	})
}
