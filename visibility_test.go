package main

import (
	"reflect"
	"testing"

	"github.com/aquilax/guestbook/comment"
	"github.com/aquilax/guestbook/storage"
	"github.com/aquilax/guestbook/storage/memory"
)

func newTestTable(t *testing.T, name string) *storage.Table {
	t.Helper()
	return storage.NewStore(memory.New()).Table(name)
}

func tree(uuid comment.UUID, children ...*comment.Comment) *comment.Comment {
	return &comment.Comment{UUID: uuid, Comments: children}
}

func TestVisibilityResolve(t *testing.T) {
	t.Run("untracked nodes default collapsed", func(t *testing.T) {
		v := NewVisibility(newTestTable(t, "comment"))
		hidden := v.Resolve([]*comment.Comment{
			tree("a", tree("a1"), tree("a2")),
			tree("b"),
		})
		if len(hidden) != 4 {
			t.Fatalf("got %d records, want 4", len(hidden))
		}
		for _, h := range hidden {
			if h.Show {
				t.Errorf("node %s starts visible, want collapsed", h.UUID)
			}
		}
	})

	t.Run("expanded parent reveals direct children only", func(t *testing.T) {
		table := newTestTable(t, "comment")
		table.Set("show", []comment.UUID{"a"})
		v := NewVisibility(table)

		v.Resolve([]*comment.Comment{
			tree("a", tree("a1", tree("a1x")), tree("a2")),
		})

		if !v.IsShown("a1") || !v.IsShown("a2") {
			t.Error("direct children of an expanded parent stay hidden")
		}
		if v.IsShown("a1x") {
			t.Error("grandchild revealed without its own parent expanded")
		}
	})

	t.Run("tracked records survive a refetch", func(t *testing.T) {
		v := NewVisibility(newTestTable(t, "comment"))
		page := []*comment.Comment{tree("a", tree("a1"))}
		v.Resolve(page)
		v.Toggle("a")
		hidden := v.Resolve(page)
		if len(hidden) != 2 {
			t.Fatalf("got %d records, want 2", len(hidden))
		}
		if !v.IsShown("a1") {
			t.Error("toggled-open child lost its state on refetch")
		}
	})

	t.Run("groups map parents to direct children", func(t *testing.T) {
		v := NewVisibility(newTestTable(t, "comment"))
		v.Resolve([]*comment.Comment{
			tree("a", tree("a1", tree("a1x")), tree("a2")),
			tree("b"),
		})
		if got := v.Group("a"); !reflect.DeepEqual(got, []comment.UUID{"a1", "a2"}) {
			t.Errorf("Group(a) = %v", got)
		}
		if got := v.Group("b"); len(got) != 0 {
			t.Errorf("Group(b) = %v, want empty", got)
		}
		if !v.IsReply("a1x") || v.IsReply("a") {
			t.Error("IsReply misclassifies nodes")
		}
	})
}

func TestVisibilityToggle(t *testing.T) {
	page := []*comment.Comment{tree("a", tree("a1"), tree("a2"))}

	t.Run("double toggle restores persisted state", func(t *testing.T) {
		table := newTestTable(t, "comment")
		v := NewVisibility(table)
		v.Resolve(page)

		wantHidden := v.Hidden()
		wantShow := v.Shown()

		shown, ids := v.Toggle("a")
		if !shown || !reflect.DeepEqual(ids, []comment.UUID{"a1", "a2"}) {
			t.Fatalf("Toggle = %v, %v", shown, ids)
		}
		if !v.IsExpanded("a") || !v.IsShown("a1") {
			t.Error("first toggle did not expand")
		}

		shown, _ = v.Toggle("a")
		if shown {
			t.Error("second toggle still reports shown")
		}
		if !reflect.DeepEqual(v.Hidden(), wantHidden) {
			t.Errorf("hidden = %v, want %v", v.Hidden(), wantHidden)
		}
		if !reflect.DeepEqual(v.Shown(), wantShow) {
			t.Errorf("show = %v, want %v", v.Shown(), wantShow)
		}
	})

	t.Run("toggle without a group is a no-op", func(t *testing.T) {
		v := NewVisibility(newTestTable(t, "comment"))
		v.Resolve(page)
		if shown, ids := v.Toggle("missing"); shown || ids != nil {
			t.Errorf("Toggle(missing) = %v, %v", shown, ids)
		}
	})
}

func TestVisibilityAddReply(t *testing.T) {
	v := NewVisibility(newTestTable(t, "comment"))
	v.Resolve([]*comment.Comment{tree("a", tree("a1"))})

	v.AddReply("a", "a2")

	if !v.IsShown("a2") {
		t.Error("new reply starts hidden")
	}
	if !v.IsExpanded("a") {
		t.Error("parent of new reply not expanded")
	}
	if got := v.Group("a"); !reflect.DeepEqual(got, []comment.UUID{"a1", "a2"}) {
		t.Errorf("Group(a) = %v", got)
	}

	// adding a second reply must not duplicate the parent in the show set
	v.AddReply("a", "a3")
	if got := len(v.Shown()); got != 1 {
		t.Errorf("show set has %d entries, want 1", got)
	}
}

func TestVisibilityRemove(t *testing.T) {
	v := NewVisibility(newTestTable(t, "comment"))
	v.Resolve([]*comment.Comment{
		tree("a", tree("a1"), tree("a2")),
		tree("b", tree("b1")),
	})

	if got := v.Remove("a1"); !reflect.DeepEqual(got, map[comment.UUID]int{"a": 1}) {
		t.Errorf("Remove(a1) = %v", got)
	}
	if got := v.Group("a"); !reflect.DeepEqual(got, []comment.UUID{"a2"}) {
		t.Errorf("Group(a) = %v", got)
	}

	// removing the last reply empties the group so the toggle goes away
	if got := v.Remove("b1"); !reflect.DeepEqual(got, map[comment.UUID]int{"b": 0}) {
		t.Errorf("Remove(b1) = %v", got)
	}
	if v.IsReply("b1") {
		t.Error("removed node still classified as a reply")
	}

	if got := v.Remove("unknown"); len(got) != 0 {
		t.Errorf("Remove(unknown) = %v, want empty", got)
	}
}
