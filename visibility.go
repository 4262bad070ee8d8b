package main

import (
	"github.com/aquilax/guestbook/comment"
	"github.com/aquilax/guestbook/storage"
)

// HideRecord is the persisted per-node flag controlling whether that
// node renders expanded inside its parent's reply group.
type HideRecord struct {
	UUID comment.UUID `json:"uuid"`
	Show bool         `json:"show"`
}

// Visibility decides which reply subtrees render collapsed, consistent
// with the persisted user choices, and owns the parent to direct-child
// group mapping for every rendered reply batch. None of its operations
// touch the network; storage failures are swallowed by the table.
type Visibility struct {
	table  *storage.Table
	groups map[comment.UUID][]comment.UUID
}

func NewVisibility(table *storage.Table) *Visibility {
	v := &Visibility{
		table:  table,
		groups: make(map[comment.UUID][]comment.UUID),
	}
	if !table.Has("hidden") {
		table.Set("hidden", []HideRecord{})
	}
	if !table.Has("show") {
		table.Set("show", []comment.UUID{})
	}
	return v
}

// Hidden returns the persisted hide records.
func (v *Visibility) Hidden() []HideRecord {
	var hidden []HideRecord
	v.table.Get("hidden", &hidden)
	return hidden
}

// Shown returns the persisted set of explicitly expanded node ids.
func (v *Visibility) Shown() []comment.UUID {
	var show []comment.UUID
	v.table.Get("show", &show)
	return show
}

// Resolve walks a freshly fetched page: every node gets a hide record
// unless already tracked (buildHide), then every direct child of an
// explicitly expanded node is flagged visible (setVisible). The updated
// records are persisted and the reply groups rebuilt for this page.
func (v *Visibility) Resolve(lists []*comment.Comment) []HideRecord {
	hidden := v.Hidden()
	index := make(map[comment.UUID]int, len(hidden))
	for i, h := range hidden {
		index[h.UUID] = i
	}

	var buildHide func(lists []*comment.Comment)
	buildHide = func(lists []*comment.Comment) {
		for _, item := range lists {
			if _, tracked := index[item.UUID]; !tracked {
				index[item.UUID] = len(hidden)
				hidden = append(hidden, HideRecord{UUID: item.UUID})
			}
			buildHide(item.Comments)
		}
	}

	shown := make(map[comment.UUID]bool)
	for _, id := range v.Shown() {
		shown[id] = true
	}

	var setVisible func(lists []*comment.Comment)
	setVisible = func(lists []*comment.Comment) {
		for _, item := range lists {
			if shown[item.UUID] {
				for _, child := range item.Comments {
					if i, ok := index[child.UUID]; ok {
						hidden[i].Show = true
					}
				}
			}
			setVisible(item.Comments)
		}
	}

	buildHide(lists)
	setVisible(lists)
	v.table.Set("hidden", hidden)

	v.groups = make(map[comment.UUID][]comment.UUID)
	v.collectGroups(lists)

	return hidden
}

func (v *Visibility) collectGroups(lists []*comment.Comment) {
	for _, item := range lists {
		if len(item.Comments) > 0 {
			ids := make([]comment.UUID, 0, len(item.Comments))
			for _, child := range item.Comments {
				ids = append(ids, child.UUID)
			}
			v.groups[item.UUID] = ids
		}
		v.collectGroups(item.Comments)
	}
}

// IsShown reports the current hide-record state for a node.
func (v *Visibility) IsShown(id comment.UUID) bool {
	for _, h := range v.Hidden() {
		if h.UUID == id {
			return h.Show
		}
	}
	return false
}

// IsExpanded reports whether the user explicitly expanded the node's
// replies.
func (v *Visibility) IsExpanded(id comment.UUID) bool {
	for _, s := range v.Shown() {
		if s == id {
			return true
		}
	}
	return false
}

// Group returns the ordered direct-child uuids of one rendered parent.
func (v *Visibility) Group(parent comment.UUID) []comment.UUID {
	ids := v.groups[parent]
	out := make([]comment.UUID, len(ids))
	copy(out, ids)
	return out
}

// IsReply reports whether the node belongs to some parent's group on
// the current page.
func (v *Visibility) IsReply(id comment.UUID) bool {
	for _, ids := range v.groups {
		for _, child := range ids {
			if child == id {
				return true
			}
		}
	}
	return false
}

// Toggle flips one sibling batch of replies. It updates the persisted
// show set for the parent and the hide record of every child, and
// returns the new state with the affected ids so the renderer can apply
// it. Toggling twice restores both persisted sets exactly.
func (v *Visibility) Toggle(parent comment.UUID) (bool, []comment.UUID) {
	ids := v.Group(parent)
	if len(ids) == 0 {
		return false, nil
	}
	wasShown := v.IsExpanded(parent)

	show := v.Shown()
	if wasShown {
		kept := show[:0]
		for _, s := range show {
			if s != parent {
				kept = append(kept, s)
			}
		}
		show = kept
	} else {
		show = append(show, parent)
	}
	v.table.Set("show", show)

	batch := make(map[comment.UUID]bool, len(ids))
	for _, id := range ids {
		batch[id] = true
	}
	hidden := v.Hidden()
	for i := range hidden {
		if batch[hidden[i].UUID] {
			hidden[i].Show = !wasShown
		}
	}
	v.table.Set("hidden", hidden)

	return !wasShown, ids
}

// AddReply registers a freshly created reply: its record starts
// visible, its parent joins the show set and the sibling group grows.
func (v *Visibility) AddReply(parent, child comment.UUID) {
	hidden := append(v.Hidden(), HideRecord{UUID: child, Show: true})
	v.table.Set("hidden", hidden)

	if !v.IsExpanded(parent) {
		v.table.Set("show", append(v.Shown(), parent))
	}
	v.groups[parent] = append(v.groups[parent], child)
}

// Remove drops a deleted comment from every reply group. It returns
// the affected parents with their remaining group size; a parent at
// zero must lose its toggle control instead of leaving it dangling.
func (v *Visibility) Remove(id comment.UUID) map[comment.UUID]int {
	affected := make(map[comment.UUID]int)
	for parent, ids := range v.groups {
		kept := ids[:0]
		for _, child := range ids {
			if child != id {
				kept = append(kept, child)
			}
		}
		if len(kept) == len(ids) {
			continue
		}
		affected[parent] = len(kept)
		if len(kept) == 0 {
			delete(v.groups, parent)
			continue
		}
		v.groups[parent] = kept
	}
	delete(v.groups, id)
	return affected
}
