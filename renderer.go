package main

import (
	"github.com/aquilax/guestbook/comment"
)

// Renderer is the rendering collaborator. The engine reports state
// decisions through it and never reads anything back.
type Renderer interface {
	// Loading renders n placeholder skeleton rows.
	Loading(n int)
	// Empty renders the no-comments call to action.
	Empty()
	// Page replaces the surface with one page of top-level comments.
	// end marks a short page, which appends the end-of-list placeholder.
	Page(lists []*comment.Comment, end bool)
	// AppendReply inserts a new reply under its parent card.
	AppendReply(parent comment.UUID, c *comment.Comment)
	// Remove deletes one card and its subtree.
	Remove(id comment.UUID)
	// SetCollapsed applies a reply's hide-record decision.
	SetCollapsed(id comment.UUID, collapsed bool)
	// SetToggle updates a parent's show/hide reply control; a zero
	// count removes the control instead of leaving it dangling.
	SetToggle(parent comment.UUID, shown bool, count int)
	// SetContent replaces a card's rendered comment body.
	SetContent(id comment.UUID, html string)
	// SetPresence updates a card's RSVP badge.
	SetPresence(id comment.UUID, attending bool)
	// SetLocation patches a card's IP label with a geolocation result.
	SetLocation(id comment.UUID, location string)
	// SetBusy disables or restores a card's action controls while a
	// mutation is in flight.
	SetBusy(id comment.UUID, busy bool)
	// OpenForm shows the inner reply or edit form under a card.
	OpenForm(id comment.UUID, edit bool)
	// CloseForm removes the inner form and re-enables the card actions.
	CloseForm(id comment.UUID)
}

// LikeBinder is the like-counter collaborator: the engine attaches a
// listener per rendered card and detaches it before a re-render.
type LikeBinder interface {
	Bind(id comment.UUID)
	Unbind(id comment.UUID)
}

// GifPicker is the GIF attachment collaborator, exposing only what the
// mutation flows ask of it.
type GifPicker interface {
	IsOpen(id comment.UUID) bool
	ResultID(id comment.UUID) string
	Clear(id comment.UUID) error
}

// noopLikes satisfies LikeBinder when no like counter is wired.
type noopLikes struct{}

func (noopLikes) Bind(comment.UUID)   {}
func (noopLikes) Unbind(comment.UUID) {}

// noopGifs reports no picker ever open.
type noopGifs struct{}

func (noopGifs) IsOpen(comment.UUID) bool     { return false }
func (noopGifs) ResultID(comment.UUID) string { return "" }
func (noopGifs) Clear(comment.UUID) error     { return nil }
