package main

import (
	"strings"

	"github.com/aquilax/guestbook/comment"
	"github.com/aquilax/guestbook/storage"
)

// Session is the per-page-load context threaded through every engine
// operation: the caller token, the admin flag, the persisted guest
// information and the mirrored state of any open comment forms. Form
// values live here, not in the rendering surface, so the engine never
// queries the renderer for facts.
type Session struct {
	token string
	admin bool
	info  *storage.Table
	forms map[comment.UUID]*Form
}

// mainForm keys the top-level comment form.
const mainForm = ""

func NewSession(cfg *Config, info *storage.Table) *Session {
	s := &Session{
		token: cfg.Token,
		admin: cfg.Admin,
		info:  info,
		forms: make(map[comment.UUID]*Form),
	}
	main := s.Form(mainForm)
	main.Name = s.Name()
	main.Presence = s.Presence()
	return s
}

func (s *Session) Token() string {
	return s.token
}

func (s *Session) IsAdmin() bool {
	return s.admin
}

// Name returns the persisted guest name, if any.
func (s *Session) Name() string {
	var name string
	s.info.Get("name", &name)
	return name
}

// Presence returns the persisted RSVP choice of this guest.
func (s *Session) Presence() comment.Presence {
	var attending bool
	if !s.info.Get("presence", &attending) {
		return comment.PresenceUnknown
	}
	if attending {
		return comment.PresenceAttending
	}
	return comment.PresenceAbsent
}

// Remember persists the guest identity after a successful post.
// Moderator sessions post on behalf of the couple and are not
// remembered.
func (s *Session) Remember(name string, presence comment.Presence) {
	if s.admin {
		return
	}
	s.info.Set("name", name)
	if presence != comment.PresenceUnknown {
		s.info.Set("presence", presence.Attending())
	}
}

// Form returns the mirrored state of the form attached to the given
// comment ("" for the top-level form), creating it when absent.
func (s *Session) Form(id comment.UUID) *Form {
	f, ok := s.forms[id]
	if !ok {
		f = &Form{}
		s.forms[id] = f
	}
	return f
}

func (s *Session) HasForm(id comment.UUID) bool {
	_, ok := s.forms[id]
	return ok
}

// CloseForm drops the mirrored state of an inner form. The top-level
// form is never dropped, only cleared.
func (s *Session) CloseForm(id comment.UUID) {
	if id == mainForm {
		s.forms[mainForm].Text = ""
		return
	}
	delete(s.forms, id)
}

// Form mirrors one comment form. Original holds the base64 snapshot
// taken when an edit opened, so a no-op save can short-circuit into a
// cancel without a network call.
type Form struct {
	Name     string
	Text     string
	Original string
	Presence comment.Presence
	GifOpen  bool
	GifID    string
}

// Dirty reports whether the text diverged from the opening snapshot.
func (f *Form) Dirty() bool {
	return snapshot(f.Text) != f.Original
}

// Empty reports whether the form holds no usable content.
func (f *Form) Empty() bool {
	return strings.TrimSpace(f.Text) == ""
}
