package main

import (
	"fmt"
	"strings"
	"sync"

	"github.com/aquilax/guestbook/comment"
)

// maxCommentLength is where a long comment body gets truncated behind
// a read-more control.
const maxCommentLength = 250

type card struct {
	c         *comment.Comment
	body      string
	short     string
	truncated bool
	expanded  bool
	collapsed bool
	busy      bool
	location  string
	formOpen  bool
	formEdit  bool
	toggled   bool
	replies   int
	children  []comment.UUID
}

// CardRenderer is the default Renderer: it keeps an in-memory card per
// comment and assembles the page as HTML-flavoured text. The engine
// only writes to it; nothing reads back into engine state.
type CardRenderer struct {
	mu      sync.Mutex
	ln      *Language
	cards   map[comment.UUID]*card
	order   []comment.UUID
	loading int
	empty   bool
	end     bool
}

func NewCardRenderer(ln *Language) *CardRenderer {
	return &CardRenderer{
		ln:    ln,
		cards: make(map[comment.UUID]*card),
	}
}

func (r *CardRenderer) Loading(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loading = n
	r.empty = false
}

func (r *CardRenderer) Empty() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cards = make(map[comment.UUID]*card)
	r.order = nil
	r.loading = 0
	r.empty = true
}

func (r *CardRenderer) Page(lists []*comment.Comment, end bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cards = make(map[comment.UUID]*card)
	r.order = nil
	r.loading = 0
	r.empty = false
	r.end = end
	for _, c := range lists {
		r.order = append(r.order, c.UUID)
		r.register(c)
	}
}

func (r *CardRenderer) register(c *comment.Comment) {
	cc := &card{
		c:       c,
		replies: len(c.Comments),
	}
	cc.setComment(c.Comment)
	for _, child := range c.Comments {
		cc.children = append(cc.children, child.UUID)
		r.register(child)
	}
	r.cards[c.UUID] = cc
}

func (r *CardRenderer) AppendReply(parent comment.UUID, c *comment.Comment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.register(c)
	if p, ok := r.cards[parent]; ok {
		p.children = append(p.children, c.UUID)
		p.replies = len(p.children)
	}
}

func (r *CardRenderer) Remove(id comment.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.cards, id)
	for _, cc := range r.cards {
		for i, child := range cc.children {
			if child == id {
				cc.children = append(cc.children[:i], cc.children[i+1:]...)
				cc.replies = len(cc.children)
				break
			}
		}
	}
	for i, top := range r.order {
		if top == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *CardRenderer) SetCollapsed(id comment.UUID, collapsed bool) {
	r.with(id, func(c *card) { c.collapsed = collapsed })
}

func (r *CardRenderer) SetToggle(parent comment.UUID, shown bool, count int) {
	r.with(parent, func(c *card) {
		c.toggled = shown
		c.replies = count
	})
}

func (r *CardRenderer) SetContent(id comment.UUID, html string) {
	r.with(id, func(c *card) {
		c.setComment(c.c.Comment)
		c.body = html
		c.expanded = false
	})
}

// setComment derives the full and the truncated body. Truncation cuts
// the raw comment text on a rune boundary before rendering, never the
// produced markup.
func (c *card) setComment(text string) {
	c.body = renderText(text)
	runes := []rune(text)
	c.truncated = len(runes) > maxCommentLength
	if c.truncated {
		c.short = renderText(string(runes[:maxCommentLength]) + "...")
	} else {
		c.short = ""
	}
}

func (r *CardRenderer) SetPresence(id comment.UUID, attending bool) {
	r.with(id, func(c *card) {
		if attending {
			c.c.Presence = comment.PresenceAttending
		} else {
			c.c.Presence = comment.PresenceAbsent
		}
	})
}

func (r *CardRenderer) SetLocation(id comment.UUID, location string) {
	r.with(id, func(c *card) { c.location = location })
}

func (r *CardRenderer) SetBusy(id comment.UUID, busy bool) {
	r.with(id, func(c *card) { c.busy = busy })
}

func (r *CardRenderer) OpenForm(id comment.UUID, edit bool) {
	r.with(id, func(c *card) {
		c.formOpen = true
		c.formEdit = edit
	})
}

func (r *CardRenderer) CloseForm(id comment.UUID) {
	r.with(id, func(c *card) { c.formOpen = false })
}

// ShowMore expands or re-truncates one long comment body.
func (r *CardRenderer) ShowMore(id comment.UUID) {
	r.with(id, func(c *card) { c.expanded = !c.expanded })
}

func (r *CardRenderer) with(id comment.UUID, fn func(*card)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.cards[id]; ok {
		fn(c)
	}
}

// HTML assembles the current surface.
func (r *CardRenderer) HTML() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var b strings.Builder
	if r.loading > 0 {
		for i := 0; i < r.loading; i++ {
			b.WriteString("<div class=\"card placeholder\"></div>\n")
		}
		return b.String()
	}
	if r.empty {
		b.WriteString("<div class=\"card empty\">" + r.ln.Lang("Let's share this invitation to get more comments!") + "</div>\n")
		return b.String()
	}
	for _, id := range r.order {
		r.writeCard(&b, id, 0)
	}
	if r.end {
		b.WriteString("<div class=\"card empty\">" + r.ln.Lang("Let's share this invitation to get more comments!") + "</div>\n")
	}
	return b.String()
}

func (r *CardRenderer) writeCard(b *strings.Builder, id comment.UUID, depth int) {
	c, ok := r.cards[id]
	if !ok {
		return
	}
	indent := strings.Repeat("  ", depth)
	trip := getTripCode(c.c.Name)

	fmt.Fprintf(b, "%s<div class=\"card\" id=\"%s\">\n", indent, id)
	fmt.Fprintf(b, "%s  <img class=\"avatar\" src=%q>\n", indent, hfGravatar(trip))
	fmt.Fprintf(b, "%s  <a name=%q>%s</a> %s\n", indent, hfAnchor(c.c.Name), c.c.Name, presenceBadge(c.c))
	if c.location != "" || c.c.IP != "" {
		fmt.Fprintf(b, "%s  <span class=\"ip\" id=\"ip-%s\">%s %s</span>\n", indent, id, c.c.IP, c.location)
	}
	body := c.body
	if c.truncated && !c.expanded {
		body = c.short
	}
	fmt.Fprintf(b, "%s  <div class=\"content\" id=\"content-%s\">%s</div>\n", indent, id, body)
	if c.busy {
		fmt.Fprintf(b, "%s  <span class=\"busy\"></span>\n", indent)
	}
	if c.formOpen {
		kind := "reply"
		if c.formEdit {
			kind = "edit"
		}
		fmt.Fprintf(b, "%s  <form class=%q id=\"inner-%s\"></form>\n", indent, kind, id)
	}
	if c.replies > 0 {
		if c.toggled {
			fmt.Fprintf(b, "%s  <a class=\"toggle\">%s</a>\n", indent, r.ln.Lang("Hide replies"))
		} else {
			fmt.Fprintf(b, "%s  <a class=\"toggle\">%s (%d)</a>\n", indent, r.ln.Lang("Show replies"), c.replies)
		}
	}
	for _, child := range c.children {
		if cc, ok := r.cards[child]; ok && cc.collapsed {
			continue
		}
		r.writeCard(b, child, depth+1)
	}
	fmt.Fprintf(b, "%s</div>\n", indent)
}

func presenceBadge(c *comment.Comment) string {
	switch c.Presence {
	case comment.PresenceAttending:
		return "✅"
	case comment.PresenceAbsent:
		return "❌"
	default:
		return ""
	}
}
