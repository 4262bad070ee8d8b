package main

import (
	"context"
	"net/http"

	"github.com/aquilax/guestbook/comment"
	"github.com/aquilax/guestbook/request"
	"github.com/aquilax/guestbook/storage"
)

// Engine orchestrates the fetch/render cycle and the mutation flows,
// keeping the in-memory page, the rendering surface and the persisted
// visibility/ownership records synchronized.
type Engine struct {
	client   *request.Client
	session  *Session
	vis      *Visibility
	owns     *Ownership
	pager    *Pager
	guard    *SubmitGuard
	tracker  *Tracker
	renderer Renderer
	likes    LikeBinder
	gifs     GifPicker
	ln       *Language
	lang     string

	// confirm asks the user before destructive actions; nil skips the
	// question.
	confirm func(message string) bool

	// lastRender lists every uuid with an attached like listener.
	lastRender []comment.UUID
	// current is the page rendered by the last cycle, patched in place
	// by the mutation flows.
	current []*comment.Comment
	// loading is the advisory refresh guard. It is read-then-write on
	// purpose: overlapping refreshes are discouraged, not prevented.
	loading bool

	cancelTracker context.CancelFunc

	onResult []func(*comment.ListData)
	onDone   []func(*comment.ListData)
}

func NewEngine(cfg *Config, client *request.Client, session *Session, store *storage.Store, renderer Renderer) *Engine {
	return &Engine{
		client:   client,
		session:  session,
		vis:      NewVisibility(store.Table("comment")),
		owns:     NewOwnership(store.Table("owns")),
		pager:    NewPager(cfg.PerPage),
		guard:    NewSubmitGuard(cfg.PostBlockExpire),
		tracker:  NewTracker(client, renderer, cfg.TrackerURL),
		renderer: renderer,
		likes:    noopLikes{},
		gifs:     noopGifs{},
		ln:       NewTransPool().Get(cfg.Language),
		lang:     cfg.Language,
	}
}

func (e *Engine) SetLikes(likes LikeBinder) {
	e.likes = likes
}

func (e *Engine) SetGifs(gifs GifPicker) {
	e.gifs = gifs
}

func (e *Engine) SetConfirm(confirm func(message string) bool) {
	e.confirm = confirm
}

// OnResult registers a callback fired after the page is rendered,
// before the admin enrichment runs.
func (e *Engine) OnResult(fn func(*comment.ListData)) {
	e.onResult = append(e.onResult, fn)
}

// OnDone registers a callback fired after the pagination total update.
func (e *Engine) OnDone(fn func(*comment.ListData)) {
	e.onDone = append(e.onDone, fn)
}

func (e *Engine) Visibility() *Visibility {
	return e.vis
}

func (e *Engine) Ownership() *Ownership {
	return e.owns
}

func (e *Engine) Pager() *Pager {
	return e.pager
}

func (e *Engine) LastRender() []comment.UUID {
	out := make([]comment.UUID, len(e.lastRender))
	copy(out, e.lastRender)
	return out
}

// Show runs one full refresh cycle: detach listeners, fetch the whole
// top-level list, slice the next page, resolve visibility against the
// persisted records, render, reattach listeners and notify. The server
// returns the entire tree; pagination is client side over top-level
// items only.
func (e *Engine) Show(ctx context.Context) (*comment.ListData, error) {
	for _, id := range e.lastRender {
		e.likes.Unbind(id)
	}

	if !e.loading {
		e.loading = true
		e.renderer.Loading(e.pager.Per())
	}

	// a superseded refresh's enrichment must not patch fresh markup
	if e.cancelTracker != nil {
		e.cancelTracker()
		e.cancelTracker = nil
	}

	var res comment.ListResponse
	err := e.client.NewRequest(http.MethodGet, "/api/v2/comment").
		Token(e.session.Token()).
		Send(ctx, &res)
	e.loading = false
	if err != nil {
		return nil, err
	}

	full := res.Data.Lists
	if len(full) == 0 {
		e.lastRender = nil
		e.current = nil
		e.renderer.Empty()
		e.dispatchResult(&res.Data)
		e.track(ctx, nil)
		e.pager.SetTotal(res.Data.Count)
		e.dispatchDone(&res.Data)
		return &res.Data, nil
	}

	next := e.pager.Next()
	per := e.pager.Per()
	if next > len(full) {
		next = len(full)
	}
	end := next + per
	if end > len(full) {
		end = len(full)
	}
	paged := full[next:end]

	e.lastRender = comment.Flatten(paged)
	hidden := e.vis.Resolve(paged)
	e.current = paged

	e.renderer.Page(paged, len(paged) < per)

	// apply the resolved decisions to the freshly inserted markup
	for _, rec := range hidden {
		if e.vis.IsReply(rec.UUID) {
			e.renderer.SetCollapsed(rec.UUID, !rec.Show)
		}
	}
	for _, parent := range e.lastRender {
		if group := e.vis.Group(parent); len(group) > 0 {
			e.renderer.SetToggle(parent, e.vis.IsExpanded(parent), len(group))
		}
	}

	for _, id := range e.lastRender {
		e.likes.Bind(id)
	}

	page := &comment.ListData{Lists: paged, Count: res.Data.Count}
	e.dispatchResult(page)
	e.track(ctx, paged)
	e.pager.SetTotal(res.Data.Count)
	e.dispatchDone(page)
	return page, nil
}

// Toggle flips the reply group under one parent and applies the new
// state to the surface.
func (e *Engine) Toggle(parent comment.UUID) {
	shown, ids := e.vis.Toggle(parent)
	if ids == nil {
		return
	}
	for _, id := range ids {
		e.renderer.SetCollapsed(id, !shown)
	}
	e.renderer.SetToggle(parent, shown, len(ids))
}

// track kicks off the geolocation enrichment for the rendered page in
// the background. The cycle that started it keeps the cancel handle, so
// the next refresh invalidates this generation; the handle is released
// once the batch settles.
func (e *Engine) track(ctx context.Context, lists []*comment.Comment) {
	if !e.session.IsAdmin() {
		return
	}
	tctx, cancel := context.WithCancel(ctx)
	e.cancelTracker = cancel
	go func() {
		defer cancel()
		e.tracker.Track(tctx, lists)
	}()
}

func (e *Engine) dispatchResult(data *comment.ListData) {
	for _, fn := range e.onResult {
		fn(data)
	}
}

func (e *Engine) dispatchDone(data *comment.ListData) {
	for _, fn := range e.onDone {
		fn(data)
	}
}
