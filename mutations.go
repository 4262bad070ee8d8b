package main

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/aquilax/guestbook/comment"
)

// ValidationErrors carries client-side field check failures. They are
// surfaced to the user and the call never reaches the network.
type ValidationErrors []string

func (v ValidationErrors) Error() string {
	return strings.Join(v, "; ")
}

func (e *Engine) langQuery() string {
	return "?lang=" + url.QueryEscape(e.lang)
}

// Send posts a new top-level comment (parent == "") or a reply. On
// success the ownership token is recorded; a top-level post re-runs the
// full cycle while a reply patches only its parent's subtree.
func (e *Engine) Send(ctx context.Context, parent comment.UUID) (*comment.Comment, error) {
	form := e.session.Form(parent)
	main := e.session.Form(mainForm)

	name := strings.TrimSpace(main.Name)
	if name == "" {
		return nil, ValidationErrors{e.ln.Lang("Name cannot be empty.")}
	}

	presence := main.Presence
	if parent == mainForm && presence == comment.PresenceUnknown && !e.session.IsAdmin() {
		return nil, ValidationErrors{e.ln.Lang("Please select your attendance status.")}
	}

	gifOpen := e.gifs.IsOpen(parent)
	gifID := e.gifs.ResultID(parent)
	if gifOpen && gifID == "" {
		return nil, ValidationErrors{e.ln.Lang("Gif cannot be empty.")}
	}
	if !gifOpen && form.Empty() {
		return nil, ValidationErrors{e.ln.Lang("Comments cannot be empty.")}
	}

	if !e.guard.Begin("post:" + parent) {
		return nil, ValidationErrors{e.ln.Lang("Please wait before posting again.")}
	}
	defer e.guard.End("post:" + parent)

	if parent != mainForm {
		e.renderer.SetBusy(parent, true)
		defer e.renderer.SetBusy(parent, false)
	}

	attending := presence.Attending()
	req := comment.PostRequest{
		Name:     name,
		Presence: &attending,
	}
	if parent != mainForm {
		p := parent
		req.ParentUUID = &p
	}
	if gifOpen {
		req.GifID = &gifID
	} else {
		text := form.Text
		req.Comment = &text
	}

	var res comment.ItemResponse
	err := e.client.NewRequest(http.MethodPost, "/api/v2/comment"+e.langQuery()).
		Token(e.session.Token()).
		Body(req).
		Send(ctx, &res)
	if err != nil {
		return nil, err
	}

	created := res.Data
	e.owns.Grant(created.UUID, created.Own)
	if parent == mainForm {
		e.session.Remember(name, presence)
	} else {
		e.session.Remember(name, comment.PresenceUnknown)
	}
	if gifOpen {
		e.gifs.Clear(parent)
	}
	form.Text = ""

	if parent == mainForm {
		// brand-new top-level post re-runs the whole cycle
		if _, err := e.Show(ctx); err != nil {
			return created, err
		}
		return created, nil
	}

	created.IsParent = false
	created.IsAdmin = e.session.IsAdmin()

	// answering under a collapsed batch reveals the existing siblings
	// before the new reply lands
	if !e.vis.IsExpanded(parent) && len(e.vis.Group(parent)) > 0 {
		e.Toggle(parent)
	}
	e.vis.AddReply(parent, created.UUID)
	if node := comment.Find(e.current, parent); node != nil {
		node.Comments = append(node.Comments, created)
	}
	e.session.CloseForm(parent)
	e.renderer.CloseForm(parent)
	e.renderer.AppendReply(parent, created)
	e.renderer.SetToggle(parent, true, len(e.vis.Group(parent)))

	e.likes.Bind(created.UUID)
	e.lastRender = append(e.lastRender, created.UUID)

	return created, nil
}

// Update saves an open edit form. Saving text identical to the opening
// snapshot with unchanged presence closes the form without a network
// call.
func (e *Engine) Update(ctx context.Context, id comment.UUID) error {
	node := comment.Find(e.current, id)
	if node == nil {
		return ValidationErrors{"Comment not found."}
	}
	form := e.session.Form(id)
	gifOpen := e.gifs.IsOpen(id)
	gifID := e.gifs.ResultID(id)

	// presence is editable only on the guest's own top-level comment
	hasPresence := node.IsParent && !e.session.IsAdmin()

	if !gifOpen && !form.Dirty() && (!hasPresence || form.Presence == node.Presence) {
		e.session.CloseForm(id)
		e.renderer.CloseForm(id)
		return nil
	}

	if gifOpen && gifID == "" {
		return ValidationErrors{e.ln.Lang("Gif cannot be empty.")}
	}
	if !gifOpen && form.Empty() {
		return ValidationErrors{e.ln.Lang("Comments cannot be empty.")}
	}

	if !e.guard.Begin("update:" + id) {
		return ValidationErrors{e.ln.Lang("Please wait before posting again.")}
	}
	defer e.guard.End("update:" + id)

	e.renderer.SetBusy(id, true)
	defer e.renderer.SetBusy(id, false)

	req := comment.UpdateRequest{}
	if hasPresence {
		attending := form.Presence.Attending()
		req.Presence = &attending
	}
	if gifOpen {
		req.GifID = &gifID
	} else {
		text := form.Text
		req.Comment = &text
	}

	var res comment.StatusResponse
	err := e.client.NewRequest(http.MethodPut, "/api/comment/"+e.owns.Token(id)+e.langQuery()).
		Token(e.session.Token()).
		Body(req).
		Send(ctx, &res)
	if err != nil {
		return err
	}
	if !res.Data.Status {
		return nil
	}

	if gifOpen {
		e.gifs.Clear(id)
	} else {
		node.Comment = form.Text
		form.Original = snapshot(form.Text)
		e.renderer.SetContent(id, renderText(form.Text))
	}

	if hasPresence {
		node.Presence = form.Presence
		e.session.Remember(e.session.Name(), form.Presence)
		e.renderer.SetPresence(id, form.Presence.Attending())
	}

	e.session.CloseForm(id)
	e.renderer.CloseForm(id)
	return nil
}

// Remove deletes a comment after explicit confirmation. A delete the
// server refuses leaves the row in place with its controls restored.
func (e *Engine) Remove(ctx context.Context, id comment.UUID) error {
	node := comment.Find(e.current, id)
	if node == nil {
		return ValidationErrors{"Comment not found."}
	}
	if !e.owns.CanModify(id, e.session.IsAdmin()) {
		return ValidationErrors{"You can only delete your own comment."}
	}
	if e.confirm != nil && !e.confirm(e.ln.Lang("Are you sure?")) {
		return nil
	}

	// the moderator path carries the token on the node itself
	if e.session.IsAdmin() && node.Own != "" {
		e.owns.Grant(id, node.Own)
	}

	if !e.guard.Begin("remove:" + id) {
		return ValidationErrors{e.ln.Lang("Please wait before posting again.")}
	}
	defer e.guard.End("remove:" + id)

	e.renderer.SetBusy(id, true)

	var res comment.StatusResponse
	err := e.client.NewRequest(http.MethodDelete, "/api/comment/"+e.owns.Token(id)).
		Token(e.session.Token()).
		Send(ctx, &res)
	if err != nil {
		e.renderer.SetBusy(id, false)
		return err
	}
	if !res.Data.Status {
		e.renderer.SetBusy(id, false)
		return nil
	}

	for parent, remaining := range e.vis.Remove(id) {
		e.renderer.SetToggle(parent, remaining > 0 && e.vis.IsExpanded(parent), remaining)
	}
	e.owns.Revoke(id)
	e.likes.Unbind(id)
	for i, rendered := range e.lastRender {
		if rendered == id {
			e.lastRender = append(e.lastRender[:i], e.lastRender[i+1:]...)
			break
		}
	}
	comment.Remove(&e.current, id)
	e.renderer.Remove(id)

	if len(e.current) == 0 {
		e.renderer.Empty()
	}
	return nil
}

// Reply opens a fresh reply form under the given comment.
func (e *Engine) Reply(id comment.UUID) {
	form := e.session.Form(id)
	form.Text = ""
	form.Original = snapshot("")
	e.renderer.OpenForm(id, false)
}

// Edit opens the edit form pre-filled with the comment's current text
// and takes the snapshot used by the no-op short circuit.
func (e *Engine) Edit(id comment.UUID) error {
	node := comment.Find(e.current, id)
	if node == nil {
		return ValidationErrors{"Comment not found."}
	}
	if !e.owns.CanModify(id, e.session.IsAdmin()) {
		return ValidationErrors{"You can only edit your own comment."}
	}
	if e.session.IsAdmin() && node.Own != "" {
		e.owns.Grant(id, node.Own)
	}

	form := e.session.Form(id)
	form.Text = node.Comment
	form.Original = snapshot(node.Comment)
	form.Presence = node.Presence
	e.renderer.OpenForm(id, true)
	return nil
}

// Cancel closes an open inner form, asking for confirmation when the
// form diverged from its snapshot.
func (e *Engine) Cancel(id comment.UUID) {
	if !e.session.HasForm(id) {
		return
	}
	form := e.session.Form(id)

	if e.gifs.IsOpen(id) && e.gifs.ResultID(id) == "" {
		e.gifs.Clear(id)
		e.session.CloseForm(id)
		e.renderer.CloseForm(id)
		return
	}

	unchanged := form.Empty() || !form.Dirty()
	if unchanged || e.confirm == nil || e.confirm(e.ln.Lang("Are you sure?")) {
		e.session.CloseForm(id)
		e.renderer.CloseForm(id)
	}
}
