package main

import (
	"github.com/aquilax/guestbook/comment"
	"github.com/aquilax/guestbook/storage"
)

// Ownership keeps the uuid to own-token map proving which comments this
// client created. The server re-validates the token on every mutation;
// this map only gates the client UI and remembers the credential.
type Ownership struct {
	table *storage.Table
}

func NewOwnership(table *storage.Table) *Ownership {
	return &Ownership{table: table}
}

func (o *Ownership) Owns(id comment.UUID) bool {
	return o.table.Has(id)
}

// Token returns the own token for the given comment, empty when this
// client did not create it.
func (o *Ownership) Token(id comment.UUID) string {
	var own string
	o.table.Get(id, &own)
	return own
}

func (o *Ownership) Grant(id comment.UUID, own string) {
	o.table.Set(id, own)
}

func (o *Ownership) Revoke(id comment.UUID) {
	o.table.Unset(id)
}

// CanModify reports whether the current client may edit or delete the
// comment: it authored it, or it is a moderator session.
func (o *Ownership) CanModify(id comment.UUID, admin bool) bool {
	return admin || o.Owns(id)
}
