package comment

import (
	"fmt"
)

type UUID = string

// Presence is the RSVP state attached to a top-level comment.
type Presence int

const (
	PresenceUnknown Presence = iota
	PresenceAttending
	PresenceAbsent
)

func (p Presence) Attending() bool {
	return p == PresenceAttending
}

// PresenceFromBool maps the wire representation (bool or null) back to
// the tri-state.
func PresenceFromBool(b *bool) Presence {
	if b == nil {
		return PresenceUnknown
	}
	if *b {
		return PresenceAttending
	}
	return PresenceAbsent
}

// Comment is a single node of the guestbook tree. Comments holds the
// direct replies in insertion order.
type Comment struct {
	UUID      UUID       `json:"uuid"`
	Own       string     `json:"own,omitempty"`
	Name      string     `json:"name"`
	Comment   string     `json:"comment"`
	GifURL    string     `json:"gif_url,omitempty"`
	Presence  Presence   `json:"presence"`
	IsAdmin   bool       `json:"is_admin"`
	IsParent  bool       `json:"is_parent"`
	IP        string     `json:"ip,omitempty"`
	UserAgent string     `json:"user_agent,omitempty"`
	CreatedAt string     `json:"created_at,omitempty"`
	Comments  []*Comment `json:"comments"`
}

// Find returns the node with the given uuid anywhere in the tree.
func Find(lists []*Comment, id UUID) *Comment {
	for _, c := range lists {
		if c.UUID == id {
			return c
		}
		if found := Find(c.Comments, id); found != nil {
			return found
		}
	}
	return nil
}

// Flatten lists every uuid depth first, each node before its replies.
func Flatten(lists []*Comment) []UUID {
	var ids []UUID
	for _, c := range lists {
		ids = append(ids, c.UUID)
		ids = append(ids, Flatten(c.Comments)...)
	}
	return ids
}

// Remove drops the node with the given uuid from the tree and reports
// whether it was found.
func Remove(lists *[]*Comment, id UUID) bool {
	for i, c := range *lists {
		if c.UUID == id {
			*lists = append((*lists)[:i], (*lists)[i+1:]...)
			return true
		}
		if Remove(&c.Comments, id) {
			return true
		}
	}
	return false
}

// Wire shapes. Every response type validates itself before the request
// layer hands it to the caller.

type ListData struct {
	Lists []*Comment `json:"lists"`
	Count int        `json:"count"`
}

type ListResponse struct {
	Data ListData `json:"data"`
}

func (r *ListResponse) Validate() error {
	if r.Data.Count < 0 {
		return fmt.Errorf("comment list count is negative: %d", r.Data.Count)
	}
	if r.Data.Lists == nil {
		r.Data.Lists = []*Comment{}
	}
	return nil
}

type ItemResponse struct {
	Data *Comment `json:"data"`
}

func (r *ItemResponse) Validate() error {
	if r.Data == nil {
		return fmt.Errorf("comment response has no data")
	}
	if r.Data.UUID == "" {
		return fmt.Errorf("comment response has no uuid")
	}
	return nil
}

type StatusData struct {
	Status bool `json:"status"`
}

type StatusResponse struct {
	Data StatusData `json:"data"`
}

func (r *StatusResponse) Validate() error {
	return nil
}

type PostRequest struct {
	ParentUUID *UUID   `json:"parent_uuid"`
	Name       string  `json:"name"`
	Presence   *bool   `json:"presence"`
	Comment    *string `json:"comment"`
	GifID      *string `json:"gif_id"`
}

type UpdateRequest struct {
	Presence *bool   `json:"presence"`
	Comment  *string `json:"comment"`
	GifID    *string `json:"gif_id"`
}
