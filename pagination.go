package main

// Pager tracks the client-side paging cursor over the flat top-level
// comment list. It lives in memory only and resets with the session.
type Pager struct {
	per   int
	next  int
	total int
}

func NewPager(per int) *Pager {
	if per <= 0 {
		per = 10
	}
	return &Pager{per: per}
}

// Per returns the configured page size.
func (p *Pager) Per() int {
	return p.per
}

// Next returns the current offset and advances the cursor by one page.
// The offset never decreases within a session.
func (p *Pager) Next() int {
	next := p.next
	p.next += p.per
	return next
}

// SetTotal records the top-level count reported by the last fetch.
func (p *Pager) SetTotal(total int) {
	p.total = total
}

func (p *Pager) Total() int {
	return p.total
}

// HasMore reports whether another page remains beyond the cursor.
func (p *Pager) HasMore() bool {
	return p.next < p.total
}
