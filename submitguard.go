package main

import (
	"sync"
	"time"
)

// SubmitGuard blocks a second submit for the same comment while one is
// already in flight. Entries expire after the configured duration so a
// leaked Begin cannot wedge a form forever.
type SubmitGuard struct {
	duration string
	inflight map[string]time.Time
	mutex    *sync.Mutex
}

func NewSubmitGuard(duration string) *SubmitGuard {
	return &SubmitGuard{
		duration: duration,
		inflight: make(map[string]time.Time),
		mutex:    &sync.Mutex{},
	}
}

// Begin reports whether a submit for id may start, registering it when
// allowed.
func (sg *SubmitGuard) Begin(id string) bool {
	result := true
	now := time.Now()
	sg.mutex.Lock()
	expires, found := sg.inflight[id]
	if found && expires.After(now) {
		// Still in flight
		result = false
	} else {
		d, err := time.ParseDuration(sg.duration)
		if err != nil {
			d = 30 * time.Second
		}
		sg.inflight[id] = now.Add(d)
	}
	sg.clean(now)
	sg.mutex.Unlock()
	return result
}

// End releases the slot once the network call settled.
func (sg *SubmitGuard) End(id string) {
	sg.mutex.Lock()
	delete(sg.inflight, id)
	sg.mutex.Unlock()
}

func (sg *SubmitGuard) clean(now time.Time) {
	for key, expires := range sg.inflight {
		if expires.Before(now) {
			delete(sg.inflight, key)
		}
	}
}
