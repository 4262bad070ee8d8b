package main

import (
	"sync"

	"github.com/aquilax/guestbook/comment"
)

// LikeCounter is the default like-counter collaborator. It only keeps
// the set of cards with a live listener, which is exactly what the
// engine's detach/reattach contract needs.
type LikeCounter struct {
	mu    sync.Mutex
	bound map[comment.UUID]bool
}

func NewLikeCounter() *LikeCounter {
	return &LikeCounter{bound: make(map[comment.UUID]bool)}
}

func (l *LikeCounter) Bind(id comment.UUID) {
	l.mu.Lock()
	l.bound[id] = true
	l.mu.Unlock()
}

func (l *LikeCounter) Unbind(id comment.UUID) {
	l.mu.Lock()
	delete(l.bound, id)
	l.mu.Unlock()
}

func (l *LikeCounter) IsBound(id comment.UUID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.bound[id]
}

func (l *LikeCounter) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.bound)
}
