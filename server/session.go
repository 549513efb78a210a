/*
Copyright (c) 2019-2021 Andreas T Jonsson

This software is provided 'as-is', without any express or implied
warranty. In no event will the authors be held liable for any damages
arising from the use of this software.

Permission is granted to anyone to use this software for any purpose,
including commercial applications, and to alter it and redistribute it
freely, subject to the following restrictions:

1. The origin of this software must not be misrepresented; you must not
   claim that you wrote the original software. If you use this software
   in a product, an acknowledgment in the product documentation would be
   appreciated but is not required.
2. Altered source versions must be plainly marked as such, and must not be
   misrepresented as being the original software.
3. This notice may not be removed or altered from any source distribution.
*/

package server

import (
	"github.com/pkg/errors"
)

var (
	ErrTooManySessions = errors.New("too many sessions")
	ErrSessionNotFound = errors.New("session not found")
)

// DefaultMaxSessions bounds the registry when no limit is configured.
const DefaultMaxSessions = 64

const nilIndex = -1

// Handle addresses a session slot. A handle goes stale when its session
// is removed, even if the slot is reused later.
type Handle struct {
	index int32
	gen   uint32
}

// Valid reports whether h was ever issued. It does not mean the session
// is still alive.
func (h Handle) Valid() bool {
	return h.gen != 0
}

// Session is one connected client.
type Session struct {
	ID      int
	Waiting bool

	head, tail *eventNode
	queued     int

	prev, next int32
	gen        uint32
	live       bool
}

// Queued returns the number of undelivered events.
func (s *Session) Queued() int {
	return s.queued
}

// Registry keeps sessions in an arena, linked in the order they were
// accepted.
type Registry struct {
	slots    []Session
	free     []int32
	head     int32
	tail     int32
	linked   int
	active   int
	capacity int
	current  Handle

	freeEvents *eventNode
}

func NewRegistry(capacity int) *Registry {
	if capacity <= 0 {
		capacity = DefaultMaxSessions
	}
	return &Registry{head: nilIndex, tail: nilIndex, capacity: capacity}
}

// Accept links a new session at the tail. The first session accepted
// into an empty registry becomes current.
func (r *Registry) Accept(id int) (Handle, error) {
	var idx int32
	switch {
	case len(r.free) > 0:
		idx = r.free[len(r.free)-1]
		r.free = r.free[:len(r.free)-1]
	case len(r.slots) < r.capacity:
		r.slots = append(r.slots, Session{})
		idx = int32(len(r.slots) - 1)
	default:
		return Handle{}, ErrTooManySessions
	}

	s := &r.slots[idx]
	gen := s.gen + 1
	if gen == 0 {
		gen = 1
	}
	*s = Session{ID: id, prev: r.tail, next: nilIndex, gen: gen, live: true}

	if r.tail == nilIndex {
		r.head = idx
	} else {
		r.slots[r.tail].next = idx
	}
	r.tail = idx
	r.linked++

	h := Handle{index: idx, gen: gen}
	if r.active == 0 {
		r.current = h
	}
	r.active++
	return h, nil
}

// Drop counts one session as gone. Unlinking is done separately with
// Remove by whoever owns the connection.
func (r *Registry) Drop() int {
	if r.active > 0 {
		r.active--
	}
	return r.active
}

// Count is the number of accepted sessions not yet dropped.
func (r *Registry) Count() int {
	return r.active
}

// Len is the number of linked sessions.
func (r *Registry) Len() int {
	return r.linked
}

func (r *Registry) Lookup(h Handle) (*Session, bool) {
	if !h.Valid() || int(h.index) >= len(r.slots) {
		return nil, false
	}
	s := &r.slots[h.index]
	if !s.live || s.gen != h.gen {
		return nil, false
	}
	return s, true
}

// Find returns the first session with the given id.
func (r *Registry) Find(id int) (Handle, bool) {
	for i := r.head; i != nilIndex; i = r.slots[i].next {
		if r.slots[i].ID == id {
			return Handle{index: i, gen: r.slots[i].gen}, true
		}
	}
	return Handle{}, false
}

// Remove unlinks the session and releases its slot and queued events.
func (r *Registry) Remove(h Handle) error {
	s, ok := r.Lookup(h)
	if !ok {
		return ErrSessionNotFound
	}

	if s.prev == nilIndex {
		r.head = s.next
	} else {
		r.slots[s.prev].next = s.next
	}
	if s.next == nilIndex {
		r.tail = s.prev
	} else {
		r.slots[s.next].prev = s.prev
	}

	for n := s.head; n != nil; {
		next := n.next
		r.release(n)
		n = next
	}

	gen := s.gen
	*s = Session{gen: gen, prev: nilIndex, next: nilIndex}
	r.free = append(r.free, h.index)
	r.linked--

	if r.current == h {
		r.current = Handle{}
	}
	return nil
}

// Current returns the session the dispatch loop is addressing, or the
// zero handle.
func (r *Registry) Current() Handle {
	return r.current
}

func (r *Registry) SetCurrent(h Handle) {
	if _, ok := r.Lookup(h); ok {
		r.current = h
		return
	}
	r.current = Handle{}
}

func (r *Registry) First() Handle {
	if r.head == nilIndex {
		return Handle{}
	}
	return Handle{index: r.head, gen: r.slots[r.head].gen}
}

func (r *Registry) Next(h Handle) Handle {
	s, ok := r.Lookup(h)
	if !ok || s.next == nilIndex {
		return Handle{}
	}
	return Handle{index: s.next, gen: r.slots[s.next].gen}
}

// Each visits sessions in list order. The order is fixed before the
// first call, so f may remove any session. Removed sessions are skipped
// and sessions accepted meanwhile are not visited.
func (r *Registry) Each(f func(Handle, *Session) bool) {
	hs := make([]Handle, 0, r.linked)
	for h := r.First(); h.Valid(); h = r.Next(h) {
		hs = append(hs, h)
	}
	for _, h := range hs {
		s, ok := r.Lookup(h)
		if ok && !f(h, s) {
			return
		}
	}
}

// Enqueue appends ev to the session queue.
func (r *Registry) Enqueue(h Handle, ev Event) bool {
	s, ok := r.Lookup(h)
	if !ok {
		return false
	}
	n := r.alloc()
	n.ev = ev
	if s.tail == nil {
		s.head = n
	} else {
		s.tail.next = n
	}
	s.tail = n
	s.queued++
	return true
}

// Dequeue removes the oldest event.
func (r *Registry) Dequeue(h Handle) (Event, bool) {
	s, ok := r.Lookup(h)
	if !ok || s.head == nil {
		return Event{}, false
	}
	n := s.head
	s.head = n.next
	if s.head == nil {
		s.tail = nil
	}
	s.queued--

	ev := n.ev
	r.release(n)
	return ev, true
}

// Peek returns the oldest event without removing it.
func (r *Registry) Peek(h Handle) (Event, bool) {
	s, ok := r.Lookup(h)
	if !ok || s.head == nil {
		return Event{}, false
	}
	return s.head.ev, true
}

func (r *Registry) alloc() *eventNode {
	if n := r.freeEvents; n != nil {
		r.freeEvents = n.next
		n.next = nil
		return n
	}
	return &eventNode{}
}

func (r *Registry) release(n *eventNode) {
	*n = eventNode{next: r.freeEvents}
	r.freeEvents = n
}

// Reset removes every session and zeroes the active count.
func (r *Registry) Reset() {
	for h := r.First(); h.Valid(); h = r.First() {
		r.Remove(h)
	}
	r.active = 0
	r.current = Handle{}
}
