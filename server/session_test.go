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
	"testing"

	"github.com/pkg/errors"
)

func TestRegistryAccept(t *testing.T) {
	r := NewRegistry(2)

	a, err := r.Accept(10)
	if err != nil {
		t.Fatal(err)
	}
	if r.Current() != a {
		t.Error("first session should become current")
	}
	b, err := r.Accept(11)
	if err != nil {
		t.Fatal(err)
	}
	if r.Current() != a {
		t.Error("second session must not steal current")
	}
	if _, err := r.Accept(12); !errors.Is(err, ErrTooManySessions) {
		t.Fatalf("expected ErrTooManySessions, got %v", err)
	}
	if r.Len() != 2 || r.Count() != 2 {
		t.Errorf("len %d count %d after refused accept", r.Len(), r.Count())
	}

	if err := r.Remove(b); err != nil {
		t.Fatal(err)
	}
	c, err := r.Accept(12)
	if err != nil {
		t.Fatal("freed slot should be reused:", err)
	}
	if _, ok := r.Lookup(b); ok {
		t.Error("stale handle resolved after slot reuse")
	}
	if s, _ := r.Lookup(c); s.ID != 12 {
		t.Errorf("got session %d, want 12", s.ID)
	}
}

func TestRegistryRemoveCurrent(t *testing.T) {
	r := NewRegistry(0)
	a, _ := r.Accept(1)
	r.Accept(2)

	r.Remove(a)
	if r.Current().Valid() {
		t.Error("removing the current session should clear current")
	}
	if err := r.Remove(a); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("double remove: %v", err)
	}
	if h, ok := r.Find(2); !ok || r.First() != h {
		t.Error("remaining session should head the list")
	}
}

func TestRegistryDrop(t *testing.T) {
	r := NewRegistry(0)
	r.Accept(1)
	r.Accept(2)

	if n := r.Drop(); n != 1 {
		t.Errorf("drop left %d", n)
	}
	if r.Len() != 2 {
		t.Error("drop must not unlink")
	}
	r.Drop()
	if n := r.Drop(); n != 0 {
		t.Errorf("count went below zero: %d", n)
	}

	// An empty count makes the next accept current again.
	h, _ := r.Accept(3)
	if r.Current() != h {
		t.Error("accept into a drained registry should become current")
	}
}

func TestRegistryFIFO(t *testing.T) {
	r := NewRegistry(0)
	h, _ := r.Accept(1)

	for i := 1; i <= 3; i++ {
		r.Enqueue(h, Event{Type: EventFDInput, FD: i})
	}
	if ev, _ := r.Peek(h); ev.FD != 1 {
		t.Errorf("peek returned fd %d", ev.FD)
	}
	for i := 1; i <= 3; i++ {
		ev, ok := r.Dequeue(h)
		if !ok || ev.FD != i {
			t.Fatalf("dequeue %d: got %+v %v", i, ev, ok)
		}
	}
	if _, ok := r.Dequeue(h); ok {
		t.Error("queue should be empty")
	}

	if r.Enqueue(Handle{}, Event{Type: EventTimeout}) {
		t.Error("enqueue to the zero handle should fail")
	}
}

func TestRegistryRecyclesEvents(t *testing.T) {
	r := NewRegistry(0)
	h, _ := r.Accept(1)

	r.Enqueue(h, Event{Type: EventTimeout})
	r.Enqueue(h, Event{Type: EventTimeout})
	r.Remove(h)

	n := 0
	for e := r.freeEvents; e != nil; e = e.next {
		n++
	}
	if n != 2 {
		t.Errorf("%d nodes on the free list, want 2", n)
	}

	h, _ = r.Accept(2)
	r.Enqueue(h, Event{Type: EventKeyDown})
	if s, _ := r.Lookup(h); s.Queued() != 1 {
		t.Errorf("queued %d", s.Queued())
	}
	if ev, _ := r.Dequeue(h); ev.Type != EventKeyDown {
		t.Errorf("recycled node leaked %v", ev.Type)
	}
}

func TestRegistryEachRemove(t *testing.T) {
	r := NewRegistry(0)
	for id := 1; id <= 4; id++ {
		r.Accept(id)
	}

	var visited []int
	r.Each(func(h Handle, s *Session) bool {
		visited = append(visited, s.ID)
		if s.ID == 2 {
			r.Remove(h)
		}
		return true
	})
	if want := []int{1, 2, 3, 4}; !equalInts(visited, want) {
		t.Errorf("visited %v, want %v", visited, want)
	}

	visited = visited[:0]
	r.Each(func(_ Handle, s *Session) bool {
		visited = append(visited, s.ID)
		return s.ID != 3
	})
	if want := []int{1, 3}; !equalInts(visited, want) {
		t.Errorf("visited %v, want %v", visited, want)
	}
}

func TestRegistryEachRemoveOther(t *testing.T) {
	r := NewRegistry(0)
	var hs []Handle
	for id := 1; id <= 5; id++ {
		h, _ := r.Accept(id)
		hs = append(hs, h)
	}

	var visited []int
	r.Each(func(h Handle, s *Session) bool {
		visited = append(visited, s.ID)
		if s.ID == 2 {
			r.Remove(hs[2])
			r.Remove(h)
		}
		return true
	})
	if want := []int{1, 2, 4, 5}; !equalInts(visited, want) {
		t.Errorf("visited %v, want %v", visited, want)
	}
}

func TestRegistryReset(t *testing.T) {
	r := NewRegistry(0)
	h, _ := r.Accept(1)
	r.Accept(2)
	r.Enqueue(h, Event{Type: EventTimeout})

	r.Reset()
	if r.Len() != 0 || r.Count() != 0 || r.Current().Valid() || r.First().Valid() {
		t.Error("reset left state behind")
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
