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

// Package platform holds the wait primitives the dispatch loop blocks in.
// Each primitive maps the same small interface onto a different kind of
// host facility: readiness sets, message queues, blocking reads and plain
// polling.
package platform

import (
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
)

// Infinite makes Wait block until a source is ready.
const Infinite time.Duration = -1

var (
	ErrInterrupted     = errors.New("wait interrupted")
	ErrTimeout         = errors.New("wait timed out")
	ErrDescriptorRange = errors.New("descriptor out of range")
)

// Source is one thing the dispatch loop can wait on. FD is a host
// descriptor, or a negative key from NewKey for sources that have none.
// Pending, when set, reports input the driver has already buffered.
type Source struct {
	FD      int
	Pending func() bool
}

// NoSource is returned by drivers that have nothing to wait on.
var NoSource = Source{FD: NoFD}

const NoFD = int(^uint(0) >> 1)

func (s Source) Valid() bool {
	return s.FD != NoFD
}

func (s Source) pending() bool {
	return s.Pending != nil && s.Pending()
}

var nextKey int64

// NewKey returns a process unique negative key for descriptorless sources.
func NewKey() int {
	return int(atomic.AddInt64(&nextKey, -1))
}

// Waiter is the host facility behind one dispatch pass. A pass calls
// Clear, adds every source, waits once and then asks Ready for each
// source in its own precedence order.
type Waiter interface {
	Clear()
	Add(src Source)
	// Wait returns the number of ready sources. Zero means the timeout
	// expired. ErrInterrupted is returned if a signal cut the wait short.
	Wait(timeout time.Duration) (int, error)
	Ready(src Source) bool
}

// Limiter is implemented by waiters that can only watch descriptors below
// MaxFD.
type Limiter interface {
	MaxFD() int
}

// Accepts reports whether w can watch fd.
func Accepts(w Waiter, fd int) bool {
	if l, ok := w.(Limiter); ok {
		return fd < l.MaxFD()
	}
	return true
}

// sourceSet is the bookkeeping shared by waiters that do not keep their
// own native set.
type sourceSet struct {
	sources []Source
	ready   map[int]bool
}

func (s *sourceSet) Clear() {
	s.sources = s.sources[:0]
	if s.ready == nil {
		s.ready = make(map[int]bool)
	}
	for k := range s.ready {
		delete(s.ready, k)
	}
}

func (s *sourceSet) Add(src Source) {
	if src.Valid() {
		s.sources = append(s.sources, src)
	}
}

func (s *sourceSet) Ready(src Source) bool {
	return src.Valid() && s.ready[src.FD]
}

func (s *sourceSet) mark(fd int) {
	if s.ready == nil {
		s.ready = make(map[int]bool)
	}
	s.ready[fd] = true
}

// probePending marks every source with buffered input.
func (s *sourceSet) probePending() int {
	n := 0
	for _, src := range s.sources {
		if src.pending() && !s.ready[src.FD] {
			s.mark(src.FD)
			n++
		}
	}
	return n
}
