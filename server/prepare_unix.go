//go:build unix

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
	"time"

	"github.com/andreas-jonsson/virtualwin/platform"
	"golang.org/x/sys/unix"
)

func defaultWaiter() platform.Waiter {
	return platform.NewSelectWaiter()
}

// PrepareSelect adds the server's descriptors to a host owned fd_set and
// returns the new descriptor limit together with how long the host may
// block. A negative duration means no timer is pending.
func (s *Server) PrepareSelect(set *unix.FdSet, maxfd int) (int, time.Duration) {
	s.acquire()
	defer s.release()

	if !s.initialized {
		return maxfd, platform.Infinite
	}

	add := func(fd int) {
		if fd < 0 || fd >= platform.SelectSetSize {
			return
		}
		set.Set(fd)
		if fd+1 > maxfd {
			maxfd = fd + 1
		}
	}
	add(s.msSrc.FD)
	add(s.kbdSrc.FD)
	if s.keyboard2 != nil {
		add(s.kbd2Src.FD)
	}
	s.regfds.Each(add)

	wait := platform.Infinite
	if s.timers != nil {
		if d, ok := s.timers.NextTimeout(BlockForever); ok {
			wait = d
		}
	}
	return maxfd, wait
}

// ServiceSelect processes the descriptors a host select marked ready,
// services timers and passes every event of the current session to
// handle.
func (s *Server) ServiceSelect(set *unix.FdSet, handle func(Event)) {
	s.acquire()

	ready := func(src platform.Source) bool {
		return src.FD >= 0 && src.FD < platform.SelectSetSize && set.IsSet(src.FD)
	}
	if s.initialized {
		if ready(s.msSrc) {
			s.drainMouse()
		}
		if ready(s.kbdSrc) {
			s.drainKeyboard(s.keyboard)
		}
		if s.keyboard2 != nil && ready(s.kbd2Src) {
			s.drainKeyboard(s.keyboard2)
		}

		cur := s.sessions.Current()
		s.regfds.Each(func(fd int) {
			if fd < platform.SelectSetSize && set.IsSet(fd) {
				s.enqueue(cur, Event{Type: EventFDInput, FD: fd})
			}
		})
		if s.timers != nil && s.timers.Service() {
			s.enqueue(cur, Event{Type: EventTimeout})
		}
	}

	var events []Event
	cur := s.sessions.Current()
	for {
		ev, ok := s.sessions.Dequeue(cur)
		if !ok {
			break
		}
		events = append(events, ev)
	}
	terminate := s.terminating
	s.release()

	for _, ev := range events {
		handle(ev)
	}
	if terminate {
		s.Terminate()
	}
}
