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
	"io"
	"time"

	"github.com/andreas-jonsson/virtualwin/input"
	"github.com/andreas-jonsson/virtualwin/platform"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Select runs one dispatch pass. It waits at most once, drains whatever
// became ready and returns. Errors never leave the pass.
func (s *Server) Select(timeout time.Duration) {
	s.acquire()
	s.selectLocked(timeout)
	terminate := s.terminating
	s.release()

	if terminate {
		s.Terminate()
	}
}

func (s *Server) selectLocked(timeout time.Duration) {
	if !s.initialized {
		return
	}

	dev := s.screen.Device()
	if ps, ok := dev.PreSelecter(); ok && ps.PreSelect(dev) > 0 {
		s.disarmTimers()
		s.drainMouse()
		s.drainKeyboard(s.keyboard)
		if s.keyboard2 != nil {
			s.drainKeyboard(s.keyboard2)
		}
		return
	}

	if s.transport != nil && s.deliverWaiting() {
		s.disarmTimers()
		return
	}

	w := s.waiter
	w.Clear()
	w.Add(s.msSrc)
	w.Add(s.kbdSrc)
	if s.keyboard2 != nil {
		w.Add(s.kbd2Src)
	}
	if s.transport == nil {
		s.regfds.Each(func(fd int) {
			w.Add(platform.Source{FD: fd})
		})
	} else {
		w.Add(s.transport.Source())
		s.sessions.Each(func(_ Handle, sess *Session) bool {
			w.Add(platform.Source{FD: sess.ID})
			return true
		})
	}

	wait := s.waitTimeout(timeout)
	if !dev.CanBlock() && (wait < 0 || wait > CantBlockSlice) {
		wait = CantBlockSlice
	}

	s.release()
	n, err := w.Wait(wait)
	s.acquire()

	if err != nil {
		s.disarmTimers()
		if !errors.Is(err, platform.ErrInterrupted) {
			s.log.WithError(err).Error("select() call in main failed")
		}
		return
	}
	if n > 0 {
		s.dispatchReady(w)
		return
	}
	s.dispatchTimeout(timeout)
}

// waitTimeout turns the caller's timeout into the wait primitive's.
func (s *Server) waitTimeout(timeout time.Duration) time.Duration {
	if timeout == PollOnly {
		return 0
	}
	if s.timers != nil {
		if d, ok := s.timers.NextTimeout(timeout); ok {
			return d
		}
	}
	if timeout > 0 {
		return timeout
	}
	return platform.Infinite
}

func (s *Server) dispatchReady(w platform.Waiter) {
	if w.Ready(s.msSrc) {
		s.drainMouse()
	}
	if w.Ready(s.kbdSrc) {
		s.drainKeyboard(s.keyboard)
	}
	if s.keyboard2 != nil && w.Ready(s.kbd2Src) {
		s.drainKeyboard(s.keyboard2)
	}

	if s.transport == nil {
		cur := s.sessions.Current()
		s.regfds.Each(func(fd int) {
			if w.Ready(platform.Source{FD: fd}) {
				s.enqueue(cur, Event{Type: EventFDInput, FD: fd})
			}
		})
	} else {
		if w.Ready(s.transport.Source()) {
			s.acceptSession()
		}
		s.sessions.Each(func(h Handle, sess *Session) bool {
			if !w.Ready(platform.Source{FD: sess.ID}) {
				return true
			}
			s.sessions.SetCurrent(h)
			if err := s.transport.Handle(sess.ID); err != nil {
				if errors.Cause(err) != io.EOF {
					s.log.WithError(err).WithField("session", sess.ID).Warn("client request failed")
				}
				s.dropSession(h)
			}
			return true
		})
	}

	s.disarmTimers()
}

func (s *Server) disarmTimers() {
	if tl, ok := s.timers.(*TimerList); ok {
		tl.Disarm()
	}
}

func (s *Server) dispatchTimeout(timeout time.Duration) {
	if s.transport != nil {
		if s.timers != nil {
			s.timers.Service()
		}
		return
	}

	fired := timeout != BlockForever
	if s.timers != nil {
		fired = s.timers.Service()
	}
	if fired {
		s.enqueue(s.sessions.Current(), Event{Type: EventTimeout})
	}
}

// deliverWaiting hands one queued event to the first session blocked in a
// request for it.
func (s *Server) deliverWaiting() bool {
	delivered := false
	s.sessions.Each(func(h Handle, sess *Session) bool {
		if !sess.Waiting || sess.Queued() == 0 {
			return true
		}
		ev, _ := s.sessions.Dequeue(h)
		sess.Waiting = false
		if err := s.transport.Deliver(sess.ID, ev); err != nil {
			s.log.WithError(err).WithField("session", sess.ID).Warn("event delivery failed")
			s.dropSession(h)
		}
		delivered = true
		return false
	})
	return delivered
}

func (s *Server) acceptSession() {
	id, err := s.transport.Accept()
	if err != nil {
		s.log.WithError(err).Warn("accept failed")
		return
	}
	if !platform.Accepts(s.waiter, id) {
		s.log.WithField("session", id).Warn("connection refused, descriptor beyond waiter limit")
		s.transport.Disconnect(id)
		return
	}
	if _, err := s.sessions.Accept(id); err != nil {
		s.log.WithError(err).WithField("session", id).Warn("connection refused")
		s.transport.Disconnect(id)
		return
	}
	s.log.WithField("session", id).Debug("session accepted")
}

func (s *Server) enqueue(h Handle, ev Event) {
	if !s.sessions.Enqueue(h, ev) {
		s.log.WithField("event", ev.Type).Debug("no session, event dropped")
	}
}

func (s *Server) drainMouse() {
	for {
		ev, ok, err := s.mouse.Read()
		if err != nil {
			s.log.WithError(err).Warn("mouse read failed")
			return
		}
		if !ok {
			return
		}
		s.handleMouse(ev)
	}
}

func (s *Server) handleMouse(ev input.MouseEvent) {
	x, y := ev.X, ev.Y
	if ev.Relative {
		x += s.ptr.x
		y += s.ptr.y
	}
	cur := s.sessions.Current()
	if s.ptr.move(x, y) {
		s.enqueue(cur, Event{
			Type:      EventMouseMotion,
			X:         s.ptr.x,
			Y:         s.ptr.y,
			Buttons:   s.ptr.buttons,
			Modifiers: s.mods,
		})
	}

	changed := ev.Buttons ^ s.ptr.buttons
	if changed == 0 {
		return
	}
	typ := EventButtonUp
	if ev.Buttons&changed != 0 {
		typ = EventButtonDown
	}
	s.ptr.buttons = ev.Buttons
	s.enqueue(cur, Event{
		Type:      typ,
		X:         s.ptr.x,
		Y:         s.ptr.y,
		Buttons:   ev.Buttons,
		Changed:   changed,
		Modifiers: s.mods,
	})
}

func (s *Server) drainKeyboard(k input.Keyboard) {
	for {
		ev, ok, err := k.Read()
		if err != nil {
			s.log.WithError(err).Warn("keyboard read failed")
			return
		}
		if !ok {
			return
		}
		s.handleKey(ev)
	}
}

func (s *Server) handleKey(ev input.KeyEvent) {
	s.mods = ev.Modifiers
	if ev.Pressed && ev.Key == input.KeyEscape && s.escapeQuits {
		s.log.Info("escape pressed, terminating")
		s.terminating = true
		return
	}

	typ := EventKeyUp
	if ev.Pressed {
		typ = EventKeyDown
	}
	s.enqueue(s.sessions.Current(), Event{
		Type:      typ,
		X:         s.ptr.x,
		Y:         s.ptr.y,
		Buttons:   s.ptr.buttons,
		Key:       ev.Key,
		Scancode:  ev.Scancode,
		Modifiers: ev.Modifiers,
	})
	if s.log.Logger.IsLevelEnabled(log.TraceLevel) {
		s.log.WithFields(log.Fields{"key": ev.Key, "pressed": ev.Pressed}).Trace("key")
	}
}
