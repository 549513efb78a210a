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

// Package tcell drives a character terminal as a low resolution screen,
// one cell per pixel.
package tcell

import (
	"sync"

	"github.com/andreas-jonsson/virtualwin/platform"
	"github.com/gdamore/tcell"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const MaxEvents = 64

// Terminal is the tcell screen shared by the screen driver and the input
// drivers. The first user initializes it and the last one shuts it down.
type Terminal struct {
	sync.Mutex

	screen tcell.Screen
	refs   int
	done   chan struct{}

	keys, mice       chan tcell.Event
	keySrc, mouseSrc int
	notify           func(key int)
	log              *log.Entry
}

// NewTerminal wraps s. A nil screen opens the controlling terminal.
func NewTerminal(s tcell.Screen) *Terminal {
	return &Terminal{
		screen:   s,
		keys:     make(chan tcell.Event, MaxEvents),
		mice:     make(chan tcell.Event, MaxEvents),
		keySrc:   platform.NewKey(),
		mouseSrc: platform.NewKey(),
		log:      log.WithField("component", "tcell"),
	}
}

// SetNotify installs the callback that wakes the dispatch loop.
func (t *Terminal) SetNotify(f func(key int)) {
	t.Lock()
	t.notify = f
	t.Unlock()
}

func (t *Terminal) Acquire() error {
	t.Lock()
	defer t.Unlock()

	if t.refs > 0 {
		t.refs++
		return nil
	}

	if t.screen == nil {
		tcell.SetEncodingFallback(tcell.EncodingFallbackASCII)
		s, err := tcell.NewScreen()
		if err != nil {
			return errors.Wrap(err, "could not create terminal screen")
		}
		t.screen = s
	}
	if err := t.screen.Init(); err != nil {
		return errors.Wrap(err, "could not initialize terminal")
	}
	t.screen.HideCursor()
	t.screen.EnableMouse()
	t.screen.Clear()

	t.refs = 1
	t.done = make(chan struct{})
	go t.pollEvents(t.screen, t.done)
	return nil
}

func (t *Terminal) Release() {
	t.Lock()
	if t.refs == 0 {
		t.Unlock()
		return
	}
	t.refs--
	if t.refs > 0 {
		t.Unlock()
		return
	}
	s, done := t.screen, t.done
	t.Unlock()

	s.Fini()
	<-done
}

func (t *Terminal) Screen() tcell.Screen {
	return t.screen
}

func (t *Terminal) pollEvents(s tcell.Screen, done chan struct{}) {
	defer close(done)
	for {
		ev := s.PollEvent()
		if ev == nil {
			return
		}

		switch ev.(type) {
		case *tcell.EventKey:
			t.pushEvent(t.keys, t.keySrc, ev)
		case *tcell.EventMouse:
			t.pushEvent(t.mice, t.mouseSrc, ev)
		case *tcell.EventResize:
			s.Sync()
		}
	}
}

func (t *Terminal) pushEvent(ch chan tcell.Event, key int, ev tcell.Event) {
	select {
	case ch <- ev:
	default:
		t.log.Warn("event queue is full")
		return
	}

	t.Lock()
	notify := t.notify
	t.Unlock()
	if notify != nil {
		notify(key)
	}
}

// Pending is the number of input events not yet read.
func (t *Terminal) Pending() int {
	return len(t.keys) + len(t.mice)
}

func (t *Terminal) KeySource() platform.Source {
	return platform.Source{FD: t.keySrc, Pending: func() bool { return len(t.keys) > 0 }}
}

func (t *Terminal) MouseSource() platform.Source {
	return platform.Source{FD: t.mouseSrc, Pending: func() bool { return len(t.mice) > 0 }}
}

// NextKey returns a buffered key event without blocking.
func (t *Terminal) NextKey() (*tcell.EventKey, bool) {
	select {
	case ev := <-t.keys:
		return ev.(*tcell.EventKey), true
	default:
		return nil, false
	}
}

func (t *Terminal) NextMouse() (*tcell.EventMouse, bool) {
	select {
	case ev := <-t.mice:
		return ev.(*tcell.EventMouse), true
	default:
		return nil, false
	}
}
