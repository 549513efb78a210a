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
	"testing"

	"github.com/andreas-jonsson/virtualwin/platform"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

func TestPrepareSelect(t *testing.T) {
	r := newRig(t)
	r.open(t)
	r.srv.RegisterInput(9)

	var set unix.FdSet
	maxfd, wait := r.srv.PrepareSelect(&set, 3)
	if maxfd != 10 || !set.IsSet(9) {
		t.Errorf("maxfd %d", maxfd)
	}
	if wait >= 0 {
		t.Errorf("no timers should mean no timeout, got %v", wait)
	}

	r.kbd.press('a')
	var ready unix.FdSet
	ready.Set(9)
	var events []Event
	r.srv.ServiceSelect(&ready, func(ev Event) { events = append(events, ev) })
	if len(events) != 1 || events[0].Type != EventFDInput || events[0].FD != 9 {
		t.Errorf("events %+v", events)
	}
}

func TestSelectWaiterDescriptorLimit(t *testing.T) {
	r := newRig(t, WithWaiter(platform.NewSelectWaiter()), WithTimers(nil))
	r.open(t)

	if err := r.srv.RegisterInput(platform.SelectSetSize + 976); !errors.Is(err, ErrBadDescriptor) {
		t.Errorf("got %v", err)
	}
	r.srv.Select(PollOnly)
	if events := drain(r); len(events) != 1 || events[0].Type != EventTimeout {
		t.Errorf("got %v", events)
	}
}

func TestPrepareSelectSkipsLargeDescriptors(t *testing.T) {
	r := newRig(t)
	r.open(t)
	if err := r.srv.RegisterInput(platform.SelectSetSize + 976); err != nil {
		t.Fatal(err)
	}

	var set unix.FdSet
	if maxfd, _ := r.srv.PrepareSelect(&set, 3); maxfd != 3 {
		t.Errorf("maxfd %d", maxfd)
	}
	r.srv.ServiceSelect(&set, func(ev Event) {
		if ev.Type == EventFDInput {
			t.Errorf("unexpected %+v", ev)
		}
	})
}
