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

package platform

import (
	"time"

	"golang.org/x/sys/unix"
)

// PollSlice is how long PollWaiter sleeps between probes.
const PollSlice = 50 * time.Millisecond

// PollWaiter is for hosts with nothing to block in. It probes every source
// and sleeps a fixed slice in between until something turns up or the
// timeout has been used up.
type PollWaiter struct {
	sourceSet
	fds   []unix.PollFd
	sleep func(time.Duration)
}

func NewPollWaiter() *PollWaiter {
	return &PollWaiter{sleep: time.Sleep}
}

func (w *PollWaiter) Clear() {
	w.sourceSet.Clear()
	w.fds = w.fds[:0]
}

func (w *PollWaiter) Add(src Source) {
	w.sourceSet.Add(src)
	if src.Valid() && src.FD >= 0 {
		w.fds = append(w.fds, unix.PollFd{Fd: int32(src.FD), Events: unix.POLLIN})
	}
}

func (w *PollWaiter) Wait(timeout time.Duration) (int, error) {
	var waited time.Duration
	for {
		n, err := w.probe()
		if err != nil || n > 0 || timeout == 0 {
			return n, err
		}
		if timeout > 0 && waited >= timeout {
			return 0, nil
		}
		w.sleep(PollSlice)
		waited += PollSlice
	}
}

func (w *PollWaiter) probe() (int, error) {
	n := w.probePending()
	if len(w.fds) == 0 {
		return n, nil
	}
	for i := range w.fds {
		w.fds[i].Revents = 0
	}
	if _, err := unix.Poll(w.fds, 0); err != nil {
		if err == unix.EINTR {
			return n, ErrInterrupted
		}
		return n, err
	}
	for _, pfd := range w.fds {
		if pfd.Revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) != 0 && !w.ready[int(pfd.Fd)] {
			w.mark(int(pfd.Fd))
			n++
		}
	}
	return n, nil
}
