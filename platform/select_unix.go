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
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// SelectSetSize is the number of descriptors an unix.FdSet can hold.
var SelectSetSize = len(unix.FdSet{}.Bits) * int(unsafe.Sizeof(unix.FdSet{}.Bits[0])) * 8

// SelectWaiter waits on a readiness set with select(2).
type SelectWaiter struct {
	sourceSet
	fds      unix.FdSet
	nfd      int
	readyFds unix.FdSet
	overflow int
}

func NewSelectWaiter() *SelectWaiter {
	return &SelectWaiter{overflow: -1}
}

func (w *SelectWaiter) Clear() {
	w.sourceSet.Clear()
	w.fds.Zero()
	w.readyFds.Zero()
	w.nfd = 0
	w.overflow = -1
}

// MaxFD is one past the largest descriptor the waiter accepts.
func (w *SelectWaiter) MaxFD() int {
	return SelectSetSize
}

func (w *SelectWaiter) Add(src Source) {
	w.sourceSet.Add(src)
	if !src.Valid() || src.FD < 0 {
		return
	}
	if src.FD >= SelectSetSize {
		w.overflow = src.FD
		return
	}
	w.fds.Set(src.FD)
	if src.FD >= w.nfd {
		w.nfd = src.FD + 1
	}
}

func (w *SelectWaiter) Wait(timeout time.Duration) (int, error) {
	if w.overflow >= 0 {
		return 0, errors.Wrapf(ErrDescriptorRange, "descriptor %d", w.overflow)
	}
	if n := w.probePending(); n > 0 {
		// Buffered input is ready now, but still collect any descriptors
		// that happen to be readable.
		timeout = 0
	}

	var tv *unix.Timeval
	if timeout >= 0 {
		t := unix.NsecToTimeval(timeout.Nanoseconds())
		tv = &t
	}

	w.readyFds = w.fds
	if _, err := unix.Select(w.nfd, &w.readyFds, nil, nil, tv); err != nil {
		w.readyFds.Zero()
		if err == unix.EINTR {
			return 0, ErrInterrupted
		}
		return 0, err
	}
	for _, src := range w.sourceSet.sources {
		if src.FD >= 0 && src.FD < SelectSetSize && w.readyFds.IsSet(src.FD) {
			w.sourceSet.mark(src.FD)
		}
	}
	return len(w.sourceSet.ready), nil
}

func (w *SelectWaiter) Ready(src Source) bool {
	return w.sourceSet.Ready(src)
}
