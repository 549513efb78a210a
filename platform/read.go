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

	"github.com/pkg/errors"
)

// MessageReader blocks until the device has a message or the timeout
// expires. It returns the key of the source the message belongs to, or
// ErrTimeout. A negative timeout means no limit.
type MessageReader interface {
	ReadMessage(timeout time.Duration) (key int, err error)
}

// ReadWaiter waits by reading exactly one message from a device, the way
// interrupt driven input systems hand over their queue.
type ReadWaiter struct {
	sourceSet
	reader MessageReader
}

func NewReadWaiter(r MessageReader) *ReadWaiter {
	return &ReadWaiter{reader: r}
}

// Wait reads until a message for a source in the set arrives. Messages
// for other sources are discarded and the read repeats with whatever is
// left of the timeout.
func (w *ReadWaiter) Wait(timeout time.Duration) (int, error) {
	if n := w.probePending(); n > 0 {
		return n, nil
	}

	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	for {
		key, err := w.reader.ReadMessage(timeout)
		switch {
		case errors.Is(err, ErrTimeout):
			return 0, nil
		case err != nil:
			return 0, err
		}
		for _, src := range w.sources {
			if src.FD == key {
				w.mark(key)
				return 1, nil
			}
		}
		if timeout > 0 {
			if timeout = time.Until(deadline); timeout <= 0 {
				return 0, nil
			}
		}
	}
}
