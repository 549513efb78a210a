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
)

// QueueSize bounds the number of undelivered messages.
const QueueSize = 64

// Queue is a message queue wait. Drivers that receive input on their own
// goroutine post the key of their source; Wait blocks until a message
// arrives or the timeout expires.
type Queue struct {
	sourceSet
	messages chan int
}

func NewQueue() *Queue {
	return &Queue{messages: make(chan int, QueueSize)}
}

// Post wakes the waiter on behalf of a source. It never blocks, a full
// queue already guarantees a wakeup.
func (q *Queue) Post(key int) {
	select {
	case q.messages <- key:
	default:
	}
}

func (q *Queue) Wait(timeout time.Duration) (int, error) {
	if q.probePending() > 0 {
		timeout = 0
	}

	var expired <-chan time.Time
	switch {
	case timeout == 0:
		q.drain()
		return len(q.ready), nil
	case timeout > 0:
		t := time.NewTimer(timeout)
		defer t.Stop()
		expired = t.C
	}

	select {
	case key := <-q.messages:
		q.deliver(key)
	case <-expired:
	}
	q.drain()
	return len(q.ready), nil
}

func (q *Queue) drain() {
	for {
		select {
		case key := <-q.messages:
			q.deliver(key)
		default:
			return
		}
	}
}

// deliver marks the source, messages for sources outside the current set
// are dropped.
func (q *Queue) deliver(key int) {
	for _, src := range q.sources {
		if src.FD == key {
			q.mark(key)
			return
		}
	}
}
