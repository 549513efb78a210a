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

	"golang.org/x/exp/slices"
)

// Timers is the timer subsystem the dispatch loop consults.
type Timers interface {
	// NextTimeout returns how long the loop may wait given the timeout
	// the caller asked for. False means nothing is scheduled.
	NextTimeout(requested time.Duration) (time.Duration, bool)
	// Service runs due timers and reports whether anything expired.
	Service() bool
}

// TimerID identifies a timer created by TimerList.
type TimerID int

type timer struct {
	id       TimerID
	deadline time.Time
	period   time.Duration
	fn       func()
}

// TimerList keeps one shot and periodic timers sorted by deadline, plus
// the dispatch loop's own timeout.
type TimerList struct {
	now    func() time.Time
	timers []*timer
	nextID TimerID

	mainDeadline time.Time
	mainArmed    bool
}

func NewTimerList() *TimerList {
	return &TimerList{now: time.Now}
}

// Add schedules fn after d. A non-zero period makes the timer repeat.
func (l *TimerList) Add(d, period time.Duration, fn func()) TimerID {
	l.nextID++
	t := &timer{id: l.nextID, deadline: l.now().Add(d), period: period, fn: fn}
	l.insert(t)
	return t.id
}

func (l *TimerList) insert(t *timer) {
	l.timers = append(l.timers, t)
	slices.SortStableFunc(l.timers, func(a, b *timer) int {
		return a.deadline.Compare(b.deadline)
	})
}

// Remove cancels a timer. It reports false if the timer already fired.
func (l *TimerList) Remove(id TimerID) bool {
	i := slices.IndexFunc(l.timers, func(t *timer) bool { return t.id == id })
	if i < 0 {
		return false
	}
	l.timers = slices.Delete(l.timers, i, i+1)
	return true
}

func (l *TimerList) Len() int {
	return len(l.timers)
}

func (l *TimerList) NextTimeout(requested time.Duration) (time.Duration, bool) {
	now := l.now()
	if requested > 0 {
		if d := now.Add(requested); !l.mainArmed || d.Before(l.mainDeadline) {
			l.mainDeadline = d
			l.mainArmed = true
		}
	}

	var next time.Time
	switch {
	case l.mainArmed && len(l.timers) > 0:
		next = l.mainDeadline
		if l.timers[0].deadline.Before(next) {
			next = l.timers[0].deadline
		}
	case l.mainArmed:
		next = l.mainDeadline
	case len(l.timers) > 0:
		next = l.timers[0].deadline
	default:
		return 0, false
	}

	d := next.Sub(now)
	if d < 0 {
		d = 0
	}
	return d, true
}

func (l *TimerList) Service() bool {
	now := l.now()
	fired := false

	if l.mainArmed && !now.Before(l.mainDeadline) {
		l.mainArmed = false
		fired = true
	}

	for len(l.timers) > 0 && !now.Before(l.timers[0].deadline) {
		t := l.timers[0]
		l.timers = l.timers[1:]
		if t.period > 0 {
			t.deadline = t.deadline.Add(t.period)
			if t.deadline.Before(now) {
				t.deadline = now.Add(t.period)
			}
			l.insert(t)
		}
		if t.fn != nil {
			t.fn()
		}
		fired = true
	}
	return fired
}

// Disarm cancels the dispatch loop timeout. The loop calls it whenever a
// pass ends without servicing timers.
func (l *TimerList) Disarm() {
	l.mainArmed = false
}
