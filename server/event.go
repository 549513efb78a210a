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
	"fmt"

	"github.com/andreas-jonsson/virtualwin/input"
)

type EventType int

const (
	EventNone EventType = iota
	EventError
	EventTimeout
	EventFDInput
	EventKeyDown
	EventKeyUp
	EventMouseMotion
	EventButtonDown
	EventButtonUp
)

var eventNames = [...]string{
	EventNone:        "none",
	EventError:       "error",
	EventTimeout:     "timeout",
	EventFDInput:     "fdinput",
	EventKeyDown:     "keydown",
	EventKeyUp:       "keyup",
	EventMouseMotion: "motion",
	EventButtonDown:  "buttondown",
	EventButtonUp:    "buttonup",
}

func (t EventType) String() string {
	if t >= 0 && int(t) < len(eventNames) {
		return eventNames[t]
	}
	return fmt.Sprintf("EventType(%d)", int(t))
}

// Event is what sessions receive. Only the fields that belong to the
// event type are set.
type Event struct {
	Type EventType

	// EventFDInput
	FD int

	// Pointer events.
	X, Y    int
	Buttons input.Buttons
	Changed input.Buttons

	// Key events.
	Key       input.Key
	Scancode  input.Scancode
	Modifiers input.Modifiers
}

// eventNode links queued events. Nodes are recycled through the
// registry's free list.
type eventNode struct {
	ev   Event
	next *eventNode
}
