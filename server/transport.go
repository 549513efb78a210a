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
	"encoding/binary"
	"io"

	"github.com/andreas-jonsson/virtualwin/input"
	"github.com/andreas-jonsson/virtualwin/platform"
)

// Transport connects remote sessions. Session ids are whatever the
// transport uses to tell connections apart, usually their descriptor.
// Handle and Deliver run with the server lock held.
type Transport interface {
	// Source is the listening endpoint.
	Source() platform.Source
	Accept() (id int, err error)
	// Handle serves one request from a ready session. io.EOF means the
	// peer hung up.
	Handle(id int) error
	Deliver(id int, ev Event) error
	Disconnect(id int)
	Close() error
}

// EventSize is the size of an encoded event.
const EventSize = 9 * 4

// WriteEvent encodes ev as little endian 32-bit fields.
func WriteEvent(w io.Writer, ev Event) error {
	rec := [9]int32{
		int32(ev.Type),
		int32(ev.FD),
		int32(ev.X),
		int32(ev.Y),
		int32(ev.Buttons),
		int32(ev.Changed),
		int32(ev.Key),
		int32(ev.Scancode),
		int32(ev.Modifiers),
	}
	return binary.Write(w, binary.LittleEndian, rec)
}

func ReadEvent(r io.Reader) (Event, error) {
	var rec [9]int32
	if err := binary.Read(r, binary.LittleEndian, &rec); err != nil {
		return Event{}, err
	}
	return Event{
		Type:      EventType(rec[0]),
		FD:        int(rec[1]),
		X:         int(rec[2]),
		Y:         int(rec[3]),
		Buttons:   input.Buttons(rec[4]),
		Changed:   input.Buttons(rec[5]),
		Key:       input.Key(rec[6]),
		Scancode:  input.Scancode(rec[7]),
		Modifiers: input.Modifiers(rec[8]),
	}, nil
}
