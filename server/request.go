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
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// Request opcodes understood by HandleRequest.
const (
	RequestNextEvent  = 'N'
	RequestCheckEvent = 'C'
	RequestInfo       = 'I'
	RequestBell       = 'B'
	RequestClose      = 'Q'
)

var ErrBadRequest = errors.New("bad request")

// Replier is the part of a transport HandleRequest answers through.
type Replier interface {
	Send(id int, data []byte) error
}

// HandleRequest serves one request of a remote session. It runs inside a
// dispatch pass with the server lock held, so it only touches server
// state directly.
func (s *Server) HandleRequest(rep Replier, id int, req []byte) error {
	h, ok := s.sessions.Find(id)
	if !ok {
		return ErrSessionNotFound
	}
	sess, _ := s.sessions.Lookup(h)

	for _, op := range req {
		switch op {
		case RequestNextEvent:
			sess.Waiting = true
		case RequestCheckEvent:
			ev, ok := s.sessions.Dequeue(h)
			if !ok {
				ev = Event{Type: EventNone}
			}
			if err := s.reply(rep, id, func(w io.Writer) error { return WriteEvent(w, ev) }); err != nil {
				return err
			}
		case RequestInfo:
			info := s.screen.Info(s.pointerState())
			if err := s.reply(rep, id, func(w io.Writer) error {
				return binary.Write(w, binary.LittleEndian, [6]int32{
					int32(info.Cols), int32(info.Rows),
					int32(info.BPP), int32(info.NColors),
					int32(info.XPos), int32(info.YPos),
				})
			}); err != nil {
				return err
			}
		case RequestBell:
			s.Bell()
		case RequestClose:
			return io.EOF
		case '\n', '\r':
		default:
			return errors.Wrapf(ErrBadRequest, "opcode %q", op)
		}
	}
	return nil
}

func (s *Server) reply(rep Replier, id int, enc func(io.Writer) error) error {
	var b bytes.Buffer
	if err := enc(&b); err != nil {
		return err
	}
	return rep.Send(id, b.Bytes())
}
