//go:build linux

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
	"io"
	"os"

	"github.com/andreas-jonsson/virtualwin/platform"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// MaxRequestSize bounds a single request read.
const MaxRequestSize = 4096

// RequestHandler serves one request chunk read from a session.
type RequestHandler func(id int, req []byte) error

// UnixTransport listens on a local stream socket. Accepted descriptors
// are used as session ids.
type UnixTransport struct {
	path    string
	fd      int
	handler RequestHandler
	buf     [MaxRequestSize]byte
	conns   map[int]struct{}
}

// ListenUnix removes any stale socket at path and starts listening.
func ListenUnix(path string, handler RequestHandler) (*UnixTransport, error) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "remove stale socket %s", path)
	}

	fd, err := unix.Socket(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, errors.Wrap(err, "socket")
	}
	if err := unix.Bind(fd, &unix.SockaddrUnix{Name: path}); err != nil {
		unix.Close(fd)
		return nil, errors.Wrapf(err, "bind %s", path)
	}
	if err := unix.Listen(fd, 5); err != nil {
		unix.Close(fd)
		os.Remove(path)
		return nil, errors.Wrapf(err, "listen %s", path)
	}
	return &UnixTransport{path: path, fd: fd, handler: handler, conns: make(map[int]struct{})}, nil
}

func (t *UnixTransport) Source() platform.Source {
	return platform.Source{FD: t.fd}
}

func (t *UnixTransport) Accept() (int, error) {
	nfd, _, err := unix.Accept4(t.fd, unix.SOCK_CLOEXEC)
	if err != nil {
		return -1, errors.Wrap(err, "accept")
	}
	t.conns[nfd] = struct{}{}
	return nfd, nil
}

func (t *UnixTransport) Handle(id int) error {
	n, err := unix.Read(id, t.buf[:])
	switch {
	case err == unix.EINTR || err == unix.EAGAIN:
		return nil
	case err != nil:
		return errors.Wrapf(err, "read session %d", id)
	case n == 0:
		return io.EOF
	}
	if t.handler == nil {
		return nil
	}
	return t.handler(id, t.buf[:n])
}

func (t *UnixTransport) Deliver(id int, ev Event) error {
	var b bytes.Buffer
	WriteEvent(&b, ev)
	return t.Send(id, b.Bytes())
}

// Send writes a reply to a session.
func (t *UnixTransport) Send(id int, data []byte) error {
	for len(data) > 0 {
		n, err := unix.Write(id, data)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return errors.Wrapf(err, "write session %d", id)
		}
		data = data[n:]
	}
	return nil
}

func (t *UnixTransport) Disconnect(id int) {
	if _, ok := t.conns[id]; ok {
		delete(t.conns, id)
		unix.Close(id)
	}
}

func (t *UnixTransport) Close() error {
	for id := range t.conns {
		t.Disconnect(id)
	}
	err := unix.Close(t.fd)
	os.Remove(t.path)
	return err
}
