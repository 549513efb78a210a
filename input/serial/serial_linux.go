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

package serial

import (
	"os"

	"github.com/andreas-jonsson/virtualwin/input"
	"github.com/andreas-jonsson/virtualwin/platform"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Mouse reads a serial mouse at 1200 baud, 7 data bits, no parity.
type Mouse struct {
	Path string

	file    *os.File
	fd      int
	decoder Decoder
}

func New(path string) *Mouse {
	return &Mouse{Path: path, fd: -1}
}

func (m *Mouse) Open() (platform.Source, error) {
	fp, err := os.OpenFile(m.Path, os.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK, 0)
	if err != nil {
		return platform.NoSource, errors.Wrap(err, "could not open mouse")
	}
	fd := int(fp.Fd())

	tio, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		fp.Close()
		return platform.NoSource, errors.Wrap(err, "mouse is not a serial device")
	}
	tio.Iflag = unix.IGNBRK | unix.IGNPAR
	tio.Oflag = 0
	tio.Lflag = 0
	tio.Cflag = unix.CS7 | unix.CREAD | unix.CLOCAL | unix.HUPCL | unix.B1200
	tio.Ispeed = unix.B1200
	tio.Ospeed = unix.B1200
	tio.Cc[unix.VMIN] = 1
	tio.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(fd, unix.TCSETS, tio); err != nil {
		fp.Close()
		return platform.NoSource, errors.Wrap(err, "could not configure mouse port")
	}
	unix.SetNonblock(fd, true)

	m.file, m.fd = fp, fd
	m.decoder.Reset()
	return platform.Source{FD: fd, Pending: m.decoder.Buffered}, nil
}

func (m *Mouse) Close() {
	if m.file != nil {
		m.file.Close()
		m.file, m.fd = nil, -1
	}
}

func (m *Mouse) Read() (input.MouseEvent, bool, error) {
	if ev, ok := m.decoder.Next(); ok {
		return ev, true, nil
	}

	var buf [maxBufferSize]byte
	n, err := unix.Read(m.fd, buf[:])
	if err == unix.EAGAIN || err == unix.EINTR {
		return input.MouseEvent{}, false, nil
	}
	if err != nil {
		return input.MouseEvent{}, false, errors.Wrap(err, "mouse read failed")
	}
	m.decoder.Write(buf[:n])

	ev, ok := m.decoder.Next()
	return ev, ok, nil
}
