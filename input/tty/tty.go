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

// Package tty reads the keyboard from a terminal in raw mode.
package tty

import (
	"bytes"
	"os"
	"unicode/utf8"

	"github.com/andreas-jonsson/virtualwin/input"
	"github.com/andreas-jonsson/virtualwin/platform"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

const maxBufferSize = 64

// Keyboard decodes terminal input into key presses. Terminals do not
// report releases, so every press is followed by a synthetic release.
type Keyboard struct {
	Path string

	fd       int
	file     *os.File
	oldState *term.State
	buffer   bytes.Buffer
	queue    []input.KeyEvent
	mods     input.Modifiers
}

// New returns a keyboard for the named terminal, "" means standard input.
func New(path string) *Keyboard {
	return &Keyboard{Path: path, fd: -1}
}

func (k *Keyboard) Open() (platform.Source, error) {
	k.fd = int(os.Stdin.Fd())
	if k.Path != "" {
		fp, err := os.OpenFile(k.Path, os.O_RDONLY|unix.O_NOCTTY, 0)
		if err != nil {
			return platform.NoSource, errors.Wrap(err, "could not open keyboard")
		}
		k.file = fp
		k.fd = int(fp.Fd())
	}

	if term.IsTerminal(k.fd) {
		st, err := term.MakeRaw(k.fd)
		if err != nil {
			k.Close()
			return platform.NoSource, errors.Wrap(err, "could not set raw mode")
		}
		k.oldState = st
	}
	if err := unix.SetNonblock(k.fd, true); err != nil {
		k.Close()
		return platform.NoSource, errors.Wrap(err, "could not set non-blocking mode")
	}
	return platform.Source{FD: k.fd, Pending: k.pending}, nil
}

func (k *Keyboard) Close() {
	if k.fd < 0 {
		return
	}
	unix.SetNonblock(k.fd, false)
	if k.oldState != nil {
		term.Restore(k.fd, k.oldState)
		k.oldState = nil
	}
	if k.file != nil {
		k.file.Close()
		k.file = nil
	}
	k.fd = -1
}

func (k *Keyboard) pending() bool {
	return len(k.queue) > 0
}

func (k *Keyboard) Modifiers() input.Modifiers {
	return k.mods
}

func (k *Keyboard) Read() (input.KeyEvent, bool, error) {
	if len(k.queue) == 0 {
		if err := k.fill(); err != nil {
			return input.KeyEvent{}, false, err
		}
		k.decode()
	}
	if len(k.queue) == 0 {
		return input.KeyEvent{}, false, nil
	}
	ev := k.queue[0]
	k.queue = k.queue[1:]
	return ev, true, nil
}

func (k *Keyboard) fill() error {
	var buf [maxBufferSize]byte
	room := maxBufferSize - k.buffer.Len()
	if room <= 0 {
		return nil
	}
	n, err := unix.Read(k.fd, buf[:room])
	if err == unix.EAGAIN || err == unix.EINTR {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "keyboard read failed")
	}
	k.buffer.Write(buf[:n])
	return nil
}

func (k *Keyboard) decode() {
	for k.buffer.Len() > 0 {
		key, n := parse(k.buffer.Bytes())
		if n == 0 {
			return
		}
		k.buffer.Next(n)
		if key == 0 {
			log.WithField("component", "tty").Debug("unknown key sequence")
			continue
		}
		k.push(key)
	}
}

func (k *Keyboard) push(key input.Key) {
	mods := input.Modifiers(0)
	if input.NeedsShift(key) {
		mods |= input.ModLShift
	}
	if key > 0 && key < 27 && key != input.KeyBackspace && key != input.KeyTab && key != input.KeyEnter {
		mods |= input.ModLCtrl
		key += 'a' - 1
	}
	k.mods = mods

	scan := input.ScancodeOf(key)
	k.queue = append(k.queue,
		input.KeyEvent{Key: key, Modifiers: mods, Scancode: scan, Pressed: true},
		input.KeyEvent{Key: key, Modifiers: mods, Scancode: scan | input.KeyUpMask},
	)
}

var csiKeys = map[byte]input.Key{
	'A': input.KeyUp,
	'B': input.KeyDown,
	'C': input.KeyRight,
	'D': input.KeyLeft,
	'H': input.KeyHome,
	'F': input.KeyEnd,
}

var tildeKeys = map[string]input.Key{
	"1":  input.KeyHome,
	"2":  input.KeyInsert,
	"3":  input.KeyDelete,
	"4":  input.KeyEnd,
	"5":  input.KeyPageUp,
	"6":  input.KeyPageDown,
	"15": input.KeyF5,
	"17": input.KeyF6,
	"18": input.KeyF7,
	"19": input.KeyF8,
	"20": input.KeyF9,
	"21": input.KeyF10,
	"23": input.KeyF11,
	"24": input.KeyF12,
}

var ss3Keys = map[byte]input.Key{
	'P': input.KeyF1,
	'Q': input.KeyF2,
	'R': input.KeyF3,
	'S': input.KeyF4,
	'H': input.KeyHome,
	'F': input.KeyEnd,
}

// parse decodes one key from b and returns how many bytes it used. A
// zero length means the sequence is incomplete; a zero key with a
// non-zero length is an unknown sequence to skip.
func parse(b []byte) (input.Key, int) {
	if len(b) == 0 {
		return 0, 0
	}
	c := b[0]
	if c != 0x1b {
		switch c {
		case 0x7f, 0x08:
			return input.KeyBackspace, 1
		case '\r', '\n':
			return input.KeyEnter, 1
		}
		if c < 0x80 {
			return input.Key(c), 1
		}
		return decodeRune(b)
	}

	if len(b) == 1 {
		return input.KeyEscape, 1
	}
	switch b[1] {
	case '[':
		for i := 2; i < len(b); i++ {
			if b[i] >= 0x40 && b[i] <= 0x7e {
				if b[i] == '~' {
					return tildeKeys[string(b[2:i])], i + 1
				}
				return csiKeys[b[i]], i + 1
			}
		}
		return 0, 0
	case 'O':
		if len(b) < 3 {
			return 0, 0
		}
		return ss3Keys[b[2]], 3
	}
	return input.KeyEscape, 1
}

func decodeRune(b []byte) (input.Key, int) {
	if !utf8.FullRune(b) {
		return 0, 0
	}
	r, n := utf8.DecodeRune(b)
	if r == utf8.RuneError {
		return 0, n
	}
	return input.Key(r), n
}
