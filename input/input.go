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

// Package input defines the keyboard and mouse driver contracts.
package input

import (
	"github.com/andreas-jonsson/virtualwin/platform"
)

type Modifiers uint32

const (
	ModLShift Modifiers = 1 << iota
	ModRShift
	ModLCtrl
	ModRCtrl
	ModLAlt
	ModRAlt
	ModCapsLock
	ModNumLock

	ModShift = ModLShift | ModRShift
	ModCtrl  = ModLCtrl | ModRCtrl
	ModAlt   = ModLAlt | ModRAlt
)

type Buttons int

const (
	ButtonRight Buttons = 1 << iota
	ButtonMiddle
	ButtonLeft
)

// Key is a Unicode code point, or one of the function key values below.
type Key rune

const (
	KeyBackspace Key = 8
	KeyTab       Key = 9
	KeyEnter     Key = 13
	KeyEscape    Key = 27
	KeyDelete    Key = 127
)

const (
	KeyFirst Key = 0xF800 + iota
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyPrint
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

type KeyEvent struct {
	Key       Key
	Modifiers Modifiers
	Scancode  Scancode
	Pressed   bool
}

// MouseEvent is one pointer report. Relative reports carry deltas in
// X and Y, absolute ones carry the position.
type MouseEvent struct {
	X, Y     int
	Buttons  Buttons
	Relative bool
}

// Keyboard drivers report one key transition per Read. Read returns false
// when no more input is immediately available.
type Keyboard interface {
	Open() (platform.Source, error)
	Close()
	Read() (KeyEvent, bool, error)
	Modifiers() Modifiers
}

type Mouse interface {
	Open() (platform.Source, error)
	Close()
	Read() (MouseEvent, bool, error)
}

// NullKeyboard is a keyboard that never reports anything.
type NullKeyboard struct{}

func (NullKeyboard) Open() (platform.Source, error) { return platform.NoSource, nil }
func (NullKeyboard) Close()                         {}
func (NullKeyboard) Read() (KeyEvent, bool, error)  { return KeyEvent{}, false, nil }
func (NullKeyboard) Modifiers() Modifiers           { return 0 }

type NullMouse struct{}

func (NullMouse) Open() (platform.Source, error)  { return platform.NoSource, nil }
func (NullMouse) Close()                          {}
func (NullMouse) Read() (MouseEvent, bool, error) { return MouseEvent{}, false, nil }
