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

// Package tcell reads keyboard and mouse input from the terminal shared
// with the tcell screen driver.
package tcell

import (
	tcelldrv "github.com/andreas-jonsson/virtualwin/engine/driver/tcell"
	"github.com/andreas-jonsson/virtualwin/input"
	"github.com/andreas-jonsson/virtualwin/platform"
	"github.com/gdamore/tcell"
	log "github.com/sirupsen/logrus"
)

// Keyboard reports a press and release for every terminal key event.
type Keyboard struct {
	term  *tcelldrv.Terminal
	queue []input.KeyEvent
	mods  input.Modifiers
}

func NewKeyboard(term *tcelldrv.Terminal) *Keyboard {
	return &Keyboard{term: term}
}

func (k *Keyboard) Open() (platform.Source, error) {
	if err := k.term.Acquire(); err != nil {
		return platform.NoSource, err
	}
	src := k.term.KeySource()
	pending := src.Pending
	src.Pending = func() bool { return len(k.queue) > 0 || pending() }
	return src, nil
}

func (k *Keyboard) Close() {
	k.term.Release()
}

func (k *Keyboard) Modifiers() input.Modifiers {
	return k.mods
}

func (k *Keyboard) Read() (input.KeyEvent, bool, error) {
	for len(k.queue) == 0 {
		ev, ok := k.term.NextKey()
		if !ok {
			return input.KeyEvent{}, false, nil
		}
		k.push(ev)
	}
	ev := k.queue[0]
	k.queue = k.queue[1:]
	return ev, true, nil
}

func (k *Keyboard) push(ev *tcell.EventKey) {
	key := translateKey(ev)
	if key == 0 {
		log.WithField("component", "tcell").Debugf("unknown key %q", ev.Name())
		return
	}

	var mods input.Modifiers
	m := ev.Modifiers()
	if m&tcell.ModShift != 0 || input.NeedsShift(key) {
		mods |= input.ModLShift
	}
	if m&tcell.ModCtrl != 0 {
		mods |= input.ModLCtrl
	}
	if m&tcell.ModAlt != 0 {
		mods |= input.ModLAlt
	}
	k.mods = mods

	scan := input.ScancodeOf(key)
	k.queue = append(k.queue,
		input.KeyEvent{Key: key, Modifiers: mods, Scancode: scan, Pressed: true},
		input.KeyEvent{Key: key, Modifiers: mods, Scancode: scan | input.KeyUpMask},
	)
}

var keyMap = map[tcell.Key]input.Key{
	tcell.KeyEscape:     input.KeyEscape,
	tcell.KeyEnter:      input.KeyEnter,
	tcell.KeyBackspace:  input.KeyBackspace,
	tcell.KeyBackspace2: input.KeyBackspace,
	tcell.KeyTab:        input.KeyTab,
	tcell.KeyDelete:     input.KeyDelete,
	tcell.KeyLeft:       input.KeyLeft,
	tcell.KeyRight:      input.KeyRight,
	tcell.KeyUp:         input.KeyUp,
	tcell.KeyDown:       input.KeyDown,
	tcell.KeyInsert:     input.KeyInsert,
	tcell.KeyHome:       input.KeyHome,
	tcell.KeyEnd:        input.KeyEnd,
	tcell.KeyPgUp:       input.KeyPageUp,
	tcell.KeyPgDn:       input.KeyPageDown,
	tcell.KeyPrint:      input.KeyPrint,
	tcell.KeyF1:         input.KeyF1,
	tcell.KeyF2:         input.KeyF2,
	tcell.KeyF3:         input.KeyF3,
	tcell.KeyF4:         input.KeyF4,
	tcell.KeyF5:         input.KeyF5,
	tcell.KeyF6:         input.KeyF6,
	tcell.KeyF7:         input.KeyF7,
	tcell.KeyF8:         input.KeyF8,
	tcell.KeyF9:         input.KeyF9,
	tcell.KeyF10:        input.KeyF10,
	tcell.KeyF11:        input.KeyF11,
	tcell.KeyF12:        input.KeyF12,
}

func translateKey(ev *tcell.EventKey) input.Key {
	if ev.Key() == tcell.KeyRune {
		return input.Key(ev.Rune())
	}
	if k, ok := keyMap[ev.Key()]; ok {
		return k
	}
	if ev.Key() >= tcell.KeyCtrlA && ev.Key() <= tcell.KeyCtrlZ {
		return input.Key('a' + ev.Key() - tcell.KeyCtrlA)
	}
	return 0
}

// Mouse reports absolute cell positions.
type Mouse struct {
	term *tcelldrv.Terminal
}

func NewMouse(term *tcelldrv.Terminal) *Mouse {
	return &Mouse{term: term}
}

func (m *Mouse) Open() (platform.Source, error) {
	if err := m.term.Acquire(); err != nil {
		return platform.NoSource, err
	}
	return m.term.MouseSource(), nil
}

func (m *Mouse) Close() {
	m.term.Release()
}

func (m *Mouse) Read() (input.MouseEvent, bool, error) {
	ev, ok := m.term.NextMouse()
	if !ok {
		return input.MouseEvent{}, false, nil
	}

	x, y := ev.Position()
	var buttons input.Buttons
	b := ev.Buttons()
	if b&tcell.Button1 != 0 {
		buttons |= input.ButtonLeft
	}
	if b&tcell.Button2 != 0 {
		buttons |= input.ButtonRight
	}
	if b&tcell.Button3 != 0 {
		buttons |= input.ButtonMiddle
	}
	return input.MouseEvent{X: x, Y: y, Buttons: buttons}, true, nil
}
