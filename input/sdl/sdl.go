//go:build sdl

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

// Package sdl reads keyboard and mouse input from the SDL event queue. The
// queue doubles as the wait primitive of the dispatch loop.
package sdl

import (
	"time"

	"github.com/andreas-jonsson/virtualwin/input"
	"github.com/andreas-jonsson/virtualwin/platform"
	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"
)

const maxEvents = 64

// Input owns the SDL event queue and splits it into keyboard and mouse
// reports.
type Input struct {
	keySrc, mouseSrc int
	keys             []input.KeyEvent
	mice             []input.MouseEvent
	mods             input.Modifiers
	quit             func()
}

// New returns the input hub. quit is called when the window is closed.
func New(quit func()) *Input {
	return &Input{
		keySrc:   platform.NewKey(),
		mouseSrc: platform.NewKey(),
		quit:     quit,
	}
}

func (in *Input) Keyboard() input.Keyboard { return (*keyboard)(in) }
func (in *Input) Mouse() input.Mouse       { return (*mouse)(in) }

// ReadMessage waits for one SDL event and returns the source it was
// routed to.
func (in *Input) ReadMessage(timeout time.Duration) (int, error) {
	if len(in.keys) > 0 {
		return in.keySrc, nil
	}
	if len(in.mice) > 0 {
		return in.mouseSrc, nil
	}

	ms := int(timeout / time.Millisecond)
	deadline := time.Now().Add(timeout)
	for {
		var ev sdl.Event
		sdl.Do(func() {
			if timeout < 0 {
				ev = sdl.WaitEvent()
			} else {
				ev = sdl.WaitEventTimeout(ms)
			}
		})
		if ev == nil {
			return 0, platform.ErrTimeout
		}
		if key, ok := in.route(ev); ok {
			return key, nil
		}
		if timeout >= 0 {
			if ms = int(time.Until(deadline) / time.Millisecond); ms <= 0 {
				return 0, platform.ErrTimeout
			}
		}
	}
}

func (in *Input) pump() {
	sdl.Do(func() {
		for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
			in.route(ev)
		}
	})
}

func (in *Input) route(event sdl.Event) (int, bool) {
	switch ev := event.(type) {
	case *sdl.QuitEvent:
		if in.quit != nil {
			in.quit()
		}
	case *sdl.KeyboardEvent:
		key := translateKey(ev.Keysym)
		if key == 0 {
			log.WithField("component", "sdl").Debugf("invalid key %q", sdl.GetKeyName(ev.Keysym.Sym))
			return 0, false
		}
		in.mods = translateMods(ev.Keysym.Mod)
		scan := input.ScancodeOf(key)
		pressed := ev.Type == sdl.KEYDOWN
		if !pressed {
			scan |= input.KeyUpMask
		}
		if len(in.keys) < maxEvents {
			in.keys = append(in.keys, input.KeyEvent{Key: key, Modifiers: in.mods, Scancode: scan, Pressed: pressed})
		}
		return in.keySrc, true
	case *sdl.MouseMotionEvent:
		in.pushMouse(int(ev.X), int(ev.Y), ev.State)
		return in.mouseSrc, true
	case *sdl.MouseButtonEvent:
		x, y, state := sdl.GetMouseState()
		in.pushMouse(int(x), int(y), state)
		return in.mouseSrc, true
	}
	return 0, false
}

func (in *Input) pushMouse(x, y int, state uint32) {
	var buttons input.Buttons
	if state&sdl.ButtonLMask() != 0 {
		buttons |= input.ButtonLeft
	}
	if state&sdl.ButtonRMask() != 0 {
		buttons |= input.ButtonRight
	}
	if state&sdl.ButtonMMask() != 0 {
		buttons |= input.ButtonMiddle
	}
	if len(in.mice) < maxEvents {
		in.mice = append(in.mice, input.MouseEvent{X: x, Y: y, Buttons: buttons})
	}
}

func translateMods(m uint16) input.Modifiers {
	var mods input.Modifiers
	if m&sdl.KMOD_LSHIFT != 0 {
		mods |= input.ModLShift
	}
	if m&sdl.KMOD_RSHIFT != 0 {
		mods |= input.ModRShift
	}
	if m&sdl.KMOD_LCTRL != 0 {
		mods |= input.ModLCtrl
	}
	if m&sdl.KMOD_RCTRL != 0 {
		mods |= input.ModRCtrl
	}
	if m&sdl.KMOD_LALT != 0 {
		mods |= input.ModLAlt
	}
	if m&sdl.KMOD_RALT != 0 {
		mods |= input.ModRAlt
	}
	return mods
}

var keyMap = map[sdl.Keycode]input.Key{
	sdl.K_ESCAPE:      input.KeyEscape,
	sdl.K_RETURN:      input.KeyEnter,
	sdl.K_BACKSPACE:   input.KeyBackspace,
	sdl.K_TAB:         input.KeyTab,
	sdl.K_DELETE:      input.KeyDelete,
	sdl.K_LEFT:        input.KeyLeft,
	sdl.K_RIGHT:       input.KeyRight,
	sdl.K_UP:          input.KeyUp,
	sdl.K_DOWN:        input.KeyDown,
	sdl.K_INSERT:      input.KeyInsert,
	sdl.K_HOME:        input.KeyHome,
	sdl.K_END:         input.KeyEnd,
	sdl.K_PAGEUP:      input.KeyPageUp,
	sdl.K_PAGEDOWN:    input.KeyPageDown,
	sdl.K_PRINTSCREEN: input.KeyPrint,
	sdl.K_F1:          input.KeyF1,
	sdl.K_F2:          input.KeyF2,
	sdl.K_F3:          input.KeyF3,
	sdl.K_F4:          input.KeyF4,
	sdl.K_F5:          input.KeyF5,
	sdl.K_F6:          input.KeyF6,
	sdl.K_F7:          input.KeyF7,
	sdl.K_F8:          input.KeyF8,
	sdl.K_F9:          input.KeyF9,
	sdl.K_F10:         input.KeyF10,
	sdl.K_F11:         input.KeyF11,
	sdl.K_F12:         input.KeyF12,
}

func translateKey(sym sdl.Keysym) input.Key {
	if k, ok := keyMap[sym.Sym]; ok {
		return k
	}
	if sym.Sym >= 0x20 && sym.Sym < 0x7f {
		return input.Key(sym.Sym)
	}
	return 0
}

type keyboard Input

func (k *keyboard) Open() (platform.Source, error) {
	return platform.Source{FD: k.keySrc, Pending: func() bool { return len(k.keys) > 0 }}, nil
}

func (k *keyboard) Close() {}

func (k *keyboard) Modifiers() input.Modifiers {
	return k.mods
}

func (k *keyboard) Read() (input.KeyEvent, bool, error) {
	if len(k.keys) == 0 {
		(*Input)(k).pump()
	}
	if len(k.keys) == 0 {
		return input.KeyEvent{}, false, nil
	}
	ev := k.keys[0]
	k.keys = k.keys[1:]
	return ev, true, nil
}

type mouse Input

func (m *mouse) Open() (platform.Source, error) {
	return platform.Source{FD: m.mouseSrc, Pending: func() bool { return len(m.mice) > 0 }}, nil
}

func (m *mouse) Close() {}

func (m *mouse) Read() (input.MouseEvent, bool, error) {
	if len(m.mice) == 0 {
		(*Input)(m).pump()
	}
	if len(m.mice) == 0 {
		return input.MouseEvent{}, false, nil
	}
	ev := m.mice[0]
	m.mice = m.mice[1:]
	return ev, true, nil
}
