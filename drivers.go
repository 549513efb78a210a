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

package main

import (
	"github.com/andreas-jonsson/virtualwin/config"
	"github.com/andreas-jonsson/virtualwin/engine"
	"github.com/andreas-jonsson/virtualwin/engine/driver/memory"
	tcelldrv "github.com/andreas-jonsson/virtualwin/engine/driver/tcell"
	"github.com/andreas-jonsson/virtualwin/input"
	tcellin "github.com/andreas-jonsson/virtualwin/input/tcell"
	"github.com/andreas-jonsson/virtualwin/platform"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// stack is the set of drivers a configuration selects.
type stack struct {
	screen    engine.Driver
	keyboard  input.Keyboard
	keyboard2 input.Keyboard
	mouse     input.Mouse
	waiter    platform.Waiter

	term   *tcelldrv.Terminal
	reader platform.MessageReader
	quit   func()
}

func (st *stack) terminal() *tcelldrv.Terminal {
	if st.term == nil {
		st.term = tcelldrv.NewTerminal(nil)
	}
	return st.term
}

func newStack(cfg config.Config) (*stack, error) {
	st := &stack{}

	switch cfg.Screen {
	case config.ScreenMemory:
		f, _ := memory.LookupFormat(cfg.Format)
		st.screen = memory.New(f)
	case config.ScreenTcell:
		drv := tcelldrv.New(st.terminal())
		drv.TrueColor = cfg.TrueColor
		st.screen = drv
	case config.ScreenFBDev:
		drv, err := newFramebuffer(cfg.FBDevice)
		if err != nil {
			return nil, err
		}
		st.screen = drv
	case config.ScreenSDL:
		if err := newSDL(st, cfg); err != nil {
			return nil, err
		}
	}

	var err error
	if st.keyboard, err = st.newKeyboard(cfg.Keyboard, cfg.KeyboardDevice); err != nil {
		return nil, err
	}
	if cfg.Keyboard2 != "" && cfg.Keyboard2 != config.InputNone {
		if st.keyboard2, err = st.newKeyboard(cfg.Keyboard2, ""); err != nil {
			return nil, err
		}
	}

	switch cfg.Mouse {
	case config.InputNone:
		st.mouse = input.NullMouse{}
	case config.InputTcell:
		st.mouse = tcellin.NewMouse(st.terminal())
	case config.InputSerial:
		if st.mouse, err = newSerialMouse(cfg.MouseDevice); err != nil {
			return nil, err
		}
	case config.InputSDL:
		if st.mouse == nil {
			return nil, errors.New("sdl mouse needs the sdl screen")
		}
	}

	st.waiter, err = st.newWaiter(cfg.Waiter)
	return st, err
}

func (st *stack) newKeyboard(name, device string) (input.Keyboard, error) {
	switch name {
	case config.InputNone:
		return input.NullKeyboard{}, nil
	case config.InputTcell:
		return tcellin.NewKeyboard(st.terminal()), nil
	case config.InputTTY:
		return newTTYKeyboard(device)
	case config.InputSDL:
		if st.keyboard == nil {
			return nil, errors.New("sdl keyboard needs the sdl screen")
		}
		return st.keyboard, nil
	}
	return nil, errors.Wrap(config.ErrUnknownKeyboard, name)
}

// newWaiter picks the wait primitive. Drivers that deliver input from
// their own goroutine or event queue decide it for themselves.
func (st *stack) newWaiter(name string) (platform.Waiter, error) {
	switch {
	case st.reader != nil:
		if name != config.WaiterAuto {
			log.WithField("waiter", name).Warn("sdl input needs its own waiter, ignoring setting")
		}
		return platform.NewReadWaiter(st.reader), nil
	case st.term != nil:
		if name != config.WaiterAuto && name != config.WaiterQueue {
			log.WithField("waiter", name).Warn("terminal input needs a message queue, ignoring setting")
		}
		q := platform.NewQueue()
		st.term.SetNotify(q.Post)
		return q, nil
	case name == config.WaiterQueue:
		return platform.NewQueue(), nil
	}
	return newDescriptorWaiter(name)
}
