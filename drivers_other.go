//go:build !linux

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
	"github.com/andreas-jonsson/virtualwin/input"
	"github.com/andreas-jonsson/virtualwin/platform"
	"github.com/andreas-jonsson/virtualwin/server"
	"github.com/pkg/errors"
)

var errNotSupported = errors.New("not supported on this platform")

func newFramebuffer(string) (engine.Driver, error) {
	return nil, errors.Wrap(errNotSupported, "framebuffer")
}

func newTTYKeyboard(string) (input.Keyboard, error) {
	return nil, errors.Wrap(errNotSupported, "tty keyboard")
}

func newSerialMouse(string) (input.Mouse, error) {
	return nil, errors.Wrap(errNotSupported, "serial mouse")
}

func newDescriptorWaiter(name string) (platform.Waiter, error) {
	if name == config.WaiterAuto {
		return platform.NewQueue(), nil
	}
	return nil, errors.Wrapf(errNotSupported, "waiter %q", name)
}

func listen(string, func(server.Replier, int, []byte) error) (server.Transport, error) {
	return nil, errors.Wrap(errNotSupported, "socket transport")
}

func handleCapture(*server.Server) {}
