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

package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/andreas-jonsson/virtualwin/config"
	"github.com/andreas-jonsson/virtualwin/engine"
	"github.com/andreas-jonsson/virtualwin/engine/driver/fbdev"
	"github.com/andreas-jonsson/virtualwin/input"
	"github.com/andreas-jonsson/virtualwin/input/serial"
	"github.com/andreas-jonsson/virtualwin/input/tty"
	"github.com/andreas-jonsson/virtualwin/platform"
	"github.com/andreas-jonsson/virtualwin/server"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"golang.org/x/sys/unix"
)

func newFramebuffer(path string) (engine.Driver, error) {
	return fbdev.New(path), nil
}

func newTTYKeyboard(path string) (input.Keyboard, error) {
	return tty.New(path), nil
}

func newSerialMouse(path string) (input.Mouse, error) {
	return serial.New(path), nil
}

func newDescriptorWaiter(name string) (platform.Waiter, error) {
	switch name {
	case config.WaiterAuto, config.WaiterSelect:
		return platform.NewSelectWaiter(), nil
	case config.WaiterPoll:
		return platform.NewPollWaiter(), nil
	}
	return nil, errors.Wrap(config.ErrUnknownWaiter, name)
}

func listen(path string, handle func(server.Replier, int, []byte) error) (server.Transport, error) {
	var tr *server.UnixTransport
	tr, err := server.ListenUnix(path, func(id int, req []byte) error {
		return handle(tr, id, req)
	})
	if err != nil {
		return nil, err
	}
	return tr, nil
}

// handleCapture saves a screenshot on SIGUSR1.
func handleCapture(srv *server.Server) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, unix.SIGUSR1)
	go func() {
		fs := afero.NewOsFs()
		for range c {
			name := fmt.Sprintf("virtualwin-%d.bmp", srv.TickCount())
			if err := srv.Capture(fs, name); err != nil {
				log.WithError(err).Warn("screen capture failed")
				continue
			}
			log.WithField("file", name).Info("screen captured")
		}
	}()
}
