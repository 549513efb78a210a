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
	"flag"
	"testing"

	"github.com/andreas-jonsson/virtualwin/config"
	"github.com/andreas-jonsson/virtualwin/engine/driver/memory"
	tcelldrv "github.com/andreas-jonsson/virtualwin/engine/driver/tcell"
	"github.com/andreas-jonsson/virtualwin/input"
	"github.com/andreas-jonsson/virtualwin/platform"
	"github.com/spf13/afero"
)

func TestLoadConfig(t *testing.T) {
	fs := afero.NewMemMapFs()
	data := "screen = \"memory\"\nxres = 320\nyres = 200\nportrait = \"left\"\n"
	if err := afero.WriteFile(fs, "vw.toml", []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	configFile = "vw.toml"
	defer func() { configFile = "" }()
	flag.Set("x", "800")
	flag.Set("R", "true")
	flag.Set("e", "true")

	cfg, err := loadConfig(fs)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.XRes != 800 || cfg.YRes != 200 {
		t.Errorf("resolution %dx%d", cfg.XRes, cfg.YRes)
	}
	if cfg.Portrait != "right" || !cfg.EscapeQuits || cfg.Screen != config.ScreenMemory {
		t.Errorf("config %+v", cfg)
	}
}

func TestNewStack(t *testing.T) {
	t.Run("headless", func(t *testing.T) {
		cfg := config.Default()
		cfg.Screen = config.ScreenMemory
		cfg.Keyboard = config.InputNone
		cfg.Mouse = config.InputNone
		cfg.Waiter = config.WaiterQueue

		st, err := newStack(cfg)
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := st.screen.(*memory.Driver); !ok {
			t.Errorf("screen %T", st.screen)
		}
		if _, ok := st.keyboard.(input.NullKeyboard); !ok {
			t.Errorf("keyboard %T", st.keyboard)
		}
		if _, ok := st.mouse.(input.NullMouse); !ok {
			t.Errorf("mouse %T", st.mouse)
		}
		if _, ok := st.waiter.(*platform.Queue); !ok {
			t.Errorf("waiter %T", st.waiter)
		}
		if st.keyboard2 != nil {
			t.Error("unexpected second keyboard")
		}
	})

	t.Run("terminal", func(t *testing.T) {
		st, err := newStack(config.Default())
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := st.screen.(*tcelldrv.Driver); !ok {
			t.Errorf("screen %T", st.screen)
		}
		if _, ok := st.waiter.(*platform.Queue); !ok {
			t.Errorf("terminal input should force a queue, got %T", st.waiter)
		}
	})

	t.Run("sdl keyboard without sdl", func(t *testing.T) {
		cfg := config.Default()
		cfg.Screen = config.ScreenMemory
		cfg.Keyboard = config.InputSDL
		if _, err := newStack(cfg); err == nil {
			t.Error("expected an error")
		}
	})
}
