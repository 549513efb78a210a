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

// Package config reads the server configuration file.
package config

import (
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/andreas-jonsson/virtualwin/engine"
	"github.com/andreas-jonsson/virtualwin/engine/driver/memory"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

var (
	ErrUnknownKey      = errors.New("unknown key")
	ErrUnknownScreen   = errors.New("unknown screen driver")
	ErrUnknownFormat   = errors.New("unknown pixel format")
	ErrUnknownKeyboard = errors.New("unknown keyboard driver")
	ErrUnknownMouse    = errors.New("unknown mouse driver")
	ErrUnknownWaiter   = errors.New("unknown waiter")
	ErrBadPortrait     = errors.New("bad portrait mode")
	ErrBadResolution   = errors.New("bad resolution")
	ErrBadSessionLimit = errors.New("bad session limit")
	ErrBadLogLevel     = errors.New("bad log level")
)

// Driver names.
const (
	ScreenMemory = "memory"
	ScreenFBDev  = "fbdev"
	ScreenTcell  = "tcell"
	ScreenSDL    = "sdl"

	InputNone   = "none"
	InputTTY    = "tty"
	InputSerial = "serial"
	InputTcell  = "tcell"
	InputSDL    = "sdl"

	WaiterAuto   = ""
	WaiterSelect = "select"
	WaiterPoll   = "poll"
	WaiterQueue  = "queue"
)

type Config struct {
	EscapeQuits    bool   `toml:"escape_quits"`
	Persistent     bool   `toml:"persistent"`
	AutoPortrait   bool   `toml:"auto_portrait"`
	Portrait       string `toml:"portrait"`
	XRes           int    `toml:"xres"`
	YRes           int    `toml:"yres"`
	UniformPalette bool   `toml:"uniform_palette"`
	ThreadSafe     bool   `toml:"thread_safe"`

	Screen    string `toml:"screen"`
	Format    string `toml:"format"`
	FBDevice  string `toml:"fb_device"`
	TrueColor bool   `toml:"truecolor"`

	Keyboard       string `toml:"keyboard"`
	KeyboardDevice string `toml:"keyboard_device"`
	Keyboard2      string `toml:"keyboard2"`
	Mouse          string `toml:"mouse"`
	MouseDevice    string `toml:"mouse_device"`

	Waiter      string `toml:"waiter"`
	Socket      string `toml:"socket"`
	MaxSessions int    `toml:"max_sessions"`
	LogLevel    string `toml:"log_level"`
}

// Default is a terminal hosted server with a single in-process client.
func Default() Config {
	return Config{
		Screen:      ScreenTcell,
		Format:      "vga",
		FBDevice:    "/dev/fb0",
		Keyboard:    InputTcell,
		Keyboard2:   InputNone,
		Mouse:       InputTcell,
		MouseDevice: "/dev/ttyS0",
		MaxSessions: 64,
		LogLevel:    "info",
	}
}

// Load reads name from fs on top of the defaults. Keys the file sets
// that Config does not know are an error.
func Load(fs afero.Fs, name string) (Config, error) {
	cfg := Default()

	fp, err := fs.Open(name)
	if err != nil {
		return cfg, errors.Wrap(err, "could not open config")
	}
	defer fp.Close()

	md, err := toml.NewDecoder(fp).Decode(&cfg)
	if err != nil {
		return cfg, errors.Wrapf(err, "could not decode %s", name)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return cfg, errors.Wrapf(ErrUnknownKey, "%s: %v", name, keys)
	}
	return cfg, cfg.Validate()
}

// Save writes cfg as TOML.
func Save(fs afero.Fs, name string, cfg Config) error {
	fp, err := fs.Create(name)
	if err != nil {
		return errors.Wrap(err, "could not create config")
	}
	if err := toml.NewEncoder(fp).Encode(cfg); err != nil {
		fp.Close()
		return errors.Wrapf(err, "could not encode %s", name)
	}
	return fp.Close()
}

func oneOf(v string, names ...string) bool {
	for _, n := range names {
		if v == n {
			return true
		}
	}
	return false
}

func (c Config) Validate() error {
	if !oneOf(c.Screen, ScreenMemory, ScreenFBDev, ScreenTcell, ScreenSDL) {
		return errors.Wrapf(ErrUnknownScreen, "%q", c.Screen)
	}
	if c.Screen == ScreenMemory {
		if _, ok := memory.LookupFormat(c.Format); !ok {
			return errors.Wrapf(ErrUnknownFormat, "%q", c.Format)
		}
	}
	if !oneOf(c.Keyboard, InputNone, InputTTY, InputTcell, InputSDL) {
		return errors.Wrapf(ErrUnknownKeyboard, "%q", c.Keyboard)
	}
	if !oneOf(c.Keyboard2, "", InputNone, InputTTY) {
		return errors.Wrapf(ErrUnknownKeyboard, "second keyboard %q", c.Keyboard2)
	}
	if !oneOf(c.Mouse, InputNone, InputSerial, InputTcell, InputSDL) {
		return errors.Wrapf(ErrUnknownMouse, "%q", c.Mouse)
	}
	if !oneOf(c.Waiter, WaiterAuto, WaiterSelect, WaiterPoll, WaiterQueue) {
		return errors.Wrapf(ErrUnknownWaiter, "%q", c.Waiter)
	}
	if _, err := engine.ParsePortrait(c.Portrait); err != nil {
		return errors.Wrap(ErrBadPortrait, err.Error())
	}
	if c.XRes < 0 || c.YRes < 0 {
		return errors.Wrapf(ErrBadResolution, "%dx%d", c.XRes, c.YRes)
	}
	if c.MaxSessions < 0 {
		return errors.Wrapf(ErrBadSessionLimit, "%d", c.MaxSessions)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(ErrBadLogLevel, err.Error())
	}
	return nil
}

// PortraitMode returns the configured orientation. Invalid names read as
// no rotation; Validate reports them.
func (c Config) PortraitMode() engine.Portrait {
	p, _ := engine.ParsePortrait(c.Portrait)
	return p
}

func (c Config) Level() log.Level {
	l, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return l
}

// MultiSession reports whether clients connect over a socket.
func (c Config) MultiSession() bool {
	return c.Socket != ""
}
