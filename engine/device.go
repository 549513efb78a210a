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

package engine

import (
	"fmt"

	"github.com/pkg/errors"
)

// PixelFormat identifies how a device encodes a pixel.
type PixelFormat int

const (
	PixelPalette PixelFormat = iota
	PixelTrueColor8888
	PixelTrueColorABGR
	PixelTrueColor888
	PixelTrueColor565
	PixelTrueColor555
	PixelTrueColor332
	PixelTrueColor233
)

func (f PixelFormat) String() string {
	switch f {
	case PixelPalette:
		return "palette"
	case PixelTrueColor8888:
		return "8888"
	case PixelTrueColorABGR:
		return "abgr"
	case PixelTrueColor888:
		return "888"
	case PixelTrueColor565:
		return "565"
	case PixelTrueColor555:
		return "555"
	case PixelTrueColor332:
		return "332"
	case PixelTrueColor233:
		return "233"
	}
	return fmt.Sprintf("PixelFormat(%d)", int(f))
}

// Flags are device capability bits.
type Flags uint32

// FlagCantBlock marks a device whose event source can not be waited on
// for long. The dispatch loop caps its wait when this is set.
const FlagCantBlock Flags = 1 << 0

type Portrait int

const (
	PortraitNone Portrait = iota
	PortraitLeft
	PortraitRight
	PortraitDown
)

func (p Portrait) String() string {
	switch p {
	case PortraitNone:
		return "none"
	case PortraitLeft:
		return "left"
	case PortraitRight:
		return "right"
	case PortraitDown:
		return "down"
	}
	return fmt.Sprintf("Portrait(%d)", int(p))
}

// ParsePortrait maps a configuration name to a portrait mode.
func ParsePortrait(s string) (Portrait, error) {
	switch s {
	case "", "none":
		return PortraitNone, nil
	case "left":
		return PortraitLeft, nil
	case "right":
		return PortraitRight, nil
	case "down":
		return PortraitDown, nil
	}
	return PortraitNone, errors.Errorf("unknown portrait mode %q", s)
}

// Mode carries open hints for a driver. Zero values select the driver default.
type Mode struct {
	XRes, YRes int
}

// Device describes an open screen. Drivers fill it in on open; the engine
// owns it afterwards.
type Device struct {
	XRes, YRes         int
	XVirtRes, YVirtRes int
	Planes             int
	BPP                int
	NColors            int
	PixType            PixelFormat
	Flags              Flags
	Portrait           Portrait
	Pitch              int
	Addr               []byte

	Driver Driver
}

var ErrBadColorCount = errors.New("palette device color count must be a power of two no larger than 256")

// Validate checks the color count against the pixel format.
func (d *Device) Validate() error {
	if d.PixType != PixelPalette {
		if d.NColors != 0 {
			return errors.Errorf("truecolor device reports %d colors", d.NColors)
		}
		return nil
	}
	n := d.NColors
	if n < 2 || n > PaletteSize || n&(n-1) != 0 {
		return errors.Wrapf(ErrBadColorCount, "got %d", n)
	}
	return nil
}

func (d *Device) CanBlock() bool {
	return d.Flags&FlagCantBlock == 0
}

// PreSelecter returns the driver's pre-wait hook if it has one.
func (d *Device) PreSelecter() (PreSelecter, bool) {
	p, ok := d.Driver.(PreSelecter)
	return p, ok
}

func (d *Device) Portraiter() (Portraiter, bool) {
	p, ok := d.Driver.(Portraiter)
	return p, ok
}

// ScreenInfo is the snapshot reported to clients.
type ScreenInfo struct {
	Rows, Cols   int
	XDpcm, YDpcm int
	Planes       int
	BPP          int
	NColors      int
	PixType      PixelFormat
	Portrait     Portrait
	FontCount    int
	Buttons      int
	Modifiers    uint32
	RMask, GMask uint32
	BMask        uint32
	XPos, YPos   int
}

// Driver is the contract every screen backend implements.
type Driver interface {
	Open(mode Mode) (*Device, error)
	Close(d *Device)
	SetPalette(d *Device, first int, entries []RGBEntry)
	FillRect(d *Device, x0, y0, x1, y1 int, c Pixel)
	ScreenInfo(d *Device) ScreenInfo
}

// PreSelecter is implemented by drivers that need to run before the
// dispatch loop waits. The return value is the number of events already
// pending at the device.
type PreSelecter interface {
	PreSelect(d *Device) int
}

type Portraiter interface {
	SetPortrait(d *Device, mode Portrait)
}
