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

// Package memory is a screen driver backed by a plain byte slice. It
// serves headless operation and tests.
package memory

import (
	"sync"

	"github.com/andreas-jonsson/virtualwin/engine"
	"github.com/pkg/errors"
)

// Format pairs a pixel layout with its storage depth.
type Format struct {
	PixType engine.PixelFormat
	BPP     int
}

var formats = map[string]Format{
	"mono":  {engine.PixelPalette, 1},
	"gray4": {engine.PixelPalette, 2},
	"ega":   {engine.PixelPalette, 4},
	"vga":   {engine.PixelPalette, 8},
	"8888":  {engine.PixelTrueColor8888, 32},
	"abgr":  {engine.PixelTrueColorABGR, 32},
	"888":   {engine.PixelTrueColor888, 24},
	"565":   {engine.PixelTrueColor565, 16},
	"555":   {engine.PixelTrueColor555, 16},
	"332":   {engine.PixelTrueColor332, 8},
	"233":   {engine.PixelTrueColor233, 8},
}

// LookupFormat resolves a configuration name like "565" or "vga".
func LookupFormat(name string) (Format, bool) {
	f, ok := formats[name]
	return f, ok
}

var ErrOpen = errors.New("memory screen is already open")

// Driver is safe to share with a goroutine that inspects the framebuffer.
type Driver struct {
	sync.Mutex

	Format     Format
	XRes, YRes int
	Flags      engine.Flags

	// Fail makes the next Open return this error.
	Fail error

	open    bool
	palette [engine.PaletteSize]engine.RGBEntry
	fills   int
	closes  int
	pending int
}

// New returns a driver with a 640x480 default surface.
func New(f Format) *Driver {
	return &Driver{Format: f, XRes: 640, YRes: 480}
}

func (drv *Driver) Open(mode engine.Mode) (*engine.Device, error) {
	drv.Lock()
	defer drv.Unlock()

	if err := drv.Fail; err != nil {
		drv.Fail = nil
		return nil, err
	}
	if drv.open {
		return nil, ErrOpen
	}

	xres, yres := drv.XRes, drv.YRes
	if mode.XRes > 0 {
		xres = mode.XRes
	}
	if mode.YRes > 0 {
		yres = mode.YRes
	}

	d := &engine.Device{
		XRes:     xres,
		YRes:     yres,
		XVirtRes: xres,
		YVirtRes: yres,
		Planes:   1,
		BPP:      drv.Format.BPP,
		PixType:  drv.Format.PixType,
		Flags:    drv.Flags,
		Driver:   drv,
	}
	if d.PixType == engine.PixelPalette {
		d.NColors = 1 << d.BPP
	}
	d.Pitch = (xres*d.BPP + 7) / 8
	d.Addr = make([]byte, d.Pitch*yres)

	drv.open = true
	return d, nil
}

func (drv *Driver) Close(d *engine.Device) {
	drv.Lock()
	drv.open = false
	drv.closes++
	drv.Unlock()
}

func (drv *Driver) SetPalette(d *engine.Device, first int, entries []engine.RGBEntry) {
	drv.Lock()
	copy(drv.palette[first:], entries)
	drv.Unlock()
}

func (drv *Driver) FillRect(d *engine.Device, x0, y0, x1, y1 int, c engine.Pixel) {
	drv.Lock()
	drv.fills++
	d.FillLinear(x0, y0, x1, y1, c)
	drv.Unlock()
}

func (drv *Driver) ScreenInfo(d *engine.Device) engine.ScreenInfo {
	info := engine.ScreenInfo{
		Rows:     d.YVirtRes,
		Cols:     d.XVirtRes,
		XDpcm:    27,
		YDpcm:    27,
		Planes:   d.Planes,
		BPP:      d.BPP,
		NColors:  d.NColors,
		PixType:  d.PixType,
		Portrait: d.Portrait,
	}
	switch d.PixType {
	case engine.PixelTrueColor8888, engine.PixelTrueColor888:
		info.RMask, info.GMask, info.BMask = 0xff0000, 0x00ff00, 0x0000ff
	case engine.PixelTrueColorABGR:
		info.RMask, info.GMask, info.BMask = 0x0000ff, 0x00ff00, 0xff0000
	case engine.PixelTrueColor565:
		info.RMask, info.GMask, info.BMask = 0xf800, 0x07e0, 0x001f
	case engine.PixelTrueColor555:
		info.RMask, info.GMask, info.BMask = 0x7c00, 0x03e0, 0x001f
	case engine.PixelTrueColor332:
		info.RMask, info.GMask, info.BMask = 0xe0, 0x1c, 0x03
	case engine.PixelTrueColor233:
		info.RMask, info.GMask, info.BMask = 0x07, 0x38, 0xc0
	}
	return info
}

// SetPortrait swaps the logical axes for left and right rotation. The
// virtual surface keeps its physical layout.
func (drv *Driver) SetPortrait(d *engine.Device, mode engine.Portrait) {
	drv.Lock()
	defer drv.Unlock()

	d.Portrait = mode
	switch mode {
	case engine.PortraitLeft, engine.PortraitRight:
		d.XRes, d.YRes = d.YVirtRes, d.XVirtRes
	default:
		d.XRes, d.YRes = d.XVirtRes, d.YVirtRes
	}
}

// Pend makes the next PreSelect report n pending events.
func (drv *Driver) Pend(n int) {
	drv.Lock()
	drv.pending = n
	drv.Unlock()
}

func (drv *Driver) PreSelect(d *engine.Device) int {
	drv.Lock()
	defer drv.Unlock()

	n := drv.pending
	drv.pending = 0
	return n
}

// HardwarePalette returns a copy of the palette as the driver last saw it.
func (drv *Driver) HardwarePalette() [engine.PaletteSize]engine.RGBEntry {
	drv.Lock()
	defer drv.Unlock()
	return drv.palette
}

// Stats reports how often FillRect and Close were called.
func (drv *Driver) Stats() (fills, closes int) {
	drv.Lock()
	defer drv.Unlock()
	return drv.fills, drv.closes
}
