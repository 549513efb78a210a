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

package tcell

import (
	"github.com/andreas-jonsson/virtualwin/engine"
	"github.com/gdamore/tcell"
	"github.com/pkg/errors"
)

// Driver renders each pixel as the background of one terminal cell. In
// palette mode the device has the 16 CGA colors, otherwise it is a 32 bit
// truecolor device.
type Driver struct {
	TrueColor bool

	term    *Terminal
	palette [16]tcell.Color
}

func New(term *Terminal) *Driver {
	return &Driver{term: term}
}

func (drv *Driver) Open(mode engine.Mode) (*engine.Device, error) {
	if err := drv.term.Acquire(); err != nil {
		return nil, err
	}

	w, h := drv.term.Screen().Size()
	if mode.XRes > 0 && mode.XRes < w {
		w = mode.XRes
	}
	if mode.YRes > 0 && mode.YRes < h {
		h = mode.YRes
	}
	if w <= 0 || h <= 0 {
		drv.term.Release()
		return nil, errors.Errorf("terminal has no usable area (%dx%d)", w, h)
	}

	d := &engine.Device{
		XRes:     w,
		YRes:     h,
		XVirtRes: w,
		YVirtRes: h,
		Planes:   1,
		Driver:   drv,
	}
	if drv.TrueColor {
		d.BPP, d.PixType = 32, engine.PixelTrueColor8888
	} else {
		d.BPP, d.NColors, d.PixType = 4, 16, engine.PixelPalette
	}
	d.Pitch = (w*d.BPP + 7) / 8
	d.Addr = make([]byte, d.Pitch*h)
	return d, nil
}

func (drv *Driver) Close(d *engine.Device) {
	drv.term.Release()
}

func (drv *Driver) SetPalette(d *engine.Device, first int, entries []engine.RGBEntry) {
	for i, e := range entries {
		if n := first + i; n < len(drv.palette) {
			drv.palette[n] = tcell.NewRGBColor(int32(e.R), int32(e.G), int32(e.B))
		}
	}
}

func (drv *Driver) color(d *engine.Device, p engine.Pixel) tcell.Color {
	if d.PixType == engine.PixelPalette {
		return drv.palette[p&0xf]
	}
	c := d.PixType.ToColor(p)
	return tcell.NewRGBColor(int32(c.R()), int32(c.G()), int32(c.B()))
}

func (drv *Driver) FillRect(d *engine.Device, x0, y0, x1, y1 int, c engine.Pixel) {
	d.FillLinear(x0, y0, x1, y1, c)

	s := drv.term.Screen()
	style := tcell.StyleDefault.Background(drv.color(d, c))
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if x >= 0 && y >= 0 && x < d.XVirtRes && y < d.YVirtRes {
				s.SetContent(x, y, ' ', nil, style)
			}
		}
	}
}

func (drv *Driver) ScreenInfo(d *engine.Device) engine.ScreenInfo {
	info := engine.ScreenInfo{
		Rows:     d.YVirtRes,
		Cols:     d.XVirtRes,
		XDpcm:    4,
		YDpcm:    2,
		Planes:   d.Planes,
		BPP:      d.BPP,
		NColors:  d.NColors,
		PixType:  d.PixType,
		Portrait: d.Portrait,
	}
	if d.PixType == engine.PixelTrueColor8888 {
		info.RMask, info.GMask, info.BMask = 0xff0000, 0x00ff00, 0x0000ff
	}
	return info
}

// PreSelect flushes drawing to the terminal and reports buffered input.
func (drv *Driver) PreSelect(d *engine.Device) int {
	drv.term.Screen().Show()
	return drv.term.Pending()
}
