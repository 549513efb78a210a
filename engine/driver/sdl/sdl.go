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

// Package sdl shows the screen in an SDL window. SDL has to be pumped
// from the main thread, so the device can not block in the dispatch loop.
package sdl

import (
	"github.com/andreas-jonsson/virtualwin/engine"
	"github.com/pkg/errors"
	"github.com/veandco/go-sdl2/sdl"
)

// Run executes f with SDL bound to the main thread.
func Run(f func()) {
	sdl.Main(f)
}

type Driver struct {
	Title      string
	Fullscreen bool
	XRes, YRes int

	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	dirty    bool
}

func New() *Driver {
	return &Driver{Title: "VirtualWin", XRes: 640, YRes: 480}
}

func (drv *Driver) Open(mode engine.Mode) (*engine.Device, error) {
	w, h := drv.XRes, drv.YRes
	if mode.XRes > 0 {
		w = mode.XRes
	}
	if mode.YRes > 0 {
		h = mode.YRes
	}

	var err error
	sdl.Do(func() {
		if err = sdl.InitSubSystem(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
			return
		}
		sdl.SetHint(sdl.HINT_RENDER_SCALE_QUALITY, "0")

		flags := uint32(sdl.WINDOW_RESIZABLE)
		if drv.Fullscreen {
			flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
		}
		if drv.window, drv.renderer, err = sdl.CreateWindowAndRenderer(int32(w), int32(h), flags); err != nil {
			sdl.QuitSubSystem(sdl.INIT_VIDEO | sdl.INIT_EVENTS)
			return
		}
		drv.window.SetTitle(drv.Title)
		if drv.texture, err = drv.renderer.CreateTexture(sdl.PIXELFORMAT_ARGB8888, sdl.TEXTUREACCESS_STREAMING, int32(w), int32(h)); err != nil {
			drv.destroy()
			return
		}
		err = drv.renderer.SetLogicalSize(int32(w), int32(h))
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not open SDL window")
	}

	d := &engine.Device{
		XRes:     w,
		YRes:     h,
		XVirtRes: w,
		YVirtRes: h,
		Planes:   1,
		BPP:      32,
		PixType:  engine.PixelTrueColor8888,
		Flags:    engine.FlagCantBlock,
		Pitch:    w * 4,
		Driver:   drv,
	}
	d.Addr = make([]byte, d.Pitch*h)
	return d, nil
}

func (drv *Driver) destroy() {
	if drv.texture != nil {
		drv.texture.Destroy()
	}
	drv.renderer.Destroy()
	drv.window.Destroy()
	sdl.QuitSubSystem(sdl.INIT_VIDEO | sdl.INIT_EVENTS)
}

func (drv *Driver) Close(d *engine.Device) {
	sdl.Do(drv.destroy)
}

func (drv *Driver) SetPalette(*engine.Device, int, []engine.RGBEntry) {}

func (drv *Driver) FillRect(d *engine.Device, x0, y0, x1, y1 int, c engine.Pixel) {
	d.FillLinear(x0, y0, x1, y1, c)
	drv.dirty = true
}

func (drv *Driver) ScreenInfo(d *engine.Device) engine.ScreenInfo {
	return engine.ScreenInfo{
		Rows:     d.YVirtRes,
		Cols:     d.XVirtRes,
		XDpcm:    37,
		YDpcm:    37,
		Planes:   d.Planes,
		BPP:      d.BPP,
		PixType:  d.PixType,
		Portrait: d.Portrait,
		RMask:    0xff0000,
		GMask:    0x00ff00,
		BMask:    0x0000ff,
	}
}

// PreSelect presents the frame if it changed and reports queued SDL events.
func (drv *Driver) PreSelect(d *engine.Device) int {
	var pending int
	sdl.Do(func() {
		if drv.dirty {
			drv.dirty = false
			drv.texture.Update(nil, d.Addr, d.Pitch)
			drv.renderer.Copy(drv.texture, nil, nil)
			drv.renderer.Present()
		}
		sdl.PumpEvents()
		if sdl.HasEvents(sdl.FIRSTEVENT, sdl.LASTEVENT) {
			pending = 1
		}
	})
	return pending
}
