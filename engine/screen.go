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
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var ErrScreenClosed = errors.New("screen already closed")

type RasterOp int

const (
	RopCopy RasterOp = iota
	RopXor
	RopOr
	RopAnd
	RopClear
	RopSet
	RopEqv
	RopNor
	RopNand
	RopInvert
	RopCopyInverted
	RopOrInverted
	RopAndInverted
	RopOrReverse
	RopAndReverse
	RopNoop
)

type FillMode int

const (
	FillSolid FillMode = iota
	FillStippled
	FillOpaqueStippled
	FillTiled
)

// Rect is an inclusive clip rectangle.
type Rect struct {
	X0, Y0, X1, Y1 int
}

// Dash is an on/off bit pattern. Count zero means solid lines.
type Dash struct {
	Mask  uint32
	Count int
}

// Stipple is a monochrome fill pattern.
type Stipple struct {
	Width, Height int
	Bits          []uint16
}

// PointerState is merged into screen info queries.
type PointerState struct {
	X, Y      int
	Buttons   int
	Modifiers uint32
}

type ScreenOption func(*Screen)

// WithUniformPalette reserves the whole 256 color table for the system.
func WithUniformPalette() ScreenOption {
	return func(s *Screen) {
		s.uniform = true
	}
}

func WithMode(m Mode) ScreenOption {
	return func(s *Screen) {
		s.mode = m
	}
}

// WithClipping(false) leaves the screen unclipped.
func WithClipping(b bool) ScreenOption {
	return func(s *Screen) {
		s.clipping = b
	}
}

func WithLogger(l *log.Entry) ScreenOption {
	return func(s *Screen) {
		s.log = l
	}
}

// Screen is one open display device with its palette and drawing state.
type Screen struct {
	dev     *Device
	palette Palette

	mode     Mode
	uniform  bool
	clipping bool
	log      *log.Entry

	rop           RasterOp
	fillMode      FillMode
	fg, bg        Color
	fgPix, bgPix  Pixel
	useBackground bool
	dash          Dash
	stipple       *Stipple
	clip          []Rect

	closeOnce sync.Once
}

// OpenScreen opens the driver and brings the device to its default state.
func OpenScreen(drv Driver, opts ...ScreenOption) (*Screen, error) {
	s := &Screen{
		clipping: true,
		log:      log.WithField("component", "screen"),
	}
	for _, opt := range opts {
		opt(s)
	}

	dev, err := drv.Open(s.mode)
	if err != nil {
		return nil, errors.Wrap(err, "could not open screen driver")
	}
	if dev.Driver == nil {
		dev.Driver = drv
	}
	if err := dev.Validate(); err != nil {
		drv.Close(dev)
		return nil, err
	}
	s.dev = dev

	switch {
	case dev.PixType != PixelPalette:
		s.palette.firstUser = 0
	case dev.NColors == PaletteSize && s.uniform:
		s.palette.firstUser = PaletteSize
	case dev.NColors == PaletteSize:
		s.palette.firstUser = ReservedEntries
	default:
		s.palette.firstUser = 0
	}

	s.ResetPalette()
	if pal := StdPalette(dev.NColors); pal != nil && dev.PixType == PixelPalette {
		s.writePalette(0, pal)
	}

	s.rop = RopCopy
	s.fillMode = FillSolid
	s.SetForegroundColor(White)
	s.SetBackgroundColor(Black)
	s.useBackground = true
	s.dash = Dash{}
	s.stipple = nil
	if s.clipping {
		s.clip = []Rect{{0, 0, dev.XRes - 1, dev.YRes - 1}}
	}

	drv.FillRect(dev, 0, 0, dev.XVirtRes-1, dev.YVirtRes-1, 0)

	s.log.WithFields(log.Fields{
		"xres":    dev.XRes,
		"yres":    dev.YRes,
		"bpp":     dev.BPP,
		"ncolors": dev.NColors,
		"format":  dev.PixType,
	}).Info("screen opened")
	return s, nil
}

// Close releases the device. Only the first call reaches the driver.
func (s *Screen) Close() error {
	err := ErrScreenClosed
	s.closeOnce.Do(func() {
		s.dev.Driver.Close(s.dev)
		err = nil
	})
	return err
}

func (s *Screen) Device() *Device {
	return s.dev
}

func (s *Screen) Palette() *Palette {
	return &s.palette
}

// ResetPalette rewinds the allocation cursor to the user boundary.
func (s *Screen) ResetPalette() {
	s.palette.reset()
}

// SetPalette is the client side palette write. A range that starts inside
// the system block is moved up to the boundary, dropping the entries that
// overlap it, and the rest is clamped to the device color count.
func (s *Screen) SetPalette(first int, entries []RGBEntry) {
	if s.dev.PixType != PixelPalette || first < 0 {
		return
	}
	if skip := s.palette.firstUser - first; skip > 0 {
		if skip >= len(entries) {
			return
		}
		entries = entries[skip:]
		first = s.palette.firstUser
	}
	s.writePalette(first, entries)
}

// writePalette ignores the user boundary.
func (s *Screen) writePalette(first int, entries []RGBEntry) {
	count := clampRange(first, len(entries), s.dev.NColors)
	if count <= 0 {
		return
	}
	entries = entries[:count]
	s.dev.Driver.SetPalette(s.dev, first, entries)
	copy(s.palette.entries[first:], entries)
}

// GetPalette copies up to len(out) entries starting at first and returns
// the number copied.
func (s *Screen) GetPalette(first int, out []RGBEntry) int {
	if s.dev.PixType != PixelPalette {
		return 0
	}
	count := clampRange(first, len(out), s.dev.NColors)
	if count <= 0 {
		return 0
	}
	return copy(out, s.palette.entries[first:first+count])
}

// FindColor converts a color value to the device pixel.
func (s *Screen) FindColor(c Color) Pixel {
	if s.dev.PixType == PixelPalette {
		return FindNearestColor(s.palette.entries[:s.dev.NColors], c)
	}
	return s.dev.PixType.FromColor(c)
}

// ColorRGB converts a device pixel back to a color value.
func (s *Screen) ColorRGB(p Pixel) Color {
	if s.dev.PixType == PixelPalette {
		return s.palette.Entry(int(p) & (PaletteSize - 1)).Color()
	}
	return s.dev.PixType.ToColor(p)
}

// SetPortraitMode asks the driver to rotate and returns the mode in effect.
func (s *Screen) SetPortraitMode(mode Portrait) Portrait {
	if p, ok := s.dev.Portraiter(); ok {
		p.SetPortrait(s.dev, mode)
		s.log.WithField("portrait", s.dev.Portrait).Debug("portrait mode changed")
	}
	return s.dev.Portrait
}

// Info merges driver geometry with the pointer and keyboard state.
func (s *Screen) Info(ps PointerState) ScreenInfo {
	info := s.dev.Driver.ScreenInfo(s.dev)
	info.Buttons = ps.Buttons
	info.Modifiers = ps.Modifiers
	info.XPos = ps.X
	info.YPos = ps.Y
	return info
}

func (s *Screen) FillRect(x0, y0, x1, y1 int, c Pixel) {
	s.dev.Driver.FillRect(s.dev, x0, y0, x1, y1, c)
}

// SetMode sets the raster op and returns the previous one.
func (s *Screen) SetMode(rop RasterOp) RasterOp {
	old := s.rop
	s.rop = rop
	return old
}

func (s *Screen) Mode() RasterOp {
	return s.rop
}

func (s *Screen) SetFillMode(m FillMode) FillMode {
	old := s.fillMode
	s.fillMode = m
	return old
}

func (s *Screen) FillMode() FillMode {
	return s.fillMode
}

// SetForegroundColor sets the foreground and returns the previous pixel.
func (s *Screen) SetForegroundColor(c Color) Pixel {
	old := s.fgPix
	s.fg = c
	s.fgPix = s.FindColor(c)
	return old
}

func (s *Screen) SetBackgroundColor(c Color) Pixel {
	old := s.bgPix
	s.bg = c
	s.bgPix = s.FindColor(c)
	return old
}

func (s *Screen) Foreground() (Color, Pixel) {
	return s.fg, s.fgPix
}

func (s *Screen) Background() (Color, Pixel) {
	return s.bg, s.bgPix
}

func (s *Screen) SetUseBackground(b bool) bool {
	old := s.useBackground
	s.useBackground = b
	return old
}

func (s *Screen) UseBackground() bool {
	return s.useBackground
}

func (s *Screen) SetDash(d Dash) Dash {
	old := s.dash
	s.dash = d
	return old
}

func (s *Screen) Dash() Dash {
	return s.dash
}

func (s *Screen) SetStipple(st *Stipple) {
	s.stipple = st
}

func (s *Screen) Stipple() *Stipple {
	return s.stipple
}

// SetClipRects replaces the clip region. A nil slice disables clipping.
func (s *Screen) SetClipRects(r []Rect) {
	s.clip = r
}

func (s *Screen) ClipRects() []Rect {
	return s.clip
}
