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
	log "github.com/sirupsen/logrus"
)

// Color is a device independent color value laid out as 0xAABBGGRR.
type Color uint32

// Pixel is a device encoded value, either a palette index or packed truecolor.
type Pixel uint32

const (
	Black Color = 0xFF000000
	White Color = 0xFFFFFFFF
)

func RGB(r, g, b uint8) Color {
	return ARGB(0xFF, r, g, b)
}

func ARGB(a, r, g, b uint8) Color {
	return Color(a)<<24 | Color(b)<<16 | Color(g)<<8 | Color(r)
}

func (c Color) R() uint8 { return uint8(c) }
func (c Color) G() uint8 { return uint8(c >> 8) }
func (c Color) B() uint8 { return uint8(c >> 16) }
func (c Color) A() uint8 { return uint8(c >> 24) }

// RGBEntry is one palette slot.
type RGBEntry struct {
	R, G, B uint8
}

// Color returns the opaque color value of the entry.
func (e RGBEntry) Color() Color {
	return RGB(e.R, e.G, e.B)
}

// FromColor packs a color value for a truecolor format. Palette devices
// need a palette search and go through Screen.FindColor instead.
func (f PixelFormat) FromColor(c Color) Pixel {
	v := uint32(c)
	switch f {
	case PixelTrueColor8888:
		return Pixel((v&0xff)<<16 | v&0xff00ff00 | (v&0xff0000)>>16)
	case PixelTrueColorABGR:
		return Pixel(v)
	case PixelTrueColor888:
		return Pixel((v&0xff)<<16 | v&0xff00 | (v&0xff0000)>>16)
	case PixelTrueColor565:
		return Pixel((v&0xf8)<<8 | (v&0xfc00)>>5 | (v&0xf80000)>>19)
	case PixelTrueColor555:
		return Pixel((v&0xf8)<<7 | (v&0xf800)>>6 | (v&0xf80000)>>19)
	case PixelTrueColor332:
		return Pixel(v&0xe0 | (v&0xe000)>>11 | (v&0xc00000)>>22)
	case PixelTrueColor233:
		return Pixel((v&0xc00000)>>16 | (v&0xe000)>>10 | (v&0xe0)>>5)
	}
	log.Panicf("no color packing for pixel format %v", f)
	return 0
}

// ToColor unpacks a truecolor pixel. Formats without an alpha channel
// come back fully opaque.
func (f PixelFormat) ToColor(p Pixel) Color {
	v := uint32(p)
	switch f {
	case PixelTrueColor8888:
		return Color((v&0xff0000)>>16 | v&0xff00ff00 | (v&0xff)<<16)
	case PixelTrueColorABGR:
		return Color(v)
	case PixelTrueColor888:
		return Color(0xff000000 | (v&0xff0000)>>16 | v&0xff00 | (v&0xff)<<16)
	case PixelTrueColor565:
		return Color(0xff000000 | (v&0xf800)>>8 | (v&0x07e0)<<5 | (v&0x1f)<<19)
	case PixelTrueColor555:
		return Color(0xff000000 | (v&0x7c00)>>7 | (v&0x03e0)<<6 | (v&0x1f)<<19)
	case PixelTrueColor332:
		return Color(0xff000000 | v&0xe0 | (v&0x1c)<<11 | (v&0x03)<<22)
	case PixelTrueColor233:
		return Color(0xff000000 | (v&0x07)<<5 | (v&0x38)<<10 | (v&0xc0)<<16)
	}
	log.Panicf("no color unpacking for pixel format %v", f)
	return 0
}

// FindNearestColor returns the index of the palette entry closest to c by
// summed absolute channel difference. Ties keep the lowest index and an
// exact match ends the search. An empty palette yields 0.
func FindNearestColor(pal []RGBEntry, c Color) Pixel {
	r, g, b := int(c.R()), int(c.G()), int(c.B())

	var best Pixel
	bestDist := int(^uint(0) >> 1)
	for i, e := range pal {
		d := abs(int(e.R)-r) + abs(int(e.G)-g) + abs(int(e.B)-b)
		if d < bestDist {
			if d == 0 {
				return Pixel(i)
			}
			bestDist = d
			best = Pixel(i)
		}
	}
	return best
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
