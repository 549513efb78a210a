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

// Package fbdev drives a Linux framebuffer device through its memory map.
package fbdev

import (
	"github.com/andreas-jonsson/virtualwin/engine"
	"github.com/pkg/errors"
)

// <linux/fb.h>
const (
	visualTrueColor    = 2
	visualPseudoColor  = 3
	visualDirectColor  = 4
	visualStaticPseudo = 5

	typePackedPixels = 0
)

var ErrUnsupported = errors.New("unsupported framebuffer layout")

// bitField mirrors struct fb_bitfield.
type bitField struct {
	Offset   uint32
	Length   uint32
	MsbRight uint32
}

func (b bitField) mask() uint32 {
	return (1<<b.Length - 1) << b.Offset
}

// varScreenInfo mirrors struct fb_var_screeninfo.
type varScreenInfo struct {
	XRes, YRes               uint32
	XResVirtual, YResVirtual uint32
	XOffset, YOffset         uint32
	BitsPerPixel             uint32
	Grayscale                uint32
	Red, Green, Blue, Alpha  bitField
	NonStd                   uint32
	Activate                 uint32
	Height, Width            uint32
	_                        uint32
	PixelClock               uint32
	LeftMargin, RightMargin  uint32
	UpperMargin, LowerMargin uint32
	HSyncLen, VSyncLen       uint32
	Sync                     uint32
	VMode                    uint32
	Rotate                   uint32
	ColorSpace               uint32
	_                        [4]uint32
}

// fixScreenInfo mirrors struct fb_fix_screeninfo.
type fixScreenInfo struct {
	ID           [16]byte
	SMemStart    uintptr
	SMemLen      uint32
	Type         uint32
	TypeAux      uint32
	Visual       uint32
	XPanStep     uint16
	YPanStep     uint16
	YWrapStep    uint16
	LineLength   uint32
	MmioStart    uintptr
	MmioLen      uint32
	Accel        uint32
	Capabilities uint16
	_            [2]uint16
}

// pixelFormat maps the kernel's description of a packed pixel layout to
// one the engine converts to.
func pixelFormat(v *varScreenInfo, f *fixScreenInfo) (engine.PixelFormat, int, error) {
	if f.Type != typePackedPixels {
		return 0, 0, errors.Wrapf(ErrUnsupported, "framebuffer type %d", f.Type)
	}

	switch f.Visual {
	case visualPseudoColor, visualStaticPseudo:
		switch v.BitsPerPixel {
		case 1, 2, 4, 8:
			return engine.PixelPalette, 1 << v.BitsPerPixel, nil
		}
	case visualTrueColor, visualDirectColor:
		r, g, b := v.Red, v.Green, v.Blue
		switch v.BitsPerPixel {
		case 32:
			if r.Offset == 0 && b.Offset == 16 {
				return engine.PixelTrueColorABGR, 0, nil
			}
			return engine.PixelTrueColor8888, 0, nil
		case 24:
			return engine.PixelTrueColor888, 0, nil
		case 16:
			if g.Length == 5 {
				return engine.PixelTrueColor555, 0, nil
			}
			return engine.PixelTrueColor565, 0, nil
		case 8:
			if r.Offset == 0 && r.Length == 3 && b.Length == 2 {
				return engine.PixelTrueColor233, 0, nil
			}
			return engine.PixelTrueColor332, 0, nil
		}
	}
	return 0, 0, errors.Wrapf(ErrUnsupported, "visual %d at %d bpp", f.Visual, v.BitsPerPixel)
}
