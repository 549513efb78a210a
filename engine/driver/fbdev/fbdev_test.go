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

package fbdev

import (
	"testing"

	"github.com/andreas-jonsson/virtualwin/engine"
	"github.com/pkg/errors"
)

func TestPixelFormat(t *testing.T) {
	tests := []struct {
		name    string
		visual  uint32
		bpp     uint32
		r, g, b bitField
		want    engine.PixelFormat
		ncolors int
	}{
		{name: "vga", visual: visualPseudoColor, bpp: 8, want: engine.PixelPalette, ncolors: 256},
		{name: "ega", visual: visualStaticPseudo, bpp: 4, want: engine.PixelPalette, ncolors: 16},
		{name: "argb", visual: visualTrueColor, bpp: 32, r: bitField{Offset: 16, Length: 8}, b: bitField{Length: 8}, want: engine.PixelTrueColor8888},
		{name: "abgr", visual: visualTrueColor, bpp: 32, r: bitField{Length: 8}, b: bitField{Offset: 16, Length: 8}, want: engine.PixelTrueColorABGR},
		{name: "888", visual: visualTrueColor, bpp: 24, want: engine.PixelTrueColor888},
		{name: "565", visual: visualTrueColor, bpp: 16, g: bitField{Offset: 5, Length: 6}, want: engine.PixelTrueColor565},
		{name: "555", visual: visualDirectColor, bpp: 16, g: bitField{Offset: 5, Length: 5}, want: engine.PixelTrueColor555},
		{name: "332", visual: visualTrueColor, bpp: 8, r: bitField{Offset: 5, Length: 3}, b: bitField{Length: 2}, want: engine.PixelTrueColor332},
		{name: "233", visual: visualTrueColor, bpp: 8, r: bitField{Length: 3}, b: bitField{Offset: 6, Length: 2}, want: engine.PixelTrueColor233},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := varScreenInfo{BitsPerPixel: tt.bpp, Red: tt.r, Green: tt.g, Blue: tt.b}
			f := fixScreenInfo{Visual: tt.visual}
			got, n, err := pixelFormat(&v, &f)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want || n != tt.ncolors {
				t.Errorf("got %v/%d, want %v/%d", got, n, tt.want, tt.ncolors)
			}
		})
	}
}

func TestPixelFormatUnsupported(t *testing.T) {
	v := varScreenInfo{BitsPerPixel: 12}
	f := fixScreenInfo{Visual: visualTrueColor}
	if _, _, err := pixelFormat(&v, &f); !errors.Is(err, ErrUnsupported) {
		t.Errorf("got %v", err)
	}

	f = fixScreenInfo{Type: 1, Visual: visualPseudoColor}
	v.BitsPerPixel = 8
	if _, _, err := pixelFormat(&v, &f); !errors.Is(err, ErrUnsupported) {
		t.Errorf("planar: %v", err)
	}
}

func TestBitFieldMask(t *testing.T) {
	if m := (bitField{Offset: 11, Length: 5}).mask(); m != 0xf800 {
		t.Errorf("mask %#x", m)
	}
}
