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

import "testing"

var trueColorFormats = []struct {
	format PixelFormat
	bits   uint
}{
	{PixelTrueColor8888, 32},
	{PixelTrueColorABGR, 32},
	{PixelTrueColor888, 24},
	{PixelTrueColor565, 16},
	{PixelTrueColor555, 15},
	{PixelTrueColor332, 8},
	{PixelTrueColor233, 8},
}

func TestPixelRoundTrip(t *testing.T) {
	for _, tc := range trueColorFormats {
		t.Run(tc.format.String(), func(t *testing.T) {
			step := uint32(1)
			if tc.bits > 16 {
				step = 0x010203
			}
			limit := uint64(1) << tc.bits
			for v := uint64(0); v < limit; v += uint64(step) {
				p := Pixel(v)
				if got := tc.format.FromColor(tc.format.ToColor(p)); got != p {
					t.Fatalf("pixel %#x came back as %#x", p, got)
				}
			}
		})
	}
}

func TestFromColor(t *testing.T) {
	c := ARGB(0x80, 0x12, 0x34, 0x56)

	tests := []struct {
		format PixelFormat
		want   Pixel
	}{
		{PixelTrueColor8888, 0x80123456},
		{PixelTrueColorABGR, 0x80563412},
		{PixelTrueColor888, 0x123456},
		{PixelTrueColor565, 0x11aa},
		{PixelTrueColor555, 0x08ca},
		{PixelTrueColor332, 0x05},
		{PixelTrueColor233, 0x48},
	}
	for _, tc := range tests {
		t.Run(tc.format.String(), func(t *testing.T) {
			if got := tc.format.FromColor(c); got != tc.want {
				t.Errorf("got %#x, want %#x", got, tc.want)
			}
		})
	}
}

func TestToColorKeepsTopBits(t *testing.T) {
	c := RGB(0xF3, 0x9D, 0x47)
	for _, tc := range trueColorFormats {
		t.Run(tc.format.String(), func(t *testing.T) {
			got := tc.format.ToColor(tc.format.FromColor(c))
			var rb, gb, bb uint
			switch tc.format {
			case PixelTrueColor565:
				rb, gb, bb = 5, 6, 5
			case PixelTrueColor555:
				rb, gb, bb = 5, 5, 5
			case PixelTrueColor332:
				rb, gb, bb = 3, 3, 2
			case PixelTrueColor233:
				rb, gb, bb = 3, 3, 2
			default:
				rb, gb, bb = 8, 8, 8
			}
			top := func(v uint8, n uint) uint8 { return v >> (8 - n) }
			if top(got.R(), rb) != top(c.R(), rb) || top(got.G(), gb) != top(c.G(), gb) || top(got.B(), bb) != top(c.B(), bb) {
				t.Errorf("%#x reconstructed as %#x", c, got)
			}
			if got.A() != 0xFF {
				t.Errorf("alpha %#x, want opaque", got.A())
			}
		})
	}
}

func TestUnknownFormatPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	PixelFormat(99).FromColor(White)
}

func TestFindNearestColor(t *testing.T) {
	t.Run("exact match wins", func(t *testing.T) {
		pal := []RGBEntry{{0, 0, 0}, {10, 10, 11}, {10, 10, 10}, {10, 10, 10}}
		if got := FindNearestColor(pal, RGB(10, 10, 10)); got != 2 {
			t.Errorf("got %d, want 2", got)
		}
	})

	t.Run("tie keeps lower index", func(t *testing.T) {
		pal := []RGBEntry{{0, 0, 40}, {20, 0, 0}, {0, 20, 0}}
		if got := FindNearestColor(pal, RGB(10, 10, 0)); got != 1 {
			t.Errorf("got %d, want 1", got)
		}
	})

	t.Run("manhattan distance", func(t *testing.T) {
		// Squared distance would pick index 0, summed distance picks 1.
		pal := []RGBEntry{{12, 12, 12}, {0, 0, 30}}
		if got := FindNearestColor(pal, RGB(0, 0, 0)); got != 1 {
			t.Errorf("got %d, want 1", got)
		}
	})

	t.Run("empty palette", func(t *testing.T) {
		if got := FindNearestColor(nil, White); got != 0 {
			t.Errorf("got %d, want 0", got)
		}
	})
}

func TestStdPalette(t *testing.T) {
	for _, n := range []int{2, 4, 16, 256} {
		if pal := StdPalette(n); len(pal) != n {
			t.Errorf("StdPalette(%d) has %d entries", n, len(pal))
		}
	}
	if StdPalette(0) != nil {
		t.Error("truecolor devices have no system palette")
	}
}
