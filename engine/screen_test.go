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

package engine_test

import (
	"image"
	"testing"

	"github.com/andreas-jonsson/virtualwin/engine"
	"github.com/andreas-jonsson/virtualwin/engine/driver/memory"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"golang.org/x/image/bmp"
)

func openScreen(t *testing.T, name string, opts ...engine.ScreenOption) (*engine.Screen, *memory.Driver) {
	t.Helper()
	f, ok := memory.LookupFormat(name)
	if !ok {
		t.Fatalf("unknown format %q", name)
	}
	drv := memory.New(f)
	drv.XRes, drv.YRes = 32, 16
	s, err := engine.OpenScreen(drv, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return s, drv
}

func gray(v uint8) engine.RGBEntry {
	return engine.RGBEntry{R: v, G: v, B: v}
}

func grays(n int, v uint8) []engine.RGBEntry {
	e := make([]engine.RGBEntry, n)
	for i := range e {
		e[i] = gray(v + uint8(i))
	}
	return e
}

func TestOpenScreenBoundary(t *testing.T) {
	tests := []struct {
		format  string
		opts    []engine.ScreenOption
		ncolors int
		first   int
	}{
		{"mono", nil, 2, 0},
		{"gray4", nil, 4, 0},
		{"ega", nil, 16, 0},
		{"vga", nil, 256, 24},
		{"vga", []engine.ScreenOption{engine.WithUniformPalette()}, 256, 256},
		{"565", nil, 0, 0},
	}
	for _, tc := range tests {
		t.Run(tc.format, func(t *testing.T) {
			s, _ := openScreen(t, tc.format, tc.opts...)
			defer s.Close()

			if n := s.Device().NColors; n != tc.ncolors {
				t.Errorf("ncolors %d, want %d", n, tc.ncolors)
			}
			if b := s.Palette().UserBoundary(); b != tc.first {
				t.Errorf("boundary %d, want %d", b, tc.first)
			}
			if n := s.Palette().NextFree(); n != tc.first {
				t.Errorf("next free %d, want %d", n, tc.first)
			}
		})
	}
}

func TestOpenScreenDefaults(t *testing.T) {
	s, drv := openScreen(t, "vga")
	defer s.Close()

	if s.Mode() != engine.RopCopy || s.FillMode() != engine.FillSolid {
		t.Error("wrong raster or fill mode")
	}
	if c, _ := s.Foreground(); c != engine.White {
		t.Errorf("foreground %#x", c)
	}
	if c, _ := s.Background(); c != engine.Black {
		t.Errorf("background %#x", c)
	}
	if !s.UseBackground() || s.Dash().Count != 0 || s.Stipple() != nil {
		t.Error("wrong line or fill pattern defaults")
	}
	if r := s.ClipRects(); len(r) != 1 || r[0] != (engine.Rect{X1: 31, Y1: 15}) {
		t.Errorf("clip %v", r)
	}
	if fills, _ := drv.Stats(); fills != 1 {
		t.Errorf("%d fills during open", fills)
	}

	hw := drv.HardwarePalette()
	std := engine.StdPalette(256)
	for i := range std {
		if hw[i] != std[i] {
			t.Fatalf("hardware entry %d is %v, want %v", i, hw[i], std[i])
		}
	}
}

func TestOpenScreenUnclipped(t *testing.T) {
	s, _ := openScreen(t, "565", engine.WithClipping(false))
	defer s.Close()
	if s.ClipRects() != nil {
		t.Error("expected no clip rects")
	}
}

func TestOpenScreenFailure(t *testing.T) {
	drv := memory.New(memory.Format{PixType: engine.PixelPalette, BPP: 8})
	drv.Fail = errors.New("no device")
	if _, err := engine.OpenScreen(drv); err == nil {
		t.Fatal("expected error")
	}

	bad := memory.New(memory.Format{PixType: engine.PixelPalette, BPP: 16})
	if _, err := engine.OpenScreen(bad); errors.Cause(err) != engine.ErrBadColorCount {
		t.Fatalf("got %v", err)
	}
	if _, closes := bad.Stats(); closes != 1 {
		t.Error("rejected device was not closed")
	}
}

func TestScreenCloseOnce(t *testing.T) {
	s, drv := openScreen(t, "vga")
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != engine.ErrScreenClosed {
		t.Fatalf("second close returned %v", err)
	}
	if _, closes := drv.Stats(); closes != 1 {
		t.Errorf("driver closed %d times", closes)
	}
}

func TestSetPaletteClamp(t *testing.T) {
	s, drv := openScreen(t, "vga")
	defer s.Close()

	s.SetPalette(250, grays(10, 100))

	out := make([]engine.RGBEntry, 10)
	if n := s.GetPalette(250, out); n != 6 {
		t.Fatalf("read %d entries, want 6", n)
	}
	for i := 0; i < 6; i++ {
		if out[i] != gray(100+uint8(i)) {
			t.Errorf("entry %d is %v", 250+i, out[i])
		}
	}
	hw := drv.HardwarePalette()
	if hw[255] != gray(105) {
		t.Errorf("hardware entry 255 is %v", hw[255])
	}
}

func TestSetPaletteReservedRegion(t *testing.T) {
	s, _ := openScreen(t, "vga")
	defer s.Close()

	before := make([]engine.RGBEntry, 24)
	s.GetPalette(0, before)

	s.SetPalette(0, grays(30, 200))

	after := make([]engine.RGBEntry, 30)
	s.GetPalette(0, after)
	for i := 0; i < 24; i++ {
		if after[i] != before[i] {
			t.Fatalf("reserved entry %d changed to %v", i, after[i])
		}
	}
	for i := 24; i < 30; i++ {
		if after[i] != gray(200+uint8(i)) {
			t.Errorf("entry %d is %v, want %v", i, after[i], gray(200+uint8(i)))
		}
	}
}

func TestSetPaletteOverlapsBoundary(t *testing.T) {
	s, _ := openScreen(t, "vga")
	defer s.Close()

	if n := s.Palette().NextFree(); n != 24 {
		t.Fatalf("next free %d", n)
	}

	orig := make([]engine.RGBEntry, 2)
	s.GetPalette(24, orig)

	s.SetPalette(20, grays(5, 10))

	got := make([]engine.RGBEntry, 2)
	s.GetPalette(24, got)
	if got[0] != gray(14) {
		t.Errorf("entry 24 is %v, want %v", got[0], gray(14))
	}
	if got[1] != orig[1] {
		t.Errorf("entry 25 changed to %v", got[1])
	}

	t.Run("entirely reserved", func(t *testing.T) {
		s.SetPalette(0, grays(24, 1))
		e := make([]engine.RGBEntry, 1)
		s.GetPalette(0, e)
		if e[0] != (engine.RGBEntry{}) {
			t.Errorf("entry 0 changed to %v", e[0])
		}
	})
}

func TestPaletteNoWrite(t *testing.T) {
	s, drv := openScreen(t, "ega")
	defer s.Close()

	orig := drv.HardwarePalette()
	s.SetPalette(-1, grays(4, 1))
	s.SetPalette(16, grays(4, 1))
	if drv.HardwarePalette() != orig {
		t.Error("out of range write reached the driver")
	}

	out := make([]engine.RGBEntry, 4)
	if n := s.GetPalette(16, out); n != 0 {
		t.Errorf("read %d entries past the end", n)
	}
	if n := s.GetPalette(-2, out); n != 0 {
		t.Errorf("read %d entries before the start", n)
	}
}

func TestPaletteTrueColor(t *testing.T) {
	s, _ := openScreen(t, "888")
	defer s.Close()

	s.SetPalette(0, grays(4, 1))
	out := make([]engine.RGBEntry, 4)
	if n := s.GetPalette(0, out); n != 0 {
		t.Errorf("truecolor device returned %d palette entries", n)
	}
}

func TestFindColorPalette(t *testing.T) {
	s, _ := openScreen(t, "ega")
	defer s.Close()

	if p := s.FindColor(engine.RGB(0xAA, 0x00, 0x00)); p != 4 {
		t.Errorf("red maps to %d", p)
	}
	if p := s.FindColor(engine.RGB(0xF0, 0xF0, 0xF0)); p != 15 {
		t.Errorf("near white maps to %d", p)
	}
	if c := s.ColorRGB(9); c != engine.RGB(0x55, 0x55, 0xFF) {
		t.Errorf("pixel 9 is %#x", c)
	}

	s.SetPalette(15, []engine.RGBEntry{{1, 2, 3}})
	if p := s.FindColor(engine.RGB(1, 2, 3)); p != 15 {
		t.Errorf("updated entry not visible, got %d", p)
	}
}

func TestFindColorTrueColor(t *testing.T) {
	s, _ := openScreen(t, "565")
	defer s.Close()

	if p := s.FindColor(engine.RGB(0xFF, 0, 0)); p != 0xF800 {
		t.Errorf("red is %#x", p)
	}
	if c := s.ColorRGB(0x07E0); c != engine.RGB(0, 0xFC, 0) {
		t.Errorf("green is %#x", c)
	}
}

func TestPortraitMode(t *testing.T) {
	s, _ := openScreen(t, "vga")
	defer s.Close()

	if m := s.SetPortraitMode(engine.PortraitLeft); m != engine.PortraitLeft {
		t.Fatalf("got %v", m)
	}
	d := s.Device()
	if d.XRes != 16 || d.YRes != 32 {
		t.Errorf("rotated resolution %dx%d", d.XRes, d.YRes)
	}
	info := s.Info(engine.PointerState{X: 3, Y: 4, Buttons: 1, Modifiers: 2})
	if info.Portrait != engine.PortraitLeft || info.XPos != 3 || info.YPos != 4 || info.Buttons != 1 || info.Modifiers != 2 {
		t.Errorf("info %+v", info)
	}
}

func TestCapture(t *testing.T) {
	for _, format := range []string{"vga", "565", "8888"} {
		t.Run(format, func(t *testing.T) {
			s, _ := openScreen(t, format)
			defer s.Close()

			s.FillRect(0, 0, 3, 3, s.FindColor(engine.White))

			fs := afero.NewMemMapFs()
			if err := s.Capture(fs, "shot.bmp"); err != nil {
				t.Fatal(err)
			}
			fp, err := fs.Open("shot.bmp")
			if err != nil {
				t.Fatal(err)
			}
			defer fp.Close()

			m, err := bmp.Decode(fp)
			if err != nil {
				t.Fatal(err)
			}
			if b := m.Bounds(); b.Dx() != 32 || b.Dy() != 16 {
				t.Fatalf("bounds %v", b)
			}
			if r, g, b, _ := m.At(2, 2).RGBA(); r>>8 < 0xF8 || g>>8 < 0xF8 || b>>8 < 0xF8 {
				t.Errorf("pixel 2,2 is %v, want white", m.At(2, 2))
			}
			if r, g, b, _ := m.At(20, 10).RGBA(); r != 0 || g != 0 || b != 0 {
				t.Errorf("pixel 20,10 is %v, want black", m.At(20, 10))
			}
		})
	}
}

func TestSnapshotIndexed(t *testing.T) {
	s, _ := openScreen(t, "vga")
	defer s.Close()

	m, err := s.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	p, ok := m.(*image.Paletted)
	if !ok {
		t.Fatalf("got %T, want *image.Paletted", m)
	}
	if len(p.Palette) != s.Device().NColors {
		t.Errorf("palette has %d entries, want %d", len(p.Palette), s.Device().NColors)
	}
}
