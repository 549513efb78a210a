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
	"bufio"
	"image"
	"image/color"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"golang.org/x/image/bmp"
)

var ErrNoFramebuffer = errors.New("device has no readable framebuffer")

// Snapshot copies the visible screen into an image. Palette devices give
// an indexed image carrying the current palette, truecolor devices an
// opaque RGBA image.
func (s *Screen) Snapshot() (image.Image, error) {
	d := s.dev
	if d.Addr == nil {
		return nil, ErrNoFramebuffer
	}
	r := image.Rect(0, 0, d.XRes, d.YRes)

	if d.PixType == PixelPalette {
		pal := make(color.Palette, d.NColors)
		for i := range pal {
			e := s.palette.entries[i]
			pal[i] = color.RGBA{e.R, e.G, e.B, 0xFF}
		}
		m := image.NewPaletted(r, pal)
		for y := 0; y < d.YRes; y++ {
			for x := 0; x < d.XRes; x++ {
				m.SetColorIndex(x, y, uint8(d.ReadPixel(x, y)))
			}
		}
		return m, nil
	}

	m := image.NewRGBA(r)
	for y := 0; y < d.YRes; y++ {
		for x := 0; x < d.XRes; x++ {
			c := s.ColorRGB(d.ReadPixel(x, y))
			m.SetRGBA(x, y, color.RGBA{c.R(), c.G(), c.B(), 0xFF})
		}
	}
	return m, nil
}

// Capture writes the visible screen as a BMP file.
func (s *Screen) Capture(fs afero.Fs, name string) error {
	m, err := s.Snapshot()
	if err != nil {
		return err
	}

	fp, err := fs.Create(name)
	if err != nil {
		return errors.Wrap(err, "could not create capture file")
	}
	defer fp.Close()

	w := bufio.NewWriter(fp)
	if err := bmp.Encode(w, m); err != nil {
		return errors.Wrap(err, "could not encode capture")
	}
	return errors.Wrap(w.Flush(), "could not write capture")
}
