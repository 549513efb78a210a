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

// Linear framebuffer access for drivers that expose Addr. Sub byte
// formats are packed most significant bits first.

func (d *Device) offset(x, y int) (int, bool) {
	if d.Addr == nil || x < 0 || y < 0 || x >= d.XVirtRes || y >= d.YVirtRes {
		return 0, false
	}
	return y*d.Pitch + x*d.BPP/8, true
}

// ReadPixel returns the pixel at x,y or 0 when outside the surface.
func (d *Device) ReadPixel(x, y int) Pixel {
	off, ok := d.offset(x, y)
	if !ok {
		return 0
	}
	fb := d.Addr
	switch d.BPP {
	case 1, 2, 4:
		bit := x * d.BPP % 8
		shift := 8 - d.BPP - bit
		mask := byte(1<<d.BPP - 1)
		return Pixel(fb[off] >> shift & mask)
	case 8:
		return Pixel(fb[off])
	case 16:
		return Pixel(fb[off]) | Pixel(fb[off+1])<<8
	case 24:
		return Pixel(fb[off]) | Pixel(fb[off+1])<<8 | Pixel(fb[off+2])<<16
	case 32:
		return Pixel(fb[off]) | Pixel(fb[off+1])<<8 | Pixel(fb[off+2])<<16 | Pixel(fb[off+3])<<24
	}
	return 0
}

// WritePixel stores p at x,y. Writes outside the surface are dropped.
func (d *Device) WritePixel(x, y int, p Pixel) {
	off, ok := d.offset(x, y)
	if !ok {
		return
	}
	fb := d.Addr
	switch d.BPP {
	case 1, 2, 4:
		bit := x * d.BPP % 8
		shift := 8 - d.BPP - bit
		mask := byte(1<<d.BPP-1) << shift
		fb[off] = fb[off]&^mask | byte(p)<<shift&mask
	case 8:
		fb[off] = byte(p)
	case 16:
		fb[off], fb[off+1] = byte(p), byte(p>>8)
	case 24:
		fb[off], fb[off+1], fb[off+2] = byte(p), byte(p>>8), byte(p>>16)
	case 32:
		fb[off], fb[off+1], fb[off+2], fb[off+3] = byte(p), byte(p>>8), byte(p>>16), byte(p>>24)
	}
}

// FillLinear fills an inclusive rectangle, clipped to the virtual surface.
func (d *Device) FillLinear(x0, y0, x1, y1 int, p Pixel) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 >= d.XVirtRes {
		x1 = d.XVirtRes - 1
	}
	if y1 >= d.YVirtRes {
		y1 = d.YVirtRes - 1
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			d.WritePixel(x, y, p)
		}
	}
}
