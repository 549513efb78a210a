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

var stdPal1 = []RGBEntry{
	{0x00, 0x00, 0x00},
	{0xFF, 0xFF, 0xFF},
}

var stdPal2 = []RGBEntry{
	{0x00, 0x00, 0x00},
	{0x55, 0x55, 0x55},
	{0xAA, 0xAA, 0xAA},
	{0xFF, 0xFF, 0xFF},
}

// CGA text mode colors.
var stdPal4 = []RGBEntry{
	{0x00, 0x00, 0x00},
	{0x00, 0x00, 0xAA},
	{0x00, 0xAA, 0x00},
	{0x00, 0xAA, 0xAA},
	{0xAA, 0x00, 0x00},
	{0xAA, 0x00, 0xAA},
	{0xAA, 0x55, 0x00},
	{0xAA, 0xAA, 0xAA},
	{0x55, 0x55, 0x55},
	{0x55, 0x55, 0xFF},
	{0x55, 0xFF, 0x55},
	{0x55, 0xFF, 0xFF},
	{0xFF, 0x55, 0x55},
	{0xFF, 0x55, 0xFF},
	{0xFF, 0xFF, 0x55},
	{0xFF, 0xFF, 0xFF},
}

var stdPal8 = buildStdPal8()

// buildStdPal8 lays out the 256 entry system palette: the CGA colors, a
// block of grays filling the reserved region, a 6x6x6 color cube and a
// gray ramp at the top.
func buildStdPal8() []RGBEntry {
	pal := make([]RGBEntry, 0, PaletteSize)
	pal = append(pal, stdPal4...)
	for i := 0; len(pal) < ReservedEntries; i++ {
		v := uint8(0x18 + i*0x18)
		pal = append(pal, RGBEntry{v, v, v})
	}

	levels := [6]uint8{0x00, 0x33, 0x66, 0x99, 0xCC, 0xFF}
	for _, r := range levels {
		for _, g := range levels {
			for _, b := range levels {
				pal = append(pal, RGBEntry{r, g, b})
			}
		}
	}

	for i := 0; len(pal) < PaletteSize; i++ {
		v := uint8(0x08 + i*0x10)
		pal = append(pal, RGBEntry{v, v, v})
	}
	return pal
}

// StdPalette returns the system palette for a color count, or nil for
// truecolor devices.
func StdPalette(ncolors int) []RGBEntry {
	switch ncolors {
	case 2:
		return stdPal1
	case 4:
		return stdPal2
	case 8, 16:
		return stdPal4
	case PaletteSize:
		return stdPal8
	}
	return nil
}
