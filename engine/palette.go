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

// PaletteSize is the hardware limit on palette entries.
const PaletteSize = 256

// ReservedEntries is the size of the system color block on 256 color devices.
const ReservedEntries = 24

// Palette mirrors the hardware color table of an indexed device. Indices
// below the user boundary hold system colors and are never touched by
// client writes.
type Palette struct {
	entries   [PaletteSize]RGBEntry
	firstUser int
	nextFree  int
}

// UserBoundary returns the first index clients may write.
func (p *Palette) UserBoundary() int {
	return p.firstUser
}

// NextFree is the allocation cursor. It is advertised only.
func (p *Palette) NextFree() int {
	return p.nextFree
}

func (p *Palette) reset() {
	p.nextFree = p.firstUser
}

// Entry returns one slot. Indices outside the table read as black.
func (p *Palette) Entry(i int) RGBEntry {
	if i < 0 || i >= PaletteSize {
		return RGBEntry{}
	}
	return p.entries[i]
}

// clampRange bounds [first, first+count) to [0, ncolors). The returned
// count is zero or less when there is nothing to do.
func clampRange(first, count, ncolors int) int {
	if first < 0 || first >= ncolors {
		return 0
	}
	if first+count > ncolors {
		count = ncolors - first
	}
	return count
}
