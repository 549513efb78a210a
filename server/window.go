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

package server

import (
	"github.com/andreas-jonsson/virtualwin/engine"
	"github.com/andreas-jonsson/virtualwin/input"
)

const RootWindowID = 1

// Window is the part of a window record the core touches.
type Window struct {
	ID            int
	X, Y          int
	Width, Height int
	Background    engine.Color
	Mapped        bool
	Realized      bool
	Output        bool
}

// Cursor is a 16x16 monochrome pointer image.
type Cursor struct {
	Width, Height int
	HotX, HotY    int
	Foreground    engine.Color
	Background    engine.Color
	Image         [16]uint16
	Mask          [16]uint16
}

// defaultCursor is an arrow with its hot spot on the tip.
var defaultCursor = Cursor{
	Width:      16,
	Height:     16,
	Foreground: engine.White,
	Background: engine.Black,
	Image: [16]uint16{
		0x0000, 0x4000, 0x6000, 0x7000, 0x7800, 0x7C00, 0x7E00, 0x7F00,
		0x7F80, 0x7C00, 0x6C00, 0x4600, 0x0600, 0x0300, 0x0300, 0x0000,
	},
	Mask: [16]uint16{
		0xC000, 0xE000, 0xF000, 0xF800, 0xFC00, 0xFE00, 0xFF00, 0xFF80,
		0xFFC0, 0xFFC0, 0xFE00, 0xEF00, 0xCF00, 0x0780, 0x0780, 0x0380,
	},
}

// pointer is the server side mouse state.
type pointer struct {
	x, y     int
	buttons  input.Buttons
	restrict engine.Rect
}

// move clamps x,y to the restriction rectangle and reports whether the
// position changed.
func (p *pointer) move(x, y int) bool {
	r := p.restrict
	if x < r.X0 {
		x = r.X0
	} else if x > r.X1 {
		x = r.X1
	}
	if y < r.Y0 {
		y = r.Y0
	} else if y > r.Y1 {
		y = r.Y1
	}
	if x == p.x && y == p.y {
		return false
	}
	p.x, p.y = x, y
	return true
}
