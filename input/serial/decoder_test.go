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

package serial

import (
	"testing"

	"github.com/andreas-jonsson/virtualwin/input"
)

// encode builds a packet the way a mouse would send it.
func encode(left, right bool, dx, dy int8) []byte {
	head := byte(0x40)
	if left {
		head |= 0x20
	}
	if right {
		head |= 0x10
	}
	head |= byte(dx) >> 6 & 0x03
	head |= byte(dy) >> 4 & 0x0c
	return []byte{head, byte(dx) & 0x3f, byte(dy) & 0x3f}
}

func TestDecoder(t *testing.T) {
	tests := []struct {
		name        string
		left, right bool
		dx, dy      int8
		want        input.Buttons
	}{
		{"still", false, false, 0, 0, 0},
		{"left", true, false, 5, -3, input.ButtonLeft},
		{"right", false, true, -128, 127, input.ButtonRight},
		{"both", true, true, -1, -1, input.ButtonLeft | input.ButtonRight},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var d Decoder
			d.Write(encode(tc.left, tc.right, tc.dx, tc.dy))
			ev, ok := d.Next()
			if !ok {
				t.Fatal("no event")
			}
			if ev.X != int(tc.dx) || ev.Y != int(tc.dy) || ev.Buttons != tc.want || !ev.Relative {
				t.Errorf("got %+v", ev)
			}
		})
	}
}

func TestDecoderResync(t *testing.T) {
	var d Decoder
	d.Write([]byte{0x01, 0x3f})
	d.Write(encode(true, false, 1, 2))

	ev, ok := d.Next()
	if !ok || ev.X != 1 || ev.Y != 2 {
		t.Fatalf("got %+v, %v", ev, ok)
	}
	if _, ok := d.Next(); ok {
		t.Error("unexpected event")
	}
}

func TestDecoderPartial(t *testing.T) {
	var d Decoder
	p := encode(false, true, 4, 4)
	d.Write(p[:2])
	if d.Buffered() {
		t.Error("partial packet reported as buffered")
	}
	if _, ok := d.Next(); ok {
		t.Fatal("event from partial packet")
	}
	d.Write(p[2:])
	if _, ok := d.Next(); !ok {
		t.Fatal("packet not completed")
	}
}
