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

// Package serial drives a Microsoft compatible serial mouse.
package serial

import (
	"bytes"

	"github.com/andreas-jonsson/virtualwin/input"
)

const maxBufferSize = 16

// Decoder turns the three byte Microsoft mouse protocol into reports.
// The first byte of a packet has bit 6 set and carries the buttons and
// the two high bits of each delta.
type Decoder struct {
	buffer bytes.Buffer
}

func (d *Decoder) Write(data []byte) {
	for _, b := range data {
		if d.buffer.Len() == maxBufferSize {
			d.buffer.Next(1)
		}
		d.buffer.WriteByte(b)
	}
}

// Next returns the next complete packet. Bytes that are out of sync are
// skipped.
func (d *Decoder) Next() (input.MouseEvent, bool) {
	for d.buffer.Len() > 0 {
		b := d.buffer.Bytes()
		if b[0]&0x40 == 0 {
			d.buffer.Next(1)
			continue
		}
		if len(b) < 3 {
			return input.MouseEvent{}, false
		}
		if b[1]&0x40 != 0 || b[2]&0x40 != 0 {
			d.buffer.Next(1)
			continue
		}

		head := b[0]
		dx := int8(head&0x03<<6 | b[1]&0x3f)
		dy := int8(head&0x0c<<4 | b[2]&0x3f)
		d.buffer.Next(3)

		var buttons input.Buttons
		if head&0x20 != 0 {
			buttons |= input.ButtonLeft
		}
		if head&0x10 != 0 {
			buttons |= input.ButtonRight
		}
		return input.MouseEvent{X: int(dx), Y: int(dy), Buttons: buttons, Relative: true}, true
	}
	return input.MouseEvent{}, false
}

func (d *Decoder) Buffered() bool {
	return d.buffer.Len() >= 3
}

func (d *Decoder) Reset() {
	d.buffer.Reset()
}
