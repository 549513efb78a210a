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

package input

import "testing"

func TestScancodeOf(t *testing.T) {
	tests := []struct {
		key   Key
		scan  Scancode
		shift bool
	}{
		{'a', ScanA, false},
		{'Q', ScanQ, true},
		{'1', Scan1, false},
		{'!', Scan1, true},
		{'"', ScanQuote, true},
		{' ', ScanSpace, false},
		{KeyEscape, ScanEscape, false},
		{KeyEnter, ScanEnter, false},
		{KeyLeft, ScanKPLeft, false},
		{KeyF12, ScanF12, false},
		{0x263A, ScanInvalid, false},
	}
	for _, tc := range tests {
		if s := ScancodeOf(tc.key); s != tc.scan {
			t.Errorf("ScancodeOf(%q) = %#x, want %#x", rune(tc.key), s, tc.scan)
		}
		if sh := NeedsShift(tc.key); sh != tc.shift {
			t.Errorf("NeedsShift(%q) = %v", rune(tc.key), sh)
		}
	}
}

func TestScancodeValues(t *testing.T) {
	// Spot check against the PC set 1 table.
	if ScanEscape != 0x01 || ScanEnter != 0x1C || ScanSpace != 0x39 || ScanF10 != 0x44 || ScanKPDelete != 0x53 {
		t.Error("scancode enumeration out of step")
	}
}
