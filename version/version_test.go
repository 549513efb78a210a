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

package version

import (
	"testing"

	"github.com/pkg/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Version
		full string
	}{
		{"1.2.3", Version{1, 2, 3, ""}, "1.2.3"},
		{"1.2.3.0", Version{1, 2, 3, ""}, "1.2.3"},
		{"0.5.2.rc1", Version{0, 5, 2, "rc1"}, "0.5.2-rc1"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v, err := Parse(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if v != tt.want || v.FullString() != tt.full {
				t.Errorf("got %+v %q", v, v.FullString())
			}
		})
	}

	for _, bad := range []string{"", "1.2", "1.x.3", "1.2.300"} {
		if _, err := Parse(bad); !errors.Is(err, ErrFormat) {
			t.Errorf("%q: got %v", bad, err)
		}
	}
}

func TestCompatible(t *testing.T) {
	if !New(1, 2, 3).Compatible(New(1, 2, 9)) {
		t.Error("patch releases should be compatible")
	}
	if New(1, 2, 3).Compatible(New(1, 3, 0)) {
		t.Error("minor releases should not be compatible")
	}
}
