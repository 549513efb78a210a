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

//go:generate go run ../tools/version/version.go -file current.go

// Package version holds the release number stamped in at build time.
package version

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var ErrFormat = errors.New("invalid version format")

type Version struct {
	Major, Minor, Patch byte
	Build               string
}

func New(major, minor, patch byte) Version {
	return Version{major, minor, patch, ""}
}

// Parse reads "major.minor.patch" with an optional ".build" suffix. A
// build of "0" is the same as none.
func Parse(s string) (Version, error) {
	parts := strings.SplitN(s, ".", 4)
	if len(parts) < 3 {
		return Version{}, errors.Wrapf(ErrFormat, "%q", s)
	}

	var num [3]byte
	for i := range num {
		n, err := strconv.ParseUint(parts[i], 10, 8)
		if err != nil {
			return Version{}, errors.Wrapf(ErrFormat, "%q", s)
		}
		num[i] = byte(n)
	}

	v := New(num[0], num[1], num[2])
	if len(parts) == 4 && parts[3] != "0" {
		v.Build = parts[3]
	}
	return v, nil
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

func (v Version) FullString() string {
	if v.Build == "" {
		return v.String()
	}
	return fmt.Sprintf("%s-%s", v.String(), v.Build)
}

// Compatible reports whether a client built against ver can talk to v.
func (v Version) Compatible(ver Version) bool {
	return v.Major == ver.Major && v.Minor == ver.Minor
}
