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
	"math/bits"

	"github.com/pkg/errors"
)

// UnregisterAll clears the whole descriptor set.
const UnregisterAll = -1

var ErrBadDescriptor = errors.New("bad descriptor")

// DescriptorSet holds descriptors registered by the embedding program.
// The limit is one past the largest member, or -1 when the set is empty.
type DescriptorSet struct {
	words []uint64
	limit int
}

func NewDescriptorSet() *DescriptorSet {
	return &DescriptorSet{limit: -1}
}

func (d *DescriptorSet) Register(fd int) error {
	if fd < 0 {
		return errors.Wrapf(ErrBadDescriptor, "register %d", fd)
	}
	w := fd / 64
	for len(d.words) <= w {
		d.words = append(d.words, 0)
	}
	d.words[w] |= 1 << uint(fd%64)
	if fd >= d.limit {
		d.limit = fd + 1
	}
	return nil
}

// Unregister removes fd, or everything for UnregisterAll, and rescans
// up to the old limit.
func (d *DescriptorSet) Unregister(fd int) {
	if fd == UnregisterAll {
		for i := range d.words {
			d.words[i] = 0
		}
		d.limit = -1
		return
	}
	if !d.Contains(fd) {
		return
	}
	d.words[fd/64] &^= 1 << uint(fd%64)

	max := d.limit
	d.limit = -1
	for i := 0; i < max; i++ {
		if d.Contains(i) {
			d.limit = i + 1
		}
	}
}

func (d *DescriptorSet) Contains(fd int) bool {
	if fd < 0 || fd/64 >= len(d.words) {
		return false
	}
	return d.words[fd/64]&(1<<uint(fd%64)) != 0
}

func (d *DescriptorSet) Limit() int {
	return d.limit
}

func (d *DescriptorSet) Len() int {
	n := 0
	for _, w := range d.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Each calls f for every member in ascending order.
func (d *DescriptorSet) Each(f func(fd int)) {
	for fd := 0; fd < d.limit; fd++ {
		if d.Contains(fd) {
			f(fd)
		}
	}
}
