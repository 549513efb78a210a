//go:build linux

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

package fbdev

import (
	"os"
	"unsafe"

	"github.com/andreas-jonsson/virtualwin/engine"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// <linux/fb.h> ioctls, 0x46 is 'F'.
const (
	ioGetVScreenInfo = 0x4600
	ioGetFScreenInfo = 0x4602
	ioPutCmap        = 0x4605
)

// cmap mirrors struct fb_cmap.
type cmap struct {
	Start  uint32
	Len    uint32
	Red    *uint16
	Green  *uint16
	Blue   *uint16
	Transp *uint16
}

// Driver maps the framebuffer at Path.
type Driver struct {
	Path string

	file *os.File
	mem  []byte
	vi   varScreenInfo
	log  *log.Entry
}

func New(path string) *Driver {
	return &Driver{Path: path, log: log.WithField("component", "fbdev")}
}

func (drv *Driver) ioctl(cmd uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, drv.file.Fd(), cmd, uintptr(arg))
	if errno != 0 {
		return os.NewSyscallError("fb ioctl", errno)
	}
	return nil
}

// Open maps the device. The mode is ignored, a framebuffer has the
// resolution the kernel gave it.
func (drv *Driver) Open(engine.Mode) (*engine.Device, error) {
	f, err := os.OpenFile(drv.Path, os.O_RDWR, os.ModeDevice)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", drv.Path)
	}
	drv.file = f

	var fi fixScreenInfo
	if err := drv.ioctl(ioGetVScreenInfo, unsafe.Pointer(&drv.vi)); err != nil {
		f.Close()
		return nil, err
	}
	if err := drv.ioctl(ioGetFScreenInfo, unsafe.Pointer(&fi)); err != nil {
		f.Close()
		return nil, err
	}

	pix, ncolors, err := pixelFormat(&drv.vi, &fi)
	if err != nil {
		f.Close()
		return nil, err
	}

	size := int(fi.LineLength * drv.vi.YResVirtual)
	drv.mem, err = unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "mmap %s", drv.Path)
	}

	d := &engine.Device{
		XRes:     int(drv.vi.XRes),
		YRes:     int(drv.vi.YRes),
		XVirtRes: int(drv.vi.XRes),
		YVirtRes: int(drv.vi.YRes),
		Planes:   1,
		BPP:      int(drv.vi.BitsPerPixel),
		NColors:  ncolors,
		PixType:  pix,
		Pitch:    int(fi.LineLength),
		Addr:     drv.mem,
		Driver:   drv,
	}
	drv.log.WithFields(log.Fields{
		"device": drv.Path,
		"id":     string(fi.ID[:clen(fi.ID[:])]),
		"bpp":    d.BPP,
	}).Info("framebuffer mapped")
	return d, nil
}

func clen(b []byte) int {
	for i, c := range b {
		if c == 0 {
			return i
		}
	}
	return len(b)
}

func (drv *Driver) Close(d *engine.Device) {
	if drv.mem != nil {
		unix.Munmap(drv.mem)
		drv.mem = nil
	}
	if drv.file != nil {
		drv.file.Close()
		drv.file = nil
	}
}

// SetPalette loads entries into the hardware color map. Channels are
// widened to 16 bits.
func (drv *Driver) SetPalette(d *engine.Device, first int, entries []engine.RGBEntry) {
	n := len(entries)
	if n == 0 {
		return
	}
	red := make([]uint16, n)
	green := make([]uint16, n)
	blue := make([]uint16, n)
	for i, e := range entries {
		red[i] = uint16(e.R) << 8
		green[i] = uint16(e.G) << 8
		blue[i] = uint16(e.B) << 8
	}
	cm := cmap{Start: uint32(first), Len: uint32(n), Red: &red[0], Green: &green[0], Blue: &blue[0]}
	if err := drv.ioctl(ioPutCmap, unsafe.Pointer(&cm)); err != nil {
		drv.log.WithError(err).Warn("could not set color map")
	}
}

func (drv *Driver) FillRect(d *engine.Device, x0, y0, x1, y1 int, c engine.Pixel) {
	d.FillLinear(x0, y0, x1, y1, c)
}

func (drv *Driver) ScreenInfo(d *engine.Device) engine.ScreenInfo {
	info := engine.ScreenInfo{
		Rows:     d.YVirtRes,
		Cols:     d.XVirtRes,
		Planes:   d.Planes,
		BPP:      d.BPP,
		NColors:  d.NColors,
		PixType:  d.PixType,
		Portrait: d.Portrait,
		XDpcm:    27,
		YDpcm:    27,
	}
	if drv.vi.Width > 0 && drv.vi.Height > 0 {
		info.XDpcm = int(drv.vi.XRes*10) / int(drv.vi.Width)
		info.YDpcm = int(drv.vi.YRes*10) / int(drv.vi.Height)
	}
	if d.PixType != engine.PixelPalette {
		info.RMask = drv.vi.Red.mask()
		info.GMask = drv.vi.Green.mask()
		info.BMask = drv.vi.Blue.mask()
	}
	return info
}
