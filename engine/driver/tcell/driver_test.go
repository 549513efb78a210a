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

package tcell

import (
	"testing"

	"github.com/andreas-jonsson/virtualwin/engine"
	"github.com/gdamore/tcell"
)

func newSimTerminal(t *testing.T) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("")
	return NewTerminal(sim), sim
}

func TestDriverOpen(t *testing.T) {
	term, _ := newSimTerminal(t)
	drv := New(term)

	s, err := engine.OpenScreen(drv, engine.WithMode(engine.Mode{XRes: 40, YRes: 10}))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	d := s.Device()
	if d.XRes != 40 || d.YRes != 10 || d.NColors != 16 || d.PixType != engine.PixelPalette {
		t.Errorf("device %dx%d with %d colors", d.XRes, d.YRes, d.NColors)
	}
}

func TestDriverFill(t *testing.T) {
	term, sim := newSimTerminal(t)
	drv := New(term)

	s, err := engine.OpenScreen(drv)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	red := s.FindColor(engine.RGB(0xAA, 0, 0))
	s.FillRect(1, 1, 2, 2, red)
	if n := drv.PreSelect(s.Device()); n != 0 {
		t.Errorf("%d events pending", n)
	}

	cells, w, _ := sim.GetContents()
	_, bg, _ := cells[1*w+1].Style.Decompose()
	if bg != tcell.NewRGBColor(0xAA, 0, 0) {
		t.Errorf("cell background %v", bg)
	}
	_, bg, _ = cells[0].Style.Decompose()
	if bg != tcell.NewRGBColor(0, 0, 0) {
		t.Errorf("cleared cell background %v", bg)
	}
	if p := s.Device().ReadPixel(2, 2); p != red {
		t.Errorf("framebuffer pixel %d", p)
	}
}

func TestDriverTrueColor(t *testing.T) {
	term, sim := newSimTerminal(t)
	drv := New(term)
	drv.TrueColor = true

	s, err := engine.OpenScreen(drv)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if s.Device().PixType != engine.PixelTrueColor8888 {
		t.Fatal("expected truecolor device")
	}
	s.FillRect(0, 0, 0, 0, s.FindColor(engine.RGB(1, 2, 3)))
	drv.PreSelect(s.Device())

	cells, _, _ := sim.GetContents()
	if _, bg, _ := cells[0].Style.Decompose(); bg != tcell.NewRGBColor(1, 2, 3) {
		t.Errorf("cell background %v", bg)
	}
}

func TestTerminalEvents(t *testing.T) {
	term, sim := newSimTerminal(t)

	woken := make(chan int, 4)
	term.SetNotify(func(key int) { woken <- key })
	if err := term.Acquire(); err != nil {
		t.Fatal(err)
	}
	defer term.Release()

	sim.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
	if key := <-woken; key != term.KeySource().FD {
		t.Fatalf("woken for %d", key)
	}
	if !term.KeySource().Pending() {
		t.Error("key not pending")
	}
	ev, ok := term.NextKey()
	if !ok || ev.Rune() != 'x' {
		t.Fatalf("got %v", ev)
	}

	sim.InjectMouse(3, 4, tcell.Button1, tcell.ModNone)
	if key := <-woken; key != term.MouseSource().FD {
		t.Fatalf("woken for %d", key)
	}
	mev, ok := term.NextMouse()
	if !ok {
		t.Fatal("no mouse event")
	}
	if x, y := mev.Position(); x != 3 || y != 4 {
		t.Errorf("mouse at %d,%d", x, y)
	}
}
