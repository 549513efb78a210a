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

package platform

import (
	"testing"
	"time"

	"github.com/pkg/errors"
)

func TestQueue(t *testing.T) {
	q := NewQueue()
	a := Source{FD: NewKey()}
	b := Source{FD: NewKey()}

	t.Run("timeout", func(t *testing.T) {
		q.Clear()
		q.Add(a)
		start := time.Now()
		n, err := q.Wait(10 * time.Millisecond)
		if err != nil || n != 0 {
			t.Fatalf("got %d, %v", n, err)
		}
		if time.Since(start) < 10*time.Millisecond {
			t.Error("returned before the timeout")
		}
	})

	t.Run("posted", func(t *testing.T) {
		q.Clear()
		q.Add(a)
		q.Add(b)
		q.Post(b.FD)
		n, err := q.Wait(Infinite)
		if err != nil || n != 1 {
			t.Fatalf("got %d, %v", n, err)
		}
		if q.Ready(a) || !q.Ready(b) {
			t.Error("wrong source marked ready")
		}
	})

	t.Run("posted from goroutine", func(t *testing.T) {
		q.Clear()
		q.Add(a)
		go func() {
			time.Sleep(5 * time.Millisecond)
			q.Post(a.FD)
		}()
		if n, _ := q.Wait(time.Second); n != 1 || !q.Ready(a) {
			t.Fatalf("got %d", n)
		}
	})

	t.Run("pending", func(t *testing.T) {
		q.Clear()
		q.Add(Source{FD: a.FD, Pending: func() bool { return true }})
		if n, _ := q.Wait(Infinite); n != 1 || !q.Ready(a) {
			t.Fatalf("got %d", n)
		}
	})

	t.Run("unknown key", func(t *testing.T) {
		q.Clear()
		q.Add(a)
		q.Post(NewKey())
		if n, _ := q.Wait(0); n != 0 {
			t.Fatalf("got %d", n)
		}
	})
}

// fakeReader hands out queued keys and times out once they run dry.
type fakeReader struct {
	keys     []int
	err      error
	timeouts []time.Duration
}

func (r *fakeReader) ReadMessage(timeout time.Duration) (int, error) {
	r.timeouts = append(r.timeouts, timeout)
	if r.err != nil {
		return 0, r.err
	}
	if len(r.keys) == 0 {
		return 0, ErrTimeout
	}
	key := r.keys[0]
	r.keys = r.keys[1:]
	return key, nil
}

func TestReadWaiter(t *testing.T) {
	mouse := Source{FD: NewKey()}
	kbd := Source{FD: NewKey()}

	r := &fakeReader{keys: []int{kbd.FD}}
	w := NewReadWaiter(r)
	w.Clear()
	w.Add(mouse)
	w.Add(kbd)

	n, err := w.Wait(20 * time.Millisecond)
	if err != nil || n != 1 {
		t.Fatalf("got %d, %v", n, err)
	}
	if w.Ready(mouse) || !w.Ready(kbd) {
		t.Error("wrong source marked ready")
	}
	if r.timeouts[0] != 20*time.Millisecond {
		t.Errorf("reader saw timeout %v", r.timeouts[0])
	}

	w.Clear()
	w.Add(mouse)
	if n, err := w.Wait(Infinite); n != 0 || err != nil {
		t.Fatalf("got %d, %v", n, err)
	}

	r.err = errors.New("device gone")
	w.Clear()
	w.Add(mouse)
	if _, err := w.Wait(0); err == nil {
		t.Error("reader error was swallowed")
	}
}

func TestReadWaiterForeignMessage(t *testing.T) {
	mouse := Source{FD: NewKey()}
	kbd := Source{FD: NewKey()}
	other := NewKey()

	tests := []struct {
		name  string
		keys  []int
		ready int
		reads int
	}{
		{"skipped", []int{other, kbd.FD}, 1, 2},
		{"only foreign", []int{other, other}, 0, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &fakeReader{keys: tt.keys}
			w := NewReadWaiter(r)
			w.Clear()
			w.Add(mouse)
			w.Add(kbd)

			n, err := w.Wait(Infinite)
			if err != nil || n != tt.ready {
				t.Fatalf("got %d, %v", n, err)
			}
			if len(r.timeouts) != tt.reads {
				t.Errorf("%d reads, want %d", len(r.timeouts), tt.reads)
			}
			if tt.ready == 1 && !w.Ready(kbd) {
				t.Error("keyboard not ready")
			}
		})
	}
}

func TestSourceValid(t *testing.T) {
	if NoSource.Valid() {
		t.Error("NoSource is valid")
	}
	if k1, k2 := NewKey(), NewKey(); k1 >= 0 || k1 == k2 {
		t.Errorf("keys %d and %d", k1, k2)
	}
}
