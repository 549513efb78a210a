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

// Package server multiplexes input, timers and client sessions on top of
// one open screen.
package server

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/andreas-jonsson/virtualwin/engine"
	"github.com/andreas-jonsson/virtualwin/input"
	"github.com/andreas-jonsson/virtualwin/platform"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Timeouts understood by Select and GetNextEvent.
const (
	BlockForever time.Duration = 0
	PollOnly     time.Duration = -1
)

// CantBlockSlice caps a wait on devices that can not block.
const CantBlockSlice = 100 * time.Millisecond

// SingleProcessID is the session id of an in-process client.
const SingleProcessID = 999

var ErrNotInitialized = errors.New("server is not initialized")

type Config func(*Server) error

func WithScreen(drv engine.Driver, opts ...engine.ScreenOption) Config {
	return func(s *Server) error {
		s.screenDrv = drv
		s.screenOpts = append(s.screenOpts, opts...)
		return nil
	}
}

func WithKeyboard(k input.Keyboard) Config {
	return func(s *Server) error {
		s.keyboard = k
		return nil
	}
}

// WithSecondKeyboard adds an optional extra keyboard, opened after the first.
func WithSecondKeyboard(k input.Keyboard) Config {
	return func(s *Server) error {
		s.keyboard2 = k
		return nil
	}
}

func WithMouse(m input.Mouse) Config {
	return func(s *Server) error {
		s.mouse = m
		return nil
	}
}

func WithWaiter(w platform.Waiter) Config {
	return func(s *Server) error {
		s.waiter = w
		return nil
	}
}

// WithTimers replaces the timer subsystem. Nil disables timers.
func WithTimers(t Timers) Config {
	return func(s *Server) error {
		s.timers = t
		return nil
	}
}

// WithTransport switches the server to multi-session mode.
func WithTransport(t Transport) Config {
	return func(s *Server) error {
		s.transport = t
		return nil
	}
}

// WithPersistent keeps the server running after the last session leaves.
func WithPersistent(b bool) Config {
	return func(s *Server) error {
		s.persistent = b
		return nil
	}
}

func WithEscapeQuits(b bool) Config {
	return func(s *Server) error {
		s.escapeQuits = b
		return nil
	}
}

func WithPortrait(p engine.Portrait) Config {
	return func(s *Server) error {
		s.portrait = p
		return nil
	}
}

func WithAutoPortrait(b bool) Config {
	return func(s *Server) error {
		s.autoPortrait = b
		return nil
	}
}

// WithThreadSafe serializes every entry point behind one lock.
func WithThreadSafe() Config {
	return func(s *Server) error {
		s.lock = &sync.Mutex{}
		return nil
	}
}

func WithMaxSessions(n int) Config {
	return func(s *Server) error {
		if n < 0 {
			return errors.Errorf("invalid session limit %d", n)
		}
		s.sessions = NewRegistry(n)
		return nil
	}
}

// WithExit replaces the function Terminate ends the process with.
func WithExit(f func(code int)) Config {
	return func(s *Server) error {
		s.exit = f
		return nil
	}
}

func WithLogger(l *log.Entry) Config {
	return func(s *Server) error {
		s.log = l
		return nil
	}
}

// WithRedraw installs the hook that repaints the screen contents.
func WithRedraw(f func()) Config {
	return func(s *Server) error {
		s.redraw = f
		return nil
	}
}

// WithBellWriter sets where Bell writes the terminal bell.
func WithBellWriter(w io.Writer) Config {
	return func(s *Server) error {
		s.bell = w
		return nil
	}
}

// Server is the process wide server state.
type Server struct {
	lock sync.Locker
	log  *log.Entry

	screenDrv    engine.Driver
	screenOpts   []engine.ScreenOption
	portrait     engine.Portrait
	autoPortrait bool

	keyboard  input.Keyboard
	keyboard2 input.Keyboard
	mouse     input.Mouse
	waiter    platform.Waiter
	timers    Timers
	transport Transport

	persistent  bool
	escapeQuits bool
	exit        func(int)
	redraw      func()
	bell        io.Writer

	screen                 *engine.Screen
	kbdSrc, kbd2Src, msSrc platform.Source
	sessions               *Registry
	regfds                 *DescriptorSet
	ptr                    pointer
	mods                   input.Modifiers
	root                   Window
	cursor                 Cursor
	start                  time.Time
	initialized            bool
	terminating            bool
	terminateOnce          sync.Once
}

func New(configs ...Config) (*Server, error) {
	s := &Server{
		log:      log.WithField("component", "server"),
		keyboard: input.NullKeyboard{},
		mouse:    input.NullMouse{},
		timers:   NewTimerList(),
		exit:     os.Exit,
		bell:     os.Stderr,
		sessions: NewRegistry(DefaultMaxSessions),
		regfds:   NewDescriptorSet(),
		kbdSrc:   platform.NoSource,
		kbd2Src:  platform.NoSource,
		msSrc:    platform.NoSource,
	}
	for _, cfg := range configs {
		if err := cfg(s); err != nil {
			return nil, err
		}
	}
	if s.screenDrv == nil {
		return nil, errors.New("no screen driver configured")
	}
	if s.waiter == nil {
		s.waiter = defaultWaiter()
	}
	return s, nil
}

func (s *Server) acquire() {
	if s.lock != nil {
		s.lock.Lock()
	}
}

func (s *Server) release() {
	if s.lock != nil {
		s.lock.Unlock()
	}
}

// Initialize opens the keyboards, the screen and the mouse, in that
// order. On failure everything opened so far is closed again.
func (s *Server) Initialize() error {
	s.acquire()
	defer s.release()
	return s.initialize()
}

func (s *Server) initialize() error {
	s.sessions.Reset()
	s.regfds.Unregister(UnregisterAll)
	s.start = time.Now()

	var err error
	if s.kbdSrc, err = s.keyboard.Open(); err != nil {
		return errors.Wrap(err, "cannot initialise keyboard")
	}
	if s.keyboard2 != nil {
		if s.kbd2Src, err = s.keyboard2.Open(); err != nil {
			s.log.WithError(err).Warn("second keyboard not available")
			s.keyboard2 = nil
			s.kbd2Src = platform.NoSource
		}
	}

	if s.screen, err = engine.OpenScreen(s.screenDrv, s.screenOpts...); err != nil {
		s.closeKeyboards()
		return errors.Wrap(err, "cannot initialise screen")
	}
	if s.portrait != engine.PortraitNone {
		s.screen.SetPortraitMode(s.portrait)
	}

	if s.msSrc, err = s.mouse.Open(); err != nil {
		s.screen.Close()
		s.closeKeyboards()
		return errors.Wrap(err, "cannot initialise mouse")
	}

	d := s.screen.Device()
	s.root = Window{
		ID:         RootWindowID,
		Width:      d.XVirtRes,
		Height:     d.YVirtRes,
		Background: engine.Black,
		Mapped:     true,
		Realized:   true,
		Output:     true,
	}

	s.ptr = pointer{x: -1, y: -1, restrict: engine.Rect{X1: d.XVirtRes - 1, Y1: d.YVirtRes - 1}}
	s.cursor = defaultCursor

	s.screen.FillRect(0, 0, d.XVirtRes-1, d.YVirtRes-1, s.screen.FindColor(s.root.Background))

	s.restrictPointer(engine.Rect{X1: d.XRes - 1, Y1: d.YRes - 1})
	s.ptr.move(d.XRes/2, d.YRes/2)
	s.redrawScreen()

	s.sessions.Reset()
	s.initialized = true
	s.terminating = false
	s.terminateOnce = sync.Once{}

	s.log.WithFields(log.Fields{
		"width":  d.XRes,
		"height": d.YRes,
		"colors": d.NColors,
	}).Info("server initialized")
	return nil
}

func (s *Server) closeKeyboards() {
	if s.keyboard2 != nil {
		s.keyboard2.Close()
	}
	s.keyboard.Close()
}

func (s *Server) restrictPointer(r engine.Rect) {
	s.ptr.restrict = r
	s.ptr.move(s.ptr.x, s.ptr.y)
}

func (s *Server) redrawScreen() {
	if s.redraw != nil {
		s.redraw()
	}
}

// Terminate closes the transport, screen, mouse and keyboards, then ends
// the process. Only the first call has any effect. It does not take the
// server lock so it can run from a signal handler.
func (s *Server) Terminate() {
	s.terminateOnce.Do(func() {
		if s.transport != nil {
			if err := s.transport.Close(); err != nil {
				s.log.WithError(err).Warn("closing transport")
			}
		}
		if s.screen != nil {
			s.screen.Close()
		}
		if s.initialized {
			s.mouse.Close()
			s.closeKeyboards()
		}
		s.initialized = false
		s.log.Info("server terminated")
		s.exit(0)
	})
}

// Open attaches the in-process client, initializing the server on first use.
func (s *Server) Open() error {
	s.acquire()
	defer s.release()

	if s.sessions.Count() > 0 {
		return nil
	}
	if !s.initialized {
		if err := s.initialize(); err != nil {
			return err
		}
	}
	h, err := s.sessions.Accept(SingleProcessID)
	if err != nil {
		return err
	}
	s.sessions.SetCurrent(h)
	return nil
}

// Close detaches the current session.
func (s *Server) Close() {
	s.acquire()
	h := s.sessions.Current()
	s.dropSession(h)
	terminate := s.terminating
	s.release()

	if terminate {
		s.Terminate()
	}
}

// DropSession detaches the session with the given id.
func (s *Server) DropSession(id int) error {
	s.acquire()
	h, ok := s.sessions.Find(id)
	if !ok {
		s.release()
		return ErrSessionNotFound
	}
	s.dropSession(h)
	terminate := s.terminating
	s.release()

	if terminate {
		s.Terminate()
	}
	return nil
}

// dropSession counts the session as gone and unlinks it. The caller
// terminates if s.terminating is set afterwards.
func (s *Server) dropSession(h Handle) {
	sess, ok := s.sessions.Lookup(h)
	if !ok {
		return
	}
	id := sess.ID
	left := s.sessions.Drop()
	if s.transport != nil {
		s.transport.Disconnect(id)
	}
	s.sessions.Remove(h)
	s.log.WithFields(log.Fields{"session": id, "left": left}).Debug("session dropped")

	if !s.persistent && left == 0 {
		s.terminating = true
	}
}

// RegisterInput adds fd to the descriptors watched for the current session.
// Descriptors the waiter can not watch are refused.
func (s *Server) RegisterInput(fd int) error {
	s.acquire()
	defer s.release()
	if !platform.Accepts(s.waiter, fd) {
		return errors.Wrapf(ErrBadDescriptor, "register %d: beyond waiter limit", fd)
	}
	return s.regfds.Register(fd)
}

func (s *Server) UnregisterInput(fd int) {
	s.acquire()
	s.regfds.Unregister(fd)
	s.release()
}

// GetNextEvent returns the next event of the current session. With
// BlockForever it waits until there is one, otherwise it runs at most
// one dispatch pass and may return an EventNone. Without a current
// session it returns an EventError.
func (s *Server) GetNextEvent(timeout time.Duration) Event {
	s.acquire()
	h := s.sessions.Current()
	if ev, ok := s.sessions.Dequeue(h); ok {
		s.release()
		return ev
	}
	for {
		if _, ok := s.sessions.Lookup(h); !ok {
			s.release()
			return Event{Type: EventError}
		}
		s.selectLocked(timeout)
		if s.terminating {
			s.release()
			s.Terminate()
			return Event{}
		}
		if ev, ok := s.sessions.Dequeue(h); ok {
			s.release()
			return ev
		}
		if timeout != BlockForever {
			s.release()
			return Event{Type: EventNone}
		}
	}
}

// CheckNextEvent polls once and returns any queued event.
func (s *Server) CheckNextEvent() Event {
	return s.GetNextEvent(PollOnly)
}

// PeekEvent returns the next event of the current session without
// removing it.
func (s *Server) PeekEvent() (Event, bool) {
	s.acquire()
	defer s.release()
	return s.sessions.Peek(s.sessions.Current())
}

// SetWaiting marks a session as blocked in a request for its next event.
func (s *Server) SetWaiting(id int, waiting bool) {
	s.acquire()
	defer s.release()
	if h, ok := s.sessions.Find(id); ok {
		sess, _ := s.sessions.Lookup(h)
		sess.Waiting = waiting
	}
}

// ScreenInfo describes the screen together with the pointer state.
func (s *Server) ScreenInfo() (engine.ScreenInfo, error) {
	s.acquire()
	defer s.release()
	if s.screen == nil || !s.initialized {
		return engine.ScreenInfo{}, ErrNotInitialized
	}
	return s.screen.Info(s.pointerState()), nil
}

func (s *Server) pointerState() engine.PointerState {
	return engine.PointerState{
		X:         s.ptr.x,
		Y:         s.ptr.y,
		Buttons:   int(s.ptr.buttons),
		Modifiers: uint32(s.mods),
	}
}

// Screen returns the open screen, or nil before Initialize.
func (s *Server) Screen() *engine.Screen {
	return s.screen
}

func (s *Server) Sessions() *Registry {
	return s.sessions
}

func (s *Server) Root() Window {
	return s.root
}

func (s *Server) Cursor() Cursor {
	return s.cursor
}

// Pointer returns the current pointer position and buttons.
func (s *Server) Pointer() (x, y int, buttons input.Buttons) {
	s.acquire()
	defer s.release()
	return s.ptr.x, s.ptr.y, s.ptr.buttons
}

// Bell rings the terminal bell.
func (s *Server) Bell() {
	s.bell.Write([]byte{'\a'})
}

// TickCount returns milliseconds since Initialize.
func (s *Server) TickCount() int64 {
	return int64(time.Since(s.start) / time.Millisecond)
}

func (s *Server) Delay(d time.Duration) {
	time.Sleep(d)
}

// SetPortraitMode rotates the screen and fits the root window and the
// pointer to the new geometry.
func (s *Server) SetPortraitMode(mode engine.Portrait) engine.Portrait {
	s.acquire()
	defer s.release()
	return s.setPortraitMode(mode)
}

func (s *Server) setPortraitMode(mode engine.Portrait) engine.Portrait {
	if s.screen == nil {
		return engine.PortraitNone
	}
	applied := s.screen.SetPortraitMode(mode)
	d := s.screen.Device()
	s.root.Width, s.root.Height = d.XRes, d.YRes
	s.restrictPointer(engine.Rect{X1: d.XRes - 1, Y1: d.YRes - 1})
	s.redrawScreen()
	return applied
}

// SetPortraitModeFromXY picks landscape or portrait from the shape of a
// window when auto portrait is enabled.
func (s *Server) SetPortraitModeFromXY(width, height int) {
	s.acquire()
	defer s.release()

	if !s.autoPortrait || s.screen == nil {
		return
	}
	current := s.screen.Device().Portrait
	if width > height {
		if current != engine.PortraitNone {
			s.setPortraitMode(engine.PortraitNone)
		}
	} else if current == engine.PortraitNone {
		s.setPortraitMode(engine.PortraitLeft)
	}
}

// Capture saves the screen contents as a bitmap.
func (s *Server) Capture(fs afero.Fs, name string) error {
	s.acquire()
	defer s.release()
	if !s.initialized {
		return ErrNotInitialized
	}
	return s.screen.Capture(fs, name)
}
