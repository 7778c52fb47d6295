// Package session drives sketch playback for a host.
//
// A host creates one Session per sketch and calls Frame once per
// rendering opportunity, passing the key pressed since the last call.
// Frame opens the stream, plays one frame and closes it again, so the
// stream handle never outlives the call.
//
// Basic usage:
//
//	s, err := session.New(canvas)
//	if err != nil {
//		return err
//	}
//	for {
//		quit, err := s.Frame(key)
//		...
//	}
package session

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/akhildatla/sketch/pkg/display"
	"github.com/akhildatla/sketch/pkg/vm"
)

// Key is a key code delivered by the host. KeyNone means no key.
type Key int

const (
	KeyNone   Key = 0
	KeyEscape Key = 27

	DefaultQuitKey = KeyEscape
)

// Common errors
var (
	ErrStreamOpen = errors.New("opening sketch")
	ErrNotFile    = errors.New("sketch is not a regular file")
)

// Options configures a Session.
type Options struct {
	// Fs opens the sketch named by the surface. Defaults to the OS filesystem.
	Fs afero.Fs

	// Logger receives per-frame diagnostics.
	Logger zerolog.Logger

	// QuitKey is the key that ends the session.
	QuitKey Key

	// Stats enables session-wide statistics.
	Stats bool

	// Trace observes every obeyed instruction.
	Trace vm.TraceFunc
}

// Option is a functional option for configuring a Session.
type Option func(*Options)

// WithFs sets the filesystem sketches are opened from.
func WithFs(fs afero.Fs) Option {
	return func(o *Options) {
		o.Fs = fs
	}
}

// WithLogger sets the session logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithQuitKey sets the key that ends the session.
func WithQuitKey(k Key) Option {
	return func(o *Options) {
		o.QuitKey = k
	}
}

// WithStats enables session-wide statistics.
func WithStats() Option {
	return func(o *Options) {
		o.Stats = true
	}
}

// WithTrace registers a per-instruction trace hook.
func WithTrace(fn vm.TraceFunc) Option {
	return func(o *Options) {
		o.Trace = fn
	}
}

// Session plays one sketch on one surface.
type Session struct {
	name    string
	size    int64
	fs      afero.Fs
	log     zerolog.Logger
	quitKey Key
	machine *vm.VM
	last    vm.FrameResult
	frames  int
}

// New creates a session for the sketch named by surface.Name(). A missing
// or unreadable sketch fails here rather than on the first frame.
func New(surface display.Surface, opts ...Option) (*Session, error) {
	o := &Options{
		Fs:      afero.NewOsFs(),
		Logger:  zerolog.Nop(),
		QuitKey: DefaultQuitKey,
	}
	for _, opt := range opts {
		opt(o)
	}

	name := surface.Name()
	info, err := o.Fs.Stat(name)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrStreamOpen, name, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotFile, name)
	}

	f, err := o.Fs.Open(name)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrStreamOpen, name, err)
	}
	f.Close()

	logger := o.Logger.With().Str("sketch", name).Logger()
	vmOpts := []vm.Option{vm.WithLogger(logger)}
	if o.Stats {
		vmOpts = append(vmOpts, vm.WithStats())
	}
	if o.Trace != nil {
		vmOpts = append(vmOpts, vm.WithTrace(o.Trace))
	}

	s := &Session{
		name:    name,
		size:    info.Size(),
		fs:      o.Fs,
		log:     logger,
		quitKey: o.QuitKey,
		machine: vm.New(surface, vmOpts...),
	}
	s.log.Debug().Int64("bytes", s.size).Msg("session started")
	return s, nil
}

// Frame plays one frame and reports whether key ends the session. The
// quit test does not depend on the frame; a nil session only answers it.
func (s *Session) Frame(key Key) (bool, error) {
	if s == nil {
		return key == DefaultQuitKey, nil
	}
	_, err := s.runFrame()
	return key == s.quitKey, err
}

// Play runs frames until the first frame that reaches the end of the
// stream, or until max frames when max is positive.
func (s *Session) Play(max int) ([]vm.FrameResult, error) {
	var results []vm.FrameResult
	for max <= 0 || len(results) < max {
		res, err := s.runFrame()
		if err != nil {
			return results, err
		}
		results = append(results, res)
		if res.EndOfStream {
			break
		}
	}
	return results, nil
}

func (s *Session) runFrame() (vm.FrameResult, error) {
	f, err := s.fs.Open(s.name)
	if err != nil {
		return vm.FrameResult{}, fmt.Errorf("%w %s: %w", ErrStreamOpen, s.name, err)
	}
	defer f.Close()

	res, err := s.machine.RunFrame(f)
	if err != nil {
		s.log.Error().Err(err).Uint32("cursor", res.Start).Msg("frame failed")
		return res, err
	}

	s.frames++
	s.last = res
	return res, nil
}

// Name returns the sketch name.
func (s *Session) Name() string {
	return s.name
}

// Size returns the sketch size in bytes when the session started.
func (s *Session) Size() int64 {
	return s.size
}

// Frames returns how many frames have been played.
func (s *Session) Frames() int {
	return s.frames
}

// Last returns the result of the last played frame.
func (s *Session) Last() vm.FrameResult {
	return s.last
}

// State returns the interpreter state.
func (s *Session) State() vm.State {
	return s.machine.State()
}

// Stats returns session-wide statistics, or nil unless WithStats was given.
func (s *Session) Stats() *vm.ExecutionStats {
	return s.machine.Stats()
}

// Rewind restarts playback from the beginning of the sketch.
func (s *Session) Rewind() {
	s.machine.ResetSession()
	s.log.Debug().Msg("rewound")
}
