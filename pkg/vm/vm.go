// Package vm implements the sketch interpreter.
//
// A sketch is a stream of single-byte instructions. The VM decodes each
// byte, updates its drawing state and calls into a display.Surface for
// visible effects. Playback is frame based: RunFrame resumes at the
// cursor left by the previous call and stops at NEXTFRAME or at the end
// of the stream.
//
// Basic usage:
//
//	v := vm.New(surface)
//	res, err := v.RunFrame(f)
//
// With tracing:
//
//	v := vm.New(surface, vm.WithTrace(func(off uint32, inst vm.Instruction, st vm.State) {
//		fmt.Printf("%04d %s\n", off, inst)
//	}))
package vm

import (
	"bufio"
	"errors"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/akhildatla/sketch/pkg/display"
)

// ExecutionStats contains counters about interpreted instructions.
type ExecutionStats struct {
	Steps      int64        // Bytes obeyed
	Lines      int64        // DrawLine calls
	Blocks     int64        // DrawBlock calls
	Colours    int64        // SetColour calls
	Shows      int64        // SHOW instructions, not counting the end-of-frame flush
	Pauses     int64        // Pause calls
	PauseMs    int64        // Sum of pause durations in milliseconds
	Ignored    int64        // OpTool bytes with an unknown selector
	Frames     int64        // Completed RunFrame calls
	DurationNs int64        // Wall time spent in RunFrame
	KindCounts map[Kind]int // Count of each decoded kind
}

func newStats() ExecutionStats {
	return ExecutionStats{KindCounts: make(map[Kind]int)}
}

func (s *ExecutionStats) add(o ExecutionStats) {
	s.Steps += o.Steps
	s.Lines += o.Lines
	s.Blocks += o.Blocks
	s.Colours += o.Colours
	s.Shows += o.Shows
	s.Pauses += o.Pauses
	s.PauseMs += o.PauseMs
	s.Ignored += o.Ignored
	s.Frames += o.Frames
	s.DurationNs += o.DurationNs
	for k, n := range o.KindCounts {
		s.KindCounts[k] += n
	}
}

// FrameResult describes one RunFrame call.
type FrameResult struct {
	Start       uint32 // cursor when the frame started
	Consumed    uint32 // bytes obeyed
	EndOfStream bool   // the frame ran off the end of the stream
	Stats       ExecutionStats
}

// TraceFunc observes every obeyed instruction. offset is the byte position
// of the instruction and st the state after it was applied.
type TraceFunc func(offset uint32, inst Instruction, st State)

// Option configures a VM.
type Option func(*VM)

// WithLogger sets the logger used for stream diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(vm *VM) {
		vm.log = l
	}
}

// WithTrace registers a per-instruction trace hook.
func WithTrace(fn TraceFunc) Option {
	return func(vm *VM) {
		vm.trace = fn
	}
}

// WithStats enables session-wide statistics, see Stats.
func WithStats() Option {
	return func(vm *VM) {
		vm.EnableStats()
	}
}

// VM represents the sketch interpreter.
type VM struct {
	state   State
	surface display.Surface
	log     zerolog.Logger
	trace   TraceFunc

	// frame collects counters for the frame in progress.
	frame ExecutionStats

	stats        ExecutionStats
	statsEnabled bool
}

// New creates a VM that draws on surface.
func New(surface display.Surface, opts ...Option) *VM {
	vm := &VM{
		state:   NewState(),
		surface: surface,
		log:     zerolog.Nop(),
		frame:   newStats(),
	}
	for _, opt := range opts {
		opt(vm)
	}
	return vm
}

// EnableStats enables session-wide statistics collection.
func (vm *VM) EnableStats() {
	vm.statsEnabled = true
	vm.stats = newStats()
}

// Stats returns statistics accumulated over all frames since EnableStats.
// Returns nil if stats were not enabled.
func (vm *VM) Stats() *ExecutionStats {
	if !vm.statsEnabled {
		return nil
	}
	return &vm.stats
}

// State returns a copy of the drawing state.
func (vm *VM) State() State {
	return vm.state
}

// Surface returns the surface the VM draws on.
func (vm *VM) Surface() display.Surface {
	return vm.surface
}

// Obey decodes and applies a single instruction byte. Every byte is
// well formed; the cursor advances by one whatever the opcode.
func (vm *VM) Obey(b byte) {
	offset := vm.state.Cursor
	inst := Decode(b)
	vm.apply(inst)
	vm.state.Cursor++

	vm.frame.Steps++
	vm.frame.KindCounts[inst.Kind]++
	if vm.trace != nil {
		vm.trace(offset, inst, vm.state)
	}
}

func (vm *VM) apply(inst Instruction) {
	st := &vm.state

	switch inst.Kind {
	case KindMoveX:
		st.TX += inst.Arg
		return
	case KindMoveY:
		st.TY += inst.Arg
		vm.commit()
		return
	case KindData:
		st.Data = st.Data<<ChunkBits | uint32(inst.Arg)&ChunkMask
		return
	}

	switch inst.Kind {
	case KindSetTool:
		st.Tool = inst.Tool
	case KindSetColour:
		vm.surface.SetColour(st.Data)
		vm.frame.Colours++
	case KindSetTargetX:
		st.TX = int(int32(st.Data))
	case KindSetTargetY:
		st.TY = int(int32(st.Data))
	case KindShow:
		vm.surface.Show()
		vm.frame.Shows++
	case KindPause:
		vm.surface.Pause(st.Data)
		vm.frame.Pauses++
		vm.frame.PauseMs += int64(st.Data)
	case KindEndFrame:
		st.End = true
	case KindIgnored:
		vm.frame.Ignored++
	}
	st.Data = 0
}

// commit draws from the pen to the target with the current tool and moves
// the pen onto the target.
func (vm *VM) commit() {
	st := &vm.state
	switch st.Tool {
	case ToolLine:
		vm.surface.DrawLine(st.X, st.Y, st.TX, st.TY)
		vm.frame.Lines++
	case ToolBlock:
		vm.surface.DrawBlock(st.X, st.Y, st.TX-st.X, st.TY-st.Y)
		vm.frame.Blocks++
	}
	st.X, st.Y = st.TX, st.TY
}

// RunFrame plays one frame from r. It seeks to the cursor, obeys bytes
// until NEXTFRAME or end of stream, flushes the display and resets the
// transient drawing state. The cursor rewinds to 0 at end of stream,
// which includes a NEXTFRAME that is the last byte of r.
//
// Seek and read errors are logged and treated as end of stream.
func (vm *VM) RunFrame(r io.ReadSeeker) (FrameResult, error) {
	startTime := time.Now()
	start := vm.state.Cursor
	res := FrameResult{Start: start}

	if _, err := r.Seek(int64(start), io.SeekStart); err != nil {
		vm.log.Warn().Err(err).Uint32("cursor", start).Msg("stream seek failed, treating as end of stream")
		res.EndOfStream = true
	} else {
		res.EndOfStream = vm.obeyFrame(bufio.NewReader(r))
	}
	res.Consumed = vm.state.Cursor - start

	vm.frame.DurationNs = time.Since(startTime).Nanoseconds()
	res.Stats = vm.CompleteFrame(res.EndOfStream)

	vm.log.Debug().
		Uint32("start", res.Start).
		Uint32("consumed", res.Consumed).
		Bool("eos", res.EndOfStream).
		Msg("frame done")
	return res, nil
}

// obeyFrame obeys bytes from br until the frame ends and reports whether
// the stream is exhausted.
func (vm *VM) obeyFrame(br *bufio.Reader) bool {
	for !vm.state.End {
		b, err := br.ReadByte()
		if err != nil {
			vm.logReadError(err)
			return true
		}
		vm.Obey(b)
	}

	if _, err := br.Peek(1); err != nil {
		vm.logReadError(err)
		return true
	}
	return false
}

func (vm *VM) logReadError(err error) {
	if errors.Is(err, io.EOF) {
		return
	}
	vm.log.Warn().Err(err).Uint32("cursor", vm.state.Cursor).Msg("stream read failed, treating as end of stream")
}

// CompleteFrame finishes the frame in progress: it rewinds the cursor
// when endOfStream is set, flushes the display and resets the transient
// drawing state. It returns the counters of the finished frame.
func (vm *VM) CompleteFrame(endOfStream bool) ExecutionStats {
	if endOfStream {
		vm.state.Cursor = 0
	}
	vm.surface.Show()
	vm.state.ResetFrame()

	done := vm.frame
	done.Frames = 1
	if vm.statsEnabled {
		vm.stats.add(done)
	}
	vm.frame = newStats()
	return done
}

// ResetSession rewinds the cursor and clears the drawing state without
// touching the display.
func (vm *VM) ResetSession() {
	vm.state.Reset()
	vm.frame = newStats()
}
