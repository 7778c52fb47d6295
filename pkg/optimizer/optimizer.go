// Package optimizer rewrites sketch bytes into shorter equivalents.
//
// Every pass works inside frame boundaries: no byte moves across a
// NEXTFRAME and no NEXTFRAME is removed, so a player sees the same
// sequence of display calls frame by frame.
package optimizer

import (
	"github.com/akhildatla/sketch/pkg/vm"
)

// maxRounds bounds the fixpoint loop in Optimize.
const maxRounds = 8

// Report summarises the last Optimize call.
type Report struct {
	BytesIn     int
	BytesOut    int
	MovesFolded int // DX bytes saved by folding
	DeadRemoved int // bytes removed as dead code
	Rounds      int
}

// Optimizer applies optimizations to sketch bytes.
type Optimizer struct {
	enableMoveFolding bool
	enableDeadCode    bool

	report Report
}

// Option is a functional option for the Optimizer.
type Option func(*Optimizer)

// WithMoveFolding enables folding of consecutive DX bytes.
func WithMoveFolding() Option {
	return func(o *Optimizer) {
		o.enableMoveFolding = true
	}
}

// WithAllOptimizations enables all optimizations.
func WithAllOptimizations() Option {
	return func(o *Optimizer) {
		o.enableMoveFolding = true
		o.enableDeadCode = true
	}
}

// New creates a new Optimizer with the given options.
func New(opts ...Option) *Optimizer {
	opt := &Optimizer{}
	for _, o := range opts {
		o(opt)
	}
	return opt
}

// Optimize applies enabled optimizations until the code stops shrinking.
// The input is not modified.
func (o *Optimizer) Optimize(code []byte) []byte {
	o.report = Report{BytesIn: len(code)}

	insts := make([]vm.Instruction, len(code))
	for i, b := range code {
		insts[i] = vm.Decode(b)
	}

	for round := 0; round < maxRounds; round++ {
		before := len(insts)

		if o.enableMoveFolding {
			n := len(insts)
			insts = o.foldMoves(insts)
			o.report.MovesFolded += n - len(insts)
		}

		if o.enableDeadCode {
			n := len(insts)
			insts = o.deadCodeElimination(insts)
			o.report.DeadRemoved += n - len(insts)
		}

		o.report.Rounds = round + 1
		if len(insts) == before {
			break
		}
	}

	insts = keepLastFrame(code, insts)

	out := make([]byte, len(insts))
	for i, inst := range insts {
		out[i] = inst.Byte()
	}
	o.report.BytesOut = len(out)
	return out
}

// keepLastFrame puts back one DX 0 when the passes emptied the frame
// after the final NEXTFRAME. A stream ending on NEXTFRAME rewinds in
// that same frame, so without the filler the player would show one
// frame fewer per loop.
func keepLastFrame(code []byte, insts []vm.Instruction) []vm.Instruction {
	if len(code) == 0 || len(insts) == 0 {
		return insts
	}
	if vm.Decode(code[len(code)-1]).Kind == vm.KindEndFrame {
		return insts
	}
	if insts[len(insts)-1].Kind != vm.KindEndFrame {
		return insts
	}
	return append(insts, vm.Instruction{Kind: vm.KindMoveX})
}

// Report returns the summary of the last Optimize call.
func (o *Optimizer) Report() Report {
	return o.report
}
