package optimizer

import (
	"github.com/akhildatla/sketch/pkg/vm"
)

// WithDeadCodeElimination enables dead code elimination.
func WithDeadCodeElimination() Option {
	return func(o *Optimizer) {
		o.enableDeadCode = true
	}
}

// deadCodeElimination removes bytes with no observable effect:
//   - DATA 0 while the accumulator is known to be zero
//   - tool selects and unknown selectors while the accumulator is zero,
//     when the tool is already selected or is replaced before any DY
//   - DX whose target is overwritten by TARGETX or dropped at the end of
//     the frame before any DY
//
// Each frame starts from the reset state: tool LINE, accumulator zero.
func (o *Optimizer) deadCodeElimination(code []vm.Instruction) []vm.Instruction {
	if len(code) == 0 {
		return code
	}

	dead := make([]bool, len(code))
	accZero := true
	tool := vm.InitialTool

	for i, inst := range code {
		switch inst.Kind {
		case vm.KindData:
			if accZero && inst.Arg == 0 {
				dead[i] = true
				continue
			}
			accZero = false

		case vm.KindMoveX:
			dead[i] = targetXDiscarded(code[i+1:])

		case vm.KindMoveY:

		case vm.KindSetTool:
			if accZero && (inst.Tool == tool || toolDiscarded(code[i+1:])) {
				dead[i] = true
				continue
			}
			tool = inst.Tool
			accZero = true

		case vm.KindIgnored:
			if accZero {
				dead[i] = true
				continue
			}
			accZero = true

		case vm.KindEndFrame:
			tool = vm.InitialTool
			accZero = true

		default:
			accZero = true
		}
	}

	out := make([]vm.Instruction, 0, len(code))
	for i, inst := range code {
		if !dead[i] {
			out = append(out, inst)
		}
	}
	return out
}

// targetXDiscarded reports whether TX is overwritten or reset before the
// next DY reads it.
func targetXDiscarded(rest []vm.Instruction) bool {
	for _, inst := range rest {
		switch inst.Kind {
		case vm.KindMoveY:
			return false
		case vm.KindSetTargetX, vm.KindEndFrame:
			return true
		}
	}
	return true
}

// toolDiscarded reports whether the tool is replaced or reset before the
// next DY uses it.
func toolDiscarded(rest []vm.Instruction) bool {
	for _, inst := range rest {
		switch inst.Kind {
		case vm.KindMoveY:
			return false
		case vm.KindSetTool, vm.KindEndFrame:
			return true
		}
	}
	return true
}
