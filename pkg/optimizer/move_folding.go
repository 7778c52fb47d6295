package optimizer

import (
	"github.com/akhildatla/sketch/pkg/vm"
)

// foldMoves replaces every run of consecutive DX bytes by the shortest
// run with the same sum. A run summing to zero disappears.
func (o *Optimizer) foldMoves(code []vm.Instruction) []vm.Instruction {
	out := make([]vm.Instruction, 0, len(code))

	for i := 0; i < len(code); {
		if code[i].Kind != vm.KindMoveX {
			out = append(out, code[i])
			i++
			continue
		}

		sum := 0
		for i < len(code) && code[i].Kind == vm.KindMoveX {
			sum += code[i].Arg
			i++
		}
		out = append(out, splitMoveX(sum)...)
	}

	return out
}

// splitMoveX returns DX instructions summing to n.
func splitMoveX(n int) []vm.Instruction {
	var out []vm.Instruction
	for n > vm.OperandMax {
		out = append(out, vm.Instruction{Kind: vm.KindMoveX, Arg: vm.OperandMax})
		n -= vm.OperandMax
	}
	for n < vm.OperandMin {
		out = append(out, vm.Instruction{Kind: vm.KindMoveX, Arg: vm.OperandMin})
		n -= vm.OperandMin
	}
	if n != 0 {
		out = append(out, vm.Instruction{Kind: vm.KindMoveX, Arg: n})
	}
	return out
}
