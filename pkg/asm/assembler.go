// Package asm assembles sketch assembly text into sketch bytes.
//
// One instruction per line:
//
//	LINE                ; select the line tool
//	COLOUR 0xFF0000FF   ; DATA chunks followed by COLOUR
//	DX 40               ; split into DX 31, DX 9
//	DY 5
//	NEXTFRAME
//
// Lines may carry the "NNNN:" offset prefix written by vm.Disassemble.
package asm

import (
	"errors"
	"fmt"
	"math"

	"github.com/akhildatla/sketch/pkg/vm"
)

// Error definitions
var (
	ErrUnknownMnemonic = errors.New("unknown mnemonic")
	ErrUnexpectedToken = errors.New("unexpected token")
	ErrOperandCount    = errors.New("wrong number of operands")
	ErrOperandRange    = errors.New("operand out of range")
	ErrPendingData     = errors.New("immediate operand after raw DATA")
)

// Assemble assembles source into sketch bytes.
func Assemble(source string) ([]byte, error) {
	parser := NewParser(source)
	program, err := parser.Parse()
	if err != nil {
		return nil, err
	}

	a := &Assembler{code: []byte{}}
	return a.assemble(program)
}

// Assembler turns parsed instructions into bytes.
type Assembler struct {
	code []byte
	// pending counts raw DATA bytes not yet consumed by a tool byte.
	pending int
}

func (a *Assembler) assemble(program *AsmProgram) ([]byte, error) {
	for _, inst := range program.Instructions {
		if err := a.assembleInstruction(inst); err != nil {
			return nil, fmt.Errorf("line %d: %w", inst.Line, err)
		}
	}
	return a.code, nil
}

func (a *Assembler) assembleInstruction(inst AsmInstruction) error {
	if act, ok := vm.ActionFromString(inst.Mnemonic); ok {
		return a.assembleAction(act, inst)
	}

	op, ok := vm.OpcodeFromString(inst.Mnemonic)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMnemonic, inst.Mnemonic)
	}

	n, err := single(inst)
	if err != nil {
		return err
	}

	switch op {
	case vm.OpDX:
		return a.emitDX(n)

	case vm.OpDY:
		if n < vm.OperandMin || n > vm.OperandMax {
			return fmt.Errorf("%w: DY %d not in [%d, %d]", ErrOperandRange, n, vm.OperandMin, vm.OperandMax)
		}
		a.emit(vm.Encode(vm.OpDY, int(n)))

	case vm.OpData:
		if n < 0 || n > vm.ChunkMask {
			return fmt.Errorf("%w: DATA %d not in [0, %d]", ErrOperandRange, n, vm.ChunkMask)
		}
		a.emit(vm.Encode(vm.OpData, int(n)))
		a.pending++

	case vm.OpTool:
		if n < vm.OperandMin || n > vm.OperandMax {
			return fmt.Errorf("%w: TOOL %d not in [%d, %d]", ErrOperandRange, n, vm.OperandMin, vm.OperandMax)
		}
		a.emit(vm.Encode(vm.OpTool, int(n)))
		a.pending = 0
	}
	return nil
}

func (a *Assembler) assembleAction(act vm.Action, inst AsmInstruction) error {
	switch len(inst.Operands) {
	case 0:
	case 1:
		if !takesImmediate(act) {
			return fmt.Errorf("%w: %s takes no operand", ErrOperandCount, inst.Mnemonic)
		}
		if a.pending > 0 {
			return fmt.Errorf("%w: %d DATA byte(s) before %s", ErrPendingData, a.pending, inst.Mnemonic)
		}
		v, err := immediate(act, inst.Operands[0].Value)
		if err != nil {
			return err
		}
		a.emit(vm.EncodeData(v)...)
	default:
		return fmt.Errorf("%w: %s got %d", ErrOperandCount, inst.Mnemonic, len(inst.Operands))
	}

	a.emit(vm.Encode(vm.OpTool, int(act)))
	a.pending = 0
	return nil
}

// emitDX splits deltas outside the operand range into several DX bytes.
func (a *Assembler) emitDX(n int64) error {
	if n < math.MinInt32 || n > math.MaxInt32 {
		return fmt.Errorf("%w: DX %d", ErrOperandRange, n)
	}
	if n == 0 {
		a.emit(vm.Encode(vm.OpDX, 0))
		return nil
	}
	for n > vm.OperandMax {
		a.emit(vm.Encode(vm.OpDX, vm.OperandMax))
		n -= vm.OperandMax
	}
	for n < vm.OperandMin {
		a.emit(vm.Encode(vm.OpDX, vm.OperandMin))
		n -= vm.OperandMin
	}
	if n != 0 {
		a.emit(vm.Encode(vm.OpDX, int(n)))
	}
	return nil
}

func (a *Assembler) emit(b ...byte) {
	a.code = append(a.code, b...)
}

func takesImmediate(act vm.Action) bool {
	switch act {
	case vm.ActColour, vm.ActTargetX, vm.ActTargetY, vm.ActPause:
		return true
	default:
		return false
	}
}

// immediate converts an operand to the accumulator value it must produce.
// Targets accept negative values, stored as two's complement.
func immediate(act vm.Action, v int64) (uint32, error) {
	lo := int64(0)
	if act == vm.ActTargetX || act == vm.ActTargetY {
		lo = math.MinInt32
	}
	if v < lo || v > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %s %d", ErrOperandRange, act, v)
	}
	return uint32(v), nil
}

func single(inst AsmInstruction) (int64, error) {
	if len(inst.Operands) != 1 {
		return 0, fmt.Errorf("%w: %s needs 1, got %d", ErrOperandCount, inst.Mnemonic, len(inst.Operands))
	}
	return inst.Operands[0].Value, nil
}
