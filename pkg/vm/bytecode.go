package vm

import (
	"bytes"
	"fmt"
)

// Disassembly format:
// - header comment lines starting with ';'
// - one instruction per line, prefixed by its byte offset: "0003: DX 5"
// - accumulator consumers carry the value they read as a trailing comment
// - a "; frame N" comment follows every NEXTFRAME
//
// The output re-assembles to the same bytes with pkg/asm.

// Disassemble converts sketch bytes to assembly source.
func Disassemble(code []byte) string {
	var buf bytes.Buffer

	buf.WriteString("; Disassembled sketch\n")
	buf.WriteString(fmt.Sprintf("; %d bytes\n\n", len(code)))

	var acc uint32
	frame := 1
	for i, b := range code {
		inst := Decode(b)
		buf.WriteString(fmt.Sprintf("%04d: %s\n", i, disassembleInstruction(inst, acc)))

		switch {
		case inst.Kind == KindData:
			acc = acc<<ChunkBits | uint32(inst.Arg)
		case inst.ConsumesData():
			acc = 0
		}
		if inst.Kind == KindEndFrame && i < len(code)-1 {
			frame++
			buf.WriteString(fmt.Sprintf("\n; frame %d\n", frame))
		}
	}

	return buf.String()
}

func disassembleInstruction(inst Instruction, acc uint32) string {
	text := inst.String()

	switch inst.Kind {
	case KindSetColour:
		return fmt.Sprintf("%-14s ; 0x%08X", text, acc)
	case KindSetTargetX, KindSetTargetY:
		return fmt.Sprintf("%-14s ; %d", text, int32(acc))
	case KindPause:
		return fmt.Sprintf("%-14s ; %dms", text, acc)
	case KindIgnored:
		return fmt.Sprintf("%-14s ; ignored", text)
	default:
		return text
	}
}
