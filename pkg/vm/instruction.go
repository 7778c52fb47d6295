package vm

import "fmt"

// A sketch instruction is a single byte.
//
// Layout:
// ┌─────────┬─────────────────────────────┐
// │ opcode  │ operand (two's complement)  │
// │ 2 bits  │          6 bits             │
// └─────────┴─────────────────────────────┘
//
// For OpTool the operand selects an Action; for OpData only the low
// 6 bits are used and the sign is discarded.

const (
	OperandMin = -32
	OperandMax = 31
	ChunkBits  = 6
	ChunkMask  = 0x3F
)

// DecodeOpcode returns the top two bits of b.
func DecodeOpcode(b byte) Opcode {
	return Opcode(b >> 6)
}

// DecodeOperand returns the bottom six bits of b sign-extended to [-32, 31].
func DecodeOperand(b byte) int {
	return int(int8(b<<2) >> 2)
}

// Kind identifies the variant held by an Instruction.
type Kind uint8

const (
	KindSetTool Kind = iota
	KindSetColour
	KindSetTargetX
	KindSetTargetY
	KindShow
	KindPause
	KindEndFrame
	KindMoveX
	KindMoveY
	KindData
	KindIgnored // OpTool with a selector outside the Action enumeration
)

// String returns the name of a kind.
func (k Kind) String() string {
	switch k {
	case KindSetTool:
		return "SetTool"
	case KindSetColour:
		return "SetColour"
	case KindSetTargetX:
		return "SetTargetX"
	case KindSetTargetY:
		return "SetTargetY"
	case KindShow:
		return "Show"
	case KindPause:
		return "Pause"
	case KindEndFrame:
		return "EndFrame"
	case KindMoveX:
		return "MoveX"
	case KindMoveY:
		return "MoveY"
	case KindData:
		return "Data"
	case KindIgnored:
		return "Ignored"
	default:
		return "Unknown"
	}
}

// Instruction is a decoded sketch byte.
//
// Tool is set for KindSetTool. Arg holds the signed delta for
// KindMoveX/KindMoveY, the unsigned 6-bit chunk for KindData and the raw
// selector for KindIgnored.
type Instruction struct {
	Kind Kind
	Tool Tool
	Arg  int
}

// Decode splits b into an explicit instruction.
func Decode(b byte) Instruction {
	operand := DecodeOperand(b)

	switch DecodeOpcode(b) {
	case OpDX:
		return Instruction{Kind: KindMoveX, Arg: operand}
	case OpDY:
		return Instruction{Kind: KindMoveY, Arg: operand}
	case OpData:
		return Instruction{Kind: KindData, Arg: operand & ChunkMask}
	}

	switch Action(operand) {
	case ActNone:
		return Instruction{Kind: KindSetTool, Tool: ToolNone}
	case ActLine:
		return Instruction{Kind: KindSetTool, Tool: ToolLine}
	case ActBlock:
		return Instruction{Kind: KindSetTool, Tool: ToolBlock}
	case ActColour:
		return Instruction{Kind: KindSetColour}
	case ActTargetX:
		return Instruction{Kind: KindSetTargetX}
	case ActTargetY:
		return Instruction{Kind: KindSetTargetY}
	case ActShow:
		return Instruction{Kind: KindShow}
	case ActPause:
		return Instruction{Kind: KindPause}
	case ActNextFrame:
		return Instruction{Kind: KindEndFrame}
	default:
		return Instruction{Kind: KindIgnored, Arg: operand}
	}
}

// Opcode returns the instruction class of i.
func (i Instruction) Opcode() Opcode {
	switch i.Kind {
	case KindMoveX:
		return OpDX
	case KindMoveY:
		return OpDY
	case KindData:
		return OpData
	default:
		return OpTool
	}
}

// Action returns the OpTool sub-action of i, or false if i is not a
// known tool-family instruction.
func (i Instruction) Action() (Action, bool) {
	switch i.Kind {
	case KindSetTool:
		return i.Tool.Action(), true
	case KindSetColour:
		return ActColour, true
	case KindSetTargetX:
		return ActTargetX, true
	case KindSetTargetY:
		return ActTargetY, true
	case KindShow:
		return ActShow, true
	case KindPause:
		return ActPause, true
	case KindEndFrame:
		return ActNextFrame, true
	default:
		return 0, false
	}
}

// ConsumesData reports whether i reads and clears the accumulator.
func (i Instruction) ConsumesData() bool {
	return i.Opcode() == OpTool
}

// Encode packs an opcode and operand into a byte. Only the low six bits
// of operand are kept.
func Encode(op Opcode, operand int) byte {
	return byte(op&0x3)<<6 | byte(operand)&ChunkMask
}

// Byte re-encodes i. Decode(i.Byte()) == i for every decoded instruction.
func (i Instruction) Byte() byte {
	if act, ok := i.Action(); ok {
		return Encode(OpTool, int(act))
	}
	return Encode(i.Opcode(), i.Arg)
}

// String returns a human-readable representation of the instruction.
func (i Instruction) String() string {
	switch i.Kind {
	case KindMoveX, KindMoveY, KindData:
		return fmt.Sprintf("%s %d", i.Opcode(), i.Arg)
	case KindIgnored:
		return fmt.Sprintf("TOOL %d", i.Arg)
	default:
		act, _ := i.Action()
		return act.String()
	}
}

// EncodeData returns the DATA bytes that assemble v in a zeroed
// accumulator, most significant chunk first. Zero needs no bytes.
func EncodeData(v uint32) []byte {
	var chunks []byte
	for v != 0 {
		chunks = append(chunks, Encode(OpData, int(v&ChunkMask)))
		v >>= ChunkBits
	}
	for l, r := 0, len(chunks)-1; l < r; l, r = l+1, r-1 {
		chunks[l], chunks[r] = chunks[r], chunks[l]
	}
	return chunks
}
