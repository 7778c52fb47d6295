package vm

import (
	"testing"
)

func TestDecodeOperand_Range(t *testing.T) {
	for i := 0; i < 256; i++ {
		b := byte(i)
		got := DecodeOperand(b)
		if got < OperandMin || got > OperandMax {
			t.Fatalf("byte 0x%02X: operand %d out of range", b, got)
		}
		if got&ChunkMask != int(b&ChunkMask) {
			t.Fatalf("byte 0x%02X: low bits %06b, want %06b", b, got&ChunkMask, b&ChunkMask)
		}
	}
}

func TestDecodeOperand_SignExtension(t *testing.T) {
	tests := []struct {
		b    byte
		want int
	}{
		{0x00, 0},
		{0x01, 1},
		{0x1F, 31},
		{0x20, -32},
		{0x3F, -1},
		{0x7F, -1},
		{0x9E, 30},
		{0xE0, -32},
	}

	for _, tt := range tests {
		if got := DecodeOperand(tt.b); got != tt.want {
			t.Errorf("DecodeOperand(0x%02X) = %d, want %d", tt.b, got, tt.want)
		}
	}
}

func TestDecodeOpcode_Partition(t *testing.T) {
	counts := map[Opcode]int{}
	for i := 0; i < 256; i++ {
		op := DecodeOpcode(byte(i))
		if op != Opcode(i/64) {
			t.Fatalf("byte 0x%02X: opcode %v, want %v", i, op, Opcode(i/64))
		}
		counts[op]++
	}

	if len(counts) != 4 {
		t.Fatalf("expected 4 opcode classes, got %d", len(counts))
	}
	for op, n := range counts {
		if n != 64 {
			t.Errorf("opcode %v: %d bytes, want 64", op, n)
		}
	}
}

func TestDecode_Kinds(t *testing.T) {
	tests := []struct {
		b    byte
		want Instruction
	}{
		{0x00, Instruction{Kind: KindSetTool, Tool: ToolNone}},
		{0x01, Instruction{Kind: KindSetTool, Tool: ToolLine}},
		{0x02, Instruction{Kind: KindSetTool, Tool: ToolBlock}},
		{0x03, Instruction{Kind: KindSetColour}},
		{0x04, Instruction{Kind: KindSetTargetX}},
		{0x05, Instruction{Kind: KindSetTargetY}},
		{0x06, Instruction{Kind: KindShow}},
		{0x07, Instruction{Kind: KindPause}},
		{0x08, Instruction{Kind: KindEndFrame}},
		{0x09, Instruction{Kind: KindIgnored, Arg: 9}},
		{0x3F, Instruction{Kind: KindIgnored, Arg: -1}},
		{0x4A, Instruction{Kind: KindMoveX, Arg: 10}},
		{0x7F, Instruction{Kind: KindMoveX, Arg: -1}},
		{0x85, Instruction{Kind: KindMoveY, Arg: 5}},
		{0xA0, Instruction{Kind: KindMoveY, Arg: -32}},
		{0xC2, Instruction{Kind: KindData, Arg: 2}},
		{0xFF, Instruction{Kind: KindData, Arg: 63}},
	}

	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			if got := Decode(tt.b); got != tt.want {
				t.Errorf("Decode(0x%02X) = %+v, want %+v", tt.b, got, tt.want)
			}
		})
	}
}

func TestInstruction_ByteRoundTrip(t *testing.T) {
	for i := 0; i < 256; i++ {
		b := byte(i)
		if got := Decode(b).Byte(); got != b {
			t.Fatalf("Decode(0x%02X).Byte() = 0x%02X", b, got)
		}
	}
}

func TestInstruction_ConsumesData(t *testing.T) {
	for i := 0; i < 256; i++ {
		inst := Decode(byte(i))
		want := DecodeOpcode(byte(i)) == OpTool
		if inst.ConsumesData() != want {
			t.Errorf("0x%02X (%s): ConsumesData = %v", i, inst, inst.ConsumesData())
		}
	}
}

func TestEncode(t *testing.T) {
	tests := []struct {
		op      Opcode
		operand int
		want    byte
	}{
		{OpTool, int(ActNextFrame), 0x08},
		{OpDX, 10, 0x4A},
		{OpDX, -1, 0x7F},
		{OpDY, 5, 0x85},
		{OpData, 63, 0xFF},
		{OpData, 64, 0xC0},
	}

	for _, tt := range tests {
		if got := Encode(tt.op, tt.operand); got != tt.want {
			t.Errorf("Encode(%v, %d) = 0x%02X, want 0x%02X", tt.op, tt.operand, got, tt.want)
		}
	}
}

// accumulate feeds DATA bytes through the accumulator rule.
func accumulate(code []byte) uint32 {
	var acc uint32
	for _, b := range code {
		acc = acc<<ChunkBits | uint32(DecodeOperand(b))&ChunkMask
	}
	return acc
}

func TestEncodeData_RoundTrip(t *testing.T) {
	tests := []struct {
		v      uint32
		chunks int
	}{
		{0, 0},
		{1, 1},
		{63, 1},
		{66, 2},
		{200, 2},
		{4095, 2},
		{4096, 3},
		{0xFF0000FF, 6},
		{0xFFFFFFFF, 6},
	}

	for _, tt := range tests {
		code := EncodeData(tt.v)
		if len(code) != tt.chunks {
			t.Errorf("EncodeData(%d): %d chunks, want %d", tt.v, len(code), tt.chunks)
		}
		for _, b := range code {
			if DecodeOpcode(b) != OpData {
				t.Fatalf("EncodeData(%d): byte 0x%02X is not DATA", tt.v, b)
			}
		}
		if got := accumulate(code); got != tt.v {
			t.Errorf("EncodeData(%d) accumulates to %d", tt.v, got)
		}
	}
}

func TestOpcodeString(t *testing.T) {
	tests := []struct {
		opcode   Opcode
		expected string
	}{
		{OpTool, "TOOL"},
		{OpDX, "DX"},
		{OpDY, "DY"},
		{OpData, "DATA"},
		{Opcode(7), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.opcode.String(); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestOpcodeFromString(t *testing.T) {
	tests := []struct {
		input    string
		expected Opcode
		ok       bool
	}{
		{"TOOL", OpTool, true},
		{"DX", OpDX, true},
		{"DY", OpDY, true},
		{"DATA", OpData, true},
		{"dx", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := OpcodeFromString(tt.input)
			if ok != tt.ok {
				t.Errorf("ok: expected %v, got %v", tt.ok, ok)
			}
			if ok && got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestActionFromString(t *testing.T) {
	for a := ActNone; a <= ActNextFrame; a++ {
		got, ok := ActionFromString(a.String())
		if !ok || got != a {
			t.Errorf("ActionFromString(%q) = %v, %v", a.String(), got, ok)
		}
	}

	if got, ok := ActionFromString("COLOR"); !ok || got != ActColour {
		t.Errorf("COLOR alias: got %v, %v", got, ok)
	}
	if _, ok := ActionFromString("HALT"); ok {
		t.Error("HALT should not be an action")
	}
	if Action(9).Known() || Action(-1).Known() {
		t.Error("selectors outside 0..8 must not be known")
	}
}
