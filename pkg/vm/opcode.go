package vm

// Opcode is the 2-bit instruction class held in bits 7-6 of a sketch byte.
type Opcode uint8

const (
	OpTool Opcode = 0x0 // 00: tool select or constant consumer, operand picks the Action
	OpDX   Opcode = 0x1 // 01: TX += operand
	OpDY   Opcode = 0x2 // 10: TY += operand, then draw with the current tool and commit
	OpData Opcode = 0x3 // 11: Data = Data<<6 | operand&0x3F
)

// String returns the string representation of an opcode.
func (o Opcode) String() string {
	switch o {
	case OpTool:
		return "TOOL"
	case OpDX:
		return "DX"
	case OpDY:
		return "DY"
	case OpData:
		return "DATA"
	default:
		return "UNKNOWN"
	}
}

// OpcodeFromString returns the opcode for the given string.
func OpcodeFromString(s string) (Opcode, bool) {
	switch s {
	case "TOOL":
		return OpTool, true
	case "DX":
		return OpDX, true
	case "DY":
		return OpDY, true
	case "DATA":
		return OpData, true
	default:
		return 0, false
	}
}

// Action is the sub-action selected by the operand of an OpTool byte.
// The numeric values are part of the sketch file format.
type Action int8

const (
	ActNone      Action = 0 // tool = NONE
	ActLine      Action = 1 // tool = LINE
	ActBlock     Action = 2 // tool = BLOCK
	ActColour    Action = 3 // colour(Data) as 0xRRGGBBAA
	ActTargetX   Action = 4 // TX = Data
	ActTargetY   Action = 5 // TY = Data
	ActShow      Action = 6 // show/flush the display
	ActPause     Action = 7 // pause(Data) milliseconds
	ActNextFrame Action = 8 // end the current frame
)

// Known reports whether a is one of the enumerated sub-actions.
func (a Action) Known() bool {
	return a >= ActNone && a <= ActNextFrame
}

// String returns the mnemonic of an action.
func (a Action) String() string {
	switch a {
	case ActNone:
		return "NONE"
	case ActLine:
		return "LINE"
	case ActBlock:
		return "BLOCK"
	case ActColour:
		return "COLOUR"
	case ActTargetX:
		return "TARGETX"
	case ActTargetY:
		return "TARGETY"
	case ActShow:
		return "SHOW"
	case ActPause:
		return "PAUSE"
	case ActNextFrame:
		return "NEXTFRAME"
	default:
		return "UNKNOWN"
	}
}

// ActionFromString returns the action for the given mnemonic.
// COLOR is accepted as an alias of COLOUR.
func ActionFromString(s string) (Action, bool) {
	switch s {
	case "NONE":
		return ActNone, true
	case "LINE":
		return ActLine, true
	case "BLOCK":
		return ActBlock, true
	case "COLOUR", "COLOR":
		return ActColour, true
	case "TARGETX":
		return ActTargetX, true
	case "TARGETY":
		return ActTargetY, true
	case "SHOW":
		return ActShow, true
	case "PAUSE":
		return ActPause, true
	case "NEXTFRAME":
		return ActNextFrame, true
	default:
		return 0, false
	}
}

// Tool is the active drawing primitive.
type Tool uint8

const (
	ToolNone Tool = iota
	ToolLine
	ToolBlock
)

// String returns the name of a tool.
func (t Tool) String() string {
	switch t {
	case ToolNone:
		return "NONE"
	case ToolLine:
		return "LINE"
	case ToolBlock:
		return "BLOCK"
	default:
		return "UNKNOWN"
	}
}

// Action returns the sub-action that selects t.
func (t Tool) Action() Action {
	switch t {
	case ToolBlock:
		return ActBlock
	case ToolLine:
		return ActLine
	default:
		return ActNone
	}
}
