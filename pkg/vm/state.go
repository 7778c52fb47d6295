package vm

// State is the drawing state owned by a VM.
//
// X, Y is the last committed pen position and TX, TY the pending target.
// Data is the 32-bit accumulator assembled by DATA bytes. Cursor is the
// byte offset where the next frame resumes and End marks a frame that
// obeyed NEXTFRAME.
type State struct {
	X, Y   int
	TX, TY int
	Tool   Tool
	Data   uint32
	Cursor uint32
	End    bool
}

// InitialTool is the tool selected at session start and after every frame.
const InitialTool = ToolLine

// NewState creates a state positioned at the start of the stream.
func NewState() State {
	return State{Tool: InitialTool}
}

// ResetFrame clears every transient field but keeps Cursor.
func (s *State) ResetFrame() {
	s.X, s.Y = 0, 0
	s.TX, s.TY = 0, 0
	s.Tool = InitialTool
	s.Data = 0
	s.End = false
}

// Reset clears all fields, rewinding the cursor.
func (s *State) Reset() {
	s.ResetFrame()
	s.Cursor = 0
}

// Committed reports whether the pen sits on its target.
func (s State) Committed() bool {
	return s.X == s.TX && s.Y == s.TY
}
