// Package display provides the drawing surfaces a sketch is replayed onto.
//
// A Surface receives the primitive calls issued by the interpreter:
//
//	s.SetColour(0xFF0000FF)
//	s.DrawLine(0, 0, 10, 5)
//	s.DrawBlock(10, 5, 20, 20)
//	s.Show()
//	s.Pause(40)
//
// Canvas rasterises the calls into an RGBA image, Recorder logs them and
// MockSurface is a generated gomock double for tests.
package display

//go:generate mockgen -typed=false -source=display.go -destination=mock_display.go -package=display

// Surface is the display collaborator driven by the interpreter.
type Surface interface {
	// Name returns the name of the sketch stream shown on this surface.
	Name() string
	// SetColour selects the drawing colour, packed as 0xRRGGBBAA.
	SetColour(rgba uint32)
	DrawLine(x0, y0, x1, y1 int)
	DrawBlock(x, y, w, h int)
	// Show makes everything drawn so far visible.
	Show()
	// Pause shows the display and waits for ms milliseconds.
	Pause(ms uint32)
}

// RGBA unpacks a 0xRRGGBBAA colour.
func RGBA(rgba uint32) (r, g, b, a uint8) {
	return uint8(rgba >> 24), uint8(rgba >> 16), uint8(rgba >> 8), uint8(rgba)
}

// Pack packs colour components as 0xRRGGBBAA.
func Pack(r, g, b, a uint8) uint32 {
	return uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | uint32(a)
}
