package display

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"time"
)

// Default window size of the sketch viewer.
const (
	DefaultWidth  = 200
	DefaultHeight = 200
)

// DefaultColour is the colour selected before any COLOUR instruction.
const DefaultColour uint32 = 0xFFFFFFFF

// Canvas is a raster Surface backed by an RGBA image.
type Canvas struct {
	name   string
	img    *image.RGBA
	colour color.NRGBA
	shows  int

	sleep  func(time.Duration)
	onShow func(*Canvas)
}

// CanvasOption configures a Canvas.
type CanvasOption func(*Canvas)

// WithSleeper replaces the function Pause waits with.
func WithSleeper(sleep func(time.Duration)) CanvasOption {
	return func(c *Canvas) {
		c.sleep = sleep
	}
}

// WithShowHook registers a function called on every Show.
func WithShowHook(fn func(*Canvas)) CanvasOption {
	return func(c *Canvas) {
		c.onShow = fn
	}
}

// NewCanvas creates a black w×h canvas for the named stream.
func NewCanvas(name string, w, h int, opts ...CanvasOption) *Canvas {
	c := &Canvas{
		name:  name,
		img:   image.NewRGBA(image.Rect(0, 0, w, h)),
		sleep: time.Sleep,
	}
	c.SetColour(DefaultColour)
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the stream name.
func (c *Canvas) Name() string {
	return c.name
}

// SetColour selects the drawing colour.
func (c *Canvas) SetColour(rgba uint32) {
	r, g, b, a := RGBA(rgba)
	c.colour = color.NRGBA{R: r, G: g, B: b, A: a}
}

// Colour returns the current colour packed as 0xRRGGBBAA.
func (c *Canvas) Colour() uint32 {
	return Pack(c.colour.R, c.colour.G, c.colour.B, c.colour.A)
}

// DrawLine draws a line including both end points.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		c.plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// DrawBlock fills the w×h rectangle at x, y. Negative sizes extend the
// rectangle left or up from the corner.
func (c *Canvas) DrawBlock(x, y, w, h int) {
	r := image.Rect(x, y, x+w, y+h).Intersect(c.img.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(c.img, r, image.NewUniform(c.colour), image.Point{}, draw.Over)
}

// Show counts a presented frame and runs the show hook.
func (c *Canvas) Show() {
	c.shows++
	if c.onShow != nil {
		c.onShow(c)
	}
}

// Pause shows the canvas and sleeps for ms milliseconds.
func (c *Canvas) Pause(ms uint32) {
	c.Show()
	c.sleep(time.Duration(ms) * time.Millisecond)
}

// Shows returns how many times Show has been called.
func (c *Canvas) Shows() int {
	return c.shows
}

// Image returns the backing image.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// At returns the pixel at x, y packed as 0xRRGGBBAA.
func (c *Canvas) At(x, y int) uint32 {
	p := c.img.RGBAAt(x, y)
	return Pack(p.R, p.G, p.B, p.A)
}

// Clear fills the canvas with black.
func (c *Canvas) Clear() {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
}

// WritePNG encodes the canvas as PNG.
func (c *Canvas) WritePNG(w io.Writer) error {
	if err := png.Encode(w, c.img); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}

// Cells samples the canvas into rows of terminal half-block cells, each
// covering scale pixels across and 2*scale pixels down. Each cell holds
// the top and bottom colour.
func (c *Canvas) Cells(scale int) [][][2]color.RGBA {
	if scale < 1 {
		scale = 1
	}
	b := c.img.Bounds()
	cols := (b.Dx() + scale - 1) / scale
	rows := (b.Dy() + 2*scale - 1) / (2 * scale)

	out := make([][][2]color.RGBA, rows)
	for r := range out {
		out[r] = make([][2]color.RGBA, cols)
		for col := range out[r] {
			x := b.Min.X + col*scale
			top := b.Min.Y + r*2*scale
			out[r][col][0] = c.img.RGBAAt(x, top)
			out[r][col][1] = c.img.RGBAAt(x, top+scale)
		}
	}
	return out
}

func (c *Canvas) plot(x, y int) {
	if !(image.Point{X: x, Y: y}).In(c.img.Bounds()) {
		return
	}
	if c.colour.A == 0xFF {
		c.img.Set(x, y, c.colour)
		return
	}
	draw.Draw(c.img, image.Rect(x, y, x+1, y+1), image.NewUniform(c.colour), image.Point{}, draw.Over)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
