package display

import (
	"fmt"
	"strings"
)

// Call is one primitive invocation captured by a Recorder.
type Call struct {
	Op   string
	Args []int64
}

// String formats the call as op(arg,...).
func (c Call) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		if c.Op == "colour" {
			parts[i] = fmt.Sprintf("0x%08X", uint32(a))
			continue
		}
		parts[i] = fmt.Sprintf("%d", a)
	}
	return c.Op + "(" + strings.Join(parts, ",") + ")"
}

// Recorder is a Surface that records every call. It optionally forwards
// calls to another surface.
type Recorder struct {
	name  string
	next  Surface
	Calls []Call
}

// NewRecorder creates a recorder for the named stream.
func NewRecorder(name string) *Recorder {
	return &Recorder{name: name}
}

// Tee creates a recorder that forwards every call to next.
func Tee(next Surface) *Recorder {
	return &Recorder{name: next.Name(), next: next}
}

// Name returns the stream name.
func (r *Recorder) Name() string {
	return r.name
}

func (r *Recorder) SetColour(rgba uint32) {
	r.add("colour", int64(rgba))
	if r.next != nil {
		r.next.SetColour(rgba)
	}
}

func (r *Recorder) DrawLine(x0, y0, x1, y1 int) {
	r.add("line", int64(x0), int64(y0), int64(x1), int64(y1))
	if r.next != nil {
		r.next.DrawLine(x0, y0, x1, y1)
	}
}

func (r *Recorder) DrawBlock(x, y, w, h int) {
	r.add("block", int64(x), int64(y), int64(w), int64(h))
	if r.next != nil {
		r.next.DrawBlock(x, y, w, h)
	}
}

func (r *Recorder) Show() {
	r.add("show")
	if r.next != nil {
		r.next.Show()
	}
}

func (r *Recorder) Pause(ms uint32) {
	r.add("pause", int64(ms))
	if r.next != nil {
		r.next.Pause(ms)
	}
}

// Reset drops all recorded calls.
func (r *Recorder) Reset() {
	r.Calls = nil
}

// Count returns how many recorded calls have the given op.
func (r *Recorder) Count(op string) int {
	n := 0
	for _, c := range r.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Strings returns the recorded calls in call order.
func (r *Recorder) Strings() []string {
	out := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		out[i] = c.String()
	}
	return out
}

func (r *Recorder) add(op string, args ...int64) {
	r.Calls = append(r.Calls, Call{Op: op, Args: args})
}
