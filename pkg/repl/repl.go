// Package repl implements an interactive step debugger for sketch files.
package repl

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/c2h5oh/datasize"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/akhildatla/sketch/pkg/asm"
	"github.com/akhildatla/sketch/pkg/display"
	"github.com/akhildatla/sketch/pkg/vm"
)

const (
	promptDebug = "sketch> "
	promptCont  = "...> "
)

// REPL steps a sketch one byte or one frame at a time and prints the
// display calls each step produces.
type REPL struct {
	fs  afero.Fs
	log zerolog.Logger

	name string
	code []byte
	rec  *display.Recorder
	vm   *vm.VM
	seen int

	history     []string
	multiline   strings.Builder
	inMultiline bool
	done        bool
}

// Option configures a REPL.
type Option func(*REPL)

// WithFs sets the filesystem sketches are loaded from.
func WithFs(fs afero.Fs) Option {
	return func(r *REPL) {
		r.fs = fs
	}
}

// WithLogger sets the logger handed to the VM.
func WithLogger(l zerolog.Logger) Option {
	return func(r *REPL) {
		r.log = l
	}
}

// New creates a new REPL instance with nothing loaded.
func New(opts ...Option) *REPL {
	r := &REPL{
		fs:      afero.NewOsFs(),
		log:     zerolog.Nop(),
		history: []string{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load reads a sketch into memory and starts a fresh session on it.
func (r *REPL) Load(path string) error {
	code, err := afero.ReadFile(r.fs, path)
	if err != nil {
		return err
	}

	r.name = path
	r.code = code
	r.rec = display.NewRecorder(path)
	r.vm = vm.New(r.rec, vm.WithLogger(r.log.With().Str("sketch", path).Logger()))
	r.seen = 0
	return nil
}

// Start runs the read-eval-print loop until quit or end of input.
func (r *REPL) Start(in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)

	fmt.Fprintln(out, "Sketch debugger")
	fmt.Fprintln(out, "Type 'help' for available commands, 'quit' to exit")
	fmt.Fprintln(out)

	for !r.done {
		if r.inMultiline {
			fmt.Fprint(out, promptCont)
		} else {
			fmt.Fprint(out, promptDebug)
		}

		if !scanner.Scan() {
			break
		}

		line := scanner.Text()

		// Multiline assembly ends on an empty line
		if r.inMultiline {
			if strings.TrimSpace(line) == "" {
				r.inMultiline = false
				src := r.multiline.String()
				r.multiline.Reset()
				r.assemble(src, out)
			} else {
				r.multiline.WriteString(line)
				r.multiline.WriteString("\n")
			}
			continue
		}

		r.handleCommand(line, out)
	}
}

func (r *REPL) handleCommand(line string, out io.Writer) bool {
	trimmed := strings.TrimSpace(line)
	parts := strings.Fields(trimmed)

	if len(parts) == 0 {
		return true
	}

	r.history = append(r.history, trimmed)

	switch parts[0] {
	case "quit", "exit", "q":
		fmt.Fprintln(out, "Goodbye!")
		r.done = true

	case "help", "h", "?":
		r.printHelp(out)

	case "load":
		if len(parts) != 2 {
			fmt.Fprintln(out, "Usage: load <path>")
			return true
		}
		if err := r.Load(parts[1]); err != nil {
			fmt.Fprintf(out, "Error loading %s: %v\n", parts[1], err)
			return true
		}
		fmt.Fprintf(out, "Loaded %s (%s)\n", r.name, datasize.ByteSize(len(r.code)).HR())

	case "step", "s":
		n := 1
		if len(parts) > 1 {
			v, err := strconv.Atoi(parts[1])
			if err != nil || v < 1 {
				fmt.Fprintln(out, "Usage: step [count]")
				return true
			}
			n = v
		}
		r.step(n, out)

	case "frame", "f":
		r.frame(out)

	case "state":
		r.printState(out)

	case "calls":
		if r.rec == nil {
			fmt.Fprintln(out, "No sketch loaded")
			return true
		}
		for _, c := range r.rec.Strings() {
			fmt.Fprintln(out, c)
		}

	case "disasm", "d":
		r.disassemble(out)

	case "asm":
		if len(parts) == 1 {
			r.inMultiline = true
			return true
		}
		src := strings.ReplaceAll(strings.TrimSpace(strings.TrimPrefix(trimmed, "asm")), "|", "\n")
		r.assemble(src, out)

	case "reset":
		if r.vm == nil {
			fmt.Fprintln(out, "No sketch loaded")
			return true
		}
		r.vm.ResetSession()
		r.rec.Reset()
		r.seen = 0
		fmt.Fprintln(out, "Session reset")

	case "history":
		for i, cmd := range r.history {
			fmt.Fprintf(out, "%3d: %s\n", i+1, cmd)
		}

	default:
		fmt.Fprintf(out, "Unknown command: %s (type 'help')\n", parts[0])
		return false
	}

	return true
}

// step obeys up to n bytes. Reaching NEXTFRAME or the end of the stream
// completes the frame the same way RunFrame does, so a NEXTFRAME in the
// last byte also rewinds the cursor.
func (r *REPL) step(n int, out io.Writer) {
	if r.vm == nil {
		fmt.Fprintln(out, "No sketch loaded")
		return
	}

	for i := 0; i < n; i++ {
		st := r.vm.State()
		if int(st.Cursor) >= len(r.code) {
			r.vm.CompleteFrame(true)
			r.flushCalls(out)
			fmt.Fprintln(out, "End of stream, cursor rewound")
			return
		}

		b := r.code[st.Cursor]
		r.vm.Obey(b)
		fmt.Fprintf(out, "%04d: %s\n", st.Cursor, vm.Decode(b))
		r.flushCalls(out)

		if r.vm.State().End {
			eos := int(r.vm.State().Cursor) >= len(r.code)
			r.vm.CompleteFrame(eos)
			r.flushCalls(out)
			if eos {
				fmt.Fprintln(out, "Frame complete at end of stream, cursor rewound")
			} else {
				fmt.Fprintf(out, "Frame complete, next frame at %d\n", r.vm.State().Cursor)
			}
			return
		}
	}
}

// frame runs the rest of the current frame.
func (r *REPL) frame(out io.Writer) {
	if r.vm == nil {
		fmt.Fprintln(out, "No sketch loaded")
		return
	}

	res, err := r.vm.RunFrame(bytes.NewReader(r.code))
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return
	}
	r.flushCalls(out)
	fmt.Fprintf(out, "=> %d bytes from %d, %d lines, %d blocks, eos=%t\n",
		res.Consumed, res.Start, res.Stats.Lines, res.Stats.Blocks, res.EndOfStream)
}

func (r *REPL) flushCalls(out io.Writer) {
	calls := r.rec.Strings()
	for _, c := range calls[r.seen:] {
		fmt.Fprintf(out, "  -> %s\n", c)
	}
	r.seen = len(calls)
}

func (r *REPL) printState(out io.Writer) {
	if r.vm == nil {
		fmt.Fprintln(out, "No sketch loaded")
		return
	}

	st := r.vm.State()
	fmt.Fprintf(out, "pen:    (%d, %d)\n", st.X, st.Y)
	fmt.Fprintf(out, "target: (%d, %d)\n", st.TX, st.TY)
	fmt.Fprintf(out, "tool:   %s\n", st.Tool)
	fmt.Fprintf(out, "data:   0x%08X\n", st.Data)
	fmt.Fprintf(out, "cursor: %d/%d\n", st.Cursor, len(r.code))
}

// disassemble lists the loaded sketch and marks the cursor.
func (r *REPL) disassemble(out io.Writer) {
	if r.vm == nil {
		fmt.Fprintln(out, "No sketch loaded")
		return
	}

	mark := fmt.Sprintf("%04d:", r.vm.State().Cursor)
	for _, line := range strings.Split(strings.TrimRight(vm.Disassemble(r.code), "\n"), "\n") {
		if strings.HasPrefix(line, mark) {
			fmt.Fprintf(out, "=> %s\n", line)
		} else {
			fmt.Fprintf(out, "   %s\n", line)
		}
	}
}

// assemble prints the bytes src assembles to.
func (r *REPL) assemble(src string, out io.Writer) {
	code, err := asm.Assemble(src)
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return
	}

	hex := make([]string, len(code))
	for i, b := range code {
		hex[i] = fmt.Sprintf("%02X", b)
	}
	fmt.Fprintf(out, "=> %d bytes: %s\n", len(code), strings.Join(hex, " "))
}

func (r *REPL) printHelp(out io.Writer) {
	help := `
Sketch Debugger Commands:
  help, h, ?       Show this help message
  quit, exit, q    Exit the debugger
  load <path>      Load a sketch file
  step, s [n]      Obey the next n bytes (default 1)
  frame, f         Run to the end of the current frame
  state            Show pen, target, tool, accumulator and cursor
  calls            List every display call so far
  disasm, d        Disassemble the sketch, marking the cursor
  asm [src]        Assemble src, '|' separates lines; alone starts multiline input
  reset            Rewind to the start of the sketch
  history          Show command history

Tips:
  - Press Enter on an empty line to finish multiline assembly
`
	fmt.Fprint(out, help)
}
