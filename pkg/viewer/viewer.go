// Package viewer hosts a sketch session in the terminal. A bubbletea
// program asks the session for a frame on every tick and on every key
// press, and draws the canvas with half-block cells.
package viewer

import (
	"fmt"
	"image/color"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/akhildatla/sketch/pkg/display"
	"github.com/akhildatla/sketch/pkg/session"
)

// DefaultInterval is the time between frames when none is configured.
const DefaultInterval = 100 * time.Millisecond

const halfBlock = "▀"

// Framer plays one frame per call and reports whether key ends the
// session. *session.Session implements it.
type Framer interface {
	Frame(key session.Key) (bool, error)
}

type tickMsg struct{ id int }

type showMsg struct{}

type frameDoneMsg struct {
	quit bool
	err  error
}

// Buffer holds the cells of the last shown canvas. Frames write it from
// a command goroutine while View reads it.
type Buffer struct {
	mu     sync.Mutex
	scale  int
	cells  [][][2]color.RGBA
	shows  int
	notify func()
}

// NewBuffer creates a buffer sampling scale pixels per cell column.
func NewBuffer(scale int) *Buffer {
	return &Buffer{scale: scale}
}

// Capture samples c. It is installed as the canvas show hook.
func (b *Buffer) Capture(c *display.Canvas) {
	cells := c.Cells(b.scale)

	b.mu.Lock()
	b.cells = cells
	b.shows++
	notify := b.notify
	b.mu.Unlock()

	if notify != nil {
		notify()
	}
}

// Notify sets a function called after every capture.
func (b *Buffer) Notify(fn func()) {
	b.mu.Lock()
	b.notify = fn
	b.mu.Unlock()
}

// Cells returns the last captured cells.
func (b *Buffer) Cells() [][][2]color.RGBA {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cells
}

// Shows returns how many times the canvas was shown.
func (b *Buffer) Shows() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.shows
}

// Options configures a Model.
type Options struct {
	Title    string
	Interval time.Duration
	QuitKey  session.Key
	Logger   zerolog.Logger
}

// Model is the bubbletea model driving a Framer.
type Model struct {
	framer   Framer
	buf      *Buffer
	title    string
	interval time.Duration
	quitKey  session.Key
	log      zerolog.Logger

	tickID  int
	busy    bool
	pending []session.Key
	frames  int
	done    bool
	err     error

	header lipgloss.Style
	footer lipgloss.Style
	styles map[[2]color.RGBA]lipgloss.Style
}

// NewModel creates a model playing f and drawing from buf.
func NewModel(f Framer, buf *Buffer, opts Options) Model {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.QuitKey == session.KeyNone {
		opts.QuitKey = session.DefaultQuitKey
	}
	return Model{
		framer:   f,
		buf:      buf,
		title:    opts.Title,
		interval: opts.Interval,
		quitKey:  opts.QuitKey,
		log:      opts.Logger,
		header:   lipgloss.NewStyle().Bold(true),
		footer:   lipgloss.NewStyle().Faint(true),
		styles:   make(map[[2]color.RGBA]lipgloss.Style),
	}
}

// Err returns the error that stopped playback, if any.
func (m Model) Err() error {
	return m.err
}

// Frames returns how many frames completed.
func (m Model) Frames() int {
	return m.frames
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	id := m.tickID
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return tickMsg{id: id}
	})
}

func (m Model) frame(key session.Key) tea.Cmd {
	f := m.framer
	return func() tea.Msg {
		quit, err := f.Frame(key)
		return frameDoneMsg{quit: quit, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		// Ticks from an older schedule are dropped
		if msg.id != m.tickID || m.busy || m.done {
			return m, nil
		}
		m.busy = true
		return m, m.frame(session.KeyNone)

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.done = true
			return m, tea.Quit
		}
		key := keyOf(msg)
		if m.busy {
			m.pending = append(m.pending, key)
			return m, nil
		}
		m.busy = true
		return m, m.frame(key)

	case frameDoneMsg:
		m.busy = false
		m.frames++
		if msg.err != nil {
			m.log.Error().Err(msg.err).Int("frame", m.frames).Msg("frame failed")
			m.err = msg.err
			m.done = true
			return m, tea.Quit
		}
		if msg.quit {
			m.log.Info().Int("frames", m.frames).Msg("quit key pressed")
			m.done = true
			return m, tea.Quit
		}
		if len(m.pending) > 0 {
			key := m.pending[0]
			m.pending = m.pending[1:]
			m.busy = true
			return m, m.frame(key)
		}
		m.tickID++
		return m, m.tick()

	case showMsg:
		return m, nil
	}

	return m, nil
}

// keyOf maps a key press to the character code the session tests.
// Keys without one map to KeyNone.
func keyOf(k tea.KeyMsg) session.Key {
	if k.Type == tea.KeyRunes {
		if len(k.Runes) > 0 {
			return session.Key(k.Runes[0])
		}
		return session.KeyNone
	}
	if k.Type >= 0 {
		return session.Key(k.Type)
	}
	return session.KeyNone
}

func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.header.Render(fmt.Sprintf("%s  frame %d", m.title, m.frames)))
	sb.WriteString("\n")

	for _, row := range m.buf.Cells() {
		for _, cell := range row {
			sb.WriteString(m.style(cell).Render(halfBlock))
		}
		sb.WriteString("\n")
	}

	if m.err != nil {
		sb.WriteString(fmt.Sprintf("error: %v\n", m.err))
	}
	sb.WriteString(m.footer.Render(fmt.Sprintf("key %d quits", m.quitKey)))
	return sb.String()
}

func (m Model) style(cell [2]color.RGBA) lipgloss.Style {
	if s, ok := m.styles[cell]; ok {
		return s
	}
	s := lipgloss.NewStyle().
		Foreground(lipgloss.Color(hex(cell[0]))).
		Background(lipgloss.Color(hex(cell[1])))
	m.styles[cell] = s
	return s
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Config is what Run needs to open a viewer.
type Config struct {
	Width, Height int
	Scale         int
	Interval      time.Duration
	QuitKey       session.Key
}

// Run plays the sketch at path until the quit key is pressed.
func Run(path string, cfg Config, log zerolog.Logger, opts ...tea.ProgramOption) error {
	if cfg.QuitKey == session.KeyNone {
		cfg.QuitKey = session.DefaultQuitKey
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = display.DefaultWidth, display.DefaultHeight
	}

	buf := NewBuffer(cfg.Scale)
	canvas := display.NewCanvas(path, cfg.Width, cfg.Height, display.WithShowHook(buf.Capture))

	s, err := session.New(canvas,
		session.WithLogger(log),
		session.WithQuitKey(cfg.QuitKey),
	)
	if err != nil {
		return err
	}

	m := NewModel(s, buf, Options{
		Title:    path,
		Interval: cfg.Interval,
		QuitKey:  cfg.QuitKey,
		Logger:   log,
	})

	p := tea.NewProgram(m, opts...)
	buf.Notify(func() { p.Send(showMsg{}) })

	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok && fm.Err() != nil {
		return fm.Err()
	}
	return nil
}
