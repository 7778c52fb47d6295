package viewer

import (
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akhildatla/sketch/internal/testutil"
	"github.com/akhildatla/sketch/pkg/display"
	"github.com/akhildatla/sketch/pkg/session"
)

type fakeFramer struct {
	keys []session.Key
	quit session.Key
	err  error
}

func (f *fakeFramer) Frame(key session.Key) (bool, error) {
	f.keys = append(f.keys, key)
	return key == f.quit, f.err
}

func newModel(f Framer) Model {
	return NewModel(f, NewBuffer(1), Options{Title: "test.sk", Interval: time.Millisecond, Logger: zerolog.Nop()})
}

// update feeds msg to m and returns the new model and command.
func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func TestModel_TickRunsFrame(t *testing.T) {
	f := &fakeFramer{quit: session.DefaultQuitKey}
	m := newModel(f)
	require.NotNil(t, m.Init())

	m, cmd := update(t, m, tickMsg{id: 0})
	require.NotNil(t, cmd)
	assert.True(t, m.busy)

	done := cmd()
	assert.Equal(t, frameDoneMsg{}, done)
	assert.Equal(t, []session.Key{session.KeyNone}, f.keys)

	m, cmd = update(t, m, done)
	assert.False(t, m.busy)
	assert.Equal(t, 1, m.Frames())
	assert.Equal(t, 1, m.tickID)
	assert.NotNil(t, cmd)
}

func TestModel_StaleTickDropped(t *testing.T) {
	f := &fakeFramer{quit: session.DefaultQuitKey}
	m := newModel(f)
	m.tickID = 3

	m, cmd := update(t, m, tickMsg{id: 2})
	assert.Nil(t, cmd)
	assert.False(t, m.busy)
}

func TestModel_TickWhileBusyDropped(t *testing.T) {
	m := newModel(&fakeFramer{})
	m.busy = true

	_, cmd := update(t, m, tickMsg{id: 0})
	assert.Nil(t, cmd)
}

func TestModel_EscapeQuits(t *testing.T) {
	f := &fakeFramer{quit: session.DefaultQuitKey}
	m := newModel(f)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)

	done := cmd()
	assert.Equal(t, frameDoneMsg{quit: true}, done)
	assert.Equal(t, []session.Key{27}, f.keys)

	m, cmd = update(t, m, done)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.done)
	assert.NoError(t, m.Err())
}

func TestModel_KeyQueuedWhileBusy(t *testing.T) {
	f := &fakeFramer{quit: session.DefaultQuitKey}
	m := newModel(f)

	m, first := update(t, m, tickMsg{id: 0})
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	assert.Nil(t, cmd)
	assert.Equal(t, []session.Key{'a'}, m.pending)

	m, cmd = update(t, m, first())
	require.NotNil(t, cmd)
	assert.True(t, m.busy)
	assert.Empty(t, m.pending)

	cmd()
	assert.Equal(t, []session.Key{session.KeyNone, 'a'}, f.keys)
}

func TestModel_FrameErrorQuits(t *testing.T) {
	boom := errors.New("boom")
	m := newModel(&fakeFramer{err: boom})

	m, cmd := update(t, m, frameDoneMsg{err: boom})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.ErrorIs(t, m.Err(), boom)
	assert.Contains(t, m.View(), "error: boom")
}

func TestModel_CtrlCQuits(t *testing.T) {
	f := &fakeFramer{}
	m := newModel(f)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.done)
	assert.Empty(t, f.keys)
}

func TestKeyOf(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
		want session.Key
	}{
		{"escape", tea.KeyMsg{Type: tea.KeyEsc}, 27},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, 13},
		{"rune", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}, 'q'},
		{"arrow", tea.KeyMsg{Type: tea.KeyUp}, session.KeyNone},
		{"empty runes", tea.KeyMsg{Type: tea.KeyRunes}, session.KeyNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, keyOf(tt.key))
		})
	}
}

func TestBuffer_CaptureAndView(t *testing.T) {
	buf := NewBuffer(1)
	notified := 0
	buf.Notify(func() { notified++ })

	c := display.NewCanvas("test.sk", 4, 4, display.WithShowHook(buf.Capture))
	c.DrawLine(0, 0, 3, 0)
	c.Show()

	assert.Equal(t, 1, notified)
	assert.Equal(t, 1, buf.Shows())

	cells := buf.Cells()
	require.Len(t, cells, 2)
	require.Len(t, cells[0], 4)
	assert.Equal(t, uint8(0xFF), cells[0][0][0].R, "top pixel drawn")
	assert.Equal(t, uint8(0), cells[0][0][1].R, "bottom pixel blank")

	m := NewModel(&fakeFramer{}, buf, Options{Title: "test.sk"})
	view := m.View()
	assert.Contains(t, view, "test.sk  frame 0")
	assert.Equal(t, 8, strings.Count(view, halfBlock))
	assert.Contains(t, view, "key 27 quits")
}

func TestRun_MissingSketch(t *testing.T) {
	err := Run(filepath.Join(t.TempDir(), "missing.sk"), Config{}, zerolog.Nop())
	assert.ErrorIs(t, err, session.ErrStreamOpen)
}

func TestRun_EscapeEndsProgram(t *testing.T) {
	path := testutil.TempSketch(t, testutil.Assemble(t, testutil.TwoFrames()))

	err := Run(path, Config{Width: 16, Height: 16, Scale: 1, Interval: time.Hour}, testutil.Logger(t),
		tea.WithInput(strings.NewReader("\x1b")),
		tea.WithOutput(io.Discard),
		tea.WithoutSignalHandler(),
	)
	assert.NoError(t, err)
}
