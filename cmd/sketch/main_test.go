package main

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akhildatla/sketch/internal/config"
	"github.com/akhildatla/sketch/pkg/session"
)

type playCall struct {
	path string
	cfg  config.Config
}

func execute(t *testing.T, fs afero.Fs, args ...string) ([]playCall, string, error) {
	t.Helper()

	var calls []playCall
	cmd := newRootCmd(fs, func(path string, cfg config.Config) error {
		calls = append(calls, playCall{path, cfg})
		return nil
	})

	var out bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return calls, out.String(), err
}

func TestRoot_NoArgsPrintsUsage(t *testing.T) {
	calls, out, err := execute(t, afero.NewMemMapFs())
	require.Error(t, err)
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "sketch <file>")
	assert.Empty(t, calls)
}

func TestRoot_TooManyArgs(t *testing.T) {
	calls, out, err := execute(t, afero.NewMemMapFs(), "a.sk", "b.sk")
	require.Error(t, err)
	assert.Contains(t, out, "Usage:")
	assert.Empty(t, calls)
}

func TestRoot_DefaultConfig(t *testing.T) {
	calls, _, err := execute(t, afero.NewMemMapFs(), "a.sk")
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.Equal(t, "a.sk", calls[0].path)
	assert.Equal(t, config.Default(), calls[0].cfg)
}

func TestRoot_ConfigFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "viewer.toml", []byte("width = 64\nframe_interval = \"50ms\"\n"), 0o644))

	calls, _, err := execute(t, fs, "a.sk", "--config", "viewer.toml")
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.Equal(t, 64, calls[0].cfg.Width)
	assert.Equal(t, 50*time.Millisecond, calls[0].cfg.FrameInterval)
}

func TestRoot_MissingConfig(t *testing.T) {
	calls, out, err := execute(t, afero.NewMemMapFs(), "a.sk", "-c", "nope.toml")
	require.Error(t, err)
	assert.NotContains(t, out, "Usage:")
	assert.Empty(t, calls)
}

func TestRoot_PlayError(t *testing.T) {
	boom := errors.New("boom")
	cmd := newRootCmd(afero.NewMemMapFs(), func(string, config.Config) error { return boom })
	cmd.SetArgs([]string{"a.sk"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	assert.ErrorIs(t, cmd.Execute(), boom)
}

func TestPlay_MissingSketch(t *testing.T) {
	err := play(t.TempDir()+"/missing.sk", config.Default())
	assert.ErrorIs(t, err, session.ErrStreamOpen)
}
