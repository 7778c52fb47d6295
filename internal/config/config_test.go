package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, fs afero.Fs, path, body string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(body), 0o600))
}

func TestLoad_PartialOverrides(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "sketch.toml", `
width = 320
frame_interval = "40ms"
log_level = "debug"
`)

	cfg, err := Load(fs, "sketch.toml")
	require.NoError(t, err)

	want := Default()
	want.Width = 320
	want.FrameInterval = 40 * time.Millisecond
	want.LogLevel = "debug"
	assert.Equal(t, want, cfg)
}

func TestLoad_ExplicitZeroMaxFrames(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "sketch.toml", "max_frames = 0\n")

	cfg, err := Load(fs, "sketch.toml")
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.MaxFrames)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		invalid bool
	}{
		{"bad toml", "width = ", false},
		{"bad duration", `frame_interval = "soon"`, false},
		{"zero width", "width = 0", true},
		{"huge scale", "scale = 100", true},
		{"negative interval", `frame_interval = "-1s"`, true},
		{"quit key range", "quit_key = 300", true},
		{"quit key none", "quit_key = 0", true},
		{"unknown level", `log_level = "loud"`, true},
		{"unknown key", "colour = 1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			writeFile(t, fs, "sketch.toml", tt.body)

			_, err := Load(fs, "sketch.toml")
			require.Error(t, err)
			if tt.invalid {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(afero.NewMemMapFs(), "nope.toml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.toml")
}

func TestLoadOrDefault(t *testing.T) {
	fs := afero.NewMemMapFs()

	cfg, err := LoadOrDefault(fs, DefaultPath)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	writeFile(t, fs, DefaultPath, "height = 64\n")
	cfg, err = LoadOrDefault(fs, DefaultPath)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Height)
}

func TestDefault_Valid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestTemplate_LoadsAsDefault(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, WriteTemplate(fs, "sketch.toml", false))

	cfg, err := Load(fs, "sketch.toml")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	err = WriteTemplate(fs, "sketch.toml", false)
	require.Error(t, err)
	require.NoError(t, WriteTemplate(fs, "sketch.toml", true))
}

func TestEncode_RoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Scale = 3
	cfg.LogFile = "/tmp/sketch.log"
	cfg.FrameInterval = 250 * time.Millisecond

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, cfg))

	var raw fileConfig
	_, err := toml.Decode(buf.String(), &raw)
	require.NoError(t, err)
	assert.Equal(t, 3, raw.Scale)
	assert.Equal(t, "250ms", raw.FrameInterval)
	assert.Equal(t, "/tmp/sketch.log", raw.LogFile)

	fs := afero.NewMemMapFs()
	writeFile(t, fs, "out.toml", buf.String())
	loaded, err := Load(fs, "out.toml")
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
