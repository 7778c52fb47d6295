// Package testutil provides testing utilities for sketch tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/akhildatla/sketch/internal/logging"
	"github.com/akhildatla/sketch/pkg/asm"
)

// Start configures test logging and logs the test name.
func Start(t *testing.T) {
	t.Helper()
	l := logging.ConfigureTests()
	l.Info().Str("test", t.Name()).Msg("start")
}

// Logger returns a debug logger that writes through t.Log.
func Logger(t *testing.T) zerolog.Logger {
	t.Helper()
	return zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
}

// Assemble assembles src or fails the test.
func Assemble(t *testing.T, src string) []byte {
	t.Helper()
	code, err := asm.Assemble(src)
	if err != nil {
		t.Fatalf("failed to assemble: %v", err)
	}
	return code
}

// TempSketch writes code to a temporary file and returns its path.
// The file is automatically cleaned up when the test finishes.
func TempSketch(t *testing.T, code []byte) string {
	t.Helper()
	return TempFile(t, code, ".sk")
}

// TempFile creates a temporary file with the given content and extension.
func TempFile(t *testing.T, content []byte, ext string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test"+ext)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

// MemSketch returns an in-memory filesystem holding code at name.
func MemSketch(t *testing.T, name string, code []byte) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, name, code, 0o644); err != nil {
		t.Fatalf("failed to write sketch: %v", err)
	}
	return fs
}

// TwoFrames is a small sketch: a line, NEXTFRAME, then a red block.
func TwoFrames() string {
	return `LINE
DX 10
DY 5
NEXTFRAME
BLOCK
COLOUR 0xFF0000FF
DX 4
DY 4
PAUSE 20
`
}
