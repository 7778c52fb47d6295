// Command sketch plays a sketch file in the terminal.
//
// Usage:
//
//	sketch drawing.sk                  # Play with sketch.toml or defaults
//	sketch drawing.sk -c viewer.toml   # Play with an explicit config
package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/akhildatla/sketch/internal/config"
	"github.com/akhildatla/sketch/internal/logging"
	"github.com/akhildatla/sketch/pkg/session"
	"github.com/akhildatla/sketch/pkg/viewer"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	cmd := newRootCmd(afero.NewOsFs(), play)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.Execute()
}

// playFunc opens the viewer on a sketch.
type playFunc func(path string, cfg config.Config) error

func newRootCmd(fs afero.Fs, playFn playFunc) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "sketch <file>",
		Short:         "Play a sketch file in the terminal",
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			cfg, err := loadConfig(fs, configPath)
			if err != nil {
				return err
			}
			return playFn(args[0], cfg)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file (default "+config.DefaultPath+" when present)")
	return cmd
}

func loadConfig(fs afero.Fs, path string) (config.Config, error) {
	if path == "" {
		return config.LoadOrDefault(fs, config.DefaultPath)
	}
	return config.Load(fs, path)
}

func play(path string, cfg config.Config) error {
	log, closeLog, err := logging.Open(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer closeLog()

	return viewer.Run(path, viewer.Config{
		Width:    cfg.Width,
		Height:   cfg.Height,
		Scale:    cfg.Scale,
		Interval: cfg.FrameInterval,
		QuitKey:  session.Key(cfg.QuitKey),
	}, log, tea.WithAltScreen())
}
