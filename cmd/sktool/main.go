// Package main provides sktool, the authoring and inspection tool for
// sketch files.
//
// Usage:
//
//	sktool asm drawing.asm             # Assemble to drawing.sk
//	sktool disasm drawing.sk           # Disassemble to stdout
//	sktool optimize drawing.sk -o o.sk # Shrink a sketch
//	sktool render drawing.sk -o a.png  # Play headless and snapshot the canvas
//	sktool trace drawing.sk            # Print every obeyed instruction
//	sktool stats drawing.sk -f csv     # Per-frame statistics
//	sktool debug drawing.sk            # Interactive step debugger
//	sktool config init                 # Write a sketch.toml template
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/akhildatla/sketch/internal/config"
	"github.com/akhildatla/sketch/internal/logging"
)

// Version info set by GoReleaser via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	a := &app{fs: afero.NewOsFs(), in: stdin, out: stdout, errOut: stderr}
	cmd := a.rootCmd()
	cmd.SetArgs(args)
	return cmd.Execute()
}

// app carries what every subcommand shares.
type app struct {
	fs     afero.Fs
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	configPath string
	cfg        config.Config
	log        zerolog.Logger
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "sktool",
		Short:         "Author and inspect sketch files",
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return a.setup()
		},
	}
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (default "+config.DefaultPath+" when present)")

	root.AddCommand(
		a.asmCmd(),
		a.disasmCmd(),
		a.optimizeCmd(),
		a.renderCmd(),
		a.traceCmd(),
		a.statsCmd(),
		a.debugCmd(),
		a.configCmd(),
		a.versionCmd(),
	)
	return root
}

// setup loads the config and builds the stderr logger.
func (a *app) setup() error {
	var err error
	if a.configPath == "" {
		a.cfg, err = config.LoadOrDefault(a.fs, config.DefaultPath)
	} else {
		a.cfg, err = config.Load(a.fs, a.configPath)
	}
	if err != nil {
		return err
	}

	lc := logging.DefaultConfig(logging.ProfileRuntime)
	lc.Out = a.errOut
	if lvl, ok := logging.ParseLevel(a.cfg.LogLevel); ok {
		lc.Level = lvl
	}
	logging.ApplyEnvOverrides(&lc)
	a.log = logging.New(lc)
	return nil
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(a.out, "sktool version %s\n", version)
			if commit != "none" {
				fmt.Fprintf(a.out, "  commit: %s\n", commit)
			}
			if date != "unknown" {
				fmt.Fprintf(a.out, "  built:  %s\n", date)
			}
			return nil
		},
	}
}
