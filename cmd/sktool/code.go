package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/c2h5oh/datasize"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/akhildatla/sketch/pkg/asm"
	"github.com/akhildatla/sketch/pkg/optimizer"
	"github.com/akhildatla/sketch/pkg/vm"
)

// SketchExt is the extension of assembled sketch files.
const SketchExt = ".sk"

func (a *app) asmCmd() *cobra.Command {
	var output string
	var optimize, verbose bool

	cmd := &cobra.Command{
		Use:   "asm <file.asm>",
		Short: "Assemble sketch source into a sketch file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputPath := args[0]
			outputPath := output
			if outputPath == "" {
				ext := filepath.Ext(inputPath)
				outputPath = strings.TrimSuffix(inputPath, ext) + SketchExt
			}

			source, err := afero.ReadFile(a.fs, inputPath)
			if err != nil {
				return fmt.Errorf("reading source: %w", err)
			}

			code, err := asm.Assemble(string(source))
			if err != nil {
				return fmt.Errorf("assembling %s: %w", inputPath, err)
			}

			if optimize {
				opt := optimizer.New(optimizer.WithAllOptimizations())
				code = opt.Optimize(code)
				if verbose {
					a.printReport(opt.Report())
				}
			}

			if err := afero.WriteFile(a.fs, outputPath, code, 0o644); err != nil {
				return fmt.Errorf("writing sketch: %w", err)
			}

			fmt.Fprintf(a.out, "Assembled: %s (%s)\n", outputPath, datasize.ByteSize(len(code)).HR())
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: input with "+SketchExt+" extension)")
	cmd.Flags().BoolVarP(&optimize, "optimize", "O", false, "optimize the assembled sketch")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	return cmd
}

func (a *app) disasmCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "disasm <file.sk>",
		Short: "Disassemble a sketch file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := afero.ReadFile(a.fs, args[0])
			if err != nil {
				return fmt.Errorf("reading sketch: %w", err)
			}

			text := vm.Disassemble(code)

			if output != "" {
				if err := afero.WriteFile(a.fs, output, []byte(text), 0o644); err != nil {
					return fmt.Errorf("writing output: %w", err)
				}
				fmt.Fprintf(a.out, "Disassembled to: %s\n", output)
				return nil
			}
			fmt.Fprint(a.out, text)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func (a *app) optimizeCmd() *cobra.Command {
	var output string
	var moves, dead bool

	cmd := &cobra.Command{
		Use:   "optimize <file.sk>",
		Short: "Shrink a sketch without changing what it draws",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := afero.ReadFile(a.fs, args[0])
			if err != nil {
				return fmt.Errorf("reading sketch: %w", err)
			}

			var opts []optimizer.Option
			if moves {
				opts = append(opts, optimizer.WithMoveFolding())
			}
			if dead {
				opts = append(opts, optimizer.WithDeadCodeElimination())
			}
			if len(opts) == 0 {
				opts = append(opts, optimizer.WithAllOptimizations())
			}

			opt := optimizer.New(opts...)
			out := opt.Optimize(code)

			outputPath := output
			if outputPath == "" {
				outputPath = args[0]
			}
			if err := afero.WriteFile(a.fs, outputPath, out, 0o644); err != nil {
				return fmt.Errorf("writing sketch: %w", err)
			}

			a.printReport(opt.Report())
			fmt.Fprintf(a.out, "Optimized: %s\n", outputPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: overwrite input)")
	cmd.Flags().BoolVar(&moves, "moves", false, "only fold DX runs")
	cmd.Flags().BoolVar(&dead, "dead", false, "only remove dead bytes")
	return cmd
}

func (a *app) printReport(r optimizer.Report) {
	fmt.Fprintf(a.out, "%s -> %s (%d moves folded, %d dead bytes, %d rounds)\n",
		datasize.ByteSize(r.BytesIn).HR(), datasize.ByteSize(r.BytesOut).HR(),
		r.MovesFolded, r.DeadRemoved, r.Rounds)
}
