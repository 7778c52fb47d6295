package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/akhildatla/sketch/pkg/display"
	"github.com/akhildatla/sketch/pkg/session"
	"github.com/akhildatla/sketch/pkg/stats"
	"github.com/akhildatla/sketch/pkg/vm"
)

var ErrUnknownFormat = errors.New("unknown format")

// frameLimit resolves a --frames flag against max_frames.
func (a *app) frameLimit(frames int) int {
	if frames > 0 {
		return frames
	}
	return a.cfg.MaxFrames
}

func (a *app) renderCmd() *cobra.Command {
	var output string
	var frames int

	cmd := &cobra.Command{
		Use:   "render <file.sk>",
		Short: "Play a sketch headless and write the canvas as PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if output == "" {
				output = strings.TrimSuffix(path, filepath.Ext(path)) + ".png"
			}

			canvas := display.NewCanvas(path, a.cfg.Width, a.cfg.Height,
				display.WithSleeper(func(time.Duration) {}))

			s, err := session.New(canvas, session.WithFs(a.fs), session.WithLogger(a.log))
			if err != nil {
				return err
			}

			results, err := s.Play(a.frameLimit(frames))
			if err != nil {
				return err
			}

			f, err := a.fs.Create(output)
			if err != nil {
				return fmt.Errorf("creating %s: %w", output, err)
			}
			if err := canvas.WritePNG(f); err != nil {
				f.Close()
				return fmt.Errorf("writing %s: %w", output, err)
			}
			if err := f.Close(); err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Rendered %d frames to %s (%dx%d)\n", len(results), output, a.cfg.Width, a.cfg.Height)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "PNG file (default: input with .png extension)")
	cmd.Flags().IntVarP(&frames, "frames", "n", 0, "frames to play (default: max_frames)")
	return cmd
}

func (a *app) traceCmd() *cobra.Command {
	var frames int
	var calls bool

	cmd := &cobra.Command{
		Use:   "trace <file.sk>",
		Short: "Print every obeyed instruction with the drawing state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			trace := func(offset uint32, inst vm.Instruction, st vm.State) {
				fmt.Fprintf(a.out, "%04d: %-10s pen=(%d,%d) target=(%d,%d) tool=%s data=0x%08X\n",
					offset, inst, st.X, st.Y, st.TX, st.TY, st.Tool, st.Data)
			}

			var surface display.Surface = display.NewRecorder(args[0])
			if calls {
				surface = &callPrinter{Recorder: display.NewRecorder(args[0]), app: a}
			}

			s, err := session.New(surface,
				session.WithFs(a.fs),
				session.WithLogger(a.log),
				session.WithTrace(trace),
			)
			if err != nil {
				return err
			}

			results, err := s.Play(a.frameLimit(frames))
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "; %d frames\n", len(results))
			return nil
		},
	}
	cmd.Flags().IntVarP(&frames, "frames", "n", 0, "frames to play (default: max_frames)")
	cmd.Flags().BoolVar(&calls, "calls", false, "also print display calls")
	return cmd
}

// callPrinter prints each display call as it is made.
type callPrinter struct {
	*display.Recorder
	app *app
}

func (p *callPrinter) SetColour(rgba uint32) {
	p.Recorder.SetColour(rgba)
	p.printLast()
}

func (p *callPrinter) DrawLine(x0, y0, x1, y1 int) {
	p.Recorder.DrawLine(x0, y0, x1, y1)
	p.printLast()
}

func (p *callPrinter) DrawBlock(x, y, w, h int) {
	p.Recorder.DrawBlock(x, y, w, h)
	p.printLast()
}

func (p *callPrinter) Show() {
	p.Recorder.Show()
	p.printLast()
}

func (p *callPrinter) Pause(ms uint32) {
	p.Recorder.Pause(ms)
	p.printLast()
}

func (p *callPrinter) printLast() {
	fmt.Fprintf(p.app.out, "  -> %s\n", p.Calls[len(p.Calls)-1])
}

func (a *app) statsCmd() *cobra.Command {
	var format, output string
	var frames int

	cmd := &cobra.Command{
		Use:   "stats <file.sk>",
		Short: "Per-frame statistics as a summary, CSV or Parquet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := session.New(display.NewRecorder(args[0]), session.WithFs(a.fs), session.WithLogger(a.log))
			if err != nil {
				return err
			}

			df, err := stats.Collect(s, a.frameLimit(frames))
			if err != nil {
				return err
			}

			ctx := context.Background()
			switch format {
			case "summary":
				return stats.Summary(a.out, df)
			case "csv":
				if output == "" {
					return stats.ExportCSV(ctx, a.out, df)
				}
				f, err := a.fs.Create(output)
				if err != nil {
					return err
				}
				if err := stats.ExportCSV(ctx, f, df); err != nil {
					f.Close()
					return err
				}
				return f.Close()
			case "parquet":
				if output == "" {
					return errors.New("parquet needs --output")
				}
				if err := stats.ExportParquet(ctx, a.fs, output, df); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Wrote %d frames to %s\n", df.NRows(), output)
				return nil
			default:
				return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "summary", "summary, csv or parquet")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (required for parquet)")
	cmd.Flags().IntVarP(&frames, "frames", "n", 0, "frames to play (default: max_frames)")
	return cmd
}
