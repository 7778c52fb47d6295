// Package stats turns per-frame execution results into a DataFrame and
// moves it in and out of CSV and Parquet.
package stats

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/c2h5oh/datasize"
	dataframe "github.com/rocketlaunchr/dataframe-go"
	"github.com/rocketlaunchr/dataframe-go/exports"
	"github.com/rocketlaunchr/dataframe-go/imports"
	"github.com/spf13/afero"
	"github.com/xitongsys/parquet-go-source/mem"

	"github.com/akhildatla/sketch/pkg/vm"
)

var (
	ErrNoFrames       = errors.New("no frames")
	ErrEmptyParquet   = errors.New("empty Parquet file")
	ErrMissingColumn  = errors.New("missing column")
	ErrUnexpectedType = errors.New("unexpected column type")
)

// Columns lists the series of a frame table in order.
var Columns = []string{
	"frame", "start", "bytes", "lines", "blocks", "colours",
	"shows", "pauses", "pause_ms", "ignored", "eos",
}

// Player plays frames until end of stream or max frames.
type Player interface {
	Play(max int) ([]vm.FrameResult, error)
}

// Collect plays p and tabulates the frames it ran.
func Collect(p Player, max int) (*dataframe.DataFrame, error) {
	results, err := p.Play(max)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrNoFrames
	}
	return FromResults(results), nil
}

// FromResults builds one row per frame result.
func FromResults(results []vm.FrameResult) *dataframe.DataFrame {
	cols := make([][]interface{}, len(Columns))
	for i := range cols {
		cols[i] = make([]interface{}, 0, len(results))
	}

	for i, r := range results {
		eos := int64(0)
		if r.EndOfStream {
			eos = 1
		}
		row := []int64{
			int64(i + 1),
			int64(r.Start),
			int64(r.Consumed),
			r.Stats.Lines,
			r.Stats.Blocks,
			r.Stats.Colours,
			r.Stats.Shows,
			r.Stats.Pauses,
			r.Stats.PauseMs,
			r.Stats.Ignored,
			eos,
		}
		for c, v := range row {
			cols[c] = append(cols[c], v)
		}
	}

	series := make([]dataframe.Series, len(Columns))
	for i, name := range Columns {
		series[i] = dataframe.NewSeriesInt64(name, nil, cols[i]...)
	}
	return dataframe.NewDataFrame(series...)
}

// ExportCSV writes df as CSV with a header row.
func ExportCSV(ctx context.Context, w io.Writer, df *dataframe.DataFrame) error {
	return exports.ExportToCSV(ctx, w, df)
}

// ExportParquet writes df to a Parquet file at path on fs.
func ExportParquet(ctx context.Context, fs afero.Fs, path string, df *dataframe.DataFrame) error {
	f, err := fs.Create(path)
	if err != nil {
		return err
	}

	if err := exports.ExportToParquet(ctx, f, df); err != nil {
		f.Close()
		return fmt.Errorf("export parquet: %w", err)
	}
	return f.Close()
}

// parquetFsMu guards the filesystem mem.MemFile opens from, which the
// mem package keeps in a package variable.
var parquetFsMu sync.Mutex

// LoadParquet reads a Parquet file on fs written by ExportParquet.
func LoadParquet(fs afero.Fs, path string) (*dataframe.DataFrame, error) {
	parquetFsMu.Lock()
	mem.SetInMemFileFs(&fs)
	fr, err := (&mem.MemFile{}).Open(path)
	parquetFsMu.Unlock()
	if err != nil {
		return nil, err
	}
	defer fr.Close()

	ctx := context.Background()

	df, err := imports.LoadFromParquet(ctx, fr)
	if err != nil {
		return nil, err
	}

	if df == nil || len(df.Series) == 0 {
		return nil, ErrEmptyParquet
	}

	return df, nil
}

// Column returns the values of the named int64 series. Null cells read as 0.
func Column(df *dataframe.DataFrame, name string) ([]int64, error) {
	idx, err := df.NameToColumn(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
	}

	s, ok := df.Series[idx].(*dataframe.SeriesInt64)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %s", ErrUnexpectedType, name, df.Series[idx].Type())
	}

	out := make([]int64, s.NRows())
	for i := range out {
		if v, ok := s.Value(i).(int64); ok {
			out[i] = v
		}
	}
	return out, nil
}

// Totals sums every column except frame, start and eos.
func Totals(df *dataframe.DataFrame) (map[string]int64, error) {
	totals := make(map[string]int64)
	for _, name := range Columns {
		switch name {
		case "frame", "start", "eos":
			continue
		}
		vals, err := Column(df, name)
		if err != nil {
			return nil, err
		}
		var sum int64
		for _, v := range vals {
			sum += v
		}
		totals[name] = sum
	}
	return totals, nil
}

// Summary writes a short human readable report of df.
func Summary(w io.Writer, df *dataframe.DataFrame) error {
	totals, err := Totals(df)
	if err != nil {
		return err
	}

	frames := df.NRows()
	size := datasize.ByteSize(totals["bytes"])

	fmt.Fprintf(w, "frames:   %d\n", frames)
	fmt.Fprintf(w, "consumed: %s\n", size.HR())
	fmt.Fprintf(w, "lines:    %d\n", totals["lines"])
	fmt.Fprintf(w, "blocks:   %d\n", totals["blocks"])
	fmt.Fprintf(w, "colours:  %d\n", totals["colours"])
	fmt.Fprintf(w, "shows:    %d\n", totals["shows"])
	fmt.Fprintf(w, "pauses:   %d (%dms)\n", totals["pauses"], totals["pause_ms"])
	_, err = fmt.Fprintf(w, "ignored:  %d\n", totals["ignored"])
	return err
}
