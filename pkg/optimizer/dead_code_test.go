package optimizer

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/akhildatla/sketch/pkg/vm"
)

func TestDeadCodeElimination(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "redundant initial line",
			src:  "LINE\nDX 1\nDY 1",
			want: "DX 1\nDY 1",
		},
		{
			name: "overwritten tool",
			src:  "BLOCK\nDX 4\nNONE\nDY 1",
			want: "DX 4\nNONE\nDY 1",
		},
		{
			name: "tool before frame end",
			src:  "DX 1\nDY 1\nBLOCK\nNEXTFRAME\nDX 1\nDY 1",
			want: "DX 1\nDY 1\nNEXTFRAME\nDX 1\nDY 1",
		},
		{
			name: "tool reset per frame",
			src:  "BLOCK\nDY 1\nNEXTFRAME\nLINE\nDY 1",
			want: "BLOCK\nDY 1\nNEXTFRAME\nDY 1",
		},
		{
			name: "leading zero data",
			src:  "DATA 0\nDATA 0\nDATA 5\nDATA 0\nPAUSE",
			want: "DATA 5\nDATA 0\nPAUSE",
		},
		{
			name: "ignored selector with empty accumulator",
			src:  "TOOL 20\nSHOW",
			want: "SHOW",
		},
		{
			name: "ignored selector clearing data",
			src:  "DATA 3\nTOOL 20\nPAUSE",
			want: "DATA 3\nTOOL 20\nPAUSE",
		},
		{
			name: "tool select clearing data",
			src:  "DATA 3\nLINE\nPAUSE",
			want: "DATA 3\nLINE\nPAUSE",
		},
		{
			name: "dx before targetx",
			src:  "DX 5\nDATA 2\nTARGETX\nDY 0",
			want: "DATA 2\nTARGETX\nDY 0",
		},
		{
			name: "dx read by dy",
			src:  "DX 5\nDY 0\nTARGETX",
			want: "DX 5\nDY 0\nTARGETX",
		},
		{
			name: "trailing dx",
			src:  "DY 1\nDX 3",
			want: "DY 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code := mustAssemble(t, tt.src)
			want := mustAssemble(t, tt.want)

			got := New(WithDeadCodeElimination()).Optimize(code)

			if !bytes.Equal(got, want) {
				t.Errorf("got\n%s\nwant\n%s", vm.Disassemble(got), vm.Disassemble(want))
			}
			if diff := cmp.Diff(play(t, code), play(t, got)); diff != "" {
				t.Errorf("display calls changed (-orig +opt):\n%s", diff)
			}
		})
	}
}

func TestDeadCodeElimination_Empty(t *testing.T) {
	got := New(WithDeadCodeElimination()).Optimize(nil)
	if len(got) != 0 {
		t.Errorf("expected empty output, got %v", got)
	}
}
