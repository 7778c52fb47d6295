package optimizer

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/akhildatla/sketch/pkg/asm"
	"github.com/akhildatla/sketch/pkg/display"
	"github.com/akhildatla/sketch/pkg/vm"
)

// play runs every frame of code once and returns the display calls.
func play(t *testing.T, code []byte) []string {
	t.Helper()

	rec := display.NewRecorder("play")
	v := vm.New(rec)
	r := bytes.NewReader(code)
	for {
		res, err := v.RunFrame(r)
		if err != nil {
			t.Fatalf("RunFrame failed: %v", err)
		}
		if res.EndOfStream {
			break
		}
	}
	return rec.Strings()
}

func mustAssemble(t *testing.T, src string) []byte {
	t.Helper()
	code, err := asm.Assemble(src)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	return code
}

func TestMoveFolding(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"run", "DX 10\nDX 5\nDX -3\nDY 1", "DX 12\nDY 1"},
		{"cancelling run", "DX 10\nDX -10\nDY 1", "DY 1"},
		{"zero", "DX 0\nDY 1", "DY 1"},
		{"long run", "DX 31\nDX 31\nDX 31\nDY 1", "DX 93\nDY 1"},
		{"separated runs", "DX 1\nDY 1\nDX 2\nDX 2\nDY 1", "DX 1\nDY 1\nDX 4\nDY 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code := mustAssemble(t, tt.src)
			want := mustAssemble(t, tt.want)

			opt := New(WithMoveFolding())
			got := opt.Optimize(code)

			if !bytes.Equal(got, want) {
				t.Errorf("got %v, want %v\n%s", got, want, vm.Disassemble(got))
			}
			if diff := cmp.Diff(play(t, code), play(t, got)); diff != "" {
				t.Errorf("display calls changed (-orig +opt):\n%s", diff)
			}
		})
	}
}

func TestOptimize_NoOptionsIsIdentity(t *testing.T) {
	code := mustAssemble(t, "DX 1\nDX 2\nLINE\nDY 3")

	got := New().Optimize(code)
	if !bytes.Equal(got, code) {
		t.Errorf("expected unchanged code, got %v", got)
	}
}

func TestOptimize_InputUntouched(t *testing.T) {
	code := mustAssemble(t, "DX 1\nDX 2\nDY 3")
	orig := append([]byte(nil), code...)

	New(WithAllOptimizations()).Optimize(code)
	if !bytes.Equal(code, orig) {
		t.Error("Optimize modified its input")
	}
}

func TestOptimize_Report(t *testing.T) {
	code := mustAssemble(t, "LINE\nDX 1\nDX 2\nDY 3\nBLOCK\nNEXTFRAME")

	opt := New(WithAllOptimizations())
	out := opt.Optimize(code)

	r := opt.Report()
	if r.BytesIn != len(code) || r.BytesOut != len(out) {
		t.Errorf("unexpected sizes: %+v", r)
	}
	if r.MovesFolded != 1 {
		t.Errorf("expected 1 folded move, got %d", r.MovesFolded)
	}
	if r.DeadRemoved != 2 {
		t.Errorf("expected 2 dead bytes, got %d", r.DeadRemoved)
	}
	if r.Rounds < 1 {
		t.Errorf("expected at least one round, got %d", r.Rounds)
	}
}

func TestOptimize_PreservesDisplayCalls(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		code := make([]byte, 1+rng.Intn(120))
		for j := range code {
			code[j] = byte(rng.Intn(256))
		}

		got := New(WithAllOptimizations()).Optimize(code)
		if len(got) > len(code) {
			t.Fatalf("case %d: optimized code grew from %d to %d bytes", i, len(code), len(got))
		}
		if diff := cmp.Diff(play(t, code), play(t, got)); diff != "" {
			t.Fatalf("case %d: display calls changed (-orig +opt):\n%s\n%s", i, diff, vm.Disassemble(code))
		}
	}
}

func TestOptimize_KeepsFrameCount(t *testing.T) {
	code := mustAssemble(t, "LINE\nNEXTFRAME\nNEXTFRAME\nDX 0\nNEXTFRAME")
	got := New(WithAllOptimizations()).Optimize(code)

	want := mustAssemble(t, "NEXTFRAME\nNEXTFRAME\nNEXTFRAME")
	if !bytes.Equal(got, want) {
		t.Errorf("got\n%s\nwant\n%s", vm.Disassemble(got), vm.Disassemble(want))
	}
}

func TestOptimize_KeepsTrailingFrame(t *testing.T) {
	code := mustAssemble(t, "DX 4\nDY 4\nNEXTFRAME\nDX 5\nDX -5")
	got := New(WithAllOptimizations()).Optimize(code)

	want := mustAssemble(t, "DX 4\nDY 4\nNEXTFRAME\nDX 0")
	if !bytes.Equal(got, want) {
		t.Errorf("got\n%s\nwant\n%s", vm.Disassemble(got), vm.Disassemble(want))
	}
	if diff := cmp.Diff(play(t, code), play(t, got)); diff != "" {
		t.Errorf("display calls changed (-orig +opt):\n%s", diff)
	}
}
