// Copyright 2025 go-boxblur Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package boxblur

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ajroetker/go-boxblur/raster"
	"github.com/ajroetker/go-boxblur/workerpool"
)

func randomImage(seed uint64, w, h int) *raster.RGB {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	img := raster.NewRGB(w, h)
	for i := range img.Pix() {
		img.Pix()[i] = uint8(rng.IntN(256))
	}
	return img
}

// bruteForce blurs by summing every clamped window directly.
func bruteForce(src *raster.RGB, radius int) *raster.RGB {
	w, h := src.Width(), src.Height()
	out := raster.NewRGB(w, h)
	for y := range h {
		for x := range w {
			x0, x1 := max(x-radius, 0), min(x+radius, w-1)
			y0, y1 := max(y-radius, 0), min(y+radius, h-1)
			n := (x1 - x0 + 1) * (y1 - y0 + 1)
			for c := range raster.NumChannels {
				sum := 0
				for yy := y0; yy <= y1; yy++ {
					for xx := x0; xx <= x1; xx++ {
						sum += int(src.Channel(xx, yy, c))
					}
				}
				out.SetChannel(x, y, c, uint8(sum/n))
			}
		}
	}
	return out
}

func TestBlur_Identity(t *testing.T) {
	b := New(WithWorkers(4), WithGrain(2))
	defer b.Close()

	for _, size := range [][2]int{{1, 1}, {5, 5}, {17, 3}, {64, 48}} {
		src := randomImage(uint64(size[0]*100+size[1]), size[0], size[1])
		out, err := b.Blur(src, 0)
		if err != nil {
			t.Fatalf("Blur: %v", err)
		}
		if diff := cmp.Diff(src.Pix(), out.Pix()); diff != "" {
			t.Errorf("%dx%d radius 0 changed pixels (-want +got):\n%s", size[0], size[1], diff)
		}
	}
}

func TestBlur_Saturation(t *testing.T) {
	b := New(WithWorkers(3))
	defer b.Close()

	w, h := 9, 6
	src := randomImage(11, w, h)
	var means [raster.NumChannels]uint8
	for c := range means {
		sum := 0
		for y := range h {
			for x := range w {
				sum += int(src.Channel(x, y, c))
			}
		}
		means[c] = uint8(sum / (w * h))
	}

	for _, radius := range []int{max(w, h), max(w, h) + 1, 1000} {
		out, err := b.Blur(src, radius)
		if err != nil {
			t.Fatalf("Blur: %v", err)
		}
		for y := range h {
			for x := range w {
				for c := range raster.NumChannels {
					if got := out.Channel(x, y, c); got != means[c] {
						t.Fatalf("radius %d pixel (%d, %d) channel %d: got %d, want global mean %d",
							radius, x, y, c, got, means[c])
					}
				}
			}
		}
	}
}

func TestBlur_BruteForce(t *testing.T) {
	b := New(WithWorkers(4), WithGrain(1))
	defer b.Close()

	for seed := uint64(0); seed < 20; seed++ {
		src := randomImage(seed, 5, 5)
		for radius := range 4 {
			out, err := b.Blur(src, radius)
			if err != nil {
				t.Fatalf("Blur: %v", err)
			}
			want := bruteForce(src, radius)
			if diff := cmp.Diff(want.Pix(), out.Pix()); diff != "" {
				t.Fatalf("seed %d radius %d (-want +got):\n%s", seed, radius, diff)
			}
		}
	}
}

func TestBlur_NonSquare(t *testing.T) {
	src := randomImage(42, 23, 7)
	for _, radius := range []int{1, 2, 5, 9} {
		out, err := Blur(src, radius, WithWorkers(2), WithGrain(3))
		if err != nil {
			t.Fatalf("Blur: %v", err)
		}
		if diff := cmp.Diff(bruteForce(src, radius).Pix(), out.Pix()); diff != "" {
			t.Errorf("radius %d (-want +got):\n%s", radius, diff)
		}
	}
}

func TestBlur_Constant(t *testing.T) {
	src := raster.NewRGB(3, 3)
	src.Fill(9, 9, 9)

	out, err := Blur(src, 1)
	if err != nil {
		t.Fatalf("Blur: %v", err)
	}
	for i, v := range out.Pix() {
		if v != 9 {
			t.Fatalf("Pix[%d]: got %d, want 9", i, v)
		}
	}
}

func TestBlur_GradientCorner(t *testing.T) {
	src := raster.NewRGB(4, 4)
	for y := range 4 {
		for x := range 4 {
			for c := range raster.NumChannels {
				src.SetChannel(x, y, c, uint8(10*x+y))
			}
		}
	}

	out, err := Blur(src, 1)
	if err != nil {
		t.Fatalf("Blur: %v", err)
	}
	want := uint8((0 + 10 + 1 + 11) / 4)
	for c := range raster.NumChannels {
		if got := out.Channel(0, 0, c); got != want {
			t.Errorf("channel %d top-left: got %d, want %d", c, got, want)
		}
	}
}

// Output must not depend on how the work is split.
func TestBlur_PartitionIndependent(t *testing.T) {
	src := randomImage(7, 37, 29)
	want := bruteForce(src, 3)

	for _, workers := range []int{1, 2, 5} {
		for _, grain := range []int{1, 4, 7, 64, math.MaxInt} {
			out, err := Blur(src, 3, WithWorkers(workers), WithGrain(grain))
			if err != nil {
				t.Fatalf("Blur: %v", err)
			}
			if diff := cmp.Diff(want.Pix(), out.Pix()); diff != "" {
				t.Errorf("workers %d grain %d (-want +got):\n%s", workers, grain, diff)
			}
		}
	}
}

func TestBlurInto_InPlace(t *testing.T) {
	src := randomImage(3, 12, 10)
	want := bruteForce(src, 2)

	b := New(WithWorkers(2))
	defer b.Close()
	if err := b.BlurInto(src, src, 2); err != nil {
		t.Fatalf("BlurInto: %v", err)
	}
	if diff := cmp.Diff(want.Pix(), src.Pix()); diff != "" {
		t.Errorf("in-place blur (-want +got):\n%s", diff)
	}
}

func TestBlur_SourceUntouched(t *testing.T) {
	src := randomImage(5, 8, 8)
	orig := src.Clone()

	if _, err := Blur(src, 2); err != nil {
		t.Fatalf("Blur: %v", err)
	}
	if diff := cmp.Diff(orig.Pix(), src.Pix()); diff != "" {
		t.Errorf("source modified (-want +got):\n%s", diff)
	}
}

func TestBlur_KeepsMaxval(t *testing.T) {
	src := raster.NewRGB(2, 2)
	src.SetMaxval(31)

	out, err := Blur(src, 1)
	if err != nil {
		t.Fatalf("Blur: %v", err)
	}
	if out.Maxval() != 31 {
		t.Errorf("Maxval: got %d, want 31", out.Maxval())
	}
}

func TestBlur_Errors(t *testing.T) {
	b := New(WithWorkers(1))
	defer b.Close()

	if _, err := b.Blur(randomImage(1, 2, 2), -1); !errors.Is(err, ErrNegativeRadius) {
		t.Errorf("negative radius: got %v, want %v", err, ErrNegativeRadius)
	}
	if _, err := b.Blur(raster.NewRGB(0, 0), 1); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("empty image: got %v, want %v", err, ErrEmptyImage)
	}
	if _, err := b.Blur(nil, 1); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("nil image: got %v, want %v", err, ErrEmptyImage)
	}

	dst := raster.NewRGB(3, 2)
	dst.Fill(1, 2, 3)
	before := dst.Clone()
	if err := b.BlurInto(dst, randomImage(1, 2, 2), 1); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("size mismatch: got %v, want %v", err, ErrSizeMismatch)
	}
	if diff := cmp.Diff(before.Pix(), dst.Pix()); diff != "" {
		t.Errorf("dst modified on error (-want +got):\n%s", diff)
	}
	if err := b.BlurInto(nil, randomImage(1, 2, 2), 1); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("nil dst: got %v, want %v", err, ErrSizeMismatch)
	}
}

func TestNew_Options(t *testing.T) {
	b := New(WithGrain(12), WithWorkers(3))
	defer b.Close()

	if b.Grain() != 12 {
		t.Errorf("Grain: got %d, want 12", b.Grain())
	}
	if b.Workers() != 3 {
		t.Errorf("Workers: got %d, want 3", b.Workers())
	}
}

func TestNew_SharedPool(t *testing.T) {
	pool := workerpool.New(2)
	defer pool.Close()

	b := New(WithPool(pool), WithWorkers(9))
	if b.Workers() != 2 {
		t.Errorf("Workers: got %d, want 2", b.Workers())
	}
	b.Close()

	// The shared pool is still usable after the Blurrer is closed.
	var ran bool
	pool.ParallelFor(1, func(start, end int) { ran = true })
	if !ran {
		t.Error("shared pool should survive Blurrer.Close")
	}
}

func TestBlur_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if _, err := Blur(randomImage(1, 4, 4), 1, WithLogger(logger)); err != nil {
		t.Fatalf("Blur: %v", err)
	}
	for _, msg := range []string{"tables built", "averages written"} {
		if !strings.Contains(buf.String(), msg) {
			t.Errorf("log output missing %q:\n%s", msg, buf.String())
		}
	}
}

func BenchmarkBlur(b *testing.B) {
	src := randomImage(1, 1920, 1080)
	for _, radius := range []int{1, 8, 64} {
		b.Run(fmt.Sprintf("radius_%d", radius), func(b *testing.B) {
			bl := New()
			defer bl.Close()
			dst := raster.NewRGB(src.Width(), src.Height())
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if err := bl.BlurInto(dst, src, radius); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
