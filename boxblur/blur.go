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
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ajroetker/go-boxblur/raster"
	"github.com/ajroetker/go-boxblur/sat"
	"github.com/ajroetker/go-boxblur/workerpool"
)

// Precondition errors. They are returned before any work starts.
var (
	ErrNegativeRadius = errors.New("boxblur: negative radius")
	ErrEmptyImage     = errors.New("boxblur: empty image")
	ErrSizeMismatch   = errors.New("boxblur: destination and source sizes differ")
)

// Blurrer runs box blurs on a fixed worker pool. A Blurrer may be reused for
// any number of images; calls on the same Blurrer may run concurrently.
type Blurrer struct {
	pool    *workerpool.Pool
	ownPool bool
	grain   int
	logger  *slog.Logger
}

// New creates a Blurrer. Call Close when done to stop its workers.
func New(opts ...Option) *Blurrer {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	b := &Blurrer{
		pool:   o.pool,
		grain:  o.grain,
		logger: o.logger,
	}
	if b.grain <= 0 {
		b.grain = DefaultGrain()
	}
	if b.pool == nil {
		workers := o.workers
		if workers <= 0 {
			workers = DefaultWorkers()
		}
		b.pool = workerpool.New(workers)
		b.ownPool = true
	}
	return b
}

// Close stops the worker pool if the Blurrer created it.
func (b *Blurrer) Close() {
	if b.ownPool {
		b.pool.Close()
	}
}

// Grain returns the number of rows or columns per task.
func (b *Blurrer) Grain() int {
	return b.grain
}

// Workers returns the number of workers in the pool.
func (b *Blurrer) Workers() int {
	return b.pool.NumWorkers()
}

func (b *Blurrer) log() *slog.Logger {
	if b.logger != nil {
		return b.logger
	}
	return Logger()
}

// Blur returns a new image in which every sample is the mean of the samples
// of the same channel in the (2*radius+1)-square around it, clamped to the
// image. Means are truncated, not rounded. src is not modified.
func (b *Blurrer) Blur(src *raster.RGB, radius int) (*raster.RGB, error) {
	if err := validate(src, radius); err != nil {
		return nil, err
	}
	dst := raster.NewRGB(src.Width(), src.Height())
	if err := b.BlurInto(dst, src, radius); err != nil {
		return nil, err
	}
	return dst, nil
}

// BlurInto writes the blur of src into dst, which must have the same size.
// dst may be src: all reads of src happen before the first write to dst.
// On error dst is unchanged.
func (b *Blurrer) BlurInto(dst, src *raster.RGB, radius int) error {
	if err := validate(src, radius); err != nil {
		return err
	}
	if dst == nil {
		return fmt.Errorf("%w: nil destination", ErrSizeMismatch)
	}
	if !raster.SameSize(dst, src) {
		return fmt.Errorf("%w: %dx%d into %dx%d", ErrSizeMismatch,
			src.Width(), src.Height(), dst.Width(), dst.Height())
	}

	log := b.log()
	w, h := src.Width(), src.Height()
	began := time.Now()

	tables, err := sat.Build(b.pool, b.grain, src)
	if err != nil {
		return fmt.Errorf("boxblur: allocate tables: %w", err)
	}
	built := time.Now()
	log.Debug("boxblur: tables built",
		"width", w, "height", h, "grain", b.grain, "workers", b.pool.NumWorkers(),
		"elapsed", built.Sub(began))

	dst.SetMaxval(src.Maxval())
	b.pool.ParallelForChunked(h, b.grain, func(start, end int) {
		averageRows(dst, tables, radius, start, end)
	})
	log.Debug("boxblur: averages written",
		"radius", radius, "elapsed", time.Since(built), "total", time.Since(began))
	return nil
}

// averageRows fills rows [start, end) of dst from the tables.
func averageRows(dst *raster.RGB, tables *sat.Tables, radius, start, end int) {
	w, h := dst.Width(), dst.Height()
	for row := start; row < end; row++ {
		out := dst.Row(row)
		for col := range w {
			box := sat.Window(w, h, radius, row, col)
			for c, t := range tables {
				out[col*raster.NumChannels+c] = t.Average(box)
			}
		}
	}
}

func validate(src *raster.RGB, radius int) error {
	if radius < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeRadius, radius)
	}
	if src == nil || src.Empty() {
		return ErrEmptyImage
	}
	return nil
}

// Blur is a one-shot convenience wrapper: it creates a Blurrer with opts,
// blurs src and closes the Blurrer.
func Blur(src *raster.RGB, radius int, opts ...Option) (*raster.RGB, error) {
	b := New(opts...)
	defer b.Close()
	return b.Blur(src, radius)
}
