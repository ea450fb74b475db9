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

package sat

import (
	"github.com/ajroetker/go-boxblur/raster"
	"github.com/ajroetker/go-boxblur/workerpool"
)

// Source is the read side of an image: dimensions and per-channel samples.
// *raster.RGB implements it.
type Source interface {
	Width() int
	Height() int
	Channel(x, y, c int) uint8
}

// Tables holds one summed-area table per color channel.
type Tables [raster.NumChannels]*Table

// NewTables allocates one zeroed table per channel.
func NewTables(width, height int) (*Tables, error) {
	var ts Tables
	for c := range ts {
		t, err := New(width, height)
		if err != nil {
			return nil, err
		}
		ts[c] = t
	}
	return &ts, nil
}

// Build allocates and fills the tables for src using the pool.
//
// The row pass runs over all rows, then the column pass over all columns,
// each split into chunks of grain rows or columns. Each pass finishes
// completely before Build moves on, so the tables are final when it returns.
func Build(pool *workerpool.Pool, grain int, src Source) (*Tables, error) {
	ts, err := NewTables(src.Width(), src.Height())
	if err != nil {
		return nil, err
	}
	pool.ParallelForChunked(src.Height(), grain, func(start, end int) {
		ts.BuildRows(src, start, end)
	})
	pool.ParallelForChunked(src.Width(), grain, func(start, end int) {
		ts.AccumulateColumns(start, end)
	})
	return ts, nil
}

// BuildRows runs the row pass over rows [start, end): every cell becomes the
// sum of the source values from column 0 up to and including its column.
// Rows are independent of each other. src must have the tables' dimensions.
func (ts *Tables) BuildRows(src Source, start, end int) {
	if rgb, ok := src.(*raster.RGB); ok {
		ts.buildInterleavedRows(rgb, start, end)
		return
	}
	for c, t := range ts {
		for row := start; row < end; row++ {
			line := t.Row(row)
			var carry int64
			for col := range line {
				carry += int64(src.Channel(col, row, c))
				line[col] = carry
			}
		}
	}
}

func (ts *Tables) buildInterleavedRows(src *raster.RGB, start, end int) {
	for row := start; row < end; row++ {
		pix := src.Row(row)
		for c, t := range ts {
			line := t.Row(row)
			var carry int64
			for col := range line {
				carry += int64(pix[col*raster.NumChannels+c])
				line[col] = carry
			}
		}
	}
}

// AccumulateColumns runs the column pass over columns [start, end): every
// cell gains the value of the cell above it, visiting rows top to bottom.
// After the row pass this turns row sums into rectangle sums. Columns are
// independent of each other; rows within a column are not.
func (ts *Tables) AccumulateColumns(start, end int) {
	for _, t := range ts {
		prev := t.Row(0)[start:end]
		for row := 1; row < t.height; row++ {
			cur := t.Row(row)[start:end]
			for i := range cur {
				cur[i] += prev[i]
			}
			prev = cur
		}
	}
}
