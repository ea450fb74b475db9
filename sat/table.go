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
	"errors"
	"fmt"
	"math"
)

// Allocation errors.
var (
	// ErrInvalidSize is returned for non-positive table dimensions.
	ErrInvalidSize = errors.New("sat: invalid table size")

	// ErrTooLarge is returned when a table would exceed MaxCells.
	ErrTooLarge = errors.New("sat: table too large")
)

// MaxCells is the largest number of cells a single table may hold.
// At 8 bytes per cell this is 8 GiB per channel.
const MaxCells = 1 << 30

// Table is a summed-area table over a width x height grid.
//
// Cells are stored in row-major order. Once built, the cell at (row, col)
// holds the sum of every source value at (r, c) with r <= row and c <= col.
// int64 cells hold 255*MaxCells without overflow.
type Table struct {
	values []int64
	width  int
	height int
}

// New allocates a zeroed table.
func New(width, height int) (*Table, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if width > math.MaxInt/height || width*height > MaxCells {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooLarge, width, height)
	}
	return &Table{
		values: make([]int64, width*height),
		width:  width,
		height: height,
	}, nil
}

// Width returns the number of columns.
func (t *Table) Width() int {
	return t.width
}

// Height returns the number of rows.
func (t *Table) Height() int {
	return t.height
}

func (t *Table) index(row, col int) int {
	return row*t.width + col
}

// At returns the cell at (row, col).
func (t *Table) At(row, col int) int64 {
	return t.values[t.index(row, col)]
}

// Row returns the cells of one row. The slice aliases the table.
func (t *Table) Row(row int) []int64 {
	start := t.index(row, 0)
	return t.values[start : start+t.width]
}

// Total returns the bottom-right cell, the sum over the whole grid.
func (t *Table) Total() int64 {
	return t.values[len(t.values)-1]
}
