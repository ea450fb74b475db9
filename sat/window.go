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

// Box is an inclusive rectangle of cells: columns XMin..XMax and rows
// YMin..YMax.
type Box struct {
	XMin, XMax int
	YMin, YMax int
}

// Window returns the square of side 2*radius+1 centered on (row, col),
// clamped to a width x height grid. radius must not be negative.
func Window(width, height, radius, row, col int) Box {
	// Any radius past the larger dimension clamps to the whole grid; capping
	// it keeps col+radius from overflowing.
	radius = min(radius, max(width, height))
	return Box{
		XMin: max(col-radius, 0),
		XMax: min(col+radius, width-1),
		YMin: max(row-radius, 0),
		YMax: min(row+radius, height-1),
	}
}

// Count returns the number of cells in the box.
func (b Box) Count() int64 {
	return int64(b.XMax-b.XMin+1) * int64(b.YMax-b.YMin+1)
}

// Sum returns the sum of the source values inside b, which must lie within
// the table. Each corner cell holds the sum of the rectangle from the
// origin to itself:
//
//	          XMin-1   XMax
//	YMin-1      a        b
//	YMax        c        d
//
// and the box is d - b - c + a. Corners outside the table count as zero.
func (t *Table) Sum(b Box) int64 {
	d := t.At(b.YMax, b.XMax)
	var above, left, corner int64
	if b.YMin > 0 {
		above = t.At(b.YMin-1, b.XMax)
	}
	if b.XMin > 0 {
		left = t.At(b.YMax, b.XMin-1)
	}
	if b.YMin > 0 && b.XMin > 0 {
		corner = t.At(b.YMin-1, b.XMin-1)
	}
	return d - above - left + corner
}

// Average returns the mean of the source values inside b, truncated toward
// zero. The quotient goes through float64; since the sum stays far below
// 2^53 the result is the same as integer division, so a mean of 99.9 comes
// out as 99, never 100.
func (t *Table) Average(b Box) uint8 {
	return uint8(float64(t.Sum(b)) / float64(b.Count()))
}
