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

// Package sat builds summed-area tables and answers box-sum and box-mean
// queries against them in constant time.
//
// A table is filled in two passes that can each run in parallel:
//
//  1. BuildRows: an inclusive prefix sum along every row.
//  2. AccumulateColumns: an inclusive prefix sum down every column of the
//     row sums.
//
// The second pass must not start until the first has finished on every row.
// Build runs both passes on a workerpool.Pool and provides that ordering.
//
//	tables, err := sat.Build(pool, 4, img)
//	box := sat.Window(img.Width(), img.Height(), radius, row, col)
//	red := tables[raster.Red].Average(box)
package sat
