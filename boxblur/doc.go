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

// Package boxblur blurs RGB images with a square box filter whose cost per
// pixel does not depend on the radius.
//
// Every output sample is the mean of the samples of the same channel within
// radius pixels horizontally and vertically, with the window clamped at the
// image border (so corner pixels average fewer samples). Means are truncated
// toward zero.
//
// A blur runs in three stages on a shared worker pool, each finishing before
// the next starts:
//
//  1. row prefix sums, partitioned by rows
//  2. column accumulation, partitioned by columns
//  3. four-corner averages, partitioned by rows
//
// Stages 1 and 2 build one summed-area table per channel (see package sat).
// The partition size ("grain") is tunable and only affects speed.
//
// # Usage
//
//	img, err := raster.ReadFile("in.ppm")
//	...
//	b := boxblur.New(boxblur.WithGrain(4))
//	defer b.Close()
//	out, err := b.Blur(img, 5)
//
// # Logging
//
// Nothing is logged by default. Install a logger with SetLogger or
// WithLogger to see per-stage timings at debug level.
package boxblur
