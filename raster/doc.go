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

// Package raster stores 8-bit RGB images and moves them to and from disk.
//
// RGB keeps samples interleaved in row-major order, top row first, which is
// also the layout of a raw PPM (P6) file. Pixels are addressed per channel:
//
//	img := raster.NewRGB(640, 480)
//	img.SetChannel(x, y, raster.Green, 200)
//	v := img.Channel(x, y, raster.Green)
//
// # Files
//
// ReadFile detects the encoding from the file content. Besides PPM it reads
// anything image.Decode understands: PNG, JPEG, BMP, TIFF and WebP. Alpha is
// dropped on input.
//
// WriteFile encodes PPM, PNG, JPEG, BMP or TIFF and replaces the target path
// atomically, so a failed write never leaves a partial image behind.
//
//	img, err := raster.ReadFile("in.ppm")
//	...
//	err = raster.WriteFile("out.ppm", img, raster.FormatPPM)
package raster
