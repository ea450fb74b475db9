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

// Command boxblur applies a box blur of the given radius to an image.
//
// Usage:
//
//	boxblur [flags] <radius> <input> <output>
//	boxblur 5 in.ppm out.ppm
//	boxblur --grain 8 --workers 4 -v 12 photo.png blurred.png
//
// Input is raw PPM (P6) or any of PNG, JPEG, BMP, TIFF, WebP. The output
// format follows the output extension (PPM when unknown) unless --format is
// given. The output file is only created once the whole image is done.
//
// Environment:
//
//	BOXBLUR_GRAIN    default for --grain
//	BOXBLUR_WORKERS  default for --workers
//
// Exit status is 0 on success, 2 for a malformed invocation and 1 when the
// image cannot be read, processed or written.
package main

import (
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
