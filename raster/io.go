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

package raster

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	// Registered with image.Decode for input only.
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedFormat is returned when an image format cannot be read or
// written.
var ErrUnsupportedFormat = errors.New("raster: unsupported format")

// Format names an on-disk image encoding.
type Format string

// Supported formats. WebP can only be read.
const (
	FormatPPM  Format = "ppm"
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
	FormatWebP Format = "webp"
)

// jpegQuality is used for JPEG output.
const jpegQuality = 95

var encoders = map[Format]func(io.Writer, *RGB) error{
	FormatPPM: EncodePPM,
	FormatPNG: func(w io.Writer, img *RGB) error {
		return png.Encode(w, img.ToNRGBA())
	},
	FormatJPEG: func(w io.Writer, img *RGB) error {
		return jpeg.Encode(w, img.ToNRGBA(), &jpeg.Options{Quality: jpegQuality})
	},
	FormatBMP: func(w io.Writer, img *RGB) error {
		return bmp.Encode(w, img.ToNRGBA())
	},
	FormatTIFF: func(w io.Writer, img *RGB) error {
		return tiff.Encode(w, img.ToNRGBA(), &tiff.Options{Compression: tiff.Deflate})
	},
}

var extensions = map[string]Format{
	".ppm":  FormatPPM,
	".pnm":  FormatPPM,
	".png":  FormatPNG,
	".jpg":  FormatJPEG,
	".jpeg": FormatJPEG,
	".bmp":  FormatBMP,
	".tif":  FormatTIFF,
	".tiff": FormatTIFF,
	".webp": FormatWebP,
}

// WritableFormats returns the formats Encode supports, sorted by name.
func WritableFormats() []Format {
	formats := lo.Keys(encoders)
	slices.Sort(formats)
	return formats
}

// ParseFormat returns the writable format with the given name. "jpg" and
// "tif" are accepted as aliases.
func ParseFormat(name string) (Format, error) {
	f, ok := extensions["."+strings.ToLower(name)]
	if !ok || !lo.HasKey(encoders, f) {
		names := lo.Map(WritableFormats(), func(f Format, _ int) string { return string(f) })
		return "", fmt.Errorf("%w: %q (want one of %s)", ErrUnsupportedFormat, name, strings.Join(names, ", "))
	}
	return f, nil
}

// FormatFromPath guesses the format from the file extension.
// Unknown extensions report false.
func FormatFromPath(path string) (Format, bool) {
	f, ok := extensions[strings.ToLower(filepath.Ext(path))]
	return f, ok
}

// Decode reads an image, detecting the format from its content. Raw PPM is
// decoded directly; everything else goes through image.Decode.
func Decode(r io.Reader) (*RGB, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(len(ppmMagic))
	if err != nil {
		return nil, fmt.Errorf("raster: decode: %w", err)
	}
	if string(magic) == ppmMagic {
		return DecodePPM(br)
	}

	img, _, err := image.Decode(br)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
		}
		return nil, fmt.Errorf("raster: decode: %w", err)
	}
	if b := img.Bounds(); int64(b.Dx())*int64(b.Dy()) > MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooLarge, b.Dx(), b.Dy())
	}
	return FromImage(img), nil
}

// Encode writes img in the given format.
func Encode(w io.Writer, img *RGB, format Format) error {
	enc, ok := encoders[format]
	if !ok {
		return fmt.Errorf("%w: cannot write %q", ErrUnsupportedFormat, format)
	}
	if img.Empty() {
		return fmt.Errorf("raster: encode %s: empty image", format)
	}
	if err := enc(w, img); err != nil {
		return fmt.Errorf("raster: encode %s: %w", format, err)
	}
	return nil
}

// ReadFile loads the image stored at path.
func ReadFile(path string) (*RGB, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("raster: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	img, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// WriteFile stores img at path in the given format. The data is written to
// a temporary file in the same directory and renamed into place, so path is
// either left untouched or holds the complete image.
func WriteFile(path string, img *RGB, format Format) (err error) {
	path = filepath.Clean(path)
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("raster: create file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	bw := bufio.NewWriter(f)
	if err = Encode(bw, img, format); err != nil {
		return err
	}
	if err = bw.Flush(); err != nil {
		return fmt.Errorf("raster: write file: %w", err)
	}
	if err = f.Chmod(0o644); err != nil {
		return fmt.Errorf("raster: write file: %w", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("raster: write file: %w", err)
	}
	if err = os.Rename(f.Name(), path); err != nil {
		return fmt.Errorf("raster: write file: %w", err)
	}
	return nil
}
