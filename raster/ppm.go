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
	"io"
)

// PPM errors.
var (
	// ErrInvalidHeader is returned when a PPM header cannot be parsed.
	ErrInvalidHeader = errors.New("raster: invalid PPM header")

	// ErrUnsupportedMaxval is returned for PPM files whose samples do not fit
	// in one byte.
	ErrUnsupportedMaxval = errors.New("raster: unsupported PPM maxval")

	// ErrTruncated is returned when the pixel data ends early.
	ErrTruncated = errors.New("raster: truncated pixel data")

	// ErrTooLarge is returned when the declared dimensions exceed MaxPixels.
	ErrTooLarge = errors.New("raster: image too large")
)

// ppmMagic identifies the raw (binary) PPM variant.
const ppmMagic = "P6"

// MaxPixels bounds the pixel count accepted from a file header, so a corrupt
// header cannot trigger a huge allocation.
const MaxPixels = 1 << 30

// DecodePPM reads a raw PPM (P6) image. Comments starting with '#' are
// allowed between header fields. The whole pixel block is read before the
// image is returned; on error no image is returned.
func DecodePPM(r io.Reader) (*RGB, error) {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}

	magic := make([]byte, len(ppmMagic))
	if _, err := io.ReadFull(br, magic); err != nil {
		return nil, fmt.Errorf("%w: reading magic: %w", ErrInvalidHeader, err)
	}
	if string(magic) != ppmMagic {
		return nil, fmt.Errorf("%w: magic %q, want %q", ErrInvalidHeader, magic, ppmMagic)
	}
	if c, err := br.Peek(1); err != nil || !isSpace(c[0]) {
		return nil, fmt.Errorf("%w: no whitespace after magic", ErrInvalidHeader)
	}

	var fields [3]int
	for i, name := range []string{"width", "height", "maxval"} {
		v, err := readHeaderInt(br)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidHeader, name, err)
		}
		fields[i] = v
	}
	width, height, maxval := fields[0], fields[1], fields[2]

	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidHeader, width, height)
	}
	if int64(width)*int64(height) > MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooLarge, width, height)
	}
	if maxval < 1 || maxval > MaxSample {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedMaxval, maxval)
	}

	img := NewRGB(width, height)
	img.SetMaxval(maxval)
	if _, err := io.ReadFull(br, img.pix); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: want %d bytes", ErrTruncated, len(img.pix))
		}
		return nil, fmt.Errorf("raster: read pixels: %w", err)
	}
	return img, nil
}

// EncodePPM writes img as a raw PPM (P6) image.
func EncodePPM(w io.Writer, img *RGB) error {
	if img.Empty() {
		return fmt.Errorf("raster: encode PPM: empty image")
	}
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%s\n%d %d\n%d\n", ppmMagic, img.width, img.height, img.maxval); err != nil {
		return fmt.Errorf("raster: encode PPM: %w", err)
	}
	for y := range img.height {
		if _, err := bw.Write(img.Row(y)[:img.width*NumChannels]); err != nil {
			return fmt.Errorf("raster: encode PPM: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("raster: encode PPM: %w", err)
	}
	return nil
}

// readHeaderInt reads one decimal header field, skipping leading whitespace
// and comments. Exactly one whitespace byte after the digits is consumed,
// which for the maxval field is the separator before the pixel data.
func readHeaderInt(br *bufio.Reader) (int, error) {
	for {
		c, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		if c == '#' {
			if _, err := br.ReadBytes('\n'); err != nil {
				return 0, err
			}
			continue
		}
		if isSpace(c) {
			continue
		}
		if err := br.UnreadByte(); err != nil {
			return 0, err
		}
		break
	}

	v, digits := 0, 0
	for {
		c, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch {
		case c >= '0' && c <= '9':
			v = v*10 + int(c-'0')
			digits++
			if v > MaxPixels {
				return 0, fmt.Errorf("value out of range")
			}
		case isSpace(c) && digits > 0:
			return v, nil
		default:
			return 0, fmt.Errorf("unexpected byte %q", c)
		}
	}
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
