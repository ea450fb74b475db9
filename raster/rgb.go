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
	"image"
	"image/color"
)

// Channel indices into an RGB pixel.
const (
	Red = iota
	Green
	Blue

	// NumChannels is the number of samples per pixel.
	NumChannels = 3
)

// MaxSample is the largest sample value an RGB can hold.
const MaxSample = 255

// RGB is an 8-bit, three-channel image with interleaved samples.
// The sample for channel c of pixel (x, y) lives at
// pix[y*stride + x*NumChannels + c]; rows run top to bottom.
type RGB struct {
	pix    []uint8
	width  int
	height int
	stride int // bytes per row
	maxval int
}

// NewRGB creates a black image with the specified dimensions.
// Non-positive dimensions produce an empty 0x0 image.
func NewRGB(width, height int) *RGB {
	if width <= 0 || height <= 0 {
		return &RGB{maxval: MaxSample}
	}
	stride := width * NumChannels
	return &RGB{
		pix:    make([]uint8, stride*height),
		width:  width,
		height: height,
		stride: stride,
		maxval: MaxSample,
	}
}

// Width returns the image width in pixels.
func (img *RGB) Width() int {
	return img.width
}

// Height returns the image height in pixels.
func (img *RGB) Height() int {
	return img.height
}

// Empty reports whether the image has no pixels.
func (img *RGB) Empty() bool {
	return img.width <= 0 || img.height <= 0
}

// Stride returns the number of bytes per row.
func (img *RGB) Stride() int {
	return img.stride
}

// Pix returns the interleaved sample buffer. It is shared with the image.
func (img *RGB) Pix() []uint8 {
	return img.pix
}

// Row returns the samples of row y, or nil if y is out of range.
func (img *RGB) Row(y int) []uint8 {
	if y < 0 || y >= img.height {
		return nil
	}
	start := y * img.stride
	return img.pix[start : start+img.stride]
}

// Maxval returns the largest sample value declared for the image. It is 255
// unless the image was decoded from a PPM file declaring a smaller one.
func (img *RGB) Maxval() int {
	return img.maxval
}

// SetMaxval records the largest sample value of the image. Values outside
// [1, 255] are ignored.
func (img *RGB) SetMaxval(v int) {
	if v < 1 || v > MaxSample {
		return
	}
	img.maxval = v
}

// Channel returns sample c of pixel (x, y).
// Coordinates and channel are not checked; out-of-range values panic.
func (img *RGB) Channel(x, y, c int) uint8 {
	return img.pix[y*img.stride+x*NumChannels+c]
}

// SetChannel sets sample c of pixel (x, y) to v.
// Coordinates and channel are not checked; out-of-range values panic.
func (img *RGB) SetChannel(x, y, c int, v uint8) {
	img.pix[y*img.stride+x*NumChannels+c] = v
}

// SameSize reports whether both images have the same dimensions.
func SameSize(a, b *RGB) bool {
	return a.width == b.width && a.height == b.height
}

// Clone returns a deep copy of the image.
func (img *RGB) Clone() *RGB {
	c := *img
	c.pix = make([]uint8, len(img.pix))
	copy(c.pix, img.pix)
	return &c
}

// Fill sets every pixel to (r, g, b).
func (img *RGB) Fill(r, g, b uint8) {
	for i := 0; i+NumChannels <= len(img.pix); i += NumChannels {
		img.pix[i+Red] = r
		img.pix[i+Green] = g
		img.pix[i+Blue] = b
	}
}

// ColorModel implements image.Image.
func (img *RGB) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements image.Image.
func (img *RGB) Bounds() image.Rectangle {
	return image.Rect(0, 0, img.width, img.height)
}

// At implements image.Image. Samples are rescaled to 0..255 when the
// image declares a smaller maxval; the pixel is always opaque.
func (img *RGB) At(x, y int) color.Color {
	if x < 0 || x >= img.width || y < 0 || y >= img.height {
		return color.NRGBA{}
	}
	i := y*img.stride + x*NumChannels
	return color.NRGBA{
		R: img.scale(img.pix[i+Red]),
		G: img.scale(img.pix[i+Green]),
		B: img.scale(img.pix[i+Blue]),
		A: 0xff,
	}
}

func (img *RGB) scale(v uint8) uint8 {
	if img.maxval == MaxSample || img.maxval <= 0 {
		return v
	}
	return uint8(min(int(v)*MaxSample/img.maxval, MaxSample))
}

// ToNRGBA converts the image to a standard library image, rescaling samples
// to 0..255. Alpha is set to opaque.
func (img *RGB) ToNRGBA() *image.NRGBA {
	out := image.NewNRGBA(img.Bounds())
	for y := range img.height {
		src := img.Row(y)
		dst := out.Pix[y*out.Stride:]
		for x := range img.width {
			s, d := x*NumChannels, x*4
			dst[d+0] = img.scale(src[s+Red])
			dst[d+1] = img.scale(src[s+Green])
			dst[d+2] = img.scale(src[s+Blue])
			dst[d+3] = 0xff
		}
	}
	return out
}

// FromImage copies the color samples of a standard library image into a new
// RGB. Alpha is dropped.
func FromImage(src image.Image) *RGB {
	b := src.Bounds()
	img := NewRGB(b.Dx(), b.Dy())
	if img.Empty() {
		return img
	}

	switch s := src.(type) {
	case *image.NRGBA:
		copyFour(img, s.Pix, s.Stride, s.PixOffset(b.Min.X, b.Min.Y))
	case *image.RGBA:
		copyFour(img, s.Pix, s.Stride, s.PixOffset(b.Min.X, b.Min.Y))
	default:
		for y := range img.height {
			row := img.Row(y)
			for x := range img.width {
				r, g, bl, _ := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
				row[x*NumChannels+Red] = uint8(r >> 8)
				row[x*NumChannels+Green] = uint8(g >> 8)
				row[x*NumChannels+Blue] = uint8(bl >> 8)
			}
		}
	}
	return img
}

// copyFour copies the RGB part of a 4-byte-per-pixel buffer.
func copyFour(img *RGB, pix []uint8, stride, offset int) {
	for y := range img.height {
		src := pix[offset+y*stride:]
		dst := img.Row(y)
		for x := range img.width {
			copy(dst[x*NumChannels:x*NumChannels+NumChannels], src[x*4:x*4+NumChannels])
		}
	}
}
