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
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"a.ppm":         FormatPPM,
		"dir/b.PNG":     FormatPNG,
		"c.jpg":         FormatJPEG,
		"d.tif":         FormatTIFF,
		"e.bmp":         FormatBMP,
		"f.webp":        FormatWebP,
		"/tmp/out.pnm":  FormatPPM,
		"archive.tiff":  FormatTIFF,
		"photo.JPEG":    FormatJPEG,
		"no_extension.": "",
	}
	for path, want := range tests {
		got, ok := FormatFromPath(path)
		require.Equal(t, want != "", ok, path)
		require.Equal(t, want, got, path)
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JPG")
	require.NoError(t, err)
	require.Equal(t, FormatJPEG, f)

	_, err = ParseFormat("webp")
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = ParseFormat("gif")
	require.ErrorIs(t, err, ErrUnsupportedFormat)
	require.Contains(t, err.Error(), "bmp, jpeg, png, ppm, tiff")
}

func TestWritableFormats(t *testing.T) {
	require.Equal(t, []Format{FormatBMP, FormatJPEG, FormatPNG, FormatPPM, FormatTIFF}, WritableFormats())
}

// Lossless formats must reproduce the samples exactly.
func TestEncodeDecode(t *testing.T) {
	img := gradient(6, 4)
	for _, format := range []Format{FormatPPM, FormatPNG, FormatBMP, FormatTIFF} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, img, format))

			got, err := Decode(&buf)
			require.NoError(t, err)
			require.Equal(t, img.Pix(), got.Pix())
		})
	}
}

func TestDecode_Unsupported(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("definitely not an image")))
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestEncode_Unsupported(t *testing.T) {
	var buf bytes.Buffer
	require.ErrorIs(t, Encode(&buf, gradient(2, 2), FormatWebP), ErrUnsupportedFormat)
}

func TestReadWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.ppm")
	img := gradient(5, 3)

	require.NoError(t, WriteFile(path, img, FormatPPM))

	got, err := ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, img.Pix(), got.Pix())

	// Only the target file is left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestWriteFile_FailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.ppm")

	require.Error(t, WriteFile(path, NewRGB(0, 0), FormatPPM))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestWriteFile_MissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.ppm")
	require.Error(t, WriteFile(path, gradient(2, 2), FormatPPM))
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.ppm"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
