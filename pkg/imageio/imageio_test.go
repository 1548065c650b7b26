package imageio

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 16), G: uint8(y * 16), B: 80, A: 255})
		}
	}
	return img
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestOpenDecodesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.png")
	src := gradient(6, 4)
	writePNG(t, path, src)

	img, err := Open(path)

	require.NoError(t, err)
	assert.Equal(t, src.Bounds(), img.Bounds())
	r, g, b, a := img.At(3, 2).RGBA()
	wr, wg, wb, wa := src.At(3, 2).RGBA()
	assert.Equal(t, []uint32{wr, wg, wb, wa}, []uint32{r, g, b, a})
}

func TestOpenMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.png")

	_, err := Open(path)

	var decErr *DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.Equal(t, path, decErr.Path)
	assert.Contains(t, err.Error(), "missing.png")
}

func TestOpenRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.png")
	require.NoError(t, os.WriteFile(path, []byte("definitely not an image"), 0o644))

	_, err := Open(path)

	var decErr *DecodeError
	require.ErrorAs(t, err, &decErr)
}

func TestSaveRoundTripsByExtension(t *testing.T) {
	dir := t.TempDir()
	src := gradient(8, 8)

	for _, name := range []string{"out.png", "out.PNG", "out.bmp", "out.tif", "out.tiff"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, Save(path, src, SaveOptions{}))

			got, err := Open(path)
			require.NoError(t, err)
			assert.Equal(t, src.Bounds().Size(), got.Bounds().Size())
			r, g, b, _ := got.At(5, 2).RGBA()
			wr, wg, wb, _ := src.At(5, 2).RGBA()
			assert.Equal(t, []uint32{wr >> 8, wg >> 8, wb >> 8}, []uint32{r >> 8, g >> 8, b >> 8})
		})
	}
}

func TestSaveLossyFormats(t *testing.T) {
	dir := t.TempDir()
	src := gradient(16, 16)

	for _, name := range []string{"out.jpg", "out.jpeg", "out.gif"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, Save(path, src, SaveOptions{JPEGQuality: 95}))

			got, err := Open(path)
			require.NoError(t, err)
			assert.Equal(t, src.Bounds().Size(), got.Bounds().Size())
		})
	}
}

func TestSaveWritesOnlyTheRequestedPath(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, Save(filepath.Join(dir, "out.jpg"), gradient(4, 4), SaveOptions{}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "out.jpg", entries[0].Name())
}

func TestSaveUnsupportedExtensionCreatesNothing(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"out.xyz", "out"} {
		path := filepath.Join(dir, name)
		err := Save(path, gradient(2, 2), SaveOptions{})

		var wErr *WriteError
		require.ErrorAs(t, err, &wErr)
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
		assert.NoFileExists(t, path)
	}
}

func TestSaveMissingParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no", "such", "dir", "out.png")

	err := Save(path, gradient(2, 2), SaveOptions{})

	var wErr *WriteError
	require.ErrorAs(t, err, &wErr)
	assert.Equal(t, path, wErr.Path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEncoderForDefaultsJPEGQuality(t *testing.T) {
	enc, err := EncoderFor("a.JPG", SaveOptions{})
	require.NoError(t, err)
	assert.NotNil(t, enc)
}
