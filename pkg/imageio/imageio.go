// Package imageio decodes images from disk and encodes them back, choosing
// the output format from the file extension.
package imageio

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DefaultJPEGQuality is used when SaveOptions leaves JPEGQuality unset.
const DefaultJPEGQuality = 75

// ErrUnsupportedFormat is returned by Save for output extensions that have
// no encoder.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// DecodeError reports an input file that could not be read or decoded.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode image %q: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// WriteError reports an output file that could not be created or written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write image %q: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// SaveOptions tunes the encoders used by Save.
type SaveOptions struct {
	JPEGQuality int
}

// Open decodes the image at path. The format is detected from the file
// contents; PNG, JPEG, GIF, BMP, TIFF and WebP are understood.
func Open(path string) (image.Image, error) {
	img, err := imgio.Open(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return img, nil
}

// EncoderFor returns the encoder matching the extension of path.
func EncoderFor(path string, opts SaveOptions) (imgio.Encoder, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".png":
		return imgio.PNGEncoder(), nil
	case ".jpg", ".jpeg":
		q := opts.JPEGQuality
		if q <= 0 {
			q = DefaultJPEGQuality
		}
		return imgio.JPEGEncoder(q), nil
	case ".bmp":
		return imgio.BMPEncoder(), nil
	case ".gif":
		return func(w io.Writer, img image.Image) error {
			return gif.Encode(w, img, nil)
		}, nil
	case ".tif", ".tiff":
		return func(w io.Writer, img image.Image) error {
			return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
		}, nil
	case "":
		return nil, fmt.Errorf("%w: %q has no extension", ErrUnsupportedFormat, path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Save encodes img to path. Only path is written; if encoding fails the
// partial file is removed.
func Save(path string, img image.Image, opts SaveOptions) (err error) {
	encode, err := EncoderFor(path, opts)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}

	f, err := os.Create(path)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &WriteError{Path: path, Err: cerr}
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	if err := encode(f, img); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}
