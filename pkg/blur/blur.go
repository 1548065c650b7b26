package blur

import (
	"image"
	"image/draw"
	"math"

	"github.com/disintegration/gift"
)

// Gaussian applies a Gaussian blur with the given sigma to img and returns a
// new image of the same size. A sigma of zero or less, or NaN, leaves the
// pixels unchanged. Sigmas wider than the image are clamped to its largest
// dimension.
func Gaussian(img image.Image, sigma float32) image.Image {
	g := gift.New(gift.GaussianBlur(EffectiveSigma(sigma, img.Bounds())))
	blurred := NewLike(img, g.Bounds(img.Bounds()))
	g.Draw(blurred, img)
	return blurred
}

// EffectiveSigma returns the sigma actually handed to the kernel for an image
// covering bounds. gift sizes its kernel from sigma, so unbounded values are
// cut down to the largest image dimension, past which the result is already
// fully diffuse.
func EffectiveSigma(sigma float32, bounds image.Rectangle) float32 {
	if math.IsNaN(float64(sigma)) || sigma <= 0 {
		return 0
	}
	limit := float32(max(bounds.Dx(), bounds.Dy(), 1))
	return min(sigma, limit)
}

// NewLike allocates a blank image covering bounds with the same color mode as
// src. Sources that cannot hold blended colors (paletted) or cannot be drawn
// into (YCbCr) get an NRGBA destination.
func NewLike(src image.Image, bounds image.Rectangle) draw.Image {
	switch src.(type) {
	case *image.Gray:
		return image.NewGray(bounds)
	case *image.Gray16:
		return image.NewGray16(bounds)
	case *image.RGBA:
		return image.NewRGBA(bounds)
	case *image.RGBA64:
		return image.NewRGBA64(bounds)
	case *image.NRGBA64:
		return image.NewNRGBA64(bounds)
	case *image.CMYK:
		return image.NewCMYK(bounds)
	default:
		return image.NewNRGBA(bounds)
	}
}

// ColorMode names the pixel layout of img, e.g. "gray" or "nrgba".
func ColorMode(img image.Image) string {
	switch img.(type) {
	case *image.Gray:
		return "gray"
	case *image.Gray16:
		return "gray16"
	case *image.RGBA:
		return "rgba"
	case *image.RGBA64:
		return "rgba64"
	case *image.NRGBA:
		return "nrgba"
	case *image.NRGBA64:
		return "nrgba64"
	case *image.CMYK:
		return "cmyk"
	case *image.Paletted:
		return "paletted"
	case *image.YCbCr:
		return "ycbcr"
	case *image.NYCbCrA:
		return "nycbcra"
	case *image.Alpha:
		return "alpha"
	case *image.Alpha16:
		return "alpha16"
	default:
		return "unknown"
	}
}
