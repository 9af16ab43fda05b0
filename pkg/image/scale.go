package image

import (
	"image"

	"github.com/disintegration/imaging"
)

// Fit selects how a photo fills its cell box.
type Fit int

const (
	// Cover scales to fill the box and crops the overflow around the center.
	Cover Fit = iota
	// Contain scales down until the whole photo fits.
	Contain
)

// sharpenSigma restores edges softened by heavy downscaling.
const sharpenSigma = 0.5

// Scale resizes img to a w x h pixel box. Contain never upscales.
func Scale(img image.Image, w, h int, fit Fit) *image.NRGBA {
	if img == nil || w <= 0 || h <= 0 {
		return &image.NRGBA{}
	}
	b := img.Bounds()
	var dst *image.NRGBA
	switch fit {
	case Contain:
		dst = imaging.Fit(img, w, h, imaging.Lanczos)
	default:
		dst = imaging.Fill(img, w, h, imaging.Center, imaging.Lanczos)
	}
	if b.Dx() >= 2*dst.Bounds().Dx() {
		dst = imaging.Sharpen(dst, sharpenSigma)
	}
	return dst
}
