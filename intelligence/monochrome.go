package intelligence

import (
	"image"

	"github.com/disintegration/imaging"
)

// monochromeSaturationThreshold is the mean saturation below which an image
// is considered B&W or largely monochrome.
const monochromeSaturationThreshold = 0.1

// sample size keeps the scan cheap regardless of original resolution
const monochromeSampleSize = 64

// IsMonochrome detects B&W images via mean color saturation.
func IsMonochrome(img image.Image) bool {
	small := imaging.Resize(img, monochromeSampleSize, monochromeSampleSize, imaging.Box)

	var total float64
	var count int
	for y := 0; y < small.Rect.Dy(); y++ {
		for x := 0; x < small.Rect.Dx(); x++ {
			i := y*small.Stride + x*4
			r := float64(small.Pix[i]) / 255
			g := float64(small.Pix[i+1]) / 255
			b := float64(small.Pix[i+2]) / 255

			max := r
			if g > max {
				max = g
			}
			if b > max {
				max = b
			}
			min := r
			if g < min {
				min = g
			}
			if b < min {
				min = b
			}

			// HSV saturation
			if max > 0 {
				total += (max - min) / max
			}
			count++
		}
	}
	if count == 0 {
		return false
	}
	return total/float64(count) < monochromeSaturationThreshold
}
