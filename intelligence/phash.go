// Package intelligence implements the photo analysis pipeline: perceptual
// hashes for near-duplicate detection, people-first smart crop boxes, and
// monochrome detection.
package intelligence

import (
	"fmt"
	"image"
	"math"
	"math/bits"
	"sort"
	"strconv"

	"github.com/disintegration/imaging"
)

// DuplicateDistanceThreshold is the maximum Hamming distance at which two
// photos are flagged as near-duplicates.
const DuplicateDistanceThreshold = 10

const (
	phashInputSize = 32
	hashBits       = 64
)

// grayAt returns the luminance of the pixel as a float64.
func grayAt(img *image.NRGBA, x, y int) float64 {
	i := y*img.Stride + x*4
	r := float64(img.Pix[i])
	g := float64(img.Pix[i+1])
	b := float64(img.Pix[i+2])
	return 0.299*r + 0.587*g + 0.114*b
}

// dct2d computes a naive 2D DCT-II of an NxN matrix. N is 32, so the O(N^4)
// cost is negligible next to the image decode.
func dct2d(input [][]float64) [][]float64 {
	n := len(input)
	output := make([][]float64, n)
	for u := range output {
		output[u] = make([]float64, n)
		for v := 0; v < n; v++ {
			var sum float64
			for x := 0; x < n; x++ {
				for y := 0; y < n; y++ {
					sum += input[x][y] *
						math.Cos(float64(2*x+1)*float64(u)*math.Pi/float64(2*n)) *
						math.Cos(float64(2*y+1)*float64(v)*math.Pi/float64(2*n))
				}
			}
			output[u][v] = sum
		}
	}
	return output
}

// PHash computes a 64-bit perceptual hash: 32x32 grayscale DCT, low-frequency
// 8x8 block thresholded against its median (DC term excluded).
func PHash(img image.Image) string {
	small := imaging.Grayscale(imaging.Resize(img, phashInputSize, phashInputSize, imaging.Lanczos))

	pixels := make([][]float64, phashInputSize)
	for x := range pixels {
		pixels[x] = make([]float64, phashInputSize)
		for y := 0; y < phashInputSize; y++ {
			pixels[x][y] = grayAt(small, x, y)
		}
	}

	freq := dct2d(pixels)

	coeffs := make([]float64, 0, hashBits)
	for u := 0; u < 8; u++ {
		for v := 0; v < 8; v++ {
			coeffs = append(coeffs, freq[u][v])
		}
	}

	// median over the block minus the DC coefficient
	sorted := make([]float64, len(coeffs)-1)
	copy(sorted, coeffs[1:])
	sort.Float64s(sorted)
	median := (sorted[len(sorted)/2-1] + sorted[len(sorted)/2]) / 2

	var hash uint64
	for i, c := range coeffs {
		if c > median {
			hash |= 1 << uint(hashBits-1-i)
		}
	}
	return fmt.Sprintf("%016x", hash)
}

// DHash computes a 64-bit difference hash: 9x8 grayscale, each bit set when a
// pixel is brighter than its right neighbor.
func DHash(img image.Image) string {
	small := imaging.Grayscale(imaging.Resize(img, 9, 8, imaging.Lanczos))

	var hash uint64
	bit := 0
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if grayAt(small, x, y) > grayAt(small, x+1, y) {
				hash |= 1 << uint(hashBits-1-bit)
			}
			bit++
		}
	}
	return fmt.Sprintf("%016x", hash)
}

// HammingDistance counts differing bits between two 64-bit hex hashes.
func HammingDistance(hash1, hash2 string) (int, error) {
	a, err := strconv.ParseUint(hash1, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid hash %q: %w", hash1, err)
	}
	b, err := strconv.ParseUint(hash2, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid hash %q: %w", hash2, err)
	}
	return bits.OnesCount64(a ^ b), nil
}

// AreSimilar reports whether two hashes are within the near-duplicate
// threshold. Malformed hashes never match.
func AreSimilar(hash1, hash2 string) bool {
	dist, err := HammingDistance(hash1, hash2)
	if err != nil {
		return false
	}
	return dist <= DuplicateDistanceThreshold
}
