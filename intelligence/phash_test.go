package intelligence

import (
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
)

// gradient produces a deterministic test image with enough structure for the
// hashes to be non-degenerate.
func gradient(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: uint8((x + y) * 255 / (w + h)),
				A: 255,
			})
		}
	}
	return img
}

func TestPHashStableAcrossResize(t *testing.T) {
	orig := gradient(640, 480)
	resized := imaging.Resize(orig, 320, 240, imaging.Lanczos)

	h1 := PHash(orig)
	h2 := PHash(resized)

	if len(h1) != 16 {
		t.Fatalf("hash length = %d, want 16 hex chars", len(h1))
	}
	dist, err := HammingDistance(h1, h2)
	if err != nil {
		t.Fatalf("HammingDistance: %v", err)
	}
	if dist > DuplicateDistanceThreshold {
		t.Errorf("resized copy distance = %d, want <= %d", dist, DuplicateDistanceThreshold)
	}
	if !AreSimilar(h1, h2) {
		t.Error("expected resized copy to be flagged as near-duplicate")
	}
}

func TestDHashDistinguishesDifferentImages(t *testing.T) {
	a := gradient(640, 480)
	b := imaging.Invert(gradient(640, 480))

	ha := DHash(a)
	hb := DHash(b)

	dist, err := HammingDistance(ha, hb)
	if err != nil {
		t.Fatalf("HammingDistance: %v", err)
	}
	if dist <= DuplicateDistanceThreshold {
		t.Errorf("inverted image distance = %d, expected above threshold", dist)
	}
}

func TestHammingDistance(t *testing.T) {
	tests := []struct {
		a, b    string
		want    int
		wantErr bool
	}{
		{"0000000000000000", "0000000000000000", 0, false},
		{"0000000000000000", "ffffffffffffffff", 64, false},
		{"0000000000000001", "0000000000000003", 1, false},
		{"not-hex", "0000000000000000", 0, true},
	}
	for _, tt := range tests {
		got, err := HammingDistance(tt.a, tt.b)
		if tt.wantErr {
			if err == nil {
				t.Errorf("HammingDistance(%q, %q): expected error", tt.a, tt.b)
			}
			continue
		}
		if err != nil {
			t.Errorf("HammingDistance(%q, %q): %v", tt.a, tt.b, err)
			continue
		}
		if got != tt.want {
			t.Errorf("HammingDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestIsMonochrome(t *testing.T) {
	gray := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			v := uint8(x * 4)
			gray.Set(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	if !IsMonochrome(gray) {
		t.Error("expected grayscale gradient to read as monochrome")
	}

	if IsMonochrome(gradient(64, 64)) {
		t.Error("expected colorful gradient to read as color")
	}
}
