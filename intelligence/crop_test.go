package intelligence

import "testing"

func TestMaximalCropSize(t *testing.T) {
	tests := []struct {
		name           string
		imgW, imgH     int
		aspect         AspectRatio
		wantW, wantH   int
	}{
		{"wide image, square crop uses full height", 2000, 1000, AspectRatio{1, 1}, 1000, 1000},
		{"tall image, landscape crop uses full width", 1000, 2000, AspectRatio{16, 9}, 1000, 562},
		{"portrait crop of landscape image", 3000, 2000, AspectRatio{4, 5}, 1600, 2000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := maximalCropSize(tt.imgW, tt.imgH, tt.aspect)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("maximalCropSize = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
			if w > tt.imgW || h > tt.imgH {
				t.Error("crop exceeds image bounds")
			}
		})
	}
}

func TestCalculateSmartCropCenterFallback(t *testing.T) {
	res := CalculateSmartCrop(2000, 1000, AspectRatio{1, 1}, nil, nil, nil)

	if res.Method != "center" {
		t.Errorf("method = %s, want center", res.Method)
	}
	if res.Box.Width != 1000 || res.Box.Height != 1000 {
		t.Errorf("box = %dx%d, want 1000x1000", res.Box.Width, res.Box.Height)
	}
	if res.Box.X != 500 || res.Box.Y != 0 {
		t.Errorf("box origin = (%d,%d), want (500,0)", res.Box.X, res.Box.Y)
	}
}

func TestCalculateSmartCropFocalPoint(t *testing.T) {
	fx, fy := 0.25, 0.5
	res := CalculateSmartCrop(2000, 1000, AspectRatio{1, 1}, nil, &fx, &fy)

	if res.Method != "focal_point" {
		t.Errorf("method = %s, want focal_point", res.Method)
	}
	// focal x at 500px, crop centered there
	if res.Box.X != 0 {
		t.Errorf("box x = %d, want 0 (clamped)", res.Box.X)
	}
}

func TestCalculateSmartCropFace(t *testing.T) {
	faces := []Face{{X: 1500, Y: 200, W: 200, H: 200, Confidence: 0.95}}
	res := CalculateSmartCrop(2000, 1000, AspectRatio{1, 1}, faces, nil, nil)

	if res.Method != "face" {
		t.Errorf("method = %s, want face", res.Method)
	}
	// face center must land inside the crop
	faceCX := 1600
	faceCY := 300
	if faceCX < res.Box.X || faceCX > res.Box.X+res.Box.Width {
		t.Errorf("face center x %d outside crop [%d, %d]", faceCX, res.Box.X, res.Box.X+res.Box.Width)
	}
	if faceCY < res.Box.Y || faceCY > res.Box.Y+res.Box.Height {
		t.Errorf("face center y %d outside crop [%d, %d]", faceCY, res.Box.Y, res.Box.Y+res.Box.Height)
	}
	// crop stays in bounds
	if res.Box.X < 0 || res.Box.X+res.Box.Width > 2000 || res.Box.Y < 0 || res.Box.Y+res.Box.Height > 1000 {
		t.Errorf("crop out of bounds: %+v", res.Box)
	}
	if res.Confidence < 0.9 {
		t.Errorf("confidence = %v, want detector confidence carried through", res.Confidence)
	}
}

func TestCalculateSmartCropFaceGroup(t *testing.T) {
	// two faces at opposite ends; group framing should center between them
	faces := []Face{
		{X: 400, Y: 400, W: 100, H: 100, Confidence: 0.9},
		{X: 1500, Y: 400, W: 100, H: 100, Confidence: 0.8},
	}
	res := CalculateSmartCrop(2000, 1000, AspectRatio{16, 9}, faces, nil, nil)

	groupCX := (400 + 1600) / 2
	cropCX := res.Box.X + res.Box.Width/2
	if diff := groupCX - cropCX; diff < -150 || diff > 150 {
		t.Errorf("crop center x = %d, want near group center %d", cropCX, groupCX)
	}
}

func TestCalculateAllCrops(t *testing.T) {
	results := CalculateAllCrops(4000, 3000, nil, nil, nil)
	if len(results) != len(TargetAspectRatios) {
		t.Fatalf("got %d crops, want %d", len(results), len(TargetAspectRatios))
	}
	seen := map[string]bool{}
	for _, r := range results {
		seen[r.Aspect] = true
	}
	for _, ar := range TargetAspectRatios {
		if !seen[ar.String()] {
			t.Errorf("missing crop for aspect %s", ar)
		}
	}
}
