package intelligence

import "fmt"

// AspectRatio is a target framing for gallery and social layouts.
type AspectRatio struct {
	W, H int
}

// TargetAspectRatios are the crops computed for every photo.
var TargetAspectRatios = []AspectRatio{
	{4, 5},  // portrait
	{16, 9}, // landscape
	{1, 1},  // square
}

func (ar AspectRatio) String() string {
	return fmt.Sprintf("%d:%d", ar.W, ar.H)
}

// Face is a detected face box in pixel coordinates.
type Face struct {
	X, Y, W, H int
	Confidence float32
}

// CropBox is a crop region in pixel coordinates.
type CropBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// CropResult is a computed crop with how it was derived.
type CropResult struct {
	Box        CropBox `json:"crop_box"`
	Confidence float64 `json:"confidence"`
	Method     string  `json:"method"` // "face", "focal_point", or "center"
	Aspect     string  `json:"aspect"`
}

// headroomRatio is the extra space left above faces, as a fraction of the
// face height.
const headroomRatio = 0.15

// maximalCropSize returns the largest crop of the target aspect that fits the
// image: full height when the image is wider than the target, full width
// otherwise.
func maximalCropSize(imageW, imageH int, aspect AspectRatio) (int, int) {
	targetAspect := float64(aspect.W) / float64(aspect.H)
	if float64(imageW)/float64(imageH) > targetAspect {
		cropH := imageH
		cropW := int(float64(cropH) * targetAspect)
		if cropW > imageW {
			cropW = imageW
		}
		return cropW, cropH
	}
	cropW := imageW
	cropH := int(float64(cropW) / targetAspect)
	if cropH > imageH {
		cropH = imageH
	}
	return cropW, cropH
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// CalculateSmartCrop computes the optimal crop box for a target aspect ratio
// using people-first framing: faces (with headroom and multi-face group
// centering), then the editor-set focal point, then the image center.
func CalculateSmartCrop(imageW, imageH int, aspect AspectRatio, faces []Face, focalX, focalY *float64) CropResult {
	cropW, cropH := maximalCropSize(imageW, imageH, aspect)

	if len(faces) > 0 {
		return faceCrop(imageW, imageH, cropW, cropH, aspect, faces)
	}

	centerX := float64(imageW) / 2
	centerY := float64(imageH) / 2
	method := "center"
	if focalX != nil && focalY != nil {
		centerX = *focalX * float64(imageW)
		centerY = *focalY * float64(imageH)
		method = "focal_point"
	}

	x := clampInt(int(centerX-float64(cropW)/2), 0, imageW-cropW)
	y := clampInt(int(centerY-float64(cropH)/2), 0, imageH-cropH)
	return CropResult{
		Box:        CropBox{X: x, Y: y, Width: cropW, Height: cropH},
		Confidence: 0.5,
		Method:     method,
		Aspect:     aspect.String(),
	}
}

func faceCrop(imageW, imageH, cropW, cropH int, aspect AspectRatio, faces []Face) CropResult {
	best := faces[0]
	for _, f := range faces[1:] {
		if f.Confidence > best.Confidence {
			best = f
		}
	}

	headroom := int(float64(best.H) * headroomRatio)

	centerX := float64(best.X) + float64(best.W)/2
	centerY := float64(best.Y) + float64(best.H)/2 - float64(headroom)

	// with multiple faces, frame the whole group
	if len(faces) > 1 {
		minX, minY := faces[0].X, faces[0].Y
		maxX, maxY := faces[0].X+faces[0].W, faces[0].Y+faces[0].H
		for _, f := range faces[1:] {
			if f.X < minX {
				minX = f.X
			}
			if f.Y < minY {
				minY = f.Y
			}
			if f.X+f.W > maxX {
				maxX = f.X + f.W
			}
			if f.Y+f.H > maxY {
				maxY = f.Y + f.H
			}
		}
		centerX = float64(minX+maxX) / 2
		centerY = float64(minY+maxY)/2 - float64(headroom)
	}

	x := clampInt(int(centerX-float64(cropW)/2), 0, imageW-cropW)

	// keep the best face (with headroom) inside the crop even when the ideal
	// position would clamp it out
	idealY := int(centerY - float64(cropH)/2)
	minYForFace := clampInt(int(float64(best.Y-headroom)-float64(cropH)*0.1), 0, imageH-cropH)
	maxYForFace := clampInt(int(float64(best.Y+best.H)-float64(cropH)*0.9), 0, imageH-cropH)
	if maxYForFace < minYForFace {
		maxYForFace = minYForFace
	}
	y := clampInt(idealY, minYForFace, maxYForFace)

	return CropResult{
		Box:        CropBox{X: x, Y: y, Width: cropW, Height: cropH},
		Confidence: float64(best.Confidence),
		Method:     "face",
		Aspect:     aspect.String(),
	}
}

// CalculateAllCrops computes a crop for every target aspect ratio.
func CalculateAllCrops(imageW, imageH int, faces []Face, focalX, focalY *float64) []CropResult {
	results := make([]CropResult, 0, len(TargetAspectRatios))
	for _, ar := range TargetAspectRatios {
		results = append(results, CalculateSmartCrop(imageW, imageH, ar, faces, focalX, focalY))
	}
	return results
}
