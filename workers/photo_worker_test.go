package workers

import (
	"encoding/json"
	"testing"

	"github.com/battletechbands/backend/intelligence"
)

func TestEncodeCropBoxesKeysByAspect(t *testing.T) {
	crops := intelligence.CalculateAllCrops(4000, 3000, nil, nil, nil)
	if len(crops) != len(intelligence.TargetAspectRatios) {
		t.Fatalf("got %d crops, want one per target aspect (%d)", len(crops), len(intelligence.TargetAspectRatios))
	}

	encoded, err := encodeCropBoxes(crops)
	if err != nil {
		t.Fatalf("failed to encode crop boxes: %v", err)
	}

	var decoded map[string]intelligence.CropResult
	if err := json.Unmarshal([]byte(*encoded), &decoded); err != nil {
		t.Fatalf("stored crop boxes are not valid JSON: %v", err)
	}

	for _, aspect := range intelligence.TargetAspectRatios {
		crop, ok := decoded[aspect.String()]
		if !ok {
			t.Errorf("missing crop for aspect %s", aspect)
			continue
		}
		if crop.Aspect != aspect.String() {
			t.Errorf("crop aspect = %q, want %q", crop.Aspect, aspect)
		}
		if crop.Box.Width <= 0 || crop.Box.Height <= 0 {
			t.Errorf("aspect %s: degenerate crop box %+v", aspect, crop.Box)
		}
	}
}
