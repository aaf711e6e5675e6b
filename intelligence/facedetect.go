package intelligence

import (
	"image"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

// FaceDetector provides face detection using the SSD res10 Caffe model.
// When the model files are absent the detector stays disabled and crops fall
// back to focal point / center framing.
type FaceDetector struct {
	Net     gocv.Net
	Enabled bool

	ConfThreshold float32
}

const (
	faceNetInputSize = 300
	faceNetScale     = 1.0
)

// NewFaceDetector loads the DNN. Either path being empty disables detection.
func NewFaceDetector(configPath, modelPath string) *FaceDetector {
	if configPath == "" || modelPath == "" {
		logrus.Info("detection: model paths not configured, disabling face detector")
		return &FaceDetector{Enabled: false}
	}

	net := gocv.ReadNetFromCaffe(configPath, modelPath)
	if net.Empty() {
		logrus.Errorf("detection: ReadNetFromCaffe returned an empty network, check %s / %s", configPath, modelPath)
		return &FaceDetector{Enabled: false}
	}

	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)
	logrus.Info("detection: loaded SSD res10 face detector")

	return &FaceDetector{
		Net:           net,
		Enabled:       true,
		ConfThreshold: 0.5,
	}
}

// Close releases the network.
func (d *FaceDetector) Close() {
	if d.Enabled {
		d.Net.Close()
	}
}

// DetectFaces runs the DNN on the image file and returns face boxes in pixel
// coordinates of the original image.
func (d *FaceDetector) DetectFaces(imagePath string) ([]Face, error) {
	if !d.Enabled {
		return nil, nil
	}

	img := gocv.IMRead(imagePath, gocv.IMReadColor)
	if img.Empty() {
		return nil, nil
	}
	defer img.Close()

	origW := img.Cols()
	origH := img.Rows()

	blob := gocv.BlobFromImage(img, faceNetScale,
		image.Pt(faceNetInputSize, faceNetInputSize),
		gocv.NewScalar(104, 177, 123, 0), false, false)
	defer blob.Close()

	d.Net.SetInput(blob, "")
	detections := d.Net.Forward("")
	defer detections.Close()

	// output shape is [1, 1, N, 7]: (_, _, confidence, x1, y1, x2, y2)
	results := gocv.GetBlobChannel(detections, 0, 0)
	defer results.Close()

	var faces []Face
	for row := 0; row < results.Rows(); row++ {
		confidence := results.GetFloatAt(row, 2)
		if confidence < d.ConfThreshold {
			continue
		}

		x1 := int(results.GetFloatAt(row, 3) * float32(origW))
		y1 := int(results.GetFloatAt(row, 4) * float32(origH))
		x2 := int(results.GetFloatAt(row, 5) * float32(origW))
		y2 := int(results.GetFloatAt(row, 6) * float32(origH))

		x1 = clampInt(x1, 0, origW)
		y1 = clampInt(y1, 0, origH)
		x2 = clampInt(x2, 0, origW)
		y2 = clampInt(y2, 0, origH)
		if x2 <= x1 || y2 <= y1 {
			continue
		}

		faces = append(faces, Face{
			X: x1, Y: y1, W: x2 - x1, H: y2 - y1,
			Confidence: confidence,
		})
	}

	return faces, nil
}
