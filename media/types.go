package media

type AssetType string

const (
	AssetTypeOriginal  AssetType = "original"
	AssetTypeThumbnail AssetType = "thumbnail"
	AssetTypeWeb       AssetType = "web"
)

// Metadata contains EXIF and dimension information extracted from an upload.
type Metadata struct {
	Width        *int     `json:"width,omitempty"`
	Height       *int     `json:"height,omitempty"`
	Aperture     *float64 `json:"aperture,omitempty"`
	ShutterSpeed *string  `json:"shutter_speed,omitempty"`
	ISO          *int     `json:"iso,omitempty"`
	FocalLength  *float64 `json:"focal_length,omitempty"`
	LensMake     *string  `json:"lens_make,omitempty"`
	LensModel    *string  `json:"lens_model,omitempty"`
	CameraMake   *string  `json:"camera_make,omitempty"`
	CameraModel  *string  `json:"camera_model,omitempty"`
	TakenAt      *int64   `json:"taken_at,omitempty"`
}

// XMPHints are name strings pulled from an embedded XMP packet. They feed the
// fuzzy matcher to auto-tag uploads with photographer/event/band rows.
type XMPHints struct {
	Creator  string   `json:"creator,omitempty"`
	Title    string   `json:"title,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}
