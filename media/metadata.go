package media

import (
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/sirupsen/logrus"
)

// helper to safely get and convert a rational tag (like Aperture, FocalLength)
func getRational(exifData *exif.Exif, tagName exif.FieldName) *float64 {
	tag, err := exifData.Get(tagName)
	if err != nil || tag == nil {
		return nil // Tag not found
	}
	// rational numbers are often stored as num/den
	num, den, err := tag.Rat2(0)
	if err != nil || den == 0 {
		// sometimes stored as Int instead
		valInt, errInt := tag.Int(0)
		if errInt == nil {
			fVal := float64(valInt)
			return &fVal
		}
		return nil
	}
	val := float64(num) / float64(den)
	return &val
}

// helper to safely get and convert an integer tag (like ISO)
func getInt(exifData *exif.Exif, tagName exif.FieldName) *int {
	tag, err := exifData.Get(tagName)
	if err != nil || tag == nil {
		return nil
	}
	// ISO might be a slice, get the first value
	val, err := tag.Int(0)
	if err != nil {
		return nil
	}
	return &val
}

// helper to safely get a string tag, trimming null terminators
func getString(exifData *exif.Exif, tagName exif.FieldName) *string {
	tag, err := exifData.Get(tagName)
	if err != nil || tag == nil {
		return nil
	}
	val := strings.Trim(strings.TrimRight(tag.String(), "\x00"), "\"")
	if val == "" {
		return nil
	}
	return &val
}

// helper to get Shutter Speed specifically, formatting it nicely
func getShutterSpeed(exifData *exif.Exif) *string {
	tag, err := exifData.Get(exif.ExposureTime)
	if err != nil || tag == nil {
		return nil
	}
	num, den, err := tag.Rat2(0)
	if err != nil || den == 0 {
		return nil // Cannot represent as fraction
	}

	if num == 1 && den > 1 { // common case: 1/XXX
		s := fmt.Sprintf("1/%d", den)
		return &s
	}

	val := float64(num) / float64(den)
	if val >= 1.0 {
		s := fmt.Sprintf("%.1fs", val) // e.g., 1.5s, 30.0s
		return &s
	}
	s := fmt.Sprintf("%.4fs", val)
	return &s
}

// ExtractMetadata pulls dimensions and EXIF fields out of an image stream.
// A file without EXIF data is not an error; those fields stay nil.
func ExtractMetadata(r io.ReadSeeker) (*Metadata, error) {
	meta := &Metadata{}

	config, _, err := image.DecodeConfig(r)
	if err == nil {
		w, h := config.Width, config.Height
		meta.Width = &w
		meta.Height = &h
	} else {
		logrus.Warnf("metadata: could not decode config for dimensions: %v", err)
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("metadata: failed to seek: %w", err)
	}

	exifData, err := exif.Decode(r)
	if err != nil {
		// not necessarily a fatal error, file might just lack EXIF data
		return meta, nil
	}

	meta.Aperture = getRational(exifData, exif.FNumber)
	meta.ShutterSpeed = getShutterSpeed(exifData)
	meta.ISO = getInt(exifData, exif.ISOSpeedRatings)
	meta.FocalLength = getRational(exifData, exif.FocalLength)
	meta.LensMake = getString(exifData, exif.LensMake)
	meta.LensModel = getString(exifData, exif.LensModel)
	meta.CameraMake = getString(exifData, exif.Make)
	meta.CameraModel = getString(exifData, exif.Model)

	if taken, err := exifData.DateTime(); err == nil {
		unix := taken.Unix()
		meta.TakenAt = &unix
	}

	return meta, nil
}
