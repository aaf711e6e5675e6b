// Package scoring computes event results: weighted judge category averages
// plus a normalized crowd-vote term, versioned by a scoring version tag.
package scoring

import "fmt"

// Judge ballot categories
const (
	CategoryPerformance     = "performance"
	CategoryMusicality      = "musicality"
	CategoryStagePresence   = "stage_presence"
	CategoryCrowdEngagement = "crowd_engagement"
)

// CrowdPoints is the maximum contribution of the normalized crowd-vote term.
const CrowdPoints = 10.0

// CategoryWeight pairs a judge category with its weight in the judge component.
type CategoryWeight struct {
	Category string
	Weight   float64
}

// Version describes which judge categories apply for a scoring version tag
// and how they are weighted. Weights sum to 1, so the judge component scales
// to the same 10 points as the crowd component.
type Version struct {
	Tag        string
	Categories []CategoryWeight
}

// DefaultVersionTag is applied to newly created events.
const DefaultVersionTag = "2025"

var versions = map[string]Version{
	"2024": {
		Tag: "2024",
		Categories: []CategoryWeight{
			{CategoryPerformance, 0.5},
			{CategoryMusicality, 0.3},
			{CategoryStagePresence, 0.2},
		},
	},
	"2025": {
		Tag: "2025",
		Categories: []CategoryWeight{
			{CategoryPerformance, 0.4},
			{CategoryMusicality, 0.25},
			{CategoryStagePresence, 0.2},
			{CategoryCrowdEngagement, 0.15},
		},
	},
}

// LookupVersion resolves a scoring version tag.
func LookupVersion(tag string) (Version, error) {
	v, ok := versions[tag]
	if !ok {
		return Version{}, fmt.Errorf("unknown scoring version %q", tag)
	}
	return v, nil
}

// KnownCategory reports whether a category belongs to the given version.
func (v Version) KnownCategory(category string) bool {
	for _, cw := range v.Categories {
		if cw.Category == category {
			return true
		}
	}
	return false
}
