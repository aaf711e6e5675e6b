package youtube

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	yt "google.golang.org/api/youtube/v3"
	"google.golang.org/api/option"
)

// VideoMetadata is the subset of YouTube video data the backfill uses.
type VideoMetadata struct {
	Title           string
	DurationSeconds int
	ThumbnailURL    string
}

// Client wraps the YouTube Data API v3 for read-only metadata lookups.
type Client struct {
	svc *yt.Service
}

func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("YouTube API key is not configured")
	}
	svc, err := yt.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return &Client{svc: svc}, nil
}

var isoDurationRe = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// parseISODuration converts a YouTube ISO-8601 duration like PT4M13S to seconds
func parseISODuration(raw string) int {
	matches := isoDurationRe.FindStringSubmatch(raw)
	if matches == nil {
		return 0
	}
	hours, _ := strconv.Atoi(matches[1])
	minutes, _ := strconv.Atoi(matches[2])
	seconds, _ := strconv.Atoi(matches[3])
	return hours*3600 + minutes*60 + seconds
}

func bestThumbnail(details *yt.ThumbnailDetails) string {
	if details == nil {
		return ""
	}
	for _, thumb := range []*yt.Thumbnail{details.Maxres, details.High, details.Medium, details.Default} {
		if thumb != nil && thumb.Url != "" {
			return thumb.Url
		}
	}
	return ""
}

// FetchVideoMetadata looks up metadata for up to 50 video IDs in one call.
// IDs that YouTube does not know are absent from the result map.
func (c *Client) FetchVideoMetadata(ctx context.Context, ids []string) (map[string]VideoMetadata, error) {
	if len(ids) == 0 {
		return map[string]VideoMetadata{}, nil
	}
	if len(ids) > 50 {
		return nil, fmt.Errorf("at most 50 video IDs per lookup, got %d", len(ids))
	}

	call := c.svc.Videos.List([]string{"snippet", "contentDetails"}).Id(ids...).Context(ctx)
	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("YouTube video lookup failed: %w", err)
	}

	result := make(map[string]VideoMetadata, len(resp.Items))
	for _, item := range resp.Items {
		meta := VideoMetadata{}
		if item.Snippet != nil {
			meta.Title = item.Snippet.Title
			meta.ThumbnailURL = bestThumbnail(item.Snippet.Thumbnails)
		}
		if item.ContentDetails != nil {
			meta.DurationSeconds = parseISODuration(item.ContentDetails.Duration)
		}
		result[item.Id] = meta
	}
	return result, nil
}
