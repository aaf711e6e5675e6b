// Command backfill-videos fills in missing YouTube metadata (title, duration,
// thumbnail) for registered videos and links untagged videos to bands by
// fuzzy-matching band names against video titles.
package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/battletechbands/backend/config"
	"github.com/battletechbands/backend/database"
	"github.com/battletechbands/backend/models"
	"github.com/battletechbands/backend/namematch"
	"github.com/battletechbands/backend/repository"
	"github.com/battletechbands/backend/youtube"
)

const lookupBatchSize = 50

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("no .env file found, using environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("failed to load configuration: %v", err)
	}

	db, err := database.InitGormDB(cfg.DatabaseURL)
	if err != nil {
		logrus.Fatalf("failed to initialize database: %v", err)
	}

	ctx := context.Background()
	client, err := youtube.NewClient(ctx, cfg.YouTubeAPIKey)
	if err != nil {
		logrus.Fatalf("failed to create YouTube client: %v", err)
	}

	eventRepo := repository.NewEventRepository(db)
	bandRepo := repository.NewBandRepository(db)
	videoRepo := repository.NewVideoRepository(db)

	events, err := eventRepo.ListAll()
	if err != nil {
		logrus.Fatalf("failed to list events: %v", err)
	}

	var updated, linked, failed int
	for _, event := range events {
		videos, err := videoRepo.ListByEvent(event.ID)
		if err != nil {
			logrus.Errorf("failed to list videos for event %s: %v", event.Slug, err)
			continue
		}

		var pending []models.Video
		for _, video := range videos {
			if video.DurationSeconds == nil || video.ThumbnailURL == nil || video.BandID == nil {
				pending = append(pending, video)
			}
		}
		if len(pending) == 0 {
			continue
		}

		bands, err := bandRepo.ListByEvent(event.ID)
		if err != nil {
			logrus.Errorf("failed to list bands for event %s: %v", event.Slug, err)
			continue
		}
		candidates := make([]namematch.Candidate, len(bands))
		for i, band := range bands {
			candidates[i] = namematch.Candidate{ID: band.ID, Name: band.Name}
		}

		for start := 0; start < len(pending); start += lookupBatchSize {
			end := start + lookupBatchSize
			if end > len(pending) {
				end = len(pending)
			}
			batch := pending[start:end]

			ids := make([]string, len(batch))
			for i, video := range batch {
				ids[i] = video.YouTubeID
			}

			metadata, err := client.FetchVideoMetadata(ctx, ids)
			if err != nil {
				logrus.Errorf("metadata lookup failed for event %s: %v", event.Slug, err)
				failed += len(batch)
				continue
			}

			for _, video := range batch {
				meta, ok := metadata[video.YouTubeID]
				if !ok {
					logrus.Warnf("YouTube does not know video %s, skipping", video.YouTubeID)
					failed++
					continue
				}

				if meta.Title != "" {
					video.Title = meta.Title
				}
				if meta.DurationSeconds > 0 {
					duration := meta.DurationSeconds
					video.DurationSeconds = &duration
				}
				if meta.ThumbnailURL != "" {
					thumbURL := meta.ThumbnailURL
					video.ThumbnailURL = &thumbURL
				}

				if video.BandID == nil && len(candidates) > 0 {
					if bandID, ok := namematch.BestMatch(video.Title, candidates); ok {
						video.BandID = &bandID
						linked++
						logrus.Infof("linked video %s to band %d via title %q", video.YouTubeID, bandID, video.Title)
					}
				}

				if err := videoRepo.Update(&video); err != nil {
					logrus.Errorf("failed to update video %s: %v", video.YouTubeID, err)
					failed++
					continue
				}
				updated++
			}
		}
	}

	logrus.Infof("backfill complete: %d updated, %d band links, %d failures", updated, linked, failed)
	if failed > 0 {
		os.Exit(1)
	}
}
