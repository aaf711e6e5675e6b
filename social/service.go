package social

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/battletechbands/backend/database"
	"github.com/battletechbands/backend/models"
	"github.com/battletechbands/backend/repository"
)

// Service fans a composed post out to every enabled account and records the
// per-account outcome.
type Service struct {
	repo   repository.SocialRepositoryInterface
	poster Poster
}

func NewService(repo repository.SocialRepositoryInterface, poster Poster) *Service {
	return &Service{repo: repo, poster: poster}
}

// CrossPost persists the post, then attempts delivery to each enabled
// account. One account failing does not stop delivery to the others; the
// outcome of every attempt is recorded on its result row.
func (s *Service) CrossPost(ctx context.Context, post *models.SocialPost) (*models.SocialPost, error) {
	accounts, err := s.repo.ListAccounts(true)
	if err != nil {
		return nil, fmt.Errorf("failed to load social accounts: %w", err)
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("no enabled social accounts configured")
	}

	if err := s.repo.CreatePost(post); err != nil {
		return nil, err
	}

	for i := range accounts {
		account := &accounts[i]
		result := &models.SocialPostResult{
			PostID:    post.ID,
			AccountID: account.ID,
			Status:    database.PostStatusPending,
		}
		if err := s.repo.CreateResult(result); err != nil {
			logrus.Errorf("social: failed to record delivery attempt for account %d: %v", account.ID, err)
			continue
		}

		remoteID, postErr := s.poster.Post(ctx, account, post.Body)
		now := time.Now().Unix()
		if postErr != nil {
			errStr := postErr.Error()
			result.Status = database.PostStatusFailed
			result.Error = &errStr
			logrus.Warnf("social: delivery to %s/%s failed: %v", account.Platform, account.Handle, postErr)
		} else {
			result.Status = database.PostStatusPosted
			result.PostedAt = &now
			if remoteID != "" {
				result.RemoteID = &remoteID
			}
			logrus.Infof("social: delivered post %d to %s/%s", post.ID, account.Platform, account.Handle)
		}
		if err := s.repo.UpdateResult(result); err != nil {
			logrus.Errorf("social: failed to record delivery result for account %d: %v", account.ID, err)
		}
		post.Results = append(post.Results, *result)
	}

	return post, nil
}

// ComposeResultsAnnouncement builds the podium message posted after an event
// is finalized. Only the top three bands are named.
func ComposeResultsAnnouncement(event *models.Event, results []models.FinalizedResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s — final results are in!\n\n", event.Name)

	medals := []string{"🥇", "🥈", "🥉"}
	for _, result := range results {
		if result.Rank > len(medals) {
			break
		}
		name := fmt.Sprintf("band #%d", result.BandID)
		if result.Band != nil {
			name = result.Band.Name
		}
		fmt.Fprintf(&b, "%s %s — %.1f points\n", medals[result.Rank-1], name, result.TotalScore)
	}

	fmt.Fprintf(&b, "\nThanks to every band, judge, and fan who made %s %d loud. #BattleOfTheTechBands", event.City, event.Year)
	return b.String()
}

// AnnounceResults composes and cross-posts the podium for a finalized event.
func (s *Service) AnnounceResults(ctx context.Context, event *models.Event, results []models.FinalizedResult) (*models.SocialPost, error) {
	if event.Status != database.EventStatusFinalized {
		return nil, fmt.Errorf("event %s is not finalized", event.Slug)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("event %s has no finalized results", event.Slug)
	}

	post := &models.SocialPost{
		EventID: &event.ID,
		Body:    ComposeResultsAnnouncement(event, results),
	}
	return s.CrossPost(ctx, post)
}
