package social

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/battletechbands/backend/database"
	"github.com/battletechbands/backend/models"
	"github.com/battletechbands/backend/repository"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// fakePoster records deliveries and fails for platforms listed in failFor
type fakePoster struct {
	delivered []string
	failFor   map[string]bool
}

func (f *fakePoster) Post(_ context.Context, account *models.SocialAccount, body string) (string, error) {
	if f.failFor[account.Platform] {
		return "", fmt.Errorf("simulated %s outage", account.Platform)
	}
	f.delivered = append(f.delivered, account.Platform)
	return "remote-" + account.Platform, nil
}

func seedAccount(t *testing.T, repo *repository.SocialRepository, platform string, enabled bool) *models.SocialAccount {
	t.Helper()
	account := &models.SocialAccount{
		Platform:    platform,
		Handle:      "@battletechbands",
		Endpoint:    "https://" + platform + ".example/api/posts",
		AccessToken: "token-" + platform,
		Enabled:     enabled,
	}
	if err := repo.CreateAccount(account); err != nil {
		t.Fatalf("failed to seed %s account: %v", platform, err)
	}
	return account
}

func TestCrossPostDeliversToEnabledAccounts(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewSocialRepository(db)
	seedAccount(t, repo, "mastodon", true)
	seedAccount(t, repo, "bluesky", true)
	seedAccount(t, repo, "linkedin", false)

	poster := &fakePoster{}
	svc := NewService(repo, poster)

	post, err := svc.CrossPost(context.Background(), &models.SocialPost{Body: "doors open at 7"})
	if err != nil {
		t.Fatalf("CrossPost returned error: %v", err)
	}

	if len(poster.delivered) != 2 {
		t.Fatalf("expected 2 deliveries, got %d (%v)", len(poster.delivered), poster.delivered)
	}
	if len(post.Results) != 2 {
		t.Fatalf("expected 2 result rows, got %d", len(post.Results))
	}
	for _, result := range post.Results {
		if result.Status != database.PostStatusPosted {
			t.Errorf("expected status %q, got %q", database.PostStatusPosted, result.Status)
		}
		if result.RemoteID == nil || !strings.HasPrefix(*result.RemoteID, "remote-") {
			t.Errorf("expected remote ID to be recorded, got %v", result.RemoteID)
		}
		if result.PostedAt == nil {
			t.Error("expected posted_at to be set")
		}
	}
}

func TestCrossPostRecordsPartialFailure(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewSocialRepository(db)
	seedAccount(t, repo, "mastodon", true)
	seedAccount(t, repo, "bluesky", true)

	poster := &fakePoster{failFor: map[string]bool{"bluesky": true}}
	svc := NewService(repo, poster)

	post, err := svc.CrossPost(context.Background(), &models.SocialPost{Body: "lineup announced"})
	if err != nil {
		t.Fatalf("CrossPost returned error: %v", err)
	}

	statuses := map[string]int{}
	for _, result := range post.Results {
		statuses[result.Status]++
	}
	if statuses[database.PostStatusPosted] != 1 || statuses[database.PostStatusFailed] != 1 {
		t.Fatalf("expected one posted and one failed result, got %v", statuses)
	}

	// the failure must survive a reload, with its error message attached
	reloaded, err := repo.GetPostByID(post.ID)
	if err != nil {
		t.Fatalf("failed to reload post: %v", err)
	}
	var failedSeen bool
	for _, result := range reloaded.Results {
		if result.Status == database.PostStatusFailed {
			failedSeen = true
			if result.Error == nil || !strings.Contains(*result.Error, "outage") {
				t.Errorf("expected failure error to be recorded, got %v", result.Error)
			}
		}
	}
	if !failedSeen {
		t.Error("expected a failed result row after reload")
	}
}

func TestCrossPostRequiresAccounts(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewSocialRepository(db)
	svc := NewService(repo, &fakePoster{})

	if _, err := svc.CrossPost(context.Background(), &models.SocialPost{Body: "hello"}); err == nil {
		t.Fatal("expected error when no accounts are configured")
	}
}

func TestComposeResultsAnnouncement(t *testing.T) {
	event := &models.Event{Name: "Battle of the Tech Bands Berlin 2025", City: "Berlin", Year: 2025}
	results := []models.FinalizedResult{
		{Rank: 1, BandID: 1, TotalScore: 17.4, Band: &models.Band{Name: "Null Pointer Exception"}},
		{Rank: 2, BandID: 2, TotalScore: 15.1, Band: &models.Band{Name: "The Rolling Backups"}},
		{Rank: 3, BandID: 3, TotalScore: 12.9, Band: &models.Band{Name: "Kernel Panic"}},
		{Rank: 4, BandID: 4, TotalScore: 11.0, Band: &models.Band{Name: "Stack Underflow"}},
	}

	body := ComposeResultsAnnouncement(event, results)

	for _, want := range []string{"Null Pointer Exception", "The Rolling Backups", "Kernel Panic", "17.4"} {
		if !strings.Contains(body, want) {
			t.Errorf("announcement missing %q:\n%s", want, body)
		}
	}
	if strings.Contains(body, "Stack Underflow") {
		t.Error("announcement should only name the podium")
	}
}

func TestAnnounceResultsRefusesUnfinalizedEvent(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewSocialRepository(db)
	svc := NewService(repo, &fakePoster{})

	event := &models.Event{Name: "Test", Slug: "test", Status: database.EventStatusVoting}
	_, err := svc.AnnounceResults(context.Background(), event, []models.FinalizedResult{{Rank: 1}})
	if err == nil {
		t.Fatal("expected error for unfinalized event")
	}
}
