package repository

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/battletechbands/backend/database"
	"github.com/battletechbands/backend/models"
)

func setupPhotoTestDB(t *testing.T) *gorm.DB {
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

func mustCreatePhoto(t *testing.T, repo *PhotoRepository, filename, prefix string) *models.Photo {
	t.Helper()
	photo := &models.Photo{
		Filename:     filename,
		OriginalPath: "originals/" + filename,
	}
	if err := repo.CreateWithSlug(photo, prefix); err != nil {
		t.Fatalf("failed to create photo %s: %v", filename, err)
	}
	return photo
}

func TestCreateWithSlugAllocatesSequence(t *testing.T) {
	repo := NewPhotoRepository(setupPhotoTestDB(t))

	first := mustCreatePhoto(t, repo, "DSC_0001.jpg", "neon-owls-2025")
	second := mustCreatePhoto(t, repo, "DSC_0002.jpg", "neon-owls-2025")
	other := mustCreatePhoto(t, repo, "DSC_0003.jpg", "austin-2025")

	if first.Slug != "neon-owls-2025-001" {
		t.Errorf("first slug = %q, want neon-owls-2025-001", first.Slug)
	}
	if second.Slug != "neon-owls-2025-002" {
		t.Errorf("second slug = %q, want neon-owls-2025-002", second.Slug)
	}
	if other.Slug != "austin-2025-001" {
		t.Errorf("other-prefix slug = %q, want austin-2025-001", other.Slug)
	}
}

func TestCreateWithSlugSkipsSoftDeletedSlugs(t *testing.T) {
	repo := NewPhotoRepository(setupPhotoTestDB(t))

	mustCreatePhoto(t, repo, "DSC_0001.jpg", "neon-owls-2025")
	second := mustCreatePhoto(t, repo, "DSC_0002.jpg", "neon-owls-2025")

	if err := repo.Delete(second.ID); err != nil {
		t.Fatalf("failed to delete photo: %v", err)
	}

	// the deleted photo keeps its slug reserved
	third := mustCreatePhoto(t, repo, "DSC_0003.jpg", "neon-owls-2025")
	if third.Slug != "neon-owls-2025-003" {
		t.Errorf("slug after soft delete = %q, want neon-owls-2025-003", third.Slug)
	}
}

func TestCreateWithSlugFallsBackWithoutPrefix(t *testing.T) {
	repo := NewPhotoRepository(setupPhotoTestDB(t))

	photo := mustCreatePhoto(t, repo, "DSC_0001.jpg", "")
	if photo.Slug != "photo-001" {
		t.Errorf("fallback slug = %q, want photo-001", photo.Slug)
	}
}

func TestSearchOrdersByCaptureTimeThenFilename(t *testing.T) {
	repo := NewPhotoRepository(setupPhotoTestDB(t))

	// no capture time: should sort last, in natural filename order
	mustCreatePhoto(t, repo, "DSC_10.jpg", "stage")
	mustCreatePhoto(t, repo, "DSC_9.jpg", "stage")

	early := mustCreatePhoto(t, repo, "DSC_0500.jpg", "stage")
	late := mustCreatePhoto(t, repo, "DSC_0400.jpg", "stage")
	earlyAt, lateAt := int64(1000), int64(2000)
	repo.DB.Model(early).Update("taken_at", earlyAt)
	repo.DB.Model(late).Update("taken_at", lateAt)

	photos, err := repo.Search(PhotoSearchFilters{})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(photos) != 4 {
		t.Fatalf("got %d photos, want 4", len(photos))
	}

	wantOrder := []string{"DSC_0500.jpg", "DSC_0400.jpg", "DSC_9.jpg", "DSC_10.jpg"}
	for i, want := range wantOrder {
		if photos[i].Filename != want {
			t.Errorf("position %d = %q, want %q", i, photos[i].Filename, want)
		}
	}
}

func TestSearchFiltersByLabelTerm(t *testing.T) {
	repo := NewPhotoRepository(setupPhotoTestDB(t))

	tagged := mustCreatePhoto(t, repo, "DSC_0001.jpg", "stage")
	crowd := "crowd,encore"
	if err := repo.UpdateLabels(tagged.ID, &crowd); err != nil {
		t.Fatalf("failed to set labels: %v", err)
	}

	// "crow" is a substring of "crowd" but not a whole label term
	mustCreatePhoto(t, repo, "DSC_0002.jpg", "stage")

	label := "crowd"
	photos, err := repo.Search(PhotoSearchFilters{Label: &label})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(photos) != 1 || photos[0].ID != tagged.ID {
		t.Fatalf("label search returned %d photos, want the tagged one only", len(photos))
	}

	partial := "crow"
	photos, err = repo.Search(PhotoSearchFilters{Label: &partial})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(photos) != 0 {
		t.Errorf("partial label term matched %d photos, want 0", len(photos))
	}
}

func TestFindNearDuplicatesUsesHammingThreshold(t *testing.T) {
	repo := NewPhotoRepository(setupPhotoTestDB(t))

	base := mustCreatePhoto(t, repo, "DSC_0001.jpg", "stage")
	near := mustCreatePhoto(t, repo, "DSC_0002.jpg", "stage")
	far := mustCreatePhoto(t, repo, "DSC_0003.jpg", "stage")

	// near differs by one bit, far by 32 bits
	setHash := func(id uint, hash string) {
		if err := repo.DB.Model(&models.Photo{}).Where("id = ?", id).Update("phash", hash).Error; err != nil {
			t.Fatalf("failed to set phash: %v", err)
		}
	}
	setHash(base.ID, "8000000000000000")
	setHash(near.ID, "8000000000000001")
	setHash(far.ID, "80000000ffffffff")

	duplicates, err := repo.FindNearDuplicates(base.ID)
	if err != nil {
		t.Fatalf("near-duplicate lookup failed: %v", err)
	}
	if len(duplicates) != 1 {
		t.Fatalf("got %d duplicates, want 1", len(duplicates))
	}
	if duplicates[0].ID != near.ID {
		t.Errorf("duplicate ID = %d, want %d", duplicates[0].ID, near.ID)
	}
}
