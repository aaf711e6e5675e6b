package repository

import (
	"github.com/battletechbands/backend/media"
	"github.com/battletechbands/backend/models"
)

// EventRepositoryInterface defines the methods for event data operations
type EventRepositoryInterface interface {
	Create(event *models.Event) error
	ListAll() ([]models.Event, error)
	GetByID(id uint) (*models.Event, error)
	GetBySlug(slug string) (*models.Event, error)
	Update(eventID uint, name *string, city *string, year *int, venue *string, date *int64) error
	UpdateStatus(eventID uint, status string) error
	Delete(id uint) error
}

// BandRepositoryInterface defines the methods for band data operations
type BandRepositoryInterface interface {
	Create(band *models.Band) error
	ListByEvent(eventID uint) ([]models.Band, error)
	GetByID(id uint) (*models.Band, error)
	GetBySlug(eventID uint, slug string) (*models.Band, error)
	Update(bandID uint, name *string, companyID *uint, tagline *string, members *string) error
	Delete(id uint) error
}

// CompanyRepositoryInterface defines the methods for company data operations
type CompanyRepositoryInterface interface {
	Create(company *models.Company) error
	ListAll() ([]models.Company, error)
	GetByID(id uint) (*models.Company, error)
	Update(company *models.Company) error
	Delete(id uint) error
}

// PhotographerRepositoryInterface defines the methods for photographer data operations
type PhotographerRepositoryInterface interface {
	Create(photographer *models.Photographer) error
	ListAll() ([]models.Photographer, error)
	GetByID(id uint) (*models.Photographer, error)
	Update(photographer *models.Photographer) error
	Delete(id uint) error
}

// VoteRepositoryInterface defines the methods for crowd votes, judge ballots,
// and crowd-noise measurements
type VoteRepositoryInterface interface {
	CreateCrowdVote(vote *models.Vote) error
	CountVotesByBand(eventID uint) (map[uint]int64, error)
	UpsertJudgeScore(score *models.JudgeScore) error
	ListJudgeScores(eventID uint, judgeID uint) ([]models.JudgeScore, error)
	ReplaceCrowdNoise(measurement *models.CrowdNoiseMeasurement) error
	ListCrowdNoise(eventID uint) ([]models.CrowdNoiseMeasurement, error)
}

// ResultRepositoryInterface reads persisted ranking snapshots
type ResultRepositoryInterface interface {
	ListByEvent(eventID uint) ([]models.FinalizedResult, error)
}

// PhotoSearchFilters narrows a gallery photo search
type PhotoSearchFilters struct {
	EventID        *uint
	BandID         *uint
	PhotographerID *uint
	Label          *string
	Monochrome     *bool
}

// PhotoRepositoryInterface defines the methods for photo data operations
type PhotoRepositoryInterface interface {
	CreateWithSlug(photo *models.Photo, prefix string) error
	GetByID(id uint) (*models.Photo, error)
	GetBySlug(slug string) (*models.Photo, error)
	Search(filters PhotoSearchFilters) ([]models.Photo, error)
	UpdateLabels(photoID uint, labels *string) error
	UpdateFocalPoint(photoID uint, x, y float64) error
	UpdateAssociations(photoID uint, eventID, bandID, photographerID *uint) error
	MarkTaskProcessing(photoID uint, taskStatusColumn string) error
	UpdateMetadataResult(photoID uint, meta *media.Metadata, taskErr error) error
	UpdateThumbnailResult(photoID uint, thumbPath, webPath *string, taskErr error) error
	UpdateIntelligenceResult(photoID uint, phash, dhash *string, monochrome *bool, cropBoxes *string, taskErr error) error
	FindNearDuplicates(photoID uint) ([]models.Photo, error)
	Delete(id uint) error
}

// VideoRepositoryInterface defines the methods for video data operations
type VideoRepositoryInterface interface {
	Create(video *models.Video) error
	ListByEvent(eventID uint) ([]models.Video, error)
	GetByID(id uint) (*models.Video, error)
	GetByYouTubeID(youtubeID string) (*models.Video, error)
	Update(video *models.Video) error
	Delete(id uint) error
}

// SetlistRepositoryInterface defines the methods for setlist data operations
type SetlistRepositoryInterface interface {
	Add(song *models.SetlistSong) error
	ListByBand(bandID uint) ([]models.SetlistSong, error)
	Delete(songID uint) error
}

// SocialRepositoryInterface defines the methods for cross-posting data operations
type SocialRepositoryInterface interface {
	CreateAccount(account *models.SocialAccount) error
	ListAccounts(enabledOnly bool) ([]models.SocialAccount, error)
	GetAccountByID(id uint) (*models.SocialAccount, error)
	UpdateAccount(account *models.SocialAccount) error
	DeleteAccount(id uint) error

	CreatePost(post *models.SocialPost) error
	ListPosts() ([]models.SocialPost, error)
	GetPostByID(id uint) (*models.SocialPost, error)

	CreateResult(result *models.SocialPostResult) error
	UpdateResult(result *models.SocialPostResult) error
}

// UserRepositoryInterface defines the methods for user data operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	ListAll() ([]models.User, error)
	Delete(id uint) error
}

// InviteCodeRepositoryInterface defines the methods for invite code data operations
type InviteCodeRepositoryInterface interface {
	Create(inviteCode *models.InviteCode) error
	GetByCode(code string) (*models.InviteCode, error)
	IncrementUses(id uint) error
	ListAll() ([]models.InviteCode, error)
	Delete(id uint) error
}
