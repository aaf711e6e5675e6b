package models

// SocialAccount is a configured destination for cross-posting.
type SocialAccount struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Platform    string `gorm:"not null" json:"platform"` // e.g. "mastodon", "bluesky", "linkedin"
	Handle      string `gorm:"not null" json:"handle"`
	Endpoint    string `gorm:"not null" json:"endpoint"` // API URL posts are delivered to
	AccessToken string `gorm:"not null" json:"-"`
	Enabled     bool   `gorm:"not null;default:true" json:"enabled"`
	CreatedAt   int64  `gorm:"not null" json:"created_at"`
	UpdatedAt   int64  `gorm:"not null" json:"updated_at"`
}

// TableName explicitly sets the table name for GORM.
func (SocialAccount) TableName() string {
	return "social_accounts"
}

// SocialPost is a composed message to be delivered to every enabled account.
type SocialPost struct {
	ID        uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	EventID   *uint   `gorm:"index" json:"event_id,omitempty"` // Nullable
	PhotoID   *uint   `gorm:"index" json:"photo_id,omitempty"` // Nullable, attached image
	Body      string  `gorm:"not null;type:text" json:"body"`
	CreatedAt int64   `gorm:"not null" json:"created_at"`

	// Relationships
	Results []SocialPostResult `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"results,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (SocialPost) TableName() string {
	return "social_posts"
}

// SocialPostResult records one delivery attempt of a post to an account.
type SocialPostResult struct {
	ID        uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	PostID    uint    `gorm:"not null;index" json:"post_id"`
	AccountID uint    `gorm:"not null;index" json:"account_id"`
	Status    string  `gorm:"not null;default:pending" json:"status"`
	RemoteID  *string `gorm:"" json:"remote_id,omitempty"` // Nullable, platform-side post id
	Error     *string `gorm:"" json:"error,omitempty"`     // Nullable
	PostedAt  *int64  `gorm:"" json:"posted_at,omitempty"` // Nullable, Unix timestamp
}

// TableName explicitly sets the table name for GORM.
func (SocialPostResult) TableName() string {
	return "social_post_results"
}
