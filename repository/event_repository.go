package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/battletechbands/backend/database"
	"github.com/battletechbands/backend/models"
	"github.com/battletechbands/backend/scoring"
)

// EventRepository handles database operations for Event entities
type EventRepository struct {
	DB *gorm.DB
}

// NewEventRepository creates a new instance of EventRepository
func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{DB: db}
}

// Create creates a new event record in the database
func (r *EventRepository) Create(event *models.Event) error {
	now := time.Now().Unix()
	if event.CreatedAt == 0 {
		event.CreatedAt = now
	}
	if event.UpdatedAt == 0 {
		event.UpdatedAt = now
	}
	if event.Status == "" {
		event.Status = database.EventStatusUpcoming
	}
	if event.ScoringVersion == "" {
		event.ScoringVersion = scoring.DefaultVersionTag
	}

	err := r.DB.Create(event).Error
	if err != nil {
		return fmt.Errorf("failed to create event %s: %w", event.Name, err)
	}
	return nil
}

// ListAll retrieves all events, newest first
func (r *EventRepository) ListAll() ([]models.Event, error) {
	var events []models.Event
	err := r.DB.Order("year DESC, name ASC").Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// GetByID retrieves an event by its ID
func (r *EventRepository) GetByID(id uint) (*models.Event, error) {
	var event models.Event
	err := r.DB.First(&event, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get event by ID %d: %w", id, err)
	}
	return &event, nil
}

// GetBySlug retrieves an event by its slug
func (r *EventRepository) GetBySlug(slug string) (*models.Event, error) {
	var event models.Event
	err := r.DB.Where("slug = ?", slug).First(&event).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get event by slug %s: %w", slug, err)
	}
	return &event, nil
}

// Update updates an existing event's descriptive fields. Status changes go
// through UpdateStatus so the lifecycle enum is validated in one place.
func (r *EventRepository) Update(eventID uint, name *string, city *string, year *int, venue *string, date *int64) error {
	updates := map[string]interface{}{
		"updated_at": time.Now().Unix(),
	}
	if name != nil && *name != "" {
		updates["name"] = *name
	}
	if city != nil && *city != "" {
		updates["city"] = *city
	}
	if year != nil {
		updates["year"] = *year
	}
	if venue != nil {
		if *venue == "" { // allow clearing the venue
			updates["venue"] = gorm.Expr("NULL")
		} else {
			updates["venue"] = *venue
		}
	}
	if date != nil {
		updates["date"] = *date
	}

	// if only updated_at is present, no actual fields were changed
	if len(updates) == 1 {
		return nil
	}

	result := r.DB.Model(&models.Event{}).Where("id = ?", eventID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update event ID %d: %w", eventID, result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		r.DB.Model(&models.Event{}).Where("id = ?", eventID).Count(&count)
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
	}
	return nil
}

// UpdateStatus moves an event through its lifecycle
func (r *EventRepository) UpdateStatus(eventID uint, status string) error {
	if !database.ValidEventStatus(status) {
		return fmt.Errorf("invalid event status %q", status)
	}

	result := r.DB.Model(&models.Event{}).Where("id = ?", eventID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now().Unix(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update status for event ID %d: %w", eventID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes an event; bands cascade via the foreign key
func (r *EventRepository) Delete(id uint) error {
	result := r.DB.Delete(&models.Event{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete event ID %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
