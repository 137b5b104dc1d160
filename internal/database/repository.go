package database

import (
	"time"

	"github.com/SpeedsterCollective/Tweeks/internal/models"

	"github.com/pkg/errors"

	"gorm.io/gorm"
)

// Repository handles all database operations for session history
type Repository struct {
	db *DB
}

// NewRepository creates a new repository instance
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new session event into the database
func (r *Repository) Create(event *models.SessionEvent) error {
	result := r.db.Create(event)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert session event")
	}
	return nil
}

// GetEventsSince retrieves all session events since a given time, ordered by
// timestamp. The reporter pairs transitions at runtime; the query stays raw.
func (r *Repository) GetEventsSince(since time.Time) ([]*models.SessionEvent, error) {
	var events []*models.SessionEvent
	result := r.db.Where("timestamp >= ?", since).Order("timestamp ASC").Find(&events)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query session events")
	}

	return events, nil
}

// GetRecent retrieves the most recent session events, newest first.
func (r *Repository) GetRecent(limit int) ([]*models.SessionEvent, error) {
	var events []*models.SessionEvent
	result := r.db.Order("timestamp DESC").Limit(limit).Find(&events)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query recent events")
	}

	return events, nil
}

// GetLatestForTarget retrieves the most recent event for one target.
func (r *Repository) GetLatestForTarget(targetName string) (*models.SessionEvent, error) {
	var event models.SessionEvent
	result := r.db.Where("target = ?", targetName).Order("timestamp DESC").First(&event)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(result.Error, "failed to get latest event")
	}
	return &event, nil
}

// DeleteOldEvents deletes events older than a specified date (soft delete)
func (r *Repository) DeleteOldEvents(before time.Time) (int64, error) {
	result := r.db.Where("timestamp < ?", before).Delete(&models.SessionEvent{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to delete old events")
	}
	return result.RowsAffected, nil
}

// CreateErrorLog inserts a new error log into the database
func (r *Repository) CreateErrorLog(errorLog *models.ErrorLog) error {
	result := r.db.Create(errorLog)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert error log")
	}
	return nil
}

// Clear removes all session events from the database
func (r *Repository) Clear() error {
	result := r.db.Exec("DELETE FROM session_events")
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to clear session events")
	}
	return nil
}
