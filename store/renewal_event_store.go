package store

import (
	"errors"
	"time"

	"github.com/vnkhanh/invite-server/models"
	"gorm.io/gorm"
)

// RenewalEventStore keeps the audit trail of processed renewal notifications
// and answers duplicate-payload lookups.
type RenewalEventStore struct {
	db *gorm.DB
}

func NewRenewalEventStore(db *gorm.DB) *RenewalEventStore {
	return &RenewalEventStore{db: db}
}

func (s *RenewalEventStore) Record(ev *models.RenewalEvent) error {
	return s.db.Create(ev).Error
}

// FindRecentByHash returns the newest event with the same payload hash
// recorded after cutoff, or ErrNotFound.
func (s *RenewalEventStore) FindRecentByHash(hash string, cutoff time.Time) (*models.RenewalEvent, error) {
	var ev models.RenewalEvent
	err := s.db.Where("payload_hash = ? AND created_at > ?", hash, cutoff).
		Order("created_at desc").
		First(&ev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}
